package cli

import (
	"fmt"

	"github.com/worklane/worklane/internal/daemon"

	"github.com/spf13/cobra"
)

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show service status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			dm := daemon.New(cfg.Daemon.PIDFile)
			running, pid, err := dm.IsRunning()
			if err != nil {
				return fmt.Errorf("failed to check daemon status: %w", err)
			}

			if !running {
				fmt.Println("Status: Not running")
				return nil
			}

			fmt.Printf("Status: Running (PID: %d)\n", pid)
			fmt.Printf("HTTP API: http://%s\n", cfg.Addr())
			fmt.Printf("Database: %s\n", cfg.Database.Path)
			return nil
		},
	}
}
