package cli

import (
	"fmt"

	"github.com/worklane/worklane/internal/daemon"

	"github.com/spf13/cobra"
)

func newStopCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the background service",
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
				fmt.Println("worklane is not running")
				return nil
			}

			fmt.Printf("Stopping worklane (PID: %d)...\n", pid)
			if err := dm.Stop(); err != nil {
				return err
			}
			fmt.Println("Stopped")
			return nil
		},
	}
}
