package cli

import (
	"fmt"

	"github.com/worklane/worklane/internal/database"
	"github.com/worklane/worklane/internal/directory"
	"github.com/worklane/worklane/internal/stats"
	"github.com/worklane/worklane/pkg/clock"

	"github.com/spf13/cobra"
)

func newReportCommand() *cobra.Command {
	var (
		ownerID    string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "report [period]",
		Short: "Generate a productivity report (period: day, week, month)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			periodType := "day"
			if len(args) > 0 {
				periodType = args[0]
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := newLogger(cfg)

			db, err := database.Connect(cfg.Database.Path)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer db.Close()

			if err := db.Initialize(); err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}

			clk := clock.NewSystem()
			dir := directory.New(directory.NewStatic(), logger)
			aggregator := stats.New(database.NewEntryStore(db), dir, clk, logger)

			period, err := aggregator.Period(periodType)
			if err != nil {
				return err
			}

			snapshot, err := aggregator.Snapshot(ownerID, period)
			if err != nil {
				return fmt.Errorf("failed to generate report: %w", err)
			}

			if jsonOutput {
				out, err := stats.FormatJSON(snapshot)
				if err != nil {
					return err
				}
				fmt.Println(out)
				return nil
			}

			fmt.Print(stats.FormatText(snapshot))
			return nil
		},
	}

	cmd.Flags().StringVar(&ownerID, "owner", "local", "owner whose entries to report on")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "emit JSON instead of text")
	return cmd
}
