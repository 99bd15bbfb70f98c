package cli

import (
	"fmt"
	"os"

	"github.com/worklane/worklane/internal/config"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// BuildInfo carries version metadata stamped at link time.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root command for the worklane CLI.
func NewRootCommand(build BuildInfo) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "worklane",
		Short:         "worklane - work/break timer service",
		Long:          "Timer state machine and session-aggregation service: per-owner work/break timers, an immutable activity log, and productivity rollups over an HTTP JSON API.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newServeCommand())
	cmd.AddCommand(newStopCommand())
	cmd.AddCommand(newStatusCommand())
	cmd.AddCommand(newReportCommand())
	cmd.AddCommand(newWatchCommand())
	cmd.AddCommand(newVersionCommand(build))

	return cmd
}

func newVersionCommand(build BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("worklane version %s\n", build.Version)
			fmt.Printf("  commit: %s\n", build.Commit)
			fmt.Printf("  built:  %s\n", build.Date)
		},
	}
}

// loadConfig builds the validated runtime configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newLogger builds the process logger at the configured level.
func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
}
