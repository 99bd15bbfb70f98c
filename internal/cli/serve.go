package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/worklane/worklane/internal/config"
	"github.com/worklane/worklane/internal/daemon"
	"github.com/worklane/worklane/internal/database"
	"github.com/worklane/worklane/internal/directory"
	"github.com/worklane/worklane/internal/notify"
	"github.com/worklane/worklane/internal/session"
	"github.com/worklane/worklane/internal/stats"
	"github.com/worklane/worklane/internal/timer"
	"github.com/worklane/worklane/internal/web"
	"github.com/worklane/worklane/pkg/clock"

	"github.com/spf13/cobra"
)

const daemonChildEnv = "WORKLANE_DAEMON_CHILD"

func newServeCommand() *cobra.Command {
	var daemonize bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the timer service with its HTTP API",
		Long: `Run the timer service with its HTTP API.

By default the service runs in the foreground. With --daemon the process
forks into the background and records its PID for the stop command.

Environment Variables:
  WORKLANE_DB_PATH                  Database file path
  WORKLANE_HTTP_HOST                HTTP bind host
  WORKLANE_HTTP_PORT                HTTP bind port
  WORKLANE_HTTP_READ_TIMEOUT        HTTP read timeout
  WORKLANE_HTTP_WRITE_TIMEOUT       HTTP write timeout
  WORKLANE_PID_FILE                 PID file path
  WORKLANE_PROJECTOR_POLL_INTERVAL  Projector re-sync interval
  WORKLANE_LOG_LEVEL                debug, info, warn or error`,
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
			if running {
				return fmt.Errorf("worklane is already running (PID: %d)", pid)
			}

			if daemonize && os.Getenv(daemonChildEnv) != "1" {
				return forkDaemon(cfg)
			}

			return runServe(cfg, dm)
		},
	}

	cmd.Flags().BoolVar(&daemonize, "daemon", false, "run in the background")
	return cmd
}

func runServe(cfg *config.Config, dm *daemon.Daemon) error {
	logger := newLogger(cfg)

	db, err := database.Connect(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := dm.WritePID(); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	defer dm.RemovePID()

	clk := clock.NewSystem()
	hub := notify.NewHub()
	dir := directory.New(directory.NewStatic(), logger)
	timers := timer.NewService(db, clk, hub, logger)
	aggregator := stats.New(database.NewEntryStore(db), dir, clk, logger)
	feed := session.NewFeed(database.NewActivityLog(db), database.NewEntryStore(db), dir, logger)
	handler := web.NewHandler(timers, aggregator, feed, hub, logger)
	server := web.NewServer(cfg, handler, logger)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	logger.Info().Str("addr", server.GetAddress()).Msg("worklane serving")

	select {
	case sig := <-sigChan:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-errChan:
		return fmt.Errorf("web server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("error shutting down web server")
	}
	return nil
}

// forkDaemon re-executes the current binary detached from the terminal.
func forkDaemon(cfg *config.Config) error {
	env := os.Environ()
	env = append(env, daemonChildEnv+"=1")

	procAttr := &os.ProcAttr{
		Env:   env,
		Files: []*os.File{nil, nil, nil},
		Sys: &syscall.SysProcAttr{
			Setsid: true,
		},
	}

	process, err := os.StartProcess(os.Args[0], os.Args, procAttr)
	if err != nil {
		return fmt.Errorf("failed to start daemon process: %w", err)
	}

	fmt.Printf("Daemon started successfully (PID: %d)\n", process.Pid)
	fmt.Printf("HTTP API available at: http://%s\n", cfg.Addr())
	return nil
}
