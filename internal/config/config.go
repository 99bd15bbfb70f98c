package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all service configuration. Defaults come from Default();
// WORKLANE_* environment variables override them.
type Config struct {
	Database  DatabaseConfig
	Server    ServerConfig
	Daemon    DaemonConfig
	Projector ProjectorConfig
	Log       LogConfig
}

// DatabaseConfig holds persistence configuration.
type DatabaseConfig struct {
	// Path to the SQLite database file. Empty means the default under
	// ~/.config/worklane.
	Path string `env:"WORKLANE_DB_PATH"`
}

// ServerConfig holds HTTP API configuration.
type ServerConfig struct {
	Host         string        `env:"WORKLANE_HTTP_HOST"`
	Port         int           `env:"WORKLANE_HTTP_PORT"`
	ReadTimeout  time.Duration `env:"WORKLANE_HTTP_READ_TIMEOUT"`
	WriteTimeout time.Duration `env:"WORKLANE_HTTP_WRITE_TIMEOUT"`
}

// DaemonConfig holds daemon process configuration.
type DaemonConfig struct {
	PIDFile string `env:"WORKLANE_PID_FILE"`
}

// ProjectorConfig tunes the elapsed-time projector.
type ProjectorConfig struct {
	// PollInterval is the background re-sync interval. Drift of the local
	// projection is bounded by this.
	PollInterval time.Duration `env:"WORKLANE_PROJECTOR_POLL_INTERVAL"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	// Level is a zerolog level name: debug, info, warn, error.
	Level string `env:"WORKLANE_LOG_LEVEL"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "", // resolved to ~/.config/worklane/worklane.db
		},
		Server: ServerConfig{
			Host:         "localhost",
			Port:         8484,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Daemon: DaemonConfig{
			PIDFile: fmt.Sprintf("/tmp/worklane-%d.pid", os.Getuid()),
		},
		Projector: ProjectorConfig{
			PollInterval: 30 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// New creates a Config from defaults plus environment overrides.
func New() (*Config, error) {
	cfg := Default()
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

// Validate checks if the configuration is usable.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("http port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Host == "" {
		return fmt.Errorf("http host cannot be empty")
	}
	if c.Projector.PollInterval < time.Second {
		return fmt.Errorf("projector poll interval must be at least 1s, got %v", c.Projector.PollInterval)
	}
	if c.Daemon.PIDFile == "" {
		return fmt.Errorf("PID file path cannot be empty")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	return nil
}

// Addr returns the host:port the HTTP server binds to.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// String returns a printable summary of the config.
func (c *Config) String() string {
	return fmt.Sprintf(`Configuration:
  Database:
    Path: %s
  Server:
    Addr: %s
  Daemon:
    PID File: %s
  Projector:
    Poll Interval: %v
  Log:
    Level: %s`,
		c.Database.Path,
		c.Addr(),
		c.Daemon.PIDFile,
		c.Projector.PollInterval,
		c.Log.Level,
	)
}
