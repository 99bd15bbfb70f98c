package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, 30*time.Second, cfg.Projector.PollInterval)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("WORKLANE_DB_PATH", "/tmp/custom.db")
	t.Setenv("WORKLANE_HTTP_PORT", "9999")
	t.Setenv("WORKLANE_PROJECTOR_POLL_INTERVAL", "45s")
	t.Setenv("WORKLANE_LOG_LEVEL", "debug")

	cfg, err := New()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "/tmp/custom.db", cfg.Database.Path)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, 45*time.Second, cfg.Projector.PollInterval)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "localhost:9999", cfg.Addr())
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port too low", func(c *Config) { c.Server.Port = 0 }},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }},
		{"empty host", func(c *Config) { c.Server.Host = "" }},
		{"poll interval too small", func(c *Config) { c.Projector.PollInterval = 100 * time.Millisecond }},
		{"empty pid file", func(c *Config) { c.Daemon.PIDFile = "" }},
		{"unknown log level", func(c *Config) { c.Log.Level = "chatty" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
