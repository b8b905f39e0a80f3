package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8090, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Gateway.Timeout)
	assert.Equal(t, 5, cfg.Console.RecentLimit)
	assert.Equal(t, "remote", cfg.Console.Scanner)
	assert.False(t, cfg.Legacy.Enabled)
	assert.False(t, cfg.Legacy.Postgres.MigrateDown)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoader_ConfigPath(t *testing.T) {
	assert.Equal(t, DefaultPath, NewLoader().ConfigPath())
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
server:
  port: 9000
gateway:
  base_url: http://events.college.local
  timeout: 3s
  sniff_legacy_errors: true
legacy:
  enabled: true
  backend: postgres
  postgres:
    master_dsn: postgres://u:p@db/events
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	t.Setenv("EVENTDESK_SERVER_PORT", "9100")
	t.Setenv("EVENTDESK_GATEWAY_SESSION_COOKIE", "abc")
	t.Setenv("EVENTDESK_LEGACY_POSTGRES_MIGRATE_DOWN", "true")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "http://events.college.local", cfg.Gateway.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Gateway.Timeout)
	assert.True(t, cfg.Gateway.SniffLegacyErrors)
	assert.Equal(t, "abc", cfg.Gateway.SessionCookie)
	assert.Equal(t, "postgres", cfg.Legacy.Backend)
	assert.Equal(t, "0.0.0.0:9100", cfg.Server.Addr())
	assert.True(t, cfg.Legacy.Postgres.MigrateDown)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:  ServerConfig{Port: 8090},
			Gateway: GatewayConfig{BaseURL: "http://x"},
			Console: ConsoleConfig{Scanner: "remote"},
		}
	}
	require.NoError(t, base().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no base url", func(c *Config) { c.Gateway.BaseURL = "" }},
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"bad backend", func(c *Config) { c.Legacy.Enabled = true; c.Legacy.Backend = "mongo" }},
		{"postgres without dsn", func(c *Config) { c.Legacy.Enabled = true; c.Legacy.Backend = "postgres" }},
		{"fallback without legacy", func(c *Config) { c.Legacy.Fallback = true }},
		{"short csrf key", func(c *Config) { c.Console.CSRFKey = "short" }},
		{"mail without from", func(c *Config) { c.Mail.Enabled = true; c.Mail.Host = "smtp" }},
		{"negative recent limit", func(c *Config) { c.Console.RecentLimit = -1 }},
		{"unknown scanner", func(c *Config) { c.Console.Scanner = "camera" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}
