package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	dataDir := t.TempDir()

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), dataDir)
	require.NoError(t, err)

	want := DefaultConfig()
	want.DataDir = dataDir
	assert.Equal(t, &want, cfg)
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.Toast.DefaultDuration)
	assert.Equal(t, 5, cfg.Toast.MaxActive)
	assert.True(t, cfg.History.Enabled)
}

func TestLoad_OverridesAndKeepsUnsetDefaults(t *testing.T) {
	path := writeConfig(t, `
toast:
  default_duration: 3s
  max_active: 0
server:
  addr: ":9000"
  allowed_origins:
    - https://example.com
  trust_proxy: true
history:
  enabled: false
contact:
  submit_delay: 250ms
tui:
  theme: gruvbox
`)

	cfg, err := Load(path, t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, cfg.Toast.DefaultDuration)
	assert.Equal(t, 0, cfg.Toast.MaxActive)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, []string{"https://example.com"}, cfg.Server.AllowedOrigins)
	assert.True(t, cfg.Server.TrustProxy)
	assert.False(t, cfg.History.Enabled)
	assert.Equal(t, 250*time.Millisecond, cfg.Contact.SubmitDelay)
	assert.Equal(t, "gruvbox", cfg.TUI.Theme)

	// untouched keys keep defaults
	defaults := DefaultConfig()
	assert.Equal(t, defaults.Server.ContactBurst, cfg.Server.ContactBurst)
	assert.False(t, defaults.Server.TrustProxy)
	assert.Equal(t, defaults.History.Retention, cfg.History.Retention)
	assert.Equal(t, defaults.Database, cfg.Database)
}

func TestLoad_ParseError(t *testing.T) {
	path := writeConfig(t, "toast: [unclosed")

	_, err := Load(path, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")
}

func TestLoad_InvalidDuration(t *testing.T) {
	path := writeConfig(t, "toast:\n  default_duration: soon\n")

	_, err := Load(path, t.TempDir())
	require.Error(t, err)
}

func TestLoad_ValidationError(t *testing.T) {
	path := writeConfig(t, "tui:\n  theme: neon\n")

	_, err := Load(path, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
	assert.Contains(t, err.Error(), "neon")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "empty data dir", mutate: func(c *Config) { c.DataDir = "" }, wantErr: "data directory"},
		{name: "negative duration", mutate: func(c *Config) { c.Toast.DefaultDuration = -time.Second }, wantErr: "toast.default_duration"},
		{name: "negative cap", mutate: func(c *Config) { c.Toast.MaxActive = -1 }, wantErr: "toast.max_active"},
		{name: "zero burst", mutate: func(c *Config) { c.Server.ContactBurst = 0 }, wantErr: "server.contact_burst"},
		{name: "negative rate", mutate: func(c *Config) { c.Server.ContactRate = -1 }, wantErr: "server.contact_rate"},
		{name: "negative submit delay", mutate: func(c *Config) { c.Contact.SubmitDelay = -time.Second }, wantErr: "contact.submit_delay"},
		{name: "negative retention", mutate: func(c *Config) { c.History.Retention = -time.Hour }, wantErr: "history.retention"},
		{name: "idle above open", mutate: func(c *Config) { c.Database.MaxIdleConns = 10 }, wantErr: "max_idle_conns"},
		{name: "unknown theme", mutate: func(c *Config) { c.TUI.Theme = "neon" }, wantErr: "tui.theme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.DataDir = t.TempDir()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
