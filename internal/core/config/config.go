// Package config handles configuration loading and validation for toaster.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/colonyops/toaster/internal/core/styles"
)

// Config holds the application configuration.
type Config struct {
	Toast    ToastConfig    `yaml:"toast"`
	Server   ServerConfig   `yaml:"server"`
	Contact  ContactConfig  `yaml:"contact"`
	History  HistoryConfig  `yaml:"history"`
	Database DatabaseConfig `yaml:"database"`
	TUI      TUIConfig      `yaml:"tui"`
	DataDir  string         `yaml:"-"` // set by caller, not from config file
}

// ToastConfig controls the in-memory notification store.
type ToastConfig struct {
	DefaultDuration time.Duration `yaml:"default_duration"`
	MaxActive       int           `yaml:"max_active"` // 0 disables the cap
}

// ServerConfig holds settings for `toaster serve`.
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	ContactRate    float64  `yaml:"contact_rate"`  // contact submissions per second, per client
	ContactBurst   int      `yaml:"contact_burst"` // burst allowance for contact submissions
	// TrustProxy takes the client address from X-Forwarded-For / X-Real-IP.
	// Only enable it behind a reverse proxy that overwrites those headers.
	TrustProxy bool `yaml:"trust_proxy"`
}

// ContactConfig holds settings for the contact form flow.
type ContactConfig struct {
	SubmitDelay  time.Duration `yaml:"submit_delay"`
	SupportEmail string        `yaml:"support_email"`
}

// HistoryConfig controls persistence of removed notifications.
type HistoryConfig struct {
	Enabled       bool          `yaml:"enabled"`
	Retention     time.Duration `yaml:"retention"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

// DatabaseConfig tunes the SQLite connection pool.
type DatabaseConfig struct {
	MaxOpenConns int `yaml:"max_open_conns"`
	MaxIdleConns int `yaml:"max_idle_conns"`
	BusyTimeout  int `yaml:"busy_timeout"` // milliseconds
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme string `yaml:"theme"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Toast: ToastConfig{
			DefaultDuration: 5 * time.Second,
			MaxActive:       5,
		},
		Server: ServerConfig{
			Addr:           "127.0.0.1:7420",
			AllowedOrigins: []string{"*"},
			ContactRate:    0.2,
			ContactBurst:   3,
		},
		Contact: ContactConfig{
			SubmitDelay:  2 * time.Second,
			SupportEmail: "support@example.com",
		},
		History: HistoryConfig{
			Enabled:       true,
			Retention:     7 * 24 * time.Hour,
			SweepInterval: time.Hour,
		},
		Database: DatabaseConfig{
			MaxOpenConns: 4,
			MaxIdleConns: 2,
			BusyTimeout:  5000,
		},
		TUI: TUIConfig{
			Theme: styles.DefaultTheme,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	// Apply defaults for zero values
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Toast.DefaultDuration == 0 {
		c.Toast.DefaultDuration = defaults.Toast.DefaultDuration
	}
	if c.Server.Addr == "" {
		c.Server.Addr = defaults.Server.Addr
	}
	if c.Server.ContactRate == 0 {
		c.Server.ContactRate = defaults.Server.ContactRate
	}
	if c.Server.ContactBurst == 0 {
		c.Server.ContactBurst = defaults.Server.ContactBurst
	}
	if c.Contact.SupportEmail == "" {
		c.Contact.SupportEmail = defaults.Contact.SupportEmail
	}
	if c.History.Retention == 0 {
		c.History.Retention = defaults.History.Retention
	}
	if c.History.SweepInterval == 0 {
		c.History.SweepInterval = defaults.History.SweepInterval
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = defaults.Database.MaxOpenConns
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = defaults.Database.MaxIdleConns
	}
	if c.Database.BusyTimeout == 0 {
		c.Database.BusyTimeout = defaults.Database.BusyTimeout
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = defaults.TUI.Theme
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	if c.Toast.DefaultDuration <= 0 {
		return fmt.Errorf("toast.default_duration must be positive")
	}

	if c.Toast.MaxActive < 0 {
		return fmt.Errorf("toast.max_active cannot be negative")
	}

	if c.Server.ContactRate < 0 {
		return fmt.Errorf("server.contact_rate cannot be negative")
	}

	if c.Server.ContactBurst < 1 {
		return fmt.Errorf("server.contact_burst must be at least 1")
	}

	if c.Contact.SubmitDelay < 0 {
		return fmt.Errorf("contact.submit_delay cannot be negative")
	}

	if c.History.Retention < 0 {
		return fmt.Errorf("history.retention cannot be negative")
	}

	if c.History.SweepInterval < 0 {
		return fmt.Errorf("history.sweep_interval cannot be negative")
	}

	if c.Database.MaxOpenConns < 1 {
		return fmt.Errorf("database.max_open_conns must be at least 1")
	}

	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns cannot exceed database.max_open_conns")
	}

	if c.Database.BusyTimeout < 0 {
		return fmt.Errorf("database.busy_timeout cannot be negative")
	}

	if _, ok := styles.GetPalette(c.TUI.Theme); !ok {
		return fmt.Errorf("tui.theme %q is not a known theme", c.TUI.Theme)
	}

	return nil
}
