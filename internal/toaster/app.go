// Package toaster wires the notification store, history and contact flow into
// a single application value shared by the CLI commands.
package toaster

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/colonyops/toaster/internal/core/config"
	"github.com/colonyops/toaster/internal/core/contact"
	"github.com/colonyops/toaster/internal/core/toast"
	"github.com/colonyops/toaster/internal/data/db"
	"github.com/colonyops/toaster/internal/data/stores"
)

// App is the central entry point for all toaster operations.
// Commands consume App instead of cherry-picking raw dependencies.
type App struct {
	Toasts  *toast.Store
	History toast.History // nil when history is disabled
	Contact *contact.Service
	Config  *config.Config
	DB      *db.DB
}

// NewApp constructs an App from cfg. database may be nil when history is
// disabled.
func NewApp(cfg *config.Config, database *db.DB) *App {
	app := &App{
		Config: cfg,
		DB:     database,
	}

	opts := toast.StoreOptions{
		DefaultDuration: cfg.Toast.DefaultDuration,
		MaxActive:       cfg.Toast.MaxActive,
	}

	if cfg.History.Enabled && database != nil {
		history := stores.NewHistoryStore(database)
		app.History = history
		opts.Recorder = history
	}

	app.Toasts = toast.NewStore(opts)
	app.Contact = contact.NewService(
		app.Toasts,
		contact.LogSubmitter{Delay: cfg.Contact.SubmitDelay},
		cfg.Contact.SupportEmail,
	)

	return app
}

// Close stops the store. Removals it triggers are still recorded, so Close
// must run before the database is closed.
func (a *App) Close() {
	if a.Toasts != nil {
		a.Toasts.Close()
	}
}

// OpenDatabase opens the history database in cfg.DataDir, creating the
// directory if needed. A corrupted database file is moved aside and a fresh
// one is created in its place.
func OpenDatabase(cfg *config.Config) (*db.DB, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	opts := db.OpenOptions{
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
		BusyTimeout:  cfg.Database.BusyTimeout,
	}

	database, err := db.Open(cfg.DataDir, opts)
	if err == nil {
		return database, nil
	}
	if !stores.IsCorruptionError(err) {
		return nil, err
	}

	log.Warn().Err(err).Str("data_dir", cfg.DataDir).Msg("database corrupted, starting fresh")
	if rerr := stores.RecoverFromCorruption(cfg.DataDir); rerr != nil {
		return nil, fmt.Errorf("recover database: %w", rerr)
	}

	return db.Open(cfg.DataDir, opts)
}
