package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/toaster/internal/server"
	"github.com/colonyops/toaster/internal/toaster"
	"github.com/colonyops/toaster/internal/toaster/sweep"
)

type ServeCmd struct {
	flags *Flags
	app   *toaster.App

	// flags
	addr string
}

// NewServeCmd creates a new serve command
func NewServeCmd(flags *Flags, app *toaster.App) *ServeCmd {
	return &ServeCmd{flags: flags, app: app}
}

// Register adds the serve command to the application
func (cmd *ServeCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "serve",
		Usage:     "Serve the notification API",
		UsageText: "toaster serve [--addr host:port]",
		Description: `Starts the HTTP API for producing, listing and streaming toast notifications,
and accepts contact form submissions.

Removed notifications are written to history unless history is disabled in the
config. Old history entries are swept in the background.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address (overrides server.addr)",
				Sources:     cli.EnvVars("TOASTER_ADDR"),
				Destination: &cmd.addr,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ServeCmd) run(ctx context.Context, c *cli.Command) error {
	cfg := cmd.app.Config

	addr := cfg.Server.Addr
	if cmd.addr != "" {
		addr = cmd.addr
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	stopProfiler, err := cmd.flags.startProfiler(ctx)
	if err != nil {
		return err
	}
	defer stopProfiler()

	if cmd.app.History != nil && cfg.History.Retention > 0 {
		sweepCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go sweep.Start(sweepCtx, cmd.app.History, cfg.History.Retention, cfg.History.SweepInterval)
	}

	srv := server.New(server.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		ContactRate:    cfg.Server.ContactRate,
		ContactBurst:   cfg.Server.ContactBurst,
		TrustProxy:     cfg.Server.TrustProxy,
	}, server.Deps{
		Toasts:  cmd.app.Toasts,
		History: cmd.app.History,
		Contact: cmd.app.Contact,
	})
	defer srv.Close()

	log.Info().
		Str("addr", addr).
		Bool("history", cmd.app.History != nil).
		Msg("serving notifications")
	_, _ = fmt.Fprintf(c.Root().ErrWriter, "toaster listening on http://%s\n", addr)

	return srv.ListenAndServe(ctx, addr)
}
