package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/toaster/internal/toaster"
)

// NewRoot returns the root command with global flags bound to flags and every
// subcommand registered against app. Running it without a subcommand opens
// the TUI. The caller supplies Before/After hooks that populate app.
func NewRoot(flags *Flags, app *toaster.App) *cli.Command {
	root := &cli.Command{
		Name:      "toaster",
		Usage:     "Transient toast notifications",
		UsageText: "toaster [global options] command [command options]",
		Description: `Toaster keeps a short-lived stack of success, error, info and warning
notifications. Each toast disappears on its own after a few seconds or when
dismissed.

Run 'toaster serve' to expose the HTTP API and contact form endpoint.
Run 'toaster' with no arguments to open the interactive viewer.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("TOASTER_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file, or - for stderr",
				Sources:     cli.EnvVars("TOASTER_LOG_FILE"),
				Value:       DefaultLogFile(),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("TOASTER_CONFIG"),
				Value:       DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("TOASTER_DATA_DIR"),
				Value:       DefaultDataDir(),
				Destination: &flags.DataDir,
			},
			&cli.IntFlag{
				Name:        "profiler-port",
				Usage:       "enable pprof HTTP endpoint on specified port (e.g., 6060)",
				Sources:     cli.EnvVars("TOASTER_PROFILER_PORT"),
				Destination: &flags.ProfilerPort,
			},
		},
	}

	tuiCmd := NewTuiCmd(flags, app)

	root = NewServeCmd(flags, app).Register(root)
	root = tuiCmd.Register(root)
	root = NewPushCmd(flags, app).Register(root)
	root = NewHistoryCmd(flags, app).Register(root)
	root = NewConfigValidateCmd(flags).Register(root)

	root.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'toaster --help' for usage", c.Args().First())
		}
		return tuiCmd.Run(ctx, c)
	}

	return root
}
