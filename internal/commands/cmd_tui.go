package commands

import (
	"context"
	"errors"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/toaster/internal/toaster"
	"github.com/colonyops/toaster/internal/tui"
)

type TuiCmd struct {
	flags *Flags
	app   *toaster.App
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags, app *toaster.App) *TuiCmd {
	return &TuiCmd{
		flags: flags,
		app:   app,
	}
}

// Register adds the tui command to the application
func (cmd *TuiCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "tui",
		Usage:     "Open the interactive notification viewer",
		UsageText: "toaster tui",
		Description: `Renders the live toast stack in the bottom-right corner of the terminal.

Keys: s/e/i/w push a sample success, error, info or warning toast; d dismisses
the newest toast; D dismisses all; q quits.`,
		Action: cmd.Run,
	})

	return app
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, _ *cli.Command) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("toaster tui requires an interactive terminal")
	}

	stopProfiler, err := cmd.flags.startProfiler(ctx)
	if err != nil {
		return err
	}
	defer stopProfiler()

	return tui.Run(ctx, cmd.app.Toasts)
}
