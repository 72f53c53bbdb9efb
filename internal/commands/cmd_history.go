package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/toaster/internal/core/styles"
	"github.com/colonyops/toaster/internal/core/toast"
	"github.com/colonyops/toaster/internal/toaster"
	"github.com/colonyops/toaster/pkg/iojson"
)

var errHistoryDisabled = errors.New("history is disabled (set history.enabled: true in the config)")

type HistoryCmd struct {
	flags *Flags
	app   *toaster.App

	// flags
	limit      int
	jsonOutput bool
	olderThan  time.Duration
}

// NewHistoryCmd creates a new history command
func NewHistoryCmd(flags *Flags, app *toaster.App) *HistoryCmd {
	return &HistoryCmd{flags: flags, app: app}
}

// Register adds the history command to the application
func (cmd *HistoryCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "history",
		Usage: "Inspect and maintain removed notifications",
		Commands: []*cli.Command{
			{
				Name:      "ls",
				Usage:     "List removed notifications, newest first",
				UsageText: "toaster history ls [--limit N] [--json]",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:        "limit",
						Aliases:     []string{"n"},
						Usage:       "maximum number of entries to show",
						Value:       20,
						Destination: &cmd.limit,
					},
					&cli.BoolFlag{
						Name:        "json",
						Usage:       "output as JSON",
						Destination: &cmd.jsonOutput,
					},
				},
				Action: cmd.runList,
			},
			{
				Name:      "clear",
				Usage:     "Delete all history entries",
				UsageText: "toaster history clear",
				Action:    cmd.runClear,
			},
			{
				Name:      "prune",
				Usage:     "Delete history entries older than a cutoff",
				UsageText: "toaster history prune [--older-than 168h]",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:        "older-than",
						Usage:       "age cutoff (defaults to history.retention)",
						Destination: &cmd.olderThan,
					},
				},
				Action: cmd.runPrune,
			},
		},
	})

	return app
}

func (cmd *HistoryCmd) history() (toast.History, error) {
	if cmd.app.History == nil {
		return nil, errHistoryDisabled
	}
	return cmd.app.History, nil
}

func (cmd *HistoryCmd) runList(ctx context.Context, c *cli.Command) error {
	h, err := cmd.history()
	if err != nil {
		return err
	}

	entries, err := h.List(ctx, cmd.limit)
	if err != nil {
		return fmt.Errorf("list history: %w", err)
	}

	out := c.Root().Writer

	if cmd.jsonOutput {
		items := make([]historyItem, 0, len(entries))
		for _, e := range entries {
			items = append(items, newHistoryItem(e))
		}
		return iojson.WriteWith(out, c.Root().ErrWriter, items)
	}

	if len(entries) == 0 {
		_, _ = fmt.Fprintln(out, styles.MutedStyle.Render("No history"))
		return nil
	}

	writeHistoryTable(out, entries, time.Now())
	return nil
}

func (cmd *HistoryCmd) runClear(ctx context.Context, c *cli.Command) error {
	h, err := cmd.history()
	if err != nil {
		return err
	}

	n, err := h.Count(ctx)
	if err != nil {
		return fmt.Errorf("count history: %w", err)
	}
	if err := h.Clear(ctx); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}

	_, _ = fmt.Fprintf(c.Root().Writer, "%s Cleared %d entries\n", styles.IconSuccess, n)
	return nil
}

func (cmd *HistoryCmd) runPrune(ctx context.Context, c *cli.Command) error {
	h, err := cmd.history()
	if err != nil {
		return err
	}

	olderThan := cmd.olderThan
	if olderThan <= 0 {
		olderThan = cmd.app.Config.History.Retention
	}
	if olderThan <= 0 {
		return errors.New("no cutoff: pass --older-than or set history.retention")
	}

	n, err := h.PruneBefore(ctx, time.Now().Add(-olderThan))
	if err != nil {
		return fmt.Errorf("prune history: %w", err)
	}

	_, _ = fmt.Fprintf(c.Root().Writer, "%s Pruned %d entries older than %s\n", styles.IconSuccess, n, olderThan)
	return nil
}

type historyItem struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	Title      string    `json:"title"`
	Detail     string    `json:"detail,omitempty"`
	DurationMs int64     `json:"duration_ms"`
	Reason     string    `json:"reason"`
	CreatedAt  time.Time `json:"created_at"`
	RemovedAt  time.Time `json:"removed_at"`
}

func newHistoryItem(e toast.Entry) historyItem {
	n := e.Notification
	return historyItem{
		ID:         n.ID,
		Kind:       string(n.Kind),
		Title:      n.Title,
		Detail:     n.Detail,
		DurationMs: n.Duration.Milliseconds(),
		Reason:     string(e.Reason),
		CreatedAt:  n.CreatedAt,
		RemovedAt:  e.RemovedAt,
	}
}

func writeHistoryTable(out io.Writer, entries []toast.Entry, now time.Time) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "REMOVED\tKIND\tREASON\tTITLE")

	for _, e := range entries {
		ago := now.Sub(e.RemovedAt).Truncate(time.Second)
		_, _ = fmt.Fprintf(w, "%s ago\t%s %s\t%s\t%s\n",
			ago, kindIcon(e.Notification.Kind), e.Notification.Kind, e.Reason, e.Notification.Title)
	}

	_ = w.Flush()
}

func kindIcon(k toast.Kind) string {
	switch k {
	case toast.KindSuccess:
		return styles.IconSuccess
	case toast.KindError:
		return styles.IconError
	case toast.KindWarning:
		return styles.IconWarning
	default:
		return styles.IconInfo
	}
}
