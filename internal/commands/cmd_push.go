package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/toaster/internal/toaster"
	"github.com/colonyops/toaster/pkg/iojson"
)

// PushInput is the JSON body accepted by `toaster push -f`.
type PushInput struct {
	Kind       string `json:"kind"`
	Title      string `json:"title"`
	Detail     string `json:"detail,omitempty"`
	DurationMs *int64 `json:"duration_ms,omitempty"`
}

type PushCmd struct {
	flags *Flags
	app   *toaster.App

	// flags
	server   string
	kind     string
	title    string
	detail   string
	duration time.Duration
	reader   iojson.FileReader[PushInput]

	client *http.Client
}

// NewPushCmd creates a new push command
func NewPushCmd(flags *Flags, app *toaster.App) *PushCmd {
	return &PushCmd{
		flags:  flags,
		app:    app,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Register adds the push command to the application
func (cmd *PushCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "push",
		Usage:     "Send a toast to a running server",
		UsageText: "toaster push --title TEXT [--kind success|error|info|warning] [--detail TEXT] [--duration 5s]\n   toaster push -f toast.json",
		Description: `Posts a notification to 'toaster serve' and prints its id.

Without --title the toast is read as JSON from --file or stdin:
  {"kind": "success", "title": "Deployed", "detail": "v1.2.0", "duration_ms": 3000}`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "server",
				Usage:       "server base URL (defaults to http://<server.addr>)",
				Sources:     cli.EnvVars("TOASTER_SERVER"),
				Destination: &cmd.server,
			},
			&cli.StringFlag{
				Name:        "kind",
				Aliases:     []string{"k"},
				Usage:       "toast kind (success, error, info, warning)",
				Value:       "info",
				Destination: &cmd.kind,
			},
			&cli.StringFlag{
				Name:        "title",
				Aliases:     []string{"t"},
				Usage:       "toast title",
				Destination: &cmd.title,
			},
			&cli.StringFlag{
				Name:        "detail",
				Aliases:     []string{"d"},
				Usage:       "secondary text",
				Destination: &cmd.detail,
			},
			&cli.DurationFlag{
				Name:        "duration",
				Usage:       "display time (server default when unset)",
				Destination: &cmd.duration,
			},
			cmd.reader.Flag(),
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *PushCmd) run(ctx context.Context, c *cli.Command) error {
	in, err := cmd.input(c)
	if err != nil {
		return err
	}

	id, err := cmd.push(ctx, cmd.baseURL(), in)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(c.Root().Writer, id)
	return nil
}

func (cmd *PushCmd) input(c *cli.Command) (PushInput, error) {
	if cmd.title == "" {
		return cmd.reader.Read()
	}

	in := PushInput{Kind: cmd.kind, Title: cmd.title, Detail: cmd.detail}
	if c.IsSet("duration") {
		if cmd.duration <= 0 {
			return in, fmt.Errorf("--duration must be positive, got %s", cmd.duration)
		}
		// Round up so sub-millisecond values do not truncate to zero.
		ms := cmd.duration.Milliseconds()
		if cmd.duration%time.Millisecond != 0 {
			ms++
		}
		in.DurationMs = &ms
	}
	return in, nil
}

func (cmd *PushCmd) baseURL() string {
	if cmd.server != "" {
		return strings.TrimRight(cmd.server, "/")
	}
	if cmd.app.Config != nil {
		return "http://" + cmd.app.Config.Server.Addr
	}
	return "http://127.0.0.1:7420"
}

func (cmd *PushCmd) push(ctx context.Context, baseURL string, in PushInput) (string, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return "", fmt.Errorf("encode toast: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/api/toasts", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := cmd.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("post toast: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var out struct {
		ID    string `json:"id"`
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("server rejected toast (status %d): %s", resp.StatusCode, out.Error)
	}
	return out.ID, nil
}
