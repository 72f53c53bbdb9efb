package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/toaster/internal/core/config"
)

func validTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.Server.AllowedOrigins = []string{"https://example.com"}
	return &cfg
}

func TestConfigValidate_validJSON(t *testing.T) {
	var buf bytes.Buffer
	flags := &Flags{Config: validTestConfig(t)}

	app := &cli.Command{Name: "toaster", Writer: &buf}
	NewConfigValidateCmd(flags).Register(app)

	err := app.Run(context.Background(), []string{"toaster", "config", "validate", "--format", "json"})
	require.NoError(t, err)

	var report validationReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	assert.True(t, report.Valid)
	assert.Empty(t, report.Errors)
	assert.Empty(t, report.Warnings)
}

func TestConfigValidate_validText(t *testing.T) {
	var buf bytes.Buffer
	flags := &Flags{Config: validTestConfig(t)}

	app := &cli.Command{Name: "toaster", Writer: &buf}
	NewConfigValidateCmd(flags).Register(app)

	err := app.Run(context.Background(), []string{"toaster", "config", "validate"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Configuration is valid")
}

func TestBuildReport(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*config.Config)
		wantValid  bool
		wantFields []string
		wantWarn   string
	}{
		{
			name:      "valid",
			mutate:    func(*config.Config) {},
			wantValid: true,
		},
		{
			name: "bad listen address and email",
			mutate: func(c *config.Config) {
				c.Server.Addr = "no-port"
				c.Contact.SupportEmail = "nope"
			},
			wantFields: []string{"server.addr", "contact.support_email"},
		},
		{
			name: "wildcard origin warns",
			mutate: func(c *config.Config) {
				c.Server.AllowedOrigins = []string{"*"}
			},
			wantValid: true,
			wantWarn:  "allowed_origins[0]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTestConfig(t)
			tt.mutate(cfg)

			report := buildReport(cfg, "")
			assert.Equal(t, tt.wantValid, report.Valid)

			var fields []string
			for _, e := range report.Errors {
				fields = append(fields, e.Field)
			}
			for _, f := range tt.wantFields {
				assert.Contains(t, fields, f)
			}

			if tt.wantWarn != "" {
				require.NotEmpty(t, report.Warnings)
				assert.Equal(t, tt.wantWarn, report.Warnings[0].Item)
			}
		})
	}
}

func TestWriteReportText_invalid(t *testing.T) {
	var buf bytes.Buffer
	writeReportText(&buf, validationReport{
		Errors: []validationError{{Field: "server.addr", Message: "invalid listen address"}},
	})

	out := buf.String()
	assert.Contains(t, out, "server.addr: invalid listen address")
	assert.Contains(t, out, "1 error(s) found")
}
