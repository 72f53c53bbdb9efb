package commands

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/toaster/internal/core/config"
	"github.com/colonyops/toaster/internal/core/contact"
	"github.com/colonyops/toaster/internal/core/toast"
	"github.com/colonyops/toaster/internal/server"
	"github.com/colonyops/toaster/internal/toaster"
)

func newPushFixture(t *testing.T) (*toast.Store, *cli.Command, *bytes.Buffer, string) {
	t.Helper()

	store := toast.NewStore(toast.StoreOptions{DefaultDuration: time.Hour})
	t.Cleanup(store.Close)

	srv := server.New(server.Options{ContactRate: 10, ContactBurst: 10}, server.Deps{
		Toasts:  store,
		Contact: contact.NewService(store, contact.LogSubmitter{}, "support@example.com"),
	})
	t.Cleanup(srv.Close)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	cfg := config.DefaultConfig()
	var buf bytes.Buffer
	root := &cli.Command{Name: "toaster", Writer: &buf, ErrWriter: &buf}
	NewPushCmd(&Flags{Config: &cfg}, &toaster.App{Config: &cfg}).Register(root)

	return store, root, &buf, ts.URL
}

func TestPush_flags(t *testing.T) {
	store, root, buf, url := newPushFixture(t)

	err := root.Run(context.Background(), []string{
		"toaster", "push", "--server", url,
		"--kind", "success", "--title", "Deployed", "--detail", "v1.2.0", "--duration", "3s",
	})
	require.NoError(t, err)

	id := strings.TrimSpace(buf.String())
	n, ok := store.Get(id)
	require.True(t, ok)
	assert.Equal(t, toast.KindSuccess, n.Kind)
	assert.Equal(t, "Deployed", n.Title)
	assert.Equal(t, "v1.2.0", n.Detail)
	assert.Equal(t, 3*time.Second, n.Duration)
}

func TestPush_defaultDuration(t *testing.T) {
	store, root, buf, url := newPushFixture(t)

	require.NoError(t, root.Run(context.Background(), []string{"toaster", "push", "--server", url, "--title", "Hello"}))

	n, ok := store.Get(strings.TrimSpace(buf.String()))
	require.True(t, ok)
	assert.Equal(t, toast.KindInfo, n.Kind)
	assert.Equal(t, time.Hour, n.Duration)
}

func TestPush_file(t *testing.T) {
	store, root, buf, url := newPushFixture(t)

	path := filepath.Join(t.TempDir(), "toast.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"kind":"warning","title":"Disk almost full","duration_ms":1500}`), 0o644))

	require.NoError(t, root.Run(context.Background(), []string{"toaster", "push", "--server", url, "-f", path}))

	n, ok := store.Get(strings.TrimSpace(buf.String()))
	require.True(t, ok)
	assert.Equal(t, toast.KindWarning, n.Kind)
	assert.Equal(t, 1500*time.Millisecond, n.Duration)
}

func TestPush_rejected(t *testing.T) {
	store, root, _, url := newPushFixture(t)

	err := root.Run(context.Background(), []string{"toaster", "push", "--server", url, "--kind", "fatal", "--title", "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
	assert.Zero(t, store.Len())
}

func TestPush_durationRounding(t *testing.T) {
	tests := []struct {
		duration string
		want     time.Duration
	}{
		{duration: "500us", want: time.Millisecond},
		{duration: "1ns", want: time.Millisecond},
		{duration: "1500100us", want: 1501 * time.Millisecond},
		{duration: "2s", want: 2 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.duration, func(t *testing.T) {
			store, root, buf, url := newPushFixture(t)

			require.NoError(t, root.Run(context.Background(), []string{
				"toaster", "push", "--server", url, "--title", "tick", "--duration", tt.duration,
			}))

			n, ok := store.Get(strings.TrimSpace(buf.String()))
			require.True(t, ok)
			assert.Equal(t, tt.want, n.Duration)
		})
	}
}

func TestPush_nonPositiveDuration(t *testing.T) {
	for _, d := range []string{"0s", "-1s"} {
		t.Run(d, func(t *testing.T) {
			store, root, _, url := newPushFixture(t)

			err := root.Run(context.Background(), []string{
				"toaster", "push", "--server", url, "--title", "x", "--duration=" + d,
			})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "--duration must be positive")
			assert.Zero(t, store.Len())
		})
	}
}

func TestPush_baseURL(t *testing.T) {
	cfg := config.DefaultConfig()
	cmd := NewPushCmd(&Flags{}, &toaster.App{Config: &cfg})
	assert.Equal(t, "http://127.0.0.1:7420", cmd.baseURL())

	cmd.server = "http://example.com:9000/"
	assert.Equal(t, "http://example.com:9000", cmd.baseURL())
}
