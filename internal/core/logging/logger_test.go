package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })

	logger := Component("server")
	ctx := WithRequestID(context.Background(), "req-9")
	logger.Info().Ctx(ctx).Msg("handled")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "server", entry["cmp"])
	assert.Equal(t, "handled", entry["message"])
	assert.Equal(t, "req-9", entry["request_id"])
	assert.NotContains(t, entry, "toast_id")
}
