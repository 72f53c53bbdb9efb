package toasttest

import (
	"context"
	"slices"
	"time"

	"github.com/colonyops/toaster/internal/core/toast"
)

// History is an in-memory toast.History built on Recorder.
type History struct {
	Recorder
}

var _ toast.History = (*History)(nil)

// List returns up to limit entries, most recently removed first. A
// non-positive limit means toast.DefaultHistoryLimit.
func (h *History) List(_ context.Context, limit int) ([]toast.Entry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.Err != nil {
		return nil, h.Err
	}

	if limit <= 0 {
		limit = toast.DefaultHistoryLimit
	}

	out := slices.Clone(h.entries)
	slices.Reverse(out)
	if len(out) > limit {
		out = out[:limit]
	}
	if out == nil {
		out = []toast.Entry{}
	}
	return out, nil
}

func (h *History) Count(context.Context) (int64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.Err != nil {
		return 0, h.Err
	}
	return int64(len(h.entries)), nil
}

func (h *History) Clear(context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.Err != nil {
		return h.Err
	}
	h.entries = nil
	return nil
}

func (h *History) PruneBefore(_ context.Context, before time.Time) (int64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.Err != nil {
		return 0, h.Err
	}
	kept := h.entries[:0]
	for _, e := range h.entries {
		if !e.RemovedAt.Before(before) {
			kept = append(kept, e)
		}
	}
	n := int64(len(h.entries) - len(kept))
	h.entries = kept
	return n, nil
}
