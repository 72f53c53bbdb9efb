package toasttest

import (
	"context"
	"sync"

	"github.com/colonyops/toaster/internal/core/toast"
)

// Recorder is an in-memory toast.Recorder that keeps every entry.
type Recorder struct {
	mu      sync.Mutex
	entries []toast.Entry
	Err     error
}

var _ toast.Recorder = (*Recorder)(nil)

func (r *Recorder) Record(_ context.Context, e toast.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return r.Err
	}
	e.ID = int64(len(r.entries) + 1)
	r.entries = append(r.entries, e)
	return nil
}

// Entries returns a copy of the recorded entries in record order.
func (r *Recorder) Entries() []toast.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]toast.Entry, len(r.entries))
	copy(out, r.entries)
	return out
}
