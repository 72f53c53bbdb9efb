package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/colonyops/toaster/internal/core/logging"
	"github.com/colonyops/toaster/internal/core/toast"
)

// streamBuffer bounds the events queued for one SSE client. A client that
// falls this far behind is disconnected and expected to reconnect for a
// fresh snapshot.
const streamBuffer = 64

type removedJSON struct {
	Toast  toastJSON `json:"toast"`
	Reason string    `json:"reason"`
}

// stream serves store changes as Server-Sent Events: a snapshot event first,
// then one added or removed event per change.
func (h *handlers) stream(w http.ResponseWriter, r *http.Request) {
	log := logging.Component("server")

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	events := make(chan toast.Event, streamBuffer)
	overflow := make(chan struct{})
	var overflowed bool

	// Subscribers run on the store's delivery path and must not block.
	unsubscribe := h.toasts.Subscribe(func(ev toast.Event) {
		if overflowed {
			return
		}
		select {
		case events <- ev:
		default:
			overflowed = true
			close(overflow)
		}
	})
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	snapshot := h.toasts.List()
	if err := writeEvent(w, "snapshot", map[string]any{"toasts": toToastsJSON(snapshot)}); err != nil {
		return
	}
	flusher.Flush()

	// The subscription opens before the snapshot is taken, so toasts added in
	// between arrive both in the snapshot and as an added event.
	seen := newSnapshotFilter(snapshot)

	keepAlive := time.NewTicker(h.keepAlive)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-overflow:
			log.Warn().Ctx(r.Context()).Msg("sse client fell behind, closing stream")
			return
		case <-keepAlive.C:
			if _, err := fmt.Fprint(w, ": keepalive\n\n"); err != nil {
				return
			}
		case ev := <-events:
			if seen.skip(ev) {
				continue
			}
			var err error
			switch ev.Type {
			case toast.EventAdded:
				err = writeEvent(w, string(ev.Type), toToastJSON(ev.Notification))
			case toast.EventRemoved:
				err = writeEvent(w, string(ev.Type), removedJSON{
					Toast:  toToastJSON(ev.Notification),
					Reason: string(ev.Reason),
				})
			}
			if err != nil {
				return
			}
		}
		flusher.Flush()
	}
}

// snapshotFilter drops added events for toasts already sent in the snapshot.
type snapshotFilter map[string]struct{}

func newSnapshotFilter(snapshot []toast.Notification) snapshotFilter {
	f := make(snapshotFilter, len(snapshot))
	for _, n := range snapshot {
		f[n.ID] = struct{}{}
	}
	return f
}

func (f snapshotFilter) skip(ev toast.Event) bool {
	if len(f) == 0 {
		return false
	}
	id := ev.Notification.ID
	if _, ok := f[id]; !ok {
		return false
	}
	// IDs are never reused, so each one matches at most once.
	delete(f, id)
	return ev.Type == toast.EventAdded
}

func writeEvent(w http.ResponseWriter, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data)
	return err
}
