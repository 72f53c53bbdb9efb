package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/colonyops/toaster/internal/core/toast"
)

// errorBody is the generic error response.
type errorBody struct {
	Error   string `json:"error"`
	Field   string `json:"field,omitempty"`
	ToastID string `json:"toast_id,omitempty"`
	Fields  any    `json:"fields,omitempty"`
}

// toastJSON is the wire shape of a notification.
type toastJSON struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	Title      string    `json:"title"`
	Detail     string    `json:"detail"`
	DurationMs int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

func toToastJSON(n toast.Notification) toastJSON {
	return toastJSON{
		ID:         n.ID,
		Kind:       string(n.Kind),
		Title:      n.Title,
		Detail:     n.Detail,
		DurationMs: n.Duration.Milliseconds(),
		CreatedAt:  n.CreatedAt.UTC(),
	}
}

func toToastsJSON(ns []toast.Notification) []toastJSON {
	out := make([]toastJSON, 0, len(ns))
	for _, n := range ns {
		out = append(out, toToastJSON(n))
	}
	return out
}

// entryJSON is the wire shape of a history entry.
type entryJSON struct {
	ID        int64     `json:"id"`
	Toast     toastJSON `json:"toast"`
	Reason    string    `json:"reason"`
	RemovedAt time.Time `json:"removed_at"`
}

func toEntryJSON(e toast.Entry) entryJSON {
	return entryJSON{
		ID:        e.ID,
		Toast:     toToastJSON(e.Notification),
		Reason:    string(e.Reason),
		RemovedAt: e.RemovedAt.UTC(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}
