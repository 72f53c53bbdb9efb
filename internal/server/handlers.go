package server

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/colonyops/toaster/internal/core/contact"
	"github.com/colonyops/toaster/internal/core/logging"
	"github.com/colonyops/toaster/internal/core/toast"
)

const maxBodyBytes = 64 << 10

// maxDurationMs is the largest duration_ms that fits in a time.Duration.
const maxDurationMs = math.MaxInt64 / int64(time.Millisecond)

type handlers struct {
	toasts    *toast.Store
	history   toast.History
	contact   *contact.Service
	keepAlive time.Duration
}

func (h *handlers) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handlers) listToasts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"toasts": toToastsJSON(h.toasts.List())})
}

// createToastRequest is the body of POST /api/toasts. DurationMs is a pointer
// so that an omitted value selects the store default while an explicit zero
// is rejected.
type createToastRequest struct {
	Kind       string `json:"kind"`
	Title      string `json:"title"`
	Detail     string `json:"detail"`
	DurationMs *int64 `json:"duration_ms"`
}

func (h *handlers) createToast(w http.ResponseWriter, r *http.Request) {
	var req createToastRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in := toast.Input{Kind: toast.Kind(req.Kind), Title: req.Title, Detail: req.Detail}
	if req.DurationMs != nil {
		if *req.DurationMs > maxDurationMs {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "duration_ms is too large", Field: "duration"})
			return
		}
		in = in.WithDuration(time.Duration(*req.DurationMs) * time.Millisecond)
	}

	id, err := h.toasts.Enqueue(in)
	if err != nil {
		var invalid *toast.InvalidInputError
		switch {
		case errors.As(err, &invalid):
			writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error(), Field: invalid.Field})
		case errors.Is(err, toast.ErrClosed):
			writeError(w, http.StatusServiceUnavailable, "toast store is closed")
		default:
			writeError(w, http.StatusInternalServerError, "failed to enqueue toast")
		}
		return
	}

	logging.Component("server").Debug().Ctx(logging.WithToastID(r.Context(), id)).Msg("toast created")
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *handlers) dismissToast(w http.ResponseWriter, r *http.Request) {
	h.toasts.Remove(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) dismissAll(w http.ResponseWriter, _ *http.Request) {
	h.toasts.DismissAll()
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) listHistory(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		writeError(w, http.StatusNotFound, "history is disabled")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	entries, err := h.history.List(r.Context(), limit)
	if err != nil {
		logging.Component("server").Error().Ctx(r.Context()).Err(err).Msg("list history")
		writeError(w, http.StatusInternalServerError, "failed to list history")
		return
	}

	total, err := h.history.Count(r.Context())
	if err != nil {
		logging.Component("server").Error().Ctx(r.Context()).Err(err).Msg("count history")
		writeError(w, http.StatusInternalServerError, "failed to count history")
		return
	}

	out := make([]entryJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryJSON(e))
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": out, "total": total})
}

func (h *handlers) clearHistory(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		writeError(w, http.StatusNotFound, "history is disabled")
		return
	}
	if err := h.history.Clear(r.Context()); err != nil {
		logging.Component("server").Error().Ctx(r.Context()).Err(err).Msg("clear history")
		writeError(w, http.StatusInternalServerError, "failed to clear history")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) submitContact(w http.ResponseWriter, r *http.Request) {
	var form contact.Form
	if err := decodeJSON(w, r, &form); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := h.contact.Submit(r.Context(), form)
	if err != nil {
		var invalid *contact.ValidationError
		switch {
		case errors.As(err, &invalid):
			writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "invalid contact form", Fields: invalid.Fields})
		case id != "":
			writeJSON(w, http.StatusBadGateway, errorBody{Error: "failed to send message", ToastID: id})
		default:
			writeError(w, http.StatusServiceUnavailable, "failed to send message")
		}
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"toast_id": id})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
