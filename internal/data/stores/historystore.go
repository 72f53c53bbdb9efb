package stores

import (
	"context"
	"fmt"
	"time"

	"github.com/colonyops/toaster/internal/core/logging"
	"github.com/colonyops/toaster/internal/core/toast"
	"github.com/colonyops/toaster/internal/data/db"
)

const (
	recordAttempts = 4
	recordBackoff  = 25 * time.Millisecond
)

// HistoryStore implements toast.History using SQLite.
type HistoryStore struct {
	db *db.DB
}

var _ toast.History = (*HistoryStore)(nil)

// NewHistoryStore creates a new SQLite-backed history store.
func NewHistoryStore(db *db.DB) *HistoryStore {
	return &HistoryStore{db: db}
}

// Record persists a removed notification. A write that loses to another
// connection holding the lock is retried with backoff before giving up.
func (s *HistoryStore) Record(ctx context.Context, e toast.Entry) error {
	params := db.InsertToastHistoryParams{
		ToastID:    e.Notification.ID,
		Kind:       string(e.Notification.Kind),
		Title:      e.Notification.Title,
		Detail:     e.Notification.Detail,
		DurationMs: e.Notification.Duration.Milliseconds(),
		Reason:     string(e.Reason),
		CreatedAt:  e.Notification.CreatedAt.UnixNano(),
		RemovedAt:  e.RemovedAt.UnixNano(),
	}

	wait := recordBackoff
	for attempt := 1; ; attempt++ {
		_, err := s.db.Queries().InsertToastHistory(ctx, params)
		if err == nil {
			return nil
		}
		if !IsBusyError(err) || attempt == recordAttempts {
			return fmt.Errorf("insert toast history: %w", err)
		}

		logging.Component("history").Debug().Int("attempt", attempt).Str("toast_id", e.Notification.ID).Msg("database busy, retrying")
		select {
		case <-ctx.Done():
			return fmt.Errorf("insert toast history: %w", ctx.Err())
		case <-time.After(wait):
		}
		wait *= 2
	}
}

// List returns up to limit entries ordered by most recently removed first.
func (s *HistoryStore) List(ctx context.Context, limit int) ([]toast.Entry, error) {
	if limit <= 0 {
		limit = toast.DefaultHistoryLimit
	}

	rows, err := s.db.Queries().ListToastHistory(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("list toast history: %w", err)
	}

	result := make([]toast.Entry, 0, len(rows))
	for _, row := range rows {
		result = append(result, rowToEntry(row))
	}

	return result, nil
}

// Count returns the total number of history entries.
func (s *HistoryStore) Count(ctx context.Context) (int64, error) {
	count, err := s.db.Queries().CountToastHistory(ctx)
	if err != nil {
		return 0, fmt.Errorf("count toast history: %w", err)
	}
	return count, nil
}

// Clear deletes all history entries.
func (s *HistoryStore) Clear(ctx context.Context) error {
	if err := s.db.Queries().DeleteAllToastHistory(ctx); err != nil {
		return fmt.Errorf("clear toast history: %w", err)
	}
	return nil
}

// PruneBefore deletes entries removed before the given time and reports how
// many rows were deleted.
func (s *HistoryStore) PruneBefore(ctx context.Context, before time.Time) (int64, error) {
	n, err := s.db.Queries().DeleteToastHistoryBefore(ctx, before.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("prune toast history: %w", err)
	}
	return n, nil
}

func rowToEntry(row db.ToastHistory) toast.Entry {
	return toast.Entry{
		ID: row.ID,
		Notification: toast.Notification{
			ID:        row.ToastID,
			Kind:      toast.Kind(row.Kind),
			Title:     row.Title,
			Detail:    row.Detail,
			Duration:  time.Duration(row.DurationMs) * time.Millisecond,
			CreatedAt: time.Unix(0, row.CreatedAt),
		},
		Reason:    toast.Reason(row.Reason),
		RemovedAt: time.Unix(0, row.RemovedAt),
	}
}
