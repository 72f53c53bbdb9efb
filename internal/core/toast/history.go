package toast

import (
	"context"
	"time"
)

// Entry is a removed notification as kept in the history.
type Entry struct {
	ID           int64
	Notification Notification
	Reason       Reason
	RemovedAt    time.Time
}

// Recorder persists removed notifications. Record failures are logged by the
// store and never affect the active set.
type Recorder interface {
	Record(ctx context.Context, e Entry) error
}

// DefaultHistoryLimit is the number of entries List returns when called with
// a non-positive limit.
const DefaultHistoryLimit = 50

// History reads and maintains persisted entries.
type History interface {
	Recorder
	List(ctx context.Context, limit int) ([]Entry, error)
	Count(ctx context.Context) (int64, error)
	Clear(ctx context.Context) error
	PruneBefore(ctx context.Context, before time.Time) (int64, error)
}
