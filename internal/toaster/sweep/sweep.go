package sweep

import (
	"context"
	"time"

	"github.com/colonyops/toaster/internal/core/logging"
)

// Pruner deletes history rows removed before a cutoff.
type Pruner interface {
	PruneBefore(ctx context.Context, before time.Time) (int64, error)
}

// Start periodically prunes history entries older than retention.
// It sweeps once immediately and then on every tick, and blocks until the
// context is cancelled.
func Start(ctx context.Context, pruner Pruner, retention, interval time.Duration) {
	log := logging.Component("sweep")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	run := func() {
		n, err := pruner.PruneBefore(ctx, time.Now().Add(-retention))
		if err != nil {
			if ctx.Err() == nil {
				log.Debug().Err(err).Msg("history sweep failed")
			}
			return
		}
		if n > 0 {
			log.Debug().Int64("deleted", n).Msg("history swept")
		}
	}

	run()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			run()
		}
	}
}
