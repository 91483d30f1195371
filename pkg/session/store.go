package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/sessionkit/pkg/logger"
)

// Store persists encoded sessions keyed by ID.Key.
//
// Get returns ErrNotFound for absent or expired records. Every other failure
// must wrap ErrStoreUnavailable: an outage is never reported as a missing
// session. Set overwrites and resets the TTL. Delete of an absent key
// succeeds.
type Store interface {
	// Get returns the stored bytes for key.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores data under key for ttl.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key.
	Delete(ctx context.Context, key string) error
}

// StoreWithCleanup is implemented by stores whose backend does not expire
// records on its own.
type StoreWithCleanup interface {
	Store
	// DeleteExpired removes all expired records.
	DeleteExpired(ctx context.Context) error
}

// RunCleanup calls store.DeleteExpired every interval until ctx is done.
// Failures are logged and the loop keeps going.
func RunCleanup(ctx context.Context, store StoreWithCleanup, interval time.Duration, log *slog.Logger) {
	if interval <= 0 {
		return
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := store.DeleteExpired(ctx); err != nil && ctx.Err() == nil {
				log.WarnContext(ctx, "session cleanup failed",
					logger.Component("session"),
					logger.Event("cleanup_failed"),
					logger.Error(err),
				)
			}
		}
	}
}
