package ports

import (
	"context"
	"time"
)

// UnlockFunc is a function that releases a distributed lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker defines the interface for distributed concurrency control.
// It allows the session Manager to serialize one user's events across multiple replicas.
type DistributedLocker interface {
	// Lock attempts to acquire a distributed lock for the given key (e.g., user ID).
	// It blocks until the lock is acquired or the context is canceled.
	// Returns an UnlockFunc that MUST be called to release the lock.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}

// Deduplicator remembers inbound update IDs.
// Webhook deliveries are retried by the platform, so the same update can arrive twice.
type Deduplicator interface {
	// Seen records id and reports whether it had been recorded before.
	Seen(ctx context.Context, id int64) (bool, error)
}
