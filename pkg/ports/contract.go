package ports

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunLockerContract runs a suite of tests to verify that a DistributedLocker implementation
// adheres to the defined interface contract.
func RunLockerContract(t *testing.T, locker DistributedLocker) {
	ctx := context.Background()
	key := "contract-user-" + time.Now().Format("20060102150405")

	t.Run("Lock and Unlock", func(t *testing.T) {
		unlock, err := locker.Lock(ctx, key, 5*time.Second)
		require.NoError(t, err)
		require.NotNil(t, unlock)
		assert.NoError(t, unlock(ctx))
	})

	t.Run("Relock After Unlock", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			unlock, err := locker.Lock(ctx, key, 5*time.Second)
			require.NoError(t, err, "attempt %d", i)
			require.NoError(t, unlock(ctx))
		}
	})

	t.Run("Contention Honours Context", func(t *testing.T) {
		unlock, err := locker.Lock(ctx, key, 5*time.Second)
		require.NoError(t, err)
		defer func() { _ = unlock(ctx) }()

		waitCtx, cancel := context.WithTimeout(ctx, 300*time.Millisecond)
		defer cancel()
		_, err = locker.Lock(waitCtx, key, 5*time.Second)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

// RunDeduplicatorContract verifies the Deduplicator contract.
func RunDeduplicatorContract(t *testing.T, dedup Deduplicator) {
	ctx := context.Background()
	base := time.Now().UnixNano() % 1_000_000

	t.Run("First Sighting", func(t *testing.T) {
		seen, err := dedup.Seen(ctx, base)
		require.NoError(t, err)
		assert.False(t, seen)
	})

	t.Run("Repeated Sighting", func(t *testing.T) {
		seen, err := dedup.Seen(ctx, base)
		require.NoError(t, err)
		assert.True(t, seen)
	})

	t.Run("Distinct IDs", func(t *testing.T) {
		for i := int64(1); i <= 5; i++ {
			seen, err := dedup.Seen(ctx, base+i)
			require.NoError(t, err, fmt.Sprintf("id %d", base+i))
			assert.False(t, seen)
		}
	})
}
