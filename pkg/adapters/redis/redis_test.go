package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/tinderbolt/pkg/adapters/redis"
	"github.com/aretw0/tinderbolt/pkg/ports"
	"github.com/aretw0/tinderbolt/pkg/session"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestLocker_Contract(t *testing.T) {
	_, client := setup(t)
	ports.RunLockerContract(t, redis.NewLocker(client, "test:"))
}

func TestDeduplicator_Contract(t *testing.T) {
	_, client := setup(t)
	ports.RunDeduplicatorContract(t, redis.NewDeduplicator(client, "test:", time.Minute))
}

func TestLocker_LockUnlock(t *testing.T) {
	mr, client := setup(t)
	locker := redis.NewLocker(client, "test:")
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "42", 5*time.Second)
	require.NoError(t, err)
	assert.True(t, mr.Exists("test:lock:42"), "Lock key should be set in Redis")

	require.NoError(t, unlock(ctx))
	assert.False(t, mr.Exists("test:lock:42"), "Lock key should be removed after unlock")
}

func TestLocker_ExpiredLockIsNotStolenBack(t *testing.T) {
	mr, client := setup(t)
	locker := redis.NewLocker(client, "test:")
	ctx := context.Background()

	unlock1, err := locker.Lock(ctx, "42", time.Second)
	require.NoError(t, err)

	// The first holder stalls past the TTL and another replica takes over.
	mr.FastForward(2 * time.Second)
	unlock2, err := locker.Lock(ctx, "42", 5*time.Second)
	require.NoError(t, err)

	// A late release by the first holder must not free the second holder's lock.
	require.NoError(t, unlock1(ctx))
	assert.True(t, mr.Exists("test:lock:42"))

	require.NoError(t, unlock2(ctx))
	assert.False(t, mr.Exists("test:lock:42"))
}

func TestLocker_WaitsForRelease(t *testing.T) {
	_, client := setup(t)
	locker1 := redis.NewLocker(client, "test:")
	locker2 := redis.NewLocker(client, "test:") // Same prefix -> contention
	ctx := context.Background()

	unlock1, err := locker1.Lock(ctx, "shared", 5*time.Second)
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		unlock2, err := locker2.Lock(ctx, "shared", 5*time.Second)
		if assert.NoError(t, err) {
			_ = unlock2(ctx)
		}
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("second locker acquired a held lock")
	case <-time.After(250 * time.Millisecond):
	}

	require.NoError(t, unlock1(ctx))
	select {
	case <-acquired:
	case <-time.After(2 * time.Second):
		t.Fatal("second locker never acquired the released lock")
	}
}

func TestLocker_RedisDown(t *testing.T) {
	mr, client := setup(t)
	locker := redis.NewLocker(client, "test:")
	mr.Close()

	_, err := locker.Lock(context.Background(), "42", time.Second)
	assert.ErrorIs(t, err, redis.ErrLockAcquire)
}

func TestDeduplicator_Expires(t *testing.T) {
	mr, client := setup(t)
	dedup := redis.NewDeduplicator(client, "test:", time.Minute)
	ctx := context.Background()

	seen, err := dedup.Seen(ctx, 7)
	require.NoError(t, err)
	assert.False(t, seen)
	assert.True(t, mr.Exists("test:update:7"))

	mr.FastForward(2 * time.Minute)
	seen, err = dedup.Seen(ctx, 7)
	require.NoError(t, err)
	assert.False(t, seen)
}

// TestManager_WithRedisLocker serializes one user's events through Redis.
func TestManager_WithRedisLocker(t *testing.T) {
	mr, client := setup(t)
	mgr := session.NewManager(session.WithLocker(redis.NewLocker(client, "test:")))
	ctx := context.Background()

	err := mgr.WithLock(ctx, 9, 9, func(ctx context.Context, s *session.State) error {
		assert.True(t, mr.Exists("test:lock:9"))
		return nil
	})
	require.NoError(t, err)
	assert.False(t, mr.Exists("test:lock:9"))
}
