package redis_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/regexrunner/pkg/adapters/redis"
)

func TestLocker_AcquireRelease(t *testing.T) {
	mr, client := newClient(t)
	locker := redis.NewLocker(client, "test:")
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "sess-1", 5*time.Second)
	require.NoError(t, err)
	assert.True(t, mr.Exists("test:lock:sess-1"))

	require.NoError(t, unlock(ctx))
	assert.False(t, mr.Exists("test:lock:sess-1"))
}

func TestLocker_Contention(t *testing.T) {
	_, client := newClient(t)
	locker := redis.NewLocker(client, "test:")
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "busy", 5*time.Second)
	require.NoError(t, err)

	waitCtx, cancel := context.WithTimeout(ctx, 200*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(waitCtx, "busy", 5*time.Second)
	require.Error(t, err)
	assert.True(t, errors.Is(err, redis.ErrLockAcquire))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))

	require.NoError(t, unlock(ctx))

	// Released: a second caller gets it now.
	unlock2, err := locker.Lock(ctx, "busy", 5*time.Second)
	require.NoError(t, err)
	require.NoError(t, unlock2(ctx))
}

func TestLocker_StaleUnlockKeepsNewOwner(t *testing.T) {
	mr, client := newClient(t)
	locker := redis.NewLocker(client, "test:")
	ctx := context.Background()

	unlockOld, err := locker.Lock(ctx, "k", time.Second)
	require.NoError(t, err)

	mr.FastForward(2 * time.Second) // first lease expires

	unlockNew, err := locker.Lock(ctx, "k", 5*time.Second)
	require.NoError(t, err)

	require.NoError(t, unlockOld(ctx))
	assert.True(t, mr.Exists("test:lock:k"), "stale owner must not release the new lease")

	require.NoError(t, unlockNew(ctx))
}
