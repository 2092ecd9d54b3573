package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/regexrunner/pkg/adapters/memory"
	"github.com/aretw0/regexrunner/pkg/adapters/redis"
	"github.com/aretw0/regexrunner/pkg/domain"
	"github.com/aretw0/regexrunner/pkg/session"
)

// SlowStore simulates latency to provoke race conditions if locking is missing.
type SlowStore struct {
	*memory.Store
}

func (s SlowStore) Save(ctx context.Context, sess *domain.Session) error {
	time.Sleep(5 * time.Millisecond)
	return s.Store.Save(ctx, sess)
}

func (s SlowStore) Load(ctx context.Context, id string) (*domain.Session, error) {
	time.Sleep(5 * time.Millisecond)
	return s.Store.Load(ctx, id)
}

var accepted = domain.Result{Accepted: true, Trace: []string{"q0", "q1", "q0"}, Message: domain.MessageAccepted}
var rejected = domain.Result{Trace: []string{"q0", "q1"}, Message: domain.MessageRejected}

func TestManager_Record(t *testing.T) {
	at := time.Date(2026, 2, 2, 10, 0, 0, 0, time.UTC)
	mgr := session.NewManager(memory.NewStore(), session.WithClock(func() time.Time { return at }))
	ctx := context.Background()

	before, after, err := mgr.Record(ctx, "p1", domain.DefaultChallengeID, "11", accepted)
	require.NoError(t, err)
	assert.Equal(t, 0, before.Score)
	assert.Equal(t, 10, after.Score)
	assert.Equal(t, at, after.UpdatedAt)

	_, after, err = mgr.Record(ctx, "p1", domain.DefaultChallengeID, "1", rejected)
	require.NoError(t, err)
	assert.Equal(t, 10, after.Score)
	assert.Equal(t, 2, after.Runs)

	stored, err := mgr.Load(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 10, stored.Score)
	require.Len(t, stored.History, 2)
	assert.Equal(t, "1", stored.History[1].Input)

	diff := domain.Diff(before, after)
	require.NotNil(t, diff)
	assert.Equal(t, 2, *diff.Runs)
}

func TestManager_ConcurrentRecord(t *testing.T) {
	mgr := session.NewManager(SlowStore{memory.NewStore()})
	ctx := context.Background()
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := mgr.Record(ctx, "shared", domain.DefaultChallengeID, "00", accepted)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	sess, err := mgr.Load(ctx, "shared")
	require.NoError(t, err)
	assert.Equal(t, 20, sess.Runs, "no lost updates")
	assert.Equal(t, 200, sess.Score)
}

func TestManager_LoadOrStart(t *testing.T) {
	mgr := session.NewManager(memory.NewStore())
	ctx := context.Background()

	sess, err := mgr.LoadOrStart(ctx, "fresh", "")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultChallengeID, sess.ChallengeID)
	assert.False(t, sess.UpdatedAt.IsZero())

	_, _, err = mgr.Record(ctx, "fresh", "", "11", accepted)
	require.NoError(t, err)

	again, err := mgr.LoadOrStart(ctx, "fresh", "other")
	require.NoError(t, err)
	assert.Equal(t, 10, again.Score, "existing session is loaded, not reset")
	assert.Equal(t, domain.DefaultChallengeID, again.ChallengeID)

	ids, err := mgr.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"fresh"}, ids)
}

func TestManager_StartAndSelect(t *testing.T) {
	mgr := session.NewManager(memory.NewStore())
	ctx := context.Background()

	sess, err := mgr.Start(ctx, domain.DefaultChallengeID)
	require.NoError(t, err)
	assert.Len(t, sess.ID, 36, "uuid session id")

	sel, err := mgr.Select(ctx, sess.ID, "ends_in_1")
	require.NoError(t, err)
	assert.Equal(t, "ends_in_1", sel.ChallengeID)

	require.NoError(t, mgr.Delete(ctx, sess.ID))
	_, err = mgr.Load(ctx, sess.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

type failingStore struct{ *memory.Store }

func (failingStore) Load(ctx context.Context, id string) (*domain.Session, error) {
	return nil, errors.New("backend down")
}

func TestManager_StoreFailure(t *testing.T) {
	mgr := session.NewManager(failingStore{memory.NewStore()})
	_, _, err := mgr.Record(context.Background(), "x", "", "1", rejected)
	assert.ErrorContains(t, err, "backend down")
}

func TestManager_DistributedLock(t *testing.T) {
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	defer client.Close()

	store := redis.NewFromClient(client)
	mgr := session.NewManager(store,
		session.WithLocker(redis.NewLocker(client, redis.DefaultPrefix)),
		session.WithLockTTL(5*time.Second),
	)
	ctx := context.Background()

	_, after, err := mgr.Record(ctx, "dist", domain.DefaultChallengeID, "11", accepted)
	require.NoError(t, err)
	assert.Equal(t, 10, after.Score)
	assert.False(t, mr.Exists(redis.DefaultPrefix+"lock:dist"), "lock released after the update")
}
