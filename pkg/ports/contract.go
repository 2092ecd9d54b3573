package ports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/regexrunner/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSessionStoreContract runs a suite of tests to verify that a SessionStore implementation
// adheres to the defined interface contract.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	t.Helper()
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		sess := domain.NewSession(sessionID, domain.DefaultChallengeID)
		sess.Record("11", domain.Result{Accepted: true, Trace: []string{"q0", "q1", "q0"}, Message: domain.MessageAccepted}, time.Now().UTC())

		err := store.Save(ctx, sess)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, sess.ChallengeID, loaded.ChallengeID)
		assert.Equal(t, 10, loaded.Score)
		assert.Equal(t, 1, loaded.Runs)
		require.Len(t, loaded.History, 1)
		assert.Equal(t, []string{"q0", "q1", "q0"}, loaded.History[0].Trace)
	})

	t.Run("Load Is Isolated", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, domain.NewSession(sessionID, domain.DefaultChallengeID)))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		loaded.Score = 1000

		again, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, 0, again.Score, "mutating a loaded session must not affect the store")
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, domain.NewSession(sessionID, domain.DefaultChallengeID)))

		err := store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")

		assert.NoError(t, store.Delete(ctx, sessionID), "deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		require.NoError(t, store.Save(ctx, domain.NewSession(id1, domain.DefaultChallengeID)))
		require.NoError(t, store.Save(ctx, domain.NewSession(id2, domain.DefaultChallengeID)))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}

// RunChallengeLoaderContract verifies that a ChallengeLoader serves the expected challenges.
// want must be non-empty and contain every challenge the loader holds.
func RunChallengeLoaderContract(t *testing.T, loader ChallengeLoader, want []domain.Challenge) {
	t.Helper()

	t.Run("GetChallenge_Success", func(t *testing.T) {
		for _, c := range want {
			got, err := loader.GetChallenge(c.ID)
			require.NoError(t, err, "challenge %s", c.ID)
			assert.Equal(t, c, got)
		}
	})

	t.Run("GetChallenge_NotFound", func(t *testing.T) {
		_, err := loader.GetChallenge("non-existent-challenge")
		assert.True(t, errors.Is(err, domain.ErrChallengeNotFound), "got %v", err)
	})

	t.Run("ListChallenges", func(t *testing.T) {
		list, err := loader.ListChallenges()
		require.NoError(t, err)
		require.Len(t, list, len(want))
		for i := 1; i < len(list); i++ {
			prev, cur := list[i-1], list[i]
			ordered := prev.Level < cur.Level || (prev.Level == cur.Level && prev.ID < cur.ID)
			assert.True(t, ordered, "challenges must be ordered by level then ID: %s before %s", prev.ID, cur.ID)
		}
	})
}
