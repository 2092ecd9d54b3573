package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/regexrunner/internal/logging"
	"github.com/aretw0/regexrunner/pkg/adapters/file"
	"github.com/aretw0/regexrunner/pkg/adapters/redis"
	"github.com/aretw0/regexrunner/pkg/domain"
)

const partialYAML = `id: partial
level: 3
name: Partial
dfa:
  states: [s, t]
  alphabet: [a]
  transitions:
    s: {a: t}
  start_state: s
  final_states: [t]
`

const brokenYAML = `id: broken
level: 4
name: Broken
dfa:
  states: [s]
  alphabet: [a]
  transitions:
    s: {a: ghost}
  start_state: s
  final_states: [s]
`

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

func TestCreateEngine_FallsBackToBuiltin(t *testing.T) {
	engine, err := createEngine(EngineOptions{Dir: t.TempDir()}, logging.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "builtin", engine.Name)

	dir := writeFiles(t, map[string]string{"partial.yaml": partialYAML})
	engine, err = createEngine(EngineOptions{Dir: dir}, logging.NewNop())
	require.NoError(t, err)
	_, err = engine.Challenge("partial")
	assert.NoError(t, err)
}

func TestRunOnce(t *testing.T) {
	ctx := context.Background()

	t.Run("Summary", func(t *testing.T) {
		var buf bytes.Buffer
		res, err := RunOnce(ctx, &buf, RunOptions{Input: "0110"})
		require.NoError(t, err)
		assert.True(t, res.Accepted)
		assert.Equal(t, "Accepted • Trace: q0 → q0 → q1 → q0 → q0\n", buf.String())
	})

	t.Run("JSON", func(t *testing.T) {
		var buf bytes.Buffer
		_, err := RunOnce(ctx, &buf, RunOptions{Input: "1", JSON: true})
		require.NoError(t, err)
		var got map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, false, got["accepted"])
		assert.Equal(t, "Rejected", got["message"])
		assert.Equal(t, "rejected", got["outcome"])
	})

	t.Run("Definition File", func(t *testing.T) {
		dir := writeFiles(t, map[string]string{"partial.yaml": partialYAML})
		var buf bytes.Buffer
		res, err := RunOnce(ctx, &buf, RunOptions{DefinitionPath: filepath.Join(dir, "partial.yaml"), Input: "aa"})
		require.NoError(t, err)
		assert.Equal(t, domain.OutcomeUndefinedTransition, res.Outcome)
		assert.Equal(t, "No transition from t on a • Trace: s → t\n", buf.String())
	})

	t.Run("Animated", func(t *testing.T) {
		var buf bytes.Buffer
		_, err := RunOnce(ctx, &buf, RunOptions{Input: "1", Animate: true, Delay: 1})
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "─1→")
	})

	t.Run("Unknown Challenge", func(t *testing.T) {
		_, err := RunOnce(ctx, io.Discard, RunOptions{ChallengeID: "nope"})
		assert.ErrorIs(t, err, domain.ErrChallengeNotFound)
	})
}

func TestValidate(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"partial.yaml": partialYAML,
		"broken.yaml":  brokenYAML,
	})

	var buf bytes.Buffer
	err := Validate(&buf, dir, false)
	assert.ErrorIs(t, err, ErrValidationFailed)
	out := buf.String()
	assert.Contains(t, out, "✅ partial")
	assert.Contains(t, out, "❌ broken")
	assert.Contains(t, out, "ghost")

	dir = writeFiles(t, map[string]string{"partial.yaml": partialYAML})
	buf.Reset()
	require.NoError(t, Validate(&buf, dir, false))

	buf.Reset()
	err = Validate(&buf, dir, true)
	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.Contains(t, buf.String(), "Missing transition: (t, a)")

	err = Validate(io.Discard, t.TempDir(), false)
	assert.ErrorContains(t, err, "no challenges found")
}

func TestSetupPersistence(t *testing.T) {
	t.Run("File", func(t *testing.T) {
		t.Setenv(RedisAddrEnv, "")
		dir := t.TempDir()
		mgr, closeFn, err := setupPersistence(PersistenceOptions{Dir: dir}, logging.NewNop())
		require.NoError(t, err)
		defer closeFn()

		_, _, err = mgr.Record(context.Background(), "s1", "", "11", domain.Result{Accepted: true})
		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(dir, file.DefaultSessionDir, "s1.json"))
	})

	t.Run("History Limit", func(t *testing.T) {
		t.Setenv(RedisAddrEnv, "")
		mgr, closeFn, err := setupPersistence(PersistenceOptions{Dir: t.TempDir(), HistoryLimit: 2}, logging.NewNop())
		require.NoError(t, err)
		defer closeFn()

		ctx := context.Background()
		for _, in := range []string{"0", "11", "0110"} {
			_, _, err := mgr.Record(ctx, "s1", "", in, domain.Result{Accepted: true})
			require.NoError(t, err)
		}
		sess, err := mgr.Store().Load(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, 3, sess.Runs)
		require.Len(t, sess.History, 2)
		assert.Equal(t, "11", sess.History[0].Input)
	})

	t.Run("Redis From Env", func(t *testing.T) {
		mr := miniredis.RunT(t)
		t.Setenv(RedisAddrEnv, mr.Addr())

		mgr, closeFn, err := setupPersistence(PersistenceOptions{Dir: t.TempDir()}, logging.NewNop())
		require.NoError(t, err)
		defer closeFn()

		_, _, err = mgr.Record(context.Background(), "s1", "", "11", domain.Result{Accepted: true})
		require.NoError(t, err)
		assert.True(t, mr.Exists(redis.DefaultPrefix+"s1"))
	})

	t.Run("Redis Unreachable", func(t *testing.T) {
		_, _, err := setupPersistence(PersistenceOptions{RedisAddr: "127.0.0.1:1"}, logging.NewNop())
		assert.ErrorContains(t, err, "failed to connect to redis")
	})
}

func TestHandleExecutionError(t *testing.T) {
	assert.NoError(t, handleExecutionError(nil))
	assert.NoError(t, handleExecutionError(context.Canceled))
	assert.NoError(t, handleExecutionError(io.EOF))

	r := NewInterruptibleReader(strings.NewReader("x"), closedChan())
	_, err := r.Read(make([]byte, 1))
	assert.NoError(t, handleExecutionError(err))

	boom := errors.New("boom")
	assert.ErrorIs(t, handleExecutionError(boom), boom)
}

func closedChan() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
