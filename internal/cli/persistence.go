package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/regexrunner/pkg/adapters/file"
	"github.com/aretw0/regexrunner/pkg/adapters/redis"
	"github.com/aretw0/regexrunner/pkg/persistence/middleware"
	"github.com/aretw0/regexrunner/pkg/ports"
	"github.com/aretw0/regexrunner/pkg/session"
)

// RedisAddrEnv is consulted when --redis-addr is not given.
const RedisAddrEnv = "REGEXRUNNER_REDIS_ADDR"

const pingTimeout = 3 * time.Second

// PersistenceOptions selects where sessions are kept.
type PersistenceOptions struct {
	Dir       string // project directory; file sessions go to <Dir>/.regexrunner/sessions
	RedisAddr string

	// HistoryLimit caps the stored runs per session. Zero means middleware.DefaultHistoryLimit,
	// a negative value keeps everything.
	HistoryLimit int
}

func (o PersistenceOptions) wrap(store ports.SessionStore) ports.SessionStore {
	limit := o.HistoryLimit
	if limit == 0 {
		limit = middleware.DefaultHistoryLimit
	}
	return middleware.Chain(store, middleware.NewHistoryLimitMiddleware(limit))
}

// redisAddr resolves the flag, then the environment.
func (o PersistenceOptions) redisAddr() string {
	if o.RedisAddr != "" {
		return o.RedisAddr
	}
	return os.Getenv(RedisAddrEnv)
}

// setupPersistence initializes the session store and manager.
// With a redis address, sessions live in Redis and are guarded by a distributed lock.
// The returned close function releases backend connections.
func setupPersistence(opts PersistenceOptions, logger *slog.Logger) (*session.Manager, func(), error) {
	if addr := opts.redisAddr(); addr != "" {
		store := redis.New(addr, "", 0)
		ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		defer cancel()
		if err := store.Client().Ping(ctx).Err(); err != nil {
			_ = store.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
		}
		logger.Info("Using redis session store", "addr", addr)
		mgr := session.NewManager(opts.wrap(store),
			session.WithLocker(redis.NewLocker(store.Client(), redis.DefaultPrefix)),
			session.WithLogger(logger),
		)
		return mgr, func() { _ = store.Close() }, nil
	}

	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	store := file.NewStore(filepath.Join(dir, file.DefaultSessionDir))
	return session.NewManager(opts.wrap(store), session.WithLogger(logger)), func() {}, nil
}

// OpenSessions opens the session manager used by the session subcommands.
func OpenSessions(opts PersistenceOptions, debug bool) (*session.Manager, func(), error) {
	return setupPersistence(opts, createLogger(debug))
}
