package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/aretw0/regexrunner"
	httpAdapter "github.com/aretw0/regexrunner/pkg/adapters/http"
	"github.com/aretw0/regexrunner/pkg/observability"
)

// ServeOptions configures the HTTP server.
type ServeOptions struct {
	EngineOptions
	Addr      string
	RedisAddr string
	Watch     bool
}

const shutdownTimeout = 5 * time.Second

// Serve starts the HTTP API and blocks until SIGINT/SIGTERM.
func Serve(opts ServeOptions) error {
	logger := createLogger(opts.Debug)
	metrics := observability.NewMetrics()

	engine, err := createEngine(opts.EngineOptions, logger, metrics.Hooks())
	if err != nil {
		return err
	}

	sessions, closeStore, err := setupPersistence(PersistenceOptions{Dir: opts.Dir, RedisAddr: opts.RedisAddr}, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	if opts.Watch {
		startReloadNotices(sigCtx, engine, false)
	}

	srv := &http.Server{
		Addr: opts.Addr,
		Handler: httpAdapter.NewHandler(engine,
			httpAdapter.WithSessions(sessions),
			httpAdapter.WithMetrics(metrics.Handler()),
			httpAdapter.WithVersion(regexrunner.Version),
			httpAdapter.WithLogger(logger),
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		printSystemMessage(os.Stdout, "Starting regexrunner server on %s (pack: %s)", srv.Addr, engine.Name)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-sigCtx.Done():
		printSystemMessage(os.Stdout, "Start shutdown... Signal: %v", sigCtx.Signal())

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("error killing server: %w", err)
			}
		}
		printSystemMessage(os.Stdout, "Server stopped gracefully")
		return nil
	}
}
