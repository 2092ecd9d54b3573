package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aretw0/regexrunner"
	"github.com/aretw0/regexrunner/internal/presentation/tui"
	"github.com/aretw0/regexrunner/pkg/session"
)

// PlayOptions contains all the configuration for the play command.
type PlayOptions struct {
	EngineOptions
	ChallengeID string
	SessionID   string
	RedisAddr   string
	Headless    bool
	Fresh       bool
	Watch       bool
	Delay       time.Duration
}

// Play runs the interactive game loop on stdin/stdout until exit, EOF or a signal.
func Play(opts PlayOptions) error {
	logger := createLogger(opts.Debug)
	interactive := !opts.Headless && tui.IsInteractive(os.Stdout)

	engine, err := createEngine(opts.EngineOptions, logger)
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

	sessionID := opts.SessionID
	if sessionID == "" {
		sessionID = session.NewID()
	}
	if opts.Fresh {
		if err := sessions.Delete(sigCtx, sessionID); err != nil {
			logger.Warn("Failed to reset session", "session_id", sessionID, "err", err)
		}
	}

	if !opts.Headless {
		tui.PrintBanner(os.Stdout, regexrunner.Version)
		printSystemMessage(os.Stdout, "Session '%s' active. Type :help for commands.", sessionID)
	}

	if opts.Watch {
		startReloadNotices(sigCtx, engine, opts.Headless)
	}

	delay := opts.Delay
	if !interactive {
		delay = 0
	}
	renderer := tui.PlainRenderer
	if interactive {
		renderer = tui.NewRenderer()
	}

	r := &regexrunner.Runner{
		Input:     NewInterruptibleReader(os.Stdin, sigCtx.Done()),
		Output:    os.Stdout,
		Headless:  opts.Headless,
		Renderer:  renderer,
		Player:    tui.NewPlayer(os.Stdout, tui.WithDelay(delay)),
		Sessions:  sessions,
		SessionID: sessionID,
	}

	runErr := r.Run(sigCtx, engine, opts.ChallengeID)
	if sigCtx.Signal() != nil && !opts.Headless {
		fmt.Println()
		printSystemMessage(os.Stdout, "Interrupted. Resume with --session %s", sessionID)
	}
	return handleExecutionError(runErr)
}

// startReloadNotices prints a line whenever the challenge files change.
// The loader reloads itself; the next attempt uses the new definitions.
func startReloadNotices(ctx context.Context, engine *regexrunner.Engine, quiet bool) {
	events, err := engine.Watch(ctx)
	if err != nil {
		printSystemMessage(os.Stderr, "Watch disabled: %v", err)
		return
	}
	go func() {
		for event := range events {
			if !quiet {
				printSystemMessage(os.Stdout, "Change detected in '%s'.", event)
			}
		}
	}()
}
