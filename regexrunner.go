package regexrunner

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/aretw0/regexrunner/internal/logging"
	"github.com/aretw0/regexrunner/internal/runtime"
	"github.com/aretw0/regexrunner/pkg/adapters/file"
	"github.com/aretw0/regexrunner/pkg/adapters/memory"
	"github.com/aretw0/regexrunner/pkg/domain"
	"github.com/aretw0/regexrunner/pkg/ports"
)

// Engine is the high-level entry point for the regexrunner library.
// It wraps the internal runtime and a challenge source behind a simplified API.
type Engine struct {
	runtime *runtime.Engine
	loader  ports.ChallengeLoader
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
	strict  bool
	Name    string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
// Calling it more than once chains the hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithLoader injects a custom ChallengeLoader, bypassing the file loader.
func WithLoader(l ports.ChallengeLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithStrict makes the file loader reject structurally broken definitions.
func WithStrict(strict bool) Option {
	return func(e *Engine) {
		e.strict = strict
	}
}

// New initializes a new Engine.
// With a directory, challenges are read from the YAML/JSON files in it.
// With an empty directory and no WithLoader, the built-in challenge pack is used.
func New(dir string, opts ...Option) (*Engine, error) {
	eng := &Engine{}

	// Apply Options first to check if a loader is provided
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}

	switch {
	case eng.loader != nil:
		if dir != "" {
			eng.Name = filepath.Base(dir)
		}
	case dir == "":
		eng.loader = memory.NewDefaultLoader()
		eng.Name = "builtin"
	default:
		loader, err := file.NewLoader(dir,
			file.WithStrict(eng.strict),
			file.WithLogger(eng.logger),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to load challenges: %w", err)
		}
		eng.loader = loader
		eng.Name = filepath.Base(loader.Dir())
	}

	eng.logger = eng.logger.With("pack", eng.Name)
	eng.runtime = runtime.NewEngine(
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
	)

	return eng, nil
}

// Run executes def over input. challengeID only labels events and may be empty.
func (e *Engine) Run(ctx context.Context, challengeID string, def *domain.Automaton, input string) domain.Result {
	return e.runtime.Run(ctx, challengeID, def, input)
}

// Simulate looks up a challenge and runs its automaton over input.
// An empty challengeID selects domain.DefaultChallengeID.
func (e *Engine) Simulate(ctx context.Context, challengeID, input string) (domain.Result, error) {
	if challengeID == "" {
		challengeID = domain.DefaultChallengeID
	}
	c, err := e.loader.GetChallenge(challengeID)
	if err != nil {
		return domain.Result{}, err
	}
	return e.Run(ctx, c.ID, &c.DFA, input), nil
}

// Challenge returns a challenge by ID.
func (e *Engine) Challenge(id string) (domain.Challenge, error) {
	return e.loader.GetChallenge(id)
}

// Challenges lists every challenge ordered by level.
func (e *Engine) Challenges() ([]domain.Challenge, error) {
	return e.loader.ListChallenges()
}

// Watch returns a channel that signals when the underlying definitions change.
// Returns error if the loader does not support watching.
func (e *Engine) Watch(ctx context.Context) (<-chan string, error) {
	if w, ok := e.loader.(ports.Watchable); ok {
		return w.Watch(ctx)
	}
	return nil, fmt.Errorf("current loader does not support watching")
}

// Loader returns the underlying ChallengeLoader used by the engine.
func (e *Engine) Loader() ports.ChallengeLoader {
	return e.loader
}

// Run simulates def over input without hooks or logging.
func Run(def *domain.Automaton, input string) domain.Result {
	return runtime.Run(def, input)
}

// ValidateStructure checks that def only refers to declared states and symbols.
func ValidateStructure(def *domain.Automaton) error {
	return runtime.ValidateStructure(def)
}

// Validate is ValidateStructure plus a completeness check of the transition function.
func Validate(def *domain.Automaton) error {
	return runtime.Validate(def)
}
