package runtime

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/regexrunner/internal/logging"
	"github.com/aretw0/regexrunner/pkg/domain"
)

// Run simulates def over input and returns the resulting trace and verdict.
//
// Input is consumed one Unicode code point at a time. A symbol outside the
// alphabet or an undefined transition halts the run; the trace then holds only
// the states visited before the failing symbol. Failures are reported through
// the Result, never as errors.
func Run(def *domain.Automaton, input string) domain.Result {
	if def == nil {
		def = &domain.Automaton{}
	}

	current := def.StartState
	trace := make([]string, 1, len(input)+1)
	trace[0] = current
	consumed := 0

	for _, r := range input {
		symbol := string(r)

		if !def.HasSymbol(symbol) {
			return domain.Result{
				Accepted: false,
				Trace:    trace,
				Message:  domain.InvalidSymbolMessage(symbol),
				Outcome:  domain.OutcomeInvalidSymbol,
				Consumed: consumed,
			}
		}

		next, ok := def.Target(current, symbol)
		if !ok {
			return domain.Result{
				Accepted: false,
				Trace:    trace,
				Message:  domain.NoTransitionMessage(current, symbol),
				Outcome:  domain.OutcomeUndefinedTransition,
				Consumed: consumed,
			}
		}

		current = next
		trace = append(trace, current)
		consumed++
	}

	if def.IsFinal(current) {
		return domain.Result{
			Accepted: true,
			Trace:    trace,
			Message:  domain.MessageAccepted,
			Outcome:  domain.OutcomeAccepted,
			Consumed: consumed,
		}
	}
	return domain.Result{
		Accepted: false,
		Trace:    trace,
		Message:  domain.MessageRejected,
		Outcome:  domain.OutcomeRejected,
		Consumed: consumed,
	}
}

// Engine runs automata on behalf of a host, emitting lifecycle events.
type Engine struct {
	hooks  domain.LifecycleHooks
	logger *slog.Logger
	now    func() time.Time
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClock overrides the time source used for event timestamps.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine creates a new engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		logger: logging.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes def over input. challengeID is only used to label events and logs.
// The context is passed to hooks; the run itself is not cancellable.
func (e *Engine) Run(ctx context.Context, challengeID string, def *domain.Automaton, input string) domain.Result {
	start := e.now()
	if e.hooks.OnRunStart != nil {
		e.hooks.OnRunStart(ctx, &domain.RunEvent{
			Timestamp:   start,
			Type:        domain.EventRunStart,
			ChallengeID: challengeID,
			Input:       input,
		})
	}

	res := Run(def, input)

	end := e.now()
	e.logger.Debug("run finished",
		"challenge_id", challengeID,
		"input_len", len(input),
		"outcome", res.Outcome,
		"trace_len", len(res.Trace),
	)

	if e.hooks.OnRunFinish != nil {
		// Hooks get their own copy of the trace so they cannot mutate the caller's result.
		observed := res
		observed.Trace = append([]string(nil), res.Trace...)
		e.hooks.OnRunFinish(ctx, &domain.RunEvent{
			Timestamp:   end,
			Type:        domain.EventRunFinish,
			ChallengeID: challengeID,
			Input:       input,
			Result:      &observed,
			Duration:    end.Sub(start),
		})
	}
	return res
}
