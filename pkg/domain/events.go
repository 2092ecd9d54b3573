package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventRunStart  EventType = "run_start"
	EventRunFinish EventType = "run_finish"
)

// RunEvent describes a single engine run. Result is only set on EventRunFinish.
type RunEvent struct {
	Timestamp   time.Time     `json:"timestamp"`
	Type        EventType     `json:"type"`
	ChallengeID string        `json:"challenge_id,omitempty"`
	Input       string        `json:"input"`
	Result      *Result       `json:"result,omitempty"`
	Duration    time.Duration `json:"duration,omitempty"`
}

// LifecycleHooks defines callbacks for engine observability.
// Hooks observe runs; they cannot alter a result.
type LifecycleHooks struct {
	OnRunStart  func(context.Context, *RunEvent)
	OnRunFinish func(context.Context, *RunEvent)
}

// Merge chains two hook sets so both are invoked, h first.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnRunStart:  chain(h.OnRunStart, other.OnRunStart),
		OnRunFinish: chain(h.OnRunFinish, other.OnRunFinish),
	}
}

func chain(a, b func(context.Context, *RunEvent)) func(context.Context, *RunEvent) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, ev *RunEvent) {
		a(ctx, ev)
		b(ctx, ev)
	}
}
