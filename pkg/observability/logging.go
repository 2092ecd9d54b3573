package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/regexrunner/pkg/domain"
)

// LogHooks returns lifecycle hooks that audit runs through the given logger.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(ctx context.Context, e *domain.RunEvent) {
			logger.DebugContext(ctx, "run_start",
				"challenge_id", e.ChallengeID,
				"input", e.Input,
			)
		},
		OnRunFinish: func(ctx context.Context, e *domain.RunEvent) {
			if e.Result == nil {
				return
			}
			logger.InfoContext(ctx, "run_finish",
				"challenge_id", e.ChallengeID,
				"input", e.Input,
				"outcome", e.Result.Outcome,
				"final_state", e.Result.FinalState(),
				"duration", e.Duration,
			)
		},
	}
}
