package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/espalier/pkg/domain"
)

// LoggingHooks logs every lifecycle event through the given logger.
// Step events log at debug, run outcomes at info.
func LoggingHooks(logger *slog.Logger) domain.Hooks {
	return domain.Hooks{
		OnStepEnter: func(ctx context.Context, e *domain.StepEvent) {
			logger.DebugContext(ctx, "step_enter", "user", e.User, "step", e.Step)
		},
		OnAnswerRejected: func(ctx context.Context, e *domain.StepEvent) {
			logger.DebugContext(ctx, "answer_rejected", "user", e.User, "step", e.Step)
		},
		OnRunCompleted: func(ctx context.Context, e *domain.RunEvent) {
			logger.InfoContext(ctx, "run_completed",
				"user", e.User,
				"steps", e.Steps,
				"duration", e.Duration,
			)
		},
		OnRunCancelled: func(ctx context.Context, e *domain.RunEvent) {
			logger.InfoContext(ctx, "run_cancelled",
				"user", e.User,
				"steps", e.Steps,
			)
		},
	}
}

// JoinHooks merges hook sets into one. Every non-nil callback runs, in the
// order the sets were given.
func JoinHooks(sets ...domain.Hooks) domain.Hooks {
	var joined domain.Hooks

	joined.OnStepEnter = func(ctx context.Context, e *domain.StepEvent) {
		for _, s := range sets {
			if s.OnStepEnter != nil {
				s.OnStepEnter(ctx, e)
			}
		}
	}
	joined.OnAnswerRejected = func(ctx context.Context, e *domain.StepEvent) {
		for _, s := range sets {
			if s.OnAnswerRejected != nil {
				s.OnAnswerRejected(ctx, e)
			}
		}
	}
	joined.OnRunCompleted = func(ctx context.Context, e *domain.RunEvent) {
		for _, s := range sets {
			if s.OnRunCompleted != nil {
				s.OnRunCompleted(ctx, e)
			}
		}
	}
	joined.OnRunCancelled = func(ctx context.Context, e *domain.RunEvent) {
		for _, s := range sets {
			if s.OnRunCancelled != nil {
				s.OnRunCancelled(ctx, e)
			}
		}
	}

	return joined
}
