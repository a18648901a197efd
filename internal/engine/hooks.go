package engine

import (
	"context"
	"time"

	"github.com/aretw0/espalier/pkg/domain"
)

func (e *Engine) emitStepEnter(ctx context.Context, user domain.UserID, step int) {
	if e.hooks.OnStepEnter == nil {
		return
	}
	e.hooks.OnStepEnter(ctx, &domain.StepEvent{
		HookBase: domain.HookBase{Timestamp: e.clock(), Type: domain.HookStepEnter, User: user},
		Step:     step,
	})
}

func (e *Engine) emitAnswerRejected(ctx context.Context, user domain.UserID, step int) {
	if e.hooks.OnAnswerRejected == nil {
		return
	}
	e.hooks.OnAnswerRejected(ctx, &domain.StepEvent{
		HookBase: domain.HookBase{Timestamp: e.clock(), Type: domain.HookAnswerRejected, User: user},
		Step:     step,
	})
}

func (e *Engine) emitRunCompleted(ctx context.Context, user domain.UserID, steps int, d time.Duration) {
	if e.hooks.OnRunCompleted == nil {
		return
	}
	e.hooks.OnRunCompleted(ctx, &domain.RunEvent{
		HookBase: domain.HookBase{Timestamp: e.clock(), Type: domain.HookRunCompleted, User: user},
		Steps:    steps,
		Duration: d,
	})
}

func (e *Engine) emitRunCancelled(ctx context.Context, user domain.UserID, steps int, d time.Duration) {
	if e.hooks.OnRunCancelled == nil {
		return
	}
	e.hooks.OnRunCancelled(ctx, &domain.RunEvent{
		HookBase: domain.HookBase{Timestamp: e.clock(), Type: domain.HookRunCancelled, User: user},
		Steps:    steps,
		Duration: d,
	})
}
