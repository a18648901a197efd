package observability

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/espalier/pkg/domain"
)

func TestJoinHooksCallsEverySetInOrder(t *testing.T) {
	var order []string
	set := func(name string) domain.Hooks {
		return domain.Hooks{
			OnStepEnter: func(ctx context.Context, e *domain.StepEvent) {
				order = append(order, name+":enter")
			},
			OnRunCompleted: func(ctx context.Context, e *domain.RunEvent) {
				order = append(order, name+":completed")
			},
		}
	}

	joined := JoinHooks(set("a"), set("b"))
	joined.OnStepEnter(context.Background(), &domain.StepEvent{Step: 0})
	joined.OnRunCompleted(context.Background(), &domain.RunEvent{Steps: 3})

	assert.Equal(t, []string{"a:enter", "b:enter", "a:completed", "b:completed"}, order)
}

func TestJoinHooksSkipsNilCallbacks(t *testing.T) {
	var rejected int
	partial := domain.Hooks{
		OnAnswerRejected: func(ctx context.Context, e *domain.StepEvent) {
			rejected++
		},
	}

	joined := JoinHooks(partial, domain.Hooks{})
	assert.NotPanics(t, func() {
		joined.OnStepEnter(context.Background(), &domain.StepEvent{})
		joined.OnAnswerRejected(context.Background(), &domain.StepEvent{Step: 1})
		joined.OnRunCancelled(context.Background(), &domain.RunEvent{})
	})
	assert.Equal(t, 1, rejected)
}

func TestLoggingHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	hooks := LoggingHooks(logger)
	ctx := context.Background()

	hooks.OnStepEnter(ctx, &domain.StepEvent{HookBase: domain.HookBase{User: "u1"}, Step: 0})
	hooks.OnAnswerRejected(ctx, &domain.StepEvent{HookBase: domain.HookBase{User: "u1"}, Step: 1})
	hooks.OnRunCompleted(ctx, &domain.RunEvent{HookBase: domain.HookBase{User: "u1"}, Steps: 3, Duration: 2 * time.Minute})
	hooks.OnRunCancelled(ctx, &domain.RunEvent{HookBase: domain.HookBase{User: "u1"}, Steps: 1})

	out := buf.String()
	assert.Contains(t, out, "step_enter")
	assert.Contains(t, out, "answer_rejected")
	assert.Contains(t, out, "run_completed")
	assert.Contains(t, out, "run_cancelled")
	assert.Contains(t, out, "user=u1")
	assert.Contains(t, out, "steps=3")
}
