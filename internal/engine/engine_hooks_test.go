package engine_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/espalier/internal/engine"
	"github.com/aretw0/espalier/pkg/domain"
)

func TestEngine_LifecycleHooks(t *testing.T) {
	// Capture events
	var steps []int
	var rejected []int
	var completed []*domain.RunEvent

	hooks := domain.Hooks{
		OnStepEnter: func(ctx context.Context, e *domain.StepEvent) {
			steps = append(steps, e.Step)
		},
		OnAnswerRejected: func(ctx context.Context, e *domain.StepEvent) {
			rejected = append(rejected, e.Step)
		},
		OnRunCompleted: func(ctx context.Context, e *domain.RunEvent) {
			completed = append(completed, e)
		},
	}

	eng, _, clock := newTestEngine(t, engine.WithHooks(hooks))
	user := domain.UserID("42")

	handle(t, eng, user, domain.EventStart, "")
	handle(t, eng, user, domain.EventAnswer, "abc")
	handle(t, eng, user, domain.EventAnswer, "20")
	handle(t, eng, user, domain.EventAnswer, "percent")
	clock.Advance(30 * time.Second)
	handle(t, eng, user, domain.EventAnswer, "10")

	assert.Equal(t, []int{0, 1, 2}, steps, "one step-enter per prompt")
	assert.Equal(t, []int{0}, rejected)

	require.Len(t, completed, 1)
	assert.Equal(t, domain.HookRunCompleted, completed[0].Type)
	assert.Equal(t, user, completed[0].User)
	assert.Equal(t, 3, completed[0].Steps)
	assert.Equal(t, 30*time.Second, completed[0].Duration)
}

func TestEngine_CancellationHook(t *testing.T) {
	var cancelled []*domain.RunEvent
	hooks := domain.Hooks{
		OnRunCancelled: func(ctx context.Context, e *domain.RunEvent) {
			cancelled = append(cancelled, e)
		},
	}

	eng, _, clock := newTestEngine(t, engine.WithHooks(hooks))
	user := domain.UserID("42")

	handle(t, eng, user, domain.EventStart, "")
	handle(t, eng, user, domain.EventAnswer, "20")
	clock.Advance(time.Minute)
	handle(t, eng, user, domain.EventCancel, "")

	require.Len(t, cancelled, 1)
	assert.Equal(t, 1, cancelled[0].Steps, "steps reports answered steps at cancellation")
	assert.Equal(t, time.Minute, cancelled[0].Duration)

	// Cancelling while idle fires no hook: there was no run to end.
	handle(t, eng, user, domain.EventCancel, "")
	assert.Len(t, cancelled, 1)
}
