package domain

import (
	"context"
	"time"
)

// HookType categorizes an engine lifecycle notification.
type HookType string

const (
	HookStepEnter      HookType = "step_enter"
	HookAnswerRejected HookType = "answer_rejected"
	HookRunCompleted   HookType = "run_completed"
	HookRunCancelled   HookType = "run_cancelled"
)

// HookBase contains common fields for all lifecycle notifications.
type HookBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      HookType  `json:"type"`
	User      UserID    `json:"user"`
}

// StepEvent reports a prompt being issued for a step, or an answer being
// rejected at it.
type StepEvent struct {
	HookBase
	Step int `json:"step"`
}

// RunEvent reports the end of a run, by completion or cancellation.
type RunEvent struct {
	HookBase
	Steps int `json:"steps"`

	// Duration is the wall time from start to completion.
	// Zero for cancellations of sessions that never existed.
	Duration time.Duration `json:"duration,omitempty"`
}

// Hooks defines optional callbacks for engine observability.
// Nil members are skipped; callbacks run synchronously on the event path
// and must be fast.
type Hooks struct {
	OnStepEnter      func(context.Context, *StepEvent)
	OnAnswerRejected func(context.Context, *StepEvent)
	OnRunCompleted   func(context.Context, *RunEvent)
	OnRunCancelled   func(context.Context, *RunEvent)
}
