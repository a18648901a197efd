package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/espalier/pkg/domain"
)

// start begins a fresh run. It is unconditional: re-issuing start mid-run
// discards prior progress and asks question 0 again. A single Put both
// replaces any previous session and persists the new one, so there is no
// window where the user has no session at all.
func (e *Engine) start(ctx context.Context, ev domain.Event) (domain.Reply, error) {
	session := domain.NewSession(ev.User, e.clock())
	if err := e.store.Put(ctx, session); err != nil {
		return domain.Reply{}, fmt.Errorf("failed to persist session: %w", err)
	}

	e.emitStepEnter(ctx, ev.User, 0)
	e.logger.Debug("run started", "user", ev.User)

	text := e.catalog.Step(0).Prompt
	if e.messages.Intro != "" {
		text = e.messages.Intro + "\n\n" + text
	}
	return domain.Reply{Text: text}, nil
}

// answer applies the user's raw text to the step they are currently at.
func (e *Engine) answer(ctx context.Context, ev domain.Event) (domain.Reply, error) {
	session, err := e.store.Get(ctx, ev.User)
	if errors.Is(err, domain.ErrSessionNotFound) {
		e.logger.Debug("answer without active session", "user", ev.User)
		return domain.Reply{Text: e.messages.Guidance}, nil
	}
	if err != nil {
		return domain.Reply{}, fmt.Errorf("failed to load session: %w", err)
	}

	if session.CurrentStep < 0 || session.CurrentStep >= e.catalog.Len() {
		// The persisted step no longer maps onto the catalog, typically after
		// a restart with a shorter question list. The run cannot continue.
		if err := e.store.Delete(ctx, ev.User); err != nil {
			return domain.Reply{}, fmt.Errorf("failed to discard stale session: %w", err)
		}
		e.logger.Warn("discarded session outside catalog range",
			"user", ev.User, "step", session.CurrentStep, "steps", e.catalog.Len())
		return domain.Reply{Text: e.messages.Guidance}, nil
	}

	step := session.CurrentStep
	question := e.catalog.Step(step)
	outcome := question.Validate(ev.Text)
	if !outcome.Accepted {
		// The session is untouched: same step, same answers, nothing written.
		e.emitAnswerRejected(ctx, ev.User, step)
		e.logger.Debug("answer rejected", "user", ev.User, "step", step)
		return domain.Reply{Text: outcome.Reason + "\n\n" + question.Prompt}, nil
	}

	now := e.clock()
	session.Record(step, outcome.Value, now)

	if session.CurrentStep < e.catalog.Len() {
		if err := e.store.Put(ctx, session); err != nil {
			return domain.Reply{}, fmt.Errorf("failed to persist session: %w", err)
		}
		e.emitStepEnter(ctx, ev.User, session.CurrentStep)
		e.logger.Debug("answer accepted", "user", ev.User, "step", step)
		return domain.Reply{Text: e.catalog.Step(session.CurrentStep).Prompt}, nil
	}

	return e.complete(ctx, session, now)
}

// complete finishes a run whose last answer was just accepted. The completion
// is recorded before the session is deleted; if recording fails the session
// survives untouched in the store and resubmitting the final answer retries
// the whole tail safely.
func (e *Engine) complete(ctx context.Context, session *domain.Session, now time.Time) (domain.Reply, error) {
	if e.recorder != nil {
		completion := &domain.Completion{
			ID:          e.newID(),
			User:        session.User,
			Answers:     session.Clone().Answers,
			StartedAt:   session.StartedAt,
			CompletedAt: now,
		}
		if err := e.recorder.Record(ctx, completion); err != nil {
			return domain.Reply{}, fmt.Errorf("failed to record completion: %w", err)
		}
	}

	if err := e.store.Delete(ctx, session.User); err != nil {
		return domain.Reply{}, fmt.Errorf("failed to clear completed session: %w", err)
	}

	duration := now.Sub(session.StartedAt)
	e.emitRunCompleted(ctx, session.User, e.catalog.Len(), duration)
	e.logger.Info("run completed", "user", session.User, "steps", e.catalog.Len(), "duration", duration)

	return domain.Reply{Text: e.summary.Build(e.catalog, session.Answers), Done: true}, nil
}

// cancel aborts the run, if any. The acknowledgement is the same whether or
// not a session existed; either way the user ends up idle.
func (e *Engine) cancel(ctx context.Context, ev domain.Event) (domain.Reply, error) {
	session, err := e.store.Get(ctx, ev.User)
	if err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		return domain.Reply{}, fmt.Errorf("failed to load session: %w", err)
	}

	if err := e.store.Delete(ctx, ev.User); err != nil {
		return domain.Reply{}, fmt.Errorf("failed to delete session: %w", err)
	}

	if session != nil {
		e.emitRunCancelled(ctx, ev.User, session.CurrentStep, e.clock().Sub(session.StartedAt))
		e.logger.Info("run cancelled", "user", ev.User, "step", session.CurrentStep)
	}

	return domain.Reply{Text: e.messages.CancelAck, Done: true}, nil
}
