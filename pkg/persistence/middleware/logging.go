package middleware

import (
	"context"
	"log/slog"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
)

type loggingMiddleware struct {
	next   ports.SessionStore
	logger *slog.Logger
}

// NewLogging creates a middleware that audits every store operation. Failures
// log at error level with the cause; successes at debug, so production noise
// is a log-level decision rather than a code change.
func NewLogging(logger *slog.Logger) Middleware {
	return func(next ports.SessionStore) ports.SessionStore {
		return &loggingMiddleware{next: next, logger: logger}
	}
}

func (m *loggingMiddleware) Put(ctx context.Context, session *domain.Session) error {
	err := m.next.Put(ctx, session)
	if err != nil {
		m.logger.ErrorContext(ctx, "session put failed", "user", session.User, "error", err)
		return err
	}
	m.logger.DebugContext(ctx, "session put", "user", session.User, "step", session.CurrentStep)
	return nil
}

func (m *loggingMiddleware) Get(ctx context.Context, user domain.UserID) (*domain.Session, error) {
	session, err := m.next.Get(ctx, user)
	if err != nil {
		if err == domain.ErrSessionNotFound {
			m.logger.DebugContext(ctx, "session absent", "user", user)
		} else {
			m.logger.ErrorContext(ctx, "session get failed", "user", user, "error", err)
		}
		return nil, err
	}
	m.logger.DebugContext(ctx, "session get", "user", user, "step", session.CurrentStep)
	return session, nil
}

func (m *loggingMiddleware) Delete(ctx context.Context, user domain.UserID) error {
	err := m.next.Delete(ctx, user)
	if err != nil {
		m.logger.ErrorContext(ctx, "session delete failed", "user", user, "error", err)
		return err
	}
	m.logger.DebugContext(ctx, "session delete", "user", user)
	return nil
}

func (m *loggingMiddleware) List(ctx context.Context) ([]domain.UserID, error) {
	users, err := m.next.List(ctx)
	if err != nil {
		m.logger.ErrorContext(ctx, "session list failed", "error", err)
		return nil, err
	}
	m.logger.DebugContext(ctx, "session list", "count", len(users))
	return users, nil
}
