package runner

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
)

// EventMiddleware wraps an event handler with cross-cutting behavior
// (logging, input scrubbing, metrics). Middlewares compose with Wrap.
type EventMiddleware func(ports.EventHandler) ports.EventHandler

// Wrap applies middlewares so the first one listed sees events first.
func Wrap(handler ports.EventHandler, mws ...EventMiddleware) ports.EventHandler {
	for i := len(mws) - 1; i >= 0; i-- {
		handler = mws[i](handler)
	}
	return handler
}

// EventLogging logs every event and its outcome. Replies log at debug;
// handler failures at error. Answer text is never logged, only its length,
// since answers may be personal data.
func EventLogging(logger *slog.Logger) EventMiddleware {
	return func(next ports.EventHandler) ports.EventHandler {
		return ports.HandlerFunc(func(ctx context.Context, ev domain.Event) (domain.Reply, error) {
			started := time.Now()
			reply, err := next.Handle(ctx, ev)
			if err != nil {
				logger.ErrorContext(ctx, "event failed",
					"user", ev.User,
					"kind", ev.Kind,
					"error", err,
				)
				return reply, err
			}
			logger.DebugContext(ctx, "event handled",
				"user", ev.User,
				"kind", ev.Kind,
				"text_len", len(ev.Text),
				"done", reply.Done,
				"elapsed", time.Since(started),
			)
			return reply, nil
		})
	}
}

// EventSanitizing scrubs answer text before it reaches the engine. The text
// and JSON handlers sanitize at the read site already; this middleware covers
// transports that feed events directly (HTTP, MCP).
func EventSanitizing() EventMiddleware {
	return func(next ports.EventHandler) ports.EventHandler {
		return ports.HandlerFunc(func(ctx context.Context, ev domain.Event) (domain.Reply, error) {
			clean, err := SanitizeInput(ev.Text)
			if err != nil {
				return domain.Reply{}, err
			}
			ev.Text = clean
			return next.Handle(ctx, ev)
		})
	}
}
