package runner

import (
	"log/slog"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithWizard configures the wizard to converse with. The runner also uses it
// to detect a resumable session on startup.
func WithWizard(w *espalier.Wizard) Option {
	return func(r *Runner) {
		r.wizard = w
	}
}

// WithEventHandler overrides where events are dispatched, e.g. a
// session.Gate wrapping the wizard shared with other transports. When both
// this and WithWizard are set, events go here and the wizard is only used
// for the startup resume check.
func WithEventHandler(handler ports.EventHandler) Option {
	return func(r *Runner) {
		r.events = handler
	}
}

// WithInputHandler configures a custom IOHandler.
func WithInputHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithUser sets the identity stamped on events that arrive without one.
func WithUser(user domain.UserID) Option {
	return func(r *Runner) {
		r.User = user
	}
}

// WithMiddleware appends event middlewares, applied in the given order.
func WithMiddleware(mws ...EventMiddleware) Option {
	return func(r *Runner) {
		r.middlewares = append(r.middlewares, mws...)
	}
}

// WithHeadless disables the startup resume notice, for driving the runner
// from another program.
func WithHeadless(headless bool) Option {
	return func(r *Runner) {
		r.headless = headless
	}
}
