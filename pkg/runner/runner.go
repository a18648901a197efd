package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/internal/logging"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
)

// failureMsg is the generic reply for engine errors. Internals (store
// failures, timeouts) are logged, never shown to the user.
const failureMsg = "⚠️ Something went wrong. Please try again."

// ContentRenderer is a function that transforms content before outputting it.
// This allows for TUI rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)

// Runner is the interactive conversation loop. It reads events from an
// IOHandler, dispatches them to the wizard, and prints replies, until the
// input stream ends or the process is interrupted.
type Runner struct {
	// Handler is the IO strategy. If nil, an interactive TextHandler on
	// Stdin/Stdout is used.
	Handler IOHandler

	// Logger is used for internal debug logging. If nil, a no-op logger is used.
	Logger *slog.Logger

	// User is the identity stamped on events whose handler left User empty.
	User domain.UserID

	wizard      *espalier.Wizard
	events      ports.EventHandler
	middlewares []EventMiddleware
	headless    bool
}

// New creates a Runner. At minimum WithWizard or WithEventHandler must be
// given before Run.
func New(opts ...Option) *Runner {
	r := &Runner{
		Logger: logging.NewNop(),
		User:   "local",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the conversation loop until the input ends (EOF, exit/quit)
// or an interrupt arrives. A run in progress survives either way; the next
// Run against the same store resumes it.
func (r *Runner) Run(ctx context.Context) error {
	handler := r.resolveHandler()

	events, err := r.resolveEvents()
	if err != nil {
		return err
	}

	signals := NewSignalManager()
	defer signals.Stop()

	if err := r.greet(ctx, handler); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		ev, err := handler.Input(signals.Context())
		if err != nil {
			return r.handleInputError(handler, signals, err)
		}
		if ev.User == "" {
			ev.User = r.User
		}

		// Dispatch with a fresh context: an interrupt must not sever a
		// store write mid-commit.
		reply, err := events.Handle(context.Background(), ev)
		if err != nil {
			r.Logger.Error("event handling failed", "user", ev.User, "kind", ev.Kind, "error", err)
			if serr := handler.SystemOutput(ctx, failureMsg); serr != nil {
				return fmt.Errorf("output error: %w", serr)
			}
			continue
		}

		if err := handler.Output(ctx, reply); err != nil {
			return fmt.Errorf("output error: %w", err)
		}
	}
}

// greet tells a returning user their run is still live. Quiet otherwise.
func (r *Runner) greet(ctx context.Context, handler IOHandler) error {
	if r.headless || r.wizard == nil {
		return nil
	}

	session, err := r.wizard.Peek(ctx, r.User)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil
		}
		r.Logger.Warn("could not check for a session to resume", "user", r.User, "error", err)
		return nil
	}

	if err := handler.SystemOutput(ctx, "Resuming your setup where you left off. Send /cancel to abort."); err != nil {
		return err
	}
	prompt := r.wizard.Catalog().Step(session.CurrentStep).Prompt
	return handler.Output(ctx, domain.Reply{Text: prompt})
}

func (r *Runner) handleInputError(handler IOHandler, signals *SignalManager, err error) error {
	// An EOF right after Ctrl+C may actually be the signal surfacing through
	// the read; give the signal context a moment to catch up.
	signals.CheckRace()

	if signals.Context().Err() != nil {
		r.Logger.Debug("input interrupted", "err", signals.Context().Err())
		// The session stays in the store; the next run resumes it.
		_ = handler.SystemOutput(context.Background(), "Interrupted. Your progress is saved; run again to resume.")
		return nil
	}

	if err == io.EOF {
		return nil
	}
	return fmt.Errorf("input error: %w", err)
}

// resolveHandler ensures a valid IOHandler is set.
func (r *Runner) resolveHandler() IOHandler {
	if r.Handler == nil {
		// Memoize to prevent creating new pumps on subsequent Run() calls
		r.Handler = NewTextHandler(os.Stdin, os.Stdout)
	}
	return r.Handler
}

func (r *Runner) resolveEvents() (ports.EventHandler, error) {
	handler := r.events
	if handler == nil {
		if r.wizard == nil {
			return nil, errors.New("runner needs a wizard or an event handler")
		}
		handler = r.wizard
	}
	return Wrap(handler, r.middlewares...), nil
}
