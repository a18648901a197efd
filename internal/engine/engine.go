// Package engine implements the conversation state machine: it turns one
// inbound event into one outbound reply, reading and writing the session
// store as it goes.
package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/espalier/pkg/catalog"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
)

// Engine is the core state machine. It is stateless between calls; every
// session lives in the store, so any instance can handle any user's next
// event.
type Engine struct {
	store    ports.SessionStore
	catalog  *catalog.Catalog
	recorder ports.Recorder
	hooks    domain.Hooks
	logger   *slog.Logger
	messages Messages
	summary  SummaryBuilder

	clock func() time.Time
	newID func() string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithRecorder archives completed runs through r. Without a recorder,
// completions are reported to the user but not kept.
func WithRecorder(r ports.Recorder) Option {
	return func(e *Engine) {
		e.recorder = r
	}
}

// WithHooks registers observability callbacks.
func WithHooks(hooks domain.Hooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMessages overrides the fixed texts emitted around the catalog's own
// prompts. Zero-value fields keep their defaults.
func WithMessages(m Messages) Option {
	return func(e *Engine) {
		e.messages = m
	}
}

// WithClock injects the time source. Tests use this to make timestamps and
// durations deterministic.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		e.clock = clock
	}
}

// WithIDGenerator injects the completion ID source.
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) {
		e.newID = newID
	}
}

// New assembles an engine over the given store and catalog.
func New(store ports.SessionStore, cat *catalog.Catalog, opts ...Option) *Engine {
	e := &Engine{
		store:   store,
		catalog: cat,
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if e.clock == nil {
		e.clock = time.Now
	}
	if e.newID == nil {
		e.newID = uuid.NewString
	}
	e.messages = e.messages.withDefaults()
	e.summary = SummaryBuilder{Header: e.messages.SummaryHeader}

	return e
}

// Catalog returns the question catalog the engine runs over.
func (e *Engine) Catalog() *catalog.Catalog { return e.catalog }

// Handle processes one inbound event and returns the reply to deliver to the
// user. Validation failures and answers without a session are normal
// conversation turns, not errors; only infrastructure faults (store or
// recorder failures, unknown event kinds) surface as errors.
func (e *Engine) Handle(ctx context.Context, ev domain.Event) (domain.Reply, error) {
	if ev.User == "" {
		return domain.Reply{}, fmt.Errorf("event without user id")
	}

	switch ev.Kind {
	case domain.EventStart:
		return e.start(ctx, ev)
	case domain.EventAnswer:
		return e.answer(ctx, ev)
	case domain.EventCancel:
		return e.cancel(ctx, ev)
	default:
		return domain.Reply{}, fmt.Errorf("%w: %q", domain.ErrUnknownEvent, ev.Kind)
	}
}

// Peek returns the user's current session without advancing it. Returns
// domain.ErrSessionNotFound when the user is idle.
func (e *Engine) Peek(ctx context.Context, user domain.UserID) (*domain.Session, error) {
	return e.store.Get(ctx, user)
}
