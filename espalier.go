package espalier

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/espalier/internal/engine"
	"github.com/aretw0/espalier/pkg/adapters/memory"
	"github.com/aretw0/espalier/pkg/catalog"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
)

// Wizard is the high-level entry point for the espalier library.
// It wraps the internal engine and provides a simplified API for consumers.
type Wizard struct {
	engine      *engine.Engine
	store       ports.SessionStore
	catalog     *catalog.Catalog
	catalogPath string
	recorder    ports.Recorder
	hooks       domain.Hooks
	messages    engine.Messages
	logger      *slog.Logger
	clock       func() time.Time
	newID       func() string
	Name        string
}

// Option defines a functional option for configuring the Wizard.
type Option func(*Wizard)

// WithCatalog injects a prebuilt question catalog, bypassing the built-in one.
func WithCatalog(cat *catalog.Catalog) Option {
	return func(w *Wizard) {
		w.catalog = cat
	}
}

// WithCatalogFile loads the question catalog from a YAML definition file.
func WithCatalogFile(path string) Option {
	return func(w *Wizard) {
		w.catalogPath = path
	}
}

// WithStore injects the session store. Defaults to the in-memory store,
// which does not survive restarts.
func WithStore(store ports.SessionStore) Option {
	return func(w *Wizard) {
		w.store = store
	}
}

// WithRecorder archives completed runs through r.
func WithRecorder(r ports.Recorder) Option {
	return func(w *Wizard) {
		w.recorder = r
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks domain.Hooks) Option {
	return func(w *Wizard) {
		w.hooks = hooks
	}
}

// WithMessages overrides the fixed texts around the catalog's own prompts.
func WithMessages(m engine.Messages) Option {
	return func(w *Wizard) {
		w.messages = m
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Wizard) {
		w.logger = logger
	}
}

// WithClock injects the time source, mainly for tests.
func WithClock(clock func() time.Time) Option {
	return func(w *Wizard) {
		w.clock = clock
	}
}

// WithIDGenerator injects the completion ID source, mainly for tests.
func WithIDGenerator(newID func() string) Option {
	return func(w *Wizard) {
		w.newID = newID
	}
}

// New initializes a new Wizard.
// By default it runs the built-in reduction-plan catalog over an in-memory
// store; production setups inject a durable store and usually a recorder.
func New(opts ...Option) (*Wizard, error) {
	w := &Wizard{}

	for _, opt := range opts {
		opt(w)
	}

	if w.catalog != nil && w.catalogPath != "" {
		return nil, fmt.Errorf("WithCatalog and WithCatalogFile are mutually exclusive")
	}
	if w.catalogPath != "" {
		cat, err := catalog.Load(w.catalogPath)
		if err != nil {
			return nil, err
		}
		w.catalog = cat
	}
	if w.catalog == nil {
		w.catalog = catalog.Default()
	}
	w.Name = w.catalog.Name()

	if w.store == nil {
		w.store = memory.New()
	}

	// Ensure logger is initialized (so we don't pass nil to the engine, which
	// would overwrite its default).
	if w.logger == nil {
		w.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if w.Name != "" {
		w.logger = w.logger.With("wizard", w.Name)
	}

	engineOpts := []engine.Option{
		engine.WithHooks(w.hooks),
		engine.WithLogger(w.logger),
		engine.WithMessages(w.messages),
	}
	if w.recorder != nil {
		engineOpts = append(engineOpts, engine.WithRecorder(w.recorder))
	}
	if w.clock != nil {
		engineOpts = append(engineOpts, engine.WithClock(w.clock))
	}
	if w.newID != nil {
		engineOpts = append(engineOpts, engine.WithIDGenerator(w.newID))
	}

	w.engine = engine.New(w.store, w.catalog, engineOpts...)

	return w, nil
}

var _ ports.EventHandler = (*Wizard)(nil)

// Handle processes one inbound event and returns the reply to deliver.
// It implements ports.EventHandler.
func (w *Wizard) Handle(ctx context.Context, ev domain.Event) (domain.Reply, error) {
	return w.engine.Handle(ctx, ev)
}

// Start begins (or restarts) a run for the user and returns the first prompt.
func (w *Wizard) Start(ctx context.Context, user domain.UserID) (domain.Reply, error) {
	return w.engine.Handle(ctx, domain.Event{User: user, Kind: domain.EventStart})
}

// Answer applies raw answer text to the user's current step.
func (w *Wizard) Answer(ctx context.Context, user domain.UserID, text string) (domain.Reply, error) {
	return w.engine.Handle(ctx, domain.Event{User: user, Kind: domain.EventAnswer, Text: text})
}

// Cancel aborts the user's run, if any.
func (w *Wizard) Cancel(ctx context.Context, user domain.UserID) (domain.Reply, error) {
	return w.engine.Handle(ctx, domain.Event{User: user, Kind: domain.EventCancel})
}

// Peek returns the user's in-progress session without advancing it.
// Returns domain.ErrSessionNotFound when the user is idle.
func (w *Wizard) Peek(ctx context.Context, user domain.UserID) (*domain.Session, error) {
	return w.engine.Peek(ctx, user)
}

// Catalog returns the question catalog the wizard runs over.
func (w *Wizard) Catalog() *catalog.Catalog {
	return w.catalog
}

// Store returns the underlying session store used by the wizard.
func (w *Wizard) Store() ports.SessionStore {
	return w.store
}
