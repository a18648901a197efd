package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/espalier/internal/logging"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Gate serializes event handling per user, so concurrent messages from one
// user are applied one at a time while different users proceed in parallel.
// It uses reference counting to garbage collect unused locks.
//
// Gate itself implements ports.EventHandler, so transports can wrap the
// wizard once and forget about ordering.
type Gate struct {
	handler ports.EventHandler

	mu    sync.Mutex                   // Global lock for the map
	locks map[domain.UserID]*lockEntry // Map of active locks

	locker  ports.DistributedLocker // Optional distributed locker
	lockTTL time.Duration
	logger  *slog.Logger // Logger for internal events (like deferred errors)
}

var _ ports.EventHandler = (*Gate)(nil)

// Option configures the Gate.
type Option func(*Gate)

// WithLocker enables distributed locking. Required when multiple replicas
// share one session store; a lone process gets the same ordering from the
// in-process mutexes alone.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(g *Gate) {
		g.locker = locker
	}
}

// WithLockTTL overrides the distributed lock expiry. The TTL only matters
// when a holder dies without unlocking; it should exceed the slowest
// expected store round-trip.
func WithLockTTL(ttl time.Duration) Option {
	return func(g *Gate) {
		g.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Gate.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gate) {
		g.logger = logger
	}
}

// NewGate wraps handler with per-user serialization.
func NewGate(handler ports.EventHandler, opts ...Option) *Gate {
	g := &Gate{
		handler: handler,
		locks:   make(map[domain.UserID]*lockEntry),
		lockTTL: 30 * time.Second,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(user) after
// unlocking.
func (g *Gate) acquire(user domain.UserID) *lockEntry {
	g.mu.Lock()
	defer g.mu.Unlock()

	entry, exists := g.locks[user]
	if !exists {
		entry = &lockEntry{}
		g.locks[user] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches
// zero.
func (g *Gate) release(user domain.UserID) {
	g.mu.Lock()
	defer g.mu.Unlock()

	entry, exists := g.locks[user]
	if !exists {
		return // Should not happen if paired correctly
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(g.locks, user)
	}
}

// Handle applies one event while holding the user's lock.
func (g *Gate) Handle(ctx context.Context, ev domain.Event) (domain.Reply, error) {
	var reply domain.Reply
	err := g.WithLock(ctx, ev.User, func(ctx context.Context) error {
		var err error
		reply, err = g.handler.Handle(ctx, ev)
		return err
	})
	return reply, err
}

// WithLock executes fn while holding the lock for the user. Transports that
// touch session state outside of event handling (an admin delete, a bulk
// export) run those operations through here to stay ordered with live
// conversations.
func (g *Gate) WithLock(ctx context.Context, user domain.UserID, fn func(context.Context) error) error {
	entry := g.acquire(user)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		g.release(user)
	}()

	if g.locker != nil {
		unlock, err := g.locker.Lock(ctx, string(user), g.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				g.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"user", user,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
