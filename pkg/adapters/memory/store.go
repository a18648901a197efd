// Package memory provides a process-local, non-durable session store.
//
// It is the default store when none is configured, which keeps examples and
// tests dependency-free. Anything that must survive a restart should use the
// file, bolt, or redis adapters instead.
package memory

import (
	"context"
	"sync"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
)

// Store implements ports.SessionStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[domain.UserID]*domain.Session
	mu   sync.RWMutex
}

var _ ports.SessionStore = (*Store)(nil)

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		data: make(map[domain.UserID]*domain.Session),
	}
}

// Put persists the session in memory.
func (s *Store) Put(ctx context.Context, session *domain.Session) error {
	// Clone to ensure isolation, similar to serialization.
	clone := session.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[clone.User] = clone
	return nil
}

// Get retrieves the session from memory.
func (s *Store) Get(ctx context.Context, user domain.UserID) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.data[user]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session.Clone(), nil
}

// Delete removes the session from memory.
func (s *Store) Delete(ctx context.Context, user domain.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, user)
	return nil
}

// List returns the users with an active session.
func (s *Store) List(ctx context.Context) ([]domain.UserID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]domain.UserID, 0, len(s.data))
	for user := range s.data {
		users = append(users, user)
	}
	return users, nil
}

// Len reports the number of active sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
