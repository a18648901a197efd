package ports

import (
	"context"

	"github.com/aretw0/espalier/pkg/domain"
)

// SessionStore defines the interface for persisting in-progress sessions.
// One user has at most one session at a time, so the user ID is the key.
type SessionStore interface {
	// Put persists the session for its user, replacing any previous one.
	Put(ctx context.Context, session *domain.Session) error

	// Get retrieves the session for a given user.
	// Returns domain.ErrSessionNotFound if the user has no active session.
	Get(ctx context.Context, user domain.UserID) (*domain.Session, error)

	// Delete removes the session for a given user. Deleting a user with no
	// session is not an error.
	Delete(ctx context.Context, user domain.UserID) error

	// List returns the users that currently have an active session.
	List(ctx context.Context) ([]domain.UserID, error)
}
