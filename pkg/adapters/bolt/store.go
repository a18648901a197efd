// Package bolt implements the session store on a single-file BoltDB
// database. Like the file store it needs no external services, but every
// operation is a real transaction, so it also holds up under many concurrent
// users without a file per user.
package bolt

import (
	"context"
	"encoding/json"
	"fmt"

	bolt "go.etcd.io/bbolt"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
)

var bucketSessions = []byte("sessions")

// Store implements ports.SessionStore on a BoltDB file.
type Store struct {
	db *bolt.DB
}

var _ ports.SessionStore = (*Store)(nil)

// New opens (or creates) the database file and ensures the sessions bucket
// exists. The returned store must be closed when done.
func New(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSessions)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create sessions bucket: %w", err)
	}

	return &Store{db: db}, nil
}

// Put persists the session in one write transaction.
func (s *Store) Put(ctx context.Context, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSessions).Put([]byte(session.User), data)
	})
	if err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

// Get retrieves the session.
func (s *Store) Get(ctx context.Context, user domain.UserID) (*domain.Session, error) {
	var session *domain.Session

	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketSessions).Get([]byte(user))
		if data == nil {
			return domain.ErrSessionNotFound
		}
		// Bolt memory is only valid inside the transaction; unmarshalling
		// here copies everything out.
		session = &domain.Session{}
		return json.Unmarshal(data, session)
	})
	if err != nil {
		if err == domain.ErrSessionNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	return session, nil
}

// Delete removes the session. Deleting an absent user is a no-op.
func (s *Store) Delete(ctx context.Context, user domain.UserID) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSessions).Delete([]byte(user))
	})
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// List returns the users with an active session.
func (s *Store) List(ctx context.Context) ([]domain.UserID, error) {
	var users []domain.UserID

	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSessions).ForEach(func(k, _ []byte) error {
			users = append(users, domain.UserID(k))
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	return users, nil
}

// Close releases the database file.
func (s *Store) Close() error {
	return s.db.Close()
}
