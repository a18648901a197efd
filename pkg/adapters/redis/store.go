// Package redis implements the session store and the distributed locker on
// Redis. It is the store to use when several replicas serve the same users,
// or when sessions should expire on their own via TTL.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// Store implements ports.SessionStore using Redis.
//
// Next to the per-user session keys it maintains a ZSET index scored by
// expiry time, so List stays a single range read instead of a keyspace scan.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

var _ ports.SessionStore = (*Store)(nil)

// Option configures the store.
type Option func(*Store)

// WithTTL sets the expiration for sessions. Zero (the default) keeps
// sessions until they complete or are cancelled.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for sessions.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "espalier:session:",
		ttl:    0,
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *Store) key(user domain.UserID) string {
	return s.prefix + string(user)
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Put persists the session to Redis. The session value and its index entry
// are written in one pipeline so List never sees one without the other.
func (s *Store) Put(ctx context.Context, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(session.User), data, s.ttl)

	// Index score is the expiry instant; without a TTL, far enough in the
	// future to never be pruned (2100-01-01).
	score := float64(time.Now().Add(s.ttl).Unix())
	if s.ttl == 0 {
		score = 4102444800
	}
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  score,
		Member: string(session.User),
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}

	return nil
}

// Get retrieves the session from Redis.
func (s *Store) Get(ctx context.Context, user domain.UserID) (*domain.Session, error) {
	val, err := s.client.Get(ctx, s.key(user)).Result()
	if err != nil {
		if err == backend.Nil {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal([]byte(val), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

// Delete removes the session and its index entry.
func (s *Store) Delete(ctx context.Context, user domain.UserID) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key(user))
	pipe.ZRem(ctx, s.indexKey(), string(user))

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete from redis: %w", err)
	}
	return nil
}

// List returns the users with an active session. Entries whose TTL has
// passed are pruned from the index lazily here; Redis expires the session
// values themselves.
func (s *Store) List(ctx context.Context) ([]domain.UserID, error) {
	now := float64(time.Now().Unix())
	err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired sessions: %w", err)
	}

	members, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	users := make([]domain.UserID, 0, len(members))
	for _, m := range members {
		users = append(users, domain.UserID(m))
	}
	return users, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
