// Package file implements a session store on the local filesystem, one JSON
// file per user. It is the simplest durable store: no external services, and
// sessions survive process restarts as long as the directory does.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
)

// Store implements ports.SessionStore using one JSON file per user under
// BasePath. User IDs are percent-encoded in filenames, so arbitrary IDs
// (including path separators) stay confined to the directory.
type Store struct {
	BasePath string
}

var _ ports.SessionStore = (*Store)(nil)

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".espalier/sessions".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".espalier", "sessions")
	}
	return &Store{BasePath: basePath}
}

func (s *Store) path(user domain.UserID) string {
	return filepath.Join(s.BasePath, url.PathEscape(string(user))+".json")
}

// Put persists the session to a JSON file atomically.
// It writes to a temporary file first, syncs via fsync, and then renames it
// onto the destination, so a crash mid-write never leaves a partial session.
func (s *Store) Put(ctx context.Context, session *domain.Session) error {
	if session.User == "" {
		return fmt.Errorf("user cannot be empty")
	}

	if err := os.MkdirAll(s.BasePath, 0o755); err != nil {
		return fmt.Errorf("failed to ensure session directory: %w", err)
	}

	destPath := s.path(session.User)

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	// The temp file lives in the same directory so the final rename stays on
	// one filesystem, which is what makes it atomic.
	tmpFile, err := os.CreateTemp(s.BasePath, "tmp-session-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		// No-ops on the success path: the file is already closed and renamed.
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Windows cannot rename an open file.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// Windows also refuses to rename over an existing file, so remove the
	// destination first. The brief gap this opens is preferable to a partial
	// write; on POSIX the rename replaces in one step either way.
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to remove previous session file: %w", err)
		}
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file into place: %w", err)
	}

	return nil
}

// Get retrieves the session from its JSON file.
func (s *Store) Get(ctx context.Context, user domain.UserID) (*domain.Session, error) {
	if user == "" {
		return nil, fmt.Errorf("user cannot be empty")
	}

	data, err := os.ReadFile(s.path(user))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

// Delete removes the session file.
func (s *Store) Delete(ctx context.Context, user domain.UserID) error {
	if user == "" {
		return fmt.Errorf("user cannot be empty")
	}

	err := os.Remove(s.path(user))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete session file: %w", err)
	}

	return nil
}

// List returns the users with an active session.
func (s *Store) List(ctx context.Context) ([]domain.UserID, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.UserID{}, nil
		}
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	var users []domain.UserID
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" || strings.HasPrefix(name, "tmp-") {
			continue
		}
		id, err := url.PathUnescape(strings.TrimSuffix(name, ".json"))
		if err != nil {
			// Not one of ours; leave it alone.
			continue
		}
		users = append(users, domain.UserID(id))
	}

	return users, nil
}
