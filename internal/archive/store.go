package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
)

// ErrNotFound is returned when no archived completion matches.
var ErrNotFound = errors.New("completion not found")

// Store archives completed runs in SQLite. It implements ports.Recorder and
// is safe for concurrent use.
type Store struct {
	db *sql.DB
}

var _ ports.Recorder = (*Store)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS completions (
	id           TEXT    NOT NULL,
	user_id      TEXT    NOT NULL,
	answers_json TEXT    NOT NULL,
	started_at   INTEGER NOT NULL,
	completed_at INTEGER NOT NULL,
	UNIQUE (user_id, started_at)
);
CREATE INDEX IF NOT EXISTS idx_completions_id ON completions(id);
CREATE INDEX IF NOT EXISTS idx_completions_user ON completions(user_id, completed_at DESC);
`

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens (and creates if needed) the archive at the given path.
// Use ":memory:" for an ephemeral archive.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("archive path is required")
	}

	dsn := path + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply archive schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record upserts one completion. The conflict key is (user, start time):
// the engine retries recording after a crash between the archive write and
// the session cleanup, and the retry must land on the same row.
func (s *Store) Record(ctx context.Context, c *domain.Completion) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c == nil {
		return fmt.Errorf("completion is required")
	}

	answers, err := json.Marshal(c.Answers)
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO completions (id, user_id, answers_json, started_at, completed_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(user_id, started_at) DO UPDATE SET
	id = excluded.id,
	answers_json = excluded.answers_json,
	completed_at = excluded.completed_at
`,
		c.ID,
		string(c.User),
		string(answers),
		toMillis(c.StartedAt),
		toMillis(c.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("record completion: %w", err)
	}
	return nil
}

// Get loads one completion by its run ID.
func (s *Store) Get(ctx context.Context, id string) (*domain.Completion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
SELECT id, user_id, answers_json, started_at, completed_at
FROM completions
WHERE id = ?
`, id)
	c, err := scanCompletion(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get completion: %w", err)
	}
	return c, nil
}

// Latest returns the most recently completed run for a user. This is the
// user's active plan.
func (s *Store) Latest(ctx context.Context, user domain.UserID) (*domain.Completion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
SELECT id, user_id, answers_json, started_at, completed_at
FROM completions
WHERE user_id = ?
ORDER BY completed_at DESC, id DESC
LIMIT 1
`, string(user))
	c, err := scanCompletion(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("latest completion: %w", err)
	}
	return c, nil
}

// List returns completions newest-first. An empty user lists everyone;
// limit <= 0 lists all rows.
func (s *Store) List(ctx context.Context, user domain.UserID, limit int) ([]domain.Completion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	var (
		rows *sql.Rows
		err  error
	)
	if user == "" {
		rows, err = s.db.QueryContext(ctx, `
SELECT id, user_id, answers_json, started_at, completed_at
FROM completions
ORDER BY completed_at DESC, id DESC
LIMIT ?
`, limit)
	} else {
		rows, err = s.db.QueryContext(ctx, `
SELECT id, user_id, answers_json, started_at, completed_at
FROM completions
WHERE user_id = ?
ORDER BY completed_at DESC, id DESC
LIMIT ?
`, string(user), limit)
	}
	if err != nil {
		return nil, fmt.Errorf("list completions: %w", err)
	}
	defer rows.Close()

	var out []domain.Completion
	for rows.Next() {
		c, scanErr := scanCompletion(rows.Scan)
		if scanErr != nil {
			return nil, fmt.Errorf("scan completion row: %w", scanErr)
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate completion rows: %w", err)
	}
	return out, nil
}

type scanner func(dest ...any) error

func scanCompletion(scan scanner) (*domain.Completion, error) {
	var (
		c           domain.Completion
		user        string
		answersJSON string
		startedAt   int64
		completedAt int64
	)
	if err := scan(&c.ID, &user, &answersJSON, &startedAt, &completedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(answersJSON), &c.Answers); err != nil {
		return nil, fmt.Errorf("decode answers: %w", err)
	}
	c.User = domain.UserID(user)
	c.StartedAt = fromMillis(startedAt)
	c.CompletedAt = fromMillis(completedAt)
	return &c, nil
}
