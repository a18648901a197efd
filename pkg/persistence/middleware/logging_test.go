package middleware_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/espalier/pkg/adapters/memory"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/persistence/middleware"
	"github.com/aretw0/espalier/pkg/ports"
)

type brokenStore struct {
	ports.SessionStore
	err error
}

func (s *brokenStore) Put(ctx context.Context, session *domain.Session) error {
	return s.err
}

func TestLoggingRecordsOperations(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	store := middleware.NewLogging(logger)(memory.New())

	require.NoError(t, store.Put(context.Background(), sampleSession("user-1")))
	_, err := store.Get(context.Background(), "user-1")
	require.NoError(t, err)
	_, err = store.List(context.Background())
	require.NoError(t, err)
	require.NoError(t, store.Delete(context.Background(), "user-1"))

	out := buf.String()
	assert.Contains(t, out, "session put")
	assert.Contains(t, out, "session get")
	assert.Contains(t, out, "session list")
	assert.Contains(t, out, "session delete")
	assert.Contains(t, out, "user=user-1")
}

func TestLoggingReportsFailures(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	boom := errors.New("disk on fire")
	store := middleware.NewLogging(logger)(&brokenStore{SessionStore: memory.New(), err: boom})

	err := store.Put(context.Background(), sampleSession("user-1"))
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, buf.String(), "session put failed")
	assert.Contains(t, buf.String(), "disk on fire")
}

func TestLoggingTreatsAbsenceAsDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	store := middleware.NewLogging(logger)(memory.New())
	_, err := store.Get(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.Contains(t, buf.String(), "session absent")
	assert.NotContains(t, buf.String(), "level=ERROR")
}

type traceStore struct {
	ports.SessionStore
	name  string
	trace *[]string
}

func (s *traceStore) Put(ctx context.Context, session *domain.Session) error {
	*s.trace = append(*s.trace, s.name)
	return s.SessionStore.Put(ctx, session)
}

func traceMiddleware(name string, trace *[]string) middleware.Middleware {
	return func(next ports.SessionStore) ports.SessionStore {
		return &traceStore{SessionStore: next, name: name, trace: trace}
	}
}

func TestChainOrder(t *testing.T) {
	var trace []string
	store := middleware.Chain(memory.New(),
		traceMiddleware("first", &trace),
		traceMiddleware("second", &trace),
	)

	require.NoError(t, store.Put(context.Background(), sampleSession("user-1")))
	assert.Equal(t, []string{"first", "second"}, trace)
}

func TestChainWithEncryptionAndLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	inner := memory.New()
	store := middleware.Chain(inner,
		middleware.NewLogging(logger),
		middleware.NewEncryption(middleware.EncryptionConfig{ActiveKey: keyAlpha}),
	)

	original := sampleSession("user-1")
	require.NoError(t, store.Put(context.Background(), original))

	got, err := store.Get(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, original, got)

	raw, err := inner.Get(context.Background(), "user-1")
	require.NoError(t, err)
	assert.NotEmpty(t, raw.Sealed)
	assert.Contains(t, buf.String(), "session put")
}
