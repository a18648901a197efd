package cli_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/espalier/internal/cli"
	"github.com/aretw0/espalier/internal/config"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConfig() config.Config {
	return config.Config{
		LogLevel: "info",
		User:     "local",
		Store:    config.Store{Backend: config.StoreMemory},
	}
}

func dispatch(t *testing.T, rt *cli.Runtime, user string, kind domain.EventKind, text string) domain.Reply {
	t.Helper()
	reply, err := rt.Handler.Handle(context.Background(), domain.Event{
		User: domain.UserID(user),
		Kind: kind,
		Text: text,
	})
	require.NoError(t, err)
	return reply
}

func TestNewRuntimeMemoryDefaults(t *testing.T) {
	rt, err := cli.NewRuntime(baseConfig())
	require.NoError(t, err)
	defer rt.Close()

	require.NotNil(t, rt.Wizard)
	require.NotNil(t, rt.Handler)
	assert.Nil(t, rt.Archive)

	reply := dispatch(t, rt, "ana", domain.EventStart, "")
	assert.Contains(t, reply.Text, "📊 How many puffs per day?")

	session, err := rt.Wizard.Peek(context.Background(), "ana")
	require.NoError(t, err)
	assert.Equal(t, 0, session.CurrentStep)
}

func TestNewRuntimeRejectsBadLogLevel(t *testing.T) {
	cfg := baseConfig()
	cfg.LogLevel = "chatty"

	_, err := cli.NewRuntime(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown log level")
}

func TestNewRuntimeRejectsUnknownBackend(t *testing.T) {
	cfg := baseConfig()
	cfg.Store.Backend = "etcd"

	_, err := cli.NewRuntime(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown store backend")
}

func TestNewRuntimeRejectsShortEncryptionKey(t *testing.T) {
	cfg := baseConfig()
	cfg.EncryptionKey = "short"

	_, err := cli.NewRuntime(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "32 bytes")
}

func TestRuntimeFileBackendSurvivesRestart(t *testing.T) {
	cfg := baseConfig()
	cfg.Store.Backend = config.StoreFile
	cfg.Store.Path = t.TempDir()

	rt, err := cli.NewRuntime(cfg)
	require.NoError(t, err)

	dispatch(t, rt, "ana", domain.EventStart, "")
	dispatch(t, rt, "ana", domain.EventAnswer, "20")
	require.NoError(t, rt.Close())

	rt2, err := cli.NewRuntime(cfg)
	require.NoError(t, err)
	defer rt2.Close()

	session, err := rt2.Wizard.Peek(context.Background(), "ana")
	require.NoError(t, err)
	assert.Equal(t, 1, session.CurrentStep)
}

func TestRuntimeBoltBackendClosesCleanly(t *testing.T) {
	cfg := baseConfig()
	cfg.Store.Backend = config.StoreBolt
	cfg.Store.Path = filepath.Join(t.TempDir(), "sessions.db")

	rt, err := cli.NewRuntime(cfg)
	require.NoError(t, err)

	dispatch(t, rt, "ana", domain.EventStart, "")
	require.NoError(t, rt.Close())
	require.NoError(t, rt.Close(), "closing twice must be safe")

	// Bolt holds an exclusive file lock; reopening only works if Close
	// released it.
	rt2, err := cli.NewRuntime(cfg)
	require.NoError(t, err)
	defer rt2.Close()

	session, err := rt2.Wizard.Peek(context.Background(), "ana")
	require.NoError(t, err)
	assert.Equal(t, 0, session.CurrentStep)
}

func TestRuntimeRedisBackend(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := baseConfig()
	cfg.Store.Backend = config.StoreRedis
	cfg.Store.RedisURL = "redis://" + mr.Addr()
	cfg.Store.RedisPrefix = "espalier:session:"

	rt, err := cli.NewRuntime(cfg)
	require.NoError(t, err)
	defer rt.Close()

	dispatch(t, rt, "ana", domain.EventStart, "")

	assert.True(t, mr.Exists("espalier:session:ana"))
}

func TestRuntimeEncryptionSealsAtRest(t *testing.T) {
	dir := t.TempDir()

	cfg := baseConfig()
	cfg.Store.Backend = config.StoreFile
	cfg.Store.Path = dir
	cfg.EncryptionKey = "0123456789abcdef0123456789abcdef"

	rt, err := cli.NewRuntime(cfg)
	require.NoError(t, err)
	defer rt.Close()

	dispatch(t, rt, "ana", domain.EventStart, "")
	dispatch(t, rt, "ana", domain.EventAnswer, "12345")

	raw, err := os.ReadFile(filepath.Join(dir, "ana.json"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "sealed")
	assert.NotContains(t, string(raw), "12345", "answers must not be readable at rest")

	// Reads through the runtime still decrypt.
	session, err := rt.Wizard.Peek(context.Background(), "ana")
	require.NoError(t, err)
	assert.Equal(t, 12345.0, session.Answers[0].Number)
}

func TestRuntimeArchiveRecordsCompletions(t *testing.T) {
	cfg := baseConfig()
	cfg.ArchivePath = filepath.Join(t.TempDir(), "runs.db")

	rt, err := cli.NewRuntime(cfg)
	require.NoError(t, err)
	defer rt.Close()
	require.NotNil(t, rt.Archive)

	dispatch(t, rt, "ana", domain.EventStart, "")
	dispatch(t, rt, "ana", domain.EventAnswer, "20")
	dispatch(t, rt, "ana", domain.EventAnswer, "percent")
	reply := dispatch(t, rt, "ana", domain.EventAnswer, "10")
	require.True(t, reply.Done)

	completion, err := rt.Archive.Latest(context.Background(), "ana")
	require.NoError(t, err)
	assert.Len(t, completion.Answers, 3)
	assert.Equal(t, "percent", completion.Answers[1].Choice)
}

func TestRuntimeCatalogFile(t *testing.T) {
	definition := `
version: "1"
wizard:
  name: hydration
  questions:
    - key: glasses
      label: Glasses
      prompt: "How many glasses of water per day?"
      validation:
        kind: positive_number
`
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(definition), 0o644))

	cfg := baseConfig()
	cfg.CatalogPath = path

	rt, err := cli.NewRuntime(cfg)
	require.NoError(t, err)
	defer rt.Close()

	assert.Equal(t, "hydration", rt.Wizard.Catalog().Name())

	reply := dispatch(t, rt, "ana", domain.EventStart, "")
	assert.Equal(t, "How many glasses of water per day?", reply.Text)
}

func TestRuntimeCatalogFileMissing(t *testing.T) {
	cfg := baseConfig()
	cfg.CatalogPath = filepath.Join(t.TempDir(), "absent.yaml")

	_, err := cli.NewRuntime(cfg)
	require.Error(t, err)
}
