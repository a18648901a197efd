package archive

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/pkg/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(t.TempDir() + "/archive.db")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleCompletion(id string, user domain.UserID, completedAt time.Time) *domain.Completion {
	return &domain.Completion{
		ID:   id,
		User: user,
		Answers: map[int]domain.Value{
			0: domain.NumberValue(20),
			1: domain.ChoiceValue("percent"),
			2: domain.NumberValue(10),
		},
		StartedAt:   completedAt.Add(-4 * time.Minute),
		CompletedAt: completedAt,
	}
}

func TestArchiveRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	done := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	c := sampleCompletion("run-1", "u1", done)
	require.NoError(t, store.Record(ctx, c))

	got, err := store.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, c, got)

	latest, err := store.Latest(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, c, latest)
}

func TestRecordRetryLandsOnSameRow(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	done := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	first := sampleCompletion("run-1", "u1", done)
	require.NoError(t, store.Record(ctx, first))

	// A crash between recording and session cleanup makes the engine record
	// again: same user and start time, later completion time.
	retry := sampleCompletion("run-1", "u1", done.Add(30*time.Second))
	retry.StartedAt = first.StartedAt
	require.NoError(t, store.Record(ctx, retry))

	runs, err := store.List(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, runs, 1, "the retry must update the original row")
	assert.Equal(t, retry.CompletedAt, runs[0].CompletedAt)
}

func TestLatestPicksNewestRun(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	older := sampleCompletion("run-1", "u1", time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC))
	newer := sampleCompletion("run-2", "u1", time.Date(2026, time.March, 8, 9, 0, 0, 0, time.UTC))
	newer.Answers[1] = domain.ChoiceValue("number")

	require.NoError(t, store.Record(ctx, older))
	require.NoError(t, store.Record(ctx, newer))

	latest, err := store.Latest(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "run-2", latest.ID)
	assert.Equal(t, domain.ChoiceValue("number"), latest.Answers[1])
}

func TestListScopesAndLimits(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Record(ctx, sampleCompletion("run-1", "u1", base)))
	require.NoError(t, store.Record(ctx, sampleCompletion("run-2", "u1", base.Add(time.Hour))))
	require.NoError(t, store.Record(ctx, sampleCompletion("run-3", "u2", base.Add(2*time.Hour))))

	all, err := store.List(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "run-3", all[0].ID, "newest first")

	mine, err := store.List(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "run-2", mine[0].ID)

	top, err := store.List(ctx, "", 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "run-3", top[0].ID)
}

func TestMissingLookups(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	_, err := store.Get(ctx, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Latest(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)

	runs, err := store.List(ctx, "nobody", 0)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestArchiveSurvivesReopen(t *testing.T) {
	path := t.TempDir() + "/archive.db"
	ctx := context.Background()

	store, err := Open(path)
	require.NoError(t, err)
	done := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Record(ctx, sampleCompletion("run-1", "u1", done)))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	latest, err := reopened.Latest(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "run-1", latest.ID)
}

func TestWizardRecordsThroughArchive(t *testing.T) {
	store := openTestStore(t)

	wiz, err := espalier.New(espalier.WithRecorder(store))
	require.NoError(t, err)

	ctx := context.Background()
	_, err = wiz.Start(ctx, "u1")
	require.NoError(t, err)
	for _, text := range []string{"20", "percent", "10"} {
		_, err = wiz.Answer(ctx, "u1", text)
		require.NoError(t, err)
	}

	latest, err := store.Latest(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.UserID("u1"), latest.User)
	assert.Equal(t, domain.NumberValue(20), latest.Answers[0])
	assert.Equal(t, domain.ChoiceValue("percent"), latest.Answers[1])
	assert.Equal(t, domain.NumberValue(10), latest.Answers[2])
	assert.False(t, latest.CompletedAt.Before(latest.StartedAt))
}
