package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/espalier/pkg/domain"
)

// RunSessionStoreContract runs a suite of tests to verify that a SessionStore
// implementation adheres to the defined interface contract.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	user := domain.UserID("contract-user-" + time.Now().Format("20060102150405"))

	// UTC wall-clock times survive JSON round-trips unchanged, which keeps the
	// equality checks below valid for serializing stores.
	now := time.Now().UTC()

	t.Run("Put and Get", func(t *testing.T) {
		session := domain.NewSession(user, now)
		session.Record(0, domain.NumberValue(20), now.Add(time.Second))
		session.Record(1, domain.ChoiceValue("percent"), now.Add(2*time.Second))

		err := store.Put(ctx, session)
		require.NoError(t, err, "Put should not return error")

		loaded, err := store.Get(ctx, user)
		require.NoError(t, err, "Get should not return error")
		assert.Equal(t, user, loaded.User)
		assert.Equal(t, 2, loaded.CurrentStep)
		assert.Equal(t, session.Answers, loaded.Answers)
		assert.Equal(t, session.StartedAt, loaded.StartedAt)
		assert.Equal(t, session.UpdatedAt, loaded.UpdatedAt)
	})

	t.Run("Get Absent", func(t *testing.T) {
		_, err := store.Get(ctx, "absent-"+user)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Overwrite", func(t *testing.T) {
		first := domain.NewSession(user, now)
		first.Record(0, domain.NumberValue(1), now)
		require.NoError(t, store.Put(ctx, first))

		second := domain.NewSession(user, now.Add(time.Minute))
		require.NoError(t, store.Put(ctx, second))

		loaded, err := store.Get(ctx, user)
		require.NoError(t, err)
		assert.Equal(t, 0, loaded.CurrentStep, "Put should replace the previous session wholesale")
		assert.Empty(t, loaded.Answers)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, domain.NewSession(user, now)))

		err := store.Delete(ctx, user)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Get(ctx, user)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Get after Delete should return ErrSessionNotFound")

		assert.NoError(t, store.Delete(ctx, user), "Delete should be idempotent")
	})

	t.Run("List", func(t *testing.T) {
		u1 := user + "-1"
		u2 := user + "-2"
		require.NoError(t, store.Put(ctx, domain.NewSession(u1, now)))
		require.NoError(t, store.Put(ctx, domain.NewSession(u2, now)))

		defer func() {
			_ = store.Delete(ctx, u1)
			_ = store.Delete(ctx, u2)
		}()

		users, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, users, u1)
		assert.Contains(t, users, u2)
	})
}
