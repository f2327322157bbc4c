package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joestump/joe-bookmarks/internal/store"
	"github.com/joestump/joe-bookmarks/internal/testutil"
)

func newUserStore(t *testing.T) *store.UserStore {
	t.Helper()
	return store.NewUserStore(testutil.NewTestDB(t))
}

func TestUserStore_CreateAndGet(t *testing.T) {
	us := newUserStore(t)
	ctx := context.Background()

	u, err := us.Create(ctx, "alice", "alice@example.com", "hash")
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, "hash", u.PasswordHash)
	assert.False(t, u.CreatedAt.IsZero())
	assert.Equal(t, u.CreatedAt, u.UpdatedAt)

	byID, err := us.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, byID.Email)

	byEmail, err := us.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	byName, err := us.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)
}

func TestUserStore_NotFound(t *testing.T) {
	us := newUserStore(t)
	ctx := context.Background()

	_, err := us.GetByID(ctx, 42)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = us.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = us.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUserStore_Uniqueness(t *testing.T) {
	us := newUserStore(t)
	ctx := context.Background()

	_, err := us.Create(ctx, "alice", "alice@example.com", "hash")
	require.NoError(t, err)

	_, err = us.Create(ctx, "alice2", "alice@example.com", "hash")
	assert.ErrorIs(t, err, store.ErrEmailTaken)

	_, err = us.Create(ctx, "alice", "other@example.com", "hash")
	assert.ErrorIs(t, err, store.ErrUsernameTaken)

	// Both taken: email wins.
	_, err = us.Create(ctx, "alice", "alice@example.com", "hash")
	assert.ErrorIs(t, err, store.ErrEmailTaken)
}

func TestUserStore_Count(t *testing.T) {
	us := newUserStore(t)
	ctx := context.Background()

	n, err := us.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = us.Create(ctx, "alice", "alice@example.com", "hash")
	require.NoError(t, err)
	n, err = us.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
