package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) (*SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewSessionStore(client, time.Hour), mr
}

func TestSessionRoundTrip(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	sess, err := store.Create(ctx, "user-1", "alice")
	require.NoError(t, err)
	require.NotEmpty(t, sess.ID)

	got, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, "alice", got.Username)
}

func TestSessionIDsAreUnique(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	a, err := store.Create(ctx, "u", "alice")
	require.NoError(t, err)
	b, err := store.Create(ctx, "u", "alice")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestSessionGetMissing(t *testing.T) {
	store, _ := setupTestStore(t)

	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = store.Get(context.Background(), "")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionDelete(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	sess, err := store.Create(ctx, "user-1", "alice")
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, sess.ID))

	_, err = store.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// Deleting twice is harmless.
	assert.NoError(t, store.Delete(ctx, sess.ID))
}

func TestSessionExpiry(t *testing.T) {
	store, mr := setupTestStore(t)
	ctx := context.Background()

	sess, err := store.Create(ctx, "user-1", "alice")
	require.NoError(t, err)

	mr.FastForward(2 * time.Hour)

	_, err = store.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionSlidingExpiry(t *testing.T) {
	store, mr := setupTestStore(t)
	ctx := context.Background()

	sess, err := store.Create(ctx, "user-1", "alice")
	require.NoError(t, err)

	// Touch the session just before it would expire; the TTL resets.
	mr.FastForward(50 * time.Minute)
	_, err = store.Get(ctx, sess.ID)
	require.NoError(t, err)

	mr.FastForward(50 * time.Minute)
	_, err = store.Get(ctx, sess.ID)
	assert.NoError(t, err, "an active session must not expire")
}
