package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) *RedisStore {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cfg := DefaultRedisConfig()
	cfg.TTL = time.Hour
	store := NewRedisStoreWithClient(client, cfg)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRedisStoreSaveAndGet(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()

	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	sess := &Session{
		Token:      "sess_abc",
		PlayerID:   "p1",
		PlayerName: "Alice",
		Admin:      true,
		CreatedAt:  now,
		ExpiresAt:  now.Add(time.Hour),
	}
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Get(ctx, "sess_abc")
	require.NoError(t, err)
	assert.Equal(t, sess.PlayerID, got.PlayerID)
	assert.Equal(t, "Alice", got.PlayerName)
	assert.True(t, got.Admin)
	assert.True(t, got.ExpiresAt.Equal(sess.ExpiresAt))
}

func TestRedisStoreGetMissing(t *testing.T) {
	store := newTestRedisStore(t)

	_, err := store.Get(context.Background(), "sess_missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStoreDelete(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()

	sess := &Session{Token: "sess_abc", PlayerName: "Alice"}
	require.NoError(t, store.Save(ctx, sess))
	require.NoError(t, store.Delete(ctx, "sess_abc"))

	_, err := store.Get(ctx, "sess_abc")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting a missing session is not an error
	assert.NoError(t, store.Delete(ctx, "sess_abc"))
}

func TestRedisStoreOverwrite(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()

	sess := &Session{Token: "sess_abc", PlayerName: "Alice"}
	require.NoError(t, store.Save(ctx, sess))

	sess.Admin = true
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Get(ctx, "sess_abc")
	require.NoError(t, err)
	assert.True(t, got.Admin)
}
