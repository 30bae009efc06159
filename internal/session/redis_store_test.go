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

func setupStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisStore(client), mr
}

func TestCreateAndGet(t *testing.T) {
	store, mr := setupStore(t)
	ctx := context.Background()

	rec := Record{
		ID:        "sid-1",
		UserID:    "user-1",
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		ExpiresAt: time.Now().Add(time.Hour).UTC().Truncate(time.Second),
	}
	require.NoError(t, store.Create(ctx, rec))

	got, err := store.Get(ctx, "sid-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, rec.UserID, got.UserID)
	assert.True(t, rec.ExpiresAt.Equal(got.ExpiresAt))

	ttl := mr.TTL(keyPrefix + "sid-1")
	assert.True(t, ttl > 59*time.Minute && ttl <= time.Hour, "ttl %s", ttl)
}

func TestGetMissing(t *testing.T) {
	store, _ := setupStore(t)

	got, err := store.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRecordExpiresWithTTL(t *testing.T) {
	store, mr := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, Record{ID: "sid", UserID: "u", ExpiresAt: time.Now().Add(time.Minute)}))
	mr.FastForward(2 * time.Minute)

	got, err := store.Get(ctx, "sid")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCreateRejectsInvalidRecords(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	assert.Error(t, store.Create(ctx, Record{UserID: "u", ExpiresAt: time.Now().Add(time.Hour)}))
	assert.Error(t, store.Create(ctx, Record{ID: "sid", UserID: "u", ExpiresAt: time.Now().Add(-time.Second)}))
}

func TestDelete(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, Record{ID: "sid", UserID: "u", ExpiresAt: time.Now().Add(time.Hour)}))
	require.NoError(t, store.Delete(ctx, "sid"))

	got, err := store.Get(ctx, "sid")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetCorruptRecord(t *testing.T) {
	store, mr := setupStore(t)
	require.NoError(t, mr.Set(keyPrefix+"bad", "not-json"))

	_, err := store.Get(context.Background(), "bad")
	assert.Error(t, err)
}

func TestGetStoreUnreachable(t *testing.T) {
	store, mr := setupStore(t)
	mr.Close()

	_, err := store.Get(context.Background(), "sid")
	assert.Error(t, err)
}

func TestGenerateID(t *testing.T) {
	a, err := GenerateID()
	require.NoError(t, err)
	b, err := GenerateID()
	require.NoError(t, err)

	assert.Len(t, a, 43)
	assert.NotEqual(t, a, b)
}
