package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_SetGet(t *testing.T) {
	_, client := newTestRedis(t)
	s := NewRedisStore(client, "hiba:", 0)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "cartItems", []byte(`[]`)))

	got, err := s.Get(ctx, "cartItems")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), got)
}

func TestRedisStore_GetMissing(t *testing.T) {
	_, client := newTestRedis(t)
	s := NewRedisStore(client, "hiba:", 0)

	_, err := s.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestRedisStore_KeysArePrefixed(t *testing.T) {
	mr, client := newTestRedis(t)
	s := NewRedisStore(client, "hiba:", 0)

	require.NoError(t, s.Set(context.Background(), "k", []byte("v")))

	got, err := mr.Get("hiba:k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestRedisStore_Delete(t *testing.T) {
	_, client := newTestRedis(t)
	s := NewRedisStore(client, "hiba:", 0)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("v")))
	require.NoError(t, s.Delete(ctx, "k"))

	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestRedisStore_ZeroTTLIsDurable(t *testing.T) {
	mr, client := newTestRedis(t)
	s := NewRedisStore(client, "hiba:", 0)

	require.NoError(t, s.Set(context.Background(), "k", []byte("v")))
	assert.Equal(t, time.Duration(0), mr.TTL("hiba:k"))
}

func TestRedisStore_SessionTTLExpires(t *testing.T) {
	mr, client := newTestRedis(t)
	s := NewRedisStore(client, "hiba:", time.Hour)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("v")))
	assert.Equal(t, time.Hour, mr.TTL("hiba:k"))

	mr.FastForward(2 * time.Hour)

	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}
