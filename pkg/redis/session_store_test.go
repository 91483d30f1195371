package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/pkg/redis"
	"github.com/dmitrymomot/sessionkit/pkg/session"
	"github.com/dmitrymomot/sessionkit/pkg/session/storetest"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestSessionStore_SetGetDelete(t *testing.T) {
	t.Parallel()
	mr, client := setupRedis(t)
	store := redis.NewSessionStore(client)
	ctx := context.Background()

	_, err := store.Get(ctx, "abc")
	assert.ErrorIs(t, err, session.ErrNotFound)

	require.NoError(t, store.Set(ctx, "abc", []byte("payload"), time.Minute))
	assert.True(t, mr.Exists("session:abc"))
	assert.Equal(t, time.Minute, mr.TTL("session:abc"))

	data, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), data)

	require.NoError(t, store.Set(ctx, "abc", []byte("updated"), time.Hour))
	data, err = store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, []byte("updated"), data)
	assert.Equal(t, time.Hour, mr.TTL("session:abc"))

	require.NoError(t, store.Delete(ctx, "abc"))
	require.NoError(t, store.Delete(ctx, "abc"))
	_, err = store.Get(ctx, "abc")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestSessionStore_Expiry(t *testing.T) {
	t.Parallel()
	mr, client := setupRedis(t)
	store := redis.NewSessionStore(client, redis.WithKeyPrefix("app:sess:"))
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("v"), 2*time.Second))
	assert.True(t, mr.Exists("app:sess:k"))

	mr.FastForward(3 * time.Second)

	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestSessionStore_NonPositiveTTLDeletes(t *testing.T) {
	t.Parallel()
	mr, client := setupRedis(t)
	store := redis.NewSessionStore(client)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("v"), time.Minute))
	require.NoError(t, store.Set(ctx, "k", []byte("v"), 0))
	assert.False(t, mr.Exists("session:k"))
}

func TestSessionStore_Unavailable(t *testing.T) {
	t.Parallel()
	mr, client := setupRedis(t)
	store := redis.NewSessionStore(client)
	ctx := context.Background()

	mr.Close()

	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, session.ErrStoreUnavailable)
	assert.NotErrorIs(t, err, session.ErrNotFound)

	assert.ErrorIs(t, store.Set(ctx, "k", []byte("v"), time.Minute), session.ErrStoreUnavailable)
	assert.ErrorIs(t, store.Delete(ctx, "k"), session.ErrStoreUnavailable)
}

func TestSessionStore_Conformance(t *testing.T) {
	t.Parallel()
	_, client := setupRedis(t)
	storetest.Run(t, redis.NewSessionStoreFromConfig(client, redis.Config{KeyPrefix: "demo:"}))
}

func TestHealthcheck(t *testing.T) {
	t.Parallel()
	mr, client := setupRedis(t)
	check := redis.Healthcheck(client)

	require.NoError(t, check(context.Background()))

	mr.Close()
	assert.ErrorIs(t, check(context.Background()), redis.ErrHealthcheckFailed)
}

func TestConnect(t *testing.T) {
	t.Parallel()
	mr, _ := setupRedis(t)

	client, err := redis.Connect(context.Background(), redis.Config{
		ConnectionURL:  "redis://" + mr.Addr() + "/0",
		RetryAttempts:  2,
		RetryInterval:  10 * time.Millisecond,
		ConnectTimeout: time.Second,
	})
	require.NoError(t, err)
	require.NoError(t, client.Close())

	_, err = redis.Connect(context.Background(), redis.Config{
		ConnectionURL:  "://bad",
		RetryAttempts:  1,
		ConnectTimeout: time.Second,
	})
	assert.ErrorIs(t, err, redis.ErrFailedToParseRedisConnString)

	_, err = redis.Connect(context.Background(), redis.Config{})
	assert.ErrorIs(t, err, redis.ErrEmptyConnectionURL)

	addr := mr.Addr()
	mr.Close()
	_, err = redis.Connect(context.Background(), redis.Config{
		ConnectionURL:  "redis://" + addr + "/0",
		RetryAttempts:  2,
		RetryInterval:  10 * time.Millisecond,
		ConnectTimeout: time.Second,
	})
	assert.ErrorIs(t, err, redis.ErrRedisNotReady)
}
