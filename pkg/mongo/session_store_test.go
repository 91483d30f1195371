package mongo_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/pkg/mongo"
	"github.com/dmitrymomot/sessionkit/pkg/session"
	"github.com/dmitrymomot/sessionkit/pkg/session/storetest"
)

func TestSessionStore_Mongo(t *testing.T) {
	url := os.Getenv("MONGODB_URL")
	if url == "" {
		t.Skip("MONGODB_URL not set")
	}

	ctx := context.Background()
	cfg := mongo.Config{
		ConnectionURL:  url,
		Database:       "sessionkit_test",
		Collection:     "sessions_" + time.Now().Format("20060102150405"),
		ConnectTimeout: 5 * time.Second,
		MaxPoolSize:    4,
		RetryAttempts:  2,
		RetryInterval:  time.Second,
	}

	client, err := mongo.New(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = client.Database(cfg.Database).Collection(cfg.Collection).Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})
	require.NoError(t, mongo.Healthcheck(client)(ctx))

	store, err := mongo.NewSessionStoreFromConfig(ctx, client, cfg)
	require.NoError(t, err)
	storetest.Run(t, store)

	t.Run("non-positive ttl deletes", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "short", []byte("v"), time.Minute))
		require.NoError(t, store.Set(ctx, "short", []byte("v"), 0))
		_, err := store.Get(ctx, "short")
		assert.ErrorIs(t, err, session.ErrNotFound)
	})
}

func TestNew_Unreachable(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := mongo.New(ctx, mongo.Config{
		ConnectionURL:  "mongodb://127.0.0.1:1/?serverSelectionTimeoutMS=200",
		ConnectTimeout: 200 * time.Millisecond,
		RetryAttempts:  1,
		RetryInterval:  10 * time.Millisecond,
	})
	assert.ErrorIs(t, err, mongo.ErrFailedToConnectToMongo)
}
