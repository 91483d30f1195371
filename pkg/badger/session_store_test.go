package badger_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/pkg/badger"
	"github.com/dmitrymomot/sessionkit/pkg/session"
	"github.com/dmitrymomot/sessionkit/pkg/session/storetest"
)

func openInMemory(t *testing.T) *badger.SessionStore {
	t.Helper()
	store, err := badger.Open(badger.Config{InMemory: true, KeyPrefix: "session:"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSessionStore_Conformance(t *testing.T) {
	t.Parallel()
	storetest.Run(t, openInMemory(t))
}

func TestSessionStore_Expiry(t *testing.T) {
	t.Parallel()
	store := openInMemory(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "short", []byte("v"), time.Second))
	require.NoError(t, store.Set(ctx, "long", []byte("v"), time.Hour))

	require.Eventually(t, func() bool {
		_, err := store.Get(ctx, "short")
		return err != nil
	}, 5*time.Second, 100*time.Millisecond)

	_, err := store.Get(ctx, "short")
	assert.ErrorIs(t, err, session.ErrNotFound)

	_, err = store.Get(ctx, "long")
	assert.NoError(t, err)
}

func TestSessionStore_SubSecondTTL(t *testing.T) {
	t.Parallel()
	store := openInMemory(t)
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		require.NoError(t, store.Set(ctx, "k", []byte("v"), 400*time.Millisecond))
		data, err := store.Get(ctx, "k")
		require.NoError(t, err, "attempt %d", i)
		assert.Equal(t, []byte("v"), data)
		time.Sleep(25 * time.Millisecond)
	}
}

func TestSessionStore_NonPositiveTTLDeletes(t *testing.T) {
	t.Parallel()
	store := openInMemory(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("v"), time.Hour))
	require.NoError(t, store.Set(ctx, "k", []byte("v"), -time.Second))
	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestSessionStore_CanceledContext(t *testing.T) {
	t.Parallel()
	store := openInMemory(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, store.Set(ctx, "k", []byte("v"), time.Hour), context.Canceled)
	assert.ErrorIs(t, store.Delete(ctx, "k"), context.Canceled)
}

func TestSessionStore_OnDisk(t *testing.T) {
	t.Parallel()
	cfg := badger.DefaultConfig()
	cfg.Dir = t.TempDir()
	cfg.GCInterval = 10 * time.Millisecond
	ctx := context.Background()

	store, err := badger.Open(cfg, nil)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "persisted", []byte("v"), time.Hour))
	require.NoError(t, store.GC())
	require.NoError(t, store.Close())

	reopened, err := badger.Open(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	data, err := reopened.Get(ctx, "persisted")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), data)
}

func TestOpen_RequiresDir(t *testing.T) {
	t.Parallel()
	_, err := badger.Open(badger.Config{}, nil)
	assert.ErrorIs(t, err, badger.ErrDirRequired)
}
