// Package storetest checks that a session.Store behaves the way the
// session manager expects.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/pkg/session"
	"github.com/dmitrymomot/sessionkit/pkg/token"
)

// Run exercises store with the behaviour every backend must share. Keys
// are unique per call, so store may be shared between tests.
func Run(t *testing.T, store session.Store) {
	t.Helper()
	ctx := context.Background()

	newKey := func(t *testing.T) string {
		t.Helper()
		id, err := session.NewID()
		require.NoError(t, err)
		return id.Key()
	}

	t.Run("missing key", func(t *testing.T) {
		_, err := store.Get(ctx, newKey(t))
		assert.ErrorIs(t, err, session.ErrNotFound)
		assert.NotErrorIs(t, err, session.ErrStoreUnavailable)
	})

	t.Run("set get delete", func(t *testing.T) {
		key := newKey(t)
		require.NoError(t, store.Set(ctx, key, []byte("first"), time.Hour))

		data, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, []byte("first"), data)

		require.NoError(t, store.Set(ctx, key, []byte("second"), time.Hour))
		data, err = store.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, []byte("second"), data)

		require.NoError(t, store.Delete(ctx, key))
		_, err = store.Get(ctx, key)
		assert.ErrorIs(t, err, session.ErrNotFound)
	})

	t.Run("delete absent key", func(t *testing.T) {
		assert.NoError(t, store.Delete(ctx, newKey(t)))
	})

	t.Run("keys are isolated", func(t *testing.T) {
		a, b := newKey(t), newKey(t)
		require.NoError(t, store.Set(ctx, a, []byte("a"), time.Hour))
		require.NoError(t, store.Set(ctx, b, []byte("b"), time.Hour))
		require.NoError(t, store.Delete(ctx, a))

		data, err := store.Get(ctx, b)
		require.NoError(t, err)
		assert.Equal(t, []byte("b"), data)
		require.NoError(t, store.Delete(ctx, b))
	})

	t.Run("binary payload", func(t *testing.T) {
		key := newKey(t)
		payload := []byte{0x00, 0xff, 0x10, 0x00, 0x7f}
		require.NoError(t, store.Set(ctx, key, payload, time.Hour))

		data, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, payload, data)
		require.NoError(t, store.Delete(ctx, key))
	})

	t.Run("manager round trip", func(t *testing.T) {
		signer, err := token.NewSigner([][]byte{[]byte("storetest-secret-that-is-long-enough!!")})
		require.NoError(t, err)
		m, err := session.New(store, signer, session.WithTTL(time.Hour))
		require.NoError(t, err)

		h, err := m.Resolve(ctx, "")
		require.NoError(t, err)
		require.NoError(t, h.Session().Insert("user_id", "42"))
		d, err := m.Commit(ctx, h)
		require.NoError(t, err)
		require.Equal(t, session.ActionSet, d.Action)
		tok := d.Token

		h, err = m.Resolve(ctx, tok)
		require.NoError(t, err)
		require.False(t, h.Session().IsNew())
		v, ok := h.Session().GetString("user_id")
		require.True(t, ok)
		assert.Equal(t, "42", v)

		h.Session().Destroy()
		d, err = m.Commit(ctx, h)
		require.NoError(t, err)
		assert.Equal(t, session.ActionClear, d.Action)

		h, err = m.Resolve(ctx, tok)
		require.NoError(t, err)
		assert.True(t, h.Session().IsNew())
	})
}
