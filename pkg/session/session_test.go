package session_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/pkg/session"
)

func newSession(t *testing.T) *session.Session {
	t.Helper()
	m, _ := setupManager(t)
	h, err := m.Resolve(context.Background(), "")
	require.NoError(t, err)
	return h.Session()
}

func TestSession_New(t *testing.T) {
	t.Parallel()
	s := newSession(t)

	assert.True(t, s.IsNew())
	assert.False(t, s.IsDirty())
	assert.False(t, s.IsDestroyed())
	assert.False(t, s.ID().IsZero())
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, uint64(0), s.Revision())
	assert.Equal(t, s.CreatedAt(), s.AccessedAt())
}

func TestSession_DataOperations(t *testing.T) {
	t.Parallel()
	s := newSession(t)

	t.Run("insert and get", func(t *testing.T) {
		require.NoError(t, s.Insert("name", "alice"))
		require.NoError(t, s.Insert("age", 30))
		require.NoError(t, s.Insert("active", true))
		assert.True(t, s.IsDirty())

		name, ok := s.GetString("name")
		assert.True(t, ok)
		assert.Equal(t, "alice", name)

		age, ok := s.GetInt("age")
		assert.True(t, ok)
		assert.Equal(t, int64(30), age)

		active, ok := s.GetBool("active")
		assert.True(t, ok)
		assert.True(t, active)

		_, ok = s.GetString("age")
		assert.False(t, ok, "wrong type")

		_, ok = s.Get("missing")
		assert.False(t, ok)
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, s.Insert("name", "bob"))
		name, _ := s.GetString("name")
		assert.Equal(t, "bob", name)
	})

	t.Run("keys are sorted", func(t *testing.T) {
		assert.Equal(t, []string{"active", "age", "name"}, s.Keys())
		assert.Equal(t, 3, s.Len())
	})

	t.Run("fields is a copy", func(t *testing.T) {
		fields := s.Fields()
		delete(fields, "name")
		assert.Equal(t, 3, s.Len())
	})

	t.Run("remove", func(t *testing.T) {
		s.Remove("age")
		_, ok := s.Get("age")
		assert.False(t, ok)
	})

	t.Run("clear", func(t *testing.T) {
		s.Clear()
		assert.Equal(t, 0, s.Len())
	})
}

func TestSession_InsertRejectsSynchronously(t *testing.T) {
	t.Parallel()
	s := newSession(t)

	err := s.Insert("ratio", 0.5)
	require.ErrorIs(t, err, session.ErrUnsupportedValue)
	assert.False(t, s.IsDirty(), "failed insert leaves the session untouched")
	_, ok := s.Get("ratio")
	assert.False(t, ok)

	err = s.Insert("", "value")
	assert.ErrorIs(t, err, session.ErrUnsupportedValue)

	err = s.InsertValue("zero", session.Value{})
	assert.ErrorIs(t, err, session.ErrUnsupportedValue)
}

func TestSession_NoOpMutationsStayClean(t *testing.T) {
	t.Parallel()
	s := newSession(t)

	s.Remove("absent")
	s.Clear()
	assert.False(t, s.IsDirty())
}

func TestSession_DestroyAndRegenerate(t *testing.T) {
	t.Parallel()

	s := newSession(t)
	s.Destroy()
	assert.True(t, s.IsDestroyed())

	s = newSession(t)
	s.Regenerate()
	assert.True(t, s.IsDirty(), "regenerate forces a write")
}

func TestID_Redacted(t *testing.T) {
	t.Parallel()
	s := newSession(t)
	id := s.ID()

	assert.Equal(t, "[session-id]", id.String())
	assert.Equal(t, "[session-id]", fmt.Sprint(id))
	assert.Equal(t, "[session-id] [session-id] [session-id]", fmt.Sprintf("%x %v %#v", id, id, id))
	assert.Len(t, id.Key(), 64)
	assert.Len(t, id.Bytes(), session.IDSize)

	back, err := session.IDFromBytes(id.Bytes())
	require.NoError(t, err)
	assert.Equal(t, id, back)

	_, err = session.IDFromBytes([]byte("short"))
	assert.ErrorIs(t, err, session.ErrInvalidID)
}
