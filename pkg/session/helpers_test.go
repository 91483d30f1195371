package session_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/pkg/logger"
	"github.com/dmitrymomot/sessionkit/pkg/session"
	"github.com/dmitrymomot/sessionkit/pkg/token"
)

var testSecret = []byte("test-secret-key-that-is-long-enough-for-hmac")

func newSigner(t testing.TB) *token.Signer {
	t.Helper()
	s, err := token.NewSigner([][]byte{testSecret})
	require.NoError(t, err)
	return s
}

// setupManager returns a manager over a fresh memory store.
func setupManager(t testing.TB, opts ...session.Option) (*session.Manager, *session.MemoryStore) {
	t.Helper()
	store := session.NewMemoryStore(0)
	t.Cleanup(func() { _ = store.Close() })

	m, err := session.New(store, newSigner(t), opts...)
	require.NoError(t, err)
	return m, store
}

// clock is a manually advanced time source.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *clock {
	return &clock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// recordingStore counts calls and can be told to fail.
type recordingStore struct {
	session.Store

	mu      sync.Mutex
	gets    int
	sets    int
	deletes int
	lastTTL time.Duration
	failGet error
	failSet error
	failDel error
}

func (s *recordingStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	s.gets++
	err := s.failGet
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return s.Store.Get(ctx, key)
}

func (s *recordingStore) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	s.mu.Lock()
	s.sets++
	s.lastTTL = ttl
	err := s.failSet
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.Store.Set(ctx, key, data, ttl)
}

func (s *recordingStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	s.deletes++
	err := s.failDel
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.Store.Delete(ctx, key)
}

func (s *recordingStore) counts() (gets, sets, deletes int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gets, s.sets, s.deletes
}

var errBackendDown = errors.New("connection refused")

// commitNew stores a session holding fields and returns its token.
func commitNew(t *testing.T, m *session.Manager, fields map[string]any) string {
	t.Helper()
	ctx := context.Background()

	h, err := m.Resolve(ctx, "")
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, h.Session().Insert(k, v))
	}

	d, err := m.Commit(ctx, h)
	require.NoError(t, err)
	require.Equal(t, session.ActionSet, d.Action)
	require.NotEmpty(t, d.Token)
	return d.Token
}

// safeBuffer is a bytes.Buffer safe for concurrent log writes.
type safeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *safeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestLogger(buf *safeBuffer) *slog.Logger {
	return logger.New(
		logger.WithOutput(buf),
		logger.WithTextFormatter(),
		logger.WithLevel(slog.LevelDebug),
	)
}
