package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/sessionkit/pkg/session"
)

// DefaultKeyPrefix namespaces session keys when no prefix is given.
const DefaultKeyPrefix = "session:"

// SessionStore implements session.Store on top of Redis.
// Records expire through Redis key TTLs, so no cleanup loop is needed.
type SessionStore struct {
	db     redis.UniversalClient
	prefix string
}

// StoreOption configures a SessionStore.
type StoreOption func(*SessionStore)

// WithKeyPrefix overrides DefaultKeyPrefix.
func WithKeyPrefix(prefix string) StoreOption {
	return func(s *SessionStore) {
		s.prefix = prefix
	}
}

// NewSessionStore wraps client as a session store.
func NewSessionStore(client redis.UniversalClient, opts ...StoreOption) *SessionStore {
	s := &SessionStore{
		db:     client,
		prefix: DefaultKeyPrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewSessionStoreFromConfig uses cfg.KeyPrefix for the key namespace.
func NewSessionStoreFromConfig(client redis.UniversalClient, cfg Config) *SessionStore {
	if cfg.KeyPrefix == "" {
		return NewSessionStore(client)
	}
	return NewSessionStore(client, WithKeyPrefix(cfg.KeyPrefix))
}

func (s *SessionStore) key(k string) string {
	return s.prefix + k
}

// Get returns session.ErrNotFound for missing or expired keys.
func (s *SessionStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.db.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, session.ErrNotFound
	}
	if err != nil {
		return nil, errors.Join(session.ErrStoreUnavailable, err)
	}
	return val, nil
}

// Set stores data with a millisecond precision TTL.
func (s *SessionStore) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return s.Delete(ctx, key)
	}
	if err := s.db.Set(ctx, s.key(key), data, ttl).Err(); err != nil {
		return errors.Join(session.ErrStoreUnavailable, err)
	}
	return nil
}

// Delete removes the key. Missing keys are not an error.
func (s *SessionStore) Delete(ctx context.Context, key string) error {
	if err := s.db.Del(ctx, s.key(key)).Err(); err != nil {
		return errors.Join(session.ErrStoreUnavailable, err)
	}
	return nil
}

// Conn returns the underlying Redis client.
func (s *SessionStore) Conn() redis.UniversalClient {
	return s.db
}
