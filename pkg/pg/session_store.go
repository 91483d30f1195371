package pg

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/sessionkit/pkg/session"
)

const (
	getSessionQuery = `SELECT data FROM sessions WHERE id = $1 AND expires_at > $2`

	upsertSessionQuery = `INSERT INTO sessions (id, data, expires_at) VALUES ($1, $2, $3)
ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, expires_at = EXCLUDED.expires_at`

	deleteSessionQuery = `DELETE FROM sessions WHERE id = $1`

	deleteExpiredQuery = `DELETE FROM sessions WHERE expires_at <= $1`
)

// Querier is the subset of pgxpool.Pool, pgx.Conn and pgx.Tx the store uses.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// SessionStore implements session.StoreWithCleanup on the sessions table
// created by Migrate. Expired rows are invisible to Get and removed by
// DeleteExpired.
type SessionStore struct {
	db  Querier
	now func() time.Time
}

// StoreOption configures a SessionStore.
type StoreOption func(*SessionStore)

// WithStoreClock replaces time.Now.
func WithStoreClock(now func() time.Time) StoreOption {
	return func(s *SessionStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSessionStore creates a store over db, usually a *pgxpool.Pool.
func NewSessionStore(db Querier, opts ...StoreOption) *SessionStore {
	s := &SessionStore{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns session.ErrNotFound for missing and expired rows.
func (s *SessionStore) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRow(ctx, getSessionQuery, key, s.now().UTC()).Scan(&data)
	if IsNotFoundError(err) {
		return nil, session.ErrNotFound
	}
	if err != nil {
		return nil, errors.Join(session.ErrStoreUnavailable, err)
	}
	return data, nil
}

// Set inserts or replaces the row and moves its expiry to now+ttl.
func (s *SessionStore) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return s.Delete(ctx, key)
	}
	if _, err := s.db.Exec(ctx, upsertSessionQuery, key, data, s.now().Add(ttl).UTC()); err != nil {
		return errors.Join(session.ErrStoreUnavailable, err)
	}
	return nil
}

// Delete removes the row if present.
func (s *SessionStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.Exec(ctx, deleteSessionQuery, key); err != nil {
		return errors.Join(session.ErrStoreUnavailable, err)
	}
	return nil
}

// DeleteExpired removes every expired row.
func (s *SessionStore) DeleteExpired(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, deleteExpiredQuery, s.now().UTC()); err != nil {
		return errors.Join(session.ErrStoreUnavailable, err)
	}
	return nil
}
