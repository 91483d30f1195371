package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/sessionkit/pkg/logger"
)

// Signer turns session ids into client tokens and back.
// Verify must reject every token it did not produce with a current secret.
type Signer interface {
	Sign(id []byte) (string, error)
	Verify(token string) ([]byte, error)
}

// Manager resolves client tokens into sessions and persists them on commit.
// It is safe for concurrent use; the sessions it hands out are not.
type Manager struct {
	store   Store
	signer  Signer
	codec   Codec
	config  Config
	logger  *slog.Logger
	metrics *Metrics
	now     func() time.Time

	errorHandler ErrorHandler
}

// New creates a session manager. The signer is required. A nil store
// falls back to a MemoryStore; the codec defaults to JSONCodec.
func New(store Store, signer Signer, opts ...Option) (*Manager, error) {
	if signer == nil {
		return nil, fmt.Errorf("%w: signer is required", ErrInvalidConfig)
	}

	m := &Manager{
		store:  store,
		signer: signer,
		codec:  JSONCodec{},
		config: DefaultConfig(),
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(m)
	}

	if err := m.config.validate(); err != nil {
		return nil, err
	}

	if m.codec == nil {
		m.codec = JSONCodec{}
	}

	if m.store == nil {
		m.store = NewMemoryStore(m.config.CleanupInterval)
	}

	m.logger = m.logger.With(logger.Component("session"))

	if m.errorHandler == nil {
		m.errorHandler = m.defaultErrorHandler
	}

	return m, nil
}

// Config returns the effective configuration.
func (m *Manager) Config() Config { return m.config }

// Store returns the backing store.
func (m *Manager) Store() Store { return m.store }

// Resolve maps an inbound token to a session.
//
// An empty, forged, unknown, undecodable or expired token yields a fresh
// unsaved session and no error. Only a failing store is reported, wrapped
// in ErrStoreUnavailable.
func (m *Manager) Resolve(ctx context.Context, token string) (*Handle, error) {
	if token == "" {
		return m.fresh(ctx, false, OutcomeAnonymous)
	}

	raw, err := m.signer.Verify(token)
	if err != nil {
		return m.fresh(ctx, true, OutcomeInvalidToken)
	}
	id, err := IDFromBytes(raw)
	if err != nil {
		return m.fresh(ctx, true, OutcomeInvalidToken)
	}

	data, err := m.storeGet(ctx, id.Key())
	switch {
	case errors.Is(err, ErrNotFound):
		return m.fresh(ctx, true, OutcomeNotFound)
	case err != nil:
		m.metrics.resolve(OutcomeStoreError)
		m.logger.ErrorContext(ctx, "session store read failed",
			logger.Event(OutcomeStoreError),
			logger.Error(err),
		)
		return nil, storeError(err)
	}

	sess, err := m.codec.Decode(data)
	if err != nil {
		m.logger.WarnContext(ctx, "discarding undecodable session record",
			logger.Event(OutcomeDecodeError),
			logger.Error(err),
		)
		return m.fresh(ctx, true, OutcomeDecodeError)
	}
	sess.id = id

	now := m.now()
	if deadline := m.deadline(sess); !deadline.IsZero() && !now.Before(deadline) {
		if err := m.storeDelete(ctx, id.Key()); err != nil {
			m.logger.WarnContext(ctx, "failed to drop expired session record",
				logger.Event(OutcomeExpired),
				logger.Error(err),
			)
		}
		return m.fresh(ctx, true, OutcomeExpired)
	}

	m.metrics.resolve(OutcomeLoaded)
	return &Handle{session: sess, presented: true}, nil
}

// New returns a handle with a fresh session, ignoring any client token.
func (m *Manager) New(ctx context.Context) (*Handle, error) {
	return m.fresh(ctx, false, OutcomeAnonymous)
}

func (m *Manager) fresh(ctx context.Context, presented bool, outcome string) (*Handle, error) {
	id, err := NewID()
	if err != nil {
		return nil, err
	}
	m.metrics.resolve(outcome)
	if outcome != OutcomeAnonymous {
		m.logger.DebugContext(ctx, "starting fresh session", logger.Event(outcome))
	}
	return &Handle{session: newSession(id, m.now()), presented: presented}, nil
}

// Commit persists the handle's session and reports what the transport
// should send back to the client.
//
// A handle can be committed once. If ctx is already done nothing is
// written and ctx.Err() is returned. A new session that was never modified
// is not stored and gets no token.
func (m *Manager) Commit(ctx context.Context, h *Handle) (Directive, error) {
	if h == nil || h.session == nil {
		return Directive{}, fmt.Errorf("%w: nil handle", ErrInvalidConfig)
	}
	if h.committed {
		return Directive{}, ErrHandleCommitted
	}
	h.committed = true

	if err := ctx.Err(); err != nil {
		m.metrics.commit(ResultCanceled)
		return Directive{}, err
	}

	d, result, err := m.commit(ctx, h)
	if err != nil {
		m.metrics.commit(ResultFailed)
		m.logger.ErrorContext(ctx, "session commit failed",
			logger.Event(ResultFailed),
			logger.Error(err),
		)
		return Directive{}, err
	}

	m.metrics.commit(result)
	return d, nil
}

func (m *Manager) commit(ctx context.Context, h *Handle) (Directive, string, error) {
	s := h.session
	now := m.now()

	switch {
	case s.destroyed:
		if err := m.remove(ctx, s); err != nil {
			return Directive{}, "", err
		}
		return m.clearDirective(h), ResultDestroyed, nil

	case s.regenerate:
		return m.regenerate(ctx, h, now)

	case s.dirty:
		wasNew := s.isNew
		ttl, err := m.persist(ctx, s, now)
		if err != nil {
			return Directive{}, "", err
		}
		if ttl <= 0 {
			return m.clearDirective(h), ResultExpired, nil
		}
		if !wasNew {
			return Directive{}, ResultSaved, nil
		}
		d, err := m.setDirective(s, now)
		return d, ResultCreated, err

	case s.isNew:
		return m.clearDirective(h), ResultNoop, nil

	case m.config.TouchInterval > 0 && now.Sub(s.accessedAt) >= m.config.TouchInterval:
		ttl, err := m.persist(ctx, s, now)
		if err != nil {
			return Directive{}, "", err
		}
		if ttl <= 0 {
			return m.clearDirective(h), ResultExpired, nil
		}
		return Directive{}, ResultTouched, nil

	default:
		return Directive{}, ResultNoop, nil
	}
}

// regenerate moves the session to a new id and removes the old record.
func (m *Manager) regenerate(ctx context.Context, h *Handle, now time.Time) (Directive, string, error) {
	s := h.session
	oldID, wasNew := s.id, s.isNew

	id, err := NewID()
	if err != nil {
		return Directive{}, "", err
	}
	s.id = id
	s.isNew = true
	s.regenerate = false

	ttl, err := m.persist(ctx, s, now)
	if err != nil {
		return Directive{}, "", err
	}

	if !wasNew {
		if err := m.storeDelete(ctx, oldID.Key()); err != nil {
			return Directive{}, "", storeError(err)
		}
	}

	if ttl <= 0 {
		return m.clearDirective(h), ResultExpired, nil
	}

	d, err := m.setDirective(s, now)
	return d, ResultRegenerated, err
}

// persist writes s with its remaining TTL. A session with no time left is
// removed instead and a non-positive TTL is returned.
func (m *Manager) persist(ctx context.Context, s *Session, now time.Time) (time.Duration, error) {
	ttl := m.ttl(s, now)
	if ttl <= 0 {
		return ttl, m.remove(ctx, s)
	}

	prevAccessed, prevRevision := s.accessedAt, s.revision
	s.accessedAt = now
	s.revision++

	data, err := m.codec.Encode(s)
	if err == nil {
		err = m.storeSet(ctx, s.id.Key(), data, ttl)
		if err != nil {
			err = storeError(err)
		}
	}
	if err != nil {
		s.accessedAt, s.revision = prevAccessed, prevRevision
		return 0, err
	}

	s.isNew = false
	s.dirty = false
	return ttl, nil
}

func (m *Manager) remove(ctx context.Context, s *Session) error {
	if s.isNew {
		return nil
	}
	if err := m.storeDelete(ctx, s.id.Key()); err != nil {
		return storeError(err)
	}
	return nil
}

func (m *Manager) setDirective(s *Session, now time.Time) (Directive, error) {
	token, err := m.signer.Sign(s.id.Bytes())
	if err != nil {
		return Directive{}, err
	}
	d := Directive{Action: ActionSet, Token: token}
	if deadline := m.deadline(s); !deadline.IsZero() {
		d.MaxAge = deadline.Sub(now)
	}
	return d, nil
}

// clearDirective tells a client that presented a token to drop it.
func (m *Manager) clearDirective(h *Handle) Directive {
	if h.presented {
		return Directive{Action: ActionClear}
	}
	return Directive{}
}

// deadline is the absolute expiry of s, or the zero time for sessions that
// only expire through inactivity.
func (m *Manager) deadline(s *Session) time.Time {
	var deadline time.Time
	if m.config.FixedExpiration {
		deadline = s.createdAt.Add(m.config.TTL)
	}
	if m.config.MaxLifetime > 0 {
		limit := s.createdAt.Add(m.config.MaxLifetime)
		if deadline.IsZero() || limit.Before(deadline) {
			deadline = limit
		}
	}
	return deadline
}

func (m *Manager) ttl(s *Session, now time.Time) time.Duration {
	ttl := m.config.TTL
	if deadline := m.deadline(s); !deadline.IsZero() {
		if remaining := deadline.Sub(now); remaining < ttl {
			ttl = remaining
		}
	}
	return ttl
}

func (m *Manager) storeGet(ctx context.Context, key string) ([]byte, error) {
	defer m.metrics.observeStore("get", time.Now())
	return m.store.Get(ctx, key)
}

func (m *Manager) storeSet(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	defer m.metrics.observeStore("set", time.Now())
	return m.store.Set(ctx, key, data, ttl)
}

func (m *Manager) storeDelete(ctx context.Context, key string) error {
	defer m.metrics.observeStore("delete", time.Now())
	return m.store.Delete(ctx, key)
}

func storeError(err error) error {
	if errors.Is(err, ErrStoreUnavailable) {
		return err
	}
	return errors.Join(ErrStoreUnavailable, err)
}
