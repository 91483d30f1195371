package badger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	badgerdb "github.com/dgraph-io/badger/v3"

	"github.com/dmitrymomot/sessionkit/pkg/logger"
	"github.com/dmitrymomot/sessionkit/pkg/session"
)

// SessionStore implements session.Store on an embedded Badger database.
// Entries carry a native TTL, so expired sessions disappear without a sweep.
type SessionStore struct {
	db     *badgerdb.DB
	cfg    Config
	logger *slog.Logger

	stopCh chan struct{}
	doneCh chan struct{}
}

// Open opens or creates the database described by cfg and starts the value
// log GC loop. Close releases both.
func Open(cfg Config, log *slog.Logger) (*SessionStore, error) {
	if !cfg.InMemory && cfg.Dir == "" {
		return nil, ErrDirRequired
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	log = log.With(logger.Component("badger"))

	opts := badgerdb.DefaultOptions(cfg.Dir)
	if cfg.InMemory {
		opts = badgerdb.DefaultOptions("").WithInMemory(true)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites)
	opts.Logger = &badgerLogger{logger: log}

	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, errors.Join(ErrFailedToOpen, err)
	}

	s := &SessionStore{
		db:     db,
		cfg:    cfg,
		logger: log,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}

	if cfg.GCInterval > 0 && !cfg.InMemory {
		go s.gcLoop()
	} else {
		close(s.doneCh)
	}

	log.Info("badger session store opened",
		slog.String("dir", cfg.Dir),
		slog.Bool("in_memory", cfg.InMemory),
	)
	return s, nil
}

func (s *SessionStore) key(k string) []byte {
	return []byte(s.cfg.KeyPrefix + k)
}

// Get returns session.ErrNotFound for missing and expired keys.
func (s *SessionStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var value []byte
	err := s.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get(s.key(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badgerdb.ErrKeyNotFound) {
		return nil, session.ErrNotFound
	}
	if err != nil {
		return nil, errors.Join(session.ErrStoreUnavailable, err)
	}
	return value, nil
}

// Set writes data with a TTL. Badger keeps expiry at second precision, so
// the TTL is rounded up to a whole second.
func (s *SessionStore) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if ttl <= 0 {
		return s.Delete(ctx, key)
	}
	if r := ttl % time.Second; r != 0 {
		ttl += time.Second - r
	}

	err := s.db.Update(func(txn *badgerdb.Txn) error {
		return txn.SetEntry(badgerdb.NewEntry(s.key(key), data).WithTTL(ttl))
	})
	if err != nil {
		return errors.Join(session.ErrStoreUnavailable, err)
	}
	return nil
}

// Delete removes key. Missing keys are not an error.
func (s *SessionStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Delete(s.key(key))
	})
	if err != nil {
		return errors.Join(session.ErrStoreUnavailable, err)
	}
	return nil
}

// GC runs value log garbage collection until nothing is left to rewrite.
func (s *SessionStore) GC() error {
	start := time.Now()
	runs := 0
	for {
		err := s.db.RunValueLogGC(s.cfg.GCDiscardRatio)
		if errors.Is(err, badgerdb.ErrNoRewrite) || errors.Is(err, badgerdb.ErrRejected) {
			break
		}
		if err != nil {
			return errors.Join(ErrGCFailed, err)
		}
		runs++
	}

	s.logger.Debug("badger gc completed",
		slog.Int("rewrites", runs),
		logger.Duration(time.Since(start)),
	)
	return nil
}

// Close stops the GC loop and closes the database.
func (s *SessionStore) Close() error {
	select {
	case <-s.stopCh:
	default:
		close(s.stopCh)
	}
	<-s.doneCh

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("badger: close db: %w", err)
	}
	return nil
}

func (s *SessionStore) gcLoop() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.cfg.GCInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.GC(); err != nil {
				s.logger.Error("badger gc failed", logger.Error(err))
			}
		case <-s.stopCh:
			return
		}
	}
}

// badgerLogger adapts slog.Logger to Badger's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...any) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...any) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
