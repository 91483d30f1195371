package session

import (
	"bytes"
	"context"
	"sync"
	"time"
)

// MemoryStore implements Store in process memory.
// It is meant for tests and single-instance deployments.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]memoryRecord
	now     func() time.Time
	ticker  *time.Ticker
	done    chan struct{}
	once    sync.Once
}

type memoryRecord struct {
	data      []byte
	expiresAt time.Time
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithMemoryClock replaces time.Now, mostly for tests.
func WithMemoryClock(now func() time.Time) MemoryOption {
	return func(m *MemoryStore) {
		if now != nil {
			m.now = now
		}
	}
}

// NewMemoryStore creates a new in-memory store. A positive cleanupInterval
// starts a goroutine that drops expired records; stop it with Close.
func NewMemoryStore(cleanupInterval time.Duration, opts ...MemoryOption) *MemoryStore {
	store := &MemoryStore{
		records: make(map[string]memoryRecord),
		now:     time.Now,
		done:    make(chan struct{}),
	}

	for _, opt := range opts {
		opt(store)
	}

	if cleanupInterval > 0 {
		store.ticker = time.NewTicker(cleanupInterval)
		go store.cleanupLoop()
	}

	return store
}

// Get returns a copy of the stored bytes.
func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	rec, ok := m.records[key]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}

	if !m.now().Before(rec.expiresAt) {
		m.mu.Lock()
		// Re-check: a concurrent Set may have refreshed the record.
		if cur, ok := m.records[key]; ok && !m.now().Before(cur.expiresAt) {
			delete(m.records, key)
		}
		m.mu.Unlock()
		return nil, ErrNotFound
	}

	return bytes.Clone(rec.data), nil
}

// Set stores a copy of data.
func (m *MemoryStore) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.records[key] = memoryRecord{
		data:      bytes.Clone(data),
		expiresAt: m.now().Add(ttl),
	}
	return nil
}

// Delete removes key.
func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.records, key)
	return nil
}

// DeleteExpired removes all expired records.
func (m *MemoryStore) DeleteExpired(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for key, rec := range m.records {
		if !now.Before(rec.expiresAt) {
			delete(m.records, key)
		}
	}

	return nil
}

// Len returns the number of records, including expired ones not yet swept.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// Close stops the cleanup goroutine.
func (m *MemoryStore) Close() error {
	m.once.Do(func() {
		if m.ticker != nil {
			m.ticker.Stop()
			close(m.done)
		}
	})
	return nil
}

// cleanupLoop runs periodic cleanup of expired records
func (m *MemoryStore) cleanupLoop() {
	for {
		select {
		case <-m.ticker.C:
			_ = m.DeleteExpired(context.Background())
		case <-m.done:
			return
		}
	}
}
