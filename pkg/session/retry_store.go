package session

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"
)

// RetryConfig controls how RetryStore retries transient store failures.
type RetryConfig struct {
	Attempts   uint64        `env:"SESSION_STORE_RETRY_ATTEMPTS" envDefault:"3"`
	BaseDelay  time.Duration `env:"SESSION_STORE_RETRY_BASE_DELAY" envDefault:"20ms"`
	MaxDelay   time.Duration `env:"SESSION_STORE_RETRY_MAX_DELAY" envDefault:"250ms"`
	JitterPerc uint64        `env:"SESSION_STORE_RETRY_JITTER_PERCENT" envDefault:"10"`
}

// DefaultRetryConfig returns the default retry policy.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		Attempts:   3,
		BaseDelay:  20 * time.Millisecond,
		MaxDelay:   250 * time.Millisecond,
		JitterPerc: 10,
	}
}

// RetryStore retries failed store calls with exponential backoff.
// ErrNotFound and context errors are returned immediately. Once retries are
// exhausted the last error is returned wrapped in ErrStoreUnavailable.
type RetryStore struct {
	next Store
	cfg  RetryConfig
}

// NewRetryStore wraps next with the retry policy in cfg.
func NewRetryStore(next Store, cfg RetryConfig) *RetryStore {
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = DefaultRetryConfig().BaseDelay
	}
	return &RetryStore{next: next, cfg: cfg}
}

func (s *RetryStore) backoff() retry.Backoff {
	b := retry.NewExponential(s.cfg.BaseDelay)
	if s.cfg.JitterPerc > 0 {
		b = retry.WithJitterPercent(s.cfg.JitterPerc, b)
	}
	if s.cfg.MaxDelay > 0 {
		b = retry.WithCappedDuration(s.cfg.MaxDelay, b)
	}
	return retry.WithMaxRetries(s.cfg.Attempts, b)
}

func (s *RetryStore) do(ctx context.Context, fn func(ctx context.Context) error) error {
	err := retry.Do(ctx, s.backoff(), func(ctx context.Context) error {
		err := fn(ctx)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, ErrNotFound),
			errors.Is(err, context.Canceled),
			errors.Is(err, context.DeadlineExceeded):
			return err
		default:
			return retry.RetryableError(err)
		}
	})
	if err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, ErrStoreUnavailable) {
		return err
	}
	return errors.Join(ErrStoreUnavailable, err)
}

// Get implements Store.
func (s *RetryStore) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := s.do(ctx, func(ctx context.Context) error {
		var err error
		data, err = s.next.Get(ctx, key)
		return err
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Set implements Store.
func (s *RetryStore) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return s.do(ctx, func(ctx context.Context) error {
		return s.next.Set(ctx, key, data, ttl)
	})
}

// Delete implements Store.
func (s *RetryStore) Delete(ctx context.Context, key string) error {
	return s.do(ctx, func(ctx context.Context) error {
		return s.next.Delete(ctx, key)
	})
}
