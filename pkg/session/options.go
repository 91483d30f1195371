package session

import (
	"log/slog"
	"time"
)

// Option is a functional option for configuring the Manager
type Option func(*Manager)

// WithCodec sets the record codec. Defaults to JSONCodec.
func WithCodec(codec Codec) Option {
	return func(m *Manager) {
		m.codec = codec
	}
}

// WithConfig sets custom configuration
func WithConfig(config Config) Option {
	return func(m *Manager) {
		m.config = config
	}
}

// WithTTL sets the record lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.config.TTL = ttl
	}
}

// WithMaxLifetime caps the total age of a session.
func WithMaxLifetime(d time.Duration) Option {
	return func(m *Manager) {
		m.config.MaxLifetime = d
	}
}

// WithFixedExpiration makes the TTL count from creation instead of the last write.
func WithFixedExpiration() Option {
	return func(m *Manager) {
		m.config.FixedExpiration = true
	}
}

// WithTouchInterval sets how stale an unchanged session may get before it
// is rewritten to slide its TTL.
func WithTouchInterval(d time.Duration) Option {
	return func(m *Manager) {
		m.config.TouchInterval = d
	}
}

// WithLogger sets the logger. Session ids are never logged.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(metrics *Metrics) Option {
	return func(m *Manager) {
		m.metrics = metrics
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithErrorHandler sets the handler used by Manager.Handler when a session
// cannot be resolved or committed. The default logs and answers 500.
func WithErrorHandler(h ErrorHandler) Option {
	return func(m *Manager) {
		m.errorHandler = h
	}
}
