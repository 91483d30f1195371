package session

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Resolve outcomes reported by Metrics.
const (
	OutcomeAnonymous    = "anonymous"
	OutcomeInvalidToken = "invalid_token"
	OutcomeNotFound     = "not_found"
	OutcomeDecodeError  = "decode_error"
	OutcomeExpired      = "expired"
	OutcomeLoaded       = "loaded"
	OutcomeStoreError   = "store_error"
)

// Commit results reported by Metrics.
const (
	ResultNoop        = "noop"
	ResultCreated     = "created"
	ResultSaved       = "saved"
	ResultTouched     = "touched"
	ResultRegenerated = "regenerated"
	ResultDestroyed   = "destroyed"
	ResultExpired     = "expired"
	ResultCanceled    = "canceled"
	ResultFailed      = "failed"
)

// Metrics holds the Prometheus collectors of a Manager.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	resolves      *prometheus.CounterVec
	commits       *prometheus.CounterVec
	storeDuration *prometheus.HistogramVec
}

type metricsConfig struct {
	namespace string
	subsystem string
	buckets   []float64
}

// MetricsOption configures NewMetrics.
type MetricsOption func(*metricsConfig)

// WithMetricsNamespace sets the metric namespace (default "sessionkit").
func WithMetricsNamespace(ns string) MetricsOption {
	return func(c *metricsConfig) {
		c.namespace = ns
	}
}

// WithMetricsSubsystem sets the metric subsystem (default "session").
func WithMetricsSubsystem(sub string) MetricsOption {
	return func(c *metricsConfig) {
		c.subsystem = sub
	}
}

// WithStoreBuckets overrides the store latency histogram buckets.
func WithStoreBuckets(buckets []float64) MetricsOption {
	return func(c *metricsConfig) {
		if len(buckets) > 0 {
			c.buckets = buckets
		}
	}
}

// NewMetrics creates and registers the session collectors on reg.
// A nil reg registers on prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer, opts ...MetricsOption) *Metrics {
	cfg := metricsConfig{
		namespace: "sessionkit",
		subsystem: "session",
		buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	factory := promauto.With(reg)

	return &Metrics{
		resolves: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.namespace,
			Subsystem: cfg.subsystem,
			Name:      "resolve_total",
			Help:      "Session resolutions by outcome.",
		}, []string{"outcome"}),
		commits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.namespace,
			Subsystem: cfg.subsystem,
			Name:      "commit_total",
			Help:      "Session commits by result.",
		}, []string{"result"}),
		storeDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.namespace,
			Subsystem: cfg.subsystem,
			Name:      "store_duration_seconds",
			Help:      "Latency of session store calls.",
			Buckets:   cfg.buckets,
		}, []string{"op"}),
	}
}

func (m *Metrics) resolve(outcome string) {
	if m == nil {
		return
	}
	m.resolves.WithLabelValues(outcome).Inc()
}

func (m *Metrics) commit(result string) {
	if m == nil {
		return
	}
	m.commits.WithLabelValues(result).Inc()
}

func (m *Metrics) observeStore(op string, start time.Time) {
	if m == nil {
		return
	}
	m.storeDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
