package config

import (
	"errors"

	"github.com/caarlos0/env/v11"
)

// ParseOption configures Parse.
type ParseOption func(*env.Options)

// WithPrefix only reads variables starting with prefix, e.g. "API_" turns
// SESSION_TTL into API_SESSION_TTL.
func WithPrefix(prefix string) ParseOption {
	return func(o *env.Options) {
		o.Prefix = prefix
	}
}

// WithEnvironment parses from vars instead of the process environment.
func WithEnvironment(vars map[string]string) ParseOption {
	return func(o *env.Options) {
		o.Environment = vars
	}
}

// WithRequiredIfNoDefault makes every field without envDefault required.
func WithRequiredIfNoDefault() ParseOption {
	return func(o *env.Options) {
		o.RequiredIfNoDef = true
	}
}

// Parse fills a fresh T from the environment without touching the cache.
// Use it when the same type is loaded more than once with different
// prefixes, or in tests.
func Parse[T any](opts ...ParseOption) (T, error) {
	var o env.Options
	for _, opt := range opts {
		opt(&o)
	}

	cfg, err := env.ParseAsWithOptions[T](o)
	if err != nil {
		return cfg, errors.Join(ErrParsingConfig, err)
	}
	return cfg, nil
}
