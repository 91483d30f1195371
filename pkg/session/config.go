package session

import (
	"fmt"
	"time"
)

// Config holds session configuration
type Config struct {
	// CookieName is the name of the session cookie (default: "sid")
	CookieName string `env:"SESSION_COOKIE_NAME" envDefault:"sid"`

	// TTL is the record lifetime. With sliding expiration it restarts on every
	// write, with fixed expiration it counts from creation.
	TTL time.Duration `env:"SESSION_TTL" envDefault:"24h"`

	// MaxLifetime caps the age of a session regardless of activity (0 disables).
	MaxLifetime time.Duration `env:"SESSION_MAX_LIFETIME" envDefault:"0"`

	// FixedExpiration disables sliding expiration.
	FixedExpiration bool `env:"SESSION_FIXED_EXPIRATION" envDefault:"false"`

	// TouchInterval is the minimum age of the last write before an unchanged
	// session is written again to slide its TTL (0 disables).
	TouchInterval time.Duration `env:"SESSION_TOUCH_INTERVAL" envDefault:"5m"`

	// CleanupInterval for the default in-memory store (0 to disable)
	CleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"5m"`

	// SecureCookies enables the Secure flag on session cookies (recommended for production)
	SecureCookies bool `env:"SESSION_SECURE_COOKIES" envDefault:"false"`

	// Codec selects the record encoding: "json" or "msgpack".
	Codec string `env:"SESSION_CODEC" envDefault:"json"`
}

// DefaultConfig returns default session configuration
func DefaultConfig() Config {
	return Config{
		CookieName:      "sid",
		TTL:             24 * time.Hour,
		MaxLifetime:     0,
		FixedExpiration: false,
		TouchInterval:   5 * time.Minute,
		CleanupInterval: 5 * time.Minute,
		SecureCookies:   false,
		Codec:           "json",
	}
}

func (c Config) validate() error {
	if c.TTL <= 0 {
		return fmt.Errorf("%w: TTL must be positive", ErrInvalidConfig)
	}
	if c.MaxLifetime < 0 {
		return fmt.Errorf("%w: MaxLifetime must not be negative", ErrInvalidConfig)
	}
	if c.TouchInterval < 0 {
		return fmt.Errorf("%w: TouchInterval must not be negative", ErrInvalidConfig)
	}
	return nil
}

// CodecByName returns the built-in codec registered under name.
func CodecByName(name string) (Codec, error) {
	switch name {
	case "", "json":
		return JSONCodec{}, nil
	case "msgpack":
		return MsgPackCodec{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown codec %q", ErrInvalidConfig, name)
	}
}

// NewFromConfig creates a new Manager from the provided Config.
// The codec named in cfg is used unless WithCodec is passed as well.
func NewFromConfig(cfg Config, store Store, signer Signer, opts ...Option) (*Manager, error) {
	codec, err := CodecByName(cfg.Codec)
	if err != nil {
		return nil, err
	}

	configOpts := []Option{
		WithConfig(cfg),
		WithCodec(codec),
	}

	configOpts = append(configOpts, opts...)

	return New(store, signer, configOpts...)
}
