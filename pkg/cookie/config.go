package cookie

import (
	"fmt"
	"net/http"
	"strings"
)

// Config holds cookie defaults read from the environment.
type Config struct {
	Path     string `env:"COOKIE_PATH" envDefault:"/"`
	Domain   string `env:"COOKIE_DOMAIN"`
	Secure   bool   `env:"COOKIE_SECURE" envDefault:"false"`
	HttpOnly bool   `env:"COOKIE_HTTP_ONLY" envDefault:"true"`
	// SameSite is one of "lax", "strict", "none" or "default".
	SameSite string `env:"COOKIE_SAME_SITE" envDefault:"lax"`
}

func DefaultConfig() Config {
	return Config{
		Path:     "/",
		HttpOnly: true,
		SameSite: "lax",
	}
}

// ParseSameSite maps a SameSite name to its http constant. Empty means lax.
func ParseSameSite(s string) (http.SameSite, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lax":
		return http.SameSiteLaxMode, nil
	case "strict":
		return http.SameSiteStrictMode, nil
	case "none":
		return http.SameSiteNoneMode, nil
	case "default":
		return http.SameSiteDefaultMode, nil
	default:
		return 0, fmt.Errorf("%w: unknown SameSite %q", ErrInvalidOptions, s)
	}
}

// NewFromConfig creates a Manager from cfg. Explicit options are applied
// after the config.
func NewFromConfig(cfg Config, opts ...Option) (*Manager, error) {
	sameSite, err := ParseSameSite(cfg.SameSite)
	if err != nil {
		return nil, err
	}
	if sameSite == http.SameSiteNoneMode && !cfg.Secure {
		return nil, fmt.Errorf("%w: SameSite=None requires Secure", ErrInvalidOptions)
	}

	configOpts := []Option{
		WithSecure(cfg.Secure),
		WithHTTPOnly(cfg.HttpOnly),
		WithSameSite(sameSite),
	}
	if cfg.Path != "" {
		configOpts = append(configOpts, WithPath(cfg.Path))
	}
	if cfg.Domain != "" {
		configOpts = append(configOpts, WithDomain(cfg.Domain))
	}

	return New(append(configOpts, opts...)...), nil
}
