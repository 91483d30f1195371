package session

import (
	"net/http"
	"time"

	"github.com/dmitrymomot/sessionkit/pkg/cookie"
)

// CookieTransport keeps the token in a cookie. Path, Domain, HttpOnly and
// SameSite come from the cookie manager's defaults.
type CookieTransport struct {
	cookies *cookie.Manager
	name    string
	secure  bool
	options []cookie.Option
}

// NewCookieTransport stores tokens in the cookie called name. A nil manager
// uses cookie.New(). opts apply to every Set.
func NewCookieTransport(cookies *cookie.Manager, name string, opts ...cookie.Option) *CookieTransport {
	if cookies == nil {
		cookies = cookie.New()
	}
	return &CookieTransport{cookies: cookies, name: name, options: opts}
}

// NewCookieTransportWithSecurity is NewCookieTransport that also forces the
// Secure flag when secure is set.
func NewCookieTransportWithSecurity(cookies *cookie.Manager, name string, secure bool, opts ...cookie.Option) *CookieTransport {
	t := NewCookieTransport(cookies, name, opts...)
	t.secure = secure
	return t
}

// NewCookieTransportFromConfig uses cfg.CookieName and cfg.SecureCookies.
func NewCookieTransportFromConfig(cfg Config, cookies *cookie.Manager, opts ...cookie.Option) *CookieTransport {
	return NewCookieTransportWithSecurity(cookies, cfg.CookieName, cfg.SecureCookies, opts...)
}

func (t *CookieTransport) GetToken(r *http.Request) (string, error) {
	token, err := t.cookies.Get(r, t.name)
	if err != nil || token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// SetToken writes a browser-session cookie when maxAge is zero and a
// persistent one otherwise, rounded down to whole seconds but at least one.
func (t *CookieTransport) SetToken(w http.ResponseWriter, token string, maxAge time.Duration) error {
	var opts []cookie.Option
	if maxAge > 0 {
		opts = append(opts, cookie.WithMaxAge(max(1, int(maxAge/time.Second))))
	}
	if t.secure {
		opts = append(opts, cookie.WithSecure(true))
	}
	return t.cookies.Set(w, t.name, token, append(opts, t.options...)...)
}

func (t *CookieTransport) ClearToken(w http.ResponseWriter) error {
	var opts []cookie.Option
	if t.secure {
		opts = append(opts, cookie.WithSecure(true))
	}
	t.cookies.Delete(w, t.name, append(opts, t.options...)...)
	return nil
}
