package session

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// HeaderTransport carries the token in a request and response header, for
// API clients that do not keep cookies. Values are prefixed with "Bearer "
// unless WithHeaderPrefix says otherwise.
type HeaderTransport struct {
	name   string
	prefix string
}

type HeaderOption func(*HeaderTransport)

// WithHeaderPrefix replaces the "Bearer " prefix. An empty prefix sends the
// bare token.
func WithHeaderPrefix(prefix string) HeaderOption {
	return func(t *HeaderTransport) { t.prefix = prefix }
}

func NewHeaderTransport(name string, opts ...HeaderOption) *HeaderTransport {
	t := &HeaderTransport{name: name, prefix: "Bearer "}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *HeaderTransport) maxAgeHeader() string { return t.name + "-Max-Age" }

// GetToken returns the header value without the prefix.
func (t *HeaderTransport) GetToken(r *http.Request) (string, error) {
	value := strings.TrimPrefix(r.Header.Get(t.name), t.prefix)
	if value == "" {
		return "", ErrNoToken
	}
	return value, nil
}

// SetToken writes the token and, for sessions with an absolute deadline,
// a companion <name>-Max-Age header in seconds.
func (t *HeaderTransport) SetToken(w http.ResponseWriter, token string, maxAge time.Duration) error {
	w.Header().Set(t.name, t.prefix+token)
	if maxAge > 0 {
		w.Header().Set(t.maxAgeHeader(), strconv.Itoa(max(1, int(maxAge/time.Second))))
	}
	return nil
}

// ClearToken removes both headers from the response. Header clients are
// expected to drop their token when a request fails with 401.
func (t *HeaderTransport) ClearToken(w http.ResponseWriter) error {
	w.Header().Del(t.name)
	w.Header().Del(t.maxAgeHeader())
	return nil
}
