package session

import (
	"net/http"
	"time"
)

// Transport moves the signed token between client and server.
type Transport interface {
	// GetToken returns ErrNoToken when the request carries none.
	GetToken(r *http.Request) (string, error)

	// SetToken sends token to the client. A zero maxAge means the token
	// has no client-side expiry.
	SetToken(w http.ResponseWriter, token string, maxAge time.Duration) error

	ClearToken(w http.ResponseWriter) error
}

// ApplyDirective carries out d on the response through t.
func ApplyDirective(t Transport, w http.ResponseWriter, d Directive) error {
	switch d.Action {
	case ActionSet:
		return t.SetToken(w, d.Token, d.MaxAge)
	case ActionClear:
		return t.ClearToken(w)
	default:
		return nil
	}
}
