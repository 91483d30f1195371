package cookie

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Manager writes cookies with a shared set of default attributes.
type Manager struct {
	defaults Options
}

// New returns a Manager whose cookies default to Path=/, HttpOnly and
// SameSite=Lax.
func New(opts ...Option) *Manager {
	defaults := Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	return &Manager{
		defaults: applyOptions(defaults, opts),
	}
}

// Defaults returns the default cookie attributes.
func (m *Manager) Defaults() Options { return m.defaults }

// Set writes a cookie. Options override the manager defaults for this call.
func (m *Manager) Set(w http.ResponseWriter, name, value string, opts ...Option) error {
	options := applyOptions(m.defaults, opts)

	if options.SameSite == http.SameSiteNoneMode && !options.Secure {
		return fmt.Errorf("%w: SameSite=None requires Secure", ErrInvalidOptions)
	}

	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     options.Path,
		Domain:   options.Domain,
		MaxAge:   options.MaxAge,
		Secure:   options.Secure,
		HttpOnly: options.HttpOnly,
		SameSite: options.SameSite,
	}

	if err := cookie.Valid(); err != nil {
		return errors.Join(ErrInvalidFormat, err)
	}

	http.SetCookie(w, cookie)
	return nil
}

// Get returns the value of the named cookie.
func (m *Manager) Get(r *http.Request, name string) (string, error) {
	cookie, err := r.Cookie(name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrCookieNotFound
		}
		return "", err
	}
	return cookie.Value, nil
}

// Delete tells the client to drop the named cookie. opts should match the
// ones the cookie was set with so the browser matches the clearing cookie.
func (m *Manager) Delete(w http.ResponseWriter, name string, opts ...Option) {
	o := applyOptions(m.defaults, opts)
	cookie := &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     o.Path,
		Domain:   o.Domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: o.HttpOnly,
		SameSite: o.SameSite,
		Secure:   o.Secure,
	}
	http.SetCookie(w, cookie)
}
