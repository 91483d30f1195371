package session_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/pkg/cookie"
	"github.com/dmitrymomot/sessionkit/pkg/session"
)

// demoRoutes mirrors the typical authorize / data / logout flow.
func demoRoutes(m *session.Manager, t session.Transport) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/authorize", m.Handler(t, func(w http.ResponseWriter, r *http.Request, s *session.Session) {
		s.Regenerate()
		if err := s.Insert("user_id", uuid.New()); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	mux.Handle("/data", m.Handler(t, func(w http.ResponseWriter, r *http.Request, s *session.Session) {
		uid, ok := s.GetString("user_id")
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"user_id": uid})
	}))
	mux.Handle("/logout", m.Handler(t, func(w http.ResponseWriter, r *http.Request, s *session.Session) {
		s.Destroy()
	}))
	return mux
}

func do(t *testing.T, h http.Handler, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		r.AddCookie(c)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestHandler_CookieFlow(t *testing.T) {
	t.Parallel()
	m, _ := setupManager(t)
	transport := session.NewCookieTransport(cookie.New(), "sid")
	mux := demoRoutes(m, transport)

	w := do(t, mux, "/data")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Nil(t, sessionCookie(t, w, "sid"), "anonymous reads set no cookie")

	w = do(t, mux, "/authorize")
	require.Equal(t, http.StatusNoContent, w.Code)
	c := sessionCookie(t, w, "sid")
	require.NotNil(t, c)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.Zero(t, c.MaxAge, "sliding sessions use a browser-session cookie")

	w = do(t, mux, "/data", c)
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	_, err := uuid.Parse(body["user_id"])
	assert.NoError(t, err)
	assert.Nil(t, sessionCookie(t, w, "sid"), "unchanged session keeps its cookie")

	w = do(t, mux, "/logout", c)
	assert.Equal(t, http.StatusOK, w.Code)
	cleared := sessionCookie(t, w, "sid")
	require.NotNil(t, cleared)
	assert.Negative(t, cleared.MaxAge)

	w = do(t, mux, "/data", c)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "destroyed session stays dead")
}

func TestHandler_HeaderTransport(t *testing.T) {
	t.Parallel()
	m, _ := setupManager(t)
	transport := session.NewHeaderTransport("X-Session-Token")
	mux := demoRoutes(m, transport)

	w := do(t, mux, "/authorize")
	require.Equal(t, http.StatusNoContent, w.Code)
	header := w.Header().Get("X-Session-Token")
	require.NotEmpty(t, header)

	r := httptest.NewRequest(http.MethodGet, "/data", nil)
	r.Header.Set("X-Session-Token", header)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandler_CommitsBeforeFirstWrite(t *testing.T) {
	t.Parallel()
	m, store := setupManager(t)
	transport := session.NewCookieTransport(cookie.New(), "sid")

	var storedBeforeReturn int
	h := m.Handler(transport, func(w http.ResponseWriter, r *http.Request, s *session.Session) {
		require.NoError(t, s.Insert("k", "v"))
		_, _ = w.Write([]byte("hello"))
		storedBeforeReturn = store.Len()
		require.NoError(t, s.Insert("late", "ignored"))
	})

	w := do(t, h, "/")
	assert.Equal(t, "hello", w.Body.String())
	assert.Equal(t, 1, storedBeforeReturn)

	c := sessionCookie(t, w, "sid")
	require.NotNil(t, c, "cookie header made it into the response")

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	tok, err := transport.GetToken(r)
	require.NoError(t, err)
	hd, err := m.Resolve(context.Background(), tok)
	require.NoError(t, err)
	_, ok := hd.Session().Get("late")
	assert.False(t, ok, "mutations after the response started are not persisted")
}

func TestHandler_StoreFailure(t *testing.T) {
	t.Parallel()

	rec := &recordingStore{Store: session.NewMemoryStore(0)}
	m, err := session.New(rec, newSigner(t))
	require.NoError(t, err)
	transport := session.NewCookieTransport(cookie.New(), "sid")

	tok := commitNew(t, m, map[string]any{"user_id": "U"})
	rec.mu.Lock()
	rec.failGet = errBackendDown
	rec.mu.Unlock()

	called := false
	h := m.Handler(transport, func(w http.ResponseWriter, r *http.Request, s *session.Session) {
		called = true
	})

	w := do(t, h, "/", &http.Cookie{Name: "sid", Value: tok})
	assert.False(t, called, "handler never sees a session when the store is down")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHandler_CommitFailureUsesErrorHandler(t *testing.T) {
	t.Parallel()

	rec := &recordingStore{Store: session.NewMemoryStore(0), failSet: errBackendDown}
	var handled error
	m, err := session.New(rec, newSigner(t), session.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
		handled = err
		http.Error(w, "try again", http.StatusServiceUnavailable)
	}))
	require.NoError(t, err)
	transport := session.NewCookieTransport(cookie.New(), "sid")

	h := m.Handler(transport, func(w http.ResponseWriter, r *http.Request, s *session.Session) {
		_ = s.Insert("k", "v")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("body"))
	})

	w := do(t, h, "/")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.NotContains(t, w.Body.String(), "body")
	assert.True(t, errors.Is(handled, session.ErrStoreUnavailable))
	assert.Nil(t, sessionCookie(t, w, "sid"))
}

func TestCookieTransport_MaxAge(t *testing.T) {
	t.Parallel()
	transport := session.NewCookieTransportWithSecurity(nil, "sid", true)

	w := httptest.NewRecorder()
	err := session.ApplyDirective(transport, w, session.Directive{
		Action: session.ActionSet,
		Token:  "tok",
		MaxAge: 90 * time.Minute,
	})
	require.NoError(t, err)

	c := sessionCookie(t, w, "sid")
	require.NotNil(t, c)
	assert.Equal(t, 5400, c.MaxAge)
	assert.True(t, c.Secure)

	w = httptest.NewRecorder()
	require.NoError(t, session.ApplyDirective(transport, w, session.Directive{}))
	assert.Empty(t, w.Header().Get("Set-Cookie"))

	w = httptest.NewRecorder()
	require.NoError(t, session.ApplyDirective(transport, w, session.Directive{Action: session.ActionClear}))
	c = sessionCookie(t, w, "sid")
	require.NotNil(t, c)
	assert.Equal(t, -1, c.MaxAge)
	assert.True(t, c.Secure, "clearing cookie keeps Secure")
}

func TestCompositeTransport(t *testing.T) {
	t.Parallel()
	ct := session.NewCompositeTransport(
		session.NewHeaderTransport("Authorization"),
		session.NewCookieTransport(nil, "sid"),
	)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := ct.GetToken(r)
	assert.ErrorIs(t, err, session.ErrNoToken)

	r.AddCookie(&http.Cookie{Name: "sid", Value: "from-cookie"})
	tok, err := ct.GetToken(r)
	require.NoError(t, err)
	assert.Equal(t, "from-cookie", tok)

	r.Header.Set("Authorization", "Bearer from-header")
	tok, err = ct.GetToken(r)
	require.NoError(t, err)
	assert.Equal(t, "from-header", tok, "first transport wins")
}

func TestCookieTransport_UsesManagerDefaults(t *testing.T) {
	t.Parallel()
	cookies, err := cookie.NewFromConfig(cookie.Config{Path: "/app", HttpOnly: true, SameSite: "strict"})
	require.NoError(t, err)
	transport := session.NewCookieTransportFromConfig(session.DefaultConfig(), cookies)

	w := httptest.NewRecorder()
	require.NoError(t, transport.SetToken(w, "tok", 0))

	c := sessionCookie(t, w, "sid")
	require.NotNil(t, c)
	assert.Equal(t, "/app", c.Path)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
	assert.Zero(t, c.MaxAge)
}

func TestHeaderTransport_MaxAge(t *testing.T) {
	t.Parallel()
	transport := session.NewHeaderTransport("X-Session-Token", session.WithHeaderPrefix(""))

	w := httptest.NewRecorder()
	require.NoError(t, transport.SetToken(w, "tok", 90*time.Second))
	assert.Equal(t, "tok", w.Header().Get("X-Session-Token"))
	assert.Equal(t, "90", w.Header().Get("X-Session-Token-Max-Age"))

	w2 := httptest.NewRecorder()
	require.NoError(t, transport.SetToken(w2, "tok", 400*time.Millisecond))
	assert.Equal(t, "1", w2.Header().Get("X-Session-Token-Max-Age"))

	require.NoError(t, transport.ClearToken(w))
	assert.Empty(t, w.Header().Get("X-Session-Token"))
	assert.Empty(t, w.Header().Get("X-Session-Token-Max-Age"))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := transport.GetToken(r)
	assert.ErrorIs(t, err, session.ErrNoToken)
}
