package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/pkg/cookie"
	"github.com/dmitrymomot/sessionkit/pkg/environment"
	"github.com/dmitrymomot/sessionkit/pkg/httpserver"
	"github.com/dmitrymomot/sessionkit/pkg/requestid"
	"github.com/dmitrymomot/sessionkit/pkg/session"
	"github.com/dmitrymomot/sessionkit/pkg/token"
)

func setupRouter(t *testing.T, checks ...httpserver.Check) http.Handler {
	t.Helper()

	signer, err := token.NewSigner([][]byte{[]byte("demo-secret-that-is-long-enough-for-hmac")})
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	store := session.NewMemoryStore(0)
	t.Cleanup(func() { _ = store.Close() })

	m, err := session.New(store, signer, session.WithMetrics(session.NewMetrics(reg)))
	require.NoError(t, err)

	return newRouter(routerDeps{
		env:       environment.Development,
		manager:   m,
		transport: session.NewCookieTransport(cookie.New(), "sid"),
		registry:  reg,
		checks:    checks,
		log:       slog.New(slog.DiscardHandler),
	})
}

func get(t *testing.T, h http.Handler, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		r.AddCookie(c)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func sid(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == "sid" {
			return c
		}
	}
	return nil
}

func TestRouter_SessionFlow(t *testing.T) {
	t.Parallel()
	h := setupRouter(t)

	w := get(t, h, "/data")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Nil(t, sid(w))

	w = get(t, h, "/authorize")
	require.Equal(t, http.StatusOK, w.Code)
	c := sid(w)
	require.NotNil(t, c)

	var issued map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&issued))
	_, err := uuid.Parse(issued[userIDKey])
	require.NoError(t, err)

	w = get(t, h, "/data", c)
	require.Equal(t, http.StatusOK, w.Code)
	var got map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, issued[userIDKey], got[userIDKey])

	w = get(t, h, "/logout", c)
	assert.Equal(t, http.StatusNoContent, w.Code)
	cleared := sid(w)
	require.NotNil(t, cleared)
	assert.Negative(t, cleared.MaxAge)

	w = get(t, h, "/data", c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_RequestID(t *testing.T) {
	t.Parallel()
	h := setupRouter(t)

	r := httptest.NewRequest(http.MethodGet, "/livez", nil)
	r.Header.Set(requestid.Header, "client-42")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, "client-42", w.Header().Get(requestid.Header))
}

func TestRouter_AuthorizeRotatesSession(t *testing.T) {
	t.Parallel()
	h := setupRouter(t)

	first := sid(get(t, h, "/authorize"))
	require.NotNil(t, first)
	second := sid(get(t, h, "/authorize", first))
	require.NotNil(t, second)
	assert.NotEqual(t, first.Value, second.Value)

	assert.Equal(t, http.StatusUnauthorized, get(t, h, "/data", first).Code)
	assert.Equal(t, http.StatusOK, get(t, h, "/data", second).Code)
}

func TestRouter_Health(t *testing.T) {
	t.Parallel()

	h := setupRouter(t)
	assert.Equal(t, http.StatusOK, get(t, h, "/livez").Code)
	assert.Equal(t, http.StatusOK, get(t, h, "/healthz").Code)

	failing := setupRouter(t, httpserver.Check{
		Name: "store",
		Fn:   func(context.Context) error { return session.ErrStoreUnavailable },
	})
	assert.Equal(t, http.StatusServiceUnavailable, get(t, failing, "/healthz").Code)
}

func TestRouter_Metrics(t *testing.T) {
	t.Parallel()
	h := setupRouter(t)

	get(t, h, "/authorize")

	w := get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "sessionkit_session_commit_total"))
}

func TestOpenStore(t *testing.T) {
	t.Parallel()
	log := slog.New(slog.DiscardHandler)

	b, err := openStore(context.Background(), appConfig{Store: "memory"}, session.DefaultConfig(), log)
	require.NoError(t, err)
	assert.IsType(t, &session.MemoryStore{}, b.store)
	assert.Empty(t, b.checks)
	assert.NoError(t, b.close())

	_, err = openStore(context.Background(), appConfig{Store: "etcd"}, session.DefaultConfig(), log)
	assert.ErrorContains(t, err, "unknown SESSION_STORE")
}
