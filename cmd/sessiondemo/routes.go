package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/sessionkit/pkg/environment"
	"github.com/dmitrymomot/sessionkit/pkg/httpserver"
	"github.com/dmitrymomot/sessionkit/pkg/requestid"
	"github.com/dmitrymomot/sessionkit/pkg/session"
)

const userIDKey = "user_id"

type routerDeps struct {
	env       environment.Environment
	manager   *session.Manager
	transport session.Transport
	registry  *prometheus.Registry
	checks    []httpserver.Check
	log       *slog.Logger
}

func newRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(requestid.Middleware())
	r.Use(middleware.Recoverer)
	r.Use(environment.Middleware(d.env))

	r.Method(http.MethodGet, "/authorize", d.manager.Handler(d.transport, authorize))
	r.Method(http.MethodGet, "/data", d.manager.Handler(d.transport, data))
	r.Method(http.MethodGet, "/logout", d.manager.Handler(d.transport, logout))

	r.Get("/livez", httpserver.LivenessHandler())
	r.Get("/healthz", httpserver.ReadinessHandler(d.log, 2*time.Second, d.checks...))
	if d.registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.registry, promhttp.HandlerOpts{}))
	}
	return r
}

// authorize signs the client in under a fresh session id.
func authorize(w http.ResponseWriter, _ *http.Request, s *session.Session) {
	s.Regenerate()
	uid := uuid.New()
	if err := s.Insert(userIDKey, uid); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{userIDKey: uid.String()})
}

func data(w http.ResponseWriter, _ *http.Request, s *session.Session) {
	uid, ok := s.GetString(userIDKey)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{userIDKey: uid})
}

func logout(w http.ResponseWriter, _ *http.Request, s *session.Session) {
	s.Destroy()
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
