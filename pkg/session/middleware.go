package session

import (
	"net/http"

	"github.com/dmitrymomot/sessionkit/pkg/logger"
)

// HandlerFunc is an http.HandlerFunc that receives the request's session.
type HandlerFunc func(w http.ResponseWriter, r *http.Request, s *Session)

// ErrorHandler writes the response when resolving or committing a session fails.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// Handler adapts fn into an http.Handler.
//
// The session is resolved from the token t extracts and committed right
// before the first byte of the response is written, or after fn returns if
// it writes nothing. The resulting token directive is applied through t.
// Store failures are passed to the error handler instead of reaching fn.
func (m *Manager) Handler(t Transport, fn HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, _ := t.GetToken(r)

		h, err := m.Resolve(r.Context(), token)
		if err != nil {
			m.errorHandler(w, r, err)
			return
		}

		cw := &commitWriter{
			ResponseWriter: w,
			commit: func() error {
				d, err := m.Commit(r.Context(), h)
				if err != nil {
					return err
				}
				return ApplyDirective(t, w, d)
			},
			onError: func(err error) {
				m.errorHandler(w, r, err)
			},
		}

		fn(cw, r, h.Session())

		_ = cw.begin()
	})
}

func (m *Manager) defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	m.logger.ErrorContext(r.Context(), "session request failed",
		logger.Handler("session"),
		logger.Error(err),
	)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// commitWriter commits the session before the response headers go out.
type commitWriter struct {
	http.ResponseWriter
	commit  func() error
	onError func(err error)
	started bool
	err     error
}

// begin runs the commit once and reports a failed commit through onError.
// It returns the commit error on every call.
func (w *commitWriter) begin() error {
	if w.started {
		return w.err
	}
	w.started = true
	if err := w.commit(); err != nil {
		w.err = err
		w.onError(err)
	}
	return w.err
}

func (w *commitWriter) WriteHeader(code int) {
	if w.begin() != nil {
		return
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *commitWriter) Write(b []byte) (int, error) {
	if err := w.begin(); err != nil {
		return 0, err
	}
	return w.ResponseWriter.Write(b)
}

func (w *commitWriter) Flush() {
	if w.begin() != nil {
		return
	}
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *commitWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
