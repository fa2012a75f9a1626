package middleware

import (
	"net/http"

	"cms/internal/auth"
	"cms/internal/domain/models"
	"cms/internal/httputil"
)

// Session loads the session cookie into the request context and writes the
// (possibly modified) session back just before the response header goes out.
func Session(store auth.SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := store.Load(r)
			sw := &sessionWriter{ResponseWriter: w, store: store, sess: sess}
			next.ServeHTTP(sw, httputil.WithSession(r, sess))
			sw.persist()
		})
	}
}

// sessionWriter saves the session once, on the first header write
type sessionWriter struct {
	http.ResponseWriter
	store auth.SessionStore
	sess  *models.Session
	saved bool
}

func (w *sessionWriter) persist() {
	if w.saved {
		return
	}
	w.saved = true
	// Save only fails when signing fails; the response still goes out
	_ = w.store.Save(w.ResponseWriter, w.sess)
}

func (w *sessionWriter) WriteHeader(status int) {
	w.persist()
	w.ResponseWriter.WriteHeader(status)
}

func (w *sessionWriter) Write(b []byte) (int, error) {
	w.persist()
	return w.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer
func (w *sessionWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
