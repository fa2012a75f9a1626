package httputil

import (
	"context"
	"net/http"

	"cms/internal/domain/models"
)

// Context key type to avoid collisions
type contextKey string

const (
	sessionKey   contextKey = "session"
	requestIDKey contextKey = "requestID"
)

// WithSession adds the request's session to its context
func WithSession(r *http.Request, sess *models.Session) *http.Request {
	ctx := context.WithValue(r.Context(), sessionKey, sess)
	return r.WithContext(ctx)
}

// GetSession retrieves the session from context. Without the session
// middleware an anonymous session is returned, never nil.
func GetSession(r *http.Request) *models.Session {
	if sess, ok := r.Context().Value(sessionKey).(*models.Session); ok {
		return sess
	}
	return &models.Session{}
}

// WithRequestID adds the request ID to the request context
func WithRequestID(r *http.Request, id string) *http.Request {
	ctx := context.WithValue(r.Context(), requestIDKey, id)
	return r.WithContext(ctx)
}

// GetRequestID retrieves the request ID, empty if not set
func GetRequestID(r *http.Request) string {
	id, _ := r.Context().Value(requestIDKey).(string)
	return id
}
