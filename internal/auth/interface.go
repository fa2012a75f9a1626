package auth

import (
	"net/http"

	"cms/internal/domain/models"
)

// SessionCodec turns a session into a signed token and back.
// Decode fails for tampered, expired or foreign tokens.
type SessionCodec interface {
	Encode(sess *models.Session) (string, error)
	Decode(token string) (*models.Session, error)
}

// SessionStore loads and persists the session of a request.
// Load never fails: a missing or invalid cookie yields an anonymous session.
type SessionStore interface {
	Load(r *http.Request) *models.Session
	Save(w http.ResponseWriter, sess *models.Session) error
}
