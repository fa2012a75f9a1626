package auth

import (
	"cms/internal/domain"
	"cms/internal/domain/models"
	"cms/internal/domain/services"
)

// SessionGate implements AccessGate using the session's username.
// Any signed-in user may mutate any document; there are no roles.
type SessionGate struct{}

// NewSessionGate creates a new session-based access gate
func NewSessionGate() services.AccessGate {
	return SessionGate{}
}

// IsAuthorized checks if a user is attached to the session
func (SessionGate) IsAuthorized(sess *models.Session) bool {
	return sess.SignedIn()
}

// Require rejects anonymous sessions with the not-signed-in message
func (g SessionGate) Require(sess *models.Session) error {
	if !g.IsAuthorized(sess) {
		return domain.NewNotSignedIn()
	}
	return nil
}
