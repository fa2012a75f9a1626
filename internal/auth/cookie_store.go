package auth

import (
	"log/slog"
	"net/http"
	"time"

	"cms/internal/domain/models"
)

// SessionCookieName is the cookie carrying the signed session
const SessionCookieName = "cms_session"

// CookieSessionStore keeps the whole session in a signed cookie
type CookieSessionStore struct {
	codec  SessionCodec
	ttl    time.Duration
	secure bool
	logger *slog.Logger
}

// NewCookieSessionStore creates a session store. secure sets the cookie's
// Secure flag and should be on outside local development.
func NewCookieSessionStore(codec SessionCodec, ttl time.Duration, secure bool, logger *slog.Logger) *CookieSessionStore {
	return &CookieSessionStore{
		codec:  codec,
		ttl:    ttl,
		secure: secure,
		logger: logger,
	}
}

// Load decodes the request's session cookie
func (s *CookieSessionStore) Load(r *http.Request) *models.Session {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return &models.Session{}
	}

	sess, err := s.codec.Decode(cookie.Value)
	if err != nil {
		return &models.Session{}
	}
	return sess
}

// Save writes the session cookie, or expires it when the session is empty
func (s *CookieSessionStore) Save(w http.ResponseWriter, sess *models.Session) error {
	if sess == nil || (sess.Username == "" && sess.Message == "") {
		http.SetCookie(w, s.cookie("", -1))
		return nil
	}

	token, err := s.codec.Encode(sess)
	if err != nil {
		s.logger.Error("failed to encode session", "error", err)
		return err
	}
	http.SetCookie(w, s.cookie(token, int(s.ttl.Seconds())))
	return nil
}

func (s *CookieSessionStore) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
