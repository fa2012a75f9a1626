package models

import "github.com/golang-jwt/jwt/v5"

// SessionClaims is the signed payload of the session cookie.
type SessionClaims struct {
	jwt.RegisteredClaims        // jti, iat, exp
	Username             string `json:"username,omitempty"`
	Message              string `json:"message,omitempty"`
}

// Session converts the claims into the request-scoped session object
func (c *SessionClaims) Session() *Session {
	return &Session{Username: c.Username, Message: c.Message}
}
