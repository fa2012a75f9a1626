package auth

import (
	"errors"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"cms/internal/domain"
	"cms/internal/domain/models"
)

// JWTSessionCodec signs sessions as HS256 JWTs.
type JWTSessionCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger
}

// NewJWTSessionCodec creates a codec signing with secret; tokens expire after ttl.
func NewJWTSessionCodec(secret string, ttl time.Duration, logger *slog.Logger) (*JWTSessionCodec, error) {
	if secret == "" {
		return nil, errors.New("session secret cannot be empty")
	}
	return &JWTSessionCodec{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
		logger: logger,
	}, nil
}

// Encode signs the session. Each token gets a fresh jti.
func (c *JWTSessionCodec) Encode(sess *models.Session) (string, error) {
	now := c.now()
	claims := models.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
		Username: sess.Username,
		Message:  sess.Message,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Decode validates signature, algorithm and expiry, then extracts the session.
func (c *JWTSessionCodec) Decode(tokenString string) (*models.Session, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.SessionClaims{},
		func(t *jwt.Token) (interface{}, error) { return c.secret, nil },
		// Prevent algorithm confusion attacks - allow only HS256
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		c.logger.Debug("session token rejected", "error", err)
		return nil, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(*models.SessionClaims)
	if !ok || !token.Valid {
		c.logger.Warn("session token has unexpected claims")
		return nil, domain.ErrUnauthorized
	}

	return claims.Session(), nil
}
