package services

import (
	"context"

	"cms/internal/domain/models"
)

// AccessGate decides whether a session may perform mutating operations.
// The only distinction is authenticated vs anonymous.
//
// Design principle: services call the gate before touching the store, so
// every entry point (HTTP, CLI) is covered by the same check.
type AccessGate interface {
	// IsAuthorized reports whether the session carries a username
	IsAuthorized(sess *models.Session) bool

	// Require returns *domain.UnauthorizedError when not authorized
	Require(sess *models.Session) error
}

// CredentialService verifies and creates accounts
type CredentialService interface {
	// Verify checks a password; unknown users yield false without an error
	Verify(ctx context.Context, username, password string) (bool, error)

	// CreateAccount hashes and stores a new credential
	CreateAccount(ctx context.Context, username, password string) error

	// SignIn verifies the credential and attaches the user to the session
	SignIn(ctx context.Context, sess *models.Session, username, password string) error

	// SignOut detaches the user from the session
	SignOut(sess *models.Session)

	// ListUsers returns all known usernames
	ListUsers(ctx context.Context) ([]string, error)
}
