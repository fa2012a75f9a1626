package repositories

import "context"

// CredentialRepository persists the username -> password hash mapping
type CredentialRepository interface {
	// GetHash returns the stored hash, domain.ErrNotFound if the user is unknown
	GetHash(ctx context.Context, username string) (string, error)

	// Create stores a new credential, *domain.ConflictError if the username exists
	Create(ctx context.Context, username, passwordHash string) error

	// List returns all usernames
	List(ctx context.Context) ([]string, error)
}
