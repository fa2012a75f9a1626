package postgres

import (
	"context"
	"fmt"

	"cms/internal/domain/repositories"
)

// CredentialRepository stores credentials in <prefix>users. The primary key
// on username makes a racing duplicate signup fail instead of overwriting.
type CredentialRepository struct {
	*RepositoryConfig
}

// NewCredentialRepository creates a new Postgres-backed credential repository
func NewCredentialRepository(config *RepositoryConfig) repositories.CredentialRepository {
	return &CredentialRepository{RepositoryConfig: config}
}

// EnsureSchema creates the users table when it is missing
func (r *CredentialRepository) EnsureSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			username      TEXT PRIMARY KEY,
			password_hash TEXT NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`, r.Tables.Users)

	if _, err := r.Pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	return nil
}

func (r *CredentialRepository) GetHash(ctx context.Context, username string) (string, error) {
	query := fmt.Sprintf(`SELECT password_hash FROM %s WHERE username = $1`, r.Tables.Users)

	var hash string
	if err := r.Pool.QueryRow(ctx, query, username).Scan(&hash); err != nil {
		return "", userError("get credential", username, err)
	}
	return hash, nil
}

func (r *CredentialRepository) Create(ctx context.Context, username, passwordHash string) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (username, password_hash)
		VALUES ($1, $2)
	`, r.Tables.Users)

	if _, err := r.Pool.Exec(ctx, query, username, passwordHash); err != nil {
		return userError("create credential", username, err)
	}

	r.Logger.Debug("credential inserted", "table", r.Tables.Users, "username", username)
	return nil
}

func (r *CredentialRepository) List(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf(`SELECT username FROM %s ORDER BY username`, r.Tables.Users)

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list credentials: %w", err)
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan username: %w", err)
		}
		users = append(users, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate usernames: %w", err)
	}
	return users, nil
}
