package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"cms/internal/domain"
	"cms/internal/domain/repositories"
)

const schema = `
	CREATE TABLE IF NOT EXISTS users (
		username      TEXT PRIMARY KEY,
		password_hash TEXT NOT NULL,
		created_at    TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`

// CredentialRepository stores credentials in a single-file SQLite database
type CredentialRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// OpenDatabase opens (creating when missing) the database at path and
// ensures the users table exists
func OpenDatabase(ctx context.Context, path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database %q: %w", path, err)
	}
	// SQLite serialises writers; one connection avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database %q: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create users table: %w", err)
	}
	return db, nil
}

// NewCredentialRepository creates a new SQLite-backed credential repository
func NewCredentialRepository(db *sql.DB, logger *slog.Logger) repositories.CredentialRepository {
	return &CredentialRepository{db: db, logger: logger}
}

func (r *CredentialRepository) GetHash(ctx context.Context, username string) (string, error) {
	var hash string
	err := r.db.QueryRowContext(ctx,
		`SELECT password_hash FROM users WHERE username = ?`, username).Scan(&hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("get credential: %w", err)
	}
	return hash, nil
}

func (r *CredentialRepository) Create(ctx context.Context, username, passwordHash string) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO users (username, password_hash)
		VALUES (?, ?)
		ON CONFLICT (username) DO NOTHING`, username, passwordHash)
	if err != nil {
		return fmt.Errorf("create credential: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("create credential: %w", err)
	}
	if n == 0 {
		return &domain.ConflictError{
			Message:      fmt.Sprintf("user %q already exists", username),
			ResourceType: "user",
			ResourceID:   username,
		}
	}

	r.logger.Debug("credential inserted", "username", username)
	return nil
}

func (r *CredentialRepository) List(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT username FROM users ORDER BY username`)
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
