package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"cms/internal/domain"
)

// uniqueViolation is the SQLSTATE for a duplicate key
const uniqueViolation = "23505"

// IsPgDuplicateError reports whether err is a unique constraint violation
func IsPgDuplicateError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// IsPgNoRowsError reports whether a single-row query matched nothing
func IsPgNoRowsError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// userError translates a driver error for username into the domain taxonomy
func userError(op, username string, err error) error {
	switch {
	case IsPgNoRowsError(err):
		return domain.ErrNotFound
	case IsPgDuplicateError(err):
		return &domain.ConflictError{
			Message:      fmt.Sprintf("user %q already exists", username),
			ResourceType: "user",
			ResourceID:   username,
		}
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
