package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
// Implementing this interface enables extensible error handling (OCP compliance).
type HTTPError interface {
	error
	StatusCode() int
}

// Validation reasons for document names
const (
	ReasonNameRequired      = "name_required"
	ReasonInvalidExtension  = "invalid_extension"
	ReasonNameInUse         = "name_in_use"
	ReasonReservedCharacter = "reserved_character"
	ReasonInvalidCharacter  = "invalid_character"
	ReasonNameTooLong       = "name_too_long"
)

// Credential failure reasons
const (
	ReasonUsernameRequired   = "username_required"
	ReasonPasswordRequired   = "password_required"
	ReasonPasswordTooLong    = "password_too_long"
	ReasonUsernameTaken      = "username_taken"
	ReasonInvalidCredentials = "invalid_credentials"
)

// MessageNotSignedIn is shown whenever the AccessGate rejects a request.
const MessageNotSignedIn = "You must be signed in to do that."

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates a resource was not found
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates an unacceptable document name
	ValidationError struct {
		Reason  string
		Message string
	}

	// UnauthorizedError indicates the caller is not signed in
	UnauthorizedError struct {
		Message string
	}

	// CredentialError indicates a rejected signup or sign-in
	CredentialError struct {
		Reason  string
		Message string
	}
)

// Error implementations
func (e *NotFoundError) Error() string     { return e.Message }
func (e *ValidationError) Error() string   { return e.Message }
func (e *UnauthorizedError) Error() string { return e.Message }
func (e *CredentialError) Error() string   { return e.Message }

// StatusCode implementations (HTTPError interface)
func (e *NotFoundError) StatusCode() int     { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int   { return http.StatusUnprocessableEntity }
func (e *UnauthorizedError) StatusCode() int { return http.StatusUnauthorized }
func (e *CredentialError) StatusCode() int   { return http.StatusUnprocessableEntity }

// Is implementations so callers can match with errors.Is
func (e *NotFoundError) Is(target error) bool     { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool   { return target == ErrValidation }
func (e *UnauthorizedError) Is(target error) bool { return target == ErrUnauthorized }
func (e *CredentialError) Is(target error) bool   { return target == ErrCredentials }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrCredentials  = errors.New("credentials rejected")
)

// NewNotFound builds the standard "X does not exist." error.
func NewNotFound(name string) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf("%s does not exist.", name)}
}

// NewNotSignedIn builds the AccessGate rejection.
func NewNotSignedIn() *UnauthorizedError {
	return &UnauthorizedError{Message: MessageNotSignedIn}
}

// ConflictError represents a resource conflict with details about the existing resource
// Implements HTTPError interface for extensible error handling
type ConflictError struct {
	Message      string // Human-readable error message
	ResourceType string // Type of resource (document, user)
	ResourceID   string // Name of the existing/conflicting resource
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	return e.Message
}

// StatusCode implements the HTTPError interface
func (e *ConflictError) StatusCode() int {
	return http.StatusConflict
}

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// PartialWriteError reports a multi-step write that stopped after its first
// step succeeded. Nothing is rolled back: the earlier steps stay on disk.
type PartialWriteError struct {
	Name string // document whose write was interrupted
	Step string // step that failed, e.g. "snapshot"
	Err  error
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("write %q: %s step failed: %v", e.Name, e.Step, e.Err)
}

func (e *PartialWriteError) Unwrap() error { return e.Err }

// StatusCode implements the HTTPError interface
func (e *PartialWriteError) StatusCode() int {
	return http.StatusInternalServerError
}
