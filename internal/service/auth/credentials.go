package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"cms/internal/config"
	"cms/internal/domain"
	"cms/internal/domain/models"
	"cms/internal/domain/repositories"
	"cms/internal/domain/services"
)

// credentialService implements the CredentialService interface
type credentialService struct {
	repo   repositories.CredentialRepository
	cost   int
	logger *slog.Logger

	// dummyHash is compared against when the user is unknown, so a failed
	// sign-in costs the same whether or not the username exists.
	dummyHash []byte
}

// NewCredentialService creates a new credential service hashing at the given bcrypt cost
func NewCredentialService(repo repositories.CredentialRepository, cost int, logger *slog.Logger) (services.CredentialService, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), cost)
	if err != nil {
		return nil, fmt.Errorf("generate dummy hash: %w", err)
	}

	return &credentialService{
		repo:      repo,
		cost:      cost,
		logger:    logger,
		dummyHash: dummy,
	}, nil
}

// Verify checks password against the stored hash for username
func (s *credentialService) Verify(ctx context.Context, username, password string) (bool, error) {
	hash, err := s.repo.GetHash(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return false, nil
		}
		return false, fmt.Errorf("load credential: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		// A malformed stored hash never matches
		s.logger.Warn("stored hash unusable", "username", username, "error", err)
		return false, nil
	}
}

// CreateAccount validates the pair, hashes the password and stores it
func (s *credentialService) CreateAccount(ctx context.Context, username, password string) error {
	if username == "" {
		return &domain.CredentialError{Reason: domain.ReasonUsernameRequired, Message: "A username is required."}
	}
	if password == "" {
		return &domain.CredentialError{Reason: domain.ReasonPasswordRequired, Message: "A password is required."}
	}
	if len(password) > config.MaxPasswordLength {
		return &domain.CredentialError{
			Reason:  domain.ReasonPasswordTooLong,
			Message: fmt.Sprintf("Passwords cannot be longer than %d bytes.", config.MaxPasswordLength),
		}
	}

	if _, err := s.repo.GetHash(ctx, username); err == nil {
		return usernameTaken(username)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("load credential: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.repo.Create(ctx, username, string(hash)); err != nil {
		// Lost a race with a concurrent signup
		if errors.Is(err, domain.ErrConflict) {
			return usernameTaken(username)
		}
		return err
	}

	s.logger.Info("account created", "username", username)
	return nil
}

// SignIn attaches username to the session when the password matches
func (s *credentialService) SignIn(ctx context.Context, sess *models.Session, username, password string) error {
	ok, err := s.Verify(ctx, username, password)
	if err != nil {
		return err
	}
	if !ok {
		s.logger.Info("sign-in rejected", "username", username)
		return &domain.CredentialError{Reason: domain.ReasonInvalidCredentials, Message: "Invalid credentials."}
	}

	sess.Username = username
	sess.SetMessage("Welcome!")
	s.logger.Info("signed in", "username", username)
	return nil
}

// SignOut clears the user from the session
func (s *credentialService) SignOut(sess *models.Session) {
	sess.Username = ""
	sess.SetMessage("You have been signed out.")
}

// ListUsers returns every known username
func (s *credentialService) ListUsers(ctx context.Context) ([]string, error) {
	return s.repo.List(ctx)
}

func usernameTaken(username string) error {
	return &domain.CredentialError{
		Reason:  domain.ReasonUsernameTaken,
		Message: fmt.Sprintf("%s is already taken.", username),
	}
}
