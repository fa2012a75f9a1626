package filesystem

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"cms/internal/domain"
	"cms/internal/domain/repositories"
)

// CredentialRepository keeps the username -> hash mapping in a YAML file.
// The whole mapping is read on every call and rewritten on every create.
//
// mu serialises read-modify-write within this process only; two processes
// sharing the file can still lose an update.
type CredentialRepository struct {
	path   string
	mu     sync.Mutex
	logger *slog.Logger
}

// NewCredentialRepository creates a repository backed by the file at path.
// A missing file is treated as an empty mapping.
func NewCredentialRepository(path string, logger *slog.Logger) repositories.CredentialRepository {
	return &CredentialRepository{path: path, logger: logger}
}

func (r *CredentialRepository) GetHash(ctx context.Context, username string) (string, error) {
	creds, err := r.load()
	if err != nil {
		return "", err
	}

	hash, ok := creds[username]
	if !ok {
		return "", domain.ErrNotFound
	}
	return hash, nil
}

func (r *CredentialRepository) Create(ctx context.Context, username, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	creds, err := r.load()
	if err != nil {
		return err
	}

	if _, taken := creds[username]; taken {
		return &domain.ConflictError{
			Message:      fmt.Sprintf("user %q already exists", username),
			ResourceType: "user",
			ResourceID:   username,
		}
	}
	creds[username] = passwordHash

	if err := r.save(creds); err != nil {
		return err
	}

	r.logger.Debug("credential file rewritten", "path", r.path, "users", len(creds))
	return nil
}

func (r *CredentialRepository) List(ctx context.Context) ([]string, error) {
	creds, err := r.load()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(creds))
	for name := range creds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (r *CredentialRepository) load() (map[string]string, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read credentials %q: %w", r.path, err)
	}

	creds := map[string]string{}
	if err := yaml.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("parse credentials %q: %w", r.path, err)
	}
	return creds, nil
}

// save replaces the file via a temp file and rename so readers never see a
// half-written mapping.
func (r *CredentialRepository) save(creds map[string]string) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	if err := enc.Encode(creds); err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("create credentials dir %q: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".users-*.yml")
	if err != nil {
		return fmt.Errorf("create temp credentials: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp credentials: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp credentials: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return fmt.Errorf("chmod temp credentials: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("replace credentials %q: %w", r.path, err)
	}
	return nil
}
