package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"cms/internal/domain"
	models "cms/internal/domain/models/docsystem"
	docsysRepo "cms/internal/domain/repositories/docsystem"
)

const (
	filePerm = 0o644
	dirPerm  = 0o755
)

// DocumentRepository stores every document, image and snapshot as a file in
// one flat directory. Nothing is cached: each call goes to disk.
type DocumentRepository struct {
	dir    string
	logger *slog.Logger
}

// NewDocumentRepository creates the store directory if needed
func NewDocumentRepository(dir string, logger *slog.Logger) (docsysRepo.FileRepository, error) {
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("create store dir %q: %w", dir, err)
	}
	return &DocumentRepository{dir: dir, logger: logger}, nil
}

// List returns entries in os.ReadDir order (sorted by name), skipping subdirectories
func (r *DocumentRepository) List(ctx context.Context) ([]models.FileName, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("read store dir %q: %w", r.dir, err)
	}

	names := make([]models.FileName, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, models.ParseFileName(e.Name()))
	}
	return names, nil
}

func (r *DocumentRepository) Exists(ctx context.Context, name string) (bool, error) {
	path, ok := r.path(name)
	if !ok {
		return false, nil
	}

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat %q: %w", path, err)
	}
	return !info.IsDir(), nil
}

func (r *DocumentRepository) Read(ctx context.Context, name string) ([]byte, error) {
	path, ok := r.path(name)
	if !ok {
		return nil, domain.NewNotFound(name)
	}

	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.NewNotFound(name)
	}
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", path, err)
	}
	return b, nil
}

func (r *DocumentRepository) Write(ctx context.Context, name string, content []byte) error {
	path, ok := r.path(name)
	if !ok {
		return fmt.Errorf("write %q: name escapes store directory", name)
	}

	if err := os.WriteFile(path, content, filePerm); err != nil {
		return fmt.Errorf("write %q: %w", path, err)
	}

	r.logger.Debug("file written", "name", name, "bytes", len(content))
	return nil
}

func (r *DocumentRepository) Delete(ctx context.Context, name string) error {
	path, ok := r.path(name)
	if !ok {
		return domain.NewNotFound(name)
	}

	err := os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.NewNotFound(name)
	}
	if err != nil {
		return fmt.Errorf("delete %q: %w", path, err)
	}
	return nil
}

// path joins name onto the store directory. Names that are empty, dot
// entries, or carry a separator are refused so nothing outside the flat
// directory is ever addressed.
func (r *DocumentRepository) path(name string) (string, bool) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", false
	}
	return filepath.Join(r.dir, name), true
}
