package docsystem

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"cms/internal/domain"
	models "cms/internal/domain/models/docsystem"
	docsysRepo "cms/internal/domain/repositories/docsystem"
	"cms/internal/repository/filesystem"
)

// stubClock returns a fixed instant until advanced
type stubClock struct {
	now time.Time
}

func newStubClock() *stubClock {
	return &stubClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *stubClock) Now() time.Time { return c.now }

func (c *stubClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestFileRepo(t *testing.T) docsysRepo.FileRepository {
	t.Helper()
	repo, err := filesystem.NewDocumentRepository(filepath.Join(t.TempDir(), "data"), discardLogger())
	if err != nil {
		t.Fatalf("NewDocumentRepository() error = %v", err)
	}
	return repo
}

func mustWrite(t *testing.T, repo docsysRepo.FileRepository, name, content string) {
	t.Helper()
	if err := repo.Write(context.Background(), name, []byte(content)); err != nil {
		t.Fatalf("Write(%q) error = %v", name, err)
	}
}

func validationReason(err error) string {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return ve.Reason
	}
	return ""
}

// failingRepo fails writes and existence checks for selected names
type failingRepo struct {
	docsysRepo.FileRepository
	failWrite  func(name string) bool
	failExists bool
}

var errDiskFull = errors.New("disk full")

func (r *failingRepo) Write(ctx context.Context, name string, content []byte) error {
	if r.failWrite != nil && r.failWrite(name) {
		return errDiskFull
	}
	return r.FileRepository.Write(ctx, name, content)
}

func (r *failingRepo) Exists(ctx context.Context, name string) (bool, error) {
	if r.failExists {
		return false, errDiskFull
	}
	return r.FileRepository.Exists(ctx, name)
}

func isSnapshotName(name string) bool {
	return models.ParseFileName(name).IsSnapshot
}

func joined(names []string) string {
	return strings.Join(names, ",")
}
