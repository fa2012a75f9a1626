package docsystem

import (
	"context"
	"fmt"
	"time"

	models "cms/internal/domain/models/docsystem"
	docsysRepo "cms/internal/domain/repositories/docsystem"
)

// SnapshotTimeFormat is fixed-width so snapshot names sort chronologically
const SnapshotTimeFormat = "2006-01-02T15:04:05.000000000Z"

// maxDuplicateAttempts bounds the stem_N search
const maxDuplicateAttempts = 10000

// VersionNamer derives snapshot and duplicate names from a document name
type VersionNamer struct {
	fileRepo docsysRepo.FileRepository
	clock    Clock
}

// NewVersionNamer creates a new version namer
func NewVersionNamer(fileRepo docsysRepo.FileRepository, clock Clock) *VersionNamer {
	return &VersionNamer{fileRepo: fileRepo, clock: clock}
}

// SnapshotName formats "(<timestamp>)<name>" for an instant
func SnapshotName(name string, at time.Time) string {
	return models.SnapshotFileName(at.UTC().Format(SnapshotTimeFormat), name)
}

// NextSnapshotName returns a snapshot name for the current instant that is
// not yet taken. Writes landing on the same clock reading are pushed forward
// a nanosecond at a time so each one keeps its own snapshot.
func (n *VersionNamer) NextSnapshotName(ctx context.Context, name string) (string, error) {
	at := n.clock.Now()
	for {
		candidate := SnapshotName(name, at)
		exists, err := n.fileRepo.Exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		at = at.Add(time.Nanosecond)
	}
}

// DuplicateName returns the lowest free "stem_N.ext", N starting at 1
func (n *VersionNamer) DuplicateName(ctx context.Context, name string) (string, error) {
	stem, ext := models.SplitExt(name)
	for i := 1; i <= maxDuplicateAttempts; i++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, i, ext)
		exists, err := n.fileRepo.Exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no free duplicate name for %q after %d attempts", name, maxDuplicateAttempts)
}
