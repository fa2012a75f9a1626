package docsystem

import (
	"context"

	"cms/internal/domain/models/docsystem"
)

// FileRepository defines data access over the flat store directory.
// Documents, images and snapshots all live side by side in it.
type FileRepository interface {
	// List returns every entry in the store, parsed into structured names
	List(ctx context.Context) ([]docsystem.FileName, error)

	// Exists reports whether an entry with exactly this name is present
	Exists(ctx context.Context, name string) (bool, error)

	// Read returns an entry's bytes, domain.ErrNotFound if absent
	Read(ctx context.Context, name string) ([]byte, error)

	// Write creates or overwrites an entry
	Write(ctx context.Context, name string, content []byte) error

	// Delete removes an entry, domain.ErrNotFound if absent
	Delete(ctx context.Context, name string) error
}
