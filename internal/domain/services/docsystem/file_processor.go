package docsystem

import (
	"context"
	"io"

	"cms/internal/domain/models"
)

// FileProcessor defines the strategy interface for processing uploaded files.
// Different implementations handle different file types (zip, individual files)
type FileProcessor interface {
	// CanProcess returns true if this processor can handle the given filename
	CanProcess(filename string) bool

	// Process imports the file into the store and records the outcome in result
	Process(
		ctx context.Context,
		sess *models.Session,
		file io.Reader,
		filename string,
		overwrite bool,
		result *ImportResult,
	) error

	// Name returns the processor name for logging
	Name() string
}
