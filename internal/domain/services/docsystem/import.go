package docsystem

import (
	"context"
	"io"

	"cms/internal/domain/models"
)

// ImportService handles bulk document import operations
type ImportService interface {
	// ProcessFiles imports uploaded files (zip archives or single documents).
	// Each entry goes through the same pipeline as a create or upload.
	// If overwrite is true, existing documents are updated; if false, they are skipped.
	ProcessFiles(ctx context.Context, sess *models.Session, files []UploadedFile, overwrite bool) (*ImportResult, error)
}

// UploadedFile is one file handed to an import, from a multipart form or the CLI
type UploadedFile struct {
	Filename string
	Content  io.Reader
}

// ImportResult represents the result of a bulk import operation
type ImportResult struct {
	Summary   ImportSummary    `json:"summary"`
	Errors    []ImportError    `json:"errors"`
	Documents []ImportDocument `json:"documents"`
}

// ImportSummary contains aggregate statistics for an import operation
type ImportSummary struct {
	Created    int `json:"created"`
	Updated    int `json:"updated"`
	Skipped    int `json:"skipped"`
	Failed     int `json:"failed"`
	TotalFiles int `json:"total_files"`
}

// ImportError represents an error that occurred during import
type ImportError struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

// ImportDocument represents a processed document
type ImportDocument struct {
	Source string `json:"source"` // entry path inside the upload
	Name   string `json:"filename"`
	Action string `json:"action"` // "created", "updated", or "skipped"
}

// Import actions
const (
	ImportActionCreated = "created"
	ImportActionUpdated = "updated"
	ImportActionSkipped = "skipped"
)
