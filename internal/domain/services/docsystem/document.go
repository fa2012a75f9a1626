package docsystem

import (
	"context"

	"cms/internal/domain/models"
	"cms/internal/domain/models/docsystem"
)

// DocumentService handles document business logic.
// Mutations take the request session: the AccessGate is consulted first and a
// status message is set on success.
type DocumentService interface {
	// ListDocuments returns document names, snapshots excluded
	ListDocuments(ctx context.Context) ([]string, error)

	// ViewDocument returns a document routed through its content renderer
	ViewDocument(ctx context.Context, name string) (*docsystem.RenderedContent, error)

	// GetDocument returns the raw content of a text document for editing
	GetDocument(ctx context.Context, name string) (*docsystem.Document, error)

	// CreateDocument validates, writes and snapshots a new text document
	CreateDocument(ctx context.Context, sess *models.Session, req *CreateDocumentRequest) error

	// UploadImage validates and writes a new image (not versioned)
	UploadImage(ctx context.Context, sess *models.Session, req *UploadImageRequest) error

	// UpdateDocument overwrites an existing document and snapshots it
	UpdateDocument(ctx context.Context, sess *models.Session, name string, content string) error

	// DeleteDocument removes a document, leaving its snapshots
	DeleteDocument(ctx context.Context, sess *models.Session, name string) error

	// DuplicateDocument copies a document to the next free "stem_N.ext" name
	DuplicateDocument(ctx context.Context, sess *models.Session, name string) (string, error)

	// ListVersions returns the snapshot names of a document
	ListVersions(ctx context.Context, name string) ([]string, error)

	// ViewVersion returns a snapshot's content
	ViewVersion(ctx context.Context, snapshot string) (*docsystem.RenderedContent, error)
}

// CreateDocumentRequest represents a document creation request
type CreateDocumentRequest struct {
	Name    string `json:"new_document"`
	Content string `json:"content"`
}

// UploadImageRequest represents an image upload
type UploadImageRequest struct {
	Name    string
	Content []byte
}
