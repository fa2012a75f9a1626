package docsystem

import (
	"context"
	"fmt"
	"log/slog"

	"cms/internal/domain"
	"cms/internal/domain/models"
	docsystem "cms/internal/domain/models/docsystem"
	docsysRepo "cms/internal/domain/repositories/docsystem"
	"cms/internal/domain/services"
	docsysSvc "cms/internal/domain/services/docsystem"
	"cms/internal/service/docsystem/converter"
)

// documentService implements the DocumentService interface
type documentService struct {
	fileRepo        docsysRepo.FileRepository
	validator       *NameValidator
	namer           *VersionNamer
	renderers       *converter.RendererRegistry
	contentAnalyzer services.ContentAnalyzer
	gate            services.AccessGate
	logger          *slog.Logger
}

// NewDocumentService creates a new document service
func NewDocumentService(
	fileRepo docsysRepo.FileRepository,
	validator *NameValidator,
	namer *VersionNamer,
	renderers *converter.RendererRegistry,
	contentAnalyzer services.ContentAnalyzer,
	gate services.AccessGate,
	logger *slog.Logger,
) docsysSvc.DocumentService {
	return &documentService{
		fileRepo:        fileRepo,
		validator:       validator,
		namer:           namer,
		renderers:       renderers,
		contentAnalyzer: contentAnalyzer,
		gate:            gate,
		logger:          logger,
	}
}

// ListDocuments returns every stored name that is not a snapshot
func (s *documentService) ListDocuments(ctx context.Context) ([]string, error) {
	entries, err := s.fileRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsSnapshot {
			names = append(names, e.Raw)
		}
	}
	return names, nil
}

// ViewDocument reads a document and routes it through its renderer
func (s *documentService) ViewDocument(ctx context.Context, name string) (*docsystem.RenderedContent, error) {
	content, err := s.readDocument(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.renderers.Render(ctx, name, content)
}

// GetDocument returns raw text content for editing
func (s *documentService) GetDocument(ctx context.Context, name string) (*docsystem.Document, error) {
	content, err := s.readDocument(ctx, name)
	if err != nil {
		return nil, err
	}

	kind := docsystem.KindOf(name)
	if kind == docsystem.KindImage {
		return nil, &domain.ValidationError{
			Reason:  domain.ReasonInvalidExtension,
			Message: fmt.Sprintf("%s is an image and cannot be edited.", name),
		}
	}

	return &docsystem.Document{
		Name:      name,
		Kind:      kind,
		Content:   string(content),
		WordCount: s.contentAnalyzer.CountWords(string(content), kind),
	}, nil
}

// CreateDocument validates the name, then writes the document and its first snapshot
func (s *documentService) CreateDocument(ctx context.Context, sess *models.Session, req *docsysSvc.CreateDocumentRequest) error {
	if err := s.gate.Require(sess); err != nil {
		return err
	}

	if err := s.store(ctx, req.Name, []byte(req.Content), docsystem.NameKindText); err != nil {
		return err
	}

	sess.SetMessage(fmt.Sprintf("%s was created.", req.Name))
	return nil
}

// UploadImage validates against the image extensions and writes without a snapshot
func (s *documentService) UploadImage(ctx context.Context, sess *models.Session, req *docsysSvc.UploadImageRequest) error {
	if err := s.gate.Require(sess); err != nil {
		return err
	}

	if err := s.store(ctx, req.Name, req.Content, docsystem.NameKindImage); err != nil {
		return err
	}

	sess.SetMessage(fmt.Sprintf("%s was uploaded.", req.Name))
	return nil
}

// UpdateDocument overwrites an existing document. The name is not
// re-validated: only names that passed creation can exist.
func (s *documentService) UpdateDocument(ctx context.Context, sess *models.Session, name string, content string) error {
	if err := s.gate.Require(sess); err != nil {
		return err
	}

	if err := s.requireDocument(ctx, name); err != nil {
		return err
	}

	if docsystem.KindOf(name).Versioned() {
		if _, err := s.writeVersioned(ctx, name, []byte(content)); err != nil {
			return err
		}
	} else if err := s.fileRepo.Write(ctx, name, []byte(content)); err != nil {
		return err
	}

	s.logger.Info("document updated",
		"name", name,
		"bytes", len(content),
		"user", sess.Username,
	)

	sess.SetMessage(fmt.Sprintf("%s has been updated.", name))
	return nil
}

// DeleteDocument removes the document; its snapshots stay as history
func (s *documentService) DeleteDocument(ctx context.Context, sess *models.Session, name string) error {
	if err := s.gate.Require(sess); err != nil {
		return err
	}

	if docsystem.ParseFileName(name).IsSnapshot {
		return domain.NewNotFound(name)
	}
	if err := s.fileRepo.Delete(ctx, name); err != nil {
		return err
	}

	s.logger.Info("document deleted",
		"name", name,
		"user", sess.Username,
	)

	sess.SetMessage(fmt.Sprintf("%s has been deleted.", name))
	return nil
}

// DuplicateDocument copies name to the next free "stem_N.ext" through the
// same pipeline a new file of its kind goes through
func (s *documentService) DuplicateDocument(ctx context.Context, sess *models.Session, name string) (string, error) {
	if err := s.gate.Require(sess); err != nil {
		return "", err
	}

	content, err := s.readDocument(ctx, name)
	if err != nil {
		return "", err
	}

	newName, err := s.namer.DuplicateName(ctx, name)
	if err != nil {
		return "", err
	}

	kind := docsystem.KindOf(name).NameKind()
	if err := s.store(ctx, newName, content, kind); err != nil {
		return "", err
	}

	s.logger.Info("document duplicated",
		"source", name,
		"name", newName,
		"user", sess.Username,
	)

	sess.SetMessage(fmt.Sprintf("%s was duplicated as %s.", name, newName))
	return newName, nil
}

// ListVersions returns the snapshots of name, including those of a deleted document
func (s *documentService) ListVersions(ctx context.Context, name string) ([]string, error) {
	entries, err := s.fileRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	versions := make([]string, 0)
	for _, e := range entries {
		if e.SnapshotOf(name) {
			versions = append(versions, e.Raw)
		}
	}
	return versions, nil
}

// ViewVersion renders a snapshot by its target's extension
func (s *documentService) ViewVersion(ctx context.Context, snapshot string) (*docsystem.RenderedContent, error) {
	if !docsystem.ParseFileName(snapshot).IsSnapshot {
		return nil, domain.NewNotFound(snapshot)
	}

	content, err := s.fileRepo.Read(ctx, snapshot)
	if err != nil {
		return nil, err
	}
	return s.renderers.Render(ctx, snapshot, content)
}

// store runs the creation pipeline: validate, then write (text kinds also snapshot)
func (s *documentService) store(ctx context.Context, name string, content []byte, kind docsystem.NameKind) error {
	if err := s.validator.ValidateNewName(ctx, name, kind); err != nil {
		return err
	}

	if kind == docsystem.NameKindImage {
		if err := s.fileRepo.Write(ctx, name, content); err != nil {
			return err
		}
		s.logger.Info("image stored", "name", name, "bytes", len(content))
		return nil
	}

	snapshot, err := s.writeVersioned(ctx, name, content)
	if err != nil {
		return err
	}

	s.logger.Info("document created",
		"name", name,
		"bytes", len(content),
		"snapshot", snapshot,
	)
	return nil
}

// writeVersioned is the two-step write: the document first, then a snapshot
// of the same bytes. The steps are independent; when the snapshot fails the
// document stays written and a *domain.PartialWriteError says so.
func (s *documentService) writeVersioned(ctx context.Context, name string, content []byte) (string, error) {
	if err := s.fileRepo.Write(ctx, name, content); err != nil {
		return "", err
	}

	snapshot, err := s.namer.NextSnapshotName(ctx, name)
	if err != nil {
		return "", &domain.PartialWriteError{Name: name, Step: "snapshot", Err: err}
	}
	if err := s.fileRepo.Write(ctx, snapshot, content); err != nil {
		s.logger.Error("snapshot write failed after document write",
			"name", name,
			"snapshot", snapshot,
			"error", err,
		)
		return "", &domain.PartialWriteError{Name: name, Step: "snapshot", Err: err}
	}
	return snapshot, nil
}

// readDocument reads a non-snapshot entry
func (s *documentService) readDocument(ctx context.Context, name string) ([]byte, error) {
	if docsystem.ParseFileName(name).IsSnapshot {
		return nil, domain.NewNotFound(name)
	}
	return s.fileRepo.Read(ctx, name)
}

// requireDocument returns NotFound unless a non-snapshot entry named name exists
func (s *documentService) requireDocument(ctx context.Context, name string) error {
	if docsystem.ParseFileName(name).IsSnapshot {
		return domain.NewNotFound(name)
	}
	exists, err := s.fileRepo.Exists(ctx, name)
	if err != nil {
		return err
	}
	if !exists {
		return domain.NewNotFound(name)
	}
	return nil
}
