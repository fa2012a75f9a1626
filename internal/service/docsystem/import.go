package docsystem

import (
	"context"
	"fmt"
	"log/slog"

	"cms/internal/domain/models"
	docsysRepo "cms/internal/domain/repositories/docsystem"
	"cms/internal/domain/services"
	docsysSvc "cms/internal/domain/services/docsystem"
)

// importService implements the ImportService interface
type importService struct {
	registry *FileProcessorRegistry
	gate     services.AccessGate
	logger   *slog.Logger
}

// NewImportService creates a new import service
func NewImportService(
	registry *FileProcessorRegistry,
	gate services.AccessGate,
	logger *slog.Logger,
) docsysSvc.ImportService {
	return &importService{
		registry: registry,
		gate:     gate,
		logger:   logger,
	}
}

// ProcessFiles routes each file to its processor and aggregates the results
func (s *importService) ProcessFiles(ctx context.Context, sess *models.Session, files []docsysSvc.UploadedFile, overwrite bool) (*docsysSvc.ImportResult, error) {
	if err := s.gate.Require(sess); err != nil {
		return nil, err
	}

	result := &docsysSvc.ImportResult{
		Errors:    []docsysSvc.ImportError{},
		Documents: []docsysSvc.ImportDocument{},
	}

	for _, f := range files {
		processor := s.registry.GetProcessor(f.Filename)
		if processor == nil {
			s.logger.Debug("skipping unsupported upload", "file", f.Filename)
			result.Summary.TotalFiles++
			result.Summary.Skipped++
			result.Documents = append(result.Documents, docsysSvc.ImportDocument{
				Source: f.Filename,
				Name:   f.Filename,
				Action: docsysSvc.ImportActionSkipped,
			})
			continue
		}

		s.logger.Debug("processing upload", "file", f.Filename, "processor", processor.Name())
		if err := processor.Process(ctx, sess, f.Content, f.Filename, overwrite, result); err != nil {
			result.Summary.TotalFiles++
			result.Summary.Failed++
			result.Errors = append(result.Errors, docsysSvc.ImportError{
				File:  f.Filename,
				Error: err.Error(),
			})
		}
	}

	s.logger.Info("import complete",
		"user", sess.Username,
		"created", result.Summary.Created,
		"updated", result.Summary.Updated,
		"skipped", result.Summary.Skipped,
		"failed", result.Summary.Failed,
	)

	sess.SetMessage(fmt.Sprintf("Imported %d of %d files.",
		result.Summary.Created+result.Summary.Updated, result.Summary.TotalFiles))
	return result, nil
}

// NewDefaultImportService wires the zip and individual processors in routing order
func NewDefaultImportService(
	fileRepo docsysRepo.FileRepository,
	docService docsysSvc.DocumentService,
	gate services.AccessGate,
	maxBytes int64,
	logger *slog.Logger,
) docsysSvc.ImportService {
	registry := NewFileProcessorRegistry(
		NewZipFileProcessor(fileRepo, docService, maxBytes, logger),
		NewIndividualFileProcessor(fileRepo, docService, maxBytes, logger),
	)
	logger.Debug("import processors registered", "processors", registry.String())
	return NewImportService(registry, gate, logger)
}
