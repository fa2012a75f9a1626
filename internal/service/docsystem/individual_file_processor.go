package docsystem

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"cms/internal/domain/models"
	docsystem "cms/internal/domain/models/docsystem"
	docsysRepo "cms/internal/domain/repositories/docsystem"
	docsysSvc "cms/internal/domain/services/docsystem"
)

// individualFileProcessor imports a single .txt, .md, .png or .jpg file
type individualFileProcessor struct {
	entryImporter
	maxBytes int64
}

// NewIndividualFileProcessor creates a new individual file processor
func NewIndividualFileProcessor(
	fileRepo docsysRepo.FileRepository,
	docService docsysSvc.DocumentService,
	maxBytes int64,
	logger *slog.Logger,
) docsysSvc.FileProcessor {
	return &individualFileProcessor{
		entryImporter: entryImporter{fileRepo: fileRepo, docService: docService, logger: logger},
		maxBytes:      maxBytes,
	}
}

// CanProcess returns true for every extension the store accepts
func (p *individualFileProcessor) CanProcess(filename string) bool {
	return docsystem.KindOf(filename) != docsystem.KindUnknown
}

// Process imports the file under its own base name
func (p *individualFileProcessor) Process(
	ctx context.Context,
	sess *models.Session,
	file io.Reader,
	filename string,
	overwrite bool,
	result *docsysSvc.ImportResult,
) error {
	content, err := readLimited(file, p.maxBytes)
	if err != nil {
		result.Summary.TotalFiles++
		p.addError(result, filename, fmt.Sprintf("failed to read file: %v", err))
		return nil // keep the batch going
	}

	p.importEntry(ctx, sess, filename, content, overwrite, result)
	return nil
}

// Name returns the processor name
func (p *individualFileProcessor) Name() string {
	return "IndividualFileProcessor"
}

// readLimited reads r fully, failing once more than limit bytes arrive
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("file exceeds %d bytes", limit)
	}
	return data, nil
}
