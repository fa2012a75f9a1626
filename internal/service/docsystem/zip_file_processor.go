package docsystem

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"cms/internal/domain/models"
	docsysRepo "cms/internal/domain/repositories/docsystem"
	docsysSvc "cms/internal/domain/services/docsystem"
)

// zipFileProcessor imports every supported entry of a zip archive.
// Entries are flattened to their base names; unsupported entries are skipped.
type zipFileProcessor struct {
	entryImporter
	maxBytes int64
}

// NewZipFileProcessor creates a new zip file processor. maxBytes bounds
// both the archive and each uncompressed entry.
func NewZipFileProcessor(
	fileRepo docsysRepo.FileRepository,
	docService docsysSvc.DocumentService,
	maxBytes int64,
	logger *slog.Logger,
) docsysSvc.FileProcessor {
	return &zipFileProcessor{
		entryImporter: entryImporter{fileRepo: fileRepo, docService: docService, logger: logger},
		maxBytes:      maxBytes,
	}
}

// CanProcess returns true for .zip files
func (p *zipFileProcessor) CanProcess(filename string) bool {
	return strings.ToLower(filepath.Ext(filename)) == ".zip"
}

// Process extracts and imports documents from a zip file
func (p *zipFileProcessor) Process(
	ctx context.Context,
	sess *models.Session,
	file io.Reader,
	filename string,
	overwrite bool,
	result *docsysSvc.ImportResult,
) error {
	zipData, err := readLimited(file, p.maxBytes)
	if err != nil {
		return fmt.Errorf("failed to read zip file: %w", err)
	}

	zipFile, err := zip.NewReader(bytes.NewReader(zipData), int64(len(zipData)))
	if err != nil {
		return fmt.Errorf("failed to open zip file: %w", err)
	}

	for _, entry := range zipFile.File {
		if entry.FileInfo().IsDir() {
			continue
		}
		p.processZipEntry(ctx, sess, entry, overwrite, result)
	}

	p.logger.Info("zip file processing complete",
		"filename", filename,
		"created", result.Summary.Created,
		"updated", result.Summary.Updated,
		"skipped", result.Summary.Skipped,
		"failed", result.Summary.Failed,
		"total_files", result.Summary.TotalFiles,
	)
	return nil
}

// Name returns the processor name
func (p *zipFileProcessor) Name() string {
	return "ZipFileProcessor"
}

func (p *zipFileProcessor) processZipEntry(
	ctx context.Context,
	sess *models.Session,
	entry *zip.File,
	overwrite bool,
	result *docsysSvc.ImportResult,
) {
	rc, err := entry.Open()
	if err != nil {
		result.Summary.TotalFiles++
		p.addError(result, entry.Name, fmt.Sprintf("failed to open file: %v", err))
		return
	}
	defer rc.Close()

	content, err := readLimited(rc, p.maxBytes)
	if err != nil {
		result.Summary.TotalFiles++
		p.addError(result, entry.Name, fmt.Sprintf("failed to read file: %v", err))
		return
	}

	p.importEntry(ctx, sess, entry.Name, content, overwrite, result)
}
