package docsystem

import (
	"context"
	"fmt"
	"log/slog"
	"path"

	"cms/internal/domain/models"
	docsystem "cms/internal/domain/models/docsystem"
	docsysRepo "cms/internal/domain/repositories/docsystem"
	docsysSvc "cms/internal/domain/services/docsystem"
)

// entryImporter stores one imported file through the document service, so
// imported names get the same validation, snapshots and access check as
// files created one at a time.
type entryImporter struct {
	fileRepo   docsysRepo.FileRepository
	docService docsysSvc.DocumentService
	logger     *slog.Logger
}

// importEntry creates, updates or skips source. The store is flat, so only
// the base name of a nested entry is used.
func (im *entryImporter) importEntry(
	ctx context.Context,
	sess *models.Session,
	source string,
	content []byte,
	overwrite bool,
	result *docsysSvc.ImportResult,
) {
	result.Summary.TotalFiles++

	name := path.Base(source)
	kind := docsystem.KindOf(name)
	if kind == docsystem.KindUnknown {
		im.logger.Debug("skipping unsupported file type", "file", source)
		im.addSkipped(result, source, name)
		return
	}

	exists, err := im.fileRepo.Exists(ctx, name)
	if err != nil {
		im.addError(result, source, fmt.Sprintf("failed to check for existing document: %v", err))
		return
	}

	if exists {
		if !overwrite {
			im.addSkipped(result, source, name)
			return
		}
		if err := im.docService.UpdateDocument(ctx, sess, name, string(content)); err != nil {
			im.addError(result, source, err.Error())
			return
		}
		result.Summary.Updated++
		result.Documents = append(result.Documents, docsysSvc.ImportDocument{
			Source: source,
			Name:   name,
			Action: docsysSvc.ImportActionUpdated,
		})
		return
	}

	if kind.NameKind() == docsystem.NameKindImage {
		err = im.docService.UploadImage(ctx, sess, &docsysSvc.UploadImageRequest{Name: name, Content: content})
	} else {
		err = im.docService.CreateDocument(ctx, sess, &docsysSvc.CreateDocumentRequest{Name: name, Content: string(content)})
	}
	if err != nil {
		im.addError(result, source, err.Error())
		return
	}

	result.Summary.Created++
	result.Documents = append(result.Documents, docsysSvc.ImportDocument{
		Source: source,
		Name:   name,
		Action: docsysSvc.ImportActionCreated,
	})
}

func (im *entryImporter) addSkipped(result *docsysSvc.ImportResult, source, name string) {
	result.Summary.Skipped++
	result.Documents = append(result.Documents, docsysSvc.ImportDocument{
		Source: source,
		Name:   name,
		Action: docsysSvc.ImportActionSkipped,
	})
}

func (im *entryImporter) addError(result *docsysSvc.ImportResult, file string, errorMsg string) {
	result.Summary.Failed++
	result.Errors = append(result.Errors, docsysSvc.ImportError{
		File:  file,
		Error: errorMsg,
	})
	im.logger.Warn("import entry failed", "file", file, "error", errorMsg)
}
