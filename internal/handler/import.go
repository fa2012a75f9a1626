package handler

import (
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"

	docsysSvc "cms/internal/domain/services/docsystem"
	"cms/internal/httputil"
)

// ImportHandler handles bulk import HTTP requests
type ImportHandler struct {
	importService docsysSvc.ImportService
	maxUpload     int64
	logger        *slog.Logger
}

// NewImportHandler creates a new import handler
func NewImportHandler(importService docsysSvc.ImportService, maxUpload int64, logger *slog.Logger) *ImportHandler {
	return &ImportHandler{
		importService: importService,
		maxUpload:     maxUpload,
		logger:        logger,
	}
}

// ImportResponse represents the response for import operations
type ImportResponse struct {
	Success   bool                       `json:"success"`
	Summary   docsysSvc.ImportSummary    `json:"summary"`
	Errors    []docsysSvc.ImportError    `json:"errors"`
	Documents []docsysSvc.ImportDocument `json:"documents"`
}

// Import creates documents from uploaded files or zip archives.
// POST /import
//
// Form fields:
//   - files: one or more .zip, .txt, .md, .png or .jpg files
//   - overwrite: optional, if true updates existing documents
func (h *ImportHandler) Import(w http.ResponseWriter, r *http.Request) {
	if err := httputil.ParseForm(w, r, h.maxUpload); err != nil {
		handleFormError(w, err)
		return
	}

	var files []*multipart.FileHeader
	if r.MultipartForm != nil {
		files = r.MultipartForm.File["files"]
	}

	overwrite := httputil.FormBool(r, "overwrite")
	h.logger.Info("starting import",
		"file_count", len(files),
		"overwrite", overwrite,
	)

	// Files are opened up front and closed once ProcessFiles returns
	uploadedFiles := make([]docsysSvc.UploadedFile, 0, len(files))
	for _, fileHeader := range files {
		file, err := fileHeader.Open()
		if err != nil {
			h.logger.Error("failed to open uploaded file",
				"file", fileHeader.Filename,
				"error", err,
			)
			httputil.RespondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to open file %s", fileHeader.Filename))
			return
		}
		defer func() { _ = file.Close() }()

		uploadedFiles = append(uploadedFiles, docsysSvc.UploadedFile{
			Filename: fileHeader.Filename,
			Content:  file,
		})
	}

	result, err := h.importService.ProcessFiles(r.Context(), httputil.GetSession(r), uploadedFiles, overwrite)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, ImportResponse{
		Success:   result.Summary.Failed == 0,
		Summary:   result.Summary,
		Errors:    result.Errors,
		Documents: result.Documents,
	})
}
