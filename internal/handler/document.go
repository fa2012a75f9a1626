package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"cms/internal/domain"
	docsystem "cms/internal/domain/models/docsystem"
	docsysSvc "cms/internal/domain/services/docsystem"
	"cms/internal/httputil"
)

// DocumentHandler handles document HTTP requests
type DocumentHandler struct {
	docService docsysSvc.DocumentService
	maxUpload  int64
	logger     *slog.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(docService docsysSvc.DocumentService, maxUpload int64, logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{
		docService: docService,
		maxUpload:  maxUpload,
		logger:     logger,
	}
}

// ListResponse is the view data of the listing page
type ListResponse struct {
	Files    []string `json:"files"`
	Message  string   `json:"message,omitempty"`
	Username string   `json:"username,omitempty"`
}

// HistoryResponse lists the snapshots of one document
type HistoryResponse struct {
	Filename string   `json:"filename"`
	Versions []string `json:"versions"`
}

// HealthCheck returns server health status
// GET /health
func (h *DocumentHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// ListDocuments returns the listing and consumes the pending message
// GET /
func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	files, err := h.docService.ListDocuments(r.Context())
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	sess := httputil.GetSession(r)
	httputil.RespondJSON(w, http.StatusOK, ListResponse{
		Files:    files,
		Message:  sess.ConsumeMessage(),
		Username: sess.Username,
	})
}

// ViewDocument serves a document rendered by its extension
// GET /{filename}
func (h *DocumentHandler) ViewDocument(w http.ResponseWriter, r *http.Request) {
	rendered, err := h.docService.ViewDocument(r.Context(), r.PathValue("filename"))
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondContent(w, rendered.ContentType, rendered.Body)
}

// GetDocument returns raw content for the edit form
// GET /{filename}/edit
func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := h.docService.GetDocument(r.Context(), r.PathValue("filename"))
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, doc)
}

// ListVersions returns the snapshots of a document, deleted or not
// GET /{filename}/history
func (h *DocumentHandler) ListVersions(w http.ResponseWriter, r *http.Request) {
	filename := r.PathValue("filename")
	versions, err := h.docService.ListVersions(r.Context(), filename)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, HistoryResponse{Filename: filename, Versions: versions})
}

// ViewVersion serves one snapshot of a document
// GET /{filename}/history/{snapshot}
func (h *DocumentHandler) ViewVersion(w http.ResponseWriter, r *http.Request) {
	snapshot := r.PathValue("snapshot")
	if !docsystem.ParseFileName(snapshot).SnapshotOf(r.PathValue("filename")) {
		handleError(w, r, h.logger, domain.NewNotFound(snapshot))
		return
	}

	rendered, err := h.docService.ViewVersion(r.Context(), snapshot)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondContent(w, rendered.ContentType, rendered.Body)
}

// CreateDocument creates a text document from the new-document form
// POST /new
func (h *DocumentHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	if err := httputil.ParseForm(w, r, h.maxUpload); err != nil {
		handleFormError(w, err)
		return
	}

	req := &docsysSvc.CreateDocumentRequest{
		Name:    r.FormValue("new_document"),
		Content: r.FormValue("content"),
	}
	if err := h.docService.CreateDocument(r.Context(), httputil.GetSession(r), req); err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.Redirect(w, r, "/")
}

// UploadImage stores an uploaded image. The optional "name" field renames it.
// POST /upload
func (h *DocumentHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	if err := httputil.ParseForm(w, r, h.maxUpload); err != nil {
		handleFormError(w, err)
		return
	}

	// A missing file falls through as an empty name so the service reports
	// sign-in and name problems in its usual order
	filename, content, err := httputil.FormFile(r, "image")
	if err != nil && !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
		handleFormError(w, err)
		return
	}
	if name := r.FormValue("name"); name != "" {
		filename = name
	}

	req := &docsysSvc.UploadImageRequest{Name: filename, Content: content}
	if err := h.docService.UploadImage(r.Context(), httputil.GetSession(r), req); err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.Redirect(w, r, "/")
}

// UpdateDocument replaces a document's content
// POST /{filename}
func (h *DocumentHandler) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	if err := httputil.ParseForm(w, r, h.maxUpload); err != nil {
		handleFormError(w, err)
		return
	}

	err := h.docService.UpdateDocument(r.Context(), httputil.GetSession(r), r.PathValue("filename"), r.FormValue("new_content"))
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.Redirect(w, r, "/")
}

// DeleteDocument removes a document, keeping its history
// POST /{filename}/delete
func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := h.docService.DeleteDocument(r.Context(), httputil.GetSession(r), r.PathValue("filename")); err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.Redirect(w, r, "/")
}

// DuplicateDocument copies a document to the next free name
// POST /{filename}/duplicate
func (h *DocumentHandler) DuplicateDocument(w http.ResponseWriter, r *http.Request) {
	if _, err := h.docService.DuplicateDocument(r.Context(), httputil.GetSession(r), r.PathValue("filename")); err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.Redirect(w, r, "/")
}
