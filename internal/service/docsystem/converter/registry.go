package converter

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	models "cms/internal/domain/models/docsystem"
	docsysSvc "cms/internal/domain/services/docsystem"
)

// RendererRegistry routes stored files to a renderer by extension.
//
// Thread-safe for concurrent access.
type RendererRegistry struct {
	mu        sync.RWMutex
	renderers map[string]docsysSvc.ContentRenderer // key: file extension (e.g., ".md")
	logger    *slog.Logger
}

// NewRendererRegistry creates a registry with the standard renderers pre-registered.
func NewRendererRegistry(logger *slog.Logger) *RendererRegistry {
	registry := &RendererRegistry{
		renderers: make(map[string]docsysSvc.ContentRenderer),
		logger:    logger,
	}

	registry.Register(NewMarkdownRenderer())
	registry.Register(NewTextRenderer())
	registry.Register(NewImageRenderer())

	return registry
}

// Register associates a renderer with its supported extensions.
// Extensions are matched exactly, the same way names are validated.
func (r *RendererRegistry) Register(renderer docsysSvc.ContentRenderer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ext := range renderer.SupportedExtensions() {
		r.renderers[ext] = renderer
	}
}

// GetRenderer retrieves the renderer for an extension, nil if none.
func (r *RendererRegistry) GetRenderer(ext string) docsysSvc.ContentRenderer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.renderers[ext]
}

// Render picks the renderer for filename's extension and runs it.
func (r *RendererRegistry) Render(ctx context.Context, filename string, content []byte) (*models.RenderedContent, error) {
	ext := filepath.Ext(filename)
	renderer := r.GetRenderer(ext)
	if renderer == nil {
		return nil, fmt.Errorf("unsupported file type: %q", ext)
	}

	body, err := renderer.Render(ctx, content)
	if err != nil {
		return nil, fmt.Errorf("render %q with %s: %w", filename, renderer.Name(), err)
	}

	r.logger.Debug("content rendered", "name", filename, "renderer", renderer.Name(), "bytes", len(body))

	return &models.RenderedContent{
		Name:        filename,
		Kind:        models.KindOf(filename),
		ContentType: renderer.ContentType(ext),
		Body:        body,
	}, nil
}
