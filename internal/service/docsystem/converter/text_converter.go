package converter

import (
	"context"

	docsysSvc "cms/internal/domain/services/docsystem"
)

// textRenderer serves plain text unchanged.
type textRenderer struct{}

// NewTextRenderer creates a new text renderer.
func NewTextRenderer() docsysSvc.ContentRenderer {
	return &textRenderer{}
}

func (r *textRenderer) Render(ctx context.Context, input []byte) ([]byte, error) {
	return input, nil
}

func (r *textRenderer) ContentType(ext string) string {
	return "text/plain; charset=utf-8"
}

func (r *textRenderer) SupportedExtensions() []string {
	return []string{".txt"}
}

func (r *textRenderer) Name() string {
	return "plaintext"
}
