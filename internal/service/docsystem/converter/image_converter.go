package converter

import (
	"context"

	docsysSvc "cms/internal/domain/services/docsystem"
)

// imageRenderer serves image bytes unchanged with an image content type.
type imageRenderer struct{}

// NewImageRenderer creates a new image renderer.
func NewImageRenderer() docsysSvc.ContentRenderer {
	return &imageRenderer{}
}

func (r *imageRenderer) Render(ctx context.Context, input []byte) ([]byte, error) {
	return input, nil
}

func (r *imageRenderer) ContentType(ext string) string {
	if ext == ".png" {
		return "image/png"
	}
	return "image/jpeg"
}

func (r *imageRenderer) SupportedExtensions() []string {
	return []string{".png", ".jpg"}
}

func (r *imageRenderer) Name() string {
	return "image"
}
