package converter

import (
	"bytes"
	"context"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	docsysSvc "cms/internal/domain/services/docsystem"
	"cms/internal/service/docsystem/converter/sanitizer"
)

// markdownRenderer converts markdown to HTML in two stages:
// 1. Render markdown with goldmark (GFM tables, strikethrough, autolinks)
// 2. Sanitize the HTML so raw HTML in documents cannot inject scripts
type markdownRenderer struct {
	md        goldmark.Markdown
	sanitizer *sanitizer.HTMLSanitizer
}

// NewMarkdownRenderer creates the markdown to HTML renderer.
func NewMarkdownRenderer() docsysSvc.ContentRenderer {
	return &markdownRenderer{
		md:        goldmark.New(goldmark.WithExtensions(extension.GFM)),
		sanitizer: sanitizer.NewHTMLSanitizer(),
	}
}

func (r *markdownRenderer) Render(ctx context.Context, input []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(input, &buf); err != nil {
		return nil, fmt.Errorf("failed to render markdown: %w", err)
	}

	return r.sanitizer.Sanitize(buf.Bytes()), nil
}

func (r *markdownRenderer) ContentType(ext string) string {
	return "text/html; charset=utf-8"
}

func (r *markdownRenderer) SupportedExtensions() []string {
	return []string{".md"}
}

func (r *markdownRenderer) Name() string {
	return "markdown"
}
