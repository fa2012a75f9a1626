package docsystem

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	models "cms/internal/domain/models/docsystem"
	"cms/internal/domain/services"
)

type contentAnalyzerService struct {
	md goldmark.Markdown
}

// NewContentAnalyzer creates a new content analyzer service
func NewContentAnalyzer() services.ContentAnalyzer {
	return &contentAnalyzerService{md: goldmark.New()}
}

// CountWords counts whitespace-separated words. Markdown is reduced to its
// text first so markup and code blocks are not counted.
func (s *contentAnalyzerService) CountWords(content string, kind models.ContentKind) int {
	if kind == models.KindMarkdown {
		content = s.PlainText(content)
	}
	return len(strings.Fields(content))
}

// PlainText walks the markdown AST and joins its text segments
func (s *contentAnalyzerService) PlainText(markdown string) string {
	source := []byte(markdown)
	doc := s.md.Parser().Parse(text.NewReader(source))

	var buf bytes.Buffer
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			buf.Write(node.Segment.Value(source))
			if node.SoftLineBreak() || node.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(node.Value)
		}
		if n.Type() == ast.TypeBlock && n.Kind() != ast.KindDocument {
			buf.WriteByte(' ')
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(buf.String())
}
