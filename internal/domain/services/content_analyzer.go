package services

import "cms/internal/domain/models/docsystem"

// ContentAnalyzer handles content analysis operations
type ContentAnalyzer interface {
	// CountWords counts words in content of the given kind
	CountWords(content string, kind docsystem.ContentKind) int

	// PlainText strips markdown syntax, keeping only readable text
	PlainText(markdown string) string
}
