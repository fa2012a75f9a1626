package docsystem

import (
	"strings"
	"testing"

	models "cms/internal/domain/models/docsystem"
)

func TestContentAnalyzer_CountWords(t *testing.T) {
	a := NewContentAnalyzer()

	tests := []struct {
		name    string
		content string
		kind    models.ContentKind
		want    int
	}{
		{"empty", "", models.KindText, 0},
		{"plain text", "one two  three\nfour", models.KindText, 4},
		{"text keeps symbols", "# not a heading", models.KindText, 4},
		{"heading", "# Hello world", models.KindMarkdown, 2},
		{"emphasis", "some **bold** and _italic_", models.KindMarkdown, 4},
		{"list", "- one\n- two\n- three", models.KindMarkdown, 3},
		{"code block skipped", "before\n\n```\nlots of code here\n```\n\nafter", models.KindMarkdown, 2},
		{"link text counted", "see [the docs](https://example.com)", models.KindMarkdown, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.CountWords(tt.content, tt.kind); got != tt.want {
				t.Errorf("CountWords(%q) = %d, want %d", tt.content, got, tt.want)
			}
		})
	}
}

func TestContentAnalyzer_PlainText(t *testing.T) {
	a := NewContentAnalyzer()

	got := strings.Join(strings.Fields(a.PlainText("# Title\n\nA *short* paragraph.")), " ")
	if got != "Title A short paragraph." {
		t.Errorf("PlainText() = %q", got)
	}
}
