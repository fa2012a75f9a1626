package docsystem

import "path/filepath"

// ContentKind classifies a stored file by its extension
type ContentKind string

const (
	KindText     ContentKind = "text"
	KindMarkdown ContentKind = "markdown"
	KindImage    ContentKind = "image"
	KindUnknown  ContentKind = ""
)

// NameKind selects which extension set a new name is validated against
type NameKind string

const (
	NameKindText  NameKind = "text"
	NameKindImage NameKind = "image"
)

// Allowed extensions per name kind, in the order they are reported to users
var (
	TextExtensions  = []string{".txt", ".md"}
	ImageExtensions = []string{".png", ".jpg"}
)

// Extensions returns the allowed extension set for the kind
func (k NameKind) Extensions() []string {
	if k == NameKindImage {
		return ImageExtensions
	}
	return TextExtensions
}

// KindOf derives the content kind from a filename's extension
func KindOf(name string) ContentKind {
	switch filepath.Ext(name) {
	case ".txt":
		return KindText
	case ".md":
		return KindMarkdown
	case ".png", ".jpg":
		return KindImage
	default:
		return KindUnknown
	}
}

// NameKind returns the extension set a content kind belongs to
func (k ContentKind) NameKind() NameKind {
	if k == KindImage {
		return NameKindImage
	}
	return NameKindText
}

// Versioned reports whether writes of this kind are snapshotted
func (k ContentKind) Versioned() bool {
	return k == KindText || k == KindMarkdown
}

// Document is a stored file with its raw content
type Document struct {
	Name      string      `json:"filename"`
	Kind      ContentKind `json:"kind"`
	Content   string      `json:"content"`
	WordCount int         `json:"word_count"`
}

// RenderedContent is what a view returns: bytes plus a content-type hint
type RenderedContent struct {
	Name        string
	Kind        ContentKind
	ContentType string
	Body        []byte
}
