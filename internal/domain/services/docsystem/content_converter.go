package docsystem

import "context"

// ContentRenderer turns stored bytes into a response body.
// Each renderer handles a set of extensions (markdown, text, image).
//
// Implementations should be stateless and thread-safe.
type ContentRenderer interface {
	// Render transforms stored content into the body served to clients
	Render(ctx context.Context, input []byte) ([]byte, error)

	// ContentType returns the content-type hint for a handled extension
	ContentType(ext string) string

	// SupportedExtensions returns file extensions this renderer handles.
	// Extensions include the leading dot (e.g., [".md"]).
	SupportedExtensions() []string

	// Name returns a human-readable renderer name for logging/debugging.
	Name() string
}
