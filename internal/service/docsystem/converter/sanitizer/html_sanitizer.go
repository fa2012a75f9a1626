package sanitizer

import (
	"github.com/microcosm-cc/bluemonday"
)

// HTMLSanitizer strips rendered documents down to user-generated-content
// markup. Thread-safe for concurrent use.
type HTMLSanitizer struct {
	policy *bluemonday.Policy
}

// NewHTMLSanitizer builds the document policy on top of bluemonday's UGC
// policy. External links open in a new tab and never send a referrer.
func NewHTMLSanitizer() *HTMLSanitizer {
	p := bluemonday.UGCPolicy()
	p.RequireNoReferrerOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return &HTMLSanitizer{policy: p}
}

// Sanitize returns html with scripts, event handlers and unsafe URLs removed
func (s *HTMLSanitizer) Sanitize(html []byte) []byte {
	return s.policy.SanitizeBytes(html)
}
