package sanitizer

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/fastygo/degreeprogram/domain"
)

// HTMLSanitizer keeps the small set of elements the catalog renders and
// strips everything else from content fields.
type HTMLSanitizer struct {
	policy *bluemonday.Policy
}

func New() *HTMLSanitizer {
	return &HTMLSanitizer{policy: contentPolicy()}
}

func contentPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()

	p.AllowElements(
		"cite", "br", "p", "strong",
		"ul", "ol", "li", "dl", "dd", "dt",
		"h3", "h4", "h5",
	)
	p.AllowAttrs("title", "src", "alt", "srcset", "sizes").OnElements("img")
	p.AllowAttrs("title", "src", "alt").OnElements("picture", "figure")
	p.AllowElements("picture", "figure")
	p.AllowAttrs("title", "href", "target").OnElements("a")
	p.AllowAttrs("class").OnElements("blockquote")
	p.AllowElements("blockquote")

	p.AllowStandardURLs()
	p.RequireParseableURLs(true)
	p.AllowURLSchemes("http", "https", "mailto", "tel")
	p.RequireNoFollowOnLinks(false)

	return p
}

// SanitizeContentField cleans HTML content. Surrounding whitespace is trimmed.
func (s *HTMLSanitizer) SanitizeContentField(content string) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}
	return strings.TrimSpace(s.policy.Sanitize(content))
}

var _ domain.Sanitizer = (*HTMLSanitizer)(nil)
