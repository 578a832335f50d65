// Package bluemonday implements richtext.Sanitizer using an allowlist policy.
package bluemonday

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
	"github.com/remarkablejames/richtext"
)

// Ensure Sanitizer implements richtext.Sanitizer at compile time.
var _ richtext.Sanitizer = (*Sanitizer)(nil)

var (
	colorRegexp      = regexp.MustCompile(`^(#(?:[0-9a-fA-F]{3,4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})|rgb\((\d+),\s*(\d+),\s*(\d+)\)|inherit)$`)
	sizeRegexp       = regexp.MustCompile(`^(\d+(\.\d+)?(px|em|rem|pt|%)?|normal|inherit)$`)
	digitsRegexp     = regexp.MustCompile(`^\d+$`)
	dirRegexp        = regexp.MustCompile(`^(ltr|rtl|auto)$`)
	booleanRegexp    = regexp.MustCompile(`^(true|false)$`)
	languageRegexp   = regexp.MustCompile(`^language-[\w+#-]+$`)
	nodeTypeRegexp   = regexp.MustCompile(`^[a-zA-Z][\w-]*$`)
	linkTargetRegexp = regexp.MustCompile(`^_blank$`)
)

// Sanitizer removes markup that is unsafe to serve to readers while keeping
// everything the HTML renderer emits.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer creates a Sanitizer based on bluemonday's UGC policy,
// extended with the editor's attributes.
func NewSanitizer() *Sanitizer {
	p := bluemonday.UGCPolicy()

	p.AllowAttrs("data-paywall").Matching(booleanRegexp).OnElements("hr")
	p.AllowAttrs("data-type").Matching(nodeTypeRegexp).OnElements("div", "ul", "li")
	p.AllowAttrs("data-checked").Matching(booleanRegexp).OnElements("li")
	p.AllowAttrs("data-indent").Matching(digitsRegexp).Globally()
	p.AllowAttrs("dir").Matching(dirRegexp).Globally()
	p.AllowAttrs("start").Matching(digitsRegexp).OnElements("ol")
	p.AllowAttrs("class").Matching(languageRegexp).OnElements("code")
	p.AllowAttrs("data-color").Matching(colorRegexp).OnElements("mark")
	p.AllowAttrs("target").Matching(linkTargetRegexp).OnElements("a")
	p.AllowAttrs("width").Matching(digitsRegexp).OnElements("img")

	p.AllowStyles("text-align").Matching(bluemonday.CellAlign).Globally()
	p.AllowStyles("line-height", "font-size").Matching(sizeRegexp).Globally()
	p.AllowStyles("color", "background-color").Matching(colorRegexp).Globally()

	p.RequireNoReferrerOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(false)

	return &Sanitizer{policy: p}
}

// Sanitize returns html with disallowed elements and attributes removed.
func (s *Sanitizer) Sanitize(html string) string {
	if html == "" {
		return ""
	}
	return s.policy.Sanitize(html)
}
