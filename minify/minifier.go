// Package minify implements richtext.Minifier using tdewolff/minify.
package minify

import (
	"github.com/remarkablejames/richtext"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/html"
)

const mediaType = "text/html"

// Ensure Minifier implements richtext.Minifier at compile time.
var _ richtext.Minifier = (*Minifier)(nil)

// Minifier compacts rendered HTML fragments.
type Minifier struct {
	m *minify.M
}

// NewMinifier creates a Minifier. Attribute quotes and optional end tags are
// kept so the output stays readable by strict HTML consumers.
func NewMinifier() *Minifier {
	m := minify.New()
	m.Add(mediaType, &html.Minifier{
		KeepEndTags:      true,
		KeepQuotes:       true,
		KeepDocumentTags: true,
	})
	return &Minifier{m: m}
}

// Minify returns the minified form of src.
func (m *Minifier) Minify(src string) (string, error) {
	if src == "" {
		return "", nil
	}
	out, err := m.m.String(mediaType, src)
	if err != nil {
		return "", richtext.Errorf(richtext.EINVALID, "minify html: %v", err)
	}
	return out, nil
}
