// Package readability extracts the main article from web pages.
package readability

import (
	"strings"

	"github.com/go-shiori/go-readability"
	"github.com/remarkablejames/richtext"
)

// Ensure Extractor implements richtext.Extractor at compile time.
var _ richtext.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the article found in rawHTML. Returns EINVALID for empty
// input and ENOTFOUND when the page has no readable content.
func (e *Extractor) Extract(rawHTML string) (*richtext.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, richtext.Errorf(richtext.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, richtext.Errorf(richtext.EINVALID, "parse page: %s", err)
	}
	if strings.TrimSpace(article.TextContent) == "" {
		return nil, richtext.Errorf(richtext.ENOTFOUND, "no article content found")
	}

	return &richtext.ExtractResult{
		Title:       strings.TrimSpace(article.Title),
		ContentHTML: article.Content,
	}, nil
}
