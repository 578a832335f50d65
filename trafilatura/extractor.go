// Package trafilatura extracts the main content of web pages with
// go-trafilatura.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/markusmobius/go-trafilatura"
	"github.com/remarkablejames/richtext"
	"golang.org/x/net/html"
)

// Ensure Extractor implements richtext.Extractor at compile time.
var _ richtext.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the main content of rawHTML. Returns EINVALID for empty
// input and ENOTFOUND when nothing readable remains.
func (e *Extractor) Extract(rawHTML string) (*richtext.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, richtext.Errorf(richtext.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, richtext.Errorf(richtext.ENOTFOUND, "no article content found: %s", err)
	}
	if result.ContentNode == nil || strings.TrimSpace(result.ContentText) == "" {
		return nil, richtext.Errorf(richtext.ENOTFOUND, "no article content found")
	}

	contentHTML, err := renderNode(result.ContentNode)
	if err != nil {
		return nil, err
	}

	return &richtext.ExtractResult{
		Title:       strings.TrimSpace(result.Metadata.Title),
		ContentHTML: contentHTML,
	}, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
