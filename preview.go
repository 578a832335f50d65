package richtext

import (
	"encoding/json"
	"strings"
)

// Format names an output representation of a document.
type Format string

// Supported output formats.
const (
	FormatJSON     Format = "json"
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
)

// ParseFormat returns the format named s. An empty name means FormatJSON.
// Returns EINVALID for unknown names.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatJSON, nil
	case FormatJSON, FormatHTML, FormatMarkdown, FormatText:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	case "txt":
		return FormatText, nil
	}
	return "", Errorf(EINVALID, "unsupported format %q", s)
}

// Previewer produces the public and subscriber renditions of documents.
type Previewer struct {
	Processor PaywallProcessor
	Renderer  Renderer

	// Optional post-processing of rendered HTML.
	Sanitizer Sanitizer
	Minifier  Minifier

	// Converter is required for FormatMarkdown.
	Converter Converter
}

// Preview returns doc as seen by readers without a subscription: truncated
// at the paywall separator and followed by the membership prompt.
func (p *Previewer) Preview(doc *Document, format Format) (string, error) {
	processed, err := p.Processor.Process(doc)
	if err != nil {
		return "", err
	}
	return p.encode(processed, format)
}

// Full returns doc as seen by subscribers: complete, without separators.
func (p *Previewer) Full(doc *Document, format Format) (string, error) {
	full, err := RemovePaywallSeparators(doc)
	if err != nil {
		return "", err
	}
	return p.encode(full, format)
}

// Export returns doc unchanged in the given format. Paywall separators are
// kept, as an <hr data-paywall="true"> in HTML and as PaywallComment in
// Markdown, so the output can be imported again with the paywall in place.
func (p *Previewer) Export(doc *Document, format Format) (string, error) {
	if err := doc.Validate(); err != nil {
		return "", err
	}
	return p.encode(doc, format)
}

func (p *Previewer) encode(doc *Document, format Format) (string, error) {
	switch format {
	case FormatJSON:
		b, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return "", err
		}
		return string(b), nil
	case FormatText:
		return PlainText(doc.Content), nil
	case FormatHTML:
		html, err := p.html(doc)
		if err != nil {
			return "", err
		}
		if p.Minifier == nil {
			return html, nil
		}
		return p.Minifier.Minify(html)
	case FormatMarkdown:
		if p.Converter == nil {
			return "", Errorf(EINTERNAL, "markdown output not configured")
		}
		html, err := p.html(doc)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(html) == "" {
			return "", nil
		}
		return p.Converter.Convert(html)
	}
	return "", Errorf(EINVALID, "unsupported format %q", format)
}

func (p *Previewer) html(doc *Document) (string, error) {
	html, err := p.Renderer.Render(doc)
	if err != nil {
		return "", err
	}
	if p.Sanitizer != nil {
		html = p.Sanitizer.Sanitize(html)
	}
	return html, nil
}
