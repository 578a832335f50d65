package richtext_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/remarkablejames/richtext"
	"github.com/remarkablejames/richtext/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	t.Parallel()

	for input, want := range map[string]richtext.Format{
		"":         richtext.FormatJSON,
		"JSON":     richtext.FormatJSON,
		"html":     richtext.FormatHTML,
		"md":       richtext.FormatMarkdown,
		"markdown": richtext.FormatMarkdown,
		" text ":   richtext.FormatText,
		"txt":      richtext.FormatText,
	} {
		got, err := richtext.ParseFormat(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := richtext.ParseFormat("pdf")
	assert.Equal(t, richtext.EINVALID, richtext.ErrorCode(err))
}

// renderTexts is a stand-in renderer listing each block's text.
func renderTexts(doc *richtext.Document) (string, error) {
	var b strings.Builder
	for _, n := range doc.Content {
		b.WriteString("<p>" + richtext.PlainText([]*richtext.Node{n}) + "</p>")
	}
	return b.String(), nil
}

func TestPreviewer_Preview(t *testing.T) {
	t.Parallel()

	doc := richtext.NewDocument(paragraph("free"), separator(), paragraph("secret"))

	t.Run("renders truncated HTML through sanitizer and minifier", func(t *testing.T) {
		t.Parallel()

		var sanitized, minified bool
		p := &richtext.Previewer{
			Processor: richtext.NewProcessor(richtext.DefaultPaywallConfig()),
			Renderer:  &mock.Renderer{RenderFn: renderTexts},
			Sanitizer: &mock.Sanitizer{SanitizeFn: func(html string) string {
				sanitized = true
				return html
			}},
			Minifier: &mock.Minifier{MinifyFn: func(html string) (string, error) {
				minified = true
				return html, nil
			}},
		}

		html, err := p.Preview(doc, richtext.FormatHTML)

		require.NoError(t, err)
		assert.True(t, sanitized)
		assert.True(t, minified)
		assert.Contains(t, html, "<p>free</p>")
		assert.Contains(t, html, "<p>Continue Reading</p>")
		assert.NotContains(t, html, "secret")
	})

	t.Run("returns plain text", func(t *testing.T) {
		t.Parallel()

		p := &richtext.Previewer{Processor: richtext.NewProcessor(richtext.DefaultPaywallConfig())}

		got, err := p.Preview(doc, richtext.FormatText)

		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(got, "free\n\nContinue Reading"))
	})

	t.Run("returns JSON", func(t *testing.T) {
		t.Parallel()

		p := &richtext.Previewer{Processor: richtext.NewProcessor(richtext.DefaultPaywallConfig())}

		got, err := p.Preview(doc, richtext.FormatJSON)

		require.NoError(t, err)
		parsed, err := richtext.ParseDocument([]byte(got))
		require.NoError(t, err)
		assert.Len(t, parsed.Content, 6)
	})

	t.Run("converts HTML to markdown", func(t *testing.T) {
		t.Parallel()

		var convertedHTML string
		p := &richtext.Previewer{
			Processor: richtext.NewProcessor(richtext.DefaultPaywallConfig()),
			Renderer:  &mock.Renderer{RenderFn: renderTexts},
			Converter: &mock.Converter{ConvertFn: func(html string) (string, error) {
				convertedHTML = html
				return "markdown", nil
			}},
		}

		got, err := p.Preview(doc, richtext.FormatMarkdown)

		require.NoError(t, err)
		assert.Equal(t, "markdown", got)
		assert.Contains(t, convertedHTML, "<p>free</p>")
	})

	t.Run("returns EINTERNAL when markdown is not configured", func(t *testing.T) {
		t.Parallel()

		p := &richtext.Previewer{Processor: richtext.NewProcessor(richtext.DefaultPaywallConfig())}

		_, err := p.Preview(doc, richtext.FormatMarkdown)

		assert.Equal(t, richtext.EINTERNAL, richtext.ErrorCode(err))
	})

	t.Run("returns processor error", func(t *testing.T) {
		t.Parallel()

		p := &richtext.Previewer{Processor: &mock.PaywallProcessor{
			ProcessFn: func(*richtext.Document) (*richtext.Document, error) {
				return nil, errors.New("boom")
			},
		}}

		_, err := p.Preview(doc, richtext.FormatJSON)

		assert.EqualError(t, err, "boom")
	})

	t.Run("returns EINVALID for unknown format", func(t *testing.T) {
		t.Parallel()

		p := &richtext.Previewer{Processor: richtext.NewProcessor(richtext.DefaultPaywallConfig())}

		_, err := p.Preview(doc, richtext.Format("pdf"))

		assert.Equal(t, richtext.EINVALID, richtext.ErrorCode(err))
	})
}

func TestPreviewer_Full(t *testing.T) {
	t.Parallel()

	doc := richtext.NewDocument(paragraph("free"), separator(), paragraph("secret"))
	p := &richtext.Previewer{Processor: richtext.NewProcessor(richtext.DefaultPaywallConfig())}

	got, err := p.Full(doc, richtext.FormatText)

	require.NoError(t, err)
	assert.Equal(t, "free\n\nsecret", got)
}

func TestPreviewer_Export(t *testing.T) {
	t.Parallel()

	doc := richtext.NewDocument(paragraph("free"), separator(), paragraph("secret"))

	t.Run("keeps the separator", func(t *testing.T) {
		t.Parallel()

		p := &richtext.Previewer{Processor: richtext.NewProcessor(richtext.DefaultPaywallConfig())}

		got, err := p.Export(doc, richtext.FormatJSON)

		require.NoError(t, err)
		parsed, err := richtext.ParseDocument([]byte(got))
		require.NoError(t, err)
		assert.Equal(t, 1, richtext.CountPaywallSeparators(parsed))
		assert.Len(t, parsed.Content, 3)
	})

	t.Run("renders through the configured renderer", func(t *testing.T) {
		t.Parallel()

		var rendered *richtext.Document
		p := &richtext.Previewer{
			Renderer: &mock.Renderer{RenderFn: func(d *richtext.Document) (string, error) {
				rendered = d
				return "<p>x</p>", nil
			}},
		}

		_, err := p.Export(doc, richtext.FormatHTML)

		require.NoError(t, err)
		assert.Same(t, doc, rendered)
	})

	t.Run("returns EINVALID for invalid document", func(t *testing.T) {
		t.Parallel()

		p := &richtext.Previewer{}

		_, err := p.Export(&richtext.Document{Type: "paragraph"}, richtext.FormatJSON)

		assert.Equal(t, richtext.EINVALID, richtext.ErrorCode(err))
	})
}
