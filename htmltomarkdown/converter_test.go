package htmltomarkdown_test

import (
	"testing"

	"github.com/remarkablejames/richtext"
	"github.com/remarkablejames/richtext/goldmark"
	"github.com/remarkablejames/richtext/html"
	"github.com/remarkablejames/richtext/htmltomarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	t.Run("converts headings and paragraphs", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(`<h2>Continue Reading</h2><p>Hello, world!</p>`)

		require.NoError(t, err)
		assert.Contains(t, md, "## Continue Reading")
		assert.Contains(t, md, "Hello, world!")
	})

	t.Run("converts links inside styled spans", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(
			`<p><a href="https://example.com/join" target="_blank"><span style="color: #3b82f6">Subscribe Now</span></a></p>`)

		require.NoError(t, err)
		assert.Contains(t, md, "[Subscribe Now](https://example.com/join)")
	})

	t.Run("converts lists", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(`<ul><li>First</li><li>Second</li></ul><ol><li>One</li></ol>`)

		require.NoError(t, err)
		assert.Contains(t, md, "- First")
		assert.Contains(t, md, "- Second")
		assert.Contains(t, md, "1. One")
	})

	t.Run("converts code blocks with language hint", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(`<pre><code class="language-go">x := 1</code></pre>`)

		require.NoError(t, err)
		assert.Contains(t, md, "```go")
		assert.Contains(t, md, "x := 1")
	})

	t.Run("converts emphasis and strikethrough", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(`<p><strong>bold</strong> <em>it</em> <s>gone</s></p>`)

		require.NoError(t, err)
		assert.Contains(t, md, "**bold**")
		assert.Contains(t, md, "*it*")
		assert.Contains(t, md, "~~gone~~")
	})

	t.Run("converts tables", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(`<table><tr><th>Plan</th></tr><tr><td>Monthly</td></tr></table>`)

		require.NoError(t, err)
		assert.Contains(t, md, "Plan")
		assert.Contains(t, md, "Monthly")
	})

	t.Run("writes paywall rule as comment", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(`<p>Free</p><hr data-paywall="true"/><p>Paid</p>`)

		require.NoError(t, err)
		assert.Contains(t, md, richtext.PaywallComment)
		assert.NotContains(t, md, "* * *")
	})

	t.Run("keeps plain rules", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(`<p>a</p><hr/><p>b</p>`)

		require.NoError(t, err)
		assert.NotContains(t, md, richtext.PaywallComment)
	})

	t.Run("returns error for empty input", func(t *testing.T) {
		t.Parallel()

		_, err := htmltomarkdown.NewConverter().Convert("  ")

		assert.Equal(t, richtext.EINVALID, richtext.ErrorCode(err))
	})
}

func TestConverter_RoundTripsSeparator(t *testing.T) {
	t.Parallel()

	doc := richtext.NewDocument(
		&richtext.Node{Type: richtext.NodeParagraph, Content: []*richtext.Node{{Type: richtext.NodeText, Text: "Free"}}},
		richtext.NewPaywallSeparator(),
		&richtext.Node{Type: richtext.NodeParagraph, Content: []*richtext.Node{{Type: richtext.NodeText, Text: "Paid"}}},
	)

	rendered, err := html.NewRenderer().Render(doc)
	require.NoError(t, err)
	md, err := htmltomarkdown.NewConverter().Convert(rendered)
	require.NoError(t, err)
	imported, err := goldmark.NewImporter().Import(md)
	require.NoError(t, err)

	assert.Equal(t, 1, richtext.CountPaywallSeparators(imported))
	assert.Equal(t, "Free\n\nPaid", richtext.PlainText(imported.Content))
}
