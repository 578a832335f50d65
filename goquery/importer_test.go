package goquery_test

import (
	"testing"

	"github.com/remarkablejames/richtext"
	"github.com/remarkablejames/richtext/goquery"
	"github.com/remarkablejames/richtext/html"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func importHTML(t *testing.T, src string) *richtext.Document {
	t.Helper()
	doc, err := goquery.NewImporter().Import(src)
	require.NoError(t, err)
	require.NoError(t, doc.Validate())
	return doc
}

func TestImporter_Import(t *testing.T) {
	t.Parallel()

	t.Run("maps paywall rule to separator", func(t *testing.T) {
		t.Parallel()

		doc := importHTML(t, `<p>Free</p><hr data-paywall="true"><p>Paid</p>`)

		require.Len(t, doc.Content, 3)
		assert.Equal(t, richtext.NodePaywallSeparator, doc.Content[1].Type)
	})

	t.Run("maps plain rule to horizontal rule", func(t *testing.T) {
		t.Parallel()

		doc := importHTML(t, `<hr><div data-type="horizontalRule"><hr></div>`)

		require.Len(t, doc.Content, 2)
		assert.Equal(t, richtext.NodeHorizontalRule, doc.Content[0].Type)
		assert.Equal(t, richtext.NodeHorizontalRule, doc.Content[1].Type)
		assert.False(t, richtext.HasPaywallSeparator(doc))
	})

	t.Run("reads block attributes", func(t *testing.T) {
		t.Parallel()

		doc := importHTML(t, `<h3 style="text-align: center" dir="auto">Title</h3>`)

		h := doc.Content[0]
		assert.Equal(t, richtext.NodeHeading, h.Type)
		assert.Equal(t, 3, richtext.AttrInt(h.Attrs, "level"))
		assert.Equal(t, "center", richtext.AttrString(h.Attrs, "textAlign"))
		assert.Equal(t, "auto", richtext.AttrString(h.Attrs, "dir"))
	})

	t.Run("maps nested inline formatting to marks", func(t *testing.T) {
		t.Parallel()

		doc := importHTML(t, `<p>a <strong><em>b</em></strong> <a href="/x" rel="noopener">c</a></p>`)

		content := doc.Content[0].Content
		require.Len(t, content, 4)
		assert.Equal(t, "a ", content[0].Text)
		require.Len(t, content[1].Marks, 2)
		assert.Equal(t, richtext.MarkBold, content[1].Marks[0].Type)
		assert.Equal(t, richtext.MarkItalic, content[1].Marks[1].Type)
		assert.Equal(t, "/x", content[3].Marks[0].Attr("href"))
		assert.Equal(t, "noopener", content[3].Marks[0].Attr("rel"))
	})

	t.Run("maps colored spans to text style", func(t *testing.T) {
		t.Parallel()

		doc := importHTML(t, `<p><span style="color: #6b7280">grey</span></p>`)

		mark := doc.Content[0].Content[0].Marks[0]
		assert.Equal(t, richtext.MarkTextStyle, mark.Type)
		assert.Equal(t, "#6b7280", mark.Attr("color"))
	})

	t.Run("collapses whitespace and trims paragraphs", func(t *testing.T) {
		t.Parallel()

		doc := importHTML(t, "<p>\n  one\n  two  </p>")

		assert.Equal(t, "one two", doc.Content[0].Content[0].Text)
	})

	t.Run("keeps empty paragraphs", func(t *testing.T) {
		t.Parallel()

		doc := importHTML(t, `<p></p>`)

		require.Len(t, doc.Content, 1)
		assert.NotNil(t, doc.Content[0].Content)
		assert.Empty(t, doc.Content[0].Content)
	})

	t.Run("wraps loose inline content in paragraphs", func(t *testing.T) {
		t.Parallel()

		doc := importHTML(t, `loose <b>text</b><p>block</p>`)

		require.Len(t, doc.Content, 2)
		assert.Equal(t, richtext.NodeParagraph, doc.Content[0].Type)
		assert.Equal(t, "loose text", richtext.PlainText(doc.Content[:1]))
	})

	t.Run("maps task lists", func(t *testing.T) {
		t.Parallel()

		doc := importHTML(t, `<ul data-type="taskList"><li data-type="taskItem" data-checked="true"><p>done</p></li></ul>`)

		list := doc.Content[0]
		assert.Equal(t, richtext.NodeTaskList, list.Type)
		require.Len(t, list.Content, 1)
		assert.Equal(t, richtext.NodeTaskItem, list.Content[0].Type)
		assert.True(t, richtext.AttrBool(list.Content[0].Attrs, "checked"))
	})

	t.Run("maps code blocks with language", func(t *testing.T) {
		t.Parallel()

		doc := importHTML(t, `<pre><code class="language-go">x := 1</code></pre>`)

		code := doc.Content[0]
		assert.Equal(t, richtext.NodeCodeBlock, code.Type)
		assert.Equal(t, "go", richtext.AttrString(code.Attrs, "language"))
		assert.Equal(t, "x := 1", code.Content[0].Text)
	})

	t.Run("keeps unknown typed divs", func(t *testing.T) {
		t.Parallel()

		doc := importHTML(t, `<div data-type="callout"><p>note</p></div>`)

		assert.Equal(t, "callout", doc.Content[0].Type)
	})

	t.Run("drops scripts", func(t *testing.T) {
		t.Parallel()

		doc := importHTML(t, `<script>alert(1)</script><p>x</p>`)

		require.Len(t, doc.Content, 1)
		assert.Equal(t, "x", richtext.PlainText(doc.Content))
	})

	t.Run("returns EINVALID for empty input", func(t *testing.T) {
		t.Parallel()

		_, err := goquery.NewImporter().Import(" ")

		assert.Equal(t, richtext.EINVALID, richtext.ErrorCode(err))
	})
}

func TestImporter_RoundTrip(t *testing.T) {
	t.Parallel()

	doc := richtext.NewDocument(
		&richtext.Node{Type: richtext.NodeParagraph, Content: []*richtext.Node{{Type: richtext.NodeText, Text: "Free"}}},
		richtext.NewPaywallSeparator(),
		&richtext.Node{Type: richtext.NodeParagraph, Content: []*richtext.Node{{Type: richtext.NodeText, Text: "Paid"}}},
	)
	processed, err := richtext.ProcessPaywall(doc, richtext.PaywallOverrides{})
	require.NoError(t, err)

	rendered, err := html.NewRenderer().Render(processed)
	require.NoError(t, err)
	imported := importHTML(t, rendered)

	assert.Equal(t, richtext.PlainText(processed.Content), richtext.PlainText(imported.Content))
	assert.Len(t, imported.Content, len(processed.Content))
	assert.Equal(t, richtext.Outline(processed.Content), richtext.Outline(imported.Content))
}
