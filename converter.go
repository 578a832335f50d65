package richtext

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms HTML content into Markdown.
	// The input should be HTML produced by a Renderer.
	// Returns the Markdown representation of the content.
	Convert(html string) (string, error)
}
