package richtext

// Renderer renders documents as HTML.
type Renderer interface {
	// Render returns the HTML form of doc, following the editor's own
	// rendering rules so the output looks like ordinary content.
	// Returns EINVALID if doc is not a valid document.
	Render(doc *Document) (string, error)
}

// Sanitizer cleans untrusted HTML.
type Sanitizer interface {
	// Sanitize removes elements and attributes the editor never produces.
	Sanitize(html string) string
}

// Minifier shrinks HTML without changing what it renders.
type Minifier interface {
	Minify(html string) (string, error)
}

// Importer builds documents from another markup language.
type Importer interface {
	// Import parses src into a document. Paywall markers recognized by the
	// implementation become paywall separator nodes.
	// Returns EINVALID if src is empty.
	Import(src string) (*Document, error)
}
