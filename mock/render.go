package mock

import "github.com/remarkablejames/richtext"

var (
	_ richtext.Renderer  = (*Renderer)(nil)
	_ richtext.Sanitizer = (*Sanitizer)(nil)
	_ richtext.Minifier  = (*Minifier)(nil)
	_ richtext.Importer  = (*Importer)(nil)
)

// Renderer is a mock implementation of richtext.Renderer.
type Renderer struct {
	RenderFn func(doc *richtext.Document) (string, error)
}

func (r *Renderer) Render(doc *richtext.Document) (string, error) {
	return r.RenderFn(doc)
}

// Sanitizer is a mock implementation of richtext.Sanitizer.
type Sanitizer struct {
	SanitizeFn func(html string) string
}

func (s *Sanitizer) Sanitize(html string) string {
	return s.SanitizeFn(html)
}

// Minifier is a mock implementation of richtext.Minifier.
type Minifier struct {
	MinifyFn func(html string) (string, error)
}

func (m *Minifier) Minify(html string) (string, error) {
	return m.MinifyFn(html)
}

// Importer is a mock implementation of richtext.Importer.
type Importer struct {
	ImportFn func(src string) (*richtext.Document, error)
}

func (i *Importer) Import(src string) (*richtext.Document, error) {
	return i.ImportFn(src)
}
