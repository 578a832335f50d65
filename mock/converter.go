package mock

import "github.com/remarkablejames/richtext"

var _ richtext.Converter = (*Converter)(nil)

// Converter is a mock implementation of richtext.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

var _ richtext.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of richtext.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*richtext.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*richtext.ExtractResult, error) {
	return e.ExtractFn(html)
}
