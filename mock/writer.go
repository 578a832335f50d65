package mock

import (
	"context"

	"github.com/remarkablejames/richtext"
)

var _ richtext.DocumentWriter = (*DocumentWriter)(nil)

// DocumentWriter is a mock implementation of richtext.DocumentWriter.
type DocumentWriter struct {
	WriteDocumentFn func(ctx context.Context, name string, doc *richtext.Document) error
}

func (w *DocumentWriter) WriteDocument(ctx context.Context, name string, doc *richtext.Document) error {
	return w.WriteDocumentFn(ctx, name, doc)
}
