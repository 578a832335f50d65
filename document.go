package richtext

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
)

// Document is the root of a rich-text document tree.
type Document struct {
	Type    string
	Content []*Node
}

// NewDocument returns a valid document holding the given top-level nodes.
func NewDocument(content ...*Node) *Document {
	if content == nil {
		content = []*Node{}
	}
	return &Document{Type: NodeDoc, Content: content}
}

type documentJSON struct {
	Type    string   `json:"type"`
	Content *[]*Node `json:"content,omitempty"`
}

// MarshalJSON encodes the document in the ProseMirror JSON format.
func (d *Document) MarshalJSON() ([]byte, error) {
	v := documentJSON{Type: d.Type}
	if d.Content != nil {
		v.Content = &d.Content
	}
	return json.Marshal(v)
}

// UnmarshalJSON decodes a document from the ProseMirror JSON format. It does
// not validate; use ParseDocument for untrusted input.
func (d *Document) UnmarshalJSON(data []byte) error {
	var v documentJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*d = Document{Type: v.Type}
	if v.Content != nil {
		d.Content = *v.Content
	}
	return nil
}

// Validate returns an EINVALID error unless d is a document: a non-nil value
// of type "doc" with a content sequence, which may be empty.
func (d *Document) Validate() error {
	if d == nil {
		return Errorf(EINVALID, "invalid document: document required")
	}
	if d.Type != NodeDoc {
		return Errorf(EINVALID, "invalid document: expected type %q, got %q", NodeDoc, d.Type)
	}
	if d.Content == nil {
		return Errorf(EINVALID, "invalid document: content array required")
	}
	return nil
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	return &Document{Type: d.Type, Content: cloneNodes(d.Content)}
}

// ParseDocument decodes and validates a JSON document. Null, non-object and
// malformed input, a wrong root type, and a missing or non-array content
// field all fail with EINVALID.
func ParseDocument(data []byte) (*Document, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, Errorf(EINVALID, "invalid document: document required")
	}
	if data[0] != '{' {
		return nil, Errorf(EINVALID, "invalid document: expected a JSON object")
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, Errorf(EINVALID, "invalid document: %s", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// DecodeDocument reads a JSON document from r and validates it.
func DecodeDocument(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ParseDocument(data)
}

// DocumentWriter writes documents to storage under a name.
type DocumentWriter interface {
	WriteDocument(ctx context.Context, name string, doc *Document) error
}
