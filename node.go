package richtext

import (
	"bytes"
	"encoding/json"
	"reflect"
)

// Node types interpreted by this package. Any other type is carried through
// untouched, so documents produced by editor extensions this package knows
// nothing about survive processing unchanged.
const (
	NodeDoc              = "doc"
	NodeParagraph        = "paragraph"
	NodeHeading          = "heading"
	NodeText             = "text"
	NodeHardBreak        = "hardBreak"
	NodeBlockquote       = "blockquote"
	NodeBulletList       = "bulletList"
	NodeOrderedList      = "orderedList"
	NodeListItem         = "listItem"
	NodeTaskList         = "taskList"
	NodeTaskItem         = "taskItem"
	NodeCodeBlock        = "codeBlock"
	NodeImage            = "image"
	NodeHorizontalRule   = "horizontalRule"
	NodePaywallSeparator = "paywallSeparator"
	NodeTable            = "table"
	NodeTableRow         = "tableRow"
	NodeTableCell        = "tableCell"
	NodeTableHeader      = "tableHeader"
)

// Mark types interpreted by this package.
const (
	MarkBold        = "bold"
	MarkItalic      = "italic"
	MarkUnderline   = "underline"
	MarkStrike      = "strike"
	MarkCode        = "code"
	MarkLink        = "link"
	MarkTextStyle   = "textStyle"
	MarkHighlight   = "highlight"
	MarkSubscript   = "subscript"
	MarkSuperscript = "superscript"
)

// Node is a single node of a rich-text document tree.
//
// A nil Content means the node has no content field at all (text, image,
// separator and other leaf nodes). A non-nil empty Content means the node
// is a container that happens to be empty. The distinction survives JSON
// encoding.
//
// Decoding never rejects a node. Fields whose JSON shape does not fit the
// typed fields, and fields this package does not know, are kept verbatim
// and written back on encoding. A child that is not a JSON object at all
// becomes an opaque node that encodes back to the same value.
type Node struct {
	Type    string
	Attrs   map[string]any
	Content []*Node
	Text    string
	Marks   []*Mark

	extra map[string]json.RawMessage
	raw   json.RawMessage
}

// Mark is an inline decoration applied to a text node.
type Mark struct {
	Type  string         `json:"type"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

// nodeJSON is the wire shape of a Node. Pointer fields keep the difference
// between an absent and an empty attrs/content/marks field.
type nodeJSON struct {
	Type    string          `json:"type"`
	Attrs   *map[string]any `json:"attrs,omitempty"`
	Content *[]*Node        `json:"content,omitempty"`
	Text    string          `json:"text,omitempty"`
	Marks   *[]*Mark        `json:"marks,omitempty"`
}

// MarshalJSON encodes the node in the ProseMirror JSON format.
func (n *Node) MarshalJSON() ([]byte, error) {
	if n.raw != nil {
		return n.raw, nil
	}
	v := nodeJSON{Type: n.Type, Text: n.Text}
	if n.Attrs != nil {
		v.Attrs = &n.Attrs
	}
	if n.Content != nil {
		v.Content = &n.Content
	}
	if n.Marks != nil {
		v.Marks = &n.Marks
	}
	typed, err := json.Marshal(v)
	if err != nil || len(n.extra) == 0 {
		return typed, err
	}

	fields := make(map[string]json.RawMessage, len(n.extra)+5)
	if err := json.Unmarshal(typed, &fields); err != nil {
		return nil, err
	}
	for k, raw := range n.extra {
		fields[k] = raw
	}
	return json.Marshal(fields)
}

// UnmarshalJSON decodes a node from the ProseMirror JSON format.
func (n *Node) UnmarshalJSON(data []byte) error {
	*n = Node{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		n.raw = bytes.Clone(data)
		return nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	for key, value := range fields {
		if n.decodeField(key, value) {
			continue
		}
		if n.extra == nil {
			n.extra = make(map[string]json.RawMessage)
		}
		n.extra[key] = value
	}
	return nil
}

// decodeField stores a known field and reports whether it fit.
func (n *Node) decodeField(key string, value json.RawMessage) bool {
	if bytes.Equal(value, []byte("null")) {
		return false
	}
	switch key {
	case "type":
		return json.Unmarshal(value, &n.Type) == nil
	case "text":
		return json.Unmarshal(value, &n.Text) == nil
	case "attrs":
		var attrs map[string]any
		if json.Unmarshal(value, &attrs) != nil {
			return false
		}
		n.Attrs = attrs
		return true
	case "content":
		var content []*Node
		if json.Unmarshal(value, &content) != nil {
			return false
		}
		n.Content = content
		return true
	case "marks":
		var marks []*Mark
		if json.Unmarshal(value, &marks) != nil {
			return false
		}
		n.Marks = marks
		return true
	}
	return false
}

// IsOpaque reports whether the node was decoded from a JSON value that is
// not an object. Opaque nodes have no type and encode back unchanged.
func (n *Node) IsOpaque() bool {
	return n != nil && n.raw != nil
}

// HasContent reports whether the node carries a content sequence.
func (n *Node) HasContent() bool {
	return n != nil && n.Content != nil
}

// IsPaywallSeparator reports whether the node marks the paywall boundary.
func (n *Node) IsPaywallSeparator() bool {
	return n != nil && n.Type == NodePaywallSeparator
}

// Clone returns a deep copy of the node. Attribute values that are maps or
// slices are copied too, so the clone shares no mutable state with n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	other := n.shallowClone()
	if n.Content != nil {
		other.Content = cloneNodes(n.Content)
	}
	return other
}

// shallowClone copies everything except the content sequence.
func (n *Node) shallowClone() *Node {
	other := &Node{
		Type:  n.Type,
		Attrs: cloneAttrs(n.Attrs),
		Text:  n.Text,
		raw:   bytes.Clone(n.raw),
	}
	if n.extra != nil {
		other.extra = make(map[string]json.RawMessage, len(n.extra))
		for k, v := range n.extra {
			other.extra[k] = bytes.Clone(v)
		}
	}
	if n.Marks != nil {
		other.Marks = make([]*Mark, len(n.Marks))
		for i, m := range n.Marks {
			other.Marks[i] = m.Clone()
		}
	}
	return other
}

// Attr returns the named attribute, or nil if unset.
func (n *Node) Attr(key string) any {
	if n == nil || n.Attrs == nil {
		return nil
	}
	return n.Attrs[key]
}

// Clone returns a deep copy of the mark.
func (m *Mark) Clone() *Mark {
	if m == nil {
		return nil
	}
	return &Mark{Type: m.Type, Attrs: cloneAttrs(m.Attrs)}
}

// Attr returns the named attribute, or nil if unset.
func (m *Mark) Attr(key string) any {
	if m == nil || m.Attrs == nil {
		return nil
	}
	return m.Attrs[key]
}

func cloneNodes(nodes []*Node) []*Node {
	if nodes == nil {
		return nil
	}
	out := make([]*Node, len(nodes))
	for i, n := range nodes {
		out[i] = n.Clone()
	}
	return out
}

func cloneAttrs(attrs map[string]any) map[string]any {
	if attrs == nil {
		return nil
	}
	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch v := v.(type) {
	case nil, string, bool, float64, int, int64, json.Number:
		return v
	case map[string]any:
		return cloneAttrs(v)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = cloneValue(e)
		}
		return out
	}
	return cloneReflect(reflect.ValueOf(v)).Interface()
}

// cloneReflect deep-copies slices, maps, arrays and pointers of any element
// type. Structs are copied by value.
func cloneReflect(v reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.Interface:
		if v.IsNil() {
			return v
		}
		out := reflect.New(v.Type()).Elem()
		out.Set(cloneReflect(v.Elem()))
		return out
	case reflect.Slice:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := range v.Len() {
			out.Index(i).Set(cloneReflect(v.Index(i)))
		}
		return out
	case reflect.Array:
		out := reflect.New(v.Type()).Elem()
		for i := range v.Len() {
			out.Index(i).Set(cloneReflect(v.Index(i)))
		}
		return out
	case reflect.Map:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), cloneReflect(iter.Value()))
		}
		return out
	case reflect.Pointer:
		if v.IsNil() {
			return v
		}
		out := reflect.New(v.Type().Elem())
		out.Elem().Set(cloneReflect(v.Elem()))
		return out
	}
	return v
}

// AttrString returns a string attribute, or "" when it is missing or not a
// string.
func AttrString(attrs map[string]any, key string) string {
	if attrs == nil {
		return ""
	}
	s, _ := attrs[key].(string)
	return s
}

// AttrInt returns an integer attribute, or 0 when it is missing or not a
// number. JSON numbers decode as float64.
func AttrInt(attrs map[string]any, key string) int {
	if attrs == nil {
		return 0
	}
	switch v := attrs[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	}
	return 0
}

// AttrBool returns a boolean attribute, or false when it is missing or not a
// boolean.
func AttrBool(attrs map[string]any, key string) bool {
	if attrs == nil {
		return false
	}
	b, _ := attrs[key].(bool)
	return b
}

// AppendText appends a text node holding s to nodes. When the last node is
// text with equal marks, s is added to it instead.
func AppendText(nodes []*Node, s string, marks []*Mark) []*Node {
	if s == "" {
		return nodes
	}
	if len(nodes) > 0 {
		last := nodes[len(nodes)-1]
		if last != nil && last.Type == NodeText && sameMarks(last.Marks, marks) {
			last.Text += s
			return nodes
		}
	}
	return append(nodes, &Node{Type: NodeText, Text: s, Marks: marks})
}

func sameMarks(a, b []*Mark) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !reflect.DeepEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}
