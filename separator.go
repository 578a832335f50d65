package richtext

// PaywallComment marks the paywall position in Markdown.
const PaywallComment = "<!-- paywall -->"

// NewPaywallSeparator returns a paywall separator node.
func NewPaywallSeparator() *Node {
	return &Node{Type: NodePaywallSeparator}
}

// InsertPaywallSeparator returns a copy of doc with a separator inserted
// before the top-level node at index. Index is clamped to the content
// bounds, so a negative index inserts first and a large one appends.
// A document holds at most one separator: returns ECONFLICT if doc already
// has one, and EINVALID if doc is not a valid document.
func InsertPaywallSeparator(doc *Document, index int) (*Document, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	if containsSeparator(doc.Content) {
		return nil, Errorf(ECONFLICT, "document already contains a paywall separator")
	}

	index = max(0, min(index, len(doc.Content)))

	content := make([]*Node, 0, len(doc.Content)+1)
	content = append(content, cloneNodes(doc.Content[:index])...)
	content = append(content, NewPaywallSeparator())
	content = append(content, cloneNodes(doc.Content[index:])...)
	return &Document{Type: NodeDoc, Content: content}, nil
}

// CountPaywallSeparators returns the number of separators at any depth.
// Invalid documents count zero.
func CountPaywallSeparators(doc *Document) int {
	if doc.Validate() != nil {
		return 0
	}
	return countSeparators(doc.Content)
}

func countSeparators(nodes []*Node) int {
	var n int
	for _, node := range nodes {
		if node.IsPaywallSeparator() {
			n++
			continue
		}
		if node.HasContent() {
			n += countSeparators(node.Content)
		}
	}
	return n
}

// RemovePaywallSeparators returns a copy of doc without any separator. All
// other content, including what followed a separator, is kept. This is the
// rendition shown to subscribers.
// Returns EINVALID if doc is not a valid document.
func RemovePaywallSeparators(doc *Document) (*Document, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &Document{Type: NodeDoc, Content: withoutSeparators(doc.Content)}, nil
}

func withoutSeparators(nodes []*Node) []*Node {
	out := make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		if n.IsPaywallSeparator() {
			continue
		}
		if !n.HasContent() {
			out = append(out, n.Clone())
			continue
		}
		copied := n.shallowClone()
		copied.Content = withoutSeparators(n.Content)
		out = append(out, copied)
	}
	return out
}
