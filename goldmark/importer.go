// Package goldmark implements richtext.Importer for Markdown using goldmark.
package goldmark

import (
	"bytes"
	"strings"

	"github.com/remarkablejames/richtext"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// Ensure Importer implements richtext.Importer at compile time.
var _ richtext.Importer = (*Importer)(nil)

// Importer converts Markdown into documents.
type Importer struct {
	md goldmark.Markdown
}

// NewImporter creates an Importer with GitHub Flavored Markdown enabled.
func NewImporter() *Importer {
	return &Importer{
		md: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Import parses src as Markdown.
func (i *Importer) Import(src string) (*richtext.Document, error) {
	if strings.TrimSpace(src) == "" {
		return nil, richtext.Errorf(richtext.EINVALID, "empty markdown input")
	}

	source := []byte(src)
	root := i.md.Parser().Parse(text.NewReader(source))

	w := &walker{src: source}
	doc := richtext.NewDocument(w.blocks(root)...)
	return doc, nil
}

type walker struct {
	src []byte
}

// blocks converts the block children of parent.
func (w *walker) blocks(parent ast.Node) []*richtext.Node {
	out := []*richtext.Node{}
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		out = append(out, w.block(n)...)
	}
	return out
}

func (w *walker) block(n ast.Node) []*richtext.Node {
	switch node := n.(type) {
	case *ast.Heading:
		return []*richtext.Node{{
			Type:    richtext.NodeHeading,
			Attrs:   map[string]any{"level": node.Level},
			Content: w.inlines(node),
		}}
	case *ast.Paragraph, *ast.TextBlock:
		return w.paragraph(node)
	case *ast.Blockquote:
		return []*richtext.Node{container(richtext.NodeBlockquote, nil, w.blocks(node))}
	case *ast.List:
		return []*richtext.Node{w.list(node)}
	case *ast.FencedCodeBlock:
		var attrs map[string]any
		if lang := string(node.Language(w.src)); lang != "" {
			attrs = map[string]any{"language": lang}
		}
		return []*richtext.Node{codeBlock(attrs, w.lines(node))}
	case *ast.CodeBlock:
		return []*richtext.Node{codeBlock(nil, w.lines(node))}
	case *ast.ThematicBreak:
		return []*richtext.Node{{Type: richtext.NodeHorizontalRule}}
	case *ast.HTMLBlock:
		raw := w.lines(node)
		if node.HasClosure() {
			raw += string(node.ClosureLine.Value(w.src))
		}
		if isPaywallMarker(raw) {
			return []*richtext.Node{richtext.NewPaywallSeparator()}
		}
		return nil
	case *east.Table:
		return []*richtext.Node{w.table(node)}
	}
	// Unrecognized blocks keep their block children.
	return w.blocks(n)
}

// paragraph converts a paragraph. A paragraph holding only images becomes
// those image blocks.
func (w *walker) paragraph(n ast.Node) []*richtext.Node {
	content := w.inlines(n)
	if len(content) > 0 {
		onlyImages := true
		for _, c := range content {
			if c.Type != richtext.NodeImage {
				onlyImages = false
				break
			}
		}
		if onlyImages {
			return content
		}
	}
	return []*richtext.Node{container(richtext.NodeParagraph, nil, content)}
}

func (w *walker) list(n *ast.List) *richtext.Node {
	if isTaskList(n) {
		items := []*richtext.Node{}
		for item := n.FirstChild(); item != nil; item = item.NextSibling() {
			checked := false
			if box := taskCheckBox(item); box != nil {
				checked = box.IsChecked
			}
			items = append(items, container(richtext.NodeTaskItem,
				map[string]any{"checked": checked}, w.blocks(item)))
		}
		return container(richtext.NodeTaskList, nil, items)
	}

	typ := richtext.NodeBulletList
	var attrs map[string]any
	if n.IsOrdered() {
		typ = richtext.NodeOrderedList
		attrs = map[string]any{"start": max(n.Start, 1)}
	}

	items := []*richtext.Node{}
	for item := n.FirstChild(); item != nil; item = item.NextSibling() {
		items = append(items, container(richtext.NodeListItem, nil, w.blocks(item)))
	}
	return container(typ, attrs, items)
}

func (w *walker) table(n *east.Table) *richtext.Node {
	rows := []*richtext.Node{}
	for row := n.FirstChild(); row != nil; row = row.NextSibling() {
		cellType := richtext.NodeTableCell
		if _, ok := row.(*east.TableHeader); ok {
			cellType = richtext.NodeTableHeader
		}
		cells := []*richtext.Node{}
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			para := container(richtext.NodeParagraph, nil, w.inlines(cell))
			cells = append(cells, container(cellType, nil, []*richtext.Node{para}))
		}
		rows = append(rows, container(richtext.NodeTableRow, nil, cells))
	}
	return container(richtext.NodeTable, nil, rows)
}

// inlines converts the inline children of n to text, hard break and image
// nodes.
func (w *walker) inlines(n ast.Node) []*richtext.Node {
	out := []*richtext.Node{}
	w.collectInlines(n, nil, &out)
	return out
}

func (w *walker) collectInlines(parent ast.Node, marks []*richtext.Mark, out *[]*richtext.Node) {
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Text:
			*out = richtext.AppendText(*out, string(node.Segment.Value(w.src)), marks)
			if node.HardLineBreak() {
				*out = append(*out, &richtext.Node{Type: richtext.NodeHardBreak})
			} else if node.SoftLineBreak() {
				*out = richtext.AppendText(*out, " ", marks)
			}
		case *ast.String:
			*out = richtext.AppendText(*out, string(node.Value), marks)
		case *ast.CodeSpan:
			var b bytes.Buffer
			for c := node.FirstChild(); c != nil; c = c.NextSibling() {
				if t, ok := c.(*ast.Text); ok {
					b.Write(t.Segment.Value(w.src))
				}
			}
			*out = richtext.AppendText(*out, b.String(), withMark(marks, &richtext.Mark{Type: richtext.MarkCode}))
		case *ast.Emphasis:
			typ := richtext.MarkItalic
			if node.Level >= 2 {
				typ = richtext.MarkBold
			}
			w.collectInlines(node, withMark(marks, &richtext.Mark{Type: typ}), out)
		case *east.Strikethrough:
			w.collectInlines(node, withMark(marks, &richtext.Mark{Type: richtext.MarkStrike}), out)
		case *ast.Link:
			w.collectInlines(node, withMark(marks, linkMark(string(node.Destination))), out)
		case *ast.AutoLink:
			url := string(node.URL(w.src))
			*out = richtext.AppendText(*out, string(node.Label(w.src)), withMark(marks, linkMark(url)))
		case *ast.Image:
			attrs := map[string]any{
				"src": string(node.Destination),
				"alt": plainText(w.src, node),
			}
			if len(node.Title) > 0 {
				attrs["title"] = string(node.Title)
			}
			*out = append(*out, &richtext.Node{Type: richtext.NodeImage, Attrs: attrs})
		case *east.TaskCheckBox, *ast.RawHTML:
			// Checkbox state lives on the task item; inline HTML is dropped.
		default:
			w.collectInlines(node, marks, out)
		}
	}
}

func (w *walker) lines(n ast.Node) string {
	var b bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		b.Write(line.Value(w.src))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// withMark returns marks with m appended, leaving marks unchanged.
func withMark(marks []*richtext.Mark, m *richtext.Mark) []*richtext.Mark {
	out := make([]*richtext.Mark, 0, len(marks)+1)
	out = append(out, marks...)
	return append(out, m)
}

func linkMark(href string) *richtext.Mark {
	return &richtext.Mark{Type: richtext.MarkLink, Attrs: map[string]any{"href": href}}
}

func container(typ string, attrs map[string]any, content []*richtext.Node) *richtext.Node {
	return &richtext.Node{Type: typ, Attrs: attrs, Content: content}
}

func codeBlock(attrs map[string]any, code string) *richtext.Node {
	content := []*richtext.Node{}
	if code != "" {
		content = append(content, &richtext.Node{Type: richtext.NodeText, Text: code})
	}
	return container(richtext.NodeCodeBlock, attrs, content)
}

func isPaywallMarker(html string) bool {
	html = strings.TrimSpace(html)
	if html == richtext.PaywallComment {
		return true
	}
	return strings.HasPrefix(html, "<hr") && strings.Contains(html, `data-paywall="true"`)
}

func isTaskList(n *ast.List) bool {
	for item := n.FirstChild(); item != nil; item = item.NextSibling() {
		if taskCheckBox(item) == nil {
			return false
		}
	}
	return n.FirstChild() != nil
}

func taskCheckBox(item ast.Node) *east.TaskCheckBox {
	first := item.FirstChild()
	if first == nil {
		return nil
	}
	box, _ := first.FirstChild().(*east.TaskCheckBox)
	return box
}

func plainText(src []byte, n ast.Node) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}
