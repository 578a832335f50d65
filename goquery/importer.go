package goquery

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/remarkablejames/richtext"
	"golang.org/x/net/html"
)

var whitespaceRegexp = regexp.MustCompile(`\s+`)

// Ensure Importer implements richtext.Importer at compile time.
var _ richtext.Importer = (*Importer)(nil)

// Importer parses editor HTML back into documents.
type Importer struct{}

// NewImporter creates a new Importer.
func NewImporter() *Importer {
	return &Importer{}
}

// Import parses src as an HTML fragment or page. Only the body is imported.
func (i *Importer) Import(src string) (*richtext.Document, error) {
	if strings.TrimSpace(src) == "" {
		return nil, richtext.Errorf(richtext.EINVALID, "empty HTML input")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return nil, richtext.Errorf(richtext.EINVALID, "failed to parse HTML: %v", err)
	}

	return richtext.NewDocument(blocks(doc.Find("body"))...), nil
}

// blocks converts the children of sel into block nodes. Inline content
// found between blocks is wrapped in paragraphs.
func blocks(sel *goquery.Selection) []*richtext.Node {
	out := []*richtext.Node{}
	var pending []*richtext.Node

	flush := func() {
		if content := trimInlines(pending); len(content) > 0 {
			out = append(out, &richtext.Node{Type: richtext.NodeParagraph, Content: content})
		}
		pending = nil
	}

	sel.Contents().Each(func(_ int, child *goquery.Selection) {
		n := child.Get(0)
		if n.Type == html.TextNode || (n.Type == html.ElementNode && isInline(n.Data)) {
			pending = inline(child, nil, pending)
			return
		}
		if n.Type != html.ElementNode {
			return
		}
		flush()
		out = append(out, block(child)...)
	})
	flush()

	return out
}

func block(sel *goquery.Selection) []*richtext.Node {
	tag := goquery.NodeName(sel)
	switch tag {
	case "p":
		return []*richtext.Node{{
			Type:    richtext.NodeParagraph,
			Attrs:   blockAttrs(sel),
			Content: trimInlines(inlines(sel, nil, nil)),
		}}
	case "h1", "h2", "h3", "h4", "h5", "h6":
		attrs := blockAttrs(sel)
		if attrs == nil {
			attrs = map[string]any{}
		}
		attrs["level"] = int(tag[1] - '0')
		return []*richtext.Node{{
			Type:    richtext.NodeHeading,
			Attrs:   attrs,
			Content: trimInlines(inlines(sel, nil, nil)),
		}}
	case "blockquote":
		return []*richtext.Node{container(richtext.NodeBlockquote, nil, blocks(sel))}
	case "ul":
		if sel.AttrOr("data-type", "") == richtext.NodeTaskList {
			return []*richtext.Node{container(richtext.NodeTaskList, nil, listItems(sel, richtext.NodeTaskItem))}
		}
		return []*richtext.Node{container(richtext.NodeBulletList, nil, listItems(sel, richtext.NodeListItem))}
	case "ol":
		start := 1
		if v, err := strconv.Atoi(sel.AttrOr("start", "")); err == nil && v > 0 {
			start = v
		}
		return []*richtext.Node{container(richtext.NodeOrderedList,
			map[string]any{"start": start}, listItems(sel, richtext.NodeListItem))}
	case "li":
		return []*richtext.Node{container(richtext.NodeListItem, nil, blocks(sel))}
	case "pre":
		return []*richtext.Node{codeBlock(sel)}
	case "hr":
		if sel.AttrOr("data-paywall", "") == "true" {
			return []*richtext.Node{richtext.NewPaywallSeparator()}
		}
		return []*richtext.Node{{Type: richtext.NodeHorizontalRule}}
	case "img":
		return []*richtext.Node{image(sel)}
	case "table":
		return []*richtext.Node{container(richtext.NodeTable, nil, tableRows(sel))}
	case "div":
		switch typ := sel.AttrOr("data-type", ""); typ {
		case "":
			return blocks(sel)
		case richtext.NodeHorizontalRule:
			return []*richtext.Node{{Type: richtext.NodeHorizontalRule}}
		default:
			return []*richtext.Node{container(typ, nil, blocks(sel))}
		}
	case "script", "style", "template", "noscript", "head":
		return nil
	}
	return blocks(sel)
}

func listItems(sel *goquery.Selection, itemType string) []*richtext.Node {
	items := []*richtext.Node{}
	sel.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
		var attrs map[string]any
		if itemType == richtext.NodeTaskItem {
			attrs = map[string]any{"checked": li.AttrOr("data-checked", "") == "true"}
		}
		items = append(items, container(itemType, attrs, blocks(li)))
	})
	return items
}

func tableRows(sel *goquery.Selection) []*richtext.Node {
	rows := []*richtext.Node{}
	sel.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := []*richtext.Node{}
		tr.ChildrenFiltered("td, th").Each(func(_ int, cell *goquery.Selection) {
			typ := richtext.NodeTableCell
			if goquery.NodeName(cell) == "th" {
				typ = richtext.NodeTableHeader
			}
			var attrs map[string]any
			for _, key := range []string{"colspan", "rowspan"} {
				if v, err := strconv.Atoi(cell.AttrOr(key, "")); err == nil && v > 1 {
					if attrs == nil {
						attrs = map[string]any{}
					}
					attrs[key] = v
				}
			}
			cells = append(cells, container(typ, attrs, blocks(cell)))
		})
		rows = append(rows, container(richtext.NodeTableRow, nil, cells))
	})
	return rows
}

func codeBlock(sel *goquery.Selection) *richtext.Node {
	var attrs map[string]any
	code := sel.ChildrenFiltered("code").First()
	for _, class := range strings.Fields(code.AttrOr("class", "")) {
		if lang, ok := strings.CutPrefix(class, "language-"); ok {
			attrs = map[string]any{"language": lang}
			break
		}
	}
	content := []*richtext.Node{}
	if text := strings.TrimSuffix(sel.Text(), "\n"); text != "" {
		content = append(content, &richtext.Node{Type: richtext.NodeText, Text: text})
	}
	return container(richtext.NodeCodeBlock, attrs, content)
}

func image(sel *goquery.Selection) *richtext.Node {
	attrs := map[string]any{}
	for _, key := range []string{"src", "alt", "title"} {
		if v, ok := sel.Attr(key); ok {
			attrs[key] = v
		}
	}
	if v, err := strconv.Atoi(sel.AttrOr("width", "")); err == nil {
		attrs["width"] = v
	}
	return &richtext.Node{Type: richtext.NodeImage, Attrs: attrs}
}

// inlines appends the inline content of sel's children to out.
func inlines(sel *goquery.Selection, marks []*richtext.Mark, out []*richtext.Node) []*richtext.Node {
	sel.Contents().Each(func(_ int, child *goquery.Selection) {
		out = inline(child, marks, out)
	})
	return out
}

// inline appends sel itself to out, applying marks and sel's own mark.
func inline(sel *goquery.Selection, marks []*richtext.Mark, out []*richtext.Node) []*richtext.Node {
	n := sel.Get(0)
	switch {
	case n.Type == html.TextNode:
		return richtext.AppendText(out, whitespaceRegexp.ReplaceAllString(n.Data, " "), marks)
	case n.Type != html.ElementNode:
		return out
	case n.Data == "br":
		return append(out, &richtext.Node{Type: richtext.NodeHardBreak})
	case n.Data == "img":
		return append(out, image(sel))
	}
	if m := markFor(sel); m != nil {
		marks = withMark(marks, m)
	}
	return inlines(sel, marks, out)
}

func markFor(sel *goquery.Selection) *richtext.Mark {
	switch goquery.NodeName(sel) {
	case "strong", "b":
		return &richtext.Mark{Type: richtext.MarkBold}
	case "em", "i":
		return &richtext.Mark{Type: richtext.MarkItalic}
	case "u":
		return &richtext.Mark{Type: richtext.MarkUnderline}
	case "s", "del", "strike":
		return &richtext.Mark{Type: richtext.MarkStrike}
	case "code":
		return &richtext.Mark{Type: richtext.MarkCode}
	case "sub":
		return &richtext.Mark{Type: richtext.MarkSubscript}
	case "sup":
		return &richtext.Mark{Type: richtext.MarkSuperscript}
	case "mark":
		if color, ok := sel.Attr("data-color"); ok {
			return &richtext.Mark{Type: richtext.MarkHighlight, Attrs: map[string]any{"color": color}}
		}
		return &richtext.Mark{Type: richtext.MarkHighlight}
	case "a":
		attrs := map[string]any{}
		for _, key := range []string{"href", "target", "rel"} {
			if v, ok := sel.Attr(key); ok {
				attrs[key] = v
			}
		}
		return &richtext.Mark{Type: richtext.MarkLink, Attrs: attrs}
	case "span":
		if color := styleProperty(sel, "color"); color != "" {
			return &richtext.Mark{Type: richtext.MarkTextStyle, Attrs: map[string]any{"color": color}}
		}
	}
	return nil
}

// blockAttrs reads the paragraph and heading attributes the renderer writes.
func blockAttrs(sel *goquery.Selection) map[string]any {
	attrs := map[string]any{}
	if align := styleProperty(sel, "text-align"); align != "" {
		attrs["textAlign"] = align
	}
	if dir, ok := sel.Attr("dir"); ok {
		attrs["dir"] = dir
	}
	if indent, err := strconv.Atoi(sel.AttrOr("data-indent", "")); err == nil {
		attrs["indent"] = indent
	}
	if len(attrs) == 0 {
		return nil
	}
	return attrs
}

// styleProperty returns the value of a CSS property in sel's style attribute.
func styleProperty(sel *goquery.Selection, name string) string {
	for _, decl := range strings.Split(sel.AttrOr("style", ""), ";") {
		prop, value, ok := strings.Cut(decl, ":")
		if ok && strings.EqualFold(strings.TrimSpace(prop), name) {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// trimInlines removes leading and trailing whitespace from a run of inline
// nodes, dropping text nodes left empty.
func trimInlines(nodes []*richtext.Node) []*richtext.Node {
	if len(nodes) == 0 {
		return []*richtext.Node{}
	}
	if first := nodes[0]; first.Type == richtext.NodeText {
		first.Text = strings.TrimLeft(first.Text, " ")
		if first.Text == "" {
			nodes = nodes[1:]
		}
	}
	if len(nodes) == 0 {
		return []*richtext.Node{}
	}
	if last := nodes[len(nodes)-1]; last.Type == richtext.NodeText {
		last.Text = strings.TrimRight(last.Text, " ")
		if last.Text == "" {
			nodes = nodes[:len(nodes)-1]
		}
	}
	return nodes
}

func withMark(marks []*richtext.Mark, m *richtext.Mark) []*richtext.Mark {
	out := make([]*richtext.Mark, 0, len(marks)+1)
	out = append(out, marks...)
	return append(out, m)
}

func container(typ string, attrs map[string]any, content []*richtext.Node) *richtext.Node {
	return &richtext.Node{Type: typ, Attrs: attrs, Content: content}
}

func isInline(tag string) bool {
	switch tag {
	case "a", "b", "strong", "i", "em", "u", "s", "del", "strike", "code",
		"sub", "sup", "mark", "span", "br", "small", "abbr", "cite", "q", "kbd":
		return true
	}
	return false
}
