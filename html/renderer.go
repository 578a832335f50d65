// Package html renders rich-text documents as HTML using golang.org/x/net/html.
package html

import (
	"strconv"
	"strings"

	"github.com/remarkablejames/richtext"
	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Ensure Renderer implements richtext.Renderer at compile time.
var _ richtext.Renderer = (*Renderer)(nil)

// Renderer renders documents the way the editor serializes them, so a
// rendered preview is indistinguishable from ordinary content.
type Renderer struct{}

// NewRenderer creates a new Renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render returns the HTML fragment for doc's content.
func (r *Renderer) Render(doc *richtext.Document) (string, error) {
	if err := doc.Validate(); err != nil {
		return "", err
	}

	var b strings.Builder
	for _, n := range doc.Content {
		el := renderNode(n)
		if el == nil {
			continue
		}
		if err := xhtml.Render(&b, el); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

func renderNode(n *richtext.Node) *xhtml.Node {
	if n == nil || n.IsOpaque() {
		return nil
	}

	var el *xhtml.Node
	switch n.Type {
	case richtext.NodeText:
		return renderText(n)
	case richtext.NodeParagraph:
		el = element("p", blockAttrs(n)...)
	case richtext.NodeHeading:
		level := max(1, min(richtext.AttrInt(n.Attrs, "level"), 6))
		el = element("h"+strconv.Itoa(level), blockAttrs(n)...)
	case richtext.NodeBlockquote:
		el = element("blockquote")
	case richtext.NodeBulletList:
		el = element("ul")
	case richtext.NodeOrderedList:
		el = element("ol")
		if start := richtext.AttrInt(n.Attrs, "start"); start > 1 {
			el.Attr = append(el.Attr, attr("start", strconv.Itoa(start)))
		}
	case richtext.NodeListItem:
		el = element("li")
	case richtext.NodeTaskList:
		el = element("ul", attr("data-type", "taskList"))
	case richtext.NodeTaskItem:
		el = element("li",
			attr("data-type", "taskItem"),
			attr("data-checked", strconv.FormatBool(richtext.AttrBool(n.Attrs, "checked"))),
		)
	case richtext.NodeCodeBlock:
		code := element("code")
		if lang := richtext.AttrString(n.Attrs, "language"); lang != "" {
			code.Attr = append(code.Attr, attr("class", "language-"+lang))
		}
		appendChildren(code, n.Content)
		pre := element("pre")
		pre.AppendChild(code)
		return pre
	case richtext.NodeHardBreak:
		return element("br")
	case richtext.NodeImage:
		return element("img", optionalAttrs(n.Attrs, "src", "alt", "title", "width")...)
	case richtext.NodeHorizontalRule:
		el = element("div", attr("data-type", richtext.NodeHorizontalRule))
		el.AppendChild(element("hr"))
		return el
	case richtext.NodePaywallSeparator:
		return element("hr", attr("data-paywall", "true"))
	case richtext.NodeTable:
		el = element("table")
	case richtext.NodeTableRow:
		el = element("tr")
	case richtext.NodeTableCell:
		el = element("td", cellAttrs(n)...)
	case richtext.NodeTableHeader:
		el = element("th", cellAttrs(n)...)
	default:
		// Kinds defined by editor extensions keep their children visible.
		el = element("div", attr("data-type", n.Type))
	}

	appendChildren(el, n.Content)
	return el
}

func appendChildren(el *xhtml.Node, children []*richtext.Node) {
	for _, c := range children {
		if child := renderNode(c); child != nil {
			el.AppendChild(child)
		}
	}
}

// renderText wraps a text node in one element per mark. The first mark is
// outermost.
func renderText(n *richtext.Node) *xhtml.Node {
	out := &xhtml.Node{Type: xhtml.TextNode, Data: n.Text}
	for i := len(n.Marks) - 1; i >= 0; i-- {
		wrapper := markElement(n.Marks[i])
		if wrapper == nil {
			continue
		}
		wrapper.AppendChild(out)
		out = wrapper
	}
	return out
}

func markElement(m *richtext.Mark) *xhtml.Node {
	if m == nil {
		return nil
	}
	switch m.Type {
	case richtext.MarkBold:
		return element("strong")
	case richtext.MarkItalic:
		return element("em")
	case richtext.MarkUnderline:
		return element("u")
	case richtext.MarkStrike:
		return element("s")
	case richtext.MarkCode:
		return element("code")
	case richtext.MarkSubscript:
		return element("sub")
	case richtext.MarkSuperscript:
		return element("sup")
	case richtext.MarkLink:
		return element("a", optionalAttrs(m.Attrs, "href", "target", "rel")...)
	case richtext.MarkTextStyle:
		style := styleAttr(
			"color", richtext.AttrString(m.Attrs, "color"),
			"font-size", richtext.AttrString(m.Attrs, "fontSize"),
			"font-family", richtext.AttrString(m.Attrs, "fontFamily"),
		)
		if style == nil {
			return nil
		}
		return element("span", *style)
	case richtext.MarkHighlight:
		color := richtext.AttrString(m.Attrs, "color")
		if color == "" {
			return element("mark")
		}
		return element("mark", attr("data-color", color), *styleAttr("background-color", color))
	}
	return nil
}

// blockAttrs maps the editor's paragraph and heading attributes.
func blockAttrs(n *richtext.Node) []xhtml.Attribute {
	var attrs []xhtml.Attribute
	style := styleAttr(
		"text-align", richtext.AttrString(n.Attrs, "textAlign"),
		"line-height", richtext.AttrString(n.Attrs, "lineHeight"),
	)
	if style != nil {
		attrs = append(attrs, *style)
	}
	if dir := richtext.AttrString(n.Attrs, "dir"); dir != "" {
		attrs = append(attrs, attr("dir", dir))
	}
	if indent := richtext.AttrInt(n.Attrs, "indent"); indent > 0 {
		attrs = append(attrs, attr("data-indent", strconv.Itoa(indent)))
	}
	return attrs
}

func cellAttrs(n *richtext.Node) []xhtml.Attribute {
	var attrs []xhtml.Attribute
	for _, key := range []string{"colspan", "rowspan"} {
		if v := richtext.AttrInt(n.Attrs, key); v > 1 {
			attrs = append(attrs, attr(key, strconv.Itoa(v)))
		}
	}
	if style := styleAttr("background-color", richtext.AttrString(n.Attrs, "backgroundColor")); style != nil {
		attrs = append(attrs, *style)
	}
	return attrs
}

// styleAttr builds a style attribute from property/value pairs, skipping
// empty values. It returns nil when every value is empty.
func styleAttr(pairs ...string) *xhtml.Attribute {
	var decls []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] != "" {
			decls = append(decls, pairs[i]+": "+pairs[i+1])
		}
	}
	if len(decls) == 0 {
		return nil
	}
	a := attr("style", strings.Join(decls, "; "))
	return &a
}

func optionalAttrs(attrs map[string]any, keys ...string) []xhtml.Attribute {
	var out []xhtml.Attribute
	for _, key := range keys {
		switch v := attrs[key].(type) {
		case string:
			if v != "" {
				out = append(out, attr(key, v))
			}
		case float64:
			out = append(out, attr(key, strconv.FormatFloat(v, 'f', -1, 64)))
		case int:
			out = append(out, attr(key, strconv.Itoa(v)))
		}
	}
	return out
}

func element(tag string, attrs ...xhtml.Attribute) *xhtml.Node {
	return &xhtml.Node{
		Type:     xhtml.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
		Attr:     attrs,
	}
}

func attr(key, val string) xhtml.Attribute {
	return xhtml.Attribute{Key: key, Val: val}
}
