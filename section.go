package richtext

import (
	"strconv"
	"strings"
	"unicode"
)

// Section represents a heading in a document.
type Section struct {
	Level  int    `json:"level"`
	Title  string `json:"title"`
	Anchor string `json:"anchor"`
}

// Outline returns every heading in nodes, in document order, including
// headings nested in containers such as blockquotes or table cells.
// It generates URL-safe anchors and handles duplicates with numeric suffixes.
func Outline(nodes []*Node) []Section {
	var sections []Section
	anchorCounts := make(map[string]int)

	var walk func(nodes []*Node)
	walk = func(nodes []*Node) {
		for _, n := range nodes {
			if n == nil {
				continue
			}
			if n.Type != NodeHeading {
				walk(n.Content)
				continue
			}

			title := strings.TrimSpace(PlainText(n.Content))
			if title == "" {
				continue
			}
			baseAnchor := generateAnchor(title)

			// Handle duplicates
			anchor := baseAnchor
			if count, exists := anchorCounts[baseAnchor]; exists {
				anchor = baseAnchor + "-" + strconv.Itoa(count)
				anchorCounts[baseAnchor]++
			} else {
				anchorCounts[baseAnchor] = 1
			}

			sections = append(sections, Section{
				Level:  headingLevel(n),
				Title:  title,
				Anchor: anchor,
			})
		}
	}
	walk(nodes)

	return sections
}

// headingLevel returns the heading's level clamped to 1-6.
func headingLevel(n *Node) int {
	return max(1, min(AttrInt(n.Attrs, "level"), 6))
}

// generateAnchor creates a URL-safe anchor from a title.
// Converts to lowercase, replaces spaces with hyphens, removes special chars.
func generateAnchor(title string) string {
	var sb strings.Builder
	prevHyphen := false

	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			prevHyphen = false
		} else if unicode.IsSpace(r) || r == '-' {
			if !prevHyphen && sb.Len() > 0 {
				sb.WriteRune('-')
				prevHyphen = true
			}
		}
	}

	result := sb.String()
	// Trim trailing hyphen
	return strings.TrimSuffix(result, "-")
}

// PlainText returns the text of nodes. Text within a block is concatenated;
// blocks are separated by blank lines and hard breaks become newlines.
func PlainText(nodes []*Node) string {
	var blocks []string
	var inline strings.Builder

	flush := func() {
		if s := strings.TrimSpace(inline.String()); s != "" {
			blocks = append(blocks, s)
		}
		inline.Reset()
	}

	var walk func(nodes []*Node)
	walk = func(nodes []*Node) {
		for _, n := range nodes {
			if n == nil {
				continue
			}
			switch {
			case n.Type == NodeText:
				inline.WriteString(n.Text)
			case n.Type == NodeHardBreak:
				inline.WriteString("\n")
			case n.HasContent():
				if isTextBlock(n) {
					flush()
					walk(n.Content)
					flush()
				} else {
					walk(n.Content)
				}
			}
		}
	}
	walk(nodes)
	flush()

	return strings.Join(blocks, "\n\n")
}

// isTextBlock reports whether n holds inline content directly.
func isTextBlock(n *Node) bool {
	switch n.Type {
	case NodeParagraph, NodeHeading, NodeCodeBlock:
		return true
	}
	for _, c := range n.Content {
		if c != nil && c.Type == NodeText {
			return true
		}
	}
	return false
}
