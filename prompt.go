package richtext

// Colors of the generated prompt text.
const (
	SubtitleColor = "#6b7280"
	LinkColor     = "#3b82f6"
)

// membershipPrompt builds the nodes appended in place of paywalled content.
func membershipPrompt(cfg PaywallConfig) []*Node {
	return []*Node{
		spacerParagraph(),
		centeredHeading(cfg.HeadingText),
		centeredSubtitle(cfg.SubtitleText),
		centeredLink(cfg.LinkText, cfg.LinkURL),
		spacerParagraph(),
	}
}

// blockAttrs mirrors the attributes the editor puts on every paragraph and
// heading. A nil align produces a null textAlign.
func blockAttrs(align any) map[string]any {
	return map[string]any{
		"textAlign":  align,
		"indent":     0,
		"lineHeight": nil,
		"dir":        "auto",
	}
}

func spacerParagraph() *Node {
	return &Node{
		Type:    NodeParagraph,
		Attrs:   blockAttrs(nil),
		Content: []*Node{},
	}
}

func centeredHeading(text string) *Node {
	attrs := blockAttrs("center")
	attrs["level"] = 2
	return &Node{
		Type:    NodeHeading,
		Attrs:   attrs,
		Content: []*Node{{Type: NodeText, Text: text}},
	}
}

func centeredSubtitle(text string) *Node {
	return &Node{
		Type:  NodeParagraph,
		Attrs: blockAttrs("center"),
		Content: []*Node{{
			Type:  NodeText,
			Text:  text,
			Marks: []*Mark{colorMark(SubtitleColor)},
		}},
	}
}

func centeredLink(text, url string) *Node {
	return &Node{
		Type:  NodeParagraph,
		Attrs: blockAttrs("center"),
		Content: []*Node{{
			Type: NodeText,
			Text: text,
			Marks: []*Mark{
				{
					Type: MarkLink,
					Attrs: map[string]any{
						"href":   url,
						"target": "_blank",
						"rel":    "noopener noreferrer nofollow",
					},
				},
				colorMark(LinkColor),
			},
		}},
	}
}

func colorMark(color string) *Mark {
	return &Mark{Type: MarkTextStyle, Attrs: map[string]any{"color": color}}
}
