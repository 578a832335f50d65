package main

import (
	"fmt"
	"strings"

	"github.com/remarkablejames/richtext"
)

// Run executes the process command.
func (c *ProcessCmd) Run(deps *Dependencies) error {
	format, err := richtext.ParseFormat(c.Format)
	if err != nil {
		return deps.fail(err)
	}

	doc, err := deps.loadDocument(c.Source)
	if err != nil {
		return deps.fail(err)
	}

	previewer := *deps.Previewer
	previewer.Processor = deps.processor(c.overrides())

	var out string
	if c.Full {
		out, err = previewer.Full(doc, format)
	} else {
		out, err = previewer.Preview(doc, format)
	}
	if err != nil {
		return deps.fail(err)
	}

	fmt.Fprintln(deps.Stdout, out)
	return nil
}

// overrides returns the prompt fields given on the command line.
func (c *ProcessCmd) overrides() richtext.PaywallOverrides {
	return richtext.PaywallOverrides{
		HeadingText:  c.Heading,
		SubtitleText: c.Subtitle,
		LinkText:     c.LinkText,
		LinkURL:      c.LinkURL,
	}
}

// Run executes the check command. Content that is not a valid document
// has no paywall.
func (c *CheckCmd) Run(deps *Dependencies) error {
	data, err := deps.Sources.Fetch(deps.Ctx, c.Source)
	if err != nil {
		return deps.fail(err)
	}
	fmt.Fprintln(deps.Stdout, richtext.HasPaywallSeparatorJSON(data))
	return nil
}

// Run executes the free command.
func (c *FreeCmd) Run(deps *Dependencies) error {
	doc, err := deps.loadDocument(c.Source)
	if err != nil {
		return deps.fail(err)
	}

	nodes, err := deps.processor(richtext.PaywallOverrides{}).FreeContent(doc)
	if err != nil {
		return deps.fail(err)
	}
	return deps.printJSON(nodes)
}

// Run executes the insert command.
func (c *InsertCmd) Run(deps *Dependencies) error {
	doc, err := deps.loadDocument(c.Source)
	if err != nil {
		return deps.fail(err)
	}

	out, err := richtext.InsertPaywallSeparator(doc, c.At)
	if err != nil {
		return deps.fail(err)
	}

	if err := deps.writeDocument(c.Output, out, c.Format); err != nil {
		return deps.fail(err)
	}
	if c.Output != "" {
		fmt.Fprintf(deps.Stdout, "Inserted paywall separator at %d in %s\n", min(max(c.At, 0), len(doc.Content)), c.Output)
	}
	return nil
}

// Run executes the outline command.
func (c *OutlineCmd) Run(deps *Dependencies) error {
	doc, err := deps.loadDocument(c.Source)
	if err != nil {
		return deps.fail(err)
	}

	sections := richtext.Outline(doc.Content)
	if c.JSON {
		if sections == nil {
			sections = []richtext.Section{}
		}
		return deps.printJSON(sections)
	}

	if len(sections) == 0 {
		fmt.Fprintln(deps.Stdout, "No headings found.")
		return nil
	}
	for _, s := range sections {
		fmt.Fprintf(deps.Stdout, "%s%s  #%s\n", strings.Repeat("  ", s.Level-1), s.Title, s.Anchor)
	}
	return nil
}

// Run executes the import command.
func (c *ImportCmd) Run(deps *Dependencies) error {
	doc, err := deps.importDocument(c.Source, c.From, c.Extract)
	if err != nil {
		return deps.fail(err)
	}
	if err := deps.writeDocument(c.Output, doc, c.Format); err != nil {
		return deps.fail(err)
	}
	if c.Output != "" {
		fmt.Fprintf(deps.Stdout, "Imported %d blocks into %s (%d paywall separators)\n",
			len(doc.Content), c.Output, richtext.CountPaywallSeparators(doc))
	}
	return nil
}
