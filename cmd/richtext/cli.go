package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/remarkablejames/richtext"
	richtexthttp "github.com/remarkablejames/richtext/http"
	rtslog "github.com/remarkablejames/richtext/slog"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Config richtext.Config
	Logger *slog.Logger

	// Sources loads documents from files, URLs or standard input.
	Sources   richtext.Fetcher
	Previewer *richtext.Previewer
	Importers map[string]richtext.Importer
	Extractor richtext.Extractor
	Articles  richtext.ArticleService
	Limiter   *richtexthttp.ClientLimiter
}

// processor returns a paywall processor using the configured prompt with
// o applied over it.
func (d *Dependencies) processor(o richtext.PaywallOverrides) richtext.PaywallProcessor {
	var p richtext.PaywallProcessor = richtext.NewProcessor(d.Config.PaywallConfig().Apply(o))
	if d.Logger != nil {
		p = rtslog.NewLoggingProcessor(p, d.Logger)
	}
	return p
}

// fail reports err on stderr and returns it.
func (d *Dependencies) fail(err error) error {
	fmt.Fprintf(d.Stderr, "error: %s\n", errorText(err))
	return err
}

// printJSON writes v to stdout as indented JSON.
func (d *Dependencies) printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(d.Stdout, string(b))
	return err
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config  string `help:"Path to the YAML config file" type:"path" env:"RICHTEXT_CONFIG"`
	Verbose bool   `short:"v" help:"Enable debug logging"`

	Process ProcessCmd `cmd:"" help:"Apply the paywall to a document"`
	Check   CheckCmd   `cmd:"" help:"Report whether a document has a paywall separator"`
	Free    FreeCmd    `cmd:"" help:"Print the content before the paywall separator"`
	Insert  InsertCmd  `cmd:"" help:"Insert a paywall separator into a document"`
	Outline OutlineCmd `cmd:"" help:"List the headings of a document"`
	Import  ImportCmd  `cmd:"" help:"Convert HTML or Markdown into a document"`
	Batch   BatchCmd   `cmd:"" help:"Apply the paywall to many documents"`
	Article ArticleCmd `cmd:"" help:"Manage stored articles"`
	Serve   ServeCmd   `cmd:"" help:"Run the HTTP API server"`
}

// ProcessCmd is the "process" subcommand.
// Prompt flags are pointers so that an explicitly empty value still
// overrides the configured text.
type ProcessCmd struct {
	Source   string  `arg:"" help:"Document file, URL, or - for stdin"`
	Heading  *string `help:"Membership prompt heading"`
	Subtitle *string `help:"Membership prompt subtitle"`
	LinkText *string `name:"link-text" help:"Membership prompt link text"`
	LinkURL  *string `name:"link-url" help:"Membership prompt link URL"`
	Format   string  `short:"f" default:"json" help:"Output format (json, html, markdown, text)"`
	Full     bool    `help:"Output the subscriber rendition without truncation"`
}

// CheckCmd is the "check" subcommand.
type CheckCmd struct {
	Source string `arg:"" help:"Document file, URL, or - for stdin"`
}

// FreeCmd is the "free" subcommand.
type FreeCmd struct {
	Source string `arg:"" help:"Document file, URL, or - for stdin"`
}

// InsertCmd is the "insert" subcommand.
type InsertCmd struct {
	Source string `arg:"" help:"Document file, URL, or - for stdin"`
	At     int    `required:"" help:"Top-level position of the separator"`
	Output string `short:"o" type:"path" help:"Write the document to a file instead of stdout"`
	Format string `short:"f" default:"json" help:"Output format (json, html, markdown, text)"`
}

// OutlineCmd is the "outline" subcommand.
type OutlineCmd struct {
	Source string `arg:"" help:"Document file, URL, or - for stdin"`
	JSON   bool   `help:"Print sections as JSON"`
}

// ImportCmd is the "import" subcommand.
type ImportCmd struct {
	Source  string `arg:"" help:"HTML or Markdown file, URL, or - for stdin"`
	From    string `default:"auto" enum:"auto,html,markdown" help:"Input format (auto, html, markdown)"`
	Extract bool   `help:"Keep only the main article of an HTML page"`
	Output  string `short:"o" type:"path" help:"Write the document to a file instead of stdout"`
	Format  string `short:"f" default:"json" help:"Output format (json, html, markdown, text)"`
}

// BatchCmd is the "batch" subcommand.
type BatchCmd struct {
	Sources     []string `arg:"" help:"Document files, directories of documents, or URLs"`
	Out         string   `required:"" type:"path" help:"Directory receiving the processed documents"`
	Merge       bool     `help:"Add to the output directory instead of replacing it"`
	Concurrency int      `short:"c" help:"Documents processed in parallel (defaults to the config value)"`
}

// ArticleCmd groups the article subcommands.
type ArticleCmd struct {
	Add     ArticleAddCmd     `cmd:"" help:"Store a document as an article"`
	List    ArticleListCmd    `cmd:"" help:"List stored articles"`
	Show    ArticleShowCmd    `cmd:"" help:"Print an article's document"`
	Preview ArticlePreviewCmd `cmd:"" help:"Render an article as readers see it"`
	Delete  ArticleDeleteCmd  `cmd:"" help:"Delete an article"`
}

// ArticleAddCmd is the "article add" subcommand.
type ArticleAddCmd struct {
	Title   string `arg:"" help:"Article title"`
	Source  string `arg:"" help:"Document file, URL, or - for stdin"`
	Slug    string `help:"URL slug (derived from the title by default)"`
	From    string `default:"json" enum:"json,html,markdown" help:"Input format (json, html, markdown)"`
	Extract bool   `help:"Keep only the main article of an HTML page"`
}

// ArticleListCmd is the "article list" subcommand.
type ArticleListCmd struct {
	Paywalled bool `help:"Only list articles with a paywall"`
	Limit     int  `help:"Maximum number of articles"`
}

// ArticleShowCmd is the "article show" subcommand.
type ArticleShowCmd struct {
	Ref    string `arg:"" help:"Article ID or slug"`
	Format string `short:"f" default:"json" help:"Output format (json, html, markdown, text)"`
}

// ArticlePreviewCmd is the "article preview" subcommand.
type ArticlePreviewCmd struct {
	Ref    string `arg:"" help:"Article ID or slug"`
	Format string `short:"f" default:"html" help:"Output format (json, html, markdown, text)"`
	Full   bool   `help:"Render the subscriber rendition without truncation"`
}

// ArticleDeleteCmd is the "article delete" subcommand.
type ArticleDeleteCmd struct {
	Ref   string `arg:"" help:"Article ID or slug"`
	Force bool   `help:"Confirm deletion"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `help:"Listen address (defaults to the config value)"`
}
