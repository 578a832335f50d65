package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/remarkablejames/richtext"
	"github.com/remarkablejames/richtext/fs"
)

// Compile-time interface verification.
var _ richtext.Fetcher = (*SourceLoader)(nil)

// Import formats accepted by --from.
const (
	FromAuto     = "auto"
	FromJSON     = "json"
	FromHTML     = "html"
	FromMarkdown = "markdown"
)

// SourceLoader implements richtext.Fetcher over local files, standard
// input ("-") and http(s) URLs.
type SourceLoader struct {
	Stdin   io.Reader
	Fetcher richtext.Fetcher
}

// Fetch returns the raw bytes of source.
func (l *SourceLoader) Fetch(ctx context.Context, source string) ([]byte, error) {
	switch {
	case source == "-":
		if l.Stdin == nil {
			return nil, richtext.Errorf(richtext.EINVALID, "standard input is not available")
		}
		return io.ReadAll(l.Stdin)
	case isURL(source):
		if l.Fetcher == nil {
			return nil, richtext.Errorf(richtext.EINVALID, "remote sources are not supported")
		}
		return l.Fetcher.Fetch(ctx, source)
	}

	data, err := os.ReadFile(source)
	if errors.Is(err, os.ErrNotExist) {
		return nil, richtext.Errorf(richtext.ENOTFOUND, "%s not found", source)
	}
	return data, err
}

func isURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// loadDocument reads and validates the JSON document at source.
func (d *Dependencies) loadDocument(source string) (*richtext.Document, error) {
	data, err := d.Sources.Fetch(d.Ctx, source)
	if err != nil {
		return nil, err
	}
	return richtext.ParseDocument(data)
}

// importDocument reads source and converts it to a document according to
// from. FromAuto picks the importer by file extension, then by content.
// With extract, HTML input is reduced to its main article first.
func (d *Dependencies) importDocument(source, from string, extract bool) (*richtext.Document, error) {
	data, err := d.Sources.Fetch(d.Ctx, source)
	if err != nil {
		return nil, err
	}
	if from == FromAuto {
		from = detectFormat(source, data)
	}
	if from == FromJSON {
		return richtext.ParseDocument(data)
	}

	importer, ok := d.Importers[from]
	if !ok {
		return nil, richtext.Errorf(richtext.EINVALID, "unsupported input format %q", from)
	}

	src := string(data)
	if extract {
		if from != FromHTML {
			return nil, richtext.Errorf(richtext.EINVALID, "article extraction requires HTML input")
		}
		if d.Extractor == nil {
			return nil, richtext.Errorf(richtext.EINTERNAL, "article extraction not configured")
		}
		result, err := d.Extractor.Extract(src)
		if err != nil {
			return nil, err
		}
		src = result.ContentHTML
	}
	return importer.Import(src)
}

func detectFormat(source string, data []byte) string {
	switch strings.ToLower(filepath.Ext(source)) {
	case ".json":
		return FromJSON
	case ".html", ".htm":
		return FromHTML
	case ".md", ".markdown":
		return FromMarkdown
	}
	switch trimmed := strings.TrimSpace(string(data)); {
	case strings.HasPrefix(trimmed, "{"):
		return FromJSON
	case strings.HasPrefix(trimmed, "<") && !strings.HasPrefix(trimmed, richtext.PaywallComment):
		return FromHTML
	}
	return FromMarkdown
}

// writeDocument writes doc in format to path, or to stdout when path is
// empty. Formats other than JSON are exported with separators kept.
func (d *Dependencies) writeDocument(path string, doc *richtext.Document, format string) error {
	f, err := richtext.ParseFormat(format)
	if err != nil {
		return err
	}
	if f == richtext.FormatJSON {
		if path == "" {
			return d.printJSON(doc)
		}
		return fs.WriteDocument(path, doc)
	}

	out, err := d.Previewer.Export(doc, f)
	if err != nil {
		return err
	}
	if path == "" {
		_, err = fmt.Fprintln(d.Stdout, out)
		return err
	}
	return fs.WriteFile(path, []byte(out+"\n"))
}

// expandSources replaces directories with the documents they contain.
// Files and URLs are kept as given.
func expandSources(sources []string) ([]string, error) {
	var out []string
	for _, source := range sources {
		if source == "-" || isURL(source) {
			out = append(out, source)
			continue
		}
		info, err := os.Stat(source)
		if err != nil || !info.IsDir() {
			out = append(out, source)
			continue
		}
		matches, err := filepath.Glob(filepath.Join(source, "*"+fs.Extension))
		if err != nil {
			return nil, err
		}
		out = append(out, matches...)
	}
	return out, nil
}
