// Package fs provides file-based storage for documents.
package fs

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/remarkablejames/richtext"
)

// Extension is the file extension of stored documents.
const Extension = ".json"

// SourceName converts a document source to a relative storage name.
// URLs map to their path, files to their base name, both with Extension.
// Example: https://example.com/blog/post → blog/post.json
func SourceName(source string) (string, error) {
	if u, err := url.Parse(source); err == nil && u.Scheme != "" && u.Host != "" {
		p := strings.TrimPrefix(u.Path, "/")
		switch {
		case p == "":
			return "index" + Extension, nil
		case strings.HasSuffix(p, "/"):
			return p + "index" + Extension, nil
		}
		return strings.TrimSuffix(p, path.Ext(p)) + Extension, nil
	}

	base := filepath.Base(source)
	if base == "." || base == string(filepath.Separator) || base == "-" {
		return "", richtext.Errorf(richtext.EINVALID, "cannot derive a name from %q", source)
	}
	return strings.TrimSuffix(base, filepath.Ext(base)) + Extension, nil
}

// ReadDocument reads and validates the document stored at path.
// Returns ENOTFOUND if the file does not exist.
func ReadDocument(path string) (*richtext.Document, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, richtext.Errorf(richtext.ENOTFOUND, "document %s not found", path)
	}
	if err != nil {
		return nil, err
	}
	return richtext.ParseDocument(data)
}

// WriteDocument writes doc as indented JSON to path, creating parent
// directories. The file is replaced atomically.
func WriteDocument(path string, doc *richtext.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return WriteFile(path, append(data, '\n'))
}

// WriteFile writes data to path, creating parent directories. The file is
// replaced atomically.
func WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// resolve joins name onto dir, rejecting names that escape it.
func resolve(dir, name string) (string, error) {
	if name == "" || !filepath.IsLocal(name) {
		return "", richtext.Errorf(richtext.EINVALID, "invalid document name %q", name)
	}
	return filepath.Join(dir, name), nil
}

// Ensure Writer implements richtext.DocumentWriter at compile time.
var _ richtext.DocumentWriter = (*Writer)(nil)

// Writer writes documents as JSON files to a directory.
type Writer struct {
	baseDir string
}

// NewWriter creates a new Writer that writes to the given base directory.
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir}
}

// WriteDocument writes doc to name relative to the base directory.
func (w *Writer) WriteDocument(ctx context.Context, name string, doc *richtext.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fullPath, err := resolve(w.baseDir, name)
	if err != nil {
		return err
	}
	return WriteDocument(fullPath, doc)
}
