package fs

import (
	"context"
	"os"
	"path/filepath"

	"github.com/remarkablejames/richtext"
)

// Ensure ExportStore implements richtext.DocumentWriter at compile time.
var _ richtext.DocumentWriter = (*ExportStore)(nil)

// ExportStore writes a set of documents with atomic update semantics.
// Documents are written to a temporary directory, then moved into place on
// Commit, so readers never observe a partial export.
type ExportStore struct {
	baseDir string
	name    string
}

// NewExportStore creates a new ExportStore.
// baseDir is the parent directory, name is the output directory name.
// Files are written to baseDir/name.tmp and moved to baseDir/name on Commit.
func NewExportStore(baseDir, name string) *ExportStore {
	return &ExportStore{
		baseDir: baseDir,
		name:    name,
	}
}

func (s *ExportStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *ExportStore) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

// WriteDocument writes doc under name in the temporary directory.
func (s *ExportStore) WriteDocument(ctx context.Context, name string, doc *richtext.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fullPath, err := resolve(s.tempDir(), name)
	if err != nil {
		return err
	}
	return WriteDocument(fullPath, doc)
}

// Commit replaces the output directory with everything written so far.
func (s *ExportStore) Commit() error {
	// Commit with nothing written still produces an empty export.
	if err := os.MkdirAll(s.tempDir(), 0755); err != nil {
		return err
	}

	if err := os.RemoveAll(s.finalDir()); err != nil {
		return err
	}

	return os.Rename(s.tempDir(), s.finalDir())
}

// Abort discards everything written since the store was created.
func (s *ExportStore) Abort() error {
	return os.RemoveAll(s.tempDir())
}
