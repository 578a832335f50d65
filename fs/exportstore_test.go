package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/remarkablejames/richtext/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Story: Atomic Export
// The store uses a temp directory so an export appears all at once

func TestExportStore_WriteGoesToTempDirectory(t *testing.T) {
	t.Parallel()

	// Given a store targeting a directory
	base := t.TempDir()
	store := fs.NewExportStore(base, "output")

	// When I write a document
	err := store.WriteDocument(context.Background(), "blog/post.json", testDoc())

	// Then no error occurs
	require.NoError(t, err)

	// And the file exists in the temp directory
	_, err = os.Stat(filepath.Join(base, "output.tmp", "blog", "post.json"))
	require.NoError(t, err, "file should exist in temp directory")

	// And the final directory does not exist yet
	_, err = os.Stat(filepath.Join(base, "output"))
	assert.True(t, os.IsNotExist(err), "final directory should not exist until commit")
}

func TestExportStore_CommitReplacesFinalDirectory(t *testing.T) {
	t.Parallel()

	// Given an existing export with a stale file
	base := t.TempDir()
	stale := filepath.Join(base, "output", "stale.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0755))
	require.NoError(t, os.WriteFile(stale, []byte("{}"), 0644))

	// And a store with a new document
	store := fs.NewExportStore(base, "output")
	require.NoError(t, store.WriteDocument(context.Background(), "fresh.json", testDoc()))

	// When I commit
	require.NoError(t, store.Commit())

	// Then the new document is in place
	_, err := fs.ReadDocument(filepath.Join(base, "output", "fresh.json"))
	require.NoError(t, err)

	// And the stale file and temp directory are gone
	_, err = os.Stat(stale)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(base, "output.tmp"))
	assert.True(t, os.IsNotExist(err))
}

func TestExportStore_CommitWithoutWrites(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	store := fs.NewExportStore(base, "output")

	require.NoError(t, store.Commit())

	info, err := os.Stat(filepath.Join(base, "output"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestExportStore_AbortRemovesTempDirectory(t *testing.T) {
	t.Parallel()

	// Given a store with a written document
	base := t.TempDir()
	store := fs.NewExportStore(base, "output")
	require.NoError(t, store.WriteDocument(context.Background(), "a.json", testDoc()))

	// When I abort
	require.NoError(t, store.Abort())

	// Then nothing is left behind
	entries, err := os.ReadDir(base)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
