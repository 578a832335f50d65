package main_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	main "github.com/remarkablejames/richtext/cmd/richtext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	paywalledJSON = `{"type":"doc","content":[{"type":"heading","attrs":{"level":1},"content":[{"type":"text","text":"Title"}]},{"type":"paragraph","content":[{"type":"text","text":"free"}]},{"type":"paywallSeparator"},{"type":"paragraph","content":[{"type":"text","text":"secret"}]}]}`
	openJSON      = `{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"open"}]}]}`
)

var allCommands = []string{"process", "check", "free", "insert", "outline", "import", "batch", "article", "serve"}

// newTestMain returns a Main using a temporary database and no config file.
func newTestMain(t *testing.T) *main.Main {
	t.Helper()
	dir := t.TempDir()
	m := main.NewMain()
	m.DBPath = filepath.Join(dir, "test.db")
	m.ConfigPath = filepath.Join(dir, "absent.yaml")
	return m
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestCLI_HelpShowsAllCommands(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	parser, err := kong.New(cli,
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	require.NoError(t, err)

	_, _ = parser.Parse([]string{"--help"})

	helpOutput := stdout.String()
	for _, cmd := range allCommands {
		assert.Contains(t, helpOutput, cmd, "Help should mention %s command", cmd)
	}
}

func TestMain_Run(t *testing.T) {
	t.Parallel()

	t.Run("help shows kong output", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}

		err := newTestMain(t).Run(context.Background(), []string{"--help"}, nil, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Usage:")
		assert.Contains(t, stdout.String(), "Flags:")
		for _, cmd := range allCommands {
			assert.Contains(t, stdout.String(), cmd)
		}
	})

	t.Run("no arguments returns error", func(t *testing.T) {
		t.Parallel()

		err := newTestMain(t).Run(context.Background(), nil, nil, &bytes.Buffer{}, &bytes.Buffer{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no command specified")
	})

	t.Run("processes document from stdin without creating database", func(t *testing.T) {
		t.Parallel()

		m := newTestMain(t)
		stdout := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"process", "-", "--format", "text"},
			strings.NewReader(paywalledJSON), stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "free")
		assert.Contains(t, stdout.String(), "Continue Reading")
		assert.NotContains(t, stdout.String(), "secret")
		assert.NoFileExists(t, m.DBPath)
	})

	t.Run("accepts an empty prompt flag", func(t *testing.T) {
		t.Parallel()

		m := newTestMain(t)
		stdout := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"process", "-", "--format", "text", "--subtitle", ""},
			strings.NewReader(paywalledJSON), stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Continue Reading")
		assert.NotContains(t, stdout.String(), "Get unlimited access")
	})

	t.Run("applies prompt settings from config file", func(t *testing.T) {
		t.Parallel()

		m := newTestMain(t)
		dir := t.TempDir()
		config := writeFile(t, dir, "richtext.yaml", "paywall:\n  headingText: Members only\n")
		stdout := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"--config", config, "process", "-", "--format", "text"},
			strings.NewReader(paywalledJSON), stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Members only")
		assert.NotContains(t, stdout.String(), "Continue Reading")
	})

	t.Run("fails on invalid config file", func(t *testing.T) {
		t.Parallel()

		m := newTestMain(t)
		config := writeFile(t, t.TempDir(), "richtext.yaml", "unknown: true\n")
		stderr := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"--config", config, "check", "-"},
			strings.NewReader(openJSON), &bytes.Buffer{}, stderr)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "RICHTEXT_CONFIG")
	})

	t.Run("stores and lists articles", func(t *testing.T) {
		t.Parallel()

		m := newTestMain(t)
		doc := writeFile(t, t.TempDir(), "post.json", paywalledJSON)

		stdout := &bytes.Buffer{}
		err := m.Run(context.Background(), []string{"article", "add", "Hello World", doc}, nil, stdout, &bytes.Buffer{})
		require.NoError(t, err)
		assert.Contains(t, stdout.String(), `Added article "hello-world"`)

		list := newTestMain(t)
		list.DBPath = m.DBPath
		stdout.Reset()
		err = list.Run(context.Background(), []string{"article", "list", "--paywalled"}, nil, stdout, &bytes.Buffer{})
		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "hello-world  Hello World  [paywall]")
	})
}

func TestMain_Run_ExtractorFromConfig(t *testing.T) {
	t.Parallel()

	const page = `<!DOCTYPE html>
<html>
<head><title>Why We Ship Weekly</title></head>
<body>
<nav><a href="/home">Home Nav Link</a><a href="/about">About Nav Link</a></nav>
<article>
<h1>Why We Ship Weekly</h1>
<p>This is the important article paragraph text that must be kept in the import.</p>
<p>More content under the heading, long enough to count as a real paragraph of prose.</p>
</article>
<footer><p>Footer copyright text 2024</p></footer>
</body>
</html>`

	for _, name := range []string{"trafilatura", "readability"} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			m := newTestMain(t)
			config := writeFile(t, t.TempDir(), "richtext.yaml", "extractor: "+name+"\n")
			stdout := &bytes.Buffer{}

			err := m.Run(context.Background(), []string{"--config", config, "import", "-", "--from", "html", "--extract"},
				strings.NewReader(page), stdout, &bytes.Buffer{})

			require.NoError(t, err)
			assert.Contains(t, stdout.String(), "important article paragraph text")
			assert.NotContains(t, stdout.String(), "Home Nav Link")
		})
	}
}
