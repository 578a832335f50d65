package main

import (
	"fmt"
	"path/filepath"

	"github.com/remarkablejames/richtext"
	"github.com/remarkablejames/richtext/batch"
	"github.com/remarkablejames/richtext/fs"
)

// Run executes the batch command. Without --merge the output directory is
// replaced only when at least one document was processed.
func (c *BatchCmd) Run(deps *Dependencies) error {
	sources, err := expandSources(c.Sources)
	if err != nil {
		return deps.fail(err)
	}
	if len(sources) == 0 {
		return deps.fail(richtext.Errorf(richtext.EINVALID, "no documents found"))
	}

	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = deps.Config.Concurrency
	}

	var writer richtext.DocumentWriter
	var store *fs.ExportStore
	if c.Merge {
		writer = fs.NewWriter(c.Out)
	} else {
		out := filepath.Clean(c.Out)
		store = fs.NewExportStore(filepath.Dir(out), filepath.Base(out))
		writer = store
	}

	runner := &batch.Runner{
		Fetcher:     deps.Sources,
		Processor:   deps.processor(richtext.PaywallOverrides{}),
		Writer:      writer,
		Name:        fs.SourceName,
		Concurrency: concurrency,
	}
	if deps.Config.FetchRate > 0 {
		runner.Limiter = batch.NewDomainLimiter(deps.Config.FetchRate)
	}
	if deps.Logger != nil {
		runner.Log = func(format string, args ...any) {
			deps.Logger.Warn(fmt.Sprintf(format, args...))
		}
	}

	progress := func(event batch.ProgressEvent) {
		switch event.Type {
		case batch.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "  Found %d documents\n", event.Total)
		case batch.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skip %s: %s\n", batch.TruncateSource(event.Source, 60), errorText(event.Error))
		}
	}

	result, err := runner.Run(deps.Ctx, sources, progress)
	if err != nil {
		if store != nil {
			_ = store.Abort()
		}
		fmt.Fprintf(deps.Stderr, "error processing: %v\n", err)
		return err
	}

	if store != nil {
		if result.Processed == 0 {
			_ = store.Abort()
			return deps.fail(richtext.Errorf(richtext.EINVALID, "no documents processed"))
		}
		if err := store.Commit(); err != nil {
			return deps.fail(err)
		}
	}

	fmt.Fprintf(deps.Stdout, "  Processed %d documents (%d with paywall, %d failed) into %s\n",
		result.Processed, result.WithPaywall, result.Failed, c.Out)
	return nil
}

// errorText returns the message of application errors and the full text of
// anything else.
func errorText(err error) string {
	if richtext.ErrorCode(err) == richtext.EINTERNAL {
		return err.Error()
	}
	return richtext.ErrorMessage(err)
}
