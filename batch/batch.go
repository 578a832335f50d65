// Package batch applies the paywall to many documents concurrently.
// It coordinates loading, processing, and storage of each source.
package batch

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/remarkablejames/richtext"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of sources processed at once when
// Runner.Concurrency is not set.
const DefaultConcurrency = 10

// NameFunc derives the storage name of a source.
type NameFunc func(source string) (string, error)

// Runner processes sources and writes the paywalled results.
type Runner struct {
	Fetcher     richtext.Fetcher
	Processor   richtext.PaywallProcessor
	Writer      richtext.DocumentWriter
	Name        NameFunc
	Concurrency int
	RetryDelays []time.Duration

	// Limiter, when set, throttles fetches of URL sources per host.
	Limiter richtext.DomainLimiter

	// Log, when set, receives a line for every retried fetch.
	Log LogFunc
}

// Result holds the outcome of a batch run.
type Result struct {
	Processed   int
	WithPaywall int
	Failed      int

	// Items holds one entry per source, in source order.
	Items []Item
}

// Item is the outcome for one source.
type Item struct {
	Source     string
	Name       string
	HasPaywall bool
	Err        error
}

// ProgressEvent reports progress during a batch run.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	Source    string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting batch progress.
type ProgressFunc func(event ProgressEvent)

// Run processes every source. Failures of individual sources are recorded
// in the result; the returned error is non-nil only when ctx ends the run.
// The progress callback, if provided, is called from a single goroutine.
func (r *Runner) Run(ctx context.Context, sources []string, progress ProgressFunc) (*Result, error) {
	concurrency := r.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	total := len(sources)
	items := make([]Item, total)
	names := r.assignNames(sources, items)

	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: total})
	}

	type done struct {
		position int
		item     Item
	}
	resultCh := make(chan done, total)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, source := range sources {
			if items[i].Err != nil {
				resultCh <- done{position: i, item: items[i]}
				continue
			}
			g.Go(func() error {
				resultCh <- done{position: i, item: r.processSource(gctx, source, names[i])}
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	var completed atomic.Int64
	result := &Result{Items: items}
	for d := range resultCh {
		completed.Add(1)
		items[d.position] = d.item

		event := ProgressEvent{
			Type:      ProgressCompleted,
			Completed: int(completed.Load()),
			Total:     total,
			Source:    d.item.Source,
		}
		if d.item.Err != nil {
			result.Failed++
			event.Type = ProgressFailed
			event.Error = d.item.Err
		} else {
			result.Processed++
			if d.item.HasPaywall {
				result.WithPaywall++
			}
		}
		if progress != nil {
			progress(event)
		}
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	}

	return result, ctx.Err()
}

// assignNames derives a storage name per source. Sources whose name
// cannot be derived or collides with an earlier source fail up front.
func (r *Runner) assignNames(sources []string, items []Item) []string {
	names := make([]string, len(sources))
	seen := make(map[string]string, len(sources))
	for i, source := range sources {
		items[i].Source = source

		name, err := r.Name(source)
		if err != nil {
			items[i].Err = err
			continue
		}
		if prev, ok := seen[name]; ok {
			items[i].Err = richtext.Errorf(richtext.ECONFLICT, "%s and %s both map to %s", prev, source, name)
			continue
		}
		seen[name] = source
		names[i] = name
		items[i].Name = name
	}
	return names
}

// fetch waits for the source's host limiter, then fetches it.
func (r *Runner) fetch(ctx context.Context, source string) ([]byte, error) {
	if host := sourceHost(source); host != "" && r.Limiter != nil {
		if err := r.Limiter.Wait(ctx, host); err != nil {
			return nil, err
		}
	}
	return r.Fetcher.Fetch(ctx, source)
}

// processSource loads, processes, and writes a single source.
func (r *Runner) processSource(ctx context.Context, source, name string) Item {
	item := Item{Source: source, Name: name}

	delays := r.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	body, err := FetchWithRetryDelays(ctx, source, r.fetch, r.Log, delays)
	if err != nil {
		item.Err = err
		return item
	}

	doc, err := richtext.ParseDocument(body)
	if err != nil {
		item.Err = err
		return item
	}
	item.HasPaywall = r.Processor.HasPaywallSeparator(doc)

	processed, err := r.Processor.Process(doc)
	if err != nil {
		item.Err = err
		return item
	}

	if err := r.Writer.WriteDocument(ctx, name, processed); err != nil {
		item.Err = err
	}
	return item
}
