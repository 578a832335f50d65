package slog

import (
	"log/slog"
	"time"

	"github.com/remarkablejames/richtext"
)

// Ensure LoggingProcessor implements richtext.PaywallProcessor.
var _ richtext.PaywallProcessor = (*LoggingProcessor)(nil)

// LoggingProcessor wraps a PaywallProcessor with debug logging.
type LoggingProcessor struct {
	next   richtext.PaywallProcessor
	logger *slog.Logger
}

// NewLoggingProcessor creates a new LoggingProcessor.
func NewLoggingProcessor(next richtext.PaywallProcessor, logger *slog.Logger) *LoggingProcessor {
	return &LoggingProcessor{next: next, logger: logger}
}

// Process delegates to the wrapped processor and logs block counts before
// and after truncation.
func (p *LoggingProcessor) Process(doc *richtext.Document) (out *richtext.Document, err error) {
	defer func(begin time.Time) {
		p.logger.Debug("paywall process",
			"blocks_in", blockCount(doc),
			"blocks_out", blockCount(out),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.Process(doc)
}

// HasPaywallSeparator delegates to the wrapped processor.
func (p *LoggingProcessor) HasPaywallSeparator(doc *richtext.Document) bool {
	return p.next.HasPaywallSeparator(doc)
}

// FreeContent delegates to the wrapped processor and logs the result size.
func (p *LoggingProcessor) FreeContent(doc *richtext.Document) (nodes []*richtext.Node, err error) {
	defer func(begin time.Time) {
		p.logger.Debug("paywall free content",
			"blocks_in", blockCount(doc),
			"blocks_out", len(nodes),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.FreeContent(doc)
}

func blockCount(doc *richtext.Document) int {
	if doc == nil {
		return 0
	}
	return len(doc.Content)
}
