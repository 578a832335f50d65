package mock

import "github.com/remarkablejames/richtext"

var _ richtext.PaywallProcessor = (*PaywallProcessor)(nil)

// PaywallProcessor is a mock implementation of richtext.PaywallProcessor.
type PaywallProcessor struct {
	ProcessFn             func(doc *richtext.Document) (*richtext.Document, error)
	HasPaywallSeparatorFn func(doc *richtext.Document) bool
	FreeContentFn         func(doc *richtext.Document) ([]*richtext.Node, error)
}

func (p *PaywallProcessor) Process(doc *richtext.Document) (*richtext.Document, error) {
	return p.ProcessFn(doc)
}

func (p *PaywallProcessor) HasPaywallSeparator(doc *richtext.Document) bool {
	return p.HasPaywallSeparatorFn(doc)
}

func (p *PaywallProcessor) FreeContent(doc *richtext.Document) ([]*richtext.Node, error) {
	return p.FreeContentFn(doc)
}
