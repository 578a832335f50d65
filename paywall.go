package richtext

// Default membership prompt texts.
const (
	DefaultHeadingText  = "Continue Reading"
	DefaultSubtitleText = "Get unlimited access to premium content and exclusive articles"
	DefaultLinkText     = "Subscribe Now"
	DefaultLinkURL      = "#"
)

// PaywallConfig configures the membership prompt that replaces paywalled
// content.
type PaywallConfig struct {
	HeadingText  string `json:"headingText" yaml:"headingText"`
	SubtitleText string `json:"subtitleText" yaml:"subtitleText"`
	LinkText     string `json:"linkText" yaml:"linkText"`
	LinkURL      string `json:"linkUrl" yaml:"linkUrl"`

	// PreserveSeparator is accepted for compatibility with stored
	// configurations. The separator is currently always dropped.
	PreserveSeparator bool `json:"preservePaywallSeparator" yaml:"preservePaywallSeparator"`
}

// DefaultPaywallConfig returns the configuration used when no overrides are
// given.
func DefaultPaywallConfig() PaywallConfig {
	return PaywallConfig{
		HeadingText:  DefaultHeadingText,
		SubtitleText: DefaultSubtitleText,
		LinkText:     DefaultLinkText,
		LinkURL:      DefaultLinkURL,
	}
}

// PaywallOverrides is a partial PaywallConfig. Nil fields keep the value
// they are applied over; set fields replace it, including empty strings.
type PaywallOverrides struct {
	HeadingText       *string `json:"headingText" yaml:"headingText"`
	SubtitleText      *string `json:"subtitleText" yaml:"subtitleText"`
	LinkText          *string `json:"linkText" yaml:"linkText"`
	LinkURL           *string `json:"linkUrl" yaml:"linkUrl"`
	PreserveSeparator *bool   `json:"preservePaywallSeparator" yaml:"preservePaywallSeparator"`
}

// Apply returns c with every set field of o copied over it.
func (c PaywallConfig) Apply(o PaywallOverrides) PaywallConfig {
	if o.HeadingText != nil {
		c.HeadingText = *o.HeadingText
	}
	if o.SubtitleText != nil {
		c.SubtitleText = *o.SubtitleText
	}
	if o.LinkText != nil {
		c.LinkText = *o.LinkText
	}
	if o.LinkURL != nil {
		c.LinkURL = *o.LinkURL
	}
	if o.PreserveSeparator != nil {
		c.PreserveSeparator = *o.PreserveSeparator
	}
	return c
}

// Merge returns o with every set field of other copied over it.
func (o PaywallOverrides) Merge(other PaywallOverrides) PaywallOverrides {
	if other.HeadingText != nil {
		o.HeadingText = other.HeadingText
	}
	if other.SubtitleText != nil {
		o.SubtitleText = other.SubtitleText
	}
	if other.LinkText != nil {
		o.LinkText = other.LinkText
	}
	if other.LinkURL != nil {
		o.LinkURL = other.LinkURL
	}
	if other.PreserveSeparator != nil {
		o.PreserveSeparator = other.PreserveSeparator
	}
	return o
}

// PaywallProcessor restricts documents to their free portion.
type PaywallProcessor interface {
	// Process returns a copy of doc truncated at its first paywall separator
	// and followed by a membership prompt. Documents without a separator
	// come back as an unchanged copy.
	// Returns EINVALID if doc is not a valid document.
	Process(doc *Document) (*Document, error)

	// HasPaywallSeparator reports whether doc contains a separator at any
	// depth. Invalid documents report false.
	HasPaywallSeparator(doc *Document) bool

	// FreeContent returns the content preceding the first separator.
	// Returns EINVALID if doc is not a valid document.
	FreeContent(doc *Document) ([]*Node, error)
}

// Compile-time interface verification.
var _ PaywallProcessor = (*Processor)(nil)

// Processor implements PaywallProcessor with a fixed configuration.
type Processor struct {
	Config PaywallConfig
}

// NewProcessor returns a Processor using cfg for every document.
func NewProcessor(cfg PaywallConfig) *Processor {
	return &Processor{Config: cfg}
}

// Process truncates doc at its first paywall separator.
func (p *Processor) Process(doc *Document) (*Document, error) {
	return processPaywall(doc, p.Config)
}

// HasPaywallSeparator reports whether doc contains a paywall separator.
func (p *Processor) HasPaywallSeparator(doc *Document) bool {
	return HasPaywallSeparator(doc)
}

// FreeContent returns the content preceding the first paywall separator.
func (p *Processor) FreeContent(doc *Document) ([]*Node, error) {
	return FreeContent(doc)
}

// ProcessPaywall returns a copy of doc truncated at its first paywall
// separator, in document order, followed by a membership prompt built from
// the default configuration with o applied. When doc has no separator the
// copy's content is unchanged and no prompt is added. doc is never modified
// and the result shares no mutable state with it.
func ProcessPaywall(doc *Document, o PaywallOverrides) (*Document, error) {
	return processPaywall(doc, DefaultPaywallConfig().Apply(o))
}

func processPaywall(doc *Document, cfg PaywallConfig) (*Document, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	content, found := truncateContent(doc.Content)
	if !found {
		return &Document{Type: NodeDoc, Content: content}, nil
	}

	return &Document{
		Type:    NodeDoc,
		Content: append(content, membershipPrompt(cfg)...),
	}, nil
}

// HasPaywallSeparator reports whether doc contains a paywall separator at any
// depth. Invalid documents report false rather than failing.
func HasPaywallSeparator(doc *Document) bool {
	if doc.Validate() != nil {
		return false
	}
	return containsSeparator(doc.Content)
}

// HasPaywallSeparatorJSON is HasPaywallSeparator for raw JSON input.
func HasPaywallSeparatorJSON(data []byte) bool {
	doc, err := ParseDocument(data)
	if err != nil {
		return false
	}
	return HasPaywallSeparator(doc)
}

// FreeContent returns a copy of the content preceding the first paywall
// separator, or of the entire content when there is none.
// Returns EINVALID if doc is not a valid document.
func FreeContent(doc *Document) ([]*Node, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	content, _ := truncateContent(doc.Content)
	return content, nil
}

// truncateContent copies nodes in document order up to, but excluding, the
// first paywall separator at any depth. A separator inside a container ends
// the container and every later sibling of each of its ancestors. The copy is
// built in the same pass; found reports whether a separator was reached.
func truncateContent(nodes []*Node) (out []*Node, found bool) {
	out = make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		if n.IsPaywallSeparator() {
			return out, true
		}

		if !n.HasContent() {
			out = append(out, n.Clone())
			continue
		}

		copied := n.shallowClone()
		copied.Content, found = truncateContent(n.Content)
		out = append(out, copied)
		if found {
			return out, true
		}
	}
	return out, false
}

// containsSeparator walks nodes in the same order as truncateContent but
// builds nothing.
func containsSeparator(nodes []*Node) bool {
	for _, n := range nodes {
		if n.IsPaywallSeparator() {
			return true
		}
		if n.HasContent() && containsSeparator(n.Content) {
			return true
		}
	}
	return false
}
