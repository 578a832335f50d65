package richtext

// Config holds settings shared by the CLI and the HTTP server.
type Config struct {
	// Path to the SQLite article database.
	DBPath string `yaml:"db"`

	// Address the HTTP server listens on.
	Addr string `yaml:"addr"`

	// Membership prompt overrides applied over DefaultPaywallConfig.
	Paywall PaywallOverrides `yaml:"paywall"`

	Render RenderOptions `yaml:"render"`

	// Requests per second allowed per client. Zero disables limiting.
	RateLimit float64 `yaml:"rateLimit"`

	// Documents processed in parallel by batch runs.
	Concurrency int `yaml:"concurrency"`

	// Requests per second to each remote host during batch runs. Zero
	// disables throttling.
	FetchRate float64 `yaml:"fetchRate"`

	// Main-content extractor used by --extract imports.
	Extractor string `yaml:"extractor"`
}

// RenderOptions controls HTML post-processing.
type RenderOptions struct {
	Sanitize bool `yaml:"sanitize"`
	Minify   bool `yaml:"minify"`
}

// Default configuration values.
const (
	DefaultAddr        = ":8080"
	DefaultConcurrency = 10
	DefaultFetchRate   = 1.0
)

// Extractor names accepted in Config.Extractor.
const (
	ExtractorTrafilatura = "trafilatura"
	ExtractorReadability = "readability"

	DefaultExtractor = ExtractorTrafilatura
)

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		Addr:        DefaultAddr,
		Render:      RenderOptions{Sanitize: true},
		Concurrency: DefaultConcurrency,
		FetchRate:   DefaultFetchRate,
		Extractor:   DefaultExtractor,
	}
}

// PaywallConfig returns the effective membership prompt configuration.
func (c Config) PaywallConfig() PaywallConfig {
	return DefaultPaywallConfig().Apply(c.Paywall)
}
