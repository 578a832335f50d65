package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/remarkablejames/richtext"
	"github.com/remarkablejames/richtext/bluemonday"
	"github.com/remarkablejames/richtext/goldmark"
	"github.com/remarkablejames/richtext/goquery"
	"github.com/remarkablejames/richtext/html"
	"github.com/remarkablejames/richtext/htmltomarkdown"
	richtexthttp "github.com/remarkablejames/richtext/http"
	"github.com/remarkablejames/richtext/minify"
	"github.com/remarkablejames/richtext/readability"
	rtslog "github.com/remarkablejames/richtext/slog"
	"github.com/remarkablejames/richtext/sqlite"
	"github.com/remarkablejames/richtext/trafilatura"
	rtyaml "github.com/remarkablejames/richtext/yaml"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Overrides the config file when set.
	DBPath string

	// Config file path used when --config is not given.
	ConfigPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	ArticleService richtext.ArticleService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath:     os.Getenv("RICHTEXT_DB"),
		ConfigPath: defaultConfigPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("richtext"),
		kong.Description("Apply paywalls to rich-text editor documents."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'richtext --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	command := kongCtx.Command()

	configPath := cli.Config
	if configPath == "" {
		configPath = m.ConfigPath
	}
	cfg, err := rtyaml.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Hint: Set RICHTEXT_CONFIG to use a different config file\n")
		return fmt.Errorf("failed to load config: %w", err)
	}
	if m.DBPath != "" {
		cfg.DBPath = m.DBPath
	}
	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath()
	}

	logger := newLogger(stderr, command, cli.Verbose)
	processor := rtslog.NewLoggingProcessor(richtext.NewProcessor(cfg.PaywallConfig()), logger)

	deps.Config = cfg
	deps.Logger = logger
	deps.Sources = &SourceLoader{
		Stdin:   stdin,
		Fetcher: rtslog.NewLoggingFetcher(richtexthttp.NewFetcher(), logger),
	}
	deps.Previewer = newPreviewer(processor, cfg.Render)
	deps.Importers = map[string]richtext.Importer{
		FromHTML:     goquery.NewImporter(),
		FromMarkdown: goldmark.NewImporter(),
	}
	deps.Extractor = newExtractor(cfg.Extractor)

	// Only article management and the server need the database.
	if strings.HasPrefix(command, "article") || command == "serve" {
		m.DB = sqlite.NewDB(cfg.DBPath)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set RICHTEXT_DB to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", cfg.DBPath, err)
		}
		defer m.Close()

		m.ArticleService = rtslog.NewLoggingArticleService(sqlite.NewArticleService(m.DB), logger)
		deps.Articles = m.ArticleService
	}

	if command == "serve" && cfg.RateLimit > 0 {
		deps.Limiter = richtexthttp.NewClientLimiter(cfg.RateLimit, int(math.Ceil(cfg.RateLimit)))
	}

	return kongCtx.Run(deps)
}

// newExtractor returns the main-content extractor named in the config.
func newExtractor(name string) richtext.Extractor {
	if name == richtext.ExtractorReadability {
		return readability.NewExtractor()
	}
	return trafilatura.NewExtractor()
}

// newPreviewer assembles the rendering pipeline selected by opts.
func newPreviewer(processor richtext.PaywallProcessor, opts richtext.RenderOptions) *richtext.Previewer {
	p := &richtext.Previewer{
		Processor: processor,
		Renderer:  html.NewRenderer(),
		Converter: htmltomarkdown.NewConverter(),
	}
	if opts.Sanitize {
		p.Sanitizer = bluemonday.NewSanitizer()
	}
	if opts.Minify {
		p.Minifier = minify.NewMinifier()
	}
	return p
}

// newLogger writes text logs to w. The server logs requests at info level;
// other commands only report warnings unless verbose.
func newLogger(w io.Writer, command string, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if command == "serve" {
		level = slog.LevelInfo
	}
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func defaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".richtext")
}

func defaultDBPath() string {
	dir := defaultDir()
	if dir == "" {
		return "richtext.db"
	}
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "richtext.db")
}

func defaultConfigPath() string {
	dir := defaultDir()
	if dir == "" {
		return "richtext.yaml"
	}
	return filepath.Join(dir, "config.yaml")
}
