package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	"github.com/docai/docai"
	"github.com/docai/docai/chromem"
	"github.com/docai/docai/chunk"
	"github.com/docai/docai/config"
	"github.com/docai/docai/crawl"
	"github.com/docai/docai/fs"
	"github.com/docai/docai/goquery"
	"github.com/docai/docai/htmltomarkdown"
	dochttp "github.com/docai/docai/http"
	"github.com/docai/docai/ollama"
	"github.com/docai/docai/rag"
	"github.com/docai/docai/readability"
	"github.com/docai/docai/rod"
	doclog "github.com/docai/docai/slog"
	"github.com/docai/docai/sqlite"
	"github.com/docai/docai/trafilatura"
	"github.com/joho/godotenv"
)

func main() {
	// Overrides like DOCAI_CONFIG can live in a local .env file.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Configuration file path. Set before calling Run().
	ConfigPath string

	// Document index path. Set before calling Run().
	DBPath string

	// Master configuration; also the source registry.
	Config *config.Config

	// SQLite database used by the document index.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	configPath := defaultConfigPath()
	return &Main{
		ConfigPath: configPath,
		DBPath:     defaultDBPath(configPath),
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
		kong.Name("docai"),
		kong.Description("Local documentation assistant: scrape, index and ask."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'docai --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	// Parse arguments first to know which command and its flags
	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	deps.Logger = newLogger(stderr, cli.Verbose)

	if cmd == "version" {
		return kongCtx.Run(deps)
	}

	// Open the master configuration. First run creates it with defaults.
	m.Config, err = config.Open(m.ConfigPath)
	if err != nil {
		fmt.Fprintf(stderr, "Hint: Set DOCAI_CONFIG to use a different configuration path\n")
		return fmt.Errorf("failed to open configuration at %q: %w", m.ConfigPath, err)
	}
	deps.Settings = m.Config
	deps.Sources = m.Config

	settings := m.Config.Settings()
	configDir := filepath.Dir(m.ConfigPath)
	deps.DocsDir = resolvePath(configDir, settings.DocsBasePath)
	vectorsDir := resolvePath(configDir, settings.VectorsPath)

	// Open the document index.
	if err := os.MkdirAll(filepath.Dir(m.DBPath), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set DOCAI_DB to use a different index path\n")
		return fmt.Errorf("failed to open document index at %q: %w", m.DBPath, err)
	}
	defer m.Close()
	deps.Documents = sqlite.NewDocumentService(m.DB)

	client := ollama.NewClient(settings.LLMHost,
		ollama.WithTimeout(time.Duration(settings.LLMTimeoutSecs)*time.Second))
	deps.Runtime = client

	// Retrieval stack, for commands that read or write the vector store.
	switch cmd {
	case "index", "ask", "search", "chat", "sources", "status", "serve":
		store, err := chromem.NewStore(vectorsDir,
			chromem.OllamaEmbedding(settings.EmbeddingModel, settings.LLMHost))
		if err != nil {
			return fmt.Errorf("failed to open vector store at %q: %w", vectorsDir, err)
		}
		deps.Vectors = store

		engine := &rag.Engine{
			Sources:     deps.Sources,
			Vectors:     store,
			Runtime:     client,
			Generator:   client,
			Model:       settings.LLMModel,
			Temperature: answerTemperature,
		}
		deps.Search = doclog.NewLoggingSearchService(engine, deps.Logger)
		deps.Asker = doclog.NewLoggingAsker(engine, deps.Logger)

		deps.Indexer = &rag.Indexer{
			Sources:  deps.Sources,
			Loader:   fs.NewDocumentLoader(),
			Chunker:  chunk.NewChunker(),
			Vectors:  store,
			Runtime:  client,
			BasePath: deps.DocsDir,
		}
	}

	if cmd == "scrape" {
		deps.Sitemaps = dochttp.NewSitemapService(nil)
	}

	if cmd == "scrape" && !cli.Scrape.Preview {
		var fetcher docai.Fetcher
		if cli.Scrape.Render {
			fetcher, err = rod.NewFetcher()
			if err != nil {
				fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed for --render")
				return fmt.Errorf("failed to start browser: %w", err)
			}
		} else {
			fetcher = dochttp.NewFetcher()
		}
		defer fetcher.Close()

		deps.Crawler = &crawl.Crawler{
			Sitemaps:    deps.Sitemaps,
			Fetcher:     fetcher,
			Extractor:   newExtractor(cli.Scrape.Extractor),
			Converter:   htmltomarkdown.NewConverter(),
			Links:       goquery.NewLinkExtractor(),
			Documents:   deps.Documents,
			RateLimiter: crawl.NewDomainLimiterDelay(time.Duration(settings.ScraperDelaySecs * float64(time.Second))),
			Concurrency: settings.ScraperWorkers,
			MaxDepth:    settings.ScraperMaxDepth,
		}
	}

	return kongCtx.Run(deps)
}

// answerTemperature keeps generation grounded in the retrieved context.
const answerTemperature = 0.1

func newExtractor(name string) docai.Extractor {
	switch name {
	case "goquery":
		return goquery.NewExtractor()
	case "readability":
		return readability.NewExtractor()
	default:
		return trafilatura.NewExtractor()
	}
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func defaultConfigPath() string {
	if path := os.Getenv("DOCAI_CONFIG"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "doc_config.json"
	}
	return filepath.Join(home, ".docai", "doc_config.json")
}

func defaultDBPath(configPath string) string {
	if path := os.Getenv("DOCAI_DB"); path != "" {
		return path
	}
	return filepath.Join(filepath.Dir(configPath), "data", "index.db")
}

// resolvePath anchors relative configuration paths at the config directory.
func resolvePath(configDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(configDir, path)
}
