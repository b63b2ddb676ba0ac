package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/docai/docai"
	"github.com/docai/docai/crawl"
	"github.com/docai/docai/rag"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Settings  docai.SettingsService
	Sources   docai.SourceService
	Documents docai.DocumentService
	Sitemaps  docai.SitemapService
	Runtime   docai.Runtime
	Vectors   docai.VectorStore
	Search    docai.SearchService
	Asker     docai.Asker
	Indexer   *rag.Indexer
	Crawler   *crawl.Crawler

	// DocsDir is the resolved base folder for source documentation.
	DocsDir string
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Enable debug logging"`

	Scrape  ScrapeCmd  `cmd:"" help:"Scrape a documentation source into its markdown folder"`
	Index   IndexCmd   `cmd:"" help:"Build the vector index for one or all sources"`
	Ask     AskCmd     `cmd:"" help:"Ask a question about the indexed documentation"`
	Search  SearchCmd  `cmd:"" help:"Retrieve matching documentation without LLM synthesis"`
	Chat    ChatCmd    `cmd:"" help:"Interactive question and answer session"`
	Sources SourcesCmd `cmd:"" help:"Manage documentation sources"`
	Config  ConfigCmd  `cmd:"" help:"Inspect and edit the configuration"`
	Status  StatusCmd  `cmd:"" help:"Show runtime, model and index status"`
	Serve   ServeCmd   `cmd:"" help:"Serve the web chat interface"`
	Version VersionCmd `cmd:"" help:"Print the version"`
}

// ScrapeCmd is the "scrape" subcommand.
type ScrapeCmd struct {
	ID          string   `arg:"" help:"Source ID"`
	Preview     bool     `short:"p" help:"List discovered URLs without fetching"`
	Render      bool     `short:"r" help:"Render pages in a headless browser"`
	Extractor   string   `enum:"trafilatura,goquery,readability" default:"trafilatura" help:"Content extraction strategy"`
	Filter      []string `short:"F" name:"filter" help:"Include only URLs matching regex (repeatable)"`
	Exclude     []string `short:"X" name:"exclude" help:"Exclude URLs matching regex (repeatable)"`
	Concurrency int      `short:"c" help:"Concurrent fetch limit (default from config)"`
	Depth       int      `help:"Recursive crawl depth limit (default from config)"`
	Delay       float64  `help:"Seconds between requests to a domain (default from config)"`
	MaxPages    int      `help:"Cap on pages fetched in one run"`
}

// IndexCmd is the "index" subcommand.
type IndexCmd struct {
	ID    string `arg:"" optional:"" help:"Source ID"`
	All   bool   `help:"Index every enabled source"`
	Force bool   `short:"f" help:"With --all, also re-index already indexed sources"`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	Question  []string `arg:"" help:"Question to ask about the documentation"`
	Sources   []string `short:"s" help:"Restrict to specific source IDs (repeatable)"`
	Limit     int      `short:"k" help:"Number of chunks to retrieve (default from config)"`
	MinScore  float32  `help:"Drop retrieval results below this similarity"`
	NoSources bool     `help:"Hide the SOURCES block"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query    []string `arg:"" help:"Search query"`
	Sources  []string `short:"s" help:"Restrict to specific source IDs (repeatable)"`
	Limit    int      `short:"k" help:"Number of results (default from config)"`
	MinScore float32  `help:"Drop results below this similarity"`
}

// ChatCmd is the "chat" subcommand.
type ChatCmd struct {
	Sources []string `short:"s" help:"Restrict to specific source IDs (repeatable)"`
}

// SourcesCmd groups the source registry subcommands.
type SourcesCmd struct {
	List    SourcesListCmd    `cmd:"" default:"1" help:"List registered sources"`
	Show    SourcesShowCmd    `cmd:"" help:"Show one source in full"`
	Add     SourcesAddCmd     `cmd:"" help:"Register a new source"`
	Remove  SourcesRemoveCmd  `cmd:"" help:"Remove a source, its index and its documents"`
	Enable  SourcesEnableCmd  `cmd:"" help:"Include a source in retrieval"`
	Disable SourcesDisableCmd `cmd:"" help:"Exclude a source from retrieval"`
}

// SourcesListCmd lists sources.
type SourcesListCmd struct {
	Enabled bool   `help:"Only enabled sources"`
	Indexed bool   `help:"Only indexed sources"`
	Tag     string `help:"Only sources with this tag"`
}

// SourcesShowCmd shows one source.
type SourcesShowCmd struct {
	ID string `arg:"" help:"Source ID"`
}

// SourcesAddCmd registers a source.
type SourcesAddCmd struct {
	ID          string   `arg:"" help:"Source ID (also the default folder name)"`
	Name        string   `arg:"" help:"Human readable name"`
	URL         string   `short:"u" help:"Documentation site URL to scrape"`
	Path        string   `help:"Folder under the documentation base path (default: the ID)"`
	Description string   `short:"d" help:"Short description"`
	Tags        []string `short:"t" help:"Tags (repeatable)"`
	Priority    int      `short:"p" help:"Retrieval ordering priority (higher first)"`
}

// SourcesRemoveCmd removes a source.
type SourcesRemoveCmd struct {
	ID    string `arg:"" help:"Source ID"`
	Force bool   `help:"Confirm removal"`
	Purge bool   `help:"Also delete the source's markdown folder"`
}

// SourcesEnableCmd enables a source.
type SourcesEnableCmd struct {
	ID string `arg:"" help:"Source ID"`
}

// SourcesDisableCmd disables a source.
type SourcesDisableCmd struct {
	ID string `arg:"" help:"Source ID"`
}

// ConfigCmd groups the configuration subcommands.
type ConfigCmd struct {
	Get      ConfigGetCmd      `cmd:"" help:"Print the value at a dot-separated key path"`
	Set      ConfigSetCmd      `cmd:"" help:"Set the value at a dot-separated key path"`
	Validate ConfigValidateCmd `cmd:"" help:"Check the configuration for problems"`
	Export   ConfigExportCmd   `cmd:"" help:"Write the configuration in env-file format"`
	Summary  ConfigSummaryCmd  `cmd:"" default:"1" help:"Show a condensed configuration summary"`
}

// ConfigGetCmd prints a configuration value.
type ConfigGetCmd struct {
	Key string `arg:"" help:"Dot-separated key path, e.g. models.llm.model_name"`
}

// ConfigSetCmd sets a configuration value.
type ConfigSetCmd struct {
	Key   string `arg:"" help:"Dot-separated key path"`
	Value string `arg:"" help:"New value (JSON literals are parsed, otherwise a string)"`
}

// ConfigValidateCmd validates the configuration.
type ConfigValidateCmd struct{}

// ConfigExportCmd exports the configuration as environment variables.
type ConfigExportCmd struct {
	Out string `short:"o" default:"settings.env" help:"Output path"`
}

// ConfigSummaryCmd shows a condensed configuration view.
type ConfigSummaryCmd struct{}

// StatusCmd is the "status" subcommand.
type StatusCmd struct{}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Host string `help:"Bind address (default from config)"`
	Port int    `help:"Port (default from config)"`
}

// VersionCmd is the "version" subcommand.
type VersionCmd struct{}
