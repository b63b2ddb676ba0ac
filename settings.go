package docai

import "context"

// Execution modes preserved from the original installation layout.
// The Go binary always runs locally; the setting survives for config
// compatibility with existing deployments.
const (
	ExecModeLocal  = "local"
	ExecModeDocker = "docker"
)

// Settings is a snapshot of the master configuration's typed fields.
type Settings struct {
	LLMModel         string  `json:"llm_model"`
	LLMHost          string  `json:"llm_host"`
	LLMTimeoutSecs   int     `json:"llm_timeout_secs"`
	EmbeddingModel   string  `json:"embedding_model"`
	DocsBasePath     string  `json:"docs_base_path"`
	VectorsPath      string  `json:"vectors_path"`
	ExecutionMode    string  `json:"execution_mode"`
	SimilarityTopK   int     `json:"similarity_top_k"`
	MinScore         float32 `json:"min_score"`
	ResponseMode     string  `json:"response_mode"`
	ScraperDelaySecs float64 `json:"scraper_delay_secs"`
	ScraperMaxDepth  int     `json:"scraper_max_depth"`
	ScraperWorkers   int     `json:"scraper_workers"`
	WebHost          string  `json:"web_host"`
	WebPort          int     `json:"web_port"`
}

// SettingsService manages the master JSON configuration file.
type SettingsService interface {
	// Get returns the value at a dot-separated key path
	// (e.g. "models.llm.model_name"), or nil when absent.
	Get(keyPath string) any

	// Set writes a value at a dot-separated key path and persists the
	// file (updating last_updated and keeping a .bak of the previous
	// contents). Legacy flat files are kept in sync for the keys they
	// mirror.
	Set(keyPath string, value any) error

	// Settings returns the typed snapshot of the common fields.
	Settings() Settings

	// Validate reports configuration problems (missing sections, bad
	// execution mode, unset model, missing paths).
	Validate(ctx context.Context) []string

	// ExportEnv writes the configuration in environment-file format.
	ExportEnv(path string) error

	// Summary returns a condensed view for display.
	Summary(ctx context.Context) (*ConfigSummary, error)
}

// ConfigSummary is a condensed view of the configuration for display.
type ConfigSummary struct {
	Version        string `json:"version"`
	LastUpdated    string `json:"last_updated,omitempty"`
	ExecutionMode  string `json:"execution_mode"`
	LLMModel       string `json:"llm_model"`
	EmbeddingModel string `json:"embedding_model"`
	SourcesTotal   int    `json:"sources_total"`
	SourcesEnabled int    `json:"sources_enabled"`
	SourcesIndexed int    `json:"sources_indexed"`
	WebEnabled     bool   `json:"web_enabled"`
}
