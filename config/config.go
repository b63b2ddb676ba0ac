// Package config manages the master JSON configuration file, including
// the documentation source registry and the legacy flat files older
// installations used for the model name and execution mode.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/docai/docai"
	"github.com/spf13/viper"
)

// ConfigVersion is written into new configuration files.
const ConfigVersion = "1.0"

// Legacy flat files kept in sync for older tooling that reads them.
const (
	legacyModelFile = ".model_config"
	legacyModeFile  = ".exec_mode"
)

var _ docai.SettingsService = (*Config)(nil)

// Config is the viper-backed master configuration. It also implements
// the source registry; see sources.go.
type Config struct {
	mu   sync.Mutex
	v    *viper.Viper
	path string
}

// Open loads the configuration at path, creating it with defaults when it
// does not exist. Values from the legacy flat files are migrated into the
// JSON file on first load.
func Open(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	setDefaults(v)

	c := &Config{v: v, path: path}

	if err := v.ReadInConfig(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
		c.migrateLegacy()
		if err := c.save(); err != nil {
			return nil, err
		}
		return c, nil
	}

	if c.migrateLegacy() {
		if err := c.save(); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("version", ConfigVersion)
	v.SetDefault("execution.mode", docai.ExecModeLocal)
	v.SetDefault("models.llm.model_name", "mistral")
	v.SetDefault("models.llm.host", "http://localhost:11434")
	v.SetDefault("models.llm.timeout_seconds", 120)
	v.SetDefault("models.embedding.model_name", "nomic-embed-text")
	v.SetDefault("documentation.base_path", "data/documentation")
	v.SetDefault("documentation.sources", []any{})
	v.SetDefault("vector_store.path", "data/vectors")
	v.SetDefault("query.similarity_top_k", 5)
	v.SetDefault("query.min_score", 0.0)
	v.SetDefault("query.response_mode", "compact")
	v.SetDefault("scraper.delay_seconds", 1.0)
	v.SetDefault("scraper.max_depth", 5)
	v.SetDefault("scraper.workers", 10)
	v.SetDefault("web.host", "127.0.0.1")
	v.SetDefault("web.port", 7860)
}

// Get returns the value at a dot-separated key path, or nil when absent.
func (c *Config) Get(keyPath string) any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.v.Get(keyPath)
}

// Set writes a value at a dot-separated key path and persists the file.
func (c *Config) Set(keyPath string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.v.Set(keyPath, value)
	if err := c.save(); err != nil {
		return err
	}
	c.syncLegacy(keyPath)
	return nil
}

// Settings returns the typed snapshot of the common fields.
func (c *Config) Settings() docai.Settings {
	c.mu.Lock()
	defer c.mu.Unlock()

	return docai.Settings{
		LLMModel:         c.v.GetString("models.llm.model_name"),
		LLMHost:          c.v.GetString("models.llm.host"),
		LLMTimeoutSecs:   c.v.GetInt("models.llm.timeout_seconds"),
		EmbeddingModel:   c.v.GetString("models.embedding.model_name"),
		DocsBasePath:     c.v.GetString("documentation.base_path"),
		VectorsPath:      c.v.GetString("vector_store.path"),
		ExecutionMode:    c.v.GetString("execution.mode"),
		SimilarityTopK:   c.v.GetInt("query.similarity_top_k"),
		MinScore:         float32(c.v.GetFloat64("query.min_score")),
		ResponseMode:     c.v.GetString("query.response_mode"),
		ScraperDelaySecs: c.v.GetFloat64("scraper.delay_seconds"),
		ScraperMaxDepth:  c.v.GetInt("scraper.max_depth"),
		ScraperWorkers:   c.v.GetInt("scraper.workers"),
		WebHost:          c.v.GetString("web.host"),
		WebPort:          c.v.GetInt("web.port"),
	}
}

// Validate reports configuration problems as human-readable strings.
func (c *Config) Validate(ctx context.Context) []string {
	s := c.Settings()
	var problems []string

	if s.ExecutionMode != docai.ExecModeLocal && s.ExecutionMode != docai.ExecModeDocker {
		problems = append(problems, fmt.Sprintf("execution.mode %q is not %q or %q", s.ExecutionMode, docai.ExecModeLocal, docai.ExecModeDocker))
	}
	if s.LLMModel == "" {
		problems = append(problems, "models.llm.model_name is not set")
	}
	if s.EmbeddingModel == "" {
		problems = append(problems, "models.embedding.model_name is not set")
	}
	if s.DocsBasePath == "" {
		problems = append(problems, "documentation.base_path is not set")
	} else if _, err := os.Stat(s.DocsBasePath); os.IsNotExist(err) {
		problems = append(problems, fmt.Sprintf("documentation.base_path %q does not exist", s.DocsBasePath))
	}
	if s.VectorsPath == "" {
		problems = append(problems, "vector_store.path is not set")
	}
	if s.SimilarityTopK <= 0 {
		problems = append(problems, "query.similarity_top_k must be positive")
	}

	sources, err := c.FindSources(ctx, docai.SourceFilter{})
	if err != nil {
		problems = append(problems, fmt.Sprintf("documentation.sources is malformed: %v", err))
		return problems
	}
	seen := make(map[string]bool)
	for _, src := range sources {
		if err := src.Validate(); err != nil {
			problems = append(problems, fmt.Sprintf("source %q: %s", src.ID, docai.ErrorMessage(err)))
		}
		if seen[src.ID] {
			problems = append(problems, fmt.Sprintf("duplicate source ID %q", src.ID))
		}
		seen[src.ID] = true
	}

	return problems
}

// ExportEnv writes the configuration in environment-file format for
// shell scripts and container setups.
func (c *Config) ExportEnv(path string) error {
	s := c.Settings()

	var b strings.Builder
	b.WriteString("# Generated by docai config export\n")
	fmt.Fprintf(&b, "EXEC_MODE=%s\n", s.ExecutionMode)
	fmt.Fprintf(&b, "OLLAMA_MODEL=%s\n", s.LLMModel)
	fmt.Fprintf(&b, "OLLAMA_HOST=%s\n", s.LLMHost)
	fmt.Fprintf(&b, "OLLAMA_TIMEOUT=%d\n", s.LLMTimeoutSecs)
	fmt.Fprintf(&b, "EMBEDDING_MODEL=%s\n", s.EmbeddingModel)
	fmt.Fprintf(&b, "DOCS_BASE_PATH=%s\n", s.DocsBasePath)
	fmt.Fprintf(&b, "VECTORS_PATH=%s\n", s.VectorsPath)
	fmt.Fprintf(&b, "SIMILARITY_TOP_K=%d\n", s.SimilarityTopK)
	fmt.Fprintf(&b, "WEB_HOST=%s\n", s.WebHost)
	fmt.Fprintf(&b, "WEB_PORT=%d\n", s.WebPort)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// Summary returns a condensed view of the configuration for display.
func (c *Config) Summary(ctx context.Context) (*docai.ConfigSummary, error) {
	sources, err := c.FindSources(ctx, docai.SourceFilter{})
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	version := c.v.GetString("version")
	lastUpdated := c.v.GetString("last_updated")
	c.mu.Unlock()

	s := c.Settings()
	summary := &docai.ConfigSummary{
		Version:        version,
		LastUpdated:    lastUpdated,
		ExecutionMode:  s.ExecutionMode,
		LLMModel:       s.LLMModel,
		EmbeddingModel: s.EmbeddingModel,
		SourcesTotal:   len(sources),
		WebEnabled:     s.WebPort > 0,
	}
	for _, src := range sources {
		if src.Enabled {
			summary.SourcesEnabled++
		}
		if src.Indexed {
			summary.SourcesIndexed++
		}
	}
	return summary, nil
}

// save persists the configuration, keeping a .bak of the previous file.
// Callers must hold mu.
func (c *Config) save() error {
	c.v.Set("last_updated", time.Now().UTC().Format(time.RFC3339))

	if _, err := os.Stat(c.path); err == nil {
		prev, err := os.ReadFile(c.path)
		if err == nil {
			_ = os.WriteFile(c.path+".bak", prev, 0o644)
		}
	}

	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return c.v.WriteConfigAs(c.path)
}

// migrateLegacy pulls values from the legacy flat files into the config
// when present. Returns true when something was adopted.
func (c *Config) migrateLegacy() bool {
	dir := filepath.Dir(c.path)
	adopted := false

	if model := readLegacyValue(filepath.Join(dir, legacyModelFile), "OLLAMA_MODEL"); model != "" {
		if !c.v.InConfig("models.llm.model_name") {
			c.v.Set("models.llm.model_name", model)
			adopted = true
		}
	}
	if mode := readLegacyValue(filepath.Join(dir, legacyModeFile), ""); mode == docai.ExecModeLocal || mode == docai.ExecModeDocker {
		if !c.v.InConfig("execution.mode") {
			c.v.Set("execution.mode", mode)
			adopted = true
		}
	}
	return adopted
}

// syncLegacy mirrors changed keys back into the legacy flat files so
// older scripts keep working. Callers must hold mu.
func (c *Config) syncLegacy(keyPath string) {
	dir := filepath.Dir(c.path)
	switch keyPath {
	case "models.llm.model_name":
		content := fmt.Sprintf("OLLAMA_MODEL=%s\n", c.v.GetString(keyPath))
		_ = os.WriteFile(filepath.Join(dir, legacyModelFile), []byte(content), 0o644)
	case "execution.mode":
		content := c.v.GetString(keyPath) + "\n"
		_ = os.WriteFile(filepath.Join(dir, legacyModeFile), []byte(content), 0o644)
	}
}

// readLegacyValue reads a legacy flat file. With a key, it looks for
// KEY=value lines; without one, the whole trimmed file is the value.
func readLegacyValue(path, key string) string {
	raw, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	content := strings.TrimSpace(string(raw))
	if key == "" {
		return content
	}
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, key+"=") {
			return strings.TrimSpace(strings.TrimPrefix(line, key+"="))
		}
	}
	return ""
}
