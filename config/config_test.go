package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/docai/docai"
	"github.com/docai/docai/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openConfig(t *testing.T) (*config.Config, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "doc_config.json")
	c, err := config.Open(path)
	require.NoError(t, err)
	return c, dir
}

func TestConfig_Defaults(t *testing.T) {
	t.Parallel()

	c, _ := openConfig(t)
	s := c.Settings()

	assert.Equal(t, "mistral", s.LLMModel)
	assert.Equal(t, "http://localhost:11434", s.LLMHost)
	assert.Equal(t, "nomic-embed-text", s.EmbeddingModel)
	assert.Equal(t, docai.ExecModeLocal, s.ExecutionMode)
	assert.Equal(t, 5, s.SimilarityTopK)
	assert.Equal(t, 5, s.ScraperMaxDepth)
	assert.Equal(t, 7860, s.WebPort)
}

func TestConfig_GetSet(t *testing.T) {
	t.Parallel()

	t.Run("set persists across reopen", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "doc_config.json")

		c, err := config.Open(path)
		require.NoError(t, err)
		require.NoError(t, c.Set("models.llm.model_name", "llama3"))

		reopened, err := config.Open(path)
		require.NoError(t, err)
		assert.Equal(t, "llama3", reopened.Get("models.llm.model_name"))
		assert.Equal(t, "llama3", reopened.Settings().LLMModel)
	})

	t.Run("unknown key is nil", func(t *testing.T) {
		t.Parallel()

		c, _ := openConfig(t)
		assert.Nil(t, c.Get("no.such.key"))
	})

	t.Run("set writes a backup of the previous file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "doc_config.json")

		c, err := config.Open(path)
		require.NoError(t, err)
		require.NoError(t, c.Set("web.port", 8080))

		_, err = os.Stat(path + ".bak")
		assert.NoError(t, err)
	})

	t.Run("set updates last_updated", func(t *testing.T) {
		t.Parallel()

		c, _ := openConfig(t)
		require.NoError(t, c.Set("web.port", 9090))
		assert.NotEmpty(t, c.Get("last_updated"))
	})
}

func TestConfig_LegacyFiles(t *testing.T) {
	t.Parallel()

	t.Run("legacy model and mode are migrated on first open", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".model_config"), []byte("OLLAMA_MODEL=codellama\n"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".exec_mode"), []byte("docker\n"), 0o644))

		c, err := config.Open(filepath.Join(dir, "doc_config.json"))
		require.NoError(t, err)

		s := c.Settings()
		assert.Equal(t, "codellama", s.LLMModel)
		assert.Equal(t, docai.ExecModeDocker, s.ExecutionMode)
	})

	t.Run("setting the model updates the legacy file", func(t *testing.T) {
		t.Parallel()

		c, dir := openConfig(t)
		require.NoError(t, c.Set("models.llm.model_name", "phi3"))

		raw, err := os.ReadFile(filepath.Join(dir, ".model_config"))
		require.NoError(t, err)
		assert.Equal(t, "OLLAMA_MODEL=phi3\n", string(raw))
	})

	t.Run("setting the mode updates the legacy file", func(t *testing.T) {
		t.Parallel()

		c, dir := openConfig(t)
		require.NoError(t, c.Set("execution.mode", docai.ExecModeDocker))

		raw, err := os.ReadFile(filepath.Join(dir, ".exec_mode"))
		require.NoError(t, err)
		assert.Equal(t, "docker\n", string(raw))
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	t.Run("flags bad mode and missing docs path", func(t *testing.T) {
		t.Parallel()

		c, _ := openConfig(t)
		require.NoError(t, c.Set("execution.mode", "cloud"))
		require.NoError(t, c.Set("documentation.base_path", "/definitely/not/here"))

		problems := c.Validate(context.Background())

		assert.NotEmpty(t, problems)
		joined := ""
		for _, p := range problems {
			joined += p + "\n"
		}
		assert.Contains(t, joined, "execution.mode")
		assert.Contains(t, joined, "does not exist")
	})

	t.Run("valid config has no problems", func(t *testing.T) {
		t.Parallel()

		c, dir := openConfig(t)
		docs := filepath.Join(dir, "docs")
		require.NoError(t, os.MkdirAll(docs, 0o755))
		require.NoError(t, c.Set("documentation.base_path", docs))

		assert.Empty(t, c.Validate(context.Background()))
	})
}

func TestConfig_ExportEnv(t *testing.T) {
	t.Parallel()

	c, dir := openConfig(t)
	envPath := filepath.Join(dir, "settings.env")

	require.NoError(t, c.ExportEnv(envPath))

	raw, err := os.ReadFile(envPath)
	require.NoError(t, err)
	content := string(raw)
	assert.Contains(t, content, "OLLAMA_MODEL=mistral")
	assert.Contains(t, content, "EXEC_MODE=local")
	assert.Contains(t, content, "WEB_PORT=7860")
}

func TestConfig_Summary(t *testing.T) {
	t.Parallel()

	c, _ := openConfig(t)
	ctx := context.Background()

	require.NoError(t, c.CreateSource(ctx, &docai.Source{ID: "a", Name: "A", Path: "a"}))
	require.NoError(t, c.CreateSource(ctx, &docai.Source{ID: "b", Name: "B", Path: "b"}))
	require.NoError(t, c.DisableSource(ctx, "b"))
	require.NoError(t, c.MarkIndexed(ctx, "a", timeNow(t)))

	summary, err := c.Summary(ctx)
	require.NoError(t, err)

	assert.Equal(t, "1.0", summary.Version)
	assert.Equal(t, 2, summary.SourcesTotal)
	assert.Equal(t, 1, summary.SourcesEnabled)
	assert.Equal(t, 1, summary.SourcesIndexed)
	assert.Equal(t, "mistral", summary.LLMModel)
}
