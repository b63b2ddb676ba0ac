package goquery_test

import (
	"testing"

	"github.com/docai/docai"
	docaigoquery "github.com/docai/docai/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	e := docaigoquery.NewExtractor()

	t.Run("prefers wiki-content over main", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><title>Install Guide</title></head><body>
			<main>outer shell</main>
			<div class="wiki-content"><p>Install steps here.</p></div>
		</body></html>`

		result, err := e.Extract(html)
		require.NoError(t, err)
		assert.Equal(t, "Install Guide", result.Title)
		assert.Contains(t, result.ContentHTML, "Install steps here.")
		assert.NotContains(t, result.ContentHTML, "outer shell")
	})

	t.Run("strips page chrome from the matched region", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><main>
			<nav>site nav</nav>
			<p>Real content.</p>
			<footer>copyright</footer>
			<script>alert(1)</script>
		</main></body></html>`

		result, err := e.Extract(html)
		require.NoError(t, err)
		assert.Contains(t, result.ContentHTML, "Real content.")
		assert.NotContains(t, result.ContentHTML, "site nav")
		assert.NotContains(t, result.ContentHTML, "copyright")
		assert.NotContains(t, result.ContentHTML, "alert")
	})

	t.Run("falls back to h1 when title is missing", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><article><h1>Getting Started</h1><p>Welcome.</p></article></body></html>`

		result, err := e.Extract(html)
		require.NoError(t, err)
		assert.Equal(t, "Getting Started", result.Title)
	})

	t.Run("empty page is ENOTFOUND", func(t *testing.T) {
		t.Parallel()

		_, err := e.Extract(`<html><body><script>x</script></body></html>`)
		require.Error(t, err)
		assert.Equal(t, docai.ENOTFOUND, docai.ErrorCode(err))
	})
}
