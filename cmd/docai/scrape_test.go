package main_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/docai/docai"
	main "github.com/docai/docai/cmd/docai"
	"github.com/docai/docai/crawl"
	"github.com/docai/docai/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScrapeCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("scrapes a source into its folder and rebuilds the index", func(t *testing.T) {
		t.Parallel()

		docsDir := t.TempDir()

		var indexed []*docai.Document
		documents := &mock.DocumentService{
			CreateDocumentFn: func(_ context.Context, doc *docai.Document) error {
				indexed = append(indexed, doc)
				return nil
			},
		}

		crawler := &crawl.Crawler{
			Sitemaps: &mock.SitemapService{
				DiscoverURLsFn: func(_ context.Context, baseURL string, _ *docai.URLFilter) ([]string, error) {
					assert.Equal(t, "https://docs.example.com/xray", baseURL)
					return []string{"https://docs.example.com/xray/install"}, nil
				},
			},
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, _ string) (string, error) {
					return "<html><body><main><h1>Install</h1><p>Run it.</p></main></body></html>", nil
				},
			},
			Extractor: &mock.Extractor{
				ExtractFn: func(_ string) (*docai.ExtractResult, error) {
					return &docai.ExtractResult{Title: "Install", ContentHTML: "<h1>Install</h1><p>Run it.</p>"}, nil
				},
			},
			Converter: &mock.Converter{
				ConvertFn: func(_ string) (string, error) {
					return "# Install\n\nRun it.", nil
				},
			},
			Documents: documents,
		}

		sources := &mock.SourceService{
			FindSourceByIDFn: func(_ context.Context, id string) (*docai.Source, error) {
				return &docai.Source{
					ID:        id,
					Name:      "XRay Docs",
					Path:      "xray",
					SourceURL: "https://docs.example.com/xray",
				}, nil
			},
		}

		stdout := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:       context.Background(),
			Stdout:    stdout,
			Stderr:    &bytes.Buffer{},
			Sources:   sources,
			Documents: documents,
			Crawler:   crawler,
			DocsDir:   docsDir,
		}

		err := (&main.ScrapeCmd{ID: "xray"}).Run(deps)
		require.NoError(t, err)

		// The page landed in the source's folder.
		content, err := os.ReadFile(filepath.Join(docsDir, "xray", "install.md"))
		require.NoError(t, err)
		assert.Contains(t, string(content), "Source: https://docs.example.com/xray/install")
		assert.Contains(t, string(content), "Run it.")

		require.Len(t, indexed, 1)
		assert.Equal(t, "xray", indexed[0].SourceID)

		output := stdout.String()
		assert.Contains(t, output, "Saved 1 pages")
		assert.Contains(t, output, "docai index xray")
	})

	t.Run("preview lists URLs without fetching", func(t *testing.T) {
		t.Parallel()

		sources := &mock.SourceService{
			FindSourceByIDFn: func(_ context.Context, id string) (*docai.Source, error) {
				return &docai.Source{ID: id, Name: "XRay Docs", Path: "xray", SourceURL: "https://docs.example.com/xray"}, nil
			},
		}

		sitemaps := &mock.SitemapService{
			DiscoverURLsFn: func(_ context.Context, _ string, _ *docai.URLFilter) ([]string, error) {
				return []string{
					"https://docs.example.com/xray/install",
					"https://docs.example.com/xray/usage",
				}, nil
			},
		}

		stdout := &bytes.Buffer{}

		// No Crawler wired: preview must not need one.
		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   stdout,
			Stderr:   &bytes.Buffer{},
			Sources:  sources,
			Sitemaps: sitemaps,
		}

		err := (&main.ScrapeCmd{ID: "xray", Preview: true}).Run(deps)
		require.NoError(t, err)

		output := stdout.String()
		assert.Contains(t, output, "https://docs.example.com/xray/install")
		assert.Contains(t, output, "https://docs.example.com/xray/usage")
	})

	t.Run("rejects sources without a URL", func(t *testing.T) {
		t.Parallel()

		sources := &mock.SourceService{
			FindSourceByIDFn: func(_ context.Context, id string) (*docai.Source, error) {
				return &docai.Source{ID: id, Name: "Local Notes", Path: "notes"}, nil
			},
		}

		stderr := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  &bytes.Buffer{},
			Stderr:  stderr,
			Sources: sources,
		}

		err := (&main.ScrapeCmd{ID: "notes"}).Run(deps)
		require.Error(t, err)
		assert.Equal(t, docai.EINVALID, docai.ErrorCode(err))
		assert.Contains(t, stderr.String(), "has no URL")
	})

	t.Run("rejects invalid filter patterns before fetching", func(t *testing.T) {
		t.Parallel()

		sources := &mock.SourceService{
			FindSourceByIDFn: func(_ context.Context, id string) (*docai.Source, error) {
				return &docai.Source{ID: id, Name: "XRay Docs", Path: "xray", SourceURL: "https://docs.example.com"}, nil
			},
		}

		stderr := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  &bytes.Buffer{},
			Stderr:  stderr,
			Sources: sources,
		}

		err := (&main.ScrapeCmd{ID: "xray", Filter: []string{"["}}).Run(deps)
		require.Error(t, err)
		assert.Contains(t, stderr.String(), "invalid filter pattern")
	})
}
