package web_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/docai/docai"
	"github.com/docai/docai/mock"
	"github.com/docai/docai/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, s *web.Server) *httptest.Server {
	t.Helper()
	if s.Logger == nil {
		s.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	srv := httptest.NewServer(s.Router())
	t.Cleanup(srv.Close)
	return srv
}

func TestServer_Healthz(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &web.Server{})

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_Index(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &web.Server{})

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, string(body), "DocAI")
}

func TestServer_ListSources(t *testing.T) {
	t.Parallel()

	var gotFilter docai.SourceFilter
	srv := newTestServer(t, &web.Server{
		Sources: &mock.SourceService{
			FindSourcesFn: func(_ context.Context, filter docai.SourceFilter) ([]*docai.Source, error) {
				gotFilter = filter
				return []*docai.Source{{ID: "a", Name: "A", Path: "a", Enabled: true}}, nil
			},
		},
	})

	resp, err := http.Get(srv.URL + "/api/sources?enabled=true")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, gotFilter.EnabledOnly)

	var body struct {
		Sources []*docai.Source `json:"sources"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Sources, 1)
	assert.Equal(t, "a", body.Sources[0].ID)
}

func TestServer_Search(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &web.Server{
		Search: &mock.SearchService{
			SearchFn: func(_ context.Context, query string, opts docai.SearchOptions) ([]docai.SearchResult, error) {
				assert.Equal(t, "install", query)
				assert.Equal(t, []string{"xray"}, opts.SourceIDs)
				return []docai.SearchResult{{SourceID: "xray", Content: "how to install", Score: 0.8}}, nil
			},
		},
	})

	resp, err := http.Post(srv.URL+"/api/search", "application/json",
		strings.NewReader(`{"query":"install","sources":["xray"]}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Results []docai.SearchResult `json:"results"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Results, 1)
	assert.Equal(t, "how to install", body.Results[0].Content)
}

func TestServer_Ask(t *testing.T) {
	t.Parallel()

	t.Run("returns the answer with citations", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, &web.Server{
			Asker: &mock.Asker{
				AskFn: func(_ context.Context, question string, _ docai.SearchOptions) (*docai.Answer, error) {
					assert.Equal(t, "How do I install?", question)
					return &docai.Answer{
						Text:      "Run the installer.",
						Citations: []docai.Citation{{SourceID: "xray", Score: 0.9}},
					}, nil
				},
			},
		})

		resp, err := http.Post(srv.URL+"/api/ask", "application/json",
			strings.NewReader(`{"question":"How do I install?"}`))
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var answer docai.Answer
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&answer))
		assert.Equal(t, "Run the installer.", answer.Text)
		require.Len(t, answer.Citations, 1)
	})

	t.Run("domain errors map to HTTP statuses", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, &web.Server{
			Asker: &mock.Asker{
				AskFn: func(_ context.Context, _ string, _ docai.SearchOptions) (*docai.Answer, error) {
					return nil, docai.Errorf(docai.EUNAVAILABLE, "Ollama is not reachable.")
				},
			},
		})

		resp, err := http.Post(srv.URL+"/api/ask", "application/json",
			strings.NewReader(`{"question":"q"}`))
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		var body struct {
			Error struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, docai.EUNAVAILABLE, body.Error.Code)
		assert.Contains(t, body.Error.Message, "Ollama")
	})

	t.Run("malformed body is a 400", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, &web.Server{Asker: &mock.Asker{}})

		resp, err := http.Post(srv.URL+"/api/ask", "application/json", strings.NewReader(`{`))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
