// Package rag wires retrieval and generation together: it searches the
// per-source vector collections and grounds LLM answers in the results.
package rag

import (
	"context"
	"sort"
	"strings"

	"github.com/docai/docai"
)

// Retrieval defaults, applied when SearchOptions leaves them zero.
const (
	DefaultLimit    = 5
	DefaultMinScore = 0.0
)

var (
	_ docai.SearchService = (*Engine)(nil)
	_ docai.Asker         = (*Engine)(nil)
)

// Engine answers questions over the indexed documentation sources.
type Engine struct {
	Sources   docai.SourceService
	Vectors   docai.VectorStore
	Runtime   docai.Runtime
	Generator docai.Generator

	// Model is the generation model name, e.g. "mistral".
	Model string

	// Temperature for generation. Low values keep answers grounded.
	Temperature float32
}

// Search retrieves the chunks most relevant to the query across the
// selected sources, merged and ordered by score descending.
func (e *Engine) Search(ctx context.Context, query string, opts docai.SearchOptions) ([]docai.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, docai.Errorf(docai.EINVALID, "query required")
	}

	sources, err := e.resolveSources(ctx, opts.SourceIDs)
	if err != nil {
		return nil, err
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	var merged []docai.SearchResult
	for _, src := range sources {
		results, err := e.Vectors.Query(ctx, src.ID, query, limit)
		if err != nil {
			return nil, err
		}
		for _, r := range results {
			if r.Score >= opts.MinScore {
				merged = append(merged, r)
			}
		}
	}

	sort.SliceStable(merged, func(i, j int) bool { return merged[i].Score > merged[j].Score })
	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged, nil
}

// Ask retrieves context for the question and synthesizes an answer with
// citations. The LLM is only called when retrieval found something.
func (e *Engine) Ask(ctx context.Context, question string, opts docai.SearchOptions) (*docai.Answer, error) {
	if err := e.Runtime.Ping(ctx); err != nil {
		return nil, err
	}

	results, err := e.Search(ctx, question, opts)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, docai.Errorf(docai.ENOTFOUND, "no relevant documentation found for this question")
	}

	text, err := e.Generator.Generate(ctx, docai.GenerateRequest{
		Model:       e.Model,
		Prompt:      buildPrompt(question, results),
		System:      systemPrompt,
		Temperature: e.Temperature,
	})
	if err != nil {
		return nil, err
	}

	citations := make([]docai.Citation, 0, len(results))
	for _, r := range results {
		citations = append(citations, docai.Citation{
			SourceID:  r.SourceID,
			FileName:  r.FileName,
			Title:     r.Title,
			SourceURL: r.SourceURL,
			Score:     r.Score,
			Preview:   docai.Preview(r.Content),
		})
	}

	return &docai.Answer{Text: text, Citations: citations}, nil
}

// resolveSources turns the requested IDs into searchable sources. With no
// IDs given, every enabled and indexed source participates.
func (e *Engine) resolveSources(ctx context.Context, ids []string) ([]*docai.Source, error) {
	if len(ids) == 0 {
		sources, err := e.Sources.FindSources(ctx, docai.SourceFilter{EnabledOnly: true, IndexedOnly: true})
		if err != nil {
			return nil, err
		}
		if len(sources) == 0 {
			return nil, docai.Errorf(docai.ENOTFOUND, "no indexed documentation sources. Scrape and index a source first.")
		}
		return sources, nil
	}

	sources := make([]*docai.Source, 0, len(ids))
	for _, id := range ids {
		src, err := e.Sources.FindSourceByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if !src.Enabled {
			return nil, docai.Errorf(docai.EINVALID, "source %q is disabled", id)
		}
		if !src.Indexed {
			return nil, docai.Errorf(docai.EINVALID, "source %q is not indexed yet", id)
		}
		sources = append(sources, src)
	}
	return sources, nil
}
