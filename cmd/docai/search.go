package main

import (
	"fmt"
	"strings"

	"github.com/docai/docai"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	query := strings.Join(c.Query, " ")

	results, err := deps.Search.Search(deps.Ctx, query, searchOptions(deps, c.Sources, c.Limit, c.MinScore))
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docai.ErrorMessage(err))
		return err
	}

	fmt.Fprint(deps.Stdout, docai.FormatSearchResults(results))
	return nil
}

// searchOptions fills unset retrieval flags from the configuration.
func searchOptions(deps *Dependencies, sourceIDs []string, limit int, minScore float32) docai.SearchOptions {
	opts := docai.SearchOptions{SourceIDs: sourceIDs, Limit: limit, MinScore: minScore}
	settings := deps.Settings.Settings()
	if opts.Limit <= 0 {
		opts.Limit = settings.SimilarityTopK
	}
	if opts.MinScore <= 0 {
		opts.MinScore = settings.MinScore
	}
	return opts
}
