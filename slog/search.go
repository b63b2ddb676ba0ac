// Package slog provides logging decorators for domain services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/docai/docai"
)

var _ docai.SearchService = (*LoggingSearchService)(nil)

// LoggingSearchService wraps a SearchService with timing and result logging.
type LoggingSearchService struct {
	next   docai.SearchService
	logger *slog.Logger
}

// NewLoggingSearchService creates a LoggingSearchService.
func NewLoggingSearchService(next docai.SearchService, logger *slog.Logger) *LoggingSearchService {
	return &LoggingSearchService{next: next, logger: logger}
}

// Search delegates to the wrapped service and logs the outcome.
func (s *LoggingSearchService) Search(ctx context.Context, query string, opts docai.SearchOptions) ([]docai.SearchResult, error) {
	begin := time.Now()
	results, err := s.next.Search(ctx, query, opts)
	if err != nil {
		s.logger.Error("search failed",
			"sources", opts.SourceIDs,
			"code", docai.ErrorCode(err),
			"duration", time.Since(begin),
		)
		return nil, err
	}
	s.logger.Info("search",
		"sources", opts.SourceIDs,
		"results", len(results),
		"duration", time.Since(begin),
	)
	return results, nil
}

var _ docai.Asker = (*LoggingAsker)(nil)

// LoggingAsker wraps an Asker with timing and citation logging.
type LoggingAsker struct {
	next   docai.Asker
	logger *slog.Logger
}

// NewLoggingAsker creates a LoggingAsker.
func NewLoggingAsker(next docai.Asker, logger *slog.Logger) *LoggingAsker {
	return &LoggingAsker{next: next, logger: logger}
}

// Ask delegates to the wrapped Asker and logs the outcome.
func (a *LoggingAsker) Ask(ctx context.Context, question string, opts docai.SearchOptions) (*docai.Answer, error) {
	begin := time.Now()
	answer, err := a.next.Ask(ctx, question, opts)
	if err != nil {
		a.logger.Error("ask failed",
			"sources", opts.SourceIDs,
			"code", docai.ErrorCode(err),
			"duration", time.Since(begin),
		)
		return nil, err
	}
	a.logger.Info("ask",
		"sources", opts.SourceIDs,
		"citations", len(answer.Citations),
		"duration", time.Since(begin),
	)
	return answer, nil
}
