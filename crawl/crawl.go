// Package crawl provides documentation crawling orchestration. It
// coordinates sitemap discovery, fetching, extraction, markdown
// conversion, and storage of documentation pages into a source folder
// plus the document index.
package crawl

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/docai/docai"
	"golang.org/x/sync/errgroup"
)

// Crawler orchestrates the scraping of a documentation site into a
// source's markdown folder.
type Crawler struct {
	Sitemaps    docai.SitemapService
	Fetcher     docai.Fetcher
	Extractor   docai.Extractor
	Converter   docai.Converter
	Links       docai.LinkExtractor
	Pages       docai.PageStore
	Documents   docai.DocumentService
	RateLimiter docai.DomainLimiter

	// Concurrency limits parallel fetches for sitemap-based crawls.
	Concurrency int

	// MaxDepth bounds link following for recursive crawls.
	MaxDepth int

	// MaxPages caps the total number of pages fetched in one run.
	MaxPages int

	RetryDelays []time.Duration
}

// Default crawl bounds, matching the original scraper's politeness settings.
const (
	DefaultMaxDepth    = 5
	DefaultMaxPages    = 1000
	DefaultConcurrency = 10

	frontierExpectedURLs      = 10000
	frontierFalsePositiveRate = 0.01
)

// Result holds the outcome of a crawl operation.
type Result struct {
	Saved     int
	Unchanged int
	Failed    int
	Bytes     int
}

// ProgressType indicates the type of progress event.
type ProgressType int

// Progress event types emitted during a crawl.
const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressUnchanged
	ProgressFailed
	ProgressFinished
)

// ProgressEvent reports progress during a crawl operation.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Error     error
}

// ProgressFunc is a callback for reporting crawl progress.
type ProgressFunc func(event ProgressEvent)

// pageResult holds the outcome of processing a single URL.
type pageResult struct {
	position int
	url      string
	title    string
	markdown string
	hash     string
	err      error
}

// CrawlSource crawls all pages for a source and saves them as markdown
// files plus document index records. URL discovery tries the site's
// sitemap first and falls back to recursive link following bounded by
// MaxDepth and MaxPages. The progress callback, if provided, receives
// events as crawling proceeds.
//
// Pages whose content hash matches the existing document index are
// counted as unchanged. The page store is committed only when at least
// one page was saved; a discovery error aborts it untouched.
func (c *Crawler) CrawlSource(ctx context.Context, source *docai.Source, filter *docai.URLFilter, progress ProgressFunc) (*Result, error) {
	known, err := c.knownHashes(ctx, source.ID)
	if err != nil {
		return nil, fmt.Errorf("document index: %w", err)
	}

	urls, err := c.Sitemaps.DiscoverURLs(ctx, source.SourceURL, filter)
	if err != nil {
		return nil, fmt.Errorf("sitemap discovery: %w", err)
	}

	var results []pageResult
	if len(urls) > 0 {
		results, err = c.fetchAll(ctx, urls, progress)
	} else {
		results, err = c.walk(ctx, source.SourceURL, filter, progress)
	}
	if err != nil {
		return nil, err
	}

	res, err := c.saveResults(ctx, source.ID, results, known)
	if err != nil {
		_ = c.Pages.Abort()
		return nil, err
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: len(results), Total: len(results)})
	}
	return res, nil
}

// fetchAll processes a known URL list concurrently, preserving sitemap order.
func (c *Crawler) fetchAll(ctx context.Context, urls []string, progress ProgressFunc) ([]pageResult, error) {
	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: len(urls)})
	}

	resultCh := make(chan pageResult, len(urls))
	var completed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, u := range urls {
			g.Go(func() error {
				resultCh <- c.processURL(gctx, i, u)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	results := make([]pageResult, len(urls))
	for result := range resultCh {
		completed.Add(1)
		results[result.position] = result

		if progress == nil {
			continue
		}
		ev := ProgressEvent{
			Completed: int(completed.Load()),
			Total:     len(urls),
			URL:       result.url,
		}
		if result.err != nil {
			ev.Type = ProgressFailed
			ev.Error = result.err
		} else {
			ev.Type = ProgressCompleted
		}
		progress(ev)
	}

	return results, nil
}

// processURL fetches a single URL and converts it to markdown.
func (c *Crawler) processURL(ctx context.Context, position int, pageURL string) pageResult {
	result := pageResult{position: position, url: pageURL}

	if c.RateLimiter != nil {
		parsed, err := url.Parse(pageURL)
		if err != nil {
			result.err = err
			return result
		}
		if err := c.RateLimiter.Wait(ctx, parsed.Host); err != nil {
			result.err = err
			return result
		}
	}

	html, err := FetchWithRetry(ctx, pageURL, c.Fetcher.Fetch, nil, c.RetryDelays)
	if err != nil {
		result.err = err
		return result
	}

	extracted, err := c.Extractor.Extract(html)
	if err != nil {
		result.err = err
		return result
	}

	markdown, err := c.Converter.Convert(extracted.ContentHTML)
	if err != nil {
		result.err = err
		return result
	}

	result.title = extracted.Title
	result.markdown = markdown
	result.hash = ComputeHash(markdown)
	return result
}

// saveResults writes fetched pages to the page store and rebuilds the
// source's document index. The previous index rows are replaced so the
// index always mirrors the committed folder.
func (c *Crawler) saveResults(ctx context.Context, sourceID string, results []pageResult, known map[string]string) (*Result, error) {
	var res Result
	saved := 0

	type savedPage struct {
		result  pageResult
		relPath string
	}
	var pages []savedPage

	for _, result := range results {
		if result.err != nil {
			res.Failed++
			continue
		}
		if result.markdown == "" {
			res.Failed++
			continue
		}

		relPath, err := c.Pages.Save(ctx, &docai.Page{
			URL:     result.url,
			Title:   result.title,
			Content: result.markdown,
		})
		if err != nil {
			res.Failed++
			continue
		}

		if known[result.url] == result.hash {
			res.Unchanged++
		} else {
			res.Saved++
		}
		res.Bytes += len(result.markdown)
		pages = append(pages, savedPage{result: result, relPath: relPath})
		saved++
	}

	if saved == 0 {
		_ = c.Pages.Abort()
		return &res, nil
	}

	if err := c.Documents.DeleteDocumentsBySource(ctx, sourceID); err != nil {
		return nil, err
	}
	for i, p := range pages {
		doc := &docai.Document{
			SourceID:    sourceID,
			FilePath:    p.relPath,
			SourceURL:   p.result.url,
			Title:       p.result.title,
			ContentHash: p.result.hash,
			Position:    i,
		}
		if err := c.Documents.CreateDocument(ctx, doc); err != nil {
			return nil, err
		}
	}

	if err := c.Pages.Commit(); err != nil {
		return nil, fmt.Errorf("commit pages: %w", err)
	}
	return &res, nil
}

// knownHashes returns the url -> content hash map of the source's
// current document index, used to report unchanged pages on re-scrape.
func (c *Crawler) knownHashes(ctx context.Context, sourceID string) (map[string]string, error) {
	docs, err := c.Documents.FindDocuments(ctx, docai.DocumentFilter{SourceID: &sourceID})
	if err != nil {
		return nil, err
	}
	known := make(map[string]string, len(docs))
	for _, d := range docs {
		known[d.SourceURL] = d.ContentHash
	}
	return known, nil
}

// inScope reports whether a discovered URL stays on the source host and
// under its path prefix.
func inScope(discovered *url.URL, source *url.URL) bool {
	if discovered.Host != source.Host {
		return false
	}
	return strings.HasPrefix(discovered.Path, source.Path)
}
