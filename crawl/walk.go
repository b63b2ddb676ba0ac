package crawl

import (
	"context"
	"fmt"
	"net/url"

	"github.com/docai/docai"
)

// walk performs a breadth-limited recursive crawl when sitemap discovery
// yields nothing. It starts from sourceURL and follows links within the
// same host and path prefix, up to MaxDepth levels and MaxPages pages.
//
// URLs are processed sequentially: recursive crawls run against sites
// without sitemaps, where politeness matters more than throughput, and a
// single worker keeps the frontier and rate limiter simple.
func (c *Crawler) walk(ctx context.Context, sourceURL string, filter *docai.URLFilter, progress ProgressFunc) ([]pageResult, error) {
	base, err := url.Parse(sourceURL)
	if err != nil {
		return nil, fmt.Errorf("invalid source URL: %w", err)
	}

	maxDepth := c.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	maxPages := c.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	frontier := NewFrontier(frontierExpectedURLs, frontierFalsePositiveRate)
	frontier.Push(docai.DiscoveredLink{
		URL:      sourceURL,
		Priority: docai.PriorityNavigation,
		Depth:    0,
	})

	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted})
	}

	var results []pageResult
	processed := 0

	for {
		link, ok := frontier.Pop()
		if !ok {
			break
		}
		if processed >= maxPages {
			break
		}
		if ctx.Err() != nil {
			break
		}
		processed++

		linkURL, err := url.Parse(link.URL)
		if err != nil {
			results = append(results, pageResult{position: len(results), url: link.URL, err: err})
			continue
		}
		if c.RateLimiter != nil {
			if err := c.RateLimiter.Wait(ctx, linkURL.Host); err != nil {
				break // context canceled
			}
		}

		html, err := FetchWithRetry(ctx, link.URL, c.Fetcher.Fetch, nil, c.RetryDelays)
		if err != nil {
			results = append(results, pageResult{position: len(results), url: link.URL, err: err})
			if progress != nil {
				progress(ProgressEvent{Type: ProgressFailed, URL: link.URL, Error: err})
			}
			continue
		}

		// Expand the frontier before extraction so link discovery sees
		// the full page, not the boilerplate-stripped content.
		if c.Links != nil && link.Depth < maxDepth {
			c.expand(html, link, base, filter, frontier)
		}

		result := pageResult{position: len(results), url: link.URL}

		extracted, err := c.Extractor.Extract(html)
		if err == nil {
			result.markdown, err = c.Converter.Convert(extracted.ContentHTML)
		}
		if err != nil {
			result.err = err
			results = append(results, result)
			if progress != nil {
				progress(ProgressEvent{Type: ProgressFailed, URL: link.URL, Error: err})
			}
			continue
		}

		result.title = extracted.Title
		result.hash = ComputeHash(result.markdown)
		results = append(results, result)

		if progress != nil {
			progress(ProgressEvent{Type: ProgressCompleted, URL: link.URL, Completed: len(results)})
		}
	}

	return results, nil
}

// expand pushes in-scope links discovered on a page onto the frontier.
func (c *Crawler) expand(html string, from docai.DiscoveredLink, base *url.URL, filter *docai.URLFilter, frontier *Frontier) {
	links, err := c.Links.ExtractLinks(html, from.URL)
	if err != nil {
		return
	}
	for _, discovered := range links {
		discoveredURL, err := url.Parse(discovered.URL)
		if err != nil {
			continue
		}
		if !inScope(discoveredURL, base) {
			continue
		}
		if !filter.Match(discovered.URL) {
			continue
		}
		discovered.Depth = from.Depth + 1
		frontier.Push(discovered)
	}
}
