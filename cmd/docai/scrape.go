package main

import (
	"fmt"
	"path/filepath"
	"regexp"
	"time"

	"github.com/docai/docai"
	"github.com/docai/docai/crawl"
	"github.com/docai/docai/fs"
)

// Run executes the scrape command.
func (c *ScrapeCmd) Run(deps *Dependencies) error {
	source, err := deps.Sources.FindSourceByID(deps.Ctx, c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docai.ErrorMessage(err))
		return err
	}
	if source.SourceURL == "" {
		err := docai.Errorf(docai.EINVALID, "source %q has no URL. Set one with 'docai sources add --url'.", c.ID)
		fmt.Fprintf(deps.Stderr, "error: %s\n", docai.ErrorMessage(err))
		return err
	}

	urlFilter, err := compileFilter(c.Filter, c.Exclude)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	// Preview mode: show discovered URLs without fetching anything
	if c.Preview {
		urls, err := deps.Sitemaps.DiscoverURLs(deps.Ctx, source.SourceURL, urlFilter)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", docai.ErrorMessage(err))
			return err
		}
		for _, u := range urls {
			fmt.Fprintln(deps.Stdout, u)
		}
		if len(urls) == 0 {
			fmt.Fprintln(deps.Stdout, "No sitemap found. A real scrape would follow links recursively.")
		}
		return nil
	}

	dir := source.Path
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(deps.DocsDir, dir)
	}
	deps.Crawler.Pages = fs.NewPageStore(dir)

	if c.Concurrency > 0 {
		deps.Crawler.Concurrency = c.Concurrency
	}
	if c.Depth > 0 {
		deps.Crawler.MaxDepth = c.Depth
	}
	if c.Delay > 0 {
		deps.Crawler.RateLimiter = crawl.NewDomainLimiterDelay(time.Duration(c.Delay * float64(time.Second)))
	}
	if c.MaxPages > 0 {
		deps.Crawler.MaxPages = c.MaxPages
	}

	fmt.Fprintf(deps.Stdout, "Scraping %s into %s\n", source.SourceURL, dir)

	progress := func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "  Found %d URLs\n", event.Total)
		case crawl.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skip %s: %v\n", crawl.TruncateURL(event.URL, 72), event.Error)
		case crawl.ProgressFinished:
			// Summary printed after crawl completes
		}
	}

	result, err := deps.Crawler.CrawlSource(deps.Ctx, source, urlFilter, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error crawling: %v\n", err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "  Saved %d pages, %d unchanged, %d failed (%s)\n",
		result.Saved, result.Unchanged, result.Failed, crawl.FormatBytes(result.Bytes))

	if result.Saved > 0 {
		fmt.Fprintf(deps.Stdout, "Run 'docai index %s' to refresh the vector index.\n", c.ID)
	}
	return nil
}

// compileFilter validates regex patterns early, before any fetching.
func compileFilter(include, exclude []string) (*docai.URLFilter, error) {
	if len(include) == 0 && len(exclude) == 0 {
		return nil, nil
	}
	filter := &docai.URLFilter{}
	for _, pattern := range include {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid filter pattern %q: %w", pattern, err)
		}
		filter.Include = append(filter.Include, re)
	}
	for _, pattern := range exclude {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		filter.Exclude = append(filter.Exclude, re)
	}
	return filter, nil
}
