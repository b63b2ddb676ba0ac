package docai

import (
	"context"
	"regexp"
)

// Page represents a fetched documentation page before indexing.
type Page struct {
	URL     string
	Title   string
	Content string // Markdown
}

// Fetcher retrieves rendered HTML from URLs. Implementations may use
// browser automation to handle JavaScript-rendered content.
type Fetcher interface {
	// Fetch retrieves the page HTML. The context controls timeout and
	// cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases any resources held by the fetcher.
	Close() error
}

// ExtractResult holds the extracted content from an HTML page.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// ContentHTML is the main content as clean HTML with boilerplate
	// (nav, footer, sidebar) removed.
	ContentHTML string
}

// Extractor extracts main content from HTML pages, removing boilerplate.
type Extractor interface {
	Extract(html string) (*ExtractResult, error)
}

// Converter converts clean HTML to Markdown.
type Converter interface {
	Convert(html string) (string, error)
}

// PageStore persists scraped pages to a source folder with atomic
// semantics. Save writes to a temporary location and returns the
// relative path chosen for the page; Commit makes changes permanent;
// Abort discards pending changes.
type PageStore interface {
	Save(ctx context.Context, page *Page) (relPath string, err error)
	Commit() error
	Abort() error
}

// LinkPriority represents crawl priority (higher = more important).
type LinkPriority int

// Link priority levels for crawl ordering.
const (
	PriorityIgnore     LinkPriority = 0
	PriorityFallback   LinkPriority = 10
	PriorityFooter     LinkPriority = 20
	PriorityContent    LinkPriority = 50
	PriorityNavigation LinkPriority = 100
)

// DiscoveredLink represents a URL found while crawling, with priority
// metadata and the depth at which it was discovered.
type DiscoveredLink struct {
	URL      string
	Priority LinkPriority
	Text     string
	Depth    int
}

// LinkExtractor extracts prioritized links from HTML.
type LinkExtractor interface {
	// ExtractLinks parses HTML and returns discovered links. Relative
	// URLs are resolved against baseURL.
	ExtractLinks(html string, baseURL string) ([]DiscoveredLink, error)
}

// URLFrontier manages a crawl queue with deduplication.
type URLFrontier interface {
	// Push adds a link to the frontier.
	// Returns false if the URL has already been seen.
	Push(link DiscoveredLink) bool

	// Pop returns the next URL by priority.
	// Returns false if the frontier is empty.
	Pop() (DiscoveredLink, bool)

	// Len returns the number of URLs in the queue.
	Len() int

	// Seen returns true if the URL has been processed or queued.
	Seen(url string) bool
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}

// SitemapService discovers URLs from website sitemaps.
type SitemapService interface {
	// DiscoverURLs finds all URLs from a site's sitemap. It checks
	// robots.txt for sitemap directives first, then falls back to
	// /sitemap.xml. Sitemap indexes are resolved recursively.
	//
	// A nil filter returns all URLs.
	DiscoverURLs(ctx context.Context, baseURL string, filter *URLFilter) ([]string, error)
}

// URLFilter specifies patterns for including/excluding URLs.
type URLFilter struct {
	// Include patterns - if set, only URLs matching at least one
	// pattern are included.
	Include []*regexp.Regexp

	// Exclude patterns - URLs matching any pattern are excluded.
	// Exclude is applied after Include.
	Exclude []*regexp.Regexp
}

// Match returns true if the URL passes the filter.
// A nil filter passes everything.
func (f *URLFilter) Match(url string) bool {
	if f == nil {
		return true
	}

	if len(f.Include) > 0 {
		matched := false
		for _, re := range f.Include {
			if re.MatchString(url) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	for _, re := range f.Exclude {
		if re.MatchString(url) {
			return false
		}
	}

	return true
}
