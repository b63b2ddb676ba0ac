package http

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/docai/docai"
)

var _ docai.SitemapService = (*SitemapService)(nil)

// SitemapService discovers page URLs from a site's sitemaps.
type SitemapService struct {
	client *http.Client
}

// NewSitemapService creates a SitemapService. A nil client falls back to
// http.DefaultClient.
func NewSitemapService(client *http.Client) *SitemapService {
	if client == nil {
		client = http.DefaultClient
	}
	return &SitemapService{client: client}
}

// DiscoverURLs finds page URLs for baseURL. Sitemap locations come from
// robots.txt Sitemap directives, falling back to /sitemap.xml. Sitemap
// indexes are followed recursively. When baseURL carries a path (e.g.
// https://example.com/docs) only URLs under that path are returned.
//
// Returns an empty slice, not an error, when the site has no sitemap.
func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *docai.URLFilter) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	pathPrefix := base.Path
	if pathPrefix == "/" {
		pathPrefix = ""
	}

	// Sitemaps live at the domain root regardless of the docs path.
	root := *base
	root.Path = ""

	sitemaps, err := s.sitemapLocations(ctx, &root)
	if err != nil {
		return nil, err
	}
	if len(sitemaps) == 0 {
		return []string{}, nil
	}

	seenSitemaps := make(map[string]bool)
	seenURLs := make(map[string]bool)
	urls := []string{}

	for _, sm := range sitemaps {
		found, err := s.walkSitemap(ctx, sm, seenSitemaps)
		if err != nil {
			return nil, err
		}
		for _, u := range found {
			if seenURLs[u] {
				continue
			}
			seenURLs[u] = true
			if !underPath(u, pathPrefix) {
				continue
			}
			if !filter.Match(u) {
				continue
			}
			urls = append(urls, u)
		}
	}

	return urls, nil
}

// sitemapLocations returns sitemap URLs from robots.txt, or /sitemap.xml
// when it exists, or nothing.
func (s *SitemapService) sitemapLocations(ctx context.Context, root *url.URL) ([]string, error) {
	robotsURL := root.ResolveReference(&url.URL{Path: "/robots.txt"}).String()
	if sitemaps, err := s.robotsSitemaps(ctx, robotsURL); err == nil && len(sitemaps) > 0 {
		return sitemaps, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fallback := root.ResolveReference(&url.URL{Path: "/sitemap.xml"}).String()
	ok, err := s.exists(ctx, fallback)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, nil
	}
	if ok {
		return []string{fallback}, nil
	}
	return nil, nil
}

// robotsSitemaps extracts Sitemap: directives from robots.txt.
func (s *SitemapService) robotsSitemaps(ctx context.Context, robotsURL string) ([]string, error) {
	body, err := s.get(ctx, robotsURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var sitemaps []string
	scanner := bufio.NewScanner(body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) > 8 && strings.EqualFold(line[:8], "sitemap:") {
			if loc := strings.TrimSpace(line[8:]); loc != "" {
				sitemaps = append(sitemaps, loc)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading robots.txt: %w", err)
	}
	return sitemaps, nil
}

// walkSitemap fetches one sitemap and returns its page URLs, recursing
// into <sitemapindex> entries.
func (s *SitemapService) walkSitemap(ctx context.Context, sitemapURL string, seen map[string]bool) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if seen[sitemapURL] {
		return nil, nil
	}
	seen[sitemapURL] = true

	body, err := s.get(ctx, sitemapURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(body); err != nil {
		return nil, fmt.Errorf("parsing sitemap XML: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("empty sitemap XML at %s", sitemapURL)
	}

	if root.Tag == "sitemapindex" {
		var urls []string
		for _, child := range root.SelectElements("sitemap") {
			loc := elementText(child, "loc")
			if loc == "" {
				continue
			}
			nested, err := s.walkSitemap(ctx, loc, seen)
			if err != nil {
				return nil, err
			}
			urls = append(urls, nested...)
		}
		return urls, nil
	}

	var urls []string
	for _, entry := range root.SelectElements("url") {
		if loc := elementText(entry, "loc"); loc != "" {
			urls = append(urls, loc)
		}
	}
	return urls, nil
}

func elementText(parent *etree.Element, tag string) string {
	el := parent.SelectElement(tag)
	if el == nil {
		return ""
	}
	return strings.TrimSpace(el.Text())
}

// underPath reports whether the URL's path sits under prefix at a path
// boundary, so /docs matches /docs/intro but not /documentation.
func underPath(rawURL, prefix string) bool {
	if prefix == "" {
		return true
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return strings.HasPrefix(parsed.Path, prefix) || parsed.Path == strings.TrimSuffix(prefix, "/")
}

func (s *SitemapService) get(ctx context.Context, target string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, target)
	}
	return resp.Body, nil
}

func (s *SitemapService) exists(ctx context.Context, target string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
	if err != nil {
		return false, fmt.Errorf("creating request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return false, err
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK, nil
}
