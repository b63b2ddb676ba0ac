// Package goquery provides CSS-selector based link and content extraction
// for documentation pages.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/docai/docai"
)

var _ docai.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor finds same-site links in HTML using universal selectors
// that work across documentation frameworks. Navigation and sidebar areas
// rank highest because they enumerate the documentation tree; content
// links rank next; footer links last.
type LinkExtractor struct{}

// NewLinkExtractor creates a LinkExtractor.
func NewLinkExtractor() *LinkExtractor {
	return &LinkExtractor{}
}

// ExtractLinks parses HTML and returns prioritized links. Relative URLs
// are resolved against baseURL; links to other hosts are dropped.
// Duplicates keep their highest-priority occurrence.
func (e *LinkExtractor) ExtractLinks(html string, baseURL string) ([]docai.DiscoveredLink, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, docai.Errorf(docai.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, docai.Errorf(docai.EINVALID, "failed to parse HTML: %v", err)
	}

	seen := make(map[string]int)
	var links []docai.DiscoveredLink

	collect := func(selector string, priority docai.LinkPriority) {
		doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			href, ok := sel.Attr("href")
			if !ok || href == "" || isNonHTTPLink(href) {
				return
			}

			resolved := resolveURL(base, href)
			if resolved == "" || !sameHost(base, resolved) {
				return
			}

			link := docai.DiscoveredLink{
				URL:      resolved,
				Priority: priority,
				Text:     strings.TrimSpace(sel.Text()),
			}

			if idx, dup := seen[resolved]; dup {
				if priority > links[idx].Priority {
					links[idx] = link
				}
				return
			}
			seen[resolved] = len(links)
			links = append(links, link)
		})
	}

	collect("nav a[href], [role=\"navigation\"] a[href], .sidebar a[href], .toc a[href], aside a[href], .menu a[href]", docai.PriorityNavigation)
	collect("main a[href], article a[href], .content a[href], .wiki-content a[href]", docai.PriorityContent)
	collect("footer a[href], .footer a[href]", docai.PriorityFooter)
	collect("body a[href]", docai.PriorityFallback)

	return links, nil
}

// isNonHTTPLink reports hrefs that can never resolve to a crawlable page.
func isNonHTTPLink(href string) bool {
	lower := strings.ToLower(strings.TrimSpace(href))
	for _, scheme := range []string{"javascript:", "mailto:", "tel:", "data:", "ftp:"} {
		if strings.HasPrefix(lower, scheme) {
			return true
		}
	}
	return strings.HasPrefix(lower, "#")
}

func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

func sameHost(base *url.URL, resolved string) bool {
	u, err := url.Parse(resolved)
	if err != nil {
		return false
	}
	return u.Host == base.Host
}
