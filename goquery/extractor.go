package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/docai/docai"
)

// contentSelectors are tried in order; the first non-empty match wins.
// The chain covers Confluence-style wikis and generic semantic HTML.
var contentSelectors = []string{
	".wiki-content",
	"main",
	"article",
	"#content",
	".content",
	"body",
}

// chromeSelectors are stripped from the matched region before conversion.
var chromeSelectors = "script, style, nav, header, footer, aside, .breadcrumbs, .page-metadata"

var _ docai.Extractor = (*Extractor)(nil)

// Extractor pulls the main content region out of a page with a fixed
// selector chain. It is less precise than the trafilatura extractor but
// never fails on unusual markup, which makes it a good fallback.
type Extractor struct{}

// NewExtractor creates an Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the first matching content region with page chrome
// removed, and the page title from <title> or the first <h1>.
func (e *Extractor) Extract(html string) (*docai.ExtractResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, docai.Errorf(docai.EINVALID, "failed to parse HTML: %v", err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("h1").First().Text())
	}

	for _, selector := range contentSelectors {
		region := doc.Find(selector).First()
		if region.Length() == 0 {
			continue
		}
		region.Find(chromeSelectors).Remove()

		content, err := goquery.OuterHtml(region)
		if err != nil {
			return nil, docai.Errorf(docai.EINTERNAL, "failed to render content: %v", err)
		}
		if strings.TrimSpace(region.Text()) == "" {
			continue
		}
		return &docai.ExtractResult{Title: title, ContentHTML: content}, nil
	}

	return nil, docai.Errorf(docai.ENOTFOUND, "no content found in page")
}
