// Package trafilatura implements docai.Extractor on top of go-trafilatura,
// which identifies the main content of a page and drops boilerplate.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/docai/docai"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

var _ docai.Extractor = (*Extractor)(nil)

// Extractor extracts main page content using trafilatura's heuristics.
type Extractor struct{}

// NewExtractor creates an Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the main content of rawHTML with boilerplate removed.
// The readability/dom fallbacks are enabled so pages that defeat the
// primary heuristics still extract.
func (e *Extractor) Extract(rawHTML string) (*docai.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, docai.Errorf(docai.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), trafilatura.Options{
		EnableFallback: true,
	})
	if err != nil {
		return nil, err
	}

	var contentHTML string
	if result.ContentNode != nil {
		var buf bytes.Buffer
		if err := html.Render(&buf, result.ContentNode); err != nil {
			return nil, err
		}
		contentHTML = buf.String()
	}

	return &docai.ExtractResult{
		Title:       result.Metadata.Title,
		ContentHTML: contentHTML,
	}, nil
}
