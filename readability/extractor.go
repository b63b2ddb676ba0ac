// Package readability implements docai.Extractor using go-readability.
package readability

import (
	"strings"

	"github.com/docai/docai"
	"github.com/go-shiori/go-readability"
)

var _ docai.Extractor = (*Extractor)(nil)

// Extractor extracts main content with Mozilla's readability algorithm.
// It handles article-like pages well and serves as an alternative when
// trafilatura misjudges a layout.
type Extractor struct{}

// NewExtractor creates an Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*docai.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, docai.Errorf(docai.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, err
	}

	return &docai.ExtractResult{
		Title:       article.Title,
		ContentHTML: article.Content,
	}, nil
}
