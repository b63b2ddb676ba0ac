// Package htmltomarkdown implements docai.Converter using html-to-markdown.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/docai/docai"
)

var _ docai.Converter = (*Converter)(nil)

// Converter turns clean HTML into CommonMark Markdown with table support.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Convert transforms HTML into Markdown.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", docai.Errorf(docai.EINVALID, "empty HTML input")
	}
	return c.conv.ConvertString(html)
}
