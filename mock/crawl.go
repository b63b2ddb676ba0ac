package mock

import (
	"context"

	"github.com/docai/docai"
)

var _ docai.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of docai.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	if f.CloseFn == nil {
		return nil
	}
	return f.CloseFn()
}

var _ docai.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of docai.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*docai.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*docai.ExtractResult, error) {
	return e.ExtractFn(html)
}

var _ docai.Converter = (*Converter)(nil)

// Converter is a mock implementation of docai.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

var _ docai.PageStore = (*PageStore)(nil)

// PageStore is a mock implementation of docai.PageStore.
type PageStore struct {
	SaveFn   func(ctx context.Context, page *docai.Page) (string, error)
	CommitFn func() error
	AbortFn  func() error
}

func (s *PageStore) Save(ctx context.Context, page *docai.Page) (string, error) {
	return s.SaveFn(ctx, page)
}

func (s *PageStore) Commit() error {
	if s.CommitFn == nil {
		return nil
	}
	return s.CommitFn()
}

func (s *PageStore) Abort() error {
	if s.AbortFn == nil {
		return nil
	}
	return s.AbortFn()
}

var _ docai.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of docai.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string, filter *docai.URLFilter) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *docai.URLFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL, filter)
}

var _ docai.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of docai.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn func(html string, baseURL string) ([]docai.DiscoveredLink, error)
}

func (l *LinkExtractor) ExtractLinks(html string, baseURL string) ([]docai.DiscoveredLink, error) {
	return l.ExtractLinksFn(html, baseURL)
}

var _ docai.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of docai.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	if d.WaitFn == nil {
		return nil
	}
	return d.WaitFn(ctx, domain)
}
