// Package http provides HTTP-based implementations of docai.Fetcher and
// docai.SitemapService for static documentation sites.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/docai/docai"
)

// DefaultFetchTimeout is the default timeout for page requests.
const DefaultFetchTimeout = 10 * time.Second

// DefaultUserAgent identifies the crawler to documentation hosts.
const DefaultUserAgent = "docai/1.0 (+https://github.com/docai/docai)"

var _ docai.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML over plain HTTP. It does not execute JavaScript;
// use the rod fetcher for sites that render content client-side.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the per-request timeout. Defaults to DefaultFetchTimeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent overrides the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// NewFetcher creates an HTTP Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the HTML content at url.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	return string(body), nil
}

// Close is a no-op; http.Client needs no explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}
