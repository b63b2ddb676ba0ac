// Package rod provides a browser-based implementation of docai.Fetcher
// for documentation sites that render content with JavaScript.
package rod

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/docai/docai"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultRecycleAfter is the number of pages fetched before the browser
// process is replaced. Chrome accumulates memory under sustained load and
// never fully releases it, so long crawls need a fresh process now and then.
const DefaultRecycleAfter = 75

// idleTimeout caps how long WithWaitIdle waits for the network to settle.
const idleTimeout = 10 * time.Second

var _ docai.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML using headless Chrome. It is safe for
// concurrent use; the underlying browser is recycled periodically.
type Fetcher struct {
	mu           sync.Mutex
	browser      *rod.Browser
	launcher     *launcher.Launcher
	pages        int
	recycleAfter int
	waitIdle     bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithRecycleAfter sets how many pages are fetched before the browser
// process is replaced. Defaults to DefaultRecycleAfter.
func WithRecycleAfter(n int) Option {
	return func(f *Fetcher) {
		f.recycleAfter = n
	}
}

// WithWaitIdle makes Fetch wait for network idle after load, which helps
// on single-page-app documentation that loads content asynchronously.
func WithWaitIdle() Option {
	return func(f *Fetcher) {
		f.waitIdle = true
	}
}

// NewFetcher launches a headless Chrome browser. Close must be called when
// the Fetcher is no longer needed.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{recycleAfter: DefaultRecycleAfter}
	for _, opt := range opts {
		opt(f)
	}
	if err := f.launch(); err != nil {
		return nil, err
	}
	return f, nil
}

// Fetch navigates to url and returns the rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	browser, err := f.acquire()
	if err != nil {
		return "", err
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", err
	}
	defer page.Close()

	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return "", err
	}
	if err := page.WaitLoad(); err != nil {
		return "", err
	}
	if f.waitIdle {
		if err := page.WaitIdle(idleTimeout); err != nil {
			return "", err
		}
	}

	return page.HTML()
}

// Close shuts down the browser. Safe to call multiple times.
func (f *Fetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	var err error
	if f.browser != nil {
		err = f.browser.Close()
		f.browser = nil
	}
	if f.launcher != nil {
		f.launcher.Kill()
		f.launcher = nil
	}
	return err
}

// acquire returns the current browser, replacing it when the page budget
// is exhausted. A failed relaunch keeps the old browser running.
func (f *Fetcher) acquire() (*rod.Browser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.browser == nil {
		return nil, fmt.Errorf("fetcher is closed")
	}

	f.pages++
	if f.pages > f.recycleAfter {
		old, oldLauncher := f.browser, f.launcher
		f.browser, f.launcher = nil, nil
		if err := f.launch(); err != nil {
			f.browser, f.launcher = old, oldLauncher
		} else {
			_ = old.Close()
			oldLauncher.Kill()
			f.pages = 1
		}
	}

	return f.browser, nil
}

// launch starts a fresh browser with flags that keep background tabs from
// being throttled or killed during long crawls.
func (f *Fetcher) launch() error {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Leakless(true).
		Headless(true)

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("connecting to browser: %w", err)
	}

	f.browser = browser
	f.launcher = l
	return nil
}
