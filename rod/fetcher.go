// Package rod provides a browser-based implementation of imgcrawl.Fetcher
// for pages that build their markup with JavaScript.
package rod

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/fwojciec/imgcrawl"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout bounds navigation and rendering of a single page.
const DefaultFetchTimeout = 30 * time.Second

// documentInfo reports the document's media type and the HTTP status of
// the navigation that produced it.
const documentInfo = `() => {
	const nav = performance.getEntriesByType("navigation")[0];
	return {
		contentType: document.contentType,
		status: (nav && nav.responseStatus) || 0,
	};
}`

// Ensure Fetcher implements imgcrawl.Fetcher at compile time.
var _ imgcrawl.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML using headless Chrome.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	timeout  time.Duration
	closed   atomic.Bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the per-page timeout.
// Defaults to DefaultFetchTimeout (30s) if not specified.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// NewFetcher launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an EUNAVAILABLE error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{timeout: DefaultFetchTimeout}
	for _, opt := range opts {
		opt(f)
	}

	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Leakless(true).
		Headless(true)

	u, err := l.Launch()
	if err != nil {
		return nil, imgcrawl.Errorf(imgcrawl.EUNAVAILABLE, "launching browser: %v", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, imgcrawl.Errorf(imgcrawl.EUNAVAILABLE, "connecting to browser: %v", err)
	}

	f.browser = browser
	f.launcher = l
	return f, nil
}

// Fetch navigates to url, waits for the page to load and returns the
// rendered document. The reported content type is the document's own,
// so non-HTML resources are recognized the same way as over plain HTTP.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*imgcrawl.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page, err := f.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("opening page: %w", err)
	}
	defer page.Close()

	page = page.Context(ctx).Timeout(f.timeout)
	defer page.CancelTimeout()

	if err := page.Navigate(url); err != nil {
		return nil, imgcrawl.Errorf(imgcrawl.EUNAVAILABLE, "navigating to %s: %v", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, imgcrawl.Errorf(imgcrawl.EUNAVAILABLE, "loading %s: %v", url, err)
	}

	obj, err := page.Eval(documentInfo)
	if err != nil {
		return nil, fmt.Errorf("inspecting %s: %w", url, err)
	}
	status := obj.Value.Get("status").Int()
	if status == 0 {
		status = http.StatusOK
	}
	if status < 200 || status > 299 {
		return nil, imgcrawl.Errorf(imgcrawl.EUNAVAILABLE, "HTTP %d for %s", status, url)
	}

	html, err := page.HTML()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}

	finalURL := url
	if info, err := page.Info(); err == nil && info.URL != "" {
		finalURL = info.URL
	}

	return &imgcrawl.Response{
		URL:         finalURL,
		StatusCode:  status,
		ContentType: obj.Value.Get("contentType").Str(),
		Body:        []byte(html),
	}, nil
}

// Close shuts down the browser and its process. Close is safe to call
// multiple times.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	err := f.browser.Close()
	f.launcher.Kill()
	return err
}
