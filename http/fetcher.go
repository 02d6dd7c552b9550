// Package http provides an HTTP-based implementation of imgcrawl.Fetcher.
package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/imgcrawl"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 10 * time.Second

// DefaultMaxBodySize is the default limit on response bodies (32 MiB).
const DefaultMaxBodySize = 32 << 20

// DefaultUserAgent is sent when no User-Agent is configured.
const DefaultUserAgent = "imgcrawl/1.0"

// Ensure Fetcher implements imgcrawl.Fetcher at compile time.
var _ imgcrawl.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves resources using plain HTTP GET requests.
// It is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	client      *http.Client
	timeout     time.Duration
	userAgent   string
	maxBodySize int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize limits how many bytes of a response body are read.
// Larger bodies are rejected with an EUNAVAILABLE error.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = n
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:     DefaultFetchTimeout,
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the resource at url.
// Responses with a non-2xx status are returned as EUNAVAILABLE errors.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*imgcrawl.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, imgcrawl.Errorf(imgcrawl.EINVALID, "invalid request for %s: %v", url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, imgcrawl.Errorf(imgcrawl.EUNAVAILABLE, "HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > f.maxBodySize {
		return nil, imgcrawl.Errorf(imgcrawl.EUNAVAILABLE, "body of %s exceeds %d bytes", url, f.maxBodySize)
	}

	return &imgcrawl.Response{
		URL:         resp.Request.URL.String(),
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

// Close releases idle connections.
func (f *Fetcher) Close() error {
	f.client.CloseIdleConnections()
	return nil
}
