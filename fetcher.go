package imgcrawl

import (
	"context"
	"mime"
	"strings"
)

// Response is the result of fetching a URL.
type Response struct {
	URL         string
	StatusCode  int
	ContentType string
	Body        []byte
}

// IsHTML reports whether the response declares an HTML content type.
func (r *Response) IsHTML() bool {
	mediaType, _, err := mime.ParseMediaType(r.ContentType)
	if err != nil {
		return strings.Contains(strings.ToLower(r.ContentType), "text/html")
	}
	return mediaType == "text/html"
}

// Fetcher retrieves resources from URLs.
type Fetcher interface {
	// Fetch retrieves the resource at url.
	// The context controls timeout and cancellation.
	// Transport failures and non-success status codes are returned as errors.
	Fetch(ctx context.Context, url string) (*Response, error)

	// Close releases resources held by the fetcher.
	Close() error
}
