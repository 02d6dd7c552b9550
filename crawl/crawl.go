// Package crawl provides same-origin page discovery and concurrent image
// downloading. A Crawler walks a site breadth-first and publishes accepted
// pages to a Coordinator; a Downloader drains the Coordinator with a fixed
// pool of workers.
package crawl

import (
	"context"

	"github.com/fwojciec/imgcrawl"
)

// DefaultMaxPages is the page cap used when Crawler.MaxPages is not set.
const DefaultMaxPages = 10

// Publisher receives pages accepted by the crawl driver.
type Publisher interface {
	Publish(page imgcrawl.PendingPage)
}

// Crawler discovers same-origin HTML pages breadth-first from a root URL.
// A single Crawl call runs sequentially on the calling goroutine.
type Crawler struct {
	Fetcher  imgcrawl.Fetcher
	Parser   imgcrawl.Parser
	MaxPages int
}

// CrawlResult holds the outcome of a crawl.
type CrawlResult struct {
	Visited []string // accepted pages in breadth-first order
	Skipped int      // fetched but not HTML
	Failed  int      // fetch errors
	Queued  int      // discovered links left unfetched when the crawl stopped
}

// Crawl walks the site rooted at rootURL and publishes every accepted page
// to pages. Fetch errors and non-HTML responses skip the URL and never stop
// the crawl. Crawl stops when the frontier is exhausted, when MaxPages
// pages have been accepted, or when ctx is done; in the last case the
// partial result is returned together with the context error.
func (c *Crawler) Crawl(ctx context.Context, rootURL string, pages Publisher, progress imgcrawl.ProgressFunc) (*CrawlResult, error) {
	root, err := imgcrawl.NormalizeURL(rootURL)
	if err != nil {
		return nil, err
	}

	maxPages := c.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	frontier := NewFrontier(maxPages)
	frontier.TryEnqueue(root)

	var result CrawlResult
	for !frontier.Exhausted() {
		if err := ctx.Err(); err != nil {
			result.Visited = frontier.Visited()
			result.Queued = frontier.Len()
			return &result, err
		}

		url, _ := frontier.Dequeue()

		resp, err := c.Fetcher.Fetch(ctx, url)
		if err != nil {
			result.Failed++
			report(progress, imgcrawl.ProgressEvent{Type: imgcrawl.PageFailed, URL: url, Error: err})
			continue
		}

		if !resp.IsHTML() {
			result.Skipped++
			report(progress, imgcrawl.ProgressEvent{
				Type:  imgcrawl.PageSkipped,
				URL:   url,
				Error: imgcrawl.Errorf(imgcrawl.EUNSUPPORTED, "content type %q is not HTML", resp.ContentType),
			})
			continue
		}

		if !frontier.Accept(url) {
			continue
		}
		pages.Publish(imgcrawl.PendingPage{URL: url, Body: resp.Body})
		report(progress, imgcrawl.ProgressEvent{Type: imgcrawl.PageAccepted, URL: url, Bytes: len(resp.Body)})

		hrefs, err := c.Parser.ExtractLinks(resp.Body)
		if err != nil {
			continue
		}
		for _, href := range hrefs {
			link, err := imgcrawl.ResolveURL(url, href)
			if err != nil {
				continue
			}
			if !imgcrawl.SameOrigin(root, link) {
				continue
			}
			frontier.TryEnqueue(link)
		}
	}

	result.Visited = frontier.Visited()
	result.Queued = frontier.Len()
	return &result, nil
}

func report(progress imgcrawl.ProgressFunc, event imgcrawl.ProgressEvent) {
	if progress != nil {
		progress(event)
	}
}
