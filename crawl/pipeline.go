package crawl

import (
	"context"

	"github.com/fwojciec/imgcrawl"
	"github.com/google/uuid"
)

// Pipeline runs a crawl and the image download for the pages it accepts.
// Each Run builds its own Coordinator, so a Pipeline may be reused and
// several may run in one process.
type Pipeline struct {
	Crawler    *Crawler
	Downloader *Downloader

	// Staged runs the crawl to completion before any worker starts.
	// By default workers download while the crawl is still discovering pages.
	Staged bool
}

// Summary holds the outcome of a pipeline run.
type Summary struct {
	RunID    string
	Crawl    *CrawlResult
	Download *DownloadResult

	ImageURLs int // distinct image URLs claimed by workers
	Unclaimed int // accepted pages no worker claimed, non-zero only when canceled
}

// Run crawls rootURL and downloads every image referenced by the accepted
// pages. The progress callback, if provided, receives events from the
// crawl driver and, concurrently, from download workers.
func (p *Pipeline) Run(ctx context.Context, rootURL string, progress imgcrawl.ProgressFunc) (*Summary, error) {
	summary := &Summary{RunID: uuid.NewString()}
	coord := NewCoordinator()

	if p.Staged {
		crawled, err := p.Crawler.Crawl(ctx, rootURL, coord, progress)
		coord.Close()
		summary.Crawl = crawled
		if err != nil {
			summary.Unclaimed = coord.Pending()
			return summary, err
		}
		downloaded, err := p.Downloader.Run(ctx, coord, progress)
		summary.Download = downloaded
		summary.ImageURLs, summary.Unclaimed = coord.Downloaded(), coord.Pending()
		return summary, err
	}

	var downloadErr error
	done := make(chan struct{})
	go func() {
		defer close(done)
		summary.Download, downloadErr = p.Downloader.Run(ctx, coord, progress)
	}()

	crawled, crawlErr := p.Crawler.Crawl(ctx, rootURL, coord, progress)
	coord.Close()
	<-done

	summary.Crawl = crawled
	summary.ImageURLs, summary.Unclaimed = coord.Downloaded(), coord.Pending()
	if crawlErr != nil {
		return summary, crawlErr
	}
	return summary, downloadErr
}
