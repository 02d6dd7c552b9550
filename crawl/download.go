package crawl

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/fwojciec/imgcrawl"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers is the worker count used when Downloader.Workers is not set.
const DefaultWorkers = 2

// PageSource supplies pending pages to download workers and deduplicates
// image URLs across them.
type PageSource interface {
	Claim(ctx context.Context) (imgcrawl.PendingPage, bool)
	MarkDownloaded(imgURL string) bool
}

// Downloader downloads the images referenced by pending pages using a
// fixed pool of concurrent workers.
type Downloader struct {
	Fetcher imgcrawl.Fetcher
	Parser  imgcrawl.Parser
	Store   imgcrawl.ImageStore
	Workers int
}

// DownloadResult holds the outcome of a download run.
type DownloadResult struct {
	Pages   int // pages claimed
	Saved   int // images written
	Skipped int // unresolvable image sources
	Failed  int // fetch or write errors
	Bytes   int // bytes written
}

// downloadStats is updated concurrently by workers.
type downloadStats struct {
	pages   atomic.Int64
	saved   atomic.Int64
	skipped atomic.Int64
	failed  atomic.Int64
	bytes   atomic.Int64
}

// Run starts the workers and blocks until src reports that no more pages
// will arrive or ctx is done. A failure on one image never stops a worker.
// The progress callback, if provided, is called concurrently.
func (d *Downloader) Run(ctx context.Context, src PageSource, progress imgcrawl.ProgressFunc) (*DownloadResult, error) {
	workers := d.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	var stats downloadStats
	g, gctx := errgroup.WithContext(ctx)
	for range workers {
		g.Go(func() error {
			return d.work(gctx, src, &stats, progress)
		})
	}
	err := g.Wait()

	result := &DownloadResult{
		Pages:   int(stats.pages.Load()),
		Saved:   int(stats.saved.Load()),
		Skipped: int(stats.skipped.Load()),
		Failed:  int(stats.failed.Load()),
		Bytes:   int(stats.bytes.Load()),
	}
	return result, err
}

// work claims pages until src is drained. It returns the context error if
// ctx ended the work early.
func (d *Downloader) work(ctx context.Context, src PageSource, stats *downloadStats, progress imgcrawl.ProgressFunc) error {
	for {
		page, ok := src.Claim(ctx)
		if !ok {
			return ctx.Err()
		}
		stats.pages.Add(1)

		sources, err := d.Parser.ExtractImageSources(page.Body)
		if err != nil {
			report(progress, imgcrawl.ProgressEvent{Type: imgcrawl.PageFailed, URL: page.URL, Error: err})
			continue
		}

		for _, raw := range sources {
			if err := ctx.Err(); err != nil {
				return err
			}

			imgURL, err := imgcrawl.ResolveURL(page.URL, raw)
			if err != nil {
				stats.skipped.Add(1)
				report(progress, imgcrawl.ProgressEvent{Type: imgcrawl.ImageSkipped, URL: raw, Error: err})
				continue
			}
			if !src.MarkDownloaded(imgURL) {
				continue
			}

			path, n, err := d.download(ctx, imgURL)
			if err != nil {
				stats.failed.Add(1)
				report(progress, imgcrawl.ProgressEvent{Type: imgcrawl.ImageFailed, URL: imgURL, Error: err})
				continue
			}
			stats.saved.Add(1)
			stats.bytes.Add(int64(n))
			report(progress, imgcrawl.ProgressEvent{Type: imgcrawl.ImageSaved, URL: imgURL, Path: path, Bytes: n})
		}
	}
}

// download fetches a single image and persists it.
func (d *Downloader) download(ctx context.Context, imgURL string) (string, int, error) {
	resp, err := d.Fetcher.Fetch(ctx, imgURL)
	if err != nil {
		return "", 0, fmt.Errorf("fetch image: %w", err)
	}
	path, err := d.Store.SaveImage(ctx, imgURL, resp.Body)
	if err != nil {
		return "", 0, fmt.Errorf("save image: %w", err)
	}
	return path, len(resp.Body), nil
}
