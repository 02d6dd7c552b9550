package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fwojciec/imgcrawl"
	"github.com/fwojciec/imgcrawl/crawl"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	logger := deps.Logger.With("url", c.URL)
	logger.Info("crawl started", "out", c.Out)

	var (
		mu    sync.Mutex
		saved []*imgcrawl.SavedImage
	)
	progress := func(e imgcrawl.ProgressEvent) {
		deps.Metrics.Observe(e)
		logProgress(deps, e)
		if e.Type == imgcrawl.ImageSaved {
			mu.Lock()
			saved = append(saved, &imgcrawl.SavedImage{URL: e.URL, Path: e.Path, Bytes: e.Bytes})
			mu.Unlock()
		}
	}

	started := time.Now()
	summary, err := deps.Pipeline.Run(deps.Ctx, c.URL, progress)
	if summary != nil && summary.Crawl != nil {
		logger.Info("crawl finished",
			"run", summary.RunID,
			"duration", time.Since(started),
			"unfetched", summary.Crawl.Queued,
			"image_urls", summary.ImageURLs,
			"unclaimed", summary.Unclaimed,
		)
		fmt.Fprint(deps.Stdout, crawl.FormatSummary(summary))

		if deps.Manifest != nil {
			run := &imgcrawl.Run{
				ID:         summary.RunID,
				RootURL:    c.URL,
				StartedAt:  started,
				FinishedAt: time.Now(),
				Pages:      len(summary.Crawl.Visited),
				Images:     saved,
			}
			// A canceled run is still recorded.
			if merr := deps.Manifest.RecordRun(context.WithoutCancel(deps.Ctx), run); merr != nil {
				fmt.Fprintf(deps.Stderr, "error writing manifest: %v\n", merr)
				err = firstErr(err, merr)
			} else {
				fmt.Fprintf(deps.Stdout, "Run %s recorded in manifest\n", summary.RunID)
			}
		}
	}

	if c.MetricsPath != "" {
		if werr := deps.Metrics.WriteFile(c.MetricsPath); werr != nil {
			fmt.Fprintf(deps.Stderr, "error writing metrics: %v\n", werr)
			err = firstErr(err, werr)
		}
	}

	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", imgcrawl.ErrorMessage(err))
		return err
	}
	return nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func logProgress(deps *Dependencies, e imgcrawl.ProgressEvent) {
	url := crawl.TruncateURL(e.URL, 80)
	switch e.Type {
	case imgcrawl.PageAccepted:
		deps.Logger.Info("page", "url", url, "bytes", e.Bytes)
	case imgcrawl.PageSkipped:
		deps.Logger.Info("skip page", "url", url, "err", e.Error)
	case imgcrawl.PageFailed:
		deps.Logger.Warn("page failed", "url", url, "err", e.Error)
	case imgcrawl.ImageSaved:
		deps.Logger.Info("image", "url", url, "path", e.Path, "size", crawl.FormatBytes(e.Bytes))
	case imgcrawl.ImageSkipped:
		deps.Logger.Debug("skip image", "url", url, "err", e.Error)
	case imgcrawl.ImageFailed:
		deps.Logger.Warn("image failed", "url", url, "err", e.Error)
	}
}
