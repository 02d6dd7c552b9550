package crawl

import (
	"context"
	"sync"

	"github.com/fwojciec/imgcrawl"
)

// Coordinator hands accepted pages from the crawl driver to download
// workers and tracks which image URLs have been claimed for download.
// It is safe for concurrent use by multiple goroutines.
type Coordinator struct {
	mu         sync.Mutex
	pending    []imgcrawl.PendingPage
	closed     bool
	changed    chan struct{} // closed and replaced on every state change
	downloaded map[string]struct{}
}

// NewCoordinator creates an empty Coordinator.
func NewCoordinator() *Coordinator {
	return &Coordinator{
		changed:    make(chan struct{}),
		downloaded: make(map[string]struct{}),
	}
}

// Publish queues a page for image extraction and wakes waiting workers.
// Publishing after Close is a no-op.
func (c *Coordinator) Publish(page imgcrawl.PendingPage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.pending = append(c.pending, page)
	c.broadcast()
}

// Close signals that no more pages will be published.
// Workers drain the remaining pages before Claim reports false.
// Close is safe to call multiple times.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.broadcast()
}

// Claim removes and returns the oldest pending page.
// If no page is pending, Claim blocks until one is published, the
// Coordinator is closed, or ctx is done. The bool result is false when
// there is no page to return and none will arrive.
func (c *Coordinator) Claim(ctx context.Context) (imgcrawl.PendingPage, bool) {
	for {
		c.mu.Lock()
		if len(c.pending) > 0 {
			page := c.pending[0]
			c.pending[0] = imgcrawl.PendingPage{}
			c.pending = c.pending[1:]
			c.mu.Unlock()
			return page, true
		}
		if c.closed {
			c.mu.Unlock()
			return imgcrawl.PendingPage{}, false
		}
		changed := c.changed
		c.mu.Unlock()

		select {
		case <-ctx.Done():
			return imgcrawl.PendingPage{}, false
		case <-changed:
		}
	}
}

// MarkDownloaded records imgURL as downloaded.
// It returns true if the caller is the first to claim imgURL and should
// download it, false if another caller already did.
func (c *Coordinator) MarkDownloaded(imgURL string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.downloaded[imgURL]; ok {
		return false
	}
	c.downloaded[imgURL] = struct{}{}
	return true
}

// Pending returns the number of pages waiting to be claimed.
func (c *Coordinator) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Downloaded returns the number of image URLs claimed for download.
func (c *Coordinator) Downloaded() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.downloaded)
}

// broadcast wakes every goroutine blocked in Claim.
// Must be called with mu held.
func (c *Coordinator) broadcast() {
	close(c.changed)
	c.changed = make(chan struct{})
}
