package crawl

import "github.com/fwojciec/imgcrawl/bloom"

// Frontier configuration.
const (
	// frontierExpectedURLs is the expected number of discovered URLs for Bloom filter sizing.
	frontierExpectedURLs = 10000
	// frontierFalsePositiveRate is the rate at which fresh URLs fall through to the exact check.
	frontierFalsePositiveRate = 0.001
)

// Frontier is a breadth-first URL queue with a bounded visited set.
//
// Visited holds URLs accepted into the crawl result. Queued holds every URL
// ever enqueued, so a page linked from many places is queued once. Both
// sets are exact; a Bloom filter in front of queued answers the common
// "never seen" case without a map lookup.
//
// Frontier is not safe for concurrent use; it is owned by the crawl driver.
type Frontier struct {
	queue    []string
	visited  map[string]struct{}
	order    []string
	queued   map[string]struct{}
	seen     *bloom.Filter
	maxPages int
}

// NewFrontier creates an empty Frontier that accepts at most maxPages pages.
func NewFrontier(maxPages int) *Frontier {
	return &Frontier{
		visited:  make(map[string]struct{}),
		queued:   make(map[string]struct{}),
		seen:     bloom.NewFilter(frontierExpectedURLs, frontierFalsePositiveRate),
		maxPages: maxPages,
	}
}

// TryEnqueue appends url to the tail of the queue.
// It returns false without changing anything if url was already visited or
// queued, or if the visited set is full.
func (f *Frontier) TryEnqueue(url string) bool {
	if f.full() {
		return false
	}
	if _, ok := f.visited[url]; ok {
		return false
	}
	if f.seen.Test(url) {
		if _, ok := f.queued[url]; ok {
			return false
		}
	}
	f.seen.Add(url)
	f.queued[url] = struct{}{}
	f.queue = append(f.queue, url)
	return true
}

// Dequeue pops the URL at the head of the queue.
// The bool result is false if the queue is empty.
// A dequeued URL is not visited until Accept is called for it.
func (f *Frontier) Dequeue() (string, bool) {
	if len(f.queue) == 0 {
		return "", false
	}
	url := f.queue[0]
	f.queue[0] = ""
	f.queue = f.queue[1:]
	return url, true
}

// Accept records url as visited.
// It returns false if url is already visited or the visited set is full.
func (f *Frontier) Accept(url string) bool {
	if f.full() {
		return false
	}
	if _, ok := f.visited[url]; ok {
		return false
	}
	f.visited[url] = struct{}{}
	f.order = append(f.order, url)
	return true
}

// Exhausted reports whether the crawl is over: the queue is empty or the
// visited set has reached its cap.
func (f *Frontier) Exhausted() bool {
	return len(f.queue) == 0 || f.full()
}

// Visited returns the accepted URLs in acceptance order.
func (f *Frontier) Visited() []string {
	return append([]string(nil), f.order...)
}

// Len returns the number of queued URLs.
func (f *Frontier) Len() int {
	return len(f.queue)
}

func (f *Frontier) full() bool {
	return len(f.visited) >= f.maxPages
}
