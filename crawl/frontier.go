// Package crawl provides the discovery-and-fetch orchestration: the BFS
// crawl strategy, composite discovery ordering, the fallback fetcher, and
// the page-loop pipeline.
package crawl

import (
	"sync"

	"github.com/sitedigest/sitedigest"
	"github.com/sitedigest/sitedigest/bloom"
)

// Frontier is a FIFO crawl queue with Bloom-filter deduplication, keyed by
// canonical URL so that fragment variants collapse into one visit.
// It is safe for concurrent use by multiple goroutines.
type Frontier struct {
	mu    sync.Mutex
	seen  *bloom.Filter
	queue []sitedigest.DiscoveredURL
}

// NewFrontier creates a Frontier sized for n expected URLs with the given
// false positive rate for deduplication.
func NewFrontier(n uint, fpRate float64) *Frontier {
	return &Frontier{
		seen: bloom.NewFilter(n, fpRate),
	}
}

// Push enqueues a URL in breadth-first order.
// Returns false if the URL has already been seen.
func (f *Frontier) Push(u sitedigest.DiscoveredURL) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := sitedigest.Canonicalize(u.URL)
	if f.seen.Test(key) {
		return false
	}
	f.seen.Add(key)

	u.URL = key
	f.queue = append(f.queue, u)
	return true
}

// Pop dequeues the next URL in insertion order.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (sitedigest.DiscoveredURL, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.queue) == 0 {
		return sitedigest.DiscoveredURL{}, false
	}
	u := f.queue[0]
	f.queue = f.queue[1:]
	return u, true
}

// Len returns the number of URLs waiting in the queue.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// Seen returns true if the URL has been queued at some point.
func (f *Frontier) Seen(rawURL string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen.Test(sitedigest.Canonicalize(rawURL))
}
