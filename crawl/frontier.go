package crawl

import (
	"container/heap"
	"strings"
	"sync"

	"github.com/docai/docai"
	"github.com/docai/docai/bloom"
)

// Compile-time interface verification.
var _ docai.URLFrontier = (*Frontier)(nil)

// Frontier is an in-memory URL frontier combining a priority queue with
// Bloom filter deduplication. It is safe for concurrent use.
type Frontier struct {
	mu    sync.Mutex
	seen  *bloom.Filter
	queue *linkHeap
}

// NewFrontier creates a Frontier sized for n expected URLs with the
// given false positive rate for deduplication.
func NewFrontier(n uint, fpRate float64) *Frontier {
	h := &linkHeap{}
	heap.Init(h)
	return &Frontier{
		seen:  bloom.NewFilter(n, fpRate),
		queue: h,
	}
}

// Push adds a link to the frontier. Returns false if the URL has already
// been seen. Fragments are stripped before deduplication, so URLs that
// differ only by #anchor count as duplicates.
func (f *Frontier) Push(link docai.DiscoveredLink) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	url := stripFragment(link.URL)
	if f.seen.Seen(url) {
		return false
	}
	f.seen.Add(url)

	link.URL = url
	heap.Push(f.queue, link)
	return true
}

// Pop returns the next link by priority (navigation before content
// before footer). The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (docai.DiscoveredLink, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.queue.Len() == 0 {
		return docai.DiscoveredLink{}, false
	}
	link, _ := heap.Pop(f.queue).(docai.DiscoveredLink)
	return link, true
}

// Len returns the number of URLs waiting in the queue.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queue.Len()
}

// Seen returns true if the URL has been queued or processed.
func (f *Frontier) Seen(rawURL string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen.Seen(stripFragment(rawURL))
}

func stripFragment(url string) string {
	if idx := strings.Index(url, "#"); idx != -1 {
		return url[:idx]
	}
	return url
}

// linkHeap implements heap.Interface as a max-heap on link priority.
// Equal priorities pop shallower links first so breadth is covered
// before depth.
type linkHeap []docai.DiscoveredLink

func (h linkHeap) Len() int { return len(h) }

func (h linkHeap) Less(i, j int) bool {
	if h[i].Priority != h[j].Priority {
		return h[i].Priority > h[j].Priority
	}
	return h[i].Depth < h[j].Depth
}

func (h linkHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *linkHeap) Push(x any) {
	link, _ := x.(docai.DiscoveredLink)
	*h = append(*h, link)
}

func (h *linkHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}
