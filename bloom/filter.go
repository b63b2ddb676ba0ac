// Package bloom provides probabilistic URL deduplication for crawl frontiers.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Filter tracks URLs that have already been queued or visited.
// False positives are possible (a URL may be wrongly reported as seen);
// false negatives are not.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a filter sized for n expected URLs with the given
// acceptable false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{f: bloom.NewWithEstimates(n, fpRate)}
}

// Add records a URL as seen.
func (f *Filter) Add(url string) {
	f.f.AddString(url)
}

// Seen reports whether the URL was (probably) recorded before.
func (f *Filter) Seen(url string) bool {
	return f.f.TestString(url)
}

// ApproxCount returns the approximate number of URLs recorded.
func (f *Filter) ApproxCount() uint {
	return uint(f.f.ApproximatedSize())
}
