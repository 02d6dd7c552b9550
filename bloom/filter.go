// Package bloom provides probabilistic URL membership using Bloom filters.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Filter records URLs with a bounded false positive rate.
// A Filter is not safe for concurrent use.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a filter sized for n expected URLs with the given
// false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	if n == 0 {
		n = 1
	}
	return &Filter{f: bloom.NewWithEstimates(n, fpRate)}
}

// Add records url.
func (f *Filter) Add(url string) {
	f.f.AddString(url)
}

// Test reports whether url may have been added.
// False positives are possible; false negatives are not.
func (f *Filter) Test(url string) bool {
	return f.f.TestString(url)
}
