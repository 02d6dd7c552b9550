package bloom_test

import (
	"fmt"
	"testing"

	"github.com/fwojciec/imgcrawl/bloom"
	"github.com/stretchr/testify/assert"
)

func TestFilter_AddAndTest(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	assert.False(t, f.Test("http://example.com/a"))

	f.Add("http://example.com/a")

	assert.True(t, f.Test("http://example.com/a"))
	assert.False(t, f.Test("http://example.com/b"))
}

func TestFilter_ZeroCapacity(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(0, 0.01)
	f.Add("http://example.com/")

	assert.True(t, f.Test("http://example.com/"))
}

func TestFilter_FalsePositiveRate(t *testing.T) {
	t.Parallel()

	const n = 10000

	f := bloom.NewFilter(n, 0.01)
	for i := range n {
		f.Add(fmt.Sprintf("http://example.com/seen/%d", i))
	}

	falsePositives := 0
	for i := range n {
		if f.Test(fmt.Sprintf("http://example.com/unseen/%d", i)) {
			falsePositives++
		}
	}

	rate := float64(falsePositives) / n
	assert.Less(t, rate, 0.02, "false positive rate %f exceeds 2%%", rate)
}
