package sampler

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBootstrapDrawsBagCountIndicesInRange(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	bag := Bootstrap(10, 25, r)
	assert.Len(t, bag.Idx, 25)
	assert.Len(t, bag.InBag, 10)
	for _, idx := range bag.Idx {
		assert.True(t, idx >= 0 && idx < 10)
		assert.True(t, bag.InBag[idx])
	}
}

func TestBootstrapLeavesSomeRowsOutOfBag(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	bag := Bootstrap(50, 50, r)
	var outOfBag int
	for _, inBag := range bag.InBag {
		if !inBag {
			outOfBag++
		}
	}
	// With n == bagCount, roughly e^-1 of rows are expected out-of-bag;
	// assert only that the mechanism can produce some, not an exact count.
	assert.Greater(t, outOfBag, 0)
}

func TestBootstrapNilRandUsesDefaultSource(t *testing.T) {
	bag := Bootstrap(5, 5, nil)
	assert.Len(t, bag.Idx, 5)
}
