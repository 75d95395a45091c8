package samplepath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTrackerStartsAllLive(t *testing.T) {
	tr := NewTracker(5)
	assert.Equal(t, 5, tr.Len())
	for i := 0; i < 5; i++ {
		path, live := tr.IsLive(i)
		assert.True(t, live)
		assert.Equal(t, byte(0), path)
	}
}

func TestSetExtinctIsSticky(t *testing.T) {
	tr := NewTracker(3)
	tr.SetExtinct(1)
	_, live := tr.IsLive(1)
	assert.False(t, live)
	_, live = tr.IsLive(0)
	assert.True(t, live)

	tr.Extend(1, 1) // extending an extinct sample's path is harmless bookkeeping
	_, live = tr.IsLive(1)
	assert.False(t, live)
}

func TestExtendAccumulatesPathBits(t *testing.T) {
	tr := NewTracker(1)
	tr.Extend(0, 1)
	tr.Extend(0, 0)
	tr.Extend(0, 1)
	assert.Equal(t, byte(0b101), tr.Path(0))
}
