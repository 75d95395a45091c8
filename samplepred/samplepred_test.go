package samplepred

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStageAndBuffers(t *testing.T) {
	a := NewArena(2, 4)
	cells := []Cell{{Rank: 0.1, SampleIdx: 3}, {Rank: 0.4, SampleIdx: 1}, {Rank: 0.5, SampleIdx: 0}, {Rank: 0.9, SampleIdx: 2}}
	a.Stage(0, cells)

	source, target, sIdxSource, sIdxTarg := a.Buffers(0, 0)
	assert.Equal(t, cells, source)
	assert.Len(t, target, 4)
	assert.Equal(t, []int{3, 1, 0, 2}, sIdxSource)
	assert.Len(t, sIdxTarg, 4)

	assert.Equal(t, 2, a.NPred())
	assert.Equal(t, 4, a.BagCount())
	assert.Equal(t, cells, a.PredBase(0, 0))
	assert.Equal(t, []int{3, 1, 0, 2}, a.SIdx(0, 0))
}

func TestBuffersComplementaryBit(t *testing.T) {
	a := NewArena(1, 2)
	a.Stage(0, []Cell{{Rank: 1, SampleIdx: 0}, {Rank: 2, SampleIdx: 1}})
	_, target, _, _ := a.Buffers(0, 0)
	// writing into the target of bit 0 should show up when reading bit 1 as source
	target[0] = Cell{Rank: 9, SampleIdx: 5}
	source1, _, _, _ := a.Buffers(0, 1)
	assert.Equal(t, Cell{Rank: 9, SampleIdx: 5}, source1[0])
}

func TestIsRun(t *testing.T) {
	cells := []Cell{{Rank: 1.0}, {Rank: 1.0000001}, {Rank: 1.0000002}, {Rank: 2.0}}
	assert.True(t, IsRun(cells, 0, 2))
	assert.False(t, IsRun(cells, 0, 3))
	assert.True(t, IsRun(cells, 2, 2)) // idx <= offset is trivially a run
}
