package bottom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbanos/levelforest/optional"
	"github.com/pbanos/levelforest/runset"
	"github.com/pbanos/levelforest/samplepath"
	"github.com/pbanos/levelforest/samplepred"
	"github.com/pbanos/levelforest/splitsig"
)

// fakeCriterion always flags every node splittable and returns a fixed
// numeric split at lhExtent, exercising LevelSplit end to end without
// pulling in package criterion (which itself depends on bottom).
type fakeCriterion struct {
	lhExtent int
	info     float64
}

func (f *fakeCriterion) LevelInit(nodes []IndexNode, view BottomView, levelCount int, run *runset.Run) ([]bool, error) {
	flags := make([]bool, levelCount)
	for i := range flags {
		flags[i] = true
	}
	return flags, nil
}

func (f *fakeCriterion) SplitFac(bottomIdx, setIdx int, node IndexNode, base []samplepred.Cell) (splitsig.NuxLH, bool) {
	return splitsig.NuxLH{}, false
}

func (f *fakeCriterion) SplitNum(bottomIdx int, node IndexNode, base []samplepred.Cell) (splitsig.NuxLH, bool) {
	return splitsig.InitNum(node.Start, f.lhExtent, node.SCount, f.info, base[f.lhExtent-1].Rank, base[f.lhExtent].Rank, 0), true
}

func (f *fakeCriterion) LevelClear() {}

func TestFactorySeedsRootNodeAndWindow(t *testing.T) {
	arena := samplepred.NewArena(1, 4)
	paths := samplepath.NewTracker(4)
	b, err := Factory(arena, paths, &fakeCriterion{}, 4, []int{0}, 0.02)
	require.NoError(t, err)
	assert.Equal(t, 1, b.LevelCount())
	assert.Equal(t, 0, b.Level())
	assert.Equal(t, 0, b.CurrentBufBit(0))
}

func TestFactoryRejectsFacCardArenaMismatch(t *testing.T) {
	arena := samplepred.NewArena(2, 4)
	paths := samplepath.NewTracker(4)
	_, err := Factory(arena, paths, &fakeCriterion{}, 4, []int{0}, 0.02)
	assert.Error(t, err)
}

func TestLevelSplitOverlapInheritMaterializeDeOverlap(t *testing.T) {
	arena := samplepred.NewArena(1, 4)
	paths := samplepath.NewTracker(4)
	cells := []samplepred.Cell{
		{Rank: 1, SampleIdx: 0}, {Rank: 2, SampleIdx: 1},
		{Rank: 3, SampleIdx: 2}, {Rank: 4, SampleIdx: 3},
	}
	arena.Stage(0, cells)

	b, err := Factory(arena, paths, &fakeCriterion{lhExtent: 2, info: 1.0}, 4, []int{0}, 0.02)
	require.NoError(t, err)

	node := IndexNode{Start: 0, Extent: 4, SCount: 4, Info: 1.0}
	results, err := b.LevelSplit([]IndexNode{node})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.NotNil(t, results[0])
	assert.Equal(t, 2, results[0].LHExtent)
	assert.Equal(t, 0, results[0].PredIdx)

	require.NoError(t, b.Overlap(2))
	require.NoError(t, b.Inherit(0, optional.Some(0), optional.Some(1)))

	leftStart, leftExtent, rightStart, rightExtent, bufBit := b.MaterializeSplit(0, node, results[0], 0, 1)
	assert.Equal(t, 0, leftStart)
	assert.Equal(t, 2, leftExtent)
	assert.Equal(t, 2, rightStart)
	assert.Equal(t, 2, rightExtent)
	assert.Equal(t, 1, bufBit)

	require.NoError(t, b.DeOverlap())
	assert.Equal(t, 2, b.LevelCount())
	assert.Equal(t, 1, b.Level())
	assert.Equal(t, 1, b.CurrentBufBit(0))
	assert.Equal(t, 1, b.CurrentBufBit(1))
}

func TestOverlapRejectsNegativeSplitNext(t *testing.T) {
	arena := samplepred.NewArena(1, 2)
	paths := samplepath.NewTracker(2)
	b, err := Factory(arena, paths, &fakeCriterion{}, 2, []int{0}, 0.02)
	require.NoError(t, err)
	assert.Error(t, b.Overlap(-1))
}

func TestDeOverlapWithoutOverlapErrors(t *testing.T) {
	arena := samplepred.NewArena(1, 2)
	paths := samplepath.NewTracker(2)
	b, err := Factory(arena, paths, &fakeCriterion{}, 2, []int{0}, 0.02)
	require.NoError(t, err)
	assert.Error(t, b.DeOverlap())
}

func TestSetSingletonNoOpBeforeOverlap(t *testing.T) {
	arena := samplepred.NewArena(1, 2)
	paths := samplepath.NewTracker(2)
	b, err := Factory(arena, paths, &fakeCriterion{}, 2, []int{0}, 0.02)
	require.NoError(t, err)
	b.SetSingleton(0, 0) // preStage is nil; must not panic
}
