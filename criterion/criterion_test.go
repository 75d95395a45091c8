package criterion

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pbanos/levelforest/bottom"
	"github.com/pbanos/levelforest/runset"
	"github.com/pbanos/levelforest/samplepred"
)

func TestGiniImpurityAndClassCounts(t *testing.T) {
	y := []int{0, 0, 1, 1, 1}
	idxs := []int{0, 1, 2, 3, 4}

	counts := ClassCounts(y, 2, idxs)
	assert.Equal(t, []int{2, 3}, counts)

	impurity := GiniImpurity(y, 2, idxs)
	// 1 - (2/5)^2 - (3/5)^2 = 1 - 0.16 - 0.36 = 0.48
	assert.InDelta(t, 0.48, impurity, 1e-9)

	assert.Equal(t, 0.0, GiniImpurity(y, 2, nil))
}

func TestMeanVariance(t *testing.T) {
	y := []float64{1, 2, 3, 4}
	mean, variance := MeanVariance(y, []int{0, 1, 2, 3})
	assert.InDelta(t, 2.5, mean, 1e-9)
	assert.InDelta(t, 1.25, variance, 1e-9)

	mean, variance = MeanVariance(y, nil)
	assert.Equal(t, 0.0, mean)
	assert.Equal(t, 0.0, variance)
}

func cellsFor(values []float64, y []int) []samplepred.Cell {
	cells := make([]samplepred.Cell, len(values))
	for i, v := range values {
		cells[i] = samplepred.Cell{Rank: v, SampleIdx: i}
	}
	_ = y
	return cells
}

func TestGiniCriterionSplitNumFindsBoundary(t *testing.T) {
	// five sorted samples, class flips cleanly after the third
	values := []float64{1, 2, 3, 4, 5}
	y := []int{0, 0, 0, 1, 1}
	cells := cellsFor(values, y)

	c := NewGiniCriterion(y, 2, []int{0}, 1)
	node := bottom.IndexNode{Start: 0, Extent: len(cells), SCount: len(cells)}
	nux, found := c.SplitNum(0, node, cells)
	assert.True(t, found)
	assert.Equal(t, 3, nux.LHExtent)
	assert.Equal(t, 3.0, nux.RankLH)
	assert.Equal(t, 4.0, nux.RankRH)
}

func TestGiniCriterionSplitNumNoGainOnConstantClass(t *testing.T) {
	values := []float64{1, 2, 3, 4}
	y := []int{0, 0, 0, 0}
	cells := cellsFor(values, y)
	c := NewGiniCriterion(y, 1, []int{0}, 1)
	node := bottom.IndexNode{Start: 0, Extent: len(cells), SCount: len(cells)}
	_, found := c.SplitNum(0, node, cells)
	assert.False(t, found)
}

func TestGiniCriterionSplitFacGroupsByRunAndCategory(t *testing.T) {
	// three categories (0, 1, 2), ordered by rank; category 2 is pure class 1
	cells := []samplepred.Cell{
		{Rank: 0, SampleIdx: 0}, {Rank: 0, SampleIdx: 1},
		{Rank: 1, SampleIdx: 2}, {Rank: 1, SampleIdx: 3},
		{Rank: 2, SampleIdx: 4}, {Rank: 2, SampleIdx: 5},
	}
	y := []int{0, 0, 0, 1, 1, 1}
	c := NewGiniCriterion(y, 2, []int{3}, 1)
	node := bottom.IndexNode{Start: 0, Extent: len(cells), SCount: len(cells)}
	nux, found := c.SplitFac(0, 0, node, cells)
	assert.True(t, found)
	assert.NotEmpty(t, nux.LHCategories)
}

func TestVarianceCriterionSplitNum(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6}
	y := []float64{1, 1, 1, 10, 10, 10}
	cells := cellsFor(values, nil)
	c := NewVarianceCriterion(y, []int{0}, 1)
	node := bottom.IndexNode{Start: 0, Extent: len(cells), SCount: len(cells)}
	nux, found := c.SplitNum(0, node, cells)
	assert.True(t, found)
	assert.Equal(t, 3, nux.LHExtent)
}

func TestLevelInitFlagsSplittableNodesAndAnnouncesRunSets(t *testing.T) {
	y := []int{0, 1}
	c := NewGiniCriterion(y, 2, []int{0, 3}, 1)
	nodes := []bottom.IndexNode{
		{SCount: 4, Info: 0.5},
		{SCount: 1, Info: 0.5}, // too small
		{SCount: 4, Info: 0},   // pure
	}
	view := fakeBottomView{runCount: map[[2]int]int{{1, 1}: 2}}
	run := runset.NewRun()
	flags, err := c.LevelInit(nodes, view, 3, run)
	assert.NoError(t, err)
	assert.Equal(t, []bool{true, false, false}, flags)
	assert.Equal(t, 2, run.CountSafe(1*2+1))
}

type fakeBottomView struct {
	runCount map[[2]int]int
}

func (v fakeBottomView) RunCount(levelIdx, predIdx int) (int, bool) {
	c, ok := v.runCount[[2]int{levelIdx, predIdx}]
	return c, ok
}

func (v fakeBottomView) FacCard(levelIdx, predIdx int) int {
	return 0
}
