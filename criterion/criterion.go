/*
Package criterion implements the two splitting families a grown tree
needs: classification (Gini impurity) and regression (variance
reduction). Both satisfy bottom.Criterion. Grounded on wlattner-rf's
tree/valuer.go giniValuer/varValuer: the same init/reset/update/delta
cumulative-statistics shape, generalized from a single sorted sample
slice to SamplePred's per-predictor Cell buffers and from individual
samples to runs for factor predictors.
*/
package criterion

import (
	"github.com/pbanos/levelforest/bottom"
	"github.com/pbanos/levelforest/runset"
	"github.com/pbanos/levelforest/samplepred"
	"github.com/pbanos/levelforest/splitsig"
)

// GiniCriterion splits on impurity reduction over integer-coded class
// labels, one entry per original sample index.
type GiniCriterion struct {
	Y       []int
	NClass  int
	FacCard []int
	MinNode int
}

// NewGiniCriterion returns a GiniCriterion over labels Y (values in
// [0,nClass)), with one facCard entry per predictor (0 for numeric).
func NewGiniCriterion(y []int, nClass int, facCard []int, minNode int) *GiniCriterion {
	if minNode < 1 {
		minNode = 1
	}
	return &GiniCriterion{Y: y, NClass: nClass, FacCard: facCard, MinNode: minNode}
}

// LevelInit implements bottom.Criterion: it flags every node whose
// sample count clears twice the minimum leaf size and whose pre-split
// info is still positive, and announces this level's factor run sets.
func (c *GiniCriterion) LevelInit(nodes []bottom.IndexNode, view bottom.BottomView, levelCount int, run *runset.Run) ([]bool, error) {
	return levelInitCommon(nodes, view, levelCount, c.FacCard, c.MinNode, run), nil
}

// LevelClear implements bottom.Criterion; GiniCriterion keeps no
// per-level scratch of its own.
func (c *GiniCriterion) LevelClear() {}

// SplitNum implements bottom.Criterion for numeric predictors: a
// single forward sweep over the node's sorted Cell slice, mirroring
// giniValuer's cumulative classCtL/classCtR update/delta.
func (c *GiniCriterion) SplitNum(bottomIdx int, node bottom.IndexNode, base []samplepred.Cell) (splitsig.NuxLH, bool) {
	cells := base[node.Start : node.Start+node.Extent]
	g := newGiniScan(c.Y, c.NClass, cells)
	return g.bestNumSplit(c.MinNode)
}

// SplitFac implements bottom.Criterion for factor predictors: runs
// (maximal same-rank blocks) are ordered by their left-class fraction
// and then swept exactly as the numeric case sweeps individual cells,
// the standard reduction of an unordered categorical split to an
// ordinal one.
func (c *GiniCriterion) SplitFac(bottomIdx, setIdx int, node bottom.IndexNode, base []samplepred.Cell) (splitsig.NuxLH, bool) {
	cells := base[node.Start : node.Start+node.Extent]
	runs := groupRuns(cells)
	sortRunsByGiniOrder(runs, cells, c.Y, c.NClass)
	g := newGiniScanRuns(c.Y, cells, runs)
	return g.bestRunSplit(c.MinNode)
}

// VarianceCriterion splits on variance reduction over float64
// responses, one entry per original sample index.
type VarianceCriterion struct {
	Y       []float64
	FacCard []int
	MinNode int
}

// NewVarianceCriterion returns a VarianceCriterion over responses Y.
func NewVarianceCriterion(y []float64, facCard []int, minNode int) *VarianceCriterion {
	if minNode < 1 {
		minNode = 1
	}
	return &VarianceCriterion{Y: y, FacCard: facCard, MinNode: minNode}
}

// LevelInit implements bottom.Criterion, identically to GiniCriterion.
func (c *VarianceCriterion) LevelInit(nodes []bottom.IndexNode, view bottom.BottomView, levelCount int, run *runset.Run) ([]bool, error) {
	return levelInitCommon(nodes, view, levelCount, c.FacCard, c.MinNode, run), nil
}

// LevelClear implements bottom.Criterion.
func (c *VarianceCriterion) LevelClear() {}

// SplitNum implements bottom.Criterion for numeric predictors.
func (c *VarianceCriterion) SplitNum(bottomIdx int, node bottom.IndexNode, base []samplepred.Cell) (splitsig.NuxLH, bool) {
	cells := base[node.Start : node.Start+node.Extent]
	v := newVarScan(c.Y, cells)
	return v.bestNumSplit(c.MinNode)
}

// SplitFac implements bottom.Criterion for factor predictors: runs
// ordered by mean response, then swept the same way SplitNum sweeps
// individual cells.
func (c *VarianceCriterion) SplitFac(bottomIdx, setIdx int, node bottom.IndexNode, base []samplepred.Cell) (splitsig.NuxLH, bool) {
	cells := base[node.Start : node.Start+node.Extent]
	runs := groupRuns(cells)
	sortRunsByMean(runs, cells, c.Y)
	v := newVarScanRuns(c.Y, cells, runs)
	return v.bestRunSplit(c.MinNode)
}

// levelInitCommon is shared by both families: neither the
// splittability test nor the run-set announcement depends on the
// response type.
func levelInitCommon(nodes []bottom.IndexNode, view bottom.BottomView, levelCount int, facCard []int, minNode int, run *runset.Run) []bool {
	nPred := len(facCard)
	run.RunSets(levelCount * nPred)
	flags := make([]bool, levelCount)
	for levelIdx, node := range nodes {
		flags[levelIdx] = node.SCount >= 2*minNode && node.Info > 0
	}
	for levelIdx := 0; levelIdx < levelCount; levelIdx++ {
		for predIdx := 0; predIdx < nPred; predIdx++ {
			if rc, ok := view.RunCount(levelIdx, predIdx); ok && rc > 1 {
				run.SetSafe(levelIdx*nPred+predIdx, rc)
			}
		}
	}
	return flags
}

// run is one maximal same-rank block of a node's Cell slice: the unit
// a factor split is built from instead of individual samples.
type run struct {
	start, extent int
}

// groupRuns partitions cells into maximal same-rank blocks, in the
// order SamplePred already sorted them.
func groupRuns(cells []samplepred.Cell) []run {
	var runs []run
	i := 0
	for i < len(cells) {
		j := i + 1
		for j < len(cells) && samplepred.IsRun(cells, i, j) {
			j++
		}
		runs = append(runs, run{start: i, extent: j - i})
		i = j
	}
	return runs
}

