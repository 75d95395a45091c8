/*
Package index implements the top-level growth driver that ties the
Level Orchestrator (package bottom), the splitting families (package
criterion) and the column-major training Frame (package dataset)
together into a single grown tree.Tree: it drives Bottom one level at
a time, materializes each accepted split's two children (or a leaf's
Prediction) on a tree.NodeStore, and repeats until every current-level
node is a leaf.

Grounded on the now-removed recursive botanic.Seed/BranchOut/Work loop
this package supersedes: one root node is seeded, then a queue of
per-node finalization tasks is drained by a bounded worker pool before
the next level starts, the same fan-out-then-barrier shape BranchOut
used, now scoped to one level at a time instead of the whole tree.
*/
package index

import (
	"context"
	"fmt"
	"runtime"

	"github.com/pbanos/levelforest/bottom"
	"github.com/pbanos/levelforest/criterion"
	"github.com/pbanos/levelforest/dataset"
	"github.com/pbanos/levelforest/optional"
	"github.com/pbanos/levelforest/queue"
	"github.com/pbanos/levelforest/rowrank"
	"github.com/pbanos/levelforest/samplepath"
	"github.com/pbanos/levelforest/samplepred"
	"github.com/pbanos/levelforest/splitsig"
	"github.com/pbanos/levelforest/tree"
)

// Options configures one call to Grow.
type Options struct {
	// MinNode is the minimum live sample count either side of a split
	// must keep; also gates a node's own splittability at 2*MinNode.
	MinNode int
	// MinRatio is the fraction of a parent node's info a split must
	// reach to be accepted (splitsig.DefaultMinRatio if zero).
	MinRatio float64
	// Workers bounds the per-level finalization worker pool
	// (runtime.GOMAXPROCS(0) if zero).
	Workers int
}

func (o Options) withDefaults() Options {
	if o.MinNode < 1 {
		o.MinNode = 1
	}
	if o.MinRatio <= 0 {
		o.MinRatio = splitsig.DefaultMinRatio
	}
	if o.Workers < 1 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	return o
}

// Grow trains a single tree against frame, restricted to the bagged
// rows named by bagIdx (bagIdx[i] is the original Frame row backing
// bag position i; repeats are how bootstrap sampling is expressed),
// storing its nodes on store. It returns the grown tree.Tree.
func Grow(ctx context.Context, frame *dataset.Frame, bagIdx []int, opts Options, store tree.NodeStore) (*tree.Tree, error) {
	opts = opts.withDefaults()
	bagCount := len(bagIdx)
	nPred := len(frame.Predictors)

	arena := samplepred.NewArena(nPred, bagCount)
	localPos := make([]int, bagCount)
	for i := range localPos {
		localPos[i] = i
	}
	for p := 0; p < nPred; p++ {
		values := make([]float64, bagCount)
		for i, row := range bagIdx {
			values[i] = frame.Columns[p][row]
		}
		arena.Stage(p, rowrank.Rank(values, localPos))
	}

	crit, allIdxs, err := newCriterion(frame, bagIdx, opts.MinNode)
	if err != nil {
		return nil, err
	}

	paths := samplepath.NewTracker(bagCount)
	b, err := bottom.Factory(arena, paths, crit, bagCount, frame.FacCard, opts.MinRatio)
	if err != nil {
		return nil, fmt.Errorf("index: %w", err)
	}

	root := &tree.Node{}
	if err := store.Create(ctx, root); err != nil {
		return nil, fmt.Errorf("index: creating root node: %w", err)
	}

	rootInfo := infoOf(frame, allIdxs)
	nodes := []bottom.IndexNode{{Start: 0, Extent: bagCount, SCount: bagCount, Info: rootInfo}}
	treeNodes := []*tree.Node{root}

	g := &grower{frame: frame, bagIdx: bagIdx, bottom: b, store: store, workers: opts.Workers}
	for {
		nextNodes, nextTreeNodes, done, err := g.levelStep(ctx, nodes, treeNodes)
		if err != nil {
			return nil, err
		}
		if done {
			break
		}
		nodes, treeNodes = nextNodes, nextTreeNodes
	}

	return tree.New(root.ID, store, frame.Label), nil
}

// grower holds one Grow call's shared, per-level-reused collaborators.
type grower struct {
	frame   *dataset.Frame
	bagIdx  []int
	bottom  *bottom.Bottom
	store   tree.NodeStore
	workers int
}

// levelStep runs one level to completion: LevelSplit, then either
// finalize every node as a leaf (done=true, no Overlap/DeOverlap), or
// Overlap, materialize every split's children and every leaf's
// Prediction through a bounded worker pool, and DeOverlap.
func (g *grower) levelStep(ctx context.Context, nodes []bottom.IndexNode, treeNodes []*tree.Node) ([]bottom.IndexNode, []*tree.Node, bool, error) {
	results, err := g.bottom.LevelSplit(nodes)
	if err != nil {
		return nil, nil, false, fmt.Errorf("index: LevelSplit: %w", err)
	}

	childCount := 0
	for _, ss := range results {
		if ss != nil {
			childCount += 2
		}
	}
	if childCount == 0 {
		q := queue.New()
		for levelIdx, treeNode := range treeNodes {
			if err := q.Push(ctx, &queue.Task{Node: treeNode, BottomIdx: levelIdx}); err != nil {
				return nil, nil, false, err
			}
		}
		if err := g.drain(ctx, q, nodes); err != nil {
			return nil, nil, false, err
		}
		return nil, nil, true, nil
	}

	if err := g.bottom.Overlap(childCount); err != nil {
		return nil, nil, false, fmt.Errorf("index: Overlap: %w", err)
	}
	nextNodes := make([]bottom.IndexNode, childCount)
	nextTreeNodes := make([]*tree.Node, childCount)

	q := queue.New()
	next := 0
	for levelIdx, ss := range results {
		if ss == nil {
			if err := q.Push(ctx, &queue.Task{Node: treeNodes[levelIdx], BottomIdx: levelIdx}); err != nil {
				return nil, nil, false, err
			}
			continue
		}
		left := &tree.Node{ParentID: treeNodes[levelIdx].ID}
		right := &tree.Node{ParentID: treeNodes[levelIdx].ID}
		if err := g.store.Create(ctx, left); err != nil {
			return nil, nil, false, err
		}
		if err := g.store.Create(ctx, right); err != nil {
			return nil, nil, false, err
		}
		lNext, rNext := next, next+1
		next += 2
		nextTreeNodes[lNext] = left
		nextTreeNodes[rNext] = right
		task := &queue.Task{
			Node:      treeNodes[levelIdx],
			BottomIdx: levelIdx,
			Split:     ss,
			LeftNode:  left,
			RightNode: right,
			LNext:     lNext,
			RNext:     rNext,
		}
		if err := q.Push(ctx, task); err != nil {
			return nil, nil, false, err
		}
	}

	if err := g.drainSplitting(ctx, q, nodes, nextNodes); err != nil {
		return nil, nil, false, err
	}
	if err := g.bottom.DeOverlap(); err != nil {
		return nil, nil, false, fmt.Errorf("index: DeOverlap: %w", err)
	}
	return nextNodes, nextTreeNodes, false, nil
}

// drain finalizes a level made entirely of leaves.
func (g *grower) drain(ctx context.Context, q queue.Queue, nodes []bottom.IndexNode) error {
	return runQueue(ctx, q, g.workers, func(taskCtx context.Context, t *queue.Task) error {
		return g.finalizeLeaf(taskCtx, t, nodes[t.BottomIdx])
	})
}

// drainSplitting finalizes a level with a mix of splitting and leaf
// nodes, writing each split's children into nextNodes by LNext/RNext.
func (g *grower) drainSplitting(ctx context.Context, q queue.Queue, nodes []bottom.IndexNode, nextNodes []bottom.IndexNode) error {
	return runQueue(ctx, q, g.workers, func(taskCtx context.Context, t *queue.Task) error {
		node := nodes[t.BottomIdx]
		if t.Split == nil {
			return g.finalizeLeaf(taskCtx, t, node)
		}
		return g.finalizeSplit(taskCtx, t, node, nextNodes)
	})
}

func (g *grower) finalizeLeaf(ctx context.Context, t *queue.Task, node bottom.IndexNode) error {
	bufBit := g.bottom.CurrentBufBit(t.BottomIdx)
	local := g.bottom.Arena().SIdx(0, bufBit)[node.Start : node.Start+node.Extent]
	idxs := make([]int, len(local))
	for i, pos := range local {
		idxs[i] = g.bagIdx[pos]
		g.bottom.Paths().SetExtinct(pos)
	}
	t.Node.Prediction = predictionOf(g.frame, idxs)
	return g.store.Store(ctx, t.Node)
}

func (g *grower) finalizeSplit(ctx context.Context, t *queue.Task, node bottom.IndexNode, nextNodes []bottom.IndexNode) error {
	if err := g.bottom.Inherit(t.BottomIdx, optional.Some(t.LNext), optional.Some(t.RNext)); err != nil {
		return fmt.Errorf("index: Inherit: %w", err)
	}
	leftStart, leftExtent, rightStart, rightExtent, bufBit := g.bottom.MaterializeSplit(t.BottomIdx, node, t.Split, t.LNext, t.RNext)

	leftIdxs := g.origIdxsAt(bufBit, leftStart, leftExtent)
	rightIdxs := g.origIdxsAt(bufBit, rightStart, rightExtent)
	nextNodes[t.LNext] = bottom.IndexNode{Start: leftStart, Extent: leftExtent, SCount: leftExtent, Info: infoOf(g.frame, leftIdxs)}
	nextNodes[t.RNext] = bottom.IndexNode{Start: rightStart, Extent: rightExtent, SCount: rightExtent, Info: infoOf(g.frame, rightIdxs)}

	predFeat := g.frame.Predictors[t.Split.PredIdx]
	leftCrit, rightCrit, err := buildCriteria(g.frame, t.Split.PredIdx, predFeat, t.Split)
	if err != nil {
		return err
	}
	t.LeftNode.FeatureCriterion = leftCrit
	t.RightNode.FeatureCriterion = rightCrit
	t.Node.SubtreeFeature = predFeat
	t.Node.SubtreeIDs = []string{t.LeftNode.ID, t.RightNode.ID}

	if err := g.store.Store(ctx, t.Node); err != nil {
		return err
	}
	if err := g.store.Store(ctx, t.LeftNode); err != nil {
		return err
	}
	return g.store.Store(ctx, t.RightNode)
}

func (g *grower) origIdxsAt(bufBit, start, extent int) []int {
	local := g.bottom.Arena().SIdx(0, bufBit)[start : start+extent]
	idxs := make([]int, extent)
	for i, pos := range local {
		idxs[i] = g.bagIdx[pos]
	}
	return idxs
}

// newCriterion builds the Gini or variance criterion matching frame's
// label type, over a label column reindexed to bag positions, and
// returns it along with bagIdx itself (the root node's own original
// row indices, for its pre-split Info).
func newCriterion(frame *dataset.Frame, bagIdx []int, minNode int) (bottom.Criterion, []int, error) {
	bagCount := len(bagIdx)
	switch {
	case frame.ClassLabels != nil:
		y := make([]int, bagCount)
		for i, row := range bagIdx {
			y[i] = frame.ClassLabels[row]
		}
		return criterion.NewGiniCriterion(y, len(frame.ClassNames), frame.FacCard, minNode), bagIdx, nil
	case frame.RegLabels != nil:
		y := make([]float64, bagCount)
		for i, row := range bagIdx {
			y[i] = frame.RegLabels[row]
		}
		return criterion.NewVarianceCriterion(y, frame.FacCard, minNode), bagIdx, nil
	default:
		return nil, nil, fmt.Errorf("index: frame has neither class nor regression labels")
	}
}

// infoOf computes a node's pre-split impurity (Gini for a
// classification frame, variance for a regression one) over its live
// original row indices.
func infoOf(frame *dataset.Frame, idxs []int) float64 {
	if frame.ClassLabels != nil {
		return criterion.GiniImpurity(frame.ClassLabels, len(frame.ClassNames), idxs)
	}
	_, variance := criterion.MeanVariance(frame.RegLabels, idxs)
	return variance
}

// predictionOf builds a leaf's terminal Prediction from its live
// original row indices.
func predictionOf(frame *dataset.Frame, idxs []int) *tree.Prediction {
	if frame.ClassLabels != nil {
		counts := criterion.ClassCounts(frame.ClassLabels, len(frame.ClassNames), idxs)
		probs := make(map[string]float64, len(counts))
		for code, ct := range counts {
			if ct > 0 {
				probs[frame.ClassNames[code]] = float64(ct) / float64(len(idxs))
			}
		}
		return tree.NewPrediction(probs, len(idxs))
	}
	mean, _ := criterion.MeanVariance(frame.RegLabels, idxs)
	return tree.NewRegressionPrediction(mean, len(idxs))
}
