package bottom

import "github.com/pbanos/levelforest/optional"

// SplitPair is one (node, predictor) pair the Pair Enumerator has
// decided is worth dispatching to Split, optionally carrying the
// restage group it belongs to and, for factor predictors with more
// than one run, the dense run-set index Criterion.SplitFac consults.
type SplitPair struct {
	BottomIdx  int
	PredIdx    int
	RestageIdx optional.Int
	SetIdx     optional.Int
}

// RestageNode is the transient per-level scratch describing one
// ancestor buffer occupancy group: the slice of the bagged set
// [StartIdx, StartIdx+Extent) a set of not-yet-individually-restaged
// descendant nodes (Members, in target layout order) still share.
type RestageNode struct {
	StartIdx int
	Extent   int
	LevelDel int
	PathZero int
	Members  []int
}

// PathNode is the transient per-level scratch recording, for one
// path slot within a RestageNode's group, which current-level node it
// resolves to (None marks an unrealized/terminating path) and the
// running target offset the Restage Engine writes through.
type PathNode struct {
	LevelIdx optional.Int
	Offset   int
}

// Exhausted reports whether the ancestor governing levelIdx's buffer
// will fall outside the PathMax-level window after this level's
// restage: an MRRA this close to eviction must be restaged now or its
// descendants would desync from the window on the next push.
func (b *Bottom) Exhausted(levelIdx int) bool {
	gov := b.nodeGov[levelIdx]
	return b.level-gov.level >= PathMax-1
}

// pairInit walks the Bottom Node Table in predictor-major order and
// emits SplitPairs for every non-singleton pair that either
// the Criterion flagged splittable or whose governing ancestor is
// Exhausted. It groups nodes needing an actual restage by governing
// ancestor, assigning each distinct group a dense RestageNode on
// first touch, and returns the total pathAccum (the PathNode array
// length RestageInit must allocate).
func (b *Bottom) pairInit(nodes []IndexNode, splitFlags []bool) ([]SplitPair, []*RestageNode, int) {
	groupIdx := make(map[govRef]int)
	var restageNodes []*RestageNode
	pathAccum := 0

	groupOf := func(levelIdx int) (int, bool) {
		gov := b.nodeGov[levelIdx]
		if gov.level == b.level {
			return 0, false // already current: nothing to restage
		}
		gi, ok := groupIdx[gov]
		if !ok {
			slot := b.window[gov.level%PathMax]
			anc := slot.entries[gov.idx]
			rn := &RestageNode{
				StartIdx: anc.Start,
				Extent:   anc.Extent,
				LevelDel: b.level - gov.level,
				PathZero: pathAccum,
			}
			gi = len(restageNodes)
			groupIdx[gov] = gi
			restageNodes = append(restageNodes, rn)
		}
		rn := restageNodes[gi]
		alreadyMember := false
		for _, m := range rn.Members {
			if m == levelIdx {
				alreadyMember = true
				break
			}
		}
		if !alreadyMember {
			rn.Members = append(rn.Members, levelIdx)
			pathAccum++
		}
		return gi, true
	}

	var pairs []SplitPair
	for predIdx := 0; predIdx < b.nPred; predIdx++ {
		for levelIdx := 0; levelIdx < b.levelCount; levelIdx++ {
			bn := b.nodeTable[b.PairOffset(levelIdx, predIdx)]
			if bn.IsSingleton() {
				continue
			}
			if !splitFlags[levelIdx] && !b.Exhausted(levelIdx) {
				continue
			}
			pair := SplitPair{BottomIdx: levelIdx, PredIdx: predIdx, RestageIdx: optional.None(), SetIdx: optional.None()}
			if gi, needsRestage := groupOf(levelIdx); needsRestage {
				pair.RestageIdx = optional.Some(gi)
			}
			if rc, ok := bn.RunCount.Get(); ok && rc > 1 {
				pair.SetIdx = optional.Some(levelIdx*b.nPred + predIdx)
			}
			pairs = append(pairs, pair)
		}
	}
	return pairs, restageNodes, pathAccum
}
