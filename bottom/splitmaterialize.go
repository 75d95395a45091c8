package bottom

import (
	"github.com/pbanos/levelforest/samplepred"
	"github.com/pbanos/levelforest/splitsig"
)

// MaterializeSplit turns an accepted SSNode into two live children's
// arena ranges: it records each live sample's branch bit on the
// Sample-Path Tracker, then compacts every predictor's buffer for
// [node.Start, node.Start+node.Extent) into a fresh contiguous
// [leftStart,leftExtent) / [rightStart,rightExtent) pair in the
// complementary buffer, detecting any predictor that collapses to a
// single run on either side. It must run after
// Overlap and before DeOverlap, and the caller supplies lNext/rNext,
// the next level's indices already assigned to the two children.
//
// A numeric split's LHS is the contiguous prefix of the winning
// predictor's rank-sorted buffer, so branch bits fall out of cell
// position. A factor split's LHS is instead the run-ordered prefix of
// category codes SplitFac accepted (ss.LHCategories), scattered
// across the winning predictor's rank-sorted buffer rather than
// contiguous in it, so branch bits fall out of category membership.
// Either way, every other predictor's buffer must be restaged by
// branch bit, not by position: its own sort order has no relation to
// the winning predictor's.
func (b *Bottom) MaterializeSplit(levelIdx int, node IndexNode, ss *splitsig.SSNode, lNext, rNext int) (leftStart, leftExtent, rightStart, rightExtent, bufBit int) {
	srcBit := b.currentBufBit(levelIdx)
	targBit := 1 - srcBit
	winSource, _, winSIdx, _ := b.arena.Buffers(ss.PredIdx, srcBit)

	var lhSet map[int]bool
	if _, isFac := ss.SetIdx.Get(); isFac {
		lhSet = make(map[int]bool, len(ss.LHCategories))
		for _, c := range ss.LHCategories {
			lhSet[c] = true
		}
	}
	for idx := node.Start; idx < node.Start+node.Extent; idx++ {
		bit := byte(0)
		if lhSet != nil {
			if !lhSet[int(winSource[idx].Rank)] {
				bit = 1
			}
		} else if idx-node.Start >= ss.LHExtent {
			bit = 1
		}
		b.paths.Extend(winSIdx[idx], bit)
	}

	leftStart = node.Start
	leftExtent = ss.LHExtent
	rightStart = node.Start + ss.LHExtent
	rightExtent = node.Extent - ss.LHExtent

	for p := 0; p < b.nPred; p++ {
		source, target, sIdxSource, sIdxTarg := b.arena.Buffers(p, srcBit)
		lw, rw := leftStart, rightStart
		for idx := node.Start; idx < node.Start+node.Extent; idx++ {
			sIdx := sIdxSource[idx]
			path, live := b.paths.IsLive(sIdx)
			if !live {
				continue
			}
			if path&1 == 0 {
				target[lw] = source[idx]
				sIdxTarg[lw] = sIdx
				lw++
			} else {
				target[rw] = source[idx]
				sIdxTarg[rw] = sIdx
				rw++
			}
		}
		if lw > leftStart && samplepred.IsRun(target, leftStart, lw-1) {
			b.SetSingleton(lNext, p)
		}
		if rw > rightStart && samplepred.IsRun(target, rightStart, rw-1) {
			b.SetSingleton(rNext, p)
		}
	}

	b.preGov[lNext] = govRef{level: b.level + 1, bufBit: targBit}
	b.preGov[rNext] = govRef{level: b.level + 1, bufBit: targBit}
	bufBit = targBit
	return
}
