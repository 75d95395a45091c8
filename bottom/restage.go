package bottom

import (
	"github.com/pbanos/levelforest/optional"
	"github.com/pbanos/levelforest/samplepred"
)

type restagedRange struct {
	start, extent int
	bufBit        int
}

// restageInitAndRun allocates the PathNode array, runs Restage for
// every RestageNode over every predictor, pushes the level's fresh
// MRRA entries into the window (evicting the oldest once the window
// exceeds PathMax), and returns the filled PathNode array.
//
// Restage here is grounded on ArboristCore's Bottom::restage but
// simplified: rather than classifying each live sample's target by
// masking its path byte (the original's trick for not tracking exact
// node geometry between restages), this implementation already has
// each member node's own [Start,Extent) from the caller's IndexNode,
// so it compacts member by member directly, consulting the
// Sample-Path Tracker only to filter extinct samples. This trades the
// path-byte indirection for directness once geometry is already
// tracked; see DESIGN.md.
//
// This path only ever fires for a governing ancestor left un-restaged
// across one or more levels; package index's growth driver restages a
// split's two children immediately (splitmaterialize.go), so in that
// driver this path is dead in practice but remains independently
// correct and testable against Bottom driven directly.
func (b *Bottom) restageInitAndRun(nodes []IndexNode, restageNodes []*RestageNode, pathAccum int) []PathNode {
	pathNodes := make([]PathNode, pathAccum)
	groupRanges := make([]restagedRange, len(restageNodes))

	for gi, rn := range restageNodes {
		govLevel := b.level - rn.LevelDel
		srcBit := b.bufBitAt(govLevel)
		targBit := 1 - srcBit
		groupStart := rn.StartIdx
		targetCursor := groupStart
		if rn.LevelDel == 1 && len(rn.Members) == 2 {
			targetCursor = b.restageTwo(nodes, rn, pathNodes, targetCursor, srcBit, targBit)
		} else {
			for i, member := range rn.Members {
				newExtent := b.restageMember(nodes[member], member, targetCursor, srcBit, targBit)
				pathNodes[rn.PathZero+i] = PathNode{LevelIdx: optional.Some(member), Offset: targetCursor}
				b.restagedRangeCache[member] = restagedRange{start: targetCursor, extent: newExtent, bufBit: targBit}
				targetCursor += newExtent
			}
		}
		groupRanges[gi] = restagedRange{start: groupStart, extent: targetCursor - groupStart, bufBit: targBit}
	}

	b.pushWindow(restageNodes, groupRanges)
	return pathNodes
}

// bufBitAt returns the arena buffer bit holding valid data for a
// lineage governed by an ancestor restaged at govLevel: buffer 0 for
// the original Factory-staged data (govLevel 0), otherwise the
// complement of whatever bit that restage read its source from — the
// two-slot arena selection, tracked per ancestor
// rather than by a single process-wide parity so that a lineage left
// un-restaged for several levels still resolves to the right slot.
func (b *Bottom) bufBitAt(govLevel int) int {
	if govLevel == 0 {
		return 0
	}
	return 1 - govLevel%2
}

// restageMember compacts one member node's live samples, across every
// predictor, into the target buffer starting at targetStart, marking
// any predictor whose target slice collapses to a single run as a
// newly-formed singleton. It returns the member's
// new extent (the live-sample count), identical across predictors
// since every predictor's buffer at [Start,Extent) names the same
// underlying sample set.
func (b *Bottom) restageMember(node IndexNode, member, targetStart, srcBit, targBit int) int {
	liveCount := -1
	for p := 0; p < b.nPred; p++ {
		source, target, sIdxSource, sIdxTarg := b.arena.Buffers(p, srcBit)
		_ = targBit // Buffers derives the target as the complement of srcBit
		w := targetStart
		for idx := node.Start; idx < node.Start+node.Extent; idx++ {
			sIdx := sIdxSource[idx]
			if _, live := b.paths.IsLive(sIdx); !live {
				continue
			}
			target[w] = source[idx]
			sIdxTarg[w] = sIdx
			w++
		}
		if liveCount < 0 {
			liveCount = w - targetStart
		}
		if w > targetStart && samplepred.IsRun(target, targetStart, w-1) {
			b.SetSingleton(member, p)
		}
	}
	return liveCount
}

// restageTwo is the levelDel==1 two-path fast path the design notes
// call for: a RestageNode with exactly two members (the common case
// of a node that just split in two) is compacted with scalar
// leftOff/rightOff cursors rather than a general member loop.
func (b *Bottom) restageTwo(nodes []IndexNode, rn *RestageNode, pathNodes []PathNode, cursor, srcBit, targBit int) int {
	left, right := rn.Members[0], rn.Members[1]
	leftOff := cursor
	leftExtent := b.restageMember(nodes[left], left, leftOff, srcBit, targBit)
	rightOff := leftOff + leftExtent
	rightExtent := b.restageMember(nodes[right], right, rightOff, srcBit, targBit)

	pathNodes[rn.PathZero] = PathNode{LevelIdx: optional.Some(left), Offset: leftOff}
	pathNodes[rn.PathZero+1] = PathNode{LevelIdx: optional.Some(right), Offset: rightOff}
	b.restagedRangeCache[left] = restagedRange{start: leftOff, extent: leftExtent, bufBit: targBit}
	b.restagedRangeCache[right] = restagedRange{start: rightOff, extent: rightExtent, bufBit: targBit}
	return rightOff + rightExtent
}

// restagedGov reports the governing-ancestor reference a node earned
// by being restaged this level, consulted by Inherit.
func (b *Bottom) restagedGov(levelIdx int) (govRef, bool) {
	g, ok := b.restagedGovCache[levelIdx]
	return g, ok
}

// RestagedRange reports the new [start, extent) a node was compacted
// into this level, for the Index builder to carry into the next
// level's IndexNode. ok is false if the node was not restaged this
// level (its geometry is unchanged).
func (b *Bottom) RestagedRange(levelIdx int) (start, extent int, ok bool) {
	r, ok := b.restagedRangeCache[levelIdx]
	return r.start, r.extent, ok
}

// currentBufBit returns the arena buffer bit currently holding valid
// data for levelIdx, for Split Dispatch to read from: the bit a
// restage wrote it into this level if there was one, otherwise the
// bit recorded on its governing ancestor (buffer 0 for the
// Factory-staged root, the target buffer of MaterializeSplit for a
// child it produced).
func (b *Bottom) currentBufBit(levelIdx int) int {
	if r, ok := b.restagedRangeCache[levelIdx]; ok {
		return r.bufBit
	}
	return b.nodeGov[levelIdx].bufBit
}

// pushWindow pushes this level's RestageNode groups into the MRRA
// window as fresh ancestor entries, evicting the slot this level's
// index wraps onto if it still held an older level's entries.
func (b *Bottom) pushWindow(restageNodes []*RestageNode, groupRanges []restagedRange) {
	if len(restageNodes) == 0 {
		return
	}
	entries := make([]MRRA, len(restageNodes))
	for i, r := range groupRanges {
		entries[i] = MRRA{Start: r.start, Extent: r.extent}
	}
	slot := b.level % PathMax
	if b.window[slot].valid {
		b.ancTot -= len(b.window[slot].entries)
	}
	b.window[slot] = mrraSlot{level: b.level, valid: true, entries: entries}
	b.ancTot += len(entries)

	for i, rn := range restageNodes {
		for _, member := range rn.Members {
			b.restagedGovCache[member] = govRef{level: b.level, idx: i, bufBit: groupRanges[i].bufBit}
		}
	}
}

// AncTot returns the total number of MRRA entries currently held in
// the window, for S4-style window-bound assertions.
func (b *Bottom) AncTot() int {
	return b.ancTot
}
