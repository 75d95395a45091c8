/*
Package samplepath implements the Sample-Path Tracker: for every live
sample in a tree being grown, an extinction flag plus a path byte
recording the node-index direction taken at each of the last pathMax
levels. Grounded on ArboristCore's SamplePath together with the
invariant tracking discipline tree.NodeStore already uses for
per-sample, per-level bookkeeping (flat slice, index by sample, no
per-sample allocation). The extinction flags themselves are a packed
bitset.BV rather than a []bool: one bit per sample is all the state
needed, and bagCount can run into the hundreds of thousands for a
forest's larger trees.
*/
package samplepath

import "github.com/pbanos/levelforest/bitset"

// PathMax is the compile-time depth of the MRRA / Path Window sliding
// window; it is fixed at 8 to match the width of the path byte.
const PathMax = 8

// Tracker holds one SamplePath per sample in a bagged set.
type Tracker struct {
	extinct *bitset.BV
	path    []byte
}

// NewTracker returns a Tracker for bagCount samples, all live with an
// empty path (as produced by Factory at level 0).
func NewTracker(bagCount int) *Tracker {
	return &Tracker{
		extinct: bitset.NewBV(bagCount),
		path:    make([]byte, bagCount),
	}
}

// IsLive returns false if sIdx is extinct; otherwise it returns true
// and outputs the sample's current path byte.
func (t *Tracker) IsLive(sIdx int) (path byte, live bool) {
	if t.extinct.IsSet(sIdx) {
		return 0, false
	}
	return t.path[sIdx], true
}

// SetExtinct marks sIdx extinct for the remainder of the tree. Once
// set it is never cleared.
func (t *Tracker) SetExtinct(sIdx int) {
	t.extinct.SetBit(sIdx)
}

// Extend appends one path bit (0 for left, 1 for right) to sIdx's path
// byte, called by the tree builder whenever the node containing sIdx
// splits. Bits beyond the low 8 fall off the top, matching the
// original 8-bit path byte: a sample's path identifies its node only
// within the current pathMax-level window, which is exactly the
// window the Restage Engine also honors.
func (t *Tracker) Extend(sIdx int, bit byte) {
	t.path[sIdx] = (t.path[sIdx] << 1) | (bit & 1)
}

// Path returns the raw path byte for sIdx without checking extinction.
func (t *Tracker) Path(sIdx int) byte {
	return t.path[sIdx]
}

// Len returns the number of samples tracked.
func (t *Tracker) Len() int {
	return len(t.path)
}
