/*
Package splitsig implements the Split-Signature Registry: NuxLH
carries the raw numerical result of a split criterion; SSNode wraps
it with dispatch flags; the Registry stores one NuxLH-derived SSNode
per (splitIdx, predIdx) this level and answers per-node ArgMax
queries gated by a minimum-information threshold. Grounded on
ArboristCore's splitsig.h (NuxLH, SSNode, SplitSig) translated from
the original's Lookup(predIdx*splitCount+splitIdx) addressing into a
dense Go slice of the same shape.
*/
package splitsig

import "github.com/pbanos/levelforest/optional"

// DefaultMinRatio is the default fraction of a parent node's info a
// child split must reach to be accepted, ArboristCore's static minRatio moved into
// explicit configuration instead of process-wide mutable state.
const DefaultMinRatio = 0.02

// NuxLH is the raw numerical result of evaluating one split candidate.
type NuxLH struct {
	IdxStart   int
	LHExtent   int
	SCount     int
	Info       float64
	RankLH     float64
	RankRH     float64
	LHImplicit int
	BufIdx     int

	// LHCategories holds, for a factor split only, the predictor's
	// category codes assigned to the LHS, the run-ordered prefix
	// SplitFac accepted. Nil for numeric splits, whose LHS is instead
	// the contiguous prefix of the predictor's rank-sorted buffer.
	LHCategories []int
}

// InitNum fills in a NuxLH for a numeric split: idxStart/lhExtent
// describe the LHS slice, sCount the live sample count in it, info
// the resulting impurity gain, rankLH/rankRH the boundary ranks.
func InitNum(idxStart, lhExtent, sCount int, info, rankLH, rankRH float64, bufIdx int) NuxLH {
	return NuxLH{IdxStart: idxStart, LHExtent: lhExtent, SCount: sCount, Info: info, RankLH: rankLH, RankRH: rankRH, BufIdx: bufIdx}
}

// Init fills in a NuxLH for a factor split, where no rank boundary
// applies and the LHS may be implicit (built by exclusion rather than
// explicit copy).
func Init(idxStart, lhExtent, sCount, lhImplicit int, info float64, bufIdx int) NuxLH {
	return NuxLH{IdxStart: idxStart, LHExtent: lhExtent, SCount: sCount, Info: info, LHImplicit: lhImplicit, BufIdx: bufIdx}
}

// SSNode wraps a NuxLH with the bookkeeping the dispatcher needs to
// act on a winning split: which predictor produced it, which (if any)
// factor run set, and whether the LHS is the branch to explore first.
type SSNode struct {
	NuxLH
	PredIdx  int
	SetIdx   optional.Int
	LeftExpl bool
}

// MinInfo returns the minimum info a candidate must reach to be kept
// for a node whose own (pre-split) info is parentInfo.
func MinInfo(parentInfo, minRatio float64) float64 {
	return minRatio * parentInfo
}

// LHSizes returns the LHS extent and sample count, the two figures
// the Index builder needs to decide how to materialize both children.
func (s *SSNode) LHSizes() (extent, sCount int) {
	return s.LHExtent, s.SCount
}

// Registry is a dense nPred x splitCount workspace: one slot per
// (splitIdx, predIdx) pair this level, a present bit recording
// whether Write ever touched it.
type Registry struct {
	nPred      int
	splitCount int
	slots      []ssSlot
}

type ssSlot struct {
	node    SSNode
	present bool
}

// LevelInit (re)sizes the registry for a level with splitCount nodes
// over nPred predictors, clearing all prior entries.
func (r *Registry) LevelInit(splitCount, nPred int) {
	r.splitCount = splitCount
	r.nPred = nPred
	r.slots = make([]ssSlot, splitCount*nPred)
}

// LevelClear drops the registry's backing storage; call at the end of
// a level once ArgMax has been consulted for every node.
func (r *Registry) LevelClear() {
	r.slots = nil
}

func (r *Registry) lookup(predIdx, splitIdx int) int {
	return predIdx*r.splitCount + splitIdx
}

// Write stores a candidate split for (splitIdx, predIdx), the
// registry's equivalent of ArboristCore's SSWrite. setIdx is None for
// numeric splits.
func (r *Registry) Write(splitIdx, predIdx int, setIdx optional.Int, bufIdx int, nux NuxLH, leftExpl bool) {
	i := r.lookup(predIdx, splitIdx)
	r.slots[i] = ssSlot{
		node: SSNode{
			NuxLH:    nux,
			PredIdx:  predIdx,
			SetIdx:   setIdx,
			LeftExpl: leftExpl,
		},
		present: true,
	}
}

// ArgMax returns the SSNode with maximum Info across predictors for
// splitIdx, provided that info meets gainMin; otherwise it reports
// false, meaning "no split" for that node.
func (r *Registry) ArgMax(splitIdx int, gainMin float64) (SSNode, bool) {
	var best SSNode
	found := false
	for predIdx := 0; predIdx < r.nPred; predIdx++ {
		slot := r.slots[r.lookup(predIdx, splitIdx)]
		if !slot.present {
			continue
		}
		if slot.node.Info < gainMin {
			continue
		}
		if !found || slot.node.Info > best.Info {
			best = slot.node
			found = true
		}
	}
	return best, found
}
