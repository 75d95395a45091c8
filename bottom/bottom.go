/*
Package bottom implements the level-wise training core: the Level
Orchestrator ("Bottom") that drives one tree level at a time, and its
owned collaborators (the MRRA/Path Window, Restage Engine, Pair
Enumerator, Split Dispatch and Split-Signature Registry). Grounded on
ArboristCore's bottom.cc and splitsig.h, reshaped per their own design
notes: array+index addressing instead of raw pointer graphs, a
two-slot arena selected by a level-indexed bit instead of manual
double-buffering, ring buffers of size PathMax instead of deques, and
optional.Int tagged values instead of sign-bit sentinels.
*/
package bottom

import (
	"fmt"

	"github.com/pbanos/levelforest/optional"
	"github.com/pbanos/levelforest/runset"
	"github.com/pbanos/levelforest/samplepath"
	"github.com/pbanos/levelforest/samplepred"
	"github.com/pbanos/levelforest/splitsig"
)

// PathMax is the compile-time depth of the MRRA / Path Window sliding
// window, fixed at 8 to match samplepath.PathMax.
const PathMax = samplepath.PathMax

// IndexNode describes one node alive at the current level: its own
// slice of the bagged sample set and the pre-split info an ArgMax
// query gates children against.
type IndexNode struct {
	Start  int
	Extent int
	SCount int
	Info   float64
}

// BottomView is the narrow read surface Criterion.LevelInit needs
// into the Bottom Node Table; it intentionally excludes anything that
// would let a Criterion mutate orchestrator state directly.
type BottomView interface {
	RunCount(levelIdx, predIdx int) (int, bool)
	FacCard(levelIdx, predIdx int) int
}

// Criterion is the splitting-family contract Bottom dispatches
// against. Concrete families live in package criterion; Bottom only
// depends on this interface, never on that package, so there is no
// import cycle between the orchestrator and its pluggable strategies.
type Criterion interface {
	LevelInit(nodes []IndexNode, view BottomView, levelCount int, run *runset.Run) ([]bool, error)
	SplitFac(bottomIdx, setIdx int, node IndexNode, base []samplepred.Cell) (splitsig.NuxLH, bool)
	SplitNum(bottomIdx int, node IndexNode, base []samplepred.Cell) (splitsig.NuxLH, bool)
	LevelClear()
}

// BottomNode is the per-(level,predictor) pair state: runCount (None
// for numeric predictors, Some(n) for factor predictors with n
// observed runs, singleton iff n==1) and the predictor's factor
// cardinality (0 for numeric).
type BottomNode struct {
	RunCount optional.Int
	FacCard  int
}

// IsSingleton reports whether this pair is a factor singleton: no
// split and no restage possible.
func (n BottomNode) IsSingleton() bool {
	v, ok := n.RunCount.Get()
	return ok && v == 1
}

type govRef struct {
	level  int
	idx    int
	bufBit int
}

// MRRA is one ancestor buffer-occupancy record: the slice of the
// bagged set a not-yet-restaged lineage of descendants is still
// living inside.
type MRRA struct {
	Start  int
	Extent int
}

type mrraSlot struct {
	level   int
	valid   bool
	entries []MRRA
}

// Bottom is the Level Orchestrator. It owns the Bottom Node Table,
// the MRRA window, the Sample-Path Tracker and the Split-Signature
// Registry, and drives Restage -> Split -> ArgMax once per level.
type Bottom struct {
	arena      *samplepred.Arena
	paths      *samplepath.Tracker
	criterion  Criterion
	nPred      int
	bagCount   int
	facCard    []int
	minRatio   float64

	level      int // absolute level counter, 0 at Factory
	levelCount int // number of nodes alive at the current level

	nodeGov []govRef
	window  [PathMax]mrraSlot
	ancTot  int

	nodeTable []BottomNode // levelCount x nPred, PairOffset addressed
	preStage  []BottomNode
	preGov    []govRef

	registry splitsig.Registry

	lastPathAccum int
	lastPairs     []SplitPair
	lastRestage   []*RestageNode
	lastPathNodes []PathNode

	restagedGovCache   map[int]govRef
	restagedRangeCache map[int]restagedRange
}

// PairOffset addresses the node table predictor-major: all of one
// predictor's per-level nodes are contiguous.
func (b *Bottom) PairOffset(levelIdx, predIdx int) int {
	return predIdx*b.levelCount + levelIdx
}

// RunCount implements BottomView.
func (b *Bottom) RunCount(levelIdx, predIdx int) (int, bool) {
	return b.nodeTable[b.PairOffset(levelIdx, predIdx)].RunCount.Get()
}

// FacCard implements BottomView.
func (b *Bottom) FacCard(levelIdx, predIdx int) int {
	return b.nodeTable[b.PairOffset(levelIdx, predIdx)].FacCard
}

// Factory produces an orchestrator initialized with one root node
// (levelCount=1), an MRRA window seeded with {start=0,extent=bagCount}
// at level 0, and a BottomNode per predictor with runCount=facCard(p)
// (None for numeric predictors, whose facCard entry is 0).
func Factory(arena *samplepred.Arena, paths *samplepath.Tracker, criterion Criterion, bagCount int, facCard []int, minRatio float64) (*Bottom, error) {
	nPred := len(facCard)
	if arena.NPred() != nPred {
		return nil, fmt.Errorf("bottom: facCard has %d entries, arena has %d predictors", nPred, arena.NPred())
	}
	b := &Bottom{
		arena:      arena,
		paths:      paths,
		criterion:  criterion,
		nPred:      nPred,
		bagCount:   bagCount,
		facCard:    facCard,
		minRatio:   minRatio,
		levelCount: 1,
		nodeGov:    []govRef{{level: 0, idx: 0, bufBit: 0}},
	}
	b.window[0] = mrraSlot{level: 0, valid: true, entries: []MRRA{{Start: 0, Extent: bagCount}}}
	b.ancTot = 0 // the seed entry is not counted until a real restage pushes a window entry
	b.nodeTable = make([]BottomNode, nPred)
	for p := 0; p < nPred; p++ {
		if facCard[p] > 0 {
			b.nodeTable[p] = BottomNode{RunCount: optional.Some(facCard[p]), FacCard: facCard[p]}
		} else {
			b.nodeTable[p] = BottomNode{RunCount: optional.None()}
		}
	}
	return b, nil
}

// LevelCount returns the number of nodes alive at the current level.
func (b *Bottom) LevelCount() int {
	return b.levelCount
}

// Level returns the current absolute level, 0 at Factory.
func (b *Bottom) Level() int {
	return b.level
}

// LevelSplit runs one level's protocol end to end: ask the
// Criterion for splittability, enumerate pairs and seed restage
// nodes, restage (skipped at level 0), split in parallel, and ArgMax
// per node. It returns a slice of length levelCount: one SSNode per
// node that produced an acceptable split, or none.
func (b *Bottom) LevelSplit(nodes []IndexNode) ([]*splitsig.SSNode, error) {
	if len(nodes) != b.levelCount {
		return nil, fmt.Errorf("bottom: LevelSplit got %d nodes, expected %d", len(nodes), b.levelCount)
	}
	b.restagedGovCache = make(map[int]govRef)
	b.restagedRangeCache = make(map[int]restagedRange)

	run := runset.NewRun()
	splitFlags, err := b.criterion.LevelInit(nodes, b, b.levelCount, run)
	if err != nil {
		return nil, fmt.Errorf("criterion LevelInit: %w", err)
	}
	pairs, restageNodes, pathAccum := b.pairInit(nodes, splitFlags)
	b.lastPairs = pairs
	b.lastRestage = restageNodes
	b.lastPathAccum = pathAccum

	var pathNodes []PathNode
	if b.level > 0 && len(restageNodes) > 0 {
		pathNodes = b.restageInitAndRun(nodes, restageNodes, pathAccum)
	}
	b.lastPathNodes = pathNodes

	b.registry.LevelInit(b.levelCount, b.nPred)
	b.split(pairs, nodes)

	results := make([]*splitsig.SSNode, b.levelCount)
	for i, node := range nodes {
		gainMin := splitsig.MinInfo(node.Info, b.minRatio)
		if ss, ok := b.registry.ArgMax(i, gainMin); ok {
			results[i] = &ss
		}
	}
	b.registry.LevelClear()
	b.criterion.LevelClear()
	return results, nil
}

// Overlap announces the node count of the next level and allocates
// its preStage BottomNode table and governing-ancestor slice.
func (b *Bottom) Overlap(splitNext int) error {
	if splitNext < 0 {
		return fmt.Errorf("bottom: Overlap: negative splitNext %d", splitNext)
	}
	b.preStage = make([]BottomNode, splitNext*b.nPred)
	b.preGov = make([]govRef, splitNext)
	return nil
}

// Inherit copies current node levelIdx's BottomNode row into the next
// level's row(s) for its surviving children, and carries forward its
// governing-ancestor reference (refined afterwards by any restage
// that happens to levelIdx this level, via the internal group gov
// update performed during restage). lNext/rNext are optional.None
// when that branch does not survive (leaf, or a singleton that
// continues as a single child uses lNext only).
func (b *Bottom) Inherit(levelIdx int, lNext, rNext optional.Int) error {
	gov := b.nodeGov[levelIdx]
	if g, ok := b.restagedGov(levelIdx); ok {
		gov = g
	}
	copyRow := func(next optional.Int) error {
		idx, ok := next.Get()
		if !ok {
			return nil
		}
		if idx < 0 || idx >= len(b.preGov) {
			return fmt.Errorf("bottom: Inherit: child index %d out of range [0,%d)", idx, len(b.preGov))
		}
		b.preGov[idx] = gov
		for p := 0; p < b.nPred; p++ {
			b.preStage[p*len(b.preGov)+idx] = b.nodeTable[b.PairOffset(levelIdx, p)]
		}
		return nil
	}
	if err := copyRow(lNext); err != nil {
		return err
	}
	return copyRow(rNext)
}

// DeOverlap swaps the preStage BottomNode table in as the current
// table, adopts the preGov governing-ancestor slice, advances the
// absolute level counter, and sets the new levelCount.
func (b *Bottom) DeOverlap() error {
	if b.preStage == nil {
		return fmt.Errorf("bottom: DeOverlap: no pending Overlap")
	}
	b.nodeTable = b.preStage
	b.nodeGov = b.preGov
	b.levelCount = len(b.preGov)
	b.preStage = nil
	b.preGov = nil
	b.level++
	return nil
}

// SetSingleton marks (levelIdx, predIdx) singleton in the *next*
// level's preStage, as detected during restage.
func (b *Bottom) SetSingleton(levelIdx, predIdx int) {
	if b.preStage == nil {
		return
	}
	if levelIdx < 0 || levelIdx >= len(b.preGov) {
		return
	}
	i := predIdx*len(b.preGov) + levelIdx
	if i < 0 || i >= len(b.preStage) {
		return
	}
	b.preStage[i].RunCount = optional.Some(1)
}

// IsLive reports whether sample sIdx is still live and, if so, its
// path byte, delegating to the Sample-Path Tracker.
func (b *Bottom) IsLive(sIdx int) (byte, bool) {
	return b.paths.IsLive(sIdx)
}

// CurrentBufBit returns the arena buffer bit holding levelIdx's live
// data right now: the bit its governing ancestor last wrote to,
// refined by any restage already run for it this level.
func (b *Bottom) CurrentBufBit(levelIdx int) int {
	return b.currentBufBit(levelIdx)
}

// Arena exposes the underlying Sample-Predictor arena so a driver can
// read a predictor's sample-index array directly, e.g. to classify
// samples by accepted-split side when materializing children.
func (b *Bottom) Arena() *samplepred.Arena {
	return b.arena
}

// Paths exposes the Sample-Path Tracker so a driver can record a
// sample's branch decision at the moment a split is accepted.
func (b *Bottom) Paths() *samplepath.Tracker {
	return b.paths
}
