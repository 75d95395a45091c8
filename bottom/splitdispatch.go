package bottom

import (
	"runtime"
	"sync"

	"github.com/pbanos/levelforest/splitsig"
)

// split is the Split Dispatch step: for every SplitPair, resolve
// (bottomIdx, predIdx, bufBit), invoke the Criterion against
// the predictor's current buffer, and write any accepted result into
// the Split-Signature Registry. Pairs touch disjoint (splitIdx,
// predIdx) registry slots, so the fan-out below runs them across a
// bounded worker pool with no locking on the registry itself, grounded
// on the in/out channel pool wlattner-rf's forest package uses to fan
// bootstrap replicates out across goroutines.
func (b *Bottom) split(pairs []SplitPair, nodes []IndexNode) {
	if len(pairs) == 0 {
		return
	}
	workers := runtime.GOMAXPROCS(0)
	if workers > len(pairs) {
		workers = len(pairs)
	}
	in := make(chan SplitPair)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for pair := range in {
				b.splitOne(pair, nodes[pair.BottomIdx])
			}
		}()
	}
	for _, pair := range pairs {
		in <- pair
	}
	close(in)
	wg.Wait()
}

// splitOne evaluates a single SplitPair and, if the Criterion accepts
// it, writes the resulting NuxLH into the registry.
func (b *Bottom) splitOne(pair SplitPair, node IndexNode) {
	bufBit := b.currentBufBit(pair.BottomIdx)
	base := b.arena.PredBase(pair.PredIdx, bufBit)

	var nux splitsig.NuxLH
	var ok bool
	if setIdx, isFac := pair.SetIdx.Get(); isFac {
		nux, ok = b.criterion.SplitFac(pair.BottomIdx, setIdx, node, base)
	} else {
		nux, ok = b.criterion.SplitNum(pair.BottomIdx, node, base)
	}
	if !ok {
		return
	}
	leftExpl := nux.LHExtent*2 <= node.Extent
	b.registry.Write(pair.BottomIdx, pair.PredIdx, pair.SetIdx, bufBit, nux, leftExpl)
}
