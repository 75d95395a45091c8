package splitsig

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pbanos/levelforest/optional"
)

func TestRegistryArgMaxPicksHighestInfoAboveGainMin(t *testing.T) {
	r := &Registry{}
	r.LevelInit(2, 3) // 2 nodes, 3 predictors

	r.Write(0, 0, optional.None(), 0, InitNum(0, 2, 2, 0.1, 1, 2, 0), false)
	r.Write(0, 1, optional.None(), 0, InitNum(0, 2, 2, 0.5, 1, 2, 0), false)
	r.Write(0, 2, optional.None(), 0, InitNum(0, 2, 2, 0.2, 1, 2, 0), false)

	best, found := r.ArgMax(0, 0.3)
	assert.True(t, found)
	assert.Equal(t, 1, best.PredIdx)
	assert.InDelta(t, 0.5, best.Info, 1e-9)
}

func TestRegistryArgMaxRejectsBelowGainMin(t *testing.T) {
	r := &Registry{}
	r.LevelInit(1, 1)
	r.Write(0, 0, optional.None(), 0, InitNum(0, 2, 2, 0.01, 1, 2, 0), false)

	_, found := r.ArgMax(0, 0.1)
	assert.False(t, found)
}

func TestRegistryArgMaxNoCandidateWritten(t *testing.T) {
	r := &Registry{}
	r.LevelInit(1, 1)
	_, found := r.ArgMax(0, 0)
	assert.False(t, found)
}

func TestMinInfo(t *testing.T) {
	assert.InDelta(t, 0.02, MinInfo(1.0, 0.02), 1e-9)
}

func TestLHSizes(t *testing.T) {
	s := SSNode{NuxLH: NuxLH{LHExtent: 4, SCount: 4}}
	extent, sCount := s.LHSizes()
	assert.Equal(t, 4, extent)
	assert.Equal(t, 4, sCount)
}

func TestLevelClearDropsStorage(t *testing.T) {
	r := &Registry{}
	r.LevelInit(1, 1)
	r.Write(0, 0, optional.None(), 0, InitNum(0, 1, 1, 0.5, 1, 2, 0), false)
	r.LevelClear()
	assert.Panics(t, func() { r.ArgMax(0, 0) })
}
