/*
Package samplepred implements the SamplePred collaborator: a
double-buffered, per-predictor arena of sorted sample cells. Bottom
borrows slices of it for restaging and split evaluation; the arena
itself owns the storage, grounded on dataset.Dataset's column-major
framing of a training set and on wlattner-rf/tree/sort.go's sorted
buffer-and-parallel-index-array convention (ties are cells whose
values differ by no more than a small epsilon).
*/
package samplepred

// Cell is one entry of a per-predictor sorted buffer: a rank (or raw
// value, for predictors compared by value) and the sample index it
// was drawn from.
type Cell struct {
	Rank      float64
	SampleIdx int
}

const tieEpsilon = 1e-7

// Arena holds, for every predictor, two buffers of bagCount cells
// each ("buf 0" and "buf 1"). At any level one is the restage source
// and the other its target, selected by the caller's buffer bit.
type Arena struct {
	nPred    int
	bagCount int
	buf      [2][][]Cell      // buf[bit][predIdx] = cells
	sIdx     [2][][]int       // buf[bit][predIdx] = parallel sample-index array
}

// NewArena allocates an Arena for nPred predictors over bagCount
// samples. Buffer 0 is left uninitialized; callers stage it via
// Stage before the first restage.
func NewArena(nPred, bagCount int) *Arena {
	a := &Arena{nPred: nPred, bagCount: bagCount}
	for bit := 0; bit < 2; bit++ {
		a.buf[bit] = make([][]Cell, nPred)
		a.sIdx[bit] = make([][]int, nPred)
		for p := 0; p < nPred; p++ {
			a.buf[bit][p] = make([]Cell, bagCount)
			a.sIdx[bit][p] = make([]int, bagCount)
		}
	}
	return a
}

// Stage installs the initial, presorted column for predIdx into
// buffer 0 (the source buffer for level 0). cells must already be
// sorted by Rank, ascending.
func (a *Arena) Stage(predIdx int, cells []Cell) {
	copy(a.buf[0][predIdx], cells)
	for i, c := range cells {
		a.sIdx[0][predIdx][i] = c.SampleIdx
	}
}

// Buffers returns the source and target cell slices and parallel
// sample-index slices for a predictor at the given source buffer bit.
// The target is the complementary buffer.
func (a *Arena) Buffers(predIdx, bufBit int) (source, target []Cell, sIdxSource, sIdxTarg []int) {
	targBit := 1 - bufBit
	return a.buf[bufBit][predIdx], a.buf[targBit][predIdx], a.sIdx[bufBit][predIdx], a.sIdx[targBit][predIdx]
}

// PredBase returns the cell slice for a predictor at the given buffer
// bit, the base pointer split kernels evaluate against.
func (a *Arena) PredBase(predIdx, bufBit int) []Cell {
	return a.buf[bufBit][predIdx]
}

// SIdx returns the parallel sample-index array for a predictor at the
// given buffer bit, letting a caller map a buffer position back to
// the bagged sample it holds without going through Buffers' source
// target pairing.
func (a *Arena) SIdx(predIdx, bufBit int) []int {
	return a.sIdx[bufBit][predIdx]
}

// IsRun reports whether the closed range [offset, idx] of a
// predictor's buffer (identified implicitly by the slice passed) is a
// single run, i.e. every cell's Rank is within tieEpsilon of its
// predecessor. Used by the Restage Engine to detect freshly-formed
// singletons.
func IsRun(cells []Cell, offset, idx int) bool {
	if idx <= offset {
		return true
	}
	for i := offset + 1; i <= idx; i++ {
		if cells[i].Rank > cells[i-1].Rank+tieEpsilon {
			return false
		}
	}
	return true
}

// NPred returns the number of predictors the arena was built for.
func (a *Arena) NPred() int {
	return a.nPred
}

// BagCount returns the number of samples the arena was built for.
func (a *Arena) BagCount() int {
	return a.bagCount
}
