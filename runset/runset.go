/*
Package runset implements the Run workspace: a per-level description
of factor-split candidate run sets. The criterion families' LevelInit
announces RunSets(setCount) and records each multi-run factor pair's
run count with SetSafe, which CountSafe(setIdx) reads back; their
SplitFac does not consult it.
*/
package runset

// Run holds one level's worth of factor-split run-set bookkeeping.
type Run struct {
	safeCount []int
}

// NewRun returns an empty Run workspace.
func NewRun() *Run {
	return &Run{}
}

// RunSets allocates room for setCount run sets, all initialized to a
// safe count of zero.
func (r *Run) RunSets(setCount int) {
	r.safeCount = make([]int, setCount)
}

// SetSafe records the run count discovered for setIdx.
func (r *Run) SetSafe(setIdx, count int) {
	r.safeCount[setIdx] = count
}

// CountSafe returns the run count recorded for setIdx.
func (r *Run) CountSafe(setIdx int) int {
	return r.safeCount[setIdx]
}

// Len returns the number of run sets announced this level.
func (r *Run) Len() int {
	return len(r.safeCount)
}
