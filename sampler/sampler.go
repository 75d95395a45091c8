/*
Package sampler produces the bagged sample-index set Bottom's Factory
consumes: bagCount indices drawn with replacement from the training
set, plus the complementary out-of-bag mask. Grounded verbatim in
structure on wlattner-rf/forest/forest.go's bootstrapInx, the only
repo in the retrieval pack that bootstraps row indices this way.
*/
package sampler

import "math/rand"

// Bag is one bootstrap draw: Idx holds bagCount sample indices drawn
// with replacement from [0, n); InBag[i] is true iff row i of the
// original set was drawn at least once.
type Bag struct {
	Idx   []int
	InBag []bool
}

// Bootstrap draws a bagged sample set of bagCount indices from n rows
// using r, or math/rand's default source if r is nil.
func Bootstrap(n, bagCount int, r *rand.Rand) *Bag {
	if r == nil {
		r = rand.New(rand.NewSource(rand.Int63()))
	}
	inBag := make([]bool, n)
	idx := make([]int, bagCount)
	for i := range idx {
		id := r.Intn(n)
		idx[i] = id
		inBag[id] = true
	}
	return &Bag{Idx: idx, InBag: inBag}
}
