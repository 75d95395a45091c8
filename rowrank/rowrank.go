/*
Package rowrank produces the initial per-predictor presort RowRank
feeds to SamplePred.Stage at Factory time: for a bagged sample set and
one predictor column, the (value, sampleIdx) pairs in ascending value
order. Each cell keeps the sample's raw value (a factor predictor's
category code), not a dense rank; see Rank.

The sort itself is a Bentley-McIlroy quicksort with heapsort fallback
and insertion-sort base case operating on two parallel slices (values,
sample indices), the same specialization wlattner-rf/tree/sort.go uses
to sort feature columns without paying for a generic sort.Interface.
*/
package rowrank

import "github.com/pbanos/levelforest/samplepred"

// Rank sorts values (one sample's observed value per entry) ascending
// and returns the cells RowRank hands to SamplePred, one per sample,
// each carrying its own raw value (the predictor's raw number for a
// continuous predictor, its dense category code for a discrete one)
// rather than a synthetic rank: SamplePred.IsRun's epsilon comparison
// already treats near-equal values as tied, and the Split Dispatch
// needs the actual value back to report a split's boundary or, for a
// factor predictor, to recover which category a run belongs to.
func Rank(values []float64, sampleIdx []int) []samplepred.Cell {
	n := len(values)
	v := make([]float64, n)
	idx := make([]int, n)
	copy(v, values)
	copy(idx, sampleIdx)
	bSort(v, idx, 0, n, maxSortDepth(n))
	cells := make([]samplepred.Cell, n)
	for i := 0; i < n; i++ {
		cells[i] = samplepred.Cell{Rank: v[i], SampleIdx: idx[i]}
	}
	return cells
}

// maxSortDepth bounds bSort's recursion at 2*ceil(lg(n+1)) levels before
// it gives up on the pivot it picked and falls back to heapSort, the
// same guard wlattner-rf/tree/sort.go's bSort computes before calling
// quickSort, so a handful of adversarial inputs can't blow quicksort's
// stack or its quadratic worst case.
func maxSortDepth(n int) int {
	depth := 0
	for i := n; i > 0; i >>= 1 {
		depth++
	}
	return depth * 2
}

func swap(x []float64, inx []int, i, j int) {
	x[i], x[j] = x[j], x[i]
	inx[i], inx[j] = inx[j], inx[i]
}

func insertionSort(x []float64, inx []int, a, b int) {
	for i := a + 1; i < b; i++ {
		for j := i; j > a && x[j] < x[j-1]; j-- {
			swap(x, inx, j, j-1)
		}
	}
}

func siftDown(x []float64, inx []int, lo, hi, first int) {
	root := lo
	for {
		child := 2*root + 1
		if child >= hi {
			break
		}
		if child+1 < hi && x[first+child] < x[first+child+1] {
			child++
		}
		if !(x[first+root] < x[first+child]) {
			return
		}
		swap(x, inx, first+root, first+child)
		root = child
	}
}

func heapSort(x []float64, inx []int, a, b int) {
	first := a
	lo := 0
	hi := b - a
	for i := (hi - 1) / 2; i >= 0; i-- {
		siftDown(x, inx, i, hi, first)
	}
	for i := hi - 1; i >= 0; i-- {
		swap(x, inx, first, first+i)
		siftDown(x, inx, lo, i, first)
	}
}

func medianOfThree(x []float64, inx []int, a, b, c int) {
	m0, m1, m2 := b, a, c
	if x[m1] < x[m0] {
		swap(x, inx, m1, m0)
	}
	if x[m2] < x[m1] {
		swap(x, inx, m2, m1)
	}
	if x[m1] < x[m0] {
		swap(x, inx, m1, m0)
	}
}

func bSort(x []float64, inx []int, a, b, maxDepth int) {
	for b-a > 12 {
		if maxDepth == 0 {
			heapSort(x, inx, a, b)
			return
		}
		maxDepth--
		mlo, mhi := a, b
		medianOfThree(x, inx, a, a+(b-a)/2, b-1)
		pivot := x[a]
		i, j := a+1, b-1
		for i <= j && x[i] < pivot {
			i++
		}
		for j >= i && x[j] >= pivot {
			j--
		}
		for i <= j {
			swap(x, inx, i, j)
			i++
			j--
			for i <= j && x[i] < pivot {
				i++
			}
			for j >= i && x[j] >= pivot {
				j--
			}
		}
		mlo, mhi = a, i
		if mhi-mlo < b-mhi {
			bSort(x, inx, mlo, mhi, maxDepth)
			a = mhi
		} else {
			bSort(x, inx, mhi, b, maxDepth)
			b = mhi
		}
	}
	if b-a > 1 {
		insertionSort(x, inx, a, b)
	}
}
