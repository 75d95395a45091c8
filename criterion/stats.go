package criterion

// GiniImpurity computes the Gini impurity of y restricted to idxs, the
// figure index.Grow needs as an IndexNode's pre-split Info before
// calling Bottom.LevelSplit, and again to decide a leaf's terminal
// score.
func GiniImpurity(y []int, nClass int, idxs []int) float64 {
	ct := make([]int, nClass)
	for _, i := range idxs {
		ct[y[i]]++
	}
	return gini(len(idxs), ct)
}

// ClassCounts tallies y restricted to idxs into nClass buckets, the
// raw counts NewPrediction's probability map is built from.
func ClassCounts(y []int, nClass int, idxs []int) []int {
	ct := make([]int, nClass)
	for _, i := range idxs {
		ct[y[i]]++
	}
	return ct
}

// MeanVariance returns the mean and variance of y restricted to idxs,
// the regression counterpart of GiniImpurity/ClassCounts: the mean
// becomes a leaf's predicted value, the variance its pre-split Info.
func MeanVariance(y []float64, idxs []int) (mean, variance float64) {
	if len(idxs) == 0 {
		return 0, 0
	}
	var s, ss float64
	for _, i := range idxs {
		v := y[i]
		s += v
		ss += v * v
	}
	n := float64(len(idxs))
	mean = s / n
	variance = ss/n - mean*mean
	return mean, variance
}
