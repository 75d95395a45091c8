package criterion

import (
	"sort"

	"github.com/pbanos/levelforest/samplepred"
	"github.com/pbanos/levelforest/splitsig"
)

// sortRunsByMean orders a factor predictor's runs by mean response,
// the usual reduction of an unordered categorical split to an ordinal
// sweep (Breiman et al.): once runs are response-ordered, the best
// binary partition of the categories is some prefix/suffix of that
// order.
func sortRunsByMean(runs []run, cells []samplepred.Cell, y []float64) {
	mean := make([]float64, len(runs))
	for i, r := range runs {
		var s float64
		for k := r.start; k < r.start+r.extent; k++ {
			s += y[cells[k].SampleIdx]
		}
		mean[i] = s / float64(r.extent)
	}
	sort.SliceStable(runs, func(i, j int) bool { return mean[i] < mean[j] })
}

// sortRunsByGiniOrder orders runs by their mean class code, the same
// ordinal reduction sortRunsByMean performs, treating the integer
// class codes as a proxy response. Exact for two classes; a
// well-established heuristic for more.
func sortRunsByGiniOrder(runs []run, cells []samplepred.Cell, y []int, nClass int) {
	mean := make([]float64, len(runs))
	for i, r := range runs {
		var s float64
		for k := r.start; k < r.start+r.extent; k++ {
			s += float64(y[cells[k].SampleIdx])
		}
		mean[i] = s / float64(r.extent)
	}
	sort.SliceStable(runs, func(i, j int) bool { return mean[i] < mean[j] })
}

// giniScan sweeps a node's sorted Cell slice accumulating per-class
// counts on either side of a moving boundary, mirroring giniValuer's
// classCtL/classCtR/update/delta.
type giniScan struct {
	y       []int
	cells   []samplepred.Cell
	classCt []int
	iInitial float64
}

func newGiniScan(y []int, nClass int, cells []samplepred.Cell) *giniScan {
	ct := make([]int, nClass)
	for _, c := range cells {
		ct[y[c.SampleIdx]]++
	}
	return &giniScan{y: y, cells: cells, classCt: ct, iInitial: gini(len(cells), ct)}
}

func gini(n int, ct []int) float64 {
	if n == 0 {
		return 0
	}
	g := 0.0
	for _, c := range ct {
		if c > 0 {
			p := float64(c) / float64(n)
			g += p * p
		}
	}
	return 1.0 - g
}

// bestNumSplit walks every cell boundary that does not fall inside a
// tied run, keeping the boundary with maximum impurity reduction.
func (g *giniScan) bestNumSplit(minNode int) (splitsig.NuxLH, bool) {
	n := len(g.cells)
	classCtL := make([]int, len(g.classCt))
	classCtR := make([]int, len(g.classCt))
	copy(classCtR, g.classCt)

	var best splitsig.NuxLH
	found := false
	nLeft := 0
	for pos := 1; pos < n; pos++ {
		yPrev := g.y[g.cells[pos-1].SampleIdx]
		classCtL[yPrev]++
		classCtR[yPrev]--
		nLeft++
		if samplepred.IsRun(g.cells, pos-1, pos) {
			continue // can't split within a tied run
		}
		nRight := n - nLeft
		if nLeft < minNode || nRight < minNode {
			continue
		}
		fracLeft := float64(nLeft) / float64(n)
		fracRight := float64(nRight) / float64(n)
		info := g.iInitial - fracLeft*gini(nLeft, classCtL) - fracRight*gini(nRight, classCtR)
		if !found || info > best.Info {
			best = splitsig.InitNum(0, nLeft, nLeft, info, g.cells[pos-1].Rank, g.cells[pos].Rank, 0)
			found = true
		}
	}
	return best, found && best.Info > 0
}

// giniScanRuns is bestNumSplit's factor counterpart: the boundary
// walk advances one run at a time instead of one cell at a time,
// every run boundary being a legal split point by construction.
type giniScanRuns struct {
	y        []int
	cells    []samplepred.Cell
	runs     []run
	classCt  []int
	iInitial float64
}

func newGiniScanRuns(y []int, cells []samplepred.Cell, runs []run) *giniScanRuns {
	nClass := 0
	for _, c := range cells {
		if y[c.SampleIdx]+1 > nClass {
			nClass = y[c.SampleIdx] + 1
		}
	}
	ct := make([]int, nClass)
	for _, c := range cells {
		ct[y[c.SampleIdx]]++
	}
	return &giniScanRuns{y: y, cells: cells, runs: runs, classCt: ct, iInitial: gini(len(cells), ct)}
}

func (g *giniScanRuns) bestRunSplit(minNode int) (splitsig.NuxLH, bool) {
	n := len(g.cells)
	classCtL := make([]int, len(g.classCt))
	classCtR := make([]int, len(g.classCt))
	copy(classCtR, g.classCt)

	var best splitsig.NuxLH
	found := false
	bestRuns := 0
	nLeft := 0
	for ri := 0; ri < len(g.runs)-1; ri++ {
		r := g.runs[ri]
		for k := r.start; k < r.start+r.extent; k++ {
			yVal := g.y[g.cells[k].SampleIdx]
			classCtL[yVal]++
			classCtR[yVal]--
		}
		nLeft += r.extent
		nRight := n - nLeft
		if nLeft < minNode || nRight < minNode {
			continue
		}
		fracLeft := float64(nLeft) / float64(n)
		fracRight := float64(nRight) / float64(n)
		info := g.iInitial - fracLeft*gini(nLeft, classCtL) - fracRight*gini(nRight, classCtR)
		if !found || info > best.Info {
			best = splitsig.Init(0, nLeft, nLeft, 0, info, 0)
			bestRuns = ri + 1
			found = true
		}
	}
	if found {
		best.LHCategories = lhCategories(g.runs, g.cells, bestRuns)
	}
	return best, found && best.Info > 0
}

// lhCategories reads off the predictor's own category code (the
// run's constant Rank, cast back to int) for each of the first
// lhRuns mean-ordered runs, the set SplitFac accepted onto the LHS.
func lhCategories(runs []run, cells []samplepred.Cell, lhRuns int) []int {
	codes := make([]int, lhRuns)
	for i := 0; i < lhRuns; i++ {
		codes[i] = int(cells[runs[i].start].Rank)
	}
	return codes
}

// varScan is giniScan's regression counterpart: cumulative sum and
// sum-of-squares on either side of the boundary, mirroring varValuer.
type varScan struct {
	y        []float64
	cells    []samplepred.Cell
	iInitial float64
	sTotal   float64
	ssTotal  float64
}

func newVarScan(y []float64, cells []samplepred.Cell) *varScan {
	var s, ss float64
	for _, c := range cells {
		v := y[c.SampleIdx]
		s += v
		ss += v * v
	}
	n := float64(len(cells))
	mean := s / n
	return &varScan{y: y, cells: cells, iInitial: ss/n - mean*mean, sTotal: s, ssTotal: ss}
}

func (v *varScan) bestNumSplit(minNode int) (splitsig.NuxLH, bool) {
	n := len(v.cells)
	var sL, ssL float64
	sR, ssR := v.sTotal, v.ssTotal

	var best splitsig.NuxLH
	found := false
	nLeft := 0
	for pos := 1; pos < n; pos++ {
		yPrev := v.y[v.cells[pos-1].SampleIdx]
		sL += yPrev
		ssL += yPrev * yPrev
		sR -= yPrev
		ssR -= yPrev * yPrev
		nLeft++
		if samplepred.IsRun(v.cells, pos-1, pos) {
			continue
		}
		nRight := n - nLeft
		if nLeft < minNode || nRight < minNode {
			continue
		}
		fracLeft := float64(nLeft) / float64(n)
		fracRight := float64(nRight) / float64(n)
		meanL := sL / float64(nLeft)
		meanR := sR / float64(nRight)
		varL := ssL/float64(nLeft) - meanL*meanL
		varR := ssR/float64(nRight) - meanR*meanR
		info := v.iInitial - fracLeft*varL - fracRight*varR
		if !found || info > best.Info {
			best = splitsig.InitNum(0, nLeft, nLeft, info, v.cells[pos-1].Rank, v.cells[pos].Rank, 0)
			found = true
		}
	}
	return best, found && best.Info > 0
}

type varScanRuns struct {
	y        []float64
	cells    []samplepred.Cell
	runs     []run
	iInitial float64
	sTotal   float64
	ssTotal  float64
}

func newVarScanRuns(y []float64, cells []samplepred.Cell, runs []run) *varScanRuns {
	var s, ss float64
	for _, c := range cells {
		v := y[c.SampleIdx]
		s += v
		ss += v * v
	}
	n := float64(len(cells))
	mean := s / n
	return &varScanRuns{y: y, cells: cells, runs: runs, iInitial: ss/n - mean*mean, sTotal: s, ssTotal: ss}
}

func (v *varScanRuns) bestRunSplit(minNode int) (splitsig.NuxLH, bool) {
	n := len(v.cells)
	var sL, ssL float64
	sR, ssR := v.sTotal, v.ssTotal

	var best splitsig.NuxLH
	found := false
	bestRuns := 0
	nLeft := 0
	for ri := 0; ri < len(v.runs)-1; ri++ {
		r := v.runs[ri]
		for k := r.start; k < r.start+r.extent; k++ {
			yVal := v.y[v.cells[k].SampleIdx]
			sL += yVal
			ssL += yVal * yVal
			sR -= yVal
			ssR -= yVal * yVal
		}
		nLeft += r.extent
		nRight := n - nLeft
		if nLeft < minNode || nRight < minNode {
			continue
		}
		fracLeft := float64(nLeft) / float64(n)
		fracRight := float64(nRight) / float64(n)
		meanL := sL / float64(nLeft)
		meanR := sR / float64(nRight)
		varL := ssL/float64(nLeft) - meanL*meanL
		varR := ssR/float64(nRight) - meanR*meanR
		info := v.iInitial - fracLeft*varL - fracRight*varR
		if !found || info > best.Info {
			best = splitsig.Init(0, nLeft, nLeft, 0, info, 0)
			bestRuns = ri + 1
			found = true
		}
	}
	if found {
		best.LHCategories = lhCategories(v.runs, v.cells, bestRuns)
	}
	return best, found && best.Info > 0
}
