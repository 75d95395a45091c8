/*
Package forest bags NTrees independent index.Grow calls into an
ensemble: one bootstrap draw (package sampler) feeds one tree, trees
vote by averaging their tree.Prediction. Grounded on
wlattner-rf/forest/forest.go's Classifier.Fit: the same in/out channel
worker pool fanning bootstrap replicates out across NWorkers
goroutines, and the same out-of-bag confusion-matrix accumulation for
a classification forest.
*/
package forest

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/pbanos/levelforest/config"
	"github.com/pbanos/levelforest/dataset"
	"github.com/pbanos/levelforest/feature"
	"github.com/pbanos/levelforest/index"
	"github.com/pbanos/levelforest/sampler"
	"github.com/pbanos/levelforest/tree"
)

// Forest is a bagged ensemble of independently grown trees predicting
// the same label.
type Forest struct {
	Trees []*tree.Tree
	Label string
}

// fitTree is one unit of work the worker pool below exchanges: a
// bootstrap draw in, a grown tree (or error) out.
type fitTree struct {
	idx int
	bag *sampler.Bag
	t   *tree.Tree
	err error
}

// Fit grows cfg.NTrees trees against frame, each on its own bootstrap
// draw of frame.RowCount samples, storing every tree's nodes on its
// own tree.NewMemoryNodeStore, and returns the resulting Forest. If
// computeOOB is true it also returns the out-of-bag prediction
// accuracy over frame's own rows (classification only; 0 for a
// regression frame).
func Fit(ctx context.Context, frame *dataset.Frame, cfg config.TrainConfig, computeOOB bool) (*Forest, float64, error) {
	nWorkers := cfg.NWorkers
	if nWorkers < 1 {
		nWorkers = 1
	}
	opts := cfg.IndexOptions()

	in := make(chan *fitTree)
	out := make(chan *fitTree)

	for w := 0; w < nWorkers; w++ {
		go func(seed int64) {
			r := rand.New(rand.NewSource(seed))
			for ft := range in {
				ft.bag = sampler.Bootstrap(frame.RowCount, frame.RowCount, r)
				store := tree.NewMemoryNodeStore()
				t, err := index.Grow(ctx, frame, ft.bag.Idx, opts, store)
				ft.t, ft.err = t, err
				out <- ft
			}
		}(int64(w) + 1)
	}

	go func() {
		for i := 0; i < cfg.NTrees; i++ {
			in <- &fitTree{idx: i}
		}
		close(in)
	}()

	trees := make([]*tree.Tree, cfg.NTrees)
	bags := make([]*sampler.Bag, cfg.NTrees)
	for i := 0; i < cfg.NTrees; i++ {
		ft := <-out
		if ft.err != nil {
			return nil, 0, fmt.Errorf("forest: growing tree %d: %w", ft.idx, ft.err)
		}
		trees[ft.idx] = ft.t
		bags[ft.idx] = ft.bag
	}

	f := &Forest{Trees: trees, Label: frame.Label.Name()}
	if !computeOOB {
		return f, 0, nil
	}
	accuracy, err := oobAccuracy(ctx, frame, trees, bags)
	if err != nil {
		return nil, 0, err
	}
	return f, accuracy, nil
}

// Predict folds every tree's prediction for s into one via repeated
// tree.JoinPredictions, the forest's ensemble vote.
func (f *Forest) Predict(ctx context.Context, s feature.Sample) (*tree.Prediction, error) {
	var merged *tree.Prediction
	for _, t := range f.Trees {
		p, err := t.Predict(ctx, s)
		if err != nil {
			if err == tree.ErrCannotPredictFromSample {
				continue
			}
			return nil, err
		}
		if merged == nil {
			merged = p
			continue
		}
		merged, err = tree.JoinPredictions(merged, p)
		if err != nil {
			return nil, err
		}
	}
	if merged == nil {
		return nil, tree.ErrCannotPredictFromSample
	}
	return merged, nil
}

// oobAccuracy scores each row against the majority prediction of only
// the trees whose bootstrap draw left that row out, grounded on
// forest.go's oobCtr.update/compute.
func oobAccuracy(ctx context.Context, frame *dataset.Frame, trees []*tree.Tree, bags []*sampler.Bag) (float64, error) {
	if frame.ClassLabels == nil {
		return 0, nil
	}
	votes := make([][]int, frame.RowCount)
	for i := range votes {
		votes[i] = make([]int, len(frame.ClassNames))
	}
	for ti, t := range trees {
		for row := 0; row < frame.RowCount; row++ {
			if bags[ti].InBag[row] {
				continue
			}
			s := frameRowSample{frame: frame, row: row}
			p, err := t.Predict(ctx, s)
			if err != nil {
				if err == tree.ErrCannotPredictFromSample {
					continue
				}
				return 0, err
			}
			value, _ := p.PredictedValue()
			for code, name := range frame.ClassNames {
				if name == value {
					votes[row][code]++
					break
				}
			}
		}
	}
	correct := 0
	for row, rowVotes := range votes {
		maxVotes, maxClass := -1, -1
		for class, ct := range rowVotes {
			if ct > maxVotes {
				maxVotes, maxClass = ct, class
			}
		}
		if maxClass == frame.ClassLabels[row] {
			correct++
		}
	}
	return float64(correct) / float64(frame.RowCount), nil
}

// frameRowSample adapts one Frame row back into a feature.Sample so
// an already-grown tree.Tree can be asked to predict it, the same
// round trip dataset.AsContextSample performs for freshly-read
// samples.
type frameRowSample struct {
	frame *dataset.Frame
	row   int
}

func (s frameRowSample) ValueFor(ctx context.Context, f feature.Feature) (interface{}, error) {
	for p, pred := range s.frame.Predictors {
		if pred.Name() == f.Name() {
			v := s.frame.Columns[p][s.row]
			if levels := s.frame.FacLevels[p]; levels != nil {
				return levels[int(v)], nil
			}
			return v, nil
		}
	}
	if f.Name() == s.frame.Label.Name() {
		if s.frame.ClassLabels != nil {
			return s.frame.ClassNames[s.frame.ClassLabels[s.row]], nil
		}
		return s.frame.RegLabels[s.row], nil
	}
	return nil, fmt.Errorf("forest: unknown feature %s", f.Name())
}
