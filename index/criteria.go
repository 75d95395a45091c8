package index

import (
	"fmt"
	"math"

	"github.com/pbanos/levelforest/dataset"
	"github.com/pbanos/levelforest/feature"
	"github.com/pbanos/levelforest/splitsig"
)

var negInf, posInf = math.Inf(-1), math.Inf(1)

// buildCriteria turns an accepted SSNode for predIdx into the pair of
// feature.Criterion constraints its two children impose: a numeric
// split yields complementary open intervals around the winning
// boundary rank, a factor split yields complementary value sets built
// from LHCategories decoded against the predictor's own FacLevels.
func buildCriteria(frame *dataset.Frame, predIdx int, pred feature.Feature, ss *splitsig.SSNode) (feature.Criterion, feature.Criterion, error) {
	if _, isFac := ss.SetIdx.Get(); isFac {
		df, ok := pred.(*feature.DiscreteFeature)
		if !ok {
			return nil, nil, fmt.Errorf("index: factor split on non-discrete predictor %s", pred.Name())
		}
		levels := frame.FacLevels[predIdx]
		lhSet := make(map[int]bool, len(ss.LHCategories))
		for _, c := range ss.LHCategories {
			lhSet[c] = true
		}
		var left, right []string
		for code, name := range levels {
			if lhSet[code] {
				left = append(left, name)
			} else {
				right = append(right, name)
			}
		}
		return feature.NewSetCriterion(df, left), feature.NewSetCriterion(df, right), nil
	}
	cf, ok := pred.(*feature.ContinuousFeature)
	if !ok {
		return nil, nil, fmt.Errorf("index: numeric split on non-continuous predictor %s", pred.Name())
	}
	boundary := ss.RankRH
	return feature.NewContinuousCriterion(cf, negInf, boundary), feature.NewContinuousCriterion(cf, boundary, posInf), nil
}
