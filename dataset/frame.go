/*
Package dataset builds the column-major Frame the Bottom engine
trains against from row-oriented Samples, and defines the Sample
interface used to assemble one.

Frame replaces the recursive, per-node row-subsetting Dataset the
original botanic tree builder walked top-down: the level-wise engine
in package bottom never re-scans or re-subsets rows, it restages a
single upfront column encoding in place, so there is nothing left for
a subsetting abstraction to do.
*/
package dataset

import (
	"context"
	"fmt"

	"github.com/pbanos/levelforest/feature"
)

/*
Sample represents an item to process or from which to learn how to process them.

Its ValueFor method returns the value of the sample corresponding to the feature
passed as parameter.
*/
type Sample interface {
	ValueFor(feature.Feature) (interface{}, error)
}

type sample struct {
	featureValues map[string]interface{}
}

/*
NewSample takes a map of feature string names to values and returns a sample.
*/
func NewSample(featureValues map[string]interface{}) Sample {
	return &sample{featureValues}
}

func (s *sample) ValueFor(f feature.Feature) (interface{}, error) {
	return s.featureValues[f.Name()], nil
}

func (s *sample) String() string {
	return fmt.Sprintf("[%v]", s.featureValues)
}

// ctxSample adapts a Sample to feature.Sample, the context-aware
// interface tree.Predict and feature.Criterion.SatisfiedBy consume.
type ctxSample struct {
	s Sample
}

// AsContextSample wraps a Sample so it can be used wherever a
// feature.Sample is expected.
func AsContextSample(s Sample) feature.Sample {
	return ctxSample{s}
}

func (c ctxSample) ValueFor(ctx context.Context, f feature.Feature) (interface{}, error) {
	return c.s.ValueFor(f)
}

// Frame is a column-major encoding of a slice of Samples against a
// label feature and a slice of predictor features, built once up
// front for the Bottom engine's Sample-Predictor arena: one dense
// numeric column per predictor (raw value for continuous
// predictors, a dense per-frame category code cast to float64 for
// discrete ones) plus a label column coded the same way.
type Frame struct {
	Label      feature.Feature
	Predictors []feature.Feature

	// ClassLabels holds a dense class code per row when Label is
	// discrete, nil otherwise.
	ClassLabels []int
	ClassNames  []string

	// RegLabels holds the raw response per row when Label is
	// continuous, nil otherwise.
	RegLabels []float64

	// FacCard holds, per predictor, 0 for a continuous predictor or
	// its observed category count for a discrete one.
	FacCard []int
	// FacLevels holds, per discrete predictor, the dense code -> string
	// lookup table SplitFac's accepted run-set decodes against; nil
	// entries for continuous predictors.
	FacLevels [][]string

	// Columns holds, per predictor, one dense float64 per row: the
	// raw value for a continuous predictor, or its dense category
	// code for a discrete one.
	Columns [][]float64

	RowCount int
}

// NewFrame builds a Frame from samples against label and predictors.
// It returns an error if a sample's value for a feature fails that
// feature's own Valid check, or if the label is neither a
// DiscreteFeature nor a ContinuousFeature.
func NewFrame(label feature.Feature, predictors []feature.Feature, samples []Sample) (*Frame, error) {
	f := &Frame{
		Label:      label,
		Predictors: predictors,
		FacCard:    make([]int, len(predictors)),
		FacLevels:  make([][]string, len(predictors)),
		Columns:    make([][]float64, len(predictors)),
		RowCount:   len(samples),
	}
	levelCodes := make([]map[string]int, len(predictors))
	for p := range predictors {
		f.Columns[p] = make([]float64, len(samples))
		levelCodes[p] = make(map[string]int)
	}

	switch label.(type) {
	case *feature.DiscreteFeature:
		f.ClassLabels = make([]int, len(samples))
	case *feature.ContinuousFeature:
		f.RegLabels = make([]float64, len(samples))
	default:
		return nil, fmt.Errorf("dataset: unsupported label feature type %T", label)
	}
	classCodes := make(map[string]int)

	for row, s := range samples {
		for p, feat := range predictors {
			val, err := s.ValueFor(feat)
			if err != nil {
				return nil, err
			}
			if ok, err := feat.Valid(val); !ok {
				return nil, fmt.Errorf("dataset: row %d: %w", row, err)
			}
			switch df := feat.(type) {
			case *feature.DiscreteFeature:
				sv, _ := val.(string)
				code, seen := levelCodes[p][sv]
				if !seen {
					code = len(levelCodes[p])
					levelCodes[p][sv] = code
					f.FacLevels[p] = append(f.FacLevels[p], sv)
				}
				f.Columns[p][row] = float64(code)
				_ = df
			default:
				fv, _ := val.(float64)
				f.Columns[p][row] = fv
			}
		}
		val, err := s.ValueFor(label)
		if err != nil {
			return nil, err
		}
		if f.RegLabels != nil {
			fv, _ := val.(float64)
			f.RegLabels[row] = fv
		} else {
			sv, _ := val.(string)
			code, seen := classCodes[sv]
			if !seen {
				code = len(classCodes)
				classCodes[sv] = code
				f.ClassNames = append(f.ClassNames, sv)
			}
			f.ClassLabels[row] = code
		}
	}
	for p := range predictors {
		f.FacCard[p] = len(levelCodes[p])
		if _, ok := predictors[p].(*feature.DiscreteFeature); !ok {
			f.FacCard[p] = 0
		}
	}
	return f, nil
}
