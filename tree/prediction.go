package tree

import (
	"fmt"
	"strings"
)

/*
Prediction represents a prediction made by a decision tree: either a
class probability distribution (classification) or a mean response
(regression), each carrying the weight (live sample count) it was
built from.
*/
type Prediction struct {
	probabilities map[string]float64
	mean          float64
	isRegression  bool
	weight        int
}

// PredictionError represents an error related with predictions
type PredictionError string

/*
ErrCannotPredictFromSample is the error returned by the Predict method of a tree
when the prediction cannot be made because the tree itself cannot make
a prediction for that kind of sample, as opposed to cases where values
for a feature cannot be obtained for example.
*/
const ErrCannotPredictFromSample = PredictionError("no prediction available for this kind of sample")

/*
ErrCannotPredictFromEmptySet is the error returned when trying to build a prediction
based on an empty dataset.
*/
const ErrCannotPredictFromEmptySet = PredictionError("cannot make prediction for empty dataset")

func (pe PredictionError) Error() string {
	return string(pe)
}

/*
ProbabilityOf takes a string value and returns the float64 probability of that
value according to the prediction.
*/
func (p *Prediction) ProbabilityOf(value string) float64 {
	return p.probabilities[value]
}

func (p *Prediction) String() string {
	if p.isRegression {
		return fmt.Sprintf("%f", p.mean)
	}
	return strings.Replace(fmt.Sprintf("%v", p.probabilities), "map", "", 1)
}

/*
Probabilities returns a map of string to float64 containing
the probabilities of each available value
*/
func (p *Prediction) Probabilities() map[string]float64 {
	return p.probabilities
}

/*
Weight returns the weight of the prediction: an
int equal to the number of samples in the dataset from which
the prediction was made
*/
func (p *Prediction) Weight() int {
	return p.weight
}

/*
NewPrediction takes a map[string]float64 with the probabilities
of each value in the prediction and an integer with the number
of samples in the dataset from which those probabilities were computed
and returns a classification prediction representing those values.
*/
func NewPrediction(probs map[string]float64, weight int) *Prediction {
	return &Prediction{probabilities: probs, weight: weight}
}

/*
NewRegressionPrediction takes the mean response over a node's live
samples and the count of those samples and returns a regression
prediction.
*/
func NewRegressionPrediction(mean float64, weight int) *Prediction {
	return &Prediction{mean: mean, isRegression: true, weight: weight}
}

/*
PredictedValue returns a string with the most probable value and a float64 with
its prevalence
*/
func (p *Prediction) PredictedValue() (value string, prob float64) {
	for k, v := range p.probabilities {
		if v > prob {
			value = k
			prob = v
		}
	}
	return
}

/*
PredictedMean returns the regression prediction's mean response and
true, or 0 and false if this is a classification prediction.
*/
func (p *Prediction) PredictedMean() (float64, bool) {
	return p.mean, p.isRegression
}

// JoinPredictions takes two predictions of the same kind (both
// classification or both regression) and returns their weighted
// merge, weighted by each one's own weight. Forest ensembles use this
// to fold per-tree predictions of the same sample into one.
func JoinPredictions(p1 *Prediction, p2 *Prediction) (*Prediction, error) {
	totalWeight := p1.weight + p2.weight
	if totalWeight == 0 {
		return nil, ErrCannotPredictFromEmptySet
	}
	if p1.isRegression {
		w1 := float64(p1.weight) / float64(totalWeight)
		w2 := float64(p2.weight) / float64(totalWeight)
		return &Prediction{mean: w1*p1.mean + w2*p2.mean, isRegression: true, weight: totalWeight}, nil
	}
	relativeWeight := float64(p1.weight) / float64(totalWeight)
	mergedProbs := make(map[string]float64)
	for c, p := range p1.probabilities {
		mergedProbs[c] = relativeWeight * p
	}
	relativeWeight = float64(p2.weight) / float64(totalWeight)
	for c, p := range p2.probabilities {
		mergedProbs[c] += relativeWeight * p
	}
	return &Prediction{probabilities: mergedProbs, weight: totalWeight}, nil
}
