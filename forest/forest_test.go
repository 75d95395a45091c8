package forest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbanos/levelforest/config"
	"github.com/pbanos/levelforest/dataset"
	"github.com/pbanos/levelforest/feature"
)

func classificationFrame(t *testing.T) *dataset.Frame {
	label := feature.NewDiscreteFeature("outcome", []string{"yes", "no"})
	x := feature.NewContinuousFeature("x")
	samples := []dataset.Sample{
		dataset.NewSample(map[string]interface{}{"outcome": "yes", "x": 1.0}),
		dataset.NewSample(map[string]interface{}{"outcome": "yes", "x": 2.0}),
		dataset.NewSample(map[string]interface{}{"outcome": "no", "x": 8.0}),
		dataset.NewSample(map[string]interface{}{"outcome": "no", "x": 9.0}),
	}
	frame, err := dataset.NewFrame(label, []feature.Feature{x}, samples)
	require.NoError(t, err)
	return frame
}

func TestFitGrowsRequestedTreeCount(t *testing.T) {
	frame := classificationFrame(t)
	cfg := config.TrainConfig{MinNode: 1, MinRatio: 0.02, NTrees: 5, NWorkers: 2}

	f, _, err := Fit(context.Background(), frame, cfg, false)
	require.NoError(t, err)
	assert.Len(t, f.Trees, 5)
	assert.Equal(t, "outcome", f.Label)
}

func TestFitComputesOOBAccuracyForClassification(t *testing.T) {
	frame := classificationFrame(t)
	cfg := config.TrainConfig{MinNode: 1, MinRatio: 0.02, NTrees: 8, NWorkers: 2}

	_, accuracy, err := Fit(context.Background(), frame, cfg, true)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, accuracy, 0.0)
	assert.LessOrEqual(t, accuracy, 1.0)
}

func TestFitSkipsOOBWhenNotRequested(t *testing.T) {
	frame := classificationFrame(t)
	cfg := config.TrainConfig{MinNode: 1, MinRatio: 0.02, NTrees: 2, NWorkers: 1}

	_, accuracy, err := Fit(context.Background(), frame, cfg, false)
	require.NoError(t, err)
	assert.Equal(t, 0.0, accuracy)
}

func TestForestPredictMergesTreeVotes(t *testing.T) {
	frame := classificationFrame(t)
	cfg := config.TrainConfig{MinNode: 1, MinRatio: 0.02, NTrees: 5, NWorkers: 2}
	f, _, err := Fit(context.Background(), frame, cfg, false)
	require.NoError(t, err)

	p, err := f.Predict(context.Background(), dataset.AsContextSample(dataset.NewSample(map[string]interface{}{"x": 1.5})))
	require.NoError(t, err)
	value, _ := p.PredictedValue()
	assert.Equal(t, "yes", value)
}

func TestFitRegressionForestSkipsOOB(t *testing.T) {
	label := feature.NewContinuousFeature("price")
	x := feature.NewContinuousFeature("size")
	samples := []dataset.Sample{
		dataset.NewSample(map[string]interface{}{"price": 1.0, "size": 1.0}),
		dataset.NewSample(map[string]interface{}{"price": 10.0, "size": 9.0}),
	}
	frame, err := dataset.NewFrame(label, []feature.Feature{x}, samples)
	require.NoError(t, err)

	cfg := config.TrainConfig{MinNode: 1, MinRatio: 0.02, NTrees: 3, NWorkers: 1}
	f, accuracy, err := Fit(context.Background(), frame, cfg, true)
	require.NoError(t, err)
	assert.Equal(t, 0.0, accuracy)
	assert.Len(t, f.Trees, 3)
}
