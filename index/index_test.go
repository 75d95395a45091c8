package index

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbanos/levelforest/dataset"
	"github.com/pbanos/levelforest/feature"
	"github.com/pbanos/levelforest/tree"
)

func TestGrowClassificationSplitsOnCleanBoundary(t *testing.T) {
	label := feature.NewDiscreteFeature("outcome", []string{"yes", "no"})
	x := feature.NewContinuousFeature("x")
	samples := []dataset.Sample{
		dataset.NewSample(map[string]interface{}{"outcome": "yes", "x": 1.0}),
		dataset.NewSample(map[string]interface{}{"outcome": "yes", "x": 2.0}),
		dataset.NewSample(map[string]interface{}{"outcome": "no", "x": 3.0}),
		dataset.NewSample(map[string]interface{}{"outcome": "no", "x": 4.0}),
	}
	frame, err := dataset.NewFrame(label, []feature.Feature{x}, samples)
	require.NoError(t, err)

	store := tree.NewMemoryNodeStore()
	tr, err := Grow(context.Background(), frame, []int{0, 1, 2, 3}, Options{MinNode: 1}, store)
	require.NoError(t, err)

	p, err := tr.Predict(context.Background(), dataset.AsContextSample(dataset.NewSample(map[string]interface{}{"x": 1.5})))
	require.NoError(t, err)
	value, _ := p.PredictedValue()
	assert.Equal(t, "yes", value)

	p, err = tr.Predict(context.Background(), dataset.AsContextSample(dataset.NewSample(map[string]interface{}{"x": 3.5})))
	require.NoError(t, err)
	value, _ = p.PredictedValue()
	assert.Equal(t, "no", value)
}

func TestGrowRegressionPredictsMean(t *testing.T) {
	label := feature.NewContinuousFeature("price")
	x := feature.NewContinuousFeature("size")
	samples := []dataset.Sample{
		dataset.NewSample(map[string]interface{}{"price": 1.0, "size": 1.0}),
		dataset.NewSample(map[string]interface{}{"price": 1.0, "size": 2.0}),
		dataset.NewSample(map[string]interface{}{"price": 10.0, "size": 3.0}),
		dataset.NewSample(map[string]interface{}{"price": 10.0, "size": 4.0}),
	}
	frame, err := dataset.NewFrame(label, []feature.Feature{x}, samples)
	require.NoError(t, err)

	store := tree.NewMemoryNodeStore()
	tr, err := Grow(context.Background(), frame, []int{0, 1, 2, 3}, Options{MinNode: 1}, store)
	require.NoError(t, err)

	p, err := tr.Predict(context.Background(), dataset.AsContextSample(dataset.NewSample(map[string]interface{}{"size": 1.5})))
	require.NoError(t, err)
	mean, isRegression := p.PredictedMean()
	require.True(t, isRegression)
	assert.InDelta(t, 1.0, mean, 1e-9)
}

func TestGrowWithHighMinNodeYieldsSingleLeaf(t *testing.T) {
	label := feature.NewDiscreteFeature("outcome", []string{"yes", "no"})
	x := feature.NewContinuousFeature("x")
	samples := []dataset.Sample{
		dataset.NewSample(map[string]interface{}{"outcome": "yes", "x": 1.0}),
		dataset.NewSample(map[string]interface{}{"outcome": "no", "x": 2.0}),
	}
	frame, err := dataset.NewFrame(label, []feature.Feature{x}, samples)
	require.NoError(t, err)

	store := tree.NewMemoryNodeStore()
	tr, err := Grow(context.Background(), frame, []int{0, 1}, Options{MinNode: 10}, store)
	require.NoError(t, err)

	root, err := store.Get(context.Background(), tr.RootID)
	require.NoError(t, err)
	assert.Empty(t, root.SubtreeIDs)
	require.NotNil(t, root.Prediction)
}
