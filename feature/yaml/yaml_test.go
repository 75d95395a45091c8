package yaml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbanos/levelforest/feature"
)

func TestReadFeaturesParsesContinuousAndDiscrete(t *testing.T) {
	md := []byte(`
features:
  age: continuous
  color: [red, blue]
`)
	features, err := ReadFeatures(md)
	require.NoError(t, err)
	require.Len(t, features, 2)

	byName := make(map[string]feature.Feature, len(features))
	for _, f := range features {
		byName[f.Name()] = f
	}

	_, isContinuous := byName["age"].(*feature.ContinuousFeature)
	assert.True(t, isContinuous)

	df, isDiscrete := byName["color"].(*feature.DiscreteFeature)
	require.True(t, isDiscrete)
	assert.ElementsMatch(t, []string{"red", "blue"}, df.AvailableValues())
}

func TestReadFeaturesRejectsMissingFeaturesKey(t *testing.T) {
	_, err := ReadFeatures([]byte("other: 1\n"))
	assert.Error(t, err)
}

func TestReadFeaturesFromFileMissingPathErrors(t *testing.T) {
	_, err := ReadFeaturesFromFile("/nonexistent/metadata.yml")
	assert.Error(t, err)
}

func TestReadFeaturesRejectsSingleValuedDiscreteFeature(t *testing.T) {
	md := []byte(`
features:
  color: [red]
`)
	_, err := ReadFeatures(md)
	assert.Error(t, err)
}
