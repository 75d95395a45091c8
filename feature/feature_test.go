package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiscreteFeatureValid(t *testing.T) {
	f := NewDiscreteFeature("color", []string{"red", "blue"})
	ok, err := f.Valid("red")
	assert.True(t, ok)
	assert.NoError(t, err)

	ok, err = f.Valid(nil)
	assert.True(t, ok)
	assert.NoError(t, err)

	ok, err = f.Valid("green")
	assert.False(t, ok)
	assert.Error(t, err)

	ok, err = f.Valid(3.14)
	assert.False(t, ok)
	assert.Error(t, err)

	assert.Equal(t, []string{"red", "blue"}, f.AvailableValues())
	assert.Equal(t, "color", f.Name())
	assert.Equal(t, 2, f.Cardinality())
}

func TestDiscreteFeatureCardinalityOfSingleValueFeature(t *testing.T) {
	f := NewDiscreteFeature("constant", []string{"only"})
	assert.Equal(t, 1, f.Cardinality())
}

func TestContinuousFeatureValid(t *testing.T) {
	f := NewContinuousFeature("age")
	ok, err := f.Valid(1.0)
	assert.True(t, ok)
	assert.NoError(t, err)

	ok, err = f.Valid(nil)
	assert.True(t, ok)
	assert.NoError(t, err)

	ok, err = f.Valid("1.0")
	assert.False(t, ok)
	assert.Error(t, err)

	assert.Equal(t, "age", f.Name())
}
