package feature

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeSample struct {
	values map[string]interface{}
}

func (s fakeSample) ValueFor(ctx context.Context, f Feature) (interface{}, error) {
	return s.values[f.Name()], nil
}

func TestContinuousCriterionSatisfiedBy(t *testing.T) {
	age := NewContinuousFeature("age")
	c := NewContinuousCriterion(age, 1.0, 10.0)
	ctx := context.Background()

	ok, err := c.SatisfiedBy(ctx, fakeSample{map[string]interface{}{"age": 5.0}})
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, _ = c.SatisfiedBy(ctx, fakeSample{map[string]interface{}{"age": 10.0}})
	assert.False(t, ok) // interval is half-open, upper bound excluded

	ok, _ = c.SatisfiedBy(ctx, fakeSample{map[string]interface{}{"age": nil}})
	assert.False(t, ok)

	a, b := c.Interval()
	assert.Equal(t, 1.0, a)
	assert.Equal(t, 10.0, b)
}

func TestContinuousCriterionOpenEnded(t *testing.T) {
	age := NewContinuousFeature("age")
	c := NewContinuousCriterion(age, math.Inf(-1), math.Inf(1))
	ok, err := c.SatisfiedBy(context.Background(), fakeSample{map[string]interface{}{"age": -1000.0}})
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestDiscreteCriterionSatisfiedBy(t *testing.T) {
	color := NewDiscreteFeature("color", []string{"red", "blue"})
	c := NewDiscreteCriterion(color, "red")
	ok, err := c.SatisfiedBy(context.Background(), fakeSample{map[string]interface{}{"color": "red"}})
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, _ = c.SatisfiedBy(context.Background(), fakeSample{map[string]interface{}{"color": "blue"}})
	assert.False(t, ok)
	assert.Equal(t, "red", c.Value())
}

func TestSetCriterionSatisfiedBy(t *testing.T) {
	color := NewDiscreteFeature("color", []string{"red", "blue", "green"})
	c := NewSetCriterion(color, []string{"red", "green"})

	ok, err := c.SatisfiedBy(context.Background(), fakeSample{map[string]interface{}{"color": "green"}})
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, _ = c.SatisfiedBy(context.Background(), fakeSample{map[string]interface{}{"color": "blue"}})
	assert.False(t, ok)

	assert.ElementsMatch(t, []string{"red", "green"}, c.Values())
}

func TestUndefinedCriterionAlwaysSatisfied(t *testing.T) {
	age := NewContinuousFeature("age")
	c := NewUndefinedCriterion(age)
	ok, err := c.SatisfiedBy(context.Background(), fakeSample{})
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, c.IsUndefinedCriterion())
	assert.Equal(t, age, c.Feature())
}
