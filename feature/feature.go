package feature

import "fmt"

// Feature is a column a Frame (package dataset) can encode: either a
// predictor the Bottom engine splits on, or the label a tree predicts.
type Feature interface {
	Name() string
	Valid(interface{}) (bool, error)
}

// DiscreteFeature is a column that only takes a value among a finite
// set of strings. As a predictor it is encoded as a dense per-frame
// category code and split by factor runs; as a label it drives a
// classification frame's Gini criterion.
type DiscreteFeature struct {
	name            string
	availableValues []string
}

// ContinuousFeature is a column that takes a numeric value. As a
// predictor it is split by rank-ordered threshold; as a label it
// drives a regression frame's variance criterion.
type ContinuousFeature struct {
	name string
}

/*
NewDiscreteFeature takes a name string and a slice of available value strings
and returns a discrete feature with the given names and available values.
*/
func NewDiscreteFeature(name string, availableValues []string) *DiscreteFeature {
	return &DiscreteFeature{name, availableValues}
}

/*
NewContinuousFeature takes a name string and returns a continuous feature with
the given name.
*/
func NewContinuousFeature(name string) *ContinuousFeature {
	return &ContinuousFeature{name}
}

/*
Name returns a string with the name of the feature
*/
func (df *DiscreteFeature) Name() string {
	return df.name
}

/*
Valid receives an interface value and returns a boolean and an error. When the
value parameter is nil (undefined) or is included in the available values fo
the feature, the method returns true and nil. Otherwise it returns false and an
error describing the reason.
*/
func (df *DiscreteFeature) Valid(value interface{}) (bool, error) {
	if value == nil {
		return true, nil
	}
	vs, ok := value.(string)
	if !ok {
		return false, fmt.Errorf("discrete feature %s expects string value, got %T value", df.Name(), value)
	}
	for _, av := range df.availableValues {
		if av == vs {
			return true, nil
		}
	}
	return false, fmt.Errorf("discrete feature %s got unknown value %s", df.Name(), vs)
}

/*
AvailableValues returns a string slice with the values available for the feature
*/
func (df *DiscreteFeature) AvailableValues() []string {
	return df.availableValues
}

// Cardinality returns the number of values the feature can take. A
// discrete predictor with fewer than two values can never drive a
// split, since there is nothing to separate.
func (df *DiscreteFeature) Cardinality() int {
	return len(df.availableValues)
}

func (df *DiscreteFeature) String() string {
	return df.name
}

/*
Name returns a string with the name of the feature
*/
func (cf *ContinuousFeature) Name() string {
	return cf.name
}

/*
Valid receives an interface value and returns a boolean and an error. When the
value parameter is nil (undefined) or a float64 it returns true and nil,
otherwise it returns false and an error describing the reason.
*/
func (cf *ContinuousFeature) Valid(value interface{}) (bool, error) {
	if value == nil {
		return true, nil
	}
	_, ok := value.(float64)
	if !ok {
		return false, fmt.Errorf("continuous feature %s expects float64 value, got %T value", cf.Name(), value)
	}
	return true, nil
}

func (cf *ContinuousFeature) String() string {
	return cf.name
}
