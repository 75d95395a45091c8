package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/pbanos/levelforest/feature"
)

/*
ReadCSVSamples takes an io.Reader for a CSV stream and a slice of
features and returns the Samples parsed from it, or an error.

The header row is expected to consist of the names of the features in
the given slice, in any order; an extra trailing column (e.g. a row
ID) is tolerated. Every other row must hold valid values for each
named feature, or the string "?" to mark a value undefined.
*/
func ReadCSVSamples(reader io.Reader, features []feature.Feature) ([]Sample, error) {
	featuresByName := make(map[string]feature.Feature, len(features))
	for _, f := range features {
		featuresByName[f.Name()] = f
	}
	r := csv.NewReader(reader)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %v", err)
	}
	featureOrder, err := parseFeaturesFromCSVHeader(header, featuresByName)
	if err != nil {
		return nil, err
	}
	var samples []Sample
	for l := 2; ; l++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading body: %v", err)
		}
		sample, err := parseSampleFromCSVRow(row, featureOrder)
		if err != nil {
			return nil, fmt.Errorf("parsing line %d: %v", l, err)
		}
		samples = append(samples, sample)
	}
	return samples, nil
}

// ReadCSVSamplesFromFile opens filepath (or reads STDIN if empty) and
// parses it via ReadCSVSamples.
func ReadCSVSamplesFromFile(filepath string, features []feature.Feature) ([]Sample, error) {
	var f *os.File
	var err error
	if filepath == "" {
		f = os.Stdin
	} else {
		f, err = os.Open(filepath)
		if err != nil {
			return nil, fmt.Errorf("opening training set at %s: %v", filepath, err)
		}
		defer f.Close()
	}
	samples, err := ReadCSVSamples(f, features)
	if err != nil {
		err = fmt.Errorf("parsing CSV file %s: %v", filepath, err)
	}
	return samples, err
}

func parseFeaturesFromCSVHeader(header []string, features map[string]feature.Feature) ([]feature.Feature, error) {
	var featureOrder []feature.Feature
	for i, name := range header {
		f, ok := features[name]
		if ok {
			featureOrder = append(featureOrder, f)
		} else if i != len(header)-1 {
			return nil, fmt.Errorf("parsing header: reference to unknown feature %s", name)
		}
	}
	return featureOrder, nil
}

func parseSampleFromCSVRow(row []string, featureOrder []feature.Feature) (Sample, error) {
	featureValues := make(map[string]interface{})
	for i, f := range featureOrder {
		v := row[i]
		var value interface{}
		var err error
		if v != "?" {
			if _, ok := f.(*feature.ContinuousFeature); ok {
				value, err = strconv.ParseFloat(v, 64)
				if err != nil {
					return nil, fmt.Errorf("converting %s to float64: %v", v, err)
				}
			} else {
				value = v
			}
		}
		if ok, err := f.Valid(value); !ok {
			return nil, fmt.Errorf("invalid value %v of type %T for feature %s: %v", value, value, f.Name(), err)
		}
		featureValues[f.Name()] = value
	}
	return NewSample(featureValues), nil
}
