package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pbanos/levelforest/dataset"
	"github.com/pbanos/levelforest/feature"
	yamlfeature "github.com/pbanos/levelforest/feature/yaml"
	"github.com/pbanos/levelforest/forest"
	"github.com/pbanos/levelforest/tree"
)

type predictCmdConfig struct {
	*rootCmdConfig
	forestInput    string
	metadataInput  string
	undefinedValue string
}

func predictCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &predictCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict a value for a sample answering questions",
		Long:  `Use a grown forest to predict the label's value for a sample answering a question per predictor`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			features, err := yamlfeature.ReadFeaturesFromFile(config.metadataInput)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			f, err := loadForest(config.forestInput, features)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(3)
			}
			prediction, err := config.predict(context.Background(), f, features)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(4)
			}
			fmt.Printf("Predicted value: %v\n", prediction)
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the features available on the input file (required)")
	cmd.PersistentFlags().StringVarP(&(config.forestInput), "forest", "f", "", "path to a file from which the forest to predict with will be read and parsed as JSON (required)")
	cmd.PersistentFlags().StringVarP(&(config.undefinedValue), "undefined-value", "u", "?", "value to input to define a sample's value for a feature as undefined")
	return cmd
}

func (pcc *predictCmdConfig) Validate() error {
	if pcc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	if pcc.forestInput == "" {
		return fmt.Errorf("required forest flag was not set")
	}
	return nil
}

func loadForest(path string, features []feature.Feature) (*forest.Forest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening forest at %s: %v", path, err)
	}
	defer f.Close()
	return forest.ReadJSONForest(context.Background(), features, f)
}

func (pcc *predictCmdConfig) predict(ctx context.Context, f *forest.Forest, features []feature.Feature) (*tree.Prediction, error) {
	values := make(map[string]interface{})
	scanner := bufio.NewScanner(os.Stdin)
	for _, feat := range features {
		if feat.Name() == f.Label {
			continue
		}
		v, err := pcc.ask(scanner, feat)
		if err != nil {
			return nil, err
		}
		values[feat.Name()] = v
	}
	sample := dataset.AsContextSample(dataset.NewSample(values))
	return f.Predict(ctx, sample)
}

func (pcc *predictCmdConfig) ask(scanner *bufio.Scanner, feat feature.Feature) (interface{}, error) {
	for {
		switch df := feat.(type) {
		case *feature.DiscreteFeature:
			fmt.Printf("Please provide the sample's %s:\n(valid values are %v or %s if undefined)\n", df.Name(), df.AvailableValues(), pcc.undefinedValue)
		case *feature.ContinuousFeature:
			fmt.Printf("Please provide the sample's %s:\n(valid values are real numbers or %s if undefined)\n", df.Name(), pcc.undefinedValue)
		default:
			return nil, fmt.Errorf("unknown feature type %T", feat)
		}
		if !scanner.Scan() {
			return nil, fmt.Errorf("reading value for %s: %v", feat.Name(), scanner.Err())
		}
		raw := strings.TrimSpace(scanner.Text())
		var value interface{}
		var err error
		if raw != pcc.undefinedValue {
			if _, ok := feat.(*feature.ContinuousFeature); ok {
				value, err = strconv.ParseFloat(raw, 64)
				if err != nil {
					fmt.Printf("%s is not a valid real number. Please provide a real number or %s if undefined.\n", raw, pcc.undefinedValue)
					continue
				}
			} else {
				value = raw
			}
		}
		if ok, verr := feat.Valid(value); !ok {
			fmt.Printf("%v is not a valid value for %s: %v\n", value, feat.Name(), verr)
			continue
		}
		return value, nil
	}
}
