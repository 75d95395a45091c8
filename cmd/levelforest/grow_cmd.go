package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pbanos/levelforest/config"
	"github.com/pbanos/levelforest/dataset"
	"github.com/pbanos/levelforest/feature"
	yamlfeature "github.com/pbanos/levelforest/feature/yaml"
	"github.com/pbanos/levelforest/forest"
)

type growCmdConfig struct {
	*rootCmdConfig
	dataInput     string
	metadataInput string
	configInput   string
	output        string
	labelFeature  string
	oob           bool
}

func growCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &growCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "grow",
		Short: "Grow a forest from a set of data",
		Long:  `Grow a bagged forest of trees from a CSV training set to predict a certain feature.`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			if _, err := config.run(context.Background()); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.dataInput), "input", "i", "", "path to a CSV file with the training set to use to grow the forest (defaults to STDIN)")
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the features available on the input file (required)")
	cmd.PersistentFlags().StringVarP(&(config.configInput), "config", "g", "", "path to a YML file with the forest's training configuration (defaults to built-in defaults)")
	cmd.PersistentFlags().StringVarP(&(config.output), "output", "o", "", "path to a file to which the grown forest will be written in JSON format (defaults to STDOUT)")
	cmd.PersistentFlags().StringVarP(&(config.labelFeature), "label", "l", "", "name of the feature the forest should predict (required)")
	cmd.PersistentFlags().BoolVar(&(config.oob), "oob", false, "compute and report the forest's out-of-bag accuracy once grown")
	return cmd
}

func (gcc *growCmdConfig) Validate() error {
	if gcc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	if gcc.labelFeature == "" {
		return fmt.Errorf("required label flag was not set")
	}
	return nil
}

func (gcc *growCmdConfig) run(ctx context.Context) (*forest.Forest, error) {
	features, err := yamlfeature.ReadFeaturesFromFile(gcc.metadataInput)
	if err != nil {
		return nil, err
	}
	var label feature.Feature
	predictors := make([]feature.Feature, 0, len(features)-1)
	for _, f := range features {
		if f.Name() == gcc.labelFeature {
			label = f
			continue
		}
		predictors = append(predictors, f)
	}
	if label == nil {
		return nil, fmt.Errorf("label feature '%s' is not defined", gcc.labelFeature)
	}
	cfg := config.Default()
	if gcc.configInput != "" {
		cfg, err = config.ReadFromFile(gcc.configInput)
		if err != nil {
			return nil, err
		}
	}
	gcc.Logf("Reading training set...")
	samples, err := dataset.ReadCSVSamplesFromFile(gcc.dataInput, features)
	if err != nil {
		return nil, fmt.Errorf("reading training set: %v", err)
	}
	frame, err := dataset.NewFrame(label, predictors, samples)
	if err != nil {
		return nil, fmt.Errorf("building training frame: %v", err)
	}
	gcc.Logf("Growing %d trees from a set with %d samples and %d predictors to predict %s ...", cfg.NTrees, frame.RowCount, len(predictors), label.Name())
	f, oobAccuracy, err := forest.Fit(ctx, frame, cfg, gcc.oob)
	if err != nil {
		return nil, fmt.Errorf("growing the forest: %v", err)
	}
	leaves := 0
	for _, t := range f.Trees {
		n, err := t.LeafCount(ctx)
		if err != nil {
			return nil, fmt.Errorf("counting leaves: %v", err)
		}
		leaves += n
	}
	gcc.Logf("Done (%d leaves across %d trees)", leaves, len(f.Trees))
	if gcc.oob {
		gcc.Logf("Out-of-bag accuracy: %f", oobAccuracy)
	}
	err = outputForest(ctx, gcc.output, f)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func outputForest(ctx context.Context, outputPath string, f *forest.Forest) error {
	out := os.Stdout
	if outputPath != "" {
		created, err := os.Create(outputPath)
		if err != nil {
			return err
		}
		defer created.Close()
		out = created
	}
	return forest.WriteJSONForest(ctx, f, out)
}
