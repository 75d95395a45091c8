/*
Package config parses the YAML training configuration the CLI loads
alongside a dataset's feature metadata: the level-wise engine's tuning
knobs (minRatio, minNode) and the forest driver's own (nTrees,
nWorkers). Grounded on feature/yaml's ReadFeatures: same
gopkg.in/yaml.v2 unmarshal-into-anonymous-struct shape, same
ReadXFromFile convenience wrapper.
*/
package config

import (
	"fmt"
	"io/ioutil"

	yaml "gopkg.in/yaml.v2"

	"github.com/pbanos/levelforest/index"
)

// TrainConfig holds the knobs index.Grow and forest.Fit need beyond
// the dataset and feature metadata themselves.
type TrainConfig struct {
	// MinNode is the minimum live sample count either side of a split
	// must keep.
	MinNode int `yaml:"min_node"`
	// MinRatio is the fraction of a parent node's info a split must
	// reach to be accepted.
	MinRatio float64 `yaml:"min_ratio"`
	// NTrees is the number of trees the forest driver grows.
	NTrees int `yaml:"n_trees"`
	// NWorkers bounds both the forest driver's tree-level parallelism
	// and each tree's own per-level finalization worker pool.
	NWorkers int `yaml:"n_workers"`
}

// Default returns the configuration used if nothing is loaded from
// YAML: MinRatio 0.02 and a ten-tree forest, with MinNode and NWorkers
// left zero for index.Options.withDefaults (and, for NWorkers,
// forest.Fit) to replace with their own defaults.
func Default() TrainConfig {
	return TrainConfig{MinRatio: 0.02, NTrees: 10}
}

// IndexOptions adapts a TrainConfig into the index.Options a single
// tree's Grow call consumes.
func (c TrainConfig) IndexOptions() index.Options {
	return index.Options{MinNode: c.MinNode, MinRatio: c.MinRatio, Workers: c.NWorkers}
}

// Read parses a TrainConfig from a YAML document. Any field the
// document does not set keeps Default's value; an NTrees below 1 is
// raised to 1.
func Read(data []byte) (TrainConfig, error) {
	c := Default()
	if err := yaml.Unmarshal(data, &c); err != nil {
		return TrainConfig{}, fmt.Errorf("parsing yml train config: %v", err)
	}
	if c.NTrees < 1 {
		c.NTrees = 1
	}
	return c, nil
}

// ReadFromFile reads and parses a TrainConfig from the YAML file at
// filepath.
func ReadFromFile(filepath string) (TrainConfig, error) {
	data, err := ioutil.ReadFile(filepath)
	if err != nil {
		return TrainConfig{}, fmt.Errorf("reading train config yml file %s: %v", filepath, err)
	}
	c, err := Read(data)
	if err != nil {
		err = fmt.Errorf("parsing train config yml file %s: %v", filepath, err)
	}
	return c, err
}
