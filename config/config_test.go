package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()
	assert.Equal(t, 0.02, c.MinRatio)
	assert.Equal(t, 10, c.NTrees)
}

func TestReadAppliesDefaultsForZeroFields(t *testing.T) {
	c, err := Read([]byte("min_node: 3\n"))
	require.NoError(t, err)
	assert.Equal(t, 3, c.MinNode)
	assert.Equal(t, 0.02, c.MinRatio)
	assert.Equal(t, 10, c.NTrees)
}

func TestReadOverridesDefaults(t *testing.T) {
	c, err := Read([]byte("n_trees: 50\nn_workers: 4\nmin_ratio: 0.1\n"))
	require.NoError(t, err)
	assert.Equal(t, 50, c.NTrees)
	assert.Equal(t, 4, c.NWorkers)
	assert.Equal(t, 0.1, c.MinRatio)
}

func TestReadFlooredNTreesToOne(t *testing.T) {
	c, err := Read([]byte("n_trees: 0\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, c.NTrees)
}

func TestReadRejectsInvalidYAML(t *testing.T) {
	_, err := Read([]byte("not: [valid"))
	assert.Error(t, err)
}

func TestReadFromFileMissingPathErrors(t *testing.T) {
	_, err := ReadFromFile("/nonexistent/train.yml")
	assert.Error(t, err)
}

func TestIndexOptionsAdaptsFields(t *testing.T) {
	c := TrainConfig{MinNode: 5, MinRatio: 0.03, NWorkers: 2}
	opts := c.IndexOptions()
	assert.Equal(t, 5, opts.MinNode)
	assert.Equal(t, 0.03, opts.MinRatio)
	assert.Equal(t, 2, opts.Workers)
}
