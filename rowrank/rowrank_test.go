package rowrank

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRankSortsAscendingKeepingSampleIdx(t *testing.T) {
	values := []float64{3.1, 1.2, 2.5, 1.2}
	sampleIdx := []int{10, 11, 12, 13}

	cells := Rank(values, sampleIdx)

	assert.Len(t, cells, 4)
	for i := 1; i < len(cells); i++ {
		assert.LessOrEqual(t, cells[i-1].Rank, cells[i].Rank)
	}
	// the two tied 1.2 values must be samples 11 and 13, in either order
	tied := map[int]bool{cells[0].SampleIdx: true, cells[1].SampleIdx: true}
	assert.True(t, tied[11] && tied[13])
	assert.Equal(t, 12, cells[2].SampleIdx)
	assert.Equal(t, 10, cells[3].SampleIdx)
}

func TestRankDoesNotMutateInputs(t *testing.T) {
	values := []float64{5, 4, 3, 2, 1}
	sampleIdx := []int{0, 1, 2, 3, 4}
	Rank(values, sampleIdx)
	assert.Equal(t, []float64{5, 4, 3, 2, 1}, values)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, sampleIdx)
}

func TestRankLargeInputExercisesRecursiveSplit(t *testing.T) {
	n := 200
	values := make([]float64, n)
	sampleIdx := make([]int, n)
	for i := 0; i < n; i++ {
		values[i] = float64(n - i)
		sampleIdx[i] = i
	}
	cells := Rank(values, sampleIdx)
	for i := 1; i < len(cells); i++ {
		assert.Less(t, cells[i-1].Rank, cells[i].Rank)
	}
	assert.Equal(t, n-1, cells[0].SampleIdx)
	assert.Equal(t, 0, cells[n-1].SampleIdx)
}
