package bitset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBVSetAndClear(t *testing.T) {
	bv := NewBV(130) // spans more than one 64-bit word
	assert.False(t, bv.IsSet(0))
	assert.False(t, bv.IsSet(129))

	bv.SetBit(0)
	bv.SetBit(65)
	bv.SetBit(129)
	assert.True(t, bv.IsSet(0))
	assert.True(t, bv.IsSet(65))
	assert.True(t, bv.IsSet(129))
	assert.False(t, bv.IsSet(64))

	bv.ClearBit(65)
	assert.False(t, bv.IsSet(65))
	assert.Equal(t, 130, bv.Width())
}

func TestBitMatrix(t *testing.T) {
	m := NewBitMatrix(3, 5)
	assert.Equal(t, 3, m.Rows())
	assert.Equal(t, 5, m.Cols())

	m.SetBit(1, 4)
	assert.True(t, m.IsSet(1, 4))
	assert.False(t, m.IsSet(0, 4))
	assert.True(t, m.Row(1).IsSet(4))

	m.ClearBit(1, 4)
	assert.False(t, m.IsSet(1, 4))
}
