package optional

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoneIsZeroValue(t *testing.T) {
	var o Int
	assert.True(t, o.IsNone())
	assert.False(t, o.IsSome())
	v, ok := o.Get()
	assert.Equal(t, 0, v)
	assert.False(t, ok)
}

func TestSome(t *testing.T) {
	o := Some(7)
	assert.True(t, o.IsSome())
	v, ok := o.Get()
	assert.True(t, ok)
	assert.Equal(t, 7, v)
	assert.Equal(t, 7, o.MustGet())
}

func TestOrElse(t *testing.T) {
	assert.Equal(t, 42, None().OrElse(42))
	assert.Equal(t, 3, Some(3).OrElse(42))
}

func TestMustGetPanicsOnNone(t *testing.T) {
	assert.Panics(t, func() { None().MustGet() })
}
