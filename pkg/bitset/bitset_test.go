package bitset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBitsetSetTestClear(t *testing.T) {
	b := New(130)

	assert.False(t, b.Test(0))
	b.Set(0)
	b.Set(64)
	b.Set(129)
	assert.True(t, b.Test(0))
	assert.True(t, b.Test(64))
	assert.True(t, b.Test(129))
	assert.Equal(t, 3, b.Count())

	b.Clear(64)
	assert.False(t, b.Test(64))
	assert.Equal(t, 2, b.Count())
}

func TestBitsetOutOfRange(t *testing.T) {
	b := New(32)

	b.Set(-1)
	b.Set(32)
	b.Set(1000)
	assert.Equal(t, 0, b.Count())
	assert.False(t, b.Test(32))
	assert.False(t, b.Test(-1))
}

func TestBitsetSetAllClearAll(t *testing.T) {
	b := New(70)

	b.SetAll()
	assert.Equal(t, 70, b.Count())
	assert.True(t, b.Test(69))

	b.ClearAll()
	assert.Equal(t, 0, b.Count())
}

func TestBitsetUnionAndCopy(t *testing.T) {
	a := New(64)
	b := New(64)
	a.Set(1)
	b.Set(2)

	a.Union(b)
	assert.True(t, a.Test(1))
	assert.True(t, a.Test(2))

	c := a.Copy()
	c.Clear(1)
	assert.True(t, a.Test(1), "copy must not alias the original")

	// Union with a mismatched size is a no-op.
	a.Union(New(32))
	assert.Equal(t, 2, a.Count())
}
