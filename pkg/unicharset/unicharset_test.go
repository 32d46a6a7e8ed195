package unicharset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAddAndLookup(t *testing.T) {
	s := New()
	require.Equal(t, 1, s.Size(), "new set carries the null entry")

	a := s.Add(Entry{Unichar: "a", IsAlpha: true, Enabled: true})
	one := s.Add(Entry{Unichar: "1", IsDigit: true, Enabled: true})

	assert.Equal(t, 1, a)
	assert.Equal(t, 2, one)
	assert.Equal(t, a, s.IDOf("a"))
	assert.Equal(t, "1", s.Unichar(one))
	assert.True(t, s.IsAlpha(a))
	assert.True(t, s.IsDigit(one))
	assert.True(t, s.Eq(a, "a"))

	// Duplicate adds return the existing id.
	assert.Equal(t, a, s.Add(Entry{Unichar: "a"}))
	assert.Equal(t, 3, s.Size())
}

func TestSetInvalidIDs(t *testing.T) {
	s := New()

	assert.Equal(t, -1, s.IDOf("missing"))
	assert.Equal(t, "", s.Unichar(99))
	assert.False(t, s.IsFragment(-3))
	assert.False(t, s.Enabled(42))
}

func TestTopBottomRangeContains(t *testing.T) {
	r := TopBottomRange{MinBottom: 0, MaxBottom: 10, MinTop: 40, MaxTop: 60}

	assert.True(t, r.Contains(5, 50))
	assert.False(t, r.Contains(15, 50), "bottom above band")
	assert.False(t, r.Contains(5, 70), "top above band")
}

func TestSetEnabledToggle(t *testing.T) {
	s := New()
	id := s.Add(Entry{Unichar: "x", Enabled: true})

	assert.True(t, s.Enabled(id))
	s.SetEnabled(id, false)
	assert.False(t, s.Enabled(id))
}
