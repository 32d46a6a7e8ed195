// Package bitset implements the fixed-size bit vectors used as proto and
// config selection masks throughout the classifier. A mask is sized once at
// construction and never grows; out-of-range bits read as unset.
package bitset

import "math/bits"

const wordBits = 64

// Bitset is a fixed-size vector of bits.
type Bitset struct {
	words []uint64
	size  int
}

// New returns a Bitset of the given size with all bits clear.
func New(size int) *Bitset {
	if size < 0 {
		size = 0
	}
	return &Bitset{
		words: make([]uint64, (size+wordBits-1)/wordBits),
		size:  size,
	}
}

// Size returns the number of bits the set was created with.
func (b *Bitset) Size() int { return b.size }

// Set turns bit i on. Out-of-range indexes are ignored.
func (b *Bitset) Set(i int) {
	if i < 0 || i >= b.size {
		return
	}
	b.words[i/wordBits] |= 1 << uint(i%wordBits)
}

// Clear turns bit i off. Out-of-range indexes are ignored.
func (b *Bitset) Clear(i int) {
	if i < 0 || i >= b.size {
		return
	}
	b.words[i/wordBits] &^= 1 << uint(i%wordBits)
}

// Test reports whether bit i is on. Out-of-range indexes read as unset.
func (b *Bitset) Test(i int) bool {
	if i < 0 || i >= b.size {
		return false
	}
	return b.words[i/wordBits]&(1<<uint(i%wordBits)) != 0
}

// SetAll turns every bit on.
func (b *Bitset) SetAll() {
	for i := range b.words {
		b.words[i] = ^uint64(0)
	}
	b.trimTail()
}

// ClearAll turns every bit off.
func (b *Bitset) ClearAll() {
	for i := range b.words {
		b.words[i] = 0
	}
}

// Union ORs other into b. The two sets must be the same size.
func (b *Bitset) Union(other *Bitset) {
	if other == nil || other.size != b.size {
		return
	}
	for i := range b.words {
		b.words[i] |= other.words[i]
	}
}

// Copy returns an independent copy of b.
func (b *Bitset) Copy() *Bitset {
	c := New(b.size)
	copy(c.words, b.words)
	return c
}

// Count returns the number of set bits.
func (b *Bitset) Count() int {
	n := 0
	for _, w := range b.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// trimTail zeroes bits beyond size so Count stays exact after SetAll.
func (b *Bitset) trimTail() {
	if rem := b.size % wordBits; rem != 0 && len(b.words) > 0 {
		b.words[len(b.words)-1] &= (1 << uint(rem)) - 1
	}
}
