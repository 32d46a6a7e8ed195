// Package ambigs holds the static ambiguity relation between character
// classes: which classes are visually confusable with a given class. The
// relation is built once per session and read-only afterwards. The forward
// direction drives verification matching; the reverse direction drives
// promotion propagation in the learning engine.
package ambigs

import "slices"

// Table is the precomputed many-to-many ambiguity relation.
type Table struct {
	forward map[int][]int
	reverse map[int][]int
}

// New returns an empty table.
func New() *Table {
	return &Table{
		forward: make(map[int][]int),
		reverse: make(map[int][]int),
	}
}

// Add declares that classID can be confused with each of ambigIDs. Both
// directions of the relation are recorded; duplicates are ignored.
func (t *Table) Add(classID int, ambigIDs ...int) {
	for _, a := range ambigIDs {
		if a == classID {
			continue
		}
		if !slices.Contains(t.forward[classID], a) {
			t.forward[classID] = append(t.forward[classID], a)
		}
		if !slices.Contains(t.reverse[a], classID) {
			t.reverse[a] = append(t.reverse[a], classID)
		}
	}
}

// AmbigsFor returns the classes confusable with classID. The returned slice
// must not be modified.
func (t *Table) AmbigsFor(classID int) []int {
	return t.forward[classID]
}

// ReverseAmbigsFor returns the classes that list classID as an ambiguity.
// The returned slice must not be modified.
func (t *Table) ReverseAmbigsFor(classID int) []int {
	return t.reverse[classID]
}
