// Package unicharset holds the shared character-identity label table. Class
// ids are dense indexes into this table and are shared between the
// pre-trained and adapted template stores. Id 0 is reserved for the null
// label used by noise classifications.
package unicharset

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// NullID is the reserved class id of the null/noise label.
const NullID = 0

// TopBottomRange is the historically observed vertical placement band for a
// class, in baseline-normalized coordinates.
type TopBottomRange struct {
	MinBottom int `yaml:"min_bottom"`
	MaxBottom int `yaml:"max_bottom"`
	MinTop    int `yaml:"min_top"`
	MaxTop    int `yaml:"max_top"`
}

// Contains reports whether the observed top/bottom pair falls inside the band.
func (r TopBottomRange) Contains(bottom, top int) bool {
	return top >= r.MinTop && top <= r.MaxTop &&
		bottom >= r.MinBottom && bottom <= r.MaxBottom
}

// Entry describes one character identity.
type Entry struct {
	Unichar  string         `yaml:"unichar"`
	IsAlpha  bool           `yaml:"is_alpha,omitempty"`
	IsDigit  bool           `yaml:"is_digit,omitempty"`
	Fragment bool           `yaml:"fragment,omitempty"`
	Enabled  bool           `yaml:"enabled"`
	Script   string         `yaml:"script,omitempty"`
	Range    TopBottomRange `yaml:"top_bottom,omitempty"`
}

// Set is the label table. It only grows; ids are never reused.
type Set struct {
	entries   []Entry
	byUnichar map[string]int
}

// New returns a Set containing only the reserved null entry.
func New() *Set {
	s := &Set{byUnichar: make(map[string]int)}
	s.entries = append(s.entries, Entry{Unichar: "", Enabled: true})
	return s
}

// Add appends an entry and returns its class id. Adding a unichar that is
// already present returns the existing id.
func (s *Set) Add(e Entry) int {
	if id, ok := s.byUnichar[e.Unichar]; ok && e.Unichar != "" {
		return id
	}
	id := len(s.entries)
	s.entries = append(s.entries, e)
	if e.Unichar != "" {
		s.byUnichar[e.Unichar] = id
	}
	return id
}

// Size returns the number of entries including the null entry.
func (s *Set) Size() int { return len(s.entries) }

func (s *Set) valid(id int) bool { return id >= 0 && id < len(s.entries) }

// Contains reports whether the unichar is in the table.
func (s *Set) Contains(unichar string) bool {
	_, ok := s.byUnichar[unichar]
	return ok
}

// IDOf returns the class id for a unichar, or -1 if absent.
func (s *Set) IDOf(unichar string) int {
	if id, ok := s.byUnichar[unichar]; ok {
		return id
	}
	return -1
}

// Unichar returns the label string for a class id ("" for invalid ids).
func (s *Set) Unichar(id int) string {
	if !s.valid(id) {
		return ""
	}
	return s.entries[id].Unichar
}

// Eq reports whether id's label equals the given unichar.
func (s *Set) Eq(id int, unichar string) bool {
	return s.valid(id) && s.entries[id].Unichar == unichar
}

func (s *Set) IsAlpha(id int) bool { return s.valid(id) && s.entries[id].IsAlpha }

func (s *Set) IsDigit(id int) bool { return s.valid(id) && s.entries[id].IsDigit }

// IsFragment reports whether id is a character-fragment label. Fragments are
// excluded from best-so-far tracking during classification.
func (s *Set) IsFragment(id int) bool { return s.valid(id) && s.entries[id].Fragment }

func (s *Set) Enabled(id int) bool { return s.valid(id) && s.entries[id].Enabled }

// SetEnabled toggles whether a class may appear in classification output.
func (s *Set) SetEnabled(id int, enabled bool) {
	if s.valid(id) {
		s.entries[id].Enabled = enabled
	}
}

// Script returns the script tag for a class id.
func (s *Set) Script(id int) string {
	if !s.valid(id) {
		return ""
	}
	return s.entries[id].Script
}

// TopBottom returns the recorded vertical placement band for a class id.
func (s *Set) TopBottom(id int) TopBottomRange {
	if !s.valid(id) {
		return TopBottomRange{}
	}
	return s.entries[id].Range
}

// LoadFile reads a label table from a YAML file: a list of entries in id
// order, excluding the implicit null entry.
func LoadFile(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read unicharset file: %w", err)
	}
	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse unicharset file: %w", err)
	}
	s := New()
	for _, e := range entries {
		s.Add(e)
	}
	return s, nil
}
