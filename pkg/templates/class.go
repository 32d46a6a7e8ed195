package templates

import "github.com/VladimirLichonos/tess-two/pkg/bitset"

// Class is the adapted-template container for one character identity:
// config slots (temporary or permanent), the temp prototypes awaiting
// promotion, and the permanent proto/config masks used when matching
// against adapted templates.
type Class struct {
	configs    []Config
	tempProtos []TempProto

	permProtos  *bitset.Bitset
	permConfigs *bitset.Bitset

	// NumPermConfigs counts promoted configs; non-decreasing for the life
	// of the class.
	NumPermConfigs int

	// MaxTimesSeen is the highest observation count over all temp configs,
	// consulted by the promotion rule of ambiguous neighbors.
	MaxTimesSeen int
}

// NewClass returns an empty adapted class.
func NewClass() *Class {
	return &Class{
		permProtos:  bitset.New(MaxProtos),
		permConfigs: bitset.New(MaxConfigs),
	}
}

// Empty reports whether the class has been given any template yet. A class
// starts empty and is lazily instantiated with its first learned example.
func (c *Class) Empty() bool { return len(c.configs) == 0 }

// NumConfigs returns the number of config slots.
func (c *Class) NumConfigs() int { return len(c.configs) }

// Config returns the config in a slot, or nil if the slot is out of range.
func (c *Class) Config(id int) Config {
	if id < 0 || id >= len(c.configs) {
		return nil
	}
	return c.configs[id]
}

// TempConfig returns the slot's config as a TempConfig, or nil if the slot
// is out of range or already permanent.
func (c *Class) TempConfig(id int) *TempConfig {
	if cfg, ok := c.Config(id).(*TempConfig); ok {
		return cfg
	}
	return nil
}

// AppendConfig adds a config slot and returns its id. The caller keeps the
// slot aligned with the class's integer template config ids.
func (c *Class) AppendConfig(cfg Config) int {
	c.configs = append(c.configs, cfg)
	return len(c.configs) - 1
}

// ReplaceConfig swaps the value in an existing slot. Used for the
// temporary-to-permanent transition.
func (c *Class) ReplaceConfig(id int, cfg Config) {
	if id >= 0 && id < len(c.configs) {
		c.configs[id] = cfg
	}
}

// AddTempProto records a prototype awaiting promotion.
func (c *Class) AddTempProto(tp TempProto) {
	c.tempProtos = append(c.tempProtos, tp)
}

// NumTempProtos returns the count of unpromoted prototypes.
func (c *Class) NumTempProtos() int { return len(c.tempProtos) }

// RemoveTempProtos removes every temp proto matching the predicate and
// returns the removed entries in their original order.
func (c *Class) RemoveTempProtos(match func(TempProto) bool) []TempProto {
	var removed []TempProto
	kept := c.tempProtos[:0]
	for _, tp := range c.tempProtos {
		if match(tp) {
			removed = append(removed, tp)
		} else {
			kept = append(kept, tp)
		}
	}
	c.tempProtos = kept
	return removed
}

// PermProtos is the mask of promoted prototypes. Read-only for callers.
func (c *Class) PermProtos() *bitset.Bitset { return c.permProtos }

// PermConfigs is the mask of promoted configs. Read-only for callers.
func (c *Class) PermConfigs() *bitset.Bitset { return c.permConfigs }
