package templates

import (
	"errors"

	"github.com/VladimirLichonos/tess-two/pkg/bitset"
)

const (
	// MaxProtos is the per-class prototype capacity.
	MaxProtos = 512

	// MaxConfigs is the per-class config capacity.
	MaxConfigs = 32
)

var (
	// ErrProtoLimit is returned when a class's prototype capacity is
	// exhausted. Learning treats this as a recoverable abandon, not a fault.
	ErrProtoLimit = errors.New("templates: class prototype capacity exhausted")

	// ErrConfigLimit is the config-capacity counterpart of ErrProtoLimit.
	ErrConfigLimit = errors.New("templates: class config capacity exhausted")

	// ErrClassRange is returned for class ids outside the template store.
	ErrClassRange = errors.New("templates: class id out of range")
)

// IntProto is the quantized prototype encoding scored by the matching
// primitive.
type IntProto struct {
	A     uint8
	B     uint8
	C     uint8
	Angle uint8
}

// IntClass is the quantized per-class template consumed by the matching
// primitive: prototypes plus, for each config, the mask of member protos.
type IntClass struct {
	protos  []IntProto
	configs []*bitset.Bitset
}

// NewIntClass returns an empty integer class template.
func NewIntClass() *IntClass {
	return &IntClass{}
}

// NumProtos returns the current prototype count.
func (c *IntClass) NumProtos() int { return len(c.protos) }

// NumConfigs returns the current config count.
func (c *IntClass) NumConfigs() int { return len(c.configs) }

// AddProto appends a prototype, returning its id or ErrProtoLimit.
func (c *IntClass) AddProto(p IntProto) (int, error) {
	if len(c.protos) >= MaxProtos {
		return -1, ErrProtoLimit
	}
	c.protos = append(c.protos, p)
	return len(c.protos) - 1, nil
}

// Proto returns the prototype with the given id; ok is false out of range.
func (c *IntClass) Proto(id int) (IntProto, bool) {
	if id < 0 || id >= len(c.protos) {
		return IntProto{}, false
	}
	return c.protos[id], true
}

// AddConfig appends an empty config slot, returning its id or
// ErrConfigLimit.
func (c *IntClass) AddConfig() (int, error) {
	if len(c.configs) >= MaxConfigs {
		return -1, ErrConfigLimit
	}
	c.configs = append(c.configs, bitset.New(MaxProtos))
	return len(c.configs) - 1, nil
}

// SetConfigProtos records which prototypes belong to a config. The mask is
// copied; the caller keeps ownership of protos.
func (c *IntClass) SetConfigProtos(configID int, protos *bitset.Bitset) {
	if configID < 0 || configID >= len(c.configs) {
		return
	}
	c.configs[configID] = protos.Copy()
}

// ConfigProtos returns the proto membership mask of a config, or nil for an
// out-of-range id. The returned mask must be treated as read-only.
func (c *IntClass) ConfigProtos(configID int) *bitset.Bitset {
	if configID < 0 || configID >= len(c.configs) {
		return nil
	}
	return c.configs[configID]
}

// IntTemplates is a dense collection of integer class templates sharing the
// unicharset's id space.
type IntTemplates struct {
	classes []*IntClass
}

// NewIntTemplates creates numClasses empty class templates.
func NewIntTemplates(numClasses int) *IntTemplates {
	t := &IntTemplates{classes: make([]*IntClass, numClasses)}
	for i := range t.classes {
		t.classes[i] = NewIntClass()
	}
	return t
}

// NumClasses returns the size of the class id space.
func (t *IntTemplates) NumClasses() int { return len(t.classes) }

// Class returns the integer template for a class id.
func (t *IntTemplates) Class(id int) (*IntClass, error) {
	if id < 0 || id >= len(t.classes) {
		return nil, ErrClassRange
	}
	return t.classes[id], nil
}
