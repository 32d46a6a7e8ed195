package templates

import "github.com/VladimirLichonos/tess-two/pkg/bitset"

// Masks are the shared all-on/all-off proto and config selection masks. They
// are built once per session, never written afterwards, and reused across
// matcher calls to avoid per-call allocation. Callers must treat them as
// read-only.
type Masks struct {
	AllProtosOn   *bitset.Bitset
	AllProtosOff  *bitset.Bitset
	AllConfigsOn  *bitset.Bitset
	AllConfigsOff *bitset.Bitset
}

// NewMasks builds the mask singletons for a session.
func NewMasks() *Masks {
	m := &Masks{
		AllProtosOn:   bitset.New(MaxProtos),
		AllProtosOff:  bitset.New(MaxProtos),
		AllConfigsOn:  bitset.New(MaxConfigs),
		AllConfigsOff: bitset.New(MaxConfigs),
	}
	m.AllProtosOn.SetAll()
	m.AllConfigsOn.SetAll()
	return m
}
