package templates

import "github.com/VladimirLichonos/tess-two/pkg/bitset"

// Config is one shape/font variant template within a class. It is a tagged
// variant: a config slot holds either a TempConfig or a PermConfig, and the
// temporary-to-permanent transition happens exactly once by replacing the
// slot value. A permanent config never reverts.
type Config interface {
	// FontID is the font-info tag the config was learned under.
	FontID() int

	// Permanent reports the lifecycle state.
	Permanent() bool
}

// TempConfig is a mutable, unconfirmed config. It tracks how often the
// config has matched a confirmed character, which prototypes belong to it,
// and the highest proto id it references (temp protos above that bound
// belong to later configs).
type TempConfig struct {
	Font       int
	TimesSeen  int
	MaxProtoID int
	Protos     *bitset.Bitset
}

// NewTempConfig returns a temp config observed once, covering proto ids up
// to maxProtoID.
func NewTempConfig(maxProtoID, fontID int) *TempConfig {
	return &TempConfig{
		Font:       fontID,
		TimesSeen:  1,
		MaxProtoID: maxProtoID,
		Protos:     bitset.New(MaxProtos),
	}
}

func (c *TempConfig) FontID() int { return c.Font }

func (c *TempConfig) Permanent() bool { return false }

// PermConfig is an immutable confirmed config: the font tag plus the
// resolved ambiguity list computed at promotion time.
type PermConfig struct {
	Font   int
	Ambigs []int
}

func (c *PermConfig) FontID() int { return c.Font }

func (c *PermConfig) Permanent() bool { return true }
