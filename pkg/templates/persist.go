package templates

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/VladimirLichonos/tess-two/pkg/bitset"
)

// Serialization model for the adapted store. Only non-empty classes are
// written; empty classes are reconstructed from the id space on load. The
// format is a document/session boundary concern and is never touched
// mid-classification.

type storeDoc struct {
	NumClasses         int        `yaml:"num_classes"`
	NumPermClasses     int        `yaml:"num_perm_classes"`
	NumNonEmptyClasses int        `yaml:"num_non_empty_classes"`
	Classes            []classDoc `yaml:"classes"`
}

type classDoc struct {
	ID             int            `yaml:"id"`
	MaxTimesSeen   int            `yaml:"max_times_seen"`
	NumPermConfigs int            `yaml:"num_perm_configs"`
	PermProtos     []int          `yaml:"perm_protos,omitempty"`
	PermConfigs    []int          `yaml:"perm_configs,omitempty"`
	Configs        []configDoc    `yaml:"configs"`
	TempProtos     []tempProtoDoc `yaml:"temp_protos,omitempty"`
	IntProtos      []intProtoDoc  `yaml:"int_protos,omitempty"`
	IntConfigs     [][]int        `yaml:"int_configs,omitempty"`
}

type configDoc struct {
	State      string `yaml:"state"`
	FontID     int    `yaml:"font_id"`
	TimesSeen  int    `yaml:"times_seen,omitempty"`
	MaxProtoID int    `yaml:"max_proto_id,omitempty"`
	Protos     []int  `yaml:"protos,omitempty"`
	Ambigs     []int  `yaml:"ambigs,omitempty"`
}

type tempProtoDoc struct {
	ProtoID int     `yaml:"proto_id"`
	X       float32 `yaml:"x"`
	Y       float32 `yaml:"y"`
	Angle   float32 `yaml:"angle"`
	Length  float32 `yaml:"length"`
}

type intProtoDoc struct {
	A     uint8 `yaml:"a"`
	B     uint8 `yaml:"b"`
	C     uint8 `yaml:"c"`
	Angle uint8 `yaml:"angle"`
}

const (
	stateTemporary = "temporary"
	statePermanent = "permanent"
)

// Save writes the adapted store as a YAML document.
func (s *Store) Save(w io.Writer) error {
	doc := storeDoc{
		NumClasses:         s.NumClasses(),
		NumPermClasses:     s.NumPermClasses,
		NumNonEmptyClasses: s.NumNonEmptyClasses,
	}
	for id, class := range s.classes {
		if class.Empty() {
			continue
		}
		cd := classDoc{
			ID:             id,
			MaxTimesSeen:   class.MaxTimesSeen,
			NumPermConfigs: class.NumPermConfigs,
			PermProtos:     maskToIDs(class.permProtos),
			PermConfigs:    maskToIDs(class.permConfigs),
		}
		for _, cfg := range class.configs {
			cd.Configs = append(cd.Configs, encodeConfig(cfg))
		}
		for _, tp := range class.tempProtos {
			cd.TempProtos = append(cd.TempProtos, tempProtoDoc{
				ProtoID: tp.ProtoID,
				X:       tp.Proto.X,
				Y:       tp.Proto.Y,
				Angle:   tp.Proto.Angle,
				Length:  tp.Proto.Length,
			})
		}
		ic := s.ints.classes[id]
		for _, p := range ic.protos {
			cd.IntProtos = append(cd.IntProtos, intProtoDoc{A: p.A, B: p.B, C: p.C, Angle: p.Angle})
		}
		for _, mask := range ic.configs {
			cd.IntConfigs = append(cd.IntConfigs, maskToIDs(mask))
		}
		doc.Classes = append(doc.Classes, cd)
	}
	return yaml.NewEncoder(w).Encode(&doc)
}

// Load reads a store previously written by Save.
func Load(r io.Reader) (*Store, error) {
	var doc storeDoc
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode adapted templates: %w", err)
	}
	if doc.NumClasses <= 0 {
		return nil, fmt.Errorf("invalid adapted templates: num_classes=%d", doc.NumClasses)
	}
	s := NewStore(doc.NumClasses)
	s.NumPermClasses = doc.NumPermClasses
	s.NumNonEmptyClasses = doc.NumNonEmptyClasses

	for _, cd := range doc.Classes {
		class, err := s.Class(cd.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid adapted templates: class id %d: %w", cd.ID, err)
		}
		class.MaxTimesSeen = cd.MaxTimesSeen
		class.NumPermConfigs = cd.NumPermConfigs
		idsToMask(cd.PermProtos, class.permProtos)
		idsToMask(cd.PermConfigs, class.permConfigs)
		for _, cfgDoc := range cd.Configs {
			cfg, err := decodeConfig(cfgDoc)
			if err != nil {
				return nil, err
			}
			class.AppendConfig(cfg)
		}
		for _, tpd := range cd.TempProtos {
			proto := Prototype{X: tpd.X, Y: tpd.Y, Angle: tpd.Angle, Length: tpd.Length}
			proto.FillABC()
			class.AddTempProto(TempProto{ProtoID: tpd.ProtoID, Proto: proto})
		}
		ic := s.ints.classes[cd.ID]
		for _, pd := range cd.IntProtos {
			if _, err := ic.AddProto(IntProto{A: pd.A, B: pd.B, C: pd.C, Angle: pd.Angle}); err != nil {
				return nil, fmt.Errorf("invalid adapted templates: class %d: %w", cd.ID, err)
			}
		}
		for _, protoIDs := range cd.IntConfigs {
			configID, err := ic.AddConfig()
			if err != nil {
				return nil, fmt.Errorf("invalid adapted templates: class %d: %w", cd.ID, err)
			}
			mask := bitset.New(MaxProtos)
			idsToMask(protoIDs, mask)
			ic.SetConfigProtos(configID, mask)
		}
	}
	return s, nil
}

func encodeConfig(cfg Config) configDoc {
	switch c := cfg.(type) {
	case *TempConfig:
		return configDoc{
			State:      stateTemporary,
			FontID:     c.Font,
			TimesSeen:  c.TimesSeen,
			MaxProtoID: c.MaxProtoID,
			Protos:     maskToIDs(c.Protos),
		}
	case *PermConfig:
		return configDoc{
			State:  statePermanent,
			FontID: c.Font,
			Ambigs: c.Ambigs,
		}
	default:
		return configDoc{}
	}
}

func decodeConfig(doc configDoc) (Config, error) {
	switch doc.State {
	case stateTemporary:
		cfg := NewTempConfig(doc.MaxProtoID, doc.FontID)
		cfg.TimesSeen = doc.TimesSeen
		idsToMask(doc.Protos, cfg.Protos)
		return cfg, nil
	case statePermanent:
		return &PermConfig{Font: doc.FontID, Ambigs: doc.Ambigs}, nil
	default:
		return nil, fmt.Errorf("invalid adapted templates: unknown config state %q", doc.State)
	}
}

func maskToIDs(mask *bitset.Bitset) []int {
	var ids []int
	for i := 0; i < mask.Size(); i++ {
		if mask.Test(i) {
			ids = append(ids, i)
		}
	}
	return ids
}

func idsToMask(ids []int, mask *bitset.Bitset) {
	for _, id := range ids {
		mask.Set(id)
	}
}
