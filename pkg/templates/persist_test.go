package templates

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VladimirLichonos/tess-two/pkg/bitset"
)

func buildAdaptedStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(5)

	// Class 1: one temp config with three protos.
	class, err := s.Class(1)
	require.NoError(t, err)
	ic, err := s.IntClass(1)
	require.NoError(t, err)

	tc := NewTempConfig(2, 4)
	tc.TimesSeen = 3
	protoMask := bitset.New(MaxProtos)
	for i := 0; i < 3; i++ {
		proto := Prototype{X: 0.1 * float32(i), Y: 0.2, Angle: 0.25, Length: 0.05}
		proto.FillABC()
		id, err := ic.AddProto(proto.Quantize())
		require.NoError(t, err)
		protoMask.Set(id)
		class.AddTempProto(TempProto{ProtoID: id, Proto: proto})
	}
	tc.Protos.Union(protoMask)
	class.AppendConfig(tc)
	configID, err := ic.AddConfig()
	require.NoError(t, err)
	ic.SetConfigProtos(configID, protoMask)

	// Class 3: one permanent config.
	class, err = s.Class(3)
	require.NoError(t, err)
	ic, err = s.IntClass(3)
	require.NoError(t, err)
	pid, err := ic.AddProto(IntProto{A: 10, B: 20, C: 30, Angle: 40})
	require.NoError(t, err)
	permMask := bitset.New(MaxProtos)
	permMask.Set(pid)
	class.AppendConfig(&PermConfig{Font: 2, Ambigs: []int{1}})
	cid, err := ic.AddConfig()
	require.NoError(t, err)
	ic.SetConfigProtos(cid, permMask)
	class.PermProtos().Set(pid)
	class.PermConfigs().Set(cid)
	class.NumPermConfigs = 1
	class.MaxTimesSeen = 6

	s.NumPermClasses = 1
	s.NumNonEmptyClasses = 2
	return s
}

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	s := buildAdaptedStore(t)

	var buf bytes.Buffer
	require.NoError(t, s.Save(&buf))

	loaded, err := Load(&buf)
	require.NoError(t, err)

	assert.Equal(t, s.NumClasses(), loaded.NumClasses())
	assert.Equal(t, s.NumPermClasses, loaded.NumPermClasses)
	assert.Equal(t, s.NumNonEmptyClasses, loaded.NumNonEmptyClasses)

	// Untouched classes stay empty.
	for _, id := range []int{0, 2, 4} {
		class, err := loaded.Class(id)
		require.NoError(t, err)
		assert.True(t, class.Empty(), "class %d", id)
	}

	class, err := loaded.Class(1)
	require.NoError(t, err)
	require.Equal(t, 1, class.NumConfigs())
	tc := class.TempConfig(0)
	require.NotNil(t, tc)
	assert.Equal(t, 4, tc.Font)
	assert.Equal(t, 3, tc.TimesSeen)
	assert.Equal(t, 2, tc.MaxProtoID)
	assert.Equal(t, 3, tc.Protos.Count())
	assert.Equal(t, 3, class.NumTempProtos())

	ic, err := loaded.IntClass(1)
	require.NoError(t, err)
	assert.Equal(t, 3, ic.NumProtos())
	require.Equal(t, 1, ic.NumConfigs())
	assert.Equal(t, 3, ic.ConfigProtos(0).Count())

	orig, err := s.IntClass(1)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		want, ok := orig.Proto(i)
		require.True(t, ok)
		got, ok := ic.Proto(i)
		require.True(t, ok)
		assert.Equal(t, want, got)
	}

	class, err = loaded.Class(3)
	require.NoError(t, err)
	require.Equal(t, 1, class.NumConfigs())
	pc, ok := class.Config(0).(*PermConfig)
	require.True(t, ok)
	assert.Equal(t, 2, pc.Font)
	assert.Equal(t, []int{1}, pc.Ambigs)
	assert.True(t, class.PermProtos().Test(0))
	assert.True(t, class.PermConfigs().Test(0))
	assert.Equal(t, 1, class.NumPermConfigs)
	assert.Equal(t, 6, class.MaxTimesSeen)
}

func TestLoadRejectsBadDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "not yaml", doc: "{not yaml"},
		{name: "zero classes", doc: "num_classes: 0\n"},
		{
			name: "class id out of range",
			doc:  "num_classes: 2\nclasses:\n  - id: 9\n    configs: []\n",
		},
		{
			name: "unknown config state",
			doc:  "num_classes: 2\nclasses:\n  - id: 1\n    configs:\n      - state: frozen\n        font_id: 0\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}
}
