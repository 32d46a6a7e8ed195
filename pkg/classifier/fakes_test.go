package classifier

import (
	"github.com/stretchr/testify/require"

	"github.com/VladimirLichonos/tess-two/pkg/ambigs"
	"github.com/VladimirLichonos/tess-two/pkg/bitset"
	"github.com/VladimirLichonos/tess-two/pkg/config"
	"github.com/VladimirLichonos/tess-two/pkg/features"
	"github.com/VladimirLichonos/tess-two/pkg/matcher"
	"github.com/VladimirLichonos/tess-two/pkg/templates"
	"github.com/VladimirLichonos/tess-two/pkg/unicharset"
)

type fakeBlob struct {
	box features.Box
}

func (b fakeBlob) BoundingBox() features.Box { return b.box }

type fakeExtractor struct {
	outline   features.FeatureSet
	pico      features.FeatureSet
	intResult features.IntResult
	intCalls  int
}

func (f *fakeExtractor) ExtractOutline(features.Blob) features.FeatureSet { return f.outline }

func (f *fakeExtractor) ExtractPico(features.Blob) features.FeatureSet { return f.pico }

func (f *fakeExtractor) ExtractIntFeatures(features.Blob) features.IntResult {
	f.intCalls++
	return f.intResult
}

func (f *fakeExtractor) ComputeIntFeatures(fs features.FeatureSet) []features.IntFeature {
	return make([]features.IntFeature, len(fs))
}

type fakeNormalizer struct{}

func (fakeNormalizer) CharNormArray(_ features.NormParams, numClasses int) []uint8 {
	return make([]uint8, numClasses)
}

// fakeMatcher returns canned results per integer class and records its good
// proto / bad feature answers for the learning path.
type fakeMatcher struct {
	results     map[*templates.IntClass]matcher.Result
	goodProtos  []int
	badFeatures []int
}

func newFakeMatcher() *fakeMatcher {
	return &fakeMatcher{results: make(map[*templates.IntClass]matcher.Result)}
}

func (m *fakeMatcher) Match(class *templates.IntClass, _, _ *bitset.Bitset,
	_ []features.IntFeature, _ []uint8, _ matcher.Params) matcher.Result {
	if r, ok := m.results[class]; ok {
		return r
	}
	return matcher.Result{Rating: WorstPossibleRating, Config: 0, Config2: -1}
}

func (m *fakeMatcher) FindGoodProtos(*templates.IntClass, *bitset.Bitset,
	*bitset.Bitset, []features.IntFeature, matcher.Params) []int {
	return m.goodProtos
}

func (m *fakeMatcher) FindBadFeatures(*templates.IntClass, *bitset.Bitset,
	*bitset.Bitset, []features.IntFeature, matcher.Params) []int {
	return m.badFeatures
}

func (m *fakeMatcher) ApplyCNCorrection(rating float32, _ int, _ float32, _ int) float32 {
	return rating
}

type fakePruner struct {
	candidates []matcher.CPResult
	calls      int
}

func (p *fakePruner) Prune(*templates.IntTemplates, []features.IntFeature,
	[]uint8, []uint16) []matcher.CPResult {
	p.calls++
	return p.candidates
}

// Test charset layout, ids assigned in Add order starting at 1.
const (
	idA = iota + 1 // "a"
	idB            // "b"
	idL            // "l"
	idO            // "O"
	idOne          // "1"
	idZero         // "0"
	idComma        // ","
	idFrag         // fragment label
)

func testCharset() *unicharset.Set {
	s := unicharset.New()
	s.Add(unicharset.Entry{Unichar: "a", IsAlpha: true, Enabled: true})
	s.Add(unicharset.Entry{Unichar: "b", IsAlpha: true, Enabled: true})
	s.Add(unicharset.Entry{Unichar: "l", IsAlpha: true, Enabled: true})
	s.Add(unicharset.Entry{Unichar: "O", IsAlpha: true, Enabled: true})
	s.Add(unicharset.Entry{Unichar: "1", IsDigit: true, Enabled: true})
	s.Add(unicharset.Entry{Unichar: "0", IsDigit: true, Enabled: true})
	s.Add(unicharset.Entry{Unichar: ",", Enabled: true})
	s.Add(unicharset.Entry{Unichar: "z_frag", Fragment: true, Enabled: true})
	return s
}

type testEnv struct {
	session   *Session
	cfg       *config.EngineConfig
	charset   *unicharset.Set
	ambigs    *ambigs.Table
	matcher   *fakeMatcher
	pruner    *fakePruner
	extractor *fakeExtractor
}

// testingT is the slice of *testing.T that the helpers need, so the same
// environment serves both the table tests and the ginkgo specs.
type testingT interface {
	Helper()
	Errorf(format string, args ...interface{})
	FailNow()
}

func newTestEnv(t testingT) *testEnv {
	t.Helper()
	cfg := config.Default()
	charset := testCharset()
	ambigTable := ambigs.New()
	im := newFakeMatcher()
	pruner := &fakePruner{}
	extractor := &fakeExtractor{
		intResult: features.IntResult{
			Baseline:   make([]features.IntFeature, 10),
			CharNorm:   make([]features.IntFeature, 10),
			BlobLength: 12,
			OK:         true,
		},
	}

	session, err := NewSession(Options{
		Config:     cfg,
		Charset:    charset,
		Ambigs:     ambigTable,
		Pretrained: &templates.Pretrained{Ints: templates.NewIntTemplates(charset.Size())},
		Matcher:    im,
		Pruner:     pruner,
		Extractor:  extractor,
		Normalizer: fakeNormalizer{},
	})
	require.NoError(t, err)

	return &testEnv{
		session:   session,
		cfg:       cfg,
		charset:   charset,
		ambigs:    ambigTable,
		matcher:   im,
		pruner:    pruner,
		extractor: extractor,
	}
}

// outlineFeatures builds n well-separated features so each becomes its own
// proto when clustered.
func outlineFeatures(n int) features.FeatureSet {
	fs := make(features.FeatureSet, n)
	for i := range fs {
		fs[i] = features.Feature{
			X:      float32(i),
			Y:      0.5,
			Angle:  float32(i) * 0.11,
			Length: 0.05,
		}
	}
	return fs
}

func testEntry(unichar string, alpha, digit bool) unicharset.Entry {
	return unicharset.Entry{Unichar: unichar, IsAlpha: alpha, IsDigit: digit, Enabled: true}
}

func testBlob() fakeBlob {
	return fakeBlob{box: features.Box{Left: 0, Bottom: 0, Right: 10, Top: 20}}
}
