// Package matcher defines the contract between the adaptive classification
// policy and the integer matching primitive. The policy decides which class
// templates to score and how to interpret ratings; the matcher scores a
// feature set against one class template under a proto/config mask.
package matcher

import (
	"github.com/VladimirLichonos/tess-two/pkg/bitset"
	"github.com/VladimirLichonos/tess-two/pkg/features"
	"github.com/VladimirLichonos/tess-two/pkg/templates"
)

// Mode selects the normalization the features were extracted under.
type Mode int

const (
	// Baseline features are position-normalized to the text baseline.
	Baseline Mode = iota

	// CharNorm features are normalized to the character's own bounding box.
	CharNorm
)

func (m Mode) String() string {
	if m == Baseline {
		return "baseline"
	}
	return "charnorm"
}

// Params carries the per-call matcher tuning.
type Params struct {
	Mode Mode

	// Multiplier scales the character-normalization penalty blended into
	// charnorm ratings.
	Multiplier int

	// FeatureThreshold is the evidence cutoff used by proto/feature
	// accounting calls (FindGoodProtos, FindBadFeatures).
	FeatureThreshold uint8
}

// Result is one class's match outcome. Rating is a distance in [0,1]; 0 is
// a perfect match. Config/Config2 are the best and runner-up config ids
// within the class. FeatureMisses counts features no proto accounted for.
type Result struct {
	Rating        float32
	Config        int
	Config2       int
	FeatureMisses int
}

// Matcher scores integer feature sets against integer class templates.
type Matcher interface {
	// Match scores the features against one class under the given proto and
	// config masks and returns the best rating over enabled configs.
	Match(class *templates.IntClass, protoMask, configMask *bitset.Bitset,
		feats []features.IntFeature, norms []uint8, p Params) Result

	// FindGoodProtos returns the ids of protos whose accumulated evidence
	// meets the feature threshold.
	FindGoodProtos(class *templates.IntClass, protoMask, configMask *bitset.Bitset,
		feats []features.IntFeature, p Params) []int

	// FindBadFeatures returns the indices of features no proto of the class
	// accounted for at the feature threshold.
	FindBadFeatures(class *templates.IntClass, protoMask, configMask *bitset.Bitset,
		feats []features.IntFeature, p Params) []int

	// ApplyCNCorrection blends the character-normalization penalty into a
	// raw rating given the blob length and normalization factor.
	ApplyCNCorrection(rating float32, blobLength int, normFactor float32, multiplier int) float32
}

// CPResult is one class-pruner candidate: a class worth running the full
// matcher on, with the pruner's coarse rating.
type CPResult struct {
	ClassID int
	Rating  float32
}

// Pruner narrows the class id space before full matching.
type Pruner interface {
	// Prune returns the candidate classes for a feature set, best first.
	// cutoffs holds the expected feature count per class.
	Prune(t *templates.IntTemplates, feats []features.IntFeature,
		normArray []uint8, cutoffs []uint16) []CPResult
}
