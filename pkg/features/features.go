// Package features defines the feature-vector types exchanged with the
// outline feature extractor, the extractor collaborator contracts, and the
// per-blob extraction cache.
package features

const (
	// MaxIntFeatures bounds the quantized feature arrays handed to the
	// matching primitive.
	MaxIntFeatures = 512

	// UnlikelyNumFeatures is the sanity bound on extracted feature counts;
	// outlines producing more than this are treated as degenerate.
	UnlikelyNumFeatures = 200

	// PicoFeatureLength is the arc length covered by one pico feature in
	// baseline-normalized units.
	PicoFeatureLength = 0.05
)

// Box is a blob bounding box in baseline-normalized integer coordinates.
type Box struct {
	Left   int
	Bottom int
	Right  int
	Top    int
}

// Blob is a segmented glyph image. The classifier core reads only its
// bounding geometry; everything else about the image is the feature
// extractor's concern.
type Blob interface {
	BoundingBox() Box
}

// Feature is one short oriented segment of a glyph outline:
// position, direction and arc length. Immutable once extracted.
type Feature struct {
	X      float32
	Y      float32
	Angle  float32
	Length float32
}

// FeatureSet is an ordered collection of float features in one coordinate
// normalization. A nil or empty set signals a failed extraction.
type FeatureSet []Feature

// IntFeature is the quantized integer encoding consumed by the matching
// primitive.
type IntFeature struct {
	X     uint8
	Y     uint8
	Theta uint8
}

// NormParams carries the character-normalization geometry of one blob,
// used to derive per-class norm factors.
type NormParams struct {
	Y      float32
	Length float32
	Rx     float32
	Ry     float32
}

// IntResult is the combined output of integer feature extraction for one
// blob: both normalizations plus blob geometry. OK is false when the
// outline was degenerate; BlobLength remains valid in that case.
type IntResult struct {
	Baseline   []IntFeature
	CharNorm   []IntFeature
	BlobLength int
	Norm       NormParams
	OK         bool
}

// Extractor is the outline feature extraction collaborator. All methods
// signal failure by returning an empty set (or OK=false); none of them
// return errors because a degenerate outline is an expected input, not a
// fault.
type Extractor interface {
	// ExtractOutline returns baseline-normalized outline features, used to
	// seed a class's first adapted config.
	ExtractOutline(b Blob) FeatureSet

	// ExtractPico returns baseline-normalized pico features, used when
	// reinforcing or extending an existing class.
	ExtractPico(b Blob) FeatureSet

	// ExtractIntFeatures runs the integer feature extractor, producing both
	// baseline and character normalizations in one pass.
	ExtractIntFeatures(b Blob) IntResult

	// ComputeIntFeatures quantizes a float feature set into matcher form.
	ComputeIntFeatures(fs FeatureSet) []IntFeature
}

// Normalizer computes per-class character-norm factors from a blob's
// normalization geometry. Factor 0 means "no adjustment recorded".
type Normalizer interface {
	CharNormArray(norm NormParams, numClasses int) []uint8
}
