package config

// EngineConfig is the top-level configuration for the adaptive classifier.
type EngineConfig struct {
	Matcher  MatcherConfig  `yaml:"matcher"`
	Classify ClassifyConfig `yaml:"classify"`
}

// MatcherConfig tunes match-quality thresholds and adaptation pacing.
type MatcherConfig struct {
	// GoodThreshold is the rating below which a match is good enough to
	// reinforce an existing config instead of creating a new one.
	GoodThreshold float32 `yaml:"good_threshold"`

	// GreatThreshold marks the warm path's marginal-match boundary: a best
	// baseline rating above it triggers the charnorm fallback.
	GreatThreshold float32 `yaml:"great_threshold"`

	// PerfectThreshold short-circuits further matching when the incoming
	// prior rating is already below it.
	PerfectThreshold float32 `yaml:"perfect_threshold"`

	// BadMatchPad is how much worse than the best-so-far a rating may be
	// and still enter the result set.
	BadMatchPad float32 `yaml:"bad_match_pad"`

	// RatingMargin pads the adaptation threshold when deciding whether a
	// pre-classified result is still worth learning from.
	RatingMargin float32 `yaml:"rating_margin"`

	// AvgNoiseSize is the blob length at which the noise rating reaches 0.5.
	AvgNoiseSize float32 `yaml:"avg_noise_size"`

	PermanentClassesMin int `yaml:"permanent_classes_min"`

	// MinExamplesForPrototyping and SufficientExamplesForPrototyping bound
	// the promotion rule: below min never promote, at sufficient always.
	MinExamplesForPrototyping        int `yaml:"min_examples_for_prototyping"`
	SufficientExamplesForPrototyping int `yaml:"sufficient_examples_for_prototyping"`

	// ClusteringMaxAngleDelta is the angle tolerance (in rotations) when
	// merging consecutive outline features into one new prototype.
	ClusteringMaxAngleDelta float32 `yaml:"clustering_max_angle_delta"`

	// IntegerMatcherMultiplier scales the charnorm penalty blend.
	IntegerMatcherMultiplier int `yaml:"integer_matcher_multiplier"`
}

// ClassifyConfig tunes rating correction, filtering, and learning switches.
type ClassifyConfig struct {
	// ClassMissScale converts unmatched-feature counts into a rating
	// penalty.
	ClassMissScale float32 `yaml:"class_miss_scale"`

	// MisfitJunkPenalty is added when a non-alphanumeric match sits outside
	// its expected vertical band. Zero disables the check.
	MisfitJunkPenalty float32 `yaml:"misfit_junk_penalty"`

	AdaptProtoThreshold   uint8 `yaml:"adapt_proto_threshold"`
	AdaptFeatureThreshold uint8 `yaml:"adapt_feature_threshold"`

	// MaxMatches caps the final choice list.
	MaxMatches int `yaml:"max_matches"`

	// RatingScale and CertaintyScale convert internal distances to the
	// rating/certainty pair reported on output choices.
	RatingScale    float32 `yaml:"rating_scale"`
	CertaintyScale float32 `yaml:"certainty_scale"`

	// GarbageCertaintyThreshold is the certainty below which a sub-blob's
	// best whole-character choice is judged garbage.
	GarbageCertaintyThreshold float32 `yaml:"garbage_certainty_threshold"`

	// BlnNumericMode restricts survivors to digits, romans, and substitutes
	// l→1 and O→0.
	BlnNumericMode bool `yaml:"bln_numeric_mode"`

	// BaselineOnly / CharnormOnly force a single classification pass.
	BaselineOnly bool `yaml:"baseline_only"`
	CharnormOnly bool `yaml:"charnorm_only"`

	// UseAmbigsForAdaption widens learning to the ambiguity group of the
	// confirmed character.
	UseAmbigsForAdaption bool `yaml:"use_ambigs_for_adaption"`

	// EnableLearning gates all adaptation.
	EnableLearning bool `yaml:"enable_learning"`
}

// Default returns the tuned production defaults.
func Default() *EngineConfig {
	return &EngineConfig{
		Matcher: MatcherConfig{
			GoodThreshold:                    0.125,
			GreatThreshold:                   0.0,
			PerfectThreshold:                 0.02,
			BadMatchPad:                      0.15,
			RatingMargin:                     0.1,
			AvgNoiseSize:                     12.0,
			PermanentClassesMin:              1,
			MinExamplesForPrototyping:        3,
			SufficientExamplesForPrototyping: 5,
			ClusteringMaxAngleDelta:          0.015,
			IntegerMatcherMultiplier:         10,
		},
		Classify: ClassifyConfig{
			ClassMissScale:            0.00390625,
			MisfitJunkPenalty:         0.0,
			AdaptProtoThreshold:       230,
			AdaptFeatureThreshold:     230,
			MaxMatches:                10,
			RatingScale:               1.5,
			CertaintyScale:            20.0,
			GarbageCertaintyThreshold: -3.0,
			BlnNumericMode:            false,
			BaselineOnly:              false,
			CharnormOnly:              false,
			UseAmbigsForAdaption:      true,
			EnableLearning:            true,
		},
	}
}
