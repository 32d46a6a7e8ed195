// Package classifier implements the adaptive glyph classifier: the
// per-document session, the classification pass policy, result aggregation
// and filtering, and the online learning engine that grows the adapted
// template store as recognition proceeds.
package classifier

import (
	"errors"
	"fmt"

	"github.com/VladimirLichonos/tess-two/pkg/ambigs"
	"github.com/VladimirLichonos/tess-two/pkg/config"
	"github.com/VladimirLichonos/tess-two/pkg/features"
	"github.com/VladimirLichonos/tess-two/pkg/matcher"
	"github.com/VladimirLichonos/tess-two/pkg/observability/logging"
	"github.com/VladimirLichonos/tess-two/pkg/shapetable"
	"github.com/VladimirLichonos/tess-two/pkg/templates"
	"github.com/VladimirLichonos/tess-two/pkg/unicharset"
)

// ErrMissingCollaborator is returned by NewSession when a required
// collaborator was not supplied.
var ErrMissingCollaborator = errors.New("classifier: missing collaborator")

// Options carries the collaborators and data a session is built from.
// Shapes is optional; everything else is required.
type Options struct {
	Config     *config.EngineConfig
	Charset    *unicharset.Set
	Shapes     *shapetable.Table
	Ambigs     *ambigs.Table
	Pretrained *templates.Pretrained
	Matcher    matcher.Matcher
	Pruner     matcher.Pruner
	Extractor  features.Extractor
	Normalizer features.Normalizer

	// CharNormCutoffs is the per-class expected feature count table loaded
	// with the pre-trained templates.
	CharNormCutoffs []uint16
}

// Stats holds the session's cumulative classification and learning counters.
type Stats struct {
	AdaptiveMatcherCalls    int
	BaselineClassifierCalls int
	CharNormClassifierCalls int
	AmbigClassifierCalls    int
	BaselineClassesTried    int
	CharNormClassesTried    int
	AmbigClassesTried       int
	ClassesOutput           int
	CharsAdapted            int
	AdaptationsFailed       int
	ConfigsPromoted         int
	CascadePromotions       int
}

// Session is the per-document classifier context: the adapted template
// store, cutoff tables, shared masks, feature cache, and counters. It is
// single-threaded by contract; classification reads the adapted store and
// only learning calls mutate it.
type Session struct {
	cfg        *config.EngineConfig
	charset    *unicharset.Set
	shapes     *shapetable.Table
	ambigs     *ambigs.Table
	pretrained *templates.Pretrained
	im         matcher.Matcher
	pruner     matcher.Pruner
	normalizer features.Normalizer

	adapted *templates.Store
	masks   *templates.Masks
	cache   *features.Cache

	baselineCutoffs []uint16
	charNormCutoffs []uint16

	// Current adaptation thresholds, rescaled per learning call.
	adaptProtoThreshold   uint8
	adaptFeatureThreshold uint8

	stats Stats
}

// NewSession builds a classifier session for one document.
func NewSession(opts Options) (*Session, error) {
	switch {
	case opts.Config == nil:
		return nil, fmt.Errorf("%w: config", ErrMissingCollaborator)
	case opts.Charset == nil:
		return nil, fmt.Errorf("%w: charset", ErrMissingCollaborator)
	case opts.Ambigs == nil:
		return nil, fmt.Errorf("%w: ambigs table", ErrMissingCollaborator)
	case opts.Pretrained == nil:
		return nil, fmt.Errorf("%w: pretrained templates", ErrMissingCollaborator)
	case opts.Matcher == nil:
		return nil, fmt.Errorf("%w: matcher", ErrMissingCollaborator)
	case opts.Pruner == nil:
		return nil, fmt.Errorf("%w: pruner", ErrMissingCollaborator)
	case opts.Extractor == nil:
		return nil, fmt.Errorf("%w: extractor", ErrMissingCollaborator)
	case opts.Normalizer == nil:
		return nil, fmt.Errorf("%w: normalizer", ErrMissingCollaborator)
	}

	numClasses := opts.Charset.Size()
	charNormCutoffs := make([]uint16, numClasses)
	copy(charNormCutoffs, opts.CharNormCutoffs)

	s := &Session{
		cfg:                   opts.Config,
		charset:               opts.Charset,
		shapes:                opts.Shapes,
		ambigs:                opts.Ambigs,
		pretrained:            opts.Pretrained,
		im:                    opts.Matcher,
		pruner:                opts.Pruner,
		normalizer:            opts.Normalizer,
		adapted:               templates.NewStore(numClasses),
		masks:                 templates.NewMasks(),
		cache:                 features.NewCache(opts.Extractor),
		baselineCutoffs:       make([]uint16, numClasses),
		charNormCutoffs:       charNormCutoffs,
		adaptProtoThreshold:   opts.Config.Classify.AdaptProtoThreshold,
		adaptFeatureThreshold: opts.Config.Classify.AdaptFeatureThreshold,
	}
	return s, nil
}

// AdaptedStore exposes the adapted templates, e.g. for persistence at a
// document boundary.
func (s *Session) AdaptedStore() *templates.Store { return s.adapted }

// Stats returns a snapshot of the session counters.
func (s *Session) Stats() Stats { return s.stats }

// Reset discards all adapted state and restores the session to the
// start-of-document condition. Cumulative counters are kept.
func (s *Session) Reset() {
	s.adapted.Reset()
	for i := range s.baselineCutoffs {
		s.baselineCutoffs[i] = 0
	}
	s.cache.Invalidate()
	s.adaptProtoThreshold = s.cfg.Classify.AdaptProtoThreshold
	s.adaptFeatureThreshold = s.cfg.Classify.AdaptFeatureThreshold
	logging.Debugf("Adaptive templates reset")
}

// LogStats emits the per-pass usage counters.
func (s *Session) LogStats() {
	logging.LogEvent("adaptive_matcher_stats", map[string]interface{}{
		"matcher_calls":  s.stats.AdaptiveMatcherCalls,
		"baseline_calls": s.stats.BaselineClassifierCalls,
		"baseline_tried": s.stats.BaselineClassesTried,
		"charnorm_calls": s.stats.CharNormClassifierCalls,
		"charnorm_tried": s.stats.CharNormClassesTried,
		"ambig_calls":    s.stats.AmbigClassifierCalls,
		"ambig_tried":    s.stats.AmbigClassesTried,
		"classes_output": s.stats.ClassesOutput,
		"chars_adapted":  s.stats.CharsAdapted,
		"adapt_failed":   s.stats.AdaptationsFailed,
		"promoted":       s.stats.ConfigsPromoted,
	})
}

// setAdaptiveThreshold rescales the matcher evidence thresholds to the
// adaptation threshold of the current learning call.
func (s *Session) setAdaptiveThreshold(threshold float32) {
	t := 1.0 - threshold
	if threshold == s.cfg.Matcher.GoodThreshold {
		t = 0.9
	}
	v := int(255 * t)
	if v < 0 {
		v = 0
	} else if v > 255 {
		v = 255
	}
	s.adaptProtoThreshold = uint8(v)
	s.adaptFeatureThreshold = uint8(v)
}
