package classifier

import (
	"time"

	"github.com/VladimirLichonos/tess-two/pkg/features"
	"github.com/VladimirLichonos/tess-two/pkg/matcher"
	"github.com/VladimirLichonos/tess-two/pkg/observability/logging"
	"github.com/VladimirLichonos/tess-two/pkg/observability/metrics"
	"github.com/VladimirLichonos/tess-two/pkg/templates"
)

// Choice is one entry of the final ranked output.
type Choice struct {
	ClassID   int
	Unichar   string
	Rating    float32
	Certainty float32
	Script    string
	FontID    int
	FontID2   int
	Adapted   bool
}

// Classify produces the ranked candidate list for one blob. The feature
// cache must have been invalidated since the last different blob.
func (s *Session) Classify(blob features.Blob) []Choice {
	s.stats.AdaptiveMatcherCalls++
	metrics.RecordAdaptiveMatcherCall()

	results := s.newResults()
	s.doAdaptiveMatch(blob, results)

	s.removeBadMatches(results)
	results.sortMatches()
	s.removeExtraPuncs(results)
	choices := s.convertMatchesToChoices(results)

	s.stats.ClassesOutput += len(choices)
	metrics.RecordClassesOutput(len(choices))
	if len(choices) == 0 {
		// Downstream consumers require a classification per input.
		if !s.cfg.Classify.BlnNumericMode {
			logging.Warnf("Empty classification!")
		}
		choices = append(choices, Choice{
			ClassID:   NoClass,
			Rating:    50.0,
			Certainty: -20.0,
			FontID:    templates.BlankFontID,
			FontID2:   templates.BlankFontID,
		})
	}
	return choices
}

func (s *Session) newResults() *Results {
	return newResults(s.cfg.Matcher.BadMatchPad, s.charset.IsFragment)
}

// doAdaptiveMatch runs the pass state machine. Cold (few permanent adapted
// classes, or forced) runs only the pre-trained charnorm pass. Warm runs the
// adapted baseline pass first and escalates to charnorm on a marginal or
// empty outcome, or to the ambiguity verification pass when the best
// baseline match carries an ambiguity list. A result set left with only
// fragments is terminated with a noise classification.
func (s *Session) doAdaptiveMatch(blob features.Blob, results *Results) {
	s.cache.Invalidate()

	if s.adapted.NumPermClasses < s.cfg.Matcher.PermanentClassesMin ||
		s.cfg.Classify.CharnormOnly {
		s.charNormClassifier(blob, results)
	} else {
		ambigIDs := s.baselineClassifier(blob, results)
		if (results.Len() > 0 && s.marginalMatch(results.best.Rating) &&
			!s.cfg.Classify.BaselineOnly) || results.Len() == 0 {
			s.charNormClassifier(blob, results)
		} else if len(ambigIDs) > 0 && !s.cfg.Classify.BaselineOnly {
			s.ambigClassifier(blob, ambigIDs, results)
		}
	}

	if !results.hasNonfragment || results.Len() == 0 {
		s.classifyAsNoise(results)
	}
}

func (s *Session) marginalMatch(rating float32) bool {
	return rating > s.cfg.Matcher.GreatThreshold
}

// baselineClassifier matches baseline features against the adapted
// templates, restricted to permanent protos and configs. Returns the
// built-in ambiguity list of the best match's config, if it is permanent.
func (s *Session) baselineClassifier(blob features.Blob, results *Results) []int {
	start := time.Now()
	s.stats.BaselineClassifierCalls++

	extracted := s.cache.IntFeatures(blob)
	results.blobLength = extracted.BlobLength
	if !extracted.OK || len(extracted.Baseline) == 0 {
		return nil
	}

	// Baseline matching uses no charnorm adjustment.
	charNormArray := make([]uint8, s.charset.Size())
	candidates := s.pruner.Prune(s.adapted.IntTemplates(), extracted.Baseline,
		charNormArray, s.baselineCutoffs)
	s.stats.BaselineClassesTried += len(candidates)
	metrics.RecordPassClasses(metrics.PassBaseline, len(candidates))

	s.masterMatcher(s.adapted.IntTemplates(), true, extracted.Baseline,
		charNormArray, candidates, blob.BoundingBox(), results,
		matcher.Params{Mode: matcher.Baseline, FeatureThreshold: s.adaptFeatureThreshold})
	metrics.RecordClassifierLatency(metrics.PassBaseline, time.Since(start).Seconds())

	best := results.best
	if best.ClassID == NoClass {
		return nil
	}
	class, err := s.adapted.Class(best.ClassID)
	if err != nil {
		return nil
	}
	if perm, ok := class.Config(best.ConfigID).(*templates.PermConfig); ok {
		return perm.Ambigs
	}
	return nil
}

// charNormClassifier matches character-normalized features against the
// pre-trained templates. Returns the feature count used.
func (s *Session) charNormClassifier(blob features.Blob, results *Results) int {
	start := time.Now()
	s.stats.CharNormClassifierCalls++

	extracted := s.cache.IntFeatures(blob)
	results.blobLength = extracted.BlobLength
	if !extracted.OK || len(extracted.CharNorm) == 0 {
		return 0
	}

	charNormArray := s.normalizer.CharNormArray(extracted.Norm, s.charset.Size())
	prunerNormArray := s.computePrunerNormArray(charNormArray)
	candidates := s.pruner.Prune(s.pretrained.Ints, extracted.CharNorm,
		prunerNormArray, s.charNormCutoffs)
	s.stats.CharNormClassesTried += len(candidates)
	metrics.RecordPassClasses(metrics.PassCharNorm, len(candidates))

	s.masterMatcher(s.pretrained.Ints, false, extracted.CharNorm,
		charNormArray, candidates, blob.BoundingBox(), results,
		matcher.Params{
			Mode:             matcher.CharNorm,
			Multiplier:       s.cfg.Matcher.IntegerMatcherMultiplier,
			FeatureThreshold: s.adaptFeatureThreshold,
		})
	metrics.RecordClassifierLatency(metrics.PassCharNorm, time.Since(start).Seconds())
	return len(extracted.CharNorm)
}

// ambigClassifier verifies the blob against exactly the listed ambiguous
// classes using the pre-trained templates, skipping the pruner.
func (s *Session) ambigClassifier(blob features.Blob, ambigIDs []int, results *Results) {
	start := time.Now()
	s.stats.AmbigClassifierCalls++

	extracted := s.cache.IntFeatures(blob)
	results.blobLength = extracted.BlobLength
	if !extracted.OK || len(extracted.CharNorm) == 0 {
		return
	}

	charNormArray := s.normalizer.CharNormArray(extracted.Norm, s.charset.Size())
	box := blob.BoundingBox()
	params := matcher.Params{
		Mode:             matcher.CharNorm,
		Multiplier:       s.cfg.Matcher.IntegerMatcherMultiplier,
		FeatureThreshold: s.adaptFeatureThreshold,
	}
	for _, classID := range ambigIDs {
		class, err := s.pretrained.Ints.Class(classID)
		if err != nil {
			logging.Debugf("Ambig class %d out of range, skipped", classID)
			continue
		}
		intResult := s.im.Match(class, s.masks.AllProtosOn, s.masks.AllConfigsOn,
			extracted.CharNorm, charNormArray, params)
		s.expandShapesAndApplyCorrections(false, classID, intResult, box,
			results.blobLength, charNormArray, results)
		s.stats.AmbigClassesTried++
	}
	metrics.RecordPassClasses(metrics.PassAmbig, len(ambigIDs))
	metrics.RecordClassifierLatency(metrics.PassAmbig, time.Since(start).Seconds())
}

// masterMatcher runs the integer matcher over the pruner's candidates and
// feeds the outcomes through shape expansion and rating correction. Adapted
// matching enables only the permanent protos and configs of each class.
func (s *Session) masterMatcher(ints *templates.IntTemplates, adapted bool,
	feats []features.IntFeature, normFactors []uint8,
	candidates []matcher.CPResult, box features.Box, results *Results,
	params matcher.Params) {

	for _, candidate := range candidates {
		classID := candidate.ClassID
		class, err := ints.Class(classID)
		if err != nil {
			continue
		}
		protos, configs := s.masks.AllProtosOn, s.masks.AllConfigsOn
		if adapted {
			adaptedClass, err := s.adapted.Class(classID)
			if err != nil {
				continue
			}
			protos, configs = adaptedClass.PermProtos(), adaptedClass.PermConfigs()
		}
		intResult := s.im.Match(class, protos, configs, feats, normFactors, params)
		s.expandShapesAndApplyCorrections(adapted, classID, intResult, box,
			results.blobLength, normFactors, results)
	}
}

// classifyAsNoise injects the terminal noise candidate, rated by blob size
// relative to the average noise blob.
func (s *Session) classifyAsNoise(results *Results) {
	r := float32(results.blobLength) / s.cfg.Matcher.AvgNoiseSize
	rating := r * r / (1.0 + r*r)
	results.Add(ScoredClass{
		ClassID:  NoClass,
		ShapeID:  -1,
		Rating:   rating,
		ConfigID: -1,
		FontID:   templates.BlankFontID,
		FontID2:  templates.BlankFontID,
	})
}
