package classifier

import (
	"fmt"
	"math"

	"github.com/VladimirLichonos/tess-two/pkg/bitset"
	"github.com/VladimirLichonos/tess-two/pkg/features"
	"github.com/VladimirLichonos/tess-two/pkg/matcher"
	"github.com/VladimirLichonos/tess-two/pkg/observability/logging"
	"github.com/VladimirLichonos/tess-two/pkg/observability/metrics"
	"github.com/VladimirLichonos/tess-two/pkg/templates"
)

// yDimOffset shifts baseline-normalized Y coordinates into the symmetric
// range the proto line-parameter conversion assumes.
const yDimOffset = 0.25

// LearnGlyph adapts the templates of classID to the given blob. The first
// example of a class builds its initial config from outline features; later
// examples either reinforce the matching config (possibly promoting it) or
// synthesize a new temporary config from the unexplained features.
func (s *Session) LearnGlyph(blob features.Blob, classID, fontID int, threshold float32) error {
	if !s.cfg.Classify.EnableLearning {
		return nil
	}
	s.cache.Invalidate()
	s.stats.CharsAdapted++
	metrics.RecordCharAdapted()

	class, err := s.adapted.Class(classID)
	if err != nil {
		return fmt.Errorf("cannot adapt to class %d: %w", classID, err)
	}

	if class.Empty() {
		s.initAdaptedClass(blob, classID, fontID, class)
		return nil
	}

	intClass, err := s.adapted.IntClass(classID)
	if err != nil {
		return fmt.Errorf("cannot adapt to class %d: %w", classID, err)
	}

	floatFeats, intFeats := s.adaptiveFeatures(blob)
	if len(intFeats) == 0 {
		return nil
	}

	// Only configs learned under the same font compete.
	fontConfigs := bitset.New(templates.MaxConfigs)
	for cfg := 0; cfg < class.NumConfigs(); cfg++ {
		if class.Config(cfg).FontID() == fontID {
			fontConfigs.Set(cfg)
		}
	}
	intResult := s.im.Match(intClass, s.masks.AllProtosOn, fontConfigs,
		intFeats, nil,
		matcher.Params{Mode: matcher.Baseline, FeatureThreshold: s.adaptFeatureThreshold})

	s.setAdaptiveThreshold(threshold)

	if intResult.Rating <= threshold {
		if class.Config(intResult.Config) != nil && class.Config(intResult.Config).Permanent() {
			logging.Debugf("Good match to perm config %d of class %d (%.1f%%)",
				intResult.Config, classID, (1.0-intResult.Rating)*100)
			return nil
		}
		tempConfig := class.TempConfig(intResult.Config)
		if tempConfig == nil {
			return nil
		}
		tempConfig.TimesSeen++
		if tempConfig.TimesSeen > class.MaxTimesSeen {
			class.MaxTimesSeen = tempConfig.TimesSeen
		}
		logging.Debugf("Reinforced temp config %d of class %d to %d",
			intResult.Config, classID, tempConfig.TimesSeen)
		if s.tempConfigReliable(classID, tempConfig) {
			s.makePermanent(blob, classID, intResult.Config, false)
			s.updateAmbigsGroup(blob, classID)
		}
		return nil
	}

	newConfigID, ok := s.makeNewTemporaryConfig(classID, fontID, intFeats, floatFeats)
	if !ok {
		return nil
	}
	if s.tempConfigReliable(classID, class.TempConfig(newConfigID)) {
		s.makePermanent(blob, classID, newConfigID, false)
		s.updateAmbigsGroup(blob, classID)
	}
	return nil
}

// LearnPunc adapts to a punctuation glyph only when the pre-trained
// charnorm pass leaves exactly one surviving match, so a noisy mark cannot
// pollute the templates.
func (s *Session) LearnPunc(blob features.Blob, classID, fontID int, threshold float32) error {
	results := s.newResults()
	s.cache.Invalidate()
	s.charNormClassifier(blob, results)
	s.removeBadMatches(results)
	if results.Len() != 1 {
		logging.Debugf("Rejecting punc adaptation for class %d: %d alternatives",
			classID, results.Len())
		return nil
	}
	return s.LearnGlyph(blob, classID, fontID, threshold)
}

// LooksLikeGarbage re-enters the classifier on a sub-blob and reports
// whether its best whole-character choice falls below the garbage certainty
// threshold. True when no whole character matches at all.
func (s *Session) LooksLikeGarbage(blob features.Blob) bool {
	s.cache.Invalidate()
	choices := s.Classify(blob)
	s.cache.Invalidate()
	for _, choice := range choices {
		if s.charset.IsFragment(choice.ClassID) {
			continue
		}
		return choice.Certainty < s.cfg.Classify.GarbageCertaintyThreshold
	}
	return true
}

// initAdaptedClass builds a class's first template: one temporary config
// whose protos come 1:1 from the blob's outline features. Degenerate
// outlines make this a no-op; the class is never partially constructed.
func (s *Session) initAdaptedClass(blob features.Blob, classID, fontID int, class *templates.Class) {
	feats := s.cache.Extractor().ExtractOutline(blob)
	numFeatures := len(feats)
	if numFeatures <= 0 || numFeatures > features.UnlikelyNumFeatures {
		return
	}

	intClass, err := s.adapted.IntClass(classID)
	if err != nil {
		return
	}

	tempConfig := templates.NewTempConfig(numFeatures-1, fontID)
	s.baselineCutoffs[classID] = s.charNormCutoffs[classID]

	for _, feat := range feats {
		proto := templates.Prototype{
			Angle:  feat.Angle,
			X:      feat.X,
			Y:      feat.Y - yDimOffset,
			Length: feat.Length,
		}
		proto.FillABC()
		protoID, err := intClass.AddProto(proto.Quantize())
		if err != nil {
			// Cannot happen below the sanity bound, but never leave the
			// class half built.
			s.recordAdaptationFailure("init class %d: %v", classID, err)
			return
		}
		tempConfig.Protos.Set(protoID)
		class.AddTempProto(templates.TempProto{ProtoID: protoID, Proto: proto})
	}

	configID, err := intClass.AddConfig()
	if err != nil {
		s.recordAdaptationFailure("init class %d: %v", classID, err)
		return
	}
	intClass.SetConfigProtos(configID, s.masks.AllProtosOn)
	class.AppendConfig(tempConfig)
	s.adapted.NumNonEmptyClasses++
	logging.Debugf("Added new class %q (id %d) with %d protos",
		s.charset.Unichar(classID), classID, numFeatures)
}

// adaptiveFeatures extracts baseline pico features plus their integer form.
// Returns empty sets when the outline is degenerate.
func (s *Session) adaptiveFeatures(blob features.Blob) (features.FeatureSet, []features.IntFeature) {
	feats := s.cache.Extractor().ExtractPico(blob)
	if len(feats) == 0 || len(feats) > features.UnlikelyNumFeatures {
		return nil, nil
	}
	return feats, s.cache.Extractor().ComputeIntFeatures(feats)
}

// makeNewTemporaryConfig synthesizes a config from the features the
// existing templates failed to explain. Returns ok=false and counts a
// failure when the class is at capacity.
func (s *Session) makeNewTemporaryConfig(classID, fontID int,
	intFeats []features.IntFeature, floatFeats features.FeatureSet) (int, bool) {

	class, err := s.adapted.Class(classID)
	if err != nil {
		return -1, false
	}
	intClass, err := s.adapted.IntClass(classID)
	if err != nil {
		return -1, false
	}
	if intClass.NumConfigs() >= templates.MaxConfigs {
		s.recordAdaptationFailure("class %d: config capacity exhausted", classID)
		return -1, false
	}

	oldProtos := s.im.FindGoodProtos(intClass, s.masks.AllProtosOn,
		s.masks.AllConfigsOff, intFeats,
		matcher.Params{Mode: matcher.Baseline, FeatureThreshold: s.adaptProtoThreshold})

	tempProtoMask := bitset.New(templates.MaxProtos)
	for _, protoID := range oldProtos {
		tempProtoMask.Set(protoID)
	}

	badFeats := s.im.FindBadFeatures(intClass, tempProtoMask,
		s.masks.AllConfigsOn, intFeats,
		matcher.Params{Mode: matcher.Baseline, FeatureThreshold: s.adaptFeatureThreshold})

	maxProtoID, ok := s.makeNewTempProtos(floatFeats, badFeats, classID, tempProtoMask)
	if !ok {
		s.recordAdaptationFailure("class %d: proto capacity exhausted", classID)
		return -1, false
	}

	configID, err := intClass.AddConfig()
	if err != nil {
		s.recordAdaptationFailure("class %d: %v", classID, err)
		return -1, false
	}
	intClass.SetConfigProtos(configID, tempProtoMask)

	tempConfig := templates.NewTempConfig(maxProtoID, fontID)
	tempConfig.Protos = tempProtoMask.Copy()
	class.AppendConfig(tempConfig)

	logging.Debugf("Made new temp config %d for class %d using %d old protos",
		configID, classID, len(oldProtos))
	return configID, true
}

// makeNewTempProtos clusters runs of consecutive unexplained features with
// similar angle and position into new protos. Each run becomes one proto
// spanning the accumulated arc length. Returns the class's max proto id, or
// ok=false on capacity exhaustion.
func (s *Session) makeNewTempProtos(floatFeats features.FeatureSet, badFeats []int,
	classID int, tempProtoMask *bitset.Bitset) (int, bool) {

	class, err := s.adapted.Class(classID)
	if err != nil {
		return -1, false
	}
	intClass, err := s.adapted.IntClass(classID)
	if err != nil {
		return -1, false
	}

	for start := 0; start < len(badFeats); {
		f1 := floatFeats[badFeats[start]]
		x1, y1, a1 := f1.X, f1.Y, f1.Angle

		end := start + 1
		segmentLength := float32(features.PicoFeatureLength)
		var f2 features.Feature
		for ; end < len(badFeats); end, segmentLength = end+1, segmentLength+features.PicoFeatureLength {
			f2 = floatFeats[badFeats[end]]

			angleDelta := float32(math.Abs(float64(a1 - f2.Angle)))
			if angleDelta > 0.5 {
				angleDelta = 1.0 - angleDelta
			}
			if angleDelta > s.cfg.Matcher.ClusteringMaxAngleDelta ||
				float32(math.Abs(float64(x1-f2.X))) > segmentLength ||
				float32(math.Abs(float64(y1-f2.Y))) > segmentLength {
				break
			}
		}

		f2 = floatFeats[badFeats[end-1]]
		proto := templates.Prototype{
			Length: segmentLength,
			Angle:  a1,
			X:      (x1 + f2.X) / 2.0,
			Y:      (y1+f2.Y)/2.0 - yDimOffset,
		}
		proto.FillABC()
		protoID, err := intClass.AddProto(proto.Quantize())
		if err != nil {
			return -1, false
		}
		tempProtoMask.Set(protoID)
		class.AddTempProto(templates.TempProto{ProtoID: protoID, Proto: proto})

		start = end
	}
	return intClass.NumProtos() - 1, true
}

// makePermanent promotes a temporary config: its matching temp protos move
// to the permanent masks and the slot is replaced by a permanent config
// carrying the ambiguity list observed against the pre-trained templates.
func (s *Session) makePermanent(blob features.Blob, classID, configID int, cascade bool) {
	class, err := s.adapted.Class(classID)
	if err != nil {
		return
	}
	tempConfig := class.TempConfig(configID)
	if tempConfig == nil {
		return
	}

	class.PermConfigs().Set(configID)
	if class.NumPermConfigs == 0 {
		s.adapted.NumPermClasses++
	}
	class.NumPermConfigs++

	ambigIDs := s.getAmbiguities(blob, classID)

	promoted := class.RemoveTempProtos(func(tp templates.TempProto) bool {
		return tp.ProtoID <= tempConfig.MaxProtoID && tempConfig.Protos.Test(tp.ProtoID)
	})
	for _, tp := range promoted {
		class.PermProtos().Set(tp.ProtoID)
	}

	class.ReplaceConfig(configID, &templates.PermConfig{
		Font:   tempConfig.Font,
		Ambigs: ambigIDs,
	})

	s.stats.ConfigsPromoted++
	if cascade {
		s.stats.CascadePromotions++
	}
	metrics.RecordPromotion(cascade)
	logging.Infof("Made config %d of class %q (id %d) permanent, %d ambigs",
		configID, s.charset.Unichar(classID), classID, len(ambigIDs))
}

// getAmbiguities classifies the blob against the pre-trained templates and
// returns the classes close enough to be confused with correctClass. A
// single self-match means no ambiguity.
func (s *Session) getAmbiguities(blob features.Blob, correctClass int) []int {
	results := s.newResults()
	s.charNormClassifier(blob, results)
	s.removeBadMatches(results)
	results.sortMatches()

	if results.Len() == 1 && results.matches[0].ClassID == correctClass {
		return nil
	}
	ambigIDs := make([]int, 0, results.Len())
	for _, match := range results.matches {
		ambigIDs = append(ambigIDs, match.ClassID)
	}
	return ambigIDs
}

// tempConfigReliable is the promotion rule: always reliable at the
// sufficient observation count, never below the minimum, and in between
// only when every forward-ambiguous class is itself verified.
func (s *Session) tempConfigReliable(classID int, tempConfig *templates.TempConfig) bool {
	if tempConfig == nil {
		return false
	}
	if tempConfig.TimesSeen >= s.cfg.Matcher.SufficientExamplesForPrototyping {
		return true
	}
	if tempConfig.TimesSeen < s.cfg.Matcher.MinExamplesForPrototyping {
		return false
	}
	if s.cfg.Classify.UseAmbigsForAdaption {
		for _, ambigID := range s.ambigs.AmbigsFor(classID) {
			ambigClass, err := s.adapted.Class(ambigID)
			if err != nil {
				continue
			}
			if ambigClass.NumPermConfigs == 0 &&
				ambigClass.MaxTimesSeen < s.cfg.Matcher.MinExamplesForPrototyping {
				logging.Debugf("Ambig %d not seen enough, holding promotion for class %d",
					ambigID, classID)
				return false
			}
		}
	}
	return true
}

// updateAmbigsGroup re-checks the promotion rule for every temporary config
// of the classes that list classID as an ambiguity; a promotion can cascade.
func (s *Session) updateAmbigsGroup(blob features.Blob, classID int) {
	for _, ambigID := range s.ambigs.ReverseAmbigsFor(classID) {
		ambigClass, err := s.adapted.Class(ambigID)
		if err != nil {
			continue
		}
		for cfg := 0; cfg < ambigClass.NumConfigs(); cfg++ {
			tempConfig := ambigClass.TempConfig(cfg)
			if tempConfig == nil {
				continue
			}
			if s.tempConfigReliable(ambigID, tempConfig) {
				s.makePermanent(blob, ambigID, cfg, true)
			}
		}
	}
}

func (s *Session) recordAdaptationFailure(format string, args ...interface{}) {
	s.stats.AdaptationsFailed++
	metrics.RecordAdaptationFailure()
	logging.Warnf("Adaptation abandoned: "+format, args...)
}
