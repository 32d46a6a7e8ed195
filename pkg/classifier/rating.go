package classifier

import (
	"github.com/VladimirLichonos/tess-two/pkg/features"
	"github.com/VladimirLichonos/tess-two/pkg/matcher"
	"github.com/VladimirLichonos/tess-two/pkg/templates"
)

// computeCorrectedRating applies the set of corrections to a raw matcher
// distance: the character-normalization blend, the miss penalty for
// unaccounted features, and an extra penalty for non-alphanumerics sitting
// outside their historical vertical band.
func (s *Session) computeCorrectedRating(classID int, imRating float32,
	featureMisses, bottom, top, blobLength int, cnFactors []uint8) float32 {

	cnCorrected := s.im.ApplyCNCorrection(imRating, blobLength,
		float32(cnFactors[classID]), s.cfg.Matcher.IntegerMatcherMultiplier)
	missPenalty := s.cfg.Classify.ClassMissScale * float32(featureMisses)

	var verticalPenalty float32
	if !s.charset.IsAlpha(classID) && !s.charset.IsDigit(classID) &&
		cnFactors[classID] != 0 && s.cfg.Classify.MisfitJunkPenalty > 0 {
		if !s.charset.TopBottom(classID).Contains(bottom, top) {
			verticalPenalty = s.cfg.Classify.MisfitJunkPenalty
		}
	}

	rating := cnCorrected + missPenalty + verticalPenalty
	if rating > WorstPossibleRating {
		rating = WorstPossibleRating
	}
	return rating
}

// expandShapesAndApplyCorrections converts one raw match into candidates.
// An adapted match maps directly to its class; a pre-trained match whose
// config resolves to a shared shape is expanded so every member unichar is
// scored individually, the group keeping the best member rating.
func (s *Session) expandShapesAndApplyCorrections(adapted bool, classID int,
	intResult matcher.Result, box features.Box, blobLength int,
	cnFactors []uint8, out *Results) {

	fontID := templates.BlankFontID
	fontID2 := templates.BlankFontID
	if adapted {
		class, err := s.adapted.Class(classID)
		if err != nil {
			return
		}
		if cfg := class.Config(intResult.Config); cfg != nil {
			fontID = cfg.FontID()
		}
		if intResult.Config2 >= 0 {
			if cfg := class.Config(intResult.Config2); cfg != nil {
				fontID2 = cfg.FontID()
			}
		}
	} else {
		fontID = s.pretrained.ConfigFontOrShapeID(classID, intResult.Config)
		if intResult.Config2 >= 0 {
			fontID2 = s.pretrained.ConfigFontOrShapeID(classID, intResult.Config2)
		}
		if s.shapes != nil {
			s.expandShape(classID, fontID, fontID2, intResult, box,
				blobLength, cnFactors, out)
			return
		}
	}

	rating := s.computeCorrectedRating(classID, intResult.Rating,
		intResult.FeatureMisses, box.Bottom, box.Top, blobLength, cnFactors)
	if s.charset.Enabled(classID) {
		out.Add(ScoredClass{
			ClassID:  classID,
			ShapeID:  -1,
			Rating:   rating,
			Adapted:  adapted,
			ConfigID: intResult.Config,
			FontID:   fontID,
			FontID2:  fontID2,
		})
	}
}

// expandShape scores every unichar member of a pre-trained shape. shapeID
// is the resolved id of the best config's shape; shapeID2 that of the
// runner-up, used only as a secondary font source.
func (s *Session) expandShape(classID, shapeID, shapeID2 int,
	intResult matcher.Result, box features.Box, blobLength int,
	cnFactors []uint8, out *Results) {

	shape, ok := s.shapes.Shape(shapeID)
	if !ok {
		return
	}
	for _, member := range shape.Members {
		unicharID := member.UnicharID
		fontID := templates.BlankFontID
		if len(member.FontIDs) > 0 {
			fontID = member.FontIDs[0]
		}
		fontID2 := templates.BlankFontID
		if len(member.FontIDs) > 1 {
			fontID2 = member.FontIDs[1]
		} else if shape2, ok := s.shapes.Shape(shapeID2); ok &&
			len(shape2.Members) > 0 && len(shape2.Members[0].FontIDs) > 0 {
			fontID2 = shape2.Members[0].FontIDs[0]
		}

		rating := s.computeCorrectedRating(unicharID, intResult.Rating,
			intResult.FeatureMisses, box.Bottom, box.Top, blobLength, cnFactors)
		if s.charset.Enabled(unicharID) {
			out.Add(ScoredClass{
				ClassID:  unicharID,
				ShapeID:  shapeID,
				Rating:   rating,
				Adapted:  false,
				ConfigID: intResult.Config,
				FontID:   fontID,
				FontID2:  fontID2,
			})
		}
	}
}

// computePrunerNormArray derives the norm factors the class pruner sees.
// Without a shape table they are the char norm factors themselves; with one,
// each class gets the minimum factor over all unichars its shapes cover.
func (s *Session) computePrunerNormArray(charNormArray []uint8) []uint8 {
	if s.shapes == nil {
		return charNormArray
	}
	numClasses := s.pretrained.Ints.NumClasses()
	pruner := make([]uint8, numClasses)
	for i := range pruner {
		pruner[i] = 255
	}
	for id := 0; id < numClasses && id < len(s.pretrained.FontSets); id++ {
		for _, shapeID := range s.pretrained.FontSets[id] {
			shape, ok := s.shapes.Shape(shapeID)
			if !ok {
				continue
			}
			for _, member := range shape.Members {
				if member.UnicharID < len(charNormArray) &&
					charNormArray[member.UnicharID] < pruner[id] {
					pruner[id] = charNormArray[member.UnicharID]
				}
			}
		}
	}
	return pruner
}
