package classifier

import (
	"strings"

	"github.com/VladimirLichonos/tess-two/pkg/observability/logging"
)

const (
	puncChars  = ". , ; : / ` ~ ' - = \\ | \" ! _ ^"
	digitChars = "0 1 2 3 4 5 6 7 8 9"

	// Lowercase and uppercase Roman numeral letters are exempt from the
	// alpha purge in numeric mode.
	romanChars = "i v x I V X"
)

// removeBadMatches drops every candidate rated worse than the best match
// plus the bad-match pad. In numeric mode alpha candidates are additionally
// purged, except Roman numeral letters; a surviving "l" is rescored as "1"
// and "O" as "0" when those digits were themselves above the threshold.
func (s *Session) removeBadMatches(results *Results) {
	badMatchThreshold := results.best.Rating + s.cfg.Matcher.BadMatchPad

	if s.cfg.Classify.BlnNumericMode {
		idOne := s.charset.IDOf("1")
		idZero := s.charset.IDOf("0")
		scoredOne := results.scored(idOne)
		scoredZero := results.scored(idZero)

		kept := results.matches[:0]
		for _, match := range results.matches {
			if match.Rating > badMatchThreshold {
				continue
			}
			switch {
			case !s.charset.IsAlpha(match.ClassID) ||
				strings.Contains(romanChars, s.charset.Unichar(match.ClassID)):
				kept = append(kept, match)
			case s.charset.Eq(match.ClassID, "l") && scoredOne.Rating >= badMatchThreshold:
				substituted := scoredOne
				substituted.Rating = match.Rating
				kept = append(kept, substituted)
			case s.charset.Eq(match.ClassID, "O") && scoredZero.Rating >= badMatchThreshold:
				substituted := scoredZero
				substituted.Rating = match.Rating
				kept = append(kept, substituted)
			}
		}
		results.matches = kept
		return
	}

	kept := results.matches[:0]
	for _, match := range results.matches {
		if match.Rating <= badMatchThreshold {
			kept = append(kept, match)
		}
	}
	results.matches = kept
}

// removeExtraPuncs bounds the number of punctuation candidates to two and
// digit candidates to one, keeping the best-rated ones (the list is already
// sorted).
func (s *Session) removeExtraPuncs(results *Results) {
	puncCount := 0
	digitCount := 0
	kept := results.matches[:0]
	for _, match := range results.matches {
		unichar := s.charset.Unichar(match.ClassID)
		if strings.Contains(puncChars, unichar) {
			if puncCount < 2 {
				kept = append(kept, match)
			}
			puncCount++
		} else if strings.Contains(digitChars, unichar) {
			if digitCount < 1 {
				kept = append(kept, match)
			}
			digitCount++
		} else {
			kept = append(kept, match)
		}
	}
	results.matches = kept
}

// convertMatchesToChoices produces the bounded output list. With a shape
// table the cap is raised to twice the biggest shape so one large shape
// cannot crowd out whole characters. If only fragments would fill the list,
// the last slot is held open for a non-fragment candidate.
func (s *Session) convertMatchesToChoices(results *Results) []Choice {
	maxMatches := s.cfg.Classify.MaxMatches
	if s.shapes != nil {
		if doubled := s.shapes.MaxNumUnichars() * 2; doubled > maxMatches {
			maxMatches = doubled
		}
	}

	containsNonfrag := false
	choices := make([]Choice, 0, maxMatches)
	for _, match := range results.matches {
		currentIsFrag := s.charset.IsFragment(match.ClassID)
		if len(choices)+1 == maxMatches && !containsNonfrag && currentIsFrag {
			// Hold the last slot for a whole character.
			continue
		}

		var rating, certainty float32
		if results.blobLength == 0 {
			// Recognition failed for this blob, but callers cannot handle
			// an empty choice, so emit a poor but finite score.
			certainty = -20
			rating = 100
		} else {
			rating = match.Rating * s.cfg.Classify.RatingScale * float32(results.blobLength)
			certainty = match.Rating * -s.cfg.Classify.CertaintyScale
		}

		choices = append(choices, Choice{
			ClassID:   match.ClassID,
			Unichar:   s.charset.Unichar(match.ClassID),
			Rating:    rating,
			Certainty: certainty,
			Script:    s.charset.Script(match.ClassID),
			FontID:    match.FontID,
			FontID2:   match.FontID2,
			Adapted:   match.Adapted,
		})
		containsNonfrag = containsNonfrag || !currentIsFrag
		if len(choices) >= maxMatches {
			break
		}
	}
	if len(choices) > 0 {
		logging.Debugf("Classified blob: best=%q rating=%.3f certainty=%.3f choices=%d",
			choices[0].Unichar, choices[0].Rating, choices[0].Certainty, len(choices))
	}
	return choices
}
