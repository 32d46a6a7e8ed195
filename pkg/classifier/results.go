package classifier

import (
	"math"
	"sort"

	"github.com/VladimirLichonos/tess-two/pkg/templates"
	"github.com/VladimirLichonos/tess-two/pkg/unicharset"
)

// WorstPossibleRating is the rating sentinel: maximum distance.
const WorstPossibleRating float32 = 1.0

// NoClass is the class id of the null/noise label.
const NoClass = unicharset.NullID

// ScoredClass is one candidate in a classification result set.
type ScoredClass struct {
	ClassID  int
	ShapeID  int
	Rating   float32
	Adapted  bool
	ConfigID int
	FontID   int
	FontID2  int
}

// Results is the per-call aggregation of scored candidates. It maintains at
// most one entry per class id and tracks a best-so-far entry that excludes
// fragment labels, so a whole-character answer is always preferred.
type Results struct {
	matches        []ScoredClass
	best           ScoredClass
	blobLength     int
	hasNonfragment bool

	badMatchPad float32
	isFragment  func(classID int) bool
}

func newResults(badMatchPad float32, isFragment func(int) bool) *Results {
	return &Results{
		blobLength: math.MaxInt32,
		best: ScoredClass{
			ClassID: NoClass,
			ShapeID: -1,
			Rating:  WorstPossibleRating,
			FontID:  templates.BlankFontID,
			FontID2: templates.BlankFontID,
		},
		badMatchPad: badMatchPad,
		isFragment:  isFragment,
	}
}

// Add merges a candidate into the result set. Candidates much worse than
// the best so far are dropped outright; a repeat class is kept only if it
// improves, and then only its rating is updated.
func (r *Results) Add(sc ScoredClass) {
	old := r.find(sc.ClassID)
	if sc.Rating > r.best.Rating+r.badMatchPad ||
		(old >= 0 && sc.Rating >= r.matches[old].Rating) {
		return
	}

	if !r.isFragment(sc.ClassID) {
		r.hasNonfragment = true
	}

	if old >= 0 {
		r.matches[old].Rating = sc.Rating
	} else {
		r.matches = append(r.matches, sc)
	}

	if sc.Rating < r.best.Rating && !r.isFragment(sc.ClassID) {
		r.best = sc
	}
}

// Len returns the number of candidates.
func (r *Results) Len() int { return len(r.matches) }

// Best returns the tracked best non-fragment candidate.
func (r *Results) Best() ScoredClass { return r.best }

// HasNonfragment reports whether any accepted candidate carries a
// whole-character label.
func (r *Results) HasNonfragment() bool { return r.hasNonfragment }

// Matches returns the candidates in their current order.
func (r *Results) Matches() []ScoredClass { return r.matches }

func (r *Results) find(classID int) int {
	for i := range r.matches {
		if r.matches[i].ClassID == classID {
			return i
		}
	}
	return -1
}

// scored returns the entry for a class, defaulting to the worst possible
// rating when the class was never matched.
func (r *Results) scored(classID int) ScoredClass {
	if i := r.find(classID); i >= 0 {
		return r.matches[i]
	}
	return ScoredClass{
		ClassID: classID,
		ShapeID: -1,
		Rating:  WorstPossibleRating,
		FontID:  templates.BlankFontID,
		FontID2: templates.BlankFontID,
	}
}

// sortMatches orders candidates by rating ascending, ties broken by class
// id for repeatability.
func (r *Results) sortMatches() {
	sort.Slice(r.matches, func(i, j int) bool {
		a, b := r.matches[i], r.matches[j]
		if a.Rating != b.Rating {
			return a.Rating < b.Rating
		}
		return a.ClassID < b.ClassID
	})
}
