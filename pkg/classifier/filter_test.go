package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VladimirLichonos/tess-two/pkg/unicharset"
)

func TestRemoveBadMatchesKeepsOnlyPaddedRange(t *testing.T) {
	env := newTestEnv(t)
	r := env.session.newResults()
	r.Add(sc(idA, 0.10))
	r.Add(sc(idB, 0.20))
	r.Add(sc(idL, 0.24))

	env.session.removeBadMatches(r)

	// Threshold is 0.10 + 0.15; everything kept here.
	require.Equal(t, 3, r.Len())

	// Idempotent: a second application changes nothing.
	env.session.removeBadMatches(r)
	assert.Equal(t, 3, r.Len())
}

func TestRemoveBadMatchesNumericMode(t *testing.T) {
	env := newTestEnv(t)
	env.cfg.Classify.BlnNumericMode = true

	r := env.session.newResults()
	r.Add(sc(idOne, 0.30))  // digit, above threshold later
	r.Add(sc(idL, 0.05))    // alpha "l", best match
	r.Add(sc(idA, 0.10))    // plain alpha, purged
	r.Add(sc(idComma, 0.12))

	env.session.removeBadMatches(r)

	// "l" is rescored as "1" keeping l's rating; "a" is gone; the
	// punctuation survives as non-alpha.
	ids := map[int]float32{}
	for _, m := range r.Matches() {
		ids[m.ClassID] = m.Rating
	}
	assert.NotContains(t, ids, idA)
	assert.NotContains(t, ids, idL)
	require.Contains(t, ids, idOne)
	assert.InDelta(t, 0.05, float64(ids[idOne]), 1e-6)
	assert.Contains(t, ids, idComma)
}

func TestRemoveBadMatchesNumericModeKeepsRomans(t *testing.T) {
	env := newTestEnv(t)
	env.cfg.Classify.BlnNumericMode = true

	// "l" substitution requires "1" to be missing or bad; here "1" already
	// scored well, so "l" is simply dropped.
	r := env.session.newResults()
	r.Add(sc(idOne, 0.04))
	r.Add(sc(idL, 0.05))

	env.session.removeBadMatches(r)

	ids := []int{}
	for _, m := range r.Matches() {
		ids = append(ids, m.ClassID)
	}
	assert.Equal(t, []int{idOne}, ids)
}

func TestRemoveExtraPuncsBounds(t *testing.T) {
	env := newTestEnv(t)
	// Extra punctuation entries in the charset for this test.
	idDot := env.charset.Add(testEntry(".", false, false))
	idSemi := env.charset.Add(testEntry(";", false, false))
	idTwo := env.charset.Add(testEntry("2", false, true))

	r := env.session.newResults()
	r.matches = []ScoredClass{
		sc(idComma, 0.01),
		sc(idDot, 0.02),
		sc(idSemi, 0.03), // third punc, dropped
		sc(idOne, 0.04),
		sc(idTwo, 0.05), // second digit, dropped
		sc(idA, 0.06),
	}

	env.session.removeExtraPuncs(r)

	ids := []int{}
	for _, m := range r.Matches() {
		ids = append(ids, m.ClassID)
	}
	assert.Equal(t, []int{idComma, idDot, idOne, idA}, ids)
}

func TestConvertMatchesToChoicesScalesRatings(t *testing.T) {
	env := newTestEnv(t)
	r := env.session.newResults()
	r.blobLength = 10
	r.matches = []ScoredClass{sc(idA, 0.2)}

	choices := env.session.convertMatchesToChoices(r)

	require.Len(t, choices, 1)
	assert.Equal(t, "a", choices[0].Unichar)
	// rating = 0.2 * rating_scale(1.5) * blobLength(10)
	assert.InDelta(t, 3.0, float64(choices[0].Rating), 1e-5)
	// certainty = 0.2 * -certainty_scale(20)
	assert.InDelta(t, -4.0, float64(choices[0].Certainty), 1e-5)
}

func TestConvertMatchesToChoicesZeroBlobLength(t *testing.T) {
	env := newTestEnv(t)
	r := env.session.newResults()
	r.blobLength = 0
	r.matches = []ScoredClass{sc(idA, 0.2)}

	choices := env.session.convertMatchesToChoices(r)

	require.Len(t, choices, 1)
	assert.InDelta(t, 100.0, float64(choices[0].Rating), 1e-5)
	assert.InDelta(t, -20.0, float64(choices[0].Certainty), 1e-5)
}

func TestConvertMatchesToChoicesHoldsLastSlotForNonfragment(t *testing.T) {
	env := newTestEnv(t)
	env.cfg.Classify.MaxMatches = 3
	idFrag2 := env.charset.Add(unicharset.Entry{Unichar: "y_frag", Fragment: true, Enabled: true})
	idFrag3 := env.charset.Add(unicharset.Entry{Unichar: "x_frag", Fragment: true, Enabled: true})

	r := env.session.newResults()
	r.blobLength = 10
	r.matches = []ScoredClass{
		sc(idFrag, 0.01),
		sc(idFrag2, 0.02),
		sc(idFrag3, 0.03), // skipped to keep the last slot open
		sc(idA, 0.05),
	}

	choices := env.session.convertMatchesToChoices(r)

	require.Len(t, choices, 3)
	assert.Equal(t, idFrag, choices[0].ClassID)
	assert.Equal(t, idFrag2, choices[1].ClassID)
	assert.Equal(t, idA, choices[2].ClassID)
}
