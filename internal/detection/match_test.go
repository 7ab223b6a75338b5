package detection

import (
	"fmt"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/cistercian-mcp/internal/glyph"
	"github.com/ironsheep/cistercian-mcp/internal/imaging"
)

func locate(t *testing.T, img *imaging.BinaryImage) *Layout {
	t.Helper()
	l, err := Locate(img, LocateOptions{})
	require.NoError(t, err)
	return l
}

func TestMatch_EveryDigitInEveryQuadrant(t *testing.T) {
	table := glyph.NewTemplateTable()
	m := NewMatcher(table, MatchOptions{})

	for _, q := range glyph.Quadrants {
		for d := glyph.Digit(0); d <= 9; d++ {
			t.Run(fmt.Sprintf("%s/%d", q, d), func(t *testing.T) {
				var digits glyph.Digits
				digits[q] = d
				img := createGlyphImage(t, digits.Value())

				got := m.Match(img, locate(t, img), q)
				assert.Equal(t, d, got.Digit)
				assert.False(t, got.Ambiguous, "candidates: %+v", got.Candidates)
				assert.GreaterOrEqual(t, got.Confidence, 0.9)
			})
		}
	}
}

func TestMatch_QuadrantsAreIndependent(t *testing.T) {
	table := glyph.NewTemplateTable()
	m := NewMatcher(table, MatchOptions{})

	img := createGlyphImage(t, 9876)
	l := locate(t, img)

	want := glyph.Split(9876)
	for _, q := range glyph.Quadrants {
		got := m.Match(img, l, q)
		assert.Equal(t, want[q], got.Digit, "%s", q)
		assert.False(t, got.Ambiguous, "%s", got)
	}
}

func TestMatch_CandidatesRanked(t *testing.T) {
	m := NewMatcher(glyph.NewTemplateTable(), MatchOptions{})
	img := createGlyphImage(t, 7)

	got := m.Match(img, locate(t, img), glyph.Units)
	require.Len(t, got.Candidates, 10)
	assert.Equal(t, got.Digit, got.Candidates[0].Digit)
	for i := 1; i < len(got.Candidates); i++ {
		assert.GreaterOrEqual(t, got.Candidates[i-1].Score, got.Candidates[i].Score)
	}

	// 7 contains all of 1 and all of 6, so both are fully covered but
	// imprecise.
	for _, c := range got.Candidates {
		if c.Digit == 1 || c.Digit == 6 {
			assert.Greater(t, c.Coverage, 0.9)
			assert.Less(t, c.Precision, 0.75)
		}
	}
}

func TestMatch_AmbiguousQuadrant(t *testing.T) {
	tests := []struct {
		name    string
		strokes []glyph.Segment
	}{
		{
			name:    "bar halfway between the 1 and 2 positions",
			strokes: []glyph.Segment{glyph.Seg(0, -2.0/3, glyph.BoxOuter, -2.0/3)},
		},
		{
			name: "1 and 2 blended without the outer stroke of 9",
			strokes: []glyph.Segment{
				glyph.Seg(0, glyph.StemTop, glyph.BoxOuter, glyph.StemTop),
				glyph.Seg(0, glyph.BoxLow, glyph.BoxOuter, glyph.BoxLow),
			},
		},
		{
			name: "half of a 1 and half of a 2",
			strokes: []glyph.Segment{
				glyph.Seg(0, glyph.StemTop, glyph.BoxOuter/2, glyph.StemTop),
				glyph.Seg(glyph.BoxOuter/2, glyph.BoxLow, glyph.BoxOuter, glyph.BoxLow),
			},
		},
	}

	m := NewMatcher(glyph.NewTemplateTable(), MatchOptions{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := imaging.NewBinaryImage(fixtureWidth, fixtureHeight)
			drawSegments(img, glyph.Stem)
			drawSegments(img, tt.strokes...)
			l := locate(t, img)

			got := m.Match(img, l, glyph.Units)
			assert.True(t, got.Ambiguous, "%s candidates: %+v", got, got.Candidates)

			// The untouched quadrants still read as zero.
			for _, q := range []glyph.Quadrant{glyph.Tens, glyph.Hundreds, glyph.Thousands} {
				other := m.Match(img, l, q)
				assert.Equal(t, glyph.Digit(0), other.Digit)
				assert.False(t, other.Ambiguous)
			}
		})
	}
}

func TestMatch_SpeckDoesNotBecomeADigit(t *testing.T) {
	m := NewMatcher(glyph.NewTemplateTable(), MatchOptions{})
	img := createGlyphImage(t, 0)
	img.Set(80, 30, true)
	img.Set(81, 30, true)

	got := m.Match(img, locate(t, img), glyph.Units)
	assert.Equal(t, glyph.Digit(0), got.Digit)
	assert.Equal(t, 2, got.Ink)
	assert.False(t, got.Ambiguous)
}

func TestMatchOptions_Defaults(t *testing.T) {
	m := NewMatcher(glyph.NewTemplateTable(), MatchOptions{Acceptance: 0.9})
	opts := m.Options()
	assert.Equal(t, 0.9, opts.Acceptance)
	assert.Equal(t, DefaultMatchOptions().MinMargin, opts.MinMargin)
	assert.Equal(t, DefaultMatchOptions().Tolerance, opts.Tolerance)
}

func TestDistanceMap(t *testing.T) {
	box := image.Rect(0, 0, 5, 5)
	dist := distanceMap([]image.Point{{X: 2, Y: 2}}, box)

	assert.Equal(t, 0.0, dist[2*5+2])
	assert.Equal(t, 1.0, dist[2*5+3])
	assert.InDelta(t, 1.41421, dist[3*5+3], 1e-4)
	assert.Equal(t, 2.0, dist[0*5+2])
}

func TestCoverage(t *testing.T) {
	box := image.Rect(0, 0, 10, 10)
	var ink []image.Point
	for x := 0; x < 10; x++ {
		ink = append(ink, image.Pt(x, 2))
	}
	dist := distanceMap(ink, box)

	// Samples past the right edge are tested at the edge column.
	inked := glyph.Seg(5, 2.5, 15, 2.5)
	assert.Equal(t, 1.0, coverage([]glyph.Segment{inked}, dist, box, -100, 1, 1))

	// The weakest segment decides.
	bare := glyph.Seg(1, 8.5, 8, 8.5)
	assert.Equal(t, 0.0, coverage([]glyph.Segment{inked, bare}, dist, box, -100, 1, 1))

	// Samples within exclude of the stem are skipped.
	assert.Equal(t, 1.0, coverage([]glyph.Segment{glyph.Seg(1, 8.5, 3, 8.5), inked}, dist, box, 2, 2, 1))

	assert.Equal(t, 0.0, coverage([]glyph.Segment{inked}, nil, image.Rectangle{}, -100, 1, 1))
}
