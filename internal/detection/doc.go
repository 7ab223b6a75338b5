// Package detection reads a Cistercian glyph out of a normalized binary image.
//
// Recognition happens in two steps. Locate finds the stem and fixes the
// glyph frame on the image; a Matcher then compares the ink of each quadrant
// with the stroke templates of every digit.
//
// # Stem Location
//
// The stem is the one feature every glyph has, including zero:
//
//  1. Column histogram: the densest column inside a central band is the stem
//     candidate
//  2. Stem band: neighbouring columns with at least half the candidate's count
//     widen it to the stroke thickness
//  3. Vertical run: the longest run of inked rows in the band, tolerating short
//     gaps, gives the stem's top and bottom
//  4. Acceptance: the run must cover most of the foreground height, otherwise
//     ErrStemNotFound
//
// The resulting Layout maps glyph-frame coordinates (stem from y=-1 to y=+1 on
// x=0) onto pixels and carries one search rectangle per quadrant.
//
// # Stroke Matching
//
// Every digit's template is projected into the quadrant and scored on:
//
//   - Coverage: share of sample points along each template stroke that have
//     ink within a tolerance radius; the weakest stroke decides
//   - Precision: share of the quadrant's ink within the radius of some
//     template stroke
//
// A digit scores the smaller of the two. Digit 0 scores by how little ink the
// quadrant holds. Pixels in the stem band are ignored on both sides.
//
// # Confidence Scores
//
// Scores run from 0.0 to 1.0. A quadrant is ambiguous when the best score is
// below the acceptance threshold or leads the runner-up by less than the
// minimum margin; callers must not guess a digit for an ambiguous quadrant.
//
// # Coordinate System
//
// All pixel coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//   - Rectangles use inclusive top-left and exclusive bottom-right
//
// Continuous coordinates (StemX, Mid, template points) place pixel (x, y) at
// the square [x, x+1) x [y, y+1).
//
// # Limitations
//
// Deskewing is limited to what the stem band and row slack absorb, a few
// degrees. Severely rotated or perspective-distorted glyphs fail with
// ErrStemNotFound or an ambiguous quadrant.
package detection
