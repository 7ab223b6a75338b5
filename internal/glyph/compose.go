package glyph

import (
	"fmt"
	"slices"
)

// Stem is the shared vertical stroke every numeral carries.
var Stem = Seg(0, StemTop, 0, StemBottom)

// Glyph is the composed geometry of one numeral: the stem plus the strokes of
// each quadrant's digit. A Glyph is never modified after Compose returns it.
type Glyph struct {
	Stem    Segment
	Digits  Digits
	Strokes [4][]Segment
}

// Compose assembles the glyph for the given place digits. Each digit must
// already be in [0,9]; an out-of-range digit returns *InvalidDigitError.
func (t *TemplateTable) Compose(thousands, hundreds, tens, units Digit) (*Glyph, error) {
	var d Digits
	d[Thousands], d[Hundreds], d[Tens], d[Units] = thousands, hundreds, tens, units
	return t.ComposeDigits(d)
}

// ComposeDigits is Compose with the digits indexed by quadrant.
func (t *TemplateTable) ComposeDigits(d Digits) (*Glyph, error) {
	g := &Glyph{Stem: Stem, Digits: d}
	for _, q := range Quadrants {
		if !d[q].Valid() {
			return nil, fmt.Errorf("compose %s: %w", q, &InvalidDigitError{Digit: d[q]})
		}
		g.Strokes[q] = slices.Clone(t.template(d[q], q))
	}
	return g, nil
}

// Value returns the integer the glyph represents.
func (g *Glyph) Value() int {
	return g.Digits.Value()
}

// Segments returns every stroke of the glyph, stem first, then quadrants in
// place-value order.
func (g *Glyph) Segments() []Segment {
	n := 1
	for _, s := range g.Strokes {
		n += len(s)
	}
	out := make([]Segment, 0, n)
	out = append(out, g.Stem)
	for _, q := range Quadrants {
		out = append(out, g.Strokes[q]...)
	}
	return out
}
