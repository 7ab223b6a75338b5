package glyph

import (
	"fmt"
	"slices"

	"seehuhn.de/go/geom/vec"
)

// Anchor coordinates of the units quadrant box in the glyph frame.
const (
	// StemTop is the y coordinate of the top of the stem.
	StemTop = -1.0
	// StemBottom is the y coordinate of the bottom of the stem.
	StemBottom = 1.0
	// BoxSize is the side of a quadrant box: one third of the stem.
	BoxSize = 2.0 / 3.0
	// BoxLow is the y coordinate of the lower edge of the units box.
	BoxLow = StemTop + BoxSize
	// BoxOuter is the x coordinate of the outer edge of the units box.
	BoxOuter = BoxSize
)

// Segment is a straight stroke between two points of the glyph frame.
type Segment struct {
	Start vec.Vec2 `json:"start"`
	End   vec.Vec2 `json:"end"`
}

// Seg builds a segment from raw coordinates.
func Seg(x0, y0, x1, y1 float64) Segment {
	return Segment{Start: vec.Vec2{X: x0, Y: y0}, End: vec.Vec2{X: x1, Y: y1}}
}

// Length returns the Euclidean length of the segment.
func (s Segment) Length() float64 {
	return s.End.Sub(s.Start).Length()
}

// Distance returns the distance from p to the closest point of s.
func (s Segment) Distance(p vec.Vec2) float64 {
	d := s.End.Sub(s.Start)
	l2 := d.Dot(d)
	if l2 == 0 {
		return p.Sub(s.Start).Length()
	}
	t := p.Sub(s.Start).Dot(d) / l2
	t = max(0, min(1, t))
	return p.Sub(s.Start.Add(d.Mul(t))).Length()
}

// Transform is an axis-aligned reflection of the glyph frame. SX and SY are
// each +1 or -1.
type Transform struct {
	SX float64
	SY float64
}

// Apply reflects a point.
func (t Transform) Apply(p vec.Vec2) vec.Vec2 {
	return vec.Vec2{X: p.X * t.SX, Y: p.Y * t.SY}
}

// Segment reflects both endpoints of s.
func (t Transform) Segment(s Segment) Segment {
	return Segment{Start: t.Apply(s.Start), End: t.Apply(s.End)}
}

// TemplateTable holds the stroke templates of all digits in all quadrants.
//
// Only the units-quadrant strokes are authored; the table for every other
// quadrant is produced from them by that quadrant's Transform.
type TemplateTable struct {
	base    [10][]Segment
	derived [4][10][]Segment
	lengths [10]float64
}

// NewTemplateTable builds the template table. The result is immutable.
func NewTemplateTable() *TemplateTable {
	var (
		top   = Seg(0, StemTop, BoxOuter, StemTop)        // 1
		low   = Seg(0, BoxLow, BoxOuter, BoxLow)          // 2
		down  = Seg(0, StemTop, BoxOuter, BoxLow)         // 3
		up    = Seg(0, BoxLow, BoxOuter, StemTop)         // 4
		outer = Seg(BoxOuter, StemTop, BoxOuter, BoxLow) // 6
	)

	t := &TemplateTable{}
	t.base = [10][]Segment{
		0: nil,
		1: {top},
		2: {low},
		3: {down},
		4: {up},
		5: {top, up},
		6: {outer},
		7: {top, outer},
		8: {low, outer},
		9: {top, low, outer},
	}

	for _, q := range Quadrants {
		tr := q.Transform()
		for d, segs := range t.base {
			out := make([]Segment, len(segs))
			for i, s := range segs {
				out[i] = tr.Segment(s)
			}
			t.derived[q][d] = out
		}
	}

	for d, segs := range t.base {
		for _, s := range segs {
			t.lengths[d] += s.Length()
		}
	}
	return t
}

// TemplateFor returns the strokes of digit d in quadrant q. Digit 0 yields an
// empty slice. The returned slice is a copy and may be modified by the caller.
func (t *TemplateTable) TemplateFor(d Digit, q Quadrant) ([]Segment, error) {
	if !d.Valid() {
		return nil, &InvalidDigitError{Digit: d}
	}
	if !q.Valid() {
		return nil, fmt.Errorf("invalid quadrant %d", int(q))
	}
	return slices.Clone(t.derived[q][d]), nil
}

// StrokeLength returns the total stroke length of digit d's template, which
// is the same in every quadrant. Invalid digits report zero.
func (t *TemplateTable) StrokeLength(d Digit) float64 {
	if !d.Valid() {
		return 0
	}
	return t.lengths[d]
}

// template is TemplateFor without validation or copying, for callers that
// have already checked d.
func (t *TemplateTable) template(d Digit, q Quadrant) []Segment {
	return t.derived[q][d]
}
