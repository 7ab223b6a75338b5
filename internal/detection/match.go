package detection

import (
	"fmt"
	"image"
	"math"
	"slices"

	"seehuhn.de/go/geom/vec"

	"github.com/ironsheep/cistercian-mcp/internal/glyph"
	"github.com/ironsheep/cistercian-mcp/internal/imaging"
)

// MatchOptions tunes the stroke matcher. Zero fields take the
// DefaultMatchOptions value.
type MatchOptions struct {
	// Acceptance is the minimum score the winning digit needs.
	Acceptance float64

	// MinMargin is the minimum lead of the winner over the runner-up.
	MinMargin float64

	// Tolerance widens the stroke neighbourhood by this fraction of the stem
	// half-length, on top of the stem width.
	Tolerance float64

	// MinInk is the amount of ink, as a fraction of one box side drawn one
	// pixel wide, at which an empty quadrant stops being plausible.
	MinInk float64
}

// DefaultMatchOptions returns the standard acceptance criteria.
func DefaultMatchOptions() MatchOptions {
	return MatchOptions{
		Acceptance: 0.75,
		MinMargin:  0.1,
		Tolerance:  0.05,
		MinInk:     0.5,
	}
}

func (o MatchOptions) withDefaults() MatchOptions {
	def := DefaultMatchOptions()
	if o.Acceptance <= 0 {
		o.Acceptance = def.Acceptance
	}
	if o.MinMargin <= 0 {
		o.MinMargin = def.MinMargin
	}
	if o.Tolerance <= 0 {
		o.Tolerance = def.Tolerance
	}
	if o.MinInk <= 0 {
		o.MinInk = def.MinInk
	}
	return o
}

// Candidate is the score of one digit against a quadrant.
type Candidate struct {
	Digit glyph.Digit `json:"digit"`

	// Score is min(Coverage, Precision) for strokes, or the emptiness of the
	// quadrant for digit 0.
	Score float64 `json:"score"`

	// Coverage is the coverage of the template's least covered stroke.
	Coverage float64 `json:"coverage"`

	// Precision is the fraction of quadrant ink close to the template.
	Precision float64 `json:"precision"`
}

// Match is the verdict for one quadrant.
type Match struct {
	Quadrant   glyph.Quadrant `json:"-"`
	Digit      glyph.Digit    `json:"digit"`
	Confidence float64        `json:"confidence"`
	Ambiguous  bool           `json:"ambiguous"`
	Ink        int            `json:"ink"`

	// Candidates holds every digit's score, best first.
	Candidates []Candidate `json:"candidates"`
}

// Matcher scores quadrant contents against the template table. It holds only
// read-only state and is safe for concurrent use.
type Matcher struct {
	table *glyph.TemplateTable
	opts  MatchOptions
}

// NewMatcher creates a matcher over table.
func NewMatcher(table *glyph.TemplateTable, opts MatchOptions) *Matcher {
	return &Matcher{table: table, opts: opts.withDefaults()}
}

// Options returns the effective options.
func (m *Matcher) Options() MatchOptions {
	return m.opts
}

// Match scores all ten digits against quadrant q of a located glyph.
//
// Pixels within the stem band (widened by half the stroke tolerance) are
// ignored on both sides of the comparison, so a stroke touching the stem is
// judged by the part that leaves it.
//
// Parameters:
//   - img: normalized binary glyph
//   - layout: result of Locate on img
//   - q: quadrant to read
//
// Returns the best digit with its confidence. The match is Ambiguous when the
// best score is below Acceptance or its lead over the runner-up is below
// MinMargin.
func (m *Matcher) Match(img *imaging.BinaryImage, layout *Layout, q glyph.Quadrant) Match {
	box := layout.Boxes[q]
	radius := float64(layout.StemWidth()) + m.opts.Tolerance*layout.HalfLength
	exclude := float64(layout.StemWidth())/2 + radius/2

	ink := inkIn(img, box, layout.StemX, exclude)
	dist := distanceMap(ink, box)

	minInk := m.opts.MinInk * glyph.BoxSize * layout.HalfLength
	candidates := make([]Candidate, 0, 10)
	for d := glyph.Digit(0); d <= 9; d++ {
		if d == 0 {
			empty := 1 - math.Min(1, float64(len(ink))/minInk)
			candidates = append(candidates, Candidate{Digit: 0, Score: empty, Coverage: empty, Precision: empty})
			continue
		}

		segs, err := m.table.TemplateFor(d, q)
		if err != nil {
			continue
		}
		for i, s := range segs {
			segs[i] = glyph.Segment{Start: layout.ToImage(s.Start), End: layout.ToImage(s.End)}
		}

		c := Candidate{
			Digit:     d,
			Coverage:  coverage(segs, dist, box, layout.StemX, exclude, radius),
			Precision: precision(segs, ink, radius),
		}
		c.Score = math.Min(c.Coverage, c.Precision)
		candidates = append(candidates, c)
	}

	slices.SortStableFunc(candidates, func(a, b Candidate) int {
		if a.Score != b.Score {
			if a.Score > b.Score {
				return -1
			}
			return 1
		}
		la, lb := m.table.StrokeLength(a.Digit), m.table.StrokeLength(b.Digit)
		switch {
		case la < lb:
			return -1
		case la > lb:
			return 1
		}
		return int(a.Digit) - int(b.Digit)
	})

	best := candidates[0]
	margin := best.Score - candidates[1].Score
	return Match{
		Quadrant:   q,
		Digit:      best.Digit,
		Confidence: best.Score,
		Ambiguous:  best.Score < m.opts.Acceptance || margin < m.opts.MinMargin,
		Ink:        len(ink),
		Candidates: candidates,
	}
}

// String summarises a match for logs.
func (m Match) String() string {
	s := fmt.Sprintf("%s=%d (%.2f)", m.Quadrant, m.Digit, m.Confidence)
	if m.Ambiguous {
		s += " ambiguous"
	}
	return s
}

// inkIn collects the foreground pixels of box that lie outside the stem band.
func inkIn(img *imaging.BinaryImage, box image.Rectangle, stemX, exclude float64) []image.Point {
	var ink []image.Point
	for y := box.Min.Y; y < box.Max.Y; y++ {
		for x := box.Min.X; x < box.Max.X; x++ {
			if !img.Foreground(x, y) {
				continue
			}
			if math.Abs(float64(x)+0.5-stemX) <= exclude {
				continue
			}
			ink = append(ink, image.Pt(x, y))
		}
	}
	return ink
}

// coverage returns the smallest, over all segments, fraction of sample points
// (one per pixel of length) lying within radius of ink. Samples inside the
// stem band do not count; samples past the box edge are tested at the
// nearest box pixel. An empty box has no coverage.
func coverage(segs []glyph.Segment, dist []float64, box image.Rectangle, stemX, exclude, radius float64) float64 {
	if box.Empty() {
		return 0
	}
	worst := 1.0
	for _, s := range segs {
		n := max(1, int(math.Ceil(s.Length())))
		step := s.End.Sub(s.Start).Mul(1 / float64(n))

		total, hit := 0, 0
		for i := 0; i <= n; i++ {
			p := s.Start.Add(step.Mul(float64(i)))
			if math.Abs(p.X-stemX) <= exclude {
				continue
			}
			x, y := int(math.Floor(p.X)), int(math.Floor(p.Y))
			x = min(max(x, box.Min.X), box.Max.X-1)
			y = min(max(y, box.Min.Y), box.Max.Y-1)
			total++
			if dist[(y-box.Min.Y)*box.Dx()+(x-box.Min.X)] <= radius {
				hit++
			}
		}
		if total > 0 {
			worst = math.Min(worst, float64(hit)/float64(total))
		}
	}
	return worst
}

// precision returns the fraction of ink pixels whose centre lies within radius
// of some segment. No ink yields zero: a stroke template never explains an
// empty quadrant.
func precision(segs []glyph.Segment, ink []image.Point, radius float64) float64 {
	if len(ink) == 0 {
		return 0
	}
	near := 0
	for _, p := range ink {
		c := vec.Vec2{X: float64(p.X) + 0.5, Y: float64(p.Y) + 0.5}
		for _, s := range segs {
			if s.Distance(c) <= radius {
				near++
				break
			}
		}
	}
	return float64(near) / float64(len(ink))
}

// distanceMap returns, for every pixel of box, the approximate Euclidean
// distance to the nearest ink pixel, using a two-pass chamfer transform with
// weights 1 and sqrt(2). Without ink every entry is +Inf.
func distanceMap(ink []image.Point, box image.Rectangle) []float64 {
	w, h := box.Dx(), box.Dy()
	dist := make([]float64, w*h)
	for i := range dist {
		dist[i] = math.Inf(1)
	}
	for _, p := range ink {
		dist[(p.Y-box.Min.Y)*w+(p.X-box.Min.X)] = 0
	}

	const diag = math.Sqrt2
	relax := func(x, y, nx, ny int, cost float64) {
		if nx < 0 || ny < 0 || nx >= w || ny >= h {
			return
		}
		if d := dist[ny*w+nx] + cost; d < dist[y*w+x] {
			dist[y*w+x] = d
		}
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			relax(x, y, x-1, y, 1)
			relax(x, y, x, y-1, 1)
			relax(x, y, x-1, y-1, diag)
			relax(x, y, x+1, y-1, diag)
		}
	}
	for y := h - 1; y >= 0; y-- {
		for x := w - 1; x >= 0; x-- {
			relax(x, y, x+1, y, 1)
			relax(x, y, x, y+1, 1)
			relax(x, y, x+1, y+1, diag)
			relax(x, y, x-1, y+1, diag)
		}
	}
	return dist
}
