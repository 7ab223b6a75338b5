package detection

import (
	"errors"
	"fmt"
	"image"
	"math"

	"seehuhn.de/go/geom/vec"

	"github.com/ironsheep/cistercian-mcp/internal/glyph"
	"github.com/ironsheep/cistercian-mcp/internal/imaging"
)

// ErrStemNotFound is returned when no column near the centre carries a
// vertical run long enough to be the stem.
var ErrStemNotFound = errors.New("no central vertical stem found")

// LocateOptions tunes stem detection. Zero fields take the
// DefaultLocateOptions value.
type LocateOptions struct {
	// Band is the fraction of the image width, centred, searched for the stem.
	Band float64

	// MinSpan is the fraction of the foreground height the stem's vertical
	// run must cover.
	MinSpan float64

	// Reach is how far a quadrant box extends from the stem, as a multiple of
	// the template box width.
	Reach float64

	// MaxWidth is the widest stem band accepted, as a fraction of the
	// stem's vertical run.
	MaxWidth float64
}

// DefaultLocateOptions returns the standard stem criteria.
func DefaultLocateOptions() LocateOptions {
	return LocateOptions{
		Band:     0.2,
		MinSpan:  0.85,
		Reach:    1.3,
		MaxWidth: 0.2,
	}
}

func (o LocateOptions) withDefaults() LocateOptions {
	def := DefaultLocateOptions()
	if o.Band <= 0 {
		o.Band = def.Band
	}
	if o.MinSpan <= 0 {
		o.MinSpan = def.MinSpan
	}
	if o.Reach <= 0 {
		o.Reach = def.Reach
	}
	if o.MaxWidth <= 0 {
		o.MaxWidth = def.MaxWidth
	}
	return o
}

// Layout describes where the stem is and how the glyph frame maps onto the
// binary image.
type Layout struct {
	// Width and Height of the image the layout was measured on.
	Width  int `json:"width"`
	Height int `json:"height"`

	// StemLeft and StemRight are the first and last stem columns (inclusive).
	StemLeft  int `json:"stem_left"`
	StemRight int `json:"stem_right"`

	// Top and Bottom are the first and last rows of the stem run (inclusive).
	Top    int `json:"top"`
	Bottom int `json:"bottom"`

	// StemX is the continuous x coordinate of the stem centre line.
	StemX float64 `json:"stem_x"`

	// Mid is the continuous y coordinate of the midline.
	Mid float64 `json:"mid"`

	// HalfLength is half the stem length in pixels: one glyph-frame unit.
	HalfLength float64 `json:"half_length"`

	// Span is the stem run length divided by the foreground height.
	Span float64 `json:"span"`

	// Boxes holds each quadrant's search rectangle, indexed by glyph.Quadrant.
	Boxes [4]image.Rectangle `json:"boxes"`
}

// StemWidth returns the stem thickness in pixels.
func (l *Layout) StemWidth() int {
	return l.StemRight - l.StemLeft + 1
}

// ToImage maps a glyph-frame point into continuous pixel coordinates.
func (l *Layout) ToImage(p vec.Vec2) vec.Vec2 {
	return vec.Vec2{X: l.StemX + p.X*l.HalfLength, Y: l.Mid + p.Y*l.HalfLength}
}

// Locate finds the stem of a normalized glyph and derives the quadrant boxes.
//
// # Algorithm
//
//  1. Count foreground pixels per column inside a band around the horizontal
//     centre; the densest column is the stem candidate (ties go to the column
//     nearest the centre)
//  2. Grow the stem band over neighbouring columns holding at least half the
//     candidate's count; a band still growing after Height/8 columns on a
//     side is a block of ink, not a line
//  3. Find the longest vertical run of rows with ink in the stem band, allowing
//     small gaps; a slack of a few pixels either side tolerates slight slant
//  4. Reject unless the run covers MinSpan of the foreground height and the
//     band is no wider than MaxWidth of the run
//  5. Midline and quadrant boxes follow from the run and the fixed glyph
//     proportions
//
// Returns ErrStemNotFound when the criteria are not met.
func Locate(img *imaging.BinaryImage, opts LocateOptions) (*Layout, error) {
	opts = opts.withDefaults()

	fg := img.ForegroundBounds()
	if fg.Empty() {
		return nil, fmt.Errorf("locate: %w", ErrStemNotFound)
	}

	centre := float64(img.Width-1) / 2
	halfBand := max(2, int(math.Round(opts.Band*float64(img.Width)/2)))
	x0 := max(0, int(centre)-halfBand)
	x1 := min(img.Width, int(centre)+halfBand+1)

	counts := img.ColumnCounts(image.Rect(0, 0, img.Width, img.Height))
	best := -1
	for x := x0; x < x1; x++ {
		if best < 0 || counts[x] > counts[best] ||
			(counts[x] == counts[best] && math.Abs(float64(x)-centre) < math.Abs(float64(best)-centre)) {
			best = x
		}
	}
	if best < 0 || counts[best] == 0 {
		return nil, fmt.Errorf("locate: empty centre band: %w", ErrStemNotFound)
	}

	dense := func(x int) bool {
		return x >= 0 && x < img.Width && 2*counts[x] >= counts[best]
	}
	maxHalf := max(1, img.Height/8)
	left, right := best, best
	for best-left < maxHalf && dense(left-1) {
		left--
	}
	for right-best < maxHalf && dense(right+1) {
		right++
	}
	if dense(left-1) || dense(right+1) {
		return nil, fmt.Errorf("locate: ink around column %d wider than %d columns: %w",
			best, 2*maxHalf+1, ErrStemNotFound)
	}

	slack := max(1, img.Height/60)
	gap := max(2, img.Height/40)
	top, bottom := longestRun(img, left-slack, right+slack, gap)

	span := float64(bottom-top+1) / float64(fg.Dy())
	if top < 0 || span < opts.MinSpan {
		return nil, fmt.Errorf("locate: longest vertical run covers %.0f%% of height, need %.0f%%: %w",
			100*span, 100*opts.MinSpan, ErrStemNotFound)
	}
	if width, run := right-left+1, bottom-top+1; float64(width) > opts.MaxWidth*float64(run) {
		return nil, fmt.Errorf("locate: stem band %d px wide for a %d px run: %w", width, run, ErrStemNotFound)
	}

	l := &Layout{
		Width:      img.Width,
		Height:     img.Height,
		StemLeft:   left,
		StemRight:  right,
		Top:        top,
		Bottom:     bottom,
		StemX:      float64(left+right+1) / 2,
		Mid:        float64(top+bottom+1) / 2,
		HalfLength: float64(bottom+1-top) / 2,
		Span:       span,
	}
	l.Boxes = quadrantBoxes(l, opts.Reach)
	return l, nil
}

// longestRun returns the first and last row of the longest vertical run of
// rows holding ink between columns x0 and x1 (inclusive). Gaps of up to
// maxGap empty rows do not break a run. It returns (-1, -2) when no row has
// ink.
func longestRun(img *imaging.BinaryImage, x0, x1, maxGap int) (int, int) {
	bestTop, bestBottom := -1, -2
	runTop, last := -1, -1

	for y := 0; y < img.Height; y++ {
		if img.CountIn(image.Rect(x0, y, x1+1, y+1)) == 0 {
			continue
		}
		if runTop < 0 || y-last-1 > maxGap {
			runTop = y
		}
		last = y
		if last-runTop > bestBottom-bestTop {
			bestTop, bestBottom = runTop, last
		}
	}
	return bestTop, bestBottom
}

// quadrantBoxes derives the search rectangle of every quadrant: from the stem
// edge outwards by reach template boxes, and from the midline to slightly past
// the stem end.
func quadrantBoxes(l *Layout, reach float64) [4]image.Rectangle {
	outer := int(math.Ceil(reach * glyph.BoxOuter * l.HalfLength))
	pad := int(math.Ceil(0.1 * l.HalfLength))
	mid := int(math.Round(l.Mid))

	right := image.Rect(l.StemRight+1, 0, l.StemRight+1+outer, 0)
	left := image.Rect(l.StemLeft-outer, 0, l.StemLeft, 0)
	upperY0, upperY1 := l.Top-pad, mid
	lowerY0, lowerY1 := mid, l.Bottom+1+pad

	bounds := image.Rect(0, 0, l.Width, l.Height)
	var boxes [4]image.Rectangle
	boxes[glyph.Units] = image.Rect(right.Min.X, upperY0, right.Max.X, upperY1).Intersect(bounds)
	boxes[glyph.Tens] = image.Rect(left.Min.X, upperY0, left.Max.X, upperY1).Intersect(bounds)
	boxes[glyph.Hundreds] = image.Rect(right.Min.X, lowerY0, right.Max.X, lowerY1).Intersect(bounds)
	boxes[glyph.Thousands] = image.Rect(left.Min.X, lowerY0, left.Max.X, lowerY1).Intersect(bounds)
	return boxes
}
