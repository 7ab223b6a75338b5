package cistercian

import (
	"fmt"
	"image"

	"github.com/ironsheep/cistercian-mcp/internal/detection"
	"github.com/ironsheep/cistercian-mcp/internal/glyph"
	"github.com/ironsheep/cistercian-mcp/internal/imaging"
)

// DecoderOptions groups the tuning of every recognition stage. Zero fields
// take each stage's defaults.
type DecoderOptions struct {
	Normalize imaging.NormalizeOptions
	Locate    detection.LocateOptions
	Match     detection.MatchOptions
}

// DefaultDecoderOptions returns the defaults of every stage.
func DefaultDecoderOptions() DecoderOptions {
	return DecoderOptions{
		Normalize: imaging.DefaultNormalizeOptions(),
		Locate:    detection.DefaultLocateOptions(),
		Match:     detection.DefaultMatchOptions(),
	}
}

// Result is a recognized glyph.
type Result struct {
	Digits     glyph.Digits         `json:"digits"`
	Confidence [4]float64           `json:"confidence"`
	Matches    [4]detection.Match   `json:"matches"`
	Layout     *detection.Layout    `json:"layout"`
	Binary     *imaging.BinaryImage `json:"-"`
}

// Value composes the decoded integer:
// units + 10*tens + 100*hundreds + 1000*thousands.
func (r *Result) Value() int {
	return r.Digits.Value()
}

// MinConfidence returns the lowest per-quadrant confidence.
func (r *Result) MinConfidence() float64 {
	m := r.Confidence[0]
	for _, c := range r.Confidence[1:] {
		m = min(m, c)
	}
	return m
}

// Ambiguous lists the quadrants that were not read confidently, in place
// value order.
func (r *Result) Ambiguous() []glyph.Quadrant {
	var qs []glyph.Quadrant
	for _, q := range glyph.Quadrants {
		if r.Matches[q].Ambiguous {
			qs = append(qs, q)
		}
	}
	return qs
}

// Decoder recovers integers from glyph images. It holds only read-only state
// and is safe for concurrent use.
type Decoder struct {
	opts    DecoderOptions
	matcher *detection.Matcher
}

// NewDecoder creates a decoder matching against table.
func NewDecoder(table *glyph.TemplateTable, opts DecoderOptions) *Decoder {
	return &Decoder{
		opts:    opts,
		matcher: detection.NewMatcher(table, opts.Match),
	}
}

// Inspect runs the full recognition pipeline and returns every stage's
// findings, ambiguous quadrants included. It fails only when there is no
// glyph to read: no foreground (imaging.ErrEmptyImage) or no stem
// (detection.ErrStemNotFound).
func (d *Decoder) Inspect(img image.Image) (*Result, error) {
	bin, err := imaging.Normalize(img, d.opts.Normalize)
	if err != nil {
		return nil, err
	}

	layout, err := detection.Locate(bin, d.opts.Locate)
	if err != nil {
		return nil, err
	}

	res := &Result{Layout: layout, Binary: bin}
	for _, q := range glyph.Quadrants {
		m := d.matcher.Match(bin, layout, q)
		res.Matches[q] = m
		res.Digits[q] = m.Digit
		res.Confidence[q] = m.Confidence
	}
	return res, nil
}

// Recognize decodes img into its four digits.
//
// Returns *QuadrantAmbiguousError naming every quadrant that could not be
// read; no partial value is returned in that case.
func (d *Decoder) Recognize(img image.Image) (*Result, error) {
	res, err := d.Inspect(img)
	if err != nil {
		return nil, err
	}
	if qs := res.Ambiguous(); len(qs) > 0 {
		return nil, &QuadrantAmbiguousError{Quadrants: qs, Result: res}
	}
	return res, nil
}

// Decode returns the integer shown in img.
func (d *Decoder) Decode(img image.Image) (int, error) {
	res, err := d.Recognize(img)
	if err != nil {
		return 0, fmt.Errorf("decode: %w", err)
	}
	return res.Value(), nil
}
