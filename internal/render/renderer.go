package render

import (
	"fmt"
	"image"
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
	"seehuhn.de/go/geom/vec"

	"github.com/ironsheep/cistercian-mcp/internal/glyph"
)

// Frame maps the normalized glyph frame onto pixel coordinates.
type Frame struct {
	// CX, CY is the pixel position of the stem midpoint.
	CX, CY float64
	// scale is the pixel length of half the stem.
	scale float64
}

func newFrame(width, height int) Frame {
	// The glyph is 2 units tall and at most 4/3 units wide.
	s := 0.375 * min(float64(height), 1.5*float64(width))
	return Frame{CX: float64(width) / 2, CY: float64(height) / 2, scale: s}
}

// Scale returns the number of pixels per glyph-frame unit (half the stem).
func (f Frame) Scale() float64 {
	return f.scale
}

// Point converts a glyph-frame point into pixel coordinates.
func (f Frame) Point(p vec.Vec2) vec.Vec2 {
	return vec.Vec2{X: f.CX + p.X*f.scale, Y: f.CY + p.Y*f.scale}
}

// Renderer draws glyphs with fixed options. It holds no mutable state and is
// safe for concurrent use.
type Renderer struct {
	opts  Options
	frame Frame
	bg    color.RGBA
	fg    color.RGBA
}

// New validates opts and returns a Renderer.
func New(opts Options) (*Renderer, error) {
	opts = opts.withDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	bg, _ := colorful.Hex(opts.Background)
	fg, _ := colorful.Hex(opts.Foreground)
	return &Renderer{
		opts:  opts,
		frame: newFrame(opts.Width, opts.Height),
		bg:    toRGBA(bg),
		fg:    toRGBA(fg),
	}, nil
}

// Options returns the effective options, defaults applied.
func (r *Renderer) Options() Options {
	return r.opts
}

// Frame returns the glyph-to-pixel mapping used by this renderer.
func (r *Renderer) Frame() Frame {
	return r.frame
}

// Render rasterizes g. The stem is always drawn; quadrants with digit 0
// contribute nothing, so the zero glyph is a bare vertical line.
func (r *Renderer) Render(g *glyph.Glyph) (*image.RGBA, error) {
	if g == nil {
		return nil, fmt.Errorf("render: nil glyph")
	}
	lines := make([]line, 0, 13)
	for _, s := range g.Segments() {
		lines = append(lines, line{a: r.frame.Point(s.Start), b: r.frame.Point(s.End)})
	}

	switch r.opts.Backend {
	case BackendGG:
		return r.renderGG(lines)
	default:
		return r.renderVector(lines), nil
	}
}

// line is a stroke in pixel space.
type line struct {
	a, b vec.Vec2
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
