package cistercian

import (
	"fmt"
	"image"

	"github.com/ironsheep/cistercian-mcp/internal/glyph"
	"github.com/ironsheep/cistercian-mcp/internal/render"
)

// Encoder turns integers into glyph images. It is safe for concurrent use.
type Encoder struct {
	table    *glyph.TemplateTable
	renderer *render.Renderer
}

// NewEncoder creates an encoder drawing with the given render options.
func NewEncoder(table *glyph.TemplateTable, opts render.Options) (*Encoder, error) {
	r, err := render.New(opts)
	if err != nil {
		return nil, err
	}
	return &Encoder{table: table, renderer: r}, nil
}

// WithSize returns an encoder identical to e but drawing at the given size.
// Zero values keep the current dimension.
func (e *Encoder) WithSize(width, height int) (*Encoder, error) {
	opts := e.renderer.Options()
	if width > 0 {
		opts.Width = width
	}
	if height > 0 {
		opts.Height = height
	}
	return NewEncoder(e.table, opts)
}

// Options returns the render options in effect.
func (e *Encoder) Options() render.Options {
	return e.renderer.Options()
}

// EncodeGlyph composes the glyph geometry for n.
//
// Returns *RangeError when n is outside [0, 9999].
func (e *Encoder) EncodeGlyph(n int) (*glyph.Glyph, error) {
	if n < 0 || n > glyph.MaxValue {
		return nil, &RangeError{Number: n}
	}
	g, err := e.table.ComposeDigits(glyph.Split(n))
	if err != nil {
		return nil, fmt.Errorf("compose %d: %w", n, err)
	}
	return g, nil
}

// Encode renders the glyph for n.
//
// Returns *RangeError when n is outside [0, 9999].
func (e *Encoder) Encode(n int) (*image.RGBA, error) {
	g, err := e.EncodeGlyph(n)
	if err != nil {
		return nil, err
	}
	img, err := e.renderer.Render(g)
	if err != nil {
		return nil, fmt.Errorf("render %d: %w", n, err)
	}
	return img, nil
}
