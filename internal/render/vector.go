package render

import (
	"image"
	"image/draw"

	"golang.org/x/image/vector"
	"seehuhn.de/go/geom/vec"
)

// renderVector fills one square-capped quad per stroke. Each quad is drawn
// into the coverage mask separately so overlapping strokes combine with
// "over" instead of winding arithmetic.
func (r *Renderer) renderVector(lines []line) *image.RGBA {
	w, h := r.opts.Width, r.opts.Height
	bounds := image.Rect(0, 0, w, h)

	mask := image.NewAlpha(bounds)
	opaque := image.Opaque
	z := vector.NewRasterizer(w, h)
	half := r.opts.StrokeWidth / 2

	for _, l := range lines {
		corners, ok := strokeQuad(l.a, l.b, half)
		if !ok {
			continue
		}
		z.Reset(w, h)
		z.DrawOp = draw.Over
		z.MoveTo(float32(corners[0].X), float32(corners[0].Y))
		for _, c := range corners[1:] {
			z.LineTo(float32(c.X), float32(c.Y))
		}
		z.ClosePath()
		z.Draw(mask, bounds, opaque, image.Point{})
	}

	dst := image.NewRGBA(bounds)
	draw.Draw(dst, bounds, image.NewUniform(r.bg), image.Point{}, draw.Src)
	draw.DrawMask(dst, bounds, image.NewUniform(r.fg), image.Point{}, mask, image.Point{}, draw.Over)
	return dst
}

// strokeQuad returns the outline of the segment a-b widened to 2*half, with
// the ends extended by half (square caps).
func strokeQuad(a, b vec.Vec2, half float64) ([4]vec.Vec2, bool) {
	d := b.Sub(a)
	length := d.Length()
	if length == 0 {
		return [4]vec.Vec2{}, false
	}
	t := d.Mul(half / length)
	n := vec.Vec2{X: -t.Y, Y: t.X}
	a, b = a.Sub(t), b.Add(t)
	return [4]vec.Vec2{a.Add(n), b.Add(n), b.Sub(n), a.Sub(n)}, true
}
