package render

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/gogpu/gg"
)

// renderGG strokes each line through a gg software context.
func (r *Renderer) renderGG(lines []line) (*image.RGBA, error) {
	dc := gg.NewContext(r.opts.Width, r.opts.Height)
	defer dc.Close()

	dc.ClearWithColor(gg.FromColor(r.bg))
	dc.SetColor(r.fg)
	dc.SetLineWidth(r.opts.StrokeWidth)
	dc.SetLineCap(gg.LineCapSquare)

	for _, l := range lines {
		dc.DrawLine(l.a.X, l.a.Y, l.b.X, l.b.Y)
		if err := dc.Stroke(); err != nil {
			return nil, fmt.Errorf("gg stroke: %w", err)
		}
	}

	src := dc.Image()
	if rgba, ok := src.(*image.RGBA); ok {
		return rgba, nil
	}
	dst := image.NewRGBA(src.Bounds())
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
	return dst, nil
}
