package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
)

// Mark is an annotation drawn by Overlay: a rectangle outline (or a
// translucent fill) with an optional short label in its top-left corner.
type Mark struct {
	Rect  image.Rectangle
	Color color.RGBA
	Fill  bool
	// Label may hold digits, '?', '=' and '-'; other runes leave a blank.
	Label string
}

// OverlayResult contains the annotated image.
type OverlayResult struct {
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Scale    int    `json:"scale"`
	DataURI  string `json:"image"`
	MimeType string `json:"mime_type"`
}

// Overlay enlarges img by an integer factor (nearest neighbour, so binary
// pixels stay crisp) and draws marks on top. Mark rectangles are given in the
// coordinates of img.
//
// Parameters:
//   - img: image to annotate, typically a normalized BinaryImage
//   - scale: enlargement factor; values below 1 are treated as 1
//   - marks: annotations, drawn in order
//
// Returns the annotated image as a PNG data URI.
func Overlay(img image.Image, scale int, marks []Mark) (*OverlayResult, error) {
	scale = max(1, scale)
	bounds := img.Bounds()
	width, height := bounds.Dx()*scale, bounds.Dy()*scale

	enlarged := imaging.Resize(img, width, height, imaging.NearestNeighbor)
	result := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(result, result.Bounds(), enlarged, image.Point{}, draw.Src)

	for _, m := range marks {
		r := image.Rect(
			(m.Rect.Min.X-bounds.Min.X)*scale, (m.Rect.Min.Y-bounds.Min.Y)*scale,
			(m.Rect.Max.X-bounds.Min.X)*scale, (m.Rect.Max.Y-bounds.Min.Y)*scale,
		).Intersect(result.Bounds())
		if r.Empty() {
			continue
		}
		if m.Fill {
			draw.Draw(result, r, image.NewUniform(m.Color), image.Point{}, draw.Over)
		} else {
			outline(result, r, m.Color)
		}
		if m.Label != "" {
			drawLabel(result, r.Min.X+2, r.Min.Y+2, m.Label, color.RGBA{255, 255, 255, 255}, m.Color)
		}
	}

	uri, err := EncodeDataURI(result)
	if err != nil {
		return nil, fmt.Errorf("failed to encode overlay: %w", err)
	}

	return &OverlayResult{
		Width:    width,
		Height:   height,
		Scale:    scale,
		DataURI:  uri,
		MimeType: "image/png",
	}, nil
}

// outline draws the one-pixel border of r.
func outline(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	for x := r.Min.X; x < r.Max.X; x++ {
		img.SetRGBA(x, r.Min.Y, c)
		img.SetRGBA(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.SetRGBA(r.Min.X, y, c)
		img.SetRGBA(r.Max.X-1, y, c)
	}
}

// labelFont is a 3x5 pixel font.
var labelFont = map[rune][]string{
	'0': {"111", "101", "101", "101", "111"},
	'1': {"010", "110", "010", "010", "111"},
	'2': {"111", "001", "111", "100", "111"},
	'3': {"111", "001", "111", "001", "111"},
	'4': {"101", "101", "111", "001", "001"},
	'5': {"111", "100", "111", "001", "111"},
	'6': {"111", "100", "111", "101", "111"},
	'7': {"111", "001", "001", "001", "001"},
	'8': {"111", "101", "111", "101", "111"},
	'9': {"111", "101", "111", "001", "111"},
	'?': {"111", "001", "011", "000", "010"},
	'=': {"000", "111", "000", "111", "000"},
	'-': {"000", "000", "111", "000", "000"},
}

// drawLabel draws text in labelFont on a solid background box.
func drawLabel(img *image.RGBA, x, y int, text string, fg, bg color.RGBA) {
	const charWidth = 4
	bounds := img.Bounds()

	box := image.Rect(x-1, y-1, x+len(text)*charWidth, y+6).Intersect(bounds)
	draw.Draw(img, box, image.NewUniform(bg), image.Point{}, draw.Src)

	cx := x
	for _, ch := range text {
		rows, ok := labelFont[ch]
		if !ok {
			cx += charWidth
			continue
		}
		for row, line := range rows {
			for col, pixel := range line {
				if pixel != '1' {
					continue
				}
				if p := image.Pt(cx+col, y+row); p.In(bounds) {
					img.SetRGBA(p.X, p.Y, fg)
				}
			}
		}
		cx += charWidth
	}
}
