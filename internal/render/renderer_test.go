package render

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/cistercian-mcp/internal/glyph"
)

// inkBounds returns the bounding box of pixels darker than mid-gray.
func inkBounds(img *image.RGBA) image.Rectangle {
	var r image.Rectangle
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.RGBAAt(x, y).R < 128 {
				r = r.Union(image.Rect(x, y, x+1, y+1))
			}
		}
	}
	return r
}

// inkIn counts dark pixels inside r.
func inkIn(img *image.RGBA, r image.Rectangle) int {
	n := 0
	r = r.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if img.RGBAAt(x, y).R < 128 {
				n++
			}
		}
	}
	return n
}

func compose(t *testing.T, n int) *glyph.Glyph {
	t.Helper()
	g, err := glyph.NewTemplateTable().ComposeDigits(glyph.Split(n))
	require.NoError(t, err)
	return g
}

func TestRender_ZeroGlyphIsCentredLine(t *testing.T) {
	for _, backend := range []string{BackendVector, BackendGG} {
		t.Run(backend, func(t *testing.T) {
			r, err := New(Options{Backend: backend})
			require.NoError(t, err)

			img, err := r.Render(compose(t, 0))
			require.NoError(t, err)
			require.Equal(t, image.Rect(0, 0, 300, 400), img.Bounds())

			ink := inkBounds(img)
			assert.LessOrEqual(t, ink.Dx(), 6, "bare stem should be a thin line")
			assert.InDelta(t, 150, (ink.Min.X+ink.Max.X)/2, 2, "stem centred horizontally")
			assert.InDelta(t, 200, (ink.Min.Y+ink.Max.Y)/2, 2, "stem centred vertically")
			assert.Greater(t, ink.Dy(), 250)
		})
	}
}

func TestRender_AllQuadrantsInked(t *testing.T) {
	r, err := New(DefaultOptions())
	require.NoError(t, err)

	img, err := r.Render(compose(t, 9999))
	require.NoError(t, err)

	// Quadrant interiors, keeping clear of the stem.
	cases := map[string]image.Rectangle{
		"upper-right": image.Rect(156, 40, 300, 200),
		"upper-left":  image.Rect(0, 40, 144, 200),
		"lower-right": image.Rect(156, 200, 300, 360),
		"lower-left":  image.Rect(0, 200, 144, 360),
	}
	for name, rect := range cases {
		assert.Greater(t, inkIn(img, rect), 100, name)
	}
}

func TestRender_OnlyUnitsQuadrantInked(t *testing.T) {
	r, err := New(DefaultOptions())
	require.NoError(t, err)

	img, err := r.Render(compose(t, 9))
	require.NoError(t, err)

	assert.Greater(t, inkIn(img, image.Rect(156, 40, 300, 200)), 100)
	assert.Zero(t, inkIn(img, image.Rect(0, 0, 144, 400)), "left of stem")
	assert.Zero(t, inkIn(img, image.Rect(156, 210, 300, 400)), "below midline")
}

func TestRender_Colours(t *testing.T) {
	r, err := New(Options{Background: "#000080", Foreground: "#ffff00"})
	require.NoError(t, err)

	img, err := r.Render(compose(t, 0))
	require.NoError(t, err)

	bg := img.RGBAAt(5, 5)
	assert.Equal(t, uint8(0x80), bg.B)
	stem := img.RGBAAt(150, 200)
	assert.Equal(t, uint8(0xff), stem.R)
	assert.Equal(t, uint8(0xff), stem.G)
}

func TestNew_InvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"tiny image", Options{Width: 8, Height: 8}},
		{"huge image", Options{Width: 200000, Height: 200000}},
		{"too wide", Options{Width: MaxSide + 1}},
		{"negative stroke", Options{StrokeWidth: -1}},
		{"stroke too wide", Options{StrokeWidth: 60}},
		{"bad background", Options{Background: "#zzzzzz"}},
		{"bad foreground", Options{Foreground: "black"}},
		{"no contrast", Options{Background: "#ffffff", Foreground: "#fefefe"}},
		{"unknown backend", Options{Backend: "cairo"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts)
			assert.Error(t, err)
		})
	}
}

func TestValidate_MaxSide(t *testing.T) {
	assert.NoError(t, Options{Width: MaxSide, Height: MaxSide}.Validate())
	assert.Error(t, Options{Height: MaxSide + 1}.Validate())
}

func TestRender_NilGlyph(t *testing.T) {
	r, err := New(DefaultOptions())
	require.NoError(t, err)
	_, err = r.Render(nil)
	assert.Error(t, err)
}

func TestFrame_Point(t *testing.T) {
	f := newFrame(300, 400)
	assert.InDelta(t, 150.0, f.Scale(), 1e-9)

	top := f.Point(glyph.Stem.Start)
	assert.InDelta(t, 150.0, top.X, 1e-9)
	assert.InDelta(t, 50.0, top.Y, 1e-9)

	bottom := f.Point(glyph.Stem.End)
	assert.InDelta(t, 350.0, bottom.Y, 1e-9)
}
