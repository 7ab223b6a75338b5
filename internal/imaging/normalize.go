package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"
)

// ErrEmptyImage is returned when an input has no usable foreground after
// thresholding: blank, uniform, too low in contrast, or only specks of noise.
var ErrEmptyImage = errors.New("image has no foreground")

// NormalizeOptions controls Normalize. Zero fields take the
// DefaultNormalizeOptions value.
type NormalizeOptions struct {
	// WorkingHeight is the pixel height the foreground is rescaled to.
	WorkingHeight int

	// Margin is the background border added on every side of the result.
	Margin int

	// MaxInputSide caps the longest input side; larger inputs are shrunk with
	// a Lanczos filter before any other step.
	MaxInputSide int

	// MinContrast is the smallest spread between the darkest and brightest
	// intensity for the image to be considered non-blank.
	MinContrast uint8

	// BlurRadius applies a Gaussian blur before thresholding when positive.
	// Useful for photographs and scans; clean renders need none.
	BlurRadius float64

	// SpeckleFraction drops connected components smaller than this fraction
	// of the largest component.
	SpeckleFraction float64

	// MaxAspect caps the width of the centred mask at this multiple of its
	// height. Ink further from the stem column is cut off.
	MaxAspect float64
}

// DefaultNormalizeOptions returns settings tuned for rendered and hand-drawn
// glyphs.
func DefaultNormalizeOptions() NormalizeOptions {
	return NormalizeOptions{
		WorkingHeight:   120,
		Margin:          4,
		MaxInputSide:    1600,
		MinContrast:     32,
		SpeckleFraction: 0.02,
		MaxAspect:       4,
	}
}

func (o NormalizeOptions) withDefaults() NormalizeOptions {
	def := DefaultNormalizeOptions()
	if o.WorkingHeight <= 0 {
		o.WorkingHeight = def.WorkingHeight
	}
	if o.Margin < 0 {
		o.Margin = 0
	} else if o.Margin == 0 {
		o.Margin = def.Margin
	}
	if o.MaxInputSide <= 0 {
		o.MaxInputSide = def.MaxInputSide
	}
	if o.MinContrast == 0 {
		o.MinContrast = def.MinContrast
	}
	if o.SpeckleFraction <= 0 {
		o.SpeckleFraction = def.SpeckleFraction
	}
	if o.MaxAspect <= 0 {
		o.MaxAspect = def.MaxAspect
	}
	return o
}

// minSpeckle is the absolute size below which a component is always noise.
const minSpeckle = 3

// Normalize turns an arbitrary raster into a clean binary mask with the glyph
// stem centred horizontally and the foreground rescaled to a fixed height.
//
// # Algorithm
//
//  1. Flatten transparency over white and shrink oversized inputs
//  2. Convert to intensity (bild effect.Grayscale), optionally blur
//  3. Threshold at the Otsu level (bild segment.Threshold); whichever class
//     covers fewer pixels is the foreground, so light-on-dark input works too
//  4. Remove speckles, crop to the foreground bounding box and re-centre the
//     crop on the densest column, padding symmetrically; the result is at
//     most MaxAspect times as wide as it is tall
//  5. Rescale to WorkingHeight with max pooling, which keeps strokes thinner
//     than the scale factor instead of averaging them away
//
// Returns ErrEmptyImage when no foreground survives.
func Normalize(img image.Image, opts NormalizeOptions) (*BinaryImage, error) {
	opts = opts.withDefaults()
	if img == nil || img.Bounds().Empty() {
		return nil, fmt.Errorf("normalize: %w", ErrEmptyImage)
	}

	flat := flatten(img, opts.MaxInputSide)

	var gray image.Image = effect.Grayscale(flat)
	if opts.BlurRadius > 0 {
		gray = blur.Gaussian(gray, opts.BlurRadius)
	}
	lum := intensities(gray)

	lo, hi, level := otsu(lum)
	if hi-lo < opts.MinContrast {
		return nil, fmt.Errorf("normalize: contrast %d below %d: %w", hi-lo, opts.MinContrast, ErrEmptyImage)
	}

	mask := toBinary(segment.Threshold(gray, level+1))
	if mask.Count() == 0 {
		return nil, fmt.Errorf("normalize: %w", ErrEmptyImage)
	}
	mask.RemoveSpeckles(minSpeckle, opts.SpeckleFraction)

	box := mask.ForegroundBounds()
	if box.Empty() {
		return nil, fmt.Errorf("normalize: only noise found: %w", ErrEmptyImage)
	}

	maxHalf := int(opts.MaxAspect * float64(box.Dy()) / 2)
	centred := centreOnStem(mask, box, maxHalf)
	return rescale(centred, opts.WorkingHeight, opts.Margin), nil
}

// flatten composites img over white into a zero-origin RGBA, shrinking it
// first when its longest side exceeds maxSide.
func flatten(img image.Image, maxSide int) *image.RGBA {
	b := img.Bounds()
	if b.Dx() > maxSide || b.Dy() > maxSide {
		img = imaging.Fit(img, maxSide, maxSide, imaging.Lanczos)
		b = img.Bounds()
	}
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}

// intensities returns the 8-bit luminance of every pixel in row-major order.
func intensities(img image.Image) []uint8 {
	b := img.Bounds()
	if g, ok := img.(*image.Gray); ok && g.Stride == b.Dx() {
		return g.Pix[:b.Dx()*b.Dy()]
	}
	out := make([]uint8, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out = append(out, color.GrayModel.Convert(img.At(x, y)).(color.Gray).Y)
		}
	}
	return out
}

// otsu returns the darkest and brightest intensities present and the Otsu
// level: the threshold t maximizing between-class variance of [0,t] and
// (t,255].
func otsu(lum []uint8) (lo, hi, level uint8) {
	var hist [256]int
	for _, v := range lum {
		hist[v]++
	}

	lo, hi = 255, 0
	var sumAll float64
	for v, n := range hist {
		if n == 0 {
			continue
		}
		lo = min(lo, uint8(v))
		hi = max(hi, uint8(v))
		sumAll += float64(v * n)
	}

	total := float64(len(lum))
	var (
		wB, sumB float64
		best     = -1.0
	)
	level = lo
	for t := int(lo); t < int(hi); t++ {
		wB += float64(hist[t])
		sumB += float64(t * hist[t])
		wF := total - wB
		if wB == 0 || wF == 0 {
			continue
		}
		mB := sumB / wB
		mF := (sumAll - sumB) / wF
		between := wB * wF * (mB - mF) * (mB - mF)
		if between > best {
			best = between
			level = uint8(t)
		}
	}
	return lo, hi, level
}

// toBinary converts a thresholded gray image into a mask. The minority class
// becomes foreground; on a tie the dark class wins.
func toBinary(thr *image.Gray) *BinaryImage {
	b := thr.Bounds()
	mask := NewBinaryImage(b.Dx(), b.Dy())
	light := 0
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			if thr.GrayAt(x+b.Min.X, y+b.Min.Y).Y >= 128 {
				light++
			}
		}
	}
	darkInk := light >= len(mask.Pix)-light

	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			isLight := thr.GrayAt(x+b.Min.X, y+b.Min.Y).Y >= 128
			mask.Set(x, y, isLight != darkInk)
		}
	}
	return mask
}

// centreOnStem crops mask to box and pads it horizontally so the densest
// column sits exactly in the middle. Ties go to the column nearest the centre
// of box. The padded half-width is at least 0.4 of the box height, wider than
// any quadrant box, and at most maxHalf; columns beyond it are dropped.
func centreOnStem(mask *BinaryImage, box image.Rectangle, maxHalf int) *BinaryImage {
	counts := mask.ColumnCounts(box)
	centre := float64(box.Dx()-1) / 2
	stem := 0
	for i, c := range counts {
		if c > counts[stem] || (c == counts[stem] && math.Abs(float64(i)-centre) < math.Abs(float64(stem)-centre)) {
			stem = i
		}
	}

	minHalf := int(math.Ceil(0.4 * float64(box.Dy())))
	half := max(minHalf, min(max(stem, box.Dx()-1-stem), maxHalf))
	out := NewBinaryImage(2*half+1, box.Dy())
	shift := half - stem
	x0, x1 := max(0, -shift), min(box.Dx(), out.Width-shift)
	for y := 0; y < box.Dy(); y++ {
		for x := x0; x < x1; x++ {
			if mask.Foreground(box.Min.X+x, box.Min.Y+y) {
				out.Set(x+shift, y, true)
			}
		}
	}
	return out
}

// rescale resamples src so its height becomes height, keeping the centre
// column in the centre, then adds margin on every side. A target pixel is
// foreground when any source pixel under it is.
func rescale(src *BinaryImage, height, margin int) *BinaryImage {
	s := float64(height) / float64(src.Height)
	srcHalf := src.Width / 2
	dstHalf := int(math.Round(float64(srcHalf) * s))
	width := 2*dstHalf + 1

	out := NewBinaryImage(width+2*margin, height+2*margin)
	srcCX := float64(srcHalf) + 0.5
	dstCX := float64(dstHalf) + 0.5

	for ty := 0; ty < height; ty++ {
		y0, y1 := span(float64(ty)/s, float64(ty+1)/s, src.Height)
		for tx := 0; tx < width; tx++ {
			x0, x1 := span(srcCX+(float64(tx)-dstCX)/s, srcCX+(float64(tx+1)-dstCX)/s, src.Width)
			if anyForeground(src, x0, y0, x1, y1) {
				out.Set(tx+margin, ty+margin, true)
			}
		}
	}
	return out
}

// span converts a continuous source interval into pixel indices [i0, i1),
// clamped to [0, limit) and never empty.
func span(a, b float64, limit int) (int, int) {
	i0 := int(math.Floor(a))
	i1 := int(math.Ceil(b))
	i0 = max(0, min(i0, limit-1))
	i1 = max(i0+1, min(i1, limit))
	return i0, i1
}

func anyForeground(b *BinaryImage, x0, y0, x1, y1 int) bool {
	for y := y0; y < y1; y++ {
		row := b.Pix[y*b.Width : (y+1)*b.Width]
		for x := x0; x < x1; x++ {
			if row[x] != 0 {
				return true
			}
		}
	}
	return false
}
