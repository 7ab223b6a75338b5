package imaging

import (
	"image"
	"image/color"
)

// BinaryImage is a two-valued mask: each pixel is foreground (ink) or
// background. The origin is always (0,0).
//
// BinaryImage implements image.Image, rendering foreground as black on white,
// so it can be handed directly to encoders and the imaging library.
type BinaryImage struct {
	Width  int
	Height int
	// Pix holds one byte per pixel in row-major order: 1 foreground, 0 background.
	Pix []uint8
}

// NewBinaryImage returns an all-background mask of the given size.
func NewBinaryImage(width, height int) *BinaryImage {
	return &BinaryImage{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height),
	}
}

// ColorModel implements image.Image.
func (b *BinaryImage) ColorModel() color.Model {
	return color.GrayModel
}

// Bounds implements image.Image.
func (b *BinaryImage) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.Width, b.Height)
}

// At implements image.Image.
func (b *BinaryImage) At(x, y int) color.Color {
	if b.Foreground(x, y) {
		return color.Gray{Y: 0}
	}
	return color.Gray{Y: 255}
}

// Foreground reports whether (x, y) is ink. Points outside the image are
// background.
func (b *BinaryImage) Foreground(x, y int) bool {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return false
	}
	return b.Pix[y*b.Width+x] != 0
}

// Set marks (x, y) as foreground or background. Points outside are ignored.
func (b *BinaryImage) Set(x, y int, fg bool) {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return
	}
	var v uint8
	if fg {
		v = 1
	}
	b.Pix[y*b.Width+x] = v
}

// Count returns the number of foreground pixels.
func (b *BinaryImage) Count() int {
	n := 0
	for _, v := range b.Pix {
		n += int(v)
	}
	return n
}

// CountIn returns the number of foreground pixels inside r.
func (b *BinaryImage) CountIn(r image.Rectangle) int {
	r = r.Intersect(b.Bounds())
	n := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := b.Pix[y*b.Width : (y+1)*b.Width]
		for x := r.Min.X; x < r.Max.X; x++ {
			n += int(row[x])
		}
	}
	return n
}

// ForegroundBounds returns the smallest rectangle containing every foreground
// pixel, or the empty rectangle when there is none.
func (b *BinaryImage) ForegroundBounds() image.Rectangle {
	minX, minY := b.Width, b.Height
	maxX, maxY := -1, -1
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			if b.Pix[y*b.Width+x] == 0 {
				continue
			}
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)
		}
	}
	if maxX < 0 {
		return image.Rectangle{}
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}

// ColumnCounts returns, for every column x in [r.Min.X, r.Max.X), the number
// of foreground pixels between r.Min.Y and r.Max.Y. Index 0 is r.Min.X.
func (b *BinaryImage) ColumnCounts(r image.Rectangle) []int {
	r = r.Intersect(b.Bounds())
	counts := make([]int, r.Dx())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			counts[x-r.Min.X] += int(b.Pix[y*b.Width+x])
		}
	}
	return counts
}

// Clone returns an independent copy.
func (b *BinaryImage) Clone() *BinaryImage {
	c := NewBinaryImage(b.Width, b.Height)
	copy(c.Pix, b.Pix)
	return c
}

// components labels 8-connected foreground regions and returns each one as a
// list of pixel offsets into Pix.
func (b *BinaryImage) components() [][]int {
	visited := make([]bool, len(b.Pix))
	var comps [][]int
	var stack []int

	for start, v := range b.Pix {
		if v == 0 || visited[start] {
			continue
		}
		var comp []int
		stack = append(stack[:0], start)
		visited[start] = true
		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			comp = append(comp, i)

			x, y := i%b.Width, i/b.Width
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := x+dx, y+dy
					if nx < 0 || ny < 0 || nx >= b.Width || ny >= b.Height {
						continue
					}
					j := ny*b.Width + nx
					if b.Pix[j] != 0 && !visited[j] {
						visited[j] = true
						stack = append(stack, j)
					}
				}
			}
		}
		comps = append(comps, comp)
	}
	return comps
}

// RemoveSpeckles clears every connected component smaller than minSize pixels
// or smaller than the given fraction of the largest component. It returns the
// number of pixels cleared.
func (b *BinaryImage) RemoveSpeckles(minSize int, fraction float64) int {
	comps := b.components()
	largest := 0
	for _, c := range comps {
		largest = max(largest, len(c))
	}
	limit := max(minSize, int(fraction*float64(largest)))

	cleared := 0
	for _, c := range comps {
		if len(c) >= limit {
			continue
		}
		for _, i := range c {
			b.Pix[i] = 0
		}
		cleared += len(c)
	}
	return cleared
}
