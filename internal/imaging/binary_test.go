package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestBinaryImage_Basics(t *testing.T) {
	b := NewBinaryImage(10, 8)
	b.Set(2, 3, true)
	b.Set(7, 5, true)
	b.Set(-1, 0, true) // ignored
	b.Set(10, 0, true) // ignored

	if got := b.Count(); got != 2 {
		t.Errorf("Count: got %d, want 2", got)
	}
	if got := b.ForegroundBounds(); got != image.Rect(2, 3, 8, 6) {
		t.Errorf("ForegroundBounds: got %v", got)
	}
	if got := b.CountIn(image.Rect(0, 0, 5, 5)); got != 1 {
		t.Errorf("CountIn: got %d, want 1", got)
	}
	if b.Foreground(20, 20) {
		t.Error("points outside the image must be background")
	}

	if got := b.At(2, 3); got != (color.Gray{Y: 0}) {
		t.Errorf("foreground renders as %v, want black", got)
	}
	if got := b.At(0, 0); got != (color.Gray{Y: 255}) {
		t.Errorf("background renders as %v, want white", got)
	}

	counts := b.ColumnCounts(image.Rect(2, 0, 8, 8))
	if len(counts) != 6 || counts[0] != 1 || counts[5] != 1 || counts[2] != 0 {
		t.Errorf("ColumnCounts: got %v", counts)
	}
}

func TestBinaryImage_EmptyBounds(t *testing.T) {
	if got := NewBinaryImage(5, 5).ForegroundBounds(); !got.Empty() {
		t.Errorf("ForegroundBounds of empty mask: got %v", got)
	}
}

func TestBinaryImage_Clone(t *testing.T) {
	b := NewBinaryImage(4, 4)
	b.Set(1, 1, true)
	c := b.Clone()
	c.Set(2, 2, true)

	if b.Foreground(2, 2) {
		t.Error("Clone shares pixels with the original")
	}
	if !c.Foreground(1, 1) {
		t.Error("Clone lost a pixel")
	}
}

func TestBinaryImage_RemoveSpeckles(t *testing.T) {
	b := NewBinaryImage(50, 50)
	// Large component: 40-pixel vertical line.
	for y := 5; y < 45; y++ {
		b.Set(10, y, true)
	}
	// Diagonal neighbours are connected: 8 pixels, kept at fraction 0.1.
	for i := 0; i < 8; i++ {
		b.Set(30+i, 10+i, true)
	}
	// Two-pixel speck, below the absolute minimum.
	b.Set(40, 40, true)
	b.Set(41, 40, true)

	cleared := b.RemoveSpeckles(3, 0.1)
	if cleared != 2 {
		t.Errorf("cleared: got %d, want 2", cleared)
	}
	if b.Count() != 48 {
		t.Errorf("remaining: got %d, want 48", b.Count())
	}

	// A stricter fraction also drops the diagonal.
	cleared = b.RemoveSpeckles(3, 0.5)
	if cleared != 8 || b.Count() != 40 {
		t.Errorf("strict pass: cleared %d, remaining %d", cleared, b.Count())
	}
}
