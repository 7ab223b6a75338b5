package render

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Backend names accepted in Options.Backend.
const (
	BackendVector = "vector"
	BackendGG     = "gg"
)

// minContrast is the smallest CIE Lab distance allowed between foreground and
// background. Below it the decoder's threshold cannot separate them reliably.
const minContrast = 0.25

// MaxSide is the largest accepted image width or height in pixels.
const MaxSide = 4096

// Options configures a Renderer. Zero fields take the DefaultOptions value.
type Options struct {
	// Width and Height of the output image in pixels.
	Width  int
	Height int

	// StrokeWidth is the line thickness in pixels.
	StrokeWidth float64

	// Background and Foreground are hex colours such as "#ffffff".
	Background string
	Foreground string

	// Backend selects the rasterizer: BackendVector or BackendGG.
	Backend string
}

// DefaultOptions returns the 300x400 black-on-white layout.
func DefaultOptions() Options {
	return Options{
		Width:       300,
		Height:      400,
		StrokeWidth: 4,
		Background:  "#ffffff",
		Foreground:  "#000000",
		Backend:     BackendVector,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Width == 0 {
		o.Width = def.Width
	}
	if o.Height == 0 {
		o.Height = def.Height
	}
	if o.StrokeWidth == 0 {
		o.StrokeWidth = def.StrokeWidth
	}
	if o.Background == "" {
		o.Background = def.Background
	}
	if o.Foreground == "" {
		o.Foreground = def.Foreground
	}
	if o.Backend == "" {
		o.Backend = def.Backend
	}
	return o
}

// Validate checks the options after defaults are applied.
func (o Options) Validate() error {
	o = o.withDefaults()
	if o.Width < 16 || o.Height < 16 {
		return fmt.Errorf("image size %dx%d too small: need at least 16x16", o.Width, o.Height)
	}
	if o.Width > MaxSide || o.Height > MaxSide {
		return fmt.Errorf("image size %dx%d too large: at most %dx%d", o.Width, o.Height, MaxSide, MaxSide)
	}
	if o.StrokeWidth < 0 {
		return fmt.Errorf("stroke width must be positive, got %g", o.StrokeWidth)
	}
	f := newFrame(o.Width, o.Height)
	if box := f.scale * 2.0 / 3.0; o.StrokeWidth >= box/3 {
		return fmt.Errorf("stroke width %g too large for %dx%d image (max %.1f)", o.StrokeWidth, o.Width, o.Height, box/3)
	}
	bg, err := colorful.Hex(o.Background)
	if err != nil {
		return fmt.Errorf("invalid background colour %q: %w", o.Background, err)
	}
	fg, err := colorful.Hex(o.Foreground)
	if err != nil {
		return fmt.Errorf("invalid foreground colour %q: %w", o.Foreground, err)
	}
	if d := bg.DistanceLab(fg); d < minContrast {
		return fmt.Errorf("foreground %s and background %s too similar (Lab distance %.2f < %.2f)",
			o.Foreground, o.Background, d, minContrast)
	}
	switch o.Backend {
	case BackendVector, BackendGG:
	default:
		return fmt.Errorf("unknown render backend %q", o.Backend)
	}
	return nil
}
