// Package render rasterizes composed Cistercian glyphs into pixel buffers.
//
// The renderer places the stem vertically centred in the output image and
// scales the glyph frame uniformly so the widest possible numeral still fits
// with a margin. Every stroke is drawn as an anti-aliased line with square
// caps on a uniform background.
//
// # Backends
//
// Two rasterizers are available:
//   - "vector": golang.org/x/image/vector, one quad per stroke composited into
//     a coverage mask (default)
//   - "gg": github.com/gogpu/gg software context with square line caps
//
// Both produce the same geometry; pixel values differ only in anti-aliasing.
//
// Output is an *image.RGBA. Encoding to PNG or data URIs belongs to callers.
package render
