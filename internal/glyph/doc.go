// Package glyph defines the geometry of Cistercian numerals.
//
// A numeral is a vertical stem with up to four digits attached to it, one per
// quadrant. The stroke shapes for the nine non-zero digits are defined once, for
// the units quadrant (upper right), and every other quadrant is derived from them
// by a fixed reflection. Nothing in this package rasterizes; it only produces
// line segments.
//
// # Coordinate System
//
// Segments live in a normalized glyph frame anchored to the stem:
//   - X: 0 on the stem, positive to the right
//   - Y: -1 at the top of the stem, 0 at the midline, +1 at the bottom
//   - The quadrant box is 2/3 wide and 2/3 tall (one third of the stem)
//
// Y grows downward, matching image coordinates, so mapping into pixels is a
// uniform scale plus translation.
//
// # Lifecycle
//
// A TemplateTable is built explicitly with NewTemplateTable and is read-only
// afterwards. Processes build one at start-up and share it between the encoder
// and the decoder; it is safe for unsynchronized concurrent reads. Tests may
// build as many isolated tables as they like.
package glyph
