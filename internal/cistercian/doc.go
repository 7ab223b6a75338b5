// Package cistercian encodes integers 0-9999 as Cistercian numeral glyphs and
// decodes them back from raster images.
//
// An Encoder composes the glyph from the shared template table and renders it.
// A Decoder normalizes an input image, locates the stem and matches every
// quadrant against the same templates:
//
//	table := glyph.NewTemplateTable()
//	enc, _ := cistercian.NewEncoder(table, render.DefaultOptions())
//	dec := cistercian.NewDecoder(table, cistercian.DefaultDecoderOptions())
//
//	img, _ := enc.Encode(1234)
//	n, _ := dec.Decode(img) // 1234
//
// Both types are safe for concurrent use. Errors are terminal; KindOf
// classifies any of them for transports.
package cistercian
