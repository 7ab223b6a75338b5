// Package imaging turns arbitrary raster input into the clean binary working
// image that glyph recognition runs on, and handles image containers at the
// edges of the service.
//
// # Pipeline
//
// Normalize is the single entry point for recognition input. It flattens
// transparency, thresholds at the Otsu level, removes speckles, crops to the
// foreground, centres the crop on its dominant column and rescales it to a
// fixed working height. The result is a *BinaryImage whose stem (if any) is in
// the middle column.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, Min is inclusive (top-left) and Max is exclusive
//     (bottom-right), as with image.Rectangle
//
// # Containers
//
// DecodeBytes, DecodeBase64 and ImageCache.Load accept PNG, JPEG, GIF, BMP,
// TIFF, WebP and Netpbm (PBM, PGM, PPM, PAM). EncodeDataURI produces PNG data
// URIs for responses; Overlay and Crop build annotated views for inspection.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. All other functions are
// stateless and may be called concurrently; a BinaryImage must not be written
// while another goroutine reads it.
//
// # Error Handling
//
// Functions return wrapped sentinel errors:
//   - ErrEmptyImage: no foreground survives normalization
//   - ErrInvalidImage: a payload cannot be decoded
//
// File I/O errors from ImageCache.Load are wrapped as they are.
package imaging
