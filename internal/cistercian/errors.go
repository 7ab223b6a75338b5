package cistercian

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ironsheep/cistercian-mcp/internal/detection"
	"github.com/ironsheep/cistercian-mcp/internal/glyph"
	"github.com/ironsheep/cistercian-mcp/internal/imaging"
)

// Kind classifies codec failures for transports.
type Kind string

const (
	KindRange             Kind = "range_error"
	KindEmptyImage        Kind = "empty_image"
	KindStemNotFound      Kind = "stem_not_found"
	KindQuadrantAmbiguous Kind = "quadrant_ambiguous"
	KindInvalidDigit      Kind = "invalid_digit"
	KindInvalidImage      Kind = "invalid_image"
	KindInvalidRequest    Kind = "invalid_request"
	KindInternal          Kind = "internal"
)

// ErrInvalidRequest marks malformed transport input: missing fields, wrong
// types, unreadable bodies.
var ErrInvalidRequest = errors.New("invalid request")

// RangeError reports a number outside [0, glyph.MaxValue] or one that is
// not an integer.
type RangeError struct {
	Number int

	// Text holds the input as given when it was not an integer.
	Text string
}

func (e *RangeError) Error() string {
	if e.Text != "" {
		return fmt.Sprintf("number %s is not an integer in [0, %d]", e.Text, glyph.MaxValue)
	}
	return fmt.Sprintf("number %d out of range [0, %d]", e.Number, glyph.MaxValue)
}

// QuadrantAmbiguousError reports the quadrants whose digit could not be read
// with enough confidence. Result holds what was recognized, for inspection
// only; its digits must not be used as a decoded value.
type QuadrantAmbiguousError struct {
	Quadrants []glyph.Quadrant
	Result    *Result
}

func (e *QuadrantAmbiguousError) Error() string {
	names := make([]string, len(e.Quadrants))
	for i, q := range e.Quadrants {
		names[i] = q.String()
	}
	return "ambiguous quadrant: " + strings.Join(names, ", ")
}

// KindOf maps an error returned by this package (or wrapped around one) to
// its Kind. Unrecognized errors are KindInternal; nil is the empty Kind.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}

	var (
		rangeErr     *RangeError
		ambiguousErr *QuadrantAmbiguousError
		digitErr     *glyph.InvalidDigitError
	)
	switch {
	case errors.As(err, &rangeErr):
		return KindRange
	case errors.As(err, &ambiguousErr):
		return KindQuadrantAmbiguous
	case errors.As(err, &digitErr):
		return KindInvalidDigit
	case errors.Is(err, imaging.ErrEmptyImage):
		return KindEmptyImage
	case errors.Is(err, detection.ErrStemNotFound):
		return KindStemNotFound
	case errors.Is(err, imaging.ErrInvalidImage):
		return KindInvalidImage
	case errors.Is(err, ErrInvalidRequest):
		return KindInvalidRequest
	}
	return KindInternal
}

// IsInputError reports whether k blames the caller's input rather than the
// image content or the service.
func (k Kind) IsInputError() bool {
	switch k {
	case KindRange, KindInvalidDigit, KindInvalidImage, KindInvalidRequest:
		return true
	}
	return false
}

// IsRecognitionError reports whether k means the image was readable but held
// no decodable glyph.
func (k Kind) IsRecognitionError() bool {
	switch k {
	case KindEmptyImage, KindStemNotFound, KindQuadrantAmbiguous:
		return true
	}
	return false
}
