package glyph

import "fmt"

// MaxValue is the largest integer a single numeral can represent.
const MaxValue = 9999

// Digit is a decimal digit 0-9. Zero is drawn as the absence of strokes.
type Digit int

// Valid reports whether d is in [0,9].
func (d Digit) Valid() bool {
	return d >= 0 && d <= 9
}

// Quadrant identifies one of the four stroke-attachment regions around the stem.
type Quadrant int

const (
	// Units is the upper-right quadrant. Its strokes are the base templates.
	Units Quadrant = iota
	// Tens is the upper-left quadrant: units mirrored across the stem.
	Tens
	// Hundreds is the lower-right quadrant: units mirrored across the midline.
	Hundreds
	// Thousands is the lower-left quadrant: units reflected through the stem midpoint.
	Thousands
)

// Quadrants lists all quadrants in place-value order.
var Quadrants = [4]Quadrant{Units, Tens, Hundreds, Thousands}

// String returns the place-value name of the quadrant.
func (q Quadrant) String() string {
	switch q {
	case Units:
		return "units"
	case Tens:
		return "tens"
	case Hundreds:
		return "hundreds"
	case Thousands:
		return "thousands"
	default:
		return fmt.Sprintf("quadrant(%d)", int(q))
	}
}

// Position returns the quadrant's location relative to the stem,
// e.g. "upper-right".
func (q Quadrant) Position() string {
	switch q {
	case Units:
		return "upper-right"
	case Tens:
		return "upper-left"
	case Hundreds:
		return "lower-right"
	case Thousands:
		return "lower-left"
	default:
		return "unknown"
	}
}

// PlaceValue returns 1, 10, 100 or 1000.
func (q Quadrant) PlaceValue() int {
	switch q {
	case Tens:
		return 10
	case Hundreds:
		return 100
	case Thousands:
		return 1000
	default:
		return 1
	}
}

// Valid reports whether q is one of the four defined quadrants.
func (q Quadrant) Valid() bool {
	return q >= Units && q <= Thousands
}

// Transform returns the reflection that maps units-quadrant geometry into q.
func (q Quadrant) Transform() Transform {
	switch q {
	case Tens:
		return Transform{SX: -1, SY: 1}
	case Hundreds:
		return Transform{SX: 1, SY: -1}
	case Thousands:
		return Transform{SX: -1, SY: -1}
	default:
		return Transform{SX: 1, SY: 1}
	}
}

// Right reports whether the quadrant lies right of the stem.
func (q Quadrant) Right() bool {
	return q.Transform().SX > 0
}

// Upper reports whether the quadrant lies above the midline.
func (q Quadrant) Upper() bool {
	return q.Transform().SY > 0
}

// Digits holds one digit per quadrant, indexed by Quadrant.
type Digits [4]Digit

// Split decomposes n into its place digits. It does not validate n; values
// above MaxValue lose their higher digits.
func Split(n int) Digits {
	var d Digits
	for _, q := range Quadrants {
		d[q] = Digit((n / q.PlaceValue()) % 10)
	}
	return d
}

// Value recomposes the integer from its place digits.
func (d Digits) Value() int {
	n := 0
	for _, q := range Quadrants {
		n += int(d[q]) * q.PlaceValue()
	}
	return n
}
