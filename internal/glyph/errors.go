package glyph

import "fmt"

// InvalidDigitError reports a template lookup with a digit outside [0,9].
// Valid callers never trigger it; seeing one means a caller skipped validation.
type InvalidDigitError struct {
	Digit Digit
}

func (e *InvalidDigitError) Error() string {
	return fmt.Sprintf("invalid digit %d: must be in [0,9]", int(e.Digit))
}
