package cistercian

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseNumber reads the number field of an encode request. Both JSON numbers
// and numeric strings are accepted ("42", 42, 42.0). Fractions are a
// *RangeError; other types and a missing value wrap ErrInvalidRequest. The
// 0-9999 range itself is checked by the encoder.
func ParseNumber(raw json.RawMessage) (int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, fmt.Errorf("number is required: %w", ErrInvalidRequest)
	}

	var text string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return 0, fmt.Errorf("number: %w: %v", ErrInvalidRequest, err)
		}
		text = strings.TrimSpace(text)
	} else {
		text = string(raw)
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("number %s is not numeric: %w", raw, ErrInvalidRequest)
	}
	if f != math.Trunc(f) {
		return 0, &RangeError{Text: text}
	}
	if math.Abs(f) > math.MaxInt32 {
		return 0, &RangeError{Number: int(math.Copysign(math.MaxInt32, f))}
	}
	return int(f), nil
}
