package num

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ParseInt parses a decimal integer after trimming surrounding whitespace.
// Fractions, exponents and empty strings are rejected.
func ParseInt(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParsePositiveInt is ParseInt restricted to values > 0.
func ParsePositiveInt(s string) (int64, bool) {
	v, ok := ParseInt(s)
	if !ok || v <= 0 {
		return 0, false
	}
	return v, true
}

// ToInt64 normalizes a loosely typed id (string, json.Number, float or int)
// into an int64. Floats must be whole numbers.
func ToInt64(v any) (int64, bool) {
	switch val := v.(type) {
	case nil:
		return 0, false
	case int:
		return int64(val), true
	case int32:
		return int64(val), true
	case int64:
		return val, true
	case uint32:
		return int64(val), true
	case uint64:
		if val > math.MaxInt64 {
			return 0, false
		}
		return int64(val), true
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) || val != math.Trunc(val) {
			return 0, false
		}
		// float64(math.MaxInt64) == 2^63, which int64 cannot hold
		if val >= math.MaxInt64 || val < math.MinInt64 {
			return 0, false
		}
		return int64(val), true
	case json.Number:
		return ParseInt(val.String())
	case string:
		return ParseInt(val)
	default:
		return 0, false
	}
}

// ToString renders a loosely typed id as text. Whole floats lose their
// fractional part so 12 and 12.0 render the same way.
func ToString(v any) string {
	if n, ok := ToInt64(v); ok {
		return strconv.FormatInt(n, 10)
	}
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return ""
	}
}
