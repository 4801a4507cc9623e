package num

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseInt(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   int64
		wantOk bool
	}{
		{"plain", "42", 42, true},
		{"trimmed", "  7 ", 7, true},
		{"negative", "-3", -3, true},
		{"empty", "", 0, false},
		{"blank", "   ", 0, false},
		{"fraction", "1.5", 0, false},
		{"alpha", "abc", 0, false},
		{"mixed", "12abc", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseInt(tt.input)
			assert.Equal(t, tt.wantOk, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePositiveInt(t *testing.T) {
	_, ok := ParsePositiveInt("0")
	assert.False(t, ok)
	_, ok = ParsePositiveInt("-1")
	assert.False(t, ok)
	v, ok := ParsePositiveInt("15")
	assert.True(t, ok)
	assert.Equal(t, int64(15), v)
}

func TestToInt64(t *testing.T) {
	tests := []struct {
		name   string
		input  any
		want   int64
		wantOk bool
	}{
		{"int", 5, 5, true},
		{"int64", int64(9), 9, true},
		{"whole float", float64(12), 12, true},
		{"fractional float", 12.5, 0, false},
		{"nan", math.NaN(), 0, false},
		{"string", " 33 ", 33, true},
		{"bad string", "n/a", 0, false},
		{"json number", json.Number("8"), 8, true},
		{"nil", nil, 0, false},
		{"bool", true, 0, false},
		{"overflow uint64", uint64(math.MaxUint64), 0, false},
		{"float 2^63", math.Ldexp(1, 63), 0, false},
		{"float -2^63", -math.Ldexp(1, 63), math.MinInt64, true},
		{"large float in range", math.Ldexp(1, 62), 1 << 62, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToInt64(tt.input)
			assert.Equal(t, tt.wantOk, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToString(t *testing.T) {
	assert.Equal(t, "12", ToString(float64(12)))
	assert.Equal(t, "12", ToString("12"))
	assert.Equal(t, "abc", ToString(" abc "))
	assert.Equal(t, "1.5", ToString(1.5))
	assert.Equal(t, "", ToString(nil))
	assert.Equal(t, "", ToString(struct{}{}))
}
