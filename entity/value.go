package entity

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
)

// Value wraps a record field value, either a string or a number.
type Value struct {
	Raw any
}

// Str returns a string Value.
func Str(s string) Value {
	return Value{Raw: s}
}

// Num returns a numeric Value.
func Num(n float64) Value {
	return Value{Raw: n}
}

// String returns the value as a string.
// Numbers are formatted without a trailing fraction when whole.
func (v Value) String() string {
	switch raw := v.Raw.(type) {
	case nil:
		return ""
	case string:
		return raw
	case float64:
		return strconv.FormatFloat(raw, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(raw), 'f', -1, 32)
	}
	return fmt.Sprintf("%v", v.Raw)
}

// IsNumber reports whether the value holds a number.
func (v Value) IsNumber() bool {
	switch v.Raw.(type) {
	case int, int32, int64, uint, uint16, uint32, uint64, float32, float64:
		return true
	}
	return false
}

// Float returns the value as a float64.
func (v Value) Float() (float64, error) {
	switch raw := v.Raw.(type) {
	case float64:
		return raw, nil
	case float32:
		return float64(raw), nil
	case int:
		return float64(raw), nil
	case int32:
		return float64(raw), nil
	case int64:
		return float64(raw), nil
	case uint:
		return float64(raw), nil
	case uint16:
		return float64(raw), nil
	case uint32:
		return float64(raw), nil
	case uint64:
		return float64(raw), nil
	}
	return 0, errors.Errorf("value is not a number: %T", v.Raw)
}
