package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// Kind is the semantic type of a parameter value.
type Kind string

const (
	KindString Kind = "string"
	KindInt    Kind = "integer"
	KindFloat  Kind = "float"
	KindBool   Kind = "boolean"
	KindEnum   Kind = "enum"
)

// Numeric reports whether values of k are printed unquoted.
func (k Kind) Numeric() bool {
	return k == KindInt || k == KindFloat
}

// Coerce converts v to the canonical Go type for d.Kind: string, int,
// float64 or bool. Integer and float fields accept any numeric type; a
// fractional or non-finite number is an invalid value rather than a type
// mismatch.
func (d Descriptor) Coerce(v any) (any, error) {
	switch d.Kind {
	case KindString:
		s, ok := v.(string)
		if !ok {
			return nil, d.mismatch(v)
		}
		return s, nil
	case KindEnum:
		s, ok := v.(string)
		if !ok {
			return nil, d.mismatch(v)
		}
		if len(d.Options) > 0 && !slices.Contains(d.Options, s) {
			return nil, fmt.Errorf("%w for %s: %q (expected one of %s)",
				ErrInvalidValue, d.Key, s, strings.Join(d.Options, "|"))
		}
		return s, nil
	case KindBool:
		b, ok := v.(bool)
		if !ok {
			return nil, d.mismatch(v)
		}
		return b, nil
	case KindInt:
		if i, ok, inRange := integer(v); ok {
			if !inRange {
				return nil, fmt.Errorf("%w for %s: %v is out of range", ErrInvalidValue, d.Key, v)
			}
			return i, nil
		}
		f, ok := number(v)
		if !ok {
			return nil, d.mismatch(v)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%w for %s: non-finite number", ErrInvalidValue, d.Key)
		}
		if f != math.Trunc(f) {
			return nil, fmt.Errorf("%w for %s: %v is not an integer", ErrInvalidValue, d.Key, f)
		}
		// float64(math.MaxInt64) rounds up to 2^63, so the upper bound is exclusive.
		if f >= 1<<63 || f < -1<<63 {
			return nil, fmt.Errorf("%w for %s: %v is out of range", ErrInvalidValue, d.Key, f)
		}
		return int(f), nil
	case KindFloat:
		if i, ok, inRange := integer(v); ok && inRange {
			return float64(i), nil
		}
		if u, ok := v.(uint64); ok {
			return float64(u), nil
		}
		if u, ok := v.(uint); ok {
			return float64(u), nil
		}
		f, ok := number(v)
		if !ok {
			return nil, d.mismatch(v)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%w for %s: non-finite number", ErrInvalidValue, d.Key)
		}
		return f, nil
	default:
		return nil, fmt.Errorf("parameter %s has unsupported kind %q", d.Key, d.Kind)
	}
}

// Parse converts user-entered text to a value of d.Kind.
func (d Descriptor) Parse(text string) (any, error) {
	switch d.Kind {
	case KindString, KindEnum:
		return d.Coerce(text)
	case KindBool:
		b, err := cast.ToBoolE(strings.TrimSpace(text))
		if err != nil {
			return nil, fmt.Errorf("%w for %s: %q is not a boolean", ErrTypeMismatch, d.Key, text)
		}
		return b, nil
	case KindInt, KindFloat:
		f, err := cast.ToFloat64E(strings.TrimSpace(text))
		if err != nil {
			return nil, fmt.Errorf("%w for %s: %q is not a number", ErrTypeMismatch, d.Key, text)
		}
		return d.Coerce(f)
	default:
		return nil, fmt.Errorf("parameter %s has unsupported kind %q", d.Key, d.Kind)
	}
}

// Format renders a canonical value the way it appears on a command line,
// without quoting.
func (d Descriptor) Format(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// IsDefault reports whether v equals the descriptor's default. v must be
// canonical.
func (d Descriptor) IsDefault(v any) bool {
	return v == d.Default
}

func (d Descriptor) mismatch(v any) error {
	return fmt.Errorf("%w for %s: want %s, got %T", ErrTypeMismatch, d.Key, d.Kind, v)
}

// integer converts Go integer types and integral json.Number values to int.
// ok is false for any other type; inRange is false when the value does not
// fit in an int.
func integer(v any) (n int, ok, inRange bool) {
	switch x := v.(type) {
	case int:
		return x, true, true
	case int8:
		return int(x), true, true
	case int16:
		return int(x), true, true
	case int32:
		return int(x), true, true
	case int64:
		return int(x), true, x >= math.MinInt && x <= math.MaxInt
	case uint:
		return int(x), true, x <= math.MaxInt
	case uint8:
		return int(x), true, true
	case uint16:
		return int(x), true, true
	case uint32:
		return int(x), true, uint64(x) <= math.MaxInt
	case uint64:
		return int(x), true, x <= math.MaxInt
	case json.Number:
		i, err := x.Int64()
		if err != nil {
			return 0, false, false
		}
		return int(i), true, i >= math.MinInt && i <= math.MaxInt
	default:
		return 0, false, false
	}
}

// number widens floating point values, including json.Number, to float64.
func number(v any) (float64, bool) {
	switch x := v.(type) {
	case float32:
		return float64(x), true
	case float64:
		return x, true
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
