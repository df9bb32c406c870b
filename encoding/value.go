package encoding

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/arloliu/mempack/errs"
)

// ValueKind identifies the dynamic type held by a Value.
type ValueKind uint8

const (
	ValueInt   ValueKind = iota + 1 // ValueInt is a 64-bit integer.
	ValueFloat                      // ValueFloat is a float64.
	ValueBytes                      // ValueBytes is a byte string.
)

func (k ValueKind) String() string {
	switch k {
	case ValueInt:
		return "int"
	case ValueFloat:
		return "float"
	case ValueBytes:
		return "bytes"
	default:
		return "invalid"
	}
}

// Value is one packed argument or unpacked result.
//
// Integers of every width travel as int64; unsigned fields keep their bit
// pattern, so a 'J' field holding 2^64-1 unpacks to Int(-1) and Uint reads it
// back as math.MaxUint64. The zero Value is invalid and rejected by Pack.
type Value struct {
	kind ValueKind
	i    int64
	f    float64
	b    []byte
}

// Int returns an integer value.
func Int(v int64) Value {
	return Value{kind: ValueInt, i: v}
}

// Uint returns an integer value carrying the bit pattern of v.
func Uint(v uint64) Value {
	return Value{kind: ValueInt, i: int64(v)}
}

// Float returns a floating-point value.
func Float(v float64) Value {
	return Value{kind: ValueFloat, f: v}
}

// Bytes returns a byte string value. b is not copied.
func Bytes(b []byte) Value {
	if b == nil {
		b = []byte{}
	}

	return Value{kind: ValueBytes, b: b}
}

// String returns a byte string value holding s.
func String(s string) Value {
	return Value{kind: ValueBytes, b: []byte(s)}
}

// Kind returns the dynamic type of v.
func (v Value) Kind() ValueKind {
	return v.kind
}

// Int returns the integer held by v, or the float truncated toward zero.
func (v Value) Int() int64 {
	if v.kind == ValueFloat {
		return int64(v.f)
	}

	return v.i
}

// Uint returns the integer held by v as an unsigned bit pattern.
func (v Value) Uint() uint64 {
	return uint64(v.Int())
}

// Float returns the number held by v as a float64.
func (v Value) Float() float64 {
	if v.kind == ValueInt {
		return float64(v.i)
	}

	return v.f
}

// Bytes returns the byte string held by v, or nil for numbers.
func (v Value) Bytes() []byte {
	return v.b
}

// String formats v: byte strings verbatim, numbers in decimal.
func (v Value) String() string {
	switch v.kind {
	case ValueBytes:
		return string(v.b)
	case ValueInt:
		return strconv.FormatInt(v.i, 10)
	case ValueFloat:
		return formatFloat(v.f)
	default:
		return "<invalid>"
	}
}

// Equal reports whether v and o hold the same kind and value.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case ValueInt:
		return v.i == o.i
	case ValueFloat:
		return v.f == o.f || (math.IsNaN(v.f) && math.IsNaN(o.f))
	case ValueBytes:
		return string(v.b) == string(o.b)
	default:
		return true
	}
}

// formatFloat renders f with 14 significant digits and keeps a ".0" suffix
// on integral values so they read back as floats.
func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}

	s := strconv.FormatFloat(f, 'g', 14, 64)
	if strings.Trim(s, "-0123456789") == "" {
		s += ".0"
	}

	return s
}

// asInt converts an argument for an integer field. Floats are accepted
// only when they hold an exact integer within the int64 range.
func asInt(v Value, idx int) (int64, error) {
	switch v.kind {
	case ValueInt:
		return v.i, nil
	case ValueFloat:
		if v.f >= -(1<<63) && v.f < 1<<63 && v.f == math.Trunc(v.f) {
			return int64(v.f), nil
		}

		return 0, fmt.Errorf("%w: args[%d]: number %v has no integer representation", errs.ErrArgumentType, idx, v.f)
	default:
		return 0, fmt.Errorf("%w: args[%d]: number expected, got %s", errs.ErrArgumentType, idx, v.kind)
	}
}

// asFloat converts an argument for a float field.
func asFloat(v Value, idx int) (float64, error) {
	switch v.kind {
	case ValueFloat:
		return v.f, nil
	case ValueInt:
		return float64(v.i), nil
	default:
		return 0, fmt.Errorf("%w: args[%d]: number expected, got %s", errs.ErrArgumentType, idx, v.kind)
	}
}

// asBytes converts an argument for a string field. Numbers are accepted in
// their decimal form.
func asBytes(v Value, idx int) ([]byte, error) {
	switch v.kind {
	case ValueBytes:
		return v.b, nil
	case ValueInt, ValueFloat:
		return []byte(v.String()), nil
	default:
		return nil, fmt.Errorf("%w: args[%d]: string expected, got %s", errs.ErrArgumentType, idx, v.kind)
	}
}
