package format

import (
	"sync"
	"unsafe"

	"github.com/arloliu/mempack/endian"
	"github.com/arloliu/mempack/memory"
)

// Kind classifies a directive.
type Kind uint8

const (
	KindInt      Kind = iota // KindInt is a signed integer.
	KindUint                 // KindUint is an unsigned integer.
	KindFloat                // KindFloat is an IEEE-754 floating-point number.
	KindChar                 // KindChar is a fixed-length string.
	KindString               // KindString is a string preceded by its length.
	KindZString              // KindZString is a zero-terminated string.
	KindPadding              // KindPadding is one padding byte.
	KindPadAlign             // KindPadAlign pads to the alignment of the next option.
	KindNop                  // KindNop changes parser state only (endianness, alignment, spaces).
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "Int"
	case KindUint:
		return "Uint"
	case KindFloat:
		return "Float"
	case KindChar:
		return "Char"
	case KindString:
		return "String"
	case KindZString:
		return "ZString"
	case KindPadding:
		return "Padding"
	case KindPadAlign:
		return "PadAlign"
	case KindNop:
		return "Nop"
	default:
		return "Unknown"
	}
}

// ConsumesValue reports whether a directive of this kind reads one argument
// when packing and produces one value when unpacking.
func (k Kind) ConsumesValue() bool {
	return k <= KindZString
}

// Native C type widths in bytes on the host.
const (
	SizeChar    = 1
	SizeShort   = 2
	SizeInt     = 4
	SizeLong    = sizeLong // 4 on Windows (LLP64), pointer width elsewhere
	SizeInteger = 8 // 'j': the native integer carried by values (int64)
	SizeSizeT   = int(unsafe.Sizeof(uintptr(0)))
	SizeFloat   = 4
	SizeDouble  = 8
	SizeNumber  = 8 // 'n': the native float carried by values (float64)
)

// MaxIntSize is the largest size of an integer or float field.
const MaxIntSize = 16

// MaxAlloc is the largest total size a fixed format may describe: packed
// data must fit in a single memory object.
const MaxAlloc = memory.MaxAlloc

// maxAlign mirrors the alignment of the strictest scalar a C struct member can hold.
var maxAlign = int(max(unsafe.Alignof(float64(0)), unsafe.Alignof(uintptr(0)), unsafe.Alignof(int64(0))))

// Directive is one decoded instruction of a format string.
type Directive struct {
	// Kind is the directive class.
	Kind Kind
	// Option is the format character that produced the directive.
	Option byte
	// Size is the field size in bytes. For KindString it is the size of the
	// length prefix; it is zero for KindZString, KindPadAlign and KindNop.
	Size int
	// Padding is the number of alignment bytes to skip before the field.
	Padding int
	// Little reports the byte order in effect for the field.
	Little bool
}

// Context carries the host properties the parser needs. It is computed once
// per process by NativeContext and passed explicitly, so tests can emulate a
// different host.
type Context struct {
	// NativeLittle is the byte order selected by '='.
	NativeLittle bool
	// MaxAlign is the alignment selected by '!' without a number.
	MaxAlign int
}

// NativeContext returns the Context of the running host.
var NativeContext = sync.OnceValue(func() Context {
	return Context{
		NativeLittle: endian.IsNativeLittleEndian(),
		MaxAlign:     maxAlign,
	}
})
