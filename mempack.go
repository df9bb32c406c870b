// Package mempack provides byte-buffer values with explicit ownership and a
// format-string driven binary codec compatible with C native integer sizes,
// IEEE-754 floats and C struct alignment.
//
// # Core Features
//
//   - Fixed, resizable and externally owned memory objects with release callbacks
//   - Pluggable allocators for resizable memory (pooled Go heap, mmap)
//   - 1-based, end-relative byte range helpers (slice, fill, find, diff)
//   - Pack/unpack of 1..16 byte integers, floats and three string layouts
//   - Explicit endianness and alignment control per field
//   - Partial pack results instead of errors when a buffer runs out
//
// # Basic Usage
//
// Packing into a fixed buffer:
//
//	import "github.com/arloliu/mempack"
//
//	size, _ := mempack.Size("<!4 i x i")       // 12
//	m, _ := mempack.New(size)
//	res, err := mempack.Pack(m, 1, "<!4 i x i", encoding.Int(1), encoding.Int(2))
//	if err == nil && !res.Complete {
//	    // the buffer was too small; res.Next tells where packing stopped
//	}
//
// Unpacking:
//
//	vals, next, err := mempack.Unpack(m, 1, "<!4 i x i")
//
// Appending records to a growing buffer:
//
//	w, _ := mempack.NewWriter()
//	_ = w.Pack("<j z", encoding.Int(42), encoding.String("answer"))
//	data := w.Bytes()
//
// # Package Structure
//
// This package wraps the memory, format and encoding packages for the most
// common use cases. Use those packages directly for allocator selection,
// custom pad bytes or emulating another host.
package mempack

import (
	"github.com/arloliu/mempack/encoding"
	"github.com/arloliu/mempack/format"
	"github.com/arloliu/mempack/internal/hash"
	"github.com/arloliu/mempack/memory"
)

// New creates a fixed, zero-filled memory object of n bytes.
//
// Parameters:
//   - n: Size in bytes, in [0, memory.MaxAlloc]
//
// Returns:
//   - *memory.Memory: The created memory object.
//   - error: errs.ErrInvalidSize if n is out of range.
func New(n int) (*memory.Memory, error) {
	return memory.Allocate(n)
}

// NewResizable creates a resizable memory object backed by the pooled heap
// allocator unless memory.WithAllocator says otherwise.
//
// Example:
//
//	m, err := mempack.NewResizable(memory.WithSize(64))
//	defer m.Release()
func NewResizable(opts ...memory.ResizableOption) (*memory.Memory, error) {
	return memory.NewResizable(opts...)
}

// Pack encodes args into m starting at the 1-based position pos.
//
// Running out of room is reported through PackResult.Complete rather than
// an error; read-only memory yields errs.ErrReadOnly.
//
// Example:
//
//	m, _ := mempack.New(4)
//	res, _ := mempack.Pack(m, 1, "<i i", encoding.Int(1), encoding.Int(2))
//	// res.Complete == false, res.Written == 4, res.Arg == 1
func Pack(m *memory.Memory, pos int, fmtStr string, args ...encoding.Value) (encoding.PackResult, error) {
	buf, err := m.Mutable()
	if err != nil {
		return encoding.PackResult{}, err
	}

	return encoding.Pack(buf, pos, fmtStr, args...)
}

// Unpack decodes the fields of fmtStr from m starting at the 1-based
// position pos. It returns the values and the position after the last byte
// read.
func Unpack(m *memory.Memory, pos int, fmtStr string) ([]encoding.Value, int, error) {
	return encoding.Unpack(m.Bytes(), pos, fmtStr)
}

// Size returns the number of bytes a fixed-size format occupies on this host.
// Formats with 's' or 'z' yield errs.ErrVariableSize.
func Size(fmtStr string) (int, error) {
	return format.Size(fmtStr)
}

// NewWriter creates a Writer appending to a fresh resizable memory object
// built from opts.
//
// Example:
//
//	w, _ := mempack.NewWriter(memory.WithAllocator(memory.NewMmapAllocator()))
//	for _, p := range points {
//	    _ = w.Pack("<j d", encoding.Int(p.Ts), encoding.Float(p.Val))
//	}
func NewWriter(opts ...memory.ResizableOption) (*encoding.Writer, error) {
	m, err := memory.NewResizable(opts...)
	if err != nil {
		return nil, err
	}

	return encoding.NewWriter(m, nil)
}

// FormatID returns the 64-bit identifier of a format string, the key under
// which its size is cached.
//
// Two different formats may share an identifier; use it for bucketing, not
// equality.
func FormatID(fmtStr string) uint64 {
	return hash.FormatID(fmtStr)
}
