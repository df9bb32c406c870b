// Package endian provides byte order utilities for the pack and unpack engines.
//
// It combines the ByteOrder and AppendByteOrder interfaces of encoding/binary
// into a single EndianEngine, probes the host byte order once, and places
// integers of arbitrary width (1 to 16 bytes) into byte slices, which
// encoding/binary cannot do for widths other than 2, 4 and 8.
//
// # Basic Usage
//
//	engine := endian.GetEngine(true) // little-endian
//	engine.PutUint32(buf, 0x01020304)
//
//	// 3-byte big-endian field
//	endian.PutInt(buf[:3], 0x010203, false, false)
//	v := endian.Int(buf[:3], false)
//
// # Thread Safety
//
// All functions in this package are safe for concurrent use.
package endian

import (
	"encoding/binary"
	"sync"
	"unsafe"
)

// NativeWidth is the width in bytes of the host integer used to carry packed
// integers (int64). Wider fields are sign-extended on write and range-checked
// on read.
const NativeWidth = 8

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary.
//
// binary.LittleEndian and binary.BigEndian both satisfy it.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

var nativeOrder = sync.OnceValue(func() binary.ByteOrder {
	// 0x0100: a big-endian host stores 0x01 at the lowest address.
	var probe uint16 = 0x0100
	b := (*[2]byte)(unsafe.Pointer(&probe))
	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
})

// CheckEndianness returns the host byte order. The probe runs once per process.
func CheckEndianness() binary.ByteOrder {
	return nativeOrder()
}

// IsNativeLittleEndian reports whether the host is little-endian.
func IsNativeLittleEndian() bool {
	return CheckEndianness() == binary.LittleEndian
}

// GetEngine returns the little-endian engine when little is true, the
// big-endian engine otherwise.
func GetEngine(little bool) EndianEngine {
	if little {
		return binary.LittleEndian
	}

	return binary.BigEndian
}

// ByteIndex maps the i-th least significant byte of a size-byte field to its
// position in the field.
func ByteIndex(i, size int, little bool) int {
	if little {
		return i
	}

	return size - 1 - i
}

// PutInt writes the low len(b) bytes of v into b using the given byte order.
//
// When b is wider than NativeWidth the extra high-order bytes are set to 0xFF
// if negative is true, 0x00 otherwise, so that a negative int64 keeps its
// value in a 9..16 byte field.
func PutInt(b []byte, v uint64, little, negative bool) {
	size := len(b)
	for i := 0; i < size; i++ {
		var c byte
		switch {
		case i < NativeWidth:
			c = byte(v >> (8 * i))
		case negative:
			c = 0xFF
		}
		b[ByteIndex(i, size, little)] = c
	}
}

// Int reads at most NativeWidth low-order bytes of b and returns them as an
// unsigned magnitude. Bytes above NativeWidth are ignored; use HighBytesAre to
// verify them.
func Int(b []byte, little bool) uint64 {
	size := len(b)
	limit := min(size, NativeWidth)

	var res uint64
	for i := limit - 1; i >= 0; i-- {
		res <<= 8
		res |= uint64(b[ByteIndex(i, size, little)])
	}

	return res
}

// HighBytesAre reports whether every byte of b above NativeWidth equals fill.
// It is always true for fields no wider than NativeWidth.
func HighBytesAre(b []byte, little bool, fill byte) bool {
	size := len(b)
	for i := NativeWidth; i < size; i++ {
		if b[ByteIndex(i, size, little)] != fill {
			return false
		}
	}

	return true
}
