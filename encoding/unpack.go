package encoding

import (
	"bytes"
	"fmt"
	"math"

	"github.com/arloliu/mempack/endian"
	"github.com/arloliu/mempack/errs"
	"github.com/arloliu/mempack/format"
	"github.com/arloliu/mempack/span"
)

// Unpack decodes data with the default Packer.
func Unpack(data []byte, pos int, fmtStr string) ([]Value, int, error) {
	return defaultPacker.Unpack(data, pos, fmtStr)
}

// Unpack decodes the fields described by fmtStr from data, starting at the
// 1-based position pos. A zero pos means 1; pos may be len(data)+1 for a
// format that reads nothing.
//
// It returns one Value per value-consuming directive and the position
// following the last byte read. Byte strings in the result are copies.
func (p *Packer) Unpack(data []byte, pos int, fmtStr string) ([]Value, int, error) {
	n := len(data)
	start := span.Relative(pos, 1, n)
	if start < 1 || start > n+1 {
		return nil, 0, fmt.Errorf("%w: initial position %d, length %d", errs.ErrIndexOutOfBounds, pos, n)
	}

	off := start - 1
	base := off
	var vals []Value
	parser := format.NewParser(fmtStr, p.ctx)
	for parser.More() {
		d, err := parser.Next(off - base)
		if err != nil {
			return nil, 0, err
		}
		if d.Padding+d.Size > n-off {
			return nil, 0, fmt.Errorf("%w: option '%c' needs %d bytes at offset %d, length %d",
				errs.ErrDataTooShort, d.Option, d.Padding+d.Size, off, n)
		}
		off += d.Padding
		field := data[off : off+d.Size]

		switch d.Kind {
		case format.KindInt, format.KindUint:
			v, err := readInt(field, d.Little, d.Kind == format.KindInt)
			if err != nil {
				return nil, 0, err
			}
			vals = append(vals, Int(v))

		case format.KindFloat:
			engine := endian.GetEngine(d.Little)
			if d.Size == format.SizeFloat {
				vals = append(vals, Float(float64(math.Float32frombits(engine.Uint32(field)))))
			} else {
				vals = append(vals, Float(math.Float64frombits(engine.Uint64(field))))
			}

		case format.KindChar:
			vals = append(vals, Bytes(bytes.Clone(field)))

		case format.KindString:
			l, err := readInt(field, d.Little, false)
			if err != nil {
				return nil, 0, err
			}
			rest := n - off - d.Size
			if uint64(l) > uint64(rest) {
				return nil, 0, fmt.Errorf("%w: string of %d bytes at offset %d, %d left",
					errs.ErrDataTooShort, uint64(l), off+d.Size, rest)
			}
			s := data[off+d.Size : off+d.Size+int(l)]
			vals = append(vals, Bytes(bytes.Clone(s)))
			off += int(l)

		case format.KindZString:
			end := bytes.IndexByte(data[off:], 0)
			if end < 0 {
				return nil, 0, fmt.Errorf("%w: at offset %d", errs.ErrUnterminatedString, off)
			}
			vals = append(vals, Bytes(bytes.Clone(data[off:off+end])))
			off += end + 1
		}
		off += d.Size
	}

	return vals, off + 1, nil
}

// readInt decodes a 1..16 byte integer. Narrow signed fields are sign
// extended; fields wider than the native integer must carry only sign or
// zero bytes above it.
func readInt(field []byte, little, signed bool) (int64, error) {
	size := len(field)
	res := endian.Int(field, little)

	switch {
	case size < endian.NativeWidth:
		if signed {
			mask := uint64(1) << (size*8 - 1)
			res = (res ^ mask) - mask
		}
	case size > endian.NativeWidth:
		var fill byte
		if signed && int64(res) < 0 {
			fill = 0xFF
		}
		if !endian.HighBytesAre(field, little, fill) {
			return 0, fmt.Errorf("%w: %d-byte integer", errs.ErrIntegerTooWide, size)
		}
	}

	return int64(res), nil
}
