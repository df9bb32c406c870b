package encoding

import (
	"bytes"
	"fmt"
	"math"

	"github.com/arloliu/mempack/endian"
	"github.com/arloliu/mempack/errs"
	"github.com/arloliu/mempack/format"
	"github.com/arloliu/mempack/internal/options"
	"github.com/arloliu/mempack/span"
)

// PackResult reports how far a Pack call got.
type PackResult struct {
	// Complete is true when every directive was written.
	Complete bool
	// Next is the 1-based position following the last byte written. On a
	// partial result it is the position of the first byte that did not fit.
	Next int
	// Written is the number of bytes advanced since the start position,
	// alignment padding included.
	Written int
	// Arg is the index of the argument being packed when the buffer ran
	// out; it equals the number of arguments fully consumed. On a complete
	// result it is the number of arguments consumed.
	Arg int
}

// Packer packs and unpacks values with a fixed configuration.
type Packer struct {
	ctx     format.Context
	padByte byte
}

// PackerOption configures a Packer.
type PackerOption = options.Option[*Packer]

// WithPadByte sets the byte written for 'x' and alignment padding. The
// default is 0x00.
func WithPadByte(b byte) PackerOption {
	return options.NoError(func(p *Packer) {
		p.padByte = b
	})
}

// WithContext overrides the host properties used to parse formats. The
// default is format.NativeContext().
func WithContext(ctx format.Context) PackerOption {
	return options.New(func(p *Packer) error {
		if ctx.MaxAlign < 1 || ctx.MaxAlign > format.MaxIntSize || ctx.MaxAlign&(ctx.MaxAlign-1) != 0 {
			return fmt.Errorf("%w: native alignment %d", errs.ErrInvalidSize, ctx.MaxAlign)
		}
		p.ctx = ctx

		return nil
	})
}

// NewPacker creates a Packer.
func NewPacker(opts ...PackerOption) (*Packer, error) {
	p := &Packer{ctx: format.NativeContext()}
	if err := options.Apply(p, opts...); err != nil {
		return nil, err
	}

	return p, nil
}

var defaultPacker = &Packer{ctx: format.NativeContext()}

// Pack packs args into buf with the default Packer.
func Pack(buf []byte, pos int, fmtStr string, args ...Value) (PackResult, error) {
	return defaultPacker.Pack(buf, pos, fmtStr, args...)
}

// Context returns the host properties the packer parses formats with.
func (p *Packer) Context() format.Context {
	return p.ctx
}

// Pack encodes args into buf according to fmtStr, starting at the 1-based
// position pos. A zero pos means 1 and negative positions count from the
// end of buf; the normalized position must fall inside buf.
//
// Every value-consuming directive takes the next argument; arguments left
// over at the end are ignored. Bytes written before a failure stay written.
func (p *Packer) Pack(buf []byte, pos int, fmtStr string, args ...Value) (PackResult, error) {
	n := len(buf)
	start := span.Relative(pos, 1, n)
	if start < 1 || start > n {
		return PackResult{}, fmt.Errorf("%w: start position %d, length %d", errs.ErrIndexOutOfBounds, pos, n)
	}

	w := packState{buf: buf, off: start - 1, base: start - 1, pad: p.padByte}
	parser := format.NewParser(fmtStr, p.ctx)
	for parser.More() {
		d, err := parser.Next(w.off - w.base)
		if err != nil {
			return PackResult{}, err
		}
		if !w.skip(d.Padding) {
			return w.partial(), nil
		}

		if !d.Kind.ConsumesValue() {
			if d.Kind == format.KindPadding && !w.skip(1) {
				return w.partial(), nil
			}

			continue
		}

		if w.arg >= len(args) {
			return PackResult{}, fmt.Errorf("%w: args[%d] for option '%c'", errs.ErrMissingArgument, w.arg, d.Option)
		}
		ok, err := w.field(d, args[w.arg])
		if err != nil {
			return PackResult{}, err
		}
		if !ok {
			return w.partial(), nil
		}
		w.arg++
	}

	return PackResult{Complete: true, Next: w.off + 1, Written: w.off - w.base, Arg: w.arg}, nil
}

// packState is the cursor of one Pack call.
type packState struct {
	buf  []byte
	off  int
	base int
	arg  int
	pad  byte
}

func (w *packState) partial() PackResult {
	return PackResult{Next: w.off + 1, Written: w.off - w.base, Arg: w.arg}
}

func (w *packState) room(size int) bool {
	return size <= len(w.buf)-w.off
}

// skip writes size pad bytes.
func (w *packState) skip(size int) bool {
	if size == 0 {
		return true
	}
	if !w.room(size) {
		return false
	}
	dst := w.buf[w.off : w.off+size]
	for i := range dst {
		dst[i] = w.pad
	}
	w.off += size

	return true
}

// put copies b at the cursor.
func (w *packState) put(b []byte) bool {
	if !w.room(len(b)) {
		return false
	}
	w.off += copy(w.buf[w.off:], b)

	return true
}

// putInt writes the low size bytes of v.
func (w *packState) putInt(v uint64, size int, little, negative bool) bool {
	if !w.room(size) {
		return false
	}
	endian.PutInt(w.buf[w.off:w.off+size], v, little, negative)
	w.off += size

	return true
}

// field validates arg against d and writes it. A false result with a nil
// error means the buffer ran out.
func (w *packState) field(d format.Directive, arg Value) (bool, error) {
	idx := w.arg
	switch d.Kind {
	case format.KindInt:
		v, err := asInt(arg, idx)
		if err != nil {
			return false, err
		}
		if d.Size < endian.NativeWidth {
			lim := int64(1) << (d.Size*8 - 1)
			if v < -lim || v >= lim {
				return false, fmt.Errorf("%w: args[%d]: %d does not fit in %d bytes", errs.ErrIntegerOverflow, idx, v, d.Size)
			}
		}

		return w.putInt(uint64(v), d.Size, d.Little, v < 0), nil

	case format.KindUint:
		v, err := asInt(arg, idx)
		if err != nil {
			return false, err
		}
		if d.Size < endian.NativeWidth && uint64(v) >= uint64(1)<<(d.Size*8) {
			return false, fmt.Errorf("%w: args[%d]: %d does not fit in %d bytes", errs.ErrUnsignedOverflow, idx, v, d.Size)
		}

		return w.putInt(uint64(v), d.Size, d.Little, false), nil

	case format.KindFloat:
		f, err := asFloat(arg, idx)
		if err != nil {
			return false, err
		}
		if !w.room(d.Size) {
			return false, nil
		}
		engine := endian.GetEngine(d.Little)
		if d.Size == format.SizeFloat {
			engine.PutUint32(w.buf[w.off:], math.Float32bits(float32(f)))
		} else {
			engine.PutUint64(w.buf[w.off:], math.Float64bits(f))
		}
		w.off += d.Size

		return true, nil

	case format.KindChar:
		s, err := asBytes(arg, idx)
		if err != nil {
			return false, err
		}
		if len(s) != d.Size {
			return false, fmt.Errorf("%w: args[%d]: %d bytes for option 'c%d'", errs.ErrWrongLength, idx, len(s), d.Size)
		}

		return w.put(s), nil

	case format.KindString:
		s, err := asBytes(arg, idx)
		if err != nil {
			return false, err
		}
		if d.Size < format.SizeSizeT && uint64(len(s)) >= uint64(1)<<(d.Size*8) {
			return false, fmt.Errorf("%w: args[%d]: %d bytes with a %d-byte prefix", errs.ErrLengthOverflow, idx, len(s), d.Size)
		}

		return w.putInt(uint64(len(s)), d.Size, d.Little, false) && w.put(s), nil

	case format.KindZString:
		s, err := asBytes(arg, idx)
		if err != nil {
			return false, err
		}
		if bytes.IndexByte(s, 0) >= 0 {
			return false, fmt.Errorf("%w: args[%d]", errs.ErrEmbeddedZero, idx)
		}

		return w.put(s) && w.put([]byte{0}), nil
	}

	return true, nil
}
