// Package format compiles pack/unpack format strings into a stream of
// directives.
//
// A format string is a sequence of single-character options, some followed
// by a decimal size:
//
//	b/B   signed/unsigned char          h/H  signed/unsigned short
//	l/L   signed/unsigned C long        j/J  signed/unsigned 64-bit integer
//	T     size_t                        i/I[n] signed/unsigned int with n bytes (default 4)
//	f     float                         d/n  double
//	c<n>  fixed-length string of n bytes
//	s[n]  string preceded by an n-byte length (default size_t)
//	z     zero-terminated string
//	x     one byte of padding           X<op> align to the option op
//	< > = little, big and native endianness
//	![n]  maximum alignment n (default: native alignment)
//	' '   ignored
//
// The parser is lazy: each call to Next decodes one directive, so a pack or
// unpack call streams over the format once without building a list.
package format

import (
	"fmt"

	"github.com/arloliu/mempack/errs"
)

// Parser walks a format string one directive at a time.
//
// A Parser is not safe for concurrent use. It cannot be rewound; create a new
// one to restart from the beginning of the format.
type Parser struct {
	fmt      string
	pos      int
	ctx      Context
	little   bool
	maxAlign int
}

// NewParser creates a parser for format using the host properties in ctx.
// The initial state is native endianness and a maximum alignment of 1.
func NewParser(format string, ctx Context) *Parser {
	return &Parser{
		fmt:      format,
		ctx:      ctx,
		little:   ctx.NativeLittle,
		maxAlign: 1,
	}
}

// More reports whether the format has unread options.
func (p *Parser) More() bool {
	return p.pos < len(p.fmt)
}

// Little reports the byte order currently in effect.
func (p *Parser) Little() bool {
	return p.little
}

// MaxAlign returns the alignment ceiling currently in effect.
func (p *Parser) MaxAlign() int {
	return p.maxAlign
}

// Next decodes the next directive.
//
// total is the number of bytes consumed since the start of the pack or
// unpack call; it determines how many padding bytes the directive needs to
// reach its alignment.
func (p *Parser) Next(total int) (Directive, error) {
	d, err := p.option()
	if err != nil {
		return Directive{}, err
	}

	align := d.Size
	if d.Kind == KindPadAlign {
		if !p.More() {
			return Directive{}, p.errorf("invalid next option for option 'X'")
		}
		next, err := p.option()
		if err != nil {
			return Directive{}, err
		}
		if next.Kind == KindChar || next.Kind == KindString || next.Kind == KindZString || next.Size == 0 {
			return Directive{}, p.errorf("invalid next option for option 'X'")
		}
		align = next.Size
	}

	if align <= 1 || d.Kind == KindChar || d.Kind == KindString {
		return d, nil
	}

	align = min(align, p.maxAlign)
	if align&(align-1) != 0 {
		return Directive{}, p.errorf("format asks for alignment not power of 2")
	}
	d.Padding = (align - total&(align-1)) & (align - 1)

	return d, nil
}

// option reads and classifies one option, applying state changes.
func (p *Parser) option() (Directive, error) {
	opt := p.fmt[p.pos]
	p.pos++

	d := Directive{Kind: KindNop, Option: opt, Little: p.little}
	var err error

	switch opt {
	case 'b':
		d.Kind, d.Size = KindInt, SizeChar
	case 'B':
		d.Kind, d.Size = KindUint, SizeChar
	case 'h':
		d.Kind, d.Size = KindInt, SizeShort
	case 'H':
		d.Kind, d.Size = KindUint, SizeShort
	case 'l':
		d.Kind, d.Size = KindInt, SizeLong
	case 'L':
		d.Kind, d.Size = KindUint, SizeLong
	case 'j':
		d.Kind, d.Size = KindInt, SizeInteger
	case 'J':
		d.Kind, d.Size = KindUint, SizeInteger
	case 'T':
		d.Kind, d.Size = KindUint, SizeSizeT
	case 'f':
		d.Kind, d.Size = KindFloat, SizeFloat
	case 'd':
		d.Kind, d.Size = KindFloat, SizeDouble
	case 'n':
		d.Kind, d.Size = KindFloat, SizeNumber
	case 'i':
		d.Kind = KindInt
		d.Size, err = p.numLimit(SizeInt)
	case 'I':
		d.Kind = KindUint
		d.Size, err = p.numLimit(SizeInt)
	case 's':
		d.Kind = KindString
		d.Size, err = p.numLimit(SizeSizeT)
	case 'c':
		d.Kind = KindChar
		d.Size = p.num(-1)
		if d.Size == -1 {
			return Directive{}, p.errorf("missing size for format option 'c'")
		}
	case 'z':
		d.Kind = KindZString
	case 'x':
		d.Kind, d.Size = KindPadding, 1
	case 'X':
		d.Kind = KindPadAlign
	case ' ':
	case '<':
		p.little = true
	case '>':
		p.little = false
	case '=':
		p.little = p.ctx.NativeLittle
	case '!':
		p.maxAlign, err = p.numLimit(p.ctx.MaxAlign)
	default:
		return Directive{}, p.errorf("invalid format option '%c'", opt)
	}
	if err != nil {
		return Directive{}, err
	}

	return d, nil
}

// num reads a decimal numeral or returns df when there is none. Scanning
// stops before the value can exceed MaxAlloc.
func (p *Parser) num(df int) int {
	if !p.More() || !isDigit(p.fmt[p.pos]) {
		return df
	}

	a := 0
	for {
		a = a*10 + int(p.fmt[p.pos]-'0')
		p.pos++
		if !p.More() || !isDigit(p.fmt[p.pos]) || a > (MaxAlloc-9)/10 {
			return a
		}
	}
}

// numLimit reads a size that must fall in [1, MaxIntSize].
func (p *Parser) numLimit(df int) (int, error) {
	sz := p.num(df)
	if sz > MaxIntSize || sz <= 0 {
		return 0, fmt.Errorf("%w: integral size (%d) out of limits [1,%d]", errs.ErrInvalidSize, sz, MaxIntSize)
	}

	return sz, nil
}

func (p *Parser) errorf(msg string, args ...any) error {
	return fmt.Errorf("%w: "+msg+" at offset %d", append([]any{errs.ErrMalformedFormat}, append(args, p.pos-1)...)...)
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}
