// Package errs defines the sentinel errors shared by all mempack packages.
//
// Callers match them with errors.Is; the packages wrap them with additional
// context through fmt.Errorf("%w: ...").
package errs

import "errors"

// Memory object and byte-range errors.
var (
	ErrInvalidSize      = errors.New("invalid size")
	ErrIndexOutOfBounds = errors.New("index out of bounds")
	ErrSliceTooLong     = errors.New("slice too long")
	ErrOutOfMemory      = errors.New("out of memory")
	ErrNotResizable     = errors.New("resizable memory expected")
	ErrNotReference     = errors.New("memory reference expected")
	ErrReadOnly         = errors.New("memory is read-only")
)

// Format string errors.
var (
	ErrMalformedFormat = errors.New("malformed format")
	ErrVariableSize    = errors.New("variable-size format")
)

// Pack errors.
var (
	ErrIntegerOverflow  = errors.New("integer overflow")
	ErrUnsignedOverflow = errors.New("unsigned overflow")
	ErrWrongLength      = errors.New("wrong length")
	ErrLengthOverflow   = errors.New("string length does not fit in given size")
	ErrEmbeddedZero     = errors.New("string contains zeros")
	ErrMissingArgument  = errors.New("missing argument")
	ErrArgumentType     = errors.New("wrong argument type")
)

// Unpack errors.
var (
	ErrIntegerTooWide     = errors.New("integer does not fit into native integer")
	ErrDataTooShort       = errors.New("data too short")
	ErrUnterminatedString = errors.New("unfinished string for format 'z'")
)
