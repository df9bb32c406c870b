// Package span implements primitives over byte ranges addressed with 1-based
// signed positions.
//
// A positive position i addresses byte i, zero selects the default and a
// negative position -k addresses the k-th byte from the end (len-k+1). All
// functions operate on a plain []byte view, so they work on any memory
// object as well as on ordinary Go slices.
package span

import (
	"bytes"
	"fmt"
	"math"

	"github.com/arloliu/mempack/errs"
)

// MaxLen bounds end-start for a range; reaching it means end-start+1 would
// overflow int.
const MaxLen = math.MaxInt

// StartPos normalizes a start position for a range over n bytes.
//
//	pos > 0           -> pos
//	pos == 0          -> 1
//	pos < 0, -pos > n -> 1
//	otherwise         -> n + pos + 1
func StartPos(pos, n int) int {
	switch {
	case pos > 0:
		return pos
	case pos == 0:
		return 1
	case -pos > n:
		return 1
	default:
		return n + pos + 1
	}
}

// EndPos normalizes an end position for a range over n bytes. The result is
// clamped to [0, n]; an end before the start yields an empty range.
func EndPos(pos, n int) int {
	switch {
	case pos > n:
		return n
	case pos >= 0:
		return pos
	case -pos > n:
		return 0
	default:
		return n + pos + 1
	}
}

// Bounds normalizes [i, j] over n bytes and returns the 1-based start and the
// number of bytes in the range. A zero j selects the end of the range.
func Bounds(i, j, n int) (int, int, error) {
	start := StartPos(i, n)
	end := n
	if j != 0 {
		end = EndPos(j, n)
	}
	if start > end {
		return start, 0, nil
	}

	count, err := Len(start, end)
	if err != nil {
		return 0, 0, err
	}

	return start, count, nil
}

// Len returns end-start+1 for start <= end, detecting ranges longer than MaxLen.
func Len(start, end int) (int, error) {
	if end < start {
		return 0, nil
	}
	if end-start >= MaxLen || end-start < 0 {
		return 0, fmt.Errorf("%w: [%d, %d]", errs.ErrSliceTooLong, start, end)
	}

	return end - start + 1, nil
}

// Slice copies the bytes of b in [i, j] into a new slice. An empty range
// yields an empty, non-nil slice.
func Slice(b []byte, i, j int) ([]byte, error) {
	start, n, err := Bounds(i, j, len(b))
	if err != nil {
		return nil, err
	}

	out := make([]byte, n)
	if n > 0 {
		copy(out, b[start-1:start-1+n])
	}

	return out, nil
}

// Fill repeats pattern[os-1:] across the bytes of b in [i, j], wrapping
// around the pattern as many times as needed.
//
// Nothing happens when the range is empty or the pattern offset is past the
// end of the pattern. A non-empty range must have both ends inside [1, len].
func Fill(b []byte, pattern []byte, i, j, os int) error {
	n := len(b)
	start := Relative(i, 1, n)
	end := Relative(j, -1, n)
	offset := StartPos(os, len(pattern))
	if start > end || offset > len(pattern) {
		return nil
	}
	if start < 1 || start > n {
		return fmt.Errorf("%w: start %d, length %d", errs.ErrIndexOutOfBounds, i, n)
	}
	if end < 1 || end > n {
		return fmt.Errorf("%w: end %d, length %d", errs.ErrIndexOutOfBounds, j, n)
	}
	if _, err := Len(start, end); err != nil {
		return err
	}

	Repeat(b[start-1:end], pattern[offset-1:])

	return nil
}

// Relative translates pos without clamping: negative positions count back
// from the end and a position before the first byte becomes 0. A zero pos
// selects def.
func Relative(pos, def, n int) int {
	if pos == 0 {
		pos = def
	}
	switch {
	case pos >= 0:
		return pos
	case -pos > n:
		return 0
	default:
		return n + pos + 1
	}
}

// Repeat fills dst with copies of src. src must not be empty when dst is not.
func Repeat(dst, src []byte) {
	for len(dst) > 0 {
		k := copy(dst, src)
		dst = dst[k:]
	}
}

// Find searches needle[os-1:] within the bytes of haystack in [i, j].
//
// It returns the 1-based inclusive bounds of the first occurrence. An empty
// needle matches at the start of the range, reported as (i, i-1); a needle
// longer than the range is never found.
func Find(haystack, needle []byte, i, j, os int) (int, int, bool, error) {
	n := len(haystack)
	start := StartPos(i, n)
	end := n
	if j != 0 {
		end = EndPos(j, n)
	}
	offset := StartPos(os, len(needle))
	if offset > len(needle)+1 {
		return 0, 0, false, nil
	}

	pat := needle[offset-1:]
	if len(pat) == 0 {
		if start > end+1 {
			return 0, 0, false, nil
		}

		return start, start - 1, true, nil
	}
	if start > end {
		return 0, 0, false, nil
	}

	count, err := Len(start, end)
	if err != nil {
		return 0, 0, false, err
	}
	if len(pat) > count {
		return 0, 0, false, nil
	}

	idx := bytes.Index(haystack[start-1:start-1+count], pat)
	if idx < 0 {
		return 0, 0, false, nil
	}
	first := start + idx

	return first, first + len(pat) - 1, true, nil
}

// Diff compares a and b byte by byte.
//
// It returns the 1-based position of the first mismatch and whether a is the
// smaller one at that position. A zero position means a and b are equal.
// When one is a strict prefix of the other, the position is min(len)+1 and
// the shorter one is less.
func Diff(a, b []byte) (int, bool) {
	n := min(len(a), len(b))
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}

	switch {
	case i < n:
		return i + 1, a[i] < b[i]
	case len(a) == len(b):
		return 0, false
	default:
		return i + 1, len(a) < len(b)
	}
}

// Concat returns a fresh slice holding a followed by b.
func Concat(a, b []byte) []byte {
	out := make([]byte, len(a)+len(b))
	copy(out, a)
	copy(out[len(a):], b)

	return out
}

// Set writes vals into b starting at position i. Values that would run past
// the end of b are dropped.
func Set(b []byte, i int, vals ...byte) error {
	n := len(b)
	pos := Relative(i, 0, n)
	if pos < 1 || pos > n {
		return fmt.Errorf("%w: position %d, length %d", errs.ErrIndexOutOfBounds, i, n)
	}
	copy(b[pos-1:], vals)

	return nil
}
