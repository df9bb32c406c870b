package encoding

import (
	"errors"
	"fmt"

	"github.com/arloliu/mempack/errs"
	"github.com/arloliu/mempack/memory"
)

const (
	// writerMinGrowth is the smallest step by which a Writer grows its memory.
	writerMinGrowth = 256
	// writerLargeThreshold is the length after which growth switches to 25%.
	writerLargeThreshold = 4096
)

// Writer appends packed records to a resizable memory object.
//
// Each Pack call starts where the previous one ended. When a call runs out
// of room the memory is grown and the call is repeated from the same
// position, so callers never see partial results.
type Writer struct {
	mem    *memory.Memory
	packer *Packer
	off    int
}

// NewWriter creates a Writer appending to m, which must be resizable. A nil
// packer selects the default one. Writing starts at the beginning of m.
func NewWriter(m *memory.Memory, packer *Packer) (*Writer, error) {
	if m == nil || m.Kind() != memory.KindResizable {
		kind := memory.KindNone
		if m != nil {
			kind = m.Kind()
		}

		return nil, fmt.Errorf("%w: writer needs resizable memory, got %s", errs.ErrNotResizable, kind)
	}
	if packer == nil {
		packer = defaultPacker
	}

	return &Writer{mem: m, packer: packer}, nil
}

// Pack appends args encoded with fmtStr.
func (w *Writer) Pack(fmtStr string, args ...Value) error {
	need := 1
	if size, err := w.packer.ctx.Size(fmtStr); err == nil {
		need = max(size, 1)
	} else if !errors.Is(err, errs.ErrVariableSize) {
		return err
	}

	for {
		if w.mem.Len()-w.off < need {
			if err := w.grow(need); err != nil {
				return err
			}
		}

		res, err := w.packer.Pack(w.mem.Bytes(), w.off+1, fmtStr, args...)
		if err != nil {
			return err
		}
		if res.Complete {
			w.off = res.Next - 1
			return nil
		}

		// Variable-size records only learn their length by trying.
		need = w.mem.Len() - w.off + 1
	}
}

// grow makes room for at least need bytes past the write offset.
func (w *Writer) grow(need int) error {
	cur := w.mem.Len()
	growBy := writerMinGrowth
	if cur > writerLargeThreshold {
		growBy = cur / 4
	}
	target := max(cur+growBy, w.off+need)
	if target > memory.MaxAlloc {
		if w.off+need > memory.MaxAlloc {
			return fmt.Errorf("%w: record needs %d bytes past offset %d", errs.ErrOutOfMemory, need, w.off)
		}
		target = memory.MaxAlloc
	}

	return w.mem.Resize(target, nil)
}

// Bytes returns the bytes written so far. The slice is invalidated by the
// next Pack.
func (w *Writer) Bytes() []byte {
	return w.mem.Bytes()[:w.off]
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return w.off
}

// Reset rewinds the Writer to the beginning of its memory.
func (w *Writer) Reset() {
	w.off = 0
}

// Truncate shrinks the memory to the bytes written so far.
func (w *Writer) Truncate() error {
	return w.mem.Resize(w.off, nil)
}

// Memory returns the memory object the Writer appends to.
func (w *Writer) Memory() *memory.Memory {
	return w.mem
}
