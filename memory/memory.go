package memory

import (
	"fmt"
	"math"
	"runtime"
	"unsafe"

	"github.com/arloliu/mempack/errs"
	"github.com/arloliu/mempack/internal/options"
	"github.com/arloliu/mempack/span"
)

// MaxAlloc is the largest size of a memory object.
const MaxAlloc = math.MaxInt32

// Kind is the ownership state of a Memory.
type Kind uint8

const (
	KindNone      Kind = iota // KindNone has no storage.
	KindFixed                 // KindFixed is a fixed-length heap buffer.
	KindResizable             // KindResizable is an allocator-backed buffer.
	KindExternal              // KindExternal is a buffer owned elsewhere.
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindFixed:
		return "fixed"
	case KindResizable:
		return "resizable"
	case KindExternal:
		return "external"
	default:
		return "unknown"
	}
}

// ReleaseFunc gives an external buffer back to its owner.
type ReleaseFunc func(b []byte)

// Memory is a byte buffer together with its ownership state.
//
// The zero value is an empty KindNone object that Reset can bind. A Memory
// must not be copied after first use.
type Memory struct {
	st      *state
	tracked bool
}

// state lives apart from Memory so the runtime cleanup can reach it without
// keeping the Memory itself alive.
type state struct {
	kind     Kind
	buf      []byte
	release  ReleaseFunc
	alloc    Allocator
	readOnly bool
}

// drop lets go of the buffer and leaves the state empty.
func (s *state) drop() error {
	buf, kind, release, alloc := s.buf, s.kind, s.release, s.alloc
	*s = state{}

	switch {
	case kind == KindResizable && alloc != nil:
		return alloc.Free(buf)
	case release != nil:
		release(buf)
	}

	return nil
}

// cleanupState runs when the Memory owning s has been collected. Go-heap
// buffers are not recycled here: slices handed out by Bytes keep them alive.
func cleanupState(s *state) {
	if s.kind == KindResizable && !freeOnCollect(s.alloc) {
		return
	}
	_ = s.drop()
}

// Allocate creates a fixed, zero-filled memory object of n bytes.
func Allocate(n int) (*Memory, error) {
	if n < 0 || n > MaxAlloc {
		return nil, fmt.Errorf("%w: %d", errs.ErrInvalidSize, n)
	}

	return &Memory{st: &state{kind: KindFixed, buf: make([]byte, n)}}, nil
}

// FromBytes creates a fixed memory object holding a copy of src[i:j] with
// 1-based inclusive positions.
func FromBytes(src []byte, i, j int) (*Memory, error) {
	b, err := span.Slice(src, i, j)
	if err != nil {
		return nil, err
	}
	if len(b) > MaxAlloc {
		return nil, fmt.Errorf("%w: %d", errs.ErrInvalidSize, len(b))
	}

	return &Memory{st: &state{kind: KindFixed, buf: b}}, nil
}

// Wrap binds an externally owned buffer. release, when not nil, is called
// with b once the object lets go of it.
func Wrap(b []byte, release ReleaseFunc) *Memory {
	m := &Memory{}
	m.bind(b, release, false)

	return m
}

// WrapReadOnly is like Wrap but Mutable and the mutating helpers refuse to
// hand out or modify the bytes.
func WrapReadOnly(b []byte, release ReleaseFunc) *Memory {
	m := &Memory{}
	m.bind(b, release, true)

	return m
}

// ResizableConfig holds the options of NewResizable.
type ResizableConfig struct {
	allocator Allocator
	size      int
}

// ResizableOption configures a resizable memory object.
type ResizableOption = options.Option[*ResizableConfig]

// WithAllocator sets the allocator backing the buffer. The default is the
// pooled heap allocator; a nil allocator keeps the default.
func WithAllocator(a Allocator) ResizableOption {
	return options.NoError(func(c *ResizableConfig) {
		if a != nil {
			c.allocator = a
		}
	})
}

// WithSize sets the initial, zero-filled length. The default is 0.
func WithSize(n int) ResizableOption {
	return options.New(func(c *ResizableConfig) error {
		if n < 0 || n > MaxAlloc {
			return fmt.Errorf("%w: %d", errs.ErrInvalidSize, n)
		}
		c.size = n

		return nil
	})
}

// NewResizable creates a resizable memory object.
func NewResizable(opts ...ResizableOption) (*Memory, error) {
	cfg := &ResizableConfig{allocator: Heap}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	b, err := cfg.allocator.Alloc(cfg.size)
	if err != nil {
		return nil, fmt.Errorf("%w: %d bytes: %v", errs.ErrOutOfMemory, cfg.size, err)
	}

	m := &Memory{st: &state{kind: KindResizable, buf: b, alloc: cfg.allocator}}
	m.track()

	return m, nil
}

func (m *Memory) track() {
	if m.tracked {
		return
	}
	runtime.AddCleanup(m, cleanupState, m.st)
	m.tracked = true
}

func (m *Memory) bind(b []byte, release ReleaseFunc, readOnly bool) {
	kind := KindExternal
	if b == nil && release == nil {
		kind = KindNone
	}
	if m.st == nil {
		m.st = &state{}
	}
	*m.st = state{kind: kind, buf: b, release: release, readOnly: readOnly}
	m.track()
}

// Kind returns the ownership state.
func (m *Memory) Kind() Kind {
	if m.st == nil {
		return KindNone
	}

	return m.st.kind
}

// Bytes returns the buffer. The slice must not be written to when the
// object is read-only.
func (m *Memory) Bytes() []byte {
	if m.st == nil {
		return nil
	}

	return m.st.buf
}

// Len returns the length of the buffer.
func (m *Memory) Len() int {
	return len(m.Bytes())
}

// ReadOnly reports whether the object refuses modifications.
func (m *Memory) ReadOnly() bool {
	return m.st != nil && m.st.readOnly
}

// Mutable returns the buffer for writing.
func (m *Memory) Mutable() ([]byte, error) {
	if m.ReadOnly() {
		return nil, errs.ErrReadOnly
	}

	return m.Bytes(), nil
}

// Resize changes the length of a resizable object to n bytes. Bytes past the
// old length are zero-filled, or filled by repeating fill when it is not
// empty.
//
// On failure the object keeps its previous buffer.
func (m *Memory) Resize(n int, fill []byte) error {
	if m.Kind() != KindResizable {
		return fmt.Errorf("%w: got %s", errs.ErrNotResizable, m.Kind())
	}
	if n < 0 || n > MaxAlloc {
		return fmt.Errorf("%w: %d", errs.ErrInvalidSize, n)
	}

	st := m.st
	old := len(st.buf)
	b, err := st.alloc.Realloc(st.buf, n)
	if err != nil {
		return fmt.Errorf("%w: resize to %d bytes: %v", errs.ErrOutOfMemory, n, err)
	}

	if n > old {
		grown := b[old:n]
		if len(fill) == 0 {
			clear(grown)
		} else {
			span.Repeat(grown, fill)
		}
	}
	st.buf = b

	return nil
}

// Reset rebinds a reference to b, to be released through release. A nil b
// with a nil release leaves the object empty.
//
// The previous buffer is released unless b starts at the same address.
// Fixed objects cannot be rebound.
func (m *Memory) Reset(b []byte, release ReleaseFunc) error {
	if m.Kind() == KindFixed {
		return fmt.Errorf("%w: got %s", errs.ErrNotReference, KindFixed)
	}

	var err error
	if m.st != nil && !sameBacking(m.st.buf, b) {
		err = m.st.drop()
	}
	m.bind(b, release, false)

	return err
}

func sameBacking(a, b []byte) bool {
	if cap(a) == 0 || cap(b) == 0 {
		return false
	}

	return unsafe.SliceData(a) == unsafe.SliceData(b)
}

// Release lets go of the buffer: external buffers are handed to their
// ReleaseFunc, resizable ones go back to their allocator. The object is left
// as KindNone. Releasing twice is a no-op.
//
// Slices obtained from Bytes must not be used after Release. An object that
// is dropped without Release still calls its ReleaseFunc once it is
// collected; heap buffers are then left to the garbage collector instead of
// being recycled.
func (m *Memory) Release() {
	_ = m.Close()
}

// Close is Release that also reports an allocator failure.
func (m *Memory) Close() error {
	if m.st == nil {
		return nil
	}

	return m.st.drop()
}

// Slice returns a copy of the bytes in [i, j].
func (m *Memory) Slice(i, j int) ([]byte, error) {
	return span.Slice(m.Bytes(), i, j)
}

// String returns the bytes in [i, j] as a string.
func (m *Memory) String(i, j int) (string, error) {
	b, err := span.Slice(m.Bytes(), i, j)
	if err != nil {
		return "", err
	}

	return string(b), nil
}

// Get returns the byte at position i.
func (m *Memory) Get(i int) (byte, error) {
	b := m.Bytes()
	n := len(b)
	pos := span.Relative(i, 0, n)
	if pos < 1 || pos > n {
		return 0, fmt.Errorf("%w: position %d, length %d", errs.ErrIndexOutOfBounds, i, n)
	}

	return b[pos-1], nil
}

// Set writes vals starting at position i.
func (m *Memory) Set(i int, vals ...byte) error {
	b, err := m.Mutable()
	if err != nil {
		return err
	}

	return span.Set(b, i, vals...)
}

// Fill repeats pattern[os-1:] over the bytes in [i, j].
func (m *Memory) Fill(pattern []byte, i, j, os int) error {
	b, err := m.Mutable()
	if err != nil {
		return err
	}

	return span.Fill(b, pattern, i, j, os)
}

// Find locates needle[os-1:] within the bytes in [i, j].
func (m *Memory) Find(needle []byte, i, j, os int) (int, int, bool, error) {
	return span.Find(m.Bytes(), needle, i, j, os)
}
