// Package pool recycles the byte slices that back heap-allocated resizable
// memory objects.
package pool

import "sync"

const (
	// DefaultBufferSize is the capacity of a freshly created pooled buffer.
	DefaultBufferSize = 1024 * 4 // 4KiB
	// MaxRetainedSize is the largest capacity the default pool keeps for reuse.
	MaxRetainedSize = 1024 * 1024 // 1MiB
)

// ByteBuffer wraps a byte slice so it can travel through a sync.Pool without
// an extra allocation for the slice header.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewByteBuffer creates an empty ByteBuffer with the given capacity.
func NewByteBuffer(capacity int) *ByteBuffer {
	return &ByteBuffer{B: make([]byte, 0, capacity)}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Cap returns the capacity of the buffer.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// Reset empties the buffer but keeps its capacity.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Grow makes room for requiredBytes more bytes beyond the current length.
//
// Small buffers grow by DefaultBufferSize; buffers past 4*DefaultBufferSize
// grow by a quarter of their capacity. The growth is never smaller than
// requiredBytes.
func (bb *ByteBuffer) Grow(requiredBytes int) {
	if cap(bb.B)-len(bb.B) >= requiredBytes {
		return
	}

	growBy := DefaultBufferSize
	if cap(bb.B) > 4*DefaultBufferSize {
		growBy = cap(bb.B) / 4
	}
	growBy = max(growBy, requiredBytes)

	newBuf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// Resize sets the length of the buffer to n, growing the capacity when
// needed. Bytes between the old and the new length are zeroed.
func (bb *ByteBuffer) Resize(n int) {
	if n < 0 {
		panic("Resize: negative length")
	}

	old := len(bb.B)
	if n > old {
		bb.Grow(n - old)
		bb.B = bb.B[:n]
		clear(bb.B[old:])

		return
	}
	bb.B = bb.B[:n]
}

// ByteBufferPool is a sync.Pool of ByteBuffers that drops buffers whose
// capacity exceeds maxThreshold, so a single huge allocation does not stay
// pinned in the pool.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a pool handing out buffers of defaultSize
// capacity. A maxThreshold of zero keeps every buffer.
func NewByteBufferPool(defaultSize int, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves an empty ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil || bb.B == nil {
		return
	}
	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var defaultPool = NewByteBufferPool(DefaultBufferSize, MaxRetainedSize)

// Get returns a zero-filled slice of length size from the default pool.
func Get(size int) []byte {
	bb := defaultPool.Get()
	bb.Resize(size)

	return bb.B
}

// Put hands b back to the default pool. The caller must not use b afterwards.
func Put(b []byte) {
	defaultPool.Put(&ByteBuffer{B: b})
}
