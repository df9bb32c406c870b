package memory

import (
	"github.com/arloliu/mempack/internal/pool"
)

// Allocator provides the storage of resizable memory objects.
type Allocator interface {
	// Alloc returns a zero-filled slice of length size.
	Alloc(size int) ([]byte, error)
	// Realloc returns a slice of length size holding the first
	// min(len(b), size) bytes of b. The remaining bytes are unspecified.
	// b must not be used after a successful call.
	Realloc(b []byte, size int) ([]byte, error)
	// Free gives b back. b must not be used afterwards.
	Free(b []byte) error
}

// CollectFreer is implemented by allocators whose buffers the garbage
// collector cannot reclaim. A resizable object collected without Release
// frees its buffer only when its allocator reports true here; otherwise the
// buffer is left to the garbage collector, since views returned by Bytes may
// still point into it.
type CollectFreer interface {
	FreeOnCollect() bool
}

func freeOnCollect(a Allocator) bool {
	cf, ok := a.(CollectFreer)
	return ok && cf.FreeOnCollect()
}

// HeapAllocator serves buffers from the Go heap through a sync.Pool of byte
// buffers, so short-lived resizable objects reuse each other's storage.
type HeapAllocator struct{}

// Heap is the default allocator of NewResizable.
var Heap Allocator = HeapAllocator{}

// Alloc implements Allocator.
func (HeapAllocator) Alloc(size int) ([]byte, error) {
	return pool.Get(size), nil
}

// Realloc implements Allocator. It reslices in place when b has room for
// size bytes.
func (HeapAllocator) Realloc(b []byte, size int) ([]byte, error) {
	if size <= cap(b) {
		return b[:size], nil
	}

	nb := pool.Get(size)
	copy(nb, b)
	pool.Put(b)

	return nb, nil
}

// Free implements Allocator.
func (HeapAllocator) Free(b []byte) error {
	pool.Put(b)
	return nil
}
