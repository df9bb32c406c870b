package memory

import (
	"errors"
	"sync"

	mmem "modernc.org/memory"
)

var errAllocatorClosed = errors.New("mmap allocator closed")

// MmapAllocator serves buffers from memory mapped outside the Go heap.
//
// The buffers are invisible to the garbage collector, so every resizable
// object using this allocator should be released explicitly, and no Go
// pointers may be stored in them. Objects collected without Release free
// their buffer from a runtime cleanup; slices taken from such an object are
// only valid while the object is reachable.
//
// Close unmaps everything at once. After Close, Alloc and Realloc fail and
// Free is a no-op.
//
// An MmapAllocator is safe for concurrent use.
type MmapAllocator struct {
	mu     sync.Mutex
	alloc  mmem.Allocator
	closed bool
}

// NewMmapAllocator creates an empty mmap-backed allocator.
func NewMmapAllocator() *MmapAllocator {
	return &MmapAllocator{}
}

// Alloc implements Allocator.
func (a *MmapAllocator) Alloc(size int) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.allocLocked(size)
}

func (a *MmapAllocator) allocLocked(size int) ([]byte, error) {
	if a.closed {
		return nil, errAllocatorClosed
	}
	if size == 0 {
		return []byte{}, nil
	}

	return a.alloc.Calloc(size)
}

// Realloc implements Allocator.
func (a *MmapAllocator) Realloc(b []byte, size int) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if cap(b) == 0 {
		return a.allocLocked(size)
	}
	if a.closed {
		return nil, errAllocatorClosed
	}

	if size == 0 {
		if err := a.alloc.Free(b); err != nil {
			return nil, err
		}

		return []byte{}, nil
	}

	return a.alloc.Realloc(b, size)
}

// Free implements Allocator.
func (a *MmapAllocator) Free(b []byte) error {
	if cap(b) == 0 {
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return nil
	}

	return a.alloc.Free(b)
}

// FreeOnCollect implements CollectFreer: mapped buffers are never reclaimed
// by the garbage collector.
func (a *MmapAllocator) FreeOnCollect() bool {
	return true
}

// Close releases all memory held by the allocator. Buffers handed out
// earlier become invalid.
func (a *MmapAllocator) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return nil
	}
	a.closed = true

	return a.alloc.Close()
}
