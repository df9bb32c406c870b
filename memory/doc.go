// Package memory provides byte-buffer values with an explicit ownership model.
//
// A Memory is always in exactly one of four states:
//
//   - KindNone: no storage. The zero value and the state after Release.
//   - KindFixed: a Go heap buffer allocated by this package. Its length never
//     changes and it is never handed to an external owner.
//   - KindResizable: a buffer obtained from an Allocator. Resize grows or
//     shrinks it in place when possible and Release returns it to the
//     allocator.
//   - KindExternal: a buffer owned by someone else, bound together with a
//     ReleaseFunc that is called once when the Memory lets go of it.
//
// # Basic Usage
//
//	m, err := memory.Allocate(16)          // fixed, zero-filled
//	r, err := memory.NewResizable(memory.WithSize(4))
//	err = r.Resize(8, nil)                 // bytes 5..8 are zero
//	defer r.Release()
//
//	ext := memory.Wrap(buf, func(b []byte) { owner.Done(b) })
//
// Rebinding a reference with Reset releases the previous buffer unless the
// new one starts at the same address. A Memory that becomes unreachable
// without Release still runs its ReleaseFunc through a runtime cleanup, but
// callers should not rely on the timing of that. Heap buffers of a collected
// resizable object stay with the garbage collector, so slices taken from
// Bytes remain valid; allocators implementing CollectFreer, such as the mmap
// allocator, free theirs instead.
//
// # Positions
//
// Slice, Get, Set, Fill and Find address bytes with 1-based positions where
// negative values count back from the end; see package span.
//
// # Thread Safety
//
// A Memory is not safe for concurrent use. A slice obtained from Bytes or
// Mutable is invalidated by Resize, Reset and Release.
package memory
