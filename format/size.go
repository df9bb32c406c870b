package format

import (
	"fmt"
	"sync"

	"github.com/arloliu/mempack/errs"
	"github.com/arloliu/mempack/internal/hash"
)

// Size returns the number of bytes a fixed-size format occupies, alignment
// padding included, using the host context.
//
// Formats containing 's' or 'z' have no fixed size and yield ErrVariableSize.
// Results are cached per format string.
func Size(format string) (int, error) {
	return sizeCache.get(format)
}

// Size returns the number of bytes a fixed-size format occupies under ctx.
func (ctx Context) Size(format string) (int, error) {
	p := NewParser(format, ctx)
	total := 0
	for p.More() {
		d, err := p.Next(total)
		if err != nil {
			return 0, err
		}
		if d.Kind == KindString || d.Kind == KindZString {
			return 0, fmt.Errorf("%w: option '%c'", errs.ErrVariableSize, d.Option)
		}

		n := d.Padding + d.Size
		if total > MaxAlloc-n {
			return 0, fmt.Errorf("%w: format result too large", errs.ErrInvalidSize)
		}
		total += n
	}

	return total, nil
}

type sizeEntry struct {
	format string
	size   int
}

// formatCache holds the sizes of formats parsed with NativeContext. Entries are
// keyed by the xxHash64 of the format; the stored format is compared on
// lookup so colliding strings fall back to parsing.
type formatCache struct {
	mu      sync.RWMutex
	entries map[uint64]sizeEntry
	limit   int
}

const maxCachedFormats = 1024

var sizeCache = &formatCache{
	entries: make(map[uint64]sizeEntry),
	limit:   maxCachedFormats,
}

func (c *formatCache) get(format string) (int, error) {
	id := hash.FormatID(format)

	c.mu.RLock()
	e, ok := c.entries[id]
	c.mu.RUnlock()
	if ok && e.format == format {
		return e.size, nil
	}

	size, err := NativeContext().Size(format)
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	if len(c.entries) >= c.limit {
		clear(c.entries)
	}
	if _, taken := c.entries[id]; !taken {
		c.entries[id] = sizeEntry{format: format, size: size}
	}
	c.mu.Unlock()

	return size, nil
}
