package memory

import (
	"errors"
	"testing"

	"github.com/arloliu/mempack/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindString(t *testing.T) {
	assert.Equal(t, "none", KindNone.String())
	assert.Equal(t, "fixed", KindFixed.String())
	assert.Equal(t, "resizable", KindResizable.String())
	assert.Equal(t, "external", KindExternal.String())
	assert.Equal(t, "unknown", Kind(9).String())
}

func TestAllocate(t *testing.T) {
	m, err := Allocate(8)
	require.NoError(t, err)
	require.Equal(t, KindFixed, m.Kind())
	require.Equal(t, make([]byte, 8), m.Bytes())
	require.False(t, m.ReadOnly())

	empty, err := Allocate(0)
	require.NoError(t, err)
	require.Zero(t, empty.Len())

	_, err = Allocate(-1)
	require.ErrorIs(t, err, errs.ErrInvalidSize)
	_, err = Allocate(MaxAlloc + 1)
	require.ErrorIs(t, err, errs.ErrInvalidSize)
}

func TestFromBytes(t *testing.T) {
	src := []byte("hello world")
	m, err := FromBytes(src, 7, -1)
	require.NoError(t, err)
	require.Equal(t, KindFixed, m.Kind())
	require.Equal(t, "world", string(m.Bytes()))

	src[6] = 'W'
	require.Equal(t, "world", string(m.Bytes()))
}

func TestZeroValue(t *testing.T) {
	var m Memory
	require.Equal(t, KindNone, m.Kind())
	require.Nil(t, m.Bytes())
	require.Zero(t, m.Len())
	require.NoError(t, m.Close())

	released := 0
	require.NoError(t, m.Reset([]byte("abc"), func([]byte) { released++ }))
	require.Equal(t, KindExternal, m.Kind())
	m.Release()
	require.Equal(t, 1, released)
}

func TestResize(t *testing.T) {
	t.Run("grow zero-fills", func(t *testing.T) {
		m, err := NewResizable(WithSize(4))
		require.NoError(t, err)
		defer m.Release()

		require.Equal(t, KindResizable, m.Kind())
		require.NoError(t, m.Set(1, 1, 2, 3, 4))
		require.NoError(t, m.Resize(8, nil))
		require.Equal(t, []byte{1, 2, 3, 4, 0, 0, 0, 0}, m.Bytes())
	})

	t.Run("grow with fill pattern", func(t *testing.T) {
		m, err := NewResizable(WithSize(2))
		require.NoError(t, err)
		defer m.Release()

		require.NoError(t, m.Resize(7, []byte("ab")))
		require.Equal(t, []byte{0, 0, 'a', 'b', 'a', 'b', 'a'}, m.Bytes())
	})

	t.Run("shrink then grow clears stale bytes", func(t *testing.T) {
		m, err := NewResizable()
		require.NoError(t, err)
		defer m.Release()

		require.NoError(t, m.Resize(4, []byte{0xFF}))
		require.NoError(t, m.Resize(1, nil))
		require.NoError(t, m.Resize(4, nil))
		require.Equal(t, []byte{0xFF, 0, 0, 0}, m.Bytes())
	})

	t.Run("large growth keeps content", func(t *testing.T) {
		m, err := NewResizable(WithSize(3))
		require.NoError(t, err)
		defer m.Release()

		require.NoError(t, m.Set(1, 'x', 'y', 'z'))
		require.NoError(t, m.Resize(64*1024, nil))
		require.Equal(t, "xyz", string(m.Bytes()[:3]))
		require.Equal(t, 64*1024, m.Len())
	})

	t.Run("fixed cannot resize", func(t *testing.T) {
		m, err := Allocate(4)
		require.NoError(t, err)
		require.ErrorIs(t, m.Resize(8, nil), errs.ErrNotResizable)
		require.Equal(t, 4, m.Len())
	})

	t.Run("external cannot resize", func(t *testing.T) {
		m := Wrap(make([]byte, 4), nil)
		require.ErrorIs(t, m.Resize(8, nil), errs.ErrNotResizable)
	})

	t.Run("invalid size", func(t *testing.T) {
		m, err := NewResizable(WithSize(2))
		require.NoError(t, err)
		require.ErrorIs(t, m.Resize(-1, nil), errs.ErrInvalidSize)
		require.Equal(t, 2, m.Len())
	})
}

type failingAllocator struct {
	HeapAllocator
	freed int
}

func (a *failingAllocator) Realloc([]byte, int) ([]byte, error) {
	return nil, errors.New("no space left")
}

func (a *failingAllocator) Free(b []byte) error {
	a.freed++
	return a.HeapAllocator.Free(b)
}

func TestResizeFailureLeavesObjectUnchanged(t *testing.T) {
	alloc := &failingAllocator{}
	m, err := NewResizable(WithAllocator(alloc), WithSize(3))
	require.NoError(t, err)
	require.NoError(t, m.Set(1, 7, 8, 9))

	err = m.Resize(10, nil)
	require.ErrorIs(t, err, errs.ErrOutOfMemory)
	require.Equal(t, []byte{7, 8, 9}, m.Bytes())
	require.Equal(t, KindResizable, m.Kind())

	require.NoError(t, m.Close())
	require.Equal(t, 1, alloc.freed)
	require.Equal(t, KindNone, m.Kind())
}

func TestNewResizableOptions(t *testing.T) {
	_, err := NewResizable(WithSize(-3))
	require.ErrorIs(t, err, errs.ErrInvalidSize)

	m, err := NewResizable(WithAllocator(nil), nil)
	require.NoError(t, err)
	require.Equal(t, KindResizable, m.Kind())
	require.Zero(t, m.Len())
}

func TestReleaseOnce(t *testing.T) {
	calls := 0
	var got []byte
	buf := []byte("payload")
	m := Wrap(buf, func(b []byte) {
		calls++
		got = b
	})
	require.Equal(t, KindExternal, m.Kind())

	m.Release()
	m.Release()
	require.NoError(t, m.Close())

	require.Equal(t, 1, calls)
	require.Equal(t, "payload", string(got))
	require.Equal(t, KindNone, m.Kind())
	require.Zero(t, m.Len())
}

func TestReset(t *testing.T) {
	t.Run("releases previous buffer", func(t *testing.T) {
		var released []string
		rel := func(b []byte) { released = append(released, string(b)) }

		m := Wrap([]byte("first"), rel)
		require.NoError(t, m.Reset([]byte("second"), rel))
		require.Equal(t, []string{"first"}, released)
		require.Equal(t, "second", string(m.Bytes()))

		m.Release()
		require.Equal(t, []string{"first", "second"}, released)
	})

	t.Run("same backing is not released", func(t *testing.T) {
		calls := 0
		buf := []byte("shared buffer")
		m := Wrap(buf, func([]byte) { calls++ })

		require.NoError(t, m.Reset(buf[:6], func([]byte) { calls += 10 }))
		require.Zero(t, calls)
		require.Equal(t, "shared", string(m.Bytes()))

		m.Release()
		require.Equal(t, 10, calls)
	})

	t.Run("nil rebinding empties the object", func(t *testing.T) {
		calls := 0
		m := Wrap([]byte("x"), func([]byte) { calls++ })
		require.NoError(t, m.Reset(nil, nil))
		require.Equal(t, 1, calls)
		require.Equal(t, KindNone, m.Kind())
	})

	t.Run("resizable goes back to its allocator", func(t *testing.T) {
		alloc := &failingAllocator{}
		m, err := NewResizable(WithAllocator(alloc), WithSize(4))
		require.NoError(t, err)

		require.NoError(t, m.Reset([]byte("ext"), nil))
		require.Equal(t, 1, alloc.freed)
		require.Equal(t, KindExternal, m.Kind())
	})

	t.Run("fixed is not a reference", func(t *testing.T) {
		m, err := Allocate(2)
		require.NoError(t, err)
		require.ErrorIs(t, m.Reset([]byte("x"), nil), errs.ErrNotReference)
		require.Equal(t, KindFixed, m.Kind())
	})

	t.Run("reset clears read-only", func(t *testing.T) {
		m := WrapReadOnly([]byte("ro"), nil)
		require.True(t, m.ReadOnly())
		require.NoError(t, m.Reset([]byte("rw"), nil))
		require.False(t, m.ReadOnly())
	})
}

func TestReadOnly(t *testing.T) {
	m := WrapReadOnly([]byte("const"), nil)
	require.True(t, m.ReadOnly())

	_, err := m.Mutable()
	require.ErrorIs(t, err, errs.ErrReadOnly)
	require.ErrorIs(t, m.Set(1, 'C'), errs.ErrReadOnly)
	require.ErrorIs(t, m.Fill([]byte("x"), 1, -1, 1), errs.ErrReadOnly)
	require.Equal(t, "const", string(m.Bytes()))

	s, err := m.String(1, 3)
	require.NoError(t, err)
	require.Equal(t, "con", s)
}

func TestHelpers(t *testing.T) {
	m, err := Allocate(5)
	require.NoError(t, err)

	require.NoError(t, m.Fill([]byte("x"), 2, 4, 1))
	require.Equal(t, []byte{0, 'x', 'x', 'x', 0}, m.Bytes())

	require.NoError(t, m.Set(1, 'a'))
	b, err := m.Get(1)
	require.NoError(t, err)
	require.Equal(t, byte('a'), b)

	b, err = m.Get(-1)
	require.NoError(t, err)
	require.Equal(t, byte(0), b)

	_, err = m.Get(6)
	require.ErrorIs(t, err, errs.ErrIndexOutOfBounds)
	_, err = m.Get(0)
	require.ErrorIs(t, err, errs.ErrIndexOutOfBounds)

	start, end, ok, err := m.Find([]byte("xx"), 1, -1, 1)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 2, start)
	require.Equal(t, 3, end)

	s, err := m.Slice(2, 3)
	require.NoError(t, err)
	require.Equal(t, "xx", string(s))
}
