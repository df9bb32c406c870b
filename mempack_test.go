package mempack

import (
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/mempack/encoding"
	"github.com/arloliu/mempack/errs"
	"github.com/arloliu/mempack/memory"
)

func TestPackUnpack(t *testing.T) {
	size, err := Size("<!4 i x i")
	require.NoError(t, err)
	require.Equal(t, 12, size)

	m, err := New(size)
	require.NoError(t, err)
	require.Equal(t, memory.KindFixed, m.Kind())

	res, err := Pack(m, 1, "<!4 i x i", encoding.Int(1), encoding.Int(2))
	require.NoError(t, err)
	require.True(t, res.Complete)
	require.Equal(t, 13, res.Next)

	vals, next, err := Unpack(m, 1, "<!4 i x i")
	require.NoError(t, err)
	require.Equal(t, 13, next)
	require.Equal(t, int64(1), vals[0].Int())
	require.Equal(t, int64(2), vals[1].Int())
}

func TestPartialPack(t *testing.T) {
	m, err := New(4)
	require.NoError(t, err)

	res, err := Pack(m, 1, "i i", encoding.Int(1), encoding.Int(2))
	require.NoError(t, err)
	require.False(t, res.Complete)
	require.Equal(t, 4, res.Written)
	require.Equal(t, 5, res.Next)
	require.Equal(t, 1, res.Arg)
}

func TestPackReadOnly(t *testing.T) {
	m := memory.WrapReadOnly(make([]byte, 4), nil)
	_, err := Pack(m, 1, "i", encoding.Int(1))
	require.ErrorIs(t, err, errs.ErrReadOnly)

	vals, _, err := Unpack(m, 1, "i")
	require.NoError(t, err)
	require.Equal(t, int64(0), vals[0].Int())
}

func TestNewResizable(t *testing.T) {
	m, err := NewResizable(memory.WithSize(4))
	require.NoError(t, err)
	defer m.Release()

	require.NoError(t, m.Resize(8, nil))
	require.Equal(t, make([]byte, 8), m.Bytes())

	fixed, err := New(4)
	require.NoError(t, err)
	require.ErrorIs(t, fixed.Resize(8, nil), errs.ErrNotResizable)
}

func TestNewWriter(t *testing.T) {
	w, err := NewWriter()
	require.NoError(t, err)
	defer w.Memory().Release()

	require.NoError(t, w.Pack("<j z", encoding.Int(42), encoding.String("answer")))
	require.Equal(t, 15, w.Len())

	_, err = NewWriter(memory.WithSize(-1))
	require.ErrorIs(t, err, errs.ErrInvalidSize)
}

func TestFormatID(t *testing.T) {
	require.Equal(t, FormatID("<i"), FormatID("<i"))
	require.NotEqual(t, FormatID("<i"), FormatID(">i"))
}

//go:noinline
func writtenRecord(t *testing.T) []byte {
	w, err := NewWriter()
	require.NoError(t, err)
	require.NoError(t, w.Pack("<z", encoding.String("hello")))

	return w.Bytes()
}

func TestWriterBytesOutliveWriter(t *testing.T) {
	data := writtenRecord(t)
	for range 5 {
		runtime.GC()
		time.Sleep(10 * time.Millisecond)
	}

	for range 16 {
		m, err := memory.NewResizable(memory.WithSize(6))
		require.NoError(t, err)
		copy(m.Bytes(), "XXXXXX")
	}
	require.Equal(t, "hello\x00", string(data))
}
