package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	size    int
	padByte byte
	calls   []string
}

var errNegative = errors.New("size cannot be negative")

func withSize(n int) Option[*testConfig] {
	return New(func(c *testConfig) error {
		if n < 0 {
			return errNegative
		}
		c.size = n
		c.calls = append(c.calls, "size")

		return nil
	})
}

func withPadByte(b byte) Option[*testConfig] {
	return NoError(func(c *testConfig) {
		c.padByte = b
		c.calls = append(c.calls, "pad")
	})
}

func TestApply(t *testing.T) {
	t.Run("applies options in order", func(t *testing.T) {
		cfg := &testConfig{}
		err := Apply(cfg, withPadByte(0xAA), withSize(16))

		require.NoError(t, err)
		require.Equal(t, 16, cfg.size)
		require.Equal(t, byte(0xAA), cfg.padByte)
		require.Equal(t, []string{"pad", "size"}, cfg.calls)
	})

	t.Run("stops at first error", func(t *testing.T) {
		cfg := &testConfig{}
		err := Apply(cfg, withSize(4), withSize(-1), withPadByte(1))

		require.ErrorIs(t, err, errNegative)
		require.Equal(t, 4, cfg.size)
		require.Equal(t, byte(0), cfg.padByte)
		require.Equal(t, []string{"size"}, cfg.calls)
	})

	t.Run("skips nil options", func(t *testing.T) {
		cfg := &testConfig{}
		require.NoError(t, Apply(cfg, nil, withSize(2)))
		require.Equal(t, 2, cfg.size)
	})

	t.Run("empty options leave target untouched", func(t *testing.T) {
		cfg := &testConfig{size: 7}
		require.NoError(t, Apply(cfg))
		require.Equal(t, 7, cfg.size)
		require.Empty(t, cfg.calls)
	})
}

func TestGenericTargets(t *testing.T) {
	var n int
	require.NoError(t, NoError(func(p *int) { *p = 42 }).apply(&n))
	require.Equal(t, 42, n)
}
