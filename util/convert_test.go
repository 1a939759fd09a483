package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertString(t *testing.T) {
	t.Run("string", func(t *testing.T) {
		var s string
		require.NoError(t, ConvertString("hello", &s, nil))
		assert.Equal(t, "hello", s)
	})

	t.Run("string slice", func(t *testing.T) {
		var list []string
		require.NoError(t, ConvertString("a,b|c d", &list, nil))
		assert.Equal(t, []string{"a", "b", "c", "d"}, list)
	})

	t.Run("bool", func(t *testing.T) {
		var b bool
		require.NoError(t, ConvertString("true", &b, nil))
		assert.True(t, b)
		assert.ErrorIs(t, ConvertString("maybe", &b, nil), ErrUnsupportedTypeConversion)
	})

	t.Run("int", func(t *testing.T) {
		var n int
		require.NoError(t, ConvertString("-42", &n, nil))
		assert.Equal(t, -42, n)
		assert.Error(t, ConvertString("4.2", &n, nil))
	})

	t.Run("uint", func(t *testing.T) {
		var n uint
		require.NoError(t, ConvertString("42", &n, nil))
		assert.Equal(t, uint(42), n)
		assert.Error(t, ConvertString("-42", &n, nil))
	})

	t.Run("float64", func(t *testing.T) {
		var f float64
		require.NoError(t, ConvertString("3.14", &f, nil))
		assert.Equal(t, 3.14, f)
	})

	t.Run("time", func(t *testing.T) {
		var ts time.Time
		require.NoError(t, ConvertString("2022-01-02", &ts, nil))
		assert.Equal(t, 2022, ts.Year())
		assert.Error(t, ConvertString("never", &ts, nil))
	})

	t.Run("unsupported target", func(t *testing.T) {
		var c complex128
		assert.ErrorIs(t, ConvertString("1", &c, nil), ErrUnsupportedTypeConversion)
	})

	t.Run("custom delimiter", func(t *testing.T) {
		var list []string
		delim := func(r rune) bool { return r == ':' }
		require.NoError(t, ConvertString("a:b,c", &list, delim))
		assert.Equal(t, []string{"a", "b,c"}, list)
	})
}

func TestCoerce(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		like any
		want any
	}{
		{"nil like", "x", nil, "x"},
		{"nil raw", nil, 1, nil},
		{"string", "x", "", "x"},
		{"stringify", 42, "", "42"},
		{"bool", true, false, true},
		{"bool from string", "true", false, true},
		{"int", int64(5), 0, 5},
		{"int from string", "5", 0, 5},
		{"int from float", 5.0, 0, 5},
		{"int64", 5, int64(0), int64(5)},
		{"float", 2.5, 0.0, 2.5},
		{"float from int", int64(2), 0.0, 2.0},
		{"list", []any{"a", 1}, []string{}, []string{"a", "1"}},
		{"list from string", "a,b", []string{}, []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Coerce(tt.raw, tt.like)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("time from string", func(t *testing.T) {
		got, err := Coerce("2022-01-02", time.Time{})
		require.NoError(t, err)
		assert.Equal(t, 2022, got.(time.Time).Year())
	})

	t.Run("mismatch", func(t *testing.T) {
		_, err := Coerce([]any{1}, 0)
		assert.ErrorIs(t, err, ErrUnsupportedTypeConversion)
	})
}
