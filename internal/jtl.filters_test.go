package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinFilters(t *testing.T) {
	filters := BuiltinFilters()

	tests := []struct {
		filter   string
		input    any
		expected any
	}{
		// string
		{FilterNameUppercase, "hello", "HELLO"},
		{FilterNameUppercase, nil, nil},
		{FilterNameUppercase, 5, "5"},
		{FilterNameLowercase, "HeLLo", "hello"},
		{FilterNameTrim, "  padded \n", "padded"},
		{FilterNameCapitalize, "hello world", "Hello world"},
		{FilterNameCapitalize, "élan", "Élan"},
		{FilterNameCapitalize, "", ""},
		{FilterNameCapitalize, "e\u0301clair", "E\u0301clair"},
		{FilterNameTitlecase, "hello big world", "Hello Big World"},
		{FilterNameTitlecase, "a  b", "A  B"},

		// size and shape
		{FilterNameLength, "héllo", 5},
		{FilterNameLength, []any{1, 2}, 2},
		{FilterNameSize, map[string]any{"a": 1}, 1},
		{FilterNameLength, 42, 0},
		{FilterNameLength, nil, 0},
		{FilterNameReverse, "abc", "cba"},
		{FilterNameReverse, []any{1, 2, 3}, []any{3, 2, 1}},
		{FilterNameReverse, 5, 5},
		{FilterNameSubstring, "abcdefghijkl", "abcdefghij..."},
		{FilterNameSubstring, "abcdefghij", "abcdefghij"},
		{FilterNameSubstring, 12345678901, 12345678901},

		// numeric
		{FilterNameAbs, -2.5, 2.5},
		{FilterNameAbs, -3, -3},
		{FilterNameRound, 2.5, int64(3)},
		{FilterNameRound, 2.4, int64(2)},
		{FilterNameCeil, 1.2, 2.0},
		{FilterNameFloor, 1.8, 1.0},
		{FilterNameFloor, float32(1.5), 1.0},
		{FilterNameToFixed, 3.14159, "3.14"},
		{FilterNameToFixed, 3, 3},
		{FilterNameToFixed, "3.14159", "3.14159"},

		// conditional
		{FilterNameDefault, nil, ""},
		{FilterNameDefault, "", ""},
		{FilterNameDefault, "x", "x"},
		{FilterNameEmptyCheck, nil, "N/A"},
		{FilterNameEmptyCheck, "", "N/A"},
		{FilterNameEmptyCheck, 0, 0},

		// list
		{FilterNameFirst, []any{"a", "b"}, "a"},
		{FilterNameLast, []any{"a", "b"}, "b"},
		{FilterNameFirst, []any{}, []any{}},
		{FilterNameLast, "text", "text"},
		{FilterNameJoin, []any{"a", 1, true}, "a, 1, true"},
		{FilterNameJoin, "x", "x"},

		// encoding
		{FilterNameURLEncode, "a b&c=d", "a%20b%26c%3Dd"},
		{FilterNameURLEncode, "1+1", "1%2B1"},
		{FilterNameHTMLEscape, `<a href="x">`, "&lt;a href=&quot;x&quot;&gt;"},
	}

	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			fn, ok := filters[tt.filter]
			require.True(t, ok)
			assert.Equal(t, tt.expected, fn(tt.input))
		})
	}
}

func TestBuiltinFilters_Complete(t *testing.T) {
	filters := BuiltinFilters()
	names := []string{
		FilterNameUppercase, FilterNameLowercase, FilterNameTrim, FilterNameCapitalize,
		FilterNameTitlecase, FilterNameLength, FilterNameSize, FilterNameReverse,
		FilterNameSubstring, FilterNameAbs, FilterNameRound, FilterNameCeil,
		FilterNameFloor, FilterNameToFixed, FilterNameDefault, FilterNameEmptyCheck,
		FilterNameFirst, FilterNameLast, FilterNameJoin, FilterNameURLEncode,
		FilterNameHTMLEscape,
	}

	assert.Len(t, filters, len(names))
	for _, name := range names {
		assert.Contains(t, filters, name)
	}
}

func TestBuiltinFilters_Fresh(t *testing.T) {
	a := BuiltinFilters()
	delete(a, FilterNameTrim)

	b := BuiltinFilters()
	assert.Contains(t, b, FilterNameTrim)
}

func TestApplyFilters(t *testing.T) {
	filters := BuiltinFilters()
	lookup := func(name string) (FilterFunc, bool) {
		fn, ok := filters[name]
		return fn, ok
	}

	t.Run("left to right", func(t *testing.T) {
		got := ApplyFilters("hello wonderful", []string{FilterNameUppercase, FilterNameSubstring}, lookup)
		assert.Equal(t, "HELLO WOND...", got)
	})

	t.Run("order matters", func(t *testing.T) {
		got := ApplyFilters("  abc", []string{FilterNameReverse, FilterNameTrim}, lookup)
		assert.Equal(t, "cba", got)

		got = ApplyFilters([]any{" a ", "b"}, []string{FilterNameFirst, FilterNameTrim}, lookup)
		assert.Equal(t, "a", got)
	})

	t.Run("unknown skipped", func(t *testing.T) {
		got := ApplyFilters("hi", []string{"noSuchFilter", FilterNameUppercase}, lookup)
		assert.Equal(t, "HI", got)
	})

	t.Run("no filters", func(t *testing.T) {
		assert.Equal(t, 42, ApplyFilters(42, nil, lookup))
	})
}
