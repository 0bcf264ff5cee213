package ine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCode(t *testing.T) {
	tests := []struct {
		input, expected string
	}{
		{"17001", "17001"},      // already canonical
		{"170010", "17001"},     // boundary file: control digit dropped
		{"1700100000", "17001"}, // vote file: district/section suffix dropped
		{"08019", "08019"},
		{"080193008", "08019"},
		{"171", "171"}, // shorter than canonical: passed through unchanged
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, NormalizeCode(tt.input), "input: %q", tt.input)
	}
}

func TestNormalizeCodeIdempotent(t *testing.T) {
	for _, raw := range []string{"17001", "170010", "1700100000", "439", ""} {
		once := NormalizeCode(raw)
		assert.Equal(t, once, NormalizeCode(once), "raw: %q", raw)
	}
}

func TestIndexByCode(t *testing.T) {
	type rec struct {
		Code string
		Val  int
	}

	t.Run("last write wins", func(t *testing.T) {
		records := []rec{
			{Code: "17001xx", Val: 1},
			{Code: "170010", Val: 2},
		}
		idx := IndexByCode(records, func(r rec) string { return r.Code })
		assert.Len(t, idx, 1)
		assert.Equal(t, 2, idx["17001"].Val)
	})

	t.Run("empty input", func(t *testing.T) {
		idx := IndexByCode(nil, func(r rec) string { return r.Code })
		assert.NotNil(t, idx)
		assert.Empty(t, idx)
	})

	t.Run("distinct codes", func(t *testing.T) {
		records := []rec{
			{Code: "170010", Val: 1},
			{Code: "08019", Val: 2},
		}
		idx := IndexByCode(records, func(r rec) string { return r.Code })
		assert.Len(t, idx, 2)
		assert.Equal(t, 1, idx["17001"].Val)
		assert.Equal(t, 2, idx["08019"].Val)
	})
}
