package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeWell(t *testing.T) {
	assert.Equal(t, "A1", NormalizeWell(" a1 "))
	assert.Equal(t, "C12", NormalizeWell("c12"))
	assert.Equal(t, "B2", NormalizeWell("B2"))
}

func TestParseWell(t *testing.T) {
	cases := []struct {
		in       string
		row, col int
		ok       bool
	}{
		{"A1", 0, 1, true},
		{"B2", 1, 2, true},
		{"Z99", 25, 99, true},
		{"C10", 2, 10, true},
		{"A0", 0, 0, false},
		{"A", 0, 0, false},
		{"1A", 0, 0, false},
		{"AA1", 0, 0, false},
		{"A100", 0, 0, false},
		{"", 0, 0, false},
		{"a1", 0, 0, false}, // callers normalize first
	}
	for _, tc := range cases {
		row, col, ok := ParseWell(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		if tc.ok {
			assert.Equal(t, tc.row, row, tc.in)
			assert.Equal(t, tc.col, col, tc.in)
		}
	}
}

func TestWellInBounds(t *testing.T) {
	// 4x6 box: rows A-D, columns 1-6.
	rows, cols := 4, 6

	for _, well := range []string{"A1", "B2", "D6"} {
		r, c, ok := ParseWell(well)
		assert.True(t, ok, well)
		assert.True(t, WellInBounds(r, c, rows, cols), well)
	}
	for _, well := range []string{"E1", "A7", "D7", "Z1"} {
		r, c, ok := ParseWell(well)
		assert.True(t, ok, well)
		assert.False(t, WellInBounds(r, c, rows, cols), well)
	}
}

func TestFormatWell(t *testing.T) {
	assert.Equal(t, "A1", FormatWell(0, 1))
	assert.Equal(t, "B2", FormatWell(1, 2))
	assert.Equal(t, "C12", FormatWell(2, 12))
	assert.Equal(t, "", FormatWell(-1, 1))
	assert.Equal(t, "", FormatWell(26, 1))
	assert.Equal(t, "", FormatWell(0, 0))
}

func TestParseFormatRoundTrip(t *testing.T) {
	for row := 0; row < 26; row++ {
		for _, col := range []int{1, 9, 10, 99} {
			r, c, ok := ParseWell(FormatWell(row, col))
			assert.True(t, ok)
			assert.Equal(t, row, r)
			assert.Equal(t, col, c)
		}
	}
}
