package utils // well.go parses and formats box well coordinates

import "strings"

// Wells address a position inside a box grid as a row letter followed by a
// 1-based column number, e.g. "A1" or "C12".  A single letter bounds the
// grid to 26 rows and the two-digit column to 99, which comfortably covers
// real freezer boxes (typically 9x9 or 10x10).

// NormalizeWell trims surrounding whitespace and upper-cases the row letter
// so "a1 " and "A1" address the same position.
func NormalizeWell(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// ParseWell splits a normalized well into a zero-based row index and a
// 1-based column number.  It returns ok=false when the string is not a
// single A–Z letter followed by one or two digits.
func ParseWell(well string) (row int, col int, ok bool) {
	if len(well) < 2 || len(well) > 3 {
		return 0, 0, false
	}
	ch := well[0]
	if ch < 'A' || ch > 'Z' {
		return 0, 0, false
	}
	row = int(ch - 'A')
	for i := 1; i < len(well); i++ {
		d := well[i]
		if d < '0' || d > '9' {
			return 0, 0, false
		}
		col = col*10 + int(d-'0')
	}
	if col < 1 {
		return 0, 0, false
	}
	return row, col, true
}

// WellInBounds reports whether the parsed position fits a rows×cols grid.
// row is zero-based, col is 1-based, matching ParseWell.
func WellInBounds(row, col, rows, cols int) bool {
	return row >= 0 && row < rows && col >= 1 && col <= cols
}

// FormatWell renders a zero-based row index and 1-based column back into
// the canonical label, e.g. (1, 2) -> "B2".
func FormatWell(row, col int) string {
	if row < 0 || row > 25 || col < 1 {
		return ""
	}
	b := strings.Builder{}
	b.WriteByte(byte('A' + row))
	if col >= 10 {
		b.WriteByte(byte('0' + col/10))
	}
	b.WriteByte(byte('0' + col%10))
	return b.String()
}
