package normalize

import (
	"strings"

	"github.com/gnames/troutdb/pkg/sheet"
)

var missingMarkers = map[string]struct{}{
	"":    {},
	"na":  {},
	"n/a": {},
	"?":   {},
}

// Text converts a cell to clean text. Whitespace is trimmed and
// collapsed, numbers are rendered without a trailing ".0". It returns
// false for absent cells and missing-value markers (NA, N/A, ?).
func Text(c sheet.Cell) (string, bool) {
	s := strings.Join(strings.Fields(c.String()), " ")
	if _, ok := missingMarkers[strings.ToLower(s)]; ok {
		return "", false
	}
	return s, true
}

// Display is like Text, but returns the "unknown" sentinel for absent
// values.
func Display(c sheet.Cell) string {
	if s, ok := Text(c); ok {
		return s
	}
	return unknown
}
