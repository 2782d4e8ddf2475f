// Package sheet defines the typed view of spreadsheet data consumed by the
// import pipeline.
//
// Every cell read from a workbook is converted to a Cell, which is either
// text, a number, or absent. Nothing past the normalizer works with untyped
// cell values.
package sheet

import (
	"strconv"
	"strings"
)

// Kind tells what sort of value a Cell holds.
type Kind int

const (
	// Absent is an empty cell or a cell missing from the row.
	Absent Kind = iota
	// Text is a string cell.
	Text
	// Number is a numeric cell (including date serials).
	Number
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case Text:
		return "text"
	case Number:
		return "number"
	default:
		return "absent"
	}
}

// Cell is a raw spreadsheet value. The zero value is an absent cell.
type Cell struct {
	kind Kind
	text string
	num  float64
}

// TextCell creates a text cell.
func TextCell(s string) Cell {
	return Cell{kind: Text, text: s}
}

// NumberCell creates a numeric cell.
func NumberCell(f float64) Cell {
	return Cell{kind: Number, num: f}
}

// AbsentCell creates an empty cell.
func AbsentCell() Cell {
	return Cell{}
}

// Kind returns the kind of the cell.
func (c Cell) Kind() Kind {
	return c.kind
}

// IsAbsent is true for empty cells.
func (c Cell) IsAbsent() bool {
	return c.kind == Absent
}

// Text returns the string value and true if the cell is a text cell.
func (c Cell) Text() (string, bool) {
	return c.text, c.kind == Text
}

// Number returns the numeric value and true if the cell is a number cell.
func (c Cell) Number() (float64, bool) {
	return c.num, c.kind == Number
}

// String renders the cell as text. Integral numbers are rendered without
// a fractional part, absent cells as an empty string.
func (c Cell) String() string {
	switch c.kind {
	case Text:
		return c.text
	case Number:
		return strconv.FormatFloat(c.num, 'f', -1, 64)
	default:
		return ""
	}
}

// Row is one spreadsheet row with cells keyed by the sheet's header names.
type Row struct {
	// Sheet is the name of the sheet the row comes from.
	Sheet string
	// Index is the 1-based row number as shown by spreadsheet programs.
	Index int
	// Cells maps column headers to cell values. Missing headers
	// are the same as absent cells.
	Cells map[string]Cell
}

// Get returns the cell for a header, or an absent cell.
func (r Row) Get(header string) Cell {
	return r.Cells[header]
}

// IsBlank is true when every cell of the row is absent or contains only
// whitespace. Blank rows are padding and are skipped by the importer.
func (r Row) IsBlank() bool {
	for _, c := range r.Cells {
		switch c.kind {
		case Number:
			return false
		case Text:
			if strings.TrimSpace(c.text) != "" {
				return false
			}
		}
	}
	return true
}

// Source provides access to a multi-sheet workbook.
type Source interface {
	// ListSheets returns sheet names in workbook order.
	ListSheets() ([]string, error)

	// ReadRows returns data rows of a sheet in file order. The first
	// row of a sheet is its header and is not returned.
	ReadRows(sheet string) ([]Row, error)
}
