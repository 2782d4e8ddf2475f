// Package iosheet reads Excel workbooks with excelize and converts their
// cells to typed sheet.Cell values. This is an impure I/O package that
// implements contracts defined in pkg/.
package iosheet

import (
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/gnames/troutdb/pkg/sheet"
	"github.com/xuri/excelize/v2"
)

// Workbook is an open .xlsx file.
type Workbook struct {
	path string
	f    *excelize.File
}

// Open opens an Excel workbook for reading. The caller must Close it.
func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, OpenError(path, err)
	}
	return &Workbook{path: path, f: f}, nil
}

// Close releases the workbook.
func (w *Workbook) Close() error {
	return w.f.Close()
}

// Path returns the file path of the workbook.
func (w *Workbook) Path() string {
	return w.path
}

// ListSheets implements sheet.Source.
func (w *Workbook) ListSheets() ([]string, error) {
	return w.f.GetSheetList(), nil
}

// ReadRows implements sheet.Source. Numeric cells keep their raw value,
// so dates stored as serial numbers reach the normalizer untouched.
func (w *Workbook) ReadRows(name string) ([]sheet.Row, error) {
	if !slices.Contains(w.f.GetSheetList(), name) {
		return nil, NotFoundError(name)
	}

	rows, err := w.f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, ReadError(name, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	headers := make([]string, len(rows[0]))
	seen := make(map[string]struct{})
	for i, h := range rows[0] {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		if _, ok := seen[h]; ok {
			ref, _ := excelize.CoordinatesToCellName(i+1, 1)
			slog.Warn("Duplicate column is ignored",
				"sheet", name, "column", h, "cell", ref)
			continue
		}
		seen[h] = struct{}{}
		headers[i] = h
	}

	res := make([]sheet.Row, 0, len(rows)-1)
	for i, vals := range rows[1:] {
		idx := i + 2
		row := sheet.Row{
			Sheet: name,
			Index: idx,
			Cells: make(map[string]sheet.Cell, len(headers)),
		}
		for col, val := range vals {
			if col >= len(headers) || headers[col] == "" {
				continue
			}
			cell, err := w.cell(name, col+1, idx, val)
			if err != nil {
				return nil, ReadError(name, err)
			}
			row.Cells[headers[col]] = cell
		}
		res = append(res, row)
	}
	return res, nil
}

// cell converts a raw value using the stored cell type.
func (w *Workbook) cell(name string, col, row int, val string) (sheet.Cell, error) {
	if val == "" {
		return sheet.AbsentCell(), nil
	}

	ref, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return sheet.Cell{}, err
	}
	typ, err := w.f.GetCellType(name, ref)
	if err != nil {
		return sheet.Cell{}, err
	}
	return convert(typ, val), nil
}

func convert(typ excelize.CellType, val string) sheet.Cell {
	switch typ {
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return sheet.NumberCell(f)
		}
	}
	return sheet.TextCell(val)
}
