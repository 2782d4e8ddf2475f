package iosheet

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/troutdb/pkg/errcode"
)

// OpenError is returned when a workbook cannot be opened.
func OpenError(path string, err error) error {
	msg := "Cannot open workbook <em>%s</em>"
	return &gn.Error{
		Code: errcode.SheetOpenError,
		Msg:  msg,
		Vars: []any{path},
		Err:  fmt.Errorf("cannot open workbook %s: %w", path, err),
	}
}

// ReadError is returned when rows of a sheet cannot be read.
func ReadError(sheet string, err error) error {
	msg := "Cannot read sheet <em>%s</em>"
	return &gn.Error{
		Code: errcode.SheetReadError,
		Msg:  msg,
		Vars: []any{sheet},
		Err:  fmt.Errorf("cannot read sheet %s: %w", sheet, err),
	}
}

// NotFoundError is returned for a sheet that is not in the workbook.
func NotFoundError(sheet string) error {
	msg := "Sheet <em>%s</em> is not in the workbook"
	return &gn.Error{
		Code: errcode.SheetNotFoundError,
		Msg:  msg,
		Vars: []any{sheet},
		Err:  fmt.Errorf("sheet %s not found", sheet),
	}
}
