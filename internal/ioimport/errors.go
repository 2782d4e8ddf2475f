package ioimport

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/troutdb/pkg/errcode"
)

// BusyError is returned when another import is running.
func BusyError() error {
	msg := "Another import is running, try again when it is finished"
	return &gn.Error{
		Code: errcode.ImportBusyError,
		Msg:  msg,
		Err:  fmt.Errorf("import is already running"),
	}
}

// SourceReadError is returned when a sheet of the workbook cannot be
// read. Nothing is imported in this case.
func SourceReadError(sheet string, err error) error {
	msg := "Cannot read sheet <em>%s</em>, nothing was imported"
	return &gn.Error{
		Code: errcode.ImportSourceReadError,
		Msg:  msg,
		Vars: []any{sheet},
		Err:  fmt.Errorf("cannot read sheet %s: %w", sheet, err),
	}
}

// TaxaError describes reference taxa that cannot be loaded.
func TaxaError(err error) error {
	msg := "Cannot load reference taxa"
	return &gn.Error{
		Code: errcode.ImportTaxaError,
		Msg:  msg,
		Err:  fmt.Errorf("cannot load taxa: %w", err),
	}
}

// SpeciesSeedError describes a built-in taxon that cannot be stored.
func SpeciesSeedError(err error) error {
	msg := "Cannot add built-in species list"
	return &gn.Error{
		Code: errcode.ImportSpeciesSeedError,
		Msg:  msg,
		Err:  fmt.Errorf("cannot seed species: %w", err),
	}
}

// SaveRunError describes a run report that cannot be stored.
func SaveRunError(runID string, err error) error {
	msg := "Cannot save report of import run <em>%s</em>"
	return &gn.Error{
		Code: errcode.ImportSaveRunError,
		Msg:  msg,
		Vars: []any{runID},
		Err:  fmt.Errorf("cannot save run %s: %w", runID, err),
	}
}

// ReportError is returned when a report cannot be rendered.
func ReportError(runID string, err error) error {
	msg := "Cannot render report of import run <em>%s</em>"
	return &gn.Error{
		Code: errcode.ImportReportError,
		Msg:  msg,
		Vars: []any{runID},
		Err:  fmt.Errorf("cannot render report %s: %w", runID, err),
	}
}
