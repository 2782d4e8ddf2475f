// Package lifecycle defines the contracts of troutdb operations that
// are implemented by the impure io packages.
package lifecycle

import (
	"context"

	"github.com/gnames/troutdb/pkg/report"
	"github.com/gnames/troutdb/pkg/sheet"
)

// Importer loads a workbook into the database.
type Importer interface {
	// RunImport reads every sheet of the source and processes its rows.
	// Row problems and storage failures end up in the report. An error
	// is returned only when the source cannot be read, another import is
	// running, or the context is canceled.
	RunImport(
		ctx context.Context,
		src sheet.Source,
		label string,
	) (*report.Report, error)
}
