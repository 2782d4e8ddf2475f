// Package ioimport implements the Importer interface. It loads an
// Excel workbook of trout occurrences into the record store.
// This is an impure I/O package that reads spreadsheets and writes
// record versions.
package ioimport

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/troutdb/pkg/config"
	"github.com/gnames/troutdb/pkg/lifecycle"
	"github.com/gnames/troutdb/pkg/parserpool"
	"github.com/gnames/troutdb/pkg/report"
	"github.com/gnames/troutdb/pkg/sheet"
	"github.com/gnames/troutdb/pkg/store"
	"github.com/gnames/troutdb/pkg/validate"
	"github.com/google/uuid"
)

// importer implements the Importer interface.
type importer struct {
	cfg  *config.Config
	st   store.Store
	busy atomic.Bool
}

// New creates a new Importer that writes to the given store.
func New(cfg *config.Config, st store.Store) lifecycle.Importer {
	return &importer{cfg: cfg, st: st}
}

// workbook holds every sheet needed by a run, read before any row is
// processed.
type workbook struct {
	occurrences []string
	rows        map[string][]sheet.Row
	taxa        []sheet.Row
	hasTaxa     bool
	genetic     []sheet.Row
	hasGenetic  bool
}

// RunImport reads the source and runs taxa, occurrence and genetic
// phases. In a dry run every write is discarded.
func (i *importer) RunImport(
	ctx context.Context,
	src sheet.Source,
	label string,
) (*report.Report, error) {
	if !i.busy.CompareAndSwap(false, true) {
		return nil, BusyError()
	}
	defer i.busy.Store(false)

	startTime := time.Now()
	if label == "" {
		label = i.cfg.Import.Label
	}
	if label == "" {
		label = startTime.UTC().Format(time.RFC3339)
	}

	wb, err := i.readSource(src)
	if err != nil {
		return nil, err
	}

	dryRun := i.cfg.Import.DryRun
	rep := report.New(uuid.NewString(), label, dryRun)
	rep.Sheets = wb.occurrences
	slog.Info("Starting import",
		"label", label,
		"run", rep.RunID,
		"sheets", wb.occurrences,
		"dry_run", dryRun,
	)

	pool := parserpool.NewPool(i.cfg.JobsNumber)
	defer pool.Close()

	run := func(st store.Store) error {
		return i.run(ctx, st, pool, wb, rep)
	}
	if dryRun {
		err = i.st.Sandbox(ctx, run)
	} else {
		err = run(i.st)
	}
	if err != nil {
		return rep, err
	}

	slog.Info("Import finished",
		"run", rep.RunID,
		"rows", humanize.Comma(int64(rep.TotalRows)),
		"inserted", rep.Inserted,
		"updated", rep.Updated,
		"skipped", rep.SkippedDuplicate,
		"failed_validation", rep.FailedValidation,
		"failed_write", rep.FailedWrite,
		"duration", gnfmt.TimeString(time.Since(startTime).Seconds()),
	)
	return rep, nil
}

func (i *importer) run(
	ctx context.Context,
	st store.Store,
	pool parserpool.Pool,
	wb *workbook,
	rep *report.Report,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	checker := i.importTaxa(ctx, st, pool, wb, rep)

	if err := i.importOccurrences(ctx, st, checker, wb, rep); err != nil {
		return err
	}

	if err := i.importGenetic(ctx, st, wb, rep); err != nil {
		return err
	}

	rep.Finish()
	if err := st.SaveRun(ctx, rep); err != nil {
		runIssue(rep, validate.Error, SaveRunError(rep.RunID, err))
	}
	return nil
}

// runIssue adds a storage problem that does not stop the run to the
// report.
func runIssue(rep *report.Report, sev validate.Severity, err error) {
	msg := err.Error()
	var gnErr *gn.Error
	if errors.As(err, &gnErr) && gnErr.Err != nil {
		msg = gnErr.Err.Error()
	}
	slog.Warn("Import problem", "run", rep.RunID, "error", msg)
	rep.AddIssue(report.Issue{Severity: sev, Message: msg})
}

// readSource reads all sheets that take part in the import.
func (i *importer) readSource(src sheet.Source) (*workbook, error) {
	names, err := src.ListSheets()
	if err != nil {
		return nil, SourceReadError("(workbook)", err)
	}

	imp := i.cfg.Import
	res := &workbook{rows: make(map[string][]sheet.Row)}
	if len(imp.OccurrenceSheets) > 0 {
		for _, n := range imp.OccurrenceSheets {
			if !slices.Contains(res.occurrences, n) {
				res.occurrences = append(res.occurrences, n)
			}
		}
	} else {
		for _, n := range names {
			if n == imp.TaxaSheet || n == imp.GeneticSheet {
				continue
			}
			res.occurrences = append(res.occurrences, n)
		}
	}

	for _, n := range res.occurrences {
		rows, err := src.ReadRows(n)
		if err != nil {
			return nil, SourceReadError(n, err)
		}
		res.rows[n] = rows
	}

	if slices.Contains(names, imp.TaxaSheet) {
		res.hasTaxa = true
		if res.taxa, err = src.ReadRows(imp.TaxaSheet); err != nil {
			return nil, SourceReadError(imp.TaxaSheet, err)
		}
	}

	if slices.Contains(names, imp.GeneticSheet) {
		res.hasGenetic = true
		if res.genetic, err = src.ReadRows(imp.GeneticSheet); err != nil {
			return nil, SourceReadError(imp.GeneticSheet, err)
		}
	}
	return res, nil
}
