package ioimport

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cheggaaa/pb/v3"
	"github.com/gnames/troutdb/pkg/dedup"
	"github.com/gnames/troutdb/pkg/normalize"
	"github.com/gnames/troutdb/pkg/report"
	"github.com/gnames/troutdb/pkg/store"
	"github.com/gnames/troutdb/pkg/taxonomy"
	"github.com/gnames/troutdb/pkg/validate"
)

// importOccurrences processes rows of occurrence sheets one by one in
// file order. Every row ends up in exactly one report bucket.
func (i *importer) importOccurrences(
	ctx context.Context,
	st store.Store,
	checker *taxonomy.Checker,
	wb *workbook,
	rep *report.Report,
) error {
	var total int
	for _, name := range wb.occurrences {
		for _, row := range wb.rows[name] {
			if !row.IsBlank() {
				total++
			}
		}
	}

	bar := pb.Full.Start(total)
	bar.Set("prefix", "Importing records: ")
	bar.Set(pb.CleanOnFinish, true)
	defer bar.Finish()

	v := validate.New(checker)
	w := newWriter(st, i.cfg.Import.CellLevel, rep.Label)
	for _, name := range wb.occurrences {
		for _, row := range wb.rows[name] {
			if row.IsBlank() {
				continue
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			d := normalize.Row(row)
			rep.Count(i.processRow(ctx, v, w, d, rep))
			bar.Increment()
		}
		slog.Info("Processed sheet", "sheet", name,
			"rows", len(wb.rows[name]))
	}
	return nil
}

func (i *importer) processRow(
	ctx context.Context,
	v *validate.Validator,
	w *writer,
	d normalize.Draft,
	rep *report.Report,
) report.Bucket {
	issue := func(field string, sev validate.Severity, msg string) {
		rep.AddIssue(report.Issue{
			Sheet:    d.Sheet,
			Row:      d.Row,
			RecordID: d.RecordID,
			Field:    field,
			Severity: sev,
			Message:  msg,
		})
	}

	res := v.Validate(d)
	for _, is := range res.Issues {
		issue(is.Field, is.Severity, is.Message)
	}
	if !res.Valid {
		return report.FailedValidation
	}

	dec, err := dedup.Decide(ctx, w.st, d.Record)
	if err != nil {
		issue("", validate.Error, fmt.Sprintf("lookup failed: %v", err))
		return report.FailedWrite
	}
	for _, n := range dec.Notes {
		issue(string(normalize.RecordID), validate.Warning, n)
	}

	bucket, err := w.write(ctx, dec)
	if err != nil {
		issue("", validate.Error, fmt.Sprintf("write failed: %v", err))
		slog.Warn("Cannot write record",
			"sheet", d.Sheet, "row", d.Row, "error", err)
		return report.FailedWrite
	}
	if bucket == report.Updated {
		slog.Debug("Record updated", "record", dec.Record.RecordID,
			"changed", strings.Join(dec.Changed, ","))
	}
	return bucket
}
