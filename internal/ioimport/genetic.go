package ioimport

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gnames/troutdb/pkg/normalize"
	"github.com/gnames/troutdb/pkg/report"
	"github.com/gnames/troutdb/pkg/sheet"
	"github.com/gnames/troutdb/pkg/store"
	"github.com/gnames/troutdb/pkg/validate"
)

// importGenetic stores genetic samples and links them to occurrence
// records imported before.
func (i *importer) importGenetic(
	ctx context.Context,
	st store.Store,
	wb *workbook,
	rep *report.Report,
) error {
	if !wb.hasGenetic {
		return nil
	}

	stats := &rep.Genetic
	stats.Sheet = i.cfg.Import.GeneticSheet
	for _, row := range wb.genetic {
		if row.IsBlank() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		g := sampleFromRow(row)
		issue := report.Issue{
			Sheet:    stats.Sheet,
			Row:      row.Index,
			RecordID: g.RecordID,
			Field:    "sample_code",
			Severity: validate.Warning,
		}
		if g.SampleCode == "" {
			stats.Failed++
			issue.Message = "genetic sample without sample code is ignored"
			rep.AddIssue(issue)
			continue
		}

		res, err := st.AddGeneticSample(ctx, g)
		if err != nil {
			stats.Failed++
			issue.Message = fmt.Sprintf("cannot store sample '%s': %v",
				g.SampleCode, err)
			rep.AddIssue(issue)
			continue
		}
		if !res.Added {
			stats.Existing++
			continue
		}
		stats.Added++
		if res.Linked {
			stats.Linked++
		}
	}

	slog.Info("Imported genetic samples",
		"added", stats.Added,
		"existing", stats.Existing,
		"linked", stats.Linked,
		"failed", stats.Failed,
	)
	return nil
}

func sampleFromRow(row sheet.Row) store.GeneticSample {
	cols := newColumns(row)
	return store.GeneticSample{
		SampleCode: cols.text("Sample_Code"),
		RecordID: cols.text(
			"Final_database_unique_record_ID",
			string(normalize.RecordID),
		),
		PopulationNumber: cols.text("Population_No"),
		GeneticGroup:     cols.text("Genetic_Gr"),
		Haplotype:        cols.text("Haplotype"),
		SequenceData:     cols.text("Sequence_Data"),
	}
}
