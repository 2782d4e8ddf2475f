package ioimport

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gnames/troutdb/pkg/parserpool"
	"github.com/gnames/troutdb/pkg/report"
	"github.com/gnames/troutdb/pkg/sheet"
	"github.com/gnames/troutdb/pkg/store"
	"github.com/gnames/troutdb/pkg/taxonomy"
	"github.com/gnames/troutdb/pkg/validate"
)

// importTaxa stores reference taxa and returns a checker built from all
// taxa in the store. When taxa cannot be loaded the run goes on without
// species checks and the problem is reported as a warning.
func (i *importer) importTaxa(
	ctx context.Context,
	st store.Store,
	pool parserpool.Pool,
	wb *workbook,
	rep *report.Report,
) *taxonomy.Checker {
	stats := &rep.Taxa
	if wb.hasTaxa {
		stats.Sheet = i.cfg.Import.TaxaSheet
		for _, row := range wb.taxa {
			if row.IsBlank() {
				continue
			}
			i.addTaxon(ctx, st, pool, taxonFromRow(row), row.Index, rep)
		}
	} else {
		stored, err := st.ListTaxa(ctx)
		if err != nil {
			runIssue(rep, validate.Warning, TaxaError(err))
			return nil
		}
		if len(stored) == 0 {
			seedSpecies(ctx, st, pool, rep)
		}
	}

	taxa, err := st.ListTaxa(ctx)
	if err != nil {
		runIssue(rep, validate.Warning, TaxaError(err))
		return nil
	}
	checker, err := taxonomy.NewChecker(ctx, taxa, pool)
	if err != nil {
		runIssue(rep, validate.Warning, TaxaError(err))
		return nil
	}

	slog.Info("Reference taxa are ready",
		"added", stats.Added,
		"existing", stats.Existing,
		"total", checker.Len(),
		"seeded", stats.Seeded,
	)
	return checker
}

func (i *importer) addTaxon(
	ctx context.Context,
	st store.Store,
	pool parserpool.Pool,
	t taxonomy.Taxon,
	rowIdx int,
	rep *report.Report,
) {
	stats := &rep.Taxa
	issue := report.Issue{
		Sheet:    stats.Sheet,
		Row:      rowIdx,
		Field:    "scientific_name",
		Severity: validate.Warning,
	}

	if t.ScientificName == "" {
		stats.Failed++
		issue.Message = "taxon without scientific name is ignored"
		rep.AddIssue(issue)
		return
	}

	added, err := st.AddTaxon(ctx, t, pool.Canonical(t.ScientificName))
	if err != nil {
		stats.Failed++
		issue.Message = fmt.Sprintf("cannot store taxon '%s': %v",
			t.ScientificName, err)
		rep.AddIssue(issue)
		slog.Warn("Cannot store taxon",
			"name", t.ScientificName, "error", err)
		return
	}
	if added {
		stats.Added++
	} else {
		stats.Existing++
	}
}

func taxonFromRow(row sheet.Row) taxonomy.Taxon {
	cols := newColumns(row)
	return taxonomy.Taxon{
		ScientificName:     cols.text("scientific_name"),
		CommonName:         cols.text("common_name"),
		TaxonCode:          cols.text("taxon_code"),
		ConservationStatus: cols.text("conservation_status"),
		IUCNAssessment:     cols.text("iucn_assessment"),
		Description:        cols.text("description"),
	}
}

// seedSpecies stores the built-in list of Mexican trout taxa. Taxa that
// cannot be stored are counted as failed.
func seedSpecies(
	ctx context.Context,
	st store.Store,
	pool parserpool.Pool,
	rep *report.Report,
) {
	stats := &rep.Taxa
	taxa, err := taxonomy.Builtin()
	if err != nil {
		runIssue(rep, validate.Warning, SpeciesSeedError(err))
		return
	}
	for _, t := range taxa {
		added, err := st.AddTaxon(ctx, t, pool.Canonical(t.ScientificName))
		if err != nil {
			stats.Failed++
			runIssue(rep, validate.Warning, SpeciesSeedError(
				fmt.Errorf("%s: %w", t.ScientificName, err)))
			continue
		}
		if added {
			stats.Added++
		}
	}
	stats.Seeded = true
	slog.Info("Added built-in species list",
		"count", stats.Added, "failed", stats.Failed)
}
