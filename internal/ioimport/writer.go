package ioimport

import (
	"context"
	"time"

	"github.com/gnames/troutdb/pkg/dedup"
	"github.com/gnames/troutdb/pkg/occurrence"
	"github.com/gnames/troutdb/pkg/report"
	"github.com/gnames/troutdb/pkg/store"
)

// writer turns dedup decisions into new records or new versions.
type writer struct {
	st        store.Store
	cellLevel int
	label     string
}

func newWriter(st store.Store, cellLevel int, label string) *writer {
	return &writer{st: st, cellLevel: cellLevel, label: label}
}

func (w *writer) version(r occurrence.Record) occurrence.Version {
	return occurrence.Version{
		ImportedAt:  time.Now().UTC(),
		SourceLabel: w.label,
		CellToken:   r.CellToken(w.cellLevel),
		Record:      r,
	}
}

// write applies a decision and returns the report bucket of the row.
func (w *writer) write(
	ctx context.Context,
	dec dedup.Decision,
) (report.Bucket, error) {
	switch dec.Action {
	case dedup.Insert:
		if err := w.st.Insert(ctx, w.version(dec.Record)); err != nil {
			return report.FailedWrite, err
		}
		return report.Inserted, nil
	case dedup.Update:
		_, err := w.st.AppendVersion(ctx, dec.Record.RecordID,
			w.version(dec.Record))
		if err != nil {
			return report.FailedWrite, err
		}
		return report.Updated, nil
	default:
		return report.SkippedDuplicate, nil
	}
}
