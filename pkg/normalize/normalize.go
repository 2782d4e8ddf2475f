// Package normalize converts raw spreadsheet rows into occurrence record
// drafts.
//
// Normalization never fails. A value that cannot be understood becomes
// absent, and a ParseWarning describing it is attached to the draft.
package normalize

import (
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/gnames/troutdb/pkg/occurrence"
	"github.com/gnames/troutdb/pkg/sheet"
)

const unknown = occurrence.Unknown

// ParseWarning describes a value that could not be normalized.
type ParseWarning struct {
	Field   Field
	Value   string
	Message string
}

// String formats the warning for reports.
func (w ParseWarning) String() string {
	return fmt.Sprintf("cannot parse %s '%s': %s", w.Field, w.Value, w.Message)
}

// Draft is a normalized record that is not stored yet.
type Draft struct {
	occurrence.Record

	// Sheet and Row locate the source row.
	Sheet string
	Row   int

	// Warnings collects values that were dropped during normalization.
	Warnings []ParseWarning
}

// Warning returns the parse warning of a field, if any.
func (d Draft) Warning(f Field) (ParseWarning, bool) {
	for _, w := range d.Warnings {
		if w.Field == f {
			return w, true
		}
	}
	return ParseWarning{}, false
}

// Row normalizes one spreadsheet row. Headers are matched to fields
// through the alias table; unknown headers are ignored. When several
// headers map to the same field, the first non-empty one in
// alphabetical order wins.
func Row(row sheet.Row) Draft {
	res := Draft{Sheet: row.Sheet, Row: row.Index}
	cells := fieldCells(row)
	rec := &res.Record

	if s, ok := Text(cells[RecordID]); ok {
		rec.RecordID = s
	}

	display := []struct {
		f   Field
		dst *string
	}{
		{Species, &rec.Species},
		{Genus, &rec.Genus},
		{Locality, &rec.Locality},
		{State, &rec.State},
		{Municipality, &rec.Municipality},
		{Basin, &rec.Basin},
		{SubBasin, &rec.SubBasin},
		{Collectors, &rec.Collectors},
		{FieldNumber, &rec.FieldNumber},
		{Institution, &rec.Institution},
		{CatalogNumber, &rec.CatalogNumber},
		{HabitatNotes, &rec.HabitatNotes},
		{ConservationStatus, &rec.ConservationStatus},
	}
	for _, v := range display {
		*v.dst = Display(cells[v.f])
	}

	if d, ok, msg := Date(cells[CollectionDate]); ok {
		if msg != "" {
			res.warn(CollectionDate, cells[CollectionDate], msg)
		} else {
			rec.CollectionDate = d
		}
	}

	for _, f := range []Field{Latitude, Longitude} {
		c := cells[f]
		v, ok, msg := Coordinate(c, f)
		if !ok {
			continue
		}
		if msg != "" {
			res.warn(f, c, msg)
			continue
		}
		if f == Latitude {
			rec.Latitude = &v
		} else {
			rec.Longitude = &v
		}
	}

	if n, ok, msg := count(cells[SpecimenCount]); ok {
		if msg != "" {
			res.warn(SpecimenCount, cells[SpecimenCount], msg)
		} else {
			rec.SpecimenCount = &n
		}
	}

	return res
}

func (d *Draft) warn(f Field, c sheet.Cell, msg string) {
	d.Warnings = append(d.Warnings, ParseWarning{
		Field:   f,
		Value:   c.String(),
		Message: msg,
	})
}

func fieldCells(row sheet.Row) map[Field]sheet.Cell {
	headers := make([]string, 0, len(row.Cells))
	for h := range row.Cells {
		headers = append(headers, h)
	}
	slices.Sort(headers)

	res := make(map[Field]sheet.Cell)
	for _, h := range headers {
		f, ok := FieldFor(h)
		if !ok {
			continue
		}
		if _, ok := Text(res[f]); ok {
			continue
		}
		res[f] = row.Cells[h]
	}
	return res
}

func count(c sheet.Cell) (int, bool, string) {
	if f, ok := c.Number(); ok {
		return intFromFloat(f)
	}
	s, ok := Text(c)
	if !ok {
		return 0, false, ""
	}
	if i, err := strconv.Atoi(s); err == nil {
		if i < 0 {
			return 0, true, "count cannot be negative"
		}
		return i, true, ""
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, true, "not a number"
	}
	return intFromFloat(f)
}

func intFromFloat(f float64) (int, bool, string) {
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, true, "count is not a whole number"
	}
	if f < 0 {
		return 0, true, "count cannot be negative"
	}
	return int(f), true, ""
}
