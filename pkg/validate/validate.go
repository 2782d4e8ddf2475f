// Package validate applies the fixed rule set to normalized drafts.
//
// Rules are evaluated in a fixed order and never short-circuit, so the
// order of issues is stable. Any error-level issue makes a draft
// invalid; warnings are reported but do not block storing the record.
package validate

import (
	"fmt"

	"github.com/gnames/troutdb/pkg/normalize"
	"github.com/gnames/troutdb/pkg/occurrence"
	"github.com/gnames/troutdb/pkg/taxonomy"
)

// Severity of a validation issue.
type Severity string

const (
	Error   Severity = "error"
	Warning Severity = "warning"
)

// IncompletePair is the message of a record with only one coordinate.
const IncompletePair = "incomplete coordinate pair"

// Issue is one problem found in a draft.
type Issue struct {
	Field    string
	Severity Severity
	Message  string
}

// Result of validation.
type Result struct {
	Valid  bool
	Issues []Issue
}

// Validator checks drafts. The zero value checks everything except
// species names.
type Validator struct {
	checker *taxonomy.Checker
}

// New creates a Validator. When checker is nil, species are not checked
// against reference taxa.
func New(checker *taxonomy.Checker) *Validator {
	return &Validator{checker: checker}
}

// Validate runs every rule on the draft.
func (v *Validator) Validate(d normalize.Draft) Result {
	var res []Issue
	add := func(f normalize.Field, s Severity, msg string, args ...any) {
		res = append(res, Issue{
			Field:    string(f),
			Severity: s,
			Message:  fmt.Sprintf(msg, args...),
		})
	}

	if d.RecordID == "" {
		add(normalize.RecordID, Error, "record identifier is missing")
	}

	lat, lon := d.Latitude, d.Longitude
	switch {
	case lat == nil && lon != nil:
		add(normalize.Latitude, Error, IncompletePair)
	case lat != nil && lon == nil:
		add(normalize.Longitude, Error, IncompletePair)
	case lat != nil && lon != nil:
		if *lat < -90 || *lat > 90 {
			add(normalize.Latitude, Error,
				"latitude %v is outside of [-90, 90]", *lat)
		}
		if *lon < -180 || *lon > 180 {
			add(normalize.Longitude, Error,
				"longitude %v is outside of [-180, 180]", *lon)
		}
	}

	if !occurrence.Known(d.Species) {
		add(normalize.Species, Warning,
			"species is missing, record is unidentified")
	}

	if w, ok := d.Warning(normalize.CollectionDate); ok {
		add(normalize.CollectionDate, Warning,
			"unparseable collection date '%s': %s", w.Value, w.Message)
	}

	for _, w := range d.Warnings {
		if w.Field == normalize.CollectionDate {
			continue
		}
		add(w.Field, Warning, "%s", w.String())
	}

	if v.checker != nil && occurrence.Known(d.Species) {
		m := v.checker.Check(d.Species)
		switch {
		case m.Known:
		case m.Suggestion != "":
			add(normalize.Species, Warning,
				"species '%s' is not a known taxon, did you mean '%s'?",
				d.Species, m.Suggestion)
		default:
			add(normalize.Species, Warning,
				"species '%s' is not a known taxon", d.Species)
		}
	}

	valid := true
	for _, i := range res {
		if i.Severity == Error {
			valid = false
			break
		}
	}
	return Result{Valid: valid, Issues: res}
}
