// Package report describes the outcome of one import run.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gnfmt"
	"github.com/gnames/troutdb/pkg/validate"
)

// Bucket is the classification of a processed row.
type Bucket int

const (
	Inserted Bucket = iota
	Updated
	SkippedDuplicate
	FailedValidation
	FailedWrite
)

// Issue is a problem found in one row.
type Issue struct {
	Sheet    string            `json:"sheet,omitempty"`
	Row      int               `json:"row,omitempty"`
	RecordID string            `json:"recordId,omitempty"`
	Field    string            `json:"field,omitempty"`
	Severity validate.Severity `json:"severity"`
	Message  string            `json:"message"`
}

// String formats the issue as one line.
func (i Issue) String() string {
	var loc []string
	if i.Sheet != "" {
		loc = append(loc, i.Sheet)
	}
	if i.Row > 0 {
		loc = append(loc, fmt.Sprintf("row %d", i.Row))
	}
	if i.RecordID != "" {
		loc = append(loc, i.RecordID)
	}
	if i.Field != "" {
		loc = append(loc, i.Field)
	}
	return fmt.Sprintf("%-7s [%s] %s",
		i.Severity, strings.Join(loc, ", "), i.Message)
}

// TaxaStats summarizes the taxonomy phase.
type TaxaStats struct {
	// Sheet is the taxa sheet name, empty if the workbook has none.
	Sheet    string `json:"sheet,omitempty"`
	Added    int    `json:"added"`
	Existing int    `json:"existing"`
	Failed   int    `json:"failed"`
	// Seeded is true when the built-in species list was used.
	Seeded bool `json:"seeded"`
}

// GeneticStats summarizes the genetic samples phase.
type GeneticStats struct {
	Sheet    string `json:"sheet,omitempty"`
	Added    int    `json:"added"`
	Existing int    `json:"existing"`
	Linked   int    `json:"linked"`
	Failed   int    `json:"failed"`
}

// Report is the outcome of one import run. It is created at the start
// of a run and is not changed after the run is finished.
type Report struct {
	RunID      string    `json:"runId"`
	Label      string    `json:"label"`
	DryRun     bool      `json:"dryRun"`
	Sheets     []string  `json:"sheets"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`

	TotalRows        int `json:"totalRows"`
	Inserted         int `json:"inserted"`
	Updated          int `json:"updated"`
	SkippedDuplicate int `json:"skippedDuplicate"`
	FailedValidation int `json:"failedValidation"`
	FailedWrite      int `json:"failedWrite"`

	Taxa    TaxaStats    `json:"taxa"`
	Genetic GeneticStats `json:"genetic"`

	Issues []Issue `json:"issues"`
}

// New creates an empty report for a run.
func New(runID, label string, dryRun bool) *Report {
	return &Report{
		RunID:     runID,
		Label:     label,
		DryRun:    dryRun,
		StartedAt: time.Now(),
		Issues:    []Issue{},
	}
}

// Count classifies one row.
func (r *Report) Count(b Bucket) {
	r.TotalRows++
	switch b {
	case Inserted:
		r.Inserted++
	case Updated:
		r.Updated++
	case SkippedDuplicate:
		r.SkippedDuplicate++
	case FailedValidation:
		r.FailedValidation++
	case FailedWrite:
		r.FailedWrite++
	}
}

// AddIssue appends an issue.
func (r *Report) AddIssue(i Issue) {
	r.Issues = append(r.Issues, i)
}

// Finish stamps the end time of the run.
func (r *Report) Finish() {
	r.FinishedAt = time.Now()
}

// Complete is true when every counted row is in exactly one bucket.
func (r *Report) Complete() bool {
	sum := r.Inserted + r.Updated + r.SkippedDuplicate +
		r.FailedValidation + r.FailedWrite
	return r.TotalRows == sum
}

// Errors counts error-level issues.
func (r *Report) Errors() int {
	var res int
	for _, i := range r.Issues {
		if i.Severity == validate.Error {
			res++
		}
	}
	return res
}

// Duration of the run.
func (r *Report) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// JSON renders the report as pretty JSON.
func (r *Report) JSON() ([]byte, error) {
	enc := gnfmt.GNjson{Pretty: true}
	return enc.Encode(r)
}

// Text renders a human-readable summary followed by all issues.
func (r *Report) Text() string {
	var sb strings.Builder
	c := func(i int) string {
		return humanize.Comma(int64(i))
	}

	title := "Import"
	if r.DryRun {
		title = "Dry run"
	}
	fmt.Fprintf(&sb, "%s '%s' (run %s)\n", title, r.Label, r.RunID)
	if len(r.Sheets) > 0 {
		fmt.Fprintf(&sb, "Sheets:            %s\n", strings.Join(r.Sheets, ", "))
	}
	fmt.Fprintf(&sb, "Duration:          %s\n",
		gnfmt.TimeString(r.Duration().Seconds()))
	fmt.Fprintf(&sb, "Total rows:        %s\n", c(r.TotalRows))
	fmt.Fprintf(&sb, "Inserted:          %s\n", c(r.Inserted))
	fmt.Fprintf(&sb, "Updated:           %s\n", c(r.Updated))
	fmt.Fprintf(&sb, "Skipped duplicate: %s\n", c(r.SkippedDuplicate))
	fmt.Fprintf(&sb, "Failed validation: %s\n", c(r.FailedValidation))
	fmt.Fprintf(&sb, "Failed write:      %s\n", c(r.FailedWrite))

	taxa := fmt.Sprintf("%s added, %s existing",
		c(r.Taxa.Added), c(r.Taxa.Existing))
	if r.Taxa.Seeded {
		taxa += " (built-in list)"
	}
	fmt.Fprintf(&sb, "Taxa:              %s\n", taxa)
	if r.Genetic.Sheet != "" {
		fmt.Fprintf(&sb, "Genetic samples:   %s added, %s linked to records\n",
			c(r.Genetic.Added), c(r.Genetic.Linked))
	}

	if len(r.Issues) > 0 {
		fmt.Fprintf(&sb, "\nIssues (%s, %s errors):\n",
			c(len(r.Issues)), c(r.Errors()))
		for _, i := range r.Issues {
			sb.WriteString("  " + i.String() + "\n")
		}
	}
	return sb.String()
}
