package report_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/gnames/troutdb/pkg/report"
	"github.com/gnames/troutdb/pkg/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCount(t *testing.T) {
	r := report.New("run-1", "test", false)
	assert.True(t, r.Complete())

	for _, b := range []report.Bucket{
		report.Inserted, report.Inserted, report.Updated,
		report.SkippedDuplicate, report.FailedValidation, report.FailedWrite,
	} {
		r.Count(b)
	}
	assert.Equal(t, 6, r.TotalRows)
	assert.Equal(t, 2, r.Inserted)
	assert.Equal(t, 1, r.Updated)
	assert.Equal(t, 1, r.SkippedDuplicate)
	assert.Equal(t, 1, r.FailedValidation)
	assert.Equal(t, 1, r.FailedWrite)
	assert.True(t, r.Complete())

	r.TotalRows++
	assert.False(t, r.Complete())
}

func TestIssues(t *testing.T) {
	r := report.New("run-1", "test", false)
	r.AddIssue(report.Issue{
		Sheet: "core", Row: 3, RecordID: "X1", Field: "latitude",
		Severity: validate.Error, Message: "latitude 95 is outside of [-90, 90]",
	})
	r.AddIssue(report.Issue{
		Sheet: "core", Row: 4, Field: "species",
		Severity: validate.Warning, Message: "species is missing",
	})
	assert.Equal(t, 1, r.Errors())
	assert.Equal(t,
		"error   [core, row 3, X1, latitude] latitude 95 is outside of [-90, 90]",
		r.Issues[0].String())
}

func TestJSON(t *testing.T) {
	r := report.New("run-1", "spring", true)
	r.Count(report.Inserted)
	r.AddIssue(report.Issue{Severity: validate.Warning, Message: "note"})
	r.Finish()

	bs, err := r.JSON()
	require.NoError(t, err)

	var res map[string]any
	require.NoError(t, json.Unmarshal(bs, &res))
	assert.Equal(t, "run-1", res["runId"])
	assert.Equal(t, true, res["dryRun"])
	assert.Equal(t, 1.0, res["totalRows"])
	assert.Equal(t, 1.0, res["inserted"])
	assert.Len(t, res["issues"], 1)
}

func TestText(t *testing.T) {
	r := report.New("run-1", "spring", false)
	r.Sheets = []string{"Mex_trout_core"}
	for range 1500 {
		r.Count(report.Inserted)
	}
	r.Taxa.Seeded = true
	r.Taxa.Added = 5
	r.Finish()

	txt := r.Text()
	assert.True(t, strings.HasPrefix(txt, "Import 'spring' (run run-1)"))
	assert.Contains(t, txt, "Total rows:        1,500")
	assert.Contains(t, txt, "5 added, 0 existing (built-in list)")
	assert.NotContains(t, txt, "Issues")
	assert.NotContains(t, txt, "Genetic")
}
