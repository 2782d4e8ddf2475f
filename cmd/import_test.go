package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/troutdb/pkg/config"
	"github.com/gnames/troutdb/pkg/errcode"
	"github.com/gnames/troutdb/pkg/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetImportCmd(t *testing.T) {
	cmd := getImportCmd()
	require.NotNil(t, cmd)
	assert.Equal(t, "import FILE", cmd.Use)
	assert.Error(t, cmd.Args(cmd, nil), "file argument is required")
	assert.NoError(t, cmd.Args(cmd, []string{"trout.xlsx"}))

	tests := []struct {
		name, short, def string
	}{
		{"label", "l", ""},
		{"sheets", "s", "[]"},
		{"dry-run", "n", "false"},
		{"jobs", "j", "0"},
		{"format", "f", "text"},
		{"output", "o", ""},
	}
	for _, v := range tests {
		f := cmd.Flags().Lookup(v.name)
		require.NotNil(t, f, v.name)
		assert.Equal(t, v.short, f.Shorthand, v.name)
		assert.Equal(t, v.def, f.DefValue, v.name)
	}
}

func TestImportFlags(t *testing.T) {
	cmd := getImportCmd()
	require.NoError(t, cmd.ParseFlags([]string{
		"--label", " May merge ",
		"--sheets", "Records,Extra",
		"--dry-run",
	}))

	c := config.New()
	c.Update(importFlags(cmd))
	assert.Equal(t, "May merge", c.Import.Label)
	assert.Equal(t, []string{"Records", "Extra"}, c.Import.OccurrenceSheets)
	assert.True(t, c.Import.DryRun)

	// flags that are not set keep the configuration
	cmd = getImportCmd()
	require.NoError(t, cmd.ParseFlags(nil))
	assert.Empty(t, importFlags(cmd))
}

func testReport() *report.Report {
	r := report.New("5b1f9a3e-8c2d-4e0a-9f71-2c3d4e5f6a7b", "May merge", false)
	r.Sheets = []string{"Records"}
	r.Count(report.Inserted)
	r.Count(report.FailedValidation)
	r.AddIssue(report.Issue{
		Sheet:    "Records",
		Row:      3,
		RecordID: "MX-0002",
		Field:    "latitude",
		Severity: "error",
		Message:  "latitude 95 is outside of [-90, 90]",
	})
	r.Finish()
	return r
}

func TestRenderReport(t *testing.T) {
	rep := testReport()

	out, err := renderReport(rep, "json")
	require.NoError(t, err)
	var res map[string]any
	require.NoError(t, json.Unmarshal(out, &res))
	assert.Equal(t, "May merge", res["label"])
	assert.Equal(t, float64(2), res["totalRows"])

	out, err = renderReport(rep, "text")
	require.NoError(t, err)
	assert.Contains(t, string(out), "Failed validation: 1")
	assert.Contains(t, string(out), "MX-0002")
}

func TestWriteReport(t *testing.T) {
	rep := testReport()
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, writeReport(rep, "json", path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"inserted": 1`)

	err = writeReport(rep, "json", filepath.Join(path, "nested.json"))
	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.WriteFileError, gnErr.Code)
}
