package cmd

import (
	"testing"
	"time"

	"github.com/gnames/troutdb/pkg/store"
	"github.com/stretchr/testify/assert"
)

func TestFormatStats(t *testing.T) {
	s := store.Stats{
		Records:         1200,
		Versions:        1350,
		WithCoordinates: 900,
		States:          6,
		Taxa:            5,
	}
	out := formatStats(s)
	assert.Contains(t, out, "Records:           1,200")
	assert.Contains(t, out, "With coordinates:  900 (75.0%)")
	assert.Contains(t, out, "States:            6")
	assert.NotContains(t, out, "Last import")

	s.LastRun = &store.RunInfo{
		Label:      "May merge",
		FinishedAt: time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC),
		TotalRows:  1500,
		Inserted:   1200,
	}
	out = formatStats(s)
	assert.Contains(t, out,
		"Last import:       'May merge' at 2024-05-10T12:00:00Z (1,500 rows")
}
