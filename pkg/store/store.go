// Package store defines persistence of occurrence records, their
// versions, reference taxa, genetic samples and import runs.
//
// Versions are immutable. Every write is atomic: a failed write leaves
// no partial record behind.
package store

import (
	"context"
	"time"

	"github.com/gnames/troutdb/pkg/occurrence"
	"github.com/gnames/troutdb/pkg/report"
	"github.com/gnames/troutdb/pkg/taxonomy"
)

// Store keeps occurrence records with their full version history.
type Store interface {
	// FindByNaturalKey returns the current version of the record that
	// matches the key, or nil if there is no such record.
	FindByNaturalKey(
		ctx context.Context,
		key occurrence.NaturalKey,
	) (*occurrence.Version, error)

	// Insert creates a new record with the given content as version 1.
	Insert(ctx context.Context, v occurrence.Version) error

	// AppendVersion adds a new version to an existing record. The
	// version number is the previous maximum plus one, and it becomes
	// the current version. The number is returned.
	AppendVersion(
		ctx context.Context,
		recordID string,
		v occurrence.Version,
	) (int, error)

	// Versions returns all versions of a record, oldest first.
	Versions(ctx context.Context, recordID string) ([]occurrence.Version, error)

	// DeleteRecord removes a record together with all its versions and
	// returns the number of removed versions.
	DeleteRecord(ctx context.Context, recordID string) (int, error)

	// ListTaxa returns reference taxa sorted by scientific name.
	ListTaxa(ctx context.Context) ([]taxonomy.Taxon, error)

	// AddTaxon stores a taxon unless a taxon with the same scientific
	// name exists. It returns true if the taxon was added.
	AddTaxon(ctx context.Context, t taxonomy.Taxon, canonical string) (bool, error)

	// AddGeneticSample stores a sample unless its sample code exists.
	// The sample is linked to its record when the record is stored.
	AddGeneticSample(ctx context.Context, g GeneticSample) (SampleResult, error)

	// SaveRun persists the report of a finished import run.
	SaveRun(ctx context.Context, r *report.Report) error

	// Stats summarizes the content of the store.
	Stats(ctx context.Context) (Stats, error)

	// Sandbox runs fn against a view of the store whose writes are
	// discarded when fn returns.
	Sandbox(ctx context.Context, fn func(Store) error) error
}

// GeneticSample is a tissue sample with its genetic assignment.
type GeneticSample struct {
	SampleCode       string
	RecordID         string
	PopulationNumber string
	GeneticGroup     string
	Haplotype        string
	SequenceData     string
}

// SampleResult tells what happened to a genetic sample.
type SampleResult struct {
	Added  bool
	Linked bool
}

// RunInfo is a short description of a stored import run.
type RunInfo struct {
	ID         string
	Label      string
	FinishedAt time.Time
	TotalRows  int
	Inserted   int
	Updated    int
}

// Stats summarizes current versions of stored records.
type Stats struct {
	Records         int64
	Versions        int64
	WithCoordinates int64
	States          int64
	Basins          int64
	Species         int64
	Cells           int64
	Taxa            int64
	GeneticSamples  int64
	Runs            int64
	LastRun         *RunInfo
}

// CoordinateCompleteness is the percentage of records with coordinates.
func (s Stats) CoordinateCompleteness() float64 {
	if s.Records == 0 {
		return 0
	}
	return float64(s.WithCoordinates) / float64(s.Records) * 100
}
