// Package schema provides database schema models for troutdb.
// Tables are created and updated with GORM AutoMigrate, so the same
// models work for SQLite and PostgreSQL.
package schema

import (
	"time"

	"gorm.io/datatypes"
)

// OccurrenceRecord is the identity of a specimen or sighting. Its
// content lives in RecordVersion rows; the record points to the current
// one.
type OccurrenceRecord struct {
	// RecordID is the unique record identifier from the workbook.
	RecordID string `gorm:"primaryKey;type:varchar(100)"`

	// CurrentVersion is the highest version number of the record.
	CurrentVersion int `gorm:"not null"`

	// Collectors, FieldNumber and CollectionDate repeat the values of the
	// current version. Together they form the legacy natural key.
	Collectors     string `gorm:"type:varchar(255);index:idx_occ_natural_key"`
	FieldNumber    string `gorm:"type:varchar(100);index:idx_occ_natural_key"`
	CollectionDate string `gorm:"type:varchar(10);index:idx_occ_natural_key"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for OccurrenceRecord.
func (OccurrenceRecord) TableName() string {
	return "occurrence_records"
}

// RecordVersion is an immutable snapshot of record content.
type RecordVersion struct {
	// ID is UUID v5 generated from record ID and version number.
	ID string `gorm:"primaryKey;type:varchar(36)"`

	RecordID      string `gorm:"type:varchar(100);not null;uniqueIndex:idx_version_record_number"`
	VersionNumber int    `gorm:"not null;uniqueIndex:idx_version_record_number"`

	Species            string `gorm:"type:varchar(255);index"`
	Genus              string `gorm:"type:varchar(100)"`
	Locality           string `gorm:"type:text"`
	State              string `gorm:"type:varchar(100)"`
	Municipality       string `gorm:"type:varchar(100)"`
	Basin              string `gorm:"type:varchar(100)"`
	SubBasin           string `gorm:"type:varchar(100)"`
	Collectors         string `gorm:"type:varchar(255)"`
	FieldNumber        string `gorm:"type:varchar(100)"`
	Institution        string `gorm:"type:varchar(255)"`
	CatalogNumber      string `gorm:"type:varchar(100)"`
	HabitatNotes       string `gorm:"type:text"`
	ConservationStatus string `gorm:"type:varchar(100)"`

	// CollectionDate is YYYY-MM-DD, YYYY-MM or YYYY, empty when absent.
	CollectionDate string `gorm:"type:varchar(10)"`
	// DatePrecision is "day", "month", "year" or empty.
	DatePrecision string `gorm:"type:varchar(5)"`

	Latitude  *float64
	Longitude *float64

	// S2Cell is the S2 cell token of the coordinates.
	S2Cell string `gorm:"type:varchar(16);index"`

	SpecimenCount *int

	// SourceLabel names the import run that produced the version.
	SourceLabel string    `gorm:"type:varchar(255)"`
	ImportedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for RecordVersion.
func (RecordVersion) TableName() string {
	return "record_versions"
}

// SpeciesTaxon is a reference species name.
type SpeciesTaxon struct {
	ID uint `gorm:"primaryKey"`

	ScientificName string `gorm:"type:varchar(255);not null;uniqueIndex"`

	// CanonicalName is the parsed canonical form of ScientificName.
	CanonicalName string `gorm:"type:varchar(255);index"`

	CommonName         string `gorm:"type:varchar(255)"`
	TaxonCode          string `gorm:"type:varchar(10)"`
	ConservationStatus string `gorm:"type:varchar(50)"`
	IUCNAssessment     string `gorm:"type:varchar(255)"`
	Description        string `gorm:"type:text"`

	CreatedAt time.Time
}

// TableName returns the table name for SpeciesTaxon.
func (SpeciesTaxon) TableName() string {
	return "species_taxa"
}

// GeneticSample is a tissue sample from the Abadia et al. (2015)
// supplement.
type GeneticSample struct {
	ID uint `gorm:"primaryKey"`

	SampleCode string `gorm:"type:varchar(100);not null;uniqueIndex"`

	// RecordID links the sample to an occurrence record, if it is known.
	RecordID *string `gorm:"type:varchar(100);index"`

	PopulationNumber string `gorm:"type:varchar(20)"`
	GeneticGroup     string `gorm:"type:varchar(50)"`
	Haplotype        string `gorm:"type:varchar(50)"`
	SequenceData     string `gorm:"type:text"`

	CreatedAt time.Time
}

// TableName returns the table name for GeneticSample.
func (GeneticSample) TableName() string {
	return "genetic_samples"
}

// ImportRun is the report of a finished import.
type ImportRun struct {
	ID string `gorm:"primaryKey;type:varchar(36)"`

	Label      string    `gorm:"type:varchar(255)"`
	StartedAt  time.Time `gorm:"not null"`
	FinishedAt time.Time `gorm:"not null;index"`

	TotalRows        int
	Inserted         int
	Updated          int
	SkippedDuplicate int
	FailedValidation int
	FailedWrite      int
	TaxaAdded        int
	GeneticAdded     int

	// Issues is the JSON list of row issues.
	Issues datatypes.JSON
}

// TableName returns the table name for ImportRun.
func (ImportRun) TableName() string {
	return "import_runs"
}
