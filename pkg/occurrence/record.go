// Package occurrence contains the data model of trout occurrence records:
// the normalized record, its natural keys, and stored versions.
package occurrence

import (
	"strconv"
	"strings"
	"time"
)

// Unknown is the display value of absent text fields.
const Unknown = "unknown"

// Record holds normalized attributes of a specimen or sighting. It is
// used both as a draft produced from a spreadsheet row and as the content
// of a stored version.
type Record struct {
	// RecordID is the unique record identifier. Empty means absent.
	RecordID string

	Species            string
	Genus              string
	Locality           string
	State              string
	Municipality       string
	Basin              string
	SubBasin           string
	Collectors         string
	FieldNumber        string
	Institution        string
	CatalogNumber      string
	HabitatNotes       string
	ConservationStatus string

	CollectionDate Date

	// Latitude and Longitude are decimal degrees, nil when absent.
	Latitude  *float64
	Longitude *float64

	SpecimenCount *int
}

// HasCoordinates is true when both coordinates are present.
func (r Record) HasCoordinates() bool {
	return r.Latitude != nil && r.Longitude != nil
}

// Known is true for a text field that is not absent.
func Known(s string) bool {
	return s != "" && s != Unknown
}

// CompositeKey is the legacy natural key of records without a reliable
// identifier.
type CompositeKey struct {
	Collectors     string
	FieldNumber    string
	CollectionDate Date
}

// Complete is true when every part of the key is known.
func (k CompositeKey) Complete() bool {
	return Known(k.Collectors) && Known(k.FieldNumber) &&
		!k.CollectionDate.IsZero()
}

// String renders the key for messages.
func (k CompositeKey) String() string {
	return k.Collectors + " | " + k.FieldNumber + " | " +
		k.CollectionDate.String()
}

// CompositeKey returns the composite natural key of the record.
func (r Record) CompositeKey() CompositeKey {
	return CompositeKey{
		Collectors:     r.Collectors,
		FieldNumber:    r.FieldNumber,
		CollectionDate: r.CollectionDate,
	}
}

// NaturalKey finds a record in a store. If RecordID is set, it is
// used alone; otherwise the composite key is used.
type NaturalKey struct {
	RecordID  string
	Composite CompositeKey
}

// ByID creates a natural key from a record identifier.
func ByID(id string) NaturalKey {
	return NaturalKey{RecordID: id}
}

// ByComposite creates a natural key from a composite key.
func ByComposite(k CompositeKey) NaturalKey {
	return NaturalKey{Composite: k}
}

// Usable is true when the key can identify a record.
func (k NaturalKey) Usable() bool {
	return k.RecordID != "" || k.Composite.Complete()
}

// String renders the key for messages.
func (k NaturalKey) String() string {
	if k.RecordID != "" {
		return k.RecordID
	}
	return k.Composite.String()
}

// Version is an immutable stored snapshot of a record.
type Version struct {
	// Number is 1 for the first version and grows by one with every
	// update.
	Number int
	// ImportedAt is the time the version was written.
	ImportedAt time.Time
	// SourceLabel names the import run that produced the version.
	SourceLabel string
	// CellToken is the S2 cell token of the coordinates, if any.
	CellToken string
	Record
}

// Equal compares every normalized attribute of two records.
func (r Record) Equal(o Record) bool {
	return len(r.Diff(o)) == 0
}

// Diff returns names of attributes that differ between two records.
func (r Record) Diff(o Record) []string {
	var res []string
	add := func(name string, same bool) {
		if !same {
			res = append(res, name)
		}
	}
	add("unique_record_id", r.RecordID == o.RecordID)
	add("species", r.Species == o.Species)
	add("genus", r.Genus == o.Genus)
	add("locality", r.Locality == o.Locality)
	add("state", r.State == o.State)
	add("municipality", r.Municipality == o.Municipality)
	add("basin", r.Basin == o.Basin)
	add("sub_basin", r.SubBasin == o.SubBasin)
	add("collectors", r.Collectors == o.Collectors)
	add("field_number", r.FieldNumber == o.FieldNumber)
	add("institution", r.Institution == o.Institution)
	add("catalog_number", r.CatalogNumber == o.CatalogNumber)
	add("habitat_notes", r.HabitatNotes == o.HabitatNotes)
	add("conservation_status", r.ConservationStatus == o.ConservationStatus)
	add("collection_date", r.CollectionDate == o.CollectionDate)
	add("latitude", sameFloat(r.Latitude, o.Latitude))
	add("longitude", sameFloat(r.Longitude, o.Longitude))
	add("specimen_count", sameInt(r.SpecimenCount, o.SpecimenCount))
	return res
}

// Summary gives a short human description of the record.
func (r Record) Summary() string {
	var parts []string
	if r.RecordID != "" {
		parts = append(parts, r.RecordID)
	}
	parts = append(parts, r.Species)
	if r.HasCoordinates() {
		parts = append(parts,
			strconv.FormatFloat(*r.Latitude, 'f', -1, 64)+","+
				strconv.FormatFloat(*r.Longitude, 'f', -1, 64))
	}
	if !r.CollectionDate.IsZero() {
		parts = append(parts, r.CollectionDate.String())
	}
	return strings.Join(parts, " ")
}

func sameFloat(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func sameInt(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
