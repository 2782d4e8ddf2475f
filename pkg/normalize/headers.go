package normalize

import (
	"strings"
	"unicode"
)

// Field is the name of a normalized record attribute.
type Field string

const (
	RecordID           Field = "unique_record_id"
	Species            Field = "species"
	Genus              Field = "genus"
	Locality           Field = "locality"
	State              Field = "state"
	Municipality       Field = "municipality"
	Basin              Field = "basin"
	SubBasin           Field = "sub_basin"
	Collectors         Field = "collectors"
	FieldNumber        Field = "field_number"
	Institution        Field = "institution"
	CatalogNumber      Field = "catalog_number"
	HabitatNotes       Field = "habitat_notes"
	ConservationStatus Field = "conservation_status"
	CollectionDate     Field = "collection_date"
	Latitude           Field = "latitude"
	Longitude          Field = "longitude"
	SpecimenCount      Field = "specimen_count"
)

// aliases lists header spellings found in the trout workbooks and their
// exports. Lookup goes through HeaderKey, so case, spaces, dashes and
// underscores do not matter.
var aliases = map[Field][]string{
	RecordID: {"Final_database_unique_record_ID", "unique_record_id",
		"record_id", "id"},
	Species:      {"species", "especie", "scientific_name"},
	Genus:        {"genus", "genero"},
	Locality:     {"locality", "locality_description", "localidad"},
	State:        {"state", "estado"},
	Municipality: {"municipio", "municipality"},
	Basin:        {"basin", "river_basin", "cuenca"},
	SubBasin:     {"subbasin", "sub_basin", "subcuenca"},
	Collectors:   {"collectors", "collector", "colectores"},
	FieldNumber:  {"field_num", "field_number", "field_no"},
	Institution:  {"institution", "institucion"},
	CatalogNumber: {"catalog_num", "catalog_number", "catalogue_number",
		"cat_num"},
	HabitatNotes:       {"habitat_notes", "habitat"},
	ConservationStatus: {"conservation_status"},
	CollectionDate:     {"data__yyyy", "collection_date", "date", "fecha"},
	Latitude:           {"lat_dec", "latitude", "lat", "latitud"},
	Longitude: {"long_dec", "longitude", "lon", "long", "lng",
		"longitud"},
	SpecimenCount: {"N_specimens", "specimen_count", "specimens"},
}

var headerFields = func() map[string]Field {
	res := make(map[string]Field)
	for f, names := range aliases {
		for _, n := range names {
			res[HeaderKey(n)] = f
		}
	}
	return res
}()

// HeaderKey reduces a header to lower-case letters and digits, so that
// "Lat dec", "lat_dec" and "LAT-DEC" give the same key.
func HeaderKey(s string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// FieldFor returns the record field of a spreadsheet header.
func FieldFor(header string) (Field, bool) {
	f, ok := headerFields[HeaderKey(header)]
	return f, ok
}
