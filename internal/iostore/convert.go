package iostore

import (
	"strconv"

	"github.com/gnames/gnuuid"
	"github.com/gnames/troutdb/pkg/occurrence"
	"github.com/gnames/troutdb/pkg/schema"
	"github.com/gnames/troutdb/pkg/taxonomy"
)

// versionID is a UUID v5 of the record ID and the version number.
func versionID(recordID string, number int) string {
	return gnuuid.New(recordID + "|" + strconv.Itoa(number)).String()
}

func toVersionModel(
	recordID string,
	number int,
	v occurrence.Version,
) schema.RecordVersion {
	r := v.Record
	return schema.RecordVersion{
		ID:                 versionID(recordID, number),
		RecordID:           recordID,
		VersionNumber:      number,
		Species:            r.Species,
		Genus:              r.Genus,
		Locality:           r.Locality,
		State:              r.State,
		Municipality:       r.Municipality,
		Basin:              r.Basin,
		SubBasin:           r.SubBasin,
		Collectors:         r.Collectors,
		FieldNumber:        r.FieldNumber,
		Institution:        r.Institution,
		CatalogNumber:      r.CatalogNumber,
		HabitatNotes:       r.HabitatNotes,
		ConservationStatus: r.ConservationStatus,
		CollectionDate:     r.CollectionDate.String(),
		DatePrecision:      r.CollectionDate.Precision.String(),
		Latitude:           r.Latitude,
		Longitude:          r.Longitude,
		S2Cell:             v.CellToken,
		SpecimenCount:      r.SpecimenCount,
		SourceLabel:        v.SourceLabel,
		ImportedAt:         v.ImportedAt.UTC(),
	}
}

func fromVersionModel(m schema.RecordVersion) (occurrence.Version, error) {
	date, err := occurrence.ParseCanonical(m.CollectionDate)
	if err != nil {
		return occurrence.Version{}, err
	}
	return occurrence.Version{
		Number:      m.VersionNumber,
		ImportedAt:  m.ImportedAt,
		SourceLabel: m.SourceLabel,
		CellToken:   m.S2Cell,
		Record: occurrence.Record{
			RecordID:           m.RecordID,
			Species:            m.Species,
			Genus:              m.Genus,
			Locality:           m.Locality,
			State:              m.State,
			Municipality:       m.Municipality,
			Basin:              m.Basin,
			SubBasin:           m.SubBasin,
			Collectors:         m.Collectors,
			FieldNumber:        m.FieldNumber,
			Institution:        m.Institution,
			CatalogNumber:      m.CatalogNumber,
			HabitatNotes:       m.HabitatNotes,
			ConservationStatus: m.ConservationStatus,
			CollectionDate:     date,
			Latitude:           m.Latitude,
			Longitude:          m.Longitude,
			SpecimenCount:      m.SpecimenCount,
		},
	}, nil
}

func toTaxonModel(t taxonomy.Taxon, canonical string) schema.SpeciesTaxon {
	return schema.SpeciesTaxon{
		ScientificName:     t.ScientificName,
		CanonicalName:      canonical,
		CommonName:         t.CommonName,
		TaxonCode:          t.TaxonCode,
		ConservationStatus: t.ConservationStatus,
		IUCNAssessment:     t.IUCNAssessment,
		Description:        t.Description,
	}
}

func fromTaxonModel(m schema.SpeciesTaxon) taxonomy.Taxon {
	return taxonomy.Taxon{
		ScientificName:     m.ScientificName,
		CommonName:         m.CommonName,
		TaxonCode:          m.TaxonCode,
		ConservationStatus: m.ConservationStatus,
		IUCNAssessment:     m.IUCNAssessment,
		Description:        m.Description,
	}
}
