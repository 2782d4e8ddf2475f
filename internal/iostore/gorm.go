// Package iostore implements the record store on top of GORM (SQLite or
// PostgreSQL) and in memory. This is an impure I/O package that
// implements contracts defined in pkg/.
package iostore

import (
	"context"
	"errors"
	"time"

	"github.com/gnames/gnfmt"
	"github.com/gnames/troutdb/pkg/occurrence"
	"github.com/gnames/troutdb/pkg/report"
	"github.com/gnames/troutdb/pkg/schema"
	"github.com/gnames/troutdb/pkg/store"
	"github.com/gnames/troutdb/pkg/taxonomy"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// errSandbox rolls back the sandbox transaction.
var errSandbox = errors.New("sandbox rollback")

type gormStore struct {
	db *gorm.DB
}

// NewGORM creates a store that keeps data in the database behind db.
// The schema must exist already.
func NewGORM(db *gorm.DB) store.Store {
	return &gormStore{db: db}
}

func (s *gormStore) FindByNaturalKey(
	ctx context.Context,
	key occurrence.NaturalKey,
) (*occurrence.Version, error) {
	if !key.Usable() {
		return nil, nil
	}

	var rec schema.OccurrenceRecord
	q := s.db.WithContext(ctx)
	if key.RecordID != "" {
		q = q.Where("record_id = ?", key.RecordID)
	} else {
		c := key.Composite
		q = q.Where(
			"collectors = ? AND field_number = ? AND collection_date = ?",
			c.Collectors, c.FieldNumber, c.CollectionDate.String(),
		).Order("record_id")
	}
	err := q.Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, LookupError(key.String(), err)
	}

	var m schema.RecordVersion
	err = s.db.WithContext(ctx).
		Where("record_id = ? AND version_number = ?",
			rec.RecordID, rec.CurrentVersion).
		Take(&m).Error
	if err != nil {
		return nil, LookupError(key.String(), err)
	}
	v, err := fromVersionModel(m)
	if err != nil {
		return nil, ReadError(rec.RecordID, err)
	}
	return &v, nil
}

func (s *gormStore) Insert(ctx context.Context, v occurrence.Version) error {
	id := v.RecordID
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec := schema.OccurrenceRecord{
			RecordID:       id,
			CurrentVersion: 1,
			Collectors:     v.Collectors,
			FieldNumber:    v.FieldNumber,
			CollectionDate: v.CollectionDate.String(),
		}
		if err := tx.Create(&rec).Error; err != nil {
			return err
		}
		m := toVersionModel(id, 1, stamp(v))
		return tx.Create(&m).Error
	})
	if err != nil {
		return WriteError(id, err)
	}
	return nil
}

func (s *gormStore) AppendVersion(
	ctx context.Context,
	recordID string,
	v occurrence.Version,
) (int, error) {
	var number int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec schema.OccurrenceRecord
		err := tx.Where("record_id = ?", recordID).Take(&rec).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RecordNotFoundError(recordID)
		}
		if err != nil {
			return err
		}

		var last int
		err = tx.Model(&schema.RecordVersion{}).
			Where("record_id = ?", recordID).
			Select("COALESCE(MAX(version_number), 0)").
			Scan(&last).Error
		if err != nil {
			return err
		}
		number = last + 1

		m := toVersionModel(recordID, number, stamp(v))
		if err = tx.Create(&m).Error; err != nil {
			return err
		}

		return tx.Model(&rec).Updates(map[string]any{
			"current_version": number,
			"collectors":      v.Collectors,
			"field_number":    v.FieldNumber,
			"collection_date": v.CollectionDate.String(),
		}).Error
	})
	if err != nil {
		if isNotFound(err) {
			return 0, err
		}
		return 0, WriteError(recordID, err)
	}
	return number, nil
}

func (s *gormStore) Versions(
	ctx context.Context,
	recordID string,
) ([]occurrence.Version, error) {
	var ms []schema.RecordVersion
	err := s.db.WithContext(ctx).
		Where("record_id = ?", recordID).
		Order("version_number").
		Find(&ms).Error
	if err != nil {
		return nil, ReadError(recordID, err)
	}

	res := make([]occurrence.Version, 0, len(ms))
	for _, m := range ms {
		v, err := fromVersionModel(m)
		if err != nil {
			return nil, ReadError(recordID, err)
		}
		res = append(res, v)
	}
	return res, nil
}

func (s *gormStore) DeleteRecord(
	ctx context.Context,
	recordID string,
) (int, error) {
	var removed int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("record_id = ?", recordID).
			Delete(&schema.OccurrenceRecord{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return RecordNotFoundError(recordID)
		}

		res = tx.Where("record_id = ?", recordID).
			Delete(&schema.RecordVersion{})
		if res.Error != nil {
			return res.Error
		}
		removed = res.RowsAffected

		return tx.Model(&schema.GeneticSample{}).
			Where("record_id = ?", recordID).
			Update("record_id", nil).Error
	})
	if err != nil {
		if isNotFound(err) {
			return 0, err
		}
		return 0, WriteError(recordID, err)
	}
	return int(removed), nil
}

func (s *gormStore) ListTaxa(ctx context.Context) ([]taxonomy.Taxon, error) {
	var ms []schema.SpeciesTaxon
	err := s.db.WithContext(ctx).Order("scientific_name").Find(&ms).Error
	if err != nil {
		return nil, ReadError("species taxa", err)
	}
	res := make([]taxonomy.Taxon, len(ms))
	for i := range ms {
		res[i] = fromTaxonModel(ms[i])
	}
	return res, nil
}

func (s *gormStore) AddTaxon(
	ctx context.Context,
	t taxonomy.Taxon,
	canonical string,
) (bool, error) {
	m := toTaxonModel(t, canonical)
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "scientific_name"}},
			DoNothing: true,
		}).
		Create(&m)
	if res.Error != nil {
		return false, WriteError(t.ScientificName, res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *gormStore) AddGeneticSample(
	ctx context.Context,
	g store.GeneticSample,
) (store.SampleResult, error) {
	var res store.SampleResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m := schema.GeneticSample{
			SampleCode:       g.SampleCode,
			PopulationNumber: g.PopulationNumber,
			GeneticGroup:     g.GeneticGroup,
			Haplotype:        g.Haplotype,
			SequenceData:     g.SequenceData,
		}
		if g.RecordID != "" {
			var n int64
			err := tx.Model(&schema.OccurrenceRecord{}).
				Where("record_id = ?", g.RecordID).
				Count(&n).Error
			if err != nil {
				return err
			}
			if n > 0 {
				m.RecordID = &g.RecordID
			}
		}

		r := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "sample_code"}},
			DoNothing: true,
		}).Create(&m)
		if r.Error != nil {
			return r.Error
		}
		res.Added = r.RowsAffected > 0
		res.Linked = res.Added && m.RecordID != nil
		return nil
	})
	if err != nil {
		return store.SampleResult{}, WriteError(g.SampleCode, err)
	}
	return res, nil
}

func (s *gormStore) SaveRun(ctx context.Context, r *report.Report) error {
	enc := gnfmt.GNjson{}
	issues, err := enc.Encode(r.Issues)
	if err != nil {
		return WriteError("import run "+r.RunID, err)
	}

	m := schema.ImportRun{
		ID:               r.RunID,
		Label:            r.Label,
		StartedAt:        r.StartedAt.UTC(),
		FinishedAt:       r.FinishedAt.UTC(),
		TotalRows:        r.TotalRows,
		Inserted:         r.Inserted,
		Updated:          r.Updated,
		SkippedDuplicate: r.SkippedDuplicate,
		FailedValidation: r.FailedValidation,
		FailedWrite:      r.FailedWrite,
		TaxaAdded:        r.Taxa.Added,
		GeneticAdded:     r.Genetic.Added,
		Issues:           datatypes.JSON(issues),
	}
	if err = s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return WriteError("import run "+r.RunID, err)
	}
	return nil
}

// currentStats is filled from current versions only.
type currentStats struct {
	Records         int64
	WithCoordinates int64
	States          int64
	Basins          int64
	Species         int64
	Cells           int64
}

const currentStatsSQL = `
SELECT
  COUNT(*) AS records,
  COALESCE(SUM(CASE WHEN v.latitude IS NOT NULL
    AND v.longitude IS NOT NULL THEN 1 ELSE 0 END), 0) AS with_coordinates,
  COUNT(DISTINCT CASE WHEN v.state NOT IN ('', 'unknown')
    THEN v.state END) AS states,
  COUNT(DISTINCT CASE WHEN v.basin NOT IN ('', 'unknown')
    THEN v.basin END) AS basins,
  COUNT(DISTINCT CASE WHEN v.species NOT IN ('', 'unknown')
    THEN v.species END) AS species,
  COUNT(DISTINCT CASE WHEN v.s2_cell <> ''
    THEN v.s2_cell END) AS cells
FROM occurrence_records r
JOIN record_versions v
  ON v.record_id = r.record_id AND v.version_number = r.current_version
`

func (s *gormStore) Stats(ctx context.Context) (store.Stats, error) {
	var res store.Stats
	db := s.db.WithContext(ctx)

	var cur currentStats
	if err := db.Raw(currentStatsSQL).Scan(&cur).Error; err != nil {
		return res, ReadError("statistics", err)
	}
	res.Records = cur.Records
	res.WithCoordinates = cur.WithCoordinates
	res.States = cur.States
	res.Basins = cur.Basins
	res.Species = cur.Species
	res.Cells = cur.Cells

	counts := []struct {
		model any
		dest  *int64
	}{
		{&schema.RecordVersion{}, &res.Versions},
		{&schema.SpeciesTaxon{}, &res.Taxa},
		{&schema.GeneticSample{}, &res.GeneticSamples},
		{&schema.ImportRun{}, &res.Runs},
	}
	for _, c := range counts {
		if err := db.Model(c.model).Count(c.dest).Error; err != nil {
			return res, ReadError("statistics", err)
		}
	}

	if res.Runs == 0 {
		return res, nil
	}
	var run schema.ImportRun
	err := db.Order("finished_at DESC").Take(&run).Error
	if err != nil {
		return res, ReadError("statistics", err)
	}
	res.LastRun = &store.RunInfo{
		ID:         run.ID,
		Label:      run.Label,
		FinishedAt: run.FinishedAt,
		TotalRows:  run.TotalRows,
		Inserted:   run.Inserted,
		Updated:    run.Updated,
	}
	return res, nil
}

// Sandbox runs fn inside a transaction that is always rolled back.
func (s *gormStore) Sandbox(
	ctx context.Context,
	fn func(store.Store) error,
) error {
	var fnErr error
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fnErr = fn(&gormStore{db: tx})
		return errSandbox
	})
	if fnErr != nil {
		return fnErr
	}
	if !errors.Is(err, errSandbox) {
		return err
	}
	return nil
}

// stamp sets the import time of a version if it is missing.
func stamp(v occurrence.Version) occurrence.Version {
	if v.ImportedAt.IsZero() {
		v.ImportedAt = time.Now().UTC()
	}
	return v
}
