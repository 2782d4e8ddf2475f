package schema

import (
	"gorm.io/gorm"
)

// AllModels returns all schema models for GORM AutoMigrate.
func AllModels() []any {
	return []any{
		&OccurrenceRecord{},
		&RecordVersion{},
		&SpeciesTaxon{},
		&GeneticSample{},
		&ImportRun{},
	}
}

// TableNames returns table names of all models.
func TableNames() []string {
	return []string{
		OccurrenceRecord{}.TableName(),
		RecordVersion{}.TableName(),
		SpeciesTaxon{}.TableName(),
		GeneticSample{}.TableName(),
		ImportRun{}.TableName(),
	}
}

// Migrate runs GORM AutoMigrate to create or update schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}
