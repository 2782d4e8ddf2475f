package lifecycle

import (
	"context"

	"github.com/gnames/troutdb/pkg/config"
)

// SchemaManager defines the interface for database schema management.
// It uses GORM AutoMigrate to handle both initial schema creation and
// migrations. Schema management is idempotent - safe to run multiple
// times.
type SchemaManager interface {
	// Create creates the initial database schema. Existing troutdb
	// tables are dropped first when force is true; otherwise Create
	// fails if they exist.
	Create(ctx context.Context, cfg *config.Config, force bool) error

	// Migrate updates the database schema to the latest version using
	// GORM AutoMigrate. Data is kept.
	Migrate(ctx context.Context, cfg *config.Config) error
}
