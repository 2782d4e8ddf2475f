package db

import (
	"context"

	"github.com/gnames/troutdb/pkg/config"
	"gorm.io/gorm"
)

// Operator defines the interface for basic database management
// operations. It manages the connection lifecycle and exposes a GORM
// handle to the schema manager and the record store.
//
// SQLite and PostgreSQL are supported; the rest of the application does
// not depend on which one is used.
type Operator interface {
	// Connect opens the database described by the configuration.
	Connect(context.Context, *config.DatabaseConfig) error

	// Close closes the database connection.
	Close() error

	// GORM returns the GORM handle, or nil if not connected.
	GORM() *gorm.DB

	// Driver returns "sqlite" or "postgres".
	Driver() string

	// TableExists checks if a table exists in the database.
	TableExists(ctx context.Context, tableName string) (bool, error)

	// HasTables checks if the database has any troutdb tables.
	// Used to determine if schema creation should ask for confirmation.
	HasTables(ctx context.Context) (bool, error)

	// DropAllTables drops all troutdb tables.
	// Used during schema creation when overwriting existing data.
	DropAllTables(ctx context.Context) error
}
