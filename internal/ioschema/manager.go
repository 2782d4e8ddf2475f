// Package ioschema implements SchemaManager interface for
// database schema management. This is an impure I/O package
// that wraps GORM AutoMigrate functionality.
package ioschema

import (
	"context"
	"log/slog"

	"github.com/gnames/troutdb/pkg/config"
	"github.com/gnames/troutdb/pkg/db"
	"github.com/gnames/troutdb/pkg/lifecycle"
	"github.com/gnames/troutdb/pkg/schema"
)

// manager implements the lifecycle.SchemaManager interface
// using GORM AutoMigrate.
type manager struct {
	operator db.Operator
}

// NewManager creates a new SchemaManager.
func NewManager(op db.Operator) lifecycle.SchemaManager {
	return &manager{operator: op}
}

// Create creates the initial database schema. With force, existing
// troutdb tables are dropped first.
func (m *manager) Create(
	ctx context.Context,
	cfg *config.Config,
	force bool,
) error {
	gormDB := m.operator.GORM()
	if gormDB == nil {
		return NotConnectedError()
	}

	hasTables, err := m.operator.HasTables(ctx)
	if err != nil {
		return err
	}
	if hasTables {
		if !force {
			return TablesExistError(m.operator.Driver())
		}
		slog.Warn("Dropping existing tables", "driver", m.operator.Driver())
		if err = m.operator.DropAllTables(ctx); err != nil {
			return err
		}
	}

	if err = schema.Migrate(gormDB.WithContext(ctx)); err != nil {
		return CreateSchemaError(err)
	}

	slog.Info("Schema created", "driver", m.operator.Driver())
	return nil
}

// Migrate updates the database schema to the latest version
// using GORM AutoMigrate.
func (m *manager) Migrate(
	ctx context.Context,
	cfg *config.Config,
) error {
	gormDB := m.operator.GORM()
	if gormDB == nil {
		return NotConnectedError()
	}

	if err := schema.Migrate(gormDB.WithContext(ctx)); err != nil {
		return MigrateSchemaError(err)
	}

	slog.Info("Schema migrated", "driver", m.operator.Driver())
	return nil
}
