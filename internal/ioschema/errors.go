package ioschema

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/troutdb/pkg/errcode"
)

// NotConnectedError creates an error for when schema
// operation is attempted without database connection.
func NotConnectedError() error {
	msg := "Schema operation attempted without database connection"

	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("not connected to database"),
	}
}

// TablesExistError is returned when schema creation would overwrite
// existing data.
func TablesExistError(driver string) error {
	msg := `The %s database already has troutdb tables

<em>How to fix:</em>
  - run <em>troutdb migrate</em> to update the schema and keep data
  - run <em>troutdb create --force</em> to drop all data`

	return &gn.Error{
		Code: errcode.SchemaCreateError,
		Msg:  msg,
		Vars: []any{driver},
		Err:  fmt.Errorf("tables already exist"),
	}
}

// CreateSchemaError creates an error for schema
// creation failures.
func CreateSchemaError(err error) error {
	msg := "Failed to create database schema"

	return &gn.Error{
		Code: errcode.SchemaCreateError,
		Msg:  msg,
		Err:  fmt.Errorf("GORM AutoMigrate failed: %w", err),
	}
}

// MigrateSchemaError creates an error for schema
// migration failures.
func MigrateSchemaError(err error) error {
	msg := "Failed to migrate database schema"

	return &gn.Error{
		Code: errcode.SchemaMigrateError,
		Msg:  msg,
		Err:  fmt.Errorf("GORM AutoMigrate failed: %w", err),
	}
}
