package iodb

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/troutdb/pkg/errcode"
)

// ConnectionError creates an error for PostgreSQL connection failures.
func ConnectionError(
	host string,
	port int,
	database, user string,
	err error,
) error {
	msg := `Cannot connect to PostgreSQL database

<em>Possible causes:</em>
  - PostgreSQL is not running
  - Database configuration is incorrect
  - Network connectivity issues

<em>How to fix:</em>
  1. Check if PostgreSQL is running:
     pg_isready -h %s -p %d
  2. Verify the database <em>%s</em> exists for user <em>%s</em>
  3. Check database settings in config.yaml or TROUTDB_DATABASE_* variables`

	return &gn.Error{
		Code: errcode.DBConnectionError,
		Msg:  msg,
		Vars: []any{host, port, database, user},
		Err: fmt.Errorf("failed to connect to %s:%d/%s: %w",
			host, port, database, err),
	}
}

// SQLiteOpenError creates an error for SQLite files that cannot be
// opened.
func SQLiteOpenError(path string, err error) error {
	msg := "Cannot open SQLite database <em>%s</em>"
	return &gn.Error{
		Code: errcode.DBConnectionError,
		Msg:  msg,
		Vars: []any{path},
		Err:  fmt.Errorf("cannot open sqlite %s: %w", path, err),
	}
}

// SQLitePathError is returned when the SQLite file is not set.
func SQLitePathError() error {
	msg := "SQLite database path is not set"
	return &gn.Error{
		Code: errcode.DBConnectionError,
		Msg:  msg,
		Err:  fmt.Errorf("empty sqlite path"),
	}
}

// UnsupportedDriverError is returned for unknown database drivers.
func UnsupportedDriverError(driver string) error {
	msg := "Database driver <em>%s</em> is not supported, " +
		"use sqlite or postgres"
	return &gn.Error{
		Code: errcode.DBUnsupportedDriverError,
		Msg:  msg,
		Vars: []any{driver},
		Err:  fmt.Errorf("unsupported driver %q", driver),
	}
}

// NotConnectedError is returned when an operation runs without
// a database connection.
func NotConnectedError() error {
	msg := "Database operation attempted without connection"
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Err:  fmt.Errorf("not connected to database"),
	}
}

// TableCheckError is returned when listing tables fails.
func TableCheckError(err error) error {
	msg := "Cannot verify database state"
	return &gn.Error{
		Code: errcode.DBTableCheckError,
		Msg:  msg,
		Err:  fmt.Errorf("failed to check database tables: %w", err),
	}
}

// DropTableError is returned when a table cannot be dropped.
func DropTableError(table string, err error) error {
	msg := "Cannot drop table <em>%s</em>"
	return &gn.Error{
		Code: errcode.DBDropTableError,
		Msg:  msg,
		Vars: []any{table},
		Err:  fmt.Errorf("failed to drop table %s: %w", table, err),
	}
}
