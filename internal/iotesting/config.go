// Package iotesting provides shared test utilities for database tests.
// This is an internal package for test infrastructure only.
package iotesting

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/gnames/troutdb/internal/iodb"
	"github.com/gnames/troutdb/pkg/config"
	"github.com/gnames/troutdb/pkg/db"
	"github.com/gnames/troutdb/pkg/schema"
)

const (
	// TestDatabaseName is the PostgreSQL database used by integration
	// tests. Tests never run against other databases.
	TestDatabaseName = "troutdb_test"
)

// SQLiteConfig returns a configuration with a fresh SQLite file inside
// the test's temporary directory.
func SQLiteConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptDatabaseDriver("sqlite"),
		config.OptDatabasePath(filepath.Join(t.TempDir(), "troutdb.sqlite")),
		config.OptJobsNumber(2),
	})
	return cfg
}

// PostgresConfig returns a configuration for PostgreSQL integration
// tests. Connection settings come from TROUTDB_TEST_DATABASE_HOST,
// _PORT, _USER and _PASSWORD; the database name is always
// TestDatabaseName.
func PostgresConfig() *config.Config {
	cfg := config.New()
	opts := []config.Option{
		config.OptDatabaseDriver("postgres"),
		config.OptDatabaseDatabase(TestDatabaseName),
	}
	if s := os.Getenv("TROUTDB_TEST_DATABASE_HOST"); s != "" {
		opts = append(opts, config.OptDatabaseHost(s))
	}
	if s := os.Getenv("TROUTDB_TEST_DATABASE_PORT"); s != "" {
		if port, err := strconv.Atoi(s); err == nil {
			opts = append(opts, config.OptDatabasePort(port))
		}
	}
	if s := os.Getenv("TROUTDB_TEST_DATABASE_USER"); s != "" {
		opts = append(opts, config.OptDatabaseUser(s))
	}
	if s := os.Getenv("TROUTDB_TEST_DATABASE_PASSWORD"); s != "" {
		opts = append(opts, config.OptDatabasePassword(s))
	}
	cfg.Update(opts)
	return cfg
}

// OpenSQLite connects to a fresh SQLite database with the full schema.
// The connection is closed when the test finishes.
func OpenSQLite(t *testing.T) (db.Operator, *config.Config) {
	t.Helper()
	cfg := SQLiteConfig(t)
	op := iodb.NewOperator()
	if err := op.Connect(context.Background(), &cfg.Database); err != nil {
		t.Fatalf("cannot open sqlite: %v", err)
	}
	t.Cleanup(func() { op.Close() })

	if err := schema.Migrate(op.GORM()); err != nil {
		t.Fatalf("cannot migrate sqlite: %v", err)
	}
	return op, cfg
}

// OpenPostgres connects to the PostgreSQL test database and resets its
// schema. The test is skipped in short mode or when the server is not
// reachable.
func OpenPostgres(t *testing.T) (db.Operator, *config.Config) {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping PostgreSQL integration test in short mode")
	}
	cfg := PostgresConfig()
	op := iodb.NewOperator()
	ctx := context.Background()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		t.Skipf("PostgreSQL is not available: %v", err)
	}
	t.Cleanup(func() { op.Close() })

	if err := op.DropAllTables(ctx); err != nil {
		t.Fatalf("cannot reset test database: %v", err)
	}
	if err := schema.Migrate(op.GORM()); err != nil {
		t.Fatalf("cannot migrate test database: %v", err)
	}
	return op, cfg
}
