package iodb_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/troutdb/internal/iodb"
	"github.com/gnames/troutdb/internal/iotesting"
	"github.com/gnames/troutdb/pkg/config"
	"github.com/gnames/troutdb/pkg/errcode"
	"github.com/gnames/troutdb/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteOperator(t *testing.T) {
	ctx := context.Background()
	cfg := iotesting.SQLiteConfig(t)

	op := iodb.NewOperator()
	require.NoError(t, op.Connect(ctx, &cfg.Database))
	defer op.Close()

	assert.Equal(t, "sqlite", op.Driver())
	require.NotNil(t, op.GORM())

	has, err := op.HasTables(ctx)
	require.NoError(t, err)
	assert.False(t, has, "fresh database has no tables")

	require.NoError(t, schema.Migrate(op.GORM()))

	has, err = op.HasTables(ctx)
	require.NoError(t, err)
	assert.True(t, has)

	exists, err := op.TableExists(ctx, "record_versions")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = op.TableExists(ctx, "nonexistent_table")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, op.DropAllTables(ctx))
	has, err = op.HasTables(ctx)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestSQLiteOperator_CreatesDirectory(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "dir", "trout.sqlite")
	cfg := config.DatabaseConfig{Driver: "sqlite", Path: path}

	op := iodb.NewOperator()
	require.NoError(t, op.Connect(ctx, &cfg))
	assert.NoError(t, op.Close())
	assert.FileExists(t, path)
}

func TestOperator_Errors(t *testing.T) {
	ctx := context.Background()

	op := iodb.NewOperator()
	err := op.Connect(ctx, &config.DatabaseConfig{Driver: "mysql"})
	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.DBUnsupportedDriverError, gnErr.Code)

	err = op.Connect(ctx, &config.DatabaseConfig{Driver: "sqlite"})
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.DBConnectionError, gnErr.Code)

	_, err = op.HasTables(ctx)
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.DBNotConnectedError, gnErr.Code)
}

func TestPostgresOperator(t *testing.T) {
	op, _ := iotesting.OpenPostgres(t)
	ctx := context.Background()

	assert.Equal(t, "postgres", op.Driver())
	has, err := op.HasTables(ctx)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestPostgresOperator_InvalidHost(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	cfg := iotesting.PostgresConfig()
	cfg.Update([]config.Option{
		config.OptDatabaseHost("invalid-host-that-does-not-exist"),
	})

	op := iodb.NewOperator()
	err := op.Connect(context.Background(), &cfg.Database)
	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.DBConnectionError, gnErr.Code)
}
