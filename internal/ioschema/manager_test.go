package ioschema_test

import (
	"context"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/troutdb/internal/iodb"
	"github.com/gnames/troutdb/internal/ioschema"
	"github.com/gnames/troutdb/internal/iotesting"
	"github.com/gnames/troutdb/pkg/errcode"
	"github.com/gnames/troutdb/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate(t *testing.T) {
	ctx := context.Background()
	cfg := iotesting.SQLiteConfig(t)
	op := iodb.NewOperator()
	require.NoError(t, op.Connect(ctx, &cfg.Database))
	defer op.Close()

	mgr := ioschema.NewManager(op)
	require.NoError(t, mgr.Create(ctx, cfg, false))

	has, err := op.HasTables(ctx)
	require.NoError(t, err)
	assert.True(t, has)

	rec := schema.OccurrenceRecord{RecordID: "X1", CurrentVersion: 1}
	require.NoError(t, op.GORM().Create(&rec).Error)

	err = mgr.Create(ctx, cfg, false)
	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.SchemaCreateError, gnErr.Code)

	require.NoError(t, mgr.Create(ctx, cfg, true))
	var count int64
	require.NoError(t, op.GORM().Model(&schema.OccurrenceRecord{}).
		Count(&count).Error)
	assert.Zero(t, count, "force drops old data")
}

func TestMigrate(t *testing.T) {
	ctx := context.Background()
	op, cfg := iotesting.OpenSQLite(t)

	rec := schema.OccurrenceRecord{RecordID: "X1", CurrentVersion: 1}
	require.NoError(t, op.GORM().Create(&rec).Error)

	mgr := ioschema.NewManager(op)
	require.NoError(t, mgr.Migrate(ctx, cfg))

	var count int64
	require.NoError(t, op.GORM().Model(&schema.OccurrenceRecord{}).
		Count(&count).Error)
	assert.Equal(t, int64(1), count, "migrate keeps data")
}

func TestNotConnected(t *testing.T) {
	mgr := ioschema.NewManager(iodb.NewOperator())
	cfg := iotesting.SQLiteConfig(t)

	var gnErr *gn.Error
	err := mgr.Create(context.Background(), cfg, false)
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.DBNotConnectedError, gnErr.Code)

	err = mgr.Migrate(context.Background(), cfg)
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.DBNotConnectedError, gnErr.Code)
}
