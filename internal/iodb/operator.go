// Package iodb implements database operations for SQLite (modernc
// driver) and PostgreSQL (pgxpool). This is an impure I/O package that
// implements contracts defined in pkg/.
package iodb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gnames/troutdb/pkg/config"
	"github.com/gnames/troutdb/pkg/db"
	"github.com/gnames/troutdb/pkg/schema"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	// Pure Go SQLite driver (no CGo), registered as "sqlite".
	_ "modernc.org/sqlite"
)

type operator struct {
	driver string
	pool   *pgxpool.Pool
	sqlDB  *sql.DB
	gormDB *gorm.DB
}

// NewOperator creates a new database operator (without connecting).
func NewOperator() db.Operator {
	return &operator{}
}

// Connect opens SQLite or PostgreSQL depending on cfg.Driver.
func (o *operator) Connect(
	ctx context.Context,
	cfg *config.DatabaseConfig,
) error {
	var err error
	switch cfg.Driver {
	case "postgres":
		err = o.connectPostgres(ctx, cfg)
	case "sqlite", "":
		err = o.connectSQLite(ctx, cfg)
	default:
		return UnsupportedDriverError(cfg.Driver)
	}
	if err != nil {
		return err
	}

	slog.Info("Connected to database", "driver", o.driver)
	return nil
}

func (o *operator) connectPostgres(
	ctx context.Context,
	cfg *config.DatabaseConfig,
) error {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Database,
		cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}

	// Imports are single-writer, a small pool is enough.
	poolConfig.MaxConns = 4
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = 0
	poolConfig.MaxConnIdleTime = 0

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}

	sqlDB := stdlib.OpenDBFromPool(pool)
	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{Conn: sqlDB}),
		gormConfig(),
	)
	if err != nil {
		sqlDB.Close()
		pool.Close()
		return ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}

	o.driver = "postgres"
	o.pool = pool
	o.sqlDB = sqlDB
	o.gormDB = gormDB
	return nil
}

func (o *operator) connectSQLite(
	ctx context.Context,
	cfg *config.DatabaseConfig,
) error {
	path := cfg.Path
	if path == "" {
		return SQLitePathError()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return SQLiteOpenError(path, err)
	}

	dsn := fmt.Sprintf(
		"file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)",
		path,
	)
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return SQLiteOpenError(path, err)
	}

	// SQLite has one writer; a single connection also keeps
	// transactions and their savepoints on the same handle.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(0)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return SQLiteOpenError(path, err)
	}

	gormDB, err := gorm.Open(
		sqlite.New(sqlite.Config{DriverName: "sqlite", Conn: sqlDB}),
		gormConfig(),
	)
	if err != nil {
		sqlDB.Close()
		return SQLiteOpenError(path, err)
	}

	o.driver = "sqlite"
	o.sqlDB = sqlDB
	o.gormDB = gormDB
	return nil
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger: logger.Discard,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Close releases all database connections.
func (o *operator) Close() error {
	var err error
	if o.sqlDB != nil {
		err = o.sqlDB.Close()
	}
	if o.pool != nil {
		o.pool.Close()
	}
	o.sqlDB, o.pool, o.gormDB = nil, nil, nil
	return err
}

func (o *operator) GORM() *gorm.DB {
	return o.gormDB
}

func (o *operator) Driver() string {
	return o.driver
}

// TableExists checks if a table exists in the current database.
func (o *operator) TableExists(
	ctx context.Context,
	tableName string,
) (bool, error) {
	if o.gormDB == nil {
		return false, NotConnectedError()
	}
	return o.gormDB.WithContext(ctx).Migrator().HasTable(tableName), nil
}

// HasTables checks if any of troutdb tables exist.
func (o *operator) HasTables(ctx context.Context) (bool, error) {
	if o.gormDB == nil {
		return false, NotConnectedError()
	}

	tables, err := o.gormDB.WithContext(ctx).Migrator().GetTables()
	if err != nil {
		return false, TableCheckError(err)
	}
	known := make(map[string]struct{})
	for _, t := range schema.TableNames() {
		known[t] = struct{}{}
	}
	for _, t := range tables {
		if _, ok := known[t]; ok {
			return true, nil
		}
	}
	return false, nil
}

// DropAllTables drops all troutdb tables.
func (o *operator) DropAllTables(ctx context.Context) error {
	if o.gormDB == nil {
		return NotConnectedError()
	}

	m := o.gormDB.WithContext(ctx).Migrator()
	for _, t := range schema.TableNames() {
		if err := m.DropTable(t); err != nil {
			return DropTableError(t, err)
		}
	}
	return nil
}
