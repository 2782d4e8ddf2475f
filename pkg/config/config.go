// Package config provides configuration management for troutdb.
//
// This package has no I/O dependencies (no file operations, no network calls).
// Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in config.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - Database: driver, path, host, port, user, password, database, ssl_mode
//   - Import: occurrence_sheets, taxa_sheet, genetic_sheet, cell_level
//   - Log: level, format, destination
//   - General: jobs_number
//
// Runtime-only fields (CLI flags only):
//   - Import.Label, Import.DryRun (per-command)
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use TROUTDB_ prefix with underscores for nesting:
//
//	TROUTDB_DATABASE_DRIVER=postgres
//	TROUTDB_DATABASE_HOST=localhost
//	TROUTDB_LOG_LEVEL=info
//	TROUTDB_JOBS_NUMBER=8
//
// A .env file in the working directory is loaded before the environment is
// read.
package config

import (
	"runtime"
)

// Config represents the complete troutdb configuration.
type Config struct {
	// Database contains connection settings.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	// Import contains settings of the spreadsheet import.
	Import ImportConfig `mapstructure:"import" yaml:"import"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// JobsNumber is the number of concurrent workers for name parsing.
	// Default value is set according to the number of available threads.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`

	// HomeDir determines where config, data and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string
}

// DatabaseConfig contains database connection parameters.
type DatabaseConfig struct {
	// Driver is either "sqlite" (default) or "postgres".
	Driver string `mapstructure:"driver" yaml:"driver"`

	// Path is the SQLite database file. When empty, the file is placed
	// in the data directory under HomeDir.
	Path string `mapstructure:"path" yaml:"path"`

	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`
}

// ImportConfig contains settings of the workbook import.
type ImportConfig struct {
	// OccurrenceSheets lists sheets with occurrence records in the order
	// they are processed. Empty means every sheet of the workbook, in
	// workbook order, except the taxa and genetic sheets.
	OccurrenceSheets []string `mapstructure:"occurrence_sheets" yaml:"occurrence_sheets"`

	// TaxaSheet is the sheet with species taxonomy. Missing sheet is not
	// an error.
	TaxaSheet string `mapstructure:"taxa_sheet" yaml:"taxa_sheet"`

	// GeneticSheet is the sheet with genetic samples. Missing sheet is not
	// an error.
	GeneticSheet string `mapstructure:"genetic_sheet" yaml:"genetic_sheet"`

	// CellLevel is the S2 cell level stored with every record version
	// that has coordinates (level 13 cells are about 1 km across).
	CellLevel int `mapstructure:"cell_level" yaml:"cell_level"`

	// Label names the import run. Defaults to the workbook file name.
	Label string `mapstructure:"label" yaml:"label"`

	// DryRun runs the import in a transaction that is rolled back.
	DryRun bool `mapstructure:"dry_run" yaml:"dry_run"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json', 'text' or 'tint' (user-facing and colored).
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Database: DatabaseConfig{
			Driver:   "sqlite",
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Password: "postgres",
			Database: AppName,
			SSLMode:  "disable",
		},
		Import: ImportConfig{
			TaxaSheet:    DefaultTaxaSheet,
			GeneticSheet: DefaultGeneticSheet,
			CellLevel:    13,
		},
		Log: LogConfig{
			Format:      "json",
			Level:       "info",
			Destination: "file",
		},
		JobsNumber: runtime.NumCPU(),
	}

	return res
}
