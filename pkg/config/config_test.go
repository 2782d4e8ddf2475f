package config_test

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/gnames/troutdb/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirs(t *testing.T) {
	tempHome := t.TempDir()

	tests := []struct {
		msg string
		fn  func(string) string
		res string
	}{
		{
			msg: "config dir",
			fn:  config.ConfigDir,
			res: filepath.Join(tempHome, ".config", "troutdb"),
		},
		{
			msg: "data dir",
			fn:  config.DataDir,
			res: filepath.Join(tempHome, ".local", "share", "troutdb"),
		},
		{
			msg: "log dir",
			fn:  config.LogDir,
			res: filepath.Join(tempHome, ".local", "share", "troutdb", "logs"),
		},
		{
			msg: "config file",
			fn:  config.ConfigFilePath,
			res: filepath.Join(tempHome, ".config", "troutdb", "config.yaml"),
		},
		{
			msg: "sqlite file",
			fn:  config.SQLitePath,
			res: filepath.Join(tempHome, ".local", "share", "troutdb", "troutdb.sqlite"),
		},
	}

	for _, v := range tests {
		res := v.fn(tempHome)
		assert.Equal(t, v.res, res, v.msg)
	}
}

func TestNew(t *testing.T) {
	cfg := config.New()
	require.NotNil(t, cfg)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Empty(t, cfg.Database.Path)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "troutdb", cfg.Database.Database)
	assert.Equal(t, "disable", cfg.Database.SSLMode)

	assert.Empty(t, cfg.Import.OccurrenceSheets)
	assert.Equal(t, "taxa_names", cfg.Import.TaxaSheet)
	assert.Equal(t, "Abadia_S1", cfg.Import.GeneticSheet)
	assert.Equal(t, 13, cfg.Import.CellLevel)
	assert.False(t, cfg.Import.DryRun)

	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "file", cfg.Log.Destination)

	assert.Equal(t, runtime.NumCPU(), cfg.JobsNumber)
}

func TestOptDatabaseDriver(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"postgres", "postgres", "postgres"},
		{"mixed case", "  PostgreS ", "postgres"},
		{"sqlite", "sqlite", "sqlite"},
		{"unknown driver", "mysql", "sqlite"},
		{"empty", "", "sqlite"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{config.OptDatabaseDriver(tt.input)})
			assert.Equal(t, tt.expected, cfg.Database.Driver)
		})
	}
}

func TestOptImportOccurrenceSheets(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{"keeps order", []string{"b", "a"}, []string{"b", "a"}},
		{"drops blanks", []string{" core ", "", "  "}, []string{"core"}},
		{"ignores empty list", nil, nil},
		{"ignores all blank", []string{" "}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{
				config.OptImportOccurrenceSheets(tt.input),
			})
			assert.Equal(t, tt.expected, cfg.Import.OccurrenceSheets)
		})
	}
}

func TestOptImportCellLevel(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected int
	}{
		{"valid", 10, 10},
		{"max", 30, 30},
		{"too big", 31, 13},
		{"zero", 0, 13},
		{"negative", -2, 13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{config.OptImportCellLevel(tt.input)})
			assert.Equal(t, tt.expected, cfg.Import.CellLevel)
		})
	}
}

func TestOptHomeDir(t *testing.T) {
	t.Run("derives sqlite path", func(t *testing.T) {
		cfg := config.New()
		cfg.Update([]config.Option{config.OptHomeDir("/home/me")})
		assert.Equal(t, "/home/me", cfg.HomeDir)
		assert.Equal(t, config.SQLitePath("/home/me"), cfg.Database.Path)
	})

	t.Run("keeps explicit sqlite path", func(t *testing.T) {
		cfg := config.New()
		cfg.Update([]config.Option{
			config.OptDatabasePath("/tmp/trout.sqlite"),
			config.OptHomeDir("/home/me"),
		})
		assert.Equal(t, "/tmp/trout.sqlite", cfg.Database.Path)
	})
}

func TestOptLog(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptLogLevel("DEBUG"),
		config.OptLogFormat("text"),
		config.OptLogDestination("stderr"),
	})
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "stderr", cfg.Log.Destination)

	cfg.Update([]config.Option{
		config.OptLogLevel("verbose"),
		config.OptLogDestination("stdin"),
	})
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "stderr", cfg.Log.Destination)
}

func TestRuntimeOptions(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptImportLabel(" spring-2024 "),
		config.OptImportDryRun(true),
	})
	assert.Equal(t, "spring-2024", cfg.Import.Label)
	assert.True(t, cfg.Import.DryRun)
}

func TestToOptions_RoundTrip(t *testing.T) {
	src := config.New()
	src.Update([]config.Option{
		config.OptDatabaseDriver("postgres"),
		config.OptDatabaseHost("db.example.org"),
		config.OptDatabasePort(6543),
		config.OptDatabaseSSLMode("require"),
		config.OptImportOccurrenceSheets([]string{"core", "extra"}),
		config.OptImportTaxaSheet("species"),
		config.OptImportCellLevel(9),
		config.OptLogFormat("text"),
		config.OptJobsNumber(3),
		config.OptImportLabel("runtime only"),
		config.OptImportDryRun(true),
	})

	dst := config.New()
	dst.Update(src.ToOptions())

	assert.Equal(t, src.Database, dst.Database)
	assert.Equal(t, src.Import.OccurrenceSheets, dst.Import.OccurrenceSheets)
	assert.Equal(t, "species", dst.Import.TaxaSheet)
	assert.Equal(t, 9, dst.Import.CellLevel)
	assert.Equal(t, src.Log, dst.Log)
	assert.Equal(t, 3, dst.JobsNumber)

	assert.Empty(t, dst.Import.Label, "label is runtime-only")
	assert.False(t, dst.Import.DryRun, "dry run is runtime-only")
}
