package config

import (
	"path/filepath"
)

var (
	// AppName is used in generating file system paths.
	AppName = "troutdb"

	// DefaultTaxaSheet is the workbook sheet with the species taxonomy.
	DefaultTaxaSheet = "taxa_names"

	// DefaultGeneticSheet is the workbook sheet with genetic samples
	// (Abadia et al. 2015 supplement).
	DefaultGeneticSheet = "Abadia_S1"
)

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/troutdb by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// DataDir returns the directory for the default SQLite database.
// Returns ~/.local/share/troutdb by default.
func DataDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName)
}

// LogDir returns the directory path for log files.
// Returns ~/.local/share/troutdb/logs by default.
func LogDir(homeDir string) string {
	return filepath.Join(DataDir(homeDir), "logs")
}

// ConfigFilePath returns the full path to the config.yaml file.
// Returns ~/.config/troutdb/config.yaml by default.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "config.yaml")
}

// SQLitePath returns the default location of the SQLite database.
func SQLitePath(homeDir string) string {
	return filepath.Join(DataDir(homeDir), AppName+".sqlite")
}
