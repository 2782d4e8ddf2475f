// Package templates provides embedded YAML files shipped with troutdb.
package templates

import _ "embed"

// ConfigYAML contains the default config.yaml template for application
// configuration.
//
//go:embed config.yaml
var ConfigYAML string

// SpeciesYAML contains the built-in list of Mexican trout taxa. It is
// seeded into an empty database when a workbook has no taxa sheet.
//
//go:embed species.yaml
var SpeciesYAML string
