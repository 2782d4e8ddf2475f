// Package taxonomy keeps reference species names and checks species of
// occurrence records against them.
package taxonomy

import (
	"fmt"

	"github.com/gnames/troutdb/pkg/templates"
	"gopkg.in/yaml.v3"
)

// Taxon is a reference species with its conservation status.
type Taxon struct {
	ScientificName     string `yaml:"scientific_name"`
	CommonName         string `yaml:"common_name"`
	TaxonCode          string `yaml:"taxon_code"`
	ConservationStatus string `yaml:"conservation_status"`
	IUCNAssessment     string `yaml:"iucn_assessment"`
	Description        string `yaml:"description"`
}

// Builtin returns the taxa shipped with troutdb.
func Builtin() ([]Taxon, error) {
	var res []Taxon
	err := yaml.Unmarshal([]byte(templates.SpeciesYAML), &res)
	if err != nil {
		return nil, fmt.Errorf("cannot read built-in species: %w", err)
	}
	return res, nil
}
