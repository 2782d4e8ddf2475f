package taxonomy_test

import (
	"context"
	"testing"

	"github.com/gnames/troutdb/pkg/parserpool"
	"github.com/gnames/troutdb/pkg/taxonomy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltin(t *testing.T) {
	taxa, err := taxonomy.Builtin()
	require.NoError(t, err)
	require.Len(t, taxa, 5)
	assert.Equal(t, "Oncorhynchus mykiss nelsoni", taxa[0].ScientificName)
	assert.Equal(t, "Endangered", taxa[0].ConservationStatus)
	assert.Equal(t, `Oncorhynchus sp. nov. "Yaqui"`, taxa[2].ScientificName)
	assert.Empty(t, taxa[3].IUCNAssessment)
}

func TestCheck(t *testing.T) {
	taxa, err := taxonomy.Builtin()
	require.NoError(t, err)
	pool := parserpool.NewPool(2)
	defer pool.Close()

	chk, err := taxonomy.NewChecker(context.Background(), taxa, pool)
	require.NoError(t, err)
	assert.Equal(t, 5, chk.Len())

	tests := []struct {
		msg        string
		species    string
		known      bool
		name       string
		suggestion string
	}{
		{"exact", "Oncorhynchus chrysogaster", true,
			"Oncorhynchus chrysogaster", ""},
		{"case and spaces", " oncorhynchus   CHRYSOGASTER", true,
			"Oncorhynchus chrysogaster", ""},
		{"with authorship", "Oncorhynchus chrysogaster Needham & Gard, 1964",
			true, "Oncorhynchus chrysogaster", ""},
		{"undescribed", `Oncorhynchus sp. nov. "Fuerte"`, true,
			`Oncorhynchus sp. nov. "Fuerte"`, ""},
		{"missing letter", "Oncorhynchus crysogaster", false, "",
			"Oncorhynchus chrysogaster"},
		{"typo", "Oncorhynchus chrysogastor", false, "",
			"Oncorhynchus chrysogaster"},
		{"unrelated", "Salmo trutta", false, "", ""},
	}

	for _, v := range tests {
		res := chk.Check(v.species)
		assert.Equal(t, v.known, res.Known, v.msg)
		assert.Equal(t, v.name, res.Name, v.msg)
		assert.Equal(t, v.suggestion, res.Suggestion, v.msg)
	}
}

func TestCheckNoTaxa(t *testing.T) {
	chk, err := taxonomy.NewChecker(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.True(t, chk.Check("Anything goes").Known)
}

func TestCheckWithoutParser(t *testing.T) {
	taxa := []taxonomy.Taxon{{ScientificName: "Oncorhynchus chrysogaster"}}
	chk, err := taxonomy.NewChecker(context.Background(), taxa, nil)
	require.NoError(t, err)

	res := chk.Check("Oncorhynchus chrysogaster Needham & Gard, 1964")
	assert.False(t, res.Known)
}
