package taxonomy

import (
	"context"
	"sort"
	"strings"

	"github.com/gnames/troutdb/pkg/parserpool"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Match is the result of checking a species name.
type Match struct {
	// Known is true if the name matched a reference taxon.
	Known bool
	// Name is the matched reference name.
	Name string
	// Suggestion is the closest reference name for unknown species.
	Suggestion string
}

// Checker matches species names against reference taxa.
type Checker struct {
	names []string
	exact map[string]string
	canon map[string]string
	pool  parserpool.Pool
}

// NewChecker creates a checker for the given taxa. When pool is not nil,
// names also match through their parsed canonical forms, so authorship
// and formatting differences do not matter.
func NewChecker(
	ctx context.Context,
	taxa []Taxon,
	pool parserpool.Pool,
) (*Checker, error) {
	res := &Checker{
		exact: make(map[string]string),
		canon: make(map[string]string),
		pool:  pool,
	}
	for _, t := range taxa {
		if t.ScientificName == "" {
			continue
		}
		res.names = append(res.names, t.ScientificName)
		res.exact[fold(t.ScientificName)] = t.ScientificName
	}
	sort.Strings(res.names)

	if pool == nil || len(res.names) == 0 {
		return res, nil
	}

	canonicals, err := pool.CanonicalAll(ctx, res.names)
	if err != nil {
		return nil, err
	}
	for _, name := range res.names {
		c := canonicals[name]
		// genus-only canonicals ("Oncorhynchus sp.") would match
		// everything in the genus
		if strings.Contains(c, " ") {
			res.canon[c] = name
		}
	}
	return res, nil
}

// Len returns the number of reference taxa.
func (c *Checker) Len() int {
	return len(c.names)
}

// Check looks up a species name. Without reference taxa every name is
// accepted.
func (c *Checker) Check(species string) Match {
	if len(c.names) == 0 {
		return Match{Known: true}
	}

	if name, ok := c.exact[fold(species)]; ok {
		return Match{Known: true, Name: name}
	}

	if c.pool != nil {
		canonical := c.pool.Canonical(species)
		if name, ok := c.canon[canonical]; ok {
			return Match{Known: true, Name: name}
		}
	}

	return Match{Suggestion: c.suggest(species)}
}

func (c *Checker) suggest(species string) string {
	ranks := fuzzy.RankFindNormalizedFold(species, c.names)
	if len(ranks) > 0 {
		sort.Sort(ranks)
		return ranks[0].Target
	}

	best, bestDist := "", -1
	s := strings.ToLower(species)
	for _, n := range c.names {
		d := fuzzy.LevenshteinDistance(s, strings.ToLower(n))
		if bestDist < 0 || d < bestDist {
			best, bestDist = n, d
		}
	}
	// too different to be a misspelling
	if bestDist > len(species)/3 {
		return ""
	}
	return best
}

func fold(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
