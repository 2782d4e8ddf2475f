package iostore

import (
	"context"
	"slices"
	"sync"

	"github.com/gnames/troutdb/pkg/occurrence"
	"github.com/gnames/troutdb/pkg/report"
	"github.com/gnames/troutdb/pkg/store"
	"github.com/gnames/troutdb/pkg/taxonomy"
)

type memSample struct {
	store.GeneticSample
	linked bool
}

type memStore struct {
	mu       sync.Mutex
	versions map[string][]occurrence.Version
	taxa     map[string]taxonomy.Taxon
	samples  map[string]memSample
	runs     []report.Report
}

// NewMemory creates a store that keeps everything in memory. It is used
// for dry runs without a database and in tests.
func NewMemory() store.Store {
	return &memStore{
		versions: make(map[string][]occurrence.Version),
		taxa:     make(map[string]taxonomy.Taxon),
		samples:  make(map[string]memSample),
	}
}

func (m *memStore) FindByNaturalKey(
	_ context.Context,
	key occurrence.NaturalKey,
) (*occurrence.Version, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !key.Usable() {
		return nil, nil
	}
	if key.RecordID != "" {
		return m.current(key.RecordID), nil
	}

	ids := make([]string, 0, len(m.versions))
	for id := range m.versions {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		v := m.current(id)
		if v.CompositeKey() == key.Composite {
			return v, nil
		}
	}
	return nil, nil
}

func (m *memStore) current(id string) *occurrence.Version {
	vs := m.versions[id]
	if len(vs) == 0 {
		return nil
	}
	v := vs[len(vs)-1]
	return &v
}

func (m *memStore) Insert(_ context.Context, v occurrence.Version) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := v.RecordID
	if _, ok := m.versions[id]; ok {
		return WriteError(id, errDuplicate)
	}
	v = stamp(v)
	v.Number = 1
	m.versions[id] = []occurrence.Version{v}
	return nil
}

func (m *memStore) AppendVersion(
	_ context.Context,
	recordID string,
	v occurrence.Version,
) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	vs, ok := m.versions[recordID]
	if !ok {
		return 0, RecordNotFoundError(recordID)
	}
	v = stamp(v)
	v.RecordID = recordID
	v.Number = vs[len(vs)-1].Number + 1
	m.versions[recordID] = append(vs, v)
	return v.Number, nil
}

func (m *memStore) Versions(
	_ context.Context,
	recordID string,
) ([]occurrence.Version, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.versions[recordID]), nil
}

func (m *memStore) DeleteRecord(
	_ context.Context,
	recordID string,
) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	vs, ok := m.versions[recordID]
	if !ok {
		return 0, RecordNotFoundError(recordID)
	}
	delete(m.versions, recordID)
	for code, s := range m.samples {
		if s.RecordID == recordID {
			s.linked = false
			m.samples[code] = s
		}
	}
	return len(vs), nil
}

func (m *memStore) ListTaxa(_ context.Context) ([]taxonomy.Taxon, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	res := make([]taxonomy.Taxon, 0, len(m.taxa))
	for _, t := range m.taxa {
		res = append(res, t)
	}
	slices.SortFunc(res, func(a, b taxonomy.Taxon) int {
		switch {
		case a.ScientificName < b.ScientificName:
			return -1
		case a.ScientificName > b.ScientificName:
			return 1
		}
		return 0
	})
	return res, nil
}

func (m *memStore) AddTaxon(
	_ context.Context,
	t taxonomy.Taxon,
	_ string,
) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.taxa[t.ScientificName]; ok {
		return false, nil
	}
	m.taxa[t.ScientificName] = t
	return true, nil
}

func (m *memStore) AddGeneticSample(
	_ context.Context,
	g store.GeneticSample,
) (store.SampleResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.samples[g.SampleCode]; ok {
		return store.SampleResult{}, nil
	}
	_, linked := m.versions[g.RecordID]
	m.samples[g.SampleCode] = memSample{GeneticSample: g, linked: linked}
	return store.SampleResult{Added: true, Linked: linked}, nil
}

func (m *memStore) SaveRun(_ context.Context, r *report.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, *r)
	return nil
}

func (m *memStore) Stats(_ context.Context) (store.Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	res := store.Stats{
		Records:        int64(len(m.versions)),
		Taxa:           int64(len(m.taxa)),
		GeneticSamples: int64(len(m.samples)),
		Runs:           int64(len(m.runs)),
	}
	states := make(map[string]struct{})
	basins := make(map[string]struct{})
	species := make(map[string]struct{})
	cells := make(map[string]struct{})
	for id, vs := range m.versions {
		res.Versions += int64(len(vs))
		v := m.current(id)
		if v.HasCoordinates() {
			res.WithCoordinates++
		}
		if occurrence.Known(v.State) {
			states[v.State] = struct{}{}
		}
		if occurrence.Known(v.Basin) {
			basins[v.Basin] = struct{}{}
		}
		if occurrence.Known(v.Species) {
			species[v.Species] = struct{}{}
		}
		if v.CellToken != "" {
			cells[v.CellToken] = struct{}{}
		}
	}
	res.States = int64(len(states))
	res.Basins = int64(len(basins))
	res.Species = int64(len(species))
	res.Cells = int64(len(cells))

	var last *report.Report
	for i := range m.runs {
		if last == nil || !m.runs[i].FinishedAt.Before(last.FinishedAt) {
			last = &m.runs[i]
		}
	}
	if last != nil {
		res.LastRun = &store.RunInfo{
			ID:         last.RunID,
			Label:      last.Label,
			FinishedAt: last.FinishedAt,
			TotalRows:  last.TotalRows,
			Inserted:   last.Inserted,
			Updated:    last.Updated,
		}
	}
	return res, nil
}

// Sandbox runs fn against a copy of the store.
func (m *memStore) Sandbox(
	_ context.Context,
	fn func(store.Store) error,
) error {
	m.mu.Lock()
	cp := &memStore{
		versions: make(map[string][]occurrence.Version, len(m.versions)),
		taxa:     make(map[string]taxonomy.Taxon, len(m.taxa)),
		samples:  make(map[string]memSample, len(m.samples)),
		runs:     slices.Clone(m.runs),
	}
	for k, v := range m.versions {
		cp.versions[k] = slices.Clone(v)
	}
	for k, v := range m.taxa {
		cp.taxa[k] = v
	}
	for k, v := range m.samples {
		cp.samples[k] = v
	}
	m.mu.Unlock()

	return fn(cp)
}

