package ioimport_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/troutdb/internal/ioimport"
	"github.com/gnames/troutdb/internal/iostore"
	"github.com/gnames/troutdb/internal/iotesting"
	"github.com/gnames/troutdb/pkg/config"
	"github.com/gnames/troutdb/pkg/errcode"
	"github.com/gnames/troutdb/pkg/lifecycle"
	"github.com/gnames/troutdb/pkg/occurrence"
	"github.com/gnames/troutdb/pkg/report"
	"github.com/gnames/troutdb/pkg/sheet"
	"github.com/gnames/troutdb/pkg/store"
	"github.com/gnames/troutdb/pkg/taxonomy"
	"github.com/gnames/troutdb/pkg/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cells = map[string]sheet.Cell

var (
	txt = sheet.TextCell
	num = sheet.NumberCell
)

func testConfig(opts ...config.Option) *config.Config {
	cfg := config.New()
	cfg.Update(append([]config.Option{config.OptJobsNumber(2)}, opts...))
	return cfg
}

func record(id string, lat, lon float64, locality string) cells {
	return cells{
		"Final_database_unique_record_ID": txt(id),
		"species":                         txt("Oncorhynchus chrysogaster"),
		"locality":                        txt(locality),
		"lat_dec":                         num(lat),
		"long_dec":                        num(lon),
		"collectors":                      txt("Hendrickson DA"),
		"field_num":                       txt("DAH-07-31"),
		"data__yyyy":                      txt("2007-05-11"),
	}
}

func run(
	t *testing.T,
	imp lifecycle.Importer,
	records ...cells,
) *report.Report {
	t.Helper()
	src := sheet.NewMemory().AddSheet("Records", records...)
	rep, err := imp.RunImport(context.Background(), src, "test")
	require.NoError(t, err)
	require.True(t, rep.Complete())
	return rep
}

func issuesFor(rep *report.Report, field string) []report.Issue {
	var res []report.Issue
	for _, is := range rep.Issues {
		if is.Field == field {
			res = append(res, is)
		}
	}
	return res
}

func TestInsertAndUpdate(t *testing.T) {
	ctx := context.Background()
	st := iostore.NewMemory()
	imp := ioimport.New(testConfig(), st)

	rep := run(t, imp, record("X1", 25.0, -105.0, "Rio Yaqui"))
	assert.Equal(t, 1, rep.TotalRows)
	assert.Equal(t, 1, rep.Inserted)
	assert.True(t, rep.Taxa.Seeded)

	vs, err := st.Versions(ctx, "X1")
	require.NoError(t, err)
	require.Len(t, vs, 1)
	assert.Equal(t, 25.0, *vs[0].Latitude)
	assert.Equal(t, -105.0, *vs[0].Longitude)
	assert.Equal(t, "test", vs[0].SourceLabel)
	assert.NotEmpty(t, vs[0].CellToken)

	rep = run(t, imp, record("X1", 25.0, -105.0, "Rio Yaqui, upper"))
	assert.Equal(t, 1, rep.Updated)
	assert.False(t, rep.Taxa.Seeded, "taxa are seeded only once")

	vs, err = st.Versions(ctx, "X1")
	require.NoError(t, err)
	require.Len(t, vs, 2)
	assert.Equal(t, "Rio Yaqui", vs[0].Locality)
	assert.Equal(t, "Rio Yaqui, upper", vs[1].Locality)
	assert.Equal(t, 2, vs[1].Number)

	rep = run(t, imp, record("X1", 25.0, -105.0, "Rio Yaqui, upper"))
	assert.Equal(t, 1, rep.SkippedDuplicate)
	vs, err = st.Versions(ctx, "X1")
	require.NoError(t, err)
	assert.Len(t, vs, 2, "re-import of same data adds no versions")

	stats, err := st.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Runs)
}

func TestValidationFailures(t *testing.T) {
	st := iostore.NewMemory()
	imp := ioimport.New(testConfig(), st)

	badLat := record("X2", 95.0, -105.0, "Arroyo")
	loneLon := record("X3", 0, -105.0, "Arroyo")
	delete(loneLon, "lat_dec")
	noID := record("", 25, -105, "Arroyo")
	delete(noID, "Final_database_unique_record_ID")

	rep := run(t, imp, badLat, loneLon, noID)
	assert.Equal(t, 3, rep.TotalRows)
	assert.Equal(t, 3, rep.FailedValidation)
	assert.Equal(t, 0, rep.Inserted)

	lat := issuesFor(rep, "latitude")
	require.Len(t, lat, 2)
	assert.Equal(t, "X2", lat[0].RecordID)
	assert.Equal(t, validate.Error, lat[0].Severity)
	assert.Equal(t, 2, lat[0].Row)
	assert.Equal(t, "X3", lat[1].RecordID)
	assert.Equal(t, validate.IncompletePair, lat[1].Message)

	ids := issuesFor(rep, "unique_record_id")
	require.Len(t, ids, 1)
	assert.Equal(t, 4, ids[0].Row)

	for _, id := range []string{"X2", "X3"} {
		v, err := st.FindByNaturalKey(context.Background(),
			occurrence.ByID(id))
		require.NoError(t, err)
		assert.Nil(t, v)
	}
}

func TestDuplicatesInOneRun(t *testing.T) {
	ctx := context.Background()
	st := iostore.NewMemory()
	imp := ioimport.New(testConfig(), st)

	rep := run(t, imp,
		record("X4", 25.0, -105.0, "Rio Mayo"),
		cells{},
		record("X4", 25.0, -105.0, "Rio Mayo"),
	)
	assert.Equal(t, 2, rep.TotalRows, "blank rows are not counted")
	assert.Equal(t, 1, rep.Inserted)
	assert.Equal(t, 1, rep.SkippedDuplicate)

	vs, err := st.Versions(ctx, "X4")
	require.NoError(t, err)
	assert.Len(t, vs, 1)
}

func TestSameCollectingEvent(t *testing.T) {
	ctx := context.Background()
	st := iostore.NewMemory()
	imp := ioimport.New(testConfig(), st)

	run(t, imp, record("X5", 25.0, -105.0, "Rio Fuerte"))

	// same collectors, field number and date under a new identifier
	rep := run(t, imp, record("X5-b", 25.0, -105.0, "Rio Fuerte, lower"))
	assert.Equal(t, 1, rep.Inserted)
	assert.Equal(t, 0, rep.Updated)
	notes := issuesFor(rep, "unique_record_id")
	require.Len(t, notes, 1)
	assert.Equal(t, validate.Warning, notes[0].Severity)
	assert.Contains(t, notes[0].Message, "'X5'")

	for id, locality := range map[string]string{
		"X5":   "Rio Fuerte",
		"X5-b": "Rio Fuerte, lower",
	} {
		vs, err := st.Versions(ctx, id)
		require.NoError(t, err)
		require.Len(t, vs, 1, id)
		assert.Equal(t, locality, vs[0].Locality, id)
	}
}

func TestIdempotentReimport(t *testing.T) {
	ctx := context.Background()
	op, _ := iotesting.OpenSQLite(t)
	stores := map[string]store.Store{
		"sqlite": iostore.NewGORM(op.GORM()),
		"memory": iostore.NewMemory(),
	}

	for name, st := range stores {
		t.Run(name, func(t *testing.T) {
			imp := ioimport.New(testConfig(), st)
			rows := []cells{
				record("X1", 25.0, -105.0, "Rio Yaqui"),
				record("X2", 25.1, -105.1, "Rio Mayo"),
				record("X3", 25.2, -105.2, "Rio Fuerte"),
			}

			rep := run(t, imp, rows...)
			assert.Equal(t, 3, rep.Inserted)
			assert.Len(t, issuesFor(rep, "unique_record_id"), 2,
				"X2 and X3 share the collecting event of X1")

			for range 2 {
				rep = run(t, imp, rows...)
				assert.Equal(t, 0, rep.Inserted)
				assert.Equal(t, 0, rep.Updated)
				assert.Equal(t, 3, rep.SkippedDuplicate)
			}

			rows[1] = record("X2", 25.1, -105.1, "Rio Mayo, upper")
			rep = run(t, imp, rows...)
			assert.Equal(t, 1, rep.Updated)
			assert.Equal(t, 2, rep.SkippedDuplicate)

			tests := []struct {
				id       string
				versions int
				locality string
			}{
				{"X1", 1, "Rio Yaqui"},
				{"X2", 2, "Rio Mayo, upper"},
				{"X3", 1, "Rio Fuerte"},
			}
			for _, v := range tests {
				vs, err := st.Versions(ctx, v.id)
				require.NoError(t, err)
				require.Len(t, vs, v.versions, v.id)
				for i, ver := range vs {
					assert.Equal(t, i+1, ver.Number, v.id)
				}
				last := vs[len(vs)-1]
				assert.Equal(t, v.locality, last.Locality, v.id)

				cur, err := st.FindByNaturalKey(ctx, occurrence.ByID(v.id))
				require.NoError(t, err)
				require.NotNil(t, cur, v.id)
				assert.Equal(t, last.Number, cur.Number, v.id)
			}

			stats, err := st.Stats(ctx)
			require.NoError(t, err)
			assert.Equal(t, int64(3), stats.Records)
			assert.Equal(t, int64(4), stats.Versions)
			assert.Equal(t, int64(4), stats.Runs)
		})
	}
}

func TestWarningsDoNotBlock(t *testing.T) {
	st := iostore.NewMemory()
	imp := ioimport.New(testConfig(), st)

	rec := record("X6", 25.0, -105.0, "Rio Conchos")
	rec["species"] = txt("Oncorhynchus crysogaster")
	rec["data__yyyy"] = txt("sometime in spring")

	rep := run(t, imp, rec)
	assert.Equal(t, 1, rep.Inserted)

	sp := issuesFor(rep, "species")
	require.Len(t, sp, 1)
	assert.Equal(t, validate.Warning, sp[0].Severity)
	assert.Contains(t, sp[0].Message, "Oncorhynchus chrysogaster")

	dt := issuesFor(rep, "collection_date")
	require.Len(t, dt, 1)
	assert.Equal(t, validate.Warning, dt[0].Severity)
}

func TestTaxaAndGeneticSheets(t *testing.T) {
	ctx := context.Background()
	st := iostore.NewMemory()
	imp := ioimport.New(testConfig(), st)

	src := sheet.NewMemory().
		AddSheet("taxa_names",
			cells{
				"scientific_name": txt("Oncorhynchus chrysogaster"),
				"common_name":     txt("Mexican Golden Trout"),
				"taxon_code":      txt("B"),
			},
			cells{"common_name": txt("nameless")},
		).
		AddSheet("Records", record("X7", 25.0, -105.0, "Rio Verde")).
		AddSheet("Abadia_S1",
			cells{
				"Sample_Code":                     txt("AB-01"),
				"Population_No":                   num(12),
				"Haplotype":                       txt("H3"),
				"Final_database_unique_record_ID": txt("X7"),
			},
			cells{"Sample_Code": txt("AB-02")},
			cells{"Haplotype": txt("H1")},
		)

	rep, err := imp.RunImport(ctx, src, "")
	require.NoError(t, err)
	assert.NotEmpty(t, rep.Label)
	assert.Equal(t, []string{"Records"}, rep.Sheets)
	assert.Equal(t, 1, rep.Inserted)

	assert.Equal(t, "taxa_names", rep.Taxa.Sheet)
	assert.Equal(t, 1, rep.Taxa.Added)
	assert.Equal(t, 1, rep.Taxa.Failed)
	assert.False(t, rep.Taxa.Seeded)

	assert.Equal(t, "Abadia_S1", rep.Genetic.Sheet)
	assert.Equal(t, 2, rep.Genetic.Added)
	assert.Equal(t, 1, rep.Genetic.Linked)
	assert.Equal(t, 1, rep.Genetic.Failed)

	taxa, err := st.ListTaxa(ctx)
	require.NoError(t, err)
	require.Len(t, taxa, 1)
	assert.Equal(t, "B", taxa[0].TaxonCode)

	rep, err = imp.RunImport(ctx, src, "again")
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Taxa.Existing)
	assert.Equal(t, 2, rep.Genetic.Existing)
	assert.Equal(t, 1, rep.SkippedDuplicate)
}

func TestConfiguredSheets(t *testing.T) {
	st := iostore.NewMemory()
	cfg := testConfig(config.OptImportOccurrenceSheets([]string{"B", "A"}))
	imp := ioimport.New(cfg, st)

	src := sheet.NewMemory().
		AddSheet("A", record("X8", 25.0, -105.0, "first")).
		AddSheet("B", record("X8", 25.0, -105.0, "second")).
		AddSheet("C", record("X9", 25.0, -105.0, "ignored"))

	rep, err := imp.RunImport(context.Background(), src, "order")
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A"}, rep.Sheets)
	assert.Equal(t, 1, rep.Inserted)
	assert.Equal(t, 1, rep.Updated)

	vs, err := st.Versions(context.Background(), "X8")
	require.NoError(t, err)
	require.Len(t, vs, 2)
	assert.Equal(t, "first", vs[1].Locality, "sheet A is processed last")

	src = sheet.NewMemory().AddSheet("A", record("X9", 25, -105, "x"))
	_, err = imp.RunImport(context.Background(), src, "missing")
	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.ImportSourceReadError, gnErr.Code)
}

type failingSource struct {
	*sheet.Memory
}

func (failingSource) ReadRows(name string) ([]sheet.Row, error) {
	if name == "Broken" {
		return nil, errors.New("corrupted sheet")
	}
	return nil, nil
}

func TestSourceReadError(t *testing.T) {
	ctx := context.Background()
	st := iostore.NewMemory()
	imp := ioimport.New(testConfig(), st)

	src := failingSource{sheet.NewMemory().
		AddSheet("Records", record("X10", 25, -105, "x")).
		AddSheet("Broken")}
	rep, err := imp.RunImport(ctx, src, "broken")
	assert.Nil(t, rep)
	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.ImportSourceReadError, gnErr.Code)

	stats, err := st.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.Records)
	assert.Equal(t, int64(0), stats.Taxa, "nothing is written")
}

// blockingSource holds ListSheets until released.
type blockingSource struct {
	*sheet.Memory
	started chan struct{}
	release chan struct{}
}

func (b blockingSource) ListSheets() ([]string, error) {
	close(b.started)
	<-b.release
	return b.Memory.ListSheets()
}

func TestBusy(t *testing.T) {
	ctx := context.Background()
	imp := ioimport.New(testConfig(), iostore.NewMemory())

	src := blockingSource{
		Memory:  sheet.NewMemory().AddSheet("Records"),
		started: make(chan struct{}),
		release: make(chan struct{}),
	}

	var wg sync.WaitGroup
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, firstErr = imp.RunImport(ctx, src, "first")
	}()
	<-src.started

	_, err := imp.RunImport(ctx, sheet.NewMemory(), "second")
	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.ImportBusyError, gnErr.Code)

	close(src.release)
	wg.Wait()
	require.NoError(t, firstErr)

	_, err = imp.RunImport(ctx, sheet.NewMemory(), "third")
	assert.NoError(t, err)
}

func TestDryRun(t *testing.T) {
	ctx := context.Background()
	op, _ := iotesting.OpenSQLite(t)
	stores := map[string]store.Store{
		"sqlite": iostore.NewGORM(op.GORM()),
		"memory": iostore.NewMemory(),
	}

	for name, st := range stores {
		t.Run(name, func(t *testing.T) {
			dry := ioimport.New(testConfig(config.OptImportDryRun(true)), st)
			rep := run(t, dry,
				record("X11", 25.0, -105.0, "Rio Nazas"),
				record("X11", 25.0, -105.0, "Rio Nazas"),
			)
			assert.True(t, rep.DryRun)
			assert.Equal(t, 1, rep.Inserted)
			assert.Equal(t, 1, rep.SkippedDuplicate)

			stats, err := st.Stats(ctx)
			require.NoError(t, err)
			assert.Equal(t, int64(0), stats.Records)
			assert.Equal(t, int64(0), stats.Taxa)
			assert.Equal(t, int64(0), stats.Runs)

			imp := ioimport.New(testConfig(), st)
			rep = run(t, imp, record("X11", 25.0, -105.0, "Rio Nazas"))
			assert.Equal(t, 1, rep.Inserted)
			rep = run(t, imp, record("X11", 25.0, -105.0, "Rio Nazas, upper"))
			assert.Equal(t, 1, rep.Updated)

			stats, err = st.Stats(ctx)
			require.NoError(t, err)
			assert.Equal(t, int64(1), stats.Records)
			assert.Equal(t, int64(2), stats.Versions)
			assert.Equal(t, int64(2), stats.Runs)
			assert.Equal(t, int64(1), stats.Cells)
		})
	}
}

var errStorage = errors.New("storage unavailable")

type failingStore struct {
	store.Store
	saveRun  bool
	listTaxa bool
	addTaxon bool
}

func (f failingStore) SaveRun(ctx context.Context, r *report.Report) error {
	if f.saveRun {
		return errStorage
	}
	return f.Store.SaveRun(ctx, r)
}

func (f failingStore) ListTaxa(ctx context.Context) ([]taxonomy.Taxon, error) {
	if f.listTaxa {
		return nil, errStorage
	}
	return f.Store.ListTaxa(ctx)
}

func (f failingStore) AddTaxon(
	ctx context.Context,
	tx taxonomy.Taxon,
	canonical string,
) (bool, error) {
	if f.addTaxon {
		return false, errStorage
	}
	return f.Store.AddTaxon(ctx, tx, canonical)
}

func TestStorageFailures(t *testing.T) {
	builtin, err := taxonomy.Builtin()
	require.NoError(t, err)

	tests := []struct {
		msg      string
		st       failingStore
		severity validate.Severity
		runs     int64
		failed   int
	}{
		{"save run", failingStore{saveRun: true}, validate.Error, 0, 0},
		{"list taxa", failingStore{listTaxa: true}, validate.Warning, 1, 0},
		{"add taxon", failingStore{addTaxon: true}, validate.Warning, 1,
			len(builtin)},
	}

	for _, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			ctx := context.Background()
			mem := iostore.NewMemory()
			v.st.Store = mem
			imp := ioimport.New(testConfig(), v.st)

			rep := run(t, imp, record("X20", 25.0, -105.0, "Rio Bavispe"))
			assert.Equal(t, 1, rep.TotalRows)
			assert.Equal(t, 1, rep.Inserted)
			assert.Equal(t, v.failed, rep.Taxa.Failed)

			var found bool
			for _, is := range rep.Issues {
				if strings.Contains(is.Message, errStorage.Error()) {
					found = true
					assert.Equal(t, v.severity, is.Severity)
				}
			}
			assert.True(t, found, "storage problem is reported")

			vs, err := mem.Versions(ctx, "X20")
			require.NoError(t, err)
			assert.Len(t, vs, 1)

			stats, err := mem.Stats(ctx)
			require.NoError(t, err)
			assert.Equal(t, v.runs, stats.Runs)
		})
	}
}

func TestCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	imp := ioimport.New(testConfig(), iostore.NewMemory())
	src := sheet.NewMemory().AddSheet("Records",
		record("X12", 25, -105, "x"))
	_, err := imp.RunImport(ctx, src, "canceled")
	assert.ErrorIs(t, err, context.Canceled)
}
