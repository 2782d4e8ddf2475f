package dedup_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gnames/troutdb/pkg/dedup"
	"github.com/gnames/troutdb/pkg/occurrence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lookup struct {
	versions []occurrence.Version
	err      error
	calls    int
}

func (l *lookup) FindByNaturalKey(
	_ context.Context,
	key occurrence.NaturalKey,
) (*occurrence.Version, error) {
	l.calls++
	if l.err != nil {
		return nil, l.err
	}
	for i := range l.versions {
		v := &l.versions[i]
		if key.RecordID != "" {
			if v.RecordID == key.RecordID {
				return v, nil
			}
			continue
		}
		if v.CompositeKey() == key.Composite {
			return v, nil
		}
	}
	return nil, nil
}

func record(id, locality string) occurrence.Record {
	return occurrence.Record{
		RecordID:       id,
		Species:        "Oncorhynchus chrysogaster",
		Locality:       locality,
		Collectors:     "Hendrickson",
		FieldNumber:    "DAH-12",
		CollectionDate: occurrence.NewDay(2001, time.June, 12),
	}
}

func TestDecide(t *testing.T) {
	ctx := context.Background()
	stored := &lookup{versions: []occurrence.Version{
		{Number: 1, Record: record("X1", "Rio Yaqui")},
	}}

	t.Run("insert", func(t *testing.T) {
		d := record("X2", "Rio Fuerte")
		d.FieldNumber = "DAH-13"
		res, err := dedup.Decide(ctx, stored, d)
		require.NoError(t, err)
		assert.Equal(t, dedup.Insert, res.Action)
		assert.Nil(t, res.Current)
		assert.Equal(t, "X2", res.Record.RecordID)
		assert.Empty(t, res.Notes)
	})

	t.Run("skip", func(t *testing.T) {
		res, err := dedup.Decide(ctx, stored, record("X1", "Rio Yaqui"))
		require.NoError(t, err)
		assert.Equal(t, dedup.Skip, res.Action)
		require.NotNil(t, res.Current)
		assert.Equal(t, 1, res.Current.Number)
		assert.Empty(t, res.Changed)
	})

	t.Run("update", func(t *testing.T) {
		res, err := dedup.Decide(ctx, stored, record("X1", "Rio Yaqui, upper"))
		require.NoError(t, err)
		assert.Equal(t, dedup.Update, res.Action)
		assert.Equal(t, []string{"locality"}, res.Changed)
	})

	t.Run("same collecting event", func(t *testing.T) {
		res, err := dedup.Decide(ctx, stored, record("X2", "Rio Mayo"))
		require.NoError(t, err)
		assert.Equal(t, dedup.Insert, res.Action)
		assert.Nil(t, res.Current)
		assert.Equal(t, "X2", res.Record.RecordID)
		require.Len(t, res.Notes, 1)
		assert.Contains(t, res.Notes[0], "'X1'")
	})

	t.Run("composite fallback", func(t *testing.T) {
		res, err := dedup.Decide(ctx, stored, record("", "Rio Yaqui"))
		require.NoError(t, err)
		assert.Equal(t, dedup.Skip, res.Action)
		assert.Equal(t, "X1", res.Record.RecordID)
		require.Len(t, res.Notes, 1)
		assert.Contains(t, res.Notes[0], "'X1'")
	})

	t.Run("no identifier, incomplete composite", func(t *testing.T) {
		d := record("", "Rio Yaqui")
		d.CollectionDate = occurrence.Date{}
		res, err := dedup.Decide(ctx, stored, d)
		require.NoError(t, err)
		assert.Equal(t, dedup.Insert, res.Action)
		assert.Empty(t, res.Notes)
	})

	t.Run("incomplete composite", func(t *testing.T) {
		d := record("LEGACY-8", "Rio Yaqui")
		d.FieldNumber = occurrence.Unknown
		res, err := dedup.Decide(ctx, stored, d)
		require.NoError(t, err)
		assert.Equal(t, dedup.Insert, res.Action)
		assert.Equal(t, "LEGACY-8", res.Record.RecordID)
		assert.Empty(t, res.Notes)
	})

	t.Run("identifier collision", func(t *testing.T) {
		d := record("X1", "Rio Yaqui")
		d.FieldNumber = "OTHER-1"
		res, err := dedup.Decide(ctx, stored, d)
		require.NoError(t, err)
		assert.Equal(t, dedup.Update, res.Action)
		assert.Equal(t, "X1", res.Record.RecordID)
		assert.Equal(t, []string{"field_number"}, res.Changed)
		require.Len(t, res.Notes, 1)
		assert.Contains(t, res.Notes[0], "collision")
	})
}

func TestDecideError(t *testing.T) {
	errDB := errors.New("database is gone")
	l := &lookup{err: errDB}
	_, err := dedup.Decide(context.Background(), l, record("X1", "Rio Yaqui"))
	assert.ErrorIs(t, err, errDB)
	assert.Equal(t, 1, l.calls)
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "insert", dedup.Insert.String())
	assert.Equal(t, "update", dedup.Update.String())
	assert.Equal(t, "skip", dedup.Skip.String())
}
