// Package dedup decides whether a valid draft is a new record, an update
// of a stored record, or a duplicate to skip.
package dedup

import (
	"context"
	"fmt"

	"github.com/gnames/troutdb/pkg/occurrence"
)

// Action is the outcome of duplicate detection.
type Action int

const (
	// Insert creates a new record with version 1.
	Insert Action = iota
	// Update appends a new version to an existing record.
	Update
	// Skip leaves an identical record untouched.
	Skip
)

// String returns the name of the action.
func (a Action) String() string {
	switch a {
	case Insert:
		return "insert"
	case Update:
		return "update"
	case Skip:
		return "skip"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// Lookup finds the current version of a stored record. It returns nil
// without error when nothing matches.
type Lookup interface {
	FindByNaturalKey(
		ctx context.Context,
		key occurrence.NaturalKey,
	) (*occurrence.Version, error)
}

// Decision tells what to do with a draft.
type Decision struct {
	Action Action

	// Current is the matched current version, nil for Insert.
	Current *occurrence.Version

	// Record is the draft to write. When the match came through the
	// composite key, it carries the stored record identifier.
	Record occurrence.Record

	// Changed lists the fields that differ from Current.
	Changed []string

	// Notes are warnings about the match itself.
	Notes []string
}

// Decide compares a draft with the store. The record identifier is
// authoritative: an identifier that is not stored yet is always a new
// record. The composite key of collectors, field number and date selects
// the stored record only for drafts without an identifier; for new
// identifiers a composite match is reported as a note.
func Decide(
	ctx context.Context,
	lookup Lookup,
	draft occurrence.Record,
) (Decision, error) {
	res := Decision{Record: draft}
	comp := draft.CompositeKey()

	if draft.RecordID == "" {
		if !comp.Complete() {
			res.Action = Insert
			return res, nil
		}
		cur, err := lookup.FindByNaturalKey(ctx, occurrence.ByComposite(comp))
		if err != nil {
			return res, err
		}
		if cur == nil {
			res.Action = Insert
			return res, nil
		}
		res.Notes = append(res.Notes, fmt.Sprintf(
			"matched stored record '%s' by collectors, field number and date",
			cur.RecordID,
		))
		res.Record.RecordID = cur.RecordID
		return compare(res, cur), nil
	}

	cur, err := lookup.FindByNaturalKey(ctx, occurrence.ByID(draft.RecordID))
	if err != nil {
		return res, err
	}

	if cur == nil {
		if comp.Complete() {
			other, err := lookup.FindByNaturalKey(ctx, occurrence.ByComposite(comp))
			if err != nil {
				return res, err
			}
			if other != nil {
				res.Notes = append(res.Notes, fmt.Sprintf(
					"same collecting event as stored record '%s'",
					other.RecordID,
				))
			}
		}
		res.Action = Insert
		return res, nil
	}

	stored := cur.CompositeKey()
	if stored.Complete() && comp.Complete() && stored != comp {
		res.Notes = append(res.Notes, fmt.Sprintf(
			"possible identifier collision: '%s' is stored as [%s], "+
				"the row has [%s]",
			draft.RecordID, stored, comp,
		))
	}
	return compare(res, cur), nil
}

func compare(res Decision, cur *occurrence.Version) Decision {
	res.Current = cur
	res.Changed = cur.Record.Diff(res.Record)
	if len(res.Changed) == 0 {
		res.Action = Skip
	} else {
		res.Action = Update
	}
	return res
}
