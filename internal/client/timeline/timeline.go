// Package timeline merges a day's confirmed punches with the drafts being
// added in the correction editor into one ordered, IN/OUT-labelled list.
//
// The result is derived state: Build is a pure function and is cheap enough
// to call after every edit.
package timeline

import (
	"sort"
	"time"

	"github.com/dmitrijs2005/punchkeeper/internal/client/models"
	"github.com/dmitrijs2005/punchkeeper/internal/datex"
)

// PlaceholderStep separates undecided drafts placed at the end of the day.
const PlaceholderStep = time.Millisecond

type Entry struct {
	Timestamp time.Time
	// IsNew is true for drafts and false for confirmed punches.
	IsNew bool
	// Undecided drafts have no chosen time yet; Timestamp is a placeholder.
	Undecided bool
	// EntryID is set for confirmed punches, DraftID for drafts.
	EntryID string
	DraftID string
	// RecordedType is what a confirmed punch was stored as.
	RecordedType models.PunchType
	InferredType models.PunchType
}

// Build orders confirmed punches of day together with drafts and labels
// every position by strict alternation: even index IN, odd index OUT.
//
// A draft whose time is empty or not a valid HH:MM is undecided and lands
// at 23:59:59 plus Seq steps, so undecided drafts keep their creation order.
// Punches recorded on other days are ignored. Existing alternation is not
// checked: if the history has two INs in a row the labels of later
// positions follow the index, not the history.
func Build(confirmed []models.TimeEntry, drafts []models.AdjustmentDraft, day time.Time) []Entry {
	out := make([]Entry, 0, len(confirmed)+len(drafts))

	for _, e := range confirmed {
		if !datex.SameDay(day, e.Timestamp) {
			continue
		}
		out = append(out, Entry{
			Timestamp:    e.Timestamp.In(day.Location()),
			EntryID:      e.ID,
			RecordedType: e.Type,
		})
	}

	end := datex.EndOfDay(day)
	for _, d := range drafts {
		entry := Entry{IsNew: true, DraftID: d.ID}
		ts, err := datex.CombineClock(day, d.Time)
		if d.Time == "" || err != nil {
			entry.Undecided = true
			ts = end.Add(time.Duration(d.Seq) * PlaceholderStep)
		}
		entry.Timestamp = ts
		out = append(out, entry)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})

	for i := range out {
		out[i].InferredType = TypeAt(i)
	}
	return out
}

// TypeAt is the alternation rule.
func TypeAt(index int) models.PunchType {
	if index%2 == 0 {
		return models.ClockIn
	}
	return models.ClockOut
}

// Next is the type the next punch of a day with these entries gets.
func Next(entries []Entry) models.PunchType {
	return TypeAt(len(entries))
}

// Mismatches lists positions where a confirmed punch was recorded with a
// type other than the one alternation assigns to its position.
func Mismatches(entries []Entry) []int {
	var idx []int
	for i, e := range entries {
		if !e.IsNew && e.RecordedType != "" && e.RecordedType != e.InferredType {
			idx = append(idx, i)
		}
	}
	return idx
}
