package reconcile

import (
	"github.com/dmitrijs2005/punchkeeper/internal/client/models"
)

// KeyFunc extracts the merge key of a record.
type KeyFunc[T any] func(T) string

// MergeByKey returns remote with local laid over it. A local record replaces
// the first remote record sharing its key, or is appended when none does.
// Several local records with one key collapse into the last of them. The
// result depends only on the inputs, so merging twice gives the same list.
func MergeByKey[T any](remote, local []T, key KeyFunc[T]) []T {
	out := make([]T, len(remote), len(remote)+len(local))
	copy(out, remote)

	pos := make(map[string]int, len(remote)+len(local))
	for i, r := range remote {
		k := key(r)
		if _, ok := pos[k]; !ok {
			pos[k] = i
		}
	}

	for _, l := range local {
		k := key(l)
		if i, ok := pos[k]; ok {
			out[i] = l
			continue
		}
		pos[k] = len(out)
		out = append(out, l)
	}
	return out
}

// PruneConfirmed drops staged records whose confirmed id the server already
// returns. Provisional ids are never looked up remotely.
func PruneConfirmed[T any](staged, remote []T, id KeyFunc[T]) []T {
	known := make(map[string]struct{}, len(remote))
	for _, r := range remote {
		known[id(r)] = struct{}{}
	}

	out := make([]T, 0, len(staged))
	for _, s := range staged {
		sid := id(s)
		if !models.IsProvisional(sid) {
			if _, ok := known[sid]; ok {
				continue
			}
		}
		out = append(out, s)
	}
	return out
}

// AdjustmentKey identifies "the same request" as one per day and status.
func AdjustmentKey(a models.AdjustmentRequest) string {
	return a.Date + "|" + string(a.Status)
}

func AdjustmentID(a models.AdjustmentRequest) string { return a.ID }

func PunchKey(e models.TimeEntry) string { return e.ID }

func LeaveKey(r models.LeaveRequest) string { return r.ID }

func ExpenseKey(c models.ExpenseClaim) string { return c.ID }
