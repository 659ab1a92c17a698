package timeline

import (
	"errors"
	"sort"

	"github.com/dmitrijs2005/punchkeeper/internal/client/models"
	"github.com/google/uuid"
)

var ErrDraftNotFound = errors.New("draft not found")

// Drafts is the editor-local set of drafts for one day. Seq comes from a
// counter that only grows, even across removals, so creation order is
// never reused.
type Drafts struct {
	seq   int
	items map[string]models.AdjustmentDraft
}

func NewDrafts() *Drafts {
	return &Drafts{items: make(map[string]models.AdjustmentDraft)}
}

func (d *Drafts) Add(hhmm, reason, document string) models.AdjustmentDraft {
	d.seq++
	draft := models.AdjustmentDraft{
		ID:       uuid.NewString(),
		Seq:      d.seq,
		Time:     hhmm,
		Reason:   reason,
		Document: document,
	}
	d.items[draft.ID] = draft
	return draft
}

func (d *Drafts) SetTime(id, hhmm string) error {
	draft, ok := d.items[id]
	if !ok {
		return ErrDraftNotFound
	}
	draft.Time = hhmm
	d.items[id] = draft
	return nil
}

func (d *Drafts) Remove(id string) error {
	if _, ok := d.items[id]; !ok {
		return ErrDraftNotFound
	}
	delete(d.items, id)
	return nil
}

// List returns drafts in creation order.
func (d *Drafts) List() []models.AdjustmentDraft {
	out := make([]models.AdjustmentDraft, 0, len(d.items))
	for _, draft := range d.items {
		out = append(out, draft)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out
}

func (d *Drafts) Len() int {
	return len(d.items)
}

// Clear drops every draft. The counter keeps running.
func (d *Drafts) Clear() {
	d.items = make(map[string]models.AdjustmentDraft)
}
