package api

import (
	"net/http"

	"github.com/dmitrijs2005/punchkeeper/internal/server/api/response"
	"github.com/dmitrijs2005/punchkeeper/internal/wire"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) ListTimeEntries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	entries, err := h.timesheet.ListPunches(r.Context(),
		chi.URLParam(r, "tenantID"), chi.URLParam(r, "userID"), q.Get("from"), q.Get("to"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	response.Success(w, mapSlice(entries, timeEntryToWire))
}

// SaveTimeEntry stores a punch under the client's id. Replays answer with
// the stored row.
func (h *Handler) SaveTimeEntry(w http.ResponseWriter, r *http.Request) {
	var req wire.TimeEntry
	if !h.decode(w, r, &req) {
		return
	}

	tenantID, userID, ok := h.owner(w, r, req.UserID)
	if !ok {
		return
	}

	e := timeEntryFromWire(req)
	e.TenantID, e.UserID = tenantID, userID

	saved, err := h.timesheet.SavePunch(r.Context(), e)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	response.Created(w, "Time entry saved", timeEntryToWire(saved))
}

func (h *Handler) ListTimeAdjustments(w http.ResponseWriter, r *http.Request) {
	items, err := h.timesheet.ListAdjustments(r.Context(), chi.URLParam(r, "tenantID"), chi.URLParam(r, "userID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	response.Success(w, mapSlice(items, adjustmentToWire))
}

func (h *Handler) CreateTimeAdjustment(w http.ResponseWriter, r *http.Request) {
	var req wire.TimeAdjustment
	if !h.decode(w, r, &req) {
		return
	}

	tenantID, userID, ok := h.owner(w, r, req.UserID)
	if !ok {
		return
	}

	a := adjustmentFromWire(req)
	a.TenantID, a.UserID = tenantID, userID

	created, err := h.timesheet.CreateAdjustment(r.Context(), a)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	response.Created(w, "Time adjustment request submitted", adjustmentToWire(created))
}
