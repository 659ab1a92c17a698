package api

import (
	"net/http"

	"github.com/dmitrijs2005/punchkeeper/internal/server/api/response"
	"github.com/dmitrijs2005/punchkeeper/internal/wire"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) ListLeaveRequests(w http.ResponseWriter, r *http.Request) {
	items, err := h.leaves.List(r.Context(), chi.URLParam(r, "tenantID"), chi.URLParam(r, "userID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	response.Success(w, mapSlice(items, leaveToWire))
}

func (h *Handler) CreateLeaveRequest(w http.ResponseWriter, r *http.Request) {
	var req wire.LeaveRequest
	if !h.decode(w, r, &req) {
		return
	}

	tenantID, userID, ok := h.owner(w, r, req.UserID)
	if !ok {
		return
	}

	lr := leaveFromWire(req)
	lr.TenantID, lr.UserID = tenantID, userID

	created, err := h.leaves.Create(r.Context(), lr)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	response.Created(w, "Leave request submitted", leaveToWire(created))
}

// UpdateLeaveRequest edits or cancels a PENDING request.
func (h *Handler) UpdateLeaveRequest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Leave request ID is required", nil)
		return
	}

	var req wire.LeaveRequest
	if !h.decode(w, r, &req) {
		return
	}

	tenantID, userID, ok := h.owner(w, r, req.UserID)
	if !ok {
		return
	}

	lr := leaveFromWire(req)
	lr.ID, lr.TenantID, lr.UserID = id, tenantID, userID

	updated, err := h.leaves.Update(r.Context(), lr)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	response.Success(w, leaveToWire(updated))
}

func (h *Handler) LeaveBalances(w http.ResponseWriter, r *http.Request) {
	items, err := h.leaves.Balances(r.Context(), chi.URLParam(r, "tenantID"), chi.URLParam(r, "userID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	response.Success(w, mapSlice(items, balanceToWire))
}
