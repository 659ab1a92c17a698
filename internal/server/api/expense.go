package api

import (
	"net/http"

	"github.com/dmitrijs2005/punchkeeper/internal/server/api/response"
	"github.com/dmitrijs2005/punchkeeper/internal/wire"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) ListExpenseClaims(w http.ResponseWriter, r *http.Request) {
	items, err := h.expenses.List(r.Context(), chi.URLParam(r, "tenantID"), chi.URLParam(r, "userID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	response.Success(w, mapSlice(items, expenseToWire))
}

func (h *Handler) CreateExpenseClaim(w http.ResponseWriter, r *http.Request) {
	var req wire.ExpenseClaim
	if !h.decode(w, r, &req) {
		return
	}

	tenantID, userID, ok := h.owner(w, r, req.UserID)
	if !ok {
		return
	}

	c := expenseFromWire(req)
	c.TenantID, c.UserID = tenantID, userID

	created, err := h.expenses.Create(r.Context(), c)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	response.Created(w, "Expense claim submitted", expenseToWire(created))
}

func (h *Handler) UpdateExpenseClaim(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Expense claim ID is required", nil)
		return
	}

	var req wire.ExpenseClaim
	if !h.decode(w, r, &req) {
		return
	}

	tenantID, userID, ok := h.owner(w, r, req.UserID)
	if !ok {
		return
	}

	c := expenseFromWire(req)
	c.ID, c.TenantID, c.UserID = id, tenantID, userID

	updated, err := h.expenses.Update(r.Context(), c)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	response.Success(w, expenseToWire(updated))
}
