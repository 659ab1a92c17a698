package api

import (
	"net/http"

	"github.com/dmitrijs2005/punchkeeper/internal/server/api/response"
	"github.com/dmitrijs2005/punchkeeper/internal/wire"
	"github.com/go-chi/chi/v5"
)

// CreateUpload reserves an attachment key and returns a presigned PUT URL.
func (h *Handler) CreateUpload(w http.ResponseWriter, r *http.Request) {
	var req wire.UploadRequest
	if !h.decode(w, r, &req) {
		return
	}

	u, err := h.uploads.CreateUpload(r.Context(), chi.URLParam(r, "tenantID"), req.Kind, req.ContentType)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	response.Created(w, "Upload URL issued", uploadToWire(u))
}
