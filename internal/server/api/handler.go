// Package api is the REST surface of the server: a chi router, bearer
// authentication and one handler per route.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/dmitrijs2005/punchkeeper/internal/common"
	"github.com/dmitrijs2005/punchkeeper/internal/logging"
	"github.com/dmitrijs2005/punchkeeper/internal/server/api/response"
	"github.com/dmitrijs2005/punchkeeper/internal/server/models"
	"github.com/dmitrijs2005/punchkeeper/internal/server/services"
	"github.com/dmitrijs2005/punchkeeper/internal/wire"
	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 1 << 20

type TimesheetService interface {
	SavePunch(ctx context.Context, e *models.TimeEntry) (*models.TimeEntry, error)
	ListPunches(ctx context.Context, tenantID, userID, from, to string) ([]*models.TimeEntry, error)
	CreateAdjustment(ctx context.Context, a *models.TimeAdjustment) (*models.TimeAdjustment, error)
	ListAdjustments(ctx context.Context, tenantID, userID string) ([]*models.TimeAdjustment, error)
}

type LeaveService interface {
	Create(ctx context.Context, r *models.LeaveRequest) (*models.LeaveRequest, error)
	Update(ctx context.Context, r *models.LeaveRequest) (*models.LeaveRequest, error)
	List(ctx context.Context, tenantID, userID string) ([]*models.LeaveRequest, error)
	Balances(ctx context.Context, tenantID, userID string) ([]models.LeaveBalance, error)
}

type ExpenseService interface {
	Create(ctx context.Context, c *models.ExpenseClaim) (*models.ExpenseClaim, error)
	Update(ctx context.Context, c *models.ExpenseClaim) (*models.ExpenseClaim, error)
	List(ctx context.Context, tenantID, userID string) ([]*models.ExpenseClaim, error)
}

type UploadService interface {
	CreateUpload(ctx context.Context, tenantID, kind, contentType string) (*services.Upload, error)
}

type Handler struct {
	timesheet TimesheetService
	leaves    LeaveService
	expenses  ExpenseService
	uploads   UploadService
	logger    logging.Logger
	now       func() time.Time
}

func NewHandler(ts TimesheetService, ls LeaveService, es ExpenseService, us UploadService, l logging.Logger) *Handler {
	return &Handler{
		timesheet: ts,
		leaves:    ls,
		expenses:  es,
		uploads:   us,
		logger:    l.With("module", "api"),
		now:       time.Now,
	}
}

func (h *Handler) Ping(w http.ResponseWriter, r *http.Request) {
	response.Success(w, wire.Ping{Status: "OK", Time: h.now().UTC()})
}

// fail writes err and logs it when it is not a known domain error.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if response.HandleError(w, err) {
		h.logger.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.logger.Debug(r.Context(), "decode error", "path", r.URL.Path, "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return false
	}
	return true
}

// owner resolves whose record a write touches: the body's user_id, or the
// caller when it is empty. The tenant always comes from the path.
func (h *Handler) owner(w http.ResponseWriter, r *http.Request, bodyUserID string) (tenantID, userID string, ok bool) {
	p, found := PrincipalFromContext(r.Context())
	if !found {
		h.fail(w, r, common.ErrorUnauthorized)
		return "", "", false
	}

	tenantID = chi.URLParam(r, "tenantID")
	userID = bodyUserID
	if userID == "" {
		userID = p.UserID
	}

	if !p.CanAccess(tenantID, userID) {
		h.fail(w, r, common.ErrorForbidden)
		return "", "", false
	}
	return tenantID, userID, true
}
