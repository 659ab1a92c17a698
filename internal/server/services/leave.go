package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/punchkeeper/internal/common"
	"github.com/dmitrijs2005/punchkeeper/internal/datex"
	"github.com/dmitrijs2005/punchkeeper/internal/dbx"
	"github.com/dmitrijs2005/punchkeeper/internal/logging"
	"github.com/dmitrijs2005/punchkeeper/internal/server/models"
	"github.com/dmitrijs2005/punchkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/punchkeeper/internal/validator"
)

const (
	// MaxLeaveDays caps every leave type except maternity.
	MaxLeaveDays = 30
	// AnnualLeaveMinMonths is the tenure needed before annual leave is granted.
	AnnualLeaveMinMonths = 12
)

// DefaultEntitlements apply to tenants that configured nothing for a type.
var DefaultEntitlements = map[models.LeaveType]int{
	models.LeaveAnnual:    20,
	models.LeaveSick:      10,
	models.LeaveMaternity: 90,
	models.LeavePaternity: 10,
	models.LeaveUnpaid:    0,
	models.LeavePersonal:  3,
}

type LeaveService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
	now         func() time.Time
}

func NewLeaveService(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *LeaveService {
	return &LeaveService{db: db, repomanager: m, log: log.With("module", "leave"), now: time.Now}
}

// Create files a PENDING request. Days is recomputed from the date range.
func (s *LeaveService) Create(ctx context.Context, r *models.LeaveRequest) (*models.LeaveRequest, error) {
	if err := s.validate(r); err != nil {
		return nil, err
	}
	r.Status = models.StatusPending

	created, err := s.repomanager.Leaves(s.db).Create(ctx, r)
	if err != nil {
		return nil, err
	}
	s.log.Info(ctx, "leave requested", "id", created.ID, "tenant", created.TenantID, "days", created.Days)
	return created, nil
}

// Update rewrites a PENDING request owned by r.UserID. The only status
// change an owner may make is to CANCELLED.
func (s *LeaveService) Update(ctx context.Context, r *models.LeaveRequest) (*models.LeaveRequest, error) {
	if r.Status == "" {
		r.Status = models.StatusPending
	}
	if r.Status != models.StatusPending && r.Status != models.StatusCancelled {
		return nil, validator.ValidationErrors{{Field: "status", Message: "may only be PENDING or CANCELLED"}}
	}

	var updated *models.LeaveRequest
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Leaves(tx)

		cur, err := repo.Get(ctx, r.TenantID, r.ID)
		if err != nil {
			return err
		}
		if cur.UserID != r.UserID {
			return common.ErrorForbidden
		}
		if !cur.Status.Editable() {
			return common.ErrorNotEditable
		}

		// cancelling keeps the stored fields
		if r.Status == models.StatusCancelled {
			next := *cur
			next.Status = models.StatusCancelled
			updated, err = repo.Update(ctx, &next)
			return err
		}

		if err := s.validate(r); err != nil {
			return err
		}
		updated, err = repo.Update(ctx, r)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *LeaveService) validate(r *models.LeaveRequest) error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.UserID) {
		errs.Add("user_id", "is required")
	}
	if !r.LeaveType.Valid() {
		errs.Add("leave_type", "is not a known leave type")
	}

	start, okStart := validator.IsValidDate(r.StartDate)
	if !okStart {
		errs.Add("start_date", "must be YYYY-MM-DD")
	}
	end, okEnd := validator.IsValidDate(r.EndDate)
	if !okEnd {
		errs.Add("end_date", "must be YYYY-MM-DD")
	}
	if okStart && okEnd {
		if end.Before(start) {
			errs.Add("end_date", "must not be before start date")
		} else {
			r.Days = datex.DaysInclusive(start, end)
			if r.LeaveType != models.LeaveMaternity && r.Days > MaxLeaveDays {
				errs.Add("end_date", fmt.Sprintf("leave is limited to %d days", MaxLeaveDays))
			}
		}
		today := datex.Midnight(s.now().UTC())
		if datex.CompareDays(start, today) < 0 {
			errs.Add("start_date", "must not be in the past")
		}
	}
	return errs.Err()
}

func (s *LeaveService) List(ctx context.Context, tenantID, userID string) ([]*models.LeaveRequest, error) {
	return s.repomanager.Leaves(s.db).ListByUser(ctx, tenantID, userID)
}

// Balances reports per-type allowance for the current calendar year.
// Used counts APPROVED requests starting this year, pending counts PENDING
// ones. Annual leave is granted only after AnnualLeaveMinMonths of service;
// an unknown hire date counts as no service.
func (s *LeaveService) Balances(ctx context.Context, tenantID, userID string) ([]models.LeaveBalance, error) {
	repo := s.repomanager.Leaves(s.db)

	entitled := make(map[models.LeaveType]int, len(DefaultEntitlements))
	for lt, days := range DefaultEntitlements {
		entitled[lt] = days
	}
	configured, err := repo.Entitlements(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	for _, e := range configured {
		entitled[e.LeaveType] = e.Days
	}

	today := s.now().UTC()
	hireDate := ""
	emp, err := s.repomanager.Employees(s.db).Get(ctx, tenantID, userID)
	switch {
	case err == nil:
		hireDate = emp.HireDate
	case !errors.Is(err, common.ErrorNotFound):
		return nil, err
	}
	if datex.MonthsOfService(hireDate, today) < AnnualLeaveMinMonths {
		entitled[models.LeaveAnnual] = 0
	}

	requests, err := repo.ListByUser(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	used := make(map[models.LeaveType]int)
	pending := make(map[models.LeaveType]int)
	year := fmt.Sprintf("%04d-", today.Year())
	for _, r := range requests {
		if len(r.StartDate) < len(year) || r.StartDate[:len(year)] != year {
			continue
		}
		switch r.Status {
		case models.StatusApproved:
			used[r.LeaveType] += r.Days
		case models.StatusPending:
			pending[r.LeaveType] += r.Days
		}
	}

	balances := make([]models.LeaveBalance, 0, len(models.LeaveTypes))
	for _, lt := range models.LeaveTypes {
		b := models.LeaveBalance{
			LeaveType:    lt,
			EntitledDays: entitled[lt],
			UsedDays:     used[lt],
			PendingDays:  pending[lt],
		}
		b.RemainingDays = max(b.EntitledDays-b.UsedDays-b.PendingDays, 0)
		balances = append(balances, b)
	}
	return balances, nil
}
