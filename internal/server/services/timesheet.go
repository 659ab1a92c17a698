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
	"github.com/google/uuid"
)

// TimesheetService stores punches and the adjustment requests that correct them.
type TimesheetService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewTimesheetService(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *TimesheetService {
	return &TimesheetService{db: db, repomanager: m, log: log.With("module", "timesheet")}
}

// SavePunch stores a punch under its client-chosen id. Replaying the same
// punch returns the stored row unchanged. An id already owned by another
// user is a conflict.
func (s *TimesheetService) SavePunch(ctx context.Context, e *models.TimeEntry) (*models.TimeEntry, error) {
	if err := validatePunch(e); err != nil {
		return nil, err
	}

	repo := s.repomanager.TimeEntries(s.db)

	inserted, err := repo.Insert(ctx, e)
	if err != nil {
		return nil, err
	}

	stored, err := repo.Get(ctx, e.TenantID, e.ID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("punch %s: %w", e.ID, common.ErrorConflict)
		}
		return nil, err
	}
	if stored.UserID != e.UserID {
		return nil, fmt.Errorf("punch %s: %w", e.ID, common.ErrorConflict)
	}

	if !inserted {
		s.log.Debug(ctx, "punch replayed", "id", e.ID, "tenant", e.TenantID)
	}
	return stored, nil
}

func validatePunch(e *models.TimeEntry) error {
	var errs validator.ValidationErrors
	if _, err := uuid.Parse(e.ID); err != nil {
		errs.Add("id", "must be a UUID")
	}
	if validator.IsEmpty(e.UserID) {
		errs.Add("user_id", "is required")
	}
	if !e.Type.Valid() {
		errs.Add("type", "must be CLOCK_IN or CLOCK_OUT")
	}
	if e.Timestamp.IsZero() {
		errs.Add("timestamp", "is required")
	}
	if (e.Latitude == nil) != (e.Longitude == nil) {
		errs.Add("latitude", "latitude and longitude go together")
	}
	return errs.Err()
}

// ListPunches returns the user's punches between two inclusive
// YYYY-MM-DD days. Either bound may be empty. Days are taken in UTC.
func (s *TimesheetService) ListPunches(ctx context.Context, tenantID, userID, from, to string) ([]*models.TimeEntry, error) {
	var (
		errs       validator.ValidationErrors
		start, end time.Time
	)
	if from != "" {
		d, err := datex.ParseDate(from, time.UTC)
		if err != nil {
			errs.Add("from", "must be YYYY-MM-DD")
		}
		start = d
	}
	if to != "" {
		d, err := datex.ParseDate(to, time.UTC)
		if err != nil {
			errs.Add("to", "must be YYYY-MM-DD")
		} else {
			end = datex.AddDays(d, 1)
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	return s.repomanager.TimeEntries(s.db).ListByUser(ctx, tenantID, userID, start, end)
}

// CreateAdjustment files a correction request. A day that already has a
// PENDING or APPROVED request is a conflict.
func (s *TimesheetService) CreateAdjustment(ctx context.Context, a *models.TimeAdjustment) (*models.TimeAdjustment, error) {
	if err := validateAdjustment(a); err != nil {
		return nil, err
	}

	var created *models.TimeAdjustment
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Adjustments(tx)

		active, err := repo.HasActive(ctx, a.TenantID, a.UserID, a.Date)
		if err != nil {
			return err
		}
		if active {
			return fmt.Errorf("adjustment for %s: %w", a.Date, common.ErrorConflict)
		}

		a.Status = models.StatusPending
		created, err = repo.Create(ctx, a)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "adjustment requested", "id", created.ID, "tenant", created.TenantID, "date", created.Date)
	return created, nil
}

func validateAdjustment(a *models.TimeAdjustment) error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(a.UserID) {
		errs.Add("user_id", "is required")
	}
	if _, ok := validator.IsValidDate(a.Date); !ok {
		errs.Add("date", "must be YYYY-MM-DD")
	}
	if len(a.RequestedPunches) == 0 && a.RequestedClockIn == nil && a.RequestedClockOut == nil {
		errs.Add("requested_punches", "at least one punch is required")
	}
	for i, p := range a.RequestedPunches {
		field := fmt.Sprintf("requested_punches[%d]", i)
		if !validator.IsValidClock(p.Time) {
			errs.Add(field+".time", "must be HH:MM")
		}
		if !p.Type.Valid() {
			errs.Add(field+".type", "must be CLOCK_IN or CLOCK_OUT")
		}
		if validator.IsEmpty(p.Reason) {
			errs.Add(field+".reason", "is required")
		}
	}
	if validator.IsEmpty(a.Reason) {
		errs.Add("reason", "is required")
	}
	return errs.Err()
}

func (s *TimesheetService) ListAdjustments(ctx context.Context, tenantID, userID string) ([]*models.TimeAdjustment, error) {
	return s.repomanager.Adjustments(s.db).ListByUser(ctx, tenantID, userID)
}
