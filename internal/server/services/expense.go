package services

import (
	"context"
	"database/sql"
	"strings"

	"github.com/dmitrijs2005/punchkeeper/internal/common"
	"github.com/dmitrijs2005/punchkeeper/internal/dbx"
	"github.com/dmitrijs2005/punchkeeper/internal/logging"
	"github.com/dmitrijs2005/punchkeeper/internal/server/models"
	"github.com/dmitrijs2005/punchkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/punchkeeper/internal/validator"
	"golang.org/x/text/currency"
)

type ExpenseService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewExpenseService(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *ExpenseService {
	return &ExpenseService{db: db, repomanager: m, log: log.With("module", "expense")}
}

func (s *ExpenseService) Create(ctx context.Context, c *models.ExpenseClaim) (*models.ExpenseClaim, error) {
	if err := validateClaim(c); err != nil {
		return nil, err
	}
	c.Status = models.StatusPending

	created, err := s.repomanager.Expenses(s.db).Create(ctx, c)
	if err != nil {
		return nil, err
	}
	s.log.Info(ctx, "expense claimed", "id", created.ID, "tenant", created.TenantID, "amount", created.Amount.String(), "currency", created.Currency)
	return created, nil
}

// Update rewrites a PENDING claim owned by c.UserID, or cancels it.
func (s *ExpenseService) Update(ctx context.Context, c *models.ExpenseClaim) (*models.ExpenseClaim, error) {
	if c.Status == "" {
		c.Status = models.StatusPending
	}
	if c.Status != models.StatusPending && c.Status != models.StatusCancelled {
		return nil, validator.ValidationErrors{{Field: "status", Message: "may only be PENDING or CANCELLED"}}
	}

	var updated *models.ExpenseClaim
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Expenses(tx)

		cur, err := repo.Get(ctx, c.TenantID, c.ID)
		if err != nil {
			return err
		}
		if cur.UserID != c.UserID {
			return common.ErrorForbidden
		}
		if !cur.Status.Editable() {
			return common.ErrorNotEditable
		}

		if c.Status == models.StatusCancelled {
			next := *cur
			next.Status = models.StatusCancelled
			updated, err = repo.Update(ctx, &next)
			return err
		}

		if err := validateClaim(c); err != nil {
			return err
		}
		updated, err = repo.Update(ctx, c)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *ExpenseService) List(ctx context.Context, tenantID, userID string) ([]*models.ExpenseClaim, error) {
	return s.repomanager.Expenses(s.db).ListByUser(ctx, tenantID, userID)
}

func validateClaim(c *models.ExpenseClaim) error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(c.UserID) {
		errs.Add("user_id", "is required")
	}
	if _, ok := validator.IsValidDate(c.ExpenseDate); !ok {
		errs.Add("expense_date", "must be YYYY-MM-DD")
	}
	if validator.IsEmpty(c.Category) {
		errs.Add("category", "is required")
	}
	if !c.Amount.IsPositive() {
		errs.Add("amount", "must be greater than zero")
	}
	c.Currency = strings.ToUpper(strings.TrimSpace(c.Currency))
	unit, err := currency.ParseISO(c.Currency)
	if err != nil {
		errs.Add("currency", "must be an ISO 4217 code")
	} else if digits, _ := currency.Standard.Rounding(unit); !c.Amount.Equal(c.Amount.Round(int32(digits))) {
		errs.Add("amount", "has more decimals than the currency allows")
	}
	return errs.Err()
}
