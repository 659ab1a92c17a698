package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"

	"github.com/dmitrijs2005/punchkeeper/internal/client/client"
	"github.com/dmitrijs2005/punchkeeper/internal/client/models"
	"github.com/dmitrijs2005/punchkeeper/internal/client/reconcile"
	"github.com/dmitrijs2005/punchkeeper/internal/client/repositories/expenses"
	"github.com/dmitrijs2005/punchkeeper/internal/common"
	"github.com/dmitrijs2005/punchkeeper/internal/datex"
	"github.com/dmitrijs2005/punchkeeper/internal/dbx"
	"github.com/dmitrijs2005/punchkeeper/internal/filex"
	"github.com/dmitrijs2005/punchkeeper/internal/validator"
)

var ExpenseCategories = []string{"TRAVEL", "MEALS", "ACCOMMODATION", "SUPPLIES", "TRANSPORT", "OTHER"}

const DefaultCurrency = "EUR"

// ExpenseInput is an expense claim as typed by the user.
type ExpenseInput struct {
	Date        string
	Category    string
	Description string
	Amount      string
	Currency    string
	// Receipt is an optional local file path.
	Receipt string
}

func (in ExpenseInput) validate(today time.Time) (decimal.Decimal, error) {
	var errs validator.ValidationErrors

	if d, err := datex.ParseDate(in.Date, today.Location()); err != nil {
		errs.Add("date", "must be YYYY-MM-DD")
	} else if datex.CompareDays(d, today) > 0 {
		errs.Add("date", "must not be in the future")
	}

	if !slices.Contains(ExpenseCategories, strings.ToUpper(strings.TrimSpace(in.Category))) {
		errs.Add("category", "must be one of "+strings.Join(ExpenseCategories, ", "))
	}

	if validator.IsEmpty(in.Description) {
		errs.Add("description", "is required")
	}

	scale := int32(2)
	if unit, err := currency.ParseISO(in.currencyCode()); err != nil {
		errs.Add("currency", "must be an ISO 4217 code")
	} else {
		digits, _ := currency.Standard.Rounding(unit)
		scale = int32(digits)
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(in.Amount))
	switch {
	case err != nil:
		errs.Add("amount", "must be a number")
	case !amount.IsPositive():
		errs.Add("amount", "must be greater than zero")
	case !amount.Equal(amount.Round(scale)):
		errs.Add("amount", fmt.Sprintf("must have at most %d decimals", scale))
	}

	if in.Receipt != "" {
		fi, err := os.Stat(in.Receipt)
		switch {
		case err != nil:
			errs.Add("receipt", "file not found")
		case fi.Size() > filex.MaxAttachmentSize:
			errs.Add("receipt", filex.ErrAttachmentTooLarge.Error())
		}
	}

	return amount, errs.Err()
}

func (in ExpenseInput) currencyCode() string {
	code := strings.ToUpper(strings.TrimSpace(in.Currency))
	if code == "" {
		return DefaultCurrency
	}
	return code
}

func (in ExpenseInput) claim(scope models.Scope, amount decimal.Decimal) models.ExpenseClaim {
	return models.ExpenseClaim{
		TenantID:     scope.TenantID,
		UserID:       scope.UserID,
		Date:         in.Date,
		Category:     strings.ToUpper(strings.TrimSpace(in.Category)),
		Description:  strings.TrimSpace(in.Description),
		Amount:       amount,
		Currency:     in.currencyCode(),
		LocalReceipt: in.Receipt,
		Status:       models.StatusPending,
	}
}

type ExpenseService interface {
	Create(ctx context.Context, in ExpenseInput) (*Outcome[models.ExpenseClaim], error)
	Cancel(ctx context.Context, id string) (*Outcome[models.ExpenseClaim], error)
	List(ctx context.Context) reconcile.Result[models.ExpenseClaim]
	// Push uploads a pending receipt, sends one queued claim and marks it
	// synced.
	Push(ctx context.Context, c models.ExpenseClaim) (models.ExpenseClaim, error)
	Discard(ctx context.Context, id string)
}

type expenseService struct {
	session  Session
	client   client.Client
	repo     expenses.Repository
	cache    reconcile.Cache
	uploader *Uploader
}

func NewExpenseService(session Session, c client.Client, repo expenses.Repository, cache reconcile.Cache, uploader *Uploader) ExpenseService {
	return &expenseService{session: session, client: c, repo: repo, cache: cache, uploader: uploader}
}

func (s *expenseService) Create(ctx context.Context, in ExpenseInput) (*Outcome[models.ExpenseClaim], error) {
	amount, err := in.validate(s.session.today())
	if err != nil {
		return nil, err
	}
	c := in.claim(s.session.Scope, amount)
	c.ID = models.NewProvisionalID()
	c.CreatedAt = s.session.now()
	return s.store(ctx, c)
}

func (s *expenseService) Cancel(ctx context.Context, id string) (*Outcome[models.ExpenseClaim], error) {
	var (
		cur   models.ExpenseClaim
		found bool
	)
	for _, c := range s.List(ctx).Items {
		if c.ID == id {
			cur, found = c, true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("expense claim %s: %w", id, common.ErrorNotFound)
	}
	if !cur.Status.Editable() {
		return nil, fmt.Errorf("%w: %s is %s", ErrNotEditable, id, cur.Status)
	}

	if models.IsProvisional(cur.ID) {
		if err := s.repo.Delete(ctx, cur.ID); err != nil {
			return nil, fmt.Errorf("cancel expense claim: %w", err)
		}
		cur.Status = models.StatusCancelled
		return &Outcome[models.ExpenseClaim]{Record: cur}, nil
	}

	cur.Status = models.StatusCancelled
	return s.store(ctx, cur)
}

func (s *expenseService) store(ctx context.Context, c models.ExpenseClaim) (*Outcome[models.ExpenseClaim], error) {
	log := s.session.log()
	c.Synced = false

	stored := true
	if err := s.repo.Save(ctx, &c); err != nil {
		log.Error(ctx, "failed to queue expense claim", "id", c.ID, "error", err)
		stored = false
	}

	pushed, err := s.Push(ctx, c)
	if err != nil {
		if stored && keepQueued(err) {
			log.Info(ctx, "expense claim queued", "id", c.ID, "error", err)
			return &Outcome[models.ExpenseClaim]{Record: pushed, Notice: queuedNotice(err)}, nil
		}
		if stored {
			s.Discard(ctx, c.ID)
		}
		return nil, fmt.Errorf("expense claim not recorded: %w", err)
	}
	return &Outcome[models.ExpenseClaim]{Record: pushed, Synced: true}, nil
}

func (s *expenseService) Push(ctx context.Context, c models.ExpenseClaim) (models.ExpenseClaim, error) {
	log := s.session.log()

	if c.LocalReceipt != "" {
		key, err := s.uploader.Upload(ctx, c.TenantID, KindReceipt, c.LocalReceipt)
		if err != nil {
			return c, fmt.Errorf("upload receipt: %w", err)
		}
		c.ReceiptURL, c.LocalReceipt = key, ""
		if err := s.repo.Save(ctx, &c); err != nil {
			log.Warn(ctx, "failed to record uploaded receipt", "id", c.ID, "error", err)
		}
	}

	var (
		out models.ExpenseClaim
		err error
	)
	if models.IsProvisional(c.ID) {
		out, err = s.client.CreateExpenseClaim(ctx, c)
	} else {
		out, err = s.client.UpdateExpenseClaim(ctx, c)
	}
	if err != nil {
		return c, err
	}

	if out.ID != c.ID {
		if err := s.repo.ReplaceID(ctx, c.ID, out.ID); err != nil && !errors.Is(err, dbx.ErrNoRowsAffected) {
			log.Warn(ctx, "failed to confirm queued expense claim", "id", c.ID, "error", err)
		}
	}
	out.Synced = true
	if err := s.repo.Save(ctx, &out); err != nil {
		log.Warn(ctx, "failed to store confirmed expense claim", "id", out.ID, "error", err)
	}
	return out, nil
}

func (s *expenseService) Discard(ctx context.Context, id string) {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.session.log().Warn(ctx, "failed to discard refused expense claim", "id", id, "error", err)
		return
	}
	s.session.log().Info(ctx, "refused expense claim discarded", "id", id)
}

func (s *expenseService) List(ctx context.Context) reconcile.Result[models.ExpenseClaim] {
	log := s.session.log()
	scope := s.session.Scope

	res := reconcile.Fetch(ctx, log, s.cache, scope.CacheKey("expense-claims"), func(ctx context.Context) ([]models.ExpenseClaim, error) {
		return s.client.GetExpenseClaims(ctx, scope)
	})

	stored, err := s.repo.ListByUser(ctx, scope)
	if err != nil {
		log.Error(ctx, "failed to read local expense claims", "error", err)
		res.Degraded = true
		return res
	}

	local := stored
	if res.Source != reconcile.SourceNone {
		local = local[:0:0]
		for _, c := range stored {
			if !c.Synced {
				local = append(local, c)
			}
		}
	}
	res.Items = reconcile.MergeByKey(res.Items, local, reconcile.ExpenseKey)
	return res
}
