package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/punchkeeper/internal/client/client"
	"github.com/dmitrijs2005/punchkeeper/internal/client/models"
	"github.com/dmitrijs2005/punchkeeper/internal/client/reconcile"
	"github.com/dmitrijs2005/punchkeeper/internal/client/repositories/leaves"
	"github.com/dmitrijs2005/punchkeeper/internal/client/worktime"
	"github.com/dmitrijs2005/punchkeeper/internal/common"
	"github.com/dmitrijs2005/punchkeeper/internal/dbx"
)

type LeaveService interface {
	Create(ctx context.Context, form *worktime.LeaveForm) (*Outcome[models.LeaveRequest], error)
	// Edit rewrites a PENDING request from form.
	Edit(ctx context.Context, id string, form *worktime.LeaveForm) (*Outcome[models.LeaveRequest], error)
	Cancel(ctx context.Context, id string) (*Outcome[models.LeaveRequest], error)
	List(ctx context.Context) reconcile.Result[models.LeaveRequest]
	Balances(ctx context.Context) reconcile.Result[models.LeaveBalance]
	// DaysUsed counts approved leave taken up to today.
	DaysUsed(ctx context.Context) (int, string)
	// Push sends one queued request and marks it synced.
	Push(ctx context.Context, r models.LeaveRequest) (models.LeaveRequest, error)
	// Discard drops a queued request or edit the server refused. A refused
	// edit of a server request falls back to the server's copy.
	Discard(ctx context.Context, id string)
}

type leaveService struct {
	session Session
	client  client.Client
	repo    leaves.Repository
	cache   reconcile.Cache
}

func NewLeaveService(session Session, c client.Client, repo leaves.Repository, cache reconcile.Cache) LeaveService {
	return &leaveService{session: session, client: c, repo: repo, cache: cache}
}

func (s *leaveService) Create(ctx context.Context, form *worktime.LeaveForm) (*Outcome[models.LeaveRequest], error) {
	if err := form.Validate(s.session.today()); err != nil {
		return nil, err
	}
	r := form.Request(s.session.Scope)
	r.ID = models.NewProvisionalID()
	r.CreatedAt = s.session.now()
	return s.store(ctx, r)
}

func (s *leaveService) Edit(ctx context.Context, id string, form *worktime.LeaveForm) (*Outcome[models.LeaveRequest], error) {
	if err := form.Validate(s.session.today()); err != nil {
		return nil, err
	}
	cur, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	next := form.Request(s.session.Scope)
	next.ID = cur.ID
	next.CreatedAt = cur.CreatedAt
	return s.store(ctx, next)
}

func (s *leaveService) Cancel(ctx context.Context, id string) (*Outcome[models.LeaveRequest], error) {
	cur, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	// never reached the server: dropping it is the whole cancellation
	if models.IsProvisional(cur.ID) {
		if err := s.repo.Delete(ctx, cur.ID); err != nil {
			return nil, fmt.Errorf("cancel leave request: %w", err)
		}
		cur.Status = models.StatusCancelled
		return &Outcome[models.LeaveRequest]{Record: cur}, nil
	}

	cur.Status = models.StatusCancelled
	return s.store(ctx, cur)
}

// find returns an editable request visible to the user.
func (s *leaveService) find(ctx context.Context, id string) (models.LeaveRequest, error) {
	for _, r := range s.List(ctx).Items {
		if r.ID != id {
			continue
		}
		if !r.Status.Editable() {
			return r, fmt.Errorf("%w: %s is %s", ErrNotEditable, id, r.Status)
		}
		return r, nil
	}
	return models.LeaveRequest{}, fmt.Errorf("leave request %s: %w", id, common.ErrorNotFound)
}

func (s *leaveService) store(ctx context.Context, r models.LeaveRequest) (*Outcome[models.LeaveRequest], error) {
	log := s.session.log()
	r.Synced = false

	stored := true
	if err := s.repo.Save(ctx, &r); err != nil {
		log.Error(ctx, "failed to queue leave request", "id", r.ID, "error", err)
		stored = false
	}

	pushed, err := s.Push(ctx, r)
	if err != nil {
		if stored && keepQueued(err) {
			log.Info(ctx, "leave request queued", "id", r.ID, "error", err)
			return &Outcome[models.LeaveRequest]{Record: r, Notice: queuedNotice(err)}, nil
		}
		if stored {
			s.Discard(ctx, r.ID)
		}
		return nil, fmt.Errorf("leave request not recorded: %w", err)
	}
	return &Outcome[models.LeaveRequest]{Record: pushed, Synced: true}, nil
}

func (s *leaveService) Push(ctx context.Context, r models.LeaveRequest) (models.LeaveRequest, error) {
	log := s.session.log()

	var (
		out models.LeaveRequest
		err error
	)
	if models.IsProvisional(r.ID) {
		out, err = s.client.CreateLeaveRequest(ctx, r)
	} else {
		out, err = s.client.UpdateLeaveRequest(ctx, r)
	}
	if err != nil {
		return r, err
	}

	if out.ID != r.ID {
		if err := s.repo.ReplaceID(ctx, r.ID, out.ID); err != nil && !errors.Is(err, dbx.ErrNoRowsAffected) {
			log.Warn(ctx, "failed to confirm queued leave request", "id", r.ID, "error", err)
		}
	}
	out.Synced = true
	if err := s.repo.Save(ctx, &out); err != nil {
		log.Warn(ctx, "failed to store confirmed leave request", "id", out.ID, "error", err)
	}
	return out, nil
}

func (s *leaveService) Discard(ctx context.Context, id string) {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.session.log().Warn(ctx, "failed to discard refused leave request", "id", id, "error", err)
		return
	}
	s.session.log().Info(ctx, "refused leave request discarded", "id", id)
}

// List shows the server's requests with local edits laid over them. While
// nothing remote is available every locally known request is shown.
func (s *leaveService) List(ctx context.Context) reconcile.Result[models.LeaveRequest] {
	log := s.session.log()
	scope := s.session.Scope

	res := reconcile.Fetch(ctx, log, s.cache, scope.CacheKey("leave-requests"), func(ctx context.Context) ([]models.LeaveRequest, error) {
		return s.client.GetLeaveRequests(ctx, scope)
	})

	stored, err := s.repo.ListByUser(ctx, scope)
	if err != nil {
		log.Error(ctx, "failed to read local leave requests", "error", err)
		res.Degraded = true
		return res
	}

	local := stored
	if res.Source != reconcile.SourceNone {
		local = local[:0:0]
		for _, r := range stored {
			if !r.Synced {
				local = append(local, r)
			}
		}
	}
	res.Items = reconcile.MergeByKey(res.Items, local, reconcile.LeaveKey)
	return res
}

func (s *leaveService) Balances(ctx context.Context) reconcile.Result[models.LeaveBalance] {
	scope := s.session.Scope
	return reconcile.Fetch(ctx, s.session.log(), s.cache, scope.CacheKey("leave-balances"), func(ctx context.Context) ([]models.LeaveBalance, error) {
		return s.client.GetLeaveBalances(ctx, scope)
	})
}

func (s *leaveService) DaysUsed(ctx context.Context) (int, string) {
	res := s.List(ctx)
	return worktime.LeaveDaysUsed(res.Items, s.session.today()), res.Notice()
}
