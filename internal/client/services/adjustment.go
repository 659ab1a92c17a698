package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/punchkeeper/internal/client/client"
	"github.com/dmitrijs2005/punchkeeper/internal/client/models"
	"github.com/dmitrijs2005/punchkeeper/internal/client/reconcile"
	"github.com/dmitrijs2005/punchkeeper/internal/client/repositories/adjustments"
	"github.com/dmitrijs2005/punchkeeper/internal/client/timeline"
	"github.com/dmitrijs2005/punchkeeper/internal/client/worktime"
	"github.com/dmitrijs2005/punchkeeper/internal/datex"
	"github.com/dmitrijs2005/punchkeeper/internal/validator"
)

// AdjustmentService builds and submits corrections of past days.
type AdjustmentService interface {
	// Preview merges the confirmed punches of day with drafts.
	Preview(ctx context.Context, day time.Time, drafts []models.AdjustmentDraft) ([]timeline.Entry, string)
	// Submit turns drafts into one adjustment request for day.
	Submit(ctx context.Context, day time.Time, drafts []models.AdjustmentDraft, reason string) (*Outcome[models.AdjustmentRequest], error)
	// Load returns remote requests merged with the staged ones.
	Load(ctx context.Context) reconcile.Result[models.AdjustmentRequest]
	// Confirm sends one staged request and swaps its provisional id.
	Confirm(ctx context.Context, a models.AdjustmentRequest) (models.AdjustmentRequest, error)
	// Discard drops a staged request the server refused.
	Discard(ctx context.Context, id string)
}

type adjustmentService struct {
	session  Session
	client   client.Client
	staging  adjustments.Repository
	cache    reconcile.Cache
	punches  PunchService
	uploader *Uploader
}

func NewAdjustmentService(session Session, c client.Client, staging adjustments.Repository, cache reconcile.Cache, punches PunchService, uploader *Uploader) AdjustmentService {
	return &adjustmentService{
		session:  session,
		client:   c,
		staging:  staging,
		cache:    cache,
		punches:  punches,
		uploader: uploader,
	}
}

func (s *adjustmentService) dayOf(day time.Time) time.Time {
	return datex.Midnight(day.In(s.session.loc()))
}

func (s *adjustmentService) Preview(ctx context.Context, day time.Time, drafts []models.AdjustmentDraft) ([]timeline.Entry, string) {
	day = s.dayOf(day)
	res := s.punches.History(ctx, day, day)
	return timeline.Build(res.Items, drafts, day), res.Notice()
}

func validateDrafts(day, today time.Time, drafts []models.AdjustmentDraft) error {
	var errs validator.ValidationErrors
	if datex.CompareDays(day, today) > 0 {
		errs.Add("date", "must not be in the future")
	}
	if len(drafts) == 0 {
		errs.Add("punches", "add at least one punch")
	}
	for i, d := range drafts {
		field := fmt.Sprintf("punch[%d]", i+1)
		if !validator.IsValidClock(d.Time) {
			errs.Add(field+".time", "must be a time in HH:MM format")
		}
		if validator.IsEmpty(d.Reason) {
			errs.Add(field+".reason", "is required")
		}
	}
	return errs.Err()
}

func (s *adjustmentService) Submit(ctx context.Context, day time.Time, drafts []models.AdjustmentDraft, reason string) (*Outcome[models.AdjustmentRequest], error) {
	log := s.session.log()
	day = s.dayOf(day)
	date := datex.FormatDate(day)

	if err := validateDrafts(day, s.session.today(), drafts); err != nil {
		return nil, err
	}

	for _, a := range s.Load(ctx).Items {
		if a.Date == date && a.Status.BlocksResubmission() {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateAdjustment, date)
		}
	}

	confirmed := s.punches.History(ctx, day, day).Items
	entries := timeline.Build(confirmed, drafts, day)

	byDraft := make(map[string]models.AdjustmentDraft, len(drafts))
	for _, d := range drafts {
		byDraft[d.ID] = d
	}

	var requested []models.RequestedPunch
	var combined []models.TimeEntry
	for _, e := range entries {
		combined = append(combined, models.TimeEntry{Type: e.InferredType, Timestamp: e.Timestamp})
		if !e.IsNew {
			continue
		}
		d := byDraft[e.DraftID]
		requested = append(requested, models.RequestedPunch{
			Time:          d.Time,
			Type:          e.InferredType,
			Reason:        strings.TrimSpace(d.Reason),
			LocalDocument: d.Document,
		})
	}

	if strings.TrimSpace(reason) == "" {
		reason = requested[0].Reason
	}

	origIn, origOut := worktime.Bounds(confirmed, day)
	reqIn, reqOut := worktime.Bounds(combined, day)

	req := models.AdjustmentRequest{
		ID:                models.NewProvisionalID(),
		TenantID:          s.session.Scope.TenantID,
		UserID:            s.session.Scope.UserID,
		EmployeeName:      s.session.EmployeeName,
		Date:              date,
		OriginalClockIn:   origIn,
		OriginalClockOut:  origOut,
		RequestedClockIn:  reqIn,
		RequestedClockOut: reqOut,
		RequestedPunches:  requested,
		Reason:            strings.TrimSpace(reason),
		Status:            models.AdjustmentPending,
		CreatedAt:         s.session.now(),
	}

	stored := true
	if err := s.staging.Save(ctx, &req); err != nil {
		log.Error(ctx, "failed to stage adjustment", "date", date, "error", err)
		stored = false
	}

	confirmedReq, err := s.Confirm(ctx, req)
	if err != nil {
		if stored && keepQueued(err) {
			log.Info(ctx, "adjustment staged", "id", req.ID, "date", date, "error", err)
			return &Outcome[models.AdjustmentRequest]{Record: req, Notice: queuedNotice(err)}, nil
		}
		if stored {
			s.Discard(ctx, req.ID)
		}
		return nil, fmt.Errorf("adjustment not recorded: %w", err)
	}
	return &Outcome[models.AdjustmentRequest]{Record: confirmedReq, Synced: true}, nil
}

// Confirm uploads pending documents, creates the request remotely and
// moves the staged copy to the server id.
func (s *adjustmentService) Confirm(ctx context.Context, a models.AdjustmentRequest) (models.AdjustmentRequest, error) {
	log := s.session.log()
	provisionalID := a.ID

	for i, p := range a.RequestedPunches {
		if p.LocalDocument == "" {
			continue
		}
		key, err := s.uploader.Upload(ctx, a.TenantID, KindAdjustmentDocument, p.LocalDocument)
		if err != nil {
			return a, fmt.Errorf("upload document for %s: %w", p.Time, err)
		}
		a.RequestedPunches[i].DocumentURL = key
		a.RequestedPunches[i].LocalDocument = ""
		if a.DocumentURL == "" {
			a.DocumentURL = key
		}
		// keep progress so a retry does not upload twice
		if err := s.staging.Save(ctx, &a); err != nil {
			log.Warn(ctx, "failed to persist upload progress", "id", a.ID, "error", err)
		}
	}

	created, err := s.client.CreateTimeAdjustmentRequest(ctx, a)
	if err != nil {
		return a, err
	}

	if err := s.staging.ReplaceID(ctx, provisionalID, created.ID); err != nil {
		log.Warn(ctx, "failed to confirm staged adjustment", "id", provisionalID, "error", err)
	}
	if err := s.staging.Save(ctx, &created); err != nil {
		log.Warn(ctx, "failed to store confirmed adjustment", "id", created.ID, "error", err)
	}
	log.Info(ctx, "adjustment submitted", "id", created.ID, "date", created.Date)
	return created, nil
}

func (s *adjustmentService) Discard(ctx context.Context, id string) {
	if err := s.staging.Delete(ctx, id); err != nil {
		s.session.log().Warn(ctx, "failed to discard refused adjustment", "id", id, "error", err)
		return
	}
	s.session.log().Info(ctx, "refused adjustment discarded", "id", id)
}

// Load reads requests remotely, falling back to the cache, then lays the
// staged requests over them by (date, status). Staged requests the server
// already returns are dropped from staging.
func (s *adjustmentService) Load(ctx context.Context) reconcile.Result[models.AdjustmentRequest] {
	log := s.session.log()
	scope := s.session.Scope

	res := reconcile.Fetch(ctx, log, s.cache, scope.CacheKey("time-adjustments"), func(ctx context.Context) ([]models.AdjustmentRequest, error) {
		return s.client.GetTimeAdjustmentRequests(ctx, scope)
	})

	staged, err := s.staging.List(ctx, scope)
	if err != nil {
		log.Error(ctx, "failed to read staged adjustments", "error", err)
		res.Degraded = true
		return res
	}

	if res.Source == reconcile.SourceRemote {
		pruned := reconcile.PruneConfirmed(staged, res.Items, reconcile.AdjustmentID)
		if len(pruned) != len(staged) {
			if err := s.staging.Replace(ctx, scope, pruned); err != nil {
				log.Error(ctx, "failed to persist staged adjustments", "error", err)
				res.Degraded = true
			}
		}
		staged = pruned
	}

	res.Items = reconcile.MergeByKey(res.Items, staged, reconcile.AdjustmentKey)
	return res
}
