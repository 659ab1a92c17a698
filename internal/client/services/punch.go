package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/punchkeeper/internal/client/client"
	"github.com/dmitrijs2005/punchkeeper/internal/client/geo"
	"github.com/dmitrijs2005/punchkeeper/internal/client/models"
	"github.com/dmitrijs2005/punchkeeper/internal/client/reconcile"
	"github.com/dmitrijs2005/punchkeeper/internal/client/repositories/punches"
	"github.com/dmitrijs2005/punchkeeper/internal/client/timeline"
	"github.com/dmitrijs2005/punchkeeper/internal/client/worktime"
	"github.com/dmitrijs2005/punchkeeper/internal/datex"
	"github.com/google/uuid"
)

// PunchService records clock punches and reports worked time.
type PunchService interface {
	// Punch records a punch of typ; an empty typ picks the next one by
	// alternation over today's punches.
	Punch(ctx context.Context, typ models.PunchType) (*Outcome[models.TimeEntry], error)
	// PunchWithPhoto is Punch with a photo attached. A photo that cannot be
	// uploaded never blocks the punch.
	PunchWithPhoto(ctx context.Context, typ models.PunchType, photoPath string) (*Outcome[models.TimeEntry], error)
	// History lists punches between two calendar days, inclusive.
	History(ctx context.Context, from, to time.Time) reconcile.Result[models.TimeEntry]
	Today(ctx context.Context) *DayView
	Month(ctx context.Context, year int, month time.Month) *MonthView
}

type DayView struct {
	Date     time.Time
	Timeline []timeline.Entry
	Worked   time.Duration
	Balance  time.Duration
	Next     models.PunchType
	Notice   string
}

type MonthView struct {
	Summary worktime.MonthSummary
	Notice  string
}

type punchService struct {
	session  Session
	client   client.Client
	repo     punches.Repository
	cache    reconcile.Cache
	locator  geo.Locator
	uploader *Uploader
	timeout  time.Duration
	required time.Duration
	busy     atomic.Bool
}

type PunchOptions struct {
	Locator         geo.Locator
	LocationTimeout time.Duration
	RequiredHours   time.Duration
	Uploader        *Uploader
}

func NewPunchService(session Session, c client.Client, repo punches.Repository, cache reconcile.Cache, opts PunchOptions) PunchService {
	required := opts.RequiredHours
	if required <= 0 {
		required = worktime.DefaultRequired
	}
	return &punchService{
		session:  session,
		client:   c,
		repo:     repo,
		cache:    cache,
		locator:  opts.Locator,
		uploader: opts.Uploader,
		timeout:  opts.LocationTimeout,
		required: required,
	}
}

func (s *punchService) Punch(ctx context.Context, typ models.PunchType) (*Outcome[models.TimeEntry], error) {
	return s.PunchWithPhoto(ctx, typ, "")
}

func (s *punchService) PunchWithPhoto(ctx context.Context, typ models.PunchType, photoPath string) (*Outcome[models.TimeEntry], error) {
	if !s.busy.CompareAndSwap(false, true) {
		return nil, ErrActionInProgress
	}
	defer s.busy.Store(false)

	log := s.session.log()

	if typ == "" {
		typ = s.Today(ctx).Next
	}
	if !typ.Valid() {
		return nil, fmt.Errorf("unknown punch type %q", typ)
	}

	entry := models.TimeEntry{
		ID:       uuid.NewString(),
		TenantID: s.session.Scope.TenantID,
		UserID:   s.session.Scope.UserID,
		Type:     typ,
	}

	var notices []string
	loc, err := geo.Acquire(ctx, s.locator, s.timeout)
	if err != nil {
		log.Warn(ctx, "punching without location", "error", err)
		entry.VerificationSkipped = true
		notices = append(notices, NoticeVerificationSkipped)
	}
	entry.Location = loc
	entry.Timestamp = s.session.now()

	if photoPath != "" {
		key, err := s.attachPhoto(ctx, entry.TenantID, photoPath)
		if err != nil {
			log.Warn(ctx, "punching without photo", "path", photoPath, "error", err)
			notices = append(notices, NoticePhotoSkipped)
		}
		entry.PhotoURL = key
	}

	stored := true
	if err := s.repo.Save(ctx, &entry); err != nil {
		log.Error(ctx, "failed to queue punch", "id", entry.ID, "error", err)
		stored = false
		notices = append(notices, NoticeStorageFailed)
	}

	_, err = s.client.SaveTimePunch(ctx, entry)
	if err != nil {
		if stored && keepQueued(err) {
			log.Info(ctx, "punch queued", "id", entry.ID, "type", entry.Type, "error", err)
			notices = append(notices, queuedNotice(err))
			return &Outcome[models.TimeEntry]{Record: entry, Notice: joinNotices(notices)}, nil
		}
		if stored {
			if err := s.repo.Delete(ctx, entry.ID); err != nil {
				log.Warn(ctx, "failed to drop refused punch", "id", entry.ID, "error", err)
			}
		}
		return nil, fmt.Errorf("punch not recorded: %w", err)
	}

	entry.Synced = true
	if stored {
		if err := s.repo.MarkSynced(ctx, entry.ID); err != nil {
			log.Warn(ctx, "failed to mark punch synced", "id", entry.ID, "error", err)
		} else if err := s.repo.Delete(ctx, entry.ID); err != nil {
			log.Warn(ctx, "failed to drop synced punch", "id", entry.ID, "error", err)
		}
	}
	rememberPunch(ctx, s.session, s.cache, entry)
	log.Info(ctx, "punch recorded", "id", entry.ID, "type", entry.Type)
	return &Outcome[models.TimeEntry]{Record: entry, Synced: true, Notice: joinNotices(notices)}, nil
}

func (s *punchService) attachPhoto(ctx context.Context, tenantID, path string) (string, error) {
	if s.uploader == nil {
		return "", errors.New("photo uploads are not configured")
	}
	return s.uploader.Upload(ctx, tenantID, KindPunchPhoto, path)
}

func (s *punchService) History(ctx context.Context, from, to time.Time) reconcile.Result[models.TimeEntry] {
	scope := s.session.Scope
	key := punchCacheKey(scope, from, to)

	// The server buckets days in UTC. A day either side covers every
	// offset; the local days are cut out of the answer.
	fromS, toS := datex.FormatDate(datex.AddDays(from, -1)), datex.FormatDate(datex.AddDays(to, 1))
	res := reconcile.Fetch(ctx, s.session.log(), s.cache, key, func(ctx context.Context) ([]models.TimeEntry, error) {
		items, err := s.client.GetTimeEntries(ctx, scope, fromS, toS)
		if err != nil {
			return nil, err
		}
		return punchesBetween(items, from, to), nil
	})

	local, err := s.repo.ListByUser(ctx, scope)
	if err != nil {
		s.session.log().Error(ctx, "failed to read queued punches", "error", err)
		res.Degraded = true
	}

	res.Items = reconcile.MergeByKey(res.Items, punchesBetween(local, from, to), reconcile.PunchKey)
	sort.SliceStable(res.Items, func(i, j int) bool {
		return res.Items[i].Timestamp.Before(res.Items[j].Timestamp)
	})
	return res
}

// Today works from whatever is available: remote, cache or the local queue.
func (s *punchService) Today(ctx context.Context) *DayView {
	now := s.session.now()
	day := datex.Midnight(now)

	res := s.History(ctx, day, day)

	tl := timeline.Build(res.Items, nil, day)
	worked := worktime.DailyWorked(res.Items, day, now)
	return &DayView{
		Date:     day,
		Timeline: tl,
		Worked:   worked,
		Balance:  worktime.HourBank(worked, s.required),
		Next:     timeline.Next(tl),
		Notice:   res.Notice(),
	}
}

func (s *punchService) Month(ctx context.Context, year int, month time.Month) *MonthView {
	first, last := datex.MonthBounds(year, month, s.session.loc())
	res := s.History(ctx, first, last)
	return &MonthView{
		Summary: worktime.Summarize(res.Items, year, month, s.session.now(), s.required),
		Notice:  res.Notice(),
	}
}

// punchesBetween keeps the entries whose local calendar day lies in
// [from, to]. Days are read in from's location.
func punchesBetween(items []models.TimeEntry, from, to time.Time) []models.TimeEntry {
	var out []models.TimeEntry
	for _, e := range items {
		if datex.CompareDays(from, e.Timestamp) <= 0 && datex.CompareDays(to, e.Timestamp) >= 0 {
			out = append(out, e)
		}
	}
	return out
}

func punchCacheKey(scope models.Scope, from, to time.Time) string {
	return scope.CacheKey("time-entries:" + datex.FormatDate(from) + ":" + datex.FormatDate(to))
}

// rememberPunch adds a confirmed punch to the cached copy of its day, so the
// day still shows it offline once the queue no longer holds it. A cached copy
// of its month is updated as well.
func rememberPunch(ctx context.Context, session Session, cache reconcile.Cache, e models.TimeEntry) {
	local := e.Timestamp.In(session.loc())
	day := datex.Midnight(local)
	first, last := datex.MonthBounds(local.Year(), local.Month(), session.loc())

	mergeCachedPunch(ctx, session, cache, punchCacheKey(session.Scope, day, day), e, true)
	mergeCachedPunch(ctx, session, cache, punchCacheKey(session.Scope, first, last), e, false)
}

// mergeCachedPunch merges e into the list cached under key. Without a
// cached list it starts one only when create is set.
func mergeCachedPunch(ctx context.Context, session Session, cache reconcile.Cache, key string, e models.TimeEntry, create bool) {
	var items []models.TimeEntry
	raw, err := cache.Get(ctx, key)
	if err == nil && raw == nil && !create {
		return
	}
	if err == nil && raw != nil {
		err = json.Unmarshal(raw, &items)
	}
	if err != nil {
		session.log().Warn(ctx, "cached punches unreadable", "key", key, "error", err)
		items = nil
	}

	items = reconcile.MergeByKey(items, []models.TimeEntry{e}, reconcile.PunchKey)
	raw, err = json.Marshal(items)
	if err == nil {
		err = cache.Set(ctx, key, raw)
	}
	if err != nil {
		session.log().Warn(ctx, "failed to cache confirmed punch", "key", key, "id", e.ID, "error", err)
	}
}

func joinNotices(n []string) string {
	return strings.Join(n, "; ")
}
