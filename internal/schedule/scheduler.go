// Package schedule runs named jobs at fixed intervals for as long as a
// context lives.
package schedule

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/punchkeeper/internal/logging"
)

type Job struct {
	Name     string
	Interval time.Duration
	Fn       func(ctx context.Context) error
	// Immediate runs the job once as soon as the scheduler starts.
	Immediate bool
}

type Scheduler struct {
	log  logging.Logger
	jobs []Job
	mu   sync.Mutex
}

func NewScheduler(log logging.Logger) *Scheduler {
	return &Scheduler{log: log.With("module", "schedule")}
}

func (s *Scheduler) AddJob(job Job) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs = append(s.jobs, job)
	s.log.Debug(context.Background(), "job registered", "name", job.Name, "interval", job.Interval)
}

// Run starts every registered job and blocks until ctx is done and all
// running jobs have returned.
func (s *Scheduler) Run(ctx context.Context) error {
	s.mu.Lock()
	jobs := append([]Job(nil), s.jobs...)
	s.mu.Unlock()

	var wg sync.WaitGroup
	for _, job := range jobs {
		wg.Add(1)
		go func(job Job) {
			defer wg.Done()
			s.runJob(ctx, job)
		}(job)
	}

	s.log.Debug(ctx, "scheduler started", "job_count", len(jobs))
	wg.Wait()
	s.log.Debug(context.Background(), "scheduler stopped")
	return nil
}

func (s *Scheduler) runJob(ctx context.Context, job Job) {
	if job.Interval <= 0 {
		s.log.Warn(ctx, "job has no interval, not scheduled", "name", job.Name)
		return
	}

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	if job.Immediate {
		s.execute(ctx, job)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.execute(ctx, job)
		}
	}
}

func (s *Scheduler) execute(ctx context.Context, job Job) {
	start := time.Now()
	if err := job.Fn(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		s.log.Warn(ctx, "job failed", "name", job.Name, "error", err, "duration", time.Since(start))
		return
	}
	s.log.Debug(ctx, "job completed", "name", job.Name, "duration", time.Since(start))
}

// RunOnce runs every job once, in registration order.
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.mu.Lock()
	jobs := append([]Job(nil), s.jobs...)
	s.mu.Unlock()

	for _, job := range jobs {
		s.execute(ctx, job)
	}
}
