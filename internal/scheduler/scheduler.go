package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/wonny/astro/pkg/logger"
)

// Option configures a Scheduler
type Option func(*Scheduler)

// WithRetry sets how often a failed run is retried and the pause between attempts
func WithRetry(maxRetries int, delay time.Duration) Option {
	return func(s *Scheduler) {
		s.maxRetries = maxRetries
		s.retryDelay = delay
	}
}

// WithTimeout bounds a single run (all attempts included)
func WithTimeout(d time.Duration) Option {
	return func(s *Scheduler) {
		s.timeout = d
	}
}

type entry struct {
	job Job
	id  cron.EntryID
}

// Scheduler manages scheduled jobs
// ⭐ SSOT: 스케줄 관리는 이 스케줄러에서만
type Scheduler struct {
	cron    *cron.Cron
	logger  *logger.Logger
	jobs    map[string]entry
	history map[string]*JobHistory
	mu      sync.RWMutex

	// 실행 중 작업 취소용
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	maxRetries int
	retryDelay time.Duration
	timeout    time.Duration
}

// New creates a new scheduler
func New(log *logger.Logger, opts ...Option) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron:       cron.New(cron.WithSeconds()),
		logger:     log.Component("scheduler"),
		jobs:       make(map[string]entry),
		history:    make(map[string]*JobHistory),
		ctx:        ctx,
		cancel:     cancel,
		maxRetries: 2,
		retryDelay: time.Minute,
		timeout:    30 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddJob adds a job to the scheduler
func (s *Scheduler) AddJob(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := job.Name()
	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job %s already exists", name)
	}

	id, err := s.cron.AddFunc(job.Schedule(), func() {
		s.runJob(job)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule job %s: %w", name, err)
	}

	s.jobs[name] = entry{job: job, id: id}
	s.history[name] = &JobHistory{}

	s.logger.WithFields(map[string]interface{}{
		"job":      name,
		"schedule": job.Schedule(),
	}).Info("Job added to scheduler")

	return nil
}

// RemoveJob unschedules a job; its history is kept
func (s *Scheduler) RemoveJob(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, exists := s.jobs[name]
	if !exists {
		return fmt.Errorf("job %s not found", name)
	}

	s.cron.Remove(e.id)
	delete(s.jobs, name)
	s.logger.WithField("job", name).Info("Job removed from scheduler")

	return nil
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.logger.Info("Starting scheduler")
	s.cron.Start()
}

// Stop stops scheduling, cancels running jobs and waits for them
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	done := s.cron.Stop()
	s.cancel()
	<-done.Done()
	s.wg.Wait()
	s.logger.Info("Scheduler stopped")
}

// RunJob runs a job immediately (outside of schedule) and waits for it
func (s *Scheduler) RunJob(name string) (JobResult, error) {
	s.mu.RLock()
	e, exists := s.jobs[name]
	s.mu.RUnlock()

	if !exists {
		return JobResult{}, fmt.Errorf("job %s not found", name)
	}
	return s.runJob(e.job), nil
}

// runJob executes a job with retry logic and records the result
func (s *Scheduler) runJob(job Job) JobResult {
	s.wg.Add(1)
	defer s.wg.Done()

	name := job.Name()
	start := time.Now()
	s.logger.WithField("job", name).Info("Job started")

	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	var lastErr error
	attempts := 0
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		attempts++
		lastErr = job.Run(ctx)
		if lastErr == nil || ctx.Err() != nil {
			break
		}

		s.logger.WithFields(map[string]interface{}{
			"job":     name,
			"attempt": attempt + 1,
		}).WithError(lastErr).Warn("Job execution failed")

		if attempt < s.maxRetries {
			select {
			case <-ctx.Done():
			case <-time.After(s.retryDelay):
			}
		}
	}

	end := time.Now()
	result := JobResult{
		JobName:   name,
		StartTime: start,
		EndTime:   end,
		Duration:  end.Sub(start),
		Attempts:  attempts,
		Success:   lastErr == nil,
	}
	if lastErr != nil {
		result.Error = lastErr.Error()
	}

	s.mu.Lock()
	if h, ok := s.history[name]; ok {
		h.AddResult(result)
	}
	s.mu.Unlock()

	fields := map[string]interface{}{
		"job":      name,
		"duration": result.Duration.String(),
		"attempts": attempts,
	}
	if result.Success {
		s.logger.WithFields(fields).Info("Job completed successfully")
	} else {
		s.logger.WithFields(fields).WithError(lastErr).Error("Job failed after all retries")
	}

	return result
}

// Jobs returns the scheduled job names, sorted
func (s *Scheduler) Jobs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Stats returns run statistics of every scheduled job
func (s *Scheduler) Stats() []JobStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := make([]JobStats, 0, len(s.jobs))
	for name, e := range s.jobs {
		h := s.history[name]
		st := JobStats{
			JobName:     name,
			Schedule:    e.job.Schedule(),
			TotalRuns:   len(h.Results),
			SuccessRate: h.SuccessRate(),
		}
		if last, ok := h.Latest(); ok {
			st.LastRun = &last.StartTime
			st.LastSuccess = last.Success
			st.LastError = last.Error
		}
		if next := s.cron.Entry(e.id).Next; !next.IsZero() {
			st.NextRun = &next
		}
		stats = append(stats, st)
	}

	sort.Slice(stats, func(i, j int) bool { return stats[i].JobName < stats[j].JobName })
	return stats
}

// JobStats represents statistics for a job
type JobStats struct {
	JobName     string     `json:"job_name"`
	Schedule    string     `json:"schedule"`
	TotalRuns   int        `json:"total_runs"`
	SuccessRate float64    `json:"success_rate"`
	LastRun     *time.Time `json:"last_run,omitempty"`
	LastSuccess bool       `json:"last_success"`
	LastError   string     `json:"last_error,omitempty"`
	NextRun     *time.Time `json:"next_run,omitempty"`
}
