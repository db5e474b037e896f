// Package scheduler runs periodic maintenance jobs on cron schedules.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// JobFunc is one run of a scheduled job
type JobFunc func(ctx context.Context) error

// JobStatus is the outcome of the most recent run of a job
type JobStatus struct {
	Name       string
	Schedule   string
	LastRunAt  time.Time
	LastError  string
	RunCount   int
	NextRunAt  time.Time
	InProgress bool
}

type job struct {
	name     string
	schedule string
	timeout  time.Duration
	fn       JobFunc
	entryID  cron.EntryID

	mu     sync.Mutex
	status JobStatus
}

// Scheduler runs jobs on standard five-field cron expressions.
// A run that is still in progress when its next tick fires is skipped.
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger

	mu      sync.Mutex
	jobs    []*job
	running bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// New creates a Scheduler. location defaults to UTC.
func New(logger *zap.Logger, location *time.Location) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if location == nil {
		location = time.UTC
	}
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(location)),
		logger: logger,
	}
}

// Register adds a job. timeout bounds one run; zero means no bound.
func (s *Scheduler) Register(name, schedule string, timeout time.Duration, fn JobFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return ErrAlreadyRunning
	}
	if name == "" || fn == nil {
		return fmt.Errorf("%w: job name and function are required", ErrInvalidConfig)
	}

	j := &job{
		name:     name,
		schedule: schedule,
		timeout:  timeout,
		fn:       fn,
		status:   JobStatus{Name: name, Schedule: schedule},
	}
	id, err := s.cron.AddFunc(schedule, func() { s.run(j) })
	if err != nil {
		return fmt.Errorf("%w: job %s has invalid schedule %q: %v", ErrInvalidConfig, name, schedule, err)
	}
	j.entryID = id
	s.jobs = append(s.jobs, j)
	return nil
}

// Start begins firing jobs. ctx is the parent of every run's context.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.running = true
	s.cron.Start()

	s.logger.Info("Scheduler started", zap.Int("jobs", len(s.jobs)))
	return nil
}

// Stop stops firing new runs, cancels in-flight ones and waits for them
// until ctx expires
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	cancel := s.cancel
	s.mu.Unlock()

	done := s.cron.Stop()
	cancel()

	select {
	case <-done.Done():
		s.logger.Info("Scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunNow executes the named job synchronously, outside its schedule
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	j := s.find(name)
	if j == nil {
		return fmt.Errorf("unknown job %q", name)
	}
	return s.execute(ctx, j)
}

// Status returns the status of every registered job
func (s *Scheduler) Status() []JobStatus {
	s.mu.Lock()
	jobs := append([]*job(nil), s.jobs...)
	s.mu.Unlock()

	out := make([]JobStatus, 0, len(jobs))
	for _, j := range jobs {
		j.mu.Lock()
		st := j.status
		j.mu.Unlock()
		if entry := s.cron.Entry(j.entryID); entry.Valid() {
			st.NextRunAt = entry.Next
		}
		out = append(out, st)
	}
	return out
}

func (s *Scheduler) find(name string) *job {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, j := range s.jobs {
		if j.name == name {
			return j
		}
	}
	return nil
}

// run is the cron callback
func (s *Scheduler) run(j *job) {
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := s.execute(ctx, j); err != nil && !errors.Is(err, errSkipped) {
		s.logger.Error("Scheduled job failed", zap.String("job", j.name), zap.Error(err))
	}
}

var errSkipped = errors.New("job run skipped: previous run still in progress")

func (s *Scheduler) execute(ctx context.Context, j *job) (err error) {
	j.mu.Lock()
	if j.status.InProgress {
		j.mu.Unlock()
		s.logger.Warn("Skipping job run, previous run still in progress", zap.String("job", j.name))
		return errSkipped
	}
	j.status.InProgress = true
	j.mu.Unlock()

	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job %s panicked: %v", j.name, r)
		}
		j.mu.Lock()
		j.status.InProgress = false
		j.status.LastRunAt = start
		j.status.RunCount++
		j.status.LastError = ""
		if err != nil {
			j.status.LastError = err.Error()
		}
		j.mu.Unlock()
	}()

	err = j.fn(ctx)
	s.logger.Debug("Scheduled job finished",
		zap.String("job", j.name),
		zap.Duration("duration", time.Since(start)),
		zap.Bool("success", err == nil))
	return err
}
