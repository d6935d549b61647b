package poll

import (
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/collabhub-app/collabhub-client/pkg/logger"
)

// Scheduler runs a job once immediately and then at a fixed period until
// stopped. It replaces implicit re-armed timers with an explicit handle a
// view's lifecycle can own: Start on mount, Stop on teardown. There is no
// backoff, no jitter and no dedup across overlapping fires; jobs have to be
// idempotent.
type Scheduler struct {
	mu      sync.Mutex
	cron    *cron.Cron
	period  time.Duration
	job     func()
	logger  logger.Interface
	running bool
}

// NewScheduler builds a Scheduler for the given period and job
func NewScheduler(period time.Duration, job func(), logging logger.Interface) *Scheduler {
	return &Scheduler{
		period: period,
		job:    job,
		logger: logging,
	}
}

// Start fires the job once synchronously and arms the periodic timer.
// Starting a running scheduler is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}

	s.job()

	s.cron = cron.New()
	s.cron.Schedule(cron.Every(s.period), cron.FuncJob(s.job))
	s.cron.Start()
	s.running = true
}

// Stop cancels the periodic timer. A fire already in flight finishes; its
// result lands on a view that may no longer care, which is harmless.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.cron.Stop()
	s.cron = nil
	s.running = false
}

// IsRunning reports whether the timer is armed
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.running
}
