// Package maintenance runs periodic upkeep on the record store.
package maintenance

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Optimizer is the store capability the job needs.
type Optimizer interface {
	Optimize(ctx context.Context) error
}

// Scheduler checkpoints and optimizes the store on a fixed interval.
type Scheduler struct {
	sched   gocron.Scheduler
	job     gocron.Job
	store   Optimizer
	logger  *slog.Logger
	timeout time.Duration
	runs    atomic.Int64
}

// New schedules the maintenance job. It does not run until Start.
func New(store Optimizer, interval time.Duration, logger *slog.Logger) (*Scheduler, error) {
	sched, err := gocron.NewScheduler(gocron.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	s := &Scheduler{
		sched:   sched,
		store:   store,
		logger:  logger,
		timeout: min(interval, 5*time.Minute),
	}

	s.job, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(s.run),
		gocron.WithName("store-maintenance"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, fmt.Errorf("schedule maintenance: %w", err)
	}

	return s, nil
}

// Start begins running the job on its interval.
func (s *Scheduler) Start() {
	s.sched.Start()
	s.logger.Info("store maintenance scheduled", "job", s.job.Name())
}

// RunNow triggers an immediate run outside the interval.
func (s *Scheduler) RunNow() error {
	return s.job.RunNow()
}

// Runs returns how many runs completed, successful or not.
func (s *Scheduler) Runs() int64 {
	return s.runs.Load()
}

// Shutdown stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Shutdown() error {
	return s.sched.Shutdown()
}

func (s *Scheduler) run() {
	defer s.runs.Add(1)

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	if err := s.store.Optimize(ctx); err != nil {
		s.logger.Error("store maintenance failed", "error", err)
		return
	}
	s.logger.Debug("store maintenance complete", "duration", time.Since(start))
}
