// Package jobs wires the two calendar-driven (not queue-driven) periodic
// triggers: the daily bulk-refresh sweep and the hourly stuck-job/GC
// sweep. Distinct from internal/jobqueue, which is the durable work
// queue the worker pools drain continuously — these are cron-style
// ticks that each enqueue or clean up queue rows.
package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"waugzee/internal/logger"
)

type Schedule int

const (
	Hourly Schedule = iota
	Daily           // Start at 02:00 UTC every day
)

// Job is a calendar-triggered task. Grounded on the teacher's
// services.Job/SchedulerService interface and mutex-guarded gocron wrapper.
type Job interface {
	Name() string
	Execute(ctx context.Context) error
	Schedule() Schedule
}

type Scheduler struct {
	scheduler *gocron.Scheduler
	jobs      []Job
	log       logger.Logger
	started   bool
	mu        sync.Mutex
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewScheduler() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		jobs:      make([]Job, 0),
		log:       logger.New("jobs").File("scheduler"),
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (s *Scheduler) executeJob(job Job, log logger.Logger) {
	log.Info("Executing scheduled job", "job", job.Name())
	if err := job.Execute(s.ctx); err != nil {
		_ = log.Err("job execution failed", err, "job", job.Name())
	} else {
		log.Info("job execution completed", "job", job.Name())
	}
}

func (s *Scheduler) AddJob(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.log.Function("AddJob")

	var err error
	switch job.Schedule() {
	case Daily:
		_, err = s.scheduler.Every(1).Day().At("02:00").Do(func() {
			s.executeJob(job, log)
		})
	case Hourly:
		_, err = s.scheduler.Every(1).Hour().Do(func() {
			s.executeJob(job, log)
		})
	}

	if err != nil {
		return log.Err("failed to register job with scheduler", err, "job", job.Name())
	}

	s.jobs = append(s.jobs, job)
	log.Info("job registered", "job", job.Name())
	return nil
}

func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.log.Function("Start")

	if s.started {
		return nil
	}
	if len(s.jobs) == 0 {
		log.Info("no jobs registered, scheduler will not start")
		return nil
	}

	s.scheduler.StartAsync()
	s.started = true
	log.Info("scheduler started", "jobCount", len(s.jobs))
	return nil
}

func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.log.Function("Stop")

	if !s.started {
		return nil
	}

	s.cancel()
	s.scheduler.Stop()
	s.started = false
	log.Info("scheduler stopped")
	return nil
}
