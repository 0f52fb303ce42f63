// Package workers implements the worker pools (C5): small supervisors that
// poll internal/jobqueue for claimable work and run it with a bounded
// concurrency. Grounded on the teacher's SchedulerService lifecycle shape
// (Start/Stop guarded by a sync.Mutex, a cancellable context.Context) but
// polling a job queue instead of driving a gocron cron table.
package workers

import (
	"context"
	"sync"
	"time"

	"waugzee/internal/jobqueue"
	"waugzee/internal/logger"
	"waugzee/internal/models"
)

// ProcessorFunc executes one job's side effects. It is injected into a Pool
// at wiring time rather than imported by internal/jobqueue, which is what
// keeps the queue package free of a dependency on the orchestrator/provider
// stack that actually does the fetching.
type ProcessorFunc func(ctx context.Context, job *models.Job) error

// Pool claims jobs of a fixed set of job types and runs up to maxConcurrency
// of them at once. The canonical pool is wired with maxConcurrency=1, which
// the spec's ordering guarantee depends on: a single worker serializes
// every canonical-adapter call through the queue's priority/creation-time
// order.
type Pool struct {
	name          string
	jobTypes      []models.JobType
	maxConcurrency int
	pollInterval  time.Duration

	queue   *jobqueue.Queue
	process ProcessorFunc
	log     logger.Logger

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	sem     chan struct{}
}

// NewPool constructs a pool. jobTypes, maxConcurrency and pollInterval come
// from the spec's per-pool defaults table; process is the orchestrator/
// provider closure that actually does the work for this pool's job types.
func NewPool(name string, jobTypes []models.JobType, maxConcurrency int, pollInterval time.Duration, queue *jobqueue.Queue, process ProcessorFunc) *Pool {
	return &Pool{
		name:           name,
		jobTypes:       jobTypes,
		maxConcurrency: maxConcurrency,
		pollInterval:   pollInterval,
		queue:          queue,
		process:        process,
		log:            logger.New("workers").File(name),
		sem:            make(chan struct{}, maxConcurrency),
	}
}

// Start begins the poll loop in a background goroutine. Safe to call more
// than once; subsequent calls are no-ops while already started.
func (p *Pool) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	log := p.log.Function("Start")

	if p.started {
		log.Info("pool already started", "pool", p.name)
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.started = true

	p.wg.Add(1)
	go p.loop(runCtx)

	log.Info("pool started", "pool", p.name, "jobTypes", p.jobTypes, "concurrency", p.maxConcurrency)
}

// Stop cancels the poll loop and waits for in-flight jobs to finish their
// current processor call (processors are expected to respect ctx
// cancellation for anything long-running).
func (p *Pool) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	cancel := p.cancel
	p.started = false
	p.mu.Unlock()

	log := p.log.Function("Stop")
	log.Info("stopping pool", "pool", p.name)

	cancel()
	p.wg.Wait()

	log.Info("pool stopped", "pool", p.name)
}

func (p *Pool) loop(ctx context.Context) {
	defer p.wg.Done()

	log := p.log.Function("loop")
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.claimAndRun(ctx, log)
		}
	}
}

// claimAndRun acquires a concurrency slot first (non-blocking) so an idle
// poll never issues a Claim query it has no capacity to act on.
func (p *Pool) claimAndRun(ctx context.Context, log logger.Logger) {
	select {
	case p.sem <- struct{}{}:
	default:
		return
	}

	job, err := p.queue.Claim(ctx, p.jobTypes)
	if err != nil {
		<-p.sem
		log.Err("claim failed", err, "pool", p.name)
		return
	}
	if job == nil {
		<-p.sem
		return
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer func() { <-p.sem }()
		p.runOne(ctx, job, log)
	}()
}

func (p *Pool) runOne(ctx context.Context, job *models.Job, log logger.Logger) {
	err := p.process(ctx, job)
	if err != nil {
		if failErr := p.queue.Fail(ctx, job.ID.String(), err.Error()); failErr != nil {
			log.Err("failed to record job failure", failErr, "jobID", job.ID, "jobType", job.JobType)
		}
		log.Err("job processing failed", err, "jobID", job.ID, "jobType", job.JobType)
		return
	}

	if err := p.queue.Complete(ctx, job.ID.String()); err != nil {
		log.Err("failed to mark job complete", err, "jobID", job.ID, "jobType", job.JobType)
	}
}
