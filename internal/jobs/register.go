package jobs

import (
	"waugzee/internal/events"
	"waugzee/internal/jobqueue"
	"waugzee/internal/logger"
	"waugzee/internal/store"
)

// RegisterAllJobs constructs and registers every calendar job with the
// scheduler. Mirrors the teacher's jobs.RegisterAllJobs entry point,
// narrowed from a per-domain job list down to the two this service needs.
func RegisterAllJobs(scheduler *Scheduler, store *store.Store, queue *jobqueue.Queue, eventBus *events.EventBus) error {
	log := logger.New("jobs").Function("RegisterAllJobs")

	jobs := []Job{
		NewBulkRefreshJob(store, queue, eventBus),
		NewGCJob(queue),
	}

	for _, job := range jobs {
		if err := scheduler.AddJob(job); err != nil {
			return log.Err("failed to register job", err, "job", job.Name())
		}
	}

	log.Info("all jobs registered", "count", len(jobs))
	return nil
}
