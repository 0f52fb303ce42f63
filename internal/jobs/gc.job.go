package jobs

import (
	"context"
	"time"

	"waugzee/internal/jobqueue"
	"waugzee/internal/logger"
)

// jobRetention is how long a completed job row is kept before GC, for the
// admin recent-jobs view. Failed rows are not deleted by GC.
const jobRetention = 7 * 24 * time.Hour

// GCJob deletes completed job rows older than jobRetention, hourly. Stuck
// processing rows are reset once at startup (see app.startBackgroundWork),
// not here.
type GCJob struct {
	queue *jobqueue.Queue
	log   logger.Logger
}

func NewGCJob(queue *jobqueue.Queue) *GCJob {
	return &GCJob{
		queue: queue,
		log:   logger.New("jobs").File("gc"),
	}
}

func (j *GCJob) Name() string       { return "job_gc" }
func (j *GCJob) Schedule() Schedule { return Hourly }

func (j *GCJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	deleted, err := j.queue.GC(ctx, jobRetention)
	if err != nil {
		return log.Err("failed to garbage-collect old jobs", err)
	}

	log.Info("job gc complete", "deleted", deleted)
	return nil
}
