// Package jobqueue implements the durable, database-backed job queue (C4):
// a FIFO-within-priority table of pending work items, claimed atomically by
// worker pools via a single skip-locked UPDATE. The queue never imports
// internal/workers — breaking the teacher source's cyclic-requires problem
// (job queue requires image downloader which requires job queue) by
// knowing only that *something* will claim and process a job, not which
// package does it.
package jobqueue

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"waugzee/internal/logger"
	"waugzee/internal/models"
)

type Queue struct {
	db  *gorm.DB
	log logger.Logger
}

func New(db *gorm.DB) *Queue {
	return &Queue{db: db, log: logger.New("jobqueue")}
}

// Enqueue inserts a job row, or — on a (job_type, entity_id) conflict —
// upgrades priority to max(old, new) and resurrects a failed row to
// pending. pending/processing rows are left untouched. Implements the
// deduplicated-enqueue law in §8.
func (q *Queue) Enqueue(ctx context.Context, jobType models.JobType, entityType models.EntityType, entityID string, priority int, metadata datatypes.JSON) (string, error) {
	log := q.log.Function("Enqueue")

	var jobID uuid.UUID
	err := q.db.WithContext(ctx).Raw(`
		INSERT INTO jobs (id, job_type, entity_type, entity_id, priority, status, attempts, max_attempts, metadata, created_at, updated_at)
		VALUES (gen_random_uuid(), ?, ?, ?, ?, 'pending', 0, ?, ?, now(), now())
		ON CONFLICT (job_type, entity_id) DO UPDATE SET
			priority = GREATEST(jobs.priority, EXCLUDED.priority),
			status = CASE WHEN jobs.status = 'failed' THEN 'pending' ELSE jobs.status END,
			updated_at = now()
		RETURNING id
	`, jobType, entityType, entityID, priority, models.MaxJobAttempts, metadata).Scan(&jobID).Error
	if err != nil {
		return "", log.Err("failed to enqueue job", err, "jobType", jobType, "entityID", entityID)
	}

	return jobID.String(), nil
}

// Claim atomically selects the highest-priority, oldest pending row whose
// job_type is in jobTypes, locks it with FOR UPDATE SKIP LOCKED so a
// concurrent claimer skips it rather than blocking, and flips it to
// processing — all in one statement, per §4.4's "a single atomic statement
// must achieve this" requirement.
func (q *Queue) Claim(ctx context.Context, jobTypes []models.JobType) (*models.Job, error) {
	log := q.log.Function("Claim")

	if len(jobTypes) == 0 {
		return nil, nil
	}

	var job models.Job
	err := q.db.WithContext(ctx).Raw(`
		UPDATE jobs
		SET status = 'processing', started_at = now(), attempts = attempts + 1, updated_at = now()
		WHERE id = (
			SELECT id FROM jobs
			WHERE status = 'pending' AND job_type IN (?)
			ORDER BY priority DESC, created_at ASC
			FOR UPDATE SKIP LOCKED
			LIMIT 1
		)
		RETURNING *
	`, jobTypes).Scan(&job).Error
	if err != nil {
		return nil, log.Err("failed to claim job", err, "jobTypes", jobTypes)
	}

	if job.ID == uuid.Nil {
		return nil, nil
	}
	return &job, nil
}

// Complete marks a job successfully finished.
func (q *Queue) Complete(ctx context.Context, id string) error {
	log := q.log.Function("Complete")

	_, err := gorm.G[*models.Job](q.db).Where("id = ?", id).Updates(ctx, map[string]any{
		"status":       models.JobStatusCompleted,
		"completed_at": time.Now(),
	})
	if err != nil {
		return log.Err("failed to complete job", err, "id", id)
	}
	return nil
}

// Fail records errMsg and either returns the job to pending for another
// attempt, or — once attempts has reached max_attempts — marks it
// terminally failed.
func (q *Queue) Fail(ctx context.Context, id string, errMsg string) error {
	log := q.log.Function("Fail")

	var job models.Job
	if err := q.db.WithContext(ctx).Raw(`SELECT * FROM jobs WHERE id = ?`, id).Scan(&job).Error; err != nil {
		return log.Err("failed to load job before failing it", err, "id", id)
	}

	status := models.JobStatusPending
	if !job.CanRetry() {
		status = models.JobStatusFailed
	}

	_, err := gorm.G[*models.Job](q.db).Where("id = ?", id).Updates(ctx, map[string]any{
		"status":        status,
		"error_message": errMsg,
	})
	if err != nil {
		return log.Err("failed to record job failure", err, "id", id)
	}
	return nil
}

// ResetStuck returns every processing row to pending (the process that
// claimed it is gone) and every failed-but-retryable row to pending. Run
// once at startup.
func (q *Queue) ResetStuck(ctx context.Context) (int64, error) {
	log := q.log.Function("ResetStuck")

	result := q.db.WithContext(ctx).Exec(`
		UPDATE jobs SET status = 'pending', updated_at = now()
		WHERE status = 'processing'
		   OR (status = 'failed' AND attempts < max_attempts)
	`)
	if result.Error != nil {
		return 0, log.Err("failed to reset stuck jobs", result.Error)
	}

	log.Info("reset stuck jobs", "count", result.RowsAffected)
	return result.RowsAffected, nil
}

// GC deletes completed rows older than retention. Run hourly.
func (q *Queue) GC(ctx context.Context, retention time.Duration) (int64, error) {
	log := q.log.Function("GC")

	cutoff := time.Now().Add(-retention)
	result := q.db.WithContext(ctx).Exec(`
		DELETE FROM jobs WHERE status = 'completed' AND completed_at < ?
	`, cutoff)
	if result.Error != nil {
		return 0, log.Err("failed to garbage collect jobs", result.Error)
	}

	log.Info("garbage collected completed jobs", "count", result.RowsAffected)
	return result.RowsAffected, nil
}

// Stats returns a count of jobs per status, for the admin surface.
func (q *Queue) Stats(ctx context.Context) (map[models.JobStatus]int64, error) {
	log := q.log.Function("Stats")

	var rows []struct {
		Status models.JobStatus
		Count  int64
	}
	if err := q.db.WithContext(ctx).Raw(`SELECT status, count(*) as count FROM jobs GROUP BY status`).Scan(&rows).Error; err != nil {
		return nil, log.Err("failed to compute job stats", err)
	}

	out := make(map[models.JobStatus]int64, len(rows))
	for _, r := range rows {
		out[r.Status] = r.Count
	}
	return out, nil
}

// Recent returns the most recently updated jobs, newest first, for the
// admin surface.
func (q *Queue) Recent(ctx context.Context, limit int) ([]*models.Job, error) {
	log := q.log.Function("Recent")

	jobs, err := gorm.G[*models.Job](q.db).Order("updated_at DESC").Limit(limit).Find(ctx)
	if err != nil {
		return nil, log.Err("failed to list recent jobs", err)
	}
	return jobs, nil
}

// Clear deletes every job row regardless of status — an operator escape
// hatch exposed on the admin surface, not part of the normal lifecycle.
func (q *Queue) Clear(ctx context.Context) error {
	log := q.log.Function("Clear")

	if err := q.db.WithContext(ctx).Exec(`DELETE FROM jobs`).Error; err != nil {
		return log.Err("failed to clear jobs", err)
	}
	return nil
}
