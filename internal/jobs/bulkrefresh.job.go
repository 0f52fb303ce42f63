package jobs

import (
	"context"

	"waugzee/internal/events"
	"waugzee/internal/jobqueue"
	"waugzee/internal/logger"
	"waugzee/internal/models"
	"waugzee/internal/store"
)

// BulkRefreshJob re-enqueues an artist_full fetch for every artist already
// in the cache, independent of each artist's own TTL — a catalog-wide sweep
// on a fixed daily schedule (the BULK_REFRESH_DAYS setting is not read
// here), distinct from the per-artist TTL check the synchronous read path
// performs on a cache hit.
type BulkRefreshJob struct {
	store    *store.Store
	queue    *jobqueue.Queue
	eventBus *events.EventBus
	log      logger.Logger
}

func NewBulkRefreshJob(store *store.Store, queue *jobqueue.Queue, eventBus *events.EventBus) *BulkRefreshJob {
	return &BulkRefreshJob{
		store:    store,
		queue:    queue,
		eventBus: eventBus,
		log:      logger.New("jobs").File("bulkrefresh"),
	}
}

func (j *BulkRefreshJob) Name() string       { return "bulk_refresh" }
func (j *BulkRefreshJob) Schedule() Schedule { return Daily }

func (j *BulkRefreshJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	run, err := j.store.BulkRefresh.Start(ctx, j.store.DB())
	if err != nil {
		return log.Err("failed to start bulk refresh run", err)
	}

	_ = j.eventBus.PublishJobEvent(events.BULK_REFRESH_STARTED, "", "", map[string]any{
		"runId": run.ID,
	})

	ids, err := j.store.Artist.AllIDs(ctx, j.store.DB())
	if err != nil {
		return log.Err("failed to list artists for bulk refresh", err)
	}

	enqueued := 0
	for _, id := range ids {
		meta := jobqueue.Marshal(jobqueue.ArtistFullMeta{Reason: "bulk_refresh"})
		if _, err := j.queue.Enqueue(ctx, models.JobTypeArtistFull, models.EntityTypeArtist, id, 0, meta); err != nil {
			log.Warn("failed to enqueue artist_full during bulk refresh", "artistID", id, "error", err)
			continue
		}
		enqueued++
	}

	if err := j.store.BulkRefresh.Complete(ctx, j.store.DB(), run.ID, enqueued); err != nil {
		return log.Err("failed to complete bulk refresh run", err, "runID", run.ID)
	}

	_ = j.eventBus.PublishJobEvent(events.BULK_REFRESH_COMPLETE, "", "", map[string]any{
		"runId":            run.ID,
		"artistsRefreshed": enqueued,
	})

	log.Info("bulk refresh complete", "runID", run.ID, "artistsRefreshed", enqueued, "totalArtists", len(ids))
	return nil
}

// TriggerBulkRefresh runs the same sweep on demand, for the admin
// /api/refresh/all endpoint.
func TriggerBulkRefresh(ctx context.Context, store *store.Store, queue *jobqueue.Queue, eventBus *events.EventBus) error {
	return NewBulkRefreshJob(store, queue, eventBus).Execute(ctx)
}
