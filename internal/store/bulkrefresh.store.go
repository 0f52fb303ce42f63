package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"waugzee/internal/logger"
	"waugzee/internal/models"
)

// BulkRefreshStore tracks runs of the daily refresh-all cron, surfaced on
// the admin stats surface. Grounded on the teacher's repository shape even
// though this row has no upsert path — it is append-then-update, like a
// single long-running job.
type BulkRefreshStore struct{}

func (s *BulkRefreshStore) log() logger.Logger { return logger.New("store").File("bulkrefresh") }

func (s *BulkRefreshStore) Start(ctx context.Context, tx *gorm.DB) (*models.BulkRefresh, error) {
	log := s.log().Function("Start")

	run := &models.BulkRefresh{
		StartedAt: time.Now(),
		Status:    models.JobStatusProcessing,
	}
	if err := gorm.G[*models.BulkRefresh](tx).Create(ctx, run); err != nil {
		return nil, log.Err("failed to start bulk refresh run", err)
	}
	return run, nil
}

func (s *BulkRefreshStore) Complete(ctx context.Context, tx *gorm.DB, id string, artistsRefreshed int) error {
	log := s.log().Function("Complete")

	now := time.Now()
	_, err := gorm.G[*models.BulkRefresh](tx).Where("id = ?", id).Updates(ctx, models.BulkRefresh{
		CompletedAt:      &now,
		Status:           models.JobStatusCompleted,
		ArtistsRefreshed: artistsRefreshed,
	})
	if err != nil {
		return log.Err("failed to complete bulk refresh run", err, "id", id)
	}
	return nil
}

func (s *BulkRefreshStore) Latest(ctx context.Context, tx *gorm.DB) (*models.BulkRefresh, error) {
	log := s.log().Function("Latest")

	runs, err := gorm.G[*models.BulkRefresh](tx).Order("started_at DESC").Limit(1).Find(ctx)
	if err != nil {
		return nil, log.Err("failed to load latest bulk refresh run", err)
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return runs[0], nil
}
