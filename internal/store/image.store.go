package store

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"waugzee/internal/logger"
	"waugzee/internal/models"
)

// maxImageCacheAttempts bounds how many download failures a single image row
// tolerates before NextDownloadCandidate stops offering it; below the bound
// a failure is retried on the next artwork-binary pool pass, per §7.5.
const maxImageCacheAttempts = 5

// imageRetryBackoff is the minimum time a failed download waits before it is
// eligible to be retried, so a flapping upstream doesn't get hammered every
// poll interval.
const imageRetryBackoff = 10 * time.Minute

type ImageStore struct{}

func (s *ImageStore) log() logger.Logger { return logger.New("store").File("image") }

// UpsertURL records a candidate artwork URL with cached=false. Re-running
// this for an entity with an unchanged URL only bumps last_verified_at — the
// image-refresh open question's resolution (DESIGN.md): binaries are only
// re-downloaded when cached is observed false. A URL that actually changed
// invalidates whatever was previously downloaded or failed, so cached,
// cache_failed, and fail_count reset and the row becomes a fresh download
// candidate.
func (s *ImageStore) UpsertURL(ctx context.Context, tx *gorm.DB, entityType models.EntityType, entityID string, coverType models.CoverType, provider, url string) error {
	log := s.log().Function("UpsertURL")

	existing, err := gorm.G[*models.Image](tx).
		Where("entity_type = ? AND entity_id = ? AND cover_type = ? AND provider = ?", entityType, entityID, coverType, provider).
		First(ctx)
	if err != nil && err != gorm.ErrRecordNotFound {
		return log.Err("failed to look up existing image", err, "entityID", entityID, "coverType", coverType)
	}

	now := time.Now()
	img := &models.Image{
		EntityType:     entityType,
		EntityID:       entityID,
		CoverType:      coverType,
		Provider:       provider,
		URL:            url,
		LastVerifiedAt: &now,
	}

	assignColumns := []string{"url", "last_verified_at", "updated_at"}

	urlChanged := err == nil && existing.URL != url
	if urlChanged {
		img.Cached = false
		img.CacheFailed = false
		img.FailCount = 0
		assignColumns = append(assignColumns, "cached", "cache_failed", "fail_count")
	}

	if err := tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entity_type"}, {Name: "entity_id"}, {Name: "cover_type"}, {Name: "provider"}},
		DoUpdates: clause.AssignmentColumns(assignColumns),
	}).Create(img).Error; err != nil {
		return log.Err("failed to upsert image url", err, "entityID", entityID, "coverType", coverType)
	}
	return nil
}

func (s *ImageStore) ForEntity(ctx context.Context, tx *gorm.DB, entityType models.EntityType, entityID string) ([]*models.Image, error) {
	log := s.log().Function("ForEntity")

	images, err := gorm.G[*models.Image](tx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to list images", err, "entityID", entityID)
	}
	return images, nil
}

// ForEntities batches an image lookup across many entities, backing the
// formatter's three-query batching rule.
func (s *ImageStore) ForEntities(ctx context.Context, tx *gorm.DB, entityType models.EntityType, entityIDs []string) (map[string][]*models.Image, error) {
	log := s.log().Function("ForEntities")

	if len(entityIDs) == 0 {
		return map[string][]*models.Image{}, nil
	}

	images, err := gorm.G[*models.Image](tx).
		Where("entity_type = ? AND entity_id IN ?", entityType, entityIDs).
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to batch list images", err, "count", len(entityIDs))
	}

	out := make(map[string][]*models.Image, len(entityIDs))
	for _, img := range images {
		out[img.EntityID] = append(out[img.EntityID], img)
	}
	return out, nil
}

// NextDownloadCandidate selects one non-cached, non-failed row for the
// artwork-binary pool: artist entities first, oldest last_verified_at
// first (§4.5).
func (s *ImageStore) NextDownloadCandidate(ctx context.Context, tx *gorm.DB) (*models.Image, error) {
	log := s.log().Function("NextDownloadCandidate")

	cutoff := time.Now().Add(-imageRetryBackoff)

	var img models.Image
	err := tx.WithContext(ctx).
		Where("cached = ? AND cache_failed = ? AND (last_attempt_at IS NULL OR last_attempt_at < ?)", false, false, cutoff).
		Order("CASE WHEN entity_type = 'artist' THEN 0 ELSE 1 END, last_verified_at ASC NULLS FIRST").
		Limit(1).
		Take(&img).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, log.Err("failed to select next download candidate", err)
	}
	return &img, nil
}

// MarkCached satisfies invariant 5: cached=true always pairs with a
// non-null local_path and cache_failed=false.
func (s *ImageStore) MarkCached(ctx context.Context, tx *gorm.DB, id, localPath string) error {
	log := s.log().Function("MarkCached")

	now := time.Now()
	_, err := gorm.G[*models.Image](tx).Where("id = ?", id).Updates(ctx, map[string]any{
		"cached":              true,
		"cache_failed":        false,
		"cache_failed_reason": nil,
		"fail_count":          0,
		"local_path":          localPath,
		"cached_at":           now,
		"last_attempt_at":     now,
	})
	if err != nil {
		return log.Err("failed to mark image cached", err, "id", id)
	}
	return nil
}

// MarkFailed records a download failure. cache_failed only flips permanent
// once the row has exhausted maxImageCacheAttempts — below that it stays
// eligible for NextDownloadCandidate, so a transient upstream error (a 503,
// a timeout) gets retried rather than dead-ending the image forever.
func (s *ImageStore) MarkFailed(ctx context.Context, tx *gorm.DB, id, reason string) error {
	log := s.log().Function("MarkFailed")

	img, err := gorm.G[*models.Image](tx).Where("id = ?", id).First(ctx)
	if err != nil {
		return log.Err("failed to load image before marking failed", err, "id", id)
	}

	failCount := img.FailCount + 1
	now := time.Now()
	_, err = gorm.G[*models.Image](tx).Where("id = ?", id).Updates(ctx, map[string]any{
		"cache_failed":        failCount >= maxImageCacheAttempts,
		"cache_failed_reason": reason,
		"fail_count":          failCount,
		"last_attempt_at":     now,
	})
	if err != nil {
		return log.Err("failed to mark image failed", err, "id", id)
	}
	return nil
}
