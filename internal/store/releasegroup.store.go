package store

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"waugzee/internal/logger"
	"waugzee/internal/models"
)

type ReleaseGroupStore struct{}

func (s *ReleaseGroupStore) log() logger.Logger { return logger.New("store").File("releasegroup") }

func (s *ReleaseGroupStore) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.ReleaseGroup, error) {
	log := s.log().Function("GetByID")

	rg, err := gorm.G[*models.ReleaseGroup](tx).Where("id = ?", id).First(ctx)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, log.Err("failed to get release group by id", err, "id", id)
	}
	return rg, nil
}

// Upsert writes rg idempotently keyed by rg.ID. Unlike Artist, a release
// group has no isFullData guard in the spec — every upstream shape this
// service fetches for a release group is already the full detail record,
// since the lightweight album-enumeration shape (NormalizedReleaseGroupRef)
// never reaches the store directly.
func (s *ReleaseGroupStore) Upsert(ctx context.Context, tx *gorm.DB, rg *models.ReleaseGroup) error {
	log := s.log().Function("Upsert")

	now := time.Now()
	rg.LastUpdatedAt = now
	expires := now.Add(ArtistNeedsRefreshTTL)
	rg.TTLExpiresAt = &expires

	if err := tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "disambiguation", "primary_type", "secondary_types",
			"first_release_date", "artist_credit", "aliases", "tags", "genres",
			"rating", "last_updated_at", "ttl_expires_at", "updated_at",
		}),
	}).Create(rg).Error; err != nil {
		return log.Err("failed to upsert release group", err, "id", rg.ID)
	}
	return nil
}

func (s *ReleaseGroupStore) UpdateOverview(ctx context.Context, tx *gorm.DB, id, overview string) error {
	log := s.log().Function("UpdateOverview")

	_, err := gorm.G[*models.ReleaseGroup](tx).Where("id = ?", id).Updates(ctx, map[string]any{
		"overview": overview,
	})
	if err != nil {
		return log.Err("failed to update release group overview", err, "id", id)
	}
	return nil
}

func (s *ReleaseGroupStore) TouchAccess(ctx context.Context, tx *gorm.DB, id string) error {
	now := time.Now()
	_, err := gorm.G[*models.ReleaseGroup](tx).Where("id = ?", id).Updates(ctx, map[string]any{
		"access_count":     gorm.Expr("access_count + 1"),
		"last_accessed_at": now,
	})
	return err
}

func (s *ReleaseGroupStore) IsWithinTTL(rg *models.ReleaseGroup) bool {
	return rg.TTLExpiresAt != nil && rg.TTLExpiresAt.After(time.Now())
}

func (s *ReleaseGroupStore) Releases(ctx context.Context, tx *gorm.DB, releaseGroupID string) ([]*models.Release, error) {
	log := s.log().Function("Releases")

	releases, err := gorm.G[*models.Release](tx).Where("release_group_id = ?", releaseGroupID).Find(ctx)
	if err != nil {
		return nil, log.Err("failed to list releases for release group", err, "releaseGroupID", releaseGroupID)
	}
	return releases, nil
}

// MarshalArtistCredit serializes the ordered artist-credit list. Always a
// list, never a bare object, even for a single credited artist, per the
// normalization contract.
func MarshalArtistCredit(credit []models.ArtistCreditEntry) datatypes.JSON {
	if credit == nil {
		credit = []models.ArtistCreditEntry{}
	}
	b, _ := json.Marshal(credit)
	return datatypes.JSON(b)
}

func UnmarshalArtistCredit(raw datatypes.JSON) []models.ArtistCreditEntry {
	if len(raw) == 0 {
		return nil
	}
	var out []models.ArtistCreditEntry
	_ = json.Unmarshal(raw, &out)
	return out
}
