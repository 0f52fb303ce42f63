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

// ArtistNeedsRefreshTTL is how long a stored artist is trusted before the
// next read triggers a refresh (§4.2: "last_updated_at is older than 30
// days"). Mirrored as the default for config.ArtistTTLDays.
const ArtistNeedsRefreshTTL = 30 * 24 * time.Hour

type ArtistStore struct{}

func (s *ArtistStore) log() logger.Logger { return logger.New("store").File("artist") }

func (s *ArtistStore) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Artist, error) {
	log := s.log().Function("GetByID")

	artist, err := gorm.G[*models.Artist](tx).Where("id = ?", id).First(ctx)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, log.Err("failed to get artist by id", err, "id", id)
	}
	return artist, nil
}

// UpsertArtist writes a is idempotently keyed by a.ID. isFullData guards the
// Overview column: a sparse search-listing result must never blank out a
// richer detail-fetch result (§4.2). Every other column is written
// unconditionally because the sparse shape is always a subset of the full
// shape, never a contradiction of it.
func (s *ArtistStore) UpsertArtist(ctx context.Context, tx *gorm.DB, a *models.Artist, isFullData bool) error {
	log := s.log().Function("UpsertArtist")

	now := time.Now()
	a.LastUpdatedAt = now
	expires := now.Add(ArtistNeedsRefreshTTL)
	a.TTLExpiresAt = &expires

	assignColumns := []string{
		"name", "sort_name", "disambiguation", "type", "country",
		"begin_date", "end_date", "gender", "ended", "status",
		"aliases", "tags", "genres", "rating",
		"last_updated_at", "ttl_expires_at", "updated_at", "fetch_complete",
	}
	if isFullData {
		assignColumns = append(assignColumns, "overview")
	}

	if err := tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(assignColumns),
	}).Create(a).Error; err != nil {
		return log.Err("failed to upsert artist", err, "id", a.ID)
	}
	return nil
}

// NeedsRefresh implements artistNeedsRefresh(a) from §4.2: true when the
// full album enumeration never completed, or the stored copy has aged past
// the TTL window.
func (s *ArtistStore) NeedsRefresh(a *models.Artist) bool {
	if !a.FetchComplete {
		return true
	}
	return time.Since(a.LastUpdatedAt) > ArtistNeedsRefreshTTL
}

func (s *ArtistStore) MarkFetchComplete(ctx context.Context, tx *gorm.DB, artistID string, releasesFetchedCount int) error {
	log := s.log().Function("MarkFetchComplete")

	_, err := gorm.G[*models.Artist](tx).Where("id = ?", artistID).Updates(ctx, map[string]any{
		"fetch_complete":          true,
		"releases_fetched_count":  releasesFetchedCount,
		"last_fetch_attempt":      time.Now(),
	})
	if err != nil {
		return log.Err("failed to mark artist fetch complete", err, "artistID", artistID)
	}
	return nil
}

func (s *ArtistStore) TouchAccess(ctx context.Context, tx *gorm.DB, artistID string) error {
	now := time.Now()
	_, err := gorm.G[*models.Artist](tx).Where("id = ?", artistID).Updates(ctx, map[string]any{
		"access_count":      gorm.Expr("access_count + 1"),
		"last_accessed_at":  now,
	})
	return err
}

// LinkToReleaseGroup inserts the ArtistReleaseGroup join row if absent,
// satisfying invariant 2 (no dangling ends) by relying on the caller having
// already upserted both sides first.
func (s *ArtistStore) LinkToReleaseGroup(ctx context.Context, tx *gorm.DB, artistID, releaseGroupID string, position int) error {
	log := s.log().Function("LinkToReleaseGroup")

	link := &models.ArtistReleaseGroup{
		ArtistID:       artistID,
		ReleaseGroupID: releaseGroupID,
		Position:       position,
	}

	if err := tx.WithContext(ctx).Clauses(clause.OnConflict{
		DoNothing: true,
	}).Create(link).Error; err != nil {
		return log.Err("failed to link artist to release group", err, "artistID", artistID, "releaseGroupID", releaseGroupID)
	}
	return nil
}

// ReleaseGroupIDs returns every release-group id currently linked to the
// artist — used by the delta-refresh policy to compute which upstream
// albums are genuinely new.
func (s *ArtistStore) ReleaseGroupIDs(ctx context.Context, tx *gorm.DB, artistID string) ([]string, error) {
	log := s.log().Function("ReleaseGroupIDs")

	links, err := gorm.G[*models.ArtistReleaseGroup](tx).Where("artist_id = ?", artistID).Find(ctx)
	if err != nil {
		return nil, log.Err("failed to list artist release groups", err, "artistID", artistID)
	}

	ids := make([]string, 0, len(links))
	for _, l := range links {
		ids = append(ids, l.ReleaseGroupID)
	}
	return ids, nil
}

// GetByIDs batches an artist lookup across many ids into one query,
// indexed by id — the first of the formatter's three-query batching rule
// for embedded-artist responses (the other two are LinkStore.ForEntities
// and ImageStore.ForEntities).
func (s *ArtistStore) GetByIDs(ctx context.Context, tx *gorm.DB, ids []string) (map[string]*models.Artist, error) {
	log := s.log().Function("GetByIDs")

	if len(ids) == 0 {
		return map[string]*models.Artist{}, nil
	}

	artists, err := gorm.G[*models.Artist](tx).Where("id IN ?", ids).Find(ctx)
	if err != nil {
		return nil, log.Err("failed to batch get artists", err, "count", len(ids))
	}

	out := make(map[string]*models.Artist, len(artists))
	for _, a := range artists {
		out[a.ID] = a
	}
	return out, nil
}

func (s *ArtistStore) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	return gorm.G[*models.Artist](tx).Count(ctx, "id")
}

// AllIDs returns every known artist's ID, used by the daily bulk-refresh
// job to re-enqueue an artist_full fetch for the whole cached catalog
// regardless of individual TTL state.
func (s *ArtistStore) AllIDs(ctx context.Context, tx *gorm.DB) ([]string, error) {
	log := s.log().Function("AllIDs")

	artists, err := gorm.G[*models.Artist](tx).Select("id").Find(ctx)
	if err != nil {
		return nil, log.Err("failed to list artist ids", err)
	}

	ids := make([]string, 0, len(artists))
	for _, a := range artists {
		ids = append(ids, a.ID)
	}
	return ids, nil
}

// MarshalStringList serializes a []string into the JSONB shape stored on
// Aliases/Tags/Genres columns; nil stays nil (semantically "unknown"),
// distinct from an empty-but-present list ("known-empty").
func MarshalStringList(values []string) datatypes.JSON {
	if values == nil {
		return nil
	}
	b, _ := json.Marshal(values)
	return datatypes.JSON(b)
}

func UnmarshalStringList(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}
	var out []string
	_ = json.Unmarshal(raw, &out)
	return out
}
