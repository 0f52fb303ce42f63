package store

import (
	"context"
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"waugzee/internal/logger"
	"waugzee/internal/models"
)

type ReleaseStore struct{}

func (s *ReleaseStore) log() logger.Logger { return logger.New("store").File("release") }

func (s *ReleaseStore) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Release, error) {
	log := s.log().Function("GetByID")

	release, err := gorm.G[*models.Release](tx).Where("id = ?", id).First(ctx)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, log.Err("failed to get release by id", err, "id", id)
	}
	return release, nil
}

// UpsertWithTracks writes the release row and its denormalized media blob,
// and upserts every Recording + Track it carries. All the writes run in one
// transaction (a savepoint when tx is already a transaction) so a partial
// release (release row without its tracks) is never observable (invariant 1).
func (s *ReleaseStore) UpsertWithTracks(ctx context.Context, tx *gorm.DB, release *models.Release, tracks []TrackWithRecording) error {
	return tx.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.upsertWithTracks(ctx, tx, release, tracks)
	})
}

func (s *ReleaseStore) upsertWithTracks(ctx context.Context, tx *gorm.DB, release *models.Release, tracks []TrackWithRecording) error {
	log := s.log().Function("UpsertWithTracks")

	release.TrackCount = len(tracks)
	if release.MediaCount == 0 && len(tracks) > 0 {
		maxMedium := 0
		for _, t := range tracks {
			if t.Track.MediumNumber > maxMedium {
				maxMedium = t.Track.MediumNumber
			}
		}
		release.MediaCount = maxMedium
	}

	if err := tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"release_group_id", "title", "status", "release_date", "country",
			"barcode", "labels", "artist_credit", "media_count", "track_count",
			"disambiguation", "media", "updated_at",
		}),
	}).Create(release).Error; err != nil {
		return log.Err("failed to upsert release", err, "id", release.ID)
	}

	for _, tr := range tracks {
		if err := tx.WithContext(ctx).Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"title", "disambiguation", "length_ms", "updated_at",
			}),
		}).Create(&tr.Recording).Error; err != nil {
			return log.Err("failed to upsert recording", err, "id", tr.Recording.ID)
		}

		tr.Track.RecordingID = tr.Recording.ID
		tr.Track.ReleaseID = release.ID
		if err := tx.WithContext(ctx).Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "release_id"}, {Name: "medium_number"}, {Name: "position"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"title", "length_ms", "artist_credit", "recording_id", "updated_at",
			}),
		}).Create(&tr.Track).Error; err != nil {
			return log.Err("failed to upsert track", err, "releaseID", release.ID, "position", tr.Track.Position)
		}
	}

	return nil
}

// TrackWithRecording pairs a Track row with the Recording it places, since
// both are always written together when a release is fetched.
type TrackWithRecording struct {
	Track     models.Track
	Recording models.Recording
}

func MarshalLabels(labels []string) datatypes.JSON {
	if labels == nil {
		labels = []string{}
	}
	b, _ := json.Marshal(labels)
	return datatypes.JSON(b)
}

func MarshalMedia(discs []models.MediaDisc) datatypes.JSON {
	if discs == nil {
		discs = []models.MediaDisc{}
	}
	b, _ := json.Marshal(discs)
	return datatypes.JSON(b)
}

func UnmarshalMedia(raw datatypes.JSON) []models.MediaDisc {
	if len(raw) == 0 {
		return nil
	}
	var out []models.MediaDisc
	_ = json.Unmarshal(raw, &out)
	return out
}
