package orchestrator

import (
	"github.com/google/uuid"

	"waugzee/internal/models"
	"waugzee/internal/providers"
	"waugzee/internal/store"
)

func ArtistFromNormalized(n providers.NormalizedArtist) *models.Artist {
	a := &models.Artist{
		Name:           n.Name,
		SortName:       n.SortName,
		Disambiguation: n.Disambiguation,
		Type:           models.ArtistType(n.Type),
		Country:        n.Country,
		BeginDate:      n.BeginDate,
		EndDate:        n.EndDate,
		Gender:         n.Gender,
		Ended:          n.Ended,
		Status:         n.Status,
		Aliases:        store.MarshalStringList(n.Aliases),
		Tags:           store.MarshalStringList(n.Tags),
		Genres:         store.MarshalStringList(n.Genres),
		Rating:         n.Rating,
	}
	a.ID = n.ID
	return a
}

func ReleaseGroupFromNormalized(n providers.NormalizedReleaseGroup) *models.ReleaseGroup {
	rg := &models.ReleaseGroup{
		Title:            n.Title,
		Disambiguation:   n.Disambiguation,
		PrimaryType:      n.PrimaryType,
		SecondaryTypes:   store.MarshalStringList(n.SecondaryTypes),
		FirstReleaseDate: n.FirstReleaseDate,
		ArtistCredit:     store.MarshalArtistCredit(creditEntries(n.ArtistCredit)),
		Aliases:          store.MarshalStringList(n.Aliases),
		Tags:             store.MarshalStringList(n.Tags),
		Genres:           store.MarshalStringList(n.Genres),
		Rating:           n.Rating,
	}
	rg.ID = n.ID
	return rg
}

// firstCreditArtistID falls back to the release's own artist credit when a
// track carries none of its own (the common case — most tracks are credited
// to the release's primary artist and upstream omits a per-track override).
func firstCreditArtistID(credits []providers.ArtistCredit) string {
	if len(credits) == 0 {
		return ""
	}
	return credits[0].ArtistID
}

func creditEntries(credits []providers.ArtistCredit) []models.ArtistCreditEntry {
	out := make([]models.ArtistCreditEntry, 0, len(credits))
	for _, c := range credits {
		out = append(out, models.ArtistCreditEntry{
			ArtistID:     c.ArtistID,
			CreditedName: c.CreditedName,
			JoinPhrase:   c.JoinPhrase,
		})
	}
	return out
}

// ReleaseWithTracksFromNormalized converts a normalized release (plus its
// tracks) into the Release row and the per-track upsert pairs
// store.ReleaseStore.UpsertWithTracks expects.
func ReleaseWithTracksFromNormalized(n providers.NormalizedRelease) (*models.Release, []store.TrackWithRecording) {
	discs := map[int]*models.MediaDisc{}
	var discOrder []int

	trackPairs := make([]store.TrackWithRecording, 0, len(n.Tracks))
	for _, t := range n.Tracks {
		disc, ok := discs[t.MediumNumber]
		if !ok {
			disc = &models.MediaDisc{Position: t.MediumNumber}
			discs[t.MediumNumber] = disc
			discOrder = append(discOrder, t.MediumNumber)
		}

		trackID := uuid.New()
		var trackArtistID string
		if len(t.ArtistCredit) > 0 {
			trackArtistID = t.ArtistCredit[0].ArtistID
		} else {
			trackArtistID = firstCreditArtistID(n.ArtistCredit)
		}
		disc.Tracks = append(disc.Tracks, models.MediaDiscTrack{
			ID:          trackID.String(),
			RecordingID: t.RecordingID,
			Title:       t.Title,
			Position:    t.Position,
			LengthMS:    t.LengthMS,
			ArtistID:    trackArtistID,
		})

		trackPairs = append(trackPairs, store.TrackWithRecording{
			Track: models.Track{
				MediumNumber: t.MediumNumber,
				Position:     t.Position,
				Title:        t.Title,
				LengthMS:     t.LengthMS,
				ArtistCredit: store.MarshalArtistCredit(creditEntries(t.ArtistCredit)),
			},
			Recording: models.Recording{
				BaseMBIDModel:  models.BaseMBIDModel{ID: t.RecordingID},
				Title:          t.RecordingTitle,
				Disambiguation: t.Disambiguation,
				LengthMS:       t.LengthMS,
			},
		})
	}

	mediaBlob := make([]models.MediaDisc, 0, len(discOrder))
	for _, pos := range discOrder {
		mediaBlob = append(mediaBlob, *discs[pos])
	}

	release := &models.Release{
		ReleaseGroupID: n.ReleaseGroupID,
		Title:          n.Title,
		Status:         models.ReleaseStatus(n.Status),
		ReleaseDate:    n.ReleaseDate,
		Country:        n.Country,
		Barcode:        n.Barcode,
		Labels:         store.MarshalLabels(n.Labels),
		ArtistCredit:   store.MarshalArtistCredit(creditEntries(n.ArtistCredit)),
		Disambiguation: n.Disambiguation,
		Media:          store.MarshalMedia(mediaBlob),
	}
	release.ID = n.ID

	return release, trackPairs
}
