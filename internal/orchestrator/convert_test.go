package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"waugzee/internal/providers"
	"waugzee/internal/store"
)

func TestArtistFromNormalized_CarriesIDAndCoreFields(t *testing.T) {
	n := providers.NormalizedArtist{
		ID:       "artist-1",
		Name:     "Nirvana",
		SortName: "Nirvana",
		Status:   "ended",
		Genres:   []string{"grunge"},
	}

	a := ArtistFromNormalized(n)

	assert.Equal(t, "artist-1", a.ID)
	assert.Equal(t, "Nirvana", a.Name)
	assert.Equal(t, "ended", a.Status)
	assert.Equal(t, []string{"grunge"}, store.UnmarshalStringList(a.Genres))
}

func TestReleaseWithTracksFromNormalized_GroupsTracksByMedium(t *testing.T) {
	n := providers.NormalizedRelease{
		ID:             "rel-1",
		ReleaseGroupID: "rg-1",
		Title:          "Nevermind",
		Tracks: []providers.NormalizedTrack{
			{RecordingID: "rec-1", RecordingTitle: "Smells Like Teen Spirit", MediumNumber: 1, Position: 1, Title: "Smells Like Teen Spirit"},
			{RecordingID: "rec-2", RecordingTitle: "In Bloom", MediumNumber: 1, Position: 2, Title: "In Bloom"},
		},
	}

	release, pairs := ReleaseWithTracksFromNormalized(n)

	require.Equal(t, "rel-1", release.ID)
	require.Len(t, pairs, 2)

	discs := store.UnmarshalMedia(release.Media)
	require.Len(t, discs, 1)
	assert.Equal(t, 1, discs[0].Position)
	assert.Len(t, discs[0].Tracks, 2)
	assert.Equal(t, "Smells Like Teen Spirit", discs[0].Tracks[0].Title)
}

func TestReleaseWithTracksFromNormalized_TrackCarriesArtistCredit(t *testing.T) {
	n := providers.NormalizedRelease{
		ID:           "rel-3",
		ArtistCredit: []providers.ArtistCredit{{ArtistID: "artist-release", CreditedName: "Release Artist"}},
		Tracks: []providers.NormalizedTrack{
			{RecordingID: "rec-1", MediumNumber: 1, Position: 1, Title: "Has Own Credit", ArtistCredit: []providers.ArtistCredit{{ArtistID: "artist-feature", CreditedName: "Feature Artist"}}},
			{RecordingID: "rec-2", MediumNumber: 1, Position: 2, Title: "Falls Back To Release"},
		},
	}

	release, _ := ReleaseWithTracksFromNormalized(n)

	discs := store.UnmarshalMedia(release.Media)
	require.Len(t, discs, 1)
	require.Len(t, discs[0].Tracks, 2)
	assert.Equal(t, "artist-feature", discs[0].Tracks[0].ArtistID)
	assert.Equal(t, "artist-release", discs[0].Tracks[1].ArtistID)
}

func TestReleaseWithTracksFromNormalized_MultipleDiscs(t *testing.T) {
	n := providers.NormalizedRelease{
		ID: "rel-2",
		Tracks: []providers.NormalizedTrack{
			{RecordingID: "rec-1", MediumNumber: 1, Position: 1, Title: "A"},
			{RecordingID: "rec-2", MediumNumber: 2, Position: 1, Title: "B"},
		},
	}

	release, pairs := ReleaseWithTracksFromNormalized(n)

	discs := store.UnmarshalMedia(release.Media)
	assert.Len(t, discs, 2)
	assert.Len(t, pairs, 2)
}
