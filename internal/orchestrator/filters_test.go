package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"waugzee/internal/providers"
)

func TestMatchesAnyAlbumType_StudioRejectsLiveSecondary(t *testing.T) {
	ref := providers.NormalizedReleaseGroupRef{PrimaryType: "Album", SecondaryTypes: []string{"Live"}}
	assert.False(t, matchesAnyAlbumType(ref, []string{"Studio"}))
}

func TestMatchesAnyAlbumType_StudioAcceptsBareAlbum(t *testing.T) {
	ref := providers.NormalizedReleaseGroupRef{PrimaryType: "Album", SecondaryTypes: []string{}}
	assert.True(t, matchesAnyAlbumType(ref, []string{"Studio"}))
}

func TestMatchesAnyAlbumType_LiveMatchesSecondaryType(t *testing.T) {
	ref := providers.NormalizedReleaseGroupRef{PrimaryType: "Album", SecondaryTypes: []string{"Live"}}
	assert.True(t, matchesAnyAlbumType(ref, []string{"Live"}))
}

func TestMatchesAnyAlbumType_EmptyFilterMatchesEverything(t *testing.T) {
	ref := providers.NormalizedReleaseGroupRef{PrimaryType: "Broadcast"}
	assert.True(t, matchesAnyAlbumType(ref, nil))
}

func TestMatchesAnyAlbumType_AnyOfMultiplePredicatesMatches(t *testing.T) {
	ref := providers.NormalizedReleaseGroupRef{PrimaryType: "EP"}
	assert.True(t, matchesAnyAlbumType(ref, []string{"Studio", "EP"}))
}

func TestMatchesReleaseStatus(t *testing.T) {
	assert.True(t, matchesReleaseStatus("Official", []string{"Official", "Promotion"}))
	assert.False(t, matchesReleaseStatus("Bootleg", []string{"Official", "Promotion"}))
	assert.True(t, matchesReleaseStatus("Bootleg", nil))
}
