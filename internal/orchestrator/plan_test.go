package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"waugzee/internal/providers"
)

func TestDecideAlbumsToFetch_SkipsAlreadyLinked(t *testing.T) {
	upstream := []providers.NormalizedReleaseGroupRef{
		{ID: "rg-1", PrimaryType: "Album"},
		{ID: "rg-2", PrimaryType: "Album"},
	}
	alreadyLinked := map[string]bool{"rg-1": true}

	out := decideAlbumsToFetch(upstream, alreadyLinked, nil)

	assert.Len(t, out, 1)
	assert.Equal(t, "rg-2", out[0].ID)
}

func TestDecideAlbumsToFetch_AppliesAlbumTypeFilter(t *testing.T) {
	upstream := []providers.NormalizedReleaseGroupRef{
		{ID: "rg-1", PrimaryType: "Album", SecondaryTypes: []string{"Live"}},
		{ID: "rg-2", PrimaryType: "EP"},
	}

	out := decideAlbumsToFetch(upstream, map[string]bool{}, []string{"EP"})

	assert.Len(t, out, 1)
	assert.Equal(t, "rg-2", out[0].ID)
}

func TestDecideAlbumsToFetch_DeltaRefreshNeverReturnsEverythingOnFullOverlap(t *testing.T) {
	upstream := []providers.NormalizedReleaseGroupRef{
		{ID: "rg-1", PrimaryType: "Album"},
		{ID: "rg-2", PrimaryType: "Album"},
	}
	alreadyLinked := map[string]bool{"rg-1": true, "rg-2": true}

	out := decideAlbumsToFetch(upstream, alreadyLinked, nil)

	assert.Empty(t, out)
}

func TestDecideReleasesToFetch_FiltersByStatus(t *testing.T) {
	upstream := []providers.NormalizedReleaseRef{
		{ID: "r-1", Status: "Official"},
		{ID: "r-2", Status: "Bootleg"},
	}

	out := decideReleasesToFetch(upstream, []string{"Official"})

	assert.Len(t, out, 1)
	assert.Equal(t, "r-1", out[0].ID)
}

func TestDecideExplicitAlbumFetch_AlwaysBypassesFilter(t *testing.T) {
	assert.True(t, decideExplicitAlbumFetch())
}
