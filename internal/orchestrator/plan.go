package orchestrator

import "waugzee/internal/providers"

// decideAlbumsToFetch is the pure decide step for artist album enumeration:
// given the full upstream listing and the set of release-group ids already
// linked to the artist, return exactly the refs that (a) pass the
// album-type filter and (b) are not already linked — the delta-refresh
// policy in one function, unit-testable without any HTTP or database call.
func decideAlbumsToFetch(upstream []providers.NormalizedReleaseGroupRef, alreadyLinked map[string]bool, albumTypes []string) []providers.NormalizedReleaseGroupRef {
	out := make([]providers.NormalizedReleaseGroupRef, 0, len(upstream))
	for _, ref := range upstream {
		if alreadyLinked[ref.ID] {
			continue
		}
		if !matchesAnyAlbumType(ref, albumTypes) {
			continue
		}
		out = append(out, ref)
	}
	return out
}

// decideReleasesToFetch is the pure decide step for a release group's
// release enumeration: which release refs pass the configured
// release-status filter.
func decideReleasesToFetch(upstream []providers.NormalizedReleaseRef, releaseStatuses []string) []providers.NormalizedReleaseRef {
	out := make([]providers.NormalizedReleaseRef, 0, len(upstream))
	for _, ref := range upstream {
		if matchesReleaseStatus(ref.Status, releaseStatuses) {
			out = append(out, ref)
		}
	}
	return out
}

// decideExplicitAlbumFetch reports whether a single, explicitly requested
// release group should skip the album-type filter entirely — it always
// should, per §4.6: "an explicit album fetch bypasses the album-type
// filter; only the artist-wide enumeration applies it." Kept as a named
// function rather than inlined true so the bypass is visible at the call
// site and in tests.
func decideExplicitAlbumFetch() bool {
	return true
}
