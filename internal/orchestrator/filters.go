// Package orchestrator implements ensureArtist/ensureAlbum (C6), the only
// two entry points for reads that may cause external traffic. The decide
// step (this file plus plan.go) is pure: given stored state and an
// upstream listing, what must be fetched or enqueued. The do step
// (orchestrator.go) executes those decisions against the providers and
// store. Grounded on the teacher's extractFolderSyncData/
// processFoldersResponse split in orchestration.service.go.
package orchestrator

import "waugzee/internal/providers"

// albumTypePredicate reports whether a release group's (primaryType,
// secondaryTypes) matches one named album type, per §4.6's mapping table.
type albumTypePredicate func(primaryType string, secondaryTypes []string) bool

var albumTypePredicates = map[string]albumTypePredicate{
	"Studio": func(primaryType string, secondaryTypes []string) bool {
		return primaryType == "Album" && len(secondaryTypes) == 0
	},
	"Live": func(_ string, secondaryTypes []string) bool {
		return contains(secondaryTypes, "Live")
	},
	"Compilation": func(_ string, secondaryTypes []string) bool {
		return contains(secondaryTypes, "Compilation")
	},
	"Soundtrack": func(_ string, secondaryTypes []string) bool {
		return contains(secondaryTypes, "Soundtrack")
	},
	"Remix": func(_ string, secondaryTypes []string) bool {
		return contains(secondaryTypes, "Remix")
	},
	"DJ-mix": func(_ string, secondaryTypes []string) bool {
		return contains(secondaryTypes, "DJ-mix")
	},
	"Mixtape": func(_ string, secondaryTypes []string) bool {
		return contains(secondaryTypes, "Mixtape/Street")
	},
	"Demo": func(_ string, secondaryTypes []string) bool {
		return contains(secondaryTypes, "Demo")
	},
	"Spokenword": func(primaryType string, _ []string) bool {
		return primaryType == "Other" || primaryType == "Spokenword"
	},
	"Interview": func(_ string, secondaryTypes []string) bool {
		return contains(secondaryTypes, "Interview")
	},
	"Audiobook": func(_ string, secondaryTypes []string) bool {
		return contains(secondaryTypes, "Audiobook")
	},
	"Audio drama": func(_ string, secondaryTypes []string) bool {
		return contains(secondaryTypes, "Audio drama")
	},
	"Field recording": func(_ string, secondaryTypes []string) bool {
		return contains(secondaryTypes, "Field recording")
	},
	"EP": func(primaryType string, _ []string) bool {
		return primaryType == "EP"
	},
	"Single": func(primaryType string, _ []string) bool {
		return primaryType == "Single"
	},
	"Broadcast": func(primaryType string, _ []string) bool {
		return primaryType == "Broadcast"
	},
	"Other": func(primaryType string, secondaryTypes []string) bool {
		return primaryType == "Other" || primaryType == ""
	},
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

// matchesAnyAlbumType reports whether a release-group ref passes the
// user's configured album-type filter. An album matches if any selected
// predicate matches; an empty configured set matches everything (no
// filter configured is not the same as "reject everything").
func matchesAnyAlbumType(ref providers.NormalizedReleaseGroupRef, albumTypes []string) bool {
	if len(albumTypes) == 0 {
		return true
	}
	for _, name := range albumTypes {
		pred, ok := albumTypePredicates[name]
		if !ok {
			continue
		}
		if pred(ref.PrimaryType, ref.SecondaryTypes) {
			return true
		}
	}
	return false
}

// matchesReleaseStatus reports whether a release ref passes the user's
// configured release-status filter.
func matchesReleaseStatus(status string, releaseStatuses []string) bool {
	if len(releaseStatuses) == 0 {
		return true
	}
	return contains(releaseStatuses, status)
}
