// Package providers normalizes responses from external metadata sources
// into the provider-neutral shape the rest of the system consumes (C1 in
// the design). Every adapter advertises a closed set of Capability values;
// internal/providers.Registry is queried for "who can do X", never assumed.
package providers

import "context"

// Capability is one unit of adapter functionality. Replaces the source's
// reflection-based discovery of provider capabilities with an explicit,
// closed enumeration.
type Capability string

const (
	CapabilitySearchArtist              Capability = "searchArtist"
	CapabilityGetArtist                 Capability = "getArtist"
	CapabilityGetArtistAlbums           Capability = "getArtistAlbums"
	CapabilityGetReleaseGroup           Capability = "getReleaseGroup"
	CapabilityGetReleasesByReleaseGroup Capability = "getReleasesByReleaseGroup"
	CapabilityGetRelease                Capability = "getRelease"
	CapabilityGetArtistText             Capability = "getArtistText"
	CapabilityGetAlbumText              Capability = "getAlbumText"
	CapabilityArtistImages              Capability = "artistImages"
	CapabilityAlbumImages               Capability = "albumImages"
)

// Adapter is the minimal contract every provider satisfies.
type Adapter interface {
	Name() string
	Capabilities() []Capability
	Supports(c Capability) bool
}

// Page is a simple offset/limit pagination cursor used by the two
// paginated capabilities (getArtistAlbums, getReleasesByReleaseGroup).
type Page struct {
	Offset int
	Limit  int
}

// ArtistCredit is the normalized, always-ordered artist-credit shape.
type ArtistCredit struct {
	ArtistID     string
	CreditedName string
	JoinPhrase   string
}

// NormalizedArtist is the provider-neutral artist shape returned by
// CanonicalAdapter.GetArtist / SearchArtist.
type NormalizedArtist struct {
	ID             string
	Name           string
	SortName       string
	Disambiguation string
	Type           string
	Country        string
	BeginDate      *string
	EndDate        *string
	Gender         string
	Ended          bool
	Status         string
	Aliases        []string
	Tags           []string
	Genres         []string
	Rating         *float64
}

// NormalizedReleaseGroupRef is the lightweight shape returned by
// GetArtistAlbums enumeration — enough to decide filter membership and
// fetch the full record, not the full record itself.
type NormalizedReleaseGroupRef struct {
	ID             string
	PrimaryType    string
	SecondaryTypes []string
}

// NormalizedReleaseGroup is the full release-group shape returned by
// GetReleaseGroup.
type NormalizedReleaseGroup struct {
	ID               string
	Title            string
	Disambiguation   string
	PrimaryType      string
	SecondaryTypes   []string
	FirstReleaseDate *string
	ArtistCredit     []ArtistCredit
	Aliases          []string
	Tags             []string
	Genres           []string
	Rating           *float64
}

// NormalizedReleaseRef is the lightweight shape returned by
// GetReleasesByReleaseGroup — enough to apply the release-status filter
// before fetching the full release with tracks.
type NormalizedReleaseRef struct {
	ID     string
	Status string
}

// NormalizedTrack is one track within a NormalizedRelease.
type NormalizedTrack struct {
	RecordingID    string
	RecordingTitle string
	Disambiguation string
	MediumNumber   int
	Position       int
	Title          string
	LengthMS       *int
	ArtistCredit   []ArtistCredit
}

// NormalizedRelease is the full release shape, including its tracks,
// returned by GetRelease.
type NormalizedRelease struct {
	ID             string
	ReleaseGroupID string
	Title          string
	Status         string
	ReleaseDate    *string
	Country        string
	Barcode        string
	Labels         []string
	ArtistCredit   []ArtistCredit
	Disambiguation string
	Tracks         []NormalizedTrack
}

// NormalizedImageRef is one candidate artwork URL returned by an artwork
// provider; cache state is not the provider's concern.
type NormalizedImageRef struct {
	CoverType string
	Provider  string
	URL       string
}

// CanonicalAdapter is the authoritative metadata source. Exactly one is
// required; the registry enforces this at wiring time.
type CanonicalAdapter interface {
	Adapter
	SearchArtist(ctx context.Context, query string, limit int) ([]NormalizedArtist, error)
	GetArtist(ctx context.Context, id string) (*NormalizedArtist, error)
	GetArtistAlbums(ctx context.Context, artistID string, page Page) ([]NormalizedReleaseGroupRef, bool, error)
	GetReleaseGroup(ctx context.Context, id string) (*NormalizedReleaseGroup, error)
	GetReleasesByReleaseGroup(ctx context.Context, releaseGroupID string, page Page) ([]NormalizedReleaseRef, bool, error)
	GetRelease(ctx context.Context, id string) (*NormalizedRelease, error)
}

// TextAdapter supplies encyclopedic overview text.
type TextAdapter interface {
	Adapter
	GetArtistText(ctx context.Context, artistName string) (string, error)
	GetAlbumText(ctx context.Context, artistName, albumTitle string) (string, error)
}

// ImageAdapter supplies candidate artwork URLs; it never downloads binaries
// itself (that is the artwork-binary pool's job, reading from the images
// table).
type ImageAdapter interface {
	Adapter
	ArtistImages(ctx context.Context, artistName string) ([]NormalizedImageRef, error)
	AlbumImages(ctx context.Context, artistName, albumTitle string) ([]NormalizedImageRef, error)
}
