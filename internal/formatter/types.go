// Package formatter renders stored entities into the wire shape the
// music-library consumer expects (C3). Every function here is pure with
// respect to its inputs — it reads through the passed-in *store.Store but
// performs no writes, so `format(e); format(e)` with store state held fixed
// is guaranteed byte-identical.
package formatter

// Rating is the consumer's {Count,Value} coercion of a plain nullable
// float rating column. Value is a pointer so a missing rating marshals to
// {"Count":0,"Value":null} rather than coercing to zero.
type Rating struct {
	Count int      `json:"Count"`
	Value *float64 `json:"Value"`
}

// LinkOut is one external URL attached to an artist or release group.
type LinkOut struct {
	Target string `json:"target"`
	Type   string `json:"type"`
}

// ImageOut is one piece of artwork, resolved to either a locally cached
// path or the upstream URL depending on download state.
type ImageOut struct {
	CoverType string `json:"CoverType"`
	Url       string `json:"Url"`
}

// AlbumSummary is the lightweight shape embedded in an ArtistResponse's
// Albums list — enough for the consumer to decide whether to request the
// full album.
type AlbumSummary struct {
	Id              string   `json:"Id"`
	OldIds          []string `json:"OldIds"`
	ReleaseStatuses []string `json:"ReleaseStatuses"`
	SecondaryTypes  []string `json:"SecondaryTypes"`
	Title           string   `json:"Title"`
	Type            string   `json:"Type"`
}

// ArtistResponse is the GET /artist/{id} wire shape.
type ArtistResponse struct {
	Id             string         `json:"id"`
	ArtistName     string         `json:"artistname"`
	SortName       string         `json:"sortname"`
	Disambiguation string         `json:"disambiguation"`
	Type           *string        `json:"type"`
	Status         string         `json:"status"`
	Overview       string         `json:"overview"`
	Rating         Rating         `json:"rating"`
	Genres         []string       `json:"genres"`
	ArtistAliases  []string       `json:"artistaliases"`
	Links          []LinkOut      `json:"links"`
	Images         []ImageOut     `json:"images"`
	Albums         []AlbumSummary `json:"Albums"`
}

// ArtistRef is the embedded-artist shape used inside an AlbumResponse's
// artists list — the same fields as ArtistResponse but without its own
// Albums listing, to avoid an unbounded embedding depth.
type ArtistRef struct {
	Id             string     `json:"id"`
	ArtistName     string     `json:"artistname"`
	SortName       string     `json:"sortname"`
	Disambiguation string     `json:"disambiguation"`
	Type           *string    `json:"type"`
	Status         string     `json:"status"`
	Overview       string     `json:"overview"`
	Rating         Rating     `json:"rating"`
	Genres         []string   `json:"genres"`
	ArtistAliases  []string   `json:"artistaliases"`
	Links          []LinkOut  `json:"links"`
	Images         []ImageOut `json:"images"`
}

// MediaOut is one disc within a release's media listing.
type MediaOut struct {
	Format   string `json:"Format"`
	Name     string `json:"Name"`
	Position int    `json:"Position"`
}

// TrackOut is one track within a release.
type TrackOut struct {
	Id           string `json:"id"`
	TrackName    string `json:"trackname"`
	RecordingID  string `json:"recordingid"`
	ArtistID     string `json:"artistid"`
	DurationMS   *int   `json:"durationms"`
	TrackNumber  int    `json:"tracknumber"`
	TrackPosition int   `json:"trackposition"`
	MediumNumber int    `json:"mediumnumber"`
}

// ReleaseOut is one release within an AlbumResponse's releases list.
type ReleaseOut struct {
	Id          string     `json:"id"`
	Title       string     `json:"title"`
	Status      string     `json:"status"`
	ReleaseDate *string    `json:"releasedate"`
	Country     []string   `json:"country"`
	Label       []string   `json:"label"`
	Media       []MediaOut `json:"media"`
	TrackCount  int        `json:"track_count"`
	Tracks      []TrackOut `json:"tracks"`
}

// AlbumResponse is the GET /album/{id} wire shape.
type AlbumResponse struct {
	Id             string       `json:"id"`
	Title          string       `json:"title"`
	Type           string       `json:"type"`
	SecondaryTypes []string     `json:"secondarytypes"`
	Disambiguation string       `json:"disambiguation"`
	Overview       string       `json:"overview"`
	ReleaseDate    *string      `json:"releasedate"`
	ArtistID       string       `json:"artistid"`
	Artists        []ArtistRef  `json:"artists"`
	Releases       []ReleaseOut `json:"releases"`
	Rating         Rating       `json:"rating"`
	Genres         []string     `json:"genres"`
	Links          []LinkOut    `json:"links"`
	Images         []ImageOut   `json:"images"`
	Aliases        []string     `json:"aliases"`
	OldIds         []string     `json:"oldids"`
}

// SearchResultItem is one element of the GET /search flat result list —
// exactly one of Album/Artist is non-nil.
type SearchResultItem struct {
	Album  *AlbumSummary `json:"album"`
	Artist *ArtistRef    `json:"artist"`
	Score  int           `json:"score"`
}
