package models

// ArtistType enumerates the upstream artist classification. The zero value
// (empty string) represents "unknown" and is distinct from a deliberately
// stored null.
type ArtistType string

const (
	ArtistTypePerson    ArtistType = "Person"
	ArtistTypeGroup     ArtistType = "Group"
	ArtistTypeOrchestra ArtistType = "Orchestra"
	ArtistTypeChoir     ArtistType = "Choir"
	ArtistTypeCharacter ArtistType = "Character"
	ArtistTypeOther     ArtistType = "Other"
)

// ReleaseStatus enumerates the status of a Release.
type ReleaseStatus string

const (
	ReleaseStatusOfficial       ReleaseStatus = "Official"
	ReleaseStatusPromotion      ReleaseStatus = "Promotion"
	ReleaseStatusBootleg        ReleaseStatus = "Bootleg"
	ReleaseStatusPseudoRelease  ReleaseStatus = "Pseudo-Release"
)

// AlbumType enumerates the user-configurable release-group type filter.
// Each value maps to a predicate over (primary_type, secondary_types) in
// internal/orchestrator/filters.go.
type AlbumType string

const (
	AlbumTypeStudio          AlbumType = "Studio"
	AlbumTypeLive            AlbumType = "Live"
	AlbumTypeCompilation     AlbumType = "Compilation"
	AlbumTypeSoundtrack      AlbumType = "Soundtrack"
	AlbumTypeRemix           AlbumType = "Remix"
	AlbumTypeDJMix           AlbumType = "DJ-mix"
	AlbumTypeMixtape         AlbumType = "Mixtape"
	AlbumTypeDemo            AlbumType = "Demo"
	AlbumTypeSpokenword      AlbumType = "Spokenword"
	AlbumTypeInterview       AlbumType = "Interview"
	AlbumTypeAudiobook       AlbumType = "Audiobook"
	AlbumTypeAudioDrama      AlbumType = "Audio drama"
	AlbumTypeFieldRecording  AlbumType = "Field recording"
	AlbumTypeEP              AlbumType = "EP"
	AlbumTypeSingle          AlbumType = "Single"
	AlbumTypeBroadcast       AlbumType = "Broadcast"
	AlbumTypeOther           AlbumType = "Other"
)

// CoverType enumerates the semantic tag on an Image row.
type CoverType string

const (
	CoverTypePoster    CoverType = "Poster"
	CoverTypeBanner    CoverType = "Banner"
	CoverTypeFanart    CoverType = "Fanart"
	CoverTypeLogo      CoverType = "Logo"
	CoverTypeClearart  CoverType = "Clearart"
	CoverTypeThumb     CoverType = "Thumb"
	CoverTypeCover     CoverType = "Cover"
	CoverTypeDisc      CoverType = "Disc"
)

// EntityType names which table an Image or Link row decorates.
type EntityType string

const (
	EntityTypeArtist       EntityType = "artist"
	EntityTypeReleaseGroup EntityType = "releasegroup"
)

// JobStatus enumerates the state machine of a Job row.
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// JobType enumerates the closed set of work items the queue understands.
// Replaces the source's dynamically-typed job metadata: each value here has
// a corresponding typed metadata struct in internal/jobqueue/metadata.go.
type JobType string

const (
	JobTypeFetchArtist       JobType = "fetch_artist"
	JobTypeFetchArtistAlbums JobType = "fetch_artist_albums"
	JobTypeFetchRelease      JobType = "fetch_release"
	JobTypeFetchAlbumFull    JobType = "fetch_album_full"
	JobTypeArtistFull        JobType = "artist_full"
	JobTypeFetchArtistText   JobType = "fetch_artist_text"
	JobTypeFetchAlbumText    JobType = "fetch_album_text"
	JobTypeFetchArtistImages JobType = "fetch_artist_images"
	JobTypeFetchAlbumImages  JobType = "fetch_album_images"
	JobTypeDownloadImage     JobType = "download_image"
)

// MaxJobAttempts is the default attempts ceiling before a Job is marked failed.
const MaxJobAttempts = 5
