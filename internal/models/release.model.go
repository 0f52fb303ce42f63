package models

import "gorm.io/datatypes"

// Release is one specific manifestation of a ReleaseGroup (pressing,
// country, format). Media is a denormalized blob of discs-with-embedded-
// tracks so the hot formatting path avoids a join per release; the
// authoritative per-track rows still live in the tracks table.
type Release struct {
	BaseMBIDModel

	ReleaseGroupID string         `gorm:"type:varchar(36);index;not null" json:"releaseGroupId"`
	Title          string         `json:"title"`
	Status         ReleaseStatus  `gorm:"type:varchar(20)" json:"status"`
	ReleaseDate    *string        `json:"releaseDate"`
	Country        string         `gorm:"type:varchar(8)" json:"country"`
	Barcode        string         `json:"barcode"`
	Labels         datatypes.JSON `gorm:"type:jsonb" json:"labels"`
	ArtistCredit   datatypes.JSON `gorm:"type:jsonb" json:"artistCredit"`
	MediaCount     int            `json:"mediaCount"`
	TrackCount     int            `json:"trackCount"`
	Disambiguation string         `json:"disambiguation"`
	Media          datatypes.JSON `gorm:"type:jsonb" json:"media"`

	ReleaseGroup ReleaseGroup `gorm:"foreignKey:ReleaseGroupID" json:"-"`
}

func (Release) TableName() string { return "releases" }

// MediaDisc is one element of the denormalized Release.Media blob.
type MediaDisc struct {
	Format   string           `json:"format"`
	Name     string           `json:"name"`
	Position int              `json:"position"`
	Tracks   []MediaDiscTrack `json:"tracks"`
}

// MediaDiscTrack is the embedded-track shape inside Release.Media; it
// mirrors the Track table's fields and exists purely to avoid a join when
// the formatter only needs disc-grouped track listings.
type MediaDiscTrack struct {
	ID          string `json:"id"`
	RecordingID string `json:"recordingId"`
	Title       string `json:"title"`
	Position    int    `json:"position"`
	LengthMS    *int   `json:"lengthMs"`
	ArtistID    string `json:"artistId"`
}

// Recording is a unique audio performance, independent of its placements.
type Recording struct {
	BaseMBIDModel

	Title          string `json:"title"`
	Disambiguation string `json:"disambiguation"`
	LengthMS       *int   `json:"lengthMs"`
}

func (Recording) TableName() string { return "recordings" }

// Track is a placement of a Recording on a Release at a specific position.
// Unlike the other entities, a Track has no canonical upstream-wide
// identifier of its own in the spec's data model — it is scoped to its
// Release — so it takes a surrogate key.
type Track struct {
	BaseUUIDModel

	ReleaseID    string         `gorm:"type:varchar(36);uniqueIndex:idx_tracks_unique;index;not null" json:"releaseId"`
	RecordingID  string         `gorm:"type:varchar(36);index;not null" json:"recordingId"`
	MediumNumber int            `gorm:"uniqueIndex:idx_tracks_unique" json:"mediumNumber"`
	Position     int            `gorm:"uniqueIndex:idx_tracks_unique" json:"position"`
	Title        string         `json:"title"`
	LengthMS     *int           `json:"lengthMs"`
	ArtistCredit datatypes.JSON `gorm:"type:jsonb" json:"artistCredit"`

	Release   Release   `gorm:"foreignKey:ReleaseID" json:"-"`
	Recording Recording `gorm:"foreignKey:RecordingID" json:"-"`
}

func (Track) TableName() string { return "tracks" }
