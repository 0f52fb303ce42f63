package models

import (
	"time"

	"gorm.io/datatypes"
)

// ReleaseGroup is the "album" of the consumer-facing API: an upstream
// concept bundling multiple Releases of the same logical work.
type ReleaseGroup struct {
	BaseMBIDModel

	Title             string         `gorm:"index;not null" json:"title"`
	Disambiguation    string         `json:"disambiguation"`
	PrimaryType       string         `gorm:"index" json:"primaryType"`
	SecondaryTypes    datatypes.JSON `gorm:"type:jsonb" json:"secondaryTypes"`
	FirstReleaseDate  *string        `json:"firstReleaseDate"`
	ArtistCredit      datatypes.JSON `gorm:"type:jsonb" json:"artistCredit"`
	Aliases           datatypes.JSON `gorm:"type:jsonb" json:"aliases"`
	Tags              datatypes.JSON `gorm:"type:jsonb" json:"tags"`
	Genres            datatypes.JSON `gorm:"type:jsonb" json:"genres"`
	Rating            *float64       `json:"rating"`
	Overview          *string        `gorm:"type:text" json:"overview"`
	AccessCount       int            `gorm:"default:0" json:"accessCount"`
	LastAccessedAt    *time.Time     `json:"lastAccessedAt"`
	LastUpdatedAt     time.Time      `json:"lastUpdatedAt"`
	TTLExpiresAt      *time.Time     `gorm:"index" json:"ttlExpiresAt"`
}

func (ReleaseGroup) TableName() string { return "release_groups" }

// ArtistReleaseGroup is the many-to-many join between Artist and
// ReleaseGroup. Position preserves the artist's album-ordering from the
// canonical provider's catalog listing.
type ArtistReleaseGroup struct {
	BaseUUIDModel

	ArtistID       string `gorm:"type:varchar(36);index;not null" json:"artistId"`
	ReleaseGroupID string `gorm:"type:varchar(36);index;not null" json:"releaseGroupId"`
	Position       int    `json:"position"`

	Artist       Artist       `gorm:"foreignKey:ArtistID" json:"-"`
	ReleaseGroup ReleaseGroup `gorm:"foreignKey:ReleaseGroupID" json:"-"`
}

func (ArtistReleaseGroup) TableName() string { return "artist_release_groups" }
