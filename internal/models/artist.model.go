package models

import (
	"time"

	"gorm.io/datatypes"
)

// Artist is the top-level cached entity, keyed on the upstream MBID.
// Grounded on the teacher's internal/models/artist.model.go field layout,
// generalized from the Discogs artist shape to the canonical-provider shape
// named in the spec.
type Artist struct {
	BaseMBIDModel

	Name            string         `gorm:"index;not null" json:"name"`
	SortName        string         `json:"sortName"`
	Disambiguation  string         `json:"disambiguation"`
	Type            ArtistType     `gorm:"type:varchar(20)" json:"type"`
	Country         string         `gorm:"type:varchar(8)" json:"country"`
	BeginDate       *string        `json:"beginDate"`
	EndDate         *string        `json:"endDate"`
	Gender          string         `json:"gender"`
	Ended           bool           `json:"ended"`
	Status          string         `json:"status"`
	Aliases         datatypes.JSON `gorm:"type:jsonb" json:"aliases"`
	Tags            datatypes.JSON `gorm:"type:jsonb" json:"tags"`
	Genres          datatypes.JSON `gorm:"type:jsonb" json:"genres"`
	Rating          *float64       `json:"rating"`
	Overview        *string        `gorm:"type:text" json:"overview"`
	AccessCount     int            `gorm:"default:0" json:"accessCount"`
	LastAccessedAt  *time.Time     `json:"lastAccessedAt"`
	LastUpdatedAt   time.Time      `json:"lastUpdatedAt"`
	TTLExpiresAt    *time.Time     `gorm:"index" json:"ttlExpiresAt"`

	// FetchComplete is true once the artist-wide album enumeration (§4.6
	// step 4) has run at least once; it gates whether ensureArtist needs to
	// enumerate albums or can trust the existing ArtistReleaseGroup rows.
	FetchComplete        bool       `json:"fetchComplete"`
	ReleasesFetchedCount int        `json:"releasesFetchedCount"`
	LastFetchAttempt     *time.Time `json:"lastFetchAttempt"`
}

func (Artist) TableName() string { return "artists" }

// ArtistCreditEntry is one element of an artist-credit list, attached to
// release groups, releases, and tracks. It is always present as an ordered
// list, even for a single credited artist, per the spec's normalization
// contract.
type ArtistCreditEntry struct {
	ArtistID     string `json:"artistId"`
	CreditedName string `json:"creditedName"`
	JoinPhrase   string `json:"joinPhrase"`
}

// StringList is a small helper alias documenting intent at call sites where
// a datatypes.JSON column stores a JSON array of strings (aliases, tags,
// genres, secondary types). Marshal/unmarshal happens at the store boundary
// (internal/store), not here — models stay a plain data layer.
type StringList = []string
