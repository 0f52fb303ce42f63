package models

import "time"

// Image is one candidate artwork URL for an Artist or ReleaseGroup, and its
// local-cache state once the artwork-binary pool has downloaded it. Unique
// on (entity_id, cover_type, provider): the same provider never offers two
// URLs for the same cover type on the same entity.
type Image struct {
	BaseUUIDModel

	EntityType EntityType `gorm:"type:varchar(20);uniqueIndex:idx_images_unique;not null" json:"entityType"`
	EntityID   string     `gorm:"type:varchar(36);uniqueIndex:idx_images_unique;index;not null" json:"entityId"`
	CoverType  CoverType  `gorm:"type:varchar(20);uniqueIndex:idx_images_unique;not null" json:"coverType"`
	Provider   string     `gorm:"type:varchar(40);uniqueIndex:idx_images_unique;not null" json:"provider"`

	URL               string     `gorm:"type:text;not null" json:"url"`
	LocalPath         *string    `json:"localPath"`
	Cached            bool       `gorm:"index" json:"cached"`
	CacheFailed       bool       `json:"cacheFailed"`
	CacheFailedReason *string    `json:"cacheFailedReason"`
	FailCount         int        `json:"failCount"`
	LastAttemptAt     *time.Time `json:"lastAttemptAt"`
	UserUploaded      bool       `json:"userUploaded"`
	LastVerifiedAt    *time.Time `gorm:"index" json:"lastVerifiedAt"`
	CachedAt          *time.Time `json:"cachedAt"`
}

func (Image) TableName() string { return "images" }
