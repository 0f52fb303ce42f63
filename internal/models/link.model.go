package models

// Link is one external URL attached to an Artist or ReleaseGroup: one row
// per (entity, link_type, url).
type Link struct {
	BaseUUIDModel

	EntityType EntityType `gorm:"type:varchar(20);uniqueIndex:idx_links_unique;not null" json:"entityType"`
	EntityID   string     `gorm:"type:varchar(36);uniqueIndex:idx_links_unique;index;not null" json:"entityId"`
	LinkType   string     `gorm:"type:varchar(40);uniqueIndex:idx_links_unique;not null" json:"linkType"`
	URL        string     `gorm:"type:text;uniqueIndex:idx_links_unique;not null" json:"url"`
}

func (Link) TableName() string { return "links" }
