package models

import (
	"time"

	"github.com/google/uuid"
)

// BaseUUIDModel is embedded by rows this service owns outright: the id has
// no meaning upstream, so a generated surrogate key is appropriate.
type BaseUUIDModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BaseMBIDModel is embedded by rows keyed on the upstream canonical
// provider's own identifier. A read-through cache must key on the upstream
// id directly rather than mint its own, or a second fetch of the same
// entity would silently create a duplicate row.
type BaseMBIDModel struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
