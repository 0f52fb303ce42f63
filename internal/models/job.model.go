package models

import (
	"time"

	"gorm.io/datatypes"
)

// Job is one durable unit of background work. Unique on (job_type,
// entity_id): internal/jobqueue.Enqueue relies on this to implement the
// deduplicated-enqueue law — a second enqueue of the same (type, entity)
// upgrades priority and resurrects a failed row rather than inserting a
// second one.
//
// Grounded on the teacher's discogsApiRequest.model.go status-enum +
// Mark*-helper shape, generalized from a single request-tracking row to a
// general-purpose queue row.
type Job struct {
	BaseUUIDModel

	JobType    JobType    `gorm:"type:varchar(40);uniqueIndex:idx_jobs_unique;not null" json:"jobType"`
	EntityType EntityType `gorm:"type:varchar(20)" json:"entityType"`
	EntityID   string     `gorm:"type:varchar(36);uniqueIndex:idx_jobs_unique;index;not null" json:"entityId"`

	Priority int       `gorm:"index;default:0" json:"priority"`
	Status   JobStatus `gorm:"type:varchar(20);index;default:'pending'" json:"status"`

	Attempts    int `gorm:"default:0" json:"attempts"`
	MaxAttempts int `gorm:"default:5" json:"maxAttempts"`

	Metadata     datatypes.JSON `gorm:"type:jsonb" json:"metadata"`
	ErrorMessage *string        `json:"errorMessage"`

	StartedAt   *time.Time `json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt"`
}

func (Job) TableName() string { return "jobs" }

// CanRetry reports whether a failed attempt should return the job to
// pending rather than marking it terminally failed.
func (j *Job) CanRetry() bool {
	return j.Attempts < j.MaxAttempts
}

// BulkRefresh tracks one run of the daily refresh-all cron, surfaced on the
// admin stats surface.
type BulkRefresh struct {
	BaseUUIDModel

	StartedAt        time.Time  `json:"startedAt"`
	CompletedAt      *time.Time `json:"completedAt"`
	Status           JobStatus  `gorm:"type:varchar(20);default:'pending'" json:"status"`
	ArtistsRefreshed int        `json:"artistsRefreshed"`
}

func (BulkRefresh) TableName() string { return "bulk_refreshes" }
