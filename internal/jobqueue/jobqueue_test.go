package jobqueue_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"waugzee/internal/models"
)

// CanRetry is pure enough to test without a database; the claim statement itself is exercised against a
// real Postgres connection in the integration suite, not here.

func TestJob_CanRetry(t *testing.T) {
	tests := []struct {
		name     string
		attempts int
		max      int
		want     bool
	}{
		{"fresh job", 0, 5, true},
		{"one attempt left", 4, 5, true},
		{"exhausted", 5, 5, false},
		{"over max somehow", 6, 5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := &models.Job{Attempts: tt.attempts, MaxAttempts: tt.max}
			assert.Equal(t, tt.want, j.CanRetry())
		})
	}
}

func TestJob_DefaultsMatchDedupedEnqueueLaw(t *testing.T) {
	// A freshly enqueued job always starts pending with zero attempts —
	// Enqueue's ON CONFLICT clause only ever raises priority or resurrects a
	// failed row, it never resets attempts back to zero on a live row.
	j := &models.Job{
		JobType:     models.JobTypeFetchArtist,
		EntityType:  models.EntityTypeArtist,
		EntityID:    "artist-1",
		Status:      models.JobStatusPending,
		MaxAttempts: models.MaxJobAttempts,
	}

	assert.Equal(t, models.JobStatusPending, j.Status)
	assert.Equal(t, 0, j.Attempts)
	assert.True(t, j.CanRetry())
}

func TestBulkRefresh_CompletionWindow(t *testing.T) {
	start := time.Now().Add(-time.Hour)
	end := time.Now()
	br := &models.BulkRefresh{
		StartedAt:   start,
		CompletedAt: &end,
		Status:      models.JobStatusCompleted,
	}

	assert.True(t, br.CompletedAt.After(br.StartedAt))
}
