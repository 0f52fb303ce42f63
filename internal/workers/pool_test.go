package workers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"waugzee/internal/models"
)

func TestNewPool_InitializesSemaphoreAtCapacity(t *testing.T) {
	p := NewPool("canonical", []models.JobType{models.JobTypeFetchArtist}, 1, time.Second, nil, nil)

	assert.Equal(t, "canonical", p.name)
	assert.Equal(t, 1, p.maxConcurrency)
	assert.Equal(t, 1, cap(p.sem))
	assert.False(t, p.started)
}

func TestPool_StopBeforeStartIsNoop(t *testing.T) {
	p := NewPool("text", []models.JobType{models.JobTypeFetchArtistText}, 2, time.Second, nil, nil)

	assert.NotPanics(t, func() {
		p.Stop()
	})
	assert.False(t, p.started)
}
