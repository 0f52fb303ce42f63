package workers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"waugzee/internal/models"
)

func TestCanonicalDispatch_RejectsJobTypeOutsidePool(t *testing.T) {
	p := NewProcessors(nil, nil, nil)
	dispatch := CanonicalDispatch(p)

	err := dispatch(context.Background(), &models.Job{JobType: models.JobTypeFetchArtistText})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "canonical pool cannot process")
}

func TestTextDispatch_RejectsJobTypeOutsidePool(t *testing.T) {
	p := NewProcessors(nil, nil, nil)
	dispatch := TextDispatch(p)

	err := dispatch(context.Background(), &models.Job{JobType: models.JobTypeFetchArtist})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "text pool cannot process")
}

func TestArtworkURLDispatch_RejectsJobTypeOutsidePool(t *testing.T) {
	p := NewProcessors(nil, nil, nil)
	dispatch := ArtworkURLDispatch(p)

	err := dispatch(context.Background(), &models.Job{JobType: models.JobTypeDownloadImage})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "artwork-url pool cannot process")
}
