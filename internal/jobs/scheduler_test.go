package jobs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeJob struct {
	name     string
	schedule Schedule
	executed int
	err      error
}

func (f *fakeJob) Name() string { return f.name }
func (f *fakeJob) Schedule() Schedule { return f.schedule }
func (f *fakeJob) Execute(ctx context.Context) error {
	f.executed++
	return f.err
}

func TestScheduler_AddJobRegistersBothSchedules(t *testing.T) {
	s := NewScheduler()

	assert.NoError(t, s.AddJob(&fakeJob{name: "daily", schedule: Daily}))
	assert.NoError(t, s.AddJob(&fakeJob{name: "hourly", schedule: Hourly}))
	assert.Len(t, s.jobs, 2)
}

func TestScheduler_StopBeforeStartIsNoop(t *testing.T) {
	s := NewScheduler()
	assert.NoError(t, s.AddJob(&fakeJob{name: "daily", schedule: Daily}))

	assert.NoError(t, s.Stop(context.Background()))
	assert.False(t, s.started)
}

func TestScheduler_StartWithNoJobsDoesNotMarkStarted(t *testing.T) {
	s := NewScheduler()

	assert.NoError(t, s.Start(context.Background()))
	assert.False(t, s.started)
}

func TestScheduler_ExecuteJobRecordsFailureWithoutPanicking(t *testing.T) {
	s := NewScheduler()
	job := &fakeJob{name: "daily", schedule: Daily, err: assert.AnError}

	assert.NotPanics(t, func() {
		s.executeJob(job, s.log)
	})
	assert.Equal(t, 1, job.executed)
}
