package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddJob(t *testing.T) {
	s := NewEventScheduler()

	require.NoError(t, s.AddJob("sweep", "*/10 * * * *", func() {}))
	assert.Error(t, s.AddJob("sweep", "*/10 * * * *", func() {}), "duplicate id")
	assert.Error(t, s.AddJob("broken", "not a cron", func() {}))
}

func TestStartStop(t *testing.T) {
	s := NewEventScheduler()
	assert.False(t, s.IsRunning())
	s.Start()
	assert.True(t, s.IsRunning())
	s.Stop()
	assert.False(t, s.IsRunning())
}

func TestRunJobRecoversPanic(t *testing.T) {
	ran := false
	assert.NotPanics(t, func() {
		runJob("boom", func() {
			ran = true
			panic("sweeper failed")
		})
	})
	assert.True(t, ran)
}
