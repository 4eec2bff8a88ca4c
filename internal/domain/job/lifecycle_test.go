package job

import (
	"errors"
	"testing"
	"time"

	"job-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stepClock struct {
	t    time.Time
	step time.Duration
}

func (c *stepClock) now() time.Time {
	cur := c.t
	c.t = c.t.Add(c.step)
	return cur
}

func newTestJob(t *testing.T, l *Lifecycle) *Job {
	t.Helper()
	j := &Job{Title: "React Developer", CompanyName: "Acme"}
	require.NoError(t, l.Start(j, "", "created"))
	return j
}

func TestLifecycle_Start_DefaultsToListed(t *testing.T) {
	l := NewLifecycle(nil, nil)
	j := newTestJob(t, l)

	assert.Equal(t, StatusListed, j.Status)
	require.Len(t, j.StatusHistory, 1)
	assert.Equal(t, StatusListed, j.StatusHistory[0].Status)
	assert.Equal(t, "created", j.StatusHistory[0].Note)
	assert.NoError(t, j.Validate())
}

func TestLifecycle_UpdateStatus_AllTransitions(t *testing.T) {
	clock := &stepClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), step: time.Minute}
	l := NewLifecycle(Permissive{}, clock.now)

	for _, from := range Statuses {
		for _, to := range Statuses {
			j := newTestJob(t, l)
			_, err := l.UpdateStatus(j, from, "")
			require.NoError(t, err)
			before := len(j.StatusHistory)
			prevTS := j.StatusHistory[before-1].Timestamp

			_, err = l.UpdateStatus(j, to, "note")
			require.NoError(t, err, "%s -> %s", from, to)

			assert.Equal(t, to, j.Status)
			require.Len(t, j.StatusHistory, before+1)
			last := j.StatusHistory[len(j.StatusHistory)-1]
			assert.Equal(t, to, last.Status)
			assert.False(t, last.Timestamp.Before(prevTS))
			assert.NoError(t, j.Validate())
		}
	}
}

func TestLifecycle_UpdateStatus_SameStatusStillAppends(t *testing.T) {
	l := NewLifecycle(nil, nil)
	j := newTestJob(t, l)

	_, err := l.UpdateStatus(j, StatusListed, "still looking")
	require.NoError(t, err)

	require.Len(t, j.StatusHistory, 2)
	assert.Equal(t, "still looking", j.StatusHistory[1].Note)
}

func TestLifecycle_UpdateStatus_UnknownStatus(t *testing.T) {
	l := NewLifecycle(nil, nil)
	j := newTestJob(t, l)

	_, err := l.UpdateStatus(j, Status("hired"), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.Equal(t, StatusListed, j.Status)
	assert.Len(t, j.StatusHistory, 1)
}

func TestLifecycle_UpdateStatus_ClockSkewKeepsOrder(t *testing.T) {
	times := []time.Time{
		time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	i := 0
	l := NewLifecycle(nil, func() time.Time {
		t := times[i]
		i++
		return t
	})
	j := newTestJob(t, l)

	_, err := l.UpdateStatus(j, StatusApplied, "")
	require.NoError(t, err)

	assert.Equal(t, j.StatusHistory[0].Timestamp, j.StatusHistory[1].Timestamp)
	assert.NoError(t, j.Validate())
}

func TestLifecycle_Rollback(t *testing.T) {
	l := NewLifecycle(nil, nil)
	j := newTestJob(t, l)
	prevUpdated := j.UpdatedAt

	rollback, err := l.UpdateStatus(j, StatusApplied, "sent cv")
	require.NoError(t, err)
	require.Len(t, j.StatusHistory, 2)

	rollback()

	assert.Equal(t, StatusListed, j.Status)
	assert.Len(t, j.StatusHistory, 1)
	assert.Equal(t, prevUpdated, j.UpdatedAt)
	assert.NoError(t, j.Validate())
}

func TestLifecycle_StrictPolicy(t *testing.T) {
	l := NewLifecycle(PolicyByName("strict"), nil)
	j := newTestJob(t, l)

	_, err := l.UpdateStatus(j, StatusOfferReceived, "")
	assert.ErrorIs(t, err, ErrTransitionNotAllowed)
	assert.Equal(t, StatusListed, j.Status)

	_, err = l.UpdateStatus(j, StatusApplied, "")
	require.NoError(t, err)
	_, err = l.UpdateStatus(j, StatusApplied, "follow-up")
	require.NoError(t, err)
	assert.Len(t, j.StatusHistory, 3)
}

func TestPolicyByName_DefaultsToPermissive(t *testing.T) {
	assert.IsType(t, Permissive{}, PolicyByName(""))
	assert.IsType(t, Permissive{}, PolicyByName("whatever"))
}
