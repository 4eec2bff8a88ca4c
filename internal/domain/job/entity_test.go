package job

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAt_RepairsHistoryFromTimestamps(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	created := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	updated := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

	j := Job{Title: " Dev ", CompanyName: "Acme", Status: StatusApplied, CreatedAt: created, UpdatedAt: updated}
	j.NormalizeAt(now)
	require.Len(t, j.StatusHistory, 1)
	assert.Equal(t, created, j.StatusHistory[0].Timestamp)
	assert.Equal(t, "Dev", j.Title)

	j = Job{Title: "Dev", CompanyName: "Acme", UpdatedAt: updated}
	j.NormalizeAt(now)
	require.Len(t, j.StatusHistory, 1)
	assert.Equal(t, StatusListed, j.StatusHistory[0].Status)
	assert.Equal(t, updated, j.StatusHistory[0].Timestamp)
}

func TestNormalizeAt_LegacyRecordWithoutTimestamps(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	j := Job{Title: "Dev", CompanyName: "Acme", Status: StatusInterviewScheduled}
	j.NormalizeAt(now)

	require.Len(t, j.StatusHistory, 1)
	assert.Equal(t, StatusInterviewScheduled, j.StatusHistory[0].Status)
	assert.Equal(t, now, j.StatusHistory[0].Timestamp)
	assert.False(t, j.StatusHistory[0].Timestamp.IsZero())

	before := time.Now().UTC()
	legacy := Job{Title: "Dev", CompanyName: "Acme"}
	legacy.Normalize()
	require.Len(t, legacy.StatusHistory, 1)
	assert.False(t, legacy.StatusHistory[0].Timestamp.Before(before))
}
