package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResumeDate(t *testing.T) {
	latest := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)
	explicit := time.Date(2024, time.January, 5, 13, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		explicit time.Time
		latest   time.Time
		found    bool
		expected time.Time
	}{
		{"explicit start wins", explicit, latest, true, time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)},
		{"day after latest", time.Time{}, latest, true, time.Date(2024, time.June, 11, 0, 0, 0, 0, time.UTC)},
		{"month boundary", time.Time{}, time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC), true, time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)},
		{"no series", time.Time{}, time.Time{}, false, DefaultEpoch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResumeDate(tt.explicit, tt.latest, tt.found))
		})
	}
}

func TestParseMergeMode(t *testing.T) {
	m, err := ParseMergeMode("append")
	require.NoError(t, err)
	assert.Equal(t, MergeAppend, m)

	m, err = ParseMergeMode("upsert")
	require.NoError(t, err)
	assert.Equal(t, MergeUpsert, m)

	_, err = ParseMergeMode("dedup")
	require.Error(t, err)
}

func TestDay(t *testing.T) {
	assert.Equal(t, june1, Day(time.Date(2024, time.June, 1, 23, 59, 0, 0, time.UTC)))
	assert.True(t, Day(time.Time{}).IsZero())

	brt := time.FixedZone("BRT", -3*3600)
	assert.Equal(t, june1, Day(time.Date(2024, time.June, 1, 22, 0, 0, 0, brt)), "keeps the wall-clock date")
}
