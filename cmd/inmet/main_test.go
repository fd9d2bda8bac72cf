package main

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CIDLAGOAVIVA/Inmet/internal/domain"
)

func TestBuildRequest(t *testing.T) {
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2024, time.July, 3, 14, 0, 0, 0, time.UTC)))
	defer domain.SetClock(nil)

	req, err := buildRequest("A001", "01/06/2024", "")
	require.NoError(t, err)
	assert.Equal(t, "A001", req.Station)
	assert.Equal(t, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC), req.Start)
	assert.Equal(t, time.Date(2024, time.July, 3, 0, 0, 0, 0, time.UTC), req.End)

	req, err = buildRequest("", "", "30/06/2024")
	require.NoError(t, err)
	assert.True(t, req.Start.IsZero())
	assert.Equal(t, time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC), req.End)

	_, err = buildRequest("A001", "2024-06-01", "")
	require.Error(t, err)
}
