package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyRecord_Cells(t *testing.T) {
	d := DailyRecord{
		Date:        june1,
		Station:     testStation,
		Latitude:    -15,
		Longitude:   -47,
		Altitude:    1160.96,
		RainfallSum: ptr(12.4),
		Dr:          0.97,
	}

	cells := d.Cells()
	require.Len(t, cells, len(SeriesColumns))

	byName := make(map[string]string, len(cells))
	for i, name := range SeriesColumns {
		byName[name] = cells[i]
	}
	assert.Equal(t, "01/06/2024 00:00:00", byName[ColumnDate])
	assert.Equal(t, testStation, byName[ColumnStation])
	assert.Equal(t, "12,400000", byName["chuva"])
	assert.Equal(t, "", byName["radiacao"])
	assert.Equal(t, "0,970000", byName["dr"])
	assert.Equal(t, "-15,000000", byName["latitude"])
	assert.Equal(t, "1160,960000", byName["altitude"])
}

func TestParseSeriesDate(t *testing.T) {
	for _, s := range []string{"10/06/2024 00:00:00", "10/06/2024", "2024-06-10", "2024-06-10 00:00:00"} {
		t.Run(s, func(t *testing.T) {
			got, err := ParseSeriesDate(s)
			require.NoError(t, err)
			assert.Equal(t, time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC), got)
		})
	}

	_, err := ParseSeriesDate("June 10")
	require.Error(t, err)
}

func TestParseInputDate(t *testing.T) {
	got, err := ParseInputDate("01/06/2024")
	require.NoError(t, err)
	assert.Equal(t, june1, got)

	got, err = ParseInputDate("")
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	_, err = ParseInputDate("2024-06-01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DD/MM/YYYY")
}
