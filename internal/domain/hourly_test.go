package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testStation = "A001"

// tableRow builds a complete 19-cell hourly table row.
func tableRow(date string, hour int, rain, wind string) []string {
	return []string{
		date, fmt.Sprintf("%02d00", hour),
		"22,5", "24,0", "20,0", // temperature inst/max/min
		"70", "80", "60", // humidity inst/max/min
		"15,0", "16,0", "14,0", // dew point inst/max/min
		"886,1", "886,5", "885,9", // pressure inst/max/min
		wind, "120", "5,5", // wind speed/direction/gust
		"1500,0", rain,
	}
}

// dayRows builds one row per hour in [fromHour, toHour].
func dayRows(date string, fromHour, toHour int) [][]string {
	rows := make([][]string, 0, toHour-fromHour+1)
	for h := fromHour; h <= toHour; h++ {
		rows = append(rows, tableRow(date, h, "0,0", "2,0"))
	}
	return rows
}

func TestNormalizeHourly(t *testing.T) {
	rows := [][]string{
		tableRow("01/06/2024", 15, "0,2", "2,4"),
		{"", "  ", ""},
		tableRow("01/06/2024", 16, "", "x"),
	}

	records := NormalizeHourly(testStation, rows)
	require.Len(t, records, 2)

	r := records[0]
	assert.Equal(t, testStation, r.Station)
	assert.Equal(t, time.Date(2024, 6, 1, 15, 0, 0, 0, time.UTC), r.LocalTime)
	assert.Equal(t, r.LocalTime, r.Time)
	assert.False(t, r.Suppressed)
	assert.Equal(t, 22.5, *r.TemperatureDryBulb)
	assert.Equal(t, 24.0, *r.TemperatureMax)
	assert.Equal(t, 20.0, *r.TemperatureMin)
	assert.Equal(t, 22.0, *r.TemperatureMean)
	assert.Equal(t, 70.0, *r.HumidityMean)
	assert.Equal(t, 15.0, *r.DewpointMean, "derived from max and min")
	assert.Equal(t, 886.1, *r.PressureInstant)
	assert.Equal(t, 2.4, *r.WindSpeed)
	assert.Equal(t, 120.0, *r.WindDirection)
	assert.Equal(t, 5.5, *r.WindGust)
	assert.Equal(t, 1500.0, *r.Radiation)
	assert.Equal(t, 0.2, *r.Rainfall)

	// malformed cells degrade to missing values
	assert.Nil(t, records[1].Rainfall)
	assert.Nil(t, records[1].WindSpeed)
	assert.NotNil(t, records[1].Radiation)
	assert.Equal(t, 16, records[1].Hour())
}

func TestNormalizeHourly_DerivedMeansNeedBothBounds(t *testing.T) {
	row := tableRow("01/06/2024", 0, "0", "1")
	row[colTemperatureMin] = ""
	row[colDewpointMax] = "?"

	records := NormalizeHourly(testStation, [][]string{row})
	require.Len(t, records, 1)
	assert.Nil(t, records[0].TemperatureMean)
	assert.Nil(t, records[0].DewpointMean)
}

func TestNormalizeHourly_ShortRowPadded(t *testing.T) {
	records := NormalizeHourly(testStation, [][]string{{"02/06/2024", "03:00", "18,1"}})
	require.Len(t, records, 1)
	assert.Equal(t, time.Date(2024, 6, 2, 3, 0, 0, 0, time.UTC), records[0].LocalTime)
	assert.Equal(t, 18.1, *records[0].TemperatureDryBulb)
	assert.Nil(t, records[0].Rainfall)
}

func TestNormalizeHourly_BadTimestamp(t *testing.T) {
	records := NormalizeHourly(testStation, [][]string{tableRow("32/13/2024", 1, "0", "1")})
	require.Len(t, records, 1)
	assert.True(t, records[0].LocalTime.IsZero())
}

func TestNormalizeHour(t *testing.T) {
	tests := []struct {
		in, expected string
	}{
		{"1500", "15:00"},
		{"0000", "00:00"},
		{"15:00", "15:00"},
		{"900", "900"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeHour(tt.in))
		})
	}
}

func TestParseLocalTimestamp(t *testing.T) {
	assert.Equal(t, time.Date(2024, 6, 1, 23, 0, 0, 0, time.UTC), parseLocalTimestamp("01/06/2024", "2300"))
	assert.Equal(t, time.Date(2024, 6, 1, 23, 0, 0, 0, time.UTC), parseLocalTimestamp("2024-06-01", "23:00"))
	assert.True(t, parseLocalTimestamp("01/06/2024", "").IsZero())
	assert.True(t, parseLocalTimestamp("", "1200").IsZero())
}
