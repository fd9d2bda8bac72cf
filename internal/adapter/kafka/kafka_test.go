package kafka

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CIDLAGOAVIVA/Inmet/internal/domain"
)

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2024, 6, 2, 6, 0, 0, 0, time.UTC)
	rain := 12.4
	record := domain.DailyRecord{
		Date:        time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Station:     "A001",
		Latitude:    -15,
		Longitude:   -47,
		RainfallSum: &rain,
		Dr:          0.97,
	}

	msg, err := serializeToMessage(record, now)
	require.NoError(t, err)

	assert.Equal(t, []byte("A001|2024-06-01"), msg.Key)
	assert.Contains(t, string(msg.Value), `"rainfall_sum":12.4`)
	assert.Contains(t, string(msg.Value), `"radiation_sum":null`)
	require.Len(t, msg.Headers, 3)
	assert.Equal(t, "station", msg.Headers[0].Key)
	assert.Equal(t, []byte("A001"), msg.Headers[0].Value)
	assert.Equal(t, "date", msg.Headers[1].Key)
	assert.Equal(t, []byte("2024-06-01"), msg.Headers[1].Value)
	assert.Equal(t, "processed_at", msg.Headers[2].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[2].Value)

	var roundtrip domain.DailyRecord
	require.NoError(t, json.Unmarshal(msg.Value, &roundtrip))
	assert.Equal(t, record.Station, roundtrip.Station)
	assert.True(t, record.Date.Equal(roundtrip.Date))
	require.NotNil(t, roundtrip.RainfallSum)
	assert.InDelta(t, 12.4, *roundtrip.RainfallSum, 1e-12)
}

func TestSerializeToMessage_NaNRejected(t *testing.T) {
	_, err := serializeToMessage(domain.DailyRecord{Station: "X", SunsetHourAngle: math.NaN()}, time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "serialize daily record")
}
