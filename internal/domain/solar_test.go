package domain

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSolarRadiation_Equinox(t *testing.T) {
	// Day of year 80 of 2024 is 20 March.
	date := time.Date(2024, time.March, 20, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 80, date.YearDay())

	got := SolarRadiation(0, date)

	assert.InDelta(t, 0, got.Declination, 0.01)
	assert.InDelta(t, math.Pi/2, got.SunsetHourAngle, 1e-9)

	dr := 1 + 0.033*math.Cos(2*math.Pi/365*80)
	assert.InDelta(t, dr, got.Dr, 1e-12)

	ra := (24 * 60 / math.Pi) * 0.082 * dr * math.Cos(got.Declination) * math.Sin(got.SunsetHourAngle)
	assert.InDelta(t, ra, got.ExtraterrestrialRadiation, 1e-9)
}

func TestSolarRadiation_FAO56Example(t *testing.T) {
	// FAO-56 example 8: 20°S on 3 September gives Ra = 32.2 MJ m-2 day-1.
	date := time.Date(2015, time.September, 3, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 246, date.YearDay())

	got := SolarRadiation(-20, date)

	assert.InDelta(t, 0.985, got.Dr, 0.001)
	assert.InDelta(t, 0.120, got.Declination, 0.001)
	assert.InDelta(t, 1.527, got.SunsetHourAngle, 0.001)
	assert.InDelta(t, 32.2, got.ExtraterrestrialRadiation, 0.1)
}

func TestSolarRadiation_Deterministic(t *testing.T) {
	date := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, SolarRadiation(-15, date), SolarRadiation(-15, date))
}

func TestSunsetHourAngle_PolarNight(t *testing.T) {
	assert.True(t, math.IsNaN(SunsetHourAngle(80*math.Pi/180, SolarDeclination(172))))
}
