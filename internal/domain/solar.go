package domain

import (
	"math"
	"time"
)

// solarConstant is Gsc in MJ m-2 min-1 (FAO-56 eq. 21).
const solarConstant = 0.082

// SolarGeometry holds the day-of-year dependent astronomical terms of the
// FAO-56 daily extraterrestrial radiation.
type SolarGeometry struct {
	// Dr is the inverse relative Earth-Sun distance.
	Dr float64
	// Declination is the solar declination in radians.
	Declination float64
	// SunsetHourAngle is ws in radians.
	SunsetHourAngle float64
	// ExtraterrestrialRadiation is Ra in MJ m-2 day-1.
	ExtraterrestrialRadiation float64
}

// SolarRadiation computes the FAO-56 terms (eqs. 21, 23, 24, 25) for a
// latitude in degrees and a calendar date.
func SolarRadiation(latitude float64, date time.Time) SolarGeometry {
	j := float64(date.YearDay())
	phi := latitude * math.Pi / 180

	dr := InverseRelativeDistance(j)
	delta := SolarDeclination(j)
	ws := SunsetHourAngle(phi, delta)

	ra := (24 * 60 / math.Pi) * solarConstant * dr *
		(ws*math.Sin(phi)*math.Sin(delta) + math.Cos(phi)*math.Cos(delta)*math.Sin(ws))

	return SolarGeometry{
		Dr:                        dr,
		Declination:               delta,
		SunsetHourAngle:           ws,
		ExtraterrestrialRadiation: ra,
	}
}

// InverseRelativeDistance is dr = 1 + 0.033 cos(2π/365 J).
func InverseRelativeDistance(julianDay float64) float64 {
	return 1 + 0.033*math.Cos(2*math.Pi/365*julianDay)
}

// SolarDeclination is δ = 0.409 sin(2π/365 J − 1.39), in radians.
func SolarDeclination(julianDay float64) float64 {
	return 0.409 * math.Sin(2*math.Pi/365*julianDay-1.39)
}

// SunsetHourAngle is ws = arccos(−tan φ tan δ), both angles in radians.
// Polar day or night yields NaN.
func SunsetHourAngle(latitudeRad, declination float64) float64 {
	return math.Acos(-math.Tan(latitudeRad) * math.Tan(declination))
}
