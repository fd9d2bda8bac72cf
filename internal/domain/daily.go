package domain

import (
	"math"
	"sort"
	"time"
)

// anemometerHeight is the mounting height (m) of INMET anemometers.
const anemometerHeight = 10

// windU2Factor converts wind speed at anemometerHeight to 2 m (FAO-56 eq. 47).
var windU2Factor = 4.868 / math.Log(67.75*anemometerHeight-5.42)

// DailyRecord is one day of the persisted climatological series.
type DailyRecord struct {
	Date      time.Time `json:"date"`
	Station   string    `json:"station"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Altitude  float64   `json:"altitude"`

	TemperatureDryBulbMean *float64 `json:"temperature_dry_bulb_mean"`
	TemperatureMean        *float64 `json:"temperature_mean"`
	TemperatureMin         *float64 `json:"temperature_min"`
	TemperatureMax         *float64 `json:"temperature_max"`
	HumidityMean           *float64 `json:"humidity_mean"`
	HumidityMin            *float64 `json:"humidity_min"`
	HumidityMax            *float64 `json:"humidity_max"`
	DewpointMean           *float64 `json:"dewpoint_mean"`
	PressureMean           *float64 `json:"pressure_mean"`
	WindSpeedMean          *float64 `json:"wind_speed_mean"`
	WindGustMax            *float64 `json:"wind_gust_max"`
	WindDirectionMean      *float64 `json:"wind_direction_mean"`
	RadiationSum           *float64 `json:"radiation_sum"`
	RainfallSum            *float64 `json:"rainfall_sum"`

	WindU2                    *float64 `json:"wind_u2"`
	Dr                        float64  `json:"dr"`
	Declination               float64  `json:"declination"`
	SunsetHourAngle           float64  `json:"sunset_hour_angle"`
	ExtraterrestrialRadiation float64  `json:"extraterrestrial_radiation"`
}

// WindU2 adjusts a 10 m wind speed to the 2 m reference height.
func WindU2(windSpeed *float64) *float64 {
	if windSpeed == nil {
		return nil
	}
	return ptr(windU2Factor * *windSpeed)
}

// AggregateDaily reduces gated, timezone-corrected hourly records into one
// DailyRecord per corrected calendar day, in date order. A day is emitted
// only when it passed the validity gate and lies within [start, end]
// (inclusive, by calendar date); the window is applied after grouping.
func AggregateDaily(meta StationMetadata, records []HourlyRecord, start, end time.Time) []DailyRecord {
	valid := ValidDays(records)
	groups := make(map[time.Time][]HourlyRecord)
	for _, r := range records {
		if r.Suppressed || r.Time.IsZero() {
			continue
		}
		groups[r.Date()] = append(groups[r.Date()], r)
	}

	first, last := Day(start), Day(end)
	days := make([]time.Time, 0, len(groups))
	for day := range groups {
		if !valid[day] || day.Before(first) || day.After(last) {
			continue
		}
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	out := make([]DailyRecord, 0, len(days))
	for _, day := range days {
		out = append(out, reduceDay(meta, day, groups[day]))
	}
	return out
}

func reduceDay(meta StationMetadata, day time.Time, hours []HourlyRecord) DailyRecord {
	field := func(get func(HourlyRecord) *float64) []*float64 {
		values := make([]*float64, len(hours))
		for i, h := range hours {
			values[i] = get(h)
		}
		return values
	}

	d := DailyRecord{
		Date:      day,
		Station:   meta.Code,
		Latitude:  meta.Latitude,
		Longitude: meta.Longitude,
		Altitude:  meta.Altitude,

		TemperatureDryBulbMean: mean(field(func(h HourlyRecord) *float64 { return h.TemperatureDryBulb })),
		TemperatureMean:        mean(field(func(h HourlyRecord) *float64 { return h.TemperatureMean })),
		TemperatureMin:         minimum(field(func(h HourlyRecord) *float64 { return h.TemperatureMin })),
		TemperatureMax:         maximum(field(func(h HourlyRecord) *float64 { return h.TemperatureMax })),
		HumidityMean:           mean(field(func(h HourlyRecord) *float64 { return h.HumidityMean })),
		HumidityMin:            minimum(field(func(h HourlyRecord) *float64 { return h.HumidityMin })),
		HumidityMax:            maximum(field(func(h HourlyRecord) *float64 { return h.HumidityMax })),
		DewpointMean:           mean(field(func(h HourlyRecord) *float64 { return h.DewpointMean })),
		PressureMean:           mean(field(func(h HourlyRecord) *float64 { return h.PressureInstant })),
		WindSpeedMean:          mean(field(func(h HourlyRecord) *float64 { return h.WindSpeed })),
		WindGustMax:            maximum(field(func(h HourlyRecord) *float64 { return h.WindGust })),
		WindDirectionMean:      mean(field(func(h HourlyRecord) *float64 { return h.WindDirection })),
		RadiationSum:           sum(field(func(h HourlyRecord) *float64 { return h.Radiation })),
		RainfallSum:            sum(field(func(h HourlyRecord) *float64 { return h.Rainfall })),
	}
	d.WindU2 = WindU2(d.WindSpeedMean)

	solar := SolarRadiation(meta.Latitude, day)
	d.Dr = solar.Dr
	d.Declination = solar.Declination
	d.SunsetHourAngle = solar.SunsetHourAngle
	d.ExtraterrestrialRadiation = solar.ExtraterrestrialRadiation
	return d
}

// Reductions return nil for an empty input or when any value is missing.

func sum(values []*float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	var total float64
	for _, v := range values {
		if v == nil {
			return nil
		}
		total += *v
	}
	return &total
}

func mean(values []*float64) *float64 {
	total := sum(values)
	if total == nil {
		return nil
	}
	return ptr(*total / float64(len(values)))
}

func minimum(values []*float64) *float64 {
	return extreme(values, func(a, b float64) bool { return a < b })
}

func maximum(values []*float64) *float64 {
	return extreme(values, func(a, b float64) bool { return a > b })
}

func extreme(values []*float64, better func(a, b float64) bool) *float64 {
	if len(values) == 0 {
		return nil
	}
	var best float64
	for i, v := range values {
		if v == nil {
			return nil
		}
		if i == 0 || better(*v, best) {
			best = *v
		}
	}
	return &best
}
