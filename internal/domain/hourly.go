package domain

import (
	"strings"
	"time"
)

// RawColumnCount is the number of cells in one hourly table row.
const RawColumnCount = 19

// Hourly table columns (zero-based).
const (
	colDate = iota
	colHour
	colTemperatureDryBulb
	colTemperatureMax
	colTemperatureMin
	colHumidityMean
	colHumidityMax
	colHumidityMin
	colDewpointMean // replaced by the derived mean of max and min
	colDewpointMax
	colDewpointMin
	colPressureInstant
	colPressureMax
	colPressureMin
	colWindSpeed
	colWindDirection
	colWindGust
	colRadiation
	colRainfall
)

var localTimestampLayouts = []string{"02/01/2006 15:04", "2006-01-02 15:04"}

// HourlyRecord is one normalized row of the hourly table.
type HourlyRecord struct {
	Station string

	// LocalTime is the timestamp as published by the station. Time is the
	// timestamp after timezone correction; both are zero when the date or
	// hour cell could not be parsed.
	LocalTime time.Time
	Time      time.Time

	// Suppressed marks rows of a day that failed the validity gate. Every
	// measurement of a suppressed row is nil.
	Suppressed bool

	TemperatureDryBulb *float64
	TemperatureMax     *float64
	TemperatureMin     *float64
	TemperatureMean    *float64
	HumidityMean       *float64
	HumidityMax        *float64
	HumidityMin        *float64
	DewpointMax        *float64
	DewpointMin        *float64
	DewpointMean       *float64
	PressureInstant    *float64
	PressureMax        *float64
	PressureMin        *float64
	WindSpeed          *float64
	WindDirection      *float64
	WindGust           *float64
	Radiation          *float64
	Rainfall           *float64
}

// Date is the calendar day of the (corrected) timestamp.
func (r HourlyRecord) Date() time.Time {
	return Day(r.Time)
}

// Hour is the hour of day of the (corrected) timestamp.
func (r HourlyRecord) Hour() int {
	return r.Time.Hour()
}

// LocalDate is the calendar day as published by the station.
func (r HourlyRecord) LocalDate() time.Time {
	return Day(r.LocalTime)
}

// NormalizeHourly converts raw table rows into hourly records in source
// order. Rows whose cells are all blank are dropped; short rows are padded
// with missing values.
func NormalizeHourly(station string, rows [][]string) []HourlyRecord {
	records := make([]HourlyRecord, 0, len(rows))
	for _, row := range rows {
		if isBlankRow(row) {
			continue
		}
		records = append(records, normalizeRow(station, padRow(row)))
	}
	return records
}

func normalizeRow(station string, cells []string) HourlyRecord {
	ts := parseLocalTimestamp(cells[colDate], cells[colHour])
	r := HourlyRecord{
		Station:            station,
		LocalTime:          ts,
		Time:               ts,
		TemperatureDryBulb: ParseDecimal(cells[colTemperatureDryBulb]),
		TemperatureMax:     ParseDecimal(cells[colTemperatureMax]),
		TemperatureMin:     ParseDecimal(cells[colTemperatureMin]),
		HumidityMean:       ParseDecimal(cells[colHumidityMean]),
		HumidityMax:        ParseDecimal(cells[colHumidityMax]),
		HumidityMin:        ParseDecimal(cells[colHumidityMin]),
		DewpointMax:        ParseDecimal(cells[colDewpointMax]),
		DewpointMin:        ParseDecimal(cells[colDewpointMin]),
		PressureInstant:    ParseDecimal(cells[colPressureInstant]),
		PressureMax:        ParseDecimal(cells[colPressureMax]),
		PressureMin:        ParseDecimal(cells[colPressureMin]),
		WindSpeed:          ParseDecimal(cells[colWindSpeed]),
		WindDirection:      ParseDecimal(cells[colWindDirection]),
		WindGust:           ParseDecimal(cells[colWindGust]),
		Radiation:          ParseDecimal(cells[colRadiation]),
		Rainfall:           ParseDecimal(cells[colRainfall]),
	}
	r.TemperatureMean = TemperatureMean(r.TemperatureMax, r.TemperatureMin)
	r.DewpointMean = DewpointMean(r.DewpointMax, r.DewpointMin)
	return r
}

// TemperatureMean is the hourly mean temperature, (max+min)/2.
func TemperatureMean(maxT, minT *float64) *float64 {
	return midpoint(maxT, minT)
}

// DewpointMean is the hourly mean dew point, (max+min)/2.
func DewpointMean(maxD, minD *float64) *float64 {
	return midpoint(maxD, minD)
}

func midpoint(a, b *float64) *float64 {
	if a == nil || b == nil {
		return nil
	}
	return ptr((*a + *b) / 2)
}

// NormalizeHour reformats a four-digit "HHMM" hour as "HH:MM". Any other
// value is returned unchanged.
func NormalizeHour(hour string) string {
	if len(hour) == 4 {
		return hour[:2] + ":" + hour[2:]
	}
	return hour
}

// parseLocalTimestamp combines the date and hour cells. It returns the zero
// time when either cell is malformed.
func parseLocalTimestamp(date, hour string) time.Time {
	value := strings.TrimSpace(date) + " " + NormalizeHour(strings.TrimSpace(hour))
	for _, layout := range localTimestampLayouts {
		if ts, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return ts
		}
	}
	return time.Time{}
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func padRow(row []string) []string {
	if len(row) >= RawColumnCount {
		return row
	}
	padded := make([]string, RawColumnCount)
	copy(padded, row)
	return padded
}
