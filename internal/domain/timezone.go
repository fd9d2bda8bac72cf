package domain

import "time"

// timezoneBuckets map station longitude to the offset from published time
// to the longitudinal reference. Evaluated in order; the first bucket whose
// lower bound the longitude exceeds wins. Stations west of the last bound
// are not shifted.
var timezoneBuckets = []struct {
	above  float64
	offset time.Duration
}{
	{above: -37.5, offset: -2 * time.Hour},
	{above: -52.5, offset: -3 * time.Hour},
	{above: -67.5, offset: -4 * time.Hour},
	{above: -82.5, offset: -5 * time.Hour},
}

// TimezoneOffset returns the shift applied to every timestamp of a station
// at the given longitude (degrees, negative west).
func TimezoneOffset(longitude float64) time.Duration {
	for _, b := range timezoneBuckets {
		if longitude > b.above {
			return b.offset
		}
	}
	return 0
}

// CorrectTimezone shifts every timestamped record by the station's offset,
// which may move a record to the adjacent calendar day. It returns the
// offset applied.
func CorrectTimezone(records []HourlyRecord, longitude float64) time.Duration {
	offset := TimezoneOffset(longitude)
	for i := range records {
		if records[i].LocalTime.IsZero() {
			continue
		}
		records[i].Time = records[i].LocalTime.Add(offset)
	}
	return offset
}
