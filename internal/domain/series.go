package domain

import (
	"fmt"
	"time"
)

// DefaultEpoch is the first day fetched for a station with no persisted
// series and no explicit start date.
var DefaultEpoch = time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

// MergeMode selects how new daily rows are combined with the series.
type MergeMode string

const (
	// MergeAppend concatenates new rows to the existing ones. Overlapping
	// runs produce duplicate (station, date) rows.
	MergeAppend MergeMode = "append"
	// MergeUpsert replaces existing rows that share a (station, date) key
	// with a new row.
	MergeUpsert MergeMode = "upsert"
)

// ParseMergeMode validates a merge mode name.
func ParseMergeMode(s string) (MergeMode, error) {
	switch m := MergeMode(s); m {
	case MergeAppend, MergeUpsert:
		return m, nil
	default:
		return "", fmt.Errorf("unknown merge mode %q", s)
	}
}

// SeriesKey identifies one station-day of the series.
type SeriesKey struct {
	Station string
	Date    time.Time
}

// Key returns the (station, date) key of a daily record.
func (d DailyRecord) Key() SeriesKey {
	return SeriesKey{Station: d.Station, Date: Day(d.Date)}
}

// ResumeDate picks the first day to process for a station. An explicit
// start date wins; otherwise the day after the latest persisted date;
// otherwise DefaultEpoch.
func ResumeDate(explicit, latest time.Time, found bool) time.Time {
	if !explicit.IsZero() {
		return Day(explicit)
	}
	if found {
		return Day(latest).AddDate(0, 0, 1)
	}
	return DefaultEpoch
}

// Day truncates t to its calendar date at midnight UTC, keeping the
// wall-clock date of t's own location.
func Day(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
