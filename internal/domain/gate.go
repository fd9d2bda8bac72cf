package domain

import (
	"sort"
	"time"
)

// MinHoursPerDay is the number of hourly rows a calendar day needs before
// it may be aggregated.
const MinHoursPerDay = 20

// ApplyDayValidity groups records by their published calendar day and
// blanks every record of a day with fewer than MinHoursPerDay rows. Records
// are value-blanked in place, never removed. Rows without a usable timestamp
// belong to no day and are always blanked. It returns the blanked days in
// ascending order.
func ApplyDayValidity(records []HourlyRecord) []time.Time {
	counts := make(map[time.Time]int)
	for _, r := range records {
		if r.LocalTime.IsZero() {
			continue
		}
		counts[r.LocalDate()]++
	}

	invalid := make(map[time.Time]bool)
	for day, n := range counts {
		if n < MinHoursPerDay {
			invalid[day] = true
		}
	}

	for i := range records {
		if records[i].LocalTime.IsZero() || invalid[records[i].LocalDate()] {
			records[i].suppress()
		}
	}

	days := make([]time.Time, 0, len(invalid))
	for day := range invalid {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

// ValidDays returns the set of published calendar days that passed the gate.
func ValidDays(records []HourlyRecord) map[time.Time]bool {
	days := make(map[time.Time]bool)
	for _, r := range records {
		if !r.Suppressed && !r.LocalTime.IsZero() {
			days[r.LocalDate()] = true
		}
	}
	return days
}

func (r *HourlyRecord) suppress() {
	*r = HourlyRecord{
		Station:    r.Station,
		LocalTime:  r.LocalTime,
		Time:       r.Time,
		Suppressed: true,
	}
}
