package schedule

import "time"

// Expand returns every date of the given month that falls on weekday, ascending.
// Weekends are not filtered here; offering them or not is the caller's decision.
func Expand(weekday Weekday, year int, month time.Month) []time.Time {
	first, next := MonthRange(year, month)
	if !weekday.Valid() {
		return []time.Time{}
	}

	offset := (int(weekday) - int(WeekdayOf(first)) + 7) % 7
	dates := make([]time.Time, 0, 5)
	for d := first.AddDate(0, 0, offset); d.Before(next); d = d.AddDate(0, 0, 7) {
		dates = append(dates, d)
	}
	return dates
}
