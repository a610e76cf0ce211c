package schedule

import "time"

// StandingSlot is a patient's weekly reservation: one weekday at one time.
type StandingSlot struct {
	Patient string
	Weekday Weekday
	Time    Clock
}

// Permits reports whether a booking on date at c matches the reservation exactly.
// Matching the weekday alone is not enough; the time must be identical too.
func (s StandingSlot) Permits(date time.Time, c Clock) bool {
	return WeekdayOf(date) == s.Weekday && c == s.Time
}
