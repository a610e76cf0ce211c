package schedule

import (
	"sort"
	"time"
)

// Booking is the read-only view of a stored appointment that the grid needs.
type Booking struct {
	ID      string
	Patient string
	Date    time.Time
	Time    Clock
}

// GridEntry is one line inside a calendar cell.
// Fixed entries come from standing reservations, not from stored appointments.
type GridEntry struct {
	AppointmentID string
	Patient       string
	Time          Clock
	Fixed         bool
}

// GridCell is one day of the month grid. Cells outside the month have InMonth false and no entries.
type GridCell struct {
	Date    time.Time
	InMonth bool
	Entries []GridEntry
}

// MonthGrid lays a month out as weeks (rows) of seven days, Monday to Sunday.
type MonthGrid struct {
	Year  int
	Month time.Month
	Weeks [][7]GridCell
}

// BuildMonthGrid buckets bookings by date and repeats every standing slot on each matching weekday.
// Bookings dated outside the month are ignored.
func BuildMonthGrid(year int, month time.Month, bookings []Booking, standing []StandingSlot) MonthGrid {
	first, next := MonthRange(year, month)
	lead := int(WeekdayOf(first))
	days := int(next.Sub(first).Hours() / 24)
	rows := (lead + days + 6) / 7

	byDay := make(map[int][]GridEntry, days)
	for _, b := range bookings {
		d := DateOf(b.Date)
		if d.Before(first) || !d.Before(next) {
			continue
		}
		byDay[d.Day()] = append(byDay[d.Day()], GridEntry{
			AppointmentID: b.ID,
			Patient:       b.Patient,
			Time:          b.Time,
		})
	}

	grid := MonthGrid{Year: year, Month: month, Weeks: make([][7]GridCell, rows)}
	for day := 1; day <= days; day++ {
		date := first.AddDate(0, 0, day-1)
		pos := lead + day - 1

		entries := byDay[day]
		for _, s := range standing {
			if s.Weekday == WeekdayOf(date) {
				entries = append(entries, GridEntry{Patient: s.Patient, Time: s.Time, Fixed: true})
			}
		}
		sortEntries(entries)

		grid.Weeks[pos/7][pos%7] = GridCell{Date: date, InMonth: true, Entries: entries}
	}
	return grid
}

func sortEntries(entries []GridEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Time != entries[j].Time {
			return entries[i].Time < entries[j].Time
		}
		return !entries[i].Fixed && entries[j].Fixed
	})
}
