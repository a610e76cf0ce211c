package converter

import (
	"fmt"

	"clinic-agenda/internal/delivery/dto"
	"clinic-agenda/internal/domain/schedule"
)

var weekdayHeaders = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// MonthGridToResponse flattens the grid into weeks of day cells. Placeholder cells keep their column.
func MonthGridToResponse(grid schedule.MonthGrid) *dto.CalendarResponse {
	weeks := make([][]dto.CalendarDayResponse, len(grid.Weeks))
	for i, week := range grid.Weeks {
		days := make([]dto.CalendarDayResponse, len(week))
		for j, cell := range week {
			days[j] = cellToResponse(cell)
		}
		weeks[i] = days
	}

	return &dto.CalendarResponse{
		Year:     grid.Year,
		Month:    int(grid.Month),
		Weekdays: weekdayHeaders,
		Weeks:    weeks,
	}
}

func cellToResponse(cell schedule.GridCell) dto.CalendarDayResponse {
	entries := make([]dto.CalendarEntryResponse, len(cell.Entries))
	for i, e := range cell.Entries {
		entries[i] = dto.CalendarEntryResponse{
			AppointmentID: e.AppointmentID,
			PatientName:   e.Patient,
			Time:          e.Time.String(),
			Fixed:         e.Fixed,
			Label:         EntryLabel(e),
		}
	}

	if !cell.InMonth {
		return dto.CalendarDayResponse{Entries: entries}
	}
	return dto.CalendarDayResponse{
		Date:    schedule.FormatDate(cell.Date),
		Day:     cell.Date.Day(),
		InMonth: true,
		Entries: entries,
	}
}

// EntryLabel renders an entry the way it is shown inside a day cell, e.g. "09:00 Ana".
func EntryLabel(e schedule.GridEntry) string {
	if e.Fixed {
		return fmt.Sprintf("%s %s (fixed)", e.Time, e.Patient)
	}
	return fmt.Sprintf("%s %s", e.Time, e.Patient)
}
