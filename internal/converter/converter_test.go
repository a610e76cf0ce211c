package converter

import (
	"testing"
	"time"

	"clinic-agenda/internal/domain/entity"
	"clinic-agenda/internal/domain/schedule"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppointmentToResponse_FormatsDate(t *testing.T) {
	id := uuid.New()
	resp := AppointmentToResponse(&entity.Appointment{
		ID:          id,
		PatientName: "Ana",
		Date:        time.Date(2025, time.June, 3, 0, 0, 0, 0, time.UTC),
		Time:        "09:00",
	})

	require.NotNil(t, resp)
	assert.Equal(t, id, resp.ID)
	assert.Equal(t, "2025-06-03", resp.Date)
	assert.Nil(t, AppointmentToResponse(nil))
}

func TestAppointmentsToBookings_SkipsMalformedTime(t *testing.T) {
	bookings := AppointmentsToBookings([]entity.Appointment{
		{ID: uuid.New(), PatientName: "Ana", Time: "09:00"},
		{ID: uuid.New(), PatientName: "Bad", Time: "nine"},
	})

	require.Len(t, bookings, 1)
	assert.Equal(t, schedule.NewClock(9, 0), bookings[0].Time)
}

func TestFixedDayToResponse_WeekdayName(t *testing.T) {
	resp := FixedDayToResponse(&entity.FixedDayAssignment{PatientName: "Ana", Weekday: 1, Time: "10:00"})
	assert.Equal(t, "Tuesday", resp.WeekdayName)
}

func TestMonthGridToResponse(t *testing.T) {
	grid := schedule.BuildMonthGrid(2025, time.June, []schedule.Booking{
		{ID: "a", Patient: "Ana", Date: time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC), Time: schedule.NewClock(9, 0)},
	}, []schedule.StandingSlot{
		{Patient: "Luis", Weekday: schedule.Monday, Time: schedule.NewClock(8, 0)},
	})

	resp := MonthGridToResponse(grid)

	assert.Equal(t, 6, resp.Month)
	require.Len(t, resp.Weeks, 6)
	assert.Len(t, resp.Weekdays, 7)

	placeholder := resp.Weeks[0][0]
	assert.False(t, placeholder.InMonth)
	assert.Empty(t, placeholder.Date)

	monday := resp.Weeks[1][0]
	assert.Equal(t, "2025-06-02", monday.Date)
	require.Len(t, monday.Entries, 2)
	assert.Equal(t, "08:00 Luis (fixed)", monday.Entries[0].Label)
	assert.Equal(t, "09:00 Ana", monday.Entries[1].Label)
}
