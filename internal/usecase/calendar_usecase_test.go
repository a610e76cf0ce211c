package usecase

import (
	"context"
	"testing"
	"time"

	"clinic-agenda/internal/domain/entity"
	"clinic-agenda/internal/domain/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMonth(t *testing.T) {
	appointments := newFakeAppointmentRepo()
	assignments := newFakeAssignmentRepo()
	uc := NewCalendarUsecase(quietLogger(), appointments, assignments)

	appointments.seed("Ana", day(2025, time.June, 2), "09:00")
	appointments.seed("Eva", day(2025, time.June, 2), "08:00")
	appointments.seed("Out", day(2025, time.July, 1), "09:00")
	assignments.byPatient["Luis"] = entity.FixedDayAssignment{ID: 1, PatientName: "Luis", Weekday: int(schedule.Tuesday), Time: "08:00"}
	assignments.byPatient["Bad"] = entity.FixedDayAssignment{ID: 2, PatientName: "Bad", Weekday: 9, Time: "08:00"}

	cal, err := uc.BuildMonth(context.Background(), 2025, 6)
	require.NoError(t, err)

	assert.Equal(t, 2025, cal.Year)
	assert.Equal(t, 6, cal.Month)
	assert.Equal(t, []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}, cal.Weekdays)
	require.Len(t, cal.Weeks, 6)

	first := cal.Weeks[0]
	require.Len(t, first, 7)
	assert.False(t, first[0].InMonth)
	assert.Empty(t, first[0].Date)
	assert.Equal(t, "2025-06-01", first[6].Date)

	monday := cal.Weeks[1][0]
	assert.Equal(t, "2025-06-02", monday.Date)
	require.Len(t, monday.Entries, 2)
	assert.Equal(t, "08:00 Eva", monday.Entries[0].Label)
	assert.Equal(t, "09:00 Ana", monday.Entries[1].Label)

	tuesday := cal.Weeks[1][1]
	require.Len(t, tuesday.Entries, 1)
	assert.True(t, tuesday.Entries[0].Fixed)
	assert.Equal(t, "08:00 Luis (fixed)", tuesday.Entries[0].Label)
}

func TestBuildMonth_InvalidMonth(t *testing.T) {
	uc := NewCalendarUsecase(quietLogger(), newFakeAppointmentRepo(), newFakeAssignmentRepo())

	_, err := uc.BuildMonth(context.Background(), 2025, 13)
	assert.ErrorIs(t, err, ErrInvalidMonth)
}
