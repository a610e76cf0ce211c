package bootstrap

import (
	"testing"
	"time"

	"clinic-agenda/config"
	"clinic-agenda/internal/domain/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotClockFrom_Defaults(t *testing.T) {
	clock, err := slotClockFrom(config.ScheduleConfig{DayStart: "08:00", DayEnd: "20:00", SlotMinutes: 40})
	require.NoError(t, err)

	assert.Equal(t, schedule.DefaultSlotClock(), clock)
	assert.Len(t, clock.Slots(), 18)
}

func TestSlotClockFrom_Rejects(t *testing.T) {
	cases := []config.ScheduleConfig{
		{DayStart: "8am", DayEnd: "20:00", SlotMinutes: 40},
		{DayStart: "08:00", DayEnd: "25:00", SlotMinutes: 40},
		{DayStart: "20:00", DayEnd: "08:00", SlotMinutes: 40},
		{DayStart: "08:00", DayEnd: "20:00", SlotMinutes: 0},
	}
	for _, c := range cases {
		_, err := slotClockFrom(c)
		assert.Error(t, err, "%+v", c)
	}
}

func TestSlotClockFrom_CustomDuration(t *testing.T) {
	clock, err := slotClockFrom(config.ScheduleConfig{DayStart: "09:00", DayEnd: "12:00", SlotMinutes: 30})
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, clock.Duration)
	assert.Len(t, clock.Slots(), 6)
}
