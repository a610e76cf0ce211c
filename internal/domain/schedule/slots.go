package schedule

import "time"

// Observed clinic parameters.
const (
	DefaultSlotDuration = 40 * time.Minute
)

var (
	DefaultDayStart = MustParseClock("08:00")
	DefaultDayEnd   = MustParseClock("20:00")
)

// SlotClock describes a clinic day: the operating window and the fixed appointment length.
type SlotClock struct {
	DayStart Clock
	DayEnd   Clock
	Duration time.Duration
}

func DefaultSlotClock() SlotClock {
	return SlotClock{
		DayStart: DefaultDayStart,
		DayEnd:   DefaultDayEnd,
		Duration: DefaultSlotDuration,
	}
}

// GenerateSlots returns every start time dayStart + k*duration that is strictly before dayEnd.
// The result is empty when the window is empty or the duration is not positive.
func GenerateSlots(dayStart, dayEnd Clock, duration time.Duration) []Clock {
	step := Clock(duration / time.Minute)
	if step <= 0 || dayEnd <= dayStart {
		return []Clock{}
	}

	slots := make([]Clock, 0, int(dayEnd-dayStart)/int(step)+1)
	for t := dayStart; t < dayEnd; t += step {
		slots = append(slots, t)
	}
	return slots
}

// Slots lists the bookable start times of the day.
func (s SlotClock) Slots() []Clock {
	return GenerateSlots(s.DayStart, s.DayEnd, s.Duration)
}

// Fits reports whether an appointment starting at c lies entirely inside the operating window.
func (s SlotClock) Fits(c Clock) bool {
	return c >= s.DayStart && c.Add(s.Duration) <= s.DayEnd
}
