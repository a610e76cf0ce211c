package schedule

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidWeekday = errors.New("invalid weekday, use 0 (Monday) to 6 (Sunday)")

// Weekday numbers days Monday-first, the way they are persisted: 0=Monday .. 6=Sunday.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [...]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// WeekdayOf returns the Monday-first weekday of t.
func WeekdayOf(t time.Time) Weekday {
	return Weekday((int(t.Weekday()) + 6) % 7)
}

// ParseWeekday accepts either the stored number ("0".."6") or an English day name.
func ParseWeekday(s string) (Weekday, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		w := Weekday(n)
		if !w.Valid() {
			return 0, ErrInvalidWeekday
		}
		return w, nil
	}
	for i, name := range weekdayNames {
		if strings.EqualFold(name, s) {
			return Weekday(i), nil
		}
	}
	return 0, ErrInvalidWeekday
}

func (w Weekday) Valid() bool {
	return w >= Monday && w <= Sunday
}

// Std converts to the standard library's Sunday-first weekday.
func (w Weekday) Std() time.Weekday {
	return time.Weekday((int(w) + 1) % 7)
}

func (w Weekday) String() string {
	if !w.Valid() {
		return "Weekday(" + strconv.Itoa(int(w)) + ")"
	}
	return weekdayNames[w]
}
