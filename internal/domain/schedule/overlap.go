package schedule

import "time"

// Overlaps reports whether two appointments of equal length intersect.
// Intervals are half-open, so one ending exactly when the other begins does not overlap.
func Overlaps(a, b Clock, duration time.Duration) bool {
	return !(a.Add(duration) <= b || a >= b.Add(duration))
}

// HasConflict reports whether a candidate start collides with any existing start on the same date.
func HasConflict(candidate Clock, duration time.Duration, existing []Clock) bool {
	_, found := FirstConflict(candidate, duration, existing)
	return found
}

// FirstConflict returns the first existing start that collides with the candidate.
func FirstConflict(candidate Clock, duration time.Duration, existing []Clock) (Clock, bool) {
	for _, e := range existing {
		if Overlaps(candidate, e, duration) {
			return e, true
		}
	}
	return 0, false
}
