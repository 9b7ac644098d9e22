package schedule

import (
	"time"

	"github.com/Nixie-Tech-LLC/cadence/internal/model"
)

const MinutesPerDay = 24 * 60

// MinutesOfDay returns minutes since local midnight of t, in [0, 1439].
func MinutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// DayOfWeek returns the weekday of t with Sunday=0.
func DayOfWeek(t time.Time) int {
	return int(t.Weekday())
}

// InWindow reports whether t falls on one of the rule's days and inside
// [StartTime, EndTime). The instant is read in its own location; no zone
// conversion happens here.
func InWindow(a model.Assignment, t time.Time) bool {
	if !a.HasDay(DayOfWeek(t)) {
		return false
	}
	m := MinutesOfDay(t)
	return a.StartTime <= m && m < a.EndTime
}
