// Package scheduling decides whether a proposed work block can be committed
// to a worker's calendar. It is pure: callers supply the worker's existing
// schedule and declared availability, and the same inputs always yield the
// same answer.
package scheduling

import (
	"fmt"
	"strings"
	"time"
)

// TimeRange is a half-open interval [Start, End)
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// Window is a worker's declared availability for one weekday. StartTime and
// EndTime are clock times in "HH:MM" form; DayOfWeek is the lowercase
// weekday name.
type Window struct {
	DayOfWeek   string
	StartTime   string
	EndTime     string
	IsAvailable bool
}

// Result is the outcome of an availability check
type Result struct {
	Conflict bool
	Reason   string
}

const clockLayout = "15:04"

// HasOverlap reports whether the proposed interval overlaps any existing
// entry. Intervals that merely touch (one ends exactly when the other
// starts) do not conflict.
func HasOverlap(proposed TimeRange, existing []TimeRange) bool {
	for _, e := range existing {
		if proposed.Start.Before(e.End) && proposed.End.After(e.Start) {
			return true
		}
	}
	return false
}

// CheckAvailability validates the proposed start against the worker's
// declared weekly hours. Both window bounds are inclusive: starting exactly
// at opening or closing time is allowed.
//
// Only the start time is validated; a job that starts within hours but runs
// past closing passes. That matches the behavior the business signed off on
// and stays until product confirms otherwise.
func CheckAvailability(start time.Time, windows []Window) Result {
	day := strings.ToLower(start.Weekday().String())

	var window *Window
	for i := range windows {
		if windows[i].DayOfWeek == day {
			window = &windows[i]
			break
		}
	}

	if window == nil || !window.IsAvailable {
		return Result{Conflict: true, Reason: "Staff is not available on this day"}
	}

	// "HH:MM" strings compare correctly as text
	t := start.Format(clockLayout)
	if t < window.StartTime || t > window.EndTime {
		return Result{
			Conflict: true,
			Reason: fmt.Sprintf("Schedule time %s is outside available hours (%s-%s)",
				t, window.StartTime, window.EndTime),
		}
	}

	return Result{}
}
