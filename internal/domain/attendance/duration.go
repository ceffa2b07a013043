package attendance

import (
	"fmt"
	"time"
)

// WorkedSeconds computes elapsed worked time for a session as of now.
// Completed breaks are subtracted through BreakTotalMinutes; a break still in
// progress on an active session is subtracted live. The result is clamped at
// zero so clock skew or bad data never yields a negative duration.
//
// This is the single duration implementation; row durations, day totals and
// live counters all go through it.
func WorkedSeconds(l Log, now time.Time) int {
	end := now
	if l.ClockOut != nil {
		end = *l.ClockOut
	}

	secs := int(end.Sub(l.ClockIn).Seconds())
	secs -= l.BreakTotalMinutes * 60

	if l.ClockOut == nil && l.IsBreak && l.BreakStart != nil {
		secs -= int(now.Sub(*l.BreakStart).Seconds())
	}

	if secs < 0 {
		return 0
	}
	return secs
}

// BreakMinutes returns the whole minutes elapsed between a break start and
// its end, never negative.
func BreakMinutes(start, end time.Time) int {
	mins := int(end.Sub(start).Minutes())
	if mins < 0 {
		return 0
	}
	return mins
}

// FormatDuration renders a second count as H:MM:SS.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}
