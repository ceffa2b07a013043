package attendance

import (
	"time"
)

// Session status labels, chosen at clock-in and immutable afterwards.
const (
	StatusPresent      = "present"
	StatusOvertime     = "overtime"
	StatusLeaveWorking = "leave_working"
)

// DeleteRequestedNote is the sentinel stored in Notes while a log is waiting
// for an administrator to approve its deletion.
const DeleteRequestedNote = "DELETE_REQUESTED"

// Log is a single attendance session. ClockOut == nil means the session is
// active; once ClockOut is set the record no longer accepts break toggles.
type Log struct {
	ID     string
	UserID string

	// Date is the local calendar work day ("2006-01-02"), fixed at clock-in.
	// It is never recomputed from ClockIn, which is stored in UTC and may
	// fall on a different UTC date around midnight.
	Date string

	ClockIn  time.Time
	ClockOut *time.Time

	IsBreak           bool
	BreakStart        *time.Time
	BreakTotalMinutes int

	Status string
	Notes  *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Active reports whether the session is still open.
func (l Log) Active() bool {
	return l.ClockOut == nil
}

// DeleteRequested reports whether the log carries the delete-request sentinel.
func (l Log) DeleteRequested() bool {
	return l.Notes != nil && *l.Notes == DeleteRequestedNote
}

// Clone returns a deep copy of the log. Pointer fields are duplicated so a
// snapshot cannot be mutated through the original.
func (l Log) Clone() Log {
	c := l
	if l.ClockOut != nil {
		v := *l.ClockOut
		c.ClockOut = &v
	}
	if l.BreakStart != nil {
		v := *l.BreakStart
		c.BreakStart = &v
	}
	if l.Notes != nil {
		v := *l.Notes
		c.Notes = &v
	}
	return c
}

// CloneLogs deep-copies a slice of logs.
func CloneLogs(logs []Log) []Log {
	out := make([]Log, len(logs))
	for i, l := range logs {
		out[i] = l.Clone()
	}
	return out
}
