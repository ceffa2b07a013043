package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ts(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("bad timestamp %q: %v", value, err)
	}
	return parsed
}

func tsPtr(t *testing.T, value string) *time.Time {
	t.Helper()
	v := ts(t, value)
	return &v
}

func TestWorkedSeconds_FullDayNoBreaks(t *testing.T) {
	t.Parallel()

	log := Log{
		Date:     "2025-03-10",
		ClockIn:  ts(t, "2025-03-10T09:00:00Z"),
		ClockOut: tsPtr(t, "2025-03-10T17:00:00Z"),
	}

	got := WorkedSeconds(log, ts(t, "2025-03-10T20:00:00Z"))
	assert.Equal(t, 8*3600, got)
}

func TestWorkedSeconds_CompletedBreakSubtracted(t *testing.T) {
	t.Parallel()

	log := Log{
		Date:              "2025-03-10",
		ClockIn:           ts(t, "2025-03-10T09:00:00Z"),
		ClockOut:          tsPtr(t, "2025-03-10T17:00:00Z"),
		BreakTotalMinutes: 30,
	}

	got := WorkedSeconds(log, ts(t, "2025-03-10T17:00:00Z"))
	assert.Equal(t, 8*3600-30*60, got)
}

func TestWorkedSeconds_BreakInProgressSubtractedLive(t *testing.T) {
	t.Parallel()

	log := Log{
		Date:       "2025-03-10",
		ClockIn:    ts(t, "2025-03-10T09:00:00Z"),
		IsBreak:    true,
		BreakStart: tsPtr(t, "2025-03-10T14:00:00Z"),
	}

	// 5h15m elapsed, 15m of it on the current break.
	got := WorkedSeconds(log, ts(t, "2025-03-10T14:15:00Z"))
	assert.Equal(t, 16200, got)
}

func TestWorkedSeconds_ClampedAtZero(t *testing.T) {
	t.Parallel()

	// Clock skew: recorded break total exceeds elapsed time.
	log := Log{
		Date:              "2025-03-10",
		ClockIn:           ts(t, "2025-03-10T09:00:00Z"),
		BreakTotalMinutes: 600,
	}

	got := WorkedSeconds(log, ts(t, "2025-03-10T10:00:00Z"))
	assert.Equal(t, 0, got)

	// now before clock-in.
	early := Log{Date: "2025-03-10", ClockIn: ts(t, "2025-03-10T09:00:00Z")}
	assert.Equal(t, 0, WorkedSeconds(early, ts(t, "2025-03-10T08:00:00Z")))
}

func TestWorkedSeconds_ClosedSessionIsConstant(t *testing.T) {
	t.Parallel()

	log := Log{
		Date:              "2025-03-10",
		ClockIn:           ts(t, "2025-03-10T09:00:00Z"),
		ClockOut:          tsPtr(t, "2025-03-10T17:00:00Z"),
		BreakTotalMinutes: 45,
	}

	first := WorkedSeconds(log, ts(t, "2025-03-10T17:00:00Z"))
	for _, later := range []string{
		"2025-03-10T17:00:01Z",
		"2025-03-11T09:00:00Z",
		"2026-01-01T00:00:00Z",
	} {
		assert.Equal(t, first, WorkedSeconds(log, ts(t, later)), "now=%s", later)
	}
}

func TestWorkedSeconds_StaleBreakFlagOnClosedSessionIgnored(t *testing.T) {
	t.Parallel()

	// A closed session never subtracts a live break, even with bad data.
	log := Log{
		Date:       "2025-03-10",
		ClockIn:    ts(t, "2025-03-10T09:00:00Z"),
		ClockOut:   tsPtr(t, "2025-03-10T17:00:00Z"),
		IsBreak:    true,
		BreakStart: tsPtr(t, "2025-03-10T16:00:00Z"),
	}

	assert.Equal(t, 8*3600, WorkedSeconds(log, ts(t, "2025-03-10T18:00:00Z")))
}

func TestBreakMinutes(t *testing.T) {
	t.Parallel()

	start := ts(t, "2025-03-10T12:00:00Z")
	assert.Equal(t, 30, BreakMinutes(start, ts(t, "2025-03-10T12:30:00Z")))
	assert.Equal(t, 0, BreakMinutes(start, ts(t, "2025-03-10T12:00:59Z")))
	assert.Equal(t, 0, BreakMinutes(start, ts(t, "2025-03-10T11:00:00Z")))
}

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0:00:00", FormatDuration(0))
	assert.Equal(t, "0:00:59", FormatDuration(59))
	assert.Equal(t, "8:00:00", FormatDuration(28800))
	assert.Equal(t, "4:30:15", FormatDuration(4*3600+30*60+15))
	assert.Equal(t, "0:00:00", FormatDuration(-5))
}
