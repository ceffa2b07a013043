package attendance

import (
	"context"
	"time"
)

// SessionService defines the operations the engine exposes to its callers.
// Every mutation is applied optimistically to the local view first and rolled
// back verbatim if the remote write fails.
type SessionService interface {
	// ClockIn opens a new session for the user with the given status label.
	ClockIn(ctx context.Context, req ClockInRequest) (LogResponse, error)

	// ClockOut closes an active session, ending and crediting any break
	// still in progress.
	ClockOut(ctx context.Context, logID string) (LogResponse, error)

	// ToggleBreak starts or ends a break on an active session. onBreak is
	// the caller's view of the current break state and must match.
	ToggleBreak(ctx context.Context, logID string, onBreak bool) (LogResponse, error)

	// RequestDelete marks a log with the delete-request sentinel.
	RequestDelete(ctx context.Context, logID string) error

	// CancelDeleteRequest clears a pending delete-request sentinel.
	CancelDeleteRequest(ctx context.Context, logID string) error

	// ApproveDelete permanently removes a delete-requested log.
	ApproveDelete(ctx context.Context, logID string) error

	// Refresh replaces the local view wholesale from the remote store.
	Refresh(ctx context.Context) error

	// GroupedByDay returns the per-day view of the current logs.
	GroupedByDay(now time.Time) []DayGroup

	// Logs returns the current logs, most recent clock-in first.
	Logs() []Log

	// Loading reports whether a mutation is currently in flight.
	Loading() bool
}
