package attendance

import "errors"

// Remote persistence failures. Repository implementations wrap the concrete
// driver error with one of these so the engine can classify without importing
// the driver.
var (
	ErrWriteFailed = errors.New("remote write rejected")
	ErrLogNotFound = errors.New("attendance log not found")
)

// Invalid state transitions, caught before any remote call is issued.
var (
	ErrAlreadyClockedIn   = errors.New("an active session already exists for this user")
	ErrSessionClosed      = errors.New("session is already clocked out")
	ErrBreakStateConflict = errors.New("break state does not match the current session")
	ErrNotDeleteRequested = errors.New("log has no pending delete request")
)
