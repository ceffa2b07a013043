package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	case errors.Is(err, attendance.ErrLogNotFound):
		NotFound(w, "Attendance log not found")
	case errors.Is(err, attendance.ErrAlreadyClockedIn):
		Conflict(w, "An active session already exists")
	case errors.Is(err, attendance.ErrSessionClosed):
		Conflict(w, "Session is already clocked out")
	case errors.Is(err, attendance.ErrBreakStateConflict):
		Conflict(w, "Break state is out of date, refresh and retry")
	case errors.Is(err, attendance.ErrNotDeleteRequested):
		Conflict(w, "Log has no pending delete request")
	case errors.Is(err, attendance.ErrWriteFailed):
		BadGateway(w, "The change could not be saved and was rolled back")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
