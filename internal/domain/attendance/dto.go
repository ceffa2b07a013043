package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/validator"
)

// ========================================
// SESSION DTOs
// ========================================

type ClockInRequest struct {
	UserID string `json:"-"`
	Status string `json:"status"`

	// Date is the work day as resolved on the caller's device ("2006-01-02").
	// Optional; when empty the engine derives it from its own location.
	Date string `json:"date,omitempty"`
}

func (r *ClockInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}

	validStatuses := []string{StatusPresent, StatusOvertime, StatusLeaveWorking}
	if !validator.IsInSlice(r.Status, validStatuses) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: present, overtime, leave_working",
		})
	}

	if r.Date != "" {
		if _, valid := validator.IsValidDate(r.Date); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ToggleBreakRequest struct {
	OnBreak bool `json:"on_break"`
}

// ApproveDeleteRequest carries the administrator's explicit confirmation.
type ApproveDeleteRequest struct {
	Confirm bool `json:"confirm"`
}

func (r *ApproveDeleteRequest) Validate() error {
	var errs validator.ValidationErrors

	if !r.Confirm {
		errs = append(errs, validator.ValidationError{
			Field:   "confirm",
			Message: "deletion must be explicitly confirmed",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type LogResponse struct {
	ID                string  `json:"id"`
	UserID            string  `json:"user_id"`
	Date              string  `json:"date"`
	ClockIn           string  `json:"clock_in"`
	ClockOut          *string `json:"clock_out,omitempty"`
	IsBreak           bool    `json:"is_break"`
	BreakStart        *string `json:"break_start,omitempty"`
	BreakTotalMinutes int     `json:"break_total_minutes"`
	Status            string  `json:"status"`
	Notes             *string `json:"notes,omitempty"`
	DeleteRequested   bool    `json:"delete_requested"`
	WorkedSeconds     int     `json:"worked_seconds"`
	WorkedDisplay     string  `json:"worked_display"`
}

type DayGroupResponse struct {
	Date         string        `json:"date"`
	TotalSeconds int           `json:"total_seconds"`
	TotalDisplay string        `json:"total_display"`
	Active       bool          `json:"active"`
	Logs         []LogResponse `json:"logs"`
}

type ListLogsResponse struct {
	Loading bool          `json:"loading"`
	Logs    []LogResponse `json:"logs"`
}

type ListDaysResponse struct {
	Loading bool               `json:"loading"`
	Days    []DayGroupResponse `json:"days"`
}

// NewLogResponse maps a log to its API shape, with duration evaluated at now.
func NewLogResponse(l Log, now time.Time) LogResponse {
	worked := WorkedSeconds(l, now)
	return LogResponse{
		ID:                l.ID,
		UserID:            l.UserID,
		Date:              l.Date,
		ClockIn:           l.ClockIn.Format(time.RFC3339),
		ClockOut:          timePtrToString(l.ClockOut),
		IsBreak:           l.IsBreak,
		BreakStart:        timePtrToString(l.BreakStart),
		BreakTotalMinutes: l.BreakTotalMinutes,
		Status:            l.Status,
		Notes:             l.Notes,
		DeleteRequested:   l.DeleteRequested(),
		WorkedSeconds:     worked,
		WorkedDisplay:     FormatDuration(worked),
	}
}

// NewDayGroupResponse maps a day group to its API shape.
func NewDayGroupResponse(g DayGroup, now time.Time) DayGroupResponse {
	logs := make([]LogResponse, 0, len(g.Logs))
	for _, l := range g.Logs {
		logs = append(logs, NewLogResponse(l, now))
	}
	return DayGroupResponse{
		Date:         g.Date,
		TotalSeconds: g.TotalSeconds,
		TotalDisplay: FormatDuration(g.TotalSeconds),
		Active:       g.Active,
		Logs:         logs,
	}
}

// timePtrToString safely converts a *time.Time to an RFC3339 string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
