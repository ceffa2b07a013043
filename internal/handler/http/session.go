package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine-go/internal/handler/http/response"
	serviceAttendance "github.com/cmlabs-hris/attendance-engine-go/internal/service/attendance"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
)

type SessionHandler interface {
	ClockIn(w http.ResponseWriter, r *http.Request)
	ClockOut(w http.ResponseWriter, r *http.Request)
	ToggleBreak(w http.ResponseWriter, r *http.Request)
	RequestDelete(w http.ResponseWriter, r *http.Request)
	CancelDeleteRequest(w http.ResponseWriter, r *http.Request)
	ApproveDelete(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	ListDays(w http.ResponseWriter, r *http.Request)
}

type sessionHandlerImpl struct {
	manager *serviceAttendance.Manager
}

func NewSessionHandler(manager *serviceAttendance.Manager) SessionHandler {
	return &sessionHandlerImpl{manager: manager}
}

// identity pulls the caller's id and role out of the verified token.
func identity(r *http.Request) (userID string, isAdmin bool, err error) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return "", false, err
	}
	userID, _ = claims["user_id"].(string)
	isAdmin, _ = claims["is_admin"].(bool)
	return userID, isAdmin, nil
}

// engineFor resolves the engine for the caller: admins get the unscoped view,
// employees the view over their own logs.
func (h *sessionHandlerImpl) engineFor(r *http.Request) (*serviceAttendance.Engine, string, error) {
	userID, isAdmin, err := identity(r)
	if err != nil {
		return nil, "", err
	}
	scope := attendance.Scope{UserID: userID}
	if isAdmin {
		scope = attendance.Scope{}
	}
	engine, err := h.manager.ForScope(r.Context(), scope)
	return engine, userID, err
}

// ClockIn implements SessionHandler.
func (h *sessionHandlerImpl) ClockIn(w http.ResponseWriter, r *http.Request) {
	engine, userID, err := h.engineFor(r)
	if err != nil {
		slog.Error("Failed to resolve session engine", "error", err)
		response.InternalServerError(w, "Failed to resolve session engine")
		return
	}

	var req attendance.ClockInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.UserID = userID

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := engine.ClockIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Clock in successful", result)
}

// ClockOut implements SessionHandler.
func (h *sessionHandlerImpl) ClockOut(w http.ResponseWriter, r *http.Request) {
	engine, _, err := h.engineFor(r)
	if err != nil {
		slog.Error("Failed to resolve session engine", "error", err)
		response.InternalServerError(w, "Failed to resolve session engine")
		return
	}

	result, err := engine.ClockOut(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Clock out successful", result)
}

// ToggleBreak implements SessionHandler.
func (h *sessionHandlerImpl) ToggleBreak(w http.ResponseWriter, r *http.Request) {
	engine, _, err := h.engineFor(r)
	if err != nil {
		slog.Error("Failed to resolve session engine", "error", err)
		response.InternalServerError(w, "Failed to resolve session engine")
		return
	}

	var req attendance.ToggleBreakRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := engine.ToggleBreak(r.Context(), chi.URLParam(r, "id"), req.OnBreak)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	message := "Break started"
	if req.OnBreak {
		message = "Break ended"
	}
	response.SuccessWithMessage(w, message, result)
}

// RequestDelete implements SessionHandler.
func (h *sessionHandlerImpl) RequestDelete(w http.ResponseWriter, r *http.Request) {
	engine, _, err := h.engineFor(r)
	if err != nil {
		slog.Error("Failed to resolve session engine", "error", err)
		response.InternalServerError(w, "Failed to resolve session engine")
		return
	}

	if err := engine.RequestDelete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Delete request submitted", nil)
}

// CancelDeleteRequest implements SessionHandler.
func (h *sessionHandlerImpl) CancelDeleteRequest(w http.ResponseWriter, r *http.Request) {
	engine, _, err := h.engineFor(r)
	if err != nil {
		slog.Error("Failed to resolve session engine", "error", err)
		response.InternalServerError(w, "Failed to resolve session engine")
		return
	}

	if err := engine.CancelDeleteRequest(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Delete request cancelled", nil)
}

// ApproveDelete implements SessionHandler. Admin only; requires explicit
// confirmation in the body.
func (h *sessionHandlerImpl) ApproveDelete(w http.ResponseWriter, r *http.Request) {
	engine, _, err := h.engineFor(r)
	if err != nil {
		slog.Error("Failed to resolve session engine", "error", err)
		response.InternalServerError(w, "Failed to resolve session engine")
		return
	}

	var req attendance.ApproveDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	if err := engine.ApproveDelete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance log deleted", nil)
}

// List implements SessionHandler.
func (h *sessionHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	engine, _, err := h.engineFor(r)
	if err != nil {
		slog.Error("Failed to resolve session engine", "error", err)
		response.InternalServerError(w, "Failed to resolve session engine")
		return
	}

	now := time.Now().UTC()
	logs := engine.Logs()
	out := make([]attendance.LogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, attendance.NewLogResponse(l, now))
	}

	response.Success(w, attendance.ListLogsResponse{
		Loading: engine.Loading(),
		Logs:    out,
	})
}

// ListDays implements SessionHandler.
func (h *sessionHandlerImpl) ListDays(w http.ResponseWriter, r *http.Request) {
	engine, _, err := h.engineFor(r)
	if err != nil {
		slog.Error("Failed to resolve session engine", "error", err)
		response.InternalServerError(w, "Failed to resolve session engine")
		return
	}

	now := time.Now().UTC()
	groups := engine.GroupedByDay(now)
	out := make([]attendance.DayGroupResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, attendance.NewDayGroupResponse(g, now))
	}

	response.Success(w, attendance.ListDaysResponse{
		Loading: engine.Loading(),
		Days:    out,
	})
}
