package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/attendance"
	"github.com/google/uuid"
)

// Config carries the engine knobs that come from the environment.
type Config struct {
	// MutationTimeout bounds every remote call; expiry counts as a write
	// failure and triggers rollback.
	MutationTimeout time.Duration

	// Location resolves the local work day when the caller did not send one.
	Location *time.Location

	// Clock returns the current time. Defaults to time.Now.
	Clock func() time.Time
}

func (c *Config) applyDefaults() {
	if c.MutationTimeout <= 0 {
		c.MutationTimeout = 10 * time.Second
	}
	if c.Location == nil {
		c.Location = time.Local
	}
	if c.Clock == nil {
		c.Clock = time.Now
	}
}

// Engine implements attendance.SessionService for one scope: it owns the
// scope's Store and funnels every mutation through the same
// snapshot / optimistic-apply / commit-or-rollback sequence.
//
// A single mutex serializes mutations and refreshes, so no two writers ever
// interleave a partial change; reads go straight to the store.
type Engine struct {
	repo   attendance.LogRepository
	store  *Store
	scope  attendance.Scope
	cfg    Config
	logger *slog.Logger

	mu       sync.Mutex
	inFlight atomic.Int32
}

func NewEngine(repo attendance.LogRepository, scope attendance.Scope, cfg Config, logger *slog.Logger) *Engine {
	cfg.applyDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		repo:   repo,
		store:  NewStore(),
		scope:  scope,
		cfg:    cfg,
		logger: logger.With(slog.String("scope", scopeLabel(scope))),
	}
}

func scopeLabel(s attendance.Scope) string {
	if s.All() {
		return "all"
	}
	return s.UserID
}

func (e *Engine) remoteCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, e.cfg.MutationTimeout)
}

// Refresh replaces the store wholesale from the remote store. Stale
// optimistic state, if any, is superseded: last refresh wins.
func (e *Engine) Refresh(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	rctx, cancel := e.remoteCtx(ctx)
	defer cancel()

	logs, err := e.repo.Query(rctx, e.scope)
	if err != nil {
		return fmt.Errorf("failed to refresh session store: %w", err)
	}
	e.store.Replace(logs)
	return nil
}

// ClockIn implements attendance.SessionService.
func (e *Engine) ClockIn(ctx context.Context, req attendance.ClockInRequest) (attendance.LogResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.LogResponse{}, err
	}
	if !e.scope.Matches(req.UserID) {
		return attendance.LogResponse{}, attendance.ErrLogNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.inFlight.Add(1)
	defer e.inFlight.Add(-1)

	for _, l := range e.store.All() {
		if l.UserID == req.UserID && l.Active() {
			return attendance.LogResponse{}, attendance.ErrAlreadyClockedIn
		}
	}

	now := e.cfg.Clock()
	nowUTC := now.UTC()

	// The work day comes from the caller's device when provided; deriving it
	// from the UTC timestamp would misfile sessions around local midnight.
	date := req.Date
	if date == "" {
		date = now.In(e.cfg.Location).Format("2006-01-02")
	}

	provisional := attendance.Log{
		ID:                "pending-" + uuid.NewString(),
		UserID:            req.UserID,
		Date:              date,
		ClockIn:           nowUTC,
		IsBreak:           false,
		BreakTotalMinutes: 0,
		Status:            req.Status,
	}
	e.store.Prepend(provisional)

	rctx, cancel := e.remoteCtx(ctx)
	defer cancel()

	stored, err := e.repo.Insert(rctx, provisional)
	if err != nil {
		e.store.Remove(provisional.ID)
		e.logger.Error("clock-in insert failed, optimistic entry removed", "error", err)
		return attendance.LogResponse{}, fmt.Errorf("failed to persist clock-in: %w", err)
	}
	e.store.Rekey(provisional.ID, stored)

	return attendance.NewLogResponse(stored, nowUTC), nil
}

// ClockOut implements attendance.SessionService. An in-progress break is
// ended and its whole minutes credited before the session closes.
func (e *Engine) ClockOut(ctx context.Context, logID string) (attendance.LogResponse, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.inFlight.Add(1)
	defer e.inFlight.Add(-1)

	log, ok := e.store.Get(logID)
	if !ok {
		return attendance.LogResponse{}, attendance.ErrLogNotFound
	}
	if !log.Active() {
		return attendance.LogResponse{}, attendance.ErrSessionClosed
	}

	nowUTC := e.cfg.Clock().UTC()

	updated := log.Clone()
	if updated.IsBreak && updated.BreakStart != nil {
		updated.BreakTotalMinutes += attendance.BreakMinutes(*updated.BreakStart, nowUTC)
	}
	updated.ClockOut = &nowUTC
	updated.IsBreak = false
	updated.BreakStart = nil

	stored, err := e.commitUpdate(ctx, updated)
	if err != nil {
		return attendance.LogResponse{}, fmt.Errorf("failed to persist clock-out: %w", err)
	}
	return attendance.NewLogResponse(stored, nowUTC), nil
}

// ToggleBreak implements attendance.SessionService. onBreak is the caller's
// view of the current state; a mismatch means the caller is stale.
func (e *Engine) ToggleBreak(ctx context.Context, logID string, onBreak bool) (attendance.LogResponse, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.inFlight.Add(1)
	defer e.inFlight.Add(-1)

	log, ok := e.store.Get(logID)
	if !ok {
		return attendance.LogResponse{}, attendance.ErrLogNotFound
	}
	if !log.Active() {
		return attendance.LogResponse{}, attendance.ErrSessionClosed
	}
	if log.IsBreak != onBreak {
		return attendance.LogResponse{}, attendance.ErrBreakStateConflict
	}

	nowUTC := e.cfg.Clock().UTC()

	updated := log.Clone()
	if onBreak {
		// Ending the break: credit its whole minutes.
		if updated.BreakStart != nil {
			updated.BreakTotalMinutes += attendance.BreakMinutes(*updated.BreakStart, nowUTC)
		}
		updated.IsBreak = false
		updated.BreakStart = nil
	} else {
		updated.IsBreak = true
		updated.BreakStart = &nowUTC
	}

	stored, err := e.commitUpdate(ctx, updated)
	if err != nil {
		return attendance.LogResponse{}, fmt.Errorf("failed to persist break toggle: %w", err)
	}
	return attendance.NewLogResponse(stored, nowUTC), nil
}

// RequestDelete implements attendance.SessionService.
func (e *Engine) RequestDelete(ctx context.Context, logID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.inFlight.Add(1)
	defer e.inFlight.Add(-1)

	log, ok := e.store.Get(logID)
	if !ok {
		return attendance.ErrLogNotFound
	}

	updated := log.Clone()
	note := attendance.DeleteRequestedNote
	updated.Notes = &note

	if _, err := e.commitUpdate(ctx, updated); err != nil {
		return fmt.Errorf("failed to persist delete request: %w", err)
	}
	return nil
}

// CancelDeleteRequest implements attendance.SessionService.
func (e *Engine) CancelDeleteRequest(ctx context.Context, logID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.inFlight.Add(1)
	defer e.inFlight.Add(-1)

	log, ok := e.store.Get(logID)
	if !ok {
		return attendance.ErrLogNotFound
	}
	if !log.DeleteRequested() {
		return attendance.ErrNotDeleteRequested
	}

	updated := log.Clone()
	updated.Notes = nil

	if _, err := e.commitUpdate(ctx, updated); err != nil {
		return fmt.Errorf("failed to cancel delete request: %w", err)
	}
	return nil
}

// ApproveDelete implements attendance.SessionService. The record is removed
// optimistically and restored if the remote delete fails.
func (e *Engine) ApproveDelete(ctx context.Context, logID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.inFlight.Add(1)
	defer e.inFlight.Add(-1)

	log, ok := e.store.Get(logID)
	if !ok {
		return attendance.ErrLogNotFound
	}
	if !log.DeleteRequested() {
		return attendance.ErrNotDeleteRequested
	}

	snapshot := e.store.Snapshot()
	e.store.Remove(logID)

	rctx, cancel := e.remoteCtx(ctx)
	defer cancel()

	if err := e.repo.Delete(rctx, logID); err != nil {
		e.store.Restore(snapshot)
		e.logger.Error("delete failed, store rolled back", "log_id", logID, "error", err)
		return fmt.Errorf("failed to delete attendance log: %w", err)
	}
	return nil
}

// commitUpdate runs the shared snapshot / optimistic-apply / remote-update /
// rollback-on-failure sequence. Caller must hold e.mu.
func (e *Engine) commitUpdate(ctx context.Context, updated attendance.Log) (attendance.Log, error) {
	snapshot := e.store.Snapshot()
	e.store.Set(updated)

	rctx, cancel := e.remoteCtx(ctx)
	defer cancel()

	stored, err := e.repo.Update(rctx, updated)
	if err != nil {
		e.store.Restore(snapshot)
		e.logger.Error("remote update failed, store rolled back", "log_id", updated.ID, "error", err)
		return attendance.Log{}, err
	}
	e.store.Set(stored)
	return stored, nil
}

// GroupedByDay implements attendance.SessionService.
func (e *Engine) GroupedByDay(now time.Time) []attendance.DayGroup {
	return attendance.GroupByDay(e.store.All(), now)
}

// Logs implements attendance.SessionService.
func (e *Engine) Logs() []attendance.Log {
	return e.store.All()
}

// Loading implements attendance.SessionService.
func (e *Engine) Loading() bool {
	return e.inFlight.Load() > 0
}

var _ attendance.SessionService = (*Engine)(nil)
