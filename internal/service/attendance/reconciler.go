package attendance

import (
	"context"
	"log/slog"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/attendance"
)

// Reconciler consumes the repository change feed and triggers a full store
// refresh on every matching insert, update or delete. No incremental patching
// or field-level merging: the remote state replaces the local view wholesale,
// superseding any stale optimistic edits.
type Reconciler struct {
	repo   attendance.LogRepository
	engine *Engine
	scope  attendance.Scope
	logger *slog.Logger

	// onChange, when set, runs after each successful refresh. The manager
	// uses it to fan the event out to connected UI clients.
	onChange func(attendance.ChangeEvent)
}

func NewReconciler(repo attendance.LogRepository, engine *Engine, scope attendance.Scope, logger *slog.Logger, onChange func(attendance.ChangeEvent)) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{
		repo:     repo,
		engine:   engine,
		scope:    scope,
		logger:   logger.With(slog.String("scope", scopeLabel(scope))),
		onChange: onChange,
	}
}

// Run subscribes to the change feed and blocks until ctx is done or the feed
// closes. Refresh failures are logged and the subscription kept; the next
// event retries.
func (r *Reconciler) Run(ctx context.Context) error {
	events, cleanup, err := r.repo.Subscribe(ctx, r.scope)
	if err != nil {
		return err
	}
	defer cleanup()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !r.scope.Matches(ev.UserID) {
				continue
			}
			if err := r.engine.Refresh(ctx); err != nil {
				r.logger.Error("refresh after change notification failed", "kind", ev.Kind, "error", err)
				continue
			}
			if r.onChange != nil {
				r.onChange(ev)
			}
		}
	}
}
