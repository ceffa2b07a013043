package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/sse"
)

// Manager owns one engine (and its store and reconciler) per scope: one per
// user for employee views, one unscoped for administrators. Engines are
// created lazily on first use, loaded from the remote store, and kept
// reconciled until Close.
type Manager struct {
	repo   attendance.LogRepository
	cfg    Config
	hub    *sse.Hub
	logger *slog.Logger

	mu      sync.Mutex
	engines map[string]*managedEngine

	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

type managedEngine struct {
	engine *Engine
	cancel context.CancelFunc
}

func NewManager(repo attendance.LogRepository, cfg Config, hub *sse.Hub, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		repo:    repo,
		cfg:     cfg,
		hub:     hub,
		logger:  logger,
		engines: make(map[string]*managedEngine),
		baseCtx: ctx,
		cancel:  cancel,
	}
}

// ForScope returns the engine for the scope, creating and loading it on
// first use and starting its reconciler.
func (m *Manager) ForScope(ctx context.Context, scope attendance.Scope) (*Engine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := scope.UserID
	if me, ok := m.engines[key]; ok {
		return me.engine, nil
	}

	engine := NewEngine(m.repo, scope, m.cfg, m.logger)
	if err := engine.Refresh(ctx); err != nil {
		return nil, fmt.Errorf("failed to load session store: %w", err)
	}

	topic := sse.AdminTopic
	if !scope.All() {
		topic = scope.UserID
	}
	onChange := func(ev attendance.ChangeEvent) {
		if m.hub == nil {
			return
		}
		m.hub.Publish(sse.Event{Topic: topic, Kind: string(ev.Kind), UserID: ev.UserID})
	}

	runCtx, cancel := context.WithCancel(m.baseCtx)
	rec := NewReconciler(m.repo, engine, scope, m.logger, onChange)

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		if err := rec.Run(runCtx); err != nil && runCtx.Err() == nil {
			m.logger.Error("reconciler stopped", "scope", scopeLabel(scope), "error", err)
		}
	}()

	m.engines[key] = &managedEngine{engine: engine, cancel: cancel}
	return engine, nil
}

// Close stops all reconcilers and waits for them to exit.
func (m *Manager) Close() {
	m.mu.Lock()
	for _, me := range m.engines {
		me.cancel()
	}
	m.engines = make(map[string]*managedEngine)
	m.mu.Unlock()

	m.cancel()
	m.wg.Wait()
}
