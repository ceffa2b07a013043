package postgresql

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/attendance"
	"github.com/jackc/pgx/v5"
)

// notifyChannel is raised by the trigger in migrations/001_attendance_logs.sql.
const notifyChannel = "attendance_logs_changed"

// notifyPayload is what the trigger puts on the channel. Consumers only rely
// on the operation kind and the owning user; full row contents are refetched.
type notifyPayload struct {
	Op     string `json:"op"`
	UserID string `json:"user_id"`
}

// Listener holds one dedicated connection in LISTEN mode and fans change
// notifications out to scoped subscribers. It reconnects with backoff if the
// connection drops.
type Listener struct {
	dsn    string
	logger *slog.Logger

	mu   sync.Mutex
	subs map[chan attendance.ChangeEvent]attendance.Scope
}

func NewListener(dsn string, logger *slog.Logger) *Listener {
	if logger == nil {
		logger = slog.Default()
	}
	return &Listener{
		dsn:    dsn,
		logger: logger,
		subs:   make(map[chan attendance.ChangeEvent]attendance.Scope),
	}
}

// Run blocks consuming notifications until ctx is done.
func (l *Listener) Run(ctx context.Context) error {
	for {
		if err := l.listen(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			l.logger.Error("change listener disconnected, retrying", "error", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
}

func (l *Listener) listen(ctx context.Context) error {
	conn, err := pgx.Connect(ctx, l.dsn)
	if err != nil {
		return err
	}
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+notifyChannel); err != nil {
		return err
	}

	for {
		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			return err
		}

		var payload notifyPayload
		if err := json.Unmarshal([]byte(notification.Payload), &payload); err != nil {
			l.logger.Error("malformed change notification", "payload", notification.Payload, "error", err)
			continue
		}

		l.dispatch(attendance.ChangeEvent{
			Kind:   changeKind(payload.Op),
			UserID: payload.UserID,
		})
	}
}

func changeKind(op string) attendance.ChangeKind {
	switch strings.ToUpper(op) {
	case "INSERT":
		return attendance.ChangeInsert
	case "DELETE":
		return attendance.ChangeDelete
	default:
		return attendance.ChangeUpdate
	}
}

func (l *Listener) dispatch(ev attendance.ChangeEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for ch, scope := range l.subs {
		if !scope.Matches(ev.UserID) {
			continue
		}
		select {
		case ch <- ev:
		default:
			// Slow subscriber; dropping is safe because consumers reload
			// the full state on the next event anyway.
		}
	}
}

func (l *Listener) subscribe(scope attendance.Scope) (chan attendance.ChangeEvent, func()) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ch := make(chan attendance.ChangeEvent, 16)
	l.subs[ch] = scope

	cleanup := func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if _, ok := l.subs[ch]; ok {
			delete(l.subs, ch)
			close(ch)
		}
	}

	return ch, cleanup
}
