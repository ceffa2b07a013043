package attendance

import (
	"context"
)

// Scope selects which logs a store, query, or subscription covers. A zero
// UserID means the unscoped administrator view over all users.
type Scope struct {
	UserID string
}

// All reports whether the scope covers every user.
func (s Scope) All() bool {
	return s.UserID == ""
}

// Matches reports whether a change for userID falls inside the scope.
func (s Scope) Matches(userID string) bool {
	return s.All() || s.UserID == userID
}

// ChangeKind is the kind of remote change carried by a ChangeEvent.
type ChangeKind string

const (
	ChangeInsert ChangeKind = "insert"
	ChangeUpdate ChangeKind = "update"
	ChangeDelete ChangeKind = "delete"
)

// ChangeEvent is a push notification from the persistence layer. Only the
// kind and owning user are relied upon; consumers reload rather than patch.
type ChangeEvent struct {
	Kind   ChangeKind
	UserID string
}

// LogRepository is the persistence collaborator for attendance logs. The
// concrete store assigns ids on Insert and is the single source of truth;
// everything the engine holds in memory is a refreshable view over it.
type LogRepository interface {
	// Insert persists a new log and returns it with the assigned id.
	Insert(ctx context.Context, log Log) (Log, error)

	// Update persists the full current state of an existing log.
	Update(ctx context.Context, log Log) (Log, error)

	// Delete permanently removes a log.
	Delete(ctx context.Context, id string) error

	// Query returns all logs in scope, most recent clock-in first.
	Query(ctx context.Context, scope Scope) ([]Log, error)

	// Subscribe returns a channel of change events matching the scope and a
	// cleanup function releasing the subscription. The channel is closed
	// after cleanup or when ctx is done.
	Subscribe(ctx context.Context, scope Scope) (<-chan ChangeEvent, func(), error)
}
