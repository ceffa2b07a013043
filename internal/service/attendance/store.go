package attendance

import (
	"sync"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/attendance"
)

// Store is the in-memory ordered view over the remote store's attendance
// logs, newest clock-in first. It never owns the source of truth: the engine
// mutates it optimistically and the reconciler replaces it wholesale.
//
// Every value crossing the boundary is deep-copied, so snapshots taken before
// an optimistic mutation restore the exact pre-mutation state.
type Store struct {
	mu   sync.RWMutex
	logs []attendance.Log
}

func NewStore() *Store {
	return &Store{}
}

// Replace swaps the entire contents for the authoritative remote state.
func (s *Store) Replace(logs []attendance.Log) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = attendance.CloneLogs(logs)
}

// All returns a copy of the current logs in store order.
func (s *Store) All() []attendance.Log {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return attendance.CloneLogs(s.logs)
}

// Get returns the log with the given id.
func (s *Store) Get(id string) (attendance.Log, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, l := range s.logs {
		if l.ID == id {
			return l.Clone(), true
		}
	}
	return attendance.Log{}, false
}

// Prepend inserts a log at the front, where the freshest session lives.
func (s *Store) Prepend(l attendance.Log) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append([]attendance.Log{l.Clone()}, s.logs...)
}

// Set replaces the log with the same id and reports whether it was present.
func (s *Store) Set(l attendance.Log) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.logs {
		if s.logs[i].ID == l.ID {
			s.logs[i] = l.Clone()
			return true
		}
	}
	return false
}

// Rekey replaces the log stored under oldID with l, which may carry a new
// server-assigned id. Used to swap a provisional optimistic insert for the
// persisted record.
func (s *Store) Rekey(oldID string, l attendance.Log) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.logs {
		if s.logs[i].ID == oldID {
			s.logs[i] = l.Clone()
			return true
		}
	}
	return false
}

// Remove deletes the log with the given id and reports whether it existed.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.logs {
		if s.logs[i].ID == id {
			s.logs = append(s.logs[:i], s.logs[i+1:]...)
			return true
		}
	}
	return false
}

// Snapshot captures the full current state for a later Restore.
func (s *Store) Snapshot() []attendance.Log {
	return s.All()
}

// Restore puts back a snapshot verbatim.
func (s *Store) Restore(snapshot []attendance.Log) {
	s.Replace(snapshot)
}

// Len returns the number of logs held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.logs)
}
