package attendance

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/attendance"
)

// fakeRepo is an in-memory attendance.LogRepository with failure injection,
// standing in for the hosted store in engine tests.
type fakeRepo struct {
	mu     sync.Mutex
	logs   map[string]attendance.Log
	nextID int

	failInsert bool
	failUpdate bool
	failDelete bool
	failQuery  bool

	events chan attendance.ChangeEvent
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		logs:   make(map[string]attendance.Log),
		events: make(chan attendance.ChangeEvent, 16),
	}
}

func (f *fakeRepo) seed(logs ...attendance.Log) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range logs {
		f.logs[l.ID] = l.Clone()
	}
}

func (f *fakeRepo) Insert(_ context.Context, log attendance.Log) (attendance.Log, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failInsert {
		return attendance.Log{}, fmt.Errorf("insert: %w", attendance.ErrWriteFailed)
	}
	f.nextID++
	stored := log.Clone()
	stored.ID = fmt.Sprintf("log-%d", f.nextID)
	stored.CreatedAt = time.Now().UTC()
	stored.UpdatedAt = stored.CreatedAt
	f.logs[stored.ID] = stored
	return stored.Clone(), nil
}

func (f *fakeRepo) Update(_ context.Context, log attendance.Log) (attendance.Log, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpdate {
		return attendance.Log{}, fmt.Errorf("update: %w", attendance.ErrWriteFailed)
	}
	if _, ok := f.logs[log.ID]; !ok {
		return attendance.Log{}, attendance.ErrLogNotFound
	}
	stored := log.Clone()
	stored.UpdatedAt = time.Now().UTC()
	f.logs[stored.ID] = stored
	return stored.Clone(), nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDelete {
		return fmt.Errorf("delete: %w", attendance.ErrWriteFailed)
	}
	if _, ok := f.logs[id]; !ok {
		return attendance.ErrLogNotFound
	}
	delete(f.logs, id)
	return nil
}

func (f *fakeRepo) Query(_ context.Context, scope attendance.Scope) ([]attendance.Log, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failQuery {
		return nil, fmt.Errorf("query: %w", attendance.ErrWriteFailed)
	}
	out := make([]attendance.Log, 0, len(f.logs))
	for _, l := range f.logs {
		if scope.Matches(l.UserID) {
			out = append(out, l.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ClockIn.After(out[j].ClockIn)
	})
	return out, nil
}

func (f *fakeRepo) Subscribe(_ context.Context, _ attendance.Scope) (<-chan attendance.ChangeEvent, func(), error) {
	return f.events, func() {}, nil
}

func (f *fakeRepo) notify(ev attendance.ChangeEvent) {
	f.events <- ev
}

var _ attendance.LogRepository = (*fakeRepo)(nil)

// testClock is an adjustable clock for deterministic duration math.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock(now time.Time) *testClock {
	return &testClock{now: now}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
