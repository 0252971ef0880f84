// Package store provides Store implementations.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/warp/shift-engine/schedule"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory keeps users and shifts in maps guarded by a RWMutex. Writes are
// whole-record replacements, so readers see either the state before or
// after a mutation, never a partial write.
type Memory struct {
	mu     sync.RWMutex
	users  map[schedule.Username]schedule.User
	shifts map[schedule.ShiftID]schedule.Shift
}

func NewMemory() *Memory {
	return &Memory{
		users:  make(map[schedule.Username]schedule.User),
		shifts: make(map[schedule.ShiftID]schedule.Shift),
	}
}

var _ schedule.Store = (*Memory)(nil)

// -----------------------------------------------------------------------------
// Users
// -----------------------------------------------------------------------------

func (m *Memory) GetUser(_ context.Context, username schedule.Username) (*schedule.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[username]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (m *Memory) PutUser(_ context.Context, u schedule.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.Username] = u
	return nil
}

func (m *Memory) DeleteUser(_ context.Context, username schedule.Username) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, username)
	return nil
}

func (m *Memory) ListUsers(_ context.Context) ([]*schedule.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*schedule.User, 0, len(m.users))
	for _, u := range m.users {
		u := u
		out = append(out, &u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

// -----------------------------------------------------------------------------
// Shifts
// -----------------------------------------------------------------------------

func (m *Memory) GetShift(_ context.Context, id schedule.ShiftID) (*schedule.Shift, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.shifts[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *Memory) PutShift(_ context.Context, s schedule.Shift) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shifts[s.ID] = s
	return nil
}

func (m *Memory) ListShifts(_ context.Context) ([]*schedule.Shift, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collect(func(schedule.Shift) bool { return true }), nil
}

func (m *Memory) ListShiftsByEmployee(_ context.Context, username schedule.Username) ([]*schedule.Shift, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collect(func(s schedule.Shift) bool { return s.IsAssignedTo(username) }), nil
}

func (m *Memory) ListShiftsByEmployeeRange(_ context.Context, username schedule.Username, from, to time.Time) ([]*schedule.Shift, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collect(func(s schedule.Shift) bool {
		return s.IsAssignedTo(username) && !s.Date.Before(from) && !s.Date.After(to)
	}), nil
}

// collect copies matching shifts in ascending date order. Callers hold the lock.
func (m *Memory) collect(match func(schedule.Shift) bool) []*schedule.Shift {
	var out []*schedule.Shift
	for _, s := range m.shifts {
		if match(s) {
			s := s
			out = append(out, &s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Reset clears every record. Intended for tests and demo scenario loads.
func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = make(map[schedule.Username]schedule.User)
	m.shifts = make(map[schedule.ShiftID]schedule.Shift)
	return nil
}
