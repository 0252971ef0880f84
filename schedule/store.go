/*
store.go - Persistence interface for users and shifts

PURPOSE:
  Defines the interface between the engine and the storage backend: two
  keyed collections, users by username and shifts by shift identifier.
  Different implementations can use SQLite or in-memory storage.

CONTRACT:
  - Get* returns (nil, nil) when the record is absent; existence policy
    (ErrUnknownEntity) lives in the services, not the store.
  - Put* is an atomic replace-on-write: concurrent readers see either the
    state before or after a given mutation, never a partial write.
  - Implementations wrap backend I/O failures with ErrStorageUnavailable;
    the engine propagates those, never swallows them.

IMPLEMENTATIONS:
  - store/sqlite: Production SQLite store
  - schedule/store: In-memory store for tests and dev

SEE ALSO:
  - lifecycle.go, users.go, payroll.go: Consumers of these interfaces
*/
package schedule

import (
	"context"
	"time"
)

// UserStore persists users keyed by username.
type UserStore interface {
	GetUser(ctx context.Context, username Username) (*User, error)
	PutUser(ctx context.Context, u User) error
	DeleteUser(ctx context.Context, username Username) error
	ListUsers(ctx context.Context) ([]*User, error)
}

// ShiftStore persists shifts keyed by shift identifier.
type ShiftStore interface {
	GetShift(ctx context.Context, id ShiftID) (*Shift, error)
	PutShift(ctx context.Context, s Shift) error
	ListShifts(ctx context.Context) ([]*Shift, error)

	// ListShiftsByEmployee returns every shift the employee is assigned to,
	// in ascending date order. Used by the rest-period check and payroll.
	ListShiftsByEmployee(ctx context.Context, username Username) ([]*Shift, error)

	// ListShiftsByEmployeeRange restricts to shifts whose date falls in the
	// inclusive [from, to] range.
	ListShiftsByEmployeeRange(ctx context.Context, username Username, from, to time.Time) ([]*Shift, error)
}

// Store combines both collections behind one backend.
type Store interface {
	UserStore
	ShiftStore
}
