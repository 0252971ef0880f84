/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements schedule.Store (users + shifts) using SQLite. In production,
  the same patterns apply to PostgreSQL - only minor SQL dialect
  differences.

PERSISTED LAYOUT:
  Two keyed collections, matching the engine's contract:
  - users:  keyed by username
  - shifts: keyed by shift id; assigned_employees stored as a JSON array

  Column names match the entity attribute names one-to-one so any other
  backend serving the same shape is a drop-in replacement.

WRITE DISCIPLINE:
  Every write is a whole-record INSERT OR REPLACE inside the connection's
  implicit transaction: readers see either the state before or after a
  mutation, never a partial write.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

ERRORS:
  All database failures are wrapped with schedule.ErrStorageUnavailable so
  the engine can propagate storage outages distinctly from business-rule
  violations.

USAGE:
  store, err := sqlite.New("./data/shifts.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - schedule/store.go: Interface definitions
  - schedule/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/shift-engine/schedule"
)

// Store implements schedule.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("%w: open: %v", schedule.ErrStorageUnavailable, err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: migrate: %v", schedule.ErrStorageUnavailable, err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Reset clears every record. Intended for tests and demo scenario loads.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM shifts; DELETE FROM users;`); err != nil {
		return fmt.Errorf("%w: reset: %v", schedule.ErrStorageUnavailable, err)
	}
	return nil
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Users, keyed by username
	CREATE TABLE IF NOT EXISTS users (
		username TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		role TEXT NOT NULL,
		primary_shift TEXT,
		secondary_shift TEXT,
		hourly_rate TEXT NOT NULL DEFAULT '0',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_users_role ON users(role);

	-- Shifts, keyed by shift identifier
	CREATE TABLE IF NOT EXISTS shifts (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		shift_type TEXT NOT NULL,
		planned_start TEXT NOT NULL,
		planned_end TEXT NOT NULL,
		actual_start TEXT,
		actual_end TEXT,
		assigned_employees TEXT NOT NULL,  -- JSON array of usernames
		assigned_admin TEXT,
		status TEXT NOT NULL,
		approved BOOLEAN NOT NULL DEFAULT FALSE,
		manual_amount TEXT,
		description TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_shifts_date ON shifts(date);
	CREATE INDEX IF NOT EXISTS idx_shifts_status ON shifts(status);

	-- Payroll hot path: approved shifts in a date range
	CREATE INDEX IF NOT EXISTS idx_shifts_approved_date ON shifts(approved, date);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// USERS
// =============================================================================

func (s *Store) GetUser(ctx context.Context, username schedule.Username) (*schedule.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT username, name, email, role, primary_shift, secondary_shift, hourly_rate, created_at, updated_at
		FROM users WHERE username = ?`, string(username))

	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get user: %v", schedule.ErrStorageUnavailable, err)
	}
	return u, nil
}

func (s *Store) PutUser(ctx context.Context, u schedule.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO users
			(username, name, email, role, primary_shift, secondary_shift, hourly_rate, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(u.Username), u.Name, u.Email, string(u.Role),
		string(u.PrimaryShift), string(u.SecondaryShift), u.HourlyRate.String(),
		u.CreatedAt.UTC().Format(time.RFC3339), u.UpdatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("%w: put user: %v", schedule.ErrStorageUnavailable, err)
	}
	return nil
}

func (s *Store) DeleteUser(ctx context.Context, username schedule.Username) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE username = ?`, string(username))
	if err != nil {
		return fmt.Errorf("%w: delete user: %v", schedule.ErrStorageUnavailable, err)
	}
	return nil
}

func (s *Store) ListUsers(ctx context.Context) ([]*schedule.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT username, name, email, role, primary_shift, secondary_shift, hourly_rate, created_at, updated_at
		FROM users ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("%w: list users: %v", schedule.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	var users []*schedule.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan user: %v", schedule.ErrStorageUnavailable, err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// rowScanner lets scan helpers work on both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*schedule.User, error) {
	var (
		u                  schedule.User
		username, role     string
		email              sql.NullString
		primary, secondary sql.NullString
		rate               string
		createdAt, updated string
	)
	if err := row.Scan(&username, &u.Name, &email, &role, &primary, &secondary, &rate, &createdAt, &updated); err != nil {
		return nil, err
	}
	u.Username = schedule.Username(username)
	u.Email = email.String
	u.Role = schedule.Role(role)
	u.PrimaryShift = schedule.ShiftTypeID(primary.String)
	u.SecondaryShift = schedule.ShiftTypeID(secondary.String)

	var err error
	if u.HourlyRate, err = decimal.NewFromString(rate); err != nil {
		return nil, err
	}
	if u.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, err
	}
	if u.UpdatedAt, err = time.Parse(time.RFC3339, updated); err != nil {
		return nil, err
	}
	return &u, nil
}

// =============================================================================
// SHIFTS
// =============================================================================

const shiftColumns = `id, date, shift_type, planned_start, planned_end, actual_start, actual_end,
	assigned_employees, assigned_admin, status, approved, manual_amount, description, created_at, updated_at`

func (s *Store) GetShift(ctx context.Context, id schedule.ShiftID) (*schedule.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+shiftColumns+` FROM shifts WHERE id = ?`, string(id))

	sh, err := scanShift(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get shift: %v", schedule.ErrStorageUnavailable, err)
	}
	return sh, nil
}

func (s *Store) PutShift(ctx context.Context, sh schedule.Shift) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	employees, err := json.Marshal(sh.AssignedEmployees)
	if err != nil {
		return fmt.Errorf("%w: marshal employees: %v", schedule.ErrStorageUnavailable, err)
	}

	var actualStart, actualEnd, manualAmount any
	if sh.ActualStart != nil {
		actualStart = sh.ActualStart.String()
	}
	if sh.ActualEnd != nil {
		actualEnd = sh.ActualEnd.String()
	}
	if sh.ManualAmount != nil {
		manualAmount = sh.ManualAmount.String()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO shifts (`+shiftColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(sh.ID), schedule.FormatDate(sh.Date), string(sh.Type),
		sh.PlannedStart.String(), sh.PlannedEnd.String(), actualStart, actualEnd,
		string(employees), string(sh.AssignedAdmin), string(sh.Status), sh.Approved,
		manualAmount, sh.Description,
		sh.CreatedAt.UTC().Format(time.RFC3339), sh.UpdatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("%w: put shift: %v", schedule.ErrStorageUnavailable, err)
	}
	return nil
}

func (s *Store) ListShifts(ctx context.Context) ([]*schedule.Shift, error) {
	return s.queryShifts(ctx, `SELECT `+shiftColumns+` FROM shifts ORDER BY date, id`)
}

func (s *Store) ListShiftsByEmployee(ctx context.Context, username schedule.Username) ([]*schedule.Shift, error) {
	// Membership in the JSON employee array is checked in Go; the employee
	// filter is not on the hot path at the data sizes this store serves.
	shifts, err := s.ListShifts(ctx)
	if err != nil {
		return nil, err
	}
	var out []*schedule.Shift
	for _, sh := range shifts {
		if sh.IsAssignedTo(username) {
			out = append(out, sh)
		}
	}
	return out, nil
}

func (s *Store) ListShiftsByEmployeeRange(ctx context.Context, username schedule.Username, from, to time.Time) ([]*schedule.Shift, error) {
	shifts, err := s.queryShifts(ctx,
		`SELECT `+shiftColumns+` FROM shifts WHERE date >= ? AND date <= ? ORDER BY date, id`,
		schedule.FormatDate(from), schedule.FormatDate(to))
	if err != nil {
		return nil, err
	}
	var out []*schedule.Shift
	for _, sh := range shifts {
		if sh.IsAssignedTo(username) {
			out = append(out, sh)
		}
	}
	return out, nil
}

func (s *Store) queryShifts(ctx context.Context, query string, args ...any) ([]*schedule.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: list shifts: %v", schedule.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	var shifts []*schedule.Shift
	for rows.Next() {
		sh, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan shift: %v", schedule.ErrStorageUnavailable, err)
		}
		shifts = append(shifts, sh)
	}
	return shifts, rows.Err()
}

func scanShift(row rowScanner) (*schedule.Shift, error) {
	var (
		sh                        schedule.Shift
		id, date, shiftType       string
		plannedStart, plannedEnd  string
		actualStart, actualEnd    sql.NullString
		employees, status         string
		admin, amount, descr      sql.NullString
		createdAt, updatedAt      string
	)
	if err := row.Scan(&id, &date, &shiftType, &plannedStart, &plannedEnd,
		&actualStart, &actualEnd, &employees, &admin, &status, &sh.Approved,
		&amount, &descr, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	sh.ID = schedule.ShiftID(id)
	sh.Type = schedule.ShiftTypeID(shiftType)
	sh.AssignedAdmin = schedule.Username(admin.String)
	sh.Status = schedule.ShiftStatus(status)
	sh.Description = descr.String

	var err error
	if sh.Date, err = schedule.ParseDate(date); err != nil {
		return nil, err
	}
	if sh.PlannedStart, err = schedule.ParseClock(plannedStart); err != nil {
		return nil, err
	}
	if sh.PlannedEnd, err = schedule.ParseClock(plannedEnd); err != nil {
		return nil, err
	}
	if actualStart.Valid {
		c, err := schedule.ParseClock(actualStart.String)
		if err != nil {
			return nil, err
		}
		sh.ActualStart = &c
	}
	if actualEnd.Valid {
		c, err := schedule.ParseClock(actualEnd.String)
		if err != nil {
			return nil, err
		}
		sh.ActualEnd = &c
	}
	if err := json.Unmarshal([]byte(employees), &sh.AssignedEmployees); err != nil {
		return nil, err
	}
	if amount.Valid {
		d, err := decimal.NewFromString(amount.String)
		if err != nil {
			return nil, err
		}
		sh.ManualAmount = &d
	}
	if sh.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, err
	}
	if sh.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, err
	}
	return &sh, nil
}
