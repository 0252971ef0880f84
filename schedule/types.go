/*
Package schedule provides the core shift lifecycle and payroll engine.

PURPOSE:
  This package contains the domain types and algorithms for assigning work
  shifts to employees, tracking the approval workflow from proposal to
  payable record, and computing wages from approved time. It owns the real
  invariants: the shift-type catalog and compatibility rules, the per-shift
  approval state machine, the 12-hour rest constraint enforced at creation,
  and the duration/pay arithmetic that handles shifts crossing midnight.

KEY CONCEPTS IN THIS FILE (types.go):
  - Shift:    A proposed/accepted/approved work assignment (or a manual
              payroll pseudo-shift)
  - User:     An employee, admin, or head admin with shift qualifications
  - Username/ShiftID/ShiftTypeID: Type-safe identifiers

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal for money, never float arithmetic
  2. Type Safety: Strong typing for IDs prevents mixing usernames and shift IDs
  3. Explicit errors: Every guard violation surfaces a distinguishable kind
  4. No presentation concerns: plain values in, plain values out

SEE ALSO:
  - catalog.go:   Shift-type definitions and compatibility
  - lifecycle.go: Create/accept/decline/approve state machine
  - payroll.go:   Wage computation over approved shifts
  - rest.go:      Mandatory rest-gap validation
*/
package schedule

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type ShiftID string
type Username string
type ShiftTypeID string

// ShiftTypeManualPayroll is the sentinel type of manual payroll entries.
// It is never a catalog entry and never schedulable.
const ShiftTypeManualPayroll ShiftTypeID = "manual_payroll"

// =============================================================================
// ROLES
// =============================================================================

type Role string

const (
	RoleEmployee  Role = "employee"
	RoleAdmin     Role = "admin"
	RoleHeadAdmin Role = "head_admin"
)

// CanManageShifts reports whether the role may create and approve shifts.
func (r Role) CanManageShifts() bool { return r == RoleAdmin || r == RoleHeadAdmin }

// =============================================================================
// USER
// =============================================================================

// User is an employee, admin, or head admin. Primary and secondary shift
// types constrain which shifts the user may be scheduled into; the secondary
// must belong to the primary's compatibility set or be absent. The hourly
// rate is meaningless for head admins.
type User struct {
	Username       Username
	Name           string
	Email          string
	Role           Role
	PrimaryShift   ShiftTypeID
	SecondaryShift ShiftTypeID // empty = none
	HourlyRate     decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// QualifiedShiftTypes returns the shift types this user may be scheduled
// into: the primary plus the declared secondary, if any.
func (u *User) QualifiedShiftTypes() []ShiftTypeID {
	types := []ShiftTypeID{u.PrimaryShift}
	if u.SecondaryShift != "" {
		types = append(types, u.SecondaryShift)
	}
	return types
}

// IsQualifiedFor reports whether the user may work the given shift type.
func (u *User) IsQualifiedFor(id ShiftTypeID) bool {
	return id == u.PrimaryShift || (u.SecondaryShift != "" && id == u.SecondaryShift)
}

// =============================================================================
// SHIFT
// =============================================================================

type ShiftStatus string

const (
	StatusPending  ShiftStatus = "pending"
	StatusAccepted ShiftStatus = "accepted"
	StatusDeclined ShiftStatus = "declined"
	StatusApproved ShiftStatus = "approved"
)

// Terminal reports whether no further transition is allowed from the status.
func (s ShiftStatus) Terminal() bool { return s == StatusDeclined || s == StatusApproved }

// Shift is a work assignment moving through the approval workflow, or a
// manual payroll pseudo-shift created directly in the approved state.
//
// Invariant: Approved=true is always accompanied by non-nil actual times
// (or, for manual entries, a non-nil amount).
type Shift struct {
	ID   ShiftID
	Date time.Time // calendar day, midnight UTC
	Type ShiftTypeID

	PlannedStart ClockTime
	PlannedEnd   ClockTime
	ActualStart  *ClockTime // set on approval only
	ActualEnd    *ClockTime

	AssignedEmployees []Username
	AssignedAdmin     Username // empty = unassigned

	Status   ShiftStatus
	Approved bool

	// Manual payroll entries only.
	ManualAmount *decimal.Decimal
	Description  string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsManual reports whether the record is a manual payroll entry.
func (s *Shift) IsManual() bool { return s.Type == ShiftTypeManualPayroll }

// IsAssignedTo reports whether the employee is among the assignees.
func (s *Shift) IsAssignedTo(u Username) bool {
	for _, e := range s.AssignedEmployees {
		if e == u {
			return true
		}
	}
	return false
}

// EffectiveStart is the actual start if recorded, else the planned start.
func (s *Shift) EffectiveStart() ClockTime {
	if s.ActualStart != nil {
		return *s.ActualStart
	}
	return s.PlannedStart
}

// EffectiveEnd is the actual end if recorded, else the planned end.
func (s *Shift) EffectiveEnd() ClockTime {
	if s.ActualEnd != nil {
		return *s.ActualEnd
	}
	return s.PlannedEnd
}

// StartInstant is the planned start placed on the shift's date.
func (s *Shift) StartInstant() time.Time { return s.PlannedStart.On(s.Date) }

// EndInstant is the true end instant of the shift: its date combined with
// its planned end, rolled to the next day when the window crosses midnight.
func (s *Shift) EndInstant() time.Time { return spanEnd(s.Date, s.PlannedStart, s.PlannedEnd) }

// Hours is the worked length of the shift using actual-else-planned times.
// Manual entries have no worked length.
func (s *Shift) Hours() float64 {
	if s.IsManual() {
		return 0
	}
	return hoursBetween(s.EffectiveStart(), s.EffectiveEnd())
}
