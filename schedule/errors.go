/*
errors.go - Centralized error types for the scheduling engine

PURPOSE:
  All error kinds in one place for consistency and discoverability.
  Every guard violation in the engine surfaces one of these kinds;
  nothing fails silently or defaults to a "safe" value.

ERROR CATEGORIES:
  1. Catalog errors     - Unknown or incompatible shift types
  2. Lifecycle errors   - Illegal state-machine transitions, rest violations
  3. Entity errors      - Missing users/shifts, duplicate usernames
  4. Store errors       - Storage backend unavailability (propagated, never swallowed)

USAGE:
  Callers branch with errors.Is / errors.As:

    if errors.Is(err, schedule.ErrRestPeriodViolation) {
        var rpe *schedule.RestPeriodError
        errors.As(err, &rpe)
        // rpe.Username, rpe.Gap ...
    }

SEE ALSO:
  - lifecycle.go: Produces transition and rest errors
  - store/: Wraps backend failures with ErrStorageUnavailable
*/
package schedule

import (
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrUnknownShiftType is returned when a shift-type identifier is not in
	// the catalog.
	ErrUnknownShiftType = errors.New("unknown shift type")

	// ErrInvalidTimeFormat is returned for malformed HH:MM or date input,
	// anywhere time values enter the engine.
	ErrInvalidTimeFormat = errors.New("invalid time format")

	// ErrNoCompatibleShiftType is returned at creation when no shift type is
	// qualified for every selected employee.
	ErrNoCompatibleShiftType = errors.New("no compatible shift type")

	// ErrRestPeriodViolation is returned when an employee would have less
	// than the mandatory rest gap before a proposed shift.
	ErrRestPeriodViolation = errors.New("rest period violation")

	// ErrInvalidTransition is returned for state-machine violations, e.g.
	// approving a declined shift or accepting outside pending.
	ErrInvalidTransition = errors.New("invalid shift transition")

	// ErrUnknownEntity is returned when a referenced shift or user does not exist.
	ErrUnknownEntity = errors.New("unknown entity")

	// ErrDuplicateUsername is returned when creating a user whose username is taken.
	ErrDuplicateUsername = errors.New("duplicate username")

	// ErrForbiddenRoleMutation is returned on attempts to delete the head
	// admin or reassign its role.
	ErrForbiddenRoleMutation = errors.New("forbidden role mutation")

	// ErrNotPermitted is returned when the acting user lacks the role a
	// mutation requires.
	ErrNotPermitted = errors.New("operation not permitted for role")

	// ErrStorageUnavailable is returned by store implementations when the
	// backend fails. The engine propagates it, never swallows it.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// UnknownShiftTypeError identifies the missing catalog entry.
type UnknownShiftTypeError struct {
	ID ShiftTypeID
}

func (e *UnknownShiftTypeError) Error() string {
	return fmt.Sprintf("unknown shift type %q", e.ID)
}

func (e *UnknownShiftTypeError) Unwrap() error { return ErrUnknownShiftType }

// TimeFormatError reports the malformed time value.
type TimeFormatError struct {
	Value string
}

func (e *TimeFormatError) Error() string {
	return fmt.Sprintf("invalid time %q (want HH:MM)", e.Value)
}

func (e *TimeFormatError) Unwrap() error { return ErrInvalidTimeFormat }

// RestPeriodError reports which employee would be short of rest, and by how much.
type RestPeriodError struct {
	Username      Username
	LatestEnd     time.Time
	ProposedStart time.Time
	Gap           time.Duration
}

func (e *RestPeriodError) Error() string {
	return fmt.Sprintf("rest period violation for %s: %.1fh since shift ending %s, need %dh",
		e.Username, e.Gap.Hours(), e.LatestEnd.Format("2006-01-02 15:04"), MinRestHours)
}

func (e *RestPeriodError) Unwrap() error { return ErrRestPeriodViolation }

// TransitionError reports an illegal state-machine move.
type TransitionError struct {
	ShiftID   ShiftID
	From      ShiftStatus
	Attempted string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("shift %s: cannot %s while %s", e.ShiftID, e.Attempted, e.From)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// NoCompatibleShiftTypeError reports the employees whose qualified sets
// produced an empty intersection, or the type that fell outside it.
type NoCompatibleShiftTypeError struct {
	ShiftType ShiftTypeID
	Employees []Username
}

func (e *NoCompatibleShiftTypeError) Error() string {
	if e.ShiftType != "" {
		return fmt.Sprintf("shift type %q is not qualified for every selected employee", e.ShiftType)
	}
	return "selected employees share no qualified shift type"
}

func (e *NoCompatibleShiftTypeError) Unwrap() error { return ErrNoCompatibleShiftType }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid input or a
// business-rule conflict rather than an engine or storage failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrUnknownShiftType) ||
		errors.Is(err, ErrInvalidTimeFormat) ||
		errors.Is(err, ErrNoCompatibleShiftType) ||
		errors.Is(err, ErrRestPeriodViolation) ||
		errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrDuplicateUsername) ||
		errors.Is(err, ErrForbiddenRoleMutation) ||
		errors.Is(err, ErrNotPermitted)
}

// IsNotFound returns true if the error indicates a missing shift or user.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUnknownEntity)
}
