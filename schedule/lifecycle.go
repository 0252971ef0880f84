/*
lifecycle.go - The per-shift approval state machine

PURPOSE:
  Governs a shift record from creation through employee acceptance or
  decline to admin approval, including the manual-adjustment pseudo-shift
  variant.

STATE MACHINE:
  ┌─────────┐   accept    ┌──────────┐   approve   ┌──────────┐
  │ pending │───────────▶ │ accepted │───────────▶ │ approved │
  └─────────┘             └──────────┘             └──────────┘
       │                                                ▲
       │ decline          ┌──────────┐     approve      │
       └────────────────▶ │ declined │      (direct)────┘
                          └──────────┘
  declined and approved are terminal. A manual payroll entry is created
  directly in a synthetic approved state and never transitions.

CREATION GUARDS (in order, creation refused on any failure):
  1. Acting admin exists and holds an admin role
  2. Non-empty set of assigned employees, all existing
  3. Planned times are well-formed HH:MM
  4. Shift type is in the catalog and qualified for EVERY selected employee
     (primary or declared secondary; empty intersection = NoCompatibleShiftType)
  5. Every employee satisfies the 12-hour rest period

CONCURRENCY:
  All mutations run under a single mutation lock (single logical writer), so
  a shift can never be both accepted and declined, or approved twice with
  different actual times. Reads go straight to the store, which guarantees
  atomic replace-on-write. Each operation obtains the current time exactly
  once.

SEE ALSO:
  - rest.go:    Rest-period algorithm
  - catalog.go: Shift-type qualification
  - payroll.go: Consumes approved shifts
*/
package schedule

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// =============================================================================
// SCHEDULER - Shift lifecycle service
// =============================================================================

// Scheduler owns every shift mutation: creation, employee response, admin
// approval, and manual payroll entries.
type Scheduler struct {
	store   Store
	catalog *Catalog
	rest    RestValidator
	logger  zerolog.Logger
	now     func() time.Time

	mu sync.Mutex // single logical writer per mutation
}

// NewScheduler wires a scheduler over the given store and catalog.
func NewScheduler(store Store, catalog *Catalog, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		store:   store,
		catalog: catalog,
		logger:  logger,
		now:     time.Now,
	}
}

// WithNow overrides the time source. Intended for tests and the demo seeder.
func (s *Scheduler) WithNow(now func() time.Time) *Scheduler {
	s.now = now
	return s
}

// Response is an employee's answer to a pending shift.
type Response string

const (
	ResponseAccept  Response = "accept"
	ResponseDecline Response = "decline"
)

// CreateShiftInput carries everything an admin supplies at creation.
type CreateShiftInput struct {
	AdminID       Username
	Date          time.Time
	ShiftType     ShiftTypeID
	PlannedStart  string // HH:MM; empty = shift type default
	PlannedEnd    string
	EmployeeIDs   []Username
	AssignedAdmin Username    // optional
	InitialStatus ShiftStatus // pending, accepted, or approved
}

// ManualEntryInput carries a fixed-amount payroll adjustment.
type ManualEntryInput struct {
	AdminID     Username
	EmployeeID  Username
	Date        time.Time
	Amount      decimal.Decimal
	Description string
}

// =============================================================================
// CREATE
// =============================================================================

// CreateShift validates and records a new shift. All guards are checked
// before anything is written; on guard failure the creation is refused, not
// silently adjusted.
func (s *Scheduler) CreateShift(ctx context.Context, in CreateShiftInput) (*Shift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	if _, err := s.requireAdmin(ctx, in.AdminID); err != nil {
		return nil, err
	}

	if len(in.EmployeeIDs) == 0 {
		return nil, fmt.Errorf("%w: shift needs at least one assigned employee", ErrInvalidTransition)
	}

	employees := make([]*User, 0, len(in.EmployeeIDs))
	for _, id := range in.EmployeeIDs {
		u, err := s.store.GetUser(ctx, id)
		if err != nil {
			return nil, err
		}
		if u == nil {
			return nil, fmt.Errorf("%w: user %s", ErrUnknownEntity, id)
		}
		employees = append(employees, u)
	}

	def, err := s.catalog.Definition(in.ShiftType)
	if err != nil {
		return nil, err
	}

	// Only a shift type every selected employee is individually qualified
	// for (primary or declared secondary) may be chosen.
	for _, u := range employees {
		if !u.IsQualifiedFor(in.ShiftType) {
			return nil, &NoCompatibleShiftTypeError{ShiftType: in.ShiftType, Employees: []Username{u.Username}}
		}
	}

	plannedStart, plannedEnd, err := plannedWindow(def, in.PlannedStart, in.PlannedEnd)
	if err != nil {
		return nil, err
	}

	switch in.InitialStatus {
	case StatusPending, StatusAccepted, StatusApproved:
	case "":
		in.InitialStatus = StatusPending
	default:
		return nil, &TransitionError{From: in.InitialStatus, Attempted: "create"}
	}

	// Rest period: every assigned employee, against their existing shifts as
	// of the proposed planned start.
	date := DateOnly(in.Date)
	proposedStart := plannedStart.On(date)
	for _, u := range employees {
		existing, err := s.store.ListShiftsByEmployee(ctx, u.Username)
		if err != nil {
			return nil, err
		}
		if rpe := s.rest.Check(u.Username, proposedStart, existing); rpe != nil {
			return nil, rpe
		}
	}

	shift := Shift{
		ID:                ShiftID(fmt.Sprintf("shift-%d", now.UnixNano())),
		Date:              date,
		Type:              in.ShiftType,
		PlannedStart:      plannedStart,
		PlannedEnd:        plannedEnd,
		AssignedEmployees: append([]Username(nil), in.EmployeeIDs...),
		AssignedAdmin:     in.AssignedAdmin,
		Status:            in.InitialStatus,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if in.InitialStatus == StatusApproved {
		start, end := shift.PlannedStart, shift.PlannedEnd
		shift.ActualStart = &start
		shift.ActualEnd = &end
		shift.Approved = true
	}

	if err := s.store.PutShift(ctx, shift); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("shift_id", string(shift.ID)).
		Str("shift_type", string(shift.Type)).
		Str("date", FormatDate(shift.Date)).
		Int("employees", len(shift.AssignedEmployees)).
		Str("status", string(shift.Status)).
		Msg("shift created")

	return &shift, nil
}

// plannedWindow resolves the planned start/end, falling back to the shift
// type's window when either side is omitted.
func plannedWindow(def ShiftTypeDefinition, start, end string) (ClockTime, ClockTime, error) {
	ps, pe := def.Start, def.End
	if start != "" {
		c, err := ParseClock(start)
		if err != nil {
			return ClockTime{}, ClockTime{}, err
		}
		ps = c
	}
	if end != "" {
		c, err := ParseClock(end)
		if err != nil {
			return ClockTime{}, ClockTime{}, err
		}
		pe = c
	}
	return ps, pe, nil
}

// =============================================================================
// RESPOND (employee)
// =============================================================================

// Respond records the assigned employee's accept or decline. Only valid
// while the shift is pending; declined is terminal.
func (s *Scheduler) Respond(ctx context.Context, shiftID ShiftID, employee Username, response Response) (*Shift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	shift, err := s.getShiftLocked(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	if !shift.IsAssignedTo(employee) {
		return nil, fmt.Errorf("%w: %s is not assigned to shift %s", ErrNotPermitted, employee, shiftID)
	}
	if shift.Status != StatusPending {
		return nil, &TransitionError{ShiftID: shiftID, From: shift.Status, Attempted: string(response)}
	}

	switch response {
	case ResponseAccept:
		shift.Status = StatusAccepted
	case ResponseDecline:
		shift.Status = StatusDeclined
	default:
		return nil, fmt.Errorf("%w: unknown response %q", ErrInvalidTransition, response)
	}
	shift.UpdatedAt = now

	if err := s.store.PutShift(ctx, *shift); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("shift_id", string(shiftID)).
		Str("employee", string(employee)).
		Str("status", string(shift.Status)).
		Msg("shift response recorded")

	return shift, nil
}

// =============================================================================
// APPROVE (admin)
// =============================================================================

// Approve finalizes a pending or accepted shift for payroll. With nil
// overrides the actual times equal the planned ones (full approval);
// otherwise the admin-supplied values are recorded (partial approval), each
// independently validated as well-formed HH:MM.
func (s *Scheduler) Approve(ctx context.Context, shiftID ShiftID, adminID Username, actualStart, actualEnd *string) (*Shift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	if _, err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}

	shift, err := s.getShiftLocked(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	if shift.Status != StatusPending && shift.Status != StatusAccepted {
		return nil, &TransitionError{ShiftID: shiftID, From: shift.Status, Attempted: "approve"}
	}

	start, end := shift.PlannedStart, shift.PlannedEnd
	if actualStart != nil {
		c, err := ParseClock(*actualStart)
		if err != nil {
			return nil, err
		}
		start = c
	}
	if actualEnd != nil {
		c, err := ParseClock(*actualEnd)
		if err != nil {
			return nil, err
		}
		end = c
	}

	shift.ActualStart = &start
	shift.ActualEnd = &end
	shift.Approved = true
	shift.Status = StatusApproved
	shift.UpdatedAt = now

	if err := s.store.PutShift(ctx, *shift); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("shift_id", string(shiftID)).
		Str("admin", string(adminID)).
		Str("actual_start", start.String()).
		Str("actual_end", end.String()).
		Msg("shift approved")

	return shift, nil
}

// =============================================================================
// MANUAL PAYROLL ENTRY
// =============================================================================

// AddManualEntry records a fixed-amount pay record not tied to worked hours
// (bonus, adjustment, lump-sum historical pay). It is created directly in
// the approved state and never transitions.
func (s *Scheduler) AddManualEntry(ctx context.Context, in ManualEntryInput) (*Shift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	if _, err := s.requireAdmin(ctx, in.AdminID); err != nil {
		return nil, err
	}
	u, err := s.store.GetUser(ctx, in.EmployeeID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("%w: user %s", ErrUnknownEntity, in.EmployeeID)
	}

	midnight := MustClock("00:00")
	amount := in.Amount
	entry := Shift{
		ID:                ShiftID(fmt.Sprintf("manual-%d", now.UnixNano())),
		Date:              DateOnly(in.Date),
		Type:              ShiftTypeManualPayroll,
		PlannedStart:      midnight,
		PlannedEnd:        midnight,
		ActualStart:       &midnight,
		ActualEnd:         &midnight,
		AssignedEmployees: []Username{in.EmployeeID},
		AssignedAdmin:     in.AdminID,
		Status:            StatusApproved,
		Approved:          true,
		ManualAmount:      &amount,
		Description:       in.Description,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.store.PutShift(ctx, entry); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("entry_id", string(entry.ID)).
		Str("employee", string(in.EmployeeID)).
		Str("amount", amount.StringFixed(2)).
		Msg("manual payroll entry added")

	return &entry, nil
}

// =============================================================================
// QUERIES
// =============================================================================

// GetShift returns a shift by identifier.
func (s *Scheduler) GetShift(ctx context.Context, id ShiftID) (*Shift, error) {
	shift, err := s.store.GetShift(ctx, id)
	if err != nil {
		return nil, err
	}
	if shift == nil {
		return nil, fmt.Errorf("%w: shift %s", ErrUnknownEntity, id)
	}
	return shift, nil
}

// ListShifts returns every shift record.
func (s *Scheduler) ListShifts(ctx context.Context) ([]*Shift, error) {
	return s.store.ListShifts(ctx)
}

// ListShiftsForEmployee returns every shift the employee is assigned to.
func (s *Scheduler) ListShiftsForEmployee(ctx context.Context, employee Username) ([]*Shift, error) {
	return s.store.ListShiftsByEmployee(ctx, employee)
}

// =============================================================================
// INTERNAL
// =============================================================================

func (s *Scheduler) getShiftLocked(ctx context.Context, id ShiftID) (*Shift, error) {
	shift, err := s.store.GetShift(ctx, id)
	if err != nil {
		return nil, err
	}
	if shift == nil {
		return nil, fmt.Errorf("%w: shift %s", ErrUnknownEntity, id)
	}
	return shift, nil
}

func (s *Scheduler) requireAdmin(ctx context.Context, id Username) (*User, error) {
	u, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("%w: user %s", ErrUnknownEntity, id)
	}
	if !u.Role.CanManageShifts() {
		return nil, fmt.Errorf("%w: %s is %s", ErrNotPermitted, id, u.Role)
	}
	return u, nil
}
