/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the store with realistic
	data for testing and demos. Each scenario creates users and shifts
	that demonstrate specific features.

AVAILABLE SCENARIOS:

	small-team:     Head admin, one admin, three employees, one week of shifts
	approval-flow:  Shifts in every lifecycle state (pending through approved)
	payroll-month:  A month of approved shifts plus manual entries, payroll-ready

HOW SCENARIOS WORK:
 1. Reset the store (clear all data)
 2. Bootstrap the head admin
 3. Create admins and employees via the directory
 4. Create and drive shifts through the scheduler

 All records go through the real entry points, so every scenario respects
 the same guards as production traffic. Seeding uses a fixed clock and a
 seeded random source, so the same scenario and seed always produce the
 same data set.

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "payroll-month", "seed": 42}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Create loader function: loadXxxScenario(ctx, seed)
 3. Add case to LoadScenario handler

NOTE:

	Scenarios reset the store. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: Handler dependencies
  - schedule/lifecycle.go: The entry points scenarios drive
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/shift-engine/schedule"
)

// StoreResetter clears every record. Implemented by both store backends;
// wired into the handler only in environments that allow scenario loads.
type StoreResetter interface {
	Reset(ctx context.Context) error
}

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "small-team",
		Name:        "Small Team",
		Description: "Head admin, one admin, three employees, one week of shifts",
		Category:    "scheduling",
	},
	{
		ID:          "approval-flow",
		Name:        "Approval Flow",
		Description: "Shifts in every lifecycle state: pending, accepted, declined, approved",
		Category:    "scheduling",
	},
	{
		ID:          "payroll-month",
		Name:        "Payroll Month",
		Description: "A month of approved shifts plus manual entries, ready for payroll queries",
		Category:    "payroll",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	if h.currentScenario == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}

	for _, s := range scenarios {
		if s.ID == h.currentScenario {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}

	writeJSON(w, http.StatusOK, ScenarioDTO{
		ID:          h.currentScenario,
		Name:        h.currentScenario,
		Description: "Currently loaded scenario",
	})
}

// LoadScenario loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return
	}

	if h.Resetter == nil {
		writeError(w, http.StatusForbidden, "Scenario loading is disabled in this environment", nil)
		return
	}

	ctx := r.Context()
	if err := h.Resetter.Reset(ctx); err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.currentScenario = ""

	seed := req.Seed
	if seed == 0 {
		seed = 42
	}

	var err error
	switch req.ScenarioID {
	case "small-team":
		err = h.loadSmallTeamScenario(ctx)
	case "approval-flow":
		err = h.loadApprovalFlowScenario(ctx)
	case "payroll-month":
		err = h.loadPayrollMonthScenario(ctx, seed)
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown scenario: %s", req.ScenarioID), nil)
		return
	}
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.currentScenario = req.ScenarioID
	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

// =============================================================================
// SEEDING HELPERS
// =============================================================================

// scenarioEpoch anchors every scenario; a fixed Monday so weekday shift
// types line up with actual weekdays.
var scenarioEpoch = time.Date(2025, time.January, 6, 9, 0, 0, 0, time.UTC)

// weekdayAssignments is the stock weekday rotation shared by scenarios.
var weekdayAssignments = []struct {
	shiftType schedule.ShiftTypeID
	employee  schedule.Username
}{
	{"morning", "bob"},
	{"late", "carol"},
	{"night", "dave"},
}

// fixedClock returns a deterministic time source that advances one second
// per call, so generated identifiers are unique and reproducible.
func fixedClock(start time.Time) func() time.Time {
	t := start
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func (h *Handler) seedRoster(ctx context.Context) error {
	if _, err := h.Directory.Bootstrap(ctx, "boss", "Hannah Boss", "boss@example.com"); err != nil {
		return err
	}

	users := []schedule.CreateUserInput{
		{ActorID: "boss", Username: "alice", Name: "Alice Admin", Email: "alice@example.com",
			Role: schedule.RoleAdmin, PrimaryShift: "morning", HourlyRate: decimal.NewFromInt(30)},
		{ActorID: "boss", Username: "bob", Name: "Bob Dawn", Email: "bob@example.com",
			Role: schedule.RoleEmployee, PrimaryShift: "morning", SecondaryShift: "weekend_morning",
			HourlyRate: decimal.NewFromInt(20)},
		{ActorID: "boss", Username: "carol", Name: "Carol Dusk", Email: "carol@example.com",
			Role: schedule.RoleEmployee, PrimaryShift: "late", SecondaryShift: "weekend_night",
			HourlyRate: decimal.NewFromInt(22)},
		{ActorID: "boss", Username: "dave", Name: "Dave Night", Email: "dave@example.com",
			Role: schedule.RoleEmployee, PrimaryShift: "night", SecondaryShift: "weekend_night",
			HourlyRate: decimal.NewFromInt(25)},
	}
	for _, in := range users {
		if _, err := h.Directory.CreateUser(ctx, in); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// SCENARIO: small-team
// =============================================================================

func (h *Handler) loadSmallTeamScenario(ctx context.Context) error {
	defer h.Scheduler.WithNow(time.Now)
	h.Scheduler.WithNow(fixedClock(scenarioEpoch))

	if err := h.seedRoster(ctx); err != nil {
		return err
	}

	// One weekday of each shift type, Monday through Friday. Slice keeps
	// creation order, and therefore generated identifiers, deterministic.
	for day := 0; day < 5; day++ {
		date := scenarioEpoch.AddDate(0, 0, day)
		for _, a := range weekdayAssignments {
			if _, err := h.Scheduler.CreateShift(ctx, schedule.CreateShiftInput{
				AdminID:     "alice",
				Date:        date,
				ShiftType:   a.shiftType,
				EmployeeIDs: []schedule.Username{a.employee},
			}); err != nil {
				return err
			}
		}
	}

	// Weekend coverage via secondary qualifications.
	saturday := scenarioEpoch.AddDate(0, 0, 5)
	if _, err := h.Scheduler.CreateShift(ctx, schedule.CreateShiftInput{
		AdminID:     "alice",
		Date:        saturday,
		ShiftType:   "weekend_morning",
		EmployeeIDs: []schedule.Username{"bob"},
	}); err != nil {
		return err
	}
	_, err := h.Scheduler.CreateShift(ctx, schedule.CreateShiftInput{
		AdminID:     "alice",
		Date:        saturday,
		ShiftType:   "weekend_night",
		EmployeeIDs: []schedule.Username{"carol"},
	})
	return err
}

// =============================================================================
// SCENARIO: approval-flow
// =============================================================================

func (h *Handler) loadApprovalFlowScenario(ctx context.Context) error {
	defer h.Scheduler.WithNow(time.Now)
	h.Scheduler.WithNow(fixedClock(scenarioEpoch))

	if err := h.seedRoster(ctx); err != nil {
		return err
	}

	// Pending: freshly created, awaiting Bob's response.
	if _, err := h.Scheduler.CreateShift(ctx, schedule.CreateShiftInput{
		AdminID:     "alice",
		Date:        scenarioEpoch,
		ShiftType:   "morning",
		EmployeeIDs: []schedule.Username{"bob"},
	}); err != nil {
		return err
	}

	// Accepted: Carol said yes.
	accepted, err := h.Scheduler.CreateShift(ctx, schedule.CreateShiftInput{
		AdminID:     "alice",
		Date:        scenarioEpoch,
		ShiftType:   "late",
		EmployeeIDs: []schedule.Username{"carol"},
	})
	if err != nil {
		return err
	}
	if _, err := h.Scheduler.Respond(ctx, accepted.ID, "carol", schedule.ResponseAccept); err != nil {
		return err
	}

	// Declined: Dave said no.
	declined, err := h.Scheduler.CreateShift(ctx, schedule.CreateShiftInput{
		AdminID:     "alice",
		Date:        scenarioEpoch,
		ShiftType:   "night",
		EmployeeIDs: []schedule.Username{"dave"},
	})
	if err != nil {
		return err
	}
	if _, err := h.Scheduler.Respond(ctx, declined.ID, "dave", schedule.ResponseDecline); err != nil {
		return err
	}

	// Approved with partial hours: Bob left two hours early the next day.
	next := scenarioEpoch.AddDate(0, 0, 1)
	approved, err := h.Scheduler.CreateShift(ctx, schedule.CreateShiftInput{
		AdminID:     "alice",
		Date:        next,
		ShiftType:   "morning",
		EmployeeIDs: []schedule.Username{"bob"},
	})
	if err != nil {
		return err
	}
	if _, err := h.Scheduler.Respond(ctx, approved.ID, "bob", schedule.ResponseAccept); err != nil {
		return err
	}
	actualEnd := "12:00"
	_, err = h.Scheduler.Approve(ctx, approved.ID, "alice", nil, &actualEnd)
	return err
}

// =============================================================================
// SCENARIO: payroll-month
// =============================================================================

func (h *Handler) loadPayrollMonthScenario(ctx context.Context, seed int64) error {
	defer h.Scheduler.WithNow(time.Now)
	h.Scheduler.WithNow(fixedClock(scenarioEpoch))

	if err := h.seedRoster(ctx); err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(seed))

	// Four full weeks. Weekday shifts run Monday through Friday; each one
	// is accepted and approved, occasionally with shortened actual hours.
	for week := 0; week < 4; week++ {
		for day := 0; day < 5; day++ {
			date := scenarioEpoch.AddDate(0, 0, week*7+day)
			for _, a := range weekdayAssignments {
				s, err := h.Scheduler.CreateShift(ctx, schedule.CreateShiftInput{
					AdminID:     "alice",
					Date:        date,
					ShiftType:   a.shiftType,
					EmployeeIDs: []schedule.Username{a.employee},
				})
				if err != nil {
					return err
				}
				if _, err := h.Scheduler.Respond(ctx, s.ID, a.employee, schedule.ResponseAccept); err != nil {
					return err
				}
				var actualEnd *string
				if rng.Intn(10) == 0 {
					// Occasional early leave one hour before plan.
					end := s.PlannedEnd
					hour := (end.Hour + 23) % 24
					v := fmt.Sprintf("%02d:%02d", hour, end.Minute)
					actualEnd = &v
				}
				if _, err := h.Scheduler.Approve(ctx, s.ID, "alice", nil, actualEnd); err != nil {
					return err
				}
			}
		}
	}

	// A couple of manual entries: a spot bonus and a back-pay correction.
	if _, err := h.Scheduler.AddManualEntry(ctx, schedule.ManualEntryInput{
		AdminID:     "alice",
		EmployeeID:  "bob",
		Date:        scenarioEpoch.AddDate(0, 0, 11),
		Amount:      decimal.NewFromInt(150),
		Description: "Spot bonus: covered two sick calls",
	}); err != nil {
		return err
	}
	_, err := h.Scheduler.AddManualEntry(ctx, schedule.ManualEntryInput{
		AdminID:     "alice",
		EmployeeID:  "carol",
		Date:        scenarioEpoch.AddDate(0, 0, 25),
		Amount:      decimal.NewFromFloat(87.50),
		Description: "Back pay: December rate correction",
	})
	return err
}
