package schedule_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/shift-engine/schedule"
	"github.com/warp/shift-engine/schedule/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

// monday is a fixed anchor so weekday shift types land on actual weekdays.
var monday = time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

type fixture struct {
	store     *store.Memory
	scheduler *schedule.Scheduler
	directory *schedule.Directory
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	mem := store.NewMemory()
	catalog := schedule.DefaultCatalog()
	log := zerolog.Nop()

	f := &fixture{
		store:     mem,
		scheduler: schedule.NewScheduler(mem, catalog, log),
		directory: schedule.NewDirectory(mem, catalog, log),
	}

	clock := monday.Add(-30 * 24 * time.Hour)
	f.scheduler.WithNow(func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	})

	ctx := context.Background()
	_, err := f.directory.Bootstrap(ctx, "boss", "Hannah Boss", "boss@example.com")
	require.NoError(t, err)

	seed := []schedule.CreateUserInput{
		{ActorID: "boss", Username: "alice", Name: "Alice Admin", Role: schedule.RoleAdmin,
			PrimaryShift: "morning", HourlyRate: decimal.NewFromInt(30)},
		{ActorID: "boss", Username: "bob", Name: "Bob Dawn", Role: schedule.RoleEmployee,
			PrimaryShift: "morning", SecondaryShift: "weekend_morning", HourlyRate: decimal.NewFromInt(20)},
		{ActorID: "boss", Username: "carol", Name: "Carol Dusk", Role: schedule.RoleEmployee,
			PrimaryShift: "late", SecondaryShift: "weekend_night", HourlyRate: decimal.NewFromInt(22)},
	}
	for _, in := range seed {
		_, err := f.directory.CreateUser(ctx, in)
		require.NoError(t, err)
	}
	return f
}

func (f *fixture) createMorning(t *testing.T, employees ...schedule.Username) *schedule.Shift {
	t.Helper()
	s, err := f.scheduler.CreateShift(context.Background(), schedule.CreateShiftInput{
		AdminID:     "alice",
		Date:        monday,
		ShiftType:   "morning",
		EmployeeIDs: employees,
	})
	require.NoError(t, err)
	return s
}

// =============================================================================
// CREATION TESTS
// =============================================================================

func TestCreateShift_DefaultsToCatalogWindow(t *testing.T) {
	f := newFixture(t)

	s := f.createMorning(t, "bob")

	assert.Equal(t, schedule.StatusPending, s.Status)
	assert.Equal(t, "06:00", s.PlannedStart.String())
	assert.Equal(t, "14:00", s.PlannedEnd.String())
	assert.Nil(t, s.ActualStart)
	assert.False(t, s.Approved)
}

func TestCreateShift_CustomPlannedTimes(t *testing.T) {
	f := newFixture(t)

	s, err := f.scheduler.CreateShift(context.Background(), schedule.CreateShiftInput{
		AdminID:      "alice",
		Date:         monday,
		ShiftType:    "morning",
		PlannedStart: "07:00",
		PlannedEnd:   "15:00",
		EmployeeIDs:  []schedule.Username{"bob"},
	})
	require.NoError(t, err)
	assert.Equal(t, "07:00", s.PlannedStart.String())
	assert.Equal(t, "15:00", s.PlannedEnd.String())
}

func TestCreateShift_UnqualifiedEmployeeRejected(t *testing.T) {
	// Bob is morning/weekend_morning; a night shift is outside his set.
	f := newFixture(t)

	_, err := f.scheduler.CreateShift(context.Background(), schedule.CreateShiftInput{
		AdminID:     "alice",
		Date:        monday,
		ShiftType:   "night",
		EmployeeIDs: []schedule.Username{"bob"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, schedule.ErrNoCompatibleShiftType)

	// Nothing was recorded.
	shifts, err := f.scheduler.ListShifts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, shifts)
}

func TestCreateShift_DisjointQualifications(t *testing.T) {
	// Bob (morning) and Carol (late) share no type; whichever is chosen,
	// at least one of them is unqualified and creation is refused.
	f := newFixture(t)

	for _, shiftType := range []schedule.ShiftTypeID{"morning", "late"} {
		_, err := f.scheduler.CreateShift(context.Background(), schedule.CreateShiftInput{
			AdminID:     "alice",
			Date:        monday,
			ShiftType:   shiftType,
			EmployeeIDs: []schedule.Username{"bob", "carol"},
		})
		assert.ErrorIs(t, err, schedule.ErrNoCompatibleShiftType, "type %s", shiftType)
	}
}

func TestCreateShift_SecondaryQualificationCounts(t *testing.T) {
	f := newFixture(t)
	saturday := monday.AddDate(0, 0, 5)

	s, err := f.scheduler.CreateShift(context.Background(), schedule.CreateShiftInput{
		AdminID:     "alice",
		Date:        saturday,
		ShiftType:   "weekend_morning",
		EmployeeIDs: []schedule.Username{"bob"},
	})
	require.NoError(t, err)
	assert.Equal(t, schedule.ShiftTypeID("weekend_morning"), s.Type)
}

func TestCreateShift_UnknownType(t *testing.T) {
	f := newFixture(t)

	_, err := f.scheduler.CreateShift(context.Background(), schedule.CreateShiftInput{
		AdminID:     "alice",
		Date:        monday,
		ShiftType:   "graveyard",
		EmployeeIDs: []schedule.Username{"bob"},
	})
	assert.ErrorIs(t, err, schedule.ErrUnknownShiftType)
}

func TestCreateShift_UnknownEmployee(t *testing.T) {
	f := newFixture(t)

	_, err := f.scheduler.CreateShift(context.Background(), schedule.CreateShiftInput{
		AdminID:     "alice",
		Date:        monday,
		ShiftType:   "morning",
		EmployeeIDs: []schedule.Username{"ghost"},
	})
	assert.ErrorIs(t, err, schedule.ErrUnknownEntity)
}

func TestCreateShift_NonAdminRefused(t *testing.T) {
	f := newFixture(t)

	_, err := f.scheduler.CreateShift(context.Background(), schedule.CreateShiftInput{
		AdminID:     "bob", // employee
		Date:        monday,
		ShiftType:   "morning",
		EmployeeIDs: []schedule.Username{"bob"},
	})
	assert.ErrorIs(t, err, schedule.ErrNotPermitted)
}

func TestCreateShift_MalformedPlannedTime(t *testing.T) {
	f := newFixture(t)

	_, err := f.scheduler.CreateShift(context.Background(), schedule.CreateShiftInput{
		AdminID:      "alice",
		Date:         monday,
		ShiftType:    "morning",
		PlannedStart: "6am",
		EmployeeIDs:  []schedule.Username{"bob"},
	})
	assert.ErrorIs(t, err, schedule.ErrInvalidTimeFormat)
}

func TestCreateShift_InitialStatusApproved(t *testing.T) {
	// Historical import: created directly approved, actuals = planned.
	f := newFixture(t)

	s, err := f.scheduler.CreateShift(context.Background(), schedule.CreateShiftInput{
		AdminID:       "alice",
		Date:          monday,
		ShiftType:     "morning",
		EmployeeIDs:   []schedule.Username{"bob"},
		InitialStatus: schedule.StatusApproved,
	})
	require.NoError(t, err)
	assert.True(t, s.Approved)
	require.NotNil(t, s.ActualStart)
	require.NotNil(t, s.ActualEnd)
	assert.Equal(t, s.PlannedStart, *s.ActualStart)
	assert.Equal(t, s.PlannedEnd, *s.ActualEnd)
}

func TestCreateShift_RestPeriodEnforced(t *testing.T) {
	// GIVEN: Bob works Monday morning 06:00-14:00
	// WHEN: Proposing a second Monday shift starting 18:00 (4h gap)
	// THEN: Refused with a rest-period violation

	f := newFixture(t)
	f.createMorning(t, "bob")

	_, err := f.scheduler.CreateShift(context.Background(), schedule.CreateShiftInput{
		AdminID:      "alice",
		Date:         monday,
		ShiftType:    "morning",
		PlannedStart: "18:00",
		PlannedEnd:   "23:00",
		EmployeeIDs:  []schedule.Username{"bob"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, schedule.ErrRestPeriodViolation)

	var rpe *schedule.RestPeriodError
	require.ErrorAs(t, err, &rpe)
	assert.Equal(t, schedule.Username("bob"), rpe.Username)
	assert.Equal(t, 4*time.Hour, rpe.Gap)
}

func TestCreateShift_NextDaySatisfiesRest(t *testing.T) {
	f := newFixture(t)
	f.createMorning(t, "bob")

	// Tuesday morning: 16h after Monday's 14:00 end.
	_, err := f.scheduler.CreateShift(context.Background(), schedule.CreateShiftInput{
		AdminID:     "alice",
		Date:        monday.AddDate(0, 0, 1),
		ShiftType:   "morning",
		EmployeeIDs: []schedule.Username{"bob"},
	})
	assert.NoError(t, err)
}

// =============================================================================
// RESPONSE TESTS
// =============================================================================

func TestRespond_AcceptAndDecline(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s1 := f.createMorning(t, "bob")
	got, err := f.scheduler.Respond(ctx, s1.ID, "bob", schedule.ResponseAccept)
	require.NoError(t, err)
	assert.Equal(t, schedule.StatusAccepted, got.Status)

	s2, err := f.scheduler.CreateShift(ctx, schedule.CreateShiftInput{
		AdminID:     "alice",
		Date:        monday.AddDate(0, 0, 2),
		ShiftType:   "morning",
		EmployeeIDs: []schedule.Username{"bob"},
	})
	require.NoError(t, err)
	got, err = f.scheduler.Respond(ctx, s2.ID, "bob", schedule.ResponseDecline)
	require.NoError(t, err)
	assert.Equal(t, schedule.StatusDeclined, got.Status)
	assert.True(t, got.Status.Terminal())
}

func TestRespond_OnlyAssigneeMayRespond(t *testing.T) {
	f := newFixture(t)

	s := f.createMorning(t, "bob")
	_, err := f.scheduler.Respond(context.Background(), s.ID, "carol", schedule.ResponseAccept)
	assert.ErrorIs(t, err, schedule.ErrNotPermitted)
}

func TestRespond_DoubleResponseRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s := f.createMorning(t, "bob")
	_, err := f.scheduler.Respond(ctx, s.ID, "bob", schedule.ResponseAccept)
	require.NoError(t, err)

	_, err = f.scheduler.Respond(ctx, s.ID, "bob", schedule.ResponseAccept)
	require.Error(t, err)
	assert.ErrorIs(t, err, schedule.ErrInvalidTransition)

	var te *schedule.TransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, schedule.StatusAccepted, te.From)
}

// =============================================================================
// APPROVAL TESTS
// =============================================================================

func TestApprove_FullUsesPlannedTimes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s := f.createMorning(t, "bob")
	_, err := f.scheduler.Respond(ctx, s.ID, "bob", schedule.ResponseAccept)
	require.NoError(t, err)

	got, err := f.scheduler.Approve(ctx, s.ID, "alice", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, schedule.StatusApproved, got.Status)
	assert.True(t, got.Approved)
	assert.Equal(t, "06:00", got.ActualStart.String())
	assert.Equal(t, "14:00", got.ActualEnd.String())
}

func TestApprove_PartialRecordsOverrides(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s := f.createMorning(t, "bob")
	start, end := "06:30", "12:00"
	got, err := f.scheduler.Approve(ctx, s.ID, "alice", &start, &end)
	require.NoError(t, err)
	assert.Equal(t, "06:30", got.ActualStart.String())
	assert.Equal(t, "12:00", got.ActualEnd.String())
	assert.InDelta(t, 5.5, got.Hours(), 1e-9)
}

func TestApprove_DirectFromPending(t *testing.T) {
	// pending -> approved without employee acceptance is a legal move.
	f := newFixture(t)

	s := f.createMorning(t, "bob")
	got, err := f.scheduler.Approve(context.Background(), s.ID, "alice", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, schedule.StatusApproved, got.Status)
}

func TestApprove_DeclinedShiftRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s := f.createMorning(t, "bob")
	_, err := f.scheduler.Respond(ctx, s.ID, "bob", schedule.ResponseDecline)
	require.NoError(t, err)

	_, err = f.scheduler.Approve(ctx, s.ID, "alice", nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, schedule.ErrInvalidTransition)
}

func TestApprove_MalformedOverrideRejectedAtomically(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s := f.createMorning(t, "bob")
	bad := "noon"
	_, err := f.scheduler.Approve(ctx, s.ID, "alice", &bad, nil)
	assert.ErrorIs(t, err, schedule.ErrInvalidTimeFormat)

	// The shift is untouched.
	got, err := f.scheduler.GetShift(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, schedule.StatusPending, got.Status)
	assert.Nil(t, got.ActualStart)
}

func TestApprove_EmployeeMayNotApprove(t *testing.T) {
	f := newFixture(t)

	s := f.createMorning(t, "bob")
	_, err := f.scheduler.Approve(context.Background(), s.ID, "bob", nil, nil)
	assert.ErrorIs(t, err, schedule.ErrNotPermitted)
}

// =============================================================================
// MANUAL ENTRY TESTS
// =============================================================================

func TestManualEntry_CreatedApproved(t *testing.T) {
	f := newFixture(t)

	entry, err := f.scheduler.AddManualEntry(context.Background(), schedule.ManualEntryInput{
		AdminID:     "alice",
		EmployeeID:  "bob",
		Date:        monday,
		Amount:      decimal.NewFromInt(150),
		Description: "Spot bonus",
	})
	require.NoError(t, err)

	assert.True(t, entry.IsManual())
	assert.Equal(t, schedule.StatusApproved, entry.Status)
	assert.True(t, entry.Approved)
	assert.Zero(t, entry.Hours())
	require.NotNil(t, entry.ManualAmount)
	assert.True(t, entry.ManualAmount.Equal(decimal.NewFromInt(150)))
}

func TestManualEntry_NeverTransitions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	entry, err := f.scheduler.AddManualEntry(ctx, schedule.ManualEntryInput{
		AdminID:    "alice",
		EmployeeID: "bob",
		Date:       monday,
		Amount:     decimal.NewFromInt(50),
	})
	require.NoError(t, err)

	_, err = f.scheduler.Respond(ctx, entry.ID, "bob", schedule.ResponseDecline)
	assert.ErrorIs(t, err, schedule.ErrInvalidTransition)

	_, err = f.scheduler.Approve(ctx, entry.ID, "alice", nil, nil)
	assert.ErrorIs(t, err, schedule.ErrInvalidTransition)
}

func TestManualEntry_NegativeAmountAllowed(t *testing.T) {
	// Deductions are legitimate manual entries.
	f := newFixture(t)

	entry, err := f.scheduler.AddManualEntry(context.Background(), schedule.ManualEntryInput{
		AdminID:     "alice",
		EmployeeID:  "bob",
		Date:        monday,
		Amount:      decimal.NewFromInt(-40),
		Description: "Equipment damage deduction",
	})
	require.NoError(t, err)
	assert.True(t, entry.ManualAmount.IsNegative())
}
