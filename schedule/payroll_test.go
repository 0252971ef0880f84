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
)

// =============================================================================
// PAYROLL TESTS
// =============================================================================

func newPayrollFixture(t *testing.T) (*fixture, *schedule.PayrollEngine) {
	t.Helper()
	f := newFixture(t)
	return f, schedule.NewPayrollEngine(f.store, zerolog.Nop())
}

func rate(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func approveMorning(t *testing.T, f *fixture, date time.Time, employee schedule.Username) *schedule.Shift {
	t.Helper()
	ctx := context.Background()
	s, err := f.scheduler.CreateShift(ctx, schedule.CreateShiftInput{
		AdminID:     "alice",
		Date:        date,
		ShiftType:   "morning",
		EmployeeIDs: []schedule.Username{employee},
	})
	require.NoError(t, err)
	got, err := f.scheduler.Approve(ctx, s.ID, "alice", nil, nil)
	require.NoError(t, err)
	return got
}

func TestPayroll_SingleApprovedShift(t *testing.T) {
	f, engine := newPayrollFixture(t)
	approveMorning(t, f, monday, "bob")

	sum, err := engine.ComputeForUser(context.Background(), "bob", rate(20), monday, monday)
	require.NoError(t, err)

	assert.Equal(t, 8.0, sum.TotalHours)
	assert.True(t, sum.TotalPay.Equal(rate(160)), "expected 160, got %s", sum.TotalPay)
	require.Len(t, sum.Items, 1)
	assert.False(t, sum.Items[0].Manual)
}

func TestPayroll_UnapprovedShiftsExcluded(t *testing.T) {
	// GIVEN: One approved and one merely accepted shift
	// WHEN: Computing payroll
	// THEN: Only the approved one contributes

	f, engine := newPayrollFixture(t)
	ctx := context.Background()

	approveMorning(t, f, monday, "bob")

	s, err := f.scheduler.CreateShift(ctx, schedule.CreateShiftInput{
		AdminID:     "alice",
		Date:        monday.AddDate(0, 0, 1),
		ShiftType:   "morning",
		EmployeeIDs: []schedule.Username{"bob"},
	})
	require.NoError(t, err)
	_, err = f.scheduler.Respond(ctx, s.ID, "bob", schedule.ResponseAccept)
	require.NoError(t, err)

	sum, err := engine.ComputeForUser(ctx, "bob", rate(20), monday, monday.AddDate(0, 0, 7))
	require.NoError(t, err)
	assert.Equal(t, 8.0, sum.TotalHours)
	assert.Len(t, sum.Items, 1)
}

func TestPayroll_ActualOverridesPlanned(t *testing.T) {
	f, engine := newPayrollFixture(t)
	ctx := context.Background()

	s, err := f.scheduler.CreateShift(ctx, schedule.CreateShiftInput{
		AdminID:     "alice",
		Date:        monday,
		ShiftType:   "morning",
		EmployeeIDs: []schedule.Username{"bob"},
	})
	require.NoError(t, err)
	end := "12:00"
	_, err = f.scheduler.Approve(ctx, s.ID, "alice", nil, &end)
	require.NoError(t, err)

	sum, err := engine.ComputeForUser(ctx, "bob", rate(20), monday, monday)
	require.NoError(t, err)
	assert.Equal(t, 6.0, sum.TotalHours)
	assert.True(t, sum.TotalPay.Equal(rate(120)), "expected 120, got %s", sum.TotalPay)
}

func TestPayroll_NightShiftCrossingMidnight(t *testing.T) {
	f, engine := newPayrollFixture(t)
	ctx := context.Background()

	// Dave-less fixture: carol's secondary weekend_night crosses midnight.
	saturday := monday.AddDate(0, 0, 5)
	s, err := f.scheduler.CreateShift(ctx, schedule.CreateShiftInput{
		AdminID:     "alice",
		Date:        saturday,
		ShiftType:   "weekend_night", // 18:00-06:00, 12h
		EmployeeIDs: []schedule.Username{"carol"},
	})
	require.NoError(t, err)
	_, err = f.scheduler.Approve(ctx, s.ID, "alice", nil, nil)
	require.NoError(t, err)

	sum, err := engine.ComputeForUser(ctx, "carol", rate(22), saturday, saturday)
	require.NoError(t, err)
	assert.Equal(t, 12.0, sum.TotalHours)
	assert.True(t, sum.TotalPay.Equal(rate(264)), "expected 264, got %s", sum.TotalPay)
}

func TestPayroll_ManualEntriesContributeAmountOnly(t *testing.T) {
	f, engine := newPayrollFixture(t)
	ctx := context.Background()

	_, err := f.scheduler.AddManualEntry(ctx, schedule.ManualEntryInput{
		AdminID:     "alice",
		EmployeeID:  "bob",
		Date:        monday,
		Amount:      decimal.NewFromInt(150),
		Description: "Spot bonus",
	})
	require.NoError(t, err)

	sum, err := engine.ComputeForUser(ctx, "bob", rate(20), monday, monday)
	require.NoError(t, err)

	assert.Equal(t, 0.0, sum.TotalHours, "manual entries contribute no hours")
	assert.True(t, sum.TotalPay.Equal(rate(150)))
	require.Len(t, sum.Items, 1)
	assert.True(t, sum.Items[0].Manual)
	assert.Equal(t, "Spot bonus", sum.Items[0].Description)
	assert.True(t, sum.EffectiveRate().IsZero(), "no hours means no effective rate")
}

func TestPayroll_MixedShiftsAndManual(t *testing.T) {
	f, engine := newPayrollFixture(t)
	ctx := context.Background()

	approveMorning(t, f, monday, "bob")
	_, err := f.scheduler.AddManualEntry(ctx, schedule.ManualEntryInput{
		AdminID:    "alice",
		EmployeeID: "bob",
		Date:       monday.AddDate(0, 0, 1),
		Amount:     decimal.NewFromInt(50),
	})
	require.NoError(t, err)

	sum, err := engine.ComputeForUser(ctx, "bob", rate(20), monday, monday.AddDate(0, 0, 7))
	require.NoError(t, err)

	assert.Equal(t, 8.0, sum.TotalHours)
	assert.True(t, sum.TotalPay.Equal(rate(210)), "160 worked + 50 manual, got %s", sum.TotalPay)
	assert.Len(t, sum.Items, 2)
}

func TestPayroll_RangeIsInclusive(t *testing.T) {
	f, engine := newPayrollFixture(t)
	ctx := context.Background()

	// Shifts on Monday, Wednesday, Friday; range [Wednesday, Friday].
	approveMorning(t, f, monday, "bob")
	approveMorning(t, f, monday.AddDate(0, 0, 2), "bob")
	approveMorning(t, f, monday.AddDate(0, 0, 4), "bob")

	sum, err := engine.ComputeForUser(ctx, "bob", rate(20), monday.AddDate(0, 0, 2), monday.AddDate(0, 0, 4))
	require.NoError(t, err)
	assert.Equal(t, 16.0, sum.TotalHours, "both boundary days count")
	assert.Len(t, sum.Items, 2)
}

func TestPayroll_Idempotent(t *testing.T) {
	// Computing twice over unchanged data yields identical results.
	f, engine := newPayrollFixture(t)
	ctx := context.Background()

	approveMorning(t, f, monday, "bob")
	approveMorning(t, f, monday.AddDate(0, 0, 1), "bob")

	first, err := engine.ComputeForUser(ctx, "bob", rate(20), monday, monday.AddDate(0, 0, 7))
	require.NoError(t, err)
	second, err := engine.ComputeForUser(ctx, "bob", rate(20), monday, monday.AddDate(0, 0, 7))
	require.NoError(t, err)

	assert.Equal(t, first.TotalHours, second.TotalHours)
	assert.True(t, first.TotalPay.Equal(second.TotalPay))
	require.Equal(t, len(first.Items), len(second.Items))
	for i := range first.Items {
		assert.Equal(t, first.Items[i].ShiftID, second.Items[i].ShiftID)
	}
}

func TestPayroll_EmptyRange(t *testing.T) {
	_, engine := newPayrollFixture(t)

	sum, err := engine.ComputeForUser(context.Background(), "bob", rate(20), monday, monday)
	require.NoError(t, err)
	assert.Zero(t, sum.TotalHours)
	assert.True(t, sum.TotalPay.IsZero())
	assert.Empty(t, sum.Items)
}
