package schedule

import (
	"errors"
	"testing"
)

func TestDefaultCatalog_Windows(t *testing.T) {
	c := DefaultCatalog()

	cases := []struct {
		id    ShiftTypeID
		hours float64
	}{
		{"morning", 8},
		{"late", 8},
		{"night", 8},
		{"weekend_morning", 12},
		{"weekend_night", 12},
	}
	for _, tc := range cases {
		def, err := c.Definition(tc.id)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.id, err)
		}
		if def.Hours() != tc.hours {
			t.Errorf("%s: expected %v hours, got %v", tc.id, tc.hours, def.Hours())
		}
	}
}

func TestCatalog_UnknownShiftType(t *testing.T) {
	c := DefaultCatalog()

	_, err := c.Definition("graveyard")
	if !errors.Is(err, ErrUnknownShiftType) {
		t.Fatalf("expected ErrUnknownShiftType, got %v", err)
	}
	var ust *UnknownShiftTypeError
	if !errors.As(err, &ust) || ust.ID != "graveyard" {
		t.Errorf("error should carry the unknown id")
	}
	if c.Contains("graveyard") {
		t.Error("Contains should be false for unknown types")
	}
}

func TestCatalog_AllowedSecondaries(t *testing.T) {
	c := DefaultCatalog()

	// weekend_night accepts both late and night workers as secondaries.
	got := c.AllowedSecondaries("weekend_night")
	if len(got) != 2 || got[0] != "late" || got[1] != "night" {
		t.Errorf("unexpected secondaries for weekend_night: %v", got)
	}

	// Unknown primaries yield an empty set, not an error.
	if got := c.AllowedSecondaries("nope"); len(got) != 0 {
		t.Errorf("expected empty set for unknown primary, got %v", got)
	}
}

func TestNewCatalog_RejectsDanglingCompatibility(t *testing.T) {
	defs := []ShiftTypeDefinition{
		{ID: "day", Start: MustClock("08:00"), End: MustClock("16:00"), Weekday: true},
	}
	_, err := NewCatalog(defs, map[ShiftTypeID][]ShiftTypeID{
		"day": {"ghost"},
	})
	if !errors.Is(err, ErrUnknownShiftType) {
		t.Fatalf("expected ErrUnknownShiftType for dangling secondary, got %v", err)
	}

	_, err = NewCatalog(defs, map[ShiftTypeID][]ShiftTypeID{
		"ghost": {"day"},
	})
	if !errors.Is(err, ErrUnknownShiftType) {
		t.Fatalf("expected ErrUnknownShiftType for dangling primary, got %v", err)
	}
}

func TestCatalog_ManualPayrollNeverListed(t *testing.T) {
	c := DefaultCatalog()
	if c.Contains(ShiftTypeManualPayroll) {
		t.Error("manual_payroll must never be a catalog entry")
	}
}
