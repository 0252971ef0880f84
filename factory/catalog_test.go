package factory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/shift-engine/factory"
	"github.com/warp/shift-engine/schedule"
)

func TestParseCatalog_DefaultGrid(t *testing.T) {
	f := factory.NewCatalogFactory()

	catalog, err := f.ParseCatalog(factory.DefaultCatalogJSON())
	require.NoError(t, err)

	defs := catalog.ShiftTypes()
	require.Len(t, defs, 5)
	assert.Equal(t, schedule.ShiftTypeID("morning"), defs[0].ID, "declaration order preserved")

	night, err := catalog.Definition("night")
	require.NoError(t, err)
	assert.Equal(t, 8.0, night.Hours(), "midnight wrap applies to parsed windows")
	assert.True(t, night.Weekday)

	// The parsed grid matches the built-in Go catalog.
	builtin := schedule.DefaultCatalog()
	for _, def := range builtin.ShiftTypes() {
		assert.Equal(t, builtin.AllowedSecondaries(def.ID), catalog.AllowedSecondaries(def.ID), "compat for %s", def.ID)
	}
}

func TestParseCatalog_MalformedClock(t *testing.T) {
	f := factory.NewCatalogFactory()

	_, err := f.ParseCatalog(`{"shift_types": [{"id": "day", "start": "8am", "end": "16:00"}]}`)
	require.Error(t, err)
	assert.ErrorIs(t, err, schedule.ErrInvalidTimeFormat)
}

func TestParseCatalog_DanglingCompatibility(t *testing.T) {
	f := factory.NewCatalogFactory()

	_, err := f.ParseCatalog(`{
		"shift_types": [{"id": "day", "start": "08:00", "end": "16:00"}],
		"compatibility": {"day": ["ghost"]}
	}`)
	require.Error(t, err)
	assert.ErrorIs(t, err, schedule.ErrUnknownShiftType)
}

func TestParseCatalog_EmptyRejected(t *testing.T) {
	f := factory.NewCatalogFactory()

	_, err := f.ParseCatalog(`{"shift_types": []}`)
	assert.Error(t, err)

	_, err = f.ParseCatalog(`not json`)
	assert.Error(t, err)
}

func TestCatalogJSON_RoundTrip(t *testing.T) {
	f := factory.NewCatalogFactory()

	catalog, err := f.ParseCatalog(factory.DefaultCatalogJSON())
	require.NoError(t, err)

	reparsed, err := f.FromJSON(f.ToJSON(catalog))
	require.NoError(t, err)

	assert.Equal(t, catalog.ShiftTypes(), reparsed.ShiftTypes())
	for _, def := range catalog.ShiftTypes() {
		assert.Equal(t, catalog.AllowedSecondaries(def.ID), reparsed.AllowedSecondaries(def.ID))
	}
}
