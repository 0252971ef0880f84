/*
Package factory provides JSON to Go shift catalog conversion.

PURPOSE:
  Converts JSON catalog definitions into a schedule.Catalog. This enables
  catalog configuration without code changes - operations staff can define
  shift types in JSON, and the factory creates the proper Go structs.

WHY JSON?
  - Non-developers can modify the shift grid
  - Easy integration with an admin UI
  - Version control for catalog definitions
  - Database storage of catalog configs

JSON SCHEMA:
  {
    "shift_types": [
      {
        "id": "night",
        "start": "22:00",
        "end": "06:00",
        "weekday_only": true
      }
    ],
    "compatibility": {
      "night": ["weekend_night"]
    }
  }

KEY FEATURES:
  - Validates clock formats via schedule.ParseClock
  - Rejects compatibility entries that reference unknown shift types
  - Preserves declaration order for listing endpoints
  - Ships the built-in default grid as JSON for round-trip use

USAGE:
  factory := NewCatalogFactory()

  // From JSON string
  catalog, err := factory.ParseCatalog(jsonString)

  // Built-in default grid
  catalog, err := factory.ParseCatalog(DefaultCatalogJSON())

SEE ALSO:
  - schedule/catalog.go: Catalog type definition
  - api/server.go: Serves the active catalog over HTTP
*/
package factory

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/warp/shift-engine/schedule"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// CatalogJSON is the JSON representation of a shift catalog.
type CatalogJSON struct {
	ShiftTypes    []ShiftTypeJSON     `json:"shift_types"`
	Compatibility map[string][]string `json:"compatibility,omitempty"`
}

// ShiftTypeJSON represents a single shift type definition.
type ShiftTypeJSON struct {
	ID          string `json:"id"`
	Start       string `json:"start"` // "HH:MM"
	End         string `json:"end"`   // "HH:MM", may be earlier than start (crosses midnight)
	WeekdayOnly bool   `json:"weekday_only,omitempty"`
}

// =============================================================================
// CATALOG FACTORY
// =============================================================================

// CatalogFactory converts JSON catalogs to Go structs.
type CatalogFactory struct{}

// NewCatalogFactory creates a new catalog factory.
func NewCatalogFactory() *CatalogFactory {
	return &CatalogFactory{}
}

// ParseCatalog parses a JSON string into a Catalog.
func (f *CatalogFactory) ParseCatalog(jsonStr string) (*schedule.Catalog, error) {
	var cj CatalogJSON
	if err := json.Unmarshal([]byte(jsonStr), &cj); err != nil {
		return nil, fmt.Errorf("failed to parse catalog JSON: %w", err)
	}
	return f.FromJSON(cj)
}

// LoadCatalog reads a catalog definition from a file. An empty path yields
// the built-in default grid.
func (f *CatalogFactory) LoadCatalog(path string) (*schedule.Catalog, error) {
	if path == "" {
		return f.ParseCatalog(DefaultCatalogJSON())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return f.ParseCatalog(string(data))
}

// FromJSON converts CatalogJSON to a schedule.Catalog.
func (f *CatalogFactory) FromJSON(cj CatalogJSON) (*schedule.Catalog, error) {
	if len(cj.ShiftTypes) == 0 {
		return nil, fmt.Errorf("catalog defines no shift types")
	}

	defs := make([]schedule.ShiftTypeDefinition, 0, len(cj.ShiftTypes))
	for _, tj := range cj.ShiftTypes {
		if tj.ID == "" {
			return nil, fmt.Errorf("shift type with empty id")
		}
		start, err := schedule.ParseClock(tj.Start)
		if err != nil {
			return nil, fmt.Errorf("shift type %q: %w", tj.ID, err)
		}
		end, err := schedule.ParseClock(tj.End)
		if err != nil {
			return nil, fmt.Errorf("shift type %q: %w", tj.ID, err)
		}
		defs = append(defs, schedule.ShiftTypeDefinition{
			ID:      schedule.ShiftTypeID(tj.ID),
			Start:   start,
			End:     end,
			Weekday: tj.WeekdayOnly,
		})
	}

	compat := make(map[schedule.ShiftTypeID][]schedule.ShiftTypeID, len(cj.Compatibility))
	for primary, secondaries := range cj.Compatibility {
		ids := make([]schedule.ShiftTypeID, 0, len(secondaries))
		for _, s := range secondaries {
			ids = append(ids, schedule.ShiftTypeID(s))
		}
		compat[schedule.ShiftTypeID(primary)] = ids
	}

	// NewCatalog rejects compatibility entries referencing unknown types.
	return schedule.NewCatalog(defs, compat)
}

// ToJSON converts a Catalog back to its JSON representation.
func (f *CatalogFactory) ToJSON(catalog *schedule.Catalog) CatalogJSON {
	cj := CatalogJSON{Compatibility: map[string][]string{}}
	for _, def := range catalog.ShiftTypes() {
		cj.ShiftTypes = append(cj.ShiftTypes, ShiftTypeJSON{
			ID:          string(def.ID),
			Start:       def.Start.String(),
			End:         def.End.String(),
			WeekdayOnly: def.Weekday,
		})
		secondaries := catalog.AllowedSecondaries(def.ID)
		if len(secondaries) == 0 {
			continue
		}
		out := make([]string, 0, len(secondaries))
		for _, s := range secondaries {
			out = append(out, string(s))
		}
		cj.Compatibility[string(def.ID)] = out
	}
	return cj
}

// =============================================================================
// DEFAULT GRID
// =============================================================================

// DefaultCatalogJSON returns the built-in shift grid as JSON. It mirrors
// schedule.DefaultCatalog and exists so deployments can dump, edit, and
// reload the grid without consulting the source.
func DefaultCatalogJSON() string {
	return `{
  "shift_types": [
    {"id": "morning", "start": "06:00", "end": "14:00", "weekday_only": true},
    {"id": "late", "start": "14:00", "end": "22:00", "weekday_only": true},
    {"id": "night", "start": "22:00", "end": "06:00", "weekday_only": true},
    {"id": "weekend_morning", "start": "06:00", "end": "18:00"},
    {"id": "weekend_night", "start": "18:00", "end": "06:00"}
  ],
  "compatibility": {
    "morning": ["weekend_morning"],
    "late": ["weekend_night"],
    "night": ["weekend_night"],
    "weekend_morning": ["morning"],
    "weekend_night": ["late", "night"]
  }
}`
}
