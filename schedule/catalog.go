/*
catalog.go - Shift-type catalog and compatibility rules

PURPOSE:
  Static definitions of shift types (daily time window, weekday/weekend
  flag) and the compatibility map from a primary shift type to the types
  that may serve as an employee's secondary. Loaded once at process start
  and treated as immutable for the process lifetime.

LOOKUPS:
  Definition(id):          The type's window; fails with ErrUnknownShiftType.
  AllowedSecondaries(id):  Ordered set of compatible secondaries; empty when
                           the primary has none.

SEE ALSO:
  - factory/catalog.go: JSON catalog definitions
  - lifecycle.go:       Consumes the catalog at shift creation
*/
package schedule

// ShiftTypeDefinition is a named daily time window. An end numerically
// earlier than the start always means the shift crosses midnight.
type ShiftTypeDefinition struct {
	ID      ShiftTypeID
	Start   ClockTime
	End     ClockTime
	Weekday bool // false = weekend shift
}

// Hours is the window length, midnight wrap applied.
func (d ShiftTypeDefinition) Hours() float64 { return hoursBetween(d.Start, d.End) }

// Catalog is the immutable shift-type catalog. Pure lookup, no side effects.
type Catalog struct {
	defs   map[ShiftTypeID]ShiftTypeDefinition
	order  []ShiftTypeID
	compat map[ShiftTypeID][]ShiftTypeID
}

// NewCatalog builds a catalog from definitions and a compatibility map.
// Compatibility entries referring to unknown types are rejected.
func NewCatalog(defs []ShiftTypeDefinition, compat map[ShiftTypeID][]ShiftTypeID) (*Catalog, error) {
	c := &Catalog{
		defs:   make(map[ShiftTypeID]ShiftTypeDefinition, len(defs)),
		compat: make(map[ShiftTypeID][]ShiftTypeID, len(compat)),
	}
	for _, d := range defs {
		c.defs[d.ID] = d
		c.order = append(c.order, d.ID)
	}
	for primary, secondaries := range compat {
		if _, ok := c.defs[primary]; !ok {
			return nil, &UnknownShiftTypeError{ID: primary}
		}
		for _, s := range secondaries {
			if _, ok := c.defs[s]; !ok {
				return nil, &UnknownShiftTypeError{ID: s}
			}
		}
		c.compat[primary] = append([]ShiftTypeID(nil), secondaries...)
	}
	return c, nil
}

// Definition returns the shift-type definition for id.
func (c *Catalog) Definition(id ShiftTypeID) (ShiftTypeDefinition, error) {
	d, ok := c.defs[id]
	if !ok {
		return ShiftTypeDefinition{}, &UnknownShiftTypeError{ID: id}
	}
	return d, nil
}

// Contains reports whether id is a catalog entry.
func (c *Catalog) Contains(id ShiftTypeID) bool {
	_, ok := c.defs[id]
	return ok
}

// AllowedSecondaries returns the ordered set of types that may serve as a
// secondary for the given primary. Unknown primaries and primaries with no
// compatible secondary both yield an empty set.
func (c *Catalog) AllowedSecondaries(primary ShiftTypeID) []ShiftTypeID {
	return append([]ShiftTypeID(nil), c.compat[primary]...)
}

// ShiftTypes returns all definitions in declaration order.
func (c *Catalog) ShiftTypes() []ShiftTypeDefinition {
	out := make([]ShiftTypeDefinition, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.defs[id])
	}
	return out
}

// DefaultCatalog returns the stock five-type catalog: three weekday shifts
// covering the full day and two long weekend shifts, with the weekday/weekend
// cross-compatibility the roster was designed around.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(
		[]ShiftTypeDefinition{
			{ID: "morning", Start: MustClock("06:00"), End: MustClock("14:00"), Weekday: true},
			{ID: "late", Start: MustClock("14:00"), End: MustClock("22:00"), Weekday: true},
			{ID: "night", Start: MustClock("22:00"), End: MustClock("06:00"), Weekday: true},
			{ID: "weekend_morning", Start: MustClock("06:00"), End: MustClock("18:00"), Weekday: false},
			{ID: "weekend_night", Start: MustClock("18:00"), End: MustClock("06:00"), Weekday: false},
		},
		map[ShiftTypeID][]ShiftTypeID{
			"morning":         {"weekend_morning"},
			"late":            {"weekend_night"},
			"night":           {"weekend_night"},
			"weekend_morning": {"morning"},
			"weekend_night":   {"late", "night"},
		},
	)
	if err != nil {
		panic(err) // static definitions
	}
	return c
}
