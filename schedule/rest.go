/*
rest.go - Mandatory rest-period (downtime) validation

PURPOSE:
  Enforces the 12-hour minimum gap between the end of an employee's latest
  prior shift and the start of a proposed new one. Applied at creation time,
  per assigned employee; on violation the creation is refused, never
  silently adjusted.

ALGORITHM:
  Among the employee's existing shifts, resolve each true end instant (date
  + end time, midnight wrap applied relative to the shift's own start);
  among those ending at or before the proposed start, take the latest; the
  proposal is valid only if proposedStart - latestEnd >= 12h.

  This is a greedy nearest-preceding-shift check, not an exhaustive overlap
  check: shifts already on the calendar after the proposed start are not
  examined. Callers needing full calendar consistency must additionally
  check forward overlap.

EXCLUSIONS:
  - Declined shifts never count as prior occupancy.
  - Manual payroll entries are pay records, not worked time.
*/
package schedule

import "time"

// MinRestHours is the mandatory rest gap between consecutive shifts.
const MinRestHours = 12

// RestValidator checks the rest-period constraint for one employee at a time.
type RestValidator struct{}

// Check validates a proposed start instant against the employee's existing
// shifts. A nil return means the rest period is satisfied; otherwise the
// returned error names the offending prior shift end and the short gap.
func (RestValidator) Check(username Username, proposedStart time.Time, existing []*Shift) *RestPeriodError {
	latestEnd, ok := latestPriorEnd(proposedStart, existing)
	if !ok {
		return nil // no prior shift, trivially satisfied
	}
	gap := proposedStart.Sub(latestEnd)
	if gap >= MinRestHours*time.Hour {
		return nil
	}
	return &RestPeriodError{
		Username:      username,
		LatestEnd:     latestEnd,
		ProposedStart: proposedStart,
		Gap:           gap,
	}
}

// latestPriorEnd finds the latest true end instant among shifts ending at or
// before the proposed start. Declined shifts and manual entries are skipped.
func latestPriorEnd(proposedStart time.Time, existing []*Shift) (time.Time, bool) {
	var latest time.Time
	found := false
	for _, s := range existing {
		if s.Status == StatusDeclined || s.IsManual() {
			continue
		}
		end := s.EndInstant()
		if end.After(proposedStart) {
			continue
		}
		if !found || end.After(latest) {
			latest = end
			found = true
		}
	}
	return latest, found
}
