/*
payroll.go - Wage computation over approved shifts

PURPOSE:
  Aggregates approved shifts and manual entries for a user over an
  inclusive date range into total hours, total pay, and a line-item
  breakdown. Pure read: computing payroll twice over unchanged data yields
  identical results.

RULES (per qualifying record: assigned + approved + date in range):
  Manual entry:   hours contribute 0, pay contributes the fixed amount
                  verbatim (rate irrelevant), line item carries the
                  description instead of a time range.
  Regular shift:  actual start/end if present, else planned; hours via the
                  midnight-crossing rule; pay = hours x hourly rate.
  Unapproved shifts never contribute, regardless of status.

MONEY:
  Uses decimal.Decimal throughout; hours stay float64 (display quantity,
  not money).
*/
package schedule

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// =============================================================================
// PAYROLL ENGINE
// =============================================================================

// PayrollEngine computes wages from the shift store.
type PayrollEngine struct {
	store  ShiftStore
	logger zerolog.Logger
}

// NewPayrollEngine wires a payroll engine over the given shift store.
func NewPayrollEngine(store ShiftStore, logger zerolog.Logger) *PayrollEngine {
	return &PayrollEngine{store: store, logger: logger}
}

// LineItem is one payable record in a payroll breakdown.
type LineItem struct {
	ShiftID     ShiftID
	Date        time.Time
	ShiftType   ShiftTypeID
	Start       ClockTime // effective (actual else planned); zero for manual entries
	End         ClockTime
	Hours       float64
	Pay         decimal.Decimal
	Manual      bool
	Description string // manual entries only
}

// PayrollSummary is the computed result for one user and range.
type PayrollSummary struct {
	Username   Username
	From, To   time.Time
	TotalHours float64
	TotalPay   decimal.Decimal
	Items      []LineItem
}

// EffectiveRate is TotalPay / TotalHours, for display. Zero when no hours
// were worked (manual-only payrolls).
func (p *PayrollSummary) EffectiveRate() decimal.Decimal {
	if p.TotalHours == 0 {
		return decimal.Zero
	}
	return p.TotalPay.Div(decimal.NewFromFloat(p.TotalHours))
}

// ComputeForUser walks every approved shift assigned to the user whose date
// falls within the inclusive [from, to] range and sums hours and pay.
func (e *PayrollEngine) ComputeForUser(ctx context.Context, username Username, hourlyRate decimal.Decimal, from, to time.Time) (*PayrollSummary, error) {
	from, to = DateOnly(from), DateOnly(to)

	shifts, err := e.store.ListShiftsByEmployeeRange(ctx, username, from, to)
	if err != nil {
		return nil, err
	}

	summary := &PayrollSummary{
		Username: username,
		From:     from,
		To:       to,
		TotalPay: decimal.Zero,
		Items:    []LineItem{},
	}

	for _, s := range shifts {
		if !s.Approved {
			continue
		}
		item := e.lineItem(s, hourlyRate)
		summary.TotalHours += item.Hours
		summary.TotalPay = summary.TotalPay.Add(item.Pay)
		summary.Items = append(summary.Items, item)
	}

	// Stable ordering so repeated computation is byte-identical.
	sort.Slice(summary.Items, func(i, j int) bool {
		if !summary.Items[i].Date.Equal(summary.Items[j].Date) {
			return summary.Items[i].Date.Before(summary.Items[j].Date)
		}
		return summary.Items[i].ShiftID < summary.Items[j].ShiftID
	})

	e.logger.Debug().
		Str("employee", string(username)).
		Str("from", FormatDate(from)).
		Str("to", FormatDate(to)).
		Float64("total_hours", summary.TotalHours).
		Str("total_pay", summary.TotalPay.StringFixed(2)).
		Int("items", len(summary.Items)).
		Msg("payroll computed")

	return summary, nil
}

func (e *PayrollEngine) lineItem(s *Shift, hourlyRate decimal.Decimal) LineItem {
	if s.IsManual() {
		amount := decimal.Zero
		if s.ManualAmount != nil {
			amount = *s.ManualAmount
		}
		return LineItem{
			ShiftID:     s.ID,
			Date:        s.Date,
			ShiftType:   s.Type,
			Hours:       0,
			Pay:         amount,
			Manual:      true,
			Description: s.Description,
		}
	}

	hours := s.Hours()
	return LineItem{
		ShiftID:   s.ID,
		Date:      s.Date,
		ShiftType: s.Type,
		Start:     s.EffectiveStart(),
		End:       s.EffectiveEnd(),
		Hours:     hours,
		Pay:       decimal.NewFromFloat(hours).Mul(hourlyRate),
	}
}
