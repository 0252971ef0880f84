/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:
  Users:
    UserDTO, CreateUserRequest, UpdateUserRequest

  Shifts:
    ShiftDTO, CreateShiftRequest, RespondRequest, ApproveRequest

  Payroll:
    ManualEntryRequest, PayrollSummaryDTO, PayrollItemDTO

  Catalog:
    ShiftTypeDTO

  Scenarios:
    ScenarioDTO, LoadScenarioRequest

VALIDATION:
  Request types carry go-playground/validator struct tags; handlers run
  them through the shared validator before touching domain logic.

SEE ALSO:
  - handlers.go: Uses these types
  - validator.go: Struct-tag validation
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/shift-engine/schedule"
)

// =============================================================================
// USER TYPES
// =============================================================================

// UserDTO represents a user in API responses.
type UserDTO struct {
	Username       string `json:"username"`
	Name           string `json:"name"`
	Email          string `json:"email,omitempty"`
	Role           string `json:"role"`
	PrimaryShift   string `json:"primary_shift,omitempty"`
	SecondaryShift string `json:"secondary_shift,omitempty"`
	HourlyRate     string `json:"hourly_rate"`
	CreatedAt      string `json:"created_at,omitempty"`
}

// CreateUserRequest is the request to create a user.
type CreateUserRequest struct {
	ActorID        string  `json:"actor_id" validate:"required"`
	Username       string  `json:"username" validate:"required"`
	Name           string  `json:"name" validate:"required"`
	Email          string  `json:"email" validate:"omitempty,email"`
	Role           string  `json:"role" validate:"required,oneof=employee admin head_admin"`
	PrimaryShift   string  `json:"primary_shift"`
	SecondaryShift string  `json:"secondary_shift"`
	HourlyRate     float64 `json:"hourly_rate" validate:"gte=0"`
}

// UpdateUserRequest is a partial profile edit; omitted fields are unchanged.
type UpdateUserRequest struct {
	ActorID        string   `json:"actor_id" validate:"required"`
	Name           *string  `json:"name,omitempty"`
	Email          *string  `json:"email,omitempty" validate:"omitempty,email"`
	Role           *string  `json:"role,omitempty" validate:"omitempty,oneof=employee admin head_admin"`
	PrimaryShift   *string  `json:"primary_shift,omitempty"`
	SecondaryShift *string  `json:"secondary_shift,omitempty"`
	HourlyRate     *float64 `json:"hourly_rate,omitempty" validate:"omitempty,gte=0"`
}

// =============================================================================
// SHIFT TYPES
// =============================================================================

// ShiftDTO represents a shift in API responses.
type ShiftDTO struct {
	ID                string   `json:"id"`
	Date              string   `json:"date"`
	ShiftType         string   `json:"shift_type"`
	PlannedStart      string   `json:"planned_start"`
	PlannedEnd        string   `json:"planned_end"`
	ActualStart       *string  `json:"actual_start,omitempty"`
	ActualEnd         *string  `json:"actual_end,omitempty"`
	AssignedEmployees []string `json:"assigned_employees"`
	AssignedAdmin     string   `json:"assigned_admin,omitempty"`
	Status            string   `json:"status"`
	Approved          bool     `json:"approved"`
	ManualAmount      *string  `json:"manual_amount,omitempty"`
	Description       string   `json:"description,omitempty"`
	Hours             float64  `json:"hours"`
	CreatedAt         string   `json:"created_at,omitempty"`
}

// CreateShiftRequest is the request to create a shift.
type CreateShiftRequest struct {
	AdminID       string   `json:"admin_id" validate:"required"`
	Date          string   `json:"date" validate:"required"`
	ShiftType     string   `json:"shift_type" validate:"required"`
	PlannedStart  string   `json:"planned_start,omitempty"`
	PlannedEnd    string   `json:"planned_end,omitempty"`
	EmployeeIDs   []string `json:"employee_ids" validate:"required,min=1"`
	AssignedAdmin string   `json:"assigned_admin,omitempty"`
	InitialStatus string   `json:"initial_status,omitempty" validate:"omitempty,oneof=pending accepted approved"`
}

// RespondRequest is an employee's accept or decline of a pending shift.
type RespondRequest struct {
	Employee string `json:"employee" validate:"required"`
	Response string `json:"response" validate:"required,oneof=accept decline"`
}

// ApproveRequest finalizes a shift; omitted actuals default to planned.
type ApproveRequest struct {
	AdminID     string  `json:"admin_id" validate:"required"`
	ActualStart *string `json:"actual_start,omitempty"`
	ActualEnd   *string `json:"actual_end,omitempty"`
}

// =============================================================================
// PAYROLL TYPES
// =============================================================================

// ManualEntryRequest records a fixed-amount payroll adjustment.
type ManualEntryRequest struct {
	AdminID     string  `json:"admin_id" validate:"required"`
	Employee    string  `json:"employee" validate:"required"`
	Date        string  `json:"date" validate:"required"`
	Amount      float64 `json:"amount" validate:"required"`
	Description string  `json:"description,omitempty"`
}

// PayrollItemDTO is one payable line item.
type PayrollItemDTO struct {
	ShiftID     string  `json:"shift_id"`
	Date        string  `json:"date"`
	ShiftType   string  `json:"shift_type"`
	Start       string  `json:"start,omitempty"`
	End         string  `json:"end,omitempty"`
	Hours       float64 `json:"hours"`
	Pay         string  `json:"pay"`
	Manual      bool    `json:"manual,omitempty"`
	Description string  `json:"description,omitempty"`
}

// PayrollSummaryDTO is the computed payroll for one user and range.
type PayrollSummaryDTO struct {
	Username      string           `json:"username"`
	From          string           `json:"from"`
	To            string           `json:"to"`
	TotalHours    float64          `json:"total_hours"`
	TotalPay      string           `json:"total_pay"`
	EffectiveRate string           `json:"effective_rate"`
	Items         []PayrollItemDTO `json:"items"`
}

// =============================================================================
// CATALOG TYPES
// =============================================================================

// ShiftTypeDTO represents a catalog entry.
type ShiftTypeDTO struct {
	ID                 string   `json:"id"`
	Start              string   `json:"start"`
	End                string   `json:"end"`
	Hours              float64  `json:"hours"`
	WeekdayOnly        bool     `json:"weekday_only"`
	AllowedSecondaries []string `json:"allowed_secondaries,omitempty"`
}

// =============================================================================
// SCENARIO TYPES
// =============================================================================

// ScenarioDTO describes a loadable demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category,omitempty"`
}

// LoadScenarioRequest selects a demo scenario.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id" validate:"required"`
	Seed       int64  `json:"seed,omitempty"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toUserDTO(u *schedule.User) UserDTO {
	return UserDTO{
		Username:       string(u.Username),
		Name:           u.Name,
		Email:          u.Email,
		Role:           string(u.Role),
		PrimaryShift:   string(u.PrimaryShift),
		SecondaryShift: string(u.SecondaryShift),
		HourlyRate:     u.HourlyRate.StringFixed(2),
		CreatedAt:      u.CreatedAt.Format(time.RFC3339),
	}
}

func toShiftDTO(s *schedule.Shift) ShiftDTO {
	dto := ShiftDTO{
		ID:            string(s.ID),
		Date:          schedule.FormatDate(s.Date),
		ShiftType:     string(s.Type),
		PlannedStart:  s.PlannedStart.String(),
		PlannedEnd:    s.PlannedEnd.String(),
		AssignedAdmin: string(s.AssignedAdmin),
		Status:        string(s.Status),
		Approved:      s.Approved,
		Description:   s.Description,
		Hours:         s.Hours(),
		CreatedAt:     s.CreatedAt.Format(time.RFC3339),
	}
	dto.AssignedEmployees = make([]string, 0, len(s.AssignedEmployees))
	for _, e := range s.AssignedEmployees {
		dto.AssignedEmployees = append(dto.AssignedEmployees, string(e))
	}
	if s.ActualStart != nil {
		v := s.ActualStart.String()
		dto.ActualStart = &v
	}
	if s.ActualEnd != nil {
		v := s.ActualEnd.String()
		dto.ActualEnd = &v
	}
	if s.ManualAmount != nil {
		v := s.ManualAmount.StringFixed(2)
		dto.ManualAmount = &v
	}
	return dto
}

func toPayrollDTO(p *schedule.PayrollSummary) PayrollSummaryDTO {
	dto := PayrollSummaryDTO{
		Username:      string(p.Username),
		From:          schedule.FormatDate(p.From),
		To:            schedule.FormatDate(p.To),
		TotalHours:    p.TotalHours,
		TotalPay:      p.TotalPay.StringFixed(2),
		EffectiveRate: p.EffectiveRate().StringFixed(2),
		Items:         make([]PayrollItemDTO, 0, len(p.Items)),
	}
	for _, item := range p.Items {
		id := PayrollItemDTO{
			ShiftID:     string(item.ShiftID),
			Date:        schedule.FormatDate(item.Date),
			ShiftType:   string(item.ShiftType),
			Hours:       item.Hours,
			Pay:         item.Pay.StringFixed(2),
			Manual:      item.Manual,
			Description: item.Description,
		}
		if !item.Manual {
			id.Start = item.Start.String()
			id.End = item.End.String()
		}
		dto.Items = append(dto.Items, id)
	}
	return dto
}

func decimalFromFloat(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func parseDecimal(s string) (decimal.Decimal, error) { return decimal.NewFromString(s) }
