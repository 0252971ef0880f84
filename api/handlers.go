/*
handlers.go - HTTP API handlers for the shift scheduling system

PURPOSE:
  Exposes the scheduling engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Users:
    GET    /api/users                   List all users
    POST   /api/users                   Create user
    GET    /api/users/{username}        Get user details
    PUT    /api/users/{username}        Update user
    DELETE /api/users/{username}        Delete user (head admin only)

  Shifts:
    GET    /api/shifts                  List shifts (optional ?employee=)
    POST   /api/shifts                  Create shift
    GET    /api/shifts/{id}             Get shift details
    POST   /api/shifts/{id}/respond     Employee accept/decline
    POST   /api/shifts/{id}/approve     Admin approval (full or partial)

  Payroll:
    POST   /api/payroll/manual          Add manual payroll entry
    GET    /api/payroll/{username}      Compute payroll over a range

  Catalog:
    GET    /api/catalog                 List shift types

  Scenarios:
    GET    /api/scenarios               List demo scenarios
    POST   /api/scenarios/load          Load a demo scenario

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Scheduler:  Shift lifecycle mutations
  - Directory:  User management
  - Payroll:    Wage computation
  - Catalog:    Shift-type lookups

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input (struct tags via go-playground/validator)
  3. Call domain logic (scheduler, directory, payroll)
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with status mapped from the domain error kind:
  - 400: Validation errors, malformed times, invalid input
  - 403: Role violations (forbidden role mutation, not permitted)
  - 404: Unknown shift or user
  - 409: Duplicate username, illegal lifecycle transition
  - 422: Rest-period or compatibility violations
  - 503: Storage backend unavailable
  - 500: Everything else

SECURITY NOTE:
  Currently NO authentication. The acting user is declared in the request
  body; trust boundaries must be enforced upstream.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/warp/shift-engine/schedule"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Scheduler *schedule.Scheduler
	Directory *schedule.Directory
	Payroll   *schedule.PayrollEngine
	Catalog   *schedule.Catalog

	// Resetter enables scenario loading; leave nil to disable it.
	Resetter StoreResetter

	validator *requestValidator
	logger    zerolog.Logger

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler creates a new handler over the given engine services.
func NewHandler(scheduler *schedule.Scheduler, directory *schedule.Directory, payroll *schedule.PayrollEngine, catalog *schedule.Catalog, logger zerolog.Logger) *Handler {
	return &Handler{
		Scheduler: scheduler,
		Directory: directory,
		Payroll:   payroll,
		Catalog:   catalog,
		validator: newValidator(),
		logger:    logger,
	}
}

// =============================================================================
// USER HANDLERS
// =============================================================================

// ListUsers returns all users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Directory.ListUsers(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	dtos := make([]UserDTO, len(users))
	for i, u := range users {
		dtos[i] = toUserDTO(u)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetUser returns a single user.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	username := schedule.Username(chi.URLParam(r, "username"))

	u, err := h.Directory.GetUser(r.Context(), username)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(u))
}

// CreateUser creates a new user.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return
	}

	u, err := h.Directory.CreateUser(r.Context(), schedule.CreateUserInput{
		ActorID:        schedule.Username(req.ActorID),
		Username:       schedule.Username(req.Username),
		Name:           req.Name,
		Email:          req.Email,
		Role:           schedule.Role(req.Role),
		PrimaryShift:   schedule.ShiftTypeID(req.PrimaryShift),
		SecondaryShift: schedule.ShiftTypeID(req.SecondaryShift),
		HourlyRate:     decimalFromFloat(req.HourlyRate),
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserDTO(u))
}

// UpdateUser applies a partial profile edit.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	username := schedule.Username(chi.URLParam(r, "username"))

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return
	}

	in := schedule.UpdateUserInput{
		ActorID:  schedule.Username(req.ActorID),
		Username: username,
		Name:     req.Name,
		Email:    req.Email,
	}
	if req.Role != nil {
		role := schedule.Role(*req.Role)
		in.Role = &role
	}
	if req.PrimaryShift != nil {
		p := schedule.ShiftTypeID(*req.PrimaryShift)
		in.PrimaryShift = &p
	}
	if req.SecondaryShift != nil {
		s := schedule.ShiftTypeID(*req.SecondaryShift)
		in.SecondaryShift = &s
	}
	if req.HourlyRate != nil {
		rate := decimalFromFloat(*req.HourlyRate)
		in.HourlyRate = &rate
	}

	u, err := h.Directory.UpdateUser(r.Context(), in)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(u))
}

// DeleteUser removes a user. Actor comes from the ?actor= query parameter.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	username := schedule.Username(chi.URLParam(r, "username"))
	actor := schedule.Username(r.URL.Query().Get("actor"))
	if actor == "" {
		writeError(w, http.StatusBadRequest, "Missing actor query parameter", nil)
		return
	}

	if err := h.Directory.DeleteUser(r.Context(), actor, username); err != nil {
		h.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// SHIFT HANDLERS
// =============================================================================

// ListShifts returns shifts, filtered to one employee when ?employee= is set.
func (h *Handler) ListShifts(w http.ResponseWriter, r *http.Request) {
	var (
		shifts []*schedule.Shift
		err    error
	)
	if employee := r.URL.Query().Get("employee"); employee != "" {
		shifts, err = h.Scheduler.ListShiftsForEmployee(r.Context(), schedule.Username(employee))
	} else {
		shifts, err = h.Scheduler.ListShifts(r.Context())
	}
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	dtos := make([]ShiftDTO, len(shifts))
	for i, s := range shifts {
		dtos[i] = toShiftDTO(s)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetShift returns a single shift.
func (h *Handler) GetShift(w http.ResponseWriter, r *http.Request) {
	id := schedule.ShiftID(chi.URLParam(r, "id"))

	s, err := h.Scheduler.GetShift(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toShiftDTO(s))
}

// CreateShift creates a new shift.
func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var req CreateShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return
	}

	date, err := schedule.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	employees := make([]schedule.Username, 0, len(req.EmployeeIDs))
	for _, e := range req.EmployeeIDs {
		employees = append(employees, schedule.Username(e))
	}

	s, err := h.Scheduler.CreateShift(r.Context(), schedule.CreateShiftInput{
		AdminID:       schedule.Username(req.AdminID),
		Date:          date,
		ShiftType:     schedule.ShiftTypeID(req.ShiftType),
		PlannedStart:  req.PlannedStart,
		PlannedEnd:    req.PlannedEnd,
		EmployeeIDs:   employees,
		AssignedAdmin: schedule.Username(req.AssignedAdmin),
		InitialStatus: schedule.ShiftStatus(req.InitialStatus),
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toShiftDTO(s))
}

// RespondToShift records an employee's accept or decline.
func (h *Handler) RespondToShift(w http.ResponseWriter, r *http.Request) {
	id := schedule.ShiftID(chi.URLParam(r, "id"))

	var req RespondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return
	}

	s, err := h.Scheduler.Respond(r.Context(), id, schedule.Username(req.Employee), schedule.Response(req.Response))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toShiftDTO(s))
}

// ApproveShift finalizes a shift for payroll.
func (h *Handler) ApproveShift(w http.ResponseWriter, r *http.Request) {
	id := schedule.ShiftID(chi.URLParam(r, "id"))

	var req ApproveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return
	}

	s, err := h.Scheduler.Approve(r.Context(), id, schedule.Username(req.AdminID), req.ActualStart, req.ActualEnd)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toShiftDTO(s))
}

// =============================================================================
// PAYROLL HANDLERS
// =============================================================================

// AddManualEntry records a fixed-amount payroll adjustment.
func (h *Handler) AddManualEntry(w http.ResponseWriter, r *http.Request) {
	var req ManualEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return
	}

	date, err := schedule.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	s, err := h.Scheduler.AddManualEntry(r.Context(), schedule.ManualEntryInput{
		AdminID:     schedule.Username(req.AdminID),
		EmployeeID:  schedule.Username(req.Employee),
		Date:        date,
		Amount:      decimalFromFloat(req.Amount),
		Description: req.Description,
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toShiftDTO(s))
}

// ComputePayroll computes a payroll summary for a user over an inclusive
// range. GET /api/payroll/{username}?from=YYYY-MM-DD&to=YYYY-MM-DD
// The hourly rate defaults to the user's stored rate; ?rate= overrides it.
func (h *Handler) ComputePayroll(w http.ResponseWriter, r *http.Request) {
	username := schedule.Username(chi.URLParam(r, "username"))

	from, err := schedule.ParseDate(r.URL.Query().Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid from date (use YYYY-MM-DD)", err)
		return
	}
	to, err := schedule.ParseDate(r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid to date (use YYYY-MM-DD)", err)
		return
	}

	u, err := h.Directory.GetUser(r.Context(), username)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	rate := u.HourlyRate
	if override := r.URL.Query().Get("rate"); override != "" {
		d, err := parseDecimal(override)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid rate", err)
			return
		}
		rate = d
	}

	summary, err := h.Payroll.ComputeForUser(r.Context(), username, rate, from, to)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPayrollDTO(summary))
}

// =============================================================================
// CATALOG HANDLERS
// =============================================================================

// ListShiftTypes returns the catalog in declaration order.
func (h *Handler) ListShiftTypes(w http.ResponseWriter, r *http.Request) {
	defs := h.Catalog.ShiftTypes()
	dtos := make([]ShiftTypeDTO, 0, len(defs))
	for _, def := range defs {
		dto := ShiftTypeDTO{
			ID:          string(def.ID),
			Start:       def.Start.String(),
			End:         def.End.String(),
			Hours:       def.Hours(),
			WeekdayOnly: def.Weekday,
		}
		for _, s := range h.Catalog.AllowedSecondaries(def.ID) {
			dto.AllowedSecondaries = append(dto.AllowedSecondaries, string(s))
		}
		dtos = append(dtos, dto)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// ERROR MAPPING
// =============================================================================

// writeDomainError maps engine error kinds onto HTTP statuses.
func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, schedule.ErrStorageUnavailable):
		h.logger.Error().Err(err).Msg("storage failure")
		writeError(w, http.StatusServiceUnavailable, "Storage unavailable", err)
	case schedule.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Not found", err)
	case errors.Is(err, schedule.ErrDuplicateUsername),
		errors.Is(err, schedule.ErrInvalidTransition):
		writeError(w, http.StatusConflict, "Conflict", err)
	case errors.Is(err, schedule.ErrForbiddenRoleMutation),
		errors.Is(err, schedule.ErrNotPermitted):
		writeError(w, http.StatusForbidden, "Forbidden", err)
	case errors.Is(err, schedule.ErrRestPeriodViolation),
		errors.Is(err, schedule.ErrNoCompatibleShiftType):
		writeError(w, http.StatusUnprocessableEntity, "Business rule violation", err)
	case schedule.IsClientError(err):
		writeError(w, http.StatusBadRequest, "Invalid request", err)
	default:
		h.logger.Error().Err(err).Msg("unhandled error")
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
