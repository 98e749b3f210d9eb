package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/glossworks/detailing/internal/detailing/controller"
	"github.com/glossworks/detailing/internal/detailing/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TimesheetController defines the business logic interface the timesheet
// handlers invoke.
type TimesheetController interface {
	ClockIn(ctx context.Context, employeeID uuid.UUID, at time.Time) (*models.WorkSession, error)
	ClockOut(ctx context.Context, employeeID uuid.UUID, at time.Time) (*models.WorkSession, error)
	Hours(ctx context.Context, employeeID uuid.UUID, start, end time.Time) (*controller.HoursReport, error)
	BuildInvoice(ctx context.Context, employeeID uuid.UUID, start, end time.Time, hourlyRate float64) (*controller.Invoice, error)
	StatusBreakdown(ctx context.Context, start, end string) (*controller.StatusReport, error)
	SaveAllocation(ctx context.Context, employeeID, dealershipID uuid.UUID, date string) (*models.Allocation, error)
	ListAllocations(ctx context.Context, date string) ([]models.Allocation, error)
}

// TimesheetHandler serves time tracking, allocations and the derived
// reports.
type TimesheetHandler struct {
	service TimesheetController
	logger  *zap.Logger
}

// NewTimesheetHandler constructs a new TimesheetHandler with the given
// service and logger.
func NewTimesheetHandler(service TimesheetController, logger *zap.Logger) *TimesheetHandler {
	return &TimesheetHandler{
		service: service,
		logger:  logger.Named("timesheet_handler"),
	}
}

// Register mounts the timesheet routes on the mux.
func (h *TimesheetHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/employees/{id}/clock-in", h.ClockIn)
	mux.HandleFunc("POST /v1/employees/{id}/clock-out", h.ClockOut)
	mux.HandleFunc("GET /v1/employees/{id}/hours", h.Hours)
	mux.HandleFunc("GET /v1/employees/{id}/invoice", h.Invoice)
	mux.HandleFunc("GET /v1/reports/status", h.StatusBreakdown)
	mux.HandleFunc("PUT /v1/allocations", h.SaveAllocation)
	mux.HandleFunc("GET /v1/allocations", h.ListAllocations)
}

type clockRequest struct {
	// At is the clock timestamp; the server time is used when omitted.
	At *time.Time `json:"at"`
}

func (c *clockRequest) at() time.Time {
	if c.At != nil {
		return *c.At
	}
	return time.Now()
}

// ClockIn opens a work session for the employee.
func (h *TimesheetHandler) ClockIn(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req clockRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	session, err := h.service.ClockIn(r.Context(), id, req.at())
	if err != nil {
		writeError(w, mapServiceError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, workSessionToWire(session))
}

// ClockOut closes the employee's active work session.
func (h *TimesheetHandler) ClockOut(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req clockRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	session, err := h.service.ClockOut(r.Context(), id, req.at())
	if err != nil {
		writeError(w, mapServiceError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, workSessionToWire(session))
}

// Hours returns the per-day hours report for the start and end query
// parameters, inclusive.
func (h *TimesheetHandler) Hours(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	start, end, err := dateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := h.service.Hours(r.Context(), id, start, end)
	if err != nil {
		writeError(w, mapServiceError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, hoursReportToWire(report))
}

// Invoice prices the employee's period at the rate query parameter.
func (h *TimesheetHandler) Invoice(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	start, end, err := dateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rate, err := strconv.ParseFloat(r.URL.Query().Get("rate"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid rate")
		return
	}

	invoice, err := h.service.BuildInvoice(r.Context(), id, start, end, rate)
	if err != nil {
		writeError(w, mapServiceError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, invoiceToWire(invoice))
}

// StatusBreakdown returns the assignment status report for the period.
func (h *TimesheetHandler) StatusBreakdown(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.StatusBreakdown(
		r.Context(), r.URL.Query().Get("start"), r.URL.Query().Get("end"))
	if err != nil {
		writeError(w, mapServiceError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, statusReportToWire(report))
}

// SaveAllocation pins an employee to a dealership for a day.
func (h *TimesheetHandler) SaveAllocation(w http.ResponseWriter, r *http.Request) {
	var wire Allocation
	if err := decodeJSON(r, &wire); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	employeeID, err := uuid.Parse(wire.EmployeeID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid employee_id")
		return
	}
	dealershipID, err := uuid.Parse(wire.DealershipID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid dealership_id")
		return
	}

	allocation, err := h.service.SaveAllocation(r.Context(), employeeID, dealershipID, wire.Date)
	if err != nil {
		writeError(w, mapServiceError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, allocationToWire(allocation))
}

// ListAllocations returns the allocations for the date query parameter.
func (h *TimesheetHandler) ListAllocations(w http.ResponseWriter, r *http.Request) {
	allocations, err := h.service.ListAllocations(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, mapServiceError(err), err.Error())
		return
	}

	wire := make([]*Allocation, 0, len(allocations))
	for i := range allocations {
		wire = append(wire, allocationToWire(&allocations[i]))
	}
	writeJSON(w, http.StatusOK, wire)
}

var (
	errInvalidStart = errors.New("invalid start date")
	errInvalidEnd   = errors.New("invalid end date")
)

func dateRange(r *http.Request) (time.Time, time.Time, error) {
	start, err := time.Parse(models.DateFormat, r.URL.Query().Get("start"))
	if err != nil {
		return time.Time{}, time.Time{}, errInvalidStart
	}
	end, err := time.Parse(models.DateFormat, r.URL.Query().Get("end"))
	if err != nil {
		return time.Time{}, time.Time{}, errInvalidEnd
	}
	return start, end, nil
}
