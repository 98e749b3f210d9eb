package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/glossworks/detailing/internal/detailing/controller"
	"github.com/glossworks/detailing/internal/detailing/dispatch"
	e "github.com/glossworks/detailing/internal/detailing/errors"
	"github.com/glossworks/detailing/internal/detailing/models"
	"github.com/google/uuid"
)

// Assignment is the wire representation of a service assignment.
type Assignment struct {
	ID            string `json:"id,omitempty"`
	EmployeeID    string `json:"employee_id"`
	DealershipID  string `json:"dealership_id"`
	ServiceID     string `json:"service_id"`
	ScheduledDate string `json:"scheduled_date"`
	ScheduledTime string `json:"scheduled_time"`
	Status        string `json:"status,omitempty"`
	Notes         string `json:"notes,omitempty"`
	CreatedBy     string `json:"created_by,omitempty"`
}

// Employee is the wire representation of an employee.
type Employee struct {
	ID           string `json:"id,omitempty"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Specialty    string `json:"specialty,omitempty"`
	WorkLocation string `json:"work_location,omitempty"`
	Status       string `json:"status,omitempty"`
}

// EmployeeState extends Employee with the derived workload figures for one
// day.
type EmployeeState struct {
	Employee
	Workload     int    `json:"workload"`
	Availability string `json:"availability"`
}

// Dealership is the wire representation of a dealership.
type Dealership struct {
	ID                 string `json:"id,omitempty"`
	Name               string `json:"name"`
	Street             string `json:"street,omitempty"`
	Number             string `json:"number,omitempty"`
	City               string `json:"city,omitempty"`
	State              string `json:"state,omitempty"`
	ZipCode            string `json:"zip_code,omitempty"`
	Phone              string `json:"phone,omitempty"`
	Email              string `json:"email,omitempty"`
	RegistrationNumber string `json:"registration_number"`
	Status             string `json:"status,omitempty"`
}

// DealershipState extends Dealership with the derived demand figures for
// one day.
type DealershipState struct {
	Dealership
	PendingServices int `json:"pending_services"`
	ServiceCapacity int `json:"service_capacity"`
}

// Service is the wire representation of a catalog service.
type Service struct {
	ID          string  `json:"id,omitempty"`
	Name        string  `json:"name"`
	Duration    string  `json:"duration"`
	Price       float64 `json:"price"`
	Description string  `json:"description,omitempty"`
}

// Recommendation is the result of a best-match query.
type Recommendation struct {
	EmployeeID string `json:"employee_id,omitempty"`
	Found      bool   `json:"found"`
	Reason     string `json:"reason,omitempty"`
}

// WorkSession is the wire representation of a clocked session.
type WorkSession struct {
	ID         string     `json:"id"`
	EmployeeID string     `json:"employee_id"`
	ClockIn    time.Time  `json:"clock_in"`
	ClockOut   *time.Time `json:"clock_out,omitempty"`
	TotalHours *float64   `json:"total_hours,omitempty"`
	Status     string     `json:"status"`
}

// Allocation is the wire representation of a daily allocation.
type Allocation struct {
	ID           string `json:"id,omitempty"`
	EmployeeID   string `json:"employee_id"`
	DealershipID string `json:"dealership_id"`
	Date         string `json:"date"`
}

func assignmentToWire(a *models.Assignment) *Assignment {
	wire := &Assignment{
		ID:            a.ID.String(),
		EmployeeID:    a.EmployeeID.String(),
		DealershipID:  a.DealershipID.String(),
		ServiceID:     a.ServiceID.String(),
		ScheduledDate: a.ScheduledDate,
		ScheduledTime: a.ScheduledTime,
		Status:        string(a.Status),
		Notes:         a.Notes,
	}
	if a.CreatedBy != uuid.Nil {
		wire.CreatedBy = a.CreatedBy.String()
	}
	return wire
}

func assignmentFromWire(wire *Assignment) (*models.Assignment, error) {
	employeeID, err := uuid.Parse(wire.EmployeeID)
	if err != nil {
		return nil, errors.New("invalid employee_id")
	}
	dealershipID, err := uuid.Parse(wire.DealershipID)
	if err != nil {
		return nil, errors.New("invalid dealership_id")
	}
	serviceID, err := uuid.Parse(wire.ServiceID)
	if err != nil {
		return nil, errors.New("invalid service_id")
	}

	return &models.Assignment{
		EmployeeID:    employeeID,
		DealershipID:  dealershipID,
		ServiceID:     serviceID,
		ScheduledDate: wire.ScheduledDate,
		ScheduledTime: wire.ScheduledTime,
		Notes:         wire.Notes,
	}, nil
}

func employeeToWire(employee *models.Employee) *Employee {
	return &Employee{
		ID:           employee.ID.String(),
		Name:         employee.Name,
		Email:        employee.Email,
		Specialty:    employee.Specialty,
		WorkLocation: employee.WorkLocation,
		Status:       string(employee.Status),
	}
}

func employeeStateToWire(state *dispatch.EmployeeState) *EmployeeState {
	return &EmployeeState{
		Employee:     *employeeToWire(&state.Employee),
		Workload:     state.Workload,
		Availability: string(state.Availability),
	}
}

func employeeFromWire(wire *Employee) *models.Employee {
	return &models.Employee{
		Name:         wire.Name,
		Email:        wire.Email,
		Specialty:    wire.Specialty,
		WorkLocation: wire.WorkLocation,
		Status:       models.AccountStatus(wire.Status),
	}
}

// employeePatch is the partial-update payload; absent fields stay untouched.
type employeePatch struct {
	Name         *string `json:"name"`
	Email        *string `json:"email"`
	Specialty    *string `json:"specialty"`
	WorkLocation *string `json:"work_location"`
	Status       *string `json:"status"`
}

func (p *employeePatch) toUpdate(id uuid.UUID) *models.EmployeeUpdate {
	update := &models.EmployeeUpdate{
		ID:           id,
		Name:         p.Name,
		Email:        p.Email,
		Specialty:    p.Specialty,
		WorkLocation: p.WorkLocation,
	}
	if p.Status != nil {
		status := models.AccountStatus(*p.Status)
		update.Status = &status
	}
	return update
}

func dealershipToWire(dealership *models.Dealership) *Dealership {
	return &Dealership{
		ID:                 dealership.ID.String(),
		Name:               dealership.Name,
		Street:             dealership.Street,
		Number:             dealership.Number,
		City:               dealership.City,
		State:              dealership.State,
		ZipCode:            dealership.ZipCode,
		Phone:              dealership.Phone,
		Email:              dealership.Email,
		RegistrationNumber: dealership.RegistrationNumber,
		Status:             string(dealership.Status),
	}
}

func dealershipStateToWire(state *dispatch.DealershipState) *DealershipState {
	return &DealershipState{
		Dealership:      *dealershipToWire(&state.Dealership),
		PendingServices: state.PendingServices,
		ServiceCapacity: state.ServiceCapacity,
	}
}

func dealershipFromWire(wire *Dealership) *models.Dealership {
	return &models.Dealership{
		Name:               wire.Name,
		Street:             wire.Street,
		Number:             wire.Number,
		City:               wire.City,
		State:              wire.State,
		ZipCode:            wire.ZipCode,
		Phone:              wire.Phone,
		Email:              wire.Email,
		RegistrationNumber: wire.RegistrationNumber,
		Status:             models.AccountStatus(wire.Status),
	}
}

type dealershipPatch struct {
	Name               *string `json:"name"`
	Street             *string `json:"street"`
	Number             *string `json:"number"`
	City               *string `json:"city"`
	State              *string `json:"state"`
	ZipCode            *string `json:"zip_code"`
	Phone              *string `json:"phone"`
	Email              *string `json:"email"`
	RegistrationNumber *string `json:"registration_number"`
	Status             *string `json:"status"`
}

func (p *dealershipPatch) toUpdate(id uuid.UUID) *models.DealershipUpdate {
	update := &models.DealershipUpdate{
		ID:                 id,
		Name:               p.Name,
		Street:             p.Street,
		Number:             p.Number,
		City:               p.City,
		State:              p.State,
		ZipCode:            p.ZipCode,
		Phone:              p.Phone,
		Email:              p.Email,
		RegistrationNumber: p.RegistrationNumber,
	}
	if p.Status != nil {
		status := models.AccountStatus(*p.Status)
		update.Status = &status
	}
	return update
}

func serviceToWire(service *models.Service) *Service {
	return &Service{
		ID:          service.ID.String(),
		Name:        service.Name,
		Duration:    service.Duration,
		Price:       service.Price,
		Description: service.Description,
	}
}

func serviceFromWire(wire *Service) *models.Service {
	return &models.Service{
		Name:        wire.Name,
		Duration:    wire.Duration,
		Price:       wire.Price,
		Description: wire.Description,
	}
}

type servicePatch struct {
	Name        *string  `json:"name"`
	Duration    *string  `json:"duration"`
	Price       *float64 `json:"price"`
	Description *string  `json:"description"`
}

func (p *servicePatch) toUpdate(id uuid.UUID) *models.ServiceUpdate {
	return &models.ServiceUpdate{
		ID:          id,
		Name:        p.Name,
		Duration:    p.Duration,
		Price:       p.Price,
		Description: p.Description,
	}
}

func recommendationToWire(result dispatch.MatchResult) *Recommendation {
	wire := &Recommendation{
		Found:  result.Found,
		Reason: result.Reason,
	}
	if result.Found {
		wire.EmployeeID = result.EmployeeID.String()
	}
	return wire
}

func workSessionToWire(session *models.WorkSession) *WorkSession {
	return &WorkSession{
		ID:         session.ID.String(),
		EmployeeID: session.EmployeeID.String(),
		ClockIn:    session.ClockIn,
		ClockOut:   session.ClockOut,
		TotalHours: session.TotalHours,
		Status:     string(session.Status),
	}
}

func allocationToWire(allocation *models.Allocation) *Allocation {
	return &Allocation{
		ID:           allocation.ID.String(),
		EmployeeID:   allocation.EmployeeID.String(),
		DealershipID: allocation.DealershipID.String(),
		Date:         allocation.Date,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.New("invalid request body")
	}
	return nil
}

// decodeOptionalJSON is decodeJSON for requests where an empty body is
// legal.
func decodeOptionalJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return errors.New("invalid request body")
	}
	return nil
}

func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, errors.New("invalid ID")
	}
	return id, nil
}

// mapServiceError maps domain or repository errors to HTTP status codes.
func mapServiceError(err error) int {
	switch {
	case errors.Is(err, e.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, e.ErrDuplicateEmail),
		errors.Is(err, e.ErrDuplicateRegistration),
		errors.Is(err, e.ErrCapacityExceeded),
		errors.Is(err, e.ErrInvalidTransition),
		errors.Is(err, e.ErrSessionActive):
		return http.StatusConflict
	case errors.Is(err, e.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// HoursReport is the wire form of an hours report.
type HoursReport struct {
	EmployeeID string     `json:"employee_id"`
	Start      string     `json:"start"`
	End        string     `json:"end"`
	Days       []DayHours `json:"days"`
	TotalHours float64    `json:"total_hours"`
}

// DayHours is one line of an hours report.
type DayHours struct {
	Date  string  `json:"date"`
	Hours float64 `json:"hours"`
}

// Invoice is the wire form of a period invoice.
type Invoice struct {
	EmployeeID    string  `json:"employee_id"`
	Start         string  `json:"start"`
	End           string  `json:"end"`
	TotalHours    float64 `json:"total_hours"`
	HourlyRate    float64 `json:"hourly_rate"`
	HourlyAmount  float64 `json:"hourly_amount"`
	ServiceAmount float64 `json:"service_amount"`
	TotalAmount   float64 `json:"total_amount"`
}

// StatusReport is the wire form of the assignment status breakdown.
type StatusReport struct {
	Start    string             `json:"start"`
	End      string             `json:"end"`
	ByStatus map[string]int     `json:"by_status"`
	Services []ServiceBreakdown `json:"services"`
}

// ServiceBreakdown counts one catalog service's assignments by status.
type ServiceBreakdown struct {
	ServiceID string         `json:"service_id"`
	Name      string         `json:"name"`
	Count     int            `json:"count"`
	ByStatus  map[string]int `json:"by_status"`
}

func hoursReportToWire(report *controller.HoursReport) *HoursReport {
	wire := &HoursReport{
		EmployeeID: report.EmployeeID.String(),
		Start:      report.Start,
		End:        report.End,
		Days:       make([]DayHours, 0, len(report.Days)),
		TotalHours: report.TotalHours,
	}
	for _, day := range report.Days {
		wire.Days = append(wire.Days, DayHours{Date: day.Date, Hours: day.Hours})
	}
	return wire
}

func invoiceToWire(invoice *controller.Invoice) *Invoice {
	return &Invoice{
		EmployeeID:    invoice.EmployeeID.String(),
		Start:         invoice.Start,
		End:           invoice.End,
		TotalHours:    invoice.TotalHours,
		HourlyRate:    invoice.HourlyRate,
		HourlyAmount:  invoice.HourlyAmount,
		ServiceAmount: invoice.ServiceAmount,
		TotalAmount:   invoice.TotalAmount,
	}
}

func statusCounts(counts map[models.AssignmentStatus]int) map[string]int {
	wire := make(map[string]int, len(counts))
	for status, count := range counts {
		wire[string(status)] = count
	}
	return wire
}

func statusReportToWire(report *controller.StatusReport) *StatusReport {
	wire := &StatusReport{
		Start:    report.Start,
		End:      report.End,
		ByStatus: statusCounts(report.ByStatus),
		Services: make([]ServiceBreakdown, 0, len(report.Services)),
	}
	for _, entry := range report.Services {
		wire.Services = append(wire.Services, ServiceBreakdown{
			ServiceID: entry.ServiceID.String(),
			Name:      entry.Name,
			Count:     entry.Count,
			ByStatus:  statusCounts(entry.ByStatus),
		})
	}
	return wire
}
