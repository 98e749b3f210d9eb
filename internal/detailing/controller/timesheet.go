package controller

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	e "github.com/glossworks/detailing/internal/detailing/errors"
	"github.com/glossworks/detailing/internal/detailing/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TimesheetRepository defines the storage interface for work sessions,
// allocations and the report queries.
type TimesheetRepository interface {
	CreateWorkSession(ctx context.Context, session *models.WorkSession) error
	ActiveWorkSession(ctx context.Context, employeeID uuid.UUID) (*models.WorkSession, error)
	CloseWorkSession(ctx context.Context, id uuid.UUID, clockOut time.Time, totalHours float64) error
	ListWorkSessions(ctx context.Context, employeeID uuid.UUID, start, end time.Time) ([]models.WorkSession, error)
	UpsertAllocation(ctx context.Context, allocation *models.Allocation) error
	ListAllocationsByDate(ctx context.Context, date string) ([]models.Allocation, error)
	ListAssignmentsBetween(ctx context.Context, start, end string) ([]models.Assignment, error)
	ListServices(ctx context.Context) ([]models.Service, error)
}

// TimesheetService covers time tracking and the derived reports: hours,
// invoices, assignment status breakdowns and daily allocations.
type TimesheetService struct {
	repo   TimesheetRepository
	logger *zap.Logger
}

func NewTimesheetService(repo TimesheetRepository, logger *zap.Logger) *TimesheetService {
	return &TimesheetService{
		repo:   repo,
		logger: logger.Named("timesheet_service"),
	}
}

// DayHours is one line of an hours report.
type DayHours struct {
	Date  string
	Hours float64
}

// HoursReport summarizes an employee's clocked time over a period.
type HoursReport struct {
	EmployeeID uuid.UUID
	Start      string
	End        string
	Days       []DayHours
	TotalHours float64
}

// Invoice prices an employee's period: clocked hours at an hourly rate
// plus the list prices of completed assignments.
type Invoice struct {
	EmployeeID    uuid.UUID
	Start         string
	End           string
	TotalHours    float64
	HourlyRate    float64
	HourlyAmount  float64
	ServiceAmount float64
	TotalAmount   float64
}

// ServiceBreakdown counts assignments of one catalog service by status.
type ServiceBreakdown struct {
	ServiceID uuid.UUID
	Name      string
	Count     int
	ByStatus  map[models.AssignmentStatus]int
}

// StatusReport is the period-wide assignment breakdown.
type StatusReport struct {
	Start    string
	End      string
	ByStatus map[models.AssignmentStatus]int
	Services []ServiceBreakdown
}

// ClockIn opens a work session. An employee can hold only one active
// session.
func (s *TimesheetService) ClockIn(ctx context.Context, employeeID uuid.UUID, at time.Time) (*models.WorkSession, error) {
	if employeeID == uuid.Nil {
		return nil, fmt.Errorf("%w: invalid employee ID", e.ErrInvalidInput)
	}

	_, err := s.repo.ActiveWorkSession(ctx, employeeID)
	if err == nil {
		return nil, e.ErrSessionActive
	}
	if !errors.Is(err, e.ErrNotFound) {
		return nil, fmt.Errorf("failed to check active session: %w", err)
	}

	session := &models.WorkSession{
		ID:         uuid.New(),
		EmployeeID: employeeID,
		ClockIn:    at,
		Status:     models.SessionActive,
	}
	if err := s.repo.CreateWorkSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create work session: %w", err)
	}
	return session, nil
}

// ClockOut closes the employee's active session and stores the total
// hours, rounded to two decimals.
func (s *TimesheetService) ClockOut(ctx context.Context, employeeID uuid.UUID, at time.Time) (*models.WorkSession, error) {
	session, err := s.repo.ActiveWorkSession(ctx, employeeID)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get active session: %w", err)
	}
	if at.Before(session.ClockIn) {
		return nil, fmt.Errorf("%w: clock-out before clock-in", e.ErrInvalidInput)
	}

	total := round2(at.Sub(session.ClockIn).Hours())
	if err := s.repo.CloseWorkSession(ctx, session.ID, at, total); err != nil {
		return nil, fmt.Errorf("failed to close work session: %w", err)
	}

	session.ClockOut = &at
	session.TotalHours = &total
	session.Status = models.SessionCompleted
	return session, nil
}

// Hours builds the per-day hours report for an employee between start and
// end inclusive. Sessions without a stored total fall back to the clock
// timestamps.
func (s *TimesheetService) Hours(ctx context.Context, employeeID uuid.UUID, start, end time.Time) (*HoursReport, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end before start", e.ErrInvalidInput)
	}

	sessions, err := s.repo.ListWorkSessions(ctx, employeeID, start, end.Add(24*time.Hour-time.Nanosecond))
	if err != nil {
		return nil, fmt.Errorf("failed to list work sessions: %w", err)
	}

	byDay := make(map[string]float64)
	var total float64
	for i := range sessions {
		hours := sessions[i].Hours()
		byDay[sessions[i].ClockIn.Format(models.DateFormat)] += hours
		total += hours
	}

	report := &HoursReport{
		EmployeeID: employeeID,
		Start:      start.Format(models.DateFormat),
		End:        end.Format(models.DateFormat),
		TotalHours: round2(total),
	}
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		date := day.Format(models.DateFormat)
		report.Days = append(report.Days, DayHours{Date: date, Hours: round2(byDay[date])})
	}
	return report, nil
}

// BuildInvoice prices the employee's period from clocked hours and the
// list prices of their completed assignments in the range.
func (s *TimesheetService) BuildInvoice(ctx context.Context, employeeID uuid.UUID, start, end time.Time, hourlyRate float64) (*Invoice, error) {
	if hourlyRate < 0 {
		return nil, fmt.Errorf("%w: hourly rate must not be negative", e.ErrInvalidInput)
	}

	hours, err := s.Hours(ctx, employeeID, start, end)
	if err != nil {
		return nil, err
	}

	assignments, err := s.repo.ListAssignmentsBetween(ctx, hours.Start, hours.End)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	prices, err := s.servicePrices(ctx)
	if err != nil {
		return nil, err
	}

	var serviceAmount float64
	for i := range assignments {
		a := &assignments[i]
		if a.EmployeeID == employeeID && a.Status == models.AssignmentCompleted {
			serviceAmount += prices[a.ServiceID]
		}
	}

	hourlyAmount := round2(hours.TotalHours * hourlyRate)
	serviceAmount = round2(serviceAmount)
	return &Invoice{
		EmployeeID:    employeeID,
		Start:         hours.Start,
		End:           hours.End,
		TotalHours:    hours.TotalHours,
		HourlyRate:    hourlyRate,
		HourlyAmount:  hourlyAmount,
		ServiceAmount: serviceAmount,
		TotalAmount:   round2(hourlyAmount + serviceAmount),
	}, nil
}

// StatusBreakdown counts assignments by status and by catalog service for
// the period.
func (s *TimesheetService) StatusBreakdown(ctx context.Context, start, end string) (*StatusReport, error) {
	if _, err := time.Parse(models.DateFormat, start); err != nil {
		return nil, fmt.Errorf("%w: invalid start date", e.ErrInvalidInput)
	}
	if _, err := time.Parse(models.DateFormat, end); err != nil {
		return nil, fmt.Errorf("%w: invalid end date", e.ErrInvalidInput)
	}

	assignments, err := s.repo.ListAssignmentsBetween(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	services, err := s.repo.ListServices(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	names := make(map[uuid.UUID]string, len(services))
	for i := range services {
		names[services[i].ID] = services[i].Name
	}

	report := &StatusReport{
		Start:    start,
		End:      end,
		ByStatus: make(map[models.AssignmentStatus]int),
	}
	perService := make(map[uuid.UUID]*ServiceBreakdown)
	for i := range assignments {
		a := &assignments[i]
		report.ByStatus[a.Status]++

		entry, ok := perService[a.ServiceID]
		if !ok {
			entry = &ServiceBreakdown{
				ServiceID: a.ServiceID,
				Name:      names[a.ServiceID],
				ByStatus:  make(map[models.AssignmentStatus]int),
			}
			perService[a.ServiceID] = entry
		}
		entry.Count++
		entry.ByStatus[a.Status]++
	}

	for _, entry := range perService {
		report.Services = append(report.Services, *entry)
	}
	sort.Slice(report.Services, func(i, j int) bool {
		if report.Services[i].Count != report.Services[j].Count {
			return report.Services[i].Count > report.Services[j].Count
		}
		return report.Services[i].Name < report.Services[j].Name
	})
	return report, nil
}

// SaveAllocation pins an employee to a dealership for a day, replacing any
// previous allocation for that day.
func (s *TimesheetService) SaveAllocation(ctx context.Context, employeeID, dealershipID uuid.UUID, date string) (*models.Allocation, error) {
	if employeeID == uuid.Nil || dealershipID == uuid.Nil {
		return nil, fmt.Errorf("%w: employee and dealership are required", e.ErrInvalidInput)
	}
	if _, err := time.Parse(models.DateFormat, date); err != nil {
		return nil, fmt.Errorf("%w: invalid date", e.ErrInvalidInput)
	}

	allocation := &models.Allocation{
		ID:           uuid.New(),
		EmployeeID:   employeeID,
		DealershipID: dealershipID,
		Date:         date,
	}
	if err := s.repo.UpsertAllocation(ctx, allocation); err != nil {
		return nil, fmt.Errorf("failed to save allocation: %w", err)
	}
	return allocation, nil
}

func (s *TimesheetService) ListAllocations(ctx context.Context, date string) ([]models.Allocation, error) {
	if _, err := time.Parse(models.DateFormat, date); err != nil {
		return nil, fmt.Errorf("%w: invalid date", e.ErrInvalidInput)
	}
	allocations, err := s.repo.ListAllocationsByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list allocations: %w", err)
	}
	return allocations, nil
}

func (s *TimesheetService) servicePrices(ctx context.Context) (map[uuid.UUID]float64, error) {
	services, err := s.repo.ListServices(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	prices := make(map[uuid.UUID]float64, len(services))
	for i := range services {
		prices[services[i].ID] = services[i].Price
	}
	return prices, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
