// Package controller implements the core business logic (service layer)
// for the detailing operations backend, orchestrating repository
// operations, the dispatch decision core, and event production.
package controller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glossworks/detailing/internal/detailing/db"
	"github.com/glossworks/detailing/internal/detailing/dispatch"
	e "github.com/glossworks/detailing/internal/detailing/errors"
	"github.com/glossworks/detailing/internal/detailing/events"
	"github.com/glossworks/detailing/internal/detailing/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EventProducer interface {
	Produce(eventType events.EventType, actorID string, assignment *models.Assignment)
}

// AssignmentRepository defines the storage interface for assignments and
// the snapshots the dispatch core derives from.
type AssignmentRepository interface {
	CreateAssignment(ctx context.Context, assignment *models.Assignment) error
	GetAssignment(ctx context.Context, id uuid.UUID) (*models.Assignment, error)
	UpdateAssignmentStatus(ctx context.Context, id uuid.UUID, status models.AssignmentStatus) error
	DeleteAssignment(ctx context.Context, id uuid.UUID) error
	ListAssignmentsByDate(ctx context.Context, date string) ([]models.Assignment, error)
	CountActiveAssignments(ctx context.Context, employeeID uuid.UUID, date string) (int, error)
	ListEmployees(ctx context.Context, activeOnly bool) ([]models.Employee, error)
	ListDealerships(ctx context.Context, activeOnly bool) ([]models.Dealership, error)
	GetService(ctx context.Context, id uuid.UUID) (*models.Service, error)
	WithTransaction(ctx context.Context, fn func(repo *db.Repository) error) error
	Close() error
}

// AssignmentService manages the assignment lifecycle: creation behind the
// capacity guard, status transitions, deletion, and best-match
// recommendations.
type AssignmentService struct {
	repo     AssignmentRepository
	producer EventProducer
	logger   *zap.Logger
}

// NewAssignmentService constructs an AssignmentService with a repository,
// an event producer, and a logger.
func NewAssignmentService(repo AssignmentRepository, producer EventProducer, logger *zap.Logger) *AssignmentService {
	return &AssignmentService{
		repo:     repo,
		producer: producer,
		logger:   logger.Named("assignment_service"),
	}
}

// CreateAssignment validates the request, checks the employee's workload
// snapshot against the daily cap, and persists the assignment. The guard
// runs before the insert with no transactional fence; two concurrent admins
// can race past it, which matches the product's accepted semantics.
func (s *AssignmentService) CreateAssignment(ctx context.Context, assignment *models.Assignment) (*models.Assignment, error) {
	if assignment.EmployeeID == uuid.Nil || assignment.DealershipID == uuid.Nil || assignment.ServiceID == uuid.Nil {
		return nil, fmt.Errorf("%w: employee, dealership and service are required", e.ErrInvalidInput)
	}
	if _, err := time.Parse(models.DateFormat, assignment.ScheduledDate); err != nil {
		return nil, fmt.Errorf("%w: invalid scheduled date", e.ErrInvalidInput)
	}
	if _, err := time.Parse(models.TimeFormat, assignment.ScheduledTime); err != nil {
		return nil, fmt.Errorf("%w: invalid scheduled time", e.ErrInvalidInput)
	}

	workload, err := s.repo.CountActiveAssignments(ctx, assignment.EmployeeID, assignment.ScheduledDate)
	if err != nil {
		return nil, fmt.Errorf("failed to count assignments: %w", err)
	}
	if decision := dispatch.CanCreateAssignment(workload); !decision.Allowed {
		return nil, e.ErrCapacityExceeded
	}

	assignment.ID = uuid.New()
	assignment.Status = models.AssignmentPending
	if err := s.repo.CreateAssignment(ctx, assignment); err != nil {
		return nil, fmt.Errorf("failed to create assignment: %w", err)
	}
	go func() {
		s.producer.Produce(events.AssignmentCreated, assignment.CreatedBy.String(), assignment)
	}()
	return assignment, nil
}

// UpdateAssignmentStatus advances an assignment through its lifecycle,
// rejecting transitions the state machine does not allow.
func (s *AssignmentService) UpdateAssignmentStatus(ctx context.Context, id uuid.UUID, status models.AssignmentStatus, actorID uuid.UUID) (*models.Assignment, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", e.ErrInvalidInput, status)
	}

	assignment, err := s.repo.GetAssignment(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}

	if !assignment.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s -> %s", e.ErrInvalidTransition, assignment.Status, status)
	}

	if err := s.repo.UpdateAssignmentStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("failed to update assignment status: %w", err)
	}

	assignment.Status = status
	go func() {
		s.producer.Produce(events.AssignmentUpdated, actorID.String(), assignment)
	}()
	return assignment, nil
}

// DeleteAssignment removes an assignment outright. Deletion is an explicit
// admin action; there is no soft delete.
func (s *AssignmentService) DeleteAssignment(ctx context.Context, id uuid.UUID, actorID uuid.UUID) error {
	assignment, err := s.repo.GetAssignment(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to get assignment for deletion: %w", err)
	}

	if err := s.repo.DeleteAssignment(ctx, id); err != nil {
		return fmt.Errorf("failed to delete assignment: %w", err)
	}

	go func() {
		s.producer.Produce(events.AssignmentDeleted, actorID.String(), assignment)
	}()

	return nil
}

// GetAssignment retrieves an assignment by ID, returning an error if not found.
func (s *AssignmentService) GetAssignment(ctx context.Context, id uuid.UUID) (*models.Assignment, error) {
	assignment, err := s.repo.GetAssignment(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	return assignment, nil
}

// ListAssignments returns the full assignment snapshot for a date.
func (s *AssignmentService) ListAssignments(ctx context.Context, date string) ([]models.Assignment, error) {
	if _, err := time.Parse(models.DateFormat, date); err != nil {
		return nil, fmt.Errorf("%w: invalid date", e.ErrInvalidInput)
	}
	assignments, err := s.repo.ListAssignmentsByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	return assignments, nil
}

// EmployeeOverview returns active employees annotated with workload and
// availability for the date.
func (s *AssignmentService) EmployeeOverview(ctx context.Context, date string) ([]dispatch.EmployeeState, error) {
	if _, err := time.Parse(models.DateFormat, date); err != nil {
		return nil, fmt.Errorf("%w: invalid date", e.ErrInvalidInput)
	}

	employees, err := s.repo.ListEmployees(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	assignments, err := s.repo.ListAssignmentsByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}

	return dispatch.DeriveEmployeeStates(employees, assignments), nil
}

// DealershipOverview returns active dealerships annotated with pending
// service counts for the date.
func (s *AssignmentService) DealershipOverview(ctx context.Context, date string) ([]dispatch.DealershipState, error) {
	if _, err := time.Parse(models.DateFormat, date); err != nil {
		return nil, fmt.Errorf("%w: invalid date", e.ErrInvalidInput)
	}

	dealerships, err := s.repo.ListDealerships(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list dealerships: %w", err)
	}
	assignments, err := s.repo.ListAssignmentsByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}

	return dispatch.DeriveDealershipStates(dealerships, assignments), nil
}

// RecommendEmployee runs the best-match selection for a service on a date.
// A search with no candidate is a normal outcome carried in the result, not
// an error.
func (s *AssignmentService) RecommendEmployee(ctx context.Context, date string, serviceID uuid.UUID) (dispatch.MatchResult, error) {
	if _, err := time.Parse(models.DateFormat, date); err != nil {
		return dispatch.MatchResult{}, fmt.Errorf("%w: invalid date", e.ErrInvalidInput)
	}

	service, err := s.repo.GetService(ctx, serviceID)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return dispatch.MatchResult{}, err
		}
		return dispatch.MatchResult{}, fmt.Errorf("failed to get service: %w", err)
	}

	states, err := s.EmployeeOverview(ctx, date)
	if err != nil {
		return dispatch.MatchResult{}, err
	}

	result := dispatch.FindBestMatch(states, service.Name)
	if !result.Found {
		s.logger.Info("No candidate for recommendation",
			zap.String("date", date),
			zap.String("service", service.Name),
		)
	}
	return result, nil
}
