package controller

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/glossworks/detailing/internal/detailing/db"
	"github.com/glossworks/detailing/internal/detailing/dispatch"
	e "github.com/glossworks/detailing/internal/detailing/errors"
	"github.com/glossworks/detailing/internal/detailing/events"
	"github.com/glossworks/detailing/internal/detailing/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// MockAssignmentRepository implements the AssignmentRepository interface
// for testing
type MockAssignmentRepository struct {
	createAssignment       func(context.Context, *models.Assignment) error
	getAssignment          func(context.Context, uuid.UUID) (*models.Assignment, error)
	updateAssignmentStatus func(context.Context, uuid.UUID, models.AssignmentStatus) error
	deleteAssignment       func(context.Context, uuid.UUID) error
	listAssignmentsByDate  func(context.Context, string) ([]models.Assignment, error)
	countActiveAssignments func(context.Context, uuid.UUID, string) (int, error)
	listEmployees          func(context.Context, bool) ([]models.Employee, error)
	listDealerships        func(context.Context, bool) ([]models.Dealership, error)
	getService             func(context.Context, uuid.UUID) (*models.Service, error)
}

func (m *MockAssignmentRepository) CreateAssignment(ctx context.Context, a *models.Assignment) error {
	return m.createAssignment(ctx, a)
}

func (m *MockAssignmentRepository) GetAssignment(ctx context.Context, id uuid.UUID) (*models.Assignment, error) {
	return m.getAssignment(ctx, id)
}

func (m *MockAssignmentRepository) UpdateAssignmentStatus(ctx context.Context, id uuid.UUID, status models.AssignmentStatus) error {
	return m.updateAssignmentStatus(ctx, id, status)
}

func (m *MockAssignmentRepository) DeleteAssignment(ctx context.Context, id uuid.UUID) error {
	return m.deleteAssignment(ctx, id)
}

func (m *MockAssignmentRepository) ListAssignmentsByDate(ctx context.Context, date string) ([]models.Assignment, error) {
	return m.listAssignmentsByDate(ctx, date)
}

func (m *MockAssignmentRepository) CountActiveAssignments(ctx context.Context, employeeID uuid.UUID, date string) (int, error) {
	return m.countActiveAssignments(ctx, employeeID, date)
}

func (m *MockAssignmentRepository) ListEmployees(ctx context.Context, activeOnly bool) ([]models.Employee, error) {
	return m.listEmployees(ctx, activeOnly)
}

func (m *MockAssignmentRepository) ListDealerships(ctx context.Context, activeOnly bool) ([]models.Dealership, error) {
	return m.listDealerships(ctx, activeOnly)
}

func (m *MockAssignmentRepository) GetService(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	return m.getService(ctx, id)
}

func (m *MockAssignmentRepository) WithTransaction(_ context.Context, _ func(*db.Repository) error) error {
	return nil
}

func (m *MockAssignmentRepository) Close() error {
	return nil
}

// MockProducer is a test double for the Kafka producer.
type MockProducer struct {
	mu       sync.Mutex
	produced []events.Event
	wg       *sync.WaitGroup
}

// Produce records the event and signals the wait group.
func (m *MockProducer) Produce(eventType events.EventType, actorID string, assignment *models.Assignment) {
	m.mu.Lock()
	m.produced = append(m.produced, events.Event{Type: eventType, ActorID: actorID, Assignment: assignment})
	m.mu.Unlock()
	if m.wg != nil {
		m.wg.Done()
	}
}

func (m *MockProducer) events() []events.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]events.Event(nil), m.produced...)
}

func validAssignment() *models.Assignment {
	return &models.Assignment{
		EmployeeID:    uuid.New(),
		DealershipID:  uuid.New(),
		ServiceID:     uuid.New(),
		ScheduledDate: "2025-06-02",
		ScheduledTime: "09:30",
		CreatedBy:     uuid.New(),
	}
}

func TestAssignmentService_CreateAssignment(t *testing.T) {
	tests := []struct {
		name          string
		input         *models.Assignment
		workload      int
		expectError   bool
		expectedError error
	}{
		{
			name:     "successful creation",
			input:    validAssignment(),
			workload: 0,
		},
		{
			name:     "allowed at workload four",
			input:    validAssignment(),
			workload: 4,
		},
		{
			name:          "rejected at capacity",
			input:         validAssignment(),
			workload:      5,
			expectError:   true,
			expectedError: e.ErrCapacityExceeded,
		},
		{
			name: "missing employee",
			input: &models.Assignment{
				DealershipID:  uuid.New(),
				ServiceID:     uuid.New(),
				ScheduledDate: "2025-06-02",
				ScheduledTime: "09:30",
			},
			expectError:   true,
			expectedError: e.ErrInvalidInput,
		},
		{
			name: "malformed date",
			input: &models.Assignment{
				EmployeeID:    uuid.New(),
				DealershipID:  uuid.New(),
				ServiceID:     uuid.New(),
				ScheduledDate: "02/06/2025",
				ScheduledTime: "09:30",
			},
			expectError:   true,
			expectedError: e.ErrInvalidInput,
		},
		{
			name: "malformed time",
			input: &models.Assignment{
				EmployeeID:    uuid.New(),
				DealershipID:  uuid.New(),
				ServiceID:     uuid.New(),
				ScheduledDate: "2025-06-02",
				ScheduledTime: "9am",
			},
			expectError:   true,
			expectedError: e.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var wg sync.WaitGroup
			producer := &MockProducer{wg: &wg}
			repo := &MockAssignmentRepository{
				countActiveAssignments: func(_ context.Context, _ uuid.UUID, _ string) (int, error) {
					return tt.workload, nil
				},
				createAssignment: func(_ context.Context, _ *models.Assignment) error {
					return nil
				},
			}
			svc := NewAssignmentService(repo, producer, zaptest.NewLogger(t))

			if !tt.expectError {
				wg.Add(1)
			}
			created, err := svc.CreateAssignment(context.Background(), tt.input)

			if tt.expectError {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, created)
				assert.Empty(t, producer.events(), "no event on failed creation")
				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, created.ID, "service assigns the ID")
			assert.Equal(t, models.AssignmentPending, created.Status, "new assignments start pending")

			wg.Wait()
			produced := producer.events()
			require.Len(t, produced, 1)
			assert.Equal(t, events.AssignmentCreated, produced[0].Type)
			assert.Equal(t, created.CreatedBy.String(), produced[0].ActorID)
		})
	}
}

func TestAssignmentService_CreateAssignment_CountError(t *testing.T) {
	repo := &MockAssignmentRepository{
		countActiveAssignments: func(_ context.Context, _ uuid.UUID, _ string) (int, error) {
			return 0, errors.New("db down")
		},
	}
	svc := NewAssignmentService(repo, &MockProducer{}, zaptest.NewLogger(t))

	_, err := svc.CreateAssignment(context.Background(), validAssignment())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, e.ErrCapacityExceeded, "infrastructure failure is not a capacity rejection")
}

func TestAssignmentService_UpdateAssignmentStatus(t *testing.T) {
	tests := []struct {
		name          string
		current       models.AssignmentStatus
		next          models.AssignmentStatus
		expectError   bool
		expectedError error
	}{
		{name: "pending to in_progress", current: models.AssignmentPending, next: models.AssignmentInProgress},
		{name: "in_progress to completed", current: models.AssignmentInProgress, next: models.AssignmentCompleted},
		{name: "pending to cancelled", current: models.AssignmentPending, next: models.AssignmentCancelled},
		{name: "in_progress to cancelled", current: models.AssignmentInProgress, next: models.AssignmentCancelled},
		{
			name:          "pending straight to completed",
			current:       models.AssignmentPending,
			next:          models.AssignmentCompleted,
			expectError:   true,
			expectedError: e.ErrInvalidTransition,
		},
		{
			name:          "completed is terminal",
			current:       models.AssignmentCompleted,
			next:          models.AssignmentCancelled,
			expectError:   true,
			expectedError: e.ErrInvalidTransition,
		},
		{
			name:          "cancelled is terminal",
			current:       models.AssignmentCancelled,
			next:          models.AssignmentInProgress,
			expectError:   true,
			expectedError: e.ErrInvalidTransition,
		},
		{
			name:          "unknown status",
			current:       models.AssignmentPending,
			next:          models.AssignmentStatus("paused"),
			expectError:   true,
			expectedError: e.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := uuid.New()
			var wg sync.WaitGroup
			producer := &MockProducer{wg: &wg}
			repo := &MockAssignmentRepository{
				getAssignment: func(_ context.Context, gotID uuid.UUID) (*models.Assignment, error) {
					assert.Equal(t, id, gotID)
					return &models.Assignment{ID: id, Status: tt.current}, nil
				},
				updateAssignmentStatus: func(_ context.Context, _ uuid.UUID, _ models.AssignmentStatus) error {
					return nil
				},
			}
			svc := NewAssignmentService(repo, producer, zaptest.NewLogger(t))

			if !tt.expectError {
				wg.Add(1)
			}
			updated, err := svc.UpdateAssignmentStatus(context.Background(), id, tt.next, uuid.New())

			if tt.expectError {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, producer.events())
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.next, updated.Status)

			wg.Wait()
			produced := producer.events()
			require.Len(t, produced, 1)
			assert.Equal(t, events.AssignmentUpdated, produced[0].Type)
		})
	}
}

func TestAssignmentService_UpdateAssignmentStatus_NotFound(t *testing.T) {
	repo := &MockAssignmentRepository{
		getAssignment: func(_ context.Context, _ uuid.UUID) (*models.Assignment, error) {
			return nil, e.ErrNotFound
		},
	}
	svc := NewAssignmentService(repo, &MockProducer{}, zaptest.NewLogger(t))

	_, err := svc.UpdateAssignmentStatus(context.Background(), uuid.New(), models.AssignmentInProgress, uuid.New())
	assert.ErrorIs(t, err, e.ErrNotFound)
}

func TestAssignmentService_DeleteAssignment(t *testing.T) {
	id := uuid.New()
	var wg sync.WaitGroup
	wg.Add(1)
	producer := &MockProducer{wg: &wg}
	repo := &MockAssignmentRepository{
		getAssignment: func(_ context.Context, _ uuid.UUID) (*models.Assignment, error) {
			return &models.Assignment{ID: id, Status: models.AssignmentPending}, nil
		},
		deleteAssignment: func(_ context.Context, gotID uuid.UUID) error {
			assert.Equal(t, id, gotID)
			return nil
		},
	}
	svc := NewAssignmentService(repo, producer, zaptest.NewLogger(t))

	err := svc.DeleteAssignment(context.Background(), id, uuid.New())
	require.NoError(t, err)

	wg.Wait()
	produced := producer.events()
	require.Len(t, produced, 1)
	assert.Equal(t, events.AssignmentDeleted, produced[0].Type)
}

func TestAssignmentService_EmployeeOverview(t *testing.T) {
	emp := models.Employee{ID: uuid.New(), Name: "Rita", Status: models.StatusActive}
	repo := &MockAssignmentRepository{
		listEmployees: func(_ context.Context, activeOnly bool) ([]models.Employee, error) {
			assert.True(t, activeOnly, "overview only considers active employees")
			return []models.Employee{emp}, nil
		},
		listAssignmentsByDate: func(_ context.Context, date string) ([]models.Assignment, error) {
			assert.Equal(t, "2025-06-02", date)
			return []models.Assignment{
				{ID: uuid.New(), EmployeeID: emp.ID, Status: models.AssignmentPending},
				{ID: uuid.New(), EmployeeID: emp.ID, Status: models.AssignmentCancelled},
			}, nil
		},
	}
	svc := NewAssignmentService(repo, &MockProducer{}, zaptest.NewLogger(t))

	states, err := svc.EmployeeOverview(context.Background(), "2025-06-02")
	require.NoError(t, err)
	require.Len(t, states, 1)
	assert.Equal(t, 1, states[0].Workload)
	assert.Equal(t, dispatch.Available, states[0].Availability)
}

func TestAssignmentService_RecommendEmployee(t *testing.T) {
	serviceID := uuid.New()
	specialist := models.Employee{ID: uuid.New(), Name: "Specialist", Specialty: "Detailing", Status: models.StatusActive}
	generalist := models.Employee{ID: uuid.New(), Name: "Generalist", Status: models.StatusActive}

	repo := &MockAssignmentRepository{
		getService: func(_ context.Context, id uuid.UUID) (*models.Service, error) {
			assert.Equal(t, serviceID, id)
			return &models.Service{ID: serviceID, Name: "Full Detailing"}, nil
		},
		listEmployees: func(_ context.Context, _ bool) ([]models.Employee, error) {
			return []models.Employee{generalist, specialist}, nil
		},
		listAssignmentsByDate: func(_ context.Context, _ string) ([]models.Assignment, error) {
			return nil, nil
		},
	}
	svc := NewAssignmentService(repo, &MockProducer{}, zaptest.NewLogger(t))

	result, err := svc.RecommendEmployee(context.Background(), "2025-06-02", serviceID)
	require.NoError(t, err)
	require.True(t, result.Found)
	assert.Equal(t, specialist.ID, result.EmployeeID, "specialty match wins over input order")
}

func TestAssignmentService_RecommendEmployee_NoCandidate(t *testing.T) {
	serviceID := uuid.New()
	emp := models.Employee{ID: uuid.New(), Name: "Saturated", Status: models.StatusActive}

	assignments := make([]models.Assignment, 5)
	for i := range assignments {
		assignments[i] = models.Assignment{ID: uuid.New(), EmployeeID: emp.ID, Status: models.AssignmentPending}
	}

	repo := &MockAssignmentRepository{
		getService: func(_ context.Context, _ uuid.UUID) (*models.Service, error) {
			return &models.Service{ID: serviceID, Name: "Waxing"}, nil
		},
		listEmployees: func(_ context.Context, _ bool) ([]models.Employee, error) {
			return []models.Employee{emp}, nil
		},
		listAssignmentsByDate: func(_ context.Context, _ string) ([]models.Assignment, error) {
			return assignments, nil
		},
	}
	svc := NewAssignmentService(repo, &MockProducer{}, zaptest.NewLogger(t))

	result, err := svc.RecommendEmployee(context.Background(), "2025-06-02", serviceID)
	require.NoError(t, err, "no candidate is a result, not an error")
	assert.False(t, result.Found)
	assert.Equal(t, dispatch.ReasonNoAvailableEmployees, result.Reason)
}

func TestAssignmentService_RecommendEmployee_ServiceNotFound(t *testing.T) {
	repo := &MockAssignmentRepository{
		getService: func(_ context.Context, _ uuid.UUID) (*models.Service, error) {
			return nil, e.ErrNotFound
		},
	}
	svc := NewAssignmentService(repo, &MockProducer{}, zaptest.NewLogger(t))

	_, err := svc.RecommendEmployee(context.Background(), "2025-06-02", uuid.New())
	assert.ErrorIs(t, err, e.ErrNotFound)
}
