package controller

import (
	"context"
	"testing"
	"time"

	e "github.com/glossworks/detailing/internal/detailing/errors"
	"github.com/glossworks/detailing/internal/detailing/models"
	"github.com/glossworks/detailing/internal/pkg/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// MockTimesheetRepository implements the TimesheetRepository interface for
// testing
type MockTimesheetRepository struct {
	createWorkSession      func(context.Context, *models.WorkSession) error
	activeWorkSession      func(context.Context, uuid.UUID) (*models.WorkSession, error)
	closeWorkSession       func(context.Context, uuid.UUID, time.Time, float64) error
	listWorkSessions       func(context.Context, uuid.UUID, time.Time, time.Time) ([]models.WorkSession, error)
	upsertAllocation       func(context.Context, *models.Allocation) error
	listAllocationsByDate  func(context.Context, string) ([]models.Allocation, error)
	listAssignmentsBetween func(context.Context, string, string) ([]models.Assignment, error)
	listServices           func(context.Context) ([]models.Service, error)
}

func (m *MockTimesheetRepository) CreateWorkSession(ctx context.Context, session *models.WorkSession) error {
	return m.createWorkSession(ctx, session)
}

func (m *MockTimesheetRepository) ActiveWorkSession(ctx context.Context, employeeID uuid.UUID) (*models.WorkSession, error) {
	return m.activeWorkSession(ctx, employeeID)
}

func (m *MockTimesheetRepository) CloseWorkSession(ctx context.Context, id uuid.UUID, clockOut time.Time, totalHours float64) error {
	return m.closeWorkSession(ctx, id, clockOut, totalHours)
}

func (m *MockTimesheetRepository) ListWorkSessions(ctx context.Context, employeeID uuid.UUID, start, end time.Time) ([]models.WorkSession, error) {
	return m.listWorkSessions(ctx, employeeID, start, end)
}

func (m *MockTimesheetRepository) UpsertAllocation(ctx context.Context, allocation *models.Allocation) error {
	return m.upsertAllocation(ctx, allocation)
}

func (m *MockTimesheetRepository) ListAllocationsByDate(ctx context.Context, date string) ([]models.Allocation, error) {
	return m.listAllocationsByDate(ctx, date)
}

func (m *MockTimesheetRepository) ListAssignmentsBetween(ctx context.Context, start, end string) ([]models.Assignment, error) {
	return m.listAssignmentsBetween(ctx, start, end)
}

func (m *MockTimesheetRepository) ListServices(ctx context.Context) ([]models.Service, error) {
	return m.listServices(ctx)
}

func day(value string) time.Time {
	d, err := time.Parse(models.DateFormat, value)
	if err != nil {
		panic(err)
	}
	return d
}

func TestTimesheetService_ClockIn(t *testing.T) {
	employeeID := uuid.New()
	var created *models.WorkSession
	repo := &MockTimesheetRepository{
		activeWorkSession: func(_ context.Context, _ uuid.UUID) (*models.WorkSession, error) {
			return nil, e.ErrNotFound
		},
		createWorkSession: func(_ context.Context, session *models.WorkSession) error {
			created = session
			return nil
		},
	}
	svc := NewTimesheetService(repo, zaptest.NewLogger(t))

	at := time.Date(2026, 3, 10, 8, 30, 0, 0, time.UTC)
	session, err := svc.ClockIn(context.Background(), employeeID, at)
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, employeeID, session.EmployeeID)
	assert.Equal(t, at, session.ClockIn)
	assert.Equal(t, models.SessionActive, session.Status)
	assert.Nil(t, session.ClockOut)
}

func TestTimesheetService_ClockIn_AlreadyActive(t *testing.T) {
	repo := &MockTimesheetRepository{
		activeWorkSession: func(_ context.Context, _ uuid.UUID) (*models.WorkSession, error) {
			return &models.WorkSession{ID: uuid.New(), Status: models.SessionActive}, nil
		},
	}
	svc := NewTimesheetService(repo, zaptest.NewLogger(t))

	_, err := svc.ClockIn(context.Background(), uuid.New(), time.Now())
	assert.ErrorIs(t, err, e.ErrSessionActive)
}

func TestTimesheetService_ClockOut(t *testing.T) {
	clockIn := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	sessionID := uuid.New()
	var storedTotal float64
	repo := &MockTimesheetRepository{
		activeWorkSession: func(_ context.Context, _ uuid.UUID) (*models.WorkSession, error) {
			return &models.WorkSession{ID: sessionID, ClockIn: clockIn, Status: models.SessionActive}, nil
		},
		closeWorkSession: func(_ context.Context, id uuid.UUID, _ time.Time, totalHours float64) error {
			assert.Equal(t, sessionID, id)
			storedTotal = totalHours
			return nil
		},
	}
	svc := NewTimesheetService(repo, zaptest.NewLogger(t))

	// 7 hours 50 minutes rounds to 7.83
	session, err := svc.ClockOut(context.Background(), uuid.New(), clockIn.Add(7*time.Hour+50*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 7.83, storedTotal)
	assert.Equal(t, models.SessionCompleted, session.Status)
	require.NotNil(t, session.TotalHours)
	assert.Equal(t, 7.83, *session.TotalHours)
}

func TestTimesheetService_ClockOut_BeforeClockIn(t *testing.T) {
	clockIn := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	repo := &MockTimesheetRepository{
		activeWorkSession: func(_ context.Context, _ uuid.UUID) (*models.WorkSession, error) {
			return &models.WorkSession{ID: uuid.New(), ClockIn: clockIn, Status: models.SessionActive}, nil
		},
	}
	svc := NewTimesheetService(repo, zaptest.NewLogger(t))

	_, err := svc.ClockOut(context.Background(), uuid.New(), clockIn.Add(-time.Minute))
	assert.ErrorIs(t, err, e.ErrInvalidInput)
}

func TestTimesheetService_ClockOut_NoActiveSession(t *testing.T) {
	repo := &MockTimesheetRepository{
		activeWorkSession: func(_ context.Context, _ uuid.UUID) (*models.WorkSession, error) {
			return nil, e.ErrNotFound
		},
	}
	svc := NewTimesheetService(repo, zaptest.NewLogger(t))

	_, err := svc.ClockOut(context.Background(), uuid.New(), time.Now())
	assert.ErrorIs(t, err, e.ErrNotFound)
}

func TestTimesheetService_Hours(t *testing.T) {
	employeeID := uuid.New()
	repo := &MockTimesheetRepository{
		listWorkSessions: func(_ context.Context, _ uuid.UUID, _, _ time.Time) ([]models.WorkSession, error) {
			return []models.WorkSession{
				{
					// stored total wins over the clock timestamps
					ClockIn:    time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC),
					TotalHours: utils.Ptr(8.0),
					Status:     models.SessionCompleted,
				},
				{
					// no stored total, falls back to clock-out minus clock-in
					ClockIn:  time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
					ClockOut: utils.Ptr(time.Date(2026, 3, 10, 13, 30, 0, 0, time.UTC)),
					Status:   models.SessionCompleted,
				},
				{
					// second session on the same day
					ClockIn:    time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC),
					TotalHours: utils.Ptr(2.25),
					Status:     models.SessionCompleted,
				},
			}, nil
		},
	}
	svc := NewTimesheetService(repo, zaptest.NewLogger(t))

	report, err := svc.Hours(context.Background(), employeeID, day("2026-03-09"), day("2026-03-11"))
	require.NoError(t, err)
	assert.Equal(t, 14.75, report.TotalHours)
	require.Len(t, report.Days, 3, "every day in the range gets a row")
	assert.Equal(t, DayHours{Date: "2026-03-09", Hours: 8}, report.Days[0])
	assert.Equal(t, DayHours{Date: "2026-03-10", Hours: 6.75}, report.Days[1])
	assert.Equal(t, DayHours{Date: "2026-03-11", Hours: 0}, report.Days[2])
}

func TestTimesheetService_Hours_EndBeforeStart(t *testing.T) {
	svc := NewTimesheetService(&MockTimesheetRepository{}, zaptest.NewLogger(t))

	_, err := svc.Hours(context.Background(), uuid.New(), day("2026-03-11"), day("2026-03-09"))
	assert.ErrorIs(t, err, e.ErrInvalidInput)
}

func TestTimesheetService_BuildInvoice(t *testing.T) {
	employeeID := uuid.New()
	otherEmployee := uuid.New()
	detailingID := uuid.New()
	waxingID := uuid.New()

	repo := &MockTimesheetRepository{
		listWorkSessions: func(_ context.Context, _ uuid.UUID, _, _ time.Time) ([]models.WorkSession, error) {
			return []models.WorkSession{
				{ClockIn: day("2026-03-09"), TotalHours: utils.Ptr(10.0), Status: models.SessionCompleted},
			}, nil
		},
		listAssignmentsBetween: func(_ context.Context, start, end string) ([]models.Assignment, error) {
			assert.Equal(t, "2026-03-09", start)
			assert.Equal(t, "2026-03-10", end)
			return []models.Assignment{
				{EmployeeID: employeeID, ServiceID: detailingID, Status: models.AssignmentCompleted},
				{EmployeeID: employeeID, ServiceID: waxingID, Status: models.AssignmentCompleted},
				// pending work is not billed
				{EmployeeID: employeeID, ServiceID: detailingID, Status: models.AssignmentPending},
				// other employees' work is not billed
				{EmployeeID: otherEmployee, ServiceID: detailingID, Status: models.AssignmentCompleted},
			}, nil
		},
		listServices: func(_ context.Context) ([]models.Service, error) {
			return []models.Service{
				{ID: detailingID, Name: "Full Detailing", Price: 180},
				{ID: waxingID, Name: "Waxing", Price: 90.5},
			}, nil
		},
	}
	svc := NewTimesheetService(repo, zaptest.NewLogger(t))

	invoice, err := svc.BuildInvoice(context.Background(), employeeID, day("2026-03-09"), day("2026-03-10"), 25)
	require.NoError(t, err)
	assert.Equal(t, 10.0, invoice.TotalHours)
	assert.Equal(t, 250.0, invoice.HourlyAmount)
	assert.Equal(t, 270.5, invoice.ServiceAmount)
	assert.Equal(t, 520.5, invoice.TotalAmount)
}

func TestTimesheetService_BuildInvoice_NegativeRate(t *testing.T) {
	svc := NewTimesheetService(&MockTimesheetRepository{}, zaptest.NewLogger(t))

	_, err := svc.BuildInvoice(context.Background(), uuid.New(), day("2026-03-09"), day("2026-03-10"), -1)
	assert.ErrorIs(t, err, e.ErrInvalidInput)
}

func TestTimesheetService_StatusBreakdown(t *testing.T) {
	detailingID := uuid.New()
	waxingID := uuid.New()
	repo := &MockTimesheetRepository{
		listAssignmentsBetween: func(_ context.Context, _, _ string) ([]models.Assignment, error) {
			return []models.Assignment{
				{ServiceID: detailingID, Status: models.AssignmentCompleted},
				{ServiceID: detailingID, Status: models.AssignmentPending},
				{ServiceID: waxingID, Status: models.AssignmentCompleted},
				{ServiceID: waxingID, Status: models.AssignmentCompleted},
				{ServiceID: waxingID, Status: models.AssignmentCancelled},
			}, nil
		},
		listServices: func(_ context.Context) ([]models.Service, error) {
			return []models.Service{
				{ID: detailingID, Name: "Full Detailing"},
				{ID: waxingID, Name: "Waxing"},
			}, nil
		},
	}
	svc := NewTimesheetService(repo, zaptest.NewLogger(t))

	report, err := svc.StatusBreakdown(context.Background(), "2026-03-01", "2026-03-31")
	require.NoError(t, err)
	assert.Equal(t, map[models.AssignmentStatus]int{
		models.AssignmentCompleted: 3,
		models.AssignmentPending:   1,
		models.AssignmentCancelled: 1,
	}, report.ByStatus)

	require.Len(t, report.Services, 2)
	assert.Equal(t, "Waxing", report.Services[0].Name, "busiest service first")
	assert.Equal(t, 3, report.Services[0].Count)
	assert.Equal(t, 2, report.Services[0].ByStatus[models.AssignmentCompleted])
	assert.Equal(t, "Full Detailing", report.Services[1].Name)
}

func TestTimesheetService_StatusBreakdown_BadDates(t *testing.T) {
	svc := NewTimesheetService(&MockTimesheetRepository{}, zaptest.NewLogger(t))

	_, err := svc.StatusBreakdown(context.Background(), "03/01/2026", "2026-03-31")
	assert.ErrorIs(t, err, e.ErrInvalidInput)

	_, err = svc.StatusBreakdown(context.Background(), "2026-03-01", "")
	assert.ErrorIs(t, err, e.ErrInvalidInput)
}

func TestTimesheetService_SaveAllocation(t *testing.T) {
	employeeID := uuid.New()
	dealershipID := uuid.New()
	var stored *models.Allocation
	repo := &MockTimesheetRepository{
		upsertAllocation: func(_ context.Context, allocation *models.Allocation) error {
			stored = allocation
			return nil
		},
	}
	svc := NewTimesheetService(repo, zaptest.NewLogger(t))

	allocation, err := svc.SaveAllocation(context.Background(), employeeID, dealershipID, "2026-03-10")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, employeeID, allocation.EmployeeID)
	assert.Equal(t, dealershipID, allocation.DealershipID)
	assert.Equal(t, "2026-03-10", allocation.Date)
}

func TestTimesheetService_SaveAllocation_Invalid(t *testing.T) {
	svc := NewTimesheetService(&MockTimesheetRepository{}, zaptest.NewLogger(t))

	_, err := svc.SaveAllocation(context.Background(), uuid.Nil, uuid.New(), "2026-03-10")
	assert.ErrorIs(t, err, e.ErrInvalidInput)

	_, err = svc.SaveAllocation(context.Background(), uuid.New(), uuid.New(), "March 10")
	assert.ErrorIs(t, err, e.ErrInvalidInput)
}
