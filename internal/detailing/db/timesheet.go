package db

import (
	"context"
	"errors"
	"time"

	e "github.com/glossworks/detailing/internal/detailing/errors"
	"github.com/glossworks/detailing/internal/detailing/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (r *Repository) CreateWorkSession(ctx context.Context, session *models.WorkSession) error {
	result := r.db.WithContext(ctx).Create(session)
	return result.Error
}

// ActiveWorkSession returns the employee's open session, or ErrNotFound if
// they are not clocked in.
func (r *Repository) ActiveWorkSession(ctx context.Context, employeeID uuid.UUID) (*models.WorkSession, error) {
	var session models.WorkSession
	result := r.db.WithContext(ctx).
		Where("employee_id = ? AND status = ?", employeeID, models.SessionActive).
		First(&session)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &session, nil
}

// CloseWorkSession sets the clock-out time, total hours and completed
// status on an open session.
func (r *Repository) CloseWorkSession(ctx context.Context, id uuid.UUID, clockOut time.Time, totalHours float64) error {
	result := r.db.WithContext(ctx).Model(&models.WorkSession{}).
		Where("id = ? AND status = ?", id, models.SessionActive).
		Updates(map[string]interface{}{
			"clock_out":   clockOut,
			"total_hours": totalHours,
			"status":      models.SessionCompleted,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

// ListWorkSessions returns the employee's sessions clocked in between start
// and end inclusive, newest first.
func (r *Repository) ListWorkSessions(ctx context.Context, employeeID uuid.UUID, start, end time.Time) ([]models.WorkSession, error) {
	var sessions []models.WorkSession
	result := r.db.WithContext(ctx).
		Where("employee_id = ? AND clock_in >= ? AND clock_in <= ?", employeeID, start, end).
		Order("clock_in DESC").
		Find(&sessions)
	return sessions, result.Error
}

// UpsertAllocation saves an employee's dealership allocation for a date,
// replacing any existing allocation for the same employee and date.
func (r *Repository) UpsertAllocation(ctx context.Context, allocation *models.Allocation) error {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "employee_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"dealership_id", "updated_at"}),
	}).Create(allocation)
	return result.Error
}

func (r *Repository) ListAllocationsByDate(ctx context.Context, date string) ([]models.Allocation, error) {
	var allocations []models.Allocation
	result := r.db.WithContext(ctx).
		Where("date = ?", date).
		Find(&allocations)
	return allocations, result.Error
}

func (r *Repository) CreateAuditLog(ctx context.Context, entry *models.AuditLog) error {
	result := r.db.WithContext(ctx).Create(entry)
	return result.Error
}

// ListAuditLogs returns the newest audit entries up to limit.
func (r *Repository) ListAuditLogs(ctx context.Context, limit int) ([]models.AuditLog, error) {
	var entries []models.AuditLog
	result := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries)
	return entries, result.Error
}
