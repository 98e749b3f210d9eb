// Package db implements the gorm-backed repository for the detailing
// service. Production runs against postgres; tests open the same repository
// over an in-memory sqlite database.
package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/cenkalti/backoff/v4"
	e "github.com/glossworks/detailing/internal/detailing/errors"
	"github.com/glossworks/detailing/internal/detailing/models"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// NewRepository connects to postgres, retrying with exponential backoff
// while the database comes up, and migrates the schema.
func NewRepository(cfg *Config) (*Repository, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	var repo *Repository
	err := backoff.Retry(func() error {
		var openErr error
		repo, openErr = Open(postgres.Open(dsn))
		return openErr
	}, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return repo, nil
}

// Open builds a Repository on any gorm dialector and runs migrations.
func Open(dialector gorm.Dialector) (*Repository, error) {
	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&models.Employee{},
		&models.Dealership{},
		&models.Service{},
		&models.Assignment{},
		&models.WorkSession{},
		&models.Allocation{},
		&models.AuditLog{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) CreateAssignment(ctx context.Context, assignment *models.Assignment) error {
	result := r.db.WithContext(ctx).Create(assignment)
	return result.Error
}

func (r *Repository) GetAssignment(ctx context.Context, id uuid.UUID) (*models.Assignment, error) {
	var assignment models.Assignment
	result := r.db.WithContext(ctx).First(&assignment, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &assignment, nil
}

func (r *Repository) UpdateAssignmentStatus(ctx context.Context, id uuid.UUID, status models.AssignmentStatus) error {
	result := r.db.WithContext(ctx).Model(&models.Assignment{}).
		Where("id = ?", id).
		Update("status", status)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteAssignment(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Assignment{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

// ListAssignmentsByDate returns every assignment scheduled on the given
// date, cancelled ones included; callers derive from the full snapshot.
func (r *Repository) ListAssignmentsByDate(ctx context.Context, date string) ([]models.Assignment, error) {
	var assignments []models.Assignment
	result := r.db.WithContext(ctx).
		Where("scheduled_date = ?", date).
		Order("scheduled_time").
		Find(&assignments)
	return assignments, result.Error
}

// ListAssignmentsBetween returns assignments with start <= date <= end.
func (r *Repository) ListAssignmentsBetween(ctx context.Context, start, end string) ([]models.Assignment, error) {
	var assignments []models.Assignment
	result := r.db.WithContext(ctx).
		Where("scheduled_date BETWEEN ? AND ?", start, end).
		Order("scheduled_date, scheduled_time").
		Find(&assignments)
	return assignments, result.Error
}

// CountActiveAssignments returns the employee's non-cancelled assignment
// count on the date. This is the workload snapshot the capacity guard
// checks against.
func (r *Repository) CountActiveAssignments(ctx context.Context, employeeID uuid.UUID, date string) (int, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Assignment{}).
		Where("employee_id = ? AND scheduled_date = ? AND status <> ?",
			employeeID, date, models.AssignmentCancelled).
		Count(&count)
	return int(count), result.Error
}

func (r *Repository) WithTransaction(ctx context.Context, fn func(repo *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

func (r *Repository) Close() error {
	db, err := r.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
