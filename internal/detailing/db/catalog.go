package db

import (
	"context"
	"errors"

	e "github.com/glossworks/detailing/internal/detailing/errors"
	"github.com/glossworks/detailing/internal/detailing/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (r *Repository) CreateEmployee(ctx context.Context, employee *models.Employee) error {
	result := r.db.WithContext(ctx).Create(employee)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return e.ErrDuplicateEmail
		}
		return result.Error
	}
	return nil
}

func (r *Repository) GetEmployee(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	var employee models.Employee
	result := r.db.WithContext(ctx).First(&employee, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &employee, nil
}

func (r *Repository) UpdateEmployee(ctx context.Context, update *models.EmployeeUpdate) error {
	result := r.db.WithContext(ctx).Model(&models.Employee{}).
		Where("id = ?", update.ID).
		Updates(update)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteEmployee(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Employee{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

// ListEmployees returns employees ordered by name. With activeOnly set,
// inactive employees are filtered out; matching snapshots feed the
// dispatch derivations in that order.
func (r *Repository) ListEmployees(ctx context.Context, activeOnly bool) ([]models.Employee, error) {
	query := r.db.WithContext(ctx).Order("name")
	if activeOnly {
		query = query.Where("status = ?", models.StatusActive)
	}

	var employees []models.Employee
	result := query.Find(&employees)
	return employees, result.Error
}

func (r *Repository) EmployeeExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Employee{}).
		Where("email = ?", email).
		Limit(1).
		Count(&count)
	return count > 0, result.Error
}

func (r *Repository) CreateDealership(ctx context.Context, dealership *models.Dealership) error {
	result := r.db.WithContext(ctx).Create(dealership)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return e.ErrDuplicateRegistration
		}
		return result.Error
	}
	return nil
}

func (r *Repository) GetDealership(ctx context.Context, id uuid.UUID) (*models.Dealership, error) {
	var dealership models.Dealership
	result := r.db.WithContext(ctx).First(&dealership, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &dealership, nil
}

func (r *Repository) UpdateDealership(ctx context.Context, update *models.DealershipUpdate) error {
	result := r.db.WithContext(ctx).Model(&models.Dealership{}).
		Where("id = ?", update.ID).
		Updates(update)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteDealership(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Dealership{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func (r *Repository) ListDealerships(ctx context.Context, activeOnly bool) ([]models.Dealership, error) {
	query := r.db.WithContext(ctx).Order("name")
	if activeOnly {
		query = query.Where("status = ?", models.StatusActive)
	}

	var dealerships []models.Dealership
	result := query.Find(&dealerships)
	return dealerships, result.Error
}

func (r *Repository) DealershipExistsByRegistration(ctx context.Context, registration string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Dealership{}).
		Where("registration_number = ?", registration).
		Limit(1).
		Count(&count)
	return count > 0, result.Error
}

func (r *Repository) CreateService(ctx context.Context, service *models.Service) error {
	result := r.db.WithContext(ctx).Create(service)
	return result.Error
}

func (r *Repository) GetService(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	var service models.Service
	result := r.db.WithContext(ctx).First(&service, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &service, nil
}

func (r *Repository) UpdateService(ctx context.Context, update *models.ServiceUpdate) error {
	result := r.db.WithContext(ctx).Model(&models.Service{}).
		Where("id = ?", update.ID).
		Updates(update)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteService(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Service{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func (r *Repository) ListServices(ctx context.Context) ([]models.Service, error) {
	var services []models.Service
	result := r.db.WithContext(ctx).Order("name").Find(&services)
	return services, result.Error
}
