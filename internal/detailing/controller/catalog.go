package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"

	e "github.com/glossworks/detailing/internal/detailing/errors"
	"github.com/glossworks/detailing/internal/detailing/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CatalogRepository defines the storage interface for the reference
// entities: employees, dealerships and the service catalog.
type CatalogRepository interface {
	CreateEmployee(ctx context.Context, employee *models.Employee) error
	GetEmployee(ctx context.Context, id uuid.UUID) (*models.Employee, error)
	UpdateEmployee(ctx context.Context, update *models.EmployeeUpdate) error
	DeleteEmployee(ctx context.Context, id uuid.UUID) error
	ListEmployees(ctx context.Context, activeOnly bool) ([]models.Employee, error)
	EmployeeExistsByEmail(ctx context.Context, email string) (bool, error)
	CreateDealership(ctx context.Context, dealership *models.Dealership) error
	GetDealership(ctx context.Context, id uuid.UUID) (*models.Dealership, error)
	UpdateDealership(ctx context.Context, update *models.DealershipUpdate) error
	DeleteDealership(ctx context.Context, id uuid.UUID) error
	ListDealerships(ctx context.Context, activeOnly bool) ([]models.Dealership, error)
	DealershipExistsByRegistration(ctx context.Context, registration string) (bool, error)
	CreateService(ctx context.Context, service *models.Service) error
	GetService(ctx context.Context, id uuid.UUID) (*models.Service, error)
	UpdateService(ctx context.Context, update *models.ServiceUpdate) error
	DeleteService(ctx context.Context, id uuid.UUID) error
	ListServices(ctx context.Context) ([]models.Service, error)
}

// CatalogService manages the reference entities the assignment flow draws
// from.
type CatalogService struct {
	repo   CatalogRepository
	logger *zap.Logger
}

func NewCatalogService(repo CatalogRepository, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		repo:   repo,
		logger: logger.Named("catalog_service"),
	}
}

// CreateEmployee adds a new Employee after validating input data and
// ensuring email uniqueness.
func (s *CatalogService) CreateEmployee(ctx context.Context, employee *models.Employee) (*models.Employee, error) {
	if strings.TrimSpace(employee.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", e.ErrInvalidInput)
	}
	if !strings.Contains(employee.Email, "@") {
		return nil, fmt.Errorf("%w: invalid email", e.ErrInvalidInput)
	}

	exists, err := s.repo.EmployeeExistsByEmail(ctx, employee.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, e.ErrDuplicateEmail
	}

	employee.ID = uuid.New()
	if employee.Status == "" {
		employee.Status = models.StatusActive
	}
	if err := s.repo.CreateEmployee(ctx, employee); err != nil {
		return nil, fmt.Errorf("failed to create employee: %w", err)
	}
	return employee, nil
}

func (s *CatalogService) GetEmployee(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	employee, err := s.repo.GetEmployee(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	return employee, nil
}

// UpdateEmployee modifies the specified Employee fields and returns the
// updated record.
func (s *CatalogService) UpdateEmployee(ctx context.Context, update *models.EmployeeUpdate) (*models.Employee, error) {
	if update.ID == uuid.Nil {
		return nil, fmt.Errorf("%w: invalid employee ID", e.ErrInvalidInput)
	}
	if update.Status != nil && *update.Status != models.StatusActive && *update.Status != models.StatusInactive {
		return nil, fmt.Errorf("%w: unknown status %q", e.ErrInvalidInput, *update.Status)
	}

	if err := s.repo.UpdateEmployee(ctx, update); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update employee: %w", err)
	}

	updated, err := s.repo.GetEmployee(ctx, update.ID)
	if err != nil {
		s.logger.Error("Failed to reload employee after update",
			zap.Error(err),
			zap.String("employee_id", update.ID.String()),
		)
		return nil, err
	}
	return updated, nil
}

func (s *CatalogService) DeleteEmployee(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteEmployee(ctx, id); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	return nil
}

func (s *CatalogService) ListEmployees(ctx context.Context, activeOnly bool) ([]models.Employee, error) {
	employees, err := s.repo.ListEmployees(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return employees, nil
}

// CreateDealership adds a new Dealership after validating input data and
// ensuring registration-number uniqueness.
func (s *CatalogService) CreateDealership(ctx context.Context, dealership *models.Dealership) (*models.Dealership, error) {
	if strings.TrimSpace(dealership.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", e.ErrInvalidInput)
	}
	if strings.TrimSpace(dealership.RegistrationNumber) == "" {
		return nil, fmt.Errorf("%w: registration number is required", e.ErrInvalidInput)
	}

	exists, err := s.repo.DealershipExistsByRegistration(ctx, dealership.RegistrationNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to check registration existence: %w", err)
	}
	if exists {
		return nil, e.ErrDuplicateRegistration
	}

	dealership.ID = uuid.New()
	if dealership.Status == "" {
		dealership.Status = models.StatusActive
	}
	if err := s.repo.CreateDealership(ctx, dealership); err != nil {
		return nil, fmt.Errorf("failed to create dealership: %w", err)
	}
	return dealership, nil
}

func (s *CatalogService) GetDealership(ctx context.Context, id uuid.UUID) (*models.Dealership, error) {
	dealership, err := s.repo.GetDealership(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get dealership: %w", err)
	}
	return dealership, nil
}

func (s *CatalogService) UpdateDealership(ctx context.Context, update *models.DealershipUpdate) (*models.Dealership, error) {
	if update.ID == uuid.Nil {
		return nil, fmt.Errorf("%w: invalid dealership ID", e.ErrInvalidInput)
	}

	if err := s.repo.UpdateDealership(ctx, update); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update dealership: %w", err)
	}

	updated, err := s.repo.GetDealership(ctx, update.ID)
	if err != nil {
		s.logger.Error("Failed to reload dealership after update",
			zap.Error(err),
			zap.String("dealership_id", update.ID.String()),
		)
		return nil, err
	}
	return updated, nil
}

func (s *CatalogService) DeleteDealership(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteDealership(ctx, id); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete dealership: %w", err)
	}
	return nil
}

func (s *CatalogService) ListDealerships(ctx context.Context, activeOnly bool) ([]models.Dealership, error) {
	dealerships, err := s.repo.ListDealerships(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list dealerships: %w", err)
	}
	return dealerships, nil
}

// CreateService adds a catalog service. Duration must be "HH:MM" and price
// non-negative.
func (s *CatalogService) CreateService(ctx context.Context, service *models.Service) (*models.Service, error) {
	if strings.TrimSpace(service.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", e.ErrInvalidInput)
	}
	if !validDuration(service.Duration) {
		return nil, fmt.Errorf("%w: duration must be HH:MM", e.ErrInvalidInput)
	}
	if service.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", e.ErrInvalidInput)
	}

	service.ID = uuid.New()
	if err := s.repo.CreateService(ctx, service); err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}
	return service, nil
}

func (s *CatalogService) GetService(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	service, err := s.repo.GetService(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	return service, nil
}

func (s *CatalogService) UpdateService(ctx context.Context, update *models.ServiceUpdate) (*models.Service, error) {
	if update.ID == uuid.Nil {
		return nil, fmt.Errorf("%w: invalid service ID", e.ErrInvalidInput)
	}
	if update.Duration != nil && !validDuration(*update.Duration) {
		return nil, fmt.Errorf("%w: duration must be HH:MM", e.ErrInvalidInput)
	}
	if update.Price != nil && *update.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", e.ErrInvalidInput)
	}

	if err := s.repo.UpdateService(ctx, update); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update service: %w", err)
	}

	updated, err := s.repo.GetService(ctx, update.ID)
	if err != nil {
		s.logger.Error("Failed to reload service after update",
			zap.Error(err),
			zap.String("service_id", update.ID.String()),
		)
		return nil, err
	}
	return updated, nil
}

func (s *CatalogService) DeleteService(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteService(ctx, id); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete service: %w", err)
	}
	return nil
}

func (s *CatalogService) ListServices(ctx context.Context) ([]models.Service, error) {
	services, err := s.repo.ListServices(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return services, nil
}

func validDuration(duration string) bool {
	parts := strings.Split(duration, ":")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return false
	}
	for _, part := range parts {
		for _, r := range part {
			if r < '0' || r > '9' {
				return false
			}
		}
	}
	return parts[1] < "60"
}
