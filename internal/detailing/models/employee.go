package models

import (
	"time"

	"github.com/google/uuid"
)

// AccountStatus marks whether a reference entity is active or retired.
type AccountStatus string

const (
	StatusActive   AccountStatus = "active"
	StatusInactive AccountStatus = "inactive"
)

// Employee defines the domain model for a detailing employee.
type Employee struct {
	// ID is the unique identifier for the employee.
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`
	// Name is the employee's full name.
	Name string
	// Email is the employee's contact address, unique across employees.
	Email string `gorm:"uniqueIndex"`
	// Specialty is a free-text description of what the employee is best
	// at, e.g. "Full Detailing". Optional.
	Specialty string
	// WorkLocation is the employee's home base. Optional.
	WorkLocation string
	// Status indicates whether the employee can receive assignments.
	Status AccountStatus `gorm:"size:16"`
	// CreatedAt records when the employee was created.
	CreatedAt time.Time
	// UpdatedAt records the last modification time.
	UpdatedAt time.Time
}

// EmployeeUpdate represents the fields that can be updated for an Employee.
// Pointer types are used to allow partial updates.
type EmployeeUpdate struct {
	// ID is the unique identifier for the employee to update.
	ID           uuid.UUID
	Name         *string
	Email        *string
	Specialty    *string
	WorkLocation *string
	Status       *AccountStatus
}
