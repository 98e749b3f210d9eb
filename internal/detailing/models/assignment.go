// Package models defines the core domain models for the detailing
// operations service: employees, dealerships, the service catalog and the
// assignments that join them, plus work sessions, allocations and audit
// entries.
package models

import (
	"time"

	"github.com/google/uuid"
)

// DateFormat is the canonical layout for scheduled dates.
const DateFormat = "2006-01-02"

// TimeFormat is the canonical layout for scheduled times of day.
const TimeFormat = "15:04"

// AssignmentStatus represents the lifecycle state of an assignment.
type AssignmentStatus string

const (
	// AssignmentPending is the initial state of a newly created assignment.
	AssignmentPending    AssignmentStatus = "pending"
	AssignmentInProgress AssignmentStatus = "in_progress"
	AssignmentCompleted  AssignmentStatus = "completed"
	AssignmentCancelled  AssignmentStatus = "cancelled"
)

// Assignment pairs one employee, one dealership and one catalog service for
// a single date and time slot.
type Assignment struct {
	// ID is the unique identifier for the assignment.
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`
	// EmployeeID references the assigned employee.
	EmployeeID uuid.UUID `gorm:"type:uuid;index"`
	// DealershipID references the dealership the work is performed at.
	DealershipID uuid.UUID `gorm:"type:uuid;index"`
	// ServiceID references the catalog service to perform.
	ServiceID uuid.UUID `gorm:"type:uuid"`
	// ScheduledDate is the day of the assignment in DateFormat.
	ScheduledDate string `gorm:"size:10;index"`
	// ScheduledTime is the slot within the day in TimeFormat.
	ScheduledTime string `gorm:"size:5"`
	// Status is the current lifecycle state.
	Status AssignmentStatus `gorm:"size:16;index"`
	// Notes holds free-text instructions for the employee.
	Notes string
	// CreatedBy records the admin who created the assignment.
	CreatedBy uuid.UUID `gorm:"type:uuid"`
	// CreatedAt records when the assignment was created.
	CreatedAt time.Time
	// UpdatedAt records the last modification time.
	UpdatedAt time.Time
}

// Active reports whether the assignment counts toward an employee's
// workload, i.e. it has not been cancelled.
func (a *Assignment) Active() bool {
	return a.Status != AssignmentCancelled
}

// CanTransitionTo reports whether the status may move to next. Assignments
// advance pending -> in_progress -> completed; pending and in_progress may
// be cancelled. Completed and cancelled are terminal.
func (s AssignmentStatus) CanTransitionTo(next AssignmentStatus) bool {
	switch s {
	case AssignmentPending:
		return next == AssignmentInProgress || next == AssignmentCancelled
	case AssignmentInProgress:
		return next == AssignmentCompleted || next == AssignmentCancelled
	default:
		return false
	}
}

// Valid reports whether the status is one of the known lifecycle states.
func (s AssignmentStatus) Valid() bool {
	switch s {
	case AssignmentPending, AssignmentInProgress, AssignmentCompleted, AssignmentCancelled:
		return true
	}
	return false
}
