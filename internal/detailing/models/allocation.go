package models

import (
	"time"

	"github.com/google/uuid"
)

// Allocation pins an employee to a dealership for one day. One allocation
// exists per employee per date; saving again replaces the dealership.
type Allocation struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID   uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_allocation_employee_date"`
	DealershipID uuid.UUID `gorm:"type:uuid"`
	// Date is the allocation day in DateFormat.
	Date      string `gorm:"size:10;uniqueIndex:idx_allocation_employee_date"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
