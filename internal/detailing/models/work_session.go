package models

import (
	"time"

	"github.com/google/uuid"
)

// WorkSessionStatus represents the state of a clocked work session.
type WorkSessionStatus string

const (
	SessionActive    WorkSessionStatus = "active"
	SessionCompleted WorkSessionStatus = "completed"
)

// WorkSession records one clock-in/clock-out cycle for an employee. At most
// one session per employee is active at a time.
type WorkSession struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID uuid.UUID `gorm:"type:uuid;index"`
	ClockIn    time.Time
	// ClockOut is nil while the session is active.
	ClockOut *time.Time
	// TotalHours is the session length in hours, set on clock-out.
	TotalHours *float64
	Status     WorkSessionStatus `gorm:"size:16;index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Hours returns the session length in hours, preferring the stored total
// and falling back to the clock timestamps for sessions recorded before
// totals were computed.
func (w *WorkSession) Hours() float64 {
	if w.TotalHours != nil {
		return *w.TotalHours
	}
	if w.ClockOut != nil {
		return w.ClockOut.Sub(w.ClockIn).Hours()
	}
	return 0
}
