package models

import (
	"time"

	"github.com/google/uuid"
)

// Dealership defines the domain model for a dealership the service visits.
type Dealership struct {
	// ID is the unique identifier for the dealership.
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`
	// Name is the dealership's trading name.
	Name string
	// Street, Number, City, State and ZipCode form the visiting address.
	Street  string
	Number  string
	City    string
	State   string
	ZipCode string
	// Phone and Email are the site contact details.
	Phone string
	Email string
	// RegistrationNumber is the dealership's business registration,
	// unique across dealerships.
	RegistrationNumber string `gorm:"uniqueIndex"`
	// Status indicates whether the dealership currently receives work.
	Status AccountStatus `gorm:"size:16"`
	// CreatedAt records when the dealership was created.
	CreatedAt time.Time
	// UpdatedAt records the last modification time.
	UpdatedAt time.Time
}

// DealershipUpdate represents the fields that can be updated for a
// Dealership. Pointer types are used to allow partial updates.
type DealershipUpdate struct {
	// ID is the unique identifier for the dealership to update.
	ID                 uuid.UUID
	Name               *string
	Street             *string
	Number             *string
	City               *string
	State              *string
	ZipCode            *string
	Phone              *string
	Email              *string
	RegistrationNumber *string
	Status             *AccountStatus
}
