package models

import (
	"time"

	"github.com/google/uuid"
)

// Service is an entry in the detailing service catalog. Catalog entries are
// reference data looked up by id.
type Service struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`
	// Name is the catalog name, e.g. "Full Detailing".
	Name string
	// Duration is the expected time to perform the service, "HH:MM".
	Duration string `gorm:"size:5"`
	// Price is the list price for one execution of the service.
	Price       float64
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ServiceUpdate represents the fields that can be updated for a catalog
// Service. Pointer types are used to allow partial updates.
type ServiceUpdate struct {
	ID          uuid.UUID
	Name        *string
	Duration    *string
	Price       *float64
	Description *string
}
