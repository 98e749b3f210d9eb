package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog is one entry in the administrative audit trail. Entries are
// written by the event consumer, never updated.
type AuditLog struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`
	// UserID is the actor, when known.
	UserID uuid.UUID `gorm:"type:uuid"`
	// Action is the mutation performed: "create", "update", "delete".
	Action string
	// TableName names the entity the action touched.
	TableName string
	// RecordID is the id of the touched record.
	RecordID uuid.UUID `gorm:"type:uuid"`
	// Details is a free-text summary of the change.
	Details   string
	CreatedAt time.Time
}
