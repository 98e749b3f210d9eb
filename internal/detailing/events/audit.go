package events

import (
	"context"
	"fmt"

	"github.com/glossworks/detailing/internal/detailing/models"
	"github.com/google/uuid"
)

// AuditStore persists audit trail entries.
type AuditStore interface {
	CreateAuditLog(ctx context.Context, entry *models.AuditLog) error
}

// Recorder turns assignment events into audit log rows. It is registered as
// the consumer handler so the audit trail is written off the hot path.
type Recorder struct {
	store AuditStore
}

func NewRecorder(store AuditStore) *Recorder {
	return &Recorder{store: store}
}

var auditActions = map[EventType]string{
	AssignmentCreated: "create",
	AssignmentUpdated: "update",
	AssignmentDeleted: "delete",
}

func (r *Recorder) Handle(ctx context.Context, event Event) error {
	if event.Assignment == nil {
		return fmt.Errorf("event %s carries no assignment", event.Type)
	}

	action, ok := auditActions[event.Type]
	if !ok {
		return fmt.Errorf("unknown event type %q", event.Type)
	}

	actorID, err := uuid.Parse(event.ActorID)
	if err != nil {
		// Events produced by system jobs have no actor.
		actorID = uuid.Nil
	}

	return r.store.CreateAuditLog(ctx, &models.AuditLog{
		ID:        uuid.New(),
		UserID:    actorID,
		Action:    action,
		TableName: "assignments",
		RecordID:  event.Assignment.ID,
		Details:   fmt.Sprintf("%sd service assignment for %s", action, event.Assignment.ScheduledDate),
	})
}
