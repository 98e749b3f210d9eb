package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/glossworks/detailing/internal/detailing/controller"
	e "github.com/glossworks/detailing/internal/detailing/errors"
	"github.com/glossworks/detailing/internal/detailing/models"
	"github.com/google/uuid"
)

func TestAssignmentFromWire(t *testing.T) {
	employeeID := uuid.New()
	dealershipID := uuid.New()
	serviceID := uuid.New()

	wire := &Assignment{
		EmployeeID:    employeeID.String(),
		DealershipID:  dealershipID.String(),
		ServiceID:     serviceID.String(),
		ScheduledDate: "2026-03-10",
		ScheduledTime: "09:00",
		Notes:         "gate code 4412",
	}

	assignment, err := assignmentFromWire(wire)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if assignment.EmployeeID != employeeID {
		t.Errorf("expected employee %s, got %s", employeeID, assignment.EmployeeID)
	}
	if assignment.DealershipID != dealershipID {
		t.Errorf("expected dealership %s, got %s", dealershipID, assignment.DealershipID)
	}
	if assignment.ScheduledDate != "2026-03-10" || assignment.ScheduledTime != "09:00" {
		t.Errorf("schedule not carried over: %+v", assignment)
	}
	if assignment.Notes != wire.Notes {
		t.Errorf("expected notes %q, got %q", wire.Notes, assignment.Notes)
	}

	for _, field := range []string{"employee", "dealership", "service"} {
		bad := *wire
		switch field {
		case "employee":
			bad.EmployeeID = "nope"
		case "dealership":
			bad.DealershipID = "nope"
		case "service":
			bad.ServiceID = "nope"
		}
		if _, err := assignmentFromWire(&bad); err == nil {
			t.Errorf("expected error for invalid %s ID", field)
		}
	}
}

func TestAssignmentToWire(t *testing.T) {
	assignment := &models.Assignment{
		ID:            uuid.New(),
		EmployeeID:    uuid.New(),
		DealershipID:  uuid.New(),
		ServiceID:     uuid.New(),
		ScheduledDate: "2026-03-10",
		ScheduledTime: "09:00",
		Status:        models.AssignmentInProgress,
		CreatedBy:     uuid.New(),
	}

	wire := assignmentToWire(assignment)
	if wire.ID != assignment.ID.String() {
		t.Errorf("expected ID %s, got %s", assignment.ID, wire.ID)
	}
	if wire.Status != "in_progress" {
		t.Errorf("expected status in_progress, got %q", wire.Status)
	}
	if wire.CreatedBy != assignment.CreatedBy.String() {
		t.Errorf("expected created_by %s, got %s", assignment.CreatedBy, wire.CreatedBy)
	}

	// Anonymous creation leaves the field empty rather than the nil UUID.
	assignment.CreatedBy = uuid.Nil
	if wire := assignmentToWire(assignment); wire.CreatedBy != "" {
		t.Errorf("expected empty created_by, got %q", wire.CreatedBy)
	}
}

func TestEmployeePatchToUpdate(t *testing.T) {
	id := uuid.New()
	name := "Renamed"
	status := "inactive"

	update := (&employeePatch{Name: &name, Status: &status}).toUpdate(id)

	if update.ID != id {
		t.Errorf("expected ID %s, got %s", id, update.ID)
	}
	if update.Name == nil || *update.Name != name {
		t.Error("name not carried over")
	}
	if update.Status == nil || *update.Status != models.StatusInactive {
		t.Error("status not carried over")
	}
	if update.Email != nil || update.Specialty != nil || update.WorkLocation != nil {
		t.Error("absent fields must stay nil")
	}
}

func TestStatusReportToWire(t *testing.T) {
	serviceID := uuid.New()
	report := &controller.StatusReport{
		Start: "2026-03-01",
		End:   "2026-03-31",
		ByStatus: map[models.AssignmentStatus]int{
			models.AssignmentCompleted: 2,
			models.AssignmentPending:   1,
		},
		Services: []controller.ServiceBreakdown{
			{
				ServiceID: serviceID,
				Name:      "Waxing",
				Count:     3,
				ByStatus:  map[models.AssignmentStatus]int{models.AssignmentCompleted: 3},
			},
		},
	}

	wire := statusReportToWire(report)
	if wire.ByStatus["completed"] != 2 || wire.ByStatus["pending"] != 1 {
		t.Errorf("unexpected by_status: %v", wire.ByStatus)
	}
	if len(wire.Services) != 1 || wire.Services[0].ServiceID != serviceID.String() {
		t.Errorf("unexpected services: %+v", wire.Services)
	}
	if wire.Services[0].ByStatus["completed"] != 3 {
		t.Errorf("unexpected service by_status: %v", wire.Services[0].ByStatus)
	}
}

func TestMapServiceError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{e.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("wrapped: %w", e.ErrNotFound), http.StatusNotFound},
		{e.ErrInvalidInput, http.StatusBadRequest},
		{e.ErrDuplicateEmail, http.StatusConflict},
		{e.ErrDuplicateRegistration, http.StatusConflict},
		{e.ErrCapacityExceeded, http.StatusConflict},
		{e.ErrInvalidTransition, http.StatusConflict},
		{e.ErrSessionActive, http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := mapServiceError(tt.err); got != tt.want {
			t.Errorf("mapServiceError(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
