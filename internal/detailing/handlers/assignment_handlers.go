package handlers

import (
	"context"
	"net/http"

	"github.com/glossworks/detailing/internal/detailing/auth"
	"github.com/glossworks/detailing/internal/detailing/dispatch"
	"github.com/glossworks/detailing/internal/detailing/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AssignmentController defines the business logic interface the assignment
// handlers invoke.
type AssignmentController interface {
	CreateAssignment(ctx context.Context, assignment *models.Assignment) (*models.Assignment, error)
	GetAssignment(ctx context.Context, id uuid.UUID) (*models.Assignment, error)
	UpdateAssignmentStatus(ctx context.Context, id uuid.UUID, status models.AssignmentStatus, actorID uuid.UUID) (*models.Assignment, error)
	DeleteAssignment(ctx context.Context, id uuid.UUID, actorID uuid.UUID) error
	ListAssignments(ctx context.Context, date string) ([]models.Assignment, error)
	EmployeeOverview(ctx context.Context, date string) ([]dispatch.EmployeeState, error)
	DealershipOverview(ctx context.Context, date string) ([]dispatch.DealershipState, error)
	RecommendEmployee(ctx context.Context, date string, serviceID uuid.UUID) (dispatch.MatchResult, error)
}

// AssignmentHandler serves the assignment lifecycle and the daily dispatch
// views.
type AssignmentHandler struct {
	service AssignmentController
	logger  *zap.Logger
}

// NewAssignmentHandler constructs a new AssignmentHandler with the given
// service and logger.
func NewAssignmentHandler(service AssignmentController, logger *zap.Logger) *AssignmentHandler {
	return &AssignmentHandler{
		service: service,
		logger:  logger.Named("assignment_handler"),
	}
}

// Register mounts the assignment routes on the mux.
func (h *AssignmentHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/assignments", h.CreateAssignment)
	mux.HandleFunc("GET /v1/assignments", h.ListAssignments)
	mux.HandleFunc("GET /v1/assignments/{id}", h.GetAssignment)
	mux.HandleFunc("PATCH /v1/assignments/{id}/status", h.UpdateAssignmentStatus)
	mux.HandleFunc("DELETE /v1/assignments/{id}", h.DeleteAssignment)
	mux.HandleFunc("GET /v1/overview/employees", h.EmployeeOverview)
	mux.HandleFunc("GET /v1/overview/dealerships", h.DealershipOverview)
	mux.HandleFunc("GET /v1/recommendations", h.RecommendEmployee)
}

// CreateAssignment creates a new assignment after the workload guard passes.
func (h *AssignmentHandler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	var wire Assignment
	if err := decodeJSON(r, &wire); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	assignment, err := assignmentFromWire(&wire)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	assignment.CreatedBy = actorID(r.Context())

	created, err := h.service.CreateAssignment(r.Context(), assignment)
	if err != nil {
		h.logger.Error("Create assignment failed", zap.Error(err))
		writeError(w, mapServiceError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, assignmentToWire(created))
}

// GetAssignment fetches an assignment by ID.
func (h *AssignmentHandler) GetAssignment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	assignment, err := h.service.GetAssignment(r.Context(), id)
	if err != nil {
		writeError(w, mapServiceError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, assignmentToWire(assignment))
}

// ListAssignments returns the assignment snapshot for the date query
// parameter.
func (h *AssignmentHandler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	assignments, err := h.service.ListAssignments(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, mapServiceError(err), err.Error())
		return
	}

	wire := make([]*Assignment, 0, len(assignments))
	for i := range assignments {
		wire = append(wire, assignmentToWire(&assignments[i]))
	}
	writeJSON(w, http.StatusOK, wire)
}

type statusUpdate struct {
	Status string `json:"status"`
}

// UpdateAssignmentStatus advances an assignment through its lifecycle.
func (h *AssignmentHandler) UpdateAssignmentStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var update statusUpdate
	if err := decodeJSON(r, &update); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.service.UpdateAssignmentStatus(
		r.Context(), id, models.AssignmentStatus(update.Status), actorID(r.Context()))
	if err != nil {
		writeError(w, mapServiceError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, assignmentToWire(updated))
}

// DeleteAssignment removes an assignment given its ID.
func (h *AssignmentHandler) DeleteAssignment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.DeleteAssignment(r.Context(), id, actorID(r.Context())); err != nil {
		writeError(w, mapServiceError(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// EmployeeOverview returns the employee workload snapshot for a date.
func (h *AssignmentHandler) EmployeeOverview(w http.ResponseWriter, r *http.Request) {
	states, err := h.service.EmployeeOverview(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, mapServiceError(err), err.Error())
		return
	}

	wire := make([]*EmployeeState, 0, len(states))
	for i := range states {
		wire = append(wire, employeeStateToWire(&states[i]))
	}
	writeJSON(w, http.StatusOK, wire)
}

// DealershipOverview returns the dealership demand snapshot for a date.
func (h *AssignmentHandler) DealershipOverview(w http.ResponseWriter, r *http.Request) {
	states, err := h.service.DealershipOverview(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, mapServiceError(err), err.Error())
		return
	}

	wire := make([]*DealershipState, 0, len(states))
	for i := range states {
		wire = append(wire, dealershipStateToWire(&states[i]))
	}
	writeJSON(w, http.StatusOK, wire)
}

// RecommendEmployee runs the best-match selection for the date and
// service_id query parameters. A search with no candidate is still a 200;
// the result carries the reason.
func (h *AssignmentHandler) RecommendEmployee(w http.ResponseWriter, r *http.Request) {
	serviceID, err := uuid.Parse(r.URL.Query().Get("service_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid service_id")
		return
	}

	result, err := h.service.RecommendEmployee(r.Context(), r.URL.Query().Get("date"), serviceID)
	if err != nil {
		writeError(w, mapServiceError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, recommendationToWire(result))
}

// actorID resolves the authenticated subject to a UUID. Unauthenticated
// reads and non-UUID subjects resolve to the nil UUID.
func actorID(ctx context.Context) uuid.UUID {
	id, err := uuid.Parse(auth.ActorID(ctx))
	if err != nil {
		return uuid.Nil
	}
	return id
}
