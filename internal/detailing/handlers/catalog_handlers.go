package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/glossworks/detailing/internal/detailing/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CatalogController defines the business logic interface the catalog
// handlers invoke.
type CatalogController interface {
	CreateEmployee(ctx context.Context, employee *models.Employee) (*models.Employee, error)
	GetEmployee(ctx context.Context, id uuid.UUID) (*models.Employee, error)
	UpdateEmployee(ctx context.Context, update *models.EmployeeUpdate) (*models.Employee, error)
	DeleteEmployee(ctx context.Context, id uuid.UUID) error
	ListEmployees(ctx context.Context, activeOnly bool) ([]models.Employee, error)
	CreateDealership(ctx context.Context, dealership *models.Dealership) (*models.Dealership, error)
	GetDealership(ctx context.Context, id uuid.UUID) (*models.Dealership, error)
	UpdateDealership(ctx context.Context, update *models.DealershipUpdate) (*models.Dealership, error)
	DeleteDealership(ctx context.Context, id uuid.UUID) error
	ListDealerships(ctx context.Context, activeOnly bool) ([]models.Dealership, error)
	CreateService(ctx context.Context, service *models.Service) (*models.Service, error)
	GetService(ctx context.Context, id uuid.UUID) (*models.Service, error)
	UpdateService(ctx context.Context, update *models.ServiceUpdate) (*models.Service, error)
	DeleteService(ctx context.Context, id uuid.UUID) error
	ListServices(ctx context.Context) ([]models.Service, error)
}

// CatalogHandler serves the reference entities: employees, dealerships and
// the service catalog.
type CatalogHandler struct {
	service CatalogController
	logger  *zap.Logger
}

// NewCatalogHandler constructs a new CatalogHandler with the given service
// and logger.
func NewCatalogHandler(service CatalogController, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		logger:  logger.Named("catalog_handler"),
	}
}

// Register mounts the catalog routes on the mux.
func (h *CatalogHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/employees", h.CreateEmployee)
	mux.HandleFunc("GET /v1/employees", h.ListEmployees)
	mux.HandleFunc("GET /v1/employees/{id}", h.GetEmployee)
	mux.HandleFunc("PATCH /v1/employees/{id}", h.UpdateEmployee)
	mux.HandleFunc("DELETE /v1/employees/{id}", h.DeleteEmployee)
	mux.HandleFunc("POST /v1/dealerships", h.CreateDealership)
	mux.HandleFunc("GET /v1/dealerships", h.ListDealerships)
	mux.HandleFunc("GET /v1/dealerships/{id}", h.GetDealership)
	mux.HandleFunc("PATCH /v1/dealerships/{id}", h.UpdateDealership)
	mux.HandleFunc("DELETE /v1/dealerships/{id}", h.DeleteDealership)
	mux.HandleFunc("POST /v1/services", h.CreateService)
	mux.HandleFunc("GET /v1/services", h.ListServices)
	mux.HandleFunc("GET /v1/services/{id}", h.GetService)
	mux.HandleFunc("PATCH /v1/services/{id}", h.UpdateService)
	mux.HandleFunc("DELETE /v1/services/{id}", h.DeleteService)
}

func (h *CatalogHandler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var wire Employee
	if err := decodeJSON(r, &wire); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.service.CreateEmployee(r.Context(), employeeFromWire(&wire))
	if err != nil {
		h.logger.Error("Create employee failed", zap.Error(err))
		writeError(w, mapServiceError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, employeeToWire(created))
}

func (h *CatalogHandler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	employee, err := h.service.GetEmployee(r.Context(), id)
	if err != nil {
		writeError(w, mapServiceError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, employeeToWire(employee))
}

func (h *CatalogHandler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var patch employeePatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.service.UpdateEmployee(r.Context(), patch.toUpdate(id))
	if err != nil {
		writeError(w, mapServiceError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, employeeToWire(updated))
}

func (h *CatalogHandler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.DeleteEmployee(r.Context(), id); err != nil {
		writeError(w, mapServiceError(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListEmployees returns employees, all of them or only the active ones
// depending on the active query parameter.
func (h *CatalogHandler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	activeOnly, _ := strconv.ParseBool(r.URL.Query().Get("active"))

	employees, err := h.service.ListEmployees(r.Context(), activeOnly)
	if err != nil {
		writeError(w, mapServiceError(err), err.Error())
		return
	}

	wire := make([]*Employee, 0, len(employees))
	for i := range employees {
		wire = append(wire, employeeToWire(&employees[i]))
	}
	writeJSON(w, http.StatusOK, wire)
}

func (h *CatalogHandler) CreateDealership(w http.ResponseWriter, r *http.Request) {
	var wire Dealership
	if err := decodeJSON(r, &wire); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.service.CreateDealership(r.Context(), dealershipFromWire(&wire))
	if err != nil {
		h.logger.Error("Create dealership failed", zap.Error(err))
		writeError(w, mapServiceError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, dealershipToWire(created))
}

func (h *CatalogHandler) GetDealership(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	dealership, err := h.service.GetDealership(r.Context(), id)
	if err != nil {
		writeError(w, mapServiceError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, dealershipToWire(dealership))
}

func (h *CatalogHandler) UpdateDealership(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var patch dealershipPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.service.UpdateDealership(r.Context(), patch.toUpdate(id))
	if err != nil {
		writeError(w, mapServiceError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, dealershipToWire(updated))
}

func (h *CatalogHandler) DeleteDealership(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.DeleteDealership(r.Context(), id); err != nil {
		writeError(w, mapServiceError(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CatalogHandler) ListDealerships(w http.ResponseWriter, r *http.Request) {
	activeOnly, _ := strconv.ParseBool(r.URL.Query().Get("active"))

	dealerships, err := h.service.ListDealerships(r.Context(), activeOnly)
	if err != nil {
		writeError(w, mapServiceError(err), err.Error())
		return
	}

	wire := make([]*Dealership, 0, len(dealerships))
	for i := range dealerships {
		wire = append(wire, dealershipToWire(&dealerships[i]))
	}
	writeJSON(w, http.StatusOK, wire)
}

func (h *CatalogHandler) CreateService(w http.ResponseWriter, r *http.Request) {
	var wire Service
	if err := decodeJSON(r, &wire); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.service.CreateService(r.Context(), serviceFromWire(&wire))
	if err != nil {
		h.logger.Error("Create service failed", zap.Error(err))
		writeError(w, mapServiceError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, serviceToWire(created))
}

func (h *CatalogHandler) GetService(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	service, err := h.service.GetService(r.Context(), id)
	if err != nil {
		writeError(w, mapServiceError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, serviceToWire(service))
}

func (h *CatalogHandler) UpdateService(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var patch servicePatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.service.UpdateService(r.Context(), patch.toUpdate(id))
	if err != nil {
		writeError(w, mapServiceError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, serviceToWire(updated))
}

func (h *CatalogHandler) DeleteService(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.DeleteService(r.Context(), id); err != nil {
		writeError(w, mapServiceError(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CatalogHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.service.ListServices(r.Context())
	if err != nil {
		writeError(w, mapServiceError(err), err.Error())
		return
	}

	wire := make([]*Service, 0, len(services))
	for i := range services {
		wire = append(wire, serviceToWire(&services[i]))
	}
	writeJSON(w, http.StatusOK, wire)
}
