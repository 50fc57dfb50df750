package catalog

import (
	"errors"
	"net/http"

	"github.com/m04kA/RC-BookingService/internal/api/handlers"
	catalogService "github.com/m04kA/RC-BookingService/internal/service/catalog"
)

const (
	msgInvalidServiceID = "некорректный ID услуги"
	msgServiceNotFound  = "услуга не найдена"
)

type ServiceListResponse struct {
	Services []catalogService.ServiceResponse `json:"services"`
}

type ServiceEnvelope struct {
	Service *catalogService.ServiceResponse `json:"service"`
}

// Handler публичный каталог услуг /api/services
type Handler struct {
	service CatalogService
	logger  Logger
}

func NewHandler(service CatalogService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// List GET /api/services
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	services, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("GET /services - Failed to list services: %v", err)
		handlers.RespondInternalError(w)
		return
	}
	if services == nil {
		services = []catalogService.ServiceResponse{}
	}

	handlers.RespondJSON(w, http.StatusOK, ServiceListResponse{Services: services})
}

// Get GET /api/services/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathInt64(r, "id")
	if err != nil || id <= 0 {
		h.logger.Warn("GET /services/{id} - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	service, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalogService.ErrServiceNotFound) {
			h.logger.Warn("GET /services/{id} - Service not found: service_id=%d", id)
			handlers.RespondNotFound(w, msgServiceNotFound)
			return
		}
		h.logger.Error("GET /services/{id} - Failed to get service: service_id=%d, error=%v", id, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, ServiceEnvelope{Service: service})
}
