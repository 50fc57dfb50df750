package admin

import (
	"errors"
	"net/http"

	"github.com/m04kA/RC-BookingService/internal/api/handlers"
	"github.com/m04kA/RC-BookingService/internal/service/schedule"
	"github.com/m04kA/RC-BookingService/internal/service/schedule/models"
)

const (
	msgInvalidID            = "некорректный ID"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidData          = "некорректные данные расписания"
	msgBusinessHoursMissing = "часы работы не найдены"
	msgExceptionMissing     = "исключение не найдено"
	msgResourceMissing      = "ресурс не найден"
	msgDeleted              = "удалено"
)

// ScheduleHandler управление расписанием и ресурсами
type ScheduleHandler struct {
	service ScheduleService
	logger  Logger
}

func NewScheduleHandler(service ScheduleService, logger Logger) *ScheduleHandler {
	return &ScheduleHandler{
		service: service,
		logger:  logger,
	}
}

// ListBusinessHours GET /api/admin/business-hours
func (h *ScheduleHandler) ListBusinessHours(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListBusinessHours(r.Context())
	if err != nil {
		h.respondError(w, "GET /admin/business-hours", err)
		return
	}
	if list == nil {
		list = []models.BusinessHoursResponse{}
	}
	handlers.RespondJSON(w, http.StatusOK, list)
}

// CreateBusinessHours POST /api/admin/business-hours
func (h *ScheduleHandler) CreateBusinessHours(w http.ResponseWriter, r *http.Request) {
	var req models.BusinessHoursRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/business-hours - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	created, err := h.service.CreateBusinessHours(r.Context(), &req)
	if err != nil {
		h.respondError(w, "POST /admin/business-hours", err)
		return
	}

	h.logger.Info("POST /admin/business-hours - Created: id=%d, weekday=%d", created.ID, created.Weekday)
	handlers.RespondJSON(w, http.StatusCreated, created)
}

// DeleteBusinessHours DELETE /api/admin/business-hours/{id}
func (h *ScheduleHandler) DeleteBusinessHours(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "DELETE /admin/business-hours/{id}")
	if !ok {
		return
	}

	if err := h.service.DeleteBusinessHours(r.Context(), id); err != nil {
		h.respondError(w, "DELETE /admin/business-hours/{id}", err)
		return
	}

	h.logger.Info("DELETE /admin/business-hours/{id} - Deleted: id=%d", id)
	handlers.RespondMessage(w, http.StatusOK, msgDeleted)
}

// ListExceptions GET /api/admin/exceptions?date=YYYY-MM-DD
func (h *ScheduleHandler) ListExceptions(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListExceptions(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		h.respondError(w, "GET /admin/exceptions", err)
		return
	}
	if list == nil {
		list = []models.ExceptionResponse{}
	}
	handlers.RespondJSON(w, http.StatusOK, list)
}

// CreateException POST /api/admin/exceptions
func (h *ScheduleHandler) CreateException(w http.ResponseWriter, r *http.Request) {
	var req models.ExceptionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/exceptions - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	created, err := h.service.CreateException(r.Context(), &req)
	if err != nil {
		h.respondError(w, "POST /admin/exceptions", err)
		return
	}

	h.logger.Info("POST /admin/exceptions - Created: id=%d, date=%s", created.ID, created.Date)
	handlers.RespondJSON(w, http.StatusCreated, created)
}

// DeleteException DELETE /api/admin/exceptions/{id}
func (h *ScheduleHandler) DeleteException(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "DELETE /admin/exceptions/{id}")
	if !ok {
		return
	}

	if err := h.service.DeleteException(r.Context(), id); err != nil {
		h.respondError(w, "DELETE /admin/exceptions/{id}", err)
		return
	}

	h.logger.Info("DELETE /admin/exceptions/{id} - Deleted: id=%d", id)
	handlers.RespondMessage(w, http.StatusOK, msgDeleted)
}

// ListResources GET /api/admin/resources
func (h *ScheduleHandler) ListResources(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListResources(r.Context())
	if err != nil {
		h.respondError(w, "GET /admin/resources", err)
		return
	}
	if list == nil {
		list = []models.ResourceResponse{}
	}
	handlers.RespondJSON(w, http.StatusOK, list)
}

// CreateResource POST /api/admin/resources
func (h *ScheduleHandler) CreateResource(w http.ResponseWriter, r *http.Request) {
	var req models.ResourceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/resources - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	created, err := h.service.CreateResource(r.Context(), &req)
	if err != nil {
		h.respondError(w, "POST /admin/resources", err)
		return
	}

	h.logger.Info("POST /admin/resources - Created: id=%d, capacity=%d", created.ID, created.Capacity)
	handlers.RespondJSON(w, http.StatusCreated, created)
}

// UpdateResource PUT /api/admin/resources/{id}
func (h *ScheduleHandler) UpdateResource(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "PUT /admin/resources/{id}")
	if !ok {
		return
	}

	var req models.ResourceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /admin/resources/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	updated, err := h.service.UpdateResource(r.Context(), id, &req)
	if err != nil {
		h.respondError(w, "PUT /admin/resources/{id}", err)
		return
	}

	h.logger.Info("PUT /admin/resources/{id} - Updated: id=%d, active=%t", id, updated.Active)
	handlers.RespondJSON(w, http.StatusOK, updated)
}

func (h *ScheduleHandler) pathID(w http.ResponseWriter, r *http.Request, route string) (int64, bool) {
	id, err := handlers.PathInt64(r, "id")
	if err != nil || id <= 0 {
		h.logger.Warn("%s - Invalid ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidID)
		return 0, false
	}
	return id, true
}

func (h *ScheduleHandler) respondError(w http.ResponseWriter, route string, err error) {
	switch {
	case errors.Is(err, schedule.ErrInvalidInput):
		h.logger.Warn("%s - Invalid data: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidData)

	case errors.Is(err, schedule.ErrBusinessHoursNotFound):
		h.logger.Warn("%s - Business hours not found", route)
		handlers.RespondNotFound(w, msgBusinessHoursMissing)

	case errors.Is(err, schedule.ErrExceptionNotFound):
		h.logger.Warn("%s - Exception not found", route)
		handlers.RespondNotFound(w, msgExceptionMissing)

	case errors.Is(err, schedule.ErrResourceNotFound):
		h.logger.Warn("%s - Resource not found", route)
		handlers.RespondNotFound(w, msgResourceMissing)

	default:
		h.logger.Error("%s - Internal error: %v", route, err)
		handlers.RespondInternalError(w)
	}
}
