package get_availability

import (
	"errors"
	"net/http"

	"github.com/m04kA/RC-BookingService/internal/api/handlers"
	getAvailability "github.com/m04kA/RC-BookingService/internal/usecase/get_availability"
)

const (
	msgInvalidQuery     = "некорректные параметры запроса"
	msgMissingDate      = "дата обязательна"
	msgMissingServiceID = "ID услуги обязателен"
	msgInvalidDate      = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidStep      = "некорректный шаг слотов"
	msgServiceNotFound  = "услуга не найдена"
	msgResourceNotFound = "ресурс не найден"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/availability
// Query params: date (required, YYYY-MM-DD), serviceId (required), resourceId, step
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	useCaseReq, err := ToUseCaseRequest(r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /availability - Invalid query: %v", err)
		switch {
		case errors.Is(err, errMissingDate):
			handlers.RespondBadRequest(w, msgMissingDate)
		case errors.Is(err, errMissingServiceID):
			handlers.RespondBadRequest(w, msgMissingServiceID)
		case errors.Is(err, errInvalidStep):
			handlers.RespondBadRequest(w, msgInvalidStep)
		default:
			handlers.RespondBadRequest(w, msgInvalidQuery)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrInvalidDate):
			h.logger.Warn("GET /availability - Invalid date: date=%s", useCaseReq.Date)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, getAvailability.ErrInvalidStep):
			h.logger.Warn("GET /availability - Invalid step: step=%d", useCaseReq.StepMinutes)
			handlers.RespondBadRequest(w, msgInvalidStep)

		case errors.Is(err, getAvailability.ErrInvalidInput):
			h.logger.Warn("GET /availability - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidQuery)

		case errors.Is(err, getAvailability.ErrServiceNotFound):
			h.logger.Warn("GET /availability - Service not found: service_id=%d", useCaseReq.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailability.ErrResourceNotFound):
			h.logger.Warn("GET /availability - Resource not found: resource_id=%v", useCaseReq.ResourceID)
			handlers.RespondNotFound(w, msgResourceNotFound)

		default:
			h.logger.Error("GET /availability - Failed to get slots: date=%s, service_id=%d, error=%v",
				useCaseReq.Date, useCaseReq.ServiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /availability - Slots retrieved successfully: date=%s, service_id=%d, slots_count=%d",
		useCaseReq.Date, useCaseReq.ServiceID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
