package appointments

import (
	"errors"
	"net/http"

	"github.com/m04kA/RC-BookingService/internal/api/handlers"
	"github.com/m04kA/RC-BookingService/internal/api/middleware"
	appointmentService "github.com/m04kA/RC-BookingService/internal/service/appointments"
	"github.com/m04kA/RC-BookingService/internal/service/appointments/models"
)

const (
	msgInvalidID          = "некорректный ID встречи"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные данные встречи"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "встреча не найдена"
	msgForbidden          = "доступ запрещен"
	msgDateTaken          = "это время уже занято"
	msgUserNotFound       = "пользователь не найден"
	msgDeleted            = "встреча удалена"
)

// AppointmentEnvelope HTTP response model
type AppointmentEnvelope struct {
	Appointment *models.AppointmentResponse `json:"appointment"`
}

// Handler обработчики /api/appointments
type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Create POST /api/appointments
// Продавец встречи - текущий пользователь
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	appointment, err := h.service.Create(r.Context(), sellerID, &req)
	if err != nil {
		h.respondError(w, "POST /appointments", err)
		return
	}

	h.logger.Info("POST /appointments - Appointment created: appointment_id=%d, seller_id=%d", appointment.ID, sellerID)
	handlers.RespondJSON(w, http.StatusCreated, AppointmentEnvelope{Appointment: appointment})
}

// ListBySeller GET /api/appointments
func (h *Handler) ListBySeller(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	list, err := h.service.ListBySeller(r.Context(), sellerID)
	if err != nil {
		h.respondError(w, "GET /appointments", err)
		return
	}
	if list == nil {
		list = []models.AppointmentResponse{}
	}

	handlers.RespondJSON(w, http.StatusOK, list)
}

// ListMine GET /api/appointments/my
// Встречи, где клиент - текущий пользователь (по email)
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	list, err := h.service.ListMine(r.Context(), userID)
	if err != nil {
		h.respondError(w, "GET /appointments/my", err)
		return
	}
	if list == nil {
		list = []models.AppointmentResponse{}
	}

	handlers.RespondJSON(w, http.StatusOK, list)
}

// UpdateStatus PUT /api/appointments/{id}/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, actor, ok := h.target(w, r, "PUT /appointments/{id}/status")
	if !ok {
		return
	}

	var req models.UpdateStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /appointments/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	appointment, err := h.service.UpdateStatus(r.Context(), id, actor, &req)
	if err != nil {
		h.respondError(w, "PUT /appointments/{id}/status", err)
		return
	}

	h.logger.Info("PUT /appointments/{id}/status - Status updated: appointment_id=%d, status=%s", id, appointment.Status)
	handlers.RespondJSON(w, http.StatusOK, AppointmentEnvelope{Appointment: appointment})
}

// Delete DELETE /api/appointments/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, actor, ok := h.target(w, r, "DELETE /appointments/{id}")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id, actor); err != nil {
		h.respondError(w, "DELETE /appointments/{id}", err)
		return
	}

	h.logger.Info("DELETE /appointments/{id} - Appointment deleted: appointment_id=%d, user_id=%d", id, actor.UserID)
	handlers.RespondMessage(w, http.StatusOK, msgDeleted)
}

// target разбирает ID встречи из пути и пользователя из контекста
func (h *Handler) target(w http.ResponseWriter, r *http.Request, route string) (int64, models.Actor, bool) {
	id, err := handlers.PathInt64(r, "id")
	if err != nil || id <= 0 {
		h.logger.Warn("%s - Invalid appointment ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidID)
		return 0, models.Actor{}, false
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return 0, models.Actor{}, false
	}

	return id, models.Actor{UserID: userID, IsAdmin: middleware.IsAdmin(r.Context())}, true
}

func (h *Handler) respondError(w http.ResponseWriter, route string, err error) {
	switch {
	case errors.Is(err, appointmentService.ErrDateTaken):
		h.logger.Warn("%s - Date taken", route)
		handlers.RespondConflict(w, msgDateTaken)

	case errors.Is(err, appointmentService.ErrAppointmentNotFound):
		h.logger.Warn("%s - Appointment not found", route)
		handlers.RespondNotFound(w, msgNotFound)

	case errors.Is(err, appointmentService.ErrUserNotFound):
		handlers.RespondNotFound(w, msgUserNotFound)

	case errors.Is(err, appointmentService.ErrAccessDenied):
		h.logger.Warn("%s - Access denied", route)
		handlers.RespondForbidden(w, msgForbidden)

	case errors.Is(err, appointmentService.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidInput)

	default:
		h.logger.Error("%s - Internal error: %v", route, err)
		handlers.RespondInternalError(w)
	}
}
