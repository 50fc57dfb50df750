package update_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/RC-BookingService/internal/api/handlers"
	"github.com/m04kA/RC-BookingService/internal/api/middleware"
	bookingModels "github.com/m04kA/RC-BookingService/internal/service/bookings/models"
	updateBooking "github.com/m04kA/RC-BookingService/internal/usecase/update_booking"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidStartAt     = "некорректный формат startAt, ожидается RFC 3339"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "бронирование не найдено"
	msgForbidden          = "доступ запрещен"
	msgPastBooking        = "нельзя изменить или отменить прошедшее бронирование"
	msgNothingToUpdate    = "нет полей для изменения"
	msgInvalidStatus      = "некорректный статус"
	msgInvalidTransition  = "недопустимый переход статуса"
	msgNotReschedulable   = "бронирование больше нельзя перенести"
	msgStartInPast        = "нельзя перенести бронирование в прошлое"
	msgServiceNotFound    = "услуга не найдена"
	msgResourceNotFound   = "ресурс не найден"
	msgSlotNotAvailable   = "slot not available"
	msgInvalidInput       = "некорректные данные бронирования"
)

type Handler struct {
	useCase UpdateBookingUseCase
	logger  Logger
}

func NewHandler(useCase UpdateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PUT /api/bookings/{id}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathInt64(r, "id")
	if err != nil {
		h.logger.Warn("PUT /bookings/{id} - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /bookings/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}
	actor := bookingModels.Actor{UserID: userID, IsAdmin: middleware.IsAdmin(r.Context())}

	var req UpdateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /bookings/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(bookingID, actor)
	if err != nil {
		h.logger.Warn("PUT /bookings/{id} - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStartAt)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, updateBooking.ErrSlotNotAvailable):
			h.logger.Warn("PUT /bookings/{id} - Slot not available: booking_id=%d, user_id=%d", bookingID, userID)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, updateBooking.ErrBookingNotFound):
			h.logger.Warn("PUT /bookings/{id} - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, updateBooking.ErrServiceNotFound):
			h.logger.Warn("PUT /bookings/{id} - Service not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, updateBooking.ErrResourceNotFound):
			h.logger.Warn("PUT /bookings/{id} - Resource not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, updateBooking.ErrAccessDenied):
			h.logger.Warn("PUT /bookings/{id} - Access denied: booking_id=%d, user_id=%d", bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, updateBooking.ErrPastBooking):
			h.logger.Warn("PUT /bookings/{id} - Past booking: booking_id=%d, user_id=%d", bookingID, userID)
			handlers.RespondBadRequest(w, msgPastBooking)

		case errors.Is(err, updateBooking.ErrNothingToUpdate):
			handlers.RespondBadRequest(w, msgNothingToUpdate)

		case errors.Is(err, updateBooking.ErrInvalidStatus):
			handlers.RespondBadRequest(w, msgInvalidStatus)

		case errors.Is(err, updateBooking.ErrInvalidTransition):
			h.logger.Warn("PUT /bookings/{id} - Invalid transition: booking_id=%d, status=%v", bookingID, req.Status)
			handlers.RespondBadRequest(w, msgInvalidTransition)

		case errors.Is(err, updateBooking.ErrNotReschedulable):
			handlers.RespondBadRequest(w, msgNotReschedulable)

		case errors.Is(err, updateBooking.ErrStartInPast):
			handlers.RespondBadRequest(w, msgStartInPast)

		case errors.Is(err, updateBooking.ErrInvalidInput):
			h.logger.Warn("PUT /bookings/{id} - Invalid input: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PUT /bookings/{id} - Failed to update booking: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /bookings/{id} - Booking updated successfully: booking_id=%d, user_id=%d, status=%s",
		bookingID, userID, result.Booking.Status)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
