package update_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/RC-BookingService/internal/domain"
)

// validateRequest валидирует входные данные и разбирает новый статус
func validateRequest(req *Request) (*domain.BookingStatus, error) {
	if req.BookingID <= 0 {
		return nil, fmt.Errorf("%w: booking id must be positive", ErrInvalidInput)
	}

	if req.isEmpty() {
		return nil, ErrNothingToUpdate
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return nil, fmt.Errorf("%w: notes must not exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	if req.ServiceID != nil && *req.ServiceID <= 0 {
		return nil, fmt.Errorf("%w: serviceId must be positive", ErrInvalidInput)
	}

	if req.ResourceID != nil && *req.ResourceID <= 0 {
		return nil, fmt.Errorf("%w: resourceId must be positive", ErrInvalidInput)
	}

	if req.Status == nil {
		return nil, nil
	}

	status, err := domain.ParseBookingStatus(*req.Status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStatus, err)
	}
	return &status, nil
}

// authorize проверяет права на изменение
//
// Любое изменение - владелец или админ; отмена - владелец или админ; другие статусы - только админ;
// клиент не может менять бронирование, которое уже началось.
func authorize(req *Request, booking *domain.Booking, status *domain.BookingStatus, now time.Time) error {
	if !req.ActorIsAdmin && !booking.IsOwnedBy(req.ActorID) {
		return fmt.Errorf("%w: user=%d is not the owner of booking id=%d", ErrAccessDenied, req.ActorID, booking.ID)
	}

	if status != nil && *status != domain.StatusCancelled && !req.ActorIsAdmin {
		return fmt.Errorf("%w: only admin can set status %s", ErrAccessDenied, *status)
	}

	if !req.ActorIsAdmin && booking.HasStarted(now) {
		return ErrPastBooking
	}

	return nil
}
