package update_booking

import (
	"fmt"
	"time"

	bookingModels "github.com/m04kA/RC-BookingService/internal/service/bookings/models"
	updateBooking "github.com/m04kA/RC-BookingService/internal/usecase/update_booking"
)

// UpdateBookingRequest HTTP request model, отсутствующие поля не меняются
type UpdateBookingRequest struct {
	Status       *string `json:"status,omitempty"`
	Notes        *string `json:"notes,omitempty"`
	StartAt      *string `json:"startAt,omitempty"` // RFC 3339
	ResourceID   *int64  `json:"resourceId,omitempty"`
	ServiceID    *int64  `json:"serviceId,omitempty"`
	VehicleType  *string `json:"vehicleType,omitempty"`
	LicensePlate *string `json:"licensePlate,omitempty"`
}

// BookingEnvelope HTTP response model
type BookingEnvelope struct {
	Booking *bookingModels.BookingResponse `json:"booking"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *UpdateBookingRequest) ToUseCaseRequest(bookingID int64, actor bookingModels.Actor) (*updateBooking.Request, error) {
	req := &updateBooking.Request{
		BookingID:    bookingID,
		ActorID:      actor.UserID,
		ActorIsAdmin: actor.IsAdmin,
		Status:       r.Status,
		Notes:        r.Notes,
		ResourceID:   r.ResourceID,
		ServiceID:    r.ServiceID,
		VehicleType:  r.VehicleType,
		LicensePlate: r.LicensePlate,
	}

	if r.StartAt != nil {
		startAt, err := time.Parse(time.RFC3339, *r.StartAt)
		if err != nil {
			return nil, fmt.Errorf("startAt: %w", err)
		}
		req.StartAt = &startAt
	}
	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *updateBooking.Response) *BookingEnvelope {
	return &BookingEnvelope{Booking: bookingModels.FromDomainBooking(resp.Booking)}
}
