package create_booking

import (
	"fmt"
	"time"

	bookingModels "github.com/m04kA/RC-BookingService/internal/service/bookings/models"
	createBooking "github.com/m04kA/RC-BookingService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ServiceID    int64   `json:"serviceId"`
	ResourceID   *int64  `json:"resourceId,omitempty"`
	StartAt      string  `json:"startAt"` // RFC 3339, например "2025-10-15T10:00:00+03:00"
	Notes        *string `json:"notes,omitempty"`
	VehicleType  *string `json:"vehicleType,omitempty"`
	LicensePlate *string `json:"licensePlate,omitempty"`
}

// BookingEnvelope HTTP response model
type BookingEnvelope struct {
	Booking *bookingModels.BookingResponse `json:"booking"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(userID int64) (*createBooking.Request, error) {
	startAt, err := time.Parse(time.RFC3339, r.StartAt)
	if err != nil {
		return nil, fmt.Errorf("startAt: %w", err)
	}

	return &createBooking.Request{
		UserID:       userID,
		ServiceID:    r.ServiceID,
		ResourceID:   r.ResourceID,
		StartAt:      startAt,
		Notes:        r.Notes,
		VehicleType:  r.VehicleType,
		LicensePlate: r.LicensePlate,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingEnvelope {
	return &BookingEnvelope{Booking: bookingModels.FromDomainBooking(resp.Booking)}
}
