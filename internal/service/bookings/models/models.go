package models

import (
	"time"

	"github.com/m04kA/RC-BookingService/internal/domain"
)

// Actor пользователь, выполняющий запрос
type Actor struct {
	UserID  int64
	IsAdmin bool
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID              int64   `json:"id"`
	UserID          int64   `json:"userId"`
	ServiceID       int64   `json:"serviceId"`
	ServiceTitle    *string `json:"serviceTitle,omitempty"`
	ResourceID      *int64  `json:"resourceId"`
	StartAt         string  `json:"startAt"` // RFC 3339
	EndAt           string  `json:"endAt"`
	DurationMinutes int     `json:"durationMinutes"`
	TotalPrice      float64 `json:"totalPrice"`
	Status          string  `json:"status"`
	Notes           *string `json:"notes,omitempty"`
	VehicleType     *string `json:"vehicleType,omitempty"`
	LicensePlate    *string `json:"licensePlate,omitempty"`

	CanceledBy *int64  `json:"canceledBy,omitempty"`
	CanceledAt *string `json:"canceledAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:              b.ID,
		UserID:          b.UserID,
		ServiceID:       b.ServiceID,
		ServiceTitle:    b.ServiceTitle,
		ResourceID:      b.ResourceID,
		StartAt:         b.StartAt.Format(time.RFC3339),
		EndAt:           b.EndAt.Format(time.RFC3339),
		DurationMinutes: b.DurationMinutes,
		TotalPrice:      b.TotalPrice,
		Status:          string(b.Status),
		Notes:           b.Notes,
		VehicleType:     b.VehicleType,
		LicensePlate:    b.LicensePlate,
		CanceledBy:      b.CanceledBy,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}

	if b.CanceledAt != nil {
		canceled := b.CanceledAt.Format(time.RFC3339)
		resp.CanceledAt = &canceled
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}
