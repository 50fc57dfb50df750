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

// CreateAppointmentRequest запрос на создание встречи
type CreateAppointmentRequest struct {
	ClientName      string `json:"clientName"`
	ClientEmail     string `json:"clientEmail"`
	Type            int64  `json:"type"`
	AppointmentDate string `json:"appointmentDate"` // RFC 3339 или "2006-01-02 15:04[:05]" в часовом поясе бизнеса
	Notes           string `json:"notes"`
}

// UpdateStatusRequest запрос на смену статуса
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// AppointmentResponse встреча
type AppointmentResponse struct {
	ID              int64   `json:"id"`
	ClientName      string  `json:"clientName"`
	ClientEmail     string  `json:"clientEmail"`
	ClientPhone     *string `json:"phone,omitempty"`
	Type            int64   `json:"appointmentTypeId"`
	AppointmentDate string  `json:"appointmentDate"`
	Notes           string  `json:"notes"`
	Status          string  `json:"status"`
	SellerID        int64   `json:"sellerId"`
	CreatedAt       string  `json:"createdAt"`
}

// FromDomainAppointment конвертирует domain модель в DTO
// Дата встречи - в часовом поясе бизнеса
func FromDomainAppointment(a *domain.Appointment, loc *time.Location) AppointmentResponse {
	return AppointmentResponse{
		ID:              a.ID,
		ClientName:      a.ClientName,
		ClientEmail:     a.ClientEmail,
		ClientPhone:     a.ClientPhone,
		Type:            a.AppointmentTypeID,
		AppointmentDate: a.AppointmentDate.In(loc).Format("2006-01-02 15:04:05"),
		Notes:           a.Notes,
		Status:          string(a.Status),
		SellerID:        a.SellerID,
		CreatedAt:       a.CreatedAt.Format(time.RFC3339),
	}
}

// FromDomainAppointmentList конвертирует список встреч
func FromDomainAppointmentList(list []*domain.Appointment, loc *time.Location) []AppointmentResponse {
	out := make([]AppointmentResponse, 0, len(list))
	for _, a := range list {
		out = append(out, FromDomainAppointment(a, loc))
	}
	return out
}
