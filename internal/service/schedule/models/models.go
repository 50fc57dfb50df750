package models

import (
	"time"

	"github.com/m04kA/RC-BookingService/internal/domain"
)

// BusinessHoursRequest запрос на добавление часов работы
// Weekday принимается в обеих нумерациях: 0-6 (воскресенье = 0) и 1-7 (воскресенье = 7)
type BusinessHoursRequest struct {
	Weekday    int    `json:"weekday"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
	ResourceID *int64 `json:"resourceId,omitempty"`
}

// BusinessHoursResponse часы работы
type BusinessHoursResponse struct {
	ID         int64  `json:"id"`
	Weekday    int    `json:"weekday"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
	ResourceID *int64 `json:"resourceId"`
}

// ExceptionRequest запрос на добавление исключения
// Без startTime/endTime и с isClosed - закрыто весь день
type ExceptionRequest struct {
	Date       string  `json:"date"` // YYYY-MM-DD
	ResourceID *int64  `json:"resourceId,omitempty"`
	IsClosed   bool    `json:"isClosed"`
	StartTime  *string `json:"startTime,omitempty"`
	EndTime    *string `json:"endTime,omitempty"`
	Reason     *string `json:"reason,omitempty"`
}

// ExceptionResponse исключение расписания
type ExceptionResponse struct {
	ID         int64   `json:"id"`
	Date       string  `json:"date"`
	ResourceID *int64  `json:"resourceId"`
	IsClosed   bool    `json:"isClosed"`
	StartTime  *string `json:"startTime"`
	EndTime    *string `json:"endTime"`
	Reason     *string `json:"reason"`
}

// ResourceRequest запрос на создание или изменение ресурса
type ResourceRequest struct {
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
	Active   *bool  `json:"active,omitempty"` // по умолчанию true
}

// ResourceResponse ресурс
type ResourceResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Capacity  int       `json:"capacity"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

// FromDomainBusinessHours конвертирует domain модель в DTO
func FromDomainBusinessHours(h *domain.BusinessHours) BusinessHoursResponse {
	return BusinessHoursResponse{
		ID:         h.ID,
		Weekday:    int(h.Weekday),
		StartTime:  h.StartTime.String(),
		EndTime:    h.EndTime.String(),
		ResourceID: h.ResourceID,
	}
}

// FromDomainException конвертирует domain модель в DTO
func FromDomainException(e *domain.AvailabilityException) ExceptionResponse {
	resp := ExceptionResponse{
		ID:         e.ID,
		Date:       e.Date.Format(domain.DateFormat),
		ResourceID: e.ResourceID,
		IsClosed:   e.IsClosed,
		Reason:     e.Reason,
	}
	if e.StartTime != nil {
		s := e.StartTime.String()
		resp.StartTime = &s
	}
	if e.EndTime != nil {
		s := e.EndTime.String()
		resp.EndTime = &s
	}
	return resp
}

// FromDomainResource конвертирует domain модель в DTO
func FromDomainResource(r *domain.Resource) ResourceResponse {
	return ResourceResponse{
		ID:        r.ID,
		Name:      r.Name,
		Capacity:  r.Capacity,
		Active:    r.Active,
		CreatedAt: r.CreatedAt,
	}
}
