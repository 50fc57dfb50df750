package create_booking

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена или неактивна
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrResourceNotFound возвращается, когда ресурс не найден или неактивен
	ErrResourceNotFound = errors.New("create_booking: resource not found")

	// ErrSlotNotAvailable возвращается, когда выбранный слот недоступен (все места заняты)
	ErrSlotNotAvailable = errors.New("create_booking: slot is not available")

	// ErrStartInPast возвращается при попытке забронировать время в прошлом
	ErrStartInPast = errors.New("create_booking: start is in the past")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrNoResourceConfigured возвращается, когда не настроен ни один активный ресурс
	ErrNoResourceConfigured = errors.New("create_booking: no resource configured")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
