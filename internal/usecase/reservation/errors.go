package reservation

import "errors"

var (
	// ErrSlotNotAvailable возвращается, когда вместимость ресурса на интервале исчерпана
	ErrSlotNotAvailable = errors.New("reservation: slot is not available")

	// ErrResourceNotFound возвращается, когда указанный ресурс не найден или неактивен
	ErrResourceNotFound = errors.New("reservation: resource not found")

	// ErrNoResourceConfigured возвращается, когда нет ни одного активного ресурса
	ErrNoResourceConfigured = errors.New("reservation: no resource configured")

	// ErrInternal возвращается при ошибках хранилища
	ErrInternal = errors.New("reservation: internal error")
)
