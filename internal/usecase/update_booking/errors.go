package update_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("update_booking: booking not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав на изменение
	ErrAccessDenied = errors.New("update_booking: access denied")

	// ErrPastBooking возвращается при попытке клиента изменить уже начавшееся бронирование
	ErrPastBooking = errors.New("update_booking: cannot modify or cancel past bookings")

	// ErrNothingToUpdate возвращается, когда в запросе нет изменяемых полей
	ErrNothingToUpdate = errors.New("update_booking: nothing to update")

	// ErrInvalidStatus возвращается при неизвестном статусе
	ErrInvalidStatus = errors.New("update_booking: invalid status")

	// ErrInvalidTransition возвращается при недопустимом переходе статуса
	ErrInvalidTransition = errors.New("update_booking: invalid status transition")

	// ErrNotReschedulable возвращается при переносе завершенного, отмененного или отклоненного бронирования
	ErrNotReschedulable = errors.New("update_booking: booking can no longer be rescheduled")

	// ErrStartInPast возвращается при переносе на время в прошлом
	ErrStartInPast = errors.New("update_booking: start is in the past")

	// ErrServiceNotFound возвращается, когда услуга не найдена или неактивна
	ErrServiceNotFound = errors.New("update_booking: service not found")

	// ErrResourceNotFound возвращается, когда ресурс не найден или неактивен
	ErrResourceNotFound = errors.New("update_booking: resource not found")

	// ErrSlotNotAvailable возвращается, когда новый слот недоступен
	ErrSlotNotAvailable = errors.New("update_booking: slot is not available")

	// ErrNoResourceConfigured возвращается, когда не настроен ни один активный ресурс
	ErrNoResourceConfigured = errors.New("update_booking: no resource configured")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("update_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("update_booking: internal error")
)
