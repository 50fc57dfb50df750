package appointments

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда встреча не найдена
	ErrAppointmentNotFound = errors.New("appointments: appointment not found")

	// ErrDateTaken возвращается, когда на это время уже есть встреча
	ErrDateTaken = errors.New("appointments: slot already booked")

	// ErrAccessDenied возвращается, когда пользователь не продавец встречи и не админ
	ErrAccessDenied = errors.New("appointments: access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("appointments: invalid input data")

	// ErrUserNotFound возвращается, когда пользователь не найден
	ErrUserNotFound = errors.New("appointments: user not found")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("appointments: internal error")
)
